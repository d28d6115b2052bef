package threadstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/strand/internal/app/system/apperr"
	"github.com/dalemusser/strand/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// topLevel matches threads with no parent. $in with null also matches
// documents where the field is entirely absent.
var topLevel = bson.M{"parent_id": bson.M{"$in": bson.A{nil}}}

// Store provides access to the threads collection: the arena of thread
// records whose parent/child linkage forms the reply tree.
type Store struct {
	c *mongo.Collection
}

// New creates a thread store. A nil database yields a degraded store that
// answers apperr.ErrUnavailable.
func New(db *mongo.Database) *Store {
	if db == nil {
		return &Store{}
	}
	return &Store{c: db.Collection("threads")}
}

// Insert persists a new thread (post or reply) and returns it with its
// assigned ID and creation time.
func (s *Store) Insert(ctx context.Context, t models.Thread) (models.Thread, error) {
	if s.c == nil {
		return models.Thread{}, apperr.ErrUnavailable
	}
	t.ID = primitive.NewObjectID()
	t.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Thread{}, err
	}
	return t, nil
}

// GetByID loads a thread by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Thread, error) {
	if s.c == nil {
		return nil, apperr.ErrUnavailable
	}
	var t models.Thread
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("thread %s: %w", id.Hex(), apperr.ErrNotFound)
		}
		return nil, err
	}
	return &t, nil
}

// GetByIDs loads the threads whose IDs appear in ids. Missing IDs are
// absent from the result.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Thread, error) {
	if s.c == nil {
		return nil, apperr.ErrUnavailable
	}
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var threads []models.Thread
	if err := cur.All(ctx, &threads); err != nil {
		return nil, err
	}
	return threads, nil
}

// FindTopLevel returns top-level threads ordered by creation time
// descending, skipping skip documents and returning at most limit.
func (s *Store) FindTopLevel(ctx context.Context, skip int, limit int64) ([]models.Thread, error) {
	if s.c == nil {
		return nil, apperr.ErrUnavailable
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, topLevel, opts)
	if err != nil {
		return nil, err
	}
	var threads []models.Thread
	if err := cur.All(ctx, &threads); err != nil {
		return nil, err
	}
	return threads, nil
}

// CountTopLevel counts all top-level threads.
func (s *Store) CountTopLevel(ctx context.Context) (int64, error) {
	if s.c == nil {
		return 0, apperr.ErrUnavailable
	}
	return s.c.CountDocuments(ctx, topLevel)
}

// FindByAuthor returns every thread (posts and replies) authored by userID,
// in store order.
func (s *Store) FindByAuthor(ctx context.Context, userID primitive.ObjectID) ([]models.Thread, error) {
	if s.c == nil {
		return nil, apperr.ErrUnavailable
	}
	cur, err := s.c.Find(ctx, bson.M{"author_id": userID})
	if err != nil {
		return nil, err
	}
	var threads []models.Thread
	if err := cur.All(ctx, &threads); err != nil {
		return nil, err
	}
	return threads, nil
}

// FindRepliesIn returns the threads whose ID appears in ids and whose
// author is not excludeAuthor. Used by the activity feed to drop
// self-replies.
func (s *Store) FindRepliesIn(ctx context.Context, ids []primitive.ObjectID, excludeAuthor primitive.ObjectID) ([]models.Thread, error) {
	if s.c == nil {
		return nil, apperr.ErrUnavailable
	}
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{
		"_id":       bson.M{"$in": ids},
		"author_id": bson.M{"$ne": excludeAuthor},
	})
	if err != nil {
		return nil, err
	}
	var threads []models.Thread
	if err := cur.All(ctx, &threads); err != nil {
		return nil, err
	}
	return threads, nil
}

// AppendChild appends a reply's ID to the parent's ordered children list.
func (s *Store) AppendChild(ctx context.Context, parentID, childID primitive.ObjectID) error {
	if s.c == nil {
		return apperr.ErrUnavailable
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": parentID},
		bson.M{"$push": bson.M{"child_ids": childID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("thread %s: %w", parentID.Hex(), apperr.ErrNotFound)
	}
	return nil
}

// AddLike adds userID to the thread's like set. $addToSet keeps the set
// free of duplicates no matter how calls interleave.
func (s *Store) AddLike(ctx context.Context, threadID, userID primitive.ObjectID) error {
	return s.updateLike(ctx, threadID, bson.M{"$addToSet": bson.M{"liked_by": userID}})
}

// RemoveLike removes userID from the thread's like set. Removing an absent
// member is a no-op.
func (s *Store) RemoveLike(ctx context.Context, threadID, userID primitive.ObjectID) error {
	return s.updateLike(ctx, threadID, bson.M{"$pull": bson.M{"liked_by": userID}})
}

func (s *Store) updateLike(ctx context.Context, threadID primitive.ObjectID, update bson.M) error {
	if s.c == nil {
		return apperr.ErrUnavailable
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": threadID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("thread %s: %w", threadID.Hex(), apperr.ErrNotFound)
	}
	return nil
}

// Likes returns the thread's like set (user IDs, order not meaningful).
func (s *Store) Likes(ctx context.Context, threadID primitive.ObjectID) ([]primitive.ObjectID, error) {
	if s.c == nil {
		return nil, apperr.ErrUnavailable
	}
	var doc struct {
		LikedBy []primitive.ObjectID `bson:"liked_by"`
	}
	opts := options.FindOne().SetProjection(bson.M{"liked_by": 1})
	if err := s.c.FindOne(ctx, bson.M{"_id": threadID}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("thread %s: %w", threadID.Hex(), apperr.ErrNotFound)
		}
		return nil, err
	}
	return doc.LikedBy, nil
}
