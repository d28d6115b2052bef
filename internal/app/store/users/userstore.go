package userstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/strand/internal/app/system/apperr"
	"github.com/dalemusser/strand/internal/app/system/normalize"
	"github.com/dalemusser/strand/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the users collection.
//
// Error translation happens here: mongo.ErrNoDocuments becomes
// apperr.ErrNotFound, duplicate-key becomes apperr.ErrConflict, and a Store
// built without a database answers apperr.ErrUnavailable.
type Store struct {
	c *mongo.Collection
}

// New creates a user store. A nil database is allowed; the store then fails
// every call with apperr.ErrUnavailable (degraded mode, no Mongo URI).
func New(db *mongo.Database) *Store {
	if db == nil {
		return &Store{}
	}
	return &Store{c: db.Collection("users")}
}

// Profile holds the editable profile fields for an upsert.
type Profile struct {
	Name      string
	Username  string
	Bio       string
	AvatarURL string
}

// Upsert creates or updates the user owned by the given external auth ID.
// The username is folded to its lowercase form, the onboarded flag is set,
// and the updated document is returned. A username held by another user
// yields apperr.ErrConflict.
func (s *Store) Upsert(ctx context.Context, authID string, p Profile) (*models.User, error) {
	if s.c == nil {
		return nil, apperr.ErrUnavailable
	}

	now := time.Now().UTC()
	filter := bson.M{"auth_id": authID}
	update := bson.M{
		"$set": bson.M{
			"name":       normalize.Name(p.Name),
			"username":   normalize.Username(p.Username),
			"bio":        normalize.Bio(p.Bio),
			"avatar_url": p.AvatarURL,
			"onboarded":  true,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID(),
			"auth_id":    authID,
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var u models.User
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&u); err != nil {
		if wafflemongo.IsDup(err) {
			return nil, fmt.Errorf("username %q taken: %w", p.Username, apperr.ErrConflict)
		}
		return nil, err
	}
	return &u, nil
}

// GetByAuthID loads a user by the external identity provider's ID.
func (s *Store) GetByAuthID(ctx context.Context, authID string) (*models.User, error) {
	if s.c == nil {
		return nil, apperr.ErrUnavailable
	}
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"auth_id": authID}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %q: %w", authID, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &u, nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if s.c == nil {
		return nil, apperr.ErrUnavailable
	}
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", id.Hex(), apperr.ErrNotFound)
		}
		return nil, err
	}
	return &u, nil
}

// GetByIDs loads the users whose IDs appear in ids. Missing IDs are simply
// absent from the result; the caller decides whether that matters.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
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
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// searchFilter matches users against a free-text term (case-insensitive
// over username and name; blank matches everyone), excluding the caller's
// external auth ID. The term is quoted so user input cannot inject regex
// syntax.
func searchFilter(term, excludeAuthID string) bson.M {
	filter := bson.M{"auth_id": bson.M{"$ne": excludeAuthID}}
	if term = strings.TrimSpace(term); term != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"username": re},
			bson.M{"name": re},
		}
	}
	return filter
}

// Search returns one page of the user directory matching term, newest
// first. excludeAuthID keeps the caller out of their own results.
func (s *Store) Search(ctx context.Context, term, excludeAuthID string, skip int, limit int64) ([]models.User, error) {
	if s.c == nil {
		return nil, apperr.ErrUnavailable
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, searchFilter(term, excludeAuthID), opts)
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CountMatching counts the users Search would return across all pages.
func (s *Store) CountMatching(ctx context.Context, term, excludeAuthID string) (int64, error) {
	if s.c == nil {
		return 0, apperr.ErrUnavailable
	}
	return s.c.CountDocuments(ctx, searchFilter(term, excludeAuthID))
}

// AppendThread appends a thread ID to the user's authorship list.
// Append-only: the list preserves authorship order and is never rewritten.
func (s *Store) AppendThread(ctx context.Context, userID, threadID primitive.ObjectID) error {
	if s.c == nil {
		return apperr.ErrUnavailable
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$push": bson.M{"thread_ids": threadID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", userID.Hex(), apperr.ErrNotFound)
	}
	return nil
}
