package communitystore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/strand/internal/app/system/apperr"
	"github.com/dalemusser/strand/internal/app/system/normalize"
	"github.com/dalemusser/strand/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store provides access to the communities collection.
type Store struct {
	c *mongo.Collection
}

// New creates a community store. A nil database yields a degraded store
// that answers apperr.ErrUnavailable.
func New(db *mongo.Database) *Store {
	if db == nil {
		return &Store{}
	}
	return &Store{c: db.Collection("communities")}
}

// Create inserts a new community. When externalID is blank a UUID is minted
// so the rendering layer always has a stable external handle.
func (s *Store) Create(ctx context.Context, externalID, name string) (models.Community, error) {
	if s.c == nil {
		return models.Community{}, apperr.ErrUnavailable
	}

	if externalID == "" {
		externalID = uuid.NewString()
	}
	now := time.Now().UTC()
	community := models.Community{
		ID:         primitive.NewObjectID(),
		ExternalID: externalID,
		Name:       normalize.Name(name),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.c.InsertOne(ctx, community); err != nil {
		return models.Community{}, err
	}
	return community, nil
}

// GetByExternalID loads a community by its external-facing ID.
func (s *Store) GetByExternalID(ctx context.Context, externalID string) (*models.Community, error) {
	if s.c == nil {
		return nil, apperr.ErrUnavailable
	}
	var c models.Community
	if err := s.c.FindOne(ctx, bson.M{"external_id": externalID}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("community %q: %w", externalID, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &c, nil
}

// GetByID loads a community by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Community, error) {
	if s.c == nil {
		return nil, apperr.ErrUnavailable
	}
	var c models.Community
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("community %s: %w", id.Hex(), apperr.ErrNotFound)
		}
		return nil, err
	}
	return &c, nil
}

// GetByIDs loads the communities whose IDs appear in ids.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Community, error) {
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
	var communities []models.Community
	if err := cur.All(ctx, &communities); err != nil {
		return nil, err
	}
	return communities, nil
}

// AppendThread appends a thread ID to the community's back-reference list.
func (s *Store) AppendThread(ctx context.Context, communityID, threadID primitive.ObjectID) error {
	if s.c == nil {
		return apperr.ErrUnavailable
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": communityID},
		bson.M{
			"$push": bson.M{"thread_ids": threadID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("community %s: %w", communityID.Hex(), apperr.ErrNotFound)
	}
	return nil
}
