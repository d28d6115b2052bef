// Package threadsvc orchestrates thread creation and reply insertion: the
// writes that touch more than one document and carry the tree invariants.
package threadsvc

import (
	"context"
	"errors"
	"fmt"

	communitystore "github.com/dalemusser/strand/internal/app/store/communities"
	threadstore "github.com/dalemusser/strand/internal/app/store/threads"
	userstore "github.com/dalemusser/strand/internal/app/store/users"
	"github.com/dalemusser/strand/internal/app/system/apperr"
	"github.com/dalemusser/strand/internal/app/system/revalidate"
	"github.com/dalemusser/strand/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Service creates threads and replies.
//
// The multi-document sequences here are NOT transactional. Create writes
// thread → author → community in order; AddReply writes reply → parent. A
// failure partway through leaves the earlier writes in place and surfaces
// only the failing step's error. Mongo offers no referential integrity for
// these back-references, so a crash between steps leaves a reachable but
// unreferenced document. That gap is accepted; callers get a loud, specific
// error rather than a rollback.
type Service struct {
	threads     *threadstore.Store
	users       *userstore.Store
	communities *communitystore.Store
	hints       revalidate.Hinter
	log         *zap.Logger
}

// New builds the thread service over the shared database handle.
func New(db *mongo.Database, hints revalidate.Hinter, logger *zap.Logger) *Service {
	return &Service{
		threads:     threadstore.New(db),
		users:       userstore.New(db),
		communities: communitystore.New(db),
		hints:       hints,
		log:         logger,
	}
}

// Create makes a new top-level thread authored by authorID.
//
// communityExternalID is optional: blank, or an ID that resolves to no
// community, produces a thread without one. After the thread is persisted
// its ID is appended to the author's thread list and, when resolved, the
// community's. The home feed gets a revalidation hint on success.
func (s *Service) Create(ctx context.Context, text string, authorID primitive.ObjectID, communityExternalID string) (models.Thread, error) {
	var communityID *primitive.ObjectID
	if communityExternalID != "" {
		community, err := s.communities.GetByExternalID(ctx, communityExternalID)
		switch {
		case err == nil:
			communityID = &community.ID
		case errors.Is(err, apperr.ErrNotFound):
			s.log.Debug("community not found, creating thread without one",
				zap.String("community_external_id", communityExternalID))
		default:
			return models.Thread{}, fmt.Errorf("resolving community: %w", err)
		}
	}

	thread, err := s.threads.Insert(ctx, models.Thread{
		Text:        text,
		AuthorID:    authorID,
		CommunityID: communityID,
	})
	if err != nil {
		return models.Thread{}, fmt.Errorf("inserting thread: %w", err)
	}

	if err := s.users.AppendThread(ctx, authorID, thread.ID); err != nil {
		return models.Thread{}, fmt.Errorf("appending thread to author: %w", err)
	}

	if communityID != nil {
		if err := s.communities.AppendThread(ctx, *communityID, thread.ID); err != nil {
			return models.Thread{}, fmt.Errorf("appending thread to community: %w", err)
		}
	}

	s.hints.Hint("/")
	return thread, nil
}

// AddReply inserts a reply under parentID.
//
// The reply is persisted first, then its ID is appended to the parent's
// children; both must succeed for the parent/child invariant to hold. A
// failure between the two leaves an orphaned reply (reachable by ID,
// unreferenced by its parent) — the caller sees the append error.
func (s *Service) AddReply(ctx context.Context, parentID primitive.ObjectID, text string, authorID primitive.ObjectID) (models.Thread, error) {
	parent, err := s.threads.GetByID(ctx, parentID)
	if err != nil {
		return models.Thread{}, fmt.Errorf("loading parent: %w", err)
	}

	reply, err := s.threads.Insert(ctx, models.Thread{
		Text:     text,
		AuthorID: authorID,
		ParentID: &parent.ID,
	})
	if err != nil {
		return models.Thread{}, fmt.Errorf("inserting reply: %w", err)
	}

	if err := s.threads.AppendChild(ctx, parent.ID, reply.ID); err != nil {
		return models.Thread{}, fmt.Errorf("appending reply to parent: %w", err)
	}

	s.hints.Hint("/thread/" + parent.ID.Hex())
	return reply, nil
}
