// Package engagement owns the like relationship between users and threads.
package engagement

import (
	"context"
	"fmt"

	threadstore "github.com/dalemusser/strand/internal/app/store/threads"
	userstore "github.com/dalemusser/strand/internal/app/store/users"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Service toggles and queries per-user likes on threads.
type Service struct {
	threads *threadstore.Store
	users   *userstore.Store
}

// New builds the engagement service over the shared database handle.
func New(db *mongo.Database) *Service {
	return &Service{
		threads: threadstore.New(db),
		users:   userstore.New(db),
	}
}

// ToggleLike flips the caller's like on a thread and returns the new state
// (true = now liked). authID is the external identity provider's user ID.
//
// The set mutation itself is atomic ($addToSet / $pull), so liked_by can
// never hold duplicates and a redundant removal is harmless. The
// membership check that picks the direction is a separate read, so two
// concurrent toggles for the same (thread, user) pair can both observe the
// same state and land on the same side; the final state is then
// last-write-wins rather than a deterministic even/odd toggle. Accepted
// race: sequential calls — the only pattern the UI produces — alternate
// correctly.
func (s *Service) ToggleLike(ctx context.Context, threadID primitive.ObjectID, authID string) (bool, error) {
	user, err := s.users.GetByAuthID(ctx, authID)
	if err != nil {
		return false, fmt.Errorf("resolving user: %w", err)
	}

	likes, err := s.threads.Likes(ctx, threadID)
	if err != nil {
		return false, fmt.Errorf("loading like set: %w", err)
	}

	if contains(likes, user.ID) {
		if err := s.threads.RemoveLike(ctx, threadID, user.ID); err != nil {
			return false, fmt.Errorf("removing like: %w", err)
		}
		return false, nil
	}

	if err := s.threads.AddLike(ctx, threadID, user.ID); err != nil {
		return false, fmt.Errorf("adding like: %w", err)
	}
	return true, nil
}

// IsLikedBy reports whether the given external user has liked the thread.
// An empty like set answers false without resolving the user at all.
func (s *Service) IsLikedBy(ctx context.Context, threadID primitive.ObjectID, authID string) (bool, error) {
	likes, err := s.threads.Likes(ctx, threadID)
	if err != nil {
		return false, fmt.Errorf("loading like set: %w", err)
	}
	if len(likes) == 0 {
		return false, nil
	}

	user, err := s.users.GetByAuthID(ctx, authID)
	if err != nil {
		return false, fmt.Errorf("resolving user: %w", err)
	}
	return contains(likes, user.ID), nil
}

// CountLikes returns the cardinality of the thread's like set.
func (s *Service) CountLikes(ctx context.Context, threadID primitive.ObjectID) (int, error) {
	likes, err := s.threads.Likes(ctx, threadID)
	if err != nil {
		return 0, fmt.Errorf("loading like set: %w", err)
	}
	return len(likes), nil
}

// Likes returns the user IDs in the thread's like set.
func (s *Service) Likes(ctx context.Context, threadID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return s.threads.Likes(ctx, threadID)
}

func contains(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
