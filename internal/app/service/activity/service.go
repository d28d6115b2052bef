// Package activity derives "who replied to my threads" notifications from
// the reply graph.
package activity

import (
	"context"
	"fmt"

	threadstore "github.com/dalemusser/strand/internal/app/store/threads"
	userstore "github.com/dalemusser/strand/internal/app/store/users"
	"github.com/dalemusser/strand/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Reply is a notification entry: someone else's reply on one of the user's
// threads, with the replier's author line attached.
type Reply struct {
	models.Thread
	Author *models.Summary `json:"author,omitempty"`
}

// Service computes activity feeds.
type Service struct {
	threads *threadstore.Store
	users   *userstore.Store
}

// New builds the activity service over the shared database handle.
func New(db *mongo.Database) *Service {
	return &Service{
		threads: threadstore.New(db),
		users:   userstore.New(db),
	}
}

// Replies returns the replies other people left on userID's threads.
//
// Two-phase read: gather the child IDs of every thread the user authored
// (duplicates and traversal order preserved — no dedup step, matching the
// append-only children invariant), then fetch those threads excluding the
// user's own replies. No read state, no ordering guarantee beyond store
// default.
func (s *Service) Replies(ctx context.Context, userID primitive.ObjectID) ([]Reply, error) {
	mine, err := s.threads.FindByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user threads: %w", err)
	}

	var childIDs []primitive.ObjectID
	for _, t := range mine {
		childIDs = append(childIDs, t.ChildIDs...)
	}

	threads, err := s.threads.FindRepliesIn(ctx, childIDs, userID)
	if err != nil {
		return nil, fmt.Errorf("loading replies: %w", err)
	}

	authorIDs := make([]primitive.ObjectID, 0, len(threads))
	for _, t := range threads {
		authorIDs = append(authorIDs, t.AuthorID)
	}
	authors, err := s.users.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("loading reply authors: %w", err)
	}
	byID := make(map[primitive.ObjectID]models.Summary, len(authors))
	for i := range authors {
		byID[authors[i].ID] = authors[i].Summary()
	}

	replies := make([]Reply, 0, len(threads))
	for _, t := range threads {
		r := Reply{Thread: t}
		if a, ok := byID[t.AuthorID]; ok {
			r.Author = &a
		}
		replies = append(replies, r)
	}
	return replies, nil
}
