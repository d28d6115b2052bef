// Package feed serves paginated, populated thread listings.
package feed

import (
	"context"
	"fmt"

	"github.com/dalemusser/strand/internal/app/store/queries/threadviews"
	threadstore "github.com/dalemusser/strand/internal/app/store/threads"
	userstore "github.com/dalemusser/strand/internal/app/store/users"
	"github.com/dalemusser/strand/internal/app/system/paging"
	"github.com/dalemusser/strand/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Service reads thread listings. Population depth is fixed: feed rows carry
// one level of children (child authors only), a single thread page carries
// two.
type Service struct {
	threads *threadstore.Store
	users   *userstore.Store
	views   *threadviews.Assembler
}

// New builds the feed service over the shared database handle.
func New(db *mongo.Database) *Service {
	return &Service{
		threads: threadstore.New(db),
		users:   userstore.New(db),
		views:   threadviews.New(db),
	}
}

// ListTopLevel returns one page of top-level threads, newest first, with
// author, community, and direct children populated. hasNext reports whether
// more pages exist past this one.
func (s *Service) ListTopLevel(ctx context.Context, page paging.Page) (_ []*threadviews.View, hasNext bool, _ error) {
	page = page.Clamp()

	total, err := s.threads.CountTopLevel(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("counting posts: %w", err)
	}

	rows, err := s.threads.FindTopLevel(ctx, page.Skip(), page.Limit())
	if err != nil {
		return nil, false, fmt.Errorf("listing posts: %w", err)
	}

	views, err := s.views.Assemble(ctx, rows, 1)
	if err != nil {
		return nil, false, fmt.Errorf("populating posts: %w", err)
	}

	return views, page.HasNext(total, len(rows)), nil
}

// GetThread returns a single thread populated two levels deep: its replies,
// and their replies, each with an author summary. Deeper descendants stay
// as raw child IDs.
func (s *Service) GetThread(ctx context.Context, id primitive.ObjectID) (*threadviews.View, error) {
	t, err := s.threads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.views.One(ctx, *t, 2)
}

// ListUserThreads returns the threads the given external user authored, in
// authorship order, with direct children populated.
func (s *Service) ListUserThreads(ctx context.Context, authID string) ([]*threadviews.View, error) {
	user, err := s.users.GetByAuthID(ctx, authID)
	if err != nil {
		return nil, err
	}

	rows, err := s.threads.GetByIDs(ctx, user.ThreadIDs)
	if err != nil {
		return nil, fmt.Errorf("loading user threads: %w", err)
	}

	// $in returns store order; restore the authorship order the user's
	// thread list records.
	byID := make(map[primitive.ObjectID]models.Thread, len(rows))
	for _, t := range rows {
		byID[t.ID] = t
	}
	ordered := make([]models.Thread, 0, len(rows))
	for _, id := range user.ThreadIDs {
		if t, ok := byID[id]; ok {
			ordered = append(ordered, t)
		}
	}

	return s.views.Assemble(ctx, ordered, 1)
}
