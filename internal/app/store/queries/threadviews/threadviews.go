// Package threadviews assembles display-ready thread trees.
//
// Mongoose-style populate chains become explicit, bounded-depth batch
// fetches here: one $in query per level for threads, a single $in query for
// all authors, one for communities. Depth is always a small constant fixed
// by the caller (1 for feeds, 2 for a single thread page); there is no
// unbounded recursion.
package threadviews

import (
	"context"

	communitystore "github.com/dalemusser/strand/internal/app/store/communities"
	threadstore "github.com/dalemusser/strand/internal/app/store/threads"
	userstore "github.com/dalemusser/strand/internal/app/store/users"
	"github.com/dalemusser/strand/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// View is a thread with its references resolved for display. Children are
// ordered as the parent's child list orders them and populated to the depth
// the caller asked for; beyond that the raw ChildIDs remain available.
type View struct {
	models.Thread
	Author    *models.Summary          `json:"author,omitempty"`
	Community *models.CommunitySummary `json:"community,omitempty"`
	Children  []*View                  `json:"children,omitempty"`
}

// Assembler turns raw thread documents into Views.
type Assembler struct {
	threads     *threadstore.Store
	users       *userstore.Store
	communities *communitystore.Store
}

// New creates an Assembler over the given database (nil for degraded mode).
func New(db *mongo.Database) *Assembler {
	return &Assembler{
		threads:     threadstore.New(db),
		users:       userstore.New(db),
		communities: communitystore.New(db),
	}
}

// Assemble resolves authors, communities, and depth levels of children for
// the given root threads. Roots get author and community; child levels get
// authors only. A dangling reference (author or child deleted out-of-band)
// is left nil/absent rather than failing the whole page.
func (a *Assembler) Assemble(ctx context.Context, roots []models.Thread, depth int) ([]*View, error) {
	views := make([]*View, len(roots))
	for i := range roots {
		views[i] = &View{Thread: roots[i]}
	}

	authorIDs := make([]primitive.ObjectID, 0, len(roots))
	var communityIDs []primitive.ObjectID
	for _, v := range views {
		authorIDs = append(authorIDs, v.AuthorID)
		if v.CommunityID != nil {
			communityIDs = append(communityIDs, *v.CommunityID)
		}
	}

	// Walk down the tree one level at a time, each level a single batch get.
	level := views
	for d := 0; d < depth && len(level) > 0; d++ {
		var childIDs []primitive.ObjectID
		for _, v := range level {
			childIDs = append(childIDs, v.ChildIDs...)
		}
		children, err := a.threads.GetByIDs(ctx, childIDs)
		if err != nil {
			return nil, err
		}

		byID := make(map[primitive.ObjectID]models.Thread, len(children))
		for _, c := range children {
			byID[c.ID] = c
			authorIDs = append(authorIDs, c.AuthorID)
		}

		var next []*View
		for _, v := range level {
			for _, id := range v.ChildIDs {
				c, ok := byID[id]
				if !ok {
					continue
				}
				cv := &View{Thread: c}
				v.Children = append(v.Children, cv)
				next = append(next, cv)
			}
		}
		level = next
	}

	if err := a.attachAuthors(ctx, views, authorIDs); err != nil {
		return nil, err
	}
	if err := a.attachCommunities(ctx, views, communityIDs); err != nil {
		return nil, err
	}
	return views, nil
}

// One returns the single-thread view (convenience over Assemble).
func (a *Assembler) One(ctx context.Context, t models.Thread, depth int) (*View, error) {
	views, err := a.Assemble(ctx, []models.Thread{t}, depth)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (a *Assembler) attachAuthors(ctx context.Context, roots []*View, ids []primitive.ObjectID) error {
	users, err := a.users.GetByIDs(ctx, dedupe(ids))
	if err != nil {
		return err
	}
	byID := make(map[primitive.ObjectID]models.Summary, len(users))
	for i := range users {
		byID[users[i].ID] = users[i].Summary()
	}
	var fill func(v *View)
	fill = func(v *View) {
		if s, ok := byID[v.AuthorID]; ok {
			v.Author = &s
		}
		for _, c := range v.Children {
			fill(c)
		}
	}
	for _, v := range roots {
		fill(v)
	}
	return nil
}

func (a *Assembler) attachCommunities(ctx context.Context, roots []*View, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	communities, err := a.communities.GetByIDs(ctx, dedupe(ids))
	if err != nil {
		return err
	}
	byID := make(map[primitive.ObjectID]models.CommunitySummary, len(communities))
	for i := range communities {
		byID[communities[i].ID] = communities[i].Summary()
	}
	for _, v := range roots {
		if v.CommunityID == nil {
			continue
		}
		if s, ok := byID[*v.CommunityID]; ok {
			v.Community = &s
		}
	}
	return nil
}

func dedupe(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
