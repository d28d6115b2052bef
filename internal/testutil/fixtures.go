// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"strings"
	"testing"

	communitystore "github.com/dalemusser/strand/internal/app/store/communities"
	threadstore "github.com/dalemusser/strand/internal/app/store/threads"
	userstore "github.com/dalemusser/strand/internal/app/store/users"
	"github.com/dalemusser/strand/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures creates domain documents for tests, failing the test on any
// store error so test bodies stay about behavior, not setup plumbing.
type Fixtures struct {
	t           *testing.T
	db          *mongo.Database
	users       *userstore.Store
	communities *communitystore.Store
	threads     *threadstore.Store
}

// NewFixtures builds a fixture factory over the test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{
		t:           t,
		db:          db,
		users:       userstore.New(db),
		communities: communitystore.New(db),
		threads:     threadstore.New(db),
	}
}

// DB returns the underlying test database for direct assertions.
func (f *Fixtures) DB() *mongo.Database { return f.db }

// NewAuthID mints a unique external identity-provider ID.
func (f *Fixtures) NewAuthID() string {
	return "auth_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// CreateUser onboards a user with a generated auth ID and username derived
// from name.
func (f *Fixtures) CreateUser(ctx context.Context, name string) *models.User {
	f.t.Helper()
	authID := f.NewAuthID()
	username := strings.ToLower(strings.ReplaceAll(name, " ", "_")) + "_" + authID[len(authID)-8:]
	u, err := f.users.Upsert(ctx, authID, userstore.Profile{
		Name:      name,
		Username:  username,
		Bio:       "test bio",
		AvatarURL: "https://example.com/avatar.png",
	})
	if err != nil {
		f.t.Fatalf("creating user %q: %v", name, err)
	}
	return u
}

// CreateCommunity registers a community with a generated external ID.
func (f *Fixtures) CreateCommunity(ctx context.Context, name string) models.Community {
	f.t.Helper()
	c, err := f.communities.Create(ctx, "", name)
	if err != nil {
		f.t.Fatalf("creating community %q: %v", name, err)
	}
	return c
}

// CreateThread inserts a top-level thread for author and records it in the
// author's thread list, mirroring the create path's bookkeeping.
func (f *Fixtures) CreateThread(ctx context.Context, author *models.User, text string) models.Thread {
	f.t.Helper()
	th, err := f.threads.Insert(ctx, models.Thread{
		Text:     text,
		AuthorID: author.ID,
	})
	if err != nil {
		f.t.Fatalf("creating thread: %v", err)
	}
	if err := f.users.AppendThread(ctx, author.ID, th.ID); err != nil {
		f.t.Fatalf("recording thread on author: %v", err)
	}
	return th
}

// CreateReply inserts a reply under parentID and links it into the parent's
// children list.
func (f *Fixtures) CreateReply(ctx context.Context, author *models.User, parentID primitive.ObjectID, text string) models.Thread {
	f.t.Helper()
	reply, err := f.threads.Insert(ctx, models.Thread{
		Text:     text,
		AuthorID: author.ID,
		ParentID: &parentID,
	})
	if err != nil {
		f.t.Fatalf("creating reply: %v", err)
	}
	if err := f.threads.AppendChild(ctx, parentID, reply.ID); err != nil {
		f.t.Fatalf("linking reply to parent: %v", err)
	}
	return reply
}
