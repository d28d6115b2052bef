package threadstore_test

import (
	"errors"
	"testing"
	"time"

	threadstore "github.com/dalemusser/strand/internal/app/store/threads"
	"github.com/dalemusser/strand/internal/app/system/apperr"
	"github.com/dalemusser/strand/internal/testutil"
	"github.com/dalemusser/strand/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFindTopLevel_ExcludesReplies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := threadstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateUser(ctx, "Poster")
	post := fixtures.CreateThread(ctx, author, "a top-level post")
	fixtures.CreateReply(ctx, author, post.ID, "a reply")

	rows, err := store.FindTopLevel(ctx, 0, 10)
	if err != nil {
		t.Fatalf("FindTopLevel: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 top-level thread, got %d", len(rows))
	}
	if rows[0].ID != post.ID {
		t.Errorf("wrong thread: got %s, want %s", rows[0].ID.Hex(), post.ID.Hex())
	}

	total, err := store.CountTopLevel(ctx)
	if err != nil {
		t.Fatalf("CountTopLevel: %v", err)
	}
	if total != 1 {
		t.Errorf("count: got %d, want 1", total)
	}
}

func TestFindTopLevel_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := threadstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateUser(ctx, "Poster")
	older := fixtures.CreateThread(ctx, author, "older")
	time.Sleep(2 * time.Millisecond) // created_at has millisecond precision
	newer := fixtures.CreateThread(ctx, author, "newer")

	rows, err := store.FindTopLevel(ctx, 0, 10)
	if err != nil {
		t.Fatalf("FindTopLevel: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 threads, got %d", len(rows))
	}
	if rows[0].ID != newer.ID || rows[1].ID != older.ID {
		t.Errorf("order: got [%s %s], want newest first", rows[0].Text, rows[1].Text)
	}
}

func TestAppendChild_LinksInOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := threadstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateUser(ctx, "Poster")
	post := fixtures.CreateThread(ctx, author, "parent")
	r1 := fixtures.CreateReply(ctx, author, post.ID, "first reply")
	r2 := fixtures.CreateReply(ctx, author, post.ID, "second reply")

	parent, err := store.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("reload parent: %v", err)
	}
	if len(parent.ChildIDs) != 2 || parent.ChildIDs[0] != r1.ID || parent.ChildIDs[1] != r2.ID {
		t.Errorf("child_ids: got %v, want [%s %s]", parent.ChildIDs, r1.ID.Hex(), r2.ID.Hex())
	}

	reply, err := store.GetByID(ctx, r1.ID)
	if err != nil {
		t.Fatalf("reload reply: %v", err)
	}
	if reply.ParentID == nil || *reply.ParentID != post.ID {
		t.Error("reply must point back at its parent")
	}
	if reply.IsTopLevel() {
		t.Error("a reply must not be top-level")
	}
}

func TestLikes_AddIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := threadstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateUser(ctx, "Poster")
	post := fixtures.CreateThread(ctx, author, "likeable")
	liker := primitive.NewObjectID()

	for i := 0; i < 2; i++ {
		if err := store.AddLike(ctx, post.ID, liker); err != nil {
			t.Fatalf("AddLike: %v", err)
		}
	}
	likes, err := store.Likes(ctx, post.ID)
	if err != nil {
		t.Fatalf("Likes: %v", err)
	}
	if len(likes) != 1 {
		t.Errorf("liked_by must stay a set: got %d entries", len(likes))
	}

	// Removing an absent member is a no-op.
	if err := store.RemoveLike(ctx, post.ID, primitive.NewObjectID()); err != nil {
		t.Fatalf("RemoveLike absent member: %v", err)
	}
	if err := store.RemoveLike(ctx, post.ID, liker); err != nil {
		t.Fatalf("RemoveLike: %v", err)
	}
	likes, err = store.Likes(ctx, post.ID)
	if err != nil {
		t.Fatalf("Likes: %v", err)
	}
	if len(likes) != 0 {
		t.Errorf("expected empty like set, got %v", likes)
	}
}

func TestLikes_UnknownThread(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := threadstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Likes(ctx, primitive.NewObjectID()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.AddLike(ctx, primitive.NewObjectID(), primitive.NewObjectID()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound from AddLike, got %v", err)
	}
}

func TestFindRepliesIn_ExcludesAuthor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := threadstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner")
	other := fixtures.CreateUser(ctx, "Other")
	post := fixtures.CreateThread(ctx, owner, "post")
	selfReply := fixtures.CreateReply(ctx, owner, post.ID, "self reply")
	otherReply := fixtures.CreateReply(ctx, other, post.ID, "other reply")

	rows, err := store.FindRepliesIn(ctx, []primitive.ObjectID{selfReply.ID, otherReply.ID}, owner.ID)
	if err != nil {
		t.Fatalf("FindRepliesIn: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != otherReply.ID {
		t.Errorf("expected only the other user's reply, got %v", rows)
	}
}

func TestInsert_Degraded(t *testing.T) {
	store := threadstore.New(nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Insert(ctx, models.Thread{Text: "x"}); !errors.Is(err, apperr.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
