package activity_test

import (
	"testing"

	"github.com/dalemusser/strand/internal/app/service/activity"
	threadstore "github.com/dalemusser/strand/internal/app/store/threads"
	"github.com/dalemusser/strand/internal/testutil"
)

func TestReplies_OtherUsersOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := activity.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner")
	replier := fixtures.CreateUser(ctx, "Replier")
	post := fixtures.CreateThread(ctx, owner, "original post")

	theirs := fixtures.CreateReply(ctx, replier, post.ID, "someone replied")
	fixtures.CreateReply(ctx, owner, post.ID, "talking to myself")

	replies, err := svc.Replies(ctx, owner.ID)
	if err != nil {
		t.Fatalf("Replies: %v", err)
	}
	if len(replies) != 1 {
		t.Fatalf("got %d replies, want 1 (self-replies excluded)", len(replies))
	}
	got := replies[0]
	if got.ID != theirs.ID {
		t.Errorf("reply: got %s, want %s", got.ID.Hex(), theirs.ID.Hex())
	}
	if got.Author == nil || got.Author.Username != replier.Username {
		t.Errorf("reply author: got %+v, want %q", got.Author, replier.Username)
	}
}

func TestReplies_RepliesToRepliesCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := activity.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner")
	other := fixtures.CreateUser(ctx, "Other")

	post := fixtures.CreateThread(ctx, owner, "root")
	// Owner replies on someone else's structure too; only children of the
	// owner's own threads count, wherever they sit in the tree.
	ownReply := fixtures.CreateReply(ctx, owner, post.ID, "own reply")
	nested := fixtures.CreateReply(ctx, other, ownReply.ID, "reply to your reply")

	replies, err := svc.Replies(ctx, owner.ID)
	if err != nil {
		t.Fatalf("Replies: %v", err)
	}
	if len(replies) != 1 || replies[0].ID != nested.ID {
		t.Errorf("expected the nested reply to surface, got %d entries", len(replies))
	}
}

func TestReplies_DuplicateChildReference(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := activity.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner")
	other := fixtures.CreateUser(ctx, "Other")
	post := fixtures.CreateThread(ctx, owner, "root")
	reply := fixtures.CreateReply(ctx, other, post.ID, "their reply")

	// child_ids is append-only and never deduplicated; a doubled reference
	// (out-of-band write or repair script) must not error and must not
	// surface the reply twice, since the gathered IDs feed a single $in.
	if err := threadstore.New(db).AppendChild(ctx, post.ID, reply.ID); err != nil {
		t.Fatalf("duplicating child reference: %v", err)
	}

	replies, err := svc.Replies(ctx, owner.ID)
	if err != nil {
		t.Fatalf("Replies: %v", err)
	}
	if len(replies) != 1 || replies[0].ID != reply.ID {
		t.Errorf("got %d entries, want the reply exactly once", len(replies))
	}
}

func TestReplies_NoThreads(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := activity.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	loner := fixtures.CreateUser(ctx, "Loner")

	replies, err := svc.Replies(ctx, loner.ID)
	if err != nil {
		t.Fatalf("Replies: %v", err)
	}
	if len(replies) != 0 {
		t.Errorf("expected no activity, got %d entries", len(replies))
	}
}
