// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureCommunities(ctx, db); err != nil {
		problems = append(problems, "communities: "+err.Error())
	}
	if err := ensureThreads(ctx, db); err != nil {
		problems = append(problems, "threads: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

// ensure creates each desired index unless one with the same key signature
// already exists. Existing indexes are never dropped here; renames and
// option changes are an operator decision, not a startup side effect.
func ensure(ctx context.Context, db *mongo.Database, coll string, desired []mongo.IndexModel) error {
	iv := db.Collection(coll).Indexes()

	cur, err := iv.List(ctx)
	if err != nil {
		return fmt.Errorf("listing indexes: %w", err)
	}
	var existing []existingIndex
	if err := cur.All(ctx, &existing); err != nil {
		return fmt.Errorf("reading indexes: %w", err)
	}

	have := make(map[string]bool, len(existing))
	for _, ix := range existing {
		have[keySig(ix.Key)] = true
	}

	for _, model := range desired {
		keys, ok := model.Keys.(bson.D)
		if !ok {
			return fmt.Errorf("index keys for %s must be bson.D", coll)
		}
		if have[keySig(keys)] {
			continue
		}
		if _, err := iv.CreateOne(ctx, model); err != nil {
			return fmt.Errorf("creating index %s: %w", keySig(keys), err)
		}
		zap.L().Info("created index",
			zap.String("collection", coll),
			zap.String("keys", keySig(keys)))
	}
	return nil
}

/* ------------------------------ collections ------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensure(ctx, db, "users", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "auth_id", Value: 1}},
			Options: options.Index().SetName("uniq_users_auth_id").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName("uniq_users_username").SetUnique(true),
		},
	})
}

func ensureCommunities(ctx context.Context, db *mongo.Database) error {
	return ensure(ctx, db, "communities", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "external_id", Value: 1}},
			Options: options.Index().SetName("uniq_communities_external_id").SetUnique(true),
		},
	})
}

func ensureThreads(ctx context.Context, db *mongo.Database) error {
	return ensure(ctx, db, "threads", []mongo.IndexModel{
		// The feed query: top-level filter + newest-first sort.
		{
			Keys:    bson.D{{Key: "parent_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_threads_feed"),
		},
		// Activity phase one: everything a user authored.
		{
			Keys:    bson.D{{Key: "author_id", Value: 1}},
			Options: options.Index().SetName("idx_threads_author"),
		},
	})
}
