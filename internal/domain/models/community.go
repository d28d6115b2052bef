// internal/domain/models/community.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Community is an optional grouping threads may belong to. ExternalID is the
// identifier the outside world uses (the identity provider's organization ID
// or a minted UUID); ThreadIDs is a non-owning back-reference.
type Community struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ExternalID string               `bson:"external_id" json:"external_id"`
	Name       string               `bson:"name" json:"name"`
	ThreadIDs  []primitive.ObjectID `bson:"thread_ids,omitempty" json:"thread_ids,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CommunitySummary is the populated-view slice of a community.
type CommunitySummary struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	ExternalID string             `bson:"external_id" json:"external_id"`
	Name       string             `bson:"name" json:"name"`
}

// Summary returns the populated-view slice of c.
func (c *Community) Summary() CommunitySummary {
	return CommunitySummary{ID: c.ID, ExternalID: c.ExternalID, Name: c.Name}
}
