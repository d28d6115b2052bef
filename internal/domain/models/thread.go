// internal/domain/models/thread.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Thread is a post or a reply. A reply is just a thread whose ParentID is
// set; the tree nests arbitrarily deep through ChildIDs.
//
// Invariants (maintained in the service layer; Mongo enforces none of this):
//   - ChildIDs of thread P is exactly the set of threads whose ParentID is P.
//   - LikedBy holds a given user ID at most once. All writes to it go
//     through $addToSet / $pull, never read-modify-write.
type Thread struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Text        string               `bson:"text" json:"text"`
	AuthorID    primitive.ObjectID   `bson:"author_id" json:"author_id"`
	CommunityID *primitive.ObjectID  `bson:"community_id,omitempty" json:"community_id,omitempty"`
	ParentID    *primitive.ObjectID  `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	ChildIDs    []primitive.ObjectID `bson:"child_ids,omitempty" json:"child_ids,omitempty"`
	LikedBy     []primitive.ObjectID `bson:"liked_by,omitempty" json:"liked_by,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// IsTopLevel reports whether t is an original post rather than a reply.
func (t *Thread) IsTopLevel() bool { return t.ParentID == nil }
