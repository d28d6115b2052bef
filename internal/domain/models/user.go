// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a profile record for an account owned by the external identity
// provider. AuthID is the provider's stable identifier; everything else is
// profile data managed here.
//
// NOTE:
//   - ThreadIDs is a back-reference only. The threads collection owns the
//     thread documents; this list records authorship order.
type User struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	AuthID    string               `bson:"auth_id" json:"auth_id"`
	Name      string               `bson:"name" json:"name"`
	Username  string               `bson:"username" json:"username"` // lowercase, diacritics-stripped
	Bio       string               `bson:"bio,omitempty" json:"bio,omitempty"`
	AvatarURL string               `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	Onboarded bool                 `bson:"onboarded" json:"onboarded"`
	ThreadIDs []primitive.ObjectID `bson:"thread_ids,omitempty" json:"thread_ids,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Summary is the slice of a user that gets attached to populated threads:
// enough to render an author line, nothing more.
type Summary struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Username  string             `bson:"username" json:"username"`
	AvatarURL string             `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
}

// Summary returns the author-line view of u.
func (u *User) Summary() Summary {
	return Summary{ID: u.ID, Name: u.Name, Username: u.Username, AvatarURL: u.AvatarURL}
}
