// internal/app/system/inputval/inputval.go
//
// Boundary validation for user-supplied fields. These checks run in the
// HTTP layer before a service is called; the services themselves trust
// their inputs and never raise validation errors.
package inputval

import (
	"net/url"
	"unicode/utf8"

	"github.com/dalemusser/strand/internal/app/system/apperr"
)

// Field length bounds. Counts are in characters (runes), not bytes.
const (
	MinThreadText = 3
	MinReplyText  = 1
	MaxText       = 1000

	MinName = 3
	MaxName = 30

	MaxBio = 1000
)

// ThreadText validates the body of a new top-level post.
func ThreadText(s string) error {
	return textLen("text", s, MinThreadText)
}

// ReplyText validates the body of a reply. Replies may be a single character.
func ReplyText(s string) error {
	return textLen("text", s, MinReplyText)
}

func textLen(field, s string, min int) error {
	n := utf8.RuneCountInString(s)
	if n < min {
		return apperr.Validation(field, "too short")
	}
	if n > MaxText {
		return apperr.Validation(field, "too long")
	}
	return nil
}

// Name validates a display name.
func Name(s string) error {
	return nameLen("name", s)
}

// Username validates a username (same bounds as names).
func Username(s string) error {
	return nameLen("username", s)
}

func nameLen(field, s string) error {
	n := utf8.RuneCountInString(s)
	if n < MinName {
		return apperr.Validation(field, "too short")
	}
	if n > MaxName {
		return apperr.Validation(field, "too long")
	}
	return nil
}

// Bio validates a profile bio. Empty is fine.
func Bio(s string) error {
	if utf8.RuneCountInString(s) > MaxBio {
		return apperr.Validation("bio", "too long")
	}
	return nil
}

// AvatarURL validates the avatar field: non-empty and an absolute URL.
func AvatarURL(s string) error {
	if s == "" {
		return apperr.Validation("avatar_url", "required")
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return apperr.Validation("avatar_url", "must be a URL")
	}
	return nil
}
