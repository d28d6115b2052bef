// internal/app/system/apperr/apperr.go
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the service layer. Every service operation either
// returns its declared result or fails with one of these (possibly wrapped
// with context via fmt.Errorf and %w).
var (
	// ErrNotFound means a referenced thread, user, parent, or community
	// does not exist where one is required.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable means there is no store connection. This is the
	// steady-state failure when the process started without a Mongo URI.
	ErrUnavailable = errors.New("store unavailable")

	// ErrConflict means a write collided with a uniqueness constraint
	// (currently only the username unique index on upsert).
	ErrConflict = errors.New("conflict")
)

// ValidationError is raised at the HTTP boundary only; the core services
// never produce it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validation builds a ValidationError for a field.
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
