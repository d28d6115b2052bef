// internal/app/system/normalize/normalize.go
package normalize

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

// Username lowercases, trims, and strips diacritics from a username so the
// unique index compares apples to apples.
func Username(s string) string {
	return text.Fold(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Bio trims surrounding whitespace.
func Bio(s string) string {
	return strings.TrimSpace(s)
}
