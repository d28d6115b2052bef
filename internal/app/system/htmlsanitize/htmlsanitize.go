// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

// strict strips all HTML. Thread text and bios are plain text; any markup a
// client smuggles in is removed before the record is persisted.
var strict = bluemonday.StrictPolicy()

// Strip removes all HTML elements and attributes from s.
func Strip(s string) string {
	return strict.Sanitize(s)
}
