// Package timeouts provides centralized timeout values for handler operations.
//
// These are used with context.WithTimeout for database work in HTTP
// handlers. Centralizing them keeps the tiers consistent and adjustable in
// one place.
//
// Guidelines:
//   - Ping: health checks and connectivity verification
//   - Short: single-document reads or lookups
//   - Medium: list queries, moderate writes, multi-step reads
//   - Long: writes touching multiple collections
package timeouts

import "time"

const (
	ping   = 2 * time.Second
	short  = 5 * time.Second
	medium = 10 * time.Second
	long   = 30 * time.Second
)

// Ping returns the timeout for health checks.
func Ping() time.Duration { return ping }

// Short returns the timeout for simple operations like single-document reads.
func Short() time.Duration { return short }

// Medium returns the timeout for moderate operations like paginated lists.
func Medium() time.Duration { return medium }

// Long returns the timeout for multi-collection writes.
// Examples: thread creation (thread + author + community), reply insertion.
func Long() time.Duration { return long }
