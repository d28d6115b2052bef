// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultPageSize is the number of threads shown per feed page when the
// request does not say otherwise.
const DefaultPageSize = 20

// MaxPageSize caps how much a single request can pull.
const MaxPageSize = 100

// Page is a 1-based offset/limit window over a feed.
type Page struct {
	Number int // 1-based page number
	Size   int // rows per page
}

// Skip returns the number of documents to skip for this window.
func (p Page) Skip() int { return (p.Number - 1) * p.Size }

// Limit returns the page size as int64 for Mongo Find().SetLimit().
func (p Page) Limit() int64 { return int64(p.Size) }

// HasNext reports whether more rows exist past this window, given the total
// matching count and the number of rows actually returned.
func (p Page) HasNext(total int64, returned int) bool {
	return total > int64(p.Skip()+returned)
}

// Clamp normalizes out-of-range values: page numbers below 1 become 1,
// sizes below 1 take the default, sizes above the cap take the cap.
func (p Page) Clamp() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Parse extracts the "page" and "size" query parameters from a request,
// clamped to valid ranges.
func Parse(r *http.Request) Page {
	return ParseWithDefault(r, DefaultPageSize)
}

// ParseWithDefault is Parse with a configured fallback page size instead of
// the package default.
func ParseWithDefault(r *http.Request, defaultSize int) Page {
	if defaultSize < 1 {
		defaultSize = DefaultPageSize
	}
	p := Page{Number: atoiDefault(query.Get(r, "page"), 1), Size: atoiDefault(query.Get(r, "size"), defaultSize)}
	return p.Clamp()
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
