// Package feedpage serves the paginated home feed of top-level threads.
package feedpage

import (
	"context"
	"net/http"

	"github.com/dalemusser/strand/internal/app/features/shared/respond"
	"github.com/dalemusser/strand/internal/app/service/feed"
	"github.com/dalemusser/strand/internal/app/system/paging"
	"github.com/dalemusser/strand/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the feed endpoint.
type Handler struct {
	feed     *feed.Service
	pageSize int // fallback size when the request doesn't send one
	log      *zap.Logger
}

// NewHandler constructs the feed handler over the shared database handle.
func NewHandler(db *mongo.Database, pageSize int, logger *zap.Logger) *Handler {
	return &Handler{feed: feed.New(db), pageSize: pageSize, log: logger}
}

// list handles GET /feed?page=&size=: one page of top-level threads, newest
// first, populated one level deep.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	page := paging.ParseWithDefault(r, h.pageSize)

	views, hasNext, err := h.feed.ListTopLevel(ctx, page)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"threads":       views,
		"page":          page.Number,
		"size":          page.Size,
		"has_next_page": hasNext,
	})
}
