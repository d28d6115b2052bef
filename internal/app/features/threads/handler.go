// Package threads exposes thread creation, single-thread reads, replies,
// and the per-thread like endpoints.
package threads

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/strand/internal/app/features/shared/respond"
	"github.com/dalemusser/strand/internal/app/service/engagement"
	"github.com/dalemusser/strand/internal/app/service/feed"
	"github.com/dalemusser/strand/internal/app/service/threadsvc"
	"github.com/dalemusser/strand/internal/app/system/apperr"
	"github.com/dalemusser/strand/internal/app/system/htmlsanitize"
	"github.com/dalemusser/strand/internal/app/system/inputval"
	"github.com/dalemusser/strand/internal/app/system/revalidate"
	"github.com/dalemusser/strand/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the thread endpoints.
type Handler struct {
	svc        *threadsvc.Service
	feed       *feed.Service
	engagement *engagement.Service
	log        *zap.Logger
}

// NewHandler constructs the threads handler over the shared database handle.
func NewHandler(db *mongo.Database, hints revalidate.Hinter, logger *zap.Logger) *Handler {
	return &Handler{
		svc:        threadsvc.New(db, hints, logger),
		feed:       feed.New(db),
		engagement: engagement.New(db),
		log:        logger,
	}
}

// threadID pulls and parses the {id} route parameter.
func threadID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("id", "malformed thread id")
	}
	return id, nil
}

type createRequest struct {
	Text        string `json:"text"`
	AuthorID    string `json:"author_id"`
	CommunityID string `json:"community_id,omitempty"`
}

// create handles POST /threads.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, h.log, err)
		return
	}

	req.Text = strings.TrimSpace(htmlsanitize.Strip(req.Text))
	if err := inputval.ThreadText(req.Text); err != nil {
		respond.Error(w, h.log, err)
		return
	}
	authorID, err := primitive.ObjectIDFromHex(req.AuthorID)
	if err != nil {
		respond.Error(w, h.log, apperr.Validation("author_id", "malformed author id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	thread, err := h.svc.Create(ctx, req.Text, authorID, req.CommunityID)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, thread)
}

// get handles GET /threads/{id}: the thread populated two levels deep.
func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := threadID(r)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	view, err := h.feed.GetThread(ctx, id)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, view)
}

type replyRequest struct {
	Text     string `json:"text"`
	AuthorID string `json:"author_id"`
}

// reply handles POST /threads/{id}/replies.
func (h *Handler) reply(w http.ResponseWriter, r *http.Request) {
	id, err := threadID(r)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	var req replyRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, h.log, err)
		return
	}
	req.Text = strings.TrimSpace(htmlsanitize.Strip(req.Text))
	if err := inputval.ReplyText(req.Text); err != nil {
		respond.Error(w, h.log, err)
		return
	}
	authorID, err := primitive.ObjectIDFromHex(req.AuthorID)
	if err != nil {
		respond.Error(w, h.log, apperr.Validation("author_id", "malformed author id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	created, err := h.svc.AddReply(ctx, id, req.Text, authorID)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

// likes handles GET /threads/{id}/likes: the like count and member list.
func (h *Handler) likes(w http.ResponseWriter, r *http.Request) {
	id, err := threadID(r)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ids, err := h.engagement.Likes(ctx, id)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"count":    len(ids),
		"user_ids": ids,
	})
}

// likedBy handles GET /threads/{id}/likes/{authID}.
func (h *Handler) likedBy(w http.ResponseWriter, r *http.Request) {
	id, err := threadID(r)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	liked, err := h.engagement.IsLikedBy(ctx, id, chi.URLParam(r, "authID"))
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

// toggleLike handles POST /threads/{id}/likes/{authID}/toggle and reports
// the post-toggle state.
func (h *Handler) toggleLike(w http.ResponseWriter, r *http.Request) {
	id, err := threadID(r)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	liked, err := h.engagement.ToggleLike(ctx, id, chi.URLParam(r, "authID"))
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"liked": liked})
}
