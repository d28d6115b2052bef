// Package users exposes profile onboarding and the per-user thread and
// activity pages.
package users

import (
	"context"
	"net/http"

	"github.com/dalemusser/strand/internal/app/features/shared/respond"
	"github.com/dalemusser/strand/internal/app/service/activity"
	"github.com/dalemusser/strand/internal/app/service/feed"
	userstore "github.com/dalemusser/strand/internal/app/store/users"
	"github.com/dalemusser/strand/internal/app/system/apperr"
	"github.com/dalemusser/strand/internal/app/system/htmlsanitize"
	"github.com/dalemusser/strand/internal/app/system/inputval"
	"github.com/dalemusser/strand/internal/app/system/paging"
	"github.com/dalemusser/strand/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the user endpoints.
type Handler struct {
	users    *userstore.Store
	feed     *feed.Service
	activity *activity.Service
	log      *zap.Logger
}

// NewHandler constructs the users handler over the shared database handle.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		users:    userstore.New(db),
		feed:     feed.New(db),
		activity: activity.New(db),
		log:      logger,
	}
}

type upsertRequest struct {
	AuthID    string `json:"auth_id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

// upsert handles POST /users: create-or-update the profile owned by an
// external auth ID and mark it onboarded. Validation happens here, before
// the store sees anything; markup in free-text fields is stripped.
func (h *Handler) upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, h.log, err)
		return
	}

	if req.AuthID == "" {
		respond.Error(w, h.log, apperr.Validation("auth_id", "auth_id is required"))
		return
	}
	req.Name = htmlsanitize.Strip(req.Name)
	req.Bio = htmlsanitize.Strip(req.Bio)
	for _, err := range []error{
		inputval.Name(req.Name),
		inputval.Username(req.Username),
		inputval.Bio(req.Bio),
		inputval.AvatarURL(req.AvatarURL),
	} {
		if err != nil {
			respond.Error(w, h.log, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.users.Upsert(ctx, req.AuthID, userstore.Profile{
		Name:      req.Name,
		Username:  req.Username,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

// get handles GET /users/{authID}.
func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.users.GetByAuthID(ctx, chi.URLParam(r, "authID"))
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

// threads handles GET /users/{authID}/threads: everything the user
// authored, in authorship order, populated one level deep.
func (h *Handler) threads(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	views, err := h.feed.ListUserThreads(ctx, chi.URLParam(r, "authID"))
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"threads": views})
}

// activityFeed handles GET /users/{authID}/activity: replies other people
// left on the user's threads.
func (h *Handler) activityFeed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.users.GetByAuthID(ctx, chi.URLParam(r, "authID"))
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	replies, err := h.activity.Replies(ctx, user.ID)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"replies": replies})
}

// search handles GET /users?search=&page=&size=&exclude=: the paginated
// user directory. search matches username or name case-insensitively;
// exclude drops the caller (by external auth ID) from their own results.
func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	page := paging.Parse(r)
	term := query.Get(r, "search")
	exclude := query.Get(r, "exclude")

	total, err := h.users.CountMatching(ctx, term, exclude)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	found, err := h.users.Search(ctx, term, exclude, page.Skip(), page.Limit())
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"users":         found,
		"page":          page.Number,
		"size":          page.Size,
		"has_next_page": page.HasNext(total, len(found)),
	})
}
