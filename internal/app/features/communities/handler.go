// Package communities exposes community registration and lookup.
package communities

import (
	"context"
	"net/http"

	"github.com/dalemusser/strand/internal/app/features/shared/respond"
	communitystore "github.com/dalemusser/strand/internal/app/store/communities"
	"github.com/dalemusser/strand/internal/app/system/htmlsanitize"
	"github.com/dalemusser/strand/internal/app/system/inputval"
	"github.com/dalemusser/strand/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the community endpoints.
type Handler struct {
	communities *communitystore.Store
	log         *zap.Logger
}

// NewHandler constructs the communities handler over the shared database
// handle.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{communities: communitystore.New(db), log: logger}
}

type createRequest struct {
	ExternalID string `json:"external_id,omitempty"`
	Name       string `json:"name"`
}

// create handles POST /communities. external_id is optional; a blank one
// gets a minted UUID.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, h.log, err)
		return
	}
	req.Name = htmlsanitize.Strip(req.Name)
	if err := inputval.Name(req.Name); err != nil {
		respond.Error(w, h.log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	community, err := h.communities.Create(ctx, req.ExternalID, req.Name)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, community)
}

// get handles GET /communities/{externalID}.
func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	community, err := h.communities.GetByExternalID(ctx, chi.URLParam(r, "externalID"))
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, community)
}
