// internal/app/features/communities/routes.go
package communities

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /communities.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Get("/{externalID}", h.get)
	return r
}
