// internal/app/features/feedpage/routes.go
package feedpage

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /feed.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	return r
}
