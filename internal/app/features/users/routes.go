// internal/app/features/users/routes.go
package users

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /users.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.search)
	r.Post("/", h.upsert)
	r.Get("/{authID}", h.get)
	r.Get("/{authID}/threads", h.threads)
	r.Get("/{authID}/activity", h.activityFeed)
	return r
}
