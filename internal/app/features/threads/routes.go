// internal/app/features/threads/routes.go
package threads

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /threads.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Post("/{id}/replies", h.reply)
	r.Get("/{id}/likes", h.likes)
	r.Get("/{id}/likes/{authID}", h.likedBy)
	r.Post("/{id}/likes/{authID}/toggle", h.toggleLike)
	return r
}
