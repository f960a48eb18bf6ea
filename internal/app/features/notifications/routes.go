// internal/app/features/notifications/routes.go
package notifications

import "github.com/go-chi/chi/v5"

// Routes returns the notification subrouter. mark-all-read is a static
// segment and takes precedence over the {id} pattern.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Put("/mark-all-read", h.ServeMarkAllRead)
	r.Put("/{id}/read", h.ServeMarkRead)
	return r
}
