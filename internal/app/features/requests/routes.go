// internal/app/features/requests/routes.go
package requests

import "github.com/go-chi/chi/v5"

// Routes returns the join-request subrouter. The mark-seen literal must be
// registered alongside the {id} pattern; chi matches static segments first.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeCreate)
	r.Get("/owner", h.ServeListOwner)
	r.Get("/requester", h.ServeListRequester)
	r.Put("/mark-seen", h.ServeMarkSeen)
	r.Put("/{id}", h.ServeDecide)
	return r
}
