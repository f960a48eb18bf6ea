// internal/app/features/ideas/routes.go
package ideas

import "github.com/go-chi/chi/v5"

// Routes returns the router for the idea endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeCreate)
	r.Get("/", h.ServeList)
	r.Get("/user", h.ServeListByUser)
	r.Delete("/{id}", h.ServeDelete)
	return r
}
