// internal/app/features/teams/routes.go
package teams

import "github.com/go-chi/chi/v5"

// Routes returns the team subrouter. The /user prefix must not be shadowed
// by the {teamId} pattern; chi matches static segments first.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/user/{email}", h.ServeListForUser)
	r.Get("/{teamId}", h.ServeGet)
	r.Post("/{teamId}/messages", h.ServeSendMessage)
	r.Delete("/{teamId}/members/{email}", h.ServeRemoveMember)
	return r
}
