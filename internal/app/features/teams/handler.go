// internal/app/features/teams/handler.go
package teams

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	teamstore "github.com/skillswap/skillswap/internal/app/store/teams"
	"github.com/skillswap/skillswap/internal/app/system/teamflow"
	"github.com/skillswap/skillswap/internal/app/system/timeouts"
	"github.com/skillswap/skillswap/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store reads teams for the fetch/list endpoints; mutations go through the
// workflow service.
type Store interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Team, error)
	ListByMember(ctx context.Context, email string) ([]models.Team, error)
}

// IdeaGetter loads the linked idea for the summary embedded in responses.
type IdeaGetter interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Idea, error)
}

// Handler serves the team endpoints.
type Handler struct {
	Flow  *teamflow.Service
	Teams Store
	Ideas IdeaGetter
	Log   *zap.Logger
}

func NewHandler(flow *teamflow.Service, teams Store, ideas IdeaGetter, logger *zap.Logger) *Handler {
	return &Handler{Flow: flow, Teams: teams, Ideas: ideas, Log: logger}
}

// ideaSummary is the slice of the idea teams expose alongside membership.
type ideaSummary struct {
	IdeaName    string `json:"ideaName"`
	Description string `json:"description"`
}

// teamResponse is a team with its idea summary attached.
type teamResponse struct {
	models.Team
	Idea *ideaSummary `json:"idea,omitempty"`
}

func (h *Handler) withIdea(ctx context.Context, team models.Team) teamResponse {
	resp := teamResponse{Team: team}
	if idea, err := h.Ideas.GetByID(ctx, team.IdeaID); err == nil {
		resp.Idea = &ideaSummary{IdeaName: idea.IdeaName, Description: idea.Description}
	}
	return resp
}

// ServeGet handles GET /api/teams/{teamId}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	teamID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "teamId"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Team not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	team, err := h.Teams.GetByID(ctx, teamID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.withIdea(ctx, team))
}

type sendMessageBody struct {
	SenderEmail string `json:"senderEmail"`
	Text        string `json:"text"`
}

// ServeSendMessage handles POST /api/teams/{teamId}/messages — the
// request/response chat path. It converges on the same persist-then-publish
// operation as the websocket path.
func (h *Handler) ServeSendMessage(w http.ResponseWriter, r *http.Request) {
	teamID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "teamId"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Team not found")
		return
	}

	var body sendMessageBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Missing fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	msg, err := h.Flow.SendMessage(ctx, teamID, body.SenderEmail, body.Text)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, msg)
}

// ServeListForUser handles GET /api/teams/user/{email}.
func (h *Handler) ServeListForUser(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	teams, err := h.Teams.ListByMember(ctx, email)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	resp := make([]teamResponse, 0, len(teams))
	for _, team := range teams {
		resp = append(resp, h.withIdea(ctx, team))
	}
	writeJSON(w, http.StatusOK, resp)
}

// ServeRemoveMember handles DELETE /api/teams/{teamId}/members/{email}.
func (h *Handler) ServeRemoveMember(w http.ResponseWriter, r *http.Request) {
	teamID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "teamId"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Team not found")
		return
	}
	email := chi.URLParam(r, "email")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Flow.RemoveMember(ctx, teamID, email); err != nil {
		h.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Member removed and notified",
	})
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, teamstore.ErrNotFound):
		writeError(w, http.StatusNotFound, "Team not found")
	case errors.Is(err, teamstore.ErrNotAMember):
		writeError(w, http.StatusBadRequest, "User is not a member")
	case errors.Is(err, teamflow.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "Missing fields")
	default:
		h.Log.Error("team handler failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
