// internal/app/features/requests/handler.go
package requests

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	ideastore "github.com/skillswap/skillswap/internal/app/store/ideas"
	requeststore "github.com/skillswap/skillswap/internal/app/store/requests"
	"github.com/skillswap/skillswap/internal/app/system/teamflow"
	"github.com/skillswap/skillswap/internal/app/system/timeouts"
	"github.com/skillswap/skillswap/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store lists join requests for the enrichment endpoints; the lifecycle
// itself goes through the workflow service.
type Store interface {
	ListByOwner(ctx context.Context, email string) ([]models.JoinRequest, error)
	ListByRequester(ctx context.Context, email string) ([]models.JoinRequest, error)
}

// UserDirectory resolves display names for request listings.
type UserDirectory interface {
	GetByEmail(ctx context.Context, email string) (models.User, error)
}

// IdeaGetter loads the idea a request points at.
type IdeaGetter interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Idea, error)
}

// Handler serves the join-request endpoints.
type Handler struct {
	Flow     *teamflow.Service
	Requests Store
	Users    UserDirectory
	Ideas    IdeaGetter
	Log      *zap.Logger
}

func NewHandler(flow *teamflow.Service, requests Store, users UserDirectory, ideas IdeaGetter, logger *zap.Logger) *Handler {
	return &Handler{
		Flow:     flow,
		Requests: requests,
		Users:    users,
		Ideas:    ideas,
		Log:      logger,
	}
}

type createRequestBody struct {
	IdeaID         string `json:"ideaId"`
	RequesterEmail string `json:"requesterEmail"`
	OwnerEmail     string `json:"ownerEmail"`
}

// ServeCreate handles POST /api/requests.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var body createRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Missing fields")
		return
	}
	if body.IdeaID == "" || body.RequesterEmail == "" || body.OwnerEmail == "" {
		writeMessage(w, http.StatusBadRequest, "Missing fields")
		return
	}

	ideaID, err := primitive.ObjectIDFromHex(body.IdeaID)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Idea not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	req, err := h.Flow.CreateRequest(ctx, ideaID, body.RequesterEmail, body.OwnerEmail)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, req)
}

// ownerItem is a request enriched for the owner's inbox: the requester's
// display name plus the idea the request targets.
type ownerItem struct {
	models.JoinRequest
	RequesterName string       `json:"requesterName"`
	Idea          *models.Idea `json:"idea,omitempty"`
}

// ServeListOwner handles GET /api/requests/owner?email=.
func (h *Handler) ServeListOwner(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	reqs, err := h.Requests.ListByOwner(ctx, email)
	if err != nil {
		h.writeError(w, err)
		return
	}

	items := make([]ownerItem, 0, len(reqs))
	for _, req := range reqs {
		item := ownerItem{JoinRequest: req, RequesterName: req.RequesterEmail}
		if user, err := h.Users.GetByEmail(ctx, req.RequesterEmail); err == nil {
			item.RequesterName = user.Username
		}
		if idea, err := h.Ideas.GetByID(ctx, req.IdeaID); err == nil {
			item.Idea = &idea
		}
		items = append(items, item)
	}

	writeJSON(w, http.StatusOK, items)
}

// requesterItem is a request enriched for the sender's outbox.
type requesterItem struct {
	models.JoinRequest
	OwnerName string       `json:"ownerName"`
	Idea      *models.Idea `json:"idea,omitempty"`
}

// ServeListRequester handles GET /api/requests/requester?email=.
func (h *Handler) ServeListRequester(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	reqs, err := h.Requests.ListByRequester(ctx, email)
	if err != nil {
		h.writeError(w, err)
		return
	}

	items := make([]requesterItem, 0, len(reqs))
	for _, req := range reqs {
		item := requesterItem{JoinRequest: req, OwnerName: req.OwnerEmail}
		if user, err := h.Users.GetByEmail(ctx, req.OwnerEmail); err == nil {
			item.OwnerName = user.Username
		}
		if idea, err := h.Ideas.GetByID(ctx, req.IdeaID); err == nil {
			item.Idea = &idea
		}
		items = append(items, item)
	}

	writeJSON(w, http.StatusOK, items)
}

type decideBody struct {
	Status string `json:"status"`
}

// decideResponse carries the updated request plus the team
// id when an acceptance produced or found one.
type decideResponse struct {
	Request models.JoinRequest `json:"request"`
	TeamID  *string            `json:"teamId"`
}

// ServeDecide handles PUT /api/requests/{id}.
func (h *Handler) ServeDecide(w http.ResponseWriter, r *http.Request) {
	requestID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Request not found")
		return
	}

	var body decideBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	req, teamID, err := h.Flow.Decide(ctx, requestID, body.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := decideResponse{Request: req}
	if !teamID.IsZero() {
		hex := teamID.Hex()
		resp.TeamID = &hex
	}
	writeJSON(w, http.StatusOK, resp)
}

type markSeenBody struct {
	Email string `json:"email"`
}

// ServeMarkSeen handles PUT /api/requests/mark-seen.
func (h *Handler) ServeMarkSeen(w http.ResponseWriter, r *http.Request) {
	var body markSeenBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Missing email")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Flow.MarkSeen(ctx, body.Email); err != nil {
		h.writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Requests marked as seen")
}

// writeError maps workflow and store errors onto the HTTP taxonomy:
// missing/malformed input and business-rule violations are 400, absent
// records 404, anything else 500 with the underlying message surfaced.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, teamflow.ErrMissingFields):
		writeMessage(w, http.StatusBadRequest, "Missing fields")
	case errors.Is(err, teamflow.ErrSelfRequest):
		writeMessage(w, http.StatusBadRequest, "Owner cannot request to join own idea")
	case errors.Is(err, teamflow.ErrDuplicateRequest):
		writeMessage(w, http.StatusBadRequest, "Request already exists or active")
	case errors.Is(err, teamflow.ErrInvalidStatus):
		writeMessage(w, http.StatusBadRequest, "Invalid status")
	case errors.Is(err, teamflow.ErrAlreadyDecided):
		writeMessage(w, http.StatusBadRequest, "Request already decided")
	case errors.Is(err, ideastore.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Idea not found")
	case errors.Is(err, requeststore.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Request not found")
	default:
		h.Log.Error("request handler failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"message": msg})
}
