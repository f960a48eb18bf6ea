// internal/app/features/ideas/handler.go
package ideas

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/skillswap/skillswap/internal/app/system/htmlsanitize"
	"github.com/skillswap/skillswap/internal/app/system/timeouts"
	"github.com/skillswap/skillswap/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is the idea persistence surface the handlers need.
type Store interface {
	Create(ctx context.Context, idea models.Idea) (models.Idea, error)
	List(ctx context.Context) ([]models.Idea, error)
	ListByOwner(ctx context.Context, email string) ([]models.Idea, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Handler serves the idea endpoints.
type Handler struct {
	Ideas Store
	Log   *zap.Logger
}

func NewHandler(store Store, logger *zap.Logger) *Handler {
	return &Handler{Ideas: store, Log: logger}
}

// ServeCreate handles POST /api/ideas.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var idea models.Idea
	if err := json.NewDecoder(r.Body).Decode(&idea); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if idea.IdeaName == "" || idea.Description == "" || idea.Category == "" ||
		idea.SkillsNeeded == "" || idea.RolesNeeded == "" || idea.Email == "" ||
		idea.TeamSize <= 0 {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	idea.Description = htmlsanitize.Sanitize(idea.Description)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Ideas.Create(ctx, idea)
	if err != nil {
		h.Log.Error("idea create failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ServeList handles GET /api/ideas.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ideas, err := h.Ideas.List(ctx)
	if err != nil {
		h.Log.Error("idea list failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ideas)
}

// ServeListByUser handles GET /api/ideas/user?email=.
func (h *Handler) ServeListByUser(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ideas, err := h.Ideas.ListByOwner(ctx, email)
	if err != nil {
		h.Log.Error("idea list by user failed", zap.String("email", email), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ideas)
}

// ServeDelete handles DELETE /api/ideas/{id}. Deleting an unknown id is a
// no-op success.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid idea id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Ideas.Delete(ctx, id); err != nil {
		h.Log.Error("idea delete failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Idea deleted"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
