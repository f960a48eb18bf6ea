// internal/app/features/skills/handler.go
package skills

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	skillstore "github.com/skillswap/skillswap/internal/app/store/skills"
	"github.com/skillswap/skillswap/internal/app/system/timeouts"
	"github.com/skillswap/skillswap/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is the skill persistence surface the handlers need.
type Store interface {
	Create(ctx context.Context, skill models.Skill) (models.Skill, error)
	List(ctx context.Context, email string) ([]models.Skill, error)
	Update(ctx context.Context, id primitive.ObjectID, skill models.Skill) (models.Skill, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Handler serves the skill-listing endpoints.
type Handler struct {
	Skills Store
	Log    *zap.Logger
}

func NewHandler(store Store, logger *zap.Logger) *Handler {
	return &Handler{Skills: store, Log: logger}
}

// ServeCreate handles POST /api/skills.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var skill models.Skill
	if err := json.NewDecoder(r.Body).Decode(&skill); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if skill.SkillName == "" || skill.Email == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Skills.Create(ctx, skill)
	if err != nil {
		h.Log.Error("skill create failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ServeList handles GET /api/skills with an optional ?email= filter.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Skills.List(ctx, email)
	if err != nil {
		h.Log.Error("skill list failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ServeUpdate handles PUT /api/skills/{id}.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Skill not found")
		return
	}

	var skill models.Skill
	if err := json.NewDecoder(r.Body).Decode(&skill); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Skills.Update(ctx, id, skill)
	if err != nil {
		if errors.Is(err, skillstore.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Skill not found")
			return
		}
		h.Log.Error("skill update failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ServeDelete handles DELETE /api/skills/{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Skill not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Skills.Delete(ctx, id); err != nil {
		h.Log.Error("skill delete failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Skill deleted"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
