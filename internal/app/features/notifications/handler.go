// internal/app/features/notifications/handler.go
package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	notificationstore "github.com/skillswap/skillswap/internal/app/store/notifications"
	"github.com/skillswap/skillswap/internal/app/system/inputval"
	"github.com/skillswap/skillswap/internal/app/system/timeouts"
	"github.com/skillswap/skillswap/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is the notification persistence surface the handlers need.
type Store interface {
	ListRecent(ctx context.Context, email string) ([]models.Notification, error)
	MarkRead(ctx context.Context, id primitive.ObjectID) (models.Notification, error)
	MarkAllRead(ctx context.Context, email string) error
}

// Handler serves the notification endpoints.
type Handler struct {
	Notifications Store
	Log           *zap.Logger
}

func NewHandler(store Store, logger *zap.Logger) *Handler {
	return &Handler{Notifications: store, Log: logger}
}

// ServeList handles GET /api/notifications?email=.
// Returns at most 100 notifications, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if !inputval.IsValidEmail(email) {
		writeMessage(w, http.StatusBadRequest, "Missing or invalid email param")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	notifs, err := h.Notifications.ListRecent(ctx, email)
	if err != nil {
		h.Log.Error("notification list failed", zap.String("email", email), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, notifs)
}

// ServeMarkRead handles PUT /api/notifications/{id}/read.
func (h *Handler) ServeMarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Notification not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	notif, err := h.Notifications.MarkRead(ctx, id)
	if err != nil {
		if errors.Is(err, notificationstore.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Notification not found")
			return
		}
		h.Log.Error("notification mark-read failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, notif)
}

type markAllReadBody struct {
	Email string `json:"email"`
}

// ServeMarkAllRead handles PUT /api/notifications/mark-all-read.
func (h *Handler) ServeMarkAllRead(w http.ResponseWriter, r *http.Request) {
	var body markAllReadBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Missing or invalid email")
		return
	}
	email := strings.TrimSpace(body.Email)
	if !inputval.IsValidEmail(email) {
		writeMessage(w, http.StatusBadRequest, "Missing or invalid email")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Notifications.MarkAllRead(ctx, email); err != nil {
		h.Log.Error("notification mark-all-read failed", zap.String("email", email), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeMessage(w, http.StatusOK, "All notifications marked as read")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"message": msg})
}
