// internal/app/features/ws/handler.go
package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/skillswap/skillswap/internal/app/system/realtime"
	"github.com/skillswap/skillswap/internal/app/system/teamflow"
	"go.uber.org/zap"
)

// Handler upgrades HTTP requests to websocket connections and hands them to
// the realtime hub.
type Handler struct {
	Hub      *realtime.Hub
	Flow     *teamflow.Service
	Log      *zap.Logger
	upgrader websocket.Upgrader
}

// NewHandler builds a websocket handler. allowedOrigins restricts which
// Origin headers may connect; an empty list allows any origin.
func NewHandler(hub *realtime.Hub, flow *teamflow.Service, allowedOrigins []string, logger *zap.Logger) *Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return &Handler{
		Hub:  hub,
		Flow: flow,
		Log:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				_, ok := allowed[r.Header.Get("Origin")]
				return ok
			},
		},
	}
}

// ServeWS handles GET /ws.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sock, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	conn := realtime.NewConn(h.Hub, h.Flow, sock, h.Log)
	h.Log.Info("socket connected", zap.String("conn_id", conn.ID()))
	go conn.Run()
}
