// internal/app/system/realtime/conn.go
package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/skillswap/skillswap/internal/app/system/teamflow"
	"github.com/skillswap/skillswap/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

// Client-originated event names.
const (
	eventJoinRoom    = "joinRoom"
	eventLeaveRoom   = "leaveRoom"
	eventSendMessage = "sendMessage"
)

// Conn is one websocket connection. It relays room joins/leaves to the hub
// and chat sends into the workflow service; handler errors are logged
// server-side only — the client gets no error feedback for a failed send.
type Conn struct {
	id   string
	hub  *Hub
	flow *teamflow.Service
	sock *websocket.Conn
	send chan []byte
	log  *zap.Logger
}

func NewConn(hub *Hub, flow *teamflow.Service, sock *websocket.Conn, logger *zap.Logger) *Conn {
	return &Conn{
		id:   uuid.NewString(),
		hub:  hub,
		flow: flow,
		sock: sock,
		send: make(chan []byte, sendBufferSize),
		log:  logger,
	}
}

// ID returns the connection's identifier, used in logs.
func (c *Conn) ID() string { return c.id }

// Run services the connection until it closes: the write pump in a goroutine,
// the read pump on the calling goroutine.
func (c *Conn) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Conn) readPump() {
	defer func() {
		c.hub.Drop(c.send)
		c.sock.Close()
		c.log.Info("socket disconnected", zap.String("conn_id", c.id))
	}()

	c.sock.SetReadLimit(maxMessageSize)
	_ = c.sock.SetReadDeadline(time.Now().Add(pongWait))
	c.sock.SetPongHandler(func(string) error {
		return c.sock.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("socket read error", zap.String("conn_id", c.id), zap.Error(err))
			}
			return
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.log.Warn("bad event frame", zap.String("conn_id", c.id), zap.Error(err))
			continue
		}
		c.dispatch(env)
	}
}

func (c *Conn) dispatch(env envelope) {
	switch env.Event {
	case eventJoinRoom:
		if room := c.roomID(env.Data); room != "" {
			c.hub.Join(room, c.send)
			c.log.Info("socket joined room",
				zap.String("conn_id", c.id),
				zap.String("room", room))
		}

	case eventLeaveRoom:
		if room := c.roomID(env.Data); room != "" {
			c.hub.Leave(room, c.send)
			c.log.Info("socket left room",
				zap.String("conn_id", c.id),
				zap.String("room", room))
		}

	case eventSendMessage:
		c.handleSendMessage(env.Data)

	default:
		c.log.Debug("unknown event", zap.String("conn_id", c.id), zap.String("event", env.Event))
	}
}

// roomID decodes a joinRoom/leaveRoom payload, a JSON string team id.
// A falsy/missing id yields "" and the event is ignored.
func (c *Conn) roomID(data json.RawMessage) string {
	var room string
	if err := json.Unmarshal(data, &room); err != nil {
		return ""
	}
	return room
}

func (c *Conn) handleSendMessage(data json.RawMessage) {
	var p struct {
		TeamID      string `json:"teamId"`
		SenderEmail string `json:"senderEmail"`
		Text        string `json:"text"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		c.log.Warn("bad sendMessage payload", zap.String("conn_id", c.id), zap.Error(err))
		return
	}
	if p.TeamID == "" || p.SenderEmail == "" || p.Text == "" {
		return
	}

	teamID, err := primitive.ObjectIDFromHex(p.TeamID)
	if err != nil {
		c.log.Warn("bad team id in sendMessage",
			zap.String("conn_id", c.id),
			zap.String("team_id", p.TeamID))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Medium())
	defer cancel()

	// Persistence failures are dropped silently on this path; the sender
	// gets no error frame back.
	if _, err := c.flow.SendMessage(ctx, teamID, p.SenderEmail, p.Text); err != nil {
		c.log.Warn("sendMessage failed",
			zap.String("conn_id", c.id),
			zap.String("team_id", p.TeamID),
			zap.Error(err))
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.sock.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.sock.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.sock.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
