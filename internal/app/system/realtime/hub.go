// internal/app/system/realtime/hub.go
// Package realtime is the room-addressed broadcast layer. Rooms are keyed by
// team id; events published to a room are delivered to every connection
// subscribed at publish time. There is no replay: connections that join
// later do not receive past events, and a disconnected client silently
// misses events.
package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// envelope is the wire frame in both directions: {"event": ..., "data": ...}.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Hub tracks room subscriptions and fans published events out to them.
// Subscribers are buffered byte channels owned by their connections; a full
// channel drops that delivery rather than blocking the room (delivery is
// at-most-once by contract).
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[chan []byte]struct{}
	log   *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms: make(map[string]map[chan []byte]struct{}),
		log:   logger,
	}
}

// Join subscribes ch to a room. Joining an empty room id is ignored, not an
// error.
func (h *Hub) Join(room string, ch chan []byte) {
	if room == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.rooms[room]
	if !ok {
		subs = make(map[chan []byte]struct{})
		h.rooms[room] = subs
	}
	subs[ch] = struct{}{}
}

// Leave unsubscribes ch from a room. Leaving a room ch is not in is a no-op.
func (h *Hub) Leave(room string, ch chan []byte) {
	if room == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(room, ch)
}

// Drop unsubscribes ch from every room. Called when a connection closes.
func (h *Hub) Drop(ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room := range h.rooms {
		h.remove(room, ch)
	}
}

// remove expects h.mu held.
func (h *Hub) remove(room string, ch chan []byte) {
	subs, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(subs, ch)
	if len(subs) == 0 {
		delete(h.rooms, room)
	}
}

// Publish marshals {event, payload} and enqueues it on every current
// subscriber of the room. Marshal failures and full subscriber buffers are
// logged and otherwise swallowed: broadcast delivery never fails a caller.
func (h *Hub) Publish(room, event string, payload any) {
	if room == "" {
		return
	}

	frame, err := json.Marshal(struct {
		Event string `json:"event"`
		Data  any    `json:"data"`
	}{Event: event, Data: payload})
	if err != nil {
		h.log.Error("event marshal failed",
			zap.String("room", room),
			zap.String("event", event),
			zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.rooms[room] {
		select {
		case ch <- frame:
		default:
			h.log.Warn("subscriber buffer full, dropping event",
				zap.String("room", room),
				zap.String("event", event))
		}
	}
}

// RoomSize returns the number of current subscribers in a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
