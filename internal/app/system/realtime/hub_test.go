package realtime

import (
	"encoding/json"
	"testing"

	"go.uber.org/zap"
)

func recv(t *testing.T, ch chan []byte) envelope {
	t.Helper()
	select {
	case raw := <-ch:
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("unmarshal envelope: %v", err)
		}
		return env
	default:
		t.Fatal("no frame delivered")
		return envelope{}
	}
}

func TestPublishFansOutToRoom(t *testing.T) {
	hub := NewHub(zap.NewNop())

	a := make(chan []byte, 4)
	b := make(chan []byte, 4)
	other := make(chan []byte, 4)
	hub.Join("room-1", a)
	hub.Join("room-1", b)
	hub.Join("room-2", other)

	hub.Publish("room-1", "receiveMessage", map[string]string{"text": "hi"})

	for _, ch := range []chan []byte{a, b} {
		env := recv(t, ch)
		if env.Event != "receiveMessage" {
			t.Errorf("event: got %q", env.Event)
		}
	}
	select {
	case <-other:
		t.Error("frame leaked into another room")
	default:
	}
}

func TestPublishToEmptyRoomIsNoOp(t *testing.T) {
	hub := NewHub(zap.NewNop())
	hub.Publish("nobody-here", "memberJoined", nil)
}

func TestJoinEmptyRoomIsNoOp(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ch := make(chan []byte, 1)
	hub.Join("", ch)
	if got := hub.RoomSize(""); got != 0 {
		t.Errorf("room size: got %d, want 0", got)
	}
}

func TestLeaveStopsDelivery(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ch := make(chan []byte, 4)
	hub.Join("room-1", ch)
	hub.Leave("room-1", ch)

	hub.Publish("room-1", "receiveMessage", nil)
	select {
	case <-ch:
		t.Error("frame delivered after leave")
	default:
	}
}

func TestDropRemovesFromAllRooms(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ch := make(chan []byte, 4)
	hub.Join("room-1", ch)
	hub.Join("room-2", ch)

	hub.Drop(ch)
	if hub.RoomSize("room-1") != 0 || hub.RoomSize("room-2") != 0 {
		t.Error("subscriber survived drop")
	}
}

func TestNoReplayOnJoin(t *testing.T) {
	hub := NewHub(zap.NewNop())
	hub.Publish("room-1", "receiveMessage", map[string]string{"text": "before"})

	late := make(chan []byte, 4)
	hub.Join("room-1", late)
	select {
	case <-late:
		t.Error("late joiner received an earlier frame")
	default:
	}
}

func TestSlowSubscriberDropsFrame(t *testing.T) {
	hub := NewHub(zap.NewNop())
	full := make(chan []byte, 1)
	full <- []byte("occupied")
	hub.Join("room-1", full)

	healthy := make(chan []byte, 4)
	hub.Join("room-1", healthy)

	hub.Publish("room-1", "receiveMessage", nil)

	// The healthy subscriber still gets the frame; the full one keeps only
	// its old contents.
	recv(t, healthy)
	if got := <-full; string(got) != "occupied" {
		t.Errorf("full channel contents: got %q", got)
	}
	select {
	case <-full:
		t.Error("frame was delivered to a full channel")
	default:
	}
}
