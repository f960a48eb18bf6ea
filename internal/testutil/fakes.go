// Package testutil provides in-memory store fakes and HTTP helpers for
// handler and workflow tests. The fakes mirror the Mongo-backed stores'
// semantics, including their sentinel errors, so tests exercise the same
// error paths the real stores produce.
package testutil

import (
	"context"
	"sync"
	"time"

	ideastore "github.com/skillswap/skillswap/internal/app/store/ideas"
	notificationstore "github.com/skillswap/skillswap/internal/app/store/notifications"
	requeststore "github.com/skillswap/skillswap/internal/app/store/requests"
	teamstore "github.com/skillswap/skillswap/internal/app/store/teams"
	userstore "github.com/skillswap/skillswap/internal/app/store/users"
	"github.com/skillswap/skillswap/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemIdeas is an in-memory idea store.
type MemIdeas struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.Idea
}

func NewMemIdeas() *MemIdeas {
	return &MemIdeas{items: make(map[primitive.ObjectID]models.Idea)}
}

// Put inserts or replaces an idea directly, assigning an id if absent.
// Test setup helper.
func (s *MemIdeas) Put(idea models.Idea) models.Idea {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idea.ID.IsZero() {
		idea.ID = primitive.NewObjectID()
	}
	if idea.MembersFilled == 0 {
		idea.MembersFilled = 1
	}
	s.items[idea.ID] = idea
	return idea
}

func (s *MemIdeas) Create(ctx context.Context, idea models.Idea) (models.Idea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idea.ID = primitive.NewObjectID()
	if idea.MembersFilled == 0 {
		idea.MembersFilled = 1
	}
	now := time.Now().UTC()
	idea.CreatedAt = now
	idea.UpdatedAt = now
	s.items[idea.ID] = idea
	return idea, nil
}

func (s *MemIdeas) GetByID(ctx context.Context, id primitive.ObjectID) (models.Idea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idea, ok := s.items[id]
	if !ok {
		return models.Idea{}, ideastore.ErrNotFound
	}
	return idea, nil
}

func (s *MemIdeas) List(ctx context.Context) ([]models.Idea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Idea, 0, len(s.items))
	for _, idea := range s.items {
		out = append(out, idea)
	}
	return out, nil
}

func (s *MemIdeas) ListByOwner(ctx context.Context, email string) ([]models.Idea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Idea
	for _, idea := range s.items {
		if idea.Email == email {
			out = append(out, idea)
		}
	}
	return out, nil
}

func (s *MemIdeas) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func (s *MemIdeas) AddMember(ctx context.Context, ideaID primitive.ObjectID, email string, joinedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idea, ok := s.items[ideaID]
	if !ok {
		return false, nil
	}
	for _, m := range idea.Members {
		if m.Email == email {
			return false, nil
		}
	}
	idea.Members = append(idea.Members, models.IdeaMember{Email: email, Role: models.RoleMember, JoinedAt: joinedAt})
	idea.MembersFilled++
	s.items[ideaID] = idea
	return true, nil
}

func (s *MemIdeas) RemoveMember(ctx context.Context, ideaID primitive.ObjectID, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idea, ok := s.items[ideaID]
	if !ok {
		return false, nil
	}
	for i, m := range idea.Members {
		if m.Email == email {
			idea.Members = append(idea.Members[:i], idea.Members[i+1:]...)
			idea.MembersFilled--
			s.items[ideaID] = idea
			return true, nil
		}
	}
	return false, nil
}

// MemRequests is an in-memory join-request store.
type MemRequests struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.JoinRequest
}

func NewMemRequests() *MemRequests {
	return &MemRequests{items: make(map[primitive.ObjectID]models.JoinRequest)}
}

// Put inserts a request directly, assigning an id if absent. Test setup
// helper.
func (s *MemRequests) Put(req models.JoinRequest) models.JoinRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	if req.Status == "" {
		req.Status = models.StatusPending
	}
	s.items[req.ID] = req
	return req
}

func (s *MemRequests) Create(ctx context.Context, req models.JoinRequest) (models.JoinRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req.ID = primitive.NewObjectID()
	req.Status = models.StatusPending
	req.Seen = false
	now := time.Now().UTC()
	req.CreatedAt = now
	req.UpdatedAt = now
	s.items[req.ID] = req
	return req, nil
}

func (s *MemRequests) GetByID(ctx context.Context, id primitive.ObjectID) (models.JoinRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.items[id]
	if !ok {
		return models.JoinRequest{}, requeststore.ErrNotFound
	}
	return req, nil
}

func (s *MemRequests) HasActive(ctx context.Context, ideaID primitive.ObjectID, requesterEmail string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, req := range s.items {
		if req.IdeaID == ideaID && req.RequesterEmail == requesterEmail &&
			(req.Status == models.StatusPending || req.Status == models.StatusAccepted) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemRequests) Transition(ctx context.Context, id primitive.ObjectID, from, to string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.items[id]
	if !ok || req.Status != from {
		return false, nil
	}
	req.Status = to
	req.UpdatedAt = time.Now().UTC()
	s.items[id] = req
	return true, nil
}

func (s *MemRequests) MarkSeen(ctx context.Context, ownerEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, req := range s.items {
		if req.OwnerEmail == ownerEmail && !req.Seen {
			req.Seen = true
			s.items[id] = req
		}
	}
	return nil
}

func (s *MemRequests) DeleteActive(ctx context.Context, ideaID primitive.ObjectID, requesterEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, req := range s.items {
		if req.IdeaID == ideaID && req.RequesterEmail == requesterEmail &&
			(req.Status == models.StatusPending || req.Status == models.StatusAccepted) {
			delete(s.items, id)
		}
	}
	return nil
}

func (s *MemRequests) ListByOwner(ctx context.Context, email string) ([]models.JoinRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.JoinRequest
	for _, req := range s.items {
		if req.OwnerEmail == email {
			out = append(out, req)
		}
	}
	return out, nil
}

func (s *MemRequests) ListByRequester(ctx context.Context, email string) ([]models.JoinRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.JoinRequest
	for _, req := range s.items {
		if req.RequesterEmail == email {
			out = append(out, req)
		}
	}
	return out, nil
}

// All returns a snapshot of every stored request. Test assertion helper.
func (s *MemRequests) All() []models.JoinRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.JoinRequest, 0, len(s.items))
	for _, req := range s.items {
		out = append(out, req)
	}
	return out
}

// MemTeams is an in-memory team store.
type MemTeams struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.Team
}

func NewMemTeams() *MemTeams {
	return &MemTeams{items: make(map[primitive.ObjectID]models.Team)}
}

// Put inserts a team directly, assigning an id if absent. Test setup helper.
func (s *MemTeams) Put(team models.Team) models.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	if team.ID.IsZero() {
		team.ID = primitive.NewObjectID()
	}
	s.items[team.ID] = team
	return team
}

func (s *MemTeams) GetByID(ctx context.Context, id primitive.ObjectID) (models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.items[id]
	if !ok {
		return models.Team{}, teamstore.ErrNotFound
	}
	return team, nil
}

func (s *MemTeams) GetOrCreate(ctx context.Context, ideaID primitive.ObjectID, seed []models.TeamMember) (models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, team := range s.items {
		if team.IdeaID == ideaID {
			return team, nil
		}
	}
	now := time.Now().UTC()
	team := models.Team{
		ID:        primitive.NewObjectID(),
		IdeaID:    ideaID,
		Members:   append([]models.TeamMember(nil), seed...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.items[team.ID] = team
	return team, nil
}

func (s *MemTeams) AddMember(ctx context.Context, teamID primitive.ObjectID, member models.TeamMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.items[teamID]
	if !ok {
		return teamstore.ErrNotFound
	}
	for _, m := range team.Members {
		if m.Email == member.Email {
			return nil
		}
	}
	team.Members = append(team.Members, member)
	s.items[teamID] = team
	return nil
}

func (s *MemTeams) RemoveMember(ctx context.Context, teamID primitive.ObjectID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.items[teamID]
	if !ok {
		return teamstore.ErrNotFound
	}
	for i, m := range team.Members {
		if m.Email == email {
			team.Members = append(team.Members[:i], team.Members[i+1:]...)
			s.items[teamID] = team
			return nil
		}
	}
	return teamstore.ErrNotAMember
}

func (s *MemTeams) ListByMember(ctx context.Context, email string) ([]models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Team
	for _, team := range s.items {
		if team.HasMember(email) {
			out = append(out, team)
		}
	}
	return out, nil
}

func (s *MemTeams) AppendMessage(ctx context.Context, teamID primitive.ObjectID, msg models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.items[teamID]
	if !ok {
		return teamstore.ErrNotFound
	}
	team.Messages = append(team.Messages, msg)
	s.items[teamID] = team
	return nil
}

// MemNotifications is an in-memory notification store.
type MemNotifications struct {
	mu    sync.Mutex
	items []models.Notification
}

func NewMemNotifications() *MemNotifications {
	return &MemNotifications{}
}

func (s *MemNotifications) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now().UTC()
	s.items = append(s.items, n)
	return n, nil
}

func (s *MemNotifications) ListRecent(ctx context.Context, email string) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].UserEmail == email {
			out = append(out, s.items[i])
		}
	}
	return out, nil
}

func (s *MemNotifications) MarkRead(ctx context.Context, id primitive.ObjectID) (models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Read = true
			return s.items[i], nil
		}
	}
	return models.Notification{}, notificationstore.ErrNotFound
}

func (s *MemNotifications) MarkAllRead(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].UserEmail == email {
			s.items[i].Read = true
		}
	}
	return nil
}

// All returns a snapshot of every stored notification. Test assertion
// helper.
func (s *MemNotifications) All() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Notification(nil), s.items...)
}

// ForUser returns stored notifications addressed to email, oldest first.
func (s *MemNotifications) ForUser(email string) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for _, n := range s.items {
		if n.UserEmail == email {
			out = append(out, n)
		}
	}
	return out
}

// MemUsers is an in-memory user directory.
type MemUsers struct {
	mu    sync.Mutex
	items map[string]models.User
}

func NewMemUsers() *MemUsers {
	return &MemUsers{items: make(map[string]models.User)}
}

// Put inserts a user keyed by email. Test setup helper.
func (s *MemUsers) Put(u models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.items[u.Email] = u
	return u
}

func (s *MemUsers) GetByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.items[email]
	if !ok {
		return models.User{}, userstore.ErrNotFound
	}
	return u, nil
}

// PublishedEvent is one Publish call recorded by RecorderHub.
type PublishedEvent struct {
	Room    string
	Event   string
	Payload any
}

// RecorderHub records broadcast calls in order so tests can assert on
// event sequencing without a live hub.
type RecorderHub struct {
	mu     sync.Mutex
	events []PublishedEvent
}

func NewRecorderHub() *RecorderHub {
	return &RecorderHub{}
}

func (h *RecorderHub) Publish(room, event string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, PublishedEvent{Room: room, Event: event, Payload: payload})
}

// Events returns the recorded publish calls in order.
func (h *RecorderHub) Events() []PublishedEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]PublishedEvent(nil), h.events...)
}
