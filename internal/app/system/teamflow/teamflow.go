// internal/app/system/teamflow/teamflow.go
// Package teamflow owns the team-formation workflow: the join-request
// lifecycle, team membership mutation, the notification side effects those
// transitions produce, and publication of room-scoped realtime events.
//
// The stores and the broadcast hub are injected as interfaces so the
// workflow can be exercised in tests without a live database or transport.
// Within a single call the side-effect sequence runs in order
// (persist → notify → broadcast); failures after the primary mutation are
// logged and swallowed, never rolled back — authoritative state wins over
// side-channel delivery.
package teamflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skillswap/skillswap/internal/app/system/htmlsanitize"
	"github.com/skillswap/skillswap/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	// ErrMissingFields is returned when a required field is empty.
	ErrMissingFields = errors.New("missing fields")
	// ErrSelfRequest is returned when an owner requests to join their own idea.
	ErrSelfRequest = errors.New("owner cannot request to join own idea")
	// ErrDuplicateRequest is returned when a pending or accepted request
	// already exists for the (idea, requester) pair.
	ErrDuplicateRequest = errors.New("request already exists or active")
	// ErrInvalidStatus is returned for a decide call with a status outside
	// pending/accepted/rejected.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrAlreadyDecided is returned when a decide call loses the race: the
	// request left pending under a concurrent call with a different outcome.
	ErrAlreadyDecided = errors.New("request already decided")
)

// Realtime event names, room-scoped by team id.
const (
	EventReceiveMessage = "receiveMessage"
	EventMemberJoined   = "memberJoined"
	EventMemberRemoved  = "memberRemoved"
)

// MemberEvent is the payload for memberJoined and memberRemoved.
type MemberEvent struct {
	Email  string `json:"email"`
	TeamID string `json:"teamId"`
}

// MessageEvent is the payload for receiveMessage.
type MessageEvent struct {
	SenderEmail string    `json:"senderEmail"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"createdAt"`
	TeamID      string    `json:"teamId"`
}

// IdeaStore is the idea-aggregate surface the workflow mutates.
type IdeaStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Idea, error)
	AddMember(ctx context.Context, ideaID primitive.ObjectID, email string, joinedAt time.Time) (bool, error)
	RemoveMember(ctx context.Context, ideaID primitive.ObjectID, email string) (bool, error)
}

// RequestStore is the join-request surface the workflow drives.
type RequestStore interface {
	Create(ctx context.Context, req models.JoinRequest) (models.JoinRequest, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.JoinRequest, error)
	HasActive(ctx context.Context, ideaID primitive.ObjectID, requesterEmail string) (bool, error)
	Transition(ctx context.Context, id primitive.ObjectID, from, to string) (bool, error)
	MarkSeen(ctx context.Context, ownerEmail string) error
	DeleteActive(ctx context.Context, ideaID primitive.ObjectID, requesterEmail string) error
}

// TeamStore is the team-aggregate surface the workflow mutates.
type TeamStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Team, error)
	GetOrCreate(ctx context.Context, ideaID primitive.ObjectID, seed []models.TeamMember) (models.Team, error)
	AddMember(ctx context.Context, teamID primitive.ObjectID, member models.TeamMember) error
	RemoveMember(ctx context.Context, teamID primitive.ObjectID, email string) error
	AppendMessage(ctx context.Context, teamID primitive.ObjectID, msg models.ChatMessage) error
}

// NotificationStore records per-user notifications.
type NotificationStore interface {
	Create(ctx context.Context, n models.Notification) (models.Notification, error)
}

// Broadcaster fans an event out to every connection currently subscribed to
// a room. Implementations must treat an empty room as a no-op.
type Broadcaster interface {
	Publish(room, event string, payload any)
}

// Service coordinates the join-request state machine and its side effects.
type Service struct {
	Ideas         IdeaStore
	Requests      RequestStore
	Teams         TeamStore
	Notifications NotificationStore
	Hub           Broadcaster
	Log           *zap.Logger
}

func NewService(ideas IdeaStore, requests RequestStore, teams TeamStore, notifications NotificationStore, hub Broadcaster, logger *zap.Logger) *Service {
	return &Service{
		Ideas:         ideas,
		Requests:      requests,
		Teams:         teams,
		Notifications: notifications,
		Hub:           hub,
		Log:           logger,
	}
}

// CreateRequest files a pending join request against an idea and notifies
// the owner. At most one pending/accepted request may exist per
// (idea, requester) pair.
func (s *Service) CreateRequest(ctx context.Context, ideaID primitive.ObjectID, requesterEmail, ownerEmail string) (models.JoinRequest, error) {
	if ideaID.IsZero() || requesterEmail == "" || ownerEmail == "" {
		return models.JoinRequest{}, ErrMissingFields
	}

	idea, err := s.Ideas.GetByID(ctx, ideaID)
	if err != nil {
		return models.JoinRequest{}, err
	}

	if requesterEmail == ownerEmail {
		return models.JoinRequest{}, ErrSelfRequest
	}

	active, err := s.Requests.HasActive(ctx, ideaID, requesterEmail)
	if err != nil {
		return models.JoinRequest{}, err
	}
	if active {
		return models.JoinRequest{}, ErrDuplicateRequest
	}

	req, err := s.Requests.Create(ctx, models.JoinRequest{
		IdeaID:         ideaID,
		RequesterEmail: requesterEmail,
		OwnerEmail:     ownerEmail,
	})
	if err != nil {
		return models.JoinRequest{}, err
	}

	s.notify(ctx, ownerEmail, "New join request",
		fmt.Sprintf("%s requested to join your project %q", requesterEmail, idea.IdeaName),
		"/requests")

	return req, nil
}

// Decide applies an owner's decision to a request.
//
// Re-applying the request's current status is a no-op success. A request
// leaves pending exactly once: the transition is a conditional update on the
// current status, so of two concurrent accepts only one performs the
// membership mutation. A decide that finds the request already settled
// differently returns ErrAlreadyDecided. Setting the status back to pending
// re-opens the request without side effects.
//
// On acceptance the returned team id is non-zero and identifies the team the
// requester joined.
func (s *Service) Decide(ctx context.Context, requestID primitive.ObjectID, status string) (models.JoinRequest, primitive.ObjectID, error) {
	req, err := s.Requests.GetByID(ctx, requestID)
	if err != nil {
		return models.JoinRequest{}, primitive.NilObjectID, err
	}

	if !models.IsDecidableStatus(status) {
		return models.JoinRequest{}, primitive.NilObjectID, ErrInvalidStatus
	}

	// Idempotent re-application: no transition, no side effects.
	if req.Status == status {
		return req, primitive.NilObjectID, nil
	}

	if status != models.StatusPending && req.Status != models.StatusPending {
		return models.JoinRequest{}, primitive.NilObjectID, ErrAlreadyDecided
	}

	moved, err := s.Requests.Transition(ctx, requestID, req.Status, status)
	if err != nil {
		return models.JoinRequest{}, primitive.NilObjectID, err
	}
	if !moved {
		return models.JoinRequest{}, primitive.NilObjectID, ErrAlreadyDecided
	}
	req.Status = status

	switch status {
	case models.StatusAccepted:
		teamID, err := s.accept(ctx, req)
		if err != nil {
			return models.JoinRequest{}, primitive.NilObjectID, err
		}
		return req, teamID, nil

	case models.StatusRejected:
		ideaName := "the project"
		if idea, err := s.Ideas.GetByID(ctx, req.IdeaID); err == nil {
			ideaName = idea.IdeaName
		}
		s.notify(ctx, req.RequesterEmail, "Request rejected",
			fmt.Sprintf("Your request to join %q was rejected.", ideaName),
			"/explore")
	}

	return req, primitive.NilObjectID, nil
}

// accept performs the membership mutations for an accepted request: the idea
// gains the requester (counter and member set move together), the team is
// created on first acceptance seeded with owner and requester, and the
// requester is added idempotently otherwise.
func (s *Service) accept(ctx context.Context, req models.JoinRequest) (primitive.ObjectID, error) {
	idea, err := s.Ideas.GetByID(ctx, req.IdeaID)
	if err != nil {
		return primitive.NilObjectID, err
	}

	now := time.Now().UTC()
	if _, err := s.Ideas.AddMember(ctx, req.IdeaID, req.RequesterEmail, now); err != nil {
		return primitive.NilObjectID, err
	}

	seed := []models.TeamMember{
		{Email: idea.Email, Role: models.RoleOwner, JoinedAt: now},
		{Email: req.RequesterEmail, Role: models.RoleMember, JoinedAt: now},
	}
	team, err := s.Teams.GetOrCreate(ctx, req.IdeaID, seed)
	if err != nil {
		return primitive.NilObjectID, err
	}

	// No-op when the team was just created with the requester seeded in.
	member := models.TeamMember{Email: req.RequesterEmail, Role: models.RoleMember, JoinedAt: now}
	if err := s.Teams.AddMember(ctx, team.ID, member); err != nil {
		return primitive.NilObjectID, err
	}

	s.notify(ctx, req.RequesterEmail, "Request accepted",
		fmt.Sprintf("You have been accepted into %q.", idea.IdeaName),
		"/workspace/"+team.ID.Hex())

	s.publish(team.ID.Hex(), EventMemberJoined, MemberEvent{
		Email:  req.RequesterEmail,
		TeamID: team.ID.Hex(),
	})

	return team.ID, nil
}

// MarkSeen bulk-marks an owner's requests as seen.
func (s *Service) MarkSeen(ctx context.Context, ownerEmail string) error {
	if ownerEmail == "" {
		return ErrMissingFields
	}
	return s.Requests.MarkSeen(ctx, ownerEmail)
}

// RemoveMember removes a member from a team and cascades: the linked idea
// loses the member and its fill counter, any active join request for the
// pair is deleted (not relabeled), the member is notified, a system chat
// message is recorded, and memberRemoved then receiveMessage are published
// to the team's room in that order.
func (s *Service) RemoveMember(ctx context.Context, teamID primitive.ObjectID, email string) error {
	team, err := s.Teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}

	if err := s.Teams.RemoveMember(ctx, teamID, email); err != nil {
		return err
	}

	if _, err := s.Ideas.RemoveMember(ctx, team.IdeaID, email); err != nil {
		return err
	}

	if err := s.Requests.DeleteActive(ctx, team.IdeaID, email); err != nil {
		return err
	}

	ideaName := "the project"
	if idea, err := s.Ideas.GetByID(ctx, team.IdeaID); err == nil {
		ideaName = idea.IdeaName
	}
	s.notify(ctx, email, "Removed from team",
		fmt.Sprintf("You have been removed from the project %q.", ideaName),
		"/explore")

	sysMsg := models.ChatMessage{
		SenderEmail: models.SystemSender,
		Text:        fmt.Sprintf("%s was removed from the team.", email),
		CreatedAt:   time.Now().UTC(),
	}
	appended := true
	if err := s.Teams.AppendMessage(ctx, teamID, sysMsg); err != nil {
		appended = false
		s.Log.Warn("system message append failed",
			zap.String("team_id", teamID.Hex()),
			zap.Error(err))
	}

	room := teamID.Hex()
	s.publish(room, EventMemberRemoved, MemberEvent{Email: email, TeamID: room})
	if appended {
		// Persist-before-publish: the chat event goes out only for a
		// message that actually made it into the log.
		s.publish(room, EventReceiveMessage, MessageEvent{
			SenderEmail: sysMsg.SenderEmail,
			Text:        sysMsg.Text,
			CreatedAt:   sysMsg.CreatedAt,
			TeamID:      room,
		})
	}

	return nil
}

// SendMessage appends a chat message to the team's log and then publishes it
// to the team's room. Both the REST path and the websocket path call this,
// so stored history and live delivery cannot diverge.
func (s *Service) SendMessage(ctx context.Context, teamID primitive.ObjectID, senderEmail, text string) (models.ChatMessage, error) {
	if teamID.IsZero() || senderEmail == "" || text == "" {
		return models.ChatMessage{}, ErrMissingFields
	}

	msg := models.ChatMessage{
		SenderEmail: senderEmail,
		Text:        htmlsanitize.Strip(text),
		CreatedAt:   time.Now().UTC(),
	}
	if msg.Text == "" {
		return models.ChatMessage{}, ErrMissingFields
	}

	if err := s.Teams.AppendMessage(ctx, teamID, msg); err != nil {
		return models.ChatMessage{}, err
	}

	room := teamID.Hex()
	s.publish(room, EventReceiveMessage, MessageEvent{
		SenderEmail: msg.SenderEmail,
		Text:        msg.Text,
		CreatedAt:   msg.CreatedAt,
		TeamID:      room,
	})

	return msg, nil
}

// notify records a notification, logging and swallowing failures: the
// primary mutation has already happened and forward progress wins.
func (s *Service) notify(ctx context.Context, email, title, message, link string) {
	_, err := s.Notifications.Create(ctx, models.Notification{
		UserEmail: email,
		Title:     title,
		Message:   message,
		Link:      link,
	})
	if err != nil {
		s.Log.Warn("notification create failed",
			zap.String("user_email", email),
			zap.String("title", title),
			zap.Error(err))
	}
}

func (s *Service) publish(room, event string, payload any) {
	if s.Hub == nil {
		return
	}
	s.Hub.Publish(room, event, payload)
}
