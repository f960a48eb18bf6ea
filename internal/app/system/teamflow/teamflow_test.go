package teamflow_test

import (
	"context"
	"errors"
	"testing"

	teamstore "github.com/skillswap/skillswap/internal/app/store/teams"
	"github.com/skillswap/skillswap/internal/app/system/teamflow"
	"github.com/skillswap/skillswap/internal/domain/models"
	"github.com/skillswap/skillswap/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fixture struct {
	ideas         *testutil.MemIdeas
	requests      *testutil.MemRequests
	teams         *testutil.MemTeams
	notifications *testutil.MemNotifications
	hub           *testutil.RecorderHub
	flow          *teamflow.Service
}

func newFixture() *fixture {
	f := &fixture{
		ideas:         testutil.NewMemIdeas(),
		requests:      testutil.NewMemRequests(),
		teams:         testutil.NewMemTeams(),
		notifications: testutil.NewMemNotifications(),
		hub:           testutil.NewRecorderHub(),
	}
	f.flow = teamflow.NewService(f.ideas, f.requests, f.teams, f.notifications, f.hub, zap.NewNop())
	return f
}

func (f *fixture) seedIdea(owner, name string) models.Idea {
	return f.ideas.Put(models.Idea{
		IdeaName:     name,
		Description:  "a project",
		Category:     "software",
		TeamSize:     4,
		SkillsNeeded: "go",
		RolesNeeded:  "backend",
		Email:        owner,
	})
}

func TestCreateRequest(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	idea := f.seedIdea("owner@test.com", "SkillSwap")

	req, err := f.flow.CreateRequest(ctx, idea.ID, "alice@test.com", "owner@test.com")
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if req.Status != models.StatusPending {
		t.Errorf("status: got %q, want %q", req.Status, models.StatusPending)
	}
	if req.ID.IsZero() {
		t.Error("request id not assigned")
	}

	notifs := f.notifications.ForUser("owner@test.com")
	if len(notifs) != 1 {
		t.Fatalf("owner notifications: got %d, want 1", len(notifs))
	}
	if notifs[0].Title != "New join request" {
		t.Errorf("title: got %q", notifs[0].Title)
	}
	if notifs[0].Link != "/requests" {
		t.Errorf("link: got %q", notifs[0].Link)
	}
}

func TestCreateRequestRejectsSelf(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	idea := f.seedIdea("owner@test.com", "SkillSwap")

	_, err := f.flow.CreateRequest(ctx, idea.ID, "owner@test.com", "owner@test.com")
	if !errors.Is(err, teamflow.ErrSelfRequest) {
		t.Fatalf("err: got %v, want ErrSelfRequest", err)
	}
	if len(f.notifications.All()) != 0 {
		t.Error("self request must not create notifications")
	}
}

func TestCreateRequestDuplicateActive(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	idea := f.seedIdea("owner@test.com", "SkillSwap")

	for _, status := range []string{models.StatusPending, models.StatusAccepted} {
		t.Run(status, func(t *testing.T) {
			f := newFixture()
			idea := f.seedIdea("owner@test.com", "SkillSwap")
			f.requests.Put(models.JoinRequest{
				IdeaID:         idea.ID,
				RequesterEmail: "alice@test.com",
				OwnerEmail:     "owner@test.com",
				Status:         status,
			})
			_, err := f.flow.CreateRequest(ctx, idea.ID, "alice@test.com", "owner@test.com")
			if !errors.Is(err, teamflow.ErrDuplicateRequest) {
				t.Fatalf("err: got %v, want ErrDuplicateRequest", err)
			}
		})
	}

	// A rejected request does not block a new one.
	f.requests.Put(models.JoinRequest{
		IdeaID:         idea.ID,
		RequesterEmail: "alice@test.com",
		OwnerEmail:     "owner@test.com",
		Status:         models.StatusRejected,
	})
	if _, err := f.flow.CreateRequest(ctx, idea.ID, "alice@test.com", "owner@test.com"); err != nil {
		t.Fatalf("re-request after rejection: %v", err)
	}
}

func TestCreateRequestMissingFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	idea := f.seedIdea("owner@test.com", "SkillSwap")

	_, err := f.flow.CreateRequest(ctx, primitive.NilObjectID, "alice@test.com", "owner@test.com")
	if !errors.Is(err, teamflow.ErrMissingFields) {
		t.Errorf("nil idea id: got %v, want ErrMissingFields", err)
	}
	_, err = f.flow.CreateRequest(ctx, idea.ID, "", "owner@test.com")
	if !errors.Is(err, teamflow.ErrMissingFields) {
		t.Errorf("empty requester: got %v, want ErrMissingFields", err)
	}
}

func TestDecideAccept(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	idea := f.seedIdea("owner@test.com", "SkillSwap")
	req := f.requests.Put(models.JoinRequest{
		IdeaID:         idea.ID,
		RequesterEmail: "alice@test.com",
		OwnerEmail:     "owner@test.com",
	})

	decided, teamID, err := f.flow.Decide(ctx, req.ID, models.StatusAccepted)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decided.Status != models.StatusAccepted {
		t.Errorf("status: got %q", decided.Status)
	}
	if teamID.IsZero() {
		t.Fatal("accept must return the team id")
	}

	team, err := f.teams.GetByID(ctx, teamID)
	if err != nil {
		t.Fatalf("team lookup: %v", err)
	}
	if !team.HasMember("owner@test.com") || !team.HasMember("alice@test.com") {
		t.Errorf("team members: got %+v", team.Members)
	}

	after, _ := f.ideas.GetByID(ctx, idea.ID)
	if after.MembersFilled != 2 {
		t.Errorf("members filled: got %d, want 2", after.MembersFilled)
	}
	if len(after.Members) != 1 || after.Members[0].Email != "alice@test.com" {
		t.Errorf("idea members: got %+v", after.Members)
	}

	notifs := f.notifications.ForUser("alice@test.com")
	if len(notifs) != 1 {
		t.Fatalf("requester notifications: got %d, want 1", len(notifs))
	}
	if notifs[0].Title != "Request accepted" {
		t.Errorf("title: got %q", notifs[0].Title)
	}
	if want := "/workspace/" + teamID.Hex(); notifs[0].Link != want {
		t.Errorf("link: got %q, want %q", notifs[0].Link, want)
	}

	events := f.hub.Events()
	if len(events) != 1 {
		t.Fatalf("published events: got %d, want 1", len(events))
	}
	if events[0].Room != teamID.Hex() || events[0].Event != teamflow.EventMemberJoined {
		t.Errorf("event: got %+v", events[0])
	}
}

func TestDecideIdempotentReapply(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	idea := f.seedIdea("owner@test.com", "SkillSwap")
	req := f.requests.Put(models.JoinRequest{
		IdeaID:         idea.ID,
		RequesterEmail: "alice@test.com",
		OwnerEmail:     "owner@test.com",
	})

	if _, _, err := f.flow.Decide(ctx, req.ID, models.StatusAccepted); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	before := len(f.hub.Events())

	decided, teamID, err := f.flow.Decide(ctx, req.ID, models.StatusAccepted)
	if err != nil {
		t.Fatalf("re-accept: %v", err)
	}
	if decided.Status != models.StatusAccepted {
		t.Errorf("status: got %q", decided.Status)
	}
	if !teamID.IsZero() {
		t.Error("idempotent re-apply must not return a team id")
	}
	if got := len(f.hub.Events()); got != before {
		t.Errorf("events after re-apply: got %d, want %d", got, before)
	}

	after, _ := f.ideas.GetByID(ctx, idea.ID)
	if after.MembersFilled != 2 {
		t.Errorf("members filled after re-apply: got %d, want 2", after.MembersFilled)
	}
}

func TestDecideReject(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	idea := f.seedIdea("owner@test.com", "SkillSwap")
	req := f.requests.Put(models.JoinRequest{
		IdeaID:         idea.ID,
		RequesterEmail: "alice@test.com",
		OwnerEmail:     "owner@test.com",
	})

	decided, teamID, err := f.flow.Decide(ctx, req.ID, models.StatusRejected)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decided.Status != models.StatusRejected {
		t.Errorf("status: got %q", decided.Status)
	}
	if !teamID.IsZero() {
		t.Error("reject must not return a team id")
	}

	after, _ := f.ideas.GetByID(ctx, idea.ID)
	if after.MembersFilled != 1 || len(after.Members) != 0 {
		t.Errorf("reject must not touch idea membership: %+v", after)
	}
	if len(f.hub.Events()) != 0 {
		t.Error("reject must not publish events")
	}

	notifs := f.notifications.ForUser("alice@test.com")
	if len(notifs) != 1 || notifs[0].Title != "Request rejected" {
		t.Fatalf("requester notifications: got %+v", notifs)
	}
	if notifs[0].Link != "/explore" {
		t.Errorf("link: got %q", notifs[0].Link)
	}
}

func TestDecideConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	idea := f.seedIdea("owner@test.com", "SkillSwap")
	req := f.requests.Put(models.JoinRequest{
		IdeaID:         idea.ID,
		RequesterEmail: "alice@test.com",
		OwnerEmail:     "owner@test.com",
	})

	if _, _, err := f.flow.Decide(ctx, req.ID, models.StatusRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}
	_, _, err := f.flow.Decide(ctx, req.ID, models.StatusAccepted)
	if !errors.Is(err, teamflow.ErrAlreadyDecided) {
		t.Fatalf("accept after reject: got %v, want ErrAlreadyDecided", err)
	}
}

func TestDecideReopen(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	idea := f.seedIdea("owner@test.com", "SkillSwap")
	req := f.requests.Put(models.JoinRequest{
		IdeaID:         idea.ID,
		RequesterEmail: "alice@test.com",
		OwnerEmail:     "owner@test.com",
		Status:         models.StatusRejected,
	})

	decided, _, err := f.flow.Decide(ctx, req.ID, models.StatusPending)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if decided.Status != models.StatusPending {
		t.Errorf("status: got %q", decided.Status)
	}
	if len(f.notifications.All()) != 0 || len(f.hub.Events()) != 0 {
		t.Error("reopen must have no side effects")
	}
}

func TestDecideInvalidStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	idea := f.seedIdea("owner@test.com", "SkillSwap")
	req := f.requests.Put(models.JoinRequest{
		IdeaID:         idea.ID,
		RequesterEmail: "alice@test.com",
		OwnerEmail:     "owner@test.com",
	})

	for _, status := range []string{"kicked", "removed", "bogus", ""} {
		if _, _, err := f.flow.Decide(ctx, req.ID, status); !errors.Is(err, teamflow.ErrInvalidStatus) {
			t.Errorf("status %q: got %v, want ErrInvalidStatus", status, err)
		}
	}
}

func TestAcceptReusesTeam(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	idea := f.seedIdea("owner@test.com", "SkillSwap")

	first := f.requests.Put(models.JoinRequest{
		IdeaID: idea.ID, RequesterEmail: "alice@test.com", OwnerEmail: "owner@test.com",
	})
	second := f.requests.Put(models.JoinRequest{
		IdeaID: idea.ID, RequesterEmail: "bob@test.com", OwnerEmail: "owner@test.com",
	})

	_, teamA, err := f.flow.Decide(ctx, first.ID, models.StatusAccepted)
	if err != nil {
		t.Fatalf("first accept: %v", err)
	}
	_, teamB, err := f.flow.Decide(ctx, second.ID, models.StatusAccepted)
	if err != nil {
		t.Fatalf("second accept: %v", err)
	}
	if teamA != teamB {
		t.Fatalf("accepts created two teams: %s vs %s", teamA.Hex(), teamB.Hex())
	}

	team, _ := f.teams.GetByID(ctx, teamA)
	if len(team.Members) != 3 {
		t.Errorf("team members: got %d, want 3 (%+v)", len(team.Members), team.Members)
	}
}

func TestRemoveMemberCascade(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	idea := f.seedIdea("owner@test.com", "SkillSwap")
	req := f.requests.Put(models.JoinRequest{
		IdeaID: idea.ID, RequesterEmail: "alice@test.com", OwnerEmail: "owner@test.com",
	})
	_, teamID, err := f.flow.Decide(ctx, req.ID, models.StatusAccepted)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	f.hub = testutil.NewRecorderHub()
	f.flow.Hub = f.hub

	if err := f.flow.RemoveMember(ctx, teamID, "alice@test.com"); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}

	team, _ := f.teams.GetByID(ctx, teamID)
	if team.HasMember("alice@test.com") {
		t.Error("member still on team")
	}

	after, _ := f.ideas.GetByID(ctx, idea.ID)
	if after.MembersFilled != 1 || len(after.Members) != 0 {
		t.Errorf("idea membership not rolled back: %+v", after)
	}

	// The accepted request is deleted, not relabeled.
	for _, r := range f.requests.All() {
		if r.RequesterEmail == "alice@test.com" && r.IdeaID == idea.ID {
			t.Errorf("active request survived removal: %+v", r)
		}
	}

	notifs := f.notifications.ForUser("alice@test.com")
	var removed *models.Notification
	for i := range notifs {
		if notifs[i].Title == "Removed from team" {
			removed = &notifs[i]
		}
	}
	if removed == nil {
		t.Fatal("no removal notification")
	}
	if removed.Link != "/explore" {
		t.Errorf("link: got %q", removed.Link)
	}

	if n := len(team.Messages); n != 1 {
		t.Fatalf("system messages: got %d, want 1", n)
	}
	if team.Messages[0].SenderEmail != models.SystemSender {
		t.Errorf("sender: got %q", team.Messages[0].SenderEmail)
	}
	if want := "alice@test.com was removed from the team."; team.Messages[0].Text != want {
		t.Errorf("text: got %q, want %q", team.Messages[0].Text, want)
	}

	events := f.hub.Events()
	if len(events) != 2 {
		t.Fatalf("events: got %d, want 2", len(events))
	}
	if events[0].Event != teamflow.EventMemberRemoved || events[1].Event != teamflow.EventReceiveMessage {
		t.Errorf("event order: got %q then %q", events[0].Event, events[1].Event)
	}
	for _, ev := range events {
		if ev.Room != teamID.Hex() {
			t.Errorf("event room: got %q, want %q", ev.Room, teamID.Hex())
		}
	}
}

func TestRemoveMemberNotAMember(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	idea := f.seedIdea("owner@test.com", "SkillSwap")
	team := f.teams.Put(models.Team{
		IdeaID:  idea.ID,
		Members: []models.TeamMember{{Email: "owner@test.com", Role: models.RoleOwner}},
	})

	err := f.flow.RemoveMember(ctx, team.ID, "stranger@test.com")
	if !errors.Is(err, teamstore.ErrNotAMember) {
		t.Fatalf("err: got %v, want ErrNotAMember", err)
	}
	if len(f.hub.Events()) != 0 {
		t.Error("failed removal must not publish events")
	}
}

func TestSendMessage(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	idea := f.seedIdea("owner@test.com", "SkillSwap")
	team := f.teams.Put(models.Team{
		IdeaID:  idea.ID,
		Members: []models.TeamMember{{Email: "owner@test.com", Role: models.RoleOwner}},
	})

	msg, err := f.flow.SendMessage(ctx, team.ID, "owner@test.com", "<b>hello</b> team")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if msg.Text != "hello team" {
		t.Errorf("sanitized text: got %q", msg.Text)
	}

	stored, _ := f.teams.GetByID(ctx, team.ID)
	if len(stored.Messages) != 1 || stored.Messages[0].Text != "hello team" {
		t.Errorf("stored messages: %+v", stored.Messages)
	}

	events := f.hub.Events()
	if len(events) != 1 || events[0].Event != teamflow.EventReceiveMessage {
		t.Fatalf("events: %+v", events)
	}
	payload, ok := events[0].Payload.(teamflow.MessageEvent)
	if !ok {
		t.Fatalf("payload type: %T", events[0].Payload)
	}
	if payload.TeamID != team.ID.Hex() || payload.SenderEmail != "owner@test.com" {
		t.Errorf("payload: %+v", payload)
	}
}

func TestSendMessageEmptyAfterStrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	team := f.teams.Put(models.Team{IdeaID: primitive.NewObjectID()})

	_, err := f.flow.SendMessage(ctx, team.ID, "owner@test.com", "<script>alert(1)</script>")
	if !errors.Is(err, teamflow.ErrMissingFields) {
		t.Fatalf("err: got %v, want ErrMissingFields", err)
	}

	stored, _ := f.teams.GetByID(ctx, team.ID)
	if len(stored.Messages) != 0 {
		t.Error("empty message must not be stored")
	}
	if len(f.hub.Events()) != 0 {
		t.Error("empty message must not be published")
	}
}

func TestSendMessageUnknownTeam(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.flow.SendMessage(ctx, primitive.NewObjectID(), "owner@test.com", "hello")
	if !errors.Is(err, teamstore.ErrNotFound) {
		t.Fatalf("err: got %v, want teamstore.ErrNotFound", err)
	}
	if len(f.hub.Events()) != 0 {
		t.Error("failed persist must not publish")
	}
}

func TestMarkSeen(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	idea := f.seedIdea("owner@test.com", "SkillSwap")
	f.requests.Put(models.JoinRequest{
		IdeaID: idea.ID, RequesterEmail: "alice@test.com", OwnerEmail: "owner@test.com",
	})
	f.requests.Put(models.JoinRequest{
		IdeaID: idea.ID, RequesterEmail: "bob@test.com", OwnerEmail: "other@test.com",
	})

	if err := f.flow.MarkSeen(ctx, "owner@test.com"); err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}
	for _, r := range f.requests.All() {
		if r.OwnerEmail == "owner@test.com" && !r.Seen {
			t.Errorf("request not marked seen: %+v", r)
		}
		if r.OwnerEmail == "other@test.com" && r.Seen {
			t.Errorf("other owner's request marked seen: %+v", r)
		}
	}

	if err := f.flow.MarkSeen(ctx, ""); !errors.Is(err, teamflow.ErrMissingFields) {
		t.Errorf("empty owner: got %v, want ErrMissingFields", err)
	}
}
