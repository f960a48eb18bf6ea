// internal/domain/models/team.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team member roles.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// SystemSender is the sender identity used for synthetic chat messages the
// server appends itself (e.g. on member removal).
const SystemSender = "system"

// Team is the realized collaboration group for an idea. Exactly one team
// exists per idea once the first join request is accepted (enforced by a
// unique index on idea_id).
//
// Messages is an append-only, insertion-ordered chat log embedded in the
// document. It is never trimmed or paginated; unbounded growth is an
// accepted cost of this design.
type Team struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	IdeaID   primitive.ObjectID `bson:"idea_id" json:"ideaId"`
	Members  []TeamMember       `bson:"members" json:"members"`
	Messages []ChatMessage      `bson:"messages" json:"messages"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// TeamMember is one participant in a team. An email appears at most once in
// Team.Members.
type TeamMember struct {
	Email    string    `bson:"email" json:"email"`
	Role     string    `bson:"role" json:"role"` // owner | member
	JoinedAt time.Time `bson:"joined_at" json:"joinedAt"`
}

// HasMember reports whether email is currently a member of the team.
func (t Team) HasMember(email string) bool {
	for _, m := range t.Members {
		if m.Email == email {
			return true
		}
	}
	return false
}

// ChatMessage is one entry in a team's embedded message log.
type ChatMessage struct {
	SenderEmail string    `bson:"sender_email" json:"senderEmail"`
	Text        string    `bson:"text" json:"text"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}
