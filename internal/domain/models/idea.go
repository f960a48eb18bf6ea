// internal/domain/models/idea.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Idea is a proposed project seeking collaborators.
//
// NOTE:
//   - The owner is identified by Email and is not listed in Members;
//     MembersFilled counts the owner implicitly (it starts at 1).
//   - MembersFilled is stored, not derived. Mutation paths must pair the
//     counter change with the membership change in a single conditional
//     update so the two cannot drift.
type Idea struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	IdeaName      string             `bson:"idea_name" json:"ideaName"`
	Description   string             `bson:"description" json:"description"`
	Category      string             `bson:"category" json:"category"`
	TeamSize      int                `bson:"team_size" json:"teamSize"`
	MembersFilled int                `bson:"members_filled" json:"membersFilled"`
	SkillsNeeded  string             `bson:"skills_needed" json:"skillsNeeded"`
	RolesNeeded   string             `bson:"roles_needed" json:"rolesNeeded"`
	Level         string             `bson:"level,omitempty" json:"level,omitempty"` // Beginner | Intermediate | Expert
	Email         string             `bson:"email" json:"email"`                     // owner identity
	Members       []IdeaMember       `bson:"members" json:"members"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IdeaMember is an accepted collaborator recorded on the idea itself.
type IdeaMember struct {
	Email    string    `bson:"email" json:"email"`
	Role     string    `bson:"role" json:"role"`
	JoinedAt time.Time `bson:"joined_at" json:"joinedAt"`
}
