// internal/domain/models/joinrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Join-request statuses. A request is created pending; the owner moves it to
// accepted or rejected (re-applying the current status is a no-op).
//
// StatusKicked and StatusRemoved are reserved values: membership removal
// deletes the request document rather than relabeling it, so neither value
// is ever stored today.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
	StatusKicked   = "kicked"
	StatusRemoved  = "removed"
)

// IsDecidableStatus reports whether a status is one an owner may set via a
// decide call.
func IsDecidableStatus(status string) bool {
	switch status {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// JoinRequest is one identity's request to join another identity's idea team.
//
// Invariant: at most one request with status pending or accepted exists per
// (idea, requester) pair.
type JoinRequest struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	IdeaID         primitive.ObjectID `bson:"idea_id" json:"ideaId"`
	RequesterEmail string             `bson:"requester_email" json:"requesterEmail"`
	OwnerEmail     string             `bson:"owner_email" json:"ownerEmail"`
	Status         string             `bson:"status" json:"status"`
	Seen           bool               `bson:"seen" json:"seen"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
