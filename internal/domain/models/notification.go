// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is a persisted, user-targeted record of a state-transition
// side effect (request created/accepted/rejected, member removed). Only the
// Read flag is ever mutated after creation.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserEmail string             `bson:"user_email" json:"userEmail"`
	Title     string             `bson:"title,omitempty" json:"title,omitempty"`
	Message   string             `bson:"message" json:"message"`
	Link      string             `bson:"link,omitempty" json:"link,omitempty"`
	Read      bool               `bson:"read" json:"read"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
