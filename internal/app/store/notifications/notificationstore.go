// internal/app/store/notifications/notificationstore.go
package notificationstore

import (
	"context"
	"errors"
	"time"

	"github.com/skillswap/skillswap/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no notification exists for the given id.
var ErrNotFound = errors.New("notification not found")

// listLimit caps how many notifications ListRecent returns.
const listLimit = 100

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notifications")}
}

// Create inserts a notification record. Notifications are created only as
// side effects of state transitions elsewhere and are never mutated after
// creation except for the read flag.
func (s *Store) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	n.ID = primitive.NewObjectID()
	n.Read = false
	n.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Notification{}, err
	}
	return n, nil
}

// ListRecent returns up to 100 notifications for the email, newest first.
func (s *Store) ListRecent(ctx context.Context, email string) ([]models.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(listLimit)
	cur, err := s.c.Find(ctx, bson.M{"user_email": email}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	notifs := []models.Notification{}
	if err := cur.All(ctx, &notifs); err != nil {
		return nil, err
	}
	return notifs, nil
}

// MarkRead flips the read flag on one notification and returns the updated
// record. Marking an already-read notification is a no-op success.
func (s *Store) MarkRead(ctx context.Context, id primitive.ObjectID) (models.Notification, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var n models.Notification
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"read": true}}, opts).Decode(&n)
	if err == mongo.ErrNoDocuments {
		return models.Notification{}, ErrNotFound
	}
	if err != nil {
		return models.Notification{}, err
	}
	return n, nil
}

// MarkAllRead flips the read flag on every unread notification for the
// email. Always succeeds; no-op when there are none.
func (s *Store) MarkAllRead(ctx context.Context, email string) error {
	filter := bson.M{"user_email": email, "read": false}
	_, err := s.c.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"read": true}})
	return err
}
