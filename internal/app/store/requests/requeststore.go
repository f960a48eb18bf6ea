// internal/app/store/requests/requeststore.go
package requeststore

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

// ErrNotFound is returned when no join request exists for the given id.
var ErrNotFound = errors.New("join request not found")

// activeStatuses are the statuses that block a duplicate request for the
// same (idea, requester) pair and that are purged on member removal.
var activeStatuses = []string{models.StatusPending, models.StatusAccepted}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("join_requests")}
}

// Create inserts a new pending request.
func (s *Store) Create(ctx context.Context, req models.JoinRequest) (models.JoinRequest, error) {
	now := time.Now().UTC()
	req.ID = primitive.NewObjectID()
	req.Status = models.StatusPending
	req.Seen = false
	req.CreatedAt = now
	req.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, req); err != nil {
		return models.JoinRequest{}, err
	}
	return req, nil
}

// GetByID loads a request by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.JoinRequest, error) {
	var req models.JoinRequest
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return models.JoinRequest{}, ErrNotFound
	}
	if err != nil {
		return models.JoinRequest{}, err
	}
	return req, nil
}

// HasActive reports whether a pending or accepted request already exists for
// the (idea, requester) pair.
func (s *Store) HasActive(ctx context.Context, ideaID primitive.ObjectID, requesterEmail string) (bool, error) {
	filter := bson.M{
		"idea_id":         ideaID,
		"requester_email": requesterEmail,
		"status":          bson.M{"$in": activeStatuses},
	}
	count, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByOwner returns requests addressed to an owner, newest first.
func (s *Store) ListByOwner(ctx context.Context, email string) ([]models.JoinRequest, error) {
	return s.find(ctx, bson.M{"owner_email": email})
}

// ListByRequester returns requests sent by a requester, newest first.
func (s *Store) ListByRequester(ctx context.Context, email string) ([]models.JoinRequest, error) {
	return s.find(ctx, bson.M{"requester_email": email})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.JoinRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	reqs := []models.JoinRequest{}
	if err := cur.All(ctx, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// Transition atomically moves a request from one status to another:
// the update matches only while the document still carries the expected
// current status. Returns false when the request was not in that status
// (decided concurrently, or gone).
func (s *Store) Transition(ctx context.Context, id primitive.ObjectID, from, to string) (bool, error) {
	filter := bson.M{"_id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}}
	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// MarkSeen bulk-sets seen=true on all of an owner's unseen requests.
// Always succeeds; no-op when there are none.
func (s *Store) MarkSeen(ctx context.Context, ownerEmail string) error {
	filter := bson.M{"owner_email": ownerEmail, "seen": false}
	_, err := s.c.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"seen": true}})
	return err
}

// DeleteActive removes any pending or accepted request for the
// (idea, requester) pair. Used when a member is removed from a team:
// removal deletes the record instead of relabeling it.
func (s *Store) DeleteActive(ctx context.Context, ideaID primitive.ObjectID, requesterEmail string) error {
	filter := bson.M{
		"idea_id":         ideaID,
		"requester_email": requesterEmail,
		"status":          bson.M{"$in": activeStatuses},
	}
	_, err := s.c.DeleteMany(ctx, filter)
	return err
}
