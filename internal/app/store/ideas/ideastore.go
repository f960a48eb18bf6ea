// internal/app/store/ideas/ideastore.go
package ideastore

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

// ErrNotFound is returned when no idea exists for the given id.
var ErrNotFound = errors.New("idea not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("ideas")}
}

// Create inserts a new idea. The owner is counted implicitly, so
// members_filled starts at 1 with an empty members array.
func (s *Store) Create(ctx context.Context, idea models.Idea) (models.Idea, error) {
	now := time.Now().UTC()
	idea.ID = primitive.NewObjectID()
	if idea.MembersFilled == 0 {
		idea.MembersFilled = 1
	}
	if idea.Members == nil {
		idea.Members = []models.IdeaMember{}
	}
	idea.CreatedAt = now
	idea.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, idea); err != nil {
		return models.Idea{}, err
	}
	return idea, nil
}

// GetByID loads an idea by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Idea, error) {
	var idea models.Idea
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&idea)
	if err == mongo.ErrNoDocuments {
		return models.Idea{}, ErrNotFound
	}
	if err != nil {
		return models.Idea{}, err
	}
	return idea, nil
}

// List returns all ideas, newest first.
func (s *Store) List(ctx context.Context) ([]models.Idea, error) {
	return s.find(ctx, bson.M{})
}

// ListByOwner returns the ideas created by the given email, newest first.
func (s *Store) ListByOwner(ctx context.Context, email string) ([]models.Idea, error) {
	return s.find(ctx, bson.M{"email": email})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Idea, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	ideas := []models.Idea{}
	if err := cur.All(ctx, &ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}

// Delete removes an idea document. Deleting a missing idea is a no-op.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// AddMember records an accepted collaborator on the idea and bumps
// members_filled in the same conditional update, so the counter moves only
// when the member was actually absent. Returns false (no error) when the
// email is already a member.
func (s *Store) AddMember(ctx context.Context, ideaID primitive.ObjectID, email string, joinedAt time.Time) (bool, error) {
	filter := bson.M{"_id": ideaID, "members.email": bson.M{"$ne": email}}
	update := bson.M{
		"$push": bson.M{"members": models.IdeaMember{
			Email:    email,
			Role:     models.RoleMember,
			JoinedAt: joinedAt,
		}},
		"$inc": bson.M{"members_filled": 1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// RemoveMember pulls a collaborator off the idea and decrements
// members_filled, again as one conditional update keyed on current
// membership. Returns false when the email was not a member.
func (s *Store) RemoveMember(ctx context.Context, ideaID primitive.ObjectID, email string) (bool, error) {
	filter := bson.M{"_id": ideaID, "members.email": email}
	update := bson.M{
		"$pull": bson.M{"members": bson.M{"email": email}},
		"$inc":  bson.M{"members_filled": -1},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}
