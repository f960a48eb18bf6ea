// internal/app/store/teams/teamstore.go
package teamstore

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

var (
	// ErrNotFound is returned when no team exists for the given id.
	ErrNotFound = errors.New("team not found")
	// ErrNotAMember is returned when a removal targets an email that is not
	// currently on the team.
	ErrNotAMember = errors.New("user is not a member of this team")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("teams")}
}

// GetByID loads a team by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Team, error) {
	var team models.Team
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&team)
	if err == mongo.ErrNoDocuments {
		return models.Team{}, ErrNotFound
	}
	if err != nil {
		return models.Team{}, err
	}
	return team, nil
}

// GetOrCreate returns the team for an idea, creating it seeded with the
// given members when absent. The upsert runs against the unique idea_id
// index, so two concurrent first-acceptances converge on a single document
// instead of racing a find-then-insert.
func (s *Store) GetOrCreate(ctx context.Context, ideaID primitive.ObjectID, seed []models.TeamMember) (models.Team, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": bson.M{
			"idea_id":    ideaID,
			"members":    seed,
			"messages":   []models.ChatMessage{},
			"created_at": now,
			"updated_at": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var team models.Team
	err := s.c.FindOneAndUpdate(ctx, bson.M{"idea_id": ideaID}, update, opts).Decode(&team)
	if err != nil {
		return models.Team{}, err
	}
	return team, nil
}

// AddMember adds a participant if not already present. Adding an existing
// member is a no-op.
func (s *Store) AddMember(ctx context.Context, teamID primitive.ObjectID, member models.TeamMember) error {
	filter := bson.M{"_id": teamID, "members.email": bson.M{"$ne": member.Email}}
	update := bson.M{
		"$push": bson.M{"members": member},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	_, err := s.c.UpdateOne(ctx, filter, update)
	return err
}

// RemoveMember pulls a participant off the team. The filter requires
// current membership, so a concurrent double-remove matches only once.
func (s *Store) RemoveMember(ctx context.Context, teamID primitive.ObjectID, email string) error {
	filter := bson.M{"_id": teamID, "members.email": email}
	update := bson.M{
		"$pull": bson.M{"members": bson.M{"email": email}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotAMember
	}
	return nil
}

// ListByMember returns all teams the email belongs to, newest first.
func (s *Store) ListByMember(ctx context.Context, email string) ([]models.Team, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"members.email": email}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	teams := []models.Team{}
	if err := cur.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// AppendMessage appends one chat message to the team's embedded log.
// The log is append-only and insertion-ordered; nothing trims it.
func (s *Store) AppendMessage(ctx context.Context, teamID primitive.ObjectID, msg models.ChatMessage) error {
	update := bson.M{
		"$push": bson.M{"messages": msg},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": teamID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
