// internal/app/store/skills/skillstore.go
package skillstore

import (
	"context"
	"errors"

	"github.com/skillswap/skillswap/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no skill exists for the given id.
var ErrNotFound = errors.New("skill not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("skills")}
}

// Create inserts a new skill listing.
func (s *Store) Create(ctx context.Context, skill models.Skill) (models.Skill, error) {
	skill.ID = primitive.NewObjectID()
	if _, err := s.c.InsertOne(ctx, skill); err != nil {
		return models.Skill{}, err
	}
	return skill, nil
}

// List returns all skills, or only those owned by email when it is
// non-empty.
func (s *Store) List(ctx context.Context, email string) ([]models.Skill, error) {
	filter := bson.M{}
	if email != "" {
		filter["email"] = email
	}
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	skills := []models.Skill{}
	if err := cur.All(ctx, &skills); err != nil {
		return nil, err
	}
	return skills, nil
}

// Update replaces the mutable fields of a skill and returns the updated
// document.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, skill models.Skill) (models.Skill, error) {
	update := bson.M{"$set": bson.M{
		"skill_name":     skill.SkillName,
		"description":    skill.Description,
		"category":       skill.Category,
		"availability":   skill.Availability,
		"experience":     skill.Experience,
		"email":          skill.Email,
		"learn_skill":    skill.LearnSkill,
		"learn_category": skill.LearnCategory,
		"learn_level":    skill.LearnLevel,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Skill
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return models.Skill{}, ErrNotFound
	}
	if err != nil {
		return models.Skill{}, err
	}
	return updated, nil
}

// Delete removes a skill. Deleting a missing skill is a no-op.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
