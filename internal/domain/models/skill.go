// internal/domain/models/skill.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Skill is a single-owner listing: something a user offers to teach,
// optionally paired with what they want to learn in exchange.
type Skill struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	SkillName    string             `bson:"skill_name" json:"skillName"`
	Description  string             `bson:"description" json:"description"`
	Category     string             `bson:"category" json:"category"`
	Availability string             `bson:"availability" json:"availability"`
	Experience   string             `bson:"experience" json:"experience"`
	Email        string             `bson:"email" json:"email"`

	LearnSkill    string `bson:"learn_skill,omitempty" json:"learnSkill,omitempty"`
	LearnCategory string `bson:"learn_category,omitempty" json:"learnCategory,omitempty"`
	LearnLevel    string `bson:"learn_level,omitempty" json:"learnLevel,omitempty"`
}
