package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roadmap is a generated career roadmap document stored in MongoDB,
// keyed by the requesting profile. Free-text artifacts live on the
// document side; everything relational stays in Postgres.
type Roadmap struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ProfileID  string             `json:"profile_id" bson:"profile_id"`
	Department string             `json:"department" bson:"department"`
	Courses    []string           `json:"courses" bson:"courses"`
	Skills     []string           `json:"skills" bson:"skills"`
	Content    string             `json:"content" bson:"content"`
	Generated  bool               `json:"generated" bson:"generated"` // false when the canned fallback was served
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// GenerateRoadmapRequest defines the request body for the career advisor
type GenerateRoadmapRequest struct {
	Department string   `json:"department" validate:"required,max=100"`
	Courses    []string `json:"courses"`
	Skills     []string `json:"skills"`
}
