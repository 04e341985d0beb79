package repositories

import (
	"context"
	"time"

	"github.com/unilinkng/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RoadmapRepository defines the interface for generated roadmap documents
type RoadmapRepository interface {
	SaveRoadmap(ctx context.Context, roadmap *models.Roadmap) error
	GetLatestByProfileID(ctx context.Context, profileID string) (*models.Roadmap, error)
}

// MongoRoadmapRepository implements RoadmapRepository on MongoDB
type MongoRoadmapRepository struct {
	collection *mongo.Collection
}

// NewMongoRoadmapRepository creates a new MongoRoadmapRepository
func NewMongoRoadmapRepository(db *mongo.Database) *MongoRoadmapRepository {
	return &MongoRoadmapRepository{collection: db.Collection("roadmaps")}
}

// SaveRoadmap stores a generated roadmap document
func (r *MongoRoadmapRepository) SaveRoadmap(ctx context.Context, roadmap *models.Roadmap) error {
	if roadmap.CreatedAt.IsZero() {
		roadmap.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, roadmap)
	return err
}

// GetLatestByProfileID returns the profile's most recent roadmap, or
// mongo.ErrNoDocuments when none exists
func (r *MongoRoadmapRepository) GetLatestByProfileID(ctx context.Context, profileID string) (*models.Roadmap, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var roadmap models.Roadmap
	err := r.collection.FindOne(ctx, bson.M{"profile_id": profileID}, opts).Decode(&roadmap)
	if err != nil {
		return nil, err
	}
	return &roadmap, nil
}
