package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post represents a feed post. LikesCount and CommentsCount are
// denormalized caches of the post_likes / comments row counts; every write
// path that touches those tables also updates the counter, and readers
// treat the value as best-effort until the next fetch.
type Post struct {
	ID            string    `json:"id" gorm:"type:uuid;primaryKey"`
	ProfileID     string    `json:"profile_id" gorm:"type:uuid;index"`
	Content       string    `json:"content"`
	ImageURL      string    `json:"image_url,omitempty"`
	Tag           string    `json:"tag,omitempty" gorm:"size:50"`
	LikesCount    int       `json:"likes_count" gorm:"default:0"`
	CommentsCount int       `json:"comments_count" gorm:"default:0"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// EntityID implements the data sync layer's entity identity
func (p Post) EntityID() string { return p.ID }

// EntityTime implements the data sync layer's ordering key
func (p Post) EntityTime() time.Time { return p.CreatedAt }

// CreatePostRequest defines the request body for creating a new post.
// A post needs text or an image; the handler rejects an empty one before
// any remote write. The image URL is pre-hosted by an external service.
type CreatePostRequest struct {
	Content  string `json:"content" validate:"omitempty,max=2000"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
	Tag      string `json:"tag,omitempty" validate:"omitempty,max=50"`
}
