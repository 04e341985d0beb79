package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment represents a comment on a post. Comments are immutable after
// creation; creating one increments the parent post's CommentsCount cache.
type Comment struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	PostID    string    `json:"post_id" gorm:"type:uuid;index"`
	ProfileID string    `json:"profile_id" gorm:"type:uuid;index"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}

// EntityID implements the data sync layer's entity identity
func (c Comment) EntityID() string { return c.ID }

// EntityTime implements the data sync layer's ordering key
func (c Comment) EntityTime() time.Time { return c.CreatedAt }
