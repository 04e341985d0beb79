package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType classifies what triggered a notification
type NotificationType string

const (
	NotificationTypeLike    NotificationType = "like"
	NotificationTypeComment NotificationType = "comment"
	NotificationTypeConnect NotificationType = "connect"
	NotificationTypeMessage NotificationType = "message"
	NotificationTypeSystem  NotificationType = "system"
)

// ActorSnapshot captures the acting profile's name and avatar at event
// time. It is stored denormalized, never live-joined, so the notification
// keeps showing what the actor looked like when the event happened.
type ActorSnapshot struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// Notification represents a user notification. Created by the action that
// triggers it; mutated only to flip the read flag.
type Notification struct {
	ID          string           `json:"id" gorm:"type:uuid;primaryKey"`
	RecipientID string           `json:"recipient_id" gorm:"type:uuid;index"`
	ActorID     string           `json:"actor_id" gorm:"type:uuid;index"`
	Type        NotificationType `json:"type" gorm:"size:20;index"`
	Content     string           `json:"content"`
	RelatedID   string           `json:"related_id,omitempty"`
	ActorData   ActorSnapshot    `json:"actor_data" gorm:"serializer:json"`
	IsRead      bool             `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time        `json:"created_at" gorm:"index"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// EntityID implements the data sync layer's entity identity
func (n Notification) EntityID() string { return n.ID }

// EntityTime implements the data sync layer's ordering key
func (n Notification) EntityTime() time.Time { return n.CreatedAt }
