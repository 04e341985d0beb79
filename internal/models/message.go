package models

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrSelfConversation is returned when both participants are the same profile
var ErrSelfConversation = errors.New("conversation requires two distinct participants")

// Message represents one entry in a two-party conversation. Messages are
// append-only and ordered oldest-first by creation time.
type Message struct {
	ID             string    `json:"id" gorm:"type:uuid;primaryKey"`
	ConversationID string    `json:"conversation_id" gorm:"size:80;index"`
	SenderID       string    `json:"sender_id" gorm:"type:uuid;index"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ConversationKey derives the stable identifier for a two-party thread:
// the participant ids sorted lexicographically and joined with "_". Both
// participants compute the identical key independent of who initiates.
func ConversationKey(a, b string) (string, error) {
	if a == "" || b == "" {
		return "", errors.New("conversation participant id is empty")
	}
	if a == b {
		return "", ErrSelfConversation
	}
	pair := []string{a, b}
	sort.Strings(pair)
	return pair[0] + "_" + pair[1], nil
}

// SendMessageRequest defines the request body for sending a message
type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" validate:"required,uuid"`
	Content     string `json:"content" validate:"required,min=1,max=2000"`
}

// EntityID implements the data sync layer's entity identity
func (m Message) EntityID() string { return m.ID }

// EntityTime implements the data sync layer's ordering key
func (m Message) EntityTime() time.Time { return m.CreatedAt }
