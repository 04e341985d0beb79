package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConnectionStatus is the lifecycle state of a connection
type ConnectionStatus string

const (
	ConnectionStatusPending  ConnectionStatus = "pending"
	ConnectionStatusAccepted ConnectionStatus = "accepted"
)

// Connection represents the relationship between two profiles. The
// identity is undirected: a connection between A and B must be found no
// matter which side initiated it, and at most one record may exist per
// unordered pair. Repositories query both orientations.
type Connection struct {
	ID          string           `json:"id" gorm:"type:uuid;primaryKey"`
	RequesterID string           `json:"requester_id" gorm:"type:uuid;index;uniqueIndex:idx_requester_recipient"`
	RecipientID string           `json:"recipient_id" gorm:"type:uuid;index;uniqueIndex:idx_requester_recipient"`
	Status      ConnectionStatus `json:"status" gorm:"size:20;default:'pending'"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (c *Connection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// OtherParty returns the participant that is not the given profile
func (c *Connection) OtherParty(profileID string) string {
	if c.RequesterID == profileID {
		return c.RecipientID
	}
	return c.RequesterID
}

// CreateConnectionRequest defines the request body for sending a
// connection request
type CreateConnectionRequest struct {
	RecipientID string `json:"recipient_id" validate:"required,uuid"`
}
