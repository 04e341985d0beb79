package repositories

import (
	"github.com/unilinkng/backend/internal/models"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for message data operations.
// Messages are append-only: no update or delete path exists.
type MessageRepository interface {
	CreateMessage(message *models.Message) error
	GetMessagesByConversationID(conversationID string) ([]models.Message, error)
}

// PostgresMessageRepository implements MessageRepository for PostgreSQL
type PostgresMessageRepository struct {
	db *gorm.DB
}

// NewPostgresMessageRepository creates a new PostgresMessageRepository
func NewPostgresMessageRepository(db *gorm.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

// CreateMessage appends a message to its conversation
func (r *PostgresMessageRepository) CreateMessage(message *models.Message) error {
	return r.db.Create(message).Error
}

// GetMessagesByConversationID retrieves a conversation's history
// oldest-first, so both participants see the identical order
func (r *PostgresMessageRepository) GetMessagesByConversationID(conversationID string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC").Find(&messages).Error
	return messages, err
}
