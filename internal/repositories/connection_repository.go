package repositories

import (
	"github.com/unilinkng/backend/internal/models"
	"gorm.io/gorm"
)

// ConnectionRepository defines the interface for connection data
// operations. Connections are undirected: every lookup considers both
// orientations of the pair.
type ConnectionRepository interface {
	CreateConnection(connection *models.Connection) error
	GetConnectionByID(id string) (*models.Connection, error)
	GetConnectionBetween(a, b string) (*models.Connection, error)
	GetConnectionsForProfile(profileID string) ([]models.Connection, error)
	UpdateStatus(id string, status models.ConnectionStatus) error
}

// PostgresConnectionRepository implements ConnectionRepository for
// PostgreSQL
type PostgresConnectionRepository struct {
	db *gorm.DB
}

// NewPostgresConnectionRepository creates a new
// PostgresConnectionRepository
func NewPostgresConnectionRepository(db *gorm.DB) *PostgresConnectionRepository {
	return &PostgresConnectionRepository{db: db}
}

// CreateConnection creates a pending connection request
func (r *PostgresConnectionRepository) CreateConnection(connection *models.Connection) error {
	return r.db.Create(connection).Error
}

// GetConnectionByID retrieves a single connection
func (r *PostgresConnectionRepository) GetConnectionByID(id string) (*models.Connection, error) {
	var connection models.Connection
	if err := r.db.Where("id = ?", id).First(&connection).Error; err != nil {
		return nil, err
	}
	return &connection, nil
}

// GetConnectionBetween finds the connection for an unordered pair,
// whichever side initiated it
func (r *PostgresConnectionRepository) GetConnectionBetween(a, b string) (*models.Connection, error) {
	var connection models.Connection
	err := r.db.Where(
		"(requester_id = ? AND recipient_id = ?) OR (requester_id = ? AND recipient_id = ?)",
		a, b, b, a,
	).First(&connection).Error
	if err != nil {
		return nil, err
	}
	return &connection, nil
}

// GetConnectionsForProfile retrieves every connection the profile is a
// party to, in either role
func (r *PostgresConnectionRepository) GetConnectionsForProfile(profileID string) ([]models.Connection, error) {
	var connections []models.Connection
	err := r.db.Where("requester_id = ? OR recipient_id = ?", profileID, profileID).
		Find(&connections).Error
	return connections, err
}

// UpdateStatus transitions a connection (pending -> accepted)
func (r *PostgresConnectionRepository) UpdateStatus(id string, status models.ConnectionStatus) error {
	res := r.db.Model(&models.Connection{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
