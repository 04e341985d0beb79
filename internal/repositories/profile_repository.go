package repositories

import (
	"github.com/unilinkng/backend/internal/models"
	"gorm.io/gorm"
)

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	CreateProfile(profile *models.Profile) error
	GetProfileByID(id string) (*models.Profile, error)
	GetProfileByFirebaseUID(uid string) (*models.Profile, error)
	UpdateProfile(id string, updates map[string]any) error
	UpsertStudentPayload(payload *models.StudentProfile) error
	UpsertOrganizationPayload(payload *models.OrganizationProfile) error
	SetVerified(id string, verified bool) error
	ListProfiles(limit int) ([]models.Profile, error)
}

// PostgresProfileRepository implements ProfileRepository for PostgreSQL
type PostgresProfileRepository struct {
	db *gorm.DB
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository
func NewPostgresProfileRepository(db *gorm.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

// CreateProfile creates the profile header together with its
// variant-specific payload row
func (r *PostgresProfileRepository) CreateProfile(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

// GetProfileByID retrieves a profile with its variant payload preloaded
func (r *PostgresProfileRepository) GetProfileByID(id string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.Preload("Student").Preload("Organization").
		Where("id = ?", id).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfileByFirebaseUID retrieves a profile by its auth provider uid
func (r *PostgresProfileRepository) GetProfileByFirebaseUID(uid string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.Preload("Student").Preload("Organization").
		Where("firebase_uid = ?", uid).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile patches header columns on a profile
func (r *PostgresProfileRepository) UpdateProfile(id string, updates map[string]any) error {
	return r.db.Model(&models.Profile{}).Where("id = ?", id).Updates(updates).Error
}

// UpsertStudentPayload writes the student attribute bag
func (r *PostgresProfileRepository) UpsertStudentPayload(payload *models.StudentProfile) error {
	return r.db.Save(payload).Error
}

// UpsertOrganizationPayload writes the organization attribute bag
func (r *PostgresProfileRepository) UpsertOrganizationPayload(payload *models.OrganizationProfile) error {
	return r.db.Save(payload).Error
}

// SetVerified flips the verification flag (admin override)
func (r *PostgresProfileRepository) SetVerified(id string, verified bool) error {
	res := r.db.Model(&models.Profile{}).Where("id = ?", id).Update("is_verified", verified)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListProfiles returns the member directory
func (r *PostgresProfileRepository) ListProfiles(limit int) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.Preload("Student").Preload("Organization").
		Order("created_at DESC").Limit(limit).Find(&profiles).Error
	return profiles, err
}
