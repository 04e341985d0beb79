package repositories

import (
	"fmt"

	"github.com/unilinkng/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for post-like data operations
type LikeRepository interface {
	CreateLike(like *models.PostLike) error
	DeleteLike(postID, profileID string) error
	HasProfileLikedPost(postID, profileID string) (bool, error)
	GetLikesCountByPostID(postID string) (int64, error)
	GetLikedPostIDs(profileID string) (map[string]bool, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// CreateLike creates a new like row; the unique index rejects duplicates
func (r *PostgresLikeRepository) CreateLike(like *models.PostLike) error {
	return r.db.Create(like).Error
}

// DeleteLike deletes a like row
func (r *PostgresLikeRepository) DeleteLike(postID, profileID string) error {
	res := r.db.Where("post_id = ? AND profile_id = ?", postID, profileID).Delete(&models.PostLike{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("like not found")
	}
	return nil
}

// HasProfileLikedPost checks if a profile has liked a specific post
func (r *PostgresLikeRepository) HasProfileLikedPost(postID, profileID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.PostLike{}).
		Where("post_id = ? AND profile_id = ?", postID, profileID).Count(&count).Error
	return count > 0, err
}

// GetLikesCountByPostID retrieves the true like row count for a post
func (r *PostgresLikeRepository) GetLikesCountByPostID(postID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// GetLikedPostIDs returns the set of post ids the profile has liked,
// used to compute user_has_liked once per feed fetch
func (r *PostgresLikeRepository) GetLikedPostIDs(profileID string) (map[string]bool, error) {
	var ids []string
	err := r.db.Model(&models.PostLike{}).Where("profile_id = ?", profileID).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
