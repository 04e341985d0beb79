package repositories

import (
	"github.com/unilinkng/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id string) (*models.Post, error)
	GetAllPosts(offset, limit int) ([]models.Post, error)
	GetPostsByUniversity(university string, offset, limit int) ([]models.Post, error)
	AdjustLikesCount(postID string, delta int) error
	AdjustCommentsCount(postID string, delta int) error
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost creates a new post
func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

// GetPostByID retrieves a single post
func (r *PostgresPostRepository) GetPostByID(id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetAllPosts retrieves posts newest-first
func (r *PostgresPostRepository) GetAllPosts(offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&posts).Error
	return posts, err
}

// GetPostsByUniversity retrieves posts authored by students of the
// given university, newest-first. The constraint is applied before
// pagination so campus pages stay full.
func (r *PostgresPostRepository) GetPostsByUniversity(university string, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.
		Joins("JOIN student_profiles ON student_profiles.profile_id = posts.profile_id").
		Where("LOWER(student_profiles.university) = LOWER(?)", university).
		Order("posts.created_at DESC").Offset(offset).Limit(limit).
		Find(&posts).Error
	return posts, err
}

// AdjustLikesCount moves the denormalized like counter by delta without
// letting it go negative
func (r *PostgresPostRepository) AdjustLikesCount(postID string, delta int) error {
	return r.db.Model(&models.Post{}).Where("id = ?", postID).
		Update("likes_count", gorm.Expr("GREATEST(likes_count + ?, 0)", delta)).Error
}

// AdjustCommentsCount moves the denormalized comment counter by delta
// without letting it go negative
func (r *PostgresPostRepository) AdjustCommentsCount(postID string, delta int) error {
	return r.db.Model(&models.Post{}).Where("id = ?", postID).
		Update("comments_count", gorm.Expr("GREATEST(comments_count + ?, 0)", delta)).Error
}
