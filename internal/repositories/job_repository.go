package repositories

import (
	"github.com/unilinkng/backend/internal/models"
	"gorm.io/gorm"
)

// JobRepository defines the interface for job data operations
type JobRepository interface {
	CreateJob(job *models.Job) error
	GetJobByID(id string) (*models.Job, error)
	GetAllJobs(limit int) ([]models.Job, error)
	DeleteJob(id string) error
}

// PostgresJobRepository implements JobRepository for PostgreSQL
type PostgresJobRepository struct {
	db *gorm.DB
}

// NewPostgresJobRepository creates a new PostgresJobRepository
func NewPostgresJobRepository(db *gorm.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

// CreateJob creates a new job
func (r *PostgresJobRepository) CreateJob(job *models.Job) error {
	return r.db.Create(job).Error
}

// GetJobByID retrieves a single job
func (r *PostgresJobRepository) GetJobByID(id string) (*models.Job, error) {
	var job models.Job
	if err := r.db.Where("id = ?", id).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// GetAllJobs retrieves jobs newest-first
func (r *PostgresJobRepository) GetAllJobs(limit int) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.Order("created_at DESC").Limit(limit).Find(&jobs).Error
	return jobs, err
}

// DeleteJob removes a job posting
func (r *PostgresJobRepository) DeleteJob(id string) error {
	res := r.db.Where("id = ?", id).Delete(&models.Job{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
