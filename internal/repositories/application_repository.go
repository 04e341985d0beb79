package repositories

import (
	"github.com/unilinkng/backend/internal/models"
	"gorm.io/gorm"
)

// ApplicationRepository defines the interface for job application data
// operations
type ApplicationRepository interface {
	CreateApplication(application *models.Application) error
	GetApplicationByID(id string) (*models.Application, error)
	HasApplied(jobID, applicantID string) (bool, error)
	GetApplicationsByJobID(jobID string) ([]models.Application, error)
	CountByJobIDs(jobIDs []string) (map[string]int64, error)
	GetAppliedJobIDs(applicantID string) (map[string]bool, error)
	UpdateStatus(id string, status models.ApplicationStatus) error
}

// PostgresApplicationRepository implements ApplicationRepository for
// PostgreSQL
type PostgresApplicationRepository struct {
	db *gorm.DB
}

// NewPostgresApplicationRepository creates a new
// PostgresApplicationRepository
func NewPostgresApplicationRepository(db *gorm.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

// CreateApplication creates an application row; the unique (job,
// applicant) index rejects a second application to the same job
func (r *PostgresApplicationRepository) CreateApplication(application *models.Application) error {
	return r.db.Create(application).Error
}

// GetApplicationByID retrieves a single application
func (r *PostgresApplicationRepository) GetApplicationByID(id string) (*models.Application, error) {
	var application models.Application
	if err := r.db.Where("id = ?", id).First(&application).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

// HasApplied checks whether the applicant already applied to the job
func (r *PostgresApplicationRepository) HasApplied(jobID, applicantID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Application{}).
		Where("job_id = ? AND applicant_id = ?", jobID, applicantID).Count(&count).Error
	return count > 0, err
}

// GetApplicationsByJobID retrieves a job's applications newest-first
func (r *PostgresApplicationRepository) GetApplicationsByJobID(jobID string) ([]models.Application, error) {
	var applications []models.Application
	err := r.db.Where("job_id = ?", jobID).Order("created_at DESC").Find(&applications).Error
	return applications, err
}

// CountByJobIDs returns applicant counts per job in one query, used to
// compute applicants_count at fetch time
func (r *PostgresApplicationRepository) CountByJobIDs(jobIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(jobIDs))
	if len(jobIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		JobID string
		Total int64
	}
	err := r.db.Model(&models.Application{}).
		Select("job_id, COUNT(*) AS total").
		Where("job_id IN ?", jobIDs).
		Group("job_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.JobID] = row.Total
	}
	return counts, nil
}

// GetAppliedJobIDs returns the set of job ids the applicant applied to,
// used to compute has_applied once per fetch
func (r *PostgresApplicationRepository) GetAppliedJobIDs(applicantID string) (map[string]bool, error) {
	var ids []string
	err := r.db.Model(&models.Application{}).Where("applicant_id = ?", applicantID).
		Pluck("job_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// UpdateStatus moves an application through its review states
func (r *PostgresApplicationRepository) UpdateStatus(id string, status models.ApplicationStatus) error {
	res := r.db.Model(&models.Application{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
