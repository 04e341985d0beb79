package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationStatus is the review state of a job application
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusReviewed ApplicationStatus = "reviewed"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Application represents a student's application to a job. The unique
// index enforces at most one application per (job, applicant) pair; a
// duplicate attempt fails instead of duplicating.
type Application struct {
	ID          string            `json:"id" gorm:"type:uuid;primaryKey"`
	JobID       string            `json:"job_id" gorm:"type:uuid;index;uniqueIndex:idx_job_applicant"`
	ApplicantID string            `json:"applicant_id" gorm:"type:uuid;index;uniqueIndex:idx_job_applicant"`
	Status      ApplicationStatus `json:"status" gorm:"size:20;default:'pending'"`
	CreatedAt   time.Time         `json:"created_at"`
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// UpdateApplicationRequest defines the body for an owner updating an
// application's review status
type UpdateApplicationRequest struct {
	Status string `json:"status" validate:"required,oneof=pending reviewed accepted rejected"`
}
