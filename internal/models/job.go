package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobType is the fixed enumeration of opportunity kinds
type JobType string

const (
	JobTypeInternship JobType = "internship"
	JobTypeSIWES      JobType = "siwes"
	JobTypeVolunteer  JobType = "volunteer"
	JobTypeEntryLevel JobType = "entry-level"
)

// Job represents an opportunity posted by an organization profile.
// Applicant count and "has current user applied" are never stored here;
// they are computed at fetch time from the applications table.
type Job struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	ProfileID string    `json:"profile_id" gorm:"type:uuid;index"` // Owning organization
	Title     string    `json:"title" gorm:"size:150"`
	Company   string    `json:"company" gorm:"size:150"`
	Location  string    `json:"location" gorm:"size:100"`
	Type      JobType   `json:"type" gorm:"size:20;index"`
	IsRemote  bool      `json:"is_remote" gorm:"default:false"`
	IsPaid    bool      `json:"is_paid" gorm:"default:false"`
	Verified  bool      `json:"verified" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	return nil
}

// CreateJobRequest defines the request body for posting a job
type CreateJobRequest struct {
	Title    string `json:"title" validate:"required,min=2,max=150"`
	Company  string `json:"company" validate:"required,min=2,max=150"`
	Location string `json:"location" validate:"required,max=100"`
	Type     string `json:"type" validate:"required,oneof=internship siwes volunteer entry-level"`
	IsRemote bool   `json:"is_remote"`
	IsPaid   bool   `json:"is_paid"`
}

// EntityID implements the data sync layer's entity identity
func (j Job) EntityID() string { return j.ID }

// EntityTime implements the data sync layer's ordering key
func (j Job) EntityTime() time.Time { return j.CreatedAt }
