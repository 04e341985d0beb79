package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountType discriminates the two profile variants
type AccountType string

const (
	AccountTypeStudent      AccountType = "student"
	AccountTypeOrganization AccountType = "organization"
)

// Profile is the account header shared by both variants. The
// variant-specific attributes live in a payload row keyed by the
// profile id; exactly one of Student / Organization is set, selected
// by AccountType.
type Profile struct {
	ID          string      `json:"id" gorm:"type:uuid;primaryKey"`
	FirebaseUID string      `json:"-" gorm:"uniqueIndex;size:128"`
	Name        string      `json:"name" gorm:"size:100;not null"`
	Email       string      `json:"email" gorm:"uniqueIndex;size:255;not null"`
	AvatarURL   string      `json:"avatar_url,omitempty"`
	AccountType AccountType `json:"account_type" gorm:"size:20;not null;index"`
	Bio         string      `json:"bio,omitempty" gorm:"size:500"`
	IsVerified  bool        `json:"is_verified" gorm:"default:false"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	Student      *StudentProfile      `json:"student,omitempty" gorm:"foreignKey:ProfileID"`
	Organization *OrganizationProfile `json:"organization,omitempty" gorm:"foreignKey:ProfileID"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// StudentProfile is the student variant payload
type StudentProfile struct {
	ProfileID  string   `json:"profile_id" gorm:"type:uuid;primaryKey"`
	University string   `json:"university" gorm:"size:150"`
	Department string   `json:"department" gorm:"size:100"`
	Level      string   `json:"level,omitempty" gorm:"size:20"`
	Courses    []string `json:"courses" gorm:"serializer:json"`
	Skills     []string `json:"skills" gorm:"serializer:json"`
	Badges     []string `json:"badges" gorm:"serializer:json"`
}

// OrganizationProfile is the organization variant payload
type OrganizationProfile struct {
	ProfileID string `json:"profile_id" gorm:"type:uuid;primaryKey"`
	Industry  string `json:"industry,omitempty" gorm:"size:100"`
	Website   string `json:"website,omitempty" gorm:"size:255"`
	Location  string `json:"location,omitempty" gorm:"size:150"`
	Size      string `json:"size,omitempty" gorm:"size:50"`
}

// ProfileCompact is the author/actor shape embedded in enriched
// responses: enough to render a card without another fetch
type ProfileCompact struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	AvatarURL   string      `json:"avatar_url,omitempty"`
	AccountType AccountType `json:"account_type"`
	IsVerified  bool        `json:"is_verified"`
	University  string      `json:"university,omitempty"`
}

// ToCompact projects the header (and the student's university, when
// present) into the embedded card shape
func (p *Profile) ToCompact() ProfileCompact {
	compact := ProfileCompact{
		ID:          p.ID,
		Name:        p.Name,
		AvatarURL:   p.AvatarURL,
		AccountType: p.AccountType,
		IsVerified:  p.IsVerified,
	}
	if p.Student != nil {
		compact.University = p.Student.University
	}
	return compact
}

// CreateProfileRequest defines the sign-up completion body. The
// discriminator selects which of the variant fields are honored.
type CreateProfileRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Email       string   `json:"email" validate:"required,email"`
	AvatarURL   string   `json:"avatar_url,omitempty" validate:"omitempty,url"`
	AccountType string   `json:"account_type" validate:"required,oneof=student organization"`
	Bio         string   `json:"bio,omitempty" validate:"omitempty,max=500"`
	University  string   `json:"university,omitempty" validate:"omitempty,max=150"`
	Department  string   `json:"department,omitempty" validate:"omitempty,max=100"`
	Level       string   `json:"level,omitempty" validate:"omitempty,max=20"`
	Courses     []string `json:"courses,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	Badges      []string `json:"badges,omitempty"`
	Industry    string   `json:"industry,omitempty" validate:"omitempty,max=100"`
	Website     string   `json:"website,omitempty" validate:"omitempty,url"`
	Location    string   `json:"location,omitempty" validate:"omitempty,max=150"`
	Size        string   `json:"size,omitempty" validate:"omitempty,max=50"`
}

// UpdateProfileRequest defines the profile edit body. Empty fields are
// left untouched; nil slices mean "no change" while empty slices clear.
type UpdateProfileRequest struct {
	Name       string   `json:"name,omitempty" validate:"omitempty,max=100"`
	AvatarURL  string   `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Bio        string   `json:"bio,omitempty" validate:"omitempty,max=500"`
	University string   `json:"university,omitempty" validate:"omitempty,max=150"`
	Department string   `json:"department,omitempty" validate:"omitempty,max=100"`
	Level      string   `json:"level,omitempty" validate:"omitempty,max=20"`
	Courses    []string `json:"courses,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Badges     []string `json:"badges,omitempty"`
	Industry   string   `json:"industry,omitempty" validate:"omitempty,max=100"`
	Website    string   `json:"website,omitempty" validate:"omitempty,url"`
	Location   string   `json:"location,omitempty" validate:"omitempty,max=150"`
	Size       string   `json:"size,omitempty" validate:"omitempty,max=50"`
}

// UpdateVerificationRequest is the admin verification toggle body.
// A pointer distinguishes "unset" from an explicit false.
type UpdateVerificationRequest struct {
	IsVerified *bool `json:"is_verified" validate:"required"`
}
