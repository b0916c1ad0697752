package models

import (
	"time"

	"gorm.io/datatypes"
)

// Job is a posting owned by one employer. Never physically deleted;
// IsActive is the soft flag.
type Job struct {
	BaseModel
	EmployerID  string `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	City        string `gorm:"index"`
	JobType     string // full_time, part_time, contract, internship
	Category    string `gorm:"index"`
	SalaryMin   float64
	SalaryMax   float64
	Skills      datatypes.JSON `gorm:"type:jsonb"`
	Deadline    *time.Time     `gorm:"index"`
	IsActive    bool           `gorm:"default:true"`
	Views       int            `gorm:"default:0"`

	Applications []Application `gorm:"foreignKey:JobID"`
}

// SavedJob marks a job bookmarked by an applicant. Presence of the row is
// the saved state; the toggle adds or removes it.
type SavedJob struct {
	BaseModel
	JobID       string `gorm:"not null;index;uniqueIndex:idx_saved_job_applicant"`
	ApplicantID string `gorm:"not null;index;uniqueIndex:idx_saved_job_applicant"`
}
