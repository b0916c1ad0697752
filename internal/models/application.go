package models

import (
	"time"
)

// Application is one applicant's application to one job. Live status fields
// always mirror the latest status event once a transition is applied.
type Application struct {
	BaseModel
	JobID       string            `gorm:"not null;index;uniqueIndex:idx_application_job_applicant"`
	ApplicantID string            `gorm:"not null;index;uniqueIndex:idx_application_job_applicant"`
	Status      ApplicationStatus `gorm:"type:varchar(30);default:'Pending'"`
	Favourite   bool              `gorm:"default:false"`
	Notes       string            `gorm:"type:text"`

	// Interview metadata, set by Interview Scheduled transitions
	InterviewType  string // online, in_person
	InterviewDate  *time.Time
	InterviewTime  string
	InterviewLink  string
	InterviewVenue string

	StatusEvents []ApplicationStatusEvent `gorm:"foreignKey:ApplicationID"`
}

// ApplicationStatusEvent is an append-only snapshot of the application's
// status, notes and interview fields at transition time.
type ApplicationStatusEvent struct {
	BaseModel
	ApplicationID  string            `gorm:"not null;index"`
	Status         ApplicationStatus `gorm:"type:varchar(30);not null"`
	Notes          string            `gorm:"type:text"`
	InterviewType  string
	InterviewDate  *time.Time
	InterviewTime  string
	InterviewLink  string
	InterviewVenue string
	OccurredAt     time.Time `gorm:"not null"`
}
