package dto

import (
	"time"

	"workhub_backend/internal/models"
)

type ApplyRequest struct {
	JobID string `json:"job_id" validate:"required"`
	Notes string `json:"notes"`
}

// TransitionRequest moves an application to a new status. Notes are
// mandatory so each history event carries the employer's reasoning.
type TransitionRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes" validate:"required"`

	// Interview fields, consulted only for Interview Scheduled
	InterviewType  string     `json:"interview_type" validate:"omitempty,oneof=online in_person"`
	InterviewDate  *time.Time `json:"interview_date"`
	InterviewTime  string     `json:"interview_time"`
	InterviewLink  string     `json:"interview_link" validate:"omitempty,url"`
	InterviewVenue string     `json:"interview_venue"`
}

type FavouriteRequest struct {
	Favourite bool `json:"favourite"`
}

type ApplicationResponse struct {
	ID          string    `json:"id"`
	JobID       string    `json:"job_id"`
	ApplicantID string    `json:"applicant_id"`
	Status      string    `json:"status"`
	Favourite   bool      `json:"favourite"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	InterviewType  string     `json:"interview_type,omitempty"`
	InterviewDate  *time.Time `json:"interview_date,omitempty"`
	InterviewTime  string     `json:"interview_time,omitempty"`
	InterviewLink  string     `json:"interview_link,omitempty"`
	InterviewVenue string     `json:"interview_venue,omitempty"`
}

func FromApplication(a *models.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:             a.ID,
		JobID:          a.JobID,
		ApplicantID:    a.ApplicantID,
		Status:         string(a.Status),
		Favourite:      a.Favourite,
		Notes:          a.Notes,
		CreatedAt:      a.CreatedAt,
		InterviewType:  a.InterviewType,
		InterviewDate:  a.InterviewDate,
		InterviewTime:  a.InterviewTime,
		InterviewLink:  a.InterviewLink,
		InterviewVenue: a.InterviewVenue,
	}
}

type StatusEventResponse struct {
	ID             string     `json:"id"`
	Status         string     `json:"status"`
	Notes          string     `json:"notes,omitempty"`
	InterviewType  string     `json:"interview_type,omitempty"`
	InterviewDate  *time.Time `json:"interview_date,omitempty"`
	InterviewTime  string     `json:"interview_time,omitempty"`
	InterviewLink  string     `json:"interview_link,omitempty"`
	InterviewVenue string     `json:"interview_venue,omitempty"`
	OccurredAt     time.Time  `json:"occurred_at"`
}

func FromStatusEvent(e *models.ApplicationStatusEvent) StatusEventResponse {
	return StatusEventResponse{
		ID:             e.ID,
		Status:         string(e.Status),
		Notes:          e.Notes,
		InterviewType:  e.InterviewType,
		InterviewDate:  e.InterviewDate,
		InterviewTime:  e.InterviewTime,
		InterviewLink:  e.InterviewLink,
		InterviewVenue: e.InterviewVenue,
		OccurredAt:     e.OccurredAt,
	}
}
