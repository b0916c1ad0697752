package dto

import (
	"encoding/json"
	"time"

	"workhub_backend/internal/models"
)

type CreateJobRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description" validate:"required"`
	City        string     `json:"city" validate:"required"`
	JobType     string     `json:"job_type" validate:"required,oneof=full_time part_time contract internship"`
	Category    string     `json:"category" validate:"required"`
	SalaryMin   float64    `json:"salary_min" validate:"gte=0"`
	SalaryMax   float64    `json:"salary_max" validate:"gte=0"`
	Skills      []string   `json:"skills"`
	Deadline    *time.Time `json:"deadline"`
}

type UpdateJobRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1"`
	Description *string    `json:"description"`
	City        *string    `json:"city"`
	JobType     *string    `json:"job_type" validate:"omitempty,oneof=full_time part_time contract internship"`
	Category    *string    `json:"category"`
	SalaryMin   *float64   `json:"salary_min" validate:"omitempty,gte=0"`
	SalaryMax   *float64   `json:"salary_max" validate:"omitempty,gte=0"`
	Skills      []string   `json:"skills"`
	Deadline    *time.Time `json:"deadline"`
}

type JobResponse struct {
	ID          string     `json:"id"`
	EmployerID  string     `json:"employer_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	City        string     `json:"city"`
	JobType     string     `json:"job_type"`
	Category    string     `json:"category"`
	SalaryMin   float64    `json:"salary_min"`
	SalaryMax   float64    `json:"salary_max"`
	Skills      []string   `json:"skills,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	IsActive    bool       `json:"is_active"`
	Views       int        `json:"views"`
	CreatedAt   time.Time  `json:"created_at"`
}

func FromJob(j *models.Job) JobResponse {
	var skills []string
	if len(j.Skills) > 0 {
		_ = json.Unmarshal(j.Skills, &skills)
	}
	return JobResponse{
		ID:          j.ID,
		EmployerID:  j.EmployerID,
		Title:       j.Title,
		Description: j.Description,
		City:        j.City,
		JobType:     j.JobType,
		Category:    j.Category,
		SalaryMin:   j.SalaryMin,
		SalaryMax:   j.SalaryMax,
		Skills:      skills,
		Deadline:    j.Deadline,
		IsActive:    j.IsActive,
		Views:       j.Views,
		CreatedAt:   j.CreatedAt,
	}
}

type JobListResponse struct {
	Jobs []JobResponse `json:"jobs"`
	Meta PageMeta      `json:"meta"`
}

type ToggleResponse struct {
	Saved bool `json:"saved"`
}
