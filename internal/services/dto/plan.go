package dto

import (
	"encoding/json"

	"workhub_backend/internal/models"
)

type CreatePlanRequest struct {
	Name         string         `json:"name" validate:"required"`
	Audience     string         `json:"audience" validate:"required,oneof=employer employee"`
	Price        float64        `json:"price" validate:"gte=0"`
	Currency     string         `json:"currency" validate:"omitempty,len=3"`
	ValidityDays int            `json:"validity_days" validate:"required,min=1"`
	Features     map[string]any `json:"features"`

	DailyLimit      int `json:"daily_limit" validate:"gte=0"`
	ProfileViews    int `json:"profile_views" validate:"gte=0"`
	ResumeDownloads int `json:"resume_downloads" validate:"gte=0"`
	JobPostingLimit int `json:"job_posting_limit" validate:"gte=0"`
}

type UpdatePlanRequest struct {
	Name         *string        `json:"name" validate:"omitempty,min=1"`
	Price        *float64       `json:"price" validate:"omitempty,gte=0"`
	Currency     *string        `json:"currency" validate:"omitempty,len=3"`
	ValidityDays *int           `json:"validity_days" validate:"omitempty,min=1"`
	Features     map[string]any `json:"features"`
	IsActive     *bool          `json:"is_active"`

	DailyLimit      *int `json:"daily_limit" validate:"omitempty,gte=0"`
	ProfileViews    *int `json:"profile_views" validate:"omitempty,gte=0"`
	ResumeDownloads *int `json:"resume_downloads" validate:"omitempty,gte=0"`
	JobPostingLimit *int `json:"job_posting_limit" validate:"omitempty,gte=0"`
}

type PlanResponse struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Audience     string         `json:"audience"`
	Price        float64        `json:"price"`
	Currency     string         `json:"currency"`
	ValidityDays int            `json:"validity_days"`
	Features     map[string]any `json:"features,omitempty"`
	IsFree       bool           `json:"is_free"`
	IsActive     bool           `json:"is_active"`

	DailyLimit      int `json:"daily_limit"`
	ProfileViews    int `json:"profile_views"`
	ResumeDownloads int `json:"resume_downloads"`
	JobPostingLimit int `json:"job_posting_limit"`
}

func FromPlan(p *models.Plan) PlanResponse {
	var features map[string]any
	if len(p.Features) > 0 {
		_ = json.Unmarshal(p.Features, &features)
	}
	return PlanResponse{
		ID:              p.ID,
		Name:            p.Name,
		Audience:        string(p.Audience),
		Price:           p.Price,
		Currency:        p.Currency,
		ValidityDays:    p.ValidityDays,
		Features:        features,
		IsFree:          p.IsFree(),
		IsActive:        p.IsActive,
		DailyLimit:      p.DailyLimit,
		ProfileViews:    p.ProfileViews,
		ResumeDownloads: p.ResumeDownloads,
		JobPostingLimit: p.JobPostingLimit,
	}
}
