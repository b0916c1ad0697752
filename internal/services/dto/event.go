package dto

import (
	"time"

	"workhub_backend/internal/models"
)

type CreateEventRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	BannerURL   string    `json:"banner_url" validate:"omitempty,url"`
	Venue       string    `json:"venue"`
	IsOnline    bool      `json:"is_online"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	RegClosesAt time.Time `json:"reg_closes_at" validate:"required"`
}

type UpdateEventRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1"`
	Description *string    `json:"description"`
	BannerURL   *string    `json:"banner_url" validate:"omitempty,url"`
	Venue       *string    `json:"venue"`
	IsOnline    *bool      `json:"is_online"`
	StartsAt    *time.Time `json:"starts_at"`
	RegClosesAt *time.Time `json:"reg_closes_at"`
}

type EventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	BannerURL   string    `json:"banner_url,omitempty"`
	Venue       string    `json:"venue,omitempty"`
	IsOnline    bool      `json:"is_online"`
	StartsAt    time.Time `json:"starts_at"`
	RegClosesAt time.Time `json:"reg_closes_at"`
	IsActive    bool      `json:"is_active"`
}

func FromEvent(e *models.Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		BannerURL:   e.BannerURL,
		Venue:       e.Venue,
		IsOnline:    e.IsOnline,
		StartsAt:    e.StartsAt,
		RegClosesAt: e.RegClosesAt,
		IsActive:    e.IsActive,
	}
}

type RegistrationResponse struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	UserID       string    `json:"user_id"`
	UserRole     string    `json:"user_role"`
	UserName     string    `json:"user_name,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

func FromRegistration(r *models.EventRegistration) RegistrationResponse {
	return RegistrationResponse{
		ID:           r.ID,
		EventID:      r.EventID,
		UserID:       r.UserID,
		UserRole:     string(r.UserRole),
		UserName:     r.UserName,
		RegisteredAt: r.CreatedAt,
	}
}
