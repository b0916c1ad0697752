package dto

import (
	"time"

	"workhub_backend/internal/models"
)

type CalendarEventRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	StartsAt    time.Time  `json:"starts_at" validate:"required"`
	EndsAt      *time.Time `json:"ends_at"`
	RelatedID   string     `json:"related_id"`
}

type CalendarRangeQuery struct {
	From time.Time `form:"from" validate:"required"`
	To   time.Time `form:"to" validate:"required"`
}

type CalendarEventResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	RelatedID   string     `json:"related_id,omitempty"`
}

func FromCalendarEvent(e *models.CalendarEvent) CalendarEventResponse {
	return CalendarEventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		RelatedID:   e.RelatedID,
	}
}
