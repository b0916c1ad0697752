package models

import "time"

// CalendarEvent is a per-user calendar entry (interview slot, personal
// reminder). Owned exclusively by its user.
type CalendarEvent struct {
	BaseModel
	UserID      string    `gorm:"not null;index"`
	Title       string    `gorm:"not null"`
	Description string    `gorm:"type:text"`
	StartsAt    time.Time `gorm:"not null;index"`
	EndsAt      *time.Time
	RelatedID   string // optional application/event id
}
