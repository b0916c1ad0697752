package models

import "time"

// Event is a platform-organized event or training open for registration.
type Event struct {
	BaseModel
	Title       string    `gorm:"not null"`
	Description string    `gorm:"type:text"`
	BannerURL   string
	Venue       string
	IsOnline    bool      `gorm:"default:false"`
	StartsAt    time.Time `gorm:"not null;index"`
	RegClosesAt time.Time `gorm:"not null"`
	IsActive    bool      `gorm:"default:true"`

	Registrations []EventRegistration `gorm:"foreignKey:EventID"`
}

// EventRegistration is append-only; one row per user per event.
type EventRegistration struct {
	BaseModel
	EventID  string   `gorm:"not null;index;uniqueIndex:idx_event_registration"`
	UserID   string   `gorm:"not null;index;uniqueIndex:idx_event_registration"`
	UserRole UserRole `gorm:"type:varchar(20);not null"`
	UserName string
}
