package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID    string         `gorm:"not null;index"`
	UserRole  UserRole       `gorm:"type:varchar(20);not null"`
	Type      string         `gorm:"not null"` // "application_status", "plan_upgrade", "new_message", ...
	Title     string         `gorm:"not null"`
	Subtitle  string
	RelatedID string         `gorm:"index"` // id of the job/application/event the notification refers to
	Data      datatypes.JSON `gorm:"type:jsonb"`
	IsRead    bool           `gorm:"default:false"`
	ReadAt    *time.Time
}
