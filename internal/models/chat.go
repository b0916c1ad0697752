package models

import "time"

// Dialog is a chat thread between two participants. Names and avatars are
// denormalized at creation time for cheap listing.
type Dialog struct {
	BaseModel
	EmployerID     string `gorm:"not null;index;uniqueIndex:idx_dialog_pair"`
	EmployeeID     string `gorm:"not null;index;uniqueIndex:idx_dialog_pair"`
	EmployerName   string
	EmployeeName   string
	EmployerAvatar string
	EmployeeAvatar string
	JobID          *string `gorm:"index"` // optional job the conversation started from
	LastMessageAt  *time.Time

	Messages []ChatMessage `gorm:"foreignKey:DialogID"`
}

// ChatMessage is append-only.
type ChatMessage struct {
	BaseModel
	DialogID      string `gorm:"not null;index"`
	SenderID      string `gorm:"not null;index"`
	Content       string `gorm:"type:text"`
	AttachmentURL string
	IsRead        bool `gorm:"default:false"`
}
