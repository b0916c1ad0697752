package models

import (
	"time"

	"gorm.io/datatypes"
)

// User is one account of any actor kind. Accounts are never hard-deleted;
// Blocked and Status are the only lifecycle flags.
type User struct {
	BaseModel
	Email        string             `gorm:"uniqueIndex;not null"`
	Mobile       string             `gorm:"uniqueIndex"`
	PasswordHash string             `gorm:"not null"`
	Name         string             `gorm:"not null"`
	Role         UserRole           `gorm:"type:varchar(20);not null;index"`
	Status       VerificationStatus `gorm:"type:varchar(20);default:'pending'"`
	Blocked      bool               `gorm:"default:false"`

	// Transient OTP fields, cleared on successful verification.
	OTPCode   string
	OTPExpiry *time.Time

	// Registered push endpoints, pruned when the gateway reports them invalid.
	PushTokens datatypes.JSON `gorm:"type:jsonb"`

	// Employee entitlement state
	IsVerified bool `gorm:"default:false"` // verified badge from an active plan

	// Employer entitlement state: running quota counters, additively
	// increased on plan activation and consumed by domain operations.
	HasSubscription bool `gorm:"default:false"`
	DailyLimit      int  `gorm:"default:0"`
	ProfileViews    int  `gorm:"default:0"`
	ResumeDownloads int  `gorm:"default:0"`
	JobPostingLimit int  `gorm:"default:0"`

	// Employer-admin back-reference: the employer account it manages.
	EmployerID *string `gorm:"index"`

	// Denormalized profile fields
	CompanyName string
	Designation string
	AvatarURL   string
	ResumeURL   string
	City        string
	About       string

	// Relations
	Subscriptions []Subscription `gorm:"foreignKey:UserID"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}
