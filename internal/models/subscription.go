package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// PlanSnapshot is the denormalized copy of plan attributes taken at
// activation time.
type PlanSnapshot struct {
	PlanID          string         `json:"plan_id"`
	Name            string         `json:"name"`
	Audience        PlanAudience   `json:"audience"`
	Price           float64        `json:"price"`
	Currency        string         `json:"currency"`
	ValidityDays    int            `json:"validity_days"`
	Features        map[string]any `json:"features,omitempty"`
	DailyLimit      int            `json:"daily_limit"`
	ProfileViews    int            `json:"profile_views"`
	ResumeDownloads int            `json:"resume_downloads"`
	JobPostingLimit int            `json:"job_posting_limit"`
}

// Subscription is immutable once created except for the sweep transitioning
// Status to expired. At most one row per user is active; all rows together
// form the account's subscription history.
type Subscription struct {
	BaseModel
	UserID    string             `gorm:"not null;index"`
	PlanID    string             `gorm:"not null;index"`
	Snapshot  datatypes.JSON     `gorm:"type:jsonb;not null"`
	IsTrial   bool               `gorm:"default:false"`
	StartDate time.Time          `gorm:"not null"`
	EndDate   time.Time          `gorm:"not null;index"`
	Status    SubscriptionStatus `gorm:"type:varchar(20);default:'active';index"`
}

// DecodeSnapshot unmarshals the stored plan snapshot.
func (s *Subscription) DecodeSnapshot() (*PlanSnapshot, error) {
	var snap PlanSnapshot
	if err := json.Unmarshal(s.Snapshot, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// DaysRemaining derives the remaining validity from EndDate. There is no
// separately maintained counter to drift from it.
func (s *Subscription) DaysRemaining(now time.Time) int {
	if s.Status != SubscriptionStatusActive {
		return 0
	}
	days := int(s.EndDate.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// PaymentOrder tracks a payment-gateway order created for a paid plan.
type PaymentOrder struct {
	BaseModel
	UserID  string        `gorm:"not null;index"`
	PlanID  string        `gorm:"not null;index"`
	OrderID string        `gorm:"uniqueIndex;not null"`
	Amount  float64       `gorm:"not null"`
	Status  PaymentStatus `gorm:"type:varchar(20);default:'pending'"`
	PaidAt  *time.Time
}
