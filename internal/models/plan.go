package models

import (
	"gorm.io/datatypes"
)

// Plan is a subscription plan offered to employers or employees.
// Soft-deleted via IsActive; issued subscriptions keep a full snapshot,
// so later edits never alter them retroactively.
type Plan struct {
	BaseModel
	Name         string         `gorm:"not null"`
	Audience     PlanAudience   `gorm:"type:varchar(20);not null;index"`
	Price        float64        `gorm:"not null"`
	Currency     string         `gorm:"default:'INR'"`
	ValidityDays int            `gorm:"not null"`
	Features     datatypes.JSON `gorm:"type:jsonb"` // {"verified_badge": true, "ads": false, ...}
	IsActive     bool           `gorm:"default:true"`

	// Consumable quota grants (employer plans)
	DailyLimit      int `gorm:"default:0"`
	ProfileViews    int `gorm:"default:0"`
	ResumeDownloads int `gorm:"default:0"`
	JobPostingLimit int `gorm:"default:0"`
}

// IsFree reports whether the plan is a free trial.
func (p *Plan) IsFree() bool {
	return p.Price == 0
}
