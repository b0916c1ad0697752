package dto

import (
	"time"

	"workhub_backend/internal/models"
)

type ActivateRequest struct {
	PlanID string `json:"plan_id" validate:"required"`
}

// SubscriptionResponse exposes the snapshot view; the remaining days are
// always derived from the end date at response time.
type SubscriptionResponse struct {
	ID            string    `json:"id"`
	PlanID        string    `json:"plan_id"`
	PlanName      string    `json:"plan_name"`
	IsTrial       bool      `json:"is_trial"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	DaysRemaining int       `json:"days_remaining"`
	Status        string    `json:"status"`
}

func FromSubscription(s *models.Subscription, now time.Time) SubscriptionResponse {
	resp := SubscriptionResponse{
		ID:            s.ID,
		PlanID:        s.PlanID,
		IsTrial:       s.IsTrial,
		StartDate:     s.StartDate,
		EndDate:       s.EndDate,
		DaysRemaining: s.DaysRemaining(now),
		Status:        string(s.Status),
	}
	if snap, err := s.DecodeSnapshot(); err == nil {
		resp.PlanName = snap.Name
	}
	return resp
}

// CheckoutResponse starts a hosted-checkout flow for a paid plan.
type CheckoutResponse struct {
	OrderID    string  `json:"order_id"`
	PaymentURL string  `json:"payment_url"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
}

// PaymentCallbackRequest is the gateway's result callback. Field names match
// the provider's wire format.
type PaymentCallbackRequest struct {
	OutSum    float64 `form:"OutSum" json:"OutSum" validate:"required,gt=0"`
	InvID     string  `form:"InvId" json:"InvId" validate:"required"`
	Signature string  `form:"SignatureValue" json:"SignatureValue" validate:"required"`
}
