package models

type UserRole string
type VerificationStatus string
type SubscriptionStatus string
type PlanAudience string
type ApplicationStatus string
type PaymentStatus string
type HelpSessionStatus string

const (
	UserRoleEmployee      UserRole = "employee"
	UserRoleEmployer      UserRole = "employer"
	UserRoleEmployerAdmin UserRole = "employer_admin"
	UserRoleAdmin         UserRole = "admin"

	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"

	SubscriptionStatusActive  SubscriptionStatus = "active"
	SubscriptionStatusExpired SubscriptionStatus = "expired"

	PlanAudienceEmployer PlanAudience = "employer"
	PlanAudienceEmployee PlanAudience = "employee"

	ApplicationStatusPending   ApplicationStatus = "Pending"
	ApplicationStatusInterview ApplicationStatus = "Interview Scheduled"
	ApplicationStatusAccepted  ApplicationStatus = "Accepted"
	ApplicationStatusRejected  ApplicationStatus = "Rejected"

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"

	HelpSessionOpen     HelpSessionStatus = "open"
	HelpSessionClaimed  HelpSessionStatus = "claimed"
	HelpSessionResolved HelpSessionStatus = "resolved"
)

// applicationTransitions is the closed transition table for application
// statuses. Accepted and Rejected are terminal; re-scheduling an interview
// is a self-transition.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusPending: {
		ApplicationStatusInterview,
		ApplicationStatusAccepted,
		ApplicationStatusRejected,
	},
	ApplicationStatusInterview: {
		ApplicationStatusInterview,
		ApplicationStatusAccepted,
		ApplicationStatusRejected,
	},
}

// IsValidApplicationStatus reports whether s is a known status value.
func IsValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusInterview,
		ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	}
	return false
}

// CanTransitionApplication reports whether moving from -> to is allowed.
func CanTransitionApplication(from, to ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
