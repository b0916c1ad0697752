package dto

import (
	"time"

	"workhub_backend/internal/models"
)

// UserResponse is the public view of an account. OTP material and the
// password hash never appear here.
type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Mobile      string `json:"mobile,omitempty"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	Blocked     bool   `json:"blocked"`
	IsVerified  bool   `json:"is_verified"`
	CompanyName string `json:"company_name,omitempty"`
	Designation string `json:"designation,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	ResumeURL   string `json:"resume_url,omitempty"`
	City        string `json:"city,omitempty"`
	About       string `json:"about,omitempty"`

	// Employer entitlement state
	HasSubscription bool `json:"has_subscription"`
	DailyLimit      int  `json:"daily_limit"`
	ProfileViews    int  `json:"profile_views"`
	ResumeDownloads int  `json:"resume_downloads"`
	JobPostingLimit int  `json:"job_posting_limit"`

	CreatedAt time.Time `json:"created_at"`
}

func FromUser(u *models.User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		Mobile:          u.Mobile,
		Name:            u.Name,
		Role:            string(u.Role),
		Status:          string(u.Status),
		Blocked:         u.Blocked,
		IsVerified:      u.IsVerified,
		CompanyName:     u.CompanyName,
		Designation:     u.Designation,
		AvatarURL:       u.AvatarURL,
		ResumeURL:       u.ResumeURL,
		City:            u.City,
		About:           u.About,
		HasSubscription: u.HasSubscription,
		DailyLimit:      u.DailyLimit,
		ProfileViews:    u.ProfileViews,
		ResumeDownloads: u.ResumeDownloads,
		JobPostingLimit: u.JobPostingLimit,
		CreatedAt:       u.CreatedAt,
	}
}

type UpdateProfileRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	City        *string `json:"city"`
	About       *string `json:"about"`
	Designation *string `json:"designation"`
	CompanyName *string `json:"company_name"`
	AvatarURL   *string `json:"avatar_url" validate:"omitempty,url"`
	ResumeURL   *string `json:"resume_url" validate:"omitempty,url"`
}

// CreateEmployerAdminRequest creates a delegated account bound to the
// calling employer.
type CreateEmployerAdminRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
}

type ListUsersQuery struct {
	Role     string `form:"role" validate:"required,oneof=employee employer employer_admin admin"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type BlockRequest struct {
	Blocked bool `json:"blocked"`
}
