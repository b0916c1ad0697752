package dto

// RegisterRequest creates a new employee or employer account. Employer
// accounts stay pending until a platform admin approves them.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Mobile      string `json:"mobile" validate:"omitempty,e164"`
	Password    string `json:"password" validate:"required,min=8"`
	Name        string `json:"name" validate:"required"`
	Role        string `json:"role" validate:"required,oneof=employee employer"`
	City        string `json:"city" validate:"omitempty"`
	CompanyName string `json:"company_name" validate:"omitempty"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleLoginRequest signs the user in with a Google ID token. Role is only
// consulted on first login, when the account is created.
type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
	Role    string `json:"role" validate:"omitempty,oneof=employee employer"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type PushTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}
