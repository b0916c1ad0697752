package services

import (
	"context"
	"time"

	"workhub_backend/internal/auth"
	"workhub_backend/internal/config"
	"workhub_backend/internal/email"
	"workhub_backend/internal/logger"
	"workhub_backend/internal/models"
	"workhub_backend/internal/repositories"
	"workhub_backend/internal/services/dto"
	"workhub_backend/pkg/apperrors"

	"github.com/google/uuid"
)

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) error
	VerifyOTP(ctx context.Context, req *dto.VerifyOTPRequest) (*dto.AuthResponse, error)
	ResendOTP(ctx context.Context, req *dto.ResendOTPRequest) error
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	GoogleLogin(ctx context.Context, req *dto.GoogleLoginRequest) (*dto.AuthResponse, error)
	Refresh(req *dto.RefreshRequest) (*dto.AuthResponse, error)
	Logout(userID string) error
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
	RegisterPushToken(userID, token string) error
}

type authService struct {
	userRepo    repositories.UserRepository
	refreshRepo repositories.RefreshTokenRepository
	mailer      email.Provider
	google      *auth.GoogleVerifier
}

func NewAuthService(
	userRepo repositories.UserRepository,
	refreshRepo repositories.RefreshTokenRepository,
	mailer email.Provider,
	google *auth.GoogleVerifier,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		refreshRepo: refreshRepo,
		mailer:      mailer,
		google:      google,
	}
}

// Register creates the account in pending state and sends the verification
// code through the email side channel. The code itself never appears in any
// API response.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) error {
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return apperrors.ErrInvalidState("auth", "An account with this email already exists")
	} else if !apperrors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.InternalError(err)
	}

	if req.Mobile != "" {
		if _, err := s.userRepo.FindByMobile(req.Mobile); err == nil {
			return apperrors.ErrInvalidState("auth", "An account with this mobile number already exists")
		} else if !apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.InternalError(err)
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		Mobile:       req.Mobile,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         models.UserRole(req.Role),
		Status:       models.VerificationPending,
		City:         req.City,
		CompanyName:  req.CompanyName,
	}
	if err := s.userRepo.Create(user); err != nil {
		return apperrors.InternalError(err)
	}

	return s.sendOTP(ctx, user, false)
}

func (s *authService) VerifyOTP(ctx context.Context, req *dto.VerifyOTPRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError("Invalid email or code")
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.checkOTP(user, req.Code); err != nil {
		return nil, err
	}

	if err := s.userRepo.ClearOTP(user.ID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Employers additionally wait for admin approval; OTP verification only
	// confirms the email.
	if user.Status == models.VerificationPending && user.Role != models.UserRoleEmployer {
		if err := s.userRepo.SetStatus(user.ID, models.VerificationVerified); err != nil {
			return nil, apperrors.InternalError(err)
		}
		user.Status = models.VerificationVerified
	}

	logger.CtxInfo(ctx, "account verified", "user_id", user.ID, "role", user.Role)
	return s.issueTokens(user)
}

// ResendOTP issues a fresh verification code for accounts still awaiting
// it. Unknown or already-verified emails are reported as success so the
// endpoint leaks nothing.
func (s *authService) ResendOTP(ctx context.Context, req *dto.ResendOTPRequest) error {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			logger.CtxInfo(ctx, "OTP resend requested for unknown email")
			return nil
		}
		return apperrors.InternalError(err)
	}
	if user.Status != models.VerificationPending {
		return nil
	}
	return s.sendOTP(ctx, user, false)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError("Invalid email or password")
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.NewUnauthorizedError("Invalid email or password")
	}
	if user.Blocked {
		return nil, apperrors.ErrAccountBlocked
	}
	if user.Status == models.VerificationPending && user.Role != models.UserRoleEmployer {
		return nil, apperrors.NewForbiddenError("Email is not verified yet")
	}
	if user.Status == models.VerificationRejected {
		return nil, apperrors.ErrAccountNotApproved
	}

	logger.CtxInfo(ctx, "user logged in", "user_id", user.ID)
	return s.issueTokens(user)
}

// GoogleLogin verifies the ID token and signs the user in, creating the
// account on first login. Google-backed emails skip OTP verification.
func (s *authService) GoogleLogin(ctx context.Context, req *dto.GoogleLoginRequest) (*dto.AuthResponse, error) {
	identity, err := s.google.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("Invalid Google token")
	}

	user, err := s.userRepo.FindByEmail(identity.Email)
	if err != nil {
		if !apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.InternalError(err)
		}

		role := models.UserRoleEmployee
		if req.Role != "" {
			role = models.UserRole(req.Role)
		}
		status := models.VerificationVerified
		if role == models.UserRoleEmployer {
			status = models.VerificationPending
		}

		// The account has no usable password; a random hash keeps the
		// column non-empty without ever matching a login attempt.
		hash, hashErr := auth.HashPassword(uuid.NewString())
		if hashErr != nil {
			return nil, apperrors.InternalError(hashErr)
		}

		user = &models.User{
			Email:        identity.Email,
			PasswordHash: hash,
			Name:         identity.Name,
			Role:         role,
			Status:       status,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, apperrors.InternalError(err)
		}
		logger.CtxInfo(ctx, "account created via google", "user_id", user.ID, "role", role)
	}

	if user.Blocked {
		return nil, apperrors.ErrAccountBlocked
	}
	return s.issueTokens(user)
}

// Refresh rotates the refresh token and issues a fresh access token.
func (s *authService) Refresh(req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	stored, err := s.refreshRepo.FindByToken(req.RefreshToken)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil, apperrors.NewUnauthorizedError("Invalid refresh token")
		}
		return nil, apperrors.InternalError(err)
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.refreshRepo.Delete(stored.Token)
		return nil, apperrors.NewUnauthorizedError("Refresh token expired")
	}

	user, err := s.userRepo.FindByID(stored.UserID)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("Invalid refresh token")
	}
	if user.Blocked {
		return nil, apperrors.ErrAccountBlocked
	}

	if err := s.refreshRepo.Delete(stored.Token); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.issueTokens(user)
}

func (s *authService) Logout(userID string) error {
	if err := s.refreshRepo.DeleteByUser(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// ForgotPassword sends a reset code to the account's email. A missing
// account is reported as success so the endpoint cannot be used to probe
// for registered emails.
func (s *authService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			logger.CtxInfo(ctx, "password reset requested for unknown email")
			return nil
		}
		return apperrors.InternalError(err)
	}
	return s.sendOTP(ctx, user, true)
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.NewUnauthorizedError("Invalid email or code")
		}
		return apperrors.InternalError(err)
	}

	if err := s.checkOTP(user, req.Code); err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"password_hash": hash}); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.ClearOTP(user.ID); err != nil {
		return apperrors.InternalError(err)
	}

	// Existing sessions are revoked alongside the password change.
	if err := s.refreshRepo.DeleteByUser(user.ID); err != nil {
		logger.CtxWithError(ctx, "failed to revoke refresh tokens after password reset", err, "user_id", user.ID)
	}
	return nil
}

func (s *authService) RegisterPushToken(userID, token string) error {
	if err := s.userRepo.AddPushToken(userID, token); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// --- helpers ---

func (s *authService) sendOTP(ctx context.Context, user *models.User, reset bool) error {
	code, expiry, err := auth.GenerateOTP()
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.SetOTP(user.ID, code, expiry); err != nil {
		return apperrors.InternalError(err)
	}

	var subject, body string
	if reset {
		subject, body = email.PasswordResetBody(user.Name, code)
	} else {
		subject, body = email.OTPBody(user.Name, code)
	}

	// Delivery is best-effort; the user can request a new code.
	go func(to string) {
		if err := s.mailer.Send(to, subject, body); err != nil {
			logger.Error("failed to send OTP email", "error", err.Error(), "user_id", user.ID)
		}
	}(user.Email)

	logger.CtxInfo(ctx, "OTP issued", "user_id", user.ID, "reset", reset)
	return nil
}

func (s *authService) checkOTP(user *models.User, code string) error {
	if user.OTPCode == "" || user.OTPExpiry == nil {
		return apperrors.NewUnauthorizedError("No verification code was requested")
	}
	if time.Now().After(*user.OTPExpiry) {
		return apperrors.NewUnauthorizedError("Verification code expired")
	}
	if user.OTPCode != code {
		return apperrors.NewUnauthorizedError("Invalid verification code")
	}
	return nil
}

func (s *authService) issueTokens(user *models.User) (*dto.AuthResponse, error) {
	access, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	cfg := config.GetConfig()
	refresh := &models.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(time.Duration(cfg.JWT.RefreshTTL) * time.Hour),
	}
	if err := s.refreshRepo.Create(refresh); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh.Token,
		User:         dto.FromUser(user),
	}, nil
}
