package services

import (
	"context"
	"testing"
	"time"

	"workhub_backend/internal/auth"
	"workhub_backend/internal/models"
	"workhub_backend/internal/services/dto"
	"workhub_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	svc      AuthService
	users    *fakeUserRepo
	refresh  *fakeRefreshRepo
	mailer   *fakeMailer
}

func newAuthFixture(t *testing.T, users ...*models.User) *authFixture {
	t.Helper()
	userRepo := newFakeUserRepo(users...)
	refreshRepo := newFakeRefreshRepo()
	mailer := &fakeMailer{}
	return &authFixture{
		svc:     NewAuthService(userRepo, refreshRepo, mailer, auth.NewGoogleVerifier("test-audience")),
		users:   userRepo,
		refresh: refreshRepo,
		mailer:  mailer,
	}
}

func registeredUser(password string) *models.User {
	hash, _ := auth.HashPassword(password)
	return &models.User{
		BaseModel:    models.BaseModel{ID: "usr-1"},
		Email:        "jane@example.com",
		PasswordHash: hash,
		Name:         "Jane",
		Role:         models.UserRoleEmployee,
		Status:       models.VerificationVerified,
	}
}

func TestRegister_CreatesPendingAccountAndSendsCode(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "new@example.com",
		Password: "hunter2hunter2",
		Name:     "New Hire",
		Role:     "employee",
	})
	require.NoError(t, err)

	user, err := f.users.FindByEmail("new@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationPending, user.Status)
	assert.Len(t, user.OTPCode, 6)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)

	// Mail goes out on a separate goroutine.
	assert.Eventually(t, func() bool {
		f.mailer.mu.Lock()
		defer f.mailer.mu.Unlock()
		return len(f.mailer.sent) == 1 && f.mailer.sent[0] == "new@example.com"
	}, time.Second, 10*time.Millisecond)
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t, registeredUser("hunter2hunter2"))

	err := f.svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "jane@example.com",
		Password: "anotherpassword",
		Name:     "Impostor",
		Role:     "employee",
	})
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidState, appErr.Code)
}

func TestVerifyOTP_VerifiesEmployee(t *testing.T) {
	f := newAuthFixture(t)
	require.NoError(t, f.svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "new@example.com",
		Password: "hunter2hunter2",
		Name:     "New Hire",
		Role:     "employee",
	}))
	user, _ := f.users.FindByEmail("new@example.com")

	resp, err := f.svc.VerifyOTP(context.Background(), &dto.VerifyOTPRequest{
		Email: "new@example.com",
		Code:  user.OTPCode,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, 1, f.refresh.count())

	verified, _ := f.users.FindByEmail("new@example.com")
	assert.Equal(t, models.VerificationVerified, verified.Status)
	assert.Empty(t, verified.OTPCode, "the code is single-use")
}

func TestVerifyOTP_EmployerWaitsForApproval(t *testing.T) {
	f := newAuthFixture(t)
	require.NoError(t, f.svc.Register(context.Background(), &dto.RegisterRequest{
		Email:       "hr@acme.example",
		Password:    "hunter2hunter2",
		Name:        "Acme HR",
		Role:        "employer",
		CompanyName: "Acme",
	}))
	user, _ := f.users.FindByEmail("hr@acme.example")

	_, err := f.svc.VerifyOTP(context.Background(), &dto.VerifyOTPRequest{
		Email: "hr@acme.example",
		Code:  user.OTPCode,
	})
	require.NoError(t, err)

	stored, _ := f.users.FindByEmail("hr@acme.example")
	assert.Equal(t, models.VerificationPending, stored.Status, "employers stay pending until an admin approves them")
}

func TestVerifyOTP_RejectsWrongAndExpiredCodes(t *testing.T) {
	user := registeredUser("hunter2hunter2")
	f := newAuthFixture(t, user)
	require.NoError(t, f.users.SetOTP(user.ID, "123456", time.Now().Add(10*time.Minute)))

	_, err := f.svc.VerifyOTP(context.Background(), &dto.VerifyOTPRequest{Email: user.Email, Code: "654321"})
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)

	require.NoError(t, f.users.SetOTP(user.ID, "123456", time.Now().Add(-time.Minute)))
	_, err = f.svc.VerifyOTP(context.Background(), &dto.VerifyOTPRequest{Email: user.Email, Code: "123456"})
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newAuthFixture(t, registeredUser("hunter2hunter2"))

	_, err := f.svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong-password",
	})
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)
}

func TestLogin_BlockedAccount(t *testing.T) {
	user := registeredUser("hunter2hunter2")
	user.Blocked = true
	f := newAuthFixture(t, user)

	_, err := f.svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "jane@example.com",
		Password: "hunter2hunter2",
	})
	assert.ErrorIs(t, err, apperrors.ErrAccountBlocked)
}

func TestLogin_UnverifiedEmployee(t *testing.T) {
	user := registeredUser("hunter2hunter2")
	user.Status = models.VerificationPending
	f := newAuthFixture(t, user)

	_, err := f.svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "jane@example.com",
		Password: "hunter2hunter2",
	})
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)
}

func TestRefresh_RotatesToken(t *testing.T) {
	f := newAuthFixture(t, registeredUser("hunter2hunter2"))

	first, err := f.svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "jane@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	second, err := f.svc.Refresh(&dto.RefreshRequest{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The spent token no longer works.
	_, err = f.svc.Refresh(&dto.RefreshRequest{RefreshToken: first.RefreshToken})
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)
}

func TestResetPassword_RevokesSessions(t *testing.T) {
	user := registeredUser("old-password-1")
	f := newAuthFixture(t, user)

	_, err := f.svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "jane@example.com",
		Password: "old-password-1",
	})
	require.NoError(t, err)
	require.Equal(t, 1, f.refresh.count())

	require.NoError(t, f.svc.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{Email: user.Email}))
	withCode, _ := f.users.FindByEmail(user.Email)

	require.NoError(t, f.svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Email:       user.Email,
		Code:        withCode.OTPCode,
		NewPassword: "new-password-1",
	}))
	assert.Equal(t, 0, f.refresh.count(), "old sessions die with the old password")

	_, err = f.svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "jane@example.com",
		Password: "new-password-1",
	})
	assert.NoError(t, err)
}

func TestResendOTP_RotatesPendingCode(t *testing.T) {
	user := registeredUser("hunter2hunter2")
	user.Status = models.VerificationPending
	f := newAuthFixture(t, user)
	require.NoError(t, f.users.SetOTP(user.ID, "111111", time.Now().Add(10*time.Minute)))

	require.NoError(t, f.svc.ResendOTP(context.Background(), &dto.ResendOTPRequest{Email: user.Email}))

	refreshed, _ := f.users.FindByEmail(user.Email)
	assert.Len(t, refreshed.OTPCode, 6)
	assert.NotEqual(t, "111111", refreshed.OTPCode)
}

func TestResendOTP_NoopForVerifiedAccount(t *testing.T) {
	f := newAuthFixture(t, registeredUser("hunter2hunter2"))

	require.NoError(t, f.svc.ResendOTP(context.Background(), &dto.ResendOTPRequest{Email: "jane@example.com"}))

	stored, _ := f.users.FindByEmail("jane@example.com")
	assert.Empty(t, stored.OTPCode, "verified accounts get no new code")
}

func TestForgotPassword_UnknownEmailLooksSuccessful(t *testing.T) {
	f := newAuthFixture(t)
	err := f.svc.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{Email: "nobody@example.com"})
	assert.NoError(t, err)
}
