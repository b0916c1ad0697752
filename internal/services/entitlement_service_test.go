package services

import (
	"context"
	"testing"
	"time"

	"workhub_backend/internal/models"
	"workhub_backend/internal/services/dto"
	"workhub_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntitlementFixture(t *testing.T, users []*models.User, plans []*models.Plan) (EntitlementService, *fakeUserRepo, *fakeSubscriptionRepo, *fakeGateway) {
	t.Helper()
	userRepo := newFakeUserRepo(users...)
	subRepo := newFakeSubscriptionRepo()
	planRepo := newFakePlanRepo(plans...)
	gateway := &fakeGateway{validSignature: true}
	svc := NewEntitlementService(subRepo, planRepo, userRepo, gateway, &fakeNotificationService{})
	return svc, userRepo, subRepo, gateway
}

func employeeUser() *models.User {
	return &models.User{
		BaseModel: models.BaseModel{ID: "emp-1"},
		Email:     "jane@example.com",
		Name:      "Jane",
		Role:      models.UserRoleEmployee,
		Status:    models.VerificationVerified,
	}
}

func employerUser() *models.User {
	return &models.User{
		BaseModel: models.BaseModel{ID: "comp-1"},
		Email:     "hr@acme.example",
		Name:      "Acme HR",
		Role:      models.UserRoleEmployer,
		Status:    models.VerificationApproved,
	}
}

func freeEmployeePlan() *models.Plan {
	return &models.Plan{
		BaseModel:    models.BaseModel{ID: "plan-free"},
		Name:         "Starter",
		Audience:     models.PlanAudienceEmployee,
		Price:        0,
		ValidityDays: 7,
		IsActive:     true,
	}
}

func paidEmployerPlan() *models.Plan {
	return &models.Plan{
		BaseModel:       models.BaseModel{ID: "plan-paid"},
		Name:            "Growth",
		Audience:        models.PlanAudienceEmployer,
		Price:           4999,
		ValidityDays:    30,
		IsActive:        true,
		ProfileViews:    100,
		ResumeDownloads: 50,
		JobPostingLimit: 10,
	}
}

func TestActivateFreePlan_GrantsTrialOnce(t *testing.T) {
	user := employeeUser()
	svc, userRepo, _, _ := newEntitlementFixture(t, []*models.User{user}, []*models.Plan{freeEmployeePlan()})

	resp, err := svc.ActivateFreePlan(context.Background(), user.ID, "plan-free")
	require.NoError(t, err)
	assert.True(t, resp.IsTrial)
	assert.Equal(t, "Starter", resp.PlanName)
	assert.True(t, userRepo.verified[user.ID], "the trial should grant the verified badge")

	// The lifetime trial is spent, also after the first one expires.
	_, err = svc.ActivateFreePlan(context.Background(), user.ID, "plan-free")
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidState, appErr.Code)
}

func TestActivateFreePlan_RejectsPaidPlan(t *testing.T) {
	user := employerUser()
	svc, _, _, _ := newEntitlementFixture(t, []*models.User{user}, []*models.Plan{paidEmployerPlan()})

	_, err := svc.ActivateFreePlan(context.Background(), user.ID, "plan-paid")
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidState, appErr.Code)
}

func TestActivateFreePlan_RejectsWrongAudience(t *testing.T) {
	user := employeeUser()
	plan := paidEmployerPlan()
	plan.Price = 0 // free, but employer-facing
	svc, _, _, _ := newEntitlementFixture(t, []*models.User{user}, []*models.Plan{plan})

	_, err := svc.ActivateFreePlan(context.Background(), user.ID, plan.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidUserRole)
}

func TestCheckout_CreatesPendingOrder(t *testing.T) {
	user := employerUser()
	svc, _, subRepo, _ := newEntitlementFixture(t, []*models.User{user}, []*models.Plan{paidEmployerPlan()})

	resp, err := svc.Checkout(context.Background(), user.ID, "plan-paid")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.OrderID)
	assert.NotEmpty(t, resp.PaymentURL)
	assert.Equal(t, 4999.0, resp.Amount)

	order, err := subRepo.FindOrderByOrderID(resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, order.Status)
	assert.Equal(t, user.ID, order.UserID)
}

func TestHandlePaymentCallback_ActivatesAndGrantsQuota(t *testing.T) {
	user := employerUser()
	svc, userRepo, subRepo, _ := newEntitlementFixture(t, []*models.User{user}, []*models.Plan{paidEmployerPlan()})

	checkout, err := svc.Checkout(context.Background(), user.ID, "plan-paid")
	require.NoError(t, err)

	err = svc.HandlePaymentCallback(context.Background(), &dto.PaymentCallbackRequest{
		OutSum:    4999,
		InvID:     checkout.OrderID,
		Signature: "deadbeef",
	})
	require.NoError(t, err)

	sub, err := subRepo.FindActiveByUser(user.ID)
	require.NoError(t, err)
	assert.False(t, sub.IsTrial)
	assert.Contains(t, userRepo.granted, user.ID)

	stored, _ := userRepo.FindByID(user.ID)
	assert.Equal(t, 10, stored.JobPostingLimit)
	assert.True(t, stored.HasSubscription)
}

func TestHandlePaymentCallback_RejectsBadSignature(t *testing.T) {
	user := employerUser()
	svc, _, subRepo, gateway := newEntitlementFixture(t, []*models.User{user}, []*models.Plan{paidEmployerPlan()})

	checkout, err := svc.Checkout(context.Background(), user.ID, "plan-paid")
	require.NoError(t, err)

	gateway.validSignature = false
	err = svc.HandlePaymentCallback(context.Background(), &dto.PaymentCallbackRequest{
		OutSum:    4999,
		InvID:     checkout.OrderID,
		Signature: "forged",
	})
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)

	_, err = subRepo.FindActiveByUser(user.ID)
	assert.Error(t, err, "a rejected callback must not activate anything")
}

func TestHandlePaymentCallback_RejectsAmountMismatch(t *testing.T) {
	user := employerUser()
	svc, _, _, _ := newEntitlementFixture(t, []*models.User{user}, []*models.Plan{paidEmployerPlan()})

	checkout, err := svc.Checkout(context.Background(), user.ID, "plan-paid")
	require.NoError(t, err)

	err = svc.HandlePaymentCallback(context.Background(), &dto.PaymentCallbackRequest{
		OutSum:    1,
		InvID:     checkout.OrderID,
		Signature: "deadbeef",
	})
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidState, appErr.Code)
}

func TestHandlePaymentCallback_ReplayIsAcknowledgedOnce(t *testing.T) {
	user := employerUser()
	svc, _, subRepo, _ := newEntitlementFixture(t, []*models.User{user}, []*models.Plan{paidEmployerPlan()})

	checkout, err := svc.Checkout(context.Background(), user.ID, "plan-paid")
	require.NoError(t, err)

	callback := &dto.PaymentCallbackRequest{OutSum: 4999, InvID: checkout.OrderID, Signature: "deadbeef"}
	require.NoError(t, svc.HandlePaymentCallback(context.Background(), callback))
	require.NoError(t, svc.HandlePaymentCallback(context.Background(), callback), "a replayed callback is acknowledged")

	history, err := subRepo.FindHistoryByUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1, "the replay must not activate a second subscription")
}

func TestActivate_ExtensionContinuesFromOldEndDate(t *testing.T) {
	user := employerUser()
	svc, _, subRepo, _ := newEntitlementFixture(t, []*models.User{user}, []*models.Plan{paidEmployerPlan()})

	first, err := svc.Checkout(context.Background(), user.ID, "plan-paid")
	require.NoError(t, err)
	require.NoError(t, svc.HandlePaymentCallback(context.Background(), &dto.PaymentCallbackRequest{
		OutSum: 4999, InvID: first.OrderID, Signature: "sig",
	}))

	active, err := subRepo.FindActiveByUser(user.ID)
	require.NoError(t, err)
	firstEnd := active.EndDate

	second, err := svc.Checkout(context.Background(), user.ID, "plan-paid")
	require.NoError(t, err)
	require.NoError(t, svc.HandlePaymentCallback(context.Background(), &dto.PaymentCallbackRequest{
		OutSum: 4999, InvID: second.OrderID, Signature: "sig",
	}))

	history, err := subRepo.FindHistoryByUser(user.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	active, err = subRepo.FindActiveByUser(user.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, firstEnd.AddDate(0, 0, 30), active.EndDate, time.Second,
		"the extension must continue from the old end date, not from now")

	var expired int
	for _, s := range history {
		if s.Status == models.SubscriptionStatusExpired {
			expired++
		}
	}
	assert.Equal(t, 1, expired, "only one subscription may stay active")
}

func TestCurrent_ReturnsNotFoundWithoutSubscription(t *testing.T) {
	user := employeeUser()
	svc, _, _, _ := newEntitlementFixture(t, []*models.User{user}, []*models.Plan{freeEmployeePlan()})

	_, err := svc.Current(user.ID)
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func freeEmployerPlan() *models.Plan {
	return &models.Plan{
		BaseModel:       models.BaseModel{ID: "plan-free-emp"},
		Name:            "Employer Starter",
		Audience:        models.PlanAudienceEmployer,
		Price:           0,
		ValidityDays:    7,
		IsActive:        true,
		JobPostingLimit: 3,
	}
}

func TestActivateFreePlan_RejectedWhilePaidPlanRuns(t *testing.T) {
	user := employerUser()
	svc, _, subRepo, _ := newEntitlementFixture(t, []*models.User{user}, []*models.Plan{freeEmployerPlan()})

	require.NoError(t, subRepo.Create(&models.Subscription{
		UserID:    user.ID,
		PlanID:    "plan-paid",
		IsTrial:   false,
		StartDate: time.Now().Add(-10 * 24 * time.Hour),
		EndDate:   time.Now().Add(20 * 24 * time.Hour),
		Status:    models.SubscriptionStatusActive,
	}))

	_, err := svc.ActivateFreePlan(context.Background(), user.ID, "plan-free-emp")
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidState, appErr.Code, "a trial cannot stack onto a running paid plan")

	history, _ := subRepo.FindHistoryByUser(user.ID)
	assert.Len(t, history, 1, "no trial row was created")
}

func TestActivateFreePlan_AllowedAfterPaidPlanEnds(t *testing.T) {
	user := employerUser()
	svc, _, subRepo, _ := newEntitlementFixture(t, []*models.User{user}, []*models.Plan{freeEmployerPlan()})

	require.NoError(t, subRepo.Create(&models.Subscription{
		UserID:    user.ID,
		PlanID:    "plan-paid",
		IsTrial:   false,
		StartDate: time.Now().Add(-40 * 24 * time.Hour),
		EndDate:   time.Now().Add(-10 * 24 * time.Hour),
		Status:    models.SubscriptionStatusExpired,
	}))

	resp, err := svc.ActivateFreePlan(context.Background(), user.ID, "plan-free-emp")
	require.NoError(t, err)
	assert.True(t, resp.IsTrial)
}

func TestActivate_RetiredPlanIsNotFound(t *testing.T) {
	user := employerUser()
	retired := freeEmployerPlan()
	retired.IsActive = false
	svc, _, _, _ := newEntitlementFixture(t, []*models.User{user}, []*models.Plan{retired})

	_, err := svc.ActivateFreePlan(context.Background(), user.ID, retired.ID)
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code, "retired plans are indistinguishable from missing ones")
}
