package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"workhub_backend/internal/logger"
	"workhub_backend/internal/models"
	"workhub_backend/internal/payments"
	"workhub_backend/internal/repositories"
	"workhub_backend/internal/services/dto"
	"workhub_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

// EntitlementService owns the subscription lifecycle: trials, paid
// checkout, activation, and the entitlements an active plan confers
// (employer quota counters, employee verified badge).
type EntitlementService interface {
	// ActivateFreePlan starts a trial. Each account gets at most one trial
	// over its lifetime; paid plans activate only through the payment
	// callback.
	ActivateFreePlan(ctx context.Context, userID, planID string) (*dto.SubscriptionResponse, error)

	// Checkout creates a hosted-checkout order for a paid plan.
	Checkout(ctx context.Context, userID, planID string) (*dto.CheckoutResponse, error)

	// HandlePaymentCallback verifies the gateway signature and activates
	// the purchased plan. Replayed callbacks are acknowledged without
	// activating twice.
	HandlePaymentCallback(ctx context.Context, req *dto.PaymentCallbackRequest) error

	Current(userID string) (*dto.SubscriptionResponse, error)
	History(userID string) ([]dto.SubscriptionResponse, error)
}

type entitlementService struct {
	subscriptionRepo repositories.SubscriptionRepository
	planRepo         repositories.PlanRepository
	userRepo         repositories.UserRepository
	gateway          payments.Gateway
	notifications    NotificationService
}

func NewEntitlementService(
	subscriptionRepo repositories.SubscriptionRepository,
	planRepo repositories.PlanRepository,
	userRepo repositories.UserRepository,
	gateway payments.Gateway,
	notifications NotificationService,
) EntitlementService {
	return &entitlementService{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		userRepo:         userRepo,
		gateway:          gateway,
		notifications:    notifications,
	}
}

func (s *entitlementService) ActivateFreePlan(ctx context.Context, userID, planID string) (*dto.SubscriptionResponse, error) {
	user, plan, err := s.loadUserAndPlan(userID, planID)
	if err != nil {
		return nil, err
	}
	if !plan.IsFree() {
		return nil, apperrors.ErrInvalidState("subscription", "This plan is paid, start a checkout instead")
	}

	history, err := s.subscriptionRepo.FindHistoryByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	for i := range history {
		if history[i].IsTrial {
			return nil, apperrors.ErrInvalidState("subscription", "The free trial has already been used on this account")
		}
	}

	// A trial cannot stack onto a live paid plan; it would ride on the
	// paid end date.
	if current, err := s.subscriptionRepo.FindActiveByUser(userID); err == nil {
		if !current.IsTrial && current.EndDate.After(time.Now()) {
			return nil, apperrors.ErrInvalidState("subscription", "A paid plan is already active on this account")
		}
	} else if !apperrors.Is(err, repositories.ErrSubscriptionNotFound) {
		return nil, apperrors.InternalError(err)
	}

	sub, err := s.activate(ctx, user, plan)
	if err != nil {
		return nil, err
	}
	resp := dto.FromSubscription(sub, time.Now())
	return &resp, nil
}

func (s *entitlementService) Checkout(ctx context.Context, userID, planID string) (*dto.CheckoutResponse, error) {
	user, plan, err := s.loadUserAndPlan(userID, planID)
	if err != nil {
		return nil, err
	}
	if plan.IsFree() {
		return nil, apperrors.ErrInvalidState("subscription", "Free plans are activated directly")
	}

	order, err := s.gateway.CreateOrder(plan.Price, fmt.Sprintf("Plan %q", plan.Name), user.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	record := &models.PaymentOrder{
		UserID:  user.ID,
		PlanID:  plan.ID,
		OrderID: order.OrderID,
		Amount:  order.Amount,
		Status:  models.PaymentStatusPending,
	}
	if err := s.subscriptionRepo.CreateOrder(record); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "checkout started", "user_id", user.ID, "plan_id", plan.ID, "order_id", order.OrderID)
	return &dto.CheckoutResponse{
		OrderID:    order.OrderID,
		PaymentURL: order.PaymentURL,
		Amount:     order.Amount,
		Currency:   order.Currency,
	}, nil
}

func (s *entitlementService) HandlePaymentCallback(ctx context.Context, req *dto.PaymentCallbackRequest) error {
	if !s.gateway.VerifyResultSignature(req.OutSum, req.InvID, req.Signature) {
		return apperrors.NewUnauthorizedError("Invalid payment signature")
	}

	order, err := s.subscriptionRepo.FindOrderByOrderID(req.InvID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrOrderNotFound) {
			return apperrors.ErrNotFound(err, "payment")
		}
		return apperrors.InternalError(err)
	}
	if order.Amount != req.OutSum {
		return apperrors.ErrInvalidState("payment", "Paid amount does not match the order")
	}

	// The pending guard makes the paid transition happen at most once, so a
	// replayed callback is acknowledged without double activation.
	if err := s.subscriptionRepo.MarkOrderPaid(order.OrderID, time.Now()); err != nil {
		if apperrors.Is(err, repositories.ErrOrderNotFound) && order.Status == models.PaymentStatusPaid {
			logger.CtxInfo(ctx, "payment callback replayed", "order_id", order.OrderID)
			return nil
		}
		return apperrors.InternalError(err)
	}

	user, plan, err := s.loadUserAndPlan(order.UserID, order.PlanID)
	if err != nil {
		return err
	}
	if _, err := s.activate(ctx, user, plan); err != nil {
		return err
	}

	logger.CtxInfo(ctx, "payment confirmed", "order_id", order.OrderID, "user_id", order.UserID)
	return nil
}

func (s *entitlementService) Current(userID string) (*dto.SubscriptionResponse, error) {
	sub, err := s.subscriptionRepo.FindActiveByUser(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrSubscriptionNotFound) {
			return nil, apperrors.ErrNotFound(err, "subscription")
		}
		return nil, apperrors.InternalError(err)
	}
	resp := dto.FromSubscription(sub, time.Now())
	return &resp, nil
}

func (s *entitlementService) History(userID string) ([]dto.SubscriptionResponse, error) {
	subs, err := s.subscriptionRepo.FindHistoryByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	now := time.Now()
	resp := make([]dto.SubscriptionResponse, 0, len(subs))
	for i := range subs {
		resp = append(resp, dto.FromSubscription(&subs[i], now))
	}
	return resp, nil
}

// activate freezes the plan into a snapshot, creates the subscription row
// and applies the plan's entitlements. An already-active subscription is
// extended: the old row is expired and the new end date continues from the
// old one, so no paid-for days are lost.
func (s *entitlementService) activate(ctx context.Context, user *models.User, plan *models.Plan) (*models.Subscription, error) {
	now := time.Now()
	endBase := now
	if current, err := s.subscriptionRepo.FindActiveByUser(user.ID); err == nil {
		if current.EndDate.After(now) {
			endBase = current.EndDate
		}
		if err := s.subscriptionRepo.Expire(current.ID); err != nil {
			return nil, apperrors.InternalError(err)
		}
	} else if !apperrors.Is(err, repositories.ErrSubscriptionNotFound) {
		return nil, apperrors.InternalError(err)
	}

	snapshot := models.PlanSnapshot{
		PlanID:          plan.ID,
		Name:            plan.Name,
		Audience:        plan.Audience,
		Price:           plan.Price,
		Currency:        plan.Currency,
		ValidityDays:    plan.ValidityDays,
		DailyLimit:      plan.DailyLimit,
		ProfileViews:    plan.ProfileViews,
		ResumeDownloads: plan.ResumeDownloads,
		JobPostingLimit: plan.JobPostingLimit,
	}
	if len(plan.Features) > 0 {
		if err := json.Unmarshal(plan.Features, &snapshot.Features); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}
	raw, err := json.Marshal(&snapshot)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	sub := &models.Subscription{
		UserID:    user.ID,
		PlanID:    plan.ID,
		Snapshot:  datatypes.JSON(raw),
		IsTrial:   plan.IsFree(),
		StartDate: now,
		EndDate:   endBase.AddDate(0, 0, plan.ValidityDays),
		Status:    models.SubscriptionStatusActive,
	}
	if err := s.subscriptionRepo.Create(sub); err != nil {
		return nil, apperrors.InternalError(err)
	}

	switch plan.Audience {
	case models.PlanAudienceEmployer:
		if err := s.userRepo.GrantEmployerQuota(user.ID, &snapshot); err != nil {
			return nil, apperrors.InternalError(err)
		}
	case models.PlanAudienceEmployee:
		if err := s.userRepo.SetEmployeeVerified(user.ID, true); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	go func() {
		err := s.notifications.Notify(context.Background(), NotifyInput{
			UserID:    user.ID,
			Role:      user.Role,
			Type:      repositories.NotificationTypePlanUpgrade,
			Title:     "Plan activated",
			Subtitle:  fmt.Sprintf("Your %s plan is now active until %s", plan.Name, sub.EndDate.Format("2 Jan 2006")),
			RelatedID: sub.ID,
		})
		if err != nil {
			logger.Error("failed to send plan activation notification", "error", err.Error(), "user_id", user.ID)
		}
	}()

	logger.CtxInfo(ctx, "subscription activated",
		"user_id", user.ID,
		"plan_id", plan.ID,
		"trial", sub.IsTrial,
		"end_date", sub.EndDate,
	)
	return sub, nil
}

func (s *entitlementService) loadUserAndPlan(userID, planID string) (*models.User, *models.Plan, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, nil, apperrors.ErrNotFound(err, "user")
		}
		return nil, nil, apperrors.InternalError(err)
	}

	plan, err := s.planRepo.FindByID(planID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPlanNotFound) {
			return nil, nil, apperrors.ErrNotFound(err, "plan")
		}
		return nil, nil, apperrors.InternalError(err)
	}
	// Retired plans look the same as missing ones to callers.
	if !plan.IsActive {
		return nil, nil, apperrors.ErrNotFound(repositories.ErrPlanNotFound, "plan")
	}

	switch plan.Audience {
	case models.PlanAudienceEmployer:
		if user.Role != models.UserRoleEmployer {
			return nil, nil, apperrors.ErrInvalidUserRole
		}
	case models.PlanAudienceEmployee:
		if user.Role != models.UserRoleEmployee {
			return nil, nil, apperrors.ErrInvalidUserRole
		}
	}
	return user, plan, nil
}
