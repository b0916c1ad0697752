package workers

import (
	"context"
	"time"

	"workhub_backend/internal/logger"
	"workhub_backend/internal/models"
	"workhub_backend/internal/repositories"
	"workhub_backend/internal/services"
)

// trialMaxAge force-completes trials regardless of the plan's validity.
const trialMaxAge = 30 * 24 * time.Hour

// SubscriptionWorker runs the daily entitlement sweep: expiring
// subscriptions whose end date has passed, force-completing overlong
// trials, and revoking the entitlements the plan conferred.
type SubscriptionWorker struct {
	subscriptionRepo repositories.SubscriptionRepository
	userRepo         repositories.UserRepository
	notifications    services.NotificationService

	sweepHour int
	lastSweep time.Time
}

func NewSubscriptionWorker(
	subscriptionRepo repositories.SubscriptionRepository,
	userRepo repositories.UserRepository,
	notifications services.NotificationService,
	sweepHour int,
) *SubscriptionWorker {
	return &SubscriptionWorker{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		notifications:    notifications,
		sweepHour:        sweepHour,
	}
}

// Start blocks until ctx is cancelled, running the sweep once per day at
// the configured local hour.
func (w *SubscriptionWorker) Start(ctx context.Context) {
	for {
		next := nextRunAt(time.Now(), w.sweepHour)
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info("subscription worker stopped")
			return
		case <-timer.C:
			report := w.RunSweep(ctx, time.Now())
			logger.Info("subscription sweep finished", "report", report.String())
		}
	}
}

// RunSweep executes one pass. Repeated calls within the same calendar day
// are no-ops, so a restart never doubles the sweep.
func (w *SubscriptionWorker) RunSweep(ctx context.Context, now time.Time) *BatchReport {
	report := &BatchReport{}

	if sameDay(w.lastSweep, now) {
		return report
	}
	w.lastSweep = now

	w.expireDue(ctx, now, report)
	w.completeStaleTrials(ctx, now, report)
	return report
}

func (w *SubscriptionWorker) expireDue(ctx context.Context, now time.Time, report *BatchReport) {
	owners, err := w.subscriptionRepo.ExpireDue(now)
	logger.WorkerLog("subscription", "expire_due", err)
	if err != nil {
		report.Fail(err)
		return
	}

	for _, ownerID := range owners {
		if err := w.revokeEntitlements(ctx, ownerID); err != nil {
			logger.Error("failed to revoke entitlements", "error", err.Error(), "user_id", ownerID)
			report.Fail(err)
			continue
		}
		report.Ok()
	}
}

func (w *SubscriptionWorker) completeStaleTrials(ctx context.Context, now time.Time, report *BatchReport) {
	trials, err := w.subscriptionRepo.FindActiveTrialsStartedBefore(now.Add(-trialMaxAge))
	logger.WorkerLog("subscription", "find_stale_trials", err)
	if err != nil {
		report.Fail(err)
		return
	}

	for i := range trials {
		if err := w.subscriptionRepo.Expire(trials[i].ID); err != nil {
			logger.Error("failed to expire stale trial", "error", err.Error(), "subscription_id", trials[i].ID)
			report.Fail(err)
			continue
		}
		if err := w.revokeEntitlements(ctx, trials[i].UserID); err != nil {
			logger.Error("failed to revoke trial entitlements", "error", err.Error(), "user_id", trials[i].UserID)
			report.Fail(err)
			continue
		}
		report.Ok()
	}
}

// revokeEntitlements clears the flags the expired plan conferred and tells
// the owner. Unspent quota counters are kept; without an active plan they
// can no longer grow.
func (w *SubscriptionWorker) revokeEntitlements(ctx context.Context, userID string) error {
	user, err := w.userRepo.FindByID(userID)
	if err != nil {
		return err
	}

	switch user.Role {
	case models.UserRoleEmployer:
		if err := w.userRepo.ClearEmployerSubscription(userID); err != nil {
			return err
		}
	case models.UserRoleEmployee:
		if err := w.userRepo.SetEmployeeVerified(userID, false); err != nil {
			return err
		}
	}

	if err := w.notifications.Notify(ctx, services.NotifyInput{
		UserID:   userID,
		Role:     user.Role,
		Type:     repositories.NotificationTypeSubscriptionExpired,
		Title:    "Subscription expired",
		Subtitle: "Your plan has ended. Renew to keep your benefits.",
	}); err != nil {
		logger.Error("failed to send expiry notification", "error", err.Error(), "user_id", userID)
	}
	return nil
}

// nextRunAt is the next occurrence of the given local hour strictly after now.
func nextRunAt(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
