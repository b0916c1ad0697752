package workers

import (
	"context"
	"fmt"
	"time"

	"workhub_backend/internal/logger"
	"workhub_backend/internal/models"
	"workhub_backend/internal/repositories"
	"workhub_backend/internal/services"
)

// notificationRetention bounds how long read-or-stale notifications are
// kept before the daily cleanup removes them.
const notificationRetention = 90 * 24 * time.Hour

// ReminderWorker produces the time-driven notifications: upcoming
// interviews (hourly) and deadlines, events, expiring subscriptions and the
// employer digest (daily).
type ReminderWorker struct {
	applicationRepo  repositories.ApplicationRepository
	jobRepo          repositories.JobRepository
	eventRepo        repositories.EventRepository
	subscriptionRepo repositories.SubscriptionRepository
	notificationRepo repositories.NotificationRepository
	notifications    services.NotificationService

	sweepHour    int
	lastDailyRun time.Time
}

func NewReminderWorker(
	applicationRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	eventRepo repositories.EventRepository,
	subscriptionRepo repositories.SubscriptionRepository,
	notificationRepo repositories.NotificationRepository,
	notifications services.NotificationService,
	sweepHour int,
) *ReminderWorker {
	return &ReminderWorker{
		applicationRepo:  applicationRepo,
		jobRepo:          jobRepo,
		eventRepo:        eventRepo,
		subscriptionRepo: subscriptionRepo,
		notificationRepo: notificationRepo,
		notifications:    notifications,
		sweepHour:        sweepHour,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	go w.hourlyLoop(ctx)
	go w.dailyLoop(ctx)
}

func (w *ReminderWorker) hourlyLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("reminder worker (hourly) stopped")
			return
		case <-ticker.C:
			report := w.RunHourly(ctx, time.Now())
			logger.Info("hourly reminder sweep finished", "report", report.String())
		}
	}
}

func (w *ReminderWorker) dailyLoop(ctx context.Context) {
	for {
		next := nextRunAt(time.Now(), w.sweepHour)
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info("reminder worker (daily) stopped")
			return
		case <-timer.C:
			report := w.RunDaily(ctx, time.Now())
			logger.Info("daily reminder sweep finished", "report", report.String())
		}
	}
}

// RunHourly reminds applicants of interviews starting within the next hour.
func (w *ReminderWorker) RunHourly(ctx context.Context, now time.Time) *BatchReport {
	report := &BatchReport{}

	interviews, err := w.applicationRepo.FindInterviewsBetween(now, now.Add(time.Hour))
	logger.WorkerLog("reminder", "find_upcoming_interviews", err)
	if err != nil {
		report.Fail(err)
		return report
	}

	for i := range interviews {
		app := &interviews[i]
		err := w.notifications.Notify(ctx, services.NotifyInput{
			UserID:    app.ApplicantID,
			Role:      models.UserRoleEmployee,
			Type:      repositories.NotificationTypeInterviewReminder,
			Title:     "Interview soon",
			Subtitle:  fmt.Sprintf("Your interview starts at %s", app.InterviewDate.Format("15:04")),
			RelatedID: app.ID,
		})
		if err != nil {
			report.Fail(err)
			continue
		}

		// Both sides of the table get the reminder.
		if job, jobErr := w.jobRepo.FindByID(app.JobID); jobErr == nil {
			err = w.notifications.Notify(ctx, services.NotifyInput{
				UserID:    job.EmployerID,
				Role:      models.UserRoleEmployer,
				Type:      repositories.NotificationTypeInterviewReminder,
				Title:     "Interview soon",
				Subtitle:  fmt.Sprintf("Interview for %s starts at %s", job.Title, app.InterviewDate.Format("15:04")),
				RelatedID: app.ID,
			})
			if err != nil {
				report.Fail(err)
				continue
			}
		} else {
			logger.Error("failed to load job for interview reminder", "error", jobErr.Error(), "application_id", app.ID)
		}
		report.Ok()
	}
	return report
}

// RunDaily is the once-a-day batch. Repeated calls within the same day are
// no-ops.
func (w *ReminderWorker) RunDaily(ctx context.Context, now time.Time) *BatchReport {
	report := &BatchReport{}

	if sameDay(w.lastDailyRun, now) {
		return report
	}
	w.lastDailyRun = now

	w.remindDeadlines(ctx, now, report)
	w.remindEvents(ctx, now, report)
	w.remindExpiring(ctx, now, report)
	w.sendEmployerDigest(ctx, now, report)
	w.cleanupNotifications(now, report)
	return report
}

func (w *ReminderWorker) remindDeadlines(ctx context.Context, now time.Time, report *BatchReport) {
	jobs, err := w.jobRepo.FindWithDeadlineBetween(now, now.Add(24*time.Hour))
	logger.WorkerLog("reminder", "find_closing_jobs", err)
	if err != nil {
		report.Fail(err)
		return
	}

	for i := range jobs {
		job := &jobs[i]
		err := w.notifications.Notify(ctx, services.NotifyInput{
			UserID:    job.EmployerID,
			Role:      models.UserRoleEmployer,
			Type:      repositories.NotificationTypeDeadlineReminder,
			Title:     "Job closing soon",
			Subtitle:  fmt.Sprintf("Applications for %s close within 24 hours", job.Title),
			RelatedID: job.ID,
		})
		if err != nil {
			report.Fail(err)
			continue
		}
		report.Ok()
	}
}

func (w *ReminderWorker) remindEvents(ctx context.Context, now time.Time, report *BatchReport) {
	events, err := w.eventRepo.FindStartingBetween(now, now.Add(24*time.Hour))
	logger.WorkerLog("reminder", "find_starting_events", err)
	if err != nil {
		report.Fail(err)
		return
	}

	for i := range events {
		event := &events[i]
		regs, err := w.eventRepo.ListRegistrations(event.ID)
		if err != nil {
			logger.Error("failed to list event registrations", "error", err.Error(), "event_id", event.ID)
			report.Fail(err)
			continue
		}
		for j := range regs {
			err := w.notifications.Notify(ctx, services.NotifyInput{
				UserID:    regs[j].UserID,
				Role:      regs[j].UserRole,
				Type:      repositories.NotificationTypeEventReminder,
				Title:     "Event tomorrow",
				Subtitle:  fmt.Sprintf("%s starts at %s", event.Title, event.StartsAt.Format("2 Jan 15:04")),
				RelatedID: event.ID,
			})
			if err != nil {
				report.Fail(err)
				continue
			}
			report.Ok()
		}
	}
}

func (w *ReminderWorker) remindExpiring(ctx context.Context, now time.Time, report *BatchReport) {
	subs, err := w.subscriptionRepo.FindExpiringBetween(now, now.Add(7*24*time.Hour))
	logger.WorkerLog("reminder", "find_expiring_subscriptions", err)
	if err != nil {
		report.Fail(err)
		return
	}

	for i := range subs {
		sub := &subs[i]
		role := models.UserRoleEmployer
		if snap, err := sub.DecodeSnapshot(); err == nil && snap.Audience == models.PlanAudienceEmployee {
			role = models.UserRoleEmployee
		}
		err := w.notifications.Notify(ctx, services.NotifyInput{
			UserID:    sub.UserID,
			Role:      role,
			Type:      repositories.NotificationTypeExpiringSoon,
			Title:     "Subscription expiring",
			Subtitle:  fmt.Sprintf("Your plan ends on %s", sub.EndDate.Format("2 Jan 2006")),
			RelatedID: sub.ID,
		})
		if err != nil {
			report.Fail(err)
			continue
		}
		report.Ok()
	}
}

// sendEmployerDigest groups yesterday's applications per employer into one
// notification instead of a ping per application.
func (w *ReminderWorker) sendEmployerDigest(ctx context.Context, now time.Time, report *BatchReport) {
	counts, err := w.applicationRepo.CountByEmployerAndStatusSince(now.Add(-24 * time.Hour))
	logger.WorkerLog("reminder", "collect_application_digest", err)
	if err != nil {
		report.Fail(err)
		return
	}

	totals := make(map[string]int64)
	for _, c := range counts {
		totals[c.EmployerID] += c.Count
	}

	for employerID, total := range totals {
		err := w.notifications.Notify(ctx, services.NotifyInput{
			UserID:   employerID,
			Role:     models.UserRoleEmployer,
			Type:     repositories.NotificationTypeDailyDigest,
			Title:    "Daily applications digest",
			Subtitle: fmt.Sprintf("You received %d applications in the last 24 hours", total),
			Data:     map[string]any{"total": total},
		})
		if err != nil {
			report.Fail(err)
			continue
		}
		report.Ok()
	}
}

func (w *ReminderWorker) cleanupNotifications(now time.Time, report *BatchReport) {
	deleted, err := w.notificationRepo.DeleteOlderThan(now.Add(-notificationRetention))
	logger.WorkerLog("reminder", "cleanup_notifications", err)
	if err != nil {
		report.Fail(err)
		return
	}
	if deleted > 0 {
		logger.Info("old notifications removed", "count", deleted)
	}
	report.Ok()
}
