package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"workhub_backend/internal/models"
	"workhub_backend/internal/repositories"
	"workhub_backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSubscriptionRepo struct {
	repositories.SubscriptionRepository
	dueOwners   []string
	staleTrials []models.Subscription
	expiring    []models.Subscription
	expired     []string
}

func (r *stubSubscriptionRepo) ExpireDue(now time.Time) ([]string, error) {
	return r.dueOwners, nil
}

func (r *stubSubscriptionRepo) FindActiveTrialsStartedBefore(cutoff time.Time) ([]models.Subscription, error) {
	return r.staleTrials, nil
}

func (r *stubSubscriptionRepo) FindExpiringBetween(from, to time.Time) ([]models.Subscription, error) {
	return r.expiring, nil
}

func (r *stubSubscriptionRepo) Expire(id string) error {
	r.expired = append(r.expired, id)
	return nil
}

type stubUserRepo struct {
	repositories.UserRepository
	users    map[string]*models.User
	cleared  []string
	unbadged []string
}

func (r *stubUserRepo) FindByID(id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (r *stubUserRepo) ClearEmployerSubscription(id string) error {
	r.cleared = append(r.cleared, id)
	return nil
}

func (r *stubUserRepo) SetEmployeeVerified(id string, verified bool) error {
	if !verified {
		r.unbadged = append(r.unbadged, id)
	}
	return nil
}

type recordingNotifier struct {
	services.NotificationService
	mu     sync.Mutex
	inputs []services.NotifyInput
}

func (n *recordingNotifier) Notify(ctx context.Context, input services.NotifyInput) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.inputs = append(n.inputs, input)
	return nil
}

func (n *recordingNotifier) byType(t string) []services.NotifyInput {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []services.NotifyInput
	for _, in := range n.inputs {
		if in.Type == t {
			out = append(out, in)
		}
	}
	return out
}

type stubApplicationRepo struct {
	repositories.ApplicationRepository
	interviews []models.Application
	digest     []repositories.EmployerStatusCount
}

func (r *stubApplicationRepo) FindInterviewsBetween(from, to time.Time) ([]models.Application, error) {
	return r.interviews, nil
}

func (r *stubApplicationRepo) CountByEmployerAndStatusSince(since time.Time) ([]repositories.EmployerStatusCount, error) {
	return r.digest, nil
}

type stubJobRepo struct {
	repositories.JobRepository
	closing []models.Job
	byID    map[string]*models.Job
}

func (r *stubJobRepo) FindWithDeadlineBetween(from, to time.Time) ([]models.Job, error) {
	return r.closing, nil
}

func (r *stubJobRepo) FindByID(id string) (*models.Job, error) {
	j, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrJobNotFound
	}
	return j, nil
}

type stubEventRepo struct {
	repositories.EventRepository
	starting      []models.Event
	registrations map[string][]models.EventRegistration
}

func (r *stubEventRepo) FindStartingBetween(from, to time.Time) ([]models.Event, error) {
	return r.starting, nil
}

func (r *stubEventRepo) ListRegistrations(eventID string) ([]models.EventRegistration, error) {
	return r.registrations[eventID], nil
}

type stubNotificationRepo struct {
	repositories.NotificationRepository
	deleted int64
}

func (r *stubNotificationRepo) DeleteOlderThan(cutoff time.Time) (int64, error) {
	return r.deleted, nil
}

func TestNextRunAt(t *testing.T) {
	loc := time.UTC
	morning := time.Date(2026, 3, 10, 0, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 3, 10, 1, 0, 0, 0, loc), nextRunAt(morning, 1))

	afternoon := time.Date(2026, 3, 10, 14, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 3, 11, 1, 0, 0, 0, loc), nextRunAt(afternoon, 1), "past hours roll to tomorrow")

	exact := time.Date(2026, 3, 10, 1, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 3, 11, 1, 0, 0, 0, loc), nextRunAt(exact, 1), "the boundary is strictly after now")
}

func TestSubscriptionSweep_RevokesByRole(t *testing.T) {
	subs := &stubSubscriptionRepo{dueOwners: []string{"comp-1", "emp-1"}}
	users := &stubUserRepo{users: map[string]*models.User{
		"comp-1": {BaseModel: models.BaseModel{ID: "comp-1"}, Role: models.UserRoleEmployer},
		"emp-1":  {BaseModel: models.BaseModel{ID: "emp-1"}, Role: models.UserRoleEmployee},
	}}
	notifier := &recordingNotifier{}
	w := NewSubscriptionWorker(subs, users, notifier, 1)

	report := w.RunSweep(context.Background(), time.Now())
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 0, report.Failed)

	assert.Equal(t, []string{"comp-1"}, users.cleared, "employers lose the subscription flag")
	assert.Equal(t, []string{"emp-1"}, users.unbadged, "employees lose the verified badge")
	assert.Len(t, notifier.byType(repositories.NotificationTypeSubscriptionExpired), 2)
}

func TestSubscriptionSweep_CollectsFailuresAndContinues(t *testing.T) {
	subs := &stubSubscriptionRepo{dueOwners: []string{"ghost", "comp-1"}}
	users := &stubUserRepo{users: map[string]*models.User{
		"comp-1": {BaseModel: models.BaseModel{ID: "comp-1"}, Role: models.UserRoleEmployer},
	}}
	w := NewSubscriptionWorker(subs, users, &recordingNotifier{}, 1)

	report := w.RunSweep(context.Background(), time.Now())
	assert.Equal(t, 1, report.Failed, "the missing account is counted, not fatal")
	assert.Equal(t, 1, report.Processed, "the row after the bad one still runs")
	assert.Len(t, report.Errors, 1)
	assert.Equal(t, []string{"comp-1"}, users.cleared)
}

func TestSubscriptionSweep_CompletesStaleTrials(t *testing.T) {
	trial := models.Subscription{
		BaseModel: models.BaseModel{ID: "sub-1"},
		UserID:    "emp-1",
		IsTrial:   true,
	}
	subs := &stubSubscriptionRepo{staleTrials: []models.Subscription{trial}}
	users := &stubUserRepo{users: map[string]*models.User{
		"emp-1": {BaseModel: models.BaseModel{ID: "emp-1"}, Role: models.UserRoleEmployee},
	}}
	w := NewSubscriptionWorker(subs, users, &recordingNotifier{}, 1)

	report := w.RunSweep(context.Background(), time.Now())
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, []string{"sub-1"}, subs.expired)
	assert.Equal(t, []string{"emp-1"}, users.unbadged)
}

func TestSubscriptionSweep_OncePerDay(t *testing.T) {
	subs := &stubSubscriptionRepo{dueOwners: []string{"comp-1"}}
	users := &stubUserRepo{users: map[string]*models.User{
		"comp-1": {BaseModel: models.BaseModel{ID: "comp-1"}, Role: models.UserRoleEmployer},
	}}
	w := NewSubscriptionWorker(subs, users, &recordingNotifier{}, 1)

	now := time.Now()
	first := w.RunSweep(context.Background(), now)
	require.Equal(t, 1, first.Processed)

	second := w.RunSweep(context.Background(), now.Add(time.Minute))
	assert.Equal(t, 0, second.Processed, "a restart inside the same day does not repeat the sweep")
	assert.Len(t, users.cleared, 1)
}

func newReminderWorker(apps *stubApplicationRepo, jobs *stubJobRepo, events *stubEventRepo, subs *stubSubscriptionRepo, notifier *recordingNotifier) *ReminderWorker {
	if apps == nil {
		apps = &stubApplicationRepo{}
	}
	if jobs == nil {
		jobs = &stubJobRepo{}
	}
	if events == nil {
		events = &stubEventRepo{}
	}
	if subs == nil {
		subs = &stubSubscriptionRepo{}
	}
	return NewReminderWorker(apps, jobs, events, subs, &stubNotificationRepo{}, notifier, 1)
}

func TestRunHourly_RemindsBothSidesOfInterview(t *testing.T) {
	soon := time.Now().Add(30 * time.Minute)
	apps := &stubApplicationRepo{interviews: []models.Application{{
		BaseModel:     models.BaseModel{ID: "app-1"},
		JobID:         "job-1",
		ApplicantID:   "emp-1",
		InterviewDate: &soon,
	}}}
	jobs := &stubJobRepo{byID: map[string]*models.Job{
		"job-1": {BaseModel: models.BaseModel{ID: "job-1"}, EmployerID: "comp-1", Title: "Backend Engineer"},
	}}
	notifier := &recordingNotifier{}
	w := newReminderWorker(apps, jobs, nil, nil, notifier)

	report := w.RunHourly(context.Background(), time.Now())
	assert.Equal(t, 1, report.Processed)

	sent := notifier.byType(repositories.NotificationTypeInterviewReminder)
	require.Len(t, sent, 2)
	recipients := []string{sent[0].UserID, sent[1].UserID}
	assert.ElementsMatch(t, []string{"emp-1", "comp-1"}, recipients)
	assert.Equal(t, "app-1", sent[0].RelatedID)
}

func TestRunDaily_SendsGroupedEmployerDigest(t *testing.T) {
	apps := &stubApplicationRepo{digest: []repositories.EmployerStatusCount{
		{EmployerID: "comp-1", Status: models.ApplicationStatusPending, Count: 3},
		{EmployerID: "comp-1", Status: models.ApplicationStatusInterview, Count: 2},
		{EmployerID: "comp-2", Status: models.ApplicationStatusPending, Count: 1},
	}}
	notifier := &recordingNotifier{}
	w := newReminderWorker(apps, nil, nil, nil, notifier)

	report := w.RunDaily(context.Background(), time.Now())
	assert.Equal(t, 0, report.Failed)

	digests := notifier.byType(repositories.NotificationTypeDailyDigest)
	require.Len(t, digests, 2, "one digest per employer, not per status row")

	totals := map[string]any{}
	for _, d := range digests {
		totals[d.UserID] = d.Data["total"]
	}
	assert.Equal(t, int64(5), totals["comp-1"])
	assert.Equal(t, int64(1), totals["comp-2"])
}

func TestRunDaily_RemindsEventRegistrants(t *testing.T) {
	starts := time.Now().Add(12 * time.Hour)
	events := &stubEventRepo{
		starting: []models.Event{{BaseModel: models.BaseModel{ID: "evt-1"}, Title: "Job Fair", StartsAt: starts}},
		registrations: map[string][]models.EventRegistration{
			"evt-1": {
				{UserID: "emp-1", UserRole: models.UserRoleEmployee},
				{UserID: "comp-1", UserRole: models.UserRoleEmployer},
			},
		},
	}
	notifier := &recordingNotifier{}
	w := newReminderWorker(nil, nil, events, nil, notifier)

	w.RunDaily(context.Background(), time.Now())
	reminders := notifier.byType(repositories.NotificationTypeEventReminder)
	assert.Len(t, reminders, 2, "every registrant gets the reminder")
}

func TestRunDaily_OncePerDay(t *testing.T) {
	jobs := &stubJobRepo{closing: []models.Job{{
		BaseModel:  models.BaseModel{ID: "job-1"},
		EmployerID: "comp-1",
		Title:      "Closing role",
	}}}
	notifier := &recordingNotifier{}
	w := newReminderWorker(nil, jobs, nil, nil, notifier)

	now := time.Now()
	w.RunDaily(context.Background(), now)
	w.RunDaily(context.Background(), now.Add(time.Hour))

	assert.Len(t, notifier.byType(repositories.NotificationTypeDeadlineReminder), 1)
}
