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

type applicationFixture struct {
	svc      ApplicationService
	appRepo  *fakeApplicationRepo
	jobRepo  *fakeJobRepo
	userRepo *fakeUserRepo
}

func newApplicationFixture(t *testing.T, users []*models.User, jobs []*models.Job) *applicationFixture {
	t.Helper()
	userRepo := newFakeUserRepo(users...)
	jobRepo := newFakeJobRepo(userRepo, jobs...)
	appRepo := newFakeApplicationRepo()
	svc := NewApplicationService(appRepo, jobRepo, userRepo, &fakeNotificationService{})
	return &applicationFixture{svc: svc, appRepo: appRepo, jobRepo: jobRepo, userRepo: userRepo}
}

func activeJob(id, employerID string) *models.Job {
	return &models.Job{
		BaseModel:  models.BaseModel{ID: id},
		EmployerID: employerID,
		Title:      "Backend Engineer",
		IsActive:   true,
	}
}

func TestApply_OpensPendingHistory(t *testing.T) {
	applicant := employeeUser()
	employer := employerUser()
	fix := newApplicationFixture(t,
		[]*models.User{applicant, employer},
		[]*models.Job{activeJob("job-1", employer.ID)},
	)

	resp, err := fix.svc.Apply(context.Background(), applicant.ID, &dto.ApplyRequest{JobID: "job-1", Notes: "see attached resume"})
	require.NoError(t, err)
	assert.Equal(t, string(models.ApplicationStatusPending), resp.Status)

	events, err := fix.appRepo.ListEvents(resp.ID)
	require.NoError(t, err)
	require.Len(t, events, 1, "applying must open the history with the Pending event")
	assert.Equal(t, models.ApplicationStatusPending, events[0].Status)
}

func TestApply_OncePerJob(t *testing.T) {
	applicant := employeeUser()
	employer := employerUser()
	fix := newApplicationFixture(t,
		[]*models.User{applicant, employer},
		[]*models.Job{activeJob("job-1", employer.ID)},
	)

	_, err := fix.svc.Apply(context.Background(), applicant.ID, &dto.ApplyRequest{JobID: "job-1"})
	require.NoError(t, err)

	_, err = fix.svc.Apply(context.Background(), applicant.ID, &dto.ApplyRequest{JobID: "job-1"})
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeAlreadyExists, appErr.Code)
}

func TestApply_RejectsClosedJob(t *testing.T) {
	applicant := employeeUser()
	employer := employerUser()

	inactive := activeJob("job-closed", employer.ID)
	inactive.IsActive = false
	past := time.Now().Add(-24 * time.Hour)
	expired := activeJob("job-expired", employer.ID)
	expired.Deadline = &past

	fix := newApplicationFixture(t,
		[]*models.User{applicant, employer},
		[]*models.Job{inactive, expired},
	)

	for _, jobID := range []string{"job-closed", "job-expired"} {
		_, err := fix.svc.Apply(context.Background(), applicant.ID, &dto.ApplyRequest{JobID: jobID})
		var appErr *apperrors.AppError
		require.True(t, apperrors.As(err, &appErr), "job %s", jobID)
		assert.Equal(t, apperrors.CodeInvalidState, appErr.Code, "job %s", jobID)
	}
}

func TestApply_EmployeesOnly(t *testing.T) {
	employer := employerUser()
	fix := newApplicationFixture(t, []*models.User{employer}, []*models.Job{activeJob("job-1", employer.ID)})

	_, err := fix.svc.Apply(context.Background(), employer.ID, &dto.ApplyRequest{JobID: "job-1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidUserRole)
}

func TestTransition_FollowsClosedTable(t *testing.T) {
	applicant := employeeUser()
	employer := employerUser()
	fix := newApplicationFixture(t,
		[]*models.User{applicant, employer},
		[]*models.Job{activeJob("job-1", employer.ID)},
	)

	applied, err := fix.svc.Apply(context.Background(), applicant.ID, &dto.ApplyRequest{JobID: "job-1"})
	require.NoError(t, err)

	resp, err := fix.svc.Transition(context.Background(), employer.ID, applied.ID, &dto.TransitionRequest{
		Status: string(models.ApplicationStatusAccepted),
		Notes:  "strong interview",
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.ApplicationStatusAccepted), resp.Status)

	// Accepted is terminal.
	_, err = fix.svc.Transition(context.Background(), employer.ID, applied.ID, &dto.TransitionRequest{
		Status: string(models.ApplicationStatusRejected),
		Notes:  "changed our mind",
	})
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidState, appErr.Code)

	events, err := fix.appRepo.ListEvents(applied.ID)
	require.NoError(t, err)
	assert.Len(t, events, 2, "the rejected transition must not append an event")
}

func TestTransition_InterviewRequiresDate(t *testing.T) {
	applicant := employeeUser()
	employer := employerUser()
	fix := newApplicationFixture(t,
		[]*models.User{applicant, employer},
		[]*models.Job{activeJob("job-1", employer.ID)},
	)

	applied, err := fix.svc.Apply(context.Background(), applicant.ID, &dto.ApplyRequest{JobID: "job-1"})
	require.NoError(t, err)

	_, err = fix.svc.Transition(context.Background(), employer.ID, applied.ID, &dto.TransitionRequest{
		Status: string(models.ApplicationStatusInterview),
		Notes:  "let's talk",
	})
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)

	when := time.Now().Add(48 * time.Hour)
	resp, err := fix.svc.Transition(context.Background(), employer.ID, applied.ID, &dto.TransitionRequest{
		Status:        string(models.ApplicationStatusInterview),
		Notes:         "let's talk",
		InterviewType: "online",
		InterviewDate: &when,
		InterviewLink: "https://meet.example.com/abc",
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.ApplicationStatusInterview), resp.Status)

	// Re-scheduling is a self-transition and appends another event.
	later := when.Add(24 * time.Hour)
	_, err = fix.svc.Transition(context.Background(), employer.ID, applied.ID, &dto.TransitionRequest{
		Status:        string(models.ApplicationStatusInterview),
		Notes:         "moved a day",
		InterviewType: "online",
		InterviewDate: &later,
	})
	require.NoError(t, err)

	events, _ := fix.appRepo.ListEvents(applied.ID)
	assert.Len(t, events, 3)
}

func TestTransition_OnlyOwningEmployerSide(t *testing.T) {
	applicant := employeeUser()
	owner := employerUser()
	rival := &models.User{
		BaseModel: models.BaseModel{ID: "comp-2"},
		Email:     "hr@rival.example",
		Role:      models.UserRoleEmployer,
		Status:    models.VerificationApproved,
	}
	delegate := &models.User{
		BaseModel:  models.BaseModel{ID: "adm-1"},
		Email:      "admin@acme.example",
		Role:       models.UserRoleEmployerAdmin,
		EmployerID: &owner.ID,
	}
	fix := newApplicationFixture(t,
		[]*models.User{applicant, owner, rival, delegate},
		[]*models.Job{activeJob("job-1", owner.ID)},
	)

	applied, err := fix.svc.Apply(context.Background(), applicant.ID, &dto.ApplyRequest{JobID: "job-1"})
	require.NoError(t, err)

	_, err = fix.svc.Transition(context.Background(), rival.ID, applied.ID, &dto.TransitionRequest{
		Status: string(models.ApplicationStatusRejected),
		Notes:  "not ours",
	})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	// A delegated admin acts on behalf of the owning employer.
	resp, err := fix.svc.Transition(context.Background(), delegate.ID, applied.ID, &dto.TransitionRequest{
		Status: string(models.ApplicationStatusRejected),
		Notes:  "position filled",
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.ApplicationStatusRejected), resp.Status)
}

func TestHistory_VisibleToApplicantAndOwner(t *testing.T) {
	applicant := employeeUser()
	owner := employerUser()
	stranger := &models.User{
		BaseModel: models.BaseModel{ID: "comp-9"},
		Role:      models.UserRoleEmployer,
	}
	fix := newApplicationFixture(t,
		[]*models.User{applicant, owner, stranger},
		[]*models.Job{activeJob("job-1", owner.ID)},
	)

	applied, err := fix.svc.Apply(context.Background(), applicant.ID, &dto.ApplyRequest{JobID: "job-1"})
	require.NoError(t, err)

	events, err := fix.svc.History(applicant.ID, applied.ID)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	events, err = fix.svc.History(owner.ID, applied.ID)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	_, err = fix.svc.History(stranger.ID, applied.ID)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
}
