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

func newJobFixture(t *testing.T, users []*models.User, jobs []*models.Job) (JobService, *fakeUserRepo, *fakeJobRepo) {
	t.Helper()
	userRepo := newFakeUserRepo(users...)
	jobRepo := newFakeJobRepo(userRepo, jobs...)
	return NewJobService(jobRepo, userRepo), userRepo, jobRepo
}

func TestCreateJob_ConsumesQuota(t *testing.T) {
	employer := employerUser()
	employer.JobPostingLimit = 2
	svc, userRepo, _ := newJobFixture(t, []*models.User{employer}, nil)

	for i := 0; i < 2; i++ {
		_, err := svc.Create(context.Background(), employer.ID, &dto.CreateJobRequest{
			Title:   "Backend Engineer",
			City:    "Bengaluru",
			JobType: "full_time",
		})
		require.NoError(t, err)
	}

	stored, _ := userRepo.FindByID(employer.ID)
	assert.Equal(t, 0, stored.JobPostingLimit)

	// Third posting hits the exhausted counter.
	_, err := svc.Create(context.Background(), employer.ID, &dto.CreateJobRequest{
		Title:   "One Too Many",
		JobType: "full_time",
	})
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeQuotaExceeded, appErr.Code)
}

func TestCreateJob_RequiresApprovedEmployer(t *testing.T) {
	pending := employerUser()
	pending.Status = models.VerificationPending
	pending.JobPostingLimit = 5
	svc, _, _ := newJobFixture(t, []*models.User{pending}, nil)

	_, err := svc.Create(context.Background(), pending.ID, &dto.CreateJobRequest{Title: "Job", JobType: "full_time"})
	assert.ErrorIs(t, err, apperrors.ErrAccountNotApproved)
}

func TestCreateJob_RejectsPastDeadline(t *testing.T) {
	employer := employerUser()
	employer.JobPostingLimit = 5
	svc, _, _ := newJobFixture(t, []*models.User{employer}, nil)

	past := time.Now().Add(-time.Hour)
	_, err := svc.Create(context.Background(), employer.ID, &dto.CreateJobRequest{
		Title:    "Job",
		JobType:  "full_time",
		Deadline: &past,
	})
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidState, appErr.Code)
}

func TestCreateJob_DelegateBillsOwner(t *testing.T) {
	owner := employerUser()
	owner.JobPostingLimit = 1
	delegate := &models.User{
		BaseModel:  models.BaseModel{ID: "adm-1"},
		Role:       models.UserRoleEmployerAdmin,
		EmployerID: &owner.ID,
	}
	svc, userRepo, _ := newJobFixture(t, []*models.User{owner, delegate}, nil)

	resp, err := svc.Create(context.Background(), delegate.ID, &dto.CreateJobRequest{
		Title:   "Posted by delegate",
		JobType: "contract",
	})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, resp.EmployerID, "the posting belongs to the owning employer")

	stored, _ := userRepo.FindByID(owner.ID)
	assert.Equal(t, 0, stored.JobPostingLimit, "the owner's quota pays for the delegate's posting")
}

func TestGetJob_CountsView(t *testing.T) {
	employer := employerUser()
	job := activeJob("job-1", employer.ID)
	svc, _, jobRepo := newJobFixture(t, []*models.User{employer}, []*models.Job{job})

	resp, err := svc.Get("job-1")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Views)

	stored, _ := jobRepo.FindByID("job-1")
	assert.Equal(t, 1, stored.Views)
}

func TestToggleSaved_RoundTrips(t *testing.T) {
	employer := employerUser()
	job := activeJob("job-1", employer.ID)
	svc, _, _ := newJobFixture(t, []*models.User{employer}, []*models.Job{job})

	saved, err := svc.ToggleSaved("emp-1", "job-1")
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = svc.ToggleSaved("emp-1", "job-1")
	require.NoError(t, err)
	assert.False(t, saved, "the second toggle removes the save")

	saved, err = svc.ToggleSaved("emp-1", "job-1")
	require.NoError(t, err)
	assert.True(t, saved, "toggling again re-saves")
}

func TestToggleSaved_UnknownJob(t *testing.T) {
	svc, _, _ := newJobFixture(t, nil, nil)

	_, err := svc.ToggleSaved("emp-1", "missing")
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}
