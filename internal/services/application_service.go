package services

import (
	"context"
	"fmt"
	"time"

	"workhub_backend/internal/logger"
	"workhub_backend/internal/models"
	"workhub_backend/internal/repositories"
	"workhub_backend/internal/services/dto"
	"workhub_backend/pkg/apperrors"
)

type ApplicationService interface {
	// Apply submits an application and records the initial Pending event.
	// One application per applicant per job.
	Apply(ctx context.Context, applicantID string, req *dto.ApplyRequest) (*dto.ApplicationResponse, error)

	// Transition moves the application along the closed status table and
	// appends the immutable history event. Accepted and Rejected are
	// terminal.
	Transition(ctx context.Context, callerID, applicationID string, req *dto.TransitionRequest) (*dto.ApplicationResponse, error)

	SetFavourite(callerID, applicationID string, favourite bool) error
	ListByJob(callerID, jobID string, criteria repositories.ApplicationCriteria) ([]dto.ApplicationResponse, dto.PageMeta, error)
	ListMine(applicantID string, page, pageSize int) ([]dto.ApplicationResponse, dto.PageMeta, error)
	History(callerID, applicationID string) ([]dto.StatusEventResponse, error)
}

type applicationService struct {
	applicationRepo repositories.ApplicationRepository
	jobRepo         repositories.JobRepository
	userRepo        repositories.UserRepository
	notifications   NotificationService
}

func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	notifications NotificationService,
) ApplicationService {
	return &applicationService{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		userRepo:        userRepo,
		notifications:   notifications,
	}
}

func (s *applicationService) Apply(ctx context.Context, applicantID string, req *dto.ApplyRequest) (*dto.ApplicationResponse, error) {
	applicant, err := s.userRepo.FindByID(applicantID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err, "user")
		}
		return nil, apperrors.InternalError(err)
	}
	if applicant.Role != models.UserRoleEmployee {
		return nil, apperrors.ErrInvalidUserRole
	}

	job, err := s.jobRepo.FindByID(req.JobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err, "job")
		}
		return nil, apperrors.InternalError(err)
	}
	if !job.IsActive {
		return nil, apperrors.ErrInvalidState("application", "This job is no longer accepting applications")
	}
	if job.Deadline != nil && time.Now().After(*job.Deadline) {
		return nil, apperrors.ErrInvalidState("application", "The application deadline has passed")
	}

	app := &models.Application{
		JobID:       job.ID,
		ApplicantID: applicant.ID,
		Status:      models.ApplicationStatusPending,
		Notes:       req.Notes,
	}
	if err := s.applicationRepo.Create(app); err != nil {
		if apperrors.Is(err, repositories.ErrAlreadyApplied) {
			return nil, apperrors.ErrAlreadyExists(err, "application")
		}
		return nil, apperrors.InternalError(err)
	}

	// The Pending event opens the append-only history.
	event := &models.ApplicationStatusEvent{
		ApplicationID: app.ID,
		Status:        models.ApplicationStatusPending,
		Notes:         req.Notes,
		OccurredAt:    time.Now(),
	}
	if err := s.applicationRepo.Transition(app, event); err != nil {
		return nil, apperrors.InternalError(err)
	}

	go func(employerID, jobTitle, applicantName, appID string) {
		err := s.notifications.Notify(context.Background(), NotifyInput{
			UserID:    employerID,
			Role:      models.UserRoleEmployer,
			Type:      repositories.NotificationTypeNewApplication,
			Title:     "New application",
			Subtitle:  fmt.Sprintf("%s applied to %s", applicantName, jobTitle),
			RelatedID: appID,
		})
		if err != nil {
			logger.Error("failed to notify employer about new application", "error", err.Error(), "application_id", appID)
		}
	}(job.EmployerID, job.Title, applicant.Name, app.ID)

	logger.CtxInfo(ctx, "application submitted", "application_id", app.ID, "job_id", job.ID)
	resp := dto.FromApplication(app)
	return &resp, nil
}

func (s *applicationService) Transition(ctx context.Context, callerID, applicationID string, req *dto.TransitionRequest) (*dto.ApplicationResponse, error) {
	app, job, err := s.ownedApplication(callerID, applicationID)
	if err != nil {
		return nil, err
	}

	target := models.ApplicationStatus(req.Status)
	if !models.IsValidApplicationStatus(target) {
		return nil, apperrors.ErrInvalidState("application", fmt.Sprintf("Unknown application status %q", req.Status))
	}
	if !models.CanTransitionApplication(app.Status, target) {
		return nil, apperrors.ErrInvalidState("application",
			fmt.Sprintf("Cannot move an application from %q to %q", app.Status, target))
	}

	if target == models.ApplicationStatusInterview {
		if req.InterviewDate == nil {
			return nil, apperrors.NewBadRequestError("An interview date is required to schedule an interview")
		}
		app.InterviewType = req.InterviewType
		app.InterviewDate = req.InterviewDate
		app.InterviewTime = req.InterviewTime
		app.InterviewLink = req.InterviewLink
		app.InterviewVenue = req.InterviewVenue
	}
	app.Status = target
	app.Notes = req.Notes

	event := &models.ApplicationStatusEvent{
		ApplicationID:  app.ID,
		Status:         target,
		Notes:          req.Notes,
		InterviewType:  app.InterviewType,
		InterviewDate:  app.InterviewDate,
		InterviewTime:  app.InterviewTime,
		InterviewLink:  app.InterviewLink,
		InterviewVenue: app.InterviewVenue,
		OccurredAt:     time.Now(),
	}
	if err := s.applicationRepo.Transition(app, event); err != nil {
		return nil, apperrors.InternalError(err)
	}

	go func(applicantID, jobTitle string, status models.ApplicationStatus, appID string) {
		err := s.notifications.Notify(context.Background(), NotifyInput{
			UserID:    applicantID,
			Role:      models.UserRoleEmployee,
			Type:      repositories.NotificationTypeApplicationStatus,
			Title:     "Application update",
			Subtitle:  fmt.Sprintf("Your application for %s is now %s", jobTitle, status),
			RelatedID: appID,
		})
		if err != nil {
			logger.Error("failed to notify applicant about status change", "error", err.Error(), "application_id", appID)
		}
	}(app.ApplicantID, job.Title, target, app.ID)

	logger.CtxInfo(ctx, "application transitioned",
		"application_id", app.ID,
		"status", target,
	)
	resp := dto.FromApplication(app)
	return &resp, nil
}

func (s *applicationService) SetFavourite(callerID, applicationID string, favourite bool) error {
	if _, _, err := s.ownedApplication(callerID, applicationID); err != nil {
		return err
	}
	if err := s.applicationRepo.SetFavourite(applicationID, favourite); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *applicationService) ListByJob(callerID, jobID string, criteria repositories.ApplicationCriteria) ([]dto.ApplicationResponse, dto.PageMeta, error) {
	owner, err := s.resolveEmployer(callerID)
	if err != nil {
		return nil, dto.PageMeta{}, err
	}
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, dto.PageMeta{}, apperrors.ErrNotFound(err, "job")
		}
		return nil, dto.PageMeta{}, apperrors.InternalError(err)
	}
	if job.EmployerID != owner.ID {
		return nil, dto.PageMeta{}, apperrors.ErrInsufficientPermissions
	}

	criteria.Page, criteria.PageSize = dto.NormalizePage(criteria.Page, criteria.PageSize)
	apps, total, err := s.applicationRepo.ListByJob(jobID, criteria)
	if err != nil {
		return nil, dto.PageMeta{}, apperrors.InternalError(err)
	}
	return toApplicationResponses(apps), dto.PageMeta{Page: criteria.Page, PageSize: criteria.PageSize, Total: total}, nil
}

func (s *applicationService) ListMine(applicantID string, page, pageSize int) ([]dto.ApplicationResponse, dto.PageMeta, error) {
	page, pageSize = dto.NormalizePage(page, pageSize)
	apps, total, err := s.applicationRepo.ListByApplicant(applicantID, page, pageSize)
	if err != nil {
		return nil, dto.PageMeta{}, apperrors.InternalError(err)
	}
	return toApplicationResponses(apps), dto.PageMeta{Page: page, PageSize: pageSize, Total: total}, nil
}

// History is visible to the applicant and to the employer side of the job.
func (s *applicationService) History(callerID, applicationID string) ([]dto.StatusEventResponse, error) {
	app, err := s.applicationRepo.FindByID(applicationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrNotFound(err, "application")
		}
		return nil, apperrors.InternalError(err)
	}

	if app.ApplicantID != callerID {
		if _, _, err := s.ownedApplication(callerID, applicationID); err != nil {
			return nil, err
		}
	}

	events, err := s.applicationRepo.ListEvents(applicationID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := make([]dto.StatusEventResponse, 0, len(events))
	for i := range events {
		resp = append(resp, dto.FromStatusEvent(&events[i]))
	}
	return resp, nil
}

// --- helpers ---

func (s *applicationService) resolveEmployer(callerID string) (*models.User, error) {
	caller, err := s.userRepo.FindByID(callerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err, "user")
		}
		return nil, apperrors.InternalError(err)
	}

	switch caller.Role {
	case models.UserRoleEmployer:
		return caller, nil
	case models.UserRoleEmployerAdmin:
		if caller.EmployerID == nil {
			return nil, apperrors.ErrInvalidState("user", "Delegated account has no owning employer")
		}
		owner, err := s.userRepo.FindByID(*caller.EmployerID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		return owner, nil
	default:
		return nil, apperrors.ErrInsufficientPermissions
	}
}

// ownedApplication loads the application and checks the caller controls the
// job it belongs to.
func (s *applicationService) ownedApplication(callerID, applicationID string) (*models.Application, *models.Job, error) {
	owner, err := s.resolveEmployer(callerID)
	if err != nil {
		return nil, nil, err
	}

	app, err := s.applicationRepo.FindByID(applicationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, nil, apperrors.ErrNotFound(err, "application")
		}
		return nil, nil, apperrors.InternalError(err)
	}

	job, err := s.jobRepo.FindByID(app.JobID)
	if err != nil {
		return nil, nil, apperrors.InternalError(err)
	}
	if job.EmployerID != owner.ID {
		return nil, nil, apperrors.ErrInsufficientPermissions
	}
	return app, job, nil
}

func toApplicationResponses(apps []models.Application) []dto.ApplicationResponse {
	resp := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		resp = append(resp, dto.FromApplication(&apps[i]))
	}
	return resp
}
