package services

import (
	"context"
	"encoding/json"
	"time"

	"workhub_backend/internal/logger"
	"workhub_backend/internal/models"
	"workhub_backend/internal/repositories"
	"workhub_backend/internal/services/dto"
	"workhub_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

type JobService interface {
	// Create posts a job, consuming one unit of the employer's job-posting
	// quota atomically with the insert.
	Create(ctx context.Context, employerID string, req *dto.CreateJobRequest) (*dto.JobResponse, error)

	Update(ctx context.Context, employerID, jobID string, req *dto.UpdateJobRequest) (*dto.JobResponse, error)
	Deactivate(ctx context.Context, employerID, jobID string) error

	// Get returns the posting and counts the view.
	Get(jobID string) (*dto.JobResponse, error)
	Search(criteria repositories.JobSearchCriteria) (*dto.JobListResponse, error)
	ListMine(employerID string, page, pageSize int) (*dto.JobListResponse, error)

	ToggleSaved(applicantID, jobID string) (bool, error)
	ListSaved(applicantID string) ([]dto.JobResponse, error)
}

type jobService struct {
	jobRepo  repositories.JobRepository
	userRepo repositories.UserRepository
}

func NewJobService(jobRepo repositories.JobRepository, userRepo repositories.UserRepository) JobService {
	return &jobService{
		jobRepo:  jobRepo,
		userRepo: userRepo,
	}
}

func (s *jobService) Create(ctx context.Context, employerID string, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	owner, err := s.resolveEmployer(employerID)
	if err != nil {
		return nil, err
	}
	if owner.Status != models.VerificationApproved {
		return nil, apperrors.ErrAccountNotApproved
	}
	if req.Deadline != nil && req.Deadline.Before(time.Now()) {
		return nil, apperrors.ErrInvalidState("job", "The deadline is already in the past")
	}

	job := &models.Job{
		EmployerID:  owner.ID,
		Title:       req.Title,
		Description: req.Description,
		City:        req.City,
		JobType:     req.JobType,
		Category:    req.Category,
		SalaryMin:   req.SalaryMin,
		SalaryMax:   req.SalaryMax,
		Deadline:    req.Deadline,
		IsActive:    true,
	}
	if len(req.Skills) > 0 {
		raw, err := json.Marshal(req.Skills)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		job.Skills = datatypes.JSON(raw)
	}

	if err := s.jobRepo.CreateConsumingQuota(job); err != nil {
		if apperrors.Is(err, repositories.ErrQuotaConsumed) {
			return nil, apperrors.ErrQuotaExceeded("job", "Job posting quota exhausted, upgrade your plan to post more jobs")
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "job posted", "job_id", job.ID, "employer_id", owner.ID)
	resp := dto.FromJob(job)
	return &resp, nil
}

func (s *jobService) Update(ctx context.Context, employerID, jobID string, req *dto.UpdateJobRequest) (*dto.JobResponse, error) {
	job, err := s.ownedJob(employerID, jobID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.City != nil {
		job.City = *req.City
	}
	if req.JobType != nil {
		job.JobType = *req.JobType
	}
	if req.Category != nil {
		job.Category = *req.Category
	}
	if req.SalaryMin != nil {
		job.SalaryMin = *req.SalaryMin
	}
	if req.SalaryMax != nil {
		job.SalaryMax = *req.SalaryMax
	}
	if req.Skills != nil {
		raw, err := json.Marshal(req.Skills)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		job.Skills = datatypes.JSON(raw)
	}
	if req.Deadline != nil {
		job.Deadline = req.Deadline
	}

	if err := s.jobRepo.Update(job); err != nil {
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "job updated", "job_id", job.ID)
	resp := dto.FromJob(job)
	return &resp, nil
}

func (s *jobService) Deactivate(ctx context.Context, employerID, jobID string) error {
	if _, err := s.ownedJob(employerID, jobID); err != nil {
		return err
	}
	if err := s.jobRepo.SetActive(jobID, false); err != nil {
		return apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "job deactivated", "job_id", jobID)
	return nil
}

func (s *jobService) Get(jobID string) (*dto.JobResponse, error) {
	job, err := s.findJob(jobID)
	if err != nil {
		return nil, err
	}

	// Best-effort counter; a lost increment is not worth failing the read.
	if err := s.jobRepo.IncrementViews(jobID); err != nil {
		logger.Warn("failed to increment job views", "job_id", jobID, "error", err.Error())
	} else {
		job.Views++
	}

	resp := dto.FromJob(job)
	return &resp, nil
}

func (s *jobService) Search(criteria repositories.JobSearchCriteria) (*dto.JobListResponse, error) {
	criteria.Page, criteria.PageSize = dto.NormalizePage(criteria.Page, criteria.PageSize)

	jobs, total, err := s.jobRepo.Search(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.JobListResponse{
		Jobs: toJobResponses(jobs),
		Meta: dto.PageMeta{Page: criteria.Page, PageSize: criteria.PageSize, Total: total},
	}, nil
}

func (s *jobService) ListMine(employerID string, page, pageSize int) (*dto.JobListResponse, error) {
	owner, err := s.resolveEmployer(employerID)
	if err != nil {
		return nil, err
	}
	page, pageSize = dto.NormalizePage(page, pageSize)

	jobs, total, err := s.jobRepo.ListByEmployer(owner.ID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.JobListResponse{
		Jobs: toJobResponses(jobs),
		Meta: dto.PageMeta{Page: page, PageSize: pageSize, Total: total},
	}, nil
}

func (s *jobService) ToggleSaved(applicantID, jobID string) (bool, error) {
	if _, err := s.findJob(jobID); err != nil {
		return false, err
	}
	saved, err := s.jobRepo.ToggleSaved(jobID, applicantID)
	if err != nil {
		return false, apperrors.InternalError(err)
	}
	return saved, nil
}

func (s *jobService) ListSaved(applicantID string) ([]dto.JobResponse, error) {
	jobs, err := s.jobRepo.ListSavedByApplicant(applicantID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toJobResponses(jobs), nil
}

// resolveEmployer maps a delegated employer-admin account onto the employer
// that owns the postings and the quotas.
func (s *jobService) resolveEmployer(callerID string) (*models.User, error) {
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

func (s *jobService) ownedJob(employerID, jobID string) (*models.Job, error) {
	owner, err := s.resolveEmployer(employerID)
	if err != nil {
		return nil, err
	}
	job, err := s.findJob(jobID)
	if err != nil {
		return nil, err
	}
	if job.EmployerID != owner.ID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return job, nil
}

func (s *jobService) findJob(id string) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err, "job")
		}
		return nil, apperrors.InternalError(err)
	}
	return job, nil
}

func toJobResponses(jobs []models.Job) []dto.JobResponse {
	resp := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		resp = append(resp, dto.FromJob(&jobs[i]))
	}
	return resp
}
