package services

import (
	"context"

	"workhub_backend/internal/auth"
	"workhub_backend/internal/email"
	"workhub_backend/internal/logger"
	"workhub_backend/internal/models"
	"workhub_backend/internal/repositories"
	"workhub_backend/internal/services/dto"
	"workhub_backend/pkg/apperrors"
)

type UserService interface {
	GetProfile(userID string) (*dto.UserResponse, error)
	UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ListByRole(query *dto.ListUsersQuery) ([]dto.UserResponse, dto.PageMeta, error)

	// Platform-admin moderation
	ApproveEmployer(ctx context.Context, employerID string) error
	RejectEmployer(ctx context.Context, employerID string) error
	SetBlocked(ctx context.Context, userID string, blocked bool) error

	// Delegated employer accounts
	CreateEmployerAdmin(ctx context.Context, employerID string, req *dto.CreateEmployerAdminRequest) (*dto.UserResponse, error)

	// Quota-consuming candidate access. Both operations bill the owning
	// employer account, also when invoked by one of its admins.
	ViewCandidate(ctx context.Context, viewerID, candidateID string) (*dto.UserResponse, error)
	DownloadResume(ctx context.Context, viewerID, candidateID string) (string, error)
}

type userService struct {
	userRepo repositories.UserRepository
	mailer   email.Provider
}

func NewUserService(userRepo repositories.UserRepository, mailer email.Provider) UserService {
	return &userService{
		userRepo: userRepo,
		mailer:   mailer,
	}
}

func (s *userService) GetProfile(userID string) (*dto.UserResponse, error) {
	user, err := s.findUser(userID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromUser(user)
	return &resp, nil
}

func (s *userService) UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.findUser(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.City != nil {
		user.City = *req.City
	}
	if req.About != nil {
		user.About = *req.About
	}
	if req.Designation != nil {
		user.Designation = *req.Designation
	}
	if req.CompanyName != nil {
		user.CompanyName = *req.CompanyName
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.ResumeURL != nil {
		user.ResumeURL = *req.ResumeURL
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.FromUser(user)
	return &resp, nil
}

func (s *userService) ListByRole(query *dto.ListUsersQuery) ([]dto.UserResponse, dto.PageMeta, error) {
	page, pageSize := dto.NormalizePage(query.Page, query.PageSize)

	users, total, err := s.userRepo.ListByRole(models.UserRole(query.Role), page, pageSize)
	if err != nil {
		return nil, dto.PageMeta{}, apperrors.InternalError(err)
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, dto.FromUser(&users[i]))
	}
	return resp, dto.PageMeta{Page: page, PageSize: pageSize, Total: total}, nil
}

func (s *userService) ApproveEmployer(ctx context.Context, employerID string) error {
	return s.moderateEmployer(ctx, employerID, true)
}

func (s *userService) RejectEmployer(ctx context.Context, employerID string) error {
	return s.moderateEmployer(ctx, employerID, false)
}

func (s *userService) moderateEmployer(ctx context.Context, employerID string, approved bool) error {
	user, err := s.findUser(employerID)
	if err != nil {
		return err
	}
	if user.Role != models.UserRoleEmployer {
		return apperrors.ErrInvalidUserRole
	}

	status := models.VerificationApproved
	if !approved {
		status = models.VerificationRejected
	}
	if err := s.userRepo.SetStatus(user.ID, status); err != nil {
		return apperrors.InternalError(err)
	}

	subject, body := email.ApprovalBody(user.Name, approved)
	go func(to string) {
		if err := s.mailer.Send(to, subject, body); err != nil {
			logger.Error("failed to send approval email", "error", err.Error(), "user_id", user.ID)
		}
	}(user.Email)

	logger.CtxInfo(ctx, "employer moderated", "user_id", user.ID, "approved", approved)
	return nil
}

func (s *userService) SetBlocked(ctx context.Context, userID string, blocked bool) error {
	if _, err := s.findUser(userID); err != nil {
		return err
	}
	if err := s.userRepo.SetBlocked(userID, blocked); err != nil {
		return apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "account block state changed", "user_id", userID, "blocked", blocked)
	return nil
}

// CreateEmployerAdmin creates a delegated account bound to an approved
// employer. The admin shares the employer's quotas but has its own login.
func (s *userService) CreateEmployerAdmin(ctx context.Context, employerID string, req *dto.CreateEmployerAdminRequest) (*dto.UserResponse, error) {
	employer, err := s.findUser(employerID)
	if err != nil {
		return nil, err
	}
	if employer.Role != models.UserRoleEmployer {
		return nil, apperrors.ErrInvalidUserRole
	}
	if employer.Status != models.VerificationApproved {
		return nil, apperrors.ErrAccountNotApproved
	}

	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, apperrors.ErrInvalidState("auth", "An account with this email already exists")
	} else if !apperrors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.InternalError(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	admin := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         models.UserRoleEmployerAdmin,
		Status:       models.VerificationVerified,
		EmployerID:   &employer.ID,
		CompanyName:  employer.CompanyName,
	}
	if err := s.userRepo.Create(admin); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "employer admin created", "employer_id", employer.ID, "admin_id", admin.ID)
	resp := dto.FromUser(admin)
	return &resp, nil
}

func (s *userService) ViewCandidate(ctx context.Context, viewerID, candidateID string) (*dto.UserResponse, error) {
	candidate, err := s.findUser(candidateID)
	if err != nil {
		return nil, err
	}
	if candidate.Role != models.UserRoleEmployee {
		return nil, apperrors.ErrInvalidUserRole
	}

	if err := s.consumeEmployerQuota(ctx, viewerID, repositories.QuotaProfileViews); err != nil {
		return nil, err
	}

	resp := dto.FromUser(candidate)
	return &resp, nil
}

func (s *userService) DownloadResume(ctx context.Context, viewerID, candidateID string) (string, error) {
	candidate, err := s.findUser(candidateID)
	if err != nil {
		return "", err
	}
	if candidate.Role != models.UserRoleEmployee {
		return "", apperrors.ErrInvalidUserRole
	}
	if candidate.ResumeURL == "" {
		return "", apperrors.ErrNotFound(repositories.ErrUploadNotFound, "resume")
	}

	if err := s.consumeEmployerQuota(ctx, viewerID, repositories.QuotaResumeDownloads); err != nil {
		return "", err
	}
	return candidate.ResumeURL, nil
}

// consumeEmployerQuota resolves the billed employer account (the viewer, or
// its parent employer for delegated admins) and decrements one unit of the
// given counter. The decrement is conditional, so a concurrent spender can
// never push the counter below zero.
func (s *userService) consumeEmployerQuota(ctx context.Context, viewerID string, field repositories.QuotaField) error {
	viewer, err := s.findUser(viewerID)
	if err != nil {
		return err
	}

	ownerID := viewer.ID
	switch viewer.Role {
	case models.UserRoleEmployer:
	case models.UserRoleEmployerAdmin:
		if viewer.EmployerID == nil {
			return apperrors.ErrInvalidState("user", "Delegated account has no owning employer")
		}
		ownerID = *viewer.EmployerID
	default:
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.userRepo.ConsumeQuota(ownerID, field); err != nil {
		if apperrors.Is(err, repositories.ErrQuotaConsumed) {
			return apperrors.ErrQuotaExceeded("subscription", "Quota exhausted, upgrade your plan to continue")
		}
		return apperrors.InternalError(err)
	}

	logger.CtxDebug(ctx, "quota consumed", "owner_id", ownerID, "field", string(field))
	return nil
}

func (s *userService) findUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err, "user")
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}
