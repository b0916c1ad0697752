package services

import (
	"workhub_backend/internal/models"
	"workhub_backend/internal/repositories"
	"workhub_backend/internal/services/dto"
	"workhub_backend/pkg/apperrors"
)

type SavedCandidateService interface {
	// Toggle bookmarks or un-bookmarks the employee and returns the
	// resulting state.
	Toggle(employerID, employeeID string) (bool, error)
	List(employerID string, page, pageSize int) ([]dto.SavedCandidateResponse, dto.PageMeta, error)
}

type savedCandidateService struct {
	savedRepo repositories.SavedCandidateRepository
	userRepo  repositories.UserRepository
}

func NewSavedCandidateService(
	savedRepo repositories.SavedCandidateRepository,
	userRepo repositories.UserRepository,
) SavedCandidateService {
	return &savedCandidateService{
		savedRepo: savedRepo,
		userRepo:  userRepo,
	}
}

func (s *savedCandidateService) Toggle(employerID, employeeID string) (bool, error) {
	employee, err := s.userRepo.FindByID(employeeID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return false, apperrors.ErrNotFound(err, "user")
		}
		return false, apperrors.InternalError(err)
	}
	if employee.Role != models.UserRoleEmployee {
		return false, apperrors.ErrInvalidUserRole
	}

	saved, err := s.savedRepo.Toggle(&models.SavedCandidate{
		EmployerID:     employerID,
		EmployeeID:     employee.ID,
		EmployeeName:   employee.Name,
		EmployeeAvatar: employee.AvatarURL,
	})
	if err != nil {
		return false, apperrors.InternalError(err)
	}
	return saved, nil
}

func (s *savedCandidateService) List(employerID string, page, pageSize int) ([]dto.SavedCandidateResponse, dto.PageMeta, error) {
	page, pageSize = dto.NormalizePage(page, pageSize)

	saved, total, err := s.savedRepo.ListByEmployer(employerID, page, pageSize)
	if err != nil {
		return nil, dto.PageMeta{}, apperrors.InternalError(err)
	}

	resp := make([]dto.SavedCandidateResponse, 0, len(saved))
	for i := range saved {
		resp = append(resp, dto.FromSavedCandidate(&saved[i]))
	}
	return resp, dto.PageMeta{Page: page, PageSize: pageSize, Total: total}, nil
}
