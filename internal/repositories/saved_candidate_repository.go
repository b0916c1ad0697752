package repositories

import (
	"errors"

	"workhub_backend/internal/models"

	"gorm.io/gorm"
)

type SavedCandidateRepository interface {
	// Toggle saves or removes the bookmark and returns the resulting state.
	Toggle(saved *models.SavedCandidate) (bool, error)
	ListByEmployer(employerID string, page, pageSize int) ([]models.SavedCandidate, int64, error)
	IsSaved(employerID, employeeID string) (bool, error)
}

type SavedCandidateRepositoryImpl struct {
	db *gorm.DB
}

func NewSavedCandidateRepository(db *gorm.DB) SavedCandidateRepository {
	return &SavedCandidateRepositoryImpl{db: db}
}

func (r *SavedCandidateRepositoryImpl) Toggle(saved *models.SavedCandidate) (bool, error) {
	var existing models.SavedCandidate
	err := r.db.Where("employer_id = ? AND employee_id = ?", saved.EmployerID, saved.EmployeeID).
		First(&existing).Error
	if err == nil {
		if err := r.db.Delete(&existing).Error; err != nil {
			return true, err
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if err := r.db.Create(saved).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *SavedCandidateRepositoryImpl) ListByEmployer(employerID string, page, pageSize int) ([]models.SavedCandidate, int64, error) {
	q := r.db.Model(&models.SavedCandidate{}).Where("employer_id = ?", employerID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var saved []models.SavedCandidate
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&saved).Error
	return saved, total, err
}

func (r *SavedCandidateRepositoryImpl) IsSaved(employerID, employeeID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.SavedCandidate{}).
		Where("employer_id = ? AND employee_id = ?", employerID, employeeID).
		Count(&count).Error
	return count > 0, err
}
