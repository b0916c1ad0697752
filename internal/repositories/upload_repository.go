package repositories

import (
	"errors"

	"workhub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrUploadNotFound = errors.New("upload not found")

type UploadRepository interface {
	Create(upload *models.Upload) error
	FindByID(id string) (*models.Upload, error)
	ListByUser(userID string) ([]models.Upload, error)
	Delete(id string) error
}

type UploadRepositoryImpl struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) UploadRepository {
	return &UploadRepositoryImpl{db: db}
}

func (r *UploadRepositoryImpl) Create(upload *models.Upload) error {
	return r.db.Create(upload).Error
}

func (r *UploadRepositoryImpl) FindByID(id string) (*models.Upload, error) {
	var upload models.Upload
	if err := r.db.First(&upload, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUploadNotFound
		}
		return nil, err
	}
	return &upload, nil
}

func (r *UploadRepositoryImpl) ListByUser(userID string) ([]models.Upload, error) {
	var uploads []models.Upload
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&uploads).Error
	return uploads, err
}

func (r *UploadRepositoryImpl) Delete(id string) error {
	res := r.db.Delete(&models.Upload{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUploadNotFound
	}
	return nil
}
