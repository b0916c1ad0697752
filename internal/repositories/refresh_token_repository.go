package repositories

import (
	"errors"
	"time"

	"workhub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrRefreshTokenNotFound = errors.New("refresh token not found")

type RefreshTokenRepository interface {
	Create(token *models.RefreshToken) error
	FindByToken(token string) (*models.RefreshToken, error)
	Delete(token string) error
	DeleteByUser(userID string) error
	DeleteExpired() (int64, error)
}

type RefreshTokenRepositoryImpl struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &RefreshTokenRepositoryImpl{db: db}
}

func (r *RefreshTokenRepositoryImpl) Create(token *models.RefreshToken) error {
	return r.db.Create(token).Error
}

func (r *RefreshTokenRepositoryImpl) FindByToken(token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := r.db.First(&rt, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, err
	}
	return &rt, nil
}

func (r *RefreshTokenRepositoryImpl) Delete(token string) error {
	return r.db.Delete(&models.RefreshToken{}, "token = ?", token).Error
}

func (r *RefreshTokenRepositoryImpl) DeleteByUser(userID string) error {
	return r.db.Delete(&models.RefreshToken{}, "user_id = ?", userID).Error
}

func (r *RefreshTokenRepositoryImpl) DeleteExpired() (int64, error) {
	res := r.db.Delete(&models.RefreshToken{}, "expires_at < ?", time.Now())
	return res.RowsAffected, res.Error
}
