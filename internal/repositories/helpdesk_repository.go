package repositories

import (
	"errors"

	"workhub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrHelpSessionNotFound = errors.New("help session not found")

type HelpDeskRepository interface {
	CreateSession(session *models.HelpSession) error
	FindSessionByID(id string) (*models.HelpSession, error)
	ListSessionsByUser(userID string) ([]models.HelpSession, error)
	ListSessionsByStatus(status models.HelpSessionStatus) ([]models.HelpSession, error)
	ClaimSession(id, adminID string) error
	SetSessionStatus(id string, status models.HelpSessionStatus) error
	AppendMessage(message *models.HelpMessage) error
	ListMessages(sessionID string) ([]models.HelpMessage, error)
}

type HelpDeskRepositoryImpl struct {
	db *gorm.DB
}

func NewHelpDeskRepository(db *gorm.DB) HelpDeskRepository {
	return &HelpDeskRepositoryImpl{db: db}
}

func (r *HelpDeskRepositoryImpl) CreateSession(session *models.HelpSession) error {
	return r.db.Create(session).Error
}

func (r *HelpDeskRepositoryImpl) FindSessionByID(id string) (*models.HelpSession, error) {
	var session models.HelpSession
	if err := r.db.First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHelpSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *HelpDeskRepositoryImpl) ListSessionsByUser(userID string) ([]models.HelpSession, error) {
	var sessions []models.HelpSession
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *HelpDeskRepositoryImpl) ListSessionsByStatus(status models.HelpSessionStatus) ([]models.HelpSession, error) {
	var sessions []models.HelpSession
	err := r.db.Where("status = ?", status).
		Order("created_at ASC").
		Find(&sessions).Error
	return sessions, err
}

// ClaimSession assigns the session to an admin only while it is still open.
func (r *HelpDeskRepositoryImpl) ClaimSession(id, adminID string) error {
	res := r.db.Model(&models.HelpSession{}).
		Where("id = ? AND status = ?", id, models.HelpSessionOpen).
		Updates(map[string]interface{}{
			"admin_id": adminID,
			"status":   models.HelpSessionClaimed,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrHelpSessionNotFound
	}
	return nil
}

func (r *HelpDeskRepositoryImpl) SetSessionStatus(id string, status models.HelpSessionStatus) error {
	res := r.db.Model(&models.HelpSession{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrHelpSessionNotFound
	}
	return nil
}

func (r *HelpDeskRepositoryImpl) AppendMessage(message *models.HelpMessage) error {
	return r.db.Create(message).Error
}

func (r *HelpDeskRepositoryImpl) ListMessages(sessionID string) ([]models.HelpMessage, error) {
	var messages []models.HelpMessage
	err := r.db.Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}
