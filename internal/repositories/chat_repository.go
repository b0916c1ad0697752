package repositories

import (
	"errors"
	"time"

	"workhub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrDialogNotFound = errors.New("dialog not found")

type ChatRepository interface {
	FindOrCreateDialog(dialog *models.Dialog) (*models.Dialog, error)
	FindDialogByID(id string) (*models.Dialog, error)
	ListDialogsByUser(userID string) ([]models.Dialog, error)
	AppendMessage(message *models.ChatMessage) error
	ListMessages(dialogID string, page, pageSize int) ([]models.ChatMessage, int64, error)
	MarkMessagesRead(dialogID, readerID string) error
	UnreadCount(dialogID, readerID string) (int64, error)
}

type ChatRepositoryImpl struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &ChatRepositoryImpl{db: db}
}

func (r *ChatRepositoryImpl) FindOrCreateDialog(dialog *models.Dialog) (*models.Dialog, error) {
	var existing models.Dialog
	err := r.db.Where("employer_id = ? AND employee_id = ?", dialog.EmployerID, dialog.EmployeeID).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := r.db.Create(dialog).Error; err != nil {
		return nil, err
	}
	return dialog, nil
}

func (r *ChatRepositoryImpl) FindDialogByID(id string) (*models.Dialog, error) {
	var dialog models.Dialog
	if err := r.db.First(&dialog, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDialogNotFound
		}
		return nil, err
	}
	return &dialog, nil
}

func (r *ChatRepositoryImpl) ListDialogsByUser(userID string) ([]models.Dialog, error) {
	var dialogs []models.Dialog
	err := r.db.Where("employer_id = ? OR employee_id = ?", userID, userID).
		Order("last_message_at DESC NULLS LAST").
		Find(&dialogs).Error
	return dialogs, err
}

func (r *ChatRepositoryImpl) AppendMessage(message *models.ChatMessage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&models.Dialog{}).
			Where("id = ?", message.DialogID).
			Update("last_message_at", time.Now()).Error
	})
}

func (r *ChatRepositoryImpl) ListMessages(dialogID string, page, pageSize int) ([]models.ChatMessage, int64, error) {
	q := r.db.Model(&models.ChatMessage{}).Where("dialog_id = ?", dialogID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []models.ChatMessage
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&messages).Error
	return messages, total, err
}

func (r *ChatRepositoryImpl) MarkMessagesRead(dialogID, readerID string) error {
	return r.db.Model(&models.ChatMessage{}).
		Where("dialog_id = ? AND sender_id <> ? AND is_read = ?", dialogID, readerID, false).
		Update("is_read", true).Error
}

func (r *ChatRepositoryImpl) UnreadCount(dialogID, readerID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.ChatMessage{}).
		Where("dialog_id = ? AND sender_id <> ? AND is_read = ?", dialogID, readerID, false).
		Count(&count).Error
	return count, err
}
