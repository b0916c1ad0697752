package repositories

import (
	"errors"
	"time"

	"workhub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Notification type tags
const (
	NotificationTypeApplicationStatus   = "application_status"
	NotificationTypeNewApplication      = "new_application"
	NotificationTypePlanUpgrade         = "plan_upgrade"
	NotificationTypeSubscriptionExpired = "subscription_expired"
	NotificationTypeExpiringSoon        = "subscription_expiring"
	NotificationTypeNewMessage          = "new_message"
	NotificationTypeInterviewReminder   = "interview_reminder"
	NotificationTypeDeadlineReminder    = "deadline_reminder"
	NotificationTypeEventReminder       = "event_reminder"
	NotificationTypeDailyDigest         = "daily_digest"
	NotificationTypeHelpDesk            = "help_desk"
)

// NotificationCriteria filters a user's notification listing.
type NotificationCriteria struct {
	UnreadOnly bool   `form:"unread_only"`
	Type       string `form:"type"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type NotificationRepository interface {
	Create(notification *models.Notification) error
	FindByID(id string) (*models.Notification, error)
	ListByUser(userID string, criteria NotificationCriteria) ([]models.Notification, int64, error)
	// MarkRead sets the read flag once; a second call leaves read_at unchanged.
	MarkRead(id string, at time.Time) error
	MarkAllRead(userID string, at time.Time) error
	UnreadCount(userID string) (int64, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindByID(id string) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepositoryImpl) ListByUser(userID string, criteria NotificationCriteria) ([]models.Notification, int64, error) {
	q := r.db.Model(&models.Notification{}).Where("user_id = ?", userID)

	if criteria.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if criteria.Type != "" {
		q = q.Where("type = ?", criteria.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	err := q.Order("created_at DESC").
		Offset((criteria.Page - 1) * criteria.PageSize).
		Limit(criteria.PageSize).
		Find(&notifications).Error
	return notifications, total, err
}

func (r *NotificationRepositoryImpl) MarkRead(id string, at time.Time) error {
	// The is_read guard makes repeat calls no-ops so read_at keeps the
	// first-read timestamp.
	res := r.db.Model(&models.Notification{}).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&models.Notification{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotificationNotFound
		}
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllRead(userID string, at time.Time) error {
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": at,
		}).Error
}

func (r *NotificationRepositoryImpl) UnreadCount(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res := r.db.Delete(&models.Notification{}, "created_at < ?", cutoff)
	return res.RowsAffected, res.Error
}
