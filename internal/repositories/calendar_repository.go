package repositories

import (
	"errors"
	"time"

	"workhub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrCalendarEventNotFound = errors.New("calendar event not found")

type CalendarRepository interface {
	Create(event *models.CalendarEvent) error
	FindByID(id string) (*models.CalendarEvent, error)
	ListByUserBetween(userID string, from, to time.Time) ([]models.CalendarEvent, error)
	Update(event *models.CalendarEvent) error
	Delete(id, userID string) error
}

type CalendarRepositoryImpl struct {
	db *gorm.DB
}

func NewCalendarRepository(db *gorm.DB) CalendarRepository {
	return &CalendarRepositoryImpl{db: db}
}

func (r *CalendarRepositoryImpl) Create(event *models.CalendarEvent) error {
	return r.db.Create(event).Error
}

func (r *CalendarRepositoryImpl) FindByID(id string) (*models.CalendarEvent, error) {
	var event models.CalendarEvent
	if err := r.db.First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCalendarEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *CalendarRepositoryImpl) ListByUserBetween(userID string, from, to time.Time) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	err := r.db.Where("user_id = ? AND starts_at BETWEEN ? AND ?", userID, from, to).
		Order("starts_at ASC").
		Find(&events).Error
	return events, err
}

func (r *CalendarRepositoryImpl) Update(event *models.CalendarEvent) error {
	return r.db.Save(event).Error
}

func (r *CalendarRepositoryImpl) Delete(id, userID string) error {
	res := r.db.Delete(&models.CalendarEvent{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCalendarEventNotFound
	}
	return nil
}
