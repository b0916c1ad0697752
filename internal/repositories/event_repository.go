package repositories

import (
	"errors"
	"time"

	"workhub_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrAlreadyRegistered = errors.New("already registered for this event")
)

type EventRepository interface {
	Create(event *models.Event) error
	FindByID(id string) (*models.Event, error)
	ListActive(page, pageSize int) ([]models.Event, int64, error)
	Update(event *models.Event) error
	Deactivate(id string) error

	Register(reg *models.EventRegistration) error
	ListRegistrations(eventID string) ([]models.EventRegistration, error)
	ListRegistrationsByUser(userID string) ([]models.EventRegistration, error)
	FindStartingBetween(from, to time.Time) ([]models.Event, error)
}

type EventRepositoryImpl struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &EventRepositoryImpl{db: db}
}

func (r *EventRepositoryImpl) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

func (r *EventRepositoryImpl) FindByID(id string) (*models.Event, error) {
	var event models.Event
	if err := r.db.First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) ListActive(page, pageSize int) ([]models.Event, int64, error) {
	q := r.db.Model(&models.Event{}).Where("is_active = ?", true)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.Event
	err := q.Order("starts_at ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&events).Error
	return events, total, err
}

func (r *EventRepositoryImpl) Update(event *models.Event) error {
	return r.db.Save(event).Error
}

func (r *EventRepositoryImpl) Deactivate(id string) error {
	res := r.db.Model(&models.Event{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *EventRepositoryImpl) Register(reg *models.EventRegistration) error {
	var count int64
	err := r.db.Model(&models.EventRegistration{}).
		Where("event_id = ? AND user_id = ?", reg.EventID, reg.UserID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyRegistered
	}
	return r.db.Create(reg).Error
}

func (r *EventRepositoryImpl) ListRegistrations(eventID string) ([]models.EventRegistration, error) {
	var regs []models.EventRegistration
	err := r.db.Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&regs).Error
	return regs, err
}

func (r *EventRepositoryImpl) ListRegistrationsByUser(userID string) ([]models.EventRegistration, error) {
	var regs []models.EventRegistration
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&regs).Error
	return regs, err
}

func (r *EventRepositoryImpl) FindStartingBetween(from, to time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Where("is_active = ? AND starts_at BETWEEN ? AND ?", true, from, to).
		Find(&events).Error
	return events, err
}
