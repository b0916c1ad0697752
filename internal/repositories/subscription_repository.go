package repositories

import (
	"errors"
	"time"

	"workhub_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrOrderNotFound        = errors.New("payment order not found")
)

type SubscriptionRepository interface {
	Create(sub *models.Subscription) error
	FindActiveByUser(userID string) (*models.Subscription, error)
	FindHistoryByUser(userID string) ([]models.Subscription, error)

	// ExpireDue marks active subscriptions whose end date has passed as
	// expired, in one UPDATE, and returns their owners' user ids.
	ExpireDue(now time.Time) ([]string, error)

	// FindActiveTrialsStartedBefore returns active trial subscriptions whose
	// start date is older than the cutoff.
	FindActiveTrialsStartedBefore(cutoff time.Time) ([]models.Subscription, error)

	// FindExpiringBetween returns active subscriptions ending inside the window.
	FindExpiringBetween(from, to time.Time) ([]models.Subscription, error)

	Expire(id string) error

	// Payment orders
	CreateOrder(order *models.PaymentOrder) error
	FindOrderByOrderID(orderID string) (*models.PaymentOrder, error)
	MarkOrderPaid(orderID string, paidAt time.Time) error
	MarkOrderFailed(orderID string) error
}

type SubscriptionRepositoryImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &SubscriptionRepositoryImpl{db: db}
}

func (r *SubscriptionRepositoryImpl) Create(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *SubscriptionRepositoryImpl) FindActiveByUser(userID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("user_id = ? AND status = ?", userID, models.SubscriptionStatusActive).
		Order("end_date DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepositoryImpl) FindHistoryByUser(userID string) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subs).Error
	return subs, err
}

func (r *SubscriptionRepositoryImpl) ExpireDue(now time.Time) ([]string, error) {
	var due []models.Subscription
	err := r.db.Where("status = ? AND end_date < ?", models.SubscriptionStatusActive, now).
		Find(&due).Error
	if err != nil {
		return nil, err
	}
	if len(due) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(due))
	owners := make([]string, 0, len(due))
	for _, s := range due {
		ids = append(ids, s.ID)
		owners = append(owners, s.UserID)
	}

	err = r.db.Model(&models.Subscription{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":     models.SubscriptionStatusExpired,
			"updated_at": now,
		}).Error
	if err != nil {
		return nil, err
	}
	return owners, nil
}

func (r *SubscriptionRepositoryImpl) FindActiveTrialsStartedBefore(cutoff time.Time) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Where("status = ? AND is_trial = ? AND start_date < ?",
		models.SubscriptionStatusActive, true, cutoff).
		Find(&subs).Error
	return subs, err
}

func (r *SubscriptionRepositoryImpl) FindExpiringBetween(from, to time.Time) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Where("status = ? AND end_date BETWEEN ? AND ?",
		models.SubscriptionStatusActive, from, to).
		Find(&subs).Error
	return subs, err
}

func (r *SubscriptionRepositoryImpl) Expire(id string) error {
	res := r.db.Model(&models.Subscription{}).
		Where("id = ?", id).
		Update("status", models.SubscriptionStatusExpired)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// --- Payment orders ---

func (r *SubscriptionRepositoryImpl) CreateOrder(order *models.PaymentOrder) error {
	return r.db.Create(order).Error
}

func (r *SubscriptionRepositoryImpl) FindOrderByOrderID(orderID string) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	if err := r.db.First(&order, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *SubscriptionRepositoryImpl) MarkOrderPaid(orderID string, paidAt time.Time) error {
	res := r.db.Model(&models.PaymentOrder{}).
		Where("order_id = ? AND status = ?", orderID, models.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":  models.PaymentStatusPaid,
			"paid_at": paidAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) MarkOrderFailed(orderID string) error {
	res := r.db.Model(&models.PaymentOrder{}).
		Where("order_id = ?", orderID).
		Update("status", models.PaymentStatusFailed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
