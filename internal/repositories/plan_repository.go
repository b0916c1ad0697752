package repositories

import (
	"errors"

	"workhub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPlanNotFound = errors.New("plan not found")

type PlanRepository interface {
	Create(plan *models.Plan) error
	FindByID(id string) (*models.Plan, error)
	FindActiveByAudience(audience models.PlanAudience) ([]models.Plan, error)
	FindAll() ([]models.Plan, error)
	Update(plan *models.Plan) error
	Deactivate(id string) error
}

type PlanRepositoryImpl struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &PlanRepositoryImpl{db: db}
}

func (r *PlanRepositoryImpl) Create(plan *models.Plan) error {
	return r.db.Create(plan).Error
}

func (r *PlanRepositoryImpl) FindByID(id string) (*models.Plan, error) {
	var plan models.Plan
	if err := r.db.First(&plan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepositoryImpl) FindActiveByAudience(audience models.PlanAudience) ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.Where("audience = ? AND is_active = ?", audience, true).
		Order("price ASC").
		Find(&plans).Error
	return plans, err
}

func (r *PlanRepositoryImpl) FindAll() ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.Order("audience, price ASC").Find(&plans).Error
	return plans, err
}

func (r *PlanRepositoryImpl) Update(plan *models.Plan) error {
	return r.db.Save(plan).Error
}

// Deactivate soft-deletes the plan; issued subscriptions keep their snapshot.
func (r *PlanRepositoryImpl) Deactivate(id string) error {
	res := r.db.Model(&models.Plan{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}
