package services

import (
	"encoding/json"

	"workhub_backend/internal/models"
	"workhub_backend/internal/repositories"
	"workhub_backend/internal/services/dto"
	"workhub_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

type PlanService interface {
	ListForAudience(audience models.PlanAudience) ([]dto.PlanResponse, error)
	ListAll() ([]dto.PlanResponse, error)
	Get(planID string) (*dto.PlanResponse, error)
	Create(req *dto.CreatePlanRequest) (*dto.PlanResponse, error)
	Update(planID string, req *dto.UpdatePlanRequest) (*dto.PlanResponse, error)
	Deactivate(planID string) error
}

type planService struct {
	planRepo repositories.PlanRepository
}

func NewPlanService(planRepo repositories.PlanRepository) PlanService {
	return &planService{planRepo: planRepo}
}

func (s *planService) ListForAudience(audience models.PlanAudience) ([]dto.PlanResponse, error) {
	plans, err := s.planRepo.FindActiveByAudience(audience)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toPlanResponses(plans), nil
}

func (s *planService) ListAll() ([]dto.PlanResponse, error) {
	plans, err := s.planRepo.FindAll()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toPlanResponses(plans), nil
}

func (s *planService) Get(planID string) (*dto.PlanResponse, error) {
	plan, err := s.findPlan(planID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromPlan(plan)
	return &resp, nil
}

func (s *planService) Create(req *dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	plan := &models.Plan{
		Name:            req.Name,
		Audience:        models.PlanAudience(req.Audience),
		Price:           req.Price,
		Currency:        req.Currency,
		ValidityDays:    req.ValidityDays,
		IsActive:        true,
		DailyLimit:      req.DailyLimit,
		ProfileViews:    req.ProfileViews,
		ResumeDownloads: req.ResumeDownloads,
		JobPostingLimit: req.JobPostingLimit,
	}

	if req.Features != nil {
		raw, err := json.Marshal(req.Features)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		plan.Features = datatypes.JSON(raw)
	}

	if err := s.planRepo.Create(plan); err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.FromPlan(plan)
	return &resp, nil
}

// Update edits the plan template. Subscriptions issued earlier keep their
// frozen snapshot and are not affected.
func (s *planService) Update(planID string, req *dto.UpdatePlanRequest) (*dto.PlanResponse, error) {
	plan, err := s.findPlan(planID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		plan.Name = *req.Name
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}
	if req.Currency != nil {
		plan.Currency = *req.Currency
	}
	if req.ValidityDays != nil {
		plan.ValidityDays = *req.ValidityDays
	}
	if req.Features != nil {
		raw, err := json.Marshal(req.Features)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		plan.Features = datatypes.JSON(raw)
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
	if req.DailyLimit != nil {
		plan.DailyLimit = *req.DailyLimit
	}
	if req.ProfileViews != nil {
		plan.ProfileViews = *req.ProfileViews
	}
	if req.ResumeDownloads != nil {
		plan.ResumeDownloads = *req.ResumeDownloads
	}
	if req.JobPostingLimit != nil {
		plan.JobPostingLimit = *req.JobPostingLimit
	}

	if err := s.planRepo.Update(plan); err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.FromPlan(plan)
	return &resp, nil
}

func (s *planService) Deactivate(planID string) error {
	if err := s.planRepo.Deactivate(planID); err != nil {
		if apperrors.Is(err, repositories.ErrPlanNotFound) {
			return apperrors.ErrNotFound(err, "plan")
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *planService) findPlan(id string) (*models.Plan, error) {
	plan, err := s.planRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPlanNotFound) {
			return nil, apperrors.ErrNotFound(err, "plan")
		}
		return nil, apperrors.InternalError(err)
	}
	return plan, nil
}

func toPlanResponses(plans []models.Plan) []dto.PlanResponse {
	resp := make([]dto.PlanResponse, 0, len(plans))
	for i := range plans {
		resp = append(resp, dto.FromPlan(&plans[i]))
	}
	return resp
}
