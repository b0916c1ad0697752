package handlers

import (
	"net/http"

	"workhub_backend/internal/middleware"
	"workhub_backend/internal/models"
	"workhub_backend/internal/services"
	"workhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	*BaseHandler
	planService services.PlanService
}

func NewPlanHandler(base *BaseHandler, planService services.PlanService) *PlanHandler {
	return &PlanHandler{
		BaseHandler: base,
		planService: planService,
	}
}

func (h *PlanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	plans := rg.Group("/plans")
	plans.Use(middleware.AuthMiddleware())
	{
		plans.GET("", h.ListPlans)
		plans.GET("/:planId", h.GetPlan)
	}

	admin := rg.Group("/admin/plans")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("", h.ListAllPlans)
		admin.POST("", h.CreatePlan)
		admin.PUT("/:planId", h.UpdatePlan)
		admin.DELETE("/:planId", h.DeactivatePlan)
	}
}

// ListPlans returns the active plans for the caller's side of the
// marketplace. Employer admins see the employer catalog.
func (h *PlanHandler) ListPlans(c *gin.Context) {
	audience := models.PlanAudienceEmployee
	switch middleware.GetRole(c) {
	case models.UserRoleEmployer, models.UserRoleEmployerAdmin:
		audience = models.PlanAudienceEmployer
	}

	plans, err := h.planService.ListForAudience(audience)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	resp, err := h.planService.Get(c.Param("planId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PlanHandler) ListAllPlans(c *gin.Context) {
	plans, err := h.planService.ListAll()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req dto.CreatePlanRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.planService.Create(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	var req dto.UpdatePlanRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.planService.Update(c.Param("planId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PlanHandler) DeactivatePlan(c *gin.Context) {
	if err := h.planService.Deactivate(c.Param("planId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Plan deactivated"})
}
