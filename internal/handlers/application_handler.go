package handlers

import (
	"net/http"

	"workhub_backend/internal/middleware"
	"workhub_backend/internal/models"
	"workhub_backend/internal/repositories"
	"workhub_backend/internal/services"
	"workhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

func (h *ApplicationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	apps := rg.Group("/applications")
	apps.Use(middleware.AuthMiddleware())
	{
		apps.POST("", middleware.RequireRoles(models.UserRoleEmployee), h.Apply)
		apps.GET("/my", middleware.RequireRoles(models.UserRoleEmployee), h.ListMine)

		employerOnly := middleware.RequireRoles(models.UserRoleEmployer, models.UserRoleEmployerAdmin)
		apps.PUT("/:applicationId/status", employerOnly, h.Transition)
		apps.POST("/:applicationId/favourite", employerOnly, h.SetFavourite)

		// History is visible to the applicant and to the posting's owner.
		apps.GET("/:applicationId/history", h.History)
	}

	jobs := rg.Group("/jobs")
	jobs.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleEmployer, models.UserRoleEmployerAdmin))
	{
		jobs.GET("/:jobId/applications", h.ListByJob)
	}
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req dto.ApplyRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	callerID := middleware.GetUserID(c)
	resp, err := h.applicationService.Apply(c.Request.Context(), callerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *ApplicationHandler) Transition(c *gin.Context) {
	var req dto.TransitionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	callerID := middleware.GetUserID(c)
	resp, err := h.applicationService.Transition(c.Request.Context(), callerID, c.Param("applicationId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ApplicationHandler) SetFavourite(c *gin.Context) {
	var req dto.FavouriteRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	callerID := middleware.GetUserID(c)
	if err := h.applicationService.SetFavourite(callerID, c.Param("applicationId"), req.Favourite); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Favourite flag updated"})
}

func (h *ApplicationHandler) ListByJob(c *gin.Context) {
	var criteria repositories.ApplicationCriteria
	if !h.BindAndValidateQuery(c, &criteria) {
		return
	}

	callerID := middleware.GetUserID(c)
	apps, meta, err := h.applicationService.ListByJob(callerID, c.Param("jobId"), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": apps, "meta": meta})
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	callerID := middleware.GetUserID(c)
	page := h.QueryInt(c, "page", 1)
	pageSize := h.QueryInt(c, "page_size", 20)

	apps, meta, err := h.applicationService.ListMine(callerID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": apps, "meta": meta})
}

func (h *ApplicationHandler) History(c *gin.Context) {
	callerID := middleware.GetUserID(c)

	events, err := h.applicationService.History(callerID, c.Param("applicationId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": events})
}
