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

type JobHandler struct {
	*BaseHandler
	jobService services.JobService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService) *JobHandler {
	return &JobHandler{
		BaseHandler: base,
		jobService:  jobService,
	}
}

func (h *JobHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Browsing postings needs no account.
	public := rg.Group("/jobs")
	{
		public.GET("", h.SearchJobs)
		public.GET("/:jobId", h.GetJob)
	}

	employer := rg.Group("/jobs")
	employer.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleEmployer, models.UserRoleEmployerAdmin))
	{
		employer.POST("", h.CreateJob)
		employer.PUT("/:jobId", h.UpdateJob)
		employer.DELETE("/:jobId", h.DeactivateJob)
		employer.GET("/my", h.ListMyJobs)
	}

	employee := rg.Group("/jobs")
	employee.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleEmployee))
	{
		employee.POST("/:jobId/save", h.ToggleSaved)
		employee.GET("/saved", h.ListSaved)
	}
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	callerID := middleware.GetUserID(c)
	resp, err := h.jobService.Create(c.Request.Context(), callerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	var req dto.UpdateJobRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	callerID := middleware.GetUserID(c)
	resp, err := h.jobService.Update(c.Request.Context(), callerID, c.Param("jobId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *JobHandler) DeactivateJob(c *gin.Context) {
	callerID := middleware.GetUserID(c)

	if err := h.jobService.Deactivate(c.Request.Context(), callerID, c.Param("jobId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job deactivated"})
}

func (h *JobHandler) GetJob(c *gin.Context) {
	resp, err := h.jobService.Get(c.Param("jobId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *JobHandler) SearchJobs(c *gin.Context) {
	var criteria repositories.JobSearchCriteria
	if !h.BindAndValidateQuery(c, &criteria) {
		return
	}

	resp, err := h.jobService.Search(criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *JobHandler) ListMyJobs(c *gin.Context) {
	callerID := middleware.GetUserID(c)
	page := h.QueryInt(c, "page", 1)
	pageSize := h.QueryInt(c, "page_size", 20)

	resp, err := h.jobService.ListMine(callerID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *JobHandler) ToggleSaved(c *gin.Context) {
	callerID := middleware.GetUserID(c)

	saved, err := h.jobService.ToggleSaved(callerID, c.Param("jobId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToggleResponse{Saved: saved})
}

func (h *JobHandler) ListSaved(c *gin.Context) {
	callerID := middleware.GetUserID(c)

	jobs, err := h.jobService.ListSaved(callerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}
