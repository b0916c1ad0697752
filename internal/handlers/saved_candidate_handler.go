package handlers

import (
	"net/http"

	"workhub_backend/internal/middleware"
	"workhub_backend/internal/models"
	"workhub_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type SavedCandidateHandler struct {
	*BaseHandler
	savedService services.SavedCandidateService
}

func NewSavedCandidateHandler(base *BaseHandler, savedService services.SavedCandidateService) *SavedCandidateHandler {
	return &SavedCandidateHandler{
		BaseHandler:  base,
		savedService: savedService,
	}
}

func (h *SavedCandidateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	saved := rg.Group("/saved-candidates")
	saved.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleEmployer, models.UserRoleEmployerAdmin))
	{
		saved.POST("/:candidateId", h.Toggle)
		saved.GET("", h.List)
	}
}

func (h *SavedCandidateHandler) Toggle(c *gin.Context) {
	callerID := middleware.GetUserID(c)

	saved, err := h.savedService.Toggle(callerID, c.Param("candidateId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

func (h *SavedCandidateHandler) List(c *gin.Context) {
	callerID := middleware.GetUserID(c)
	page := h.QueryInt(c, "page", 1)
	pageSize := h.QueryInt(c, "page_size", 20)

	candidates, meta, err := h.savedService.List(callerID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"candidates": candidates, "meta": meta})
}
