package handlers

import (
	"net/http"

	"workhub_backend/internal/middleware"
	"workhub_backend/internal/models"
	"workhub_backend/internal/services"
	"workhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type HelpDeskHandler struct {
	*BaseHandler
	helpService services.HelpDeskService
}

func NewHelpDeskHandler(base *BaseHandler, helpService services.HelpDeskService) *HelpDeskHandler {
	return &HelpDeskHandler{
		BaseHandler: base,
		helpService: helpService,
	}
}

func (h *HelpDeskHandler) RegisterRoutes(rg *gin.RouterGroup) {
	help := rg.Group("/helpdesk")
	help.Use(middleware.AuthMiddleware())
	{
		help.POST("/sessions", h.CreateSession)
		help.GET("/sessions/my", h.ListMySessions)
		help.POST("/sessions/:sessionId/messages", h.SendMessage)
		help.GET("/sessions/:sessionId/messages", h.ListMessages)

		adminOnly := middleware.RequireRoles(models.UserRoleAdmin)
		help.GET("/sessions", adminOnly, h.ListByStatus)
		help.POST("/sessions/:sessionId/claim", adminOnly, h.ClaimSession)
		help.POST("/sessions/:sessionId/resolve", adminOnly, h.ResolveSession)
	}
}

func (h *HelpDeskHandler) CreateSession(c *gin.Context) {
	var req dto.CreateHelpSessionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	callerID := middleware.GetUserID(c)
	resp, err := h.helpService.CreateSession(c.Request.Context(), callerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *HelpDeskHandler) ListMySessions(c *gin.Context) {
	callerID := middleware.GetUserID(c)

	sessions, err := h.helpService.ListMine(callerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *HelpDeskHandler) ListByStatus(c *gin.Context) {
	status := models.HelpSessionStatus(c.DefaultQuery("status", string(models.HelpSessionOpen)))

	sessions, err := h.helpService.ListByStatus(status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *HelpDeskHandler) ClaimSession(c *gin.Context) {
	adminID := middleware.GetUserID(c)

	if err := h.helpService.ClaimSession(c.Request.Context(), adminID, c.Param("sessionId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session claimed"})
}

func (h *HelpDeskHandler) ResolveSession(c *gin.Context) {
	adminID := middleware.GetUserID(c)

	if err := h.helpService.ResolveSession(c.Request.Context(), adminID, c.Param("sessionId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session resolved"})
}

func (h *HelpDeskHandler) SendMessage(c *gin.Context) {
	var req dto.HelpMessageRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	callerID := middleware.GetUserID(c)
	fromAdmin := middleware.GetRole(c) == models.UserRoleAdmin

	resp, err := h.helpService.SendMessage(c.Request.Context(), callerID, c.Param("sessionId"), fromAdmin, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *HelpDeskHandler) ListMessages(c *gin.Context) {
	callerID := middleware.GetUserID(c)
	isAdmin := middleware.GetRole(c) == models.UserRoleAdmin

	messages, err := h.helpService.ListMessages(callerID, c.Param("sessionId"), isAdmin)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
