package handlers

import (
	"net/http"

	"workhub_backend/internal/middleware"
	"workhub_backend/internal/models"
	"workhub_backend/internal/services"
	"workhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	*BaseHandler
	eventService services.EventService
}

func NewEventHandler(base *BaseHandler, eventService services.EventService) *EventHandler {
	return &EventHandler{
		BaseHandler:  base,
		eventService: eventService,
	}
}

func (h *EventHandler) RegisterRoutes(rg *gin.RouterGroup) {
	events := rg.Group("/events")
	events.Use(middleware.AuthMiddleware())
	{
		events.GET("", h.ListActive)
		events.GET("/my", h.ListMyRegistrations)
		events.GET("/:eventId", h.GetEvent)
		events.POST("/:eventId/register", h.Register)

		adminOnly := middleware.RequireRoles(models.UserRoleAdmin)
		events.POST("", adminOnly, h.CreateEvent)
		events.PUT("/:eventId", adminOnly, h.UpdateEvent)
		events.DELETE("/:eventId", adminOnly, h.DeactivateEvent)
		events.GET("/:eventId/registrations", adminOnly, h.ListRegistrations)
	}
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req dto.CreateEventRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.eventService.Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	var req dto.UpdateEventRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.eventService.Update(c.Request.Context(), c.Param("eventId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *EventHandler) DeactivateEvent(c *gin.Context) {
	if err := h.eventService.Deactivate(c.Request.Context(), c.Param("eventId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deactivated"})
}

func (h *EventHandler) ListActive(c *gin.Context) {
	page := h.QueryInt(c, "page", 1)
	pageSize := h.QueryInt(c, "page_size", 20)

	events, meta, err := h.eventService.ListActive(page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events, "meta": meta})
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	resp, err := h.eventService.Get(c.Param("eventId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *EventHandler) Register(c *gin.Context) {
	callerID := middleware.GetUserID(c)

	resp, err := h.eventService.Register(c.Request.Context(), callerID, c.Param("eventId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *EventHandler) ListRegistrations(c *gin.Context) {
	registrations, err := h.eventService.ListRegistrations(c.Param("eventId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"registrations": registrations})
}

func (h *EventHandler) ListMyRegistrations(c *gin.Context) {
	callerID := middleware.GetUserID(c)

	registrations, err := h.eventService.ListMyRegistrations(callerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"registrations": registrations})
}
