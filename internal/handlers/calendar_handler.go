package handlers

import (
	"net/http"

	"workhub_backend/internal/middleware"
	"workhub_backend/internal/services"
	"workhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type CalendarHandler struct {
	*BaseHandler
	calendarService services.CalendarService
}

func NewCalendarHandler(base *BaseHandler, calendarService services.CalendarService) *CalendarHandler {
	return &CalendarHandler{
		BaseHandler:     base,
		calendarService: calendarService,
	}
}

func (h *CalendarHandler) RegisterRoutes(rg *gin.RouterGroup) {
	calendar := rg.Group("/calendar")
	calendar.Use(middleware.AuthMiddleware())
	{
		calendar.POST("/events", h.CreateEvent)
		calendar.GET("/events", h.ListEvents)
		calendar.PUT("/events/:eventId", h.UpdateEvent)
		calendar.DELETE("/events/:eventId", h.DeleteEvent)
	}
}

func (h *CalendarHandler) CreateEvent(c *gin.Context) {
	var req dto.CalendarEventRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	callerID := middleware.GetUserID(c)
	resp, err := h.calendarService.Create(callerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *CalendarHandler) ListEvents(c *gin.Context) {
	var query dto.CalendarRangeQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	callerID := middleware.GetUserID(c)
	events, err := h.calendarService.ListBetween(callerID, query.From, query.To)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *CalendarHandler) UpdateEvent(c *gin.Context) {
	var req dto.CalendarEventRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	callerID := middleware.GetUserID(c)
	resp, err := h.calendarService.Update(callerID, c.Param("eventId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CalendarHandler) DeleteEvent(c *gin.Context) {
	callerID := middleware.GetUserID(c)

	if err := h.calendarService.Delete(callerID, c.Param("eventId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}
