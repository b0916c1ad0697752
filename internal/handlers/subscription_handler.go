package handlers

import (
	"fmt"
	"net/http"

	"workhub_backend/internal/middleware"
	"workhub_backend/internal/services"
	"workhub_backend/internal/services/dto"
	"workhub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	*BaseHandler
	entitlements services.EntitlementService
}

func NewSubscriptionHandler(base *BaseHandler, entitlements services.EntitlementService) *SubscriptionHandler {
	return &SubscriptionHandler{
		BaseHandler:  base,
		entitlements: entitlements,
	}
}

func (h *SubscriptionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	subs := rg.Group("/subscriptions")
	subs.Use(middleware.AuthMiddleware())
	{
		subs.POST("/activate-free", h.ActivateFreePlan)
		subs.POST("/checkout", h.Checkout)
		subs.GET("/current", h.Current)
		subs.GET("/history", h.History)
	}

	// The gateway posts the payment result here; authenticity comes from
	// the signature, not from a session.
	payments := rg.Group("/payments")
	{
		payments.POST("/callback", h.PaymentCallback)
	}
}

func (h *SubscriptionHandler) ActivateFreePlan(c *gin.Context) {
	var req dto.ActivateRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	userID := middleware.GetUserID(c)
	resp, err := h.entitlements.ActivateFreePlan(c.Request.Context(), userID, req.PlanID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *SubscriptionHandler) Checkout(c *gin.Context) {
	var req dto.ActivateRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	userID := middleware.GetUserID(c)
	resp, err := h.entitlements.Checkout(c.Request.Context(), userID, req.PlanID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *SubscriptionHandler) PaymentCallback(c *gin.Context) {
	var req dto.PaymentCallbackRequest
	if err := c.ShouldBind(&req); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid callback payload: "+err.Error()))
		return
	}

	if err := h.entitlements.HandlePaymentCallback(c.Request.Context(), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	// The gateway expects this exact acknowledgement body.
	c.String(http.StatusOK, fmt.Sprintf("OK%s", req.InvID))
}

func (h *SubscriptionHandler) Current(c *gin.Context) {
	userID := middleware.GetUserID(c)

	resp, err := h.entitlements.Current(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *SubscriptionHandler) History(c *gin.Context) {
	userID := middleware.GetUserID(c)

	history, err := h.entitlements.History(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": history})
}
