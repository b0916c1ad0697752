package handlers

import (
	"net/http"

	"workhub_backend/internal/middleware"
	"workhub_backend/internal/services"
	"workhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	*BaseHandler
	chatService services.ChatService
}

func NewChatHandler(base *BaseHandler, chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		BaseHandler: base,
		chatService: chatService,
	}
}

func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	chat := rg.Group("/chat")
	chat.Use(middleware.AuthMiddleware())
	{
		chat.POST("/dialogs", h.StartDialog)
		chat.GET("/dialogs", h.ListDialogs)
		chat.POST("/dialogs/:dialogId/messages", h.SendMessage)
		chat.GET("/dialogs/:dialogId/messages", h.ListMessages)
	}
}

func (h *ChatHandler) StartDialog(c *gin.Context) {
	var req dto.StartDialogRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	callerID := middleware.GetUserID(c)
	resp, err := h.chatService.StartDialog(c.Request.Context(), callerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ChatHandler) ListDialogs(c *gin.Context) {
	callerID := middleware.GetUserID(c)

	dialogs, err := h.chatService.ListDialogs(callerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dialogs": dialogs})
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	callerID := middleware.GetUserID(c)
	resp, err := h.chatService.SendMessage(c.Request.Context(), callerID, c.Param("dialogId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	callerID := middleware.GetUserID(c)
	page := h.QueryInt(c, "page", 1)
	pageSize := h.QueryInt(c, "page_size", 50)

	messages, meta, err := h.chatService.ListMessages(callerID, c.Param("dialogId"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "meta": meta})
}
