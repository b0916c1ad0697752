package ws

import (
	"net/http"

	"workhub_backend/internal/logger"
	"workhub_backend/internal/middleware"
	"workhub_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Mobile clients connect from app webviews without an Origin header.
		return true
	},
}

type Handler struct {
	manager *Manager
	chat    services.ChatService
}

func NewHandler(manager *Manager, chat services.ChatService) *Handler {
	return &Handler{
		manager: manager,
		chat:    chat,
	}
}

// ServeWS upgrades the request to a websocket. The route sits behind
// the auth middleware, so the user is already identified.
func (h *Handler) ServeWS(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	client := &Client{
		userID:  userID,
		conn:    conn,
		send:    make(chan interface{}, 256),
		manager: h.manager,
		chat:    h.chat,
	}

	h.manager.register <- client

	go client.readPump()
	go client.writePump()
}
