package routes

import (
	"workhub_backend/internal/handlers"
	"workhub_backend/internal/logger"
	"workhub_backend/internal/middleware"
	"workhub_backend/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every HTTP and WebSocket route onto the engine.
func RegisterRoutes(router *gin.Engine, appHandlers *handlers.AppHandlers, wsHandler *ws.Handler) {
	api := router.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.UserHandler.RegisterRoutes(api)
		appHandlers.PlanHandler.RegisterRoutes(api)
		appHandlers.SubscriptionHandler.RegisterRoutes(api)
		appHandlers.JobHandler.RegisterRoutes(api)
		appHandlers.ApplicationHandler.RegisterRoutes(api)
		appHandlers.NotificationHandler.RegisterRoutes(api)
		appHandlers.ChatHandler.RegisterRoutes(api)
		appHandlers.HelpDeskHandler.RegisterRoutes(api)
		appHandlers.SavedCandidateHandler.RegisterRoutes(api)
		appHandlers.CalendarHandler.RegisterRoutes(api)
		appHandlers.EventHandler.RegisterRoutes(api)
		appHandlers.UploadHandler.RegisterRoutes(api)
	}

	wsGroup := router.Group("/ws")
	wsGroup.Use(middleware.AuthMiddleware())
	{
		wsGroup.GET("", wsHandler.ServeWS)
	}
	logger.Info("WebSocket route /ws registered")
}
