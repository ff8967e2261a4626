package router

import (
	"github.com/labstack/echo/v4"

	"ikam/internal/adapter/api/handler"
	"ikam/internal/adapter/api/middleware"
	"ikam/internal/infrastructure/ratelimit"
)

// SetupChatRouter sets up the REST chat routes. Live updates go through /ws.
func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	chatGroup := e.Group("/v1/chats")
	chatGroup.Use(authMiddleware.Authenticate, middleware.RateLimit(limiter))

	chatGroup.POST("", chatHandler.StartChat)              // POST /v1/chats - Ensure chat with a pyme, optional first message
	chatGroup.GET("", chatHandler.GetUserChats)            // GET /v1/chats - Client and business conversations
	chatGroup.GET("/unread", chatHandler.GetUnreadTotal)   // GET /v1/chats/unread - Badge total
	chatGroup.PUT("/:id/read", chatHandler.MarkChatAsRead) // PUT /v1/chats/:id/read - Reset own counter

	chatGroup.POST("/:id/messages", chatHandler.SendMessage)
	chatGroup.GET("/:id/messages", chatHandler.GetChatMessages)
}
