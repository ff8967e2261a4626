package router

import (
	"github.com/labstack/echo/v4"

	"ikam/internal/adapter/api/handler"
	"ikam/internal/adapter/api/middleware"
	"ikam/internal/infrastructure/ratelimit"
)

func SetupSupportRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	supportHandler := handler.GetSupportHandler()
	limit := middleware.RateLimit(limiter)

	e.GET("/v1/preguntas", supportHandler.ListQuestions, limit)
	e.POST("/v1/preguntas", supportHandler.AskQuestion, authMiddleware.Authenticate, limit)
	e.POST("/v1/soporte", supportHandler.OpenTicket, authMiddleware.Authenticate, limit)
}
