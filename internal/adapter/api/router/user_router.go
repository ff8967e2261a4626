package router

import (
	"github.com/labstack/echo/v4"

	"ikam/internal/adapter/api/handler"
	"ikam/internal/adapter/api/middleware"
	"ikam/internal/infrastructure/ratelimit"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	userHandler := handler.GetUserHandler()

	users := e.Group("/v1/users")
	users.Use(authMiddleware.Authenticate, middleware.RateLimit(limiter))

	users.GET("/me", userHandler.GetProfile)
}
