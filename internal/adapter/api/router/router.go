package router

import (
	"github.com/labstack/echo/v4"

	"ikam/internal/adapter/api/middleware"
	"ikam/internal/infrastructure/ratelimit"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	SetupUserRouter(e, authMiddleware, limiter)
	SetupFavoriteRouter(e, authMiddleware, limiter)
	SetupCatalogRouter(e, limiter)
	SetupSupportRouter(e, authMiddleware, limiter)
	SetupHealthRouter(e)
}
