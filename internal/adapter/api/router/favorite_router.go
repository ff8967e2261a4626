package router

import (
	"github.com/labstack/echo/v4"

	"ikam/internal/adapter/api/handler"
	"ikam/internal/adapter/api/middleware"
	"ikam/internal/infrastructure/ratelimit"
)

func SetupFavoriteRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	favoriteHandler := handler.GetFavoriteHandler()

	favorites := e.Group("/v1/favorites")
	favorites.Use(authMiddleware.Authenticate, middleware.RateLimit(limiter))

	favorites.GET("", favoriteHandler.GetFavorites)
	favorites.POST("", favoriteHandler.AddToFavorites)
	favorites.GET("/:pymeId", favoriteHandler.CheckFavorite)
	favorites.DELETE("/:pymeId", favoriteHandler.RemoveFromFavorites)
}
