package router

import (
	"github.com/labstack/echo/v4"

	"ikam/internal/adapter/api/handler"
	"ikam/internal/adapter/api/middleware"
	"ikam/internal/infrastructure/ratelimit"
)

// SetupCatalogRouter exposes the browse data. No login is needed to browse.
func SetupCatalogRouter(e *echo.Echo, limiter *ratelimit.RateLimiter) {
	catalogHandler := handler.GetCatalogHandler()
	limit := middleware.RateLimit(limiter)

	e.GET("/v1/catalog", catalogHandler.Bootstrap, limit)
	e.GET("/v1/pymes", catalogHandler.ListPymes, limit)
	e.GET("/v1/pymes/:id", catalogHandler.GetPyme, limit)
	e.GET("/v1/categorias", catalogHandler.ListCategorias, limit)
	e.GET("/v1/subcategorias", catalogHandler.ListSubCategorias, limit)
	e.GET("/v1/colonias", catalogHandler.ListColonias, limit)
}
