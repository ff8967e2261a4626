package handler

import (
	"ikam/internal/usecase"
)

var (
	userHandler     *UserHandler
	favoriteHandler *FavoriteHandler
	catalogHandler  *CatalogHandler
	supportHandler  *SupportHandler
	healthHandler   *HealthHandler
)

func Setup(
	userUseCase *usecase.UserUseCase,
	favoriteUseCase *usecase.FavoriteUseCase,
	catalogUseCase *usecase.CatalogUseCase,
	supportUseCase *usecase.SupportUseCase,
	auth ConnectionTester,
) {
	userHandler = NewUserHandler(userUseCase)
	favoriteHandler = NewFavoriteHandler(favoriteUseCase)
	catalogHandler = NewCatalogHandler(catalogUseCase)
	supportHandler = NewSupportHandler(supportUseCase)
	healthHandler = NewHealthHandler(auth)
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetFavoriteHandler() *FavoriteHandler {
	return favoriteHandler
}

func GetCatalogHandler() *CatalogHandler {
	return catalogHandler
}

func GetSupportHandler() *SupportHandler {
	return supportHandler
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}
