package handler

import (
	"github.com/labstack/echo/v4"

	"ikam/internal/usecase"
	"ikam/pkg/response"
	"ikam/pkg/utils"
)

type CatalogHandler struct {
	catalogUseCase *usecase.CatalogUseCase
}

func NewCatalogHandler(catalogUseCase *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{
		catalogUseCase: catalogUseCase,
	}
}

func (h *CatalogHandler) ListPymes(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	pymes, err := h.catalogUseCase.ListPymes(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, utils.Page(pymes, params), int64(len(pymes)), params.Page, params.PageSize)
}

func (h *CatalogHandler) GetPyme(c echo.Context) error {
	pyme, err := h.catalogUseCase.GetPymeDetails(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, pyme)
}

func (h *CatalogHandler) ListCategorias(c echo.Context) error {
	categorias, err := h.catalogUseCase.ListCategorias(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, categorias)
}

// ListSubCategorias narrows to one categoria when ?categoria= is given.
func (h *CatalogHandler) ListSubCategorias(c echo.Context) error {
	subCategorias, err := h.catalogUseCase.ListSubCategorias(c.Request().Context(), c.QueryParam("categoria"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, subCategorias)
}

func (h *CatalogHandler) ListColonias(c echo.Context) error {
	colonias, err := h.catalogUseCase.ListColonias(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, colonias)
}

func (h *CatalogHandler) Bootstrap(c echo.Context) error {
	snapshot, err := h.catalogUseCase.Bootstrap(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, snapshot)
}
