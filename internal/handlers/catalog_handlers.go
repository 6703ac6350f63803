package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"rentwheels/internal/services"
)

type CatalogHandler struct {
	catalog *services.CatalogService
}

func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListCars returns the bookable fleet, cheapest first
func (h *CatalogHandler) ListCars(c echo.Context) error {
	cars, err := h.catalog.ListActiveCars(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch cars")
	}
	return c.JSON(http.StatusOK, cars)
}
