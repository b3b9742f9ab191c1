package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/nearby/api/internal/dto"
	"github.com/octobees/nearby/api/internal/middleware"
	"github.com/octobees/nearby/api/internal/service"
)

// FavoritesHandler exposes the caller's favorites.
type FavoritesHandler struct {
	favorites *service.FavoriteService
}

// NewFavoritesHandler creates a new handler instance.
func NewFavoritesHandler(favorites *service.FavoriteService) *FavoritesHandler {
	return &FavoritesHandler{favorites: favorites}
}

// List handles GET /favorites.
func (h *FavoritesHandler) List(c echo.Context) error {
	favorites, err := h.favorites.List(c.Request().Context(), middleware.IdentityFromContext(c))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, http.StatusOK, "", favorites)
}

// Toggle handles POST /favorites/:businessId.
func (h *FavoritesHandler) Toggle(c echo.Context) error {
	businessID := strings.TrimSpace(c.Param("businessId"))
	favorite, err := h.favorites.Toggle(c.Request().Context(), middleware.IdentityFromContext(c), businessID)
	if err != nil {
		return Fail(c, err)
	}

	message := "favorite removed"
	if favorite {
		message = "favorite added"
	}
	return Success(c, http.StatusOK, message, dto.FavoriteToggleResponse{BusinessID: businessID, Favorite: favorite})
}
