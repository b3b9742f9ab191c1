package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/nearby/api/internal/dto"
	"github.com/octobees/nearby/api/internal/middleware"
	"github.com/octobees/nearby/api/internal/service"
)

// PlacesHandler exposes external place details and place reviews.
type PlacesHandler struct {
	places  *service.PlacesService
	reviews *service.ReviewService
}

// NewPlacesHandler creates a new handler instance.
func NewPlacesHandler(places *service.PlacesService, reviews *service.ReviewService) *PlacesHandler {
	return &PlacesHandler{places: places, reviews: reviews}
}

// Details handles GET /external/places/:id. Provider reviews are included
// unless providerReviews=false.
func (h *PlacesHandler) Details(c echo.Context) error {
	includeProvider := true
	if raw := strings.TrimSpace(c.QueryParam("providerReviews")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return Error(c, http.StatusBadRequest, "providerReviews must be true or false")
		}
		includeProvider = parsed
	}

	detail, err := h.places.Details(c.Request().Context(), c.Param("id"), includeProvider)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, http.StatusOK, "", detail)
}

// CreateReview handles POST /external/reviews/:businessId.
func (h *PlacesHandler) CreateReview(c echo.Context) error {
	var req dto.ReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return Fail(c, err)
	}

	review, err := h.reviews.SubmitForPlace(c.Request().Context(), middleware.IdentityFromContext(c), c.Param("businessId"), reviewInput(req))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, http.StatusCreated, "review created", review)
}
