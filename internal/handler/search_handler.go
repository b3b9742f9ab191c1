package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/nearby/api/internal/category"
	"github.com/octobees/nearby/api/internal/dto"
	"github.com/octobees/nearby/api/internal/geo"
	"github.com/octobees/nearby/api/internal/search"
)

// SearchHandler exposes the nearby search endpoints.
type SearchHandler struct {
	search *search.Service
}

// NewSearchHandler creates a new handler instance.
func NewSearchHandler(search *search.Service) *SearchHandler {
	return &SearchHandler{search: search}
}

// Combined handles GET /search/nearby. A failing external provider degrades
// the response instead of failing it.
func (h *SearchHandler) Combined(c echo.Context) error {
	query, err := parseNearbyQuery(c, "category")
	if err != nil {
		return Fail(c, err)
	}

	resp, err := h.search.Nearby(c.Request().Context(), query)
	if err != nil {
		return Fail(c, err)
	}

	return SuccessWithWarnings(c, http.StatusOK, "nearby businesses", dto.NearbyResponse{
		Businesses: resp.Businesses,
		Degraded:   resp.Degraded,
	}, resp.Warnings)
}

// Internal handles GET /businesses/nearby.
func (h *SearchHandler) Internal(c echo.Context) error {
	query, err := parseNearbyQuery(c, "category")
	if err != nil {
		return Fail(c, err)
	}
	query.Sources = []search.Source{search.SourceInternal}

	resp, err := h.search.Nearby(c.Request().Context(), query)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, http.StatusOK, "nearby businesses", resp.Businesses)
}

// External handles GET /external/places. The type parameter takes an app
// category.
func (h *SearchHandler) External(c echo.Context) error {
	query, err := parseNearbyQuery(c, "type")
	if err != nil {
		return Fail(c, err)
	}
	query.Sources = []search.Source{search.SourceExternal}

	resp, err := h.search.Nearby(c.Request().Context(), query)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, http.StatusOK, "nearby places", dto.ExternalPlacesResponse{Results: resp.Businesses})
}

func parseNearbyQuery(c echo.Context, categoryParam string) (search.Query, error) {
	var query search.Query

	lat, err := requiredFloat(c.QueryParam("lat"))
	if err != nil {
		return query, fmt.Errorf("%w: lat %v", geo.ErrInvalidCoordinate, err)
	}
	lng, err := requiredFloat(c.QueryParam("lng"))
	if err != nil {
		return query, fmt.Errorf("%w: lng %v", geo.ErrInvalidCoordinate, err)
	}
	query.Center = geo.Coordinate{Lat: lat, Lng: lng}
	if err := query.Center.Validate(); err != nil {
		return query, err
	}

	if raw := strings.TrimSpace(c.QueryParam("radius")); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return query, fmt.Errorf("%w: radius must be a number of kilometers", search.ErrInvalidQuery)
		}
		query.RadiusKm = radius
	}

	if raw := strings.TrimSpace(c.QueryParam("minRating")); raw != "" {
		minRating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return query, fmt.Errorf("%w: minRating must be a number", search.ErrInvalidQuery)
		}
		query.MinRating = minRating
	}

	cat, err := category.Parse(c.QueryParam(categoryParam))
	if err != nil {
		return query, fmt.Errorf("%w: %v", search.ErrInvalidQuery, err)
	}
	query.Category = cat

	return query, nil
}

func requiredFloat(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("is required")
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("is not a number")
	}
	return value, nil
}
