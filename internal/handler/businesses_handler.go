package handler

import (
	"math"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/nearby/api/internal/dto"
	"github.com/octobees/nearby/api/internal/middleware"
	"github.com/octobees/nearby/api/internal/service"
)

// BusinessesHandler exposes internal listing and review endpoints.
type BusinessesHandler struct {
	businesses *service.BusinessService
	reviews    *service.ReviewService
}

// NewBusinessesHandler creates a new handler instance.
func NewBusinessesHandler(businesses *service.BusinessService, reviews *service.ReviewService) *BusinessesHandler {
	return &BusinessesHandler{businesses: businesses, reviews: reviews}
}

// Get handles GET /businesses/:id.
func (h *BusinessesHandler) Get(c echo.Context) error {
	detail, err := h.businesses.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, http.StatusOK, "", detail)
}

// Create handles POST /businesses.
func (h *BusinessesHandler) Create(c echo.Context) error {
	var req dto.BusinessRequest
	if err := bindAndValidate(c, &req); err != nil {
		return Fail(c, err)
	}

	business, err := h.businesses.Create(c.Request().Context(), middleware.IdentityFromContext(c), listingInput(req))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, http.StatusCreated, "business created", business)
}

// Update handles PUT /businesses/:id.
func (h *BusinessesHandler) Update(c echo.Context) error {
	var req dto.BusinessRequest
	if err := bindAndValidate(c, &req); err != nil {
		return Fail(c, err)
	}

	business, err := h.businesses.Update(c.Request().Context(), middleware.IdentityFromContext(c), c.Param("id"), listingInput(req))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, http.StatusOK, "business updated", business)
}

// ListReviews handles GET /businesses/:id/reviews.
func (h *BusinessesHandler) ListReviews(c echo.Context) error {
	reviews, summary, err := h.reviews.ListForBusiness(c.Request().Context(), c.Param("id"))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, http.StatusOK, "", dto.ReviewListResponse{Summary: summary, Reviews: reviews})
}

// CreateReview handles POST /businesses/:id/reviews.
func (h *BusinessesHandler) CreateReview(c echo.Context) error {
	var req dto.ReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return Fail(c, err)
	}

	review, err := h.reviews.SubmitForBusiness(c.Request().Context(), middleware.IdentityFromContext(c), c.Param("id"), reviewInput(req))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, http.StatusCreated, "review created", review)
}

func listingInput(req dto.BusinessRequest) service.ListingInput {
	in := service.ListingInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		Website:     req.Website,
		Photos:      req.Photos,
	}
	if req.Latitude != nil {
		in.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		in.Longitude = *req.Longitude
	}
	return in
}

// reviewInput leaves range checks to the review service. A missing rating is
// zero and an unreadable one is NaN.
func reviewInput(req dto.ReviewRequest) service.ReviewInput {
	value := 0.0
	if req.Rating != "" {
		parsed, err := req.Rating.Float64()
		if err != nil {
			parsed = math.NaN()
		}
		value = parsed
	}
	return service.ReviewInput{Rating: value, Comment: req.Comment, UserName: req.UserName}
}
