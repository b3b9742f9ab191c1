package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/octobees/nearby/api/internal/geo"
	"github.com/octobees/nearby/api/internal/middleware"
	"github.com/octobees/nearby/api/internal/search"
	"github.com/octobees/nearby/api/internal/service"
)

// Error kinds rendered in the envelope.
const (
	KindInvalidCoordinate   = "invalid_coordinate"
	KindInvalidRequest      = "invalid_request"
	KindReviewValidation    = "review_validation_failed"
	KindExternalUnavailable = "external_provider_unavailable"
	KindInternalUnavailable = "internal_store_unavailable"
	KindNotFound            = "not_found"
	KindForbidden           = "forbidden"
	KindUnauthorized        = "unauthorized"
	KindConflict            = "conflict"
	KindInternal            = "internal"
)

// APIResponse describes the standard envelope returned by the API.
type APIResponse struct {
	Status   string   `json:"status"`
	Message  string   `json:"message,omitempty"`
	Kind     string   `json:"kind,omitempty"`
	Data     any      `json:"data,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, message string, data any) error {
	return SuccessWithWarnings(c, status, message, data, nil)
}

// SuccessWithWarnings is Success with soft warnings attached.
func SuccessWithWarnings(c echo.Context, status int, message string, data any, warnings []string) error {
	if status == 0 {
		status = http.StatusOK
	}
	payload := APIResponse{
		Status:   "success",
		Message:  message,
		Data:     data,
		Warnings: warnings,
	}
	return c.JSON(status, payload)
}

// Error sends an error response using the shared envelope format. The kind is
// derived from the status code.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return errorResponse(c, status, kindForStatus(status), message)
}

func errorResponse(c echo.Context, status int, kind, message string) error {
	payload := APIResponse{
		Status:  "error",
		Message: message,
		Kind:    kind,
	}
	return c.JSON(status, payload)
}

// Fail maps a domain error to its status and kind. Server-side failures are
// logged and answered with a generic message.
func Fail(c echo.Context, err error) error {
	var (
		csvErr        service.CSVValidationError
		validationErr validator.ValidationErrors
	)

	switch {
	case errors.Is(err, geo.ErrInvalidCoordinate):
		return errorResponse(c, http.StatusBadRequest, KindInvalidCoordinate, err.Error())
	case errors.Is(err, search.ErrInvalidQuery), errors.Is(err, service.ErrInvalidInput):
		return errorResponse(c, http.StatusBadRequest, KindInvalidRequest, err.Error())
	case errors.As(err, &csvErr):
		return errorResponse(c, http.StatusBadRequest, KindInvalidRequest, csvErr.Error())
	case errors.As(err, &validationErr):
		return errorResponse(c, http.StatusBadRequest, KindInvalidRequest, describeValidation(validationErr))
	case errors.Is(err, service.ErrReviewValidationFailed):
		return errorResponse(c, http.StatusUnprocessableEntity, KindReviewValidation, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return errorResponse(c, http.StatusNotFound, KindNotFound, "resource not found")
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrInvalidCredentials):
		return errorResponse(c, http.StatusUnauthorized, KindUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return errorResponse(c, http.StatusForbidden, KindForbidden, err.Error())
	case errors.Is(err, service.ErrEmailAlreadyExists), errors.Is(err, service.ErrConflict):
		return errorResponse(c, http.StatusConflict, KindConflict, err.Error())
	}

	entry := log.WithField("request_id", middleware.RequestIDFromContext(c)).WithError(err)
	switch {
	case errors.Is(err, search.ErrInternalStoreUnavailable):
		entry.Error("internal store unavailable")
		return errorResponse(c, http.StatusServiceUnavailable, KindInternalUnavailable, "internal store unavailable")
	case errors.Is(err, search.ErrExternalProviderUnavailable):
		entry.Warn("external provider unavailable")
		return errorResponse(c, http.StatusBadGateway, KindExternalUnavailable, "external provider unavailable")
	default:
		entry.Error("request failed")
		return errorResponse(c, http.StatusInternalServerError, KindInternal, "internal error")
	}
}

func kindForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return KindInvalidRequest
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusUnprocessableEntity:
		return KindReviewValidation
	case http.StatusBadGateway:
		return KindExternalUnavailable
	case http.StatusServiceUnavailable:
		return KindInternalUnavailable
	default:
		return KindInternal
	}
}

func describeValidation(errs validator.ValidationErrors) string {
	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, fe.Field()+" failed "+fe.Tag())
	}
	return "invalid payload: " + strings.Join(fields, ", ")
}
