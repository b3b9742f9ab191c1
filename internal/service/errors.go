package service

import "errors"

var (
	// ErrInvalidCredentials is returned when login fails for any reason the caller may not learn about.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailAlreadyExists is returned when registering a taken email.
	ErrEmailAlreadyExists = errors.New("email already registered")
	// ErrConflict is returned when a listing collides with one already stored.
	ErrConflict = errors.New("conflict")
	// ErrInvalidInput marks request payloads that fail domain validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when the addressed business or place does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthenticated is returned when an operation needs a signed-in caller.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when the caller may not act on the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrReviewValidationFailed is returned before any write when a review is out of range or empty.
	ErrReviewValidationFailed = errors.New("review validation failed")
)

// CSVValidationError indicates that the provided CSV payload is invalid.
type CSVValidationError struct {
	Message string
}

// Error implements the error interface.
func (e CSVValidationError) Error() string {
	return e.Message
}
