package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/octobees/nearby/api/internal/auth"
)

// Context keys used to store request metadata.
const (
	ContextKeyIdentity  = "identity"
	ContextKeyRequestID = "request_id"
)

// IdentityFromContext returns the identity attached by Identify. Requests that
// never passed through Identify are unauthenticated.
func IdentityFromContext(c echo.Context) auth.Identity {
	if identity, ok := c.Get(ContextKeyIdentity).(auth.Identity); ok {
		return identity
	}
	return auth.Unauthenticated()
}

// errorEnvelope mirrors the handler package's error envelope.
func errorEnvelope(c echo.Context, status int, kind, message string) error {
	return c.JSON(status, map[string]string{
		"status":  "error",
		"kind":    kind,
		"message": message,
	})
}
