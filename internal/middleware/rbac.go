package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole enforces that the authenticated request carries one of the roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := IdentityFromContext(c)
			if !identity.IsAuthenticated() {
				return errorEnvelope(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			}
			if identity.Role() == "" {
				return errorEnvelope(c, http.StatusForbidden, "forbidden", "missing role")
			}
			if !identity.HasRole(roles...) {
				return errorEnvelope(c, http.StatusForbidden, "forbidden", "insufficient permissions")
			}
			return next(c)
		}
	}
}
