package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	authpkg "github.com/octobees/nearby/api/internal/auth"
)

// Identify attaches an identity to every request. A request without an
// Authorization header is unauthenticated; a malformed header or a token that
// fails verification is rejected with 401.
func Identify(manager *authpkg.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				c.Set(ContextKeyIdentity, authpkg.Unauthenticated())
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return errorEnvelope(c, http.StatusUnauthorized, "unauthorized", "invalid authorization header")
			}

			identity, err := manager.Authenticate(strings.TrimSpace(parts[1]))
			if err != nil {
				log.WithField("request_id", RequestIDFromContext(c)).WithError(err).Debug("token rejected")
				return errorEnvelope(c, http.StatusUnauthorized, "unauthorized", "invalid token")
			}

			c.Set(ContextKeyIdentity, identity)
			return next(c)
		}
	}
}

// RequireAuthenticated rejects anonymous callers.
func RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !IdentityFromContext(c).IsAuthenticated() {
				return errorEnvelope(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			}
			return next(c)
		}
	}
}
