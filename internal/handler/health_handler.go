package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service liveness and database reachability.
type HealthHandler struct {
	db               Pinger
	placesConfigured bool
}

// NewHealthHandler creates a new handler instance. placesConfigured reports
// whether an external provider key is set.
func NewHealthHandler(db Pinger, placesConfigured bool) *HealthHandler {
	return &HealthHandler{db: db, placesConfigured: placesConfigured}
}

// Check handles GET /healthz.
func (h *HealthHandler) Check(c echo.Context) error {
	status := map[string]any{"status": "ok", "places_configured": h.placesConfigured}
	if h.db == nil {
		return Success(c, http.StatusOK, "service healthy", status)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		log.WithError(err).Warn("health check: database unreachable")
		return Error(c, http.StatusServiceUnavailable, "database unreachable")
	}
	return Success(c, http.StatusOK, "service healthy", status)
}
