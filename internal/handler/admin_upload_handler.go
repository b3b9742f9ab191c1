package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/octobees/nearby/api/internal/middleware"
	"github.com/octobees/nearby/api/internal/service"
)

const maxUploadBytes = 10 << 20

// AdminUploadHandler handles CSV ingestion of internal listings for administrators.
type AdminUploadHandler struct {
	businesses *service.BusinessService
}

// NewAdminUploadHandler wires a handler backed by the business service.
func NewAdminUploadHandler(businesses *service.BusinessService) *AdminUploadHandler {
	return &AdminUploadHandler{businesses: businesses}
}

// UploadCSV handles POST /admin/businesses/upload-csv requests. Listings are
// owned by the owner_id form value when present, otherwise by the caller.
func (h *AdminUploadHandler) UploadCSV(c echo.Context) error {
	ownerRaw := strings.TrimSpace(c.FormValue("owner_id"))
	if ownerRaw == "" {
		ownerRaw = middleware.IdentityFromContext(c).Subject()
	}
	ownerID, err := uuid.Parse(ownerRaw)
	if err != nil {
		return Error(c, http.StatusBadRequest, "owner_id must be a user id")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return Error(c, http.StatusBadRequest, "missing csv file")
	}
	if fileHeader.Size > maxUploadBytes {
		return Error(c, http.StatusRequestEntityTooLarge, "csv file too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return Error(c, http.StatusBadRequest, "unable to open file")
	}
	defer file.Close()

	summary, err := h.businesses.ImportCSV(c.Request().Context(), ownerID, file)
	if err != nil {
		return Fail(c, err)
	}

	log.WithFields(log.Fields{
		"owner_id": ownerID,
		"inserted": summary.Inserted,
		"updated":  summary.Updated,
	}).Info("businesses csv imported")
	return Success(c, http.StatusOK, "businesses CSV processed", summary)
}
