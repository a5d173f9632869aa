package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sekolahdev/presensi-api/internal/dto"
	appErrors "github.com/sekolahdev/presensi-api/pkg/errors"
	"github.com/sekolahdev/presensi-api/pkg/response"
)

type scanService interface {
	ProcessScan(ctx context.Context, req dto.ScanRequest) (*dto.ScanResult, error)
}

type scanNotifier interface {
	Dispatch(ctx context.Context, event *dto.ScanAccepted)
}

// ScanHandler exposes the scan ingestion boundary.
type ScanHandler struct {
	service  scanService
	notifier scanNotifier
}

// NewScanHandler builds a new handler.
func NewScanHandler(service scanService, notifier scanNotifier) *ScanHandler {
	return &ScanHandler{service: service, notifier: notifier}
}

// Ingest godoc
// @Summary Ingest a device scan event
// @Tags Scans
// @Accept json
// @Produce json
// @Param payload body dto.ScanRequest true "Scan payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /scans [post]
func (h *ScanHandler) Ingest(c *gin.Context) {
	var req dto.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid scan payload"))
		return
	}

	result, err := h.service.ProcessScan(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Event != nil && h.notifier != nil {
		h.notifier.Dispatch(c.Request.Context(), result.Event)
	}
	response.JSON(c, http.StatusOK, result, nil)
}
