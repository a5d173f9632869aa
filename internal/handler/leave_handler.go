package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sekolahdev/presensi-api/internal/dto"
	"github.com/sekolahdev/presensi-api/internal/models"
	appErrors "github.com/sekolahdev/presensi-api/pkg/errors"
	"github.com/sekolahdev/presensi-api/pkg/response"
)

type leaveService interface {
	Submit(ctx context.Context, req dto.LeaveSubmissionRequest) (*models.LeaveInterval, error)
	ListByAttendee(ctx context.Context, attendeeID string) ([]dto.LeaveItem, error)
}

// LeaveHandler exposes the leave submission boundary.
type LeaveHandler struct {
	service leaveService
}

// NewLeaveHandler builds a new handler.
func NewLeaveHandler(service leaveService) *LeaveHandler {
	return &LeaveHandler{service: service}
}

// Submit godoc
// @Summary Submit a leave interval
// @Tags Leaves
// @Accept json
// @Produce json
// @Param payload body dto.LeaveSubmissionRequest true "Leave payload"
// @Success 201 {object} response.Envelope
// @Router /leaves [post]
func (h *LeaveHandler) Submit(c *gin.Context) {
	var req dto.LeaveSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid leave payload"))
		return
	}

	interval, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewLeaveItem(interval))
}

// List godoc
// @Summary List leave intervals for an attendee
// @Tags Leaves
// @Produce json
// @Param attendeeId query string true "Attendee ID"
// @Success 200 {object} response.Envelope
// @Router /leaves [get]
func (h *LeaveHandler) List(c *gin.Context) {
	items, err := h.service.ListByAttendee(c.Request.Context(), c.Query("attendeeId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}
