package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sekolahdev/presensi-api/internal/models"
	"github.com/sekolahdev/presensi-api/internal/service"
	"github.com/sekolahdev/presensi-api/pkg/response"
)

type attendanceService interface {
	List(ctx context.Context, req service.AttendanceListRequest) ([]models.AttendanceListRow, *models.Pagination, error)
}

// AttendanceHandler exposes the read-only ledger surface.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler builds a new handler.
func NewAttendanceHandler(service attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// List godoc
// @Summary List attendance records
// @Tags Attendance
// @Produce json
// @Param date query string false "Calendar date (YYYY-MM-DD)"
// @Param classId query string false "Class filter"
// @Param status query string false "Status filter"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	req := service.AttendanceListRequest{
		Date:       c.Query("date"),
		DateFrom:   c.Query("dateFrom"),
		DateTo:     c.Query("dateTo"),
		ClassID:    c.Query("classId"),
		AttendeeID: c.Query("attendeeId"),
		Status:     c.Query("status"),
		SortBy:     c.Query("sortBy"),
		SortOrder:  c.Query("sortOrder"),
	}
	req.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	req.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "50"))

	rows, pagination, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, pagination)
}
