package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sekolahdev/presensi-api/internal/dto"
	"github.com/sekolahdev/presensi-api/pkg/response"
)

type sweepService interface {
	RunAbsentSweep(ctx context.Context, force bool) (*dto.SweepResult, error)
}

// JobHandler exposes administrative triggers for scheduled jobs.
type JobHandler struct {
	sweep sweepService
}

// NewJobHandler builds a new handler.
func NewJobHandler(sweep sweepService) *JobHandler {
	return &JobHandler{sweep: sweep}
}

// AbsentSweep godoc
// @Summary Run the absent-marking sweep
// @Tags Jobs
// @Produce json
// @Param force query bool false "Bypass the time gate"
// @Success 200 {object} response.Envelope
// @Router /jobs/absent-sweep [post]
func (h *JobHandler) AbsentSweep(c *gin.Context) {
	force := c.Query("force") == "true"
	result, err := h.sweep.RunAbsentSweep(c.Request.Context(), force)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
