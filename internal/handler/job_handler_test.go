package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahdev/presensi-api/internal/dto"
)

type sweepServiceMock struct {
	result *dto.SweepResult

	gotForce bool
}

func (m *sweepServiceMock) RunAbsentSweep(_ context.Context, force bool) (*dto.SweepResult, error) {
	m.gotForce = force
	return m.result, nil
}

func TestAbsentSweepForced(t *testing.T) {
	svc := &sweepServiceMock{result: &dto.SweepResult{Ran: true, Forced: true, Date: "2026-08-17", Marked: 4}}
	h := NewJobHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/jobs/absent-sweep?force=true", nil)
	h.AbsentSweep(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.gotForce)

	var envelope struct {
		Data dto.SweepResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Ran)
	assert.Equal(t, 4, envelope.Data.Marked)
}

func TestAbsentSweepSkipped(t *testing.T) {
	svc := &sweepServiceMock{result: &dto.SweepResult{Ran: false, Skipped: "outside execution window"}}
	h := NewJobHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/jobs/absent-sweep", nil)
	h.AbsentSweep(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, svc.gotForce)

	var envelope struct {
		Data dto.SweepResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.False(t, envelope.Data.Ran)
}
