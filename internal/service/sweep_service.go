package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sekolahdev/presensi-api/internal/dto"
	"github.com/sekolahdev/presensi-api/internal/models"
	"github.com/sekolahdev/presensi-api/pkg/clock"
	"github.com/sekolahdev/presensi-api/pkg/config"
	appErrors "github.com/sekolahdev/presensi-api/pkg/errors"
	"github.com/sekolahdev/presensi-api/pkg/jobs"
)

type absentMarker interface {
	MarkAbsent(ctx context.Context, date time.Time) (int, error)
}

// SweepService runs the daily absent-marking sweep. The host scheduler may
// tick far more often than once a day; the time gate makes sure the sweep
// only does work near its configured clock time unless forced.
type SweepService struct {
	repo      absentMarker
	clock     clock.Clock
	target    models.TimeOfDay
	tolerance time.Duration
	logger    *zap.Logger
	metrics   *MetricsService
}

// NewSweepService constructs the sweep. An unparseable target time is a
// startup configuration error.
func NewSweepService(repo absentMarker, clk clock.Clock, cfg config.SweepConfig, logger *zap.Logger, metrics *MetricsService) (*SweepService, error) {
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	target, err := models.ParseTimeOfDay(cfg.TargetTime)
	if err != nil {
		return nil, fmt.Errorf("sweep target time: %w", err)
	}
	return &SweepService{
		repo:      repo,
		clock:     clk,
		target:    target,
		tolerance: cfg.Tolerance,
		logger:    logger,
		metrics:   metrics,
	}, nil
}

// RunAbsentSweep marks every active attendee without a record today as
// ABSENT, provided the gate allows it (or force is set).
func (s *SweepService) RunAbsentSweep(ctx context.Context, force bool) (*dto.SweepResult, error) {
	now := s.clock.Now()
	if !ShouldRun(now, s.target, force, s.tolerance) {
		return &dto.SweepResult{Ran: false, Forced: force, Skipped: "outside execution window"}, nil
	}

	date := models.DateOf(now)
	marked, err := s.repo.MarkAbsent(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "absent sweep failed")
	}

	s.metrics.ObserveSweep(marked)
	s.logger.Info("absent sweep completed",
		zap.String("date", date.Format("2006-01-02")),
		zap.Int("marked", marked),
		zap.Bool("forced", force))
	return &dto.SweepResult{Ran: true, Forced: force, Date: date.Format("2006-01-02"), Marked: marked}, nil
}

// HandleJob adapts the sweep to the background queue.
func (s *SweepService) HandleJob(ctx context.Context, _ jobs.Job) error {
	_, err := s.RunAbsentSweep(ctx, false)
	return err
}
