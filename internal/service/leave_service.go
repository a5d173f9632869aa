package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sekolahdev/presensi-api/internal/dto"
	"github.com/sekolahdev/presensi-api/internal/models"
	"github.com/sekolahdev/presensi-api/internal/repository"
	appErrors "github.com/sekolahdev/presensi-api/pkg/errors"
)

type leaveStore interface {
	InTx(ctx context.Context, fn func(repository.LeaveTx) error) error
	ListByAttendee(ctx context.Context, attendeeID string) ([]models.LeaveInterval, error)
}

type attendeeFinder interface {
	FindAttendeeByID(ctx context.Context, id string) (models.Attendee, error)
}

// LeaveService reconciles newly submitted leave intervals against the stored
// set and stamps the affected days onto the attendance ledger. All of it runs
// in one transaction: either the whole reconciliation applies or none of it.
type LeaveService struct {
	store     leaveStore
	directory attendeeFinder
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
}

// NewLeaveService constructs the reconciler.
func NewLeaveService(store leaveStore, directory attendeeFinder, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *LeaveService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &LeaveService{store: store, directory: directory, validator: validate, logger: logger, metrics: metrics}
	svc.validator.RegisterValidation("leave_type", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseLeaveType(fl.Field().String())
		return ok
	})
	return svc
}

// Submit validates and applies a leave submission.
func (s *LeaveService) Submit(ctx context.Context, req dto.LeaveSubmissionRequest) (*models.LeaveInterval, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid leave payload")
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid startDate, expected YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid endDate, expected YYYY-MM-DD")
	}
	start, end = models.DateOf(start), models.DateOf(end)
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate precedes startDate")
	}
	leaveType, _ := models.ParseLeaveType(req.Type)

	if _, err := s.directory.FindAttendeeByID(ctx, req.AttendeeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "directory lookup failed")
	}

	interval := &models.LeaveInterval{
		AttendeeID: req.AttendeeID,
		Type:       leaveType,
		StartDate:  start,
		EndDate:    end,
		Reason:     req.Reason,
		Channel:    req.Channel,
	}

	err = s.store.InTx(ctx, func(tx repository.LeaveTx) error {
		if err := s.reconcileOverlaps(ctx, tx, interval); err != nil {
			return err
		}
		if err := tx.InsertInterval(ctx, interval); err != nil {
			return err
		}
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			if err := tx.UpsertAttendanceDay(ctx, interval.AttendeeID, day, leaveType.Status()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply leave")
	}

	s.metrics.ObserveLeaveReconciliation()
	s.logger.Info("leave applied",
		zap.String("attendee_id", interval.AttendeeID),
		zap.String("type", string(interval.Type)),
		zap.String("start", req.StartDate),
		zap.String("end", req.EndDate))
	return interval, nil
}

// reconcileOverlaps resolves every stored interval intersecting the new one.
// Full containment deletes the stored interval; a tail overlap trims its end
// to the day before the new start; a head overlap trims its start to the day
// after the new end. A strictly interior new interval triggers both: the
// stored row shrinks to the left remainder and the right remainder becomes a
// separate record, so no row ever represents two disjoint ranges.
func (s *LeaveService) reconcileOverlaps(ctx context.Context, tx repository.LeaveTx, interval *models.LeaveInterval) error {
	newStart, newEnd := interval.StartDate, interval.EndDate
	overlapping, err := tx.ListOverlappingForUpdate(ctx, interval.AttendeeID, newStart, newEnd)
	if err != nil {
		return err
	}

	for _, existing := range overlapping {
		existingStart := models.DateOf(existing.StartDate)
		existingEnd := models.DateOf(existing.EndDate)

		if !newStart.After(existingStart) && !newEnd.Before(existingEnd) {
			if err := tx.DeleteInterval(ctx, existing.ID); err != nil {
				return err
			}
			continue
		}

		tailOverlap := newStart.After(existingStart) && !newStart.After(existingEnd)
		headOverlap := !newEnd.Before(existingStart) && newEnd.Before(existingEnd)

		switch {
		case tailOverlap && headOverlap:
			if err := tx.UpdateIntervalRange(ctx, existing.ID, existingStart, newStart.AddDate(0, 0, -1)); err != nil {
				return err
			}
			remainder := existing
			remainder.ID = ""
			remainder.StartDate = newEnd.AddDate(0, 0, 1)
			remainder.EndDate = existingEnd
			if err := tx.InsertInterval(ctx, &remainder); err != nil {
				return err
			}
		case tailOverlap:
			if err := tx.UpdateIntervalRange(ctx, existing.ID, existingStart, newStart.AddDate(0, 0, -1)); err != nil {
				return err
			}
		case headOverlap:
			if err := tx.UpdateIntervalRange(ctx, existing.ID, newEnd.AddDate(0, 0, 1), existingEnd); err != nil {
				return err
			}
		}
	}
	return nil
}

// ListByAttendee returns the attendee's stored intervals as API items.
func (s *LeaveService) ListByAttendee(ctx context.Context, attendeeID string) ([]dto.LeaveItem, error) {
	if attendeeID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "attendeeId is required")
	}
	intervals, err := s.store.ListByAttendee(ctx, attendeeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leave intervals")
	}
	items := make([]dto.LeaveItem, len(intervals))
	for i := range intervals {
		items[i] = dto.NewLeaveItem(&intervals[i])
	}
	return items, nil
}
