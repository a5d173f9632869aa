package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sekolahdev/presensi-api/internal/models"
)

// LeaveTx is the unit-of-work surface the reconciler drives. Every method
// runs on the same transaction, so overlap edits and attendance stamping are
// atomic together.
type LeaveTx interface {
	ListOverlappingForUpdate(ctx context.Context, attendeeID string, start, end time.Time) ([]models.LeaveInterval, error)
	DeleteInterval(ctx context.Context, id string) error
	UpdateIntervalRange(ctx context.Context, id string, start, end time.Time) error
	InsertInterval(ctx context.Context, interval *models.LeaveInterval) error
	UpsertAttendanceDay(ctx context.Context, attendeeID string, day time.Time, status models.AttendanceStatus) error
}

// LeaveRepository handles persistence for leave intervals.
type LeaveRepository struct {
	db *sqlx.DB
}

// NewLeaveRepository constructs the repository.
func NewLeaveRepository(db *sqlx.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

const leaveColumns = `id, attendee_id, leave_type, start_date, end_date, reason, channel, created_at, updated_at`

// InTx runs fn inside a single transaction; any error rolls everything back.
func (r *LeaveRepository) InTx(ctx context.Context, fn func(LeaveTx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin leave transaction: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			tx.Rollback()
		}
	}()
	if err := fn(&leaveTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit leave transaction: %w", err)
	}
	commit = true
	return nil
}

// ListByAttendee returns every interval for the attendee ordered by start.
func (r *LeaveRepository) ListByAttendee(ctx context.Context, attendeeID string) ([]models.LeaveInterval, error) {
	query := fmt.Sprintf(`SELECT %s FROM leave_intervals WHERE attendee_id = $1 ORDER BY start_date`, leaveColumns)
	var intervals []models.LeaveInterval
	if err := r.db.SelectContext(ctx, &intervals, query, attendeeID); err != nil {
		return nil, fmt.Errorf("list leave intervals: %w", err)
	}
	return intervals, nil
}

type leaveTx struct {
	tx *sqlx.Tx
}

// ListOverlappingForUpdate locks and returns every interval intersecting
// [start, end] for the attendee. The row locks serialize two concurrent
// reconciliations for the same attendee.
func (t *leaveTx) ListOverlappingForUpdate(ctx context.Context, attendeeID string, start, end time.Time) ([]models.LeaveInterval, error) {
	query := fmt.Sprintf(`SELECT %s FROM leave_intervals
WHERE attendee_id = $1 AND start_date <= $3 AND end_date >= $2
ORDER BY start_date
FOR UPDATE`, leaveColumns)
	var intervals []models.LeaveInterval
	if err := t.tx.SelectContext(ctx, &intervals, query, attendeeID, models.DateOf(start), models.DateOf(end)); err != nil {
		return nil, fmt.Errorf("list overlapping leave intervals: %w", err)
	}
	return intervals, nil
}

func (t *leaveTx) DeleteInterval(ctx context.Context, id string) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM leave_intervals WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete leave interval %s: %w", id, err)
	}
	return nil
}

func (t *leaveTx) UpdateIntervalRange(ctx context.Context, id string, start, end time.Time) error {
	query := `UPDATE leave_intervals SET start_date = $2, end_date = $3, updated_at = $4 WHERE id = $1`
	if _, err := t.tx.ExecContext(ctx, query, id, models.DateOf(start), models.DateOf(end), time.Now().UTC()); err != nil {
		return fmt.Errorf("update leave interval %s: %w", id, err)
	}
	return nil
}

func (t *leaveTx) InsertInterval(ctx context.Context, interval *models.LeaveInterval) error {
	now := time.Now().UTC()
	if interval.ID == "" {
		interval.ID = uuid.NewString()
	}
	if interval.CreatedAt.IsZero() {
		interval.CreatedAt = now
	}
	interval.UpdatedAt = now
	interval.StartDate = models.DateOf(interval.StartDate)
	interval.EndDate = models.DateOf(interval.EndDate)
	query := `INSERT INTO leave_intervals (id, attendee_id, leave_type, start_date, end_date, reason, channel, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := t.tx.ExecContext(ctx, query,
		interval.ID, interval.AttendeeID, interval.Type, interval.StartDate, interval.EndDate,
		interval.Reason, interval.Channel, interval.CreatedAt, interval.UpdatedAt); err != nil {
		return fmt.Errorf("insert leave interval: %w", err)
	}
	return nil
}

// UpsertAttendanceDay stamps a leave day onto the ledger, clearing any
// scan-derived fields. Re-running with the same interval is a no-op.
func (t *leaveTx) UpsertAttendanceDay(ctx context.Context, attendeeID string, day time.Time, status models.AttendanceStatus) error {
	now := time.Now().UTC()
	query := `INSERT INTO attendance_records (id, attendee_id, date, status, check_in_at, check_out_at, device_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, NULL, NULL, NULL, $5, $5)
ON CONFLICT (attendee_id, date)
DO UPDATE SET status = EXCLUDED.status, check_in_at = NULL, check_out_at = NULL, device_id = NULL, updated_at = EXCLUDED.updated_at`
	if _, err := t.tx.ExecContext(ctx, query, uuid.NewString(), attendeeID, models.DateOf(day), status, now); err != nil {
		return fmt.Errorf("upsert leave attendance day: %w", err)
	}
	return nil
}
