package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahdev/presensi-api/internal/models"
)

var leaveRowColumns = []string{"id", "attendee_id", "leave_type", "start_date", "end_date", "reason", "channel", "created_at", "updated_at"}

func TestInTxCommitsReconciliation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeaveRepository(db)

	start := time.Date(2026, 8, 6, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	existingStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	existingEnd := time.Date(2026, 8, 7, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM leave_intervals
WHERE attendee_id = $1 AND start_date <= $3 AND end_date >= $2
ORDER BY start_date
FOR UPDATE`)).
		WithArgs("stu-1", start, end).
		WillReturnRows(sqlmock.NewRows(leaveRowColumns).
			AddRow("old-1", "stu-1", "SICK", existingStart, existingEnd, "flu", "", existingStart, existingStart))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE leave_intervals SET start_date = $2, end_date = $3, updated_at = $4 WHERE id = $1`)).
		WithArgs("old-1", existingStart, start.AddDate(0, 0, -1), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO leave_intervals`)).
		WithArgs(sqlmock.AnyArg(), "stu-1", models.LeaveTypeExcused, start, end, "family matter", "parent-app", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (attendee_id, date)`)).
		WithArgs(sqlmock.AnyArg(), "stu-1", start, models.AttendanceStatusExcused, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.InTx(context.Background(), func(tx LeaveTx) error {
		ctx := context.Background()
		overlapping, err := tx.ListOverlappingForUpdate(ctx, "stu-1", start, end)
		if err != nil {
			return err
		}
		require.Len(t, overlapping, 1)
		if err := tx.UpdateIntervalRange(ctx, overlapping[0].ID, existingStart, start.AddDate(0, 0, -1)); err != nil {
			return err
		}
		if err := tx.InsertInterval(ctx, &models.LeaveInterval{
			AttendeeID: "stu-1",
			Type:       models.LeaveTypeExcused,
			StartDate:  start,
			EndDate:    end,
			Reason:     "family matter",
			Channel:    "parent-app",
		}); err != nil {
			return err
		}
		return tx.UpsertAttendanceDay(ctx, "stu-1", start, models.AttendanceStatusExcused)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInTxRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeaveRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM leave_intervals WHERE id = $1`)).
		WithArgs("old-1").
		WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := repo.InTx(context.Background(), func(tx LeaveTx) error {
		return tx.DeleteInterval(context.Background(), "old-1")
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInTxRollsBackOnFnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeaveRepository(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	sentinel := errors.New("reconcile failed")
	err := repo.InTx(context.Background(), func(LeaveTx) error { return sentinel })
	assert.True(t, errors.Is(err, sentinel))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveListByAttendee(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeaveRepository(db)

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM leave_intervals WHERE attendee_id = $1 ORDER BY start_date`)).
		WithArgs("stu-1").
		WillReturnRows(sqlmock.NewRows(leaveRowColumns).
			AddRow("l-1", "stu-1", "SICK", start, end, "flu", "parent-app", start, start))

	intervals, err := repo.ListByAttendee(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Len(t, intervals, 1)
	assert.Equal(t, models.LeaveTypeSick, intervals[0].Type)
	assert.True(t, intervals[0].Contains(time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC)))
	assert.False(t, intervals[0].Contains(time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, mock.ExpectationsWereMet())
}
