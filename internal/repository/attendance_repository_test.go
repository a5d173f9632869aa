package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahdev/presensi-api/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	db := sqlx.NewDb(mockDB, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var attendanceRowColumns = []string{"id", "attendee_id", "date", "status", "check_in_at", "check_out_at", "device_id", "created_at", "updated_at"}

func TestFindByAttendeeAndDate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	day := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	checkIn := day.Add(7 * time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, attendee_id, date, status, check_in_at, check_out_at, device_id, created_at, updated_at FROM attendance_records WHERE attendee_id = $1 AND date = $2`)).
		WithArgs("stu-1", day).
		WillReturnRows(sqlmock.NewRows(attendanceRowColumns).
			AddRow("rec-1", "stu-1", day, "PRESENT", checkIn, nil, "dev-1", day, day))

	record, err := repo.FindByAttendeeAndDate(context.Background(), "stu-1", day.Add(10*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "rec-1", record.ID)
	assert.Equal(t, models.AttendanceStatusPresent, record.Status)
	assert.False(t, record.Completed())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByAttendeeAndDateNoRecord(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM attendance_records WHERE attendee_id = $1 AND date = $2`)).
		WillReturnRows(sqlmock.NewRows(attendanceRowColumns))

	record, err := repo.FindByAttendeeAndDate(context.Background(), "stu-1", time.Date(2026, 8, 17, 7, 0, 0, 0, time.UTC))
	assert.Nil(t, record)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertCheckIn(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	day := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	checkIn := day.Add(7 * time.Hour)
	deviceID := "dev-1"
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (attendee_id, date) DO NOTHING`)).
		WithArgs(sqlmock.AnyArg(), "stu-1", day, models.AttendanceStatusPresent, checkIn, deviceID, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(attendanceRowColumns).
			AddRow("rec-1", "stu-1", day, "PRESENT", checkIn, nil, deviceID, day, day))

	stored, err := repo.InsertCheckIn(context.Background(), &models.AttendanceRecord{
		AttendeeID: "stu-1",
		Date:       checkIn,
		Status:     models.AttendanceStatusPresent,
		CheckInAt:  &checkIn,
		DeviceID:   &deviceID,
	})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "rec-1", stored.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertCheckInLostRace(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	// A concurrent first scan already holds the (attendee, date) slot, so the
	// insert hits the conflict clause and returns no row.
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (attendee_id, date) DO NOTHING`)).
		WillReturnRows(sqlmock.NewRows(attendanceRowColumns))

	checkIn := time.Date(2026, 8, 17, 7, 5, 0, 0, time.UTC)
	stored, err := repo.InsertCheckIn(context.Background(), &models.AttendanceRecord{
		AttendeeID: "stu-1",
		Date:       checkIn,
		Status:     models.AttendanceStatusPresent,
		CheckInAt:  &checkIn,
	})
	require.NoError(t, err)
	assert.Nil(t, stored)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetCheckOut(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	day := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	checkOut := day.Add(14*time.Hour + 5*time.Minute)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE attendee_id = $1 AND date = $2 AND check_out_at IS NULL`)).
		WithArgs("stu-1", day, checkOut, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(attendanceRowColumns).
			AddRow("rec-1", "stu-1", day, "LATE", day.Add(7*time.Hour), checkOut, "dev-1", day, day))

	stored, err := repo.SetCheckOut(context.Background(), "stu-1", day, checkOut)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Completed())
	assert.Equal(t, models.AttendanceStatusLate, stored.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetCheckOutAlreadyCompleted(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`check_out_at IS NULL`)).
		WillReturnRows(sqlmock.NewRows(attendanceRowColumns))

	stored, err := repo.SetCheckOut(context.Background(), "stu-1",
		time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 17, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, stored)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListAttendance(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	day := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	listColumns := append(append([]string{}, attendanceRowColumns...), "attendee_name", "class_id")
	mock.ExpectQuery(`ar\.date = \$1 AND s\.class_id = \$2`).
		WithArgs(day, "class-7a").
		WillReturnRows(sqlmock.NewRows(listColumns).
			AddRow("rec-1", "stu-1", day, "PRESENT", day.Add(7*time.Hour), nil, "dev-1", day, day, "Budi Santoso", "class-7a"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*)`)).
		WithArgs(day, "class-7a").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows, total, err := repo.List(context.Background(), models.AttendanceFilter{
		Date:    &day,
		ClassID: "class-7a",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Budi Santoso", rows[0].AttendeeName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAbsent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	day := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec(`FROM students p`).
		WithArgs(day, models.AttendanceStatusAbsent, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 12))
	mock.ExpectExec(`FROM teachers p`).
		WithArgs(day, models.AttendanceStatusAbsent, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	marked, err := repo.MarkAbsent(context.Background(), day.Add(9*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 15, marked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAbsentRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`FROM students p`).WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	_, err := repo.MarkAbsent(context.Background(), time.Date(2026, 8, 17, 9, 0, 0, 0, time.UTC))
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
