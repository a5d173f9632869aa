package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sekolahdev/presensi-api/internal/models"
)

// AttendanceRepository handles persistence for daily attendance records. It
// is the only writer of the attendance ledger besides the leave reconciler.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

const attendanceColumns = `id, attendee_id, date, status, check_in_at, check_out_at, device_id, created_at, updated_at`

// FindByAttendeeAndDate fetches the single record for (attendee, date).
// Returns sql.ErrNoRows when the day has no record yet.
func (r *AttendanceRepository) FindByAttendeeAndDate(ctx context.Context, attendeeID string, date time.Time) (*models.AttendanceRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM attendance_records WHERE attendee_id = $1 AND date = $2`, attendanceColumns)
	var record models.AttendanceRecord
	if err := r.db.GetContext(ctx, &record, query, attendeeID, models.DateOf(date)); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find attendance record: %w", err)
	}
	return &record, nil
}

// InsertCheckIn creates the day's record atomically. Two simultaneous first
// scans both reach this insert; the unique constraint on (attendee_id, date)
// lets exactly one row in. The loser gets (nil, nil) and must re-read.
func (r *AttendanceRepository) InsertCheckIn(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	now := time.Now().UTC()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.Date = models.DateOf(record.Date)
	record.CreatedAt = now
	record.UpdatedAt = now
	query := fmt.Sprintf(`INSERT INTO attendance_records (id, attendee_id, date, status, check_in_at, check_out_at, device_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NULL, $6, $7, $8)
ON CONFLICT (attendee_id, date) DO NOTHING
RETURNING %s`, attendanceColumns)
	var stored models.AttendanceRecord
	err := r.db.GetContext(ctx, &stored, query,
		record.ID, record.AttendeeID, record.Date, record.Status,
		record.CheckInAt, record.DeviceID, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("insert check-in: %w", err)
	}
	return &stored, nil
}

// SetCheckOut stamps the check-out time exactly once. Returns (nil, nil) when
// the record was already completed by a concurrent scan.
func (r *AttendanceRepository) SetCheckOut(ctx context.Context, attendeeID string, date time.Time, at time.Time) (*models.AttendanceRecord, error) {
	query := fmt.Sprintf(`UPDATE attendance_records
SET check_out_at = $3, updated_at = $4
WHERE attendee_id = $1 AND date = $2 AND check_out_at IS NULL
RETURNING %s`, attendanceColumns)
	var stored models.AttendanceRecord
	err := r.db.GetContext(ctx, &stored, query, attendeeID, models.DateOf(date), at, time.Now().UTC())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("set check-out: %w", err)
	}
	return &stored, nil
}

// List returns ledger rows matching the filter, paginated. Consumed by the
// external reporting layer.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceListRow, int, error) {
	base := `FROM attendance_records ar
LEFT JOIN students s ON s.id = ar.attendee_id
LEFT JOIN teachers t ON t.id = ar.attendee_id`
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.Date != nil {
		where = append(where, fmt.Sprintf("ar.date = $%d", len(args)+1))
		args = append(args, models.DateOf(*filter.Date))
	}
	if filter.DateFrom != nil {
		where = append(where, fmt.Sprintf("ar.date >= $%d", len(args)+1))
		args = append(args, models.DateOf(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		where = append(where, fmt.Sprintf("ar.date <= $%d", len(args)+1))
		args = append(args, models.DateOf(*filter.DateTo))
	}
	if filter.ClassID != "" {
		where = append(where, fmt.Sprintf("s.class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.AttendeeID != "" {
		where = append(where, fmt.Sprintf("ar.attendee_id = $%d", len(args)+1))
		args = append(args, filter.AttendeeID)
	}
	if filter.Status != nil && filter.Status.Valid() {
		where = append(where, fmt.Sprintf("ar.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	whereClause := strings.Join(where, " AND ")

	allowedSort := map[string]string{
		"date":        "ar.date",
		"status":      "ar.status",
		"check_in_at": "ar.check_in_at",
	}
	sortColumn, ok := allowedSort[filter.SortBy]
	if !ok {
		sortColumn = "ar.date"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT ar.id, ar.attendee_id, ar.date, ar.status, ar.check_in_at, ar.check_out_at, ar.device_id, ar.created_at, ar.updated_at,
        COALESCE(s.full_name, t.full_name, '') AS attendee_name, s.class_id
        %s WHERE %s
        ORDER BY %s %s
        LIMIT %d OFFSET %d`, base, whereClause, sortColumn, order, size, offset)

	var rows []models.AttendanceListRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list attendance records: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count attendance records: %w", err)
	}
	return rows, total, nil
}

// MarkAbsent inserts ABSENT records for every active attendee with no record
// on the given date. Existing records are left untouched.
func (r *AttendanceRepository) MarkAbsent(ctx context.Context, date time.Time) (int, error) {
	day := models.DateOf(date)
	now := time.Now().UTC()
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin absent sweep: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			tx.Rollback()
		}
	}()

	marked := 0
	for _, table := range []string{"students", "teachers"} {
		query := fmt.Sprintf(`INSERT INTO attendance_records (id, attendee_id, date, status, created_at, updated_at)
SELECT gen_random_uuid(), p.id, $1, $2, $3, $3
FROM %s p
WHERE p.active
  AND NOT EXISTS (SELECT 1 FROM attendance_records ar WHERE ar.attendee_id = p.id AND ar.date = $1)
ON CONFLICT (attendee_id, date) DO NOTHING`, table)
		res, err := tx.ExecContext(ctx, query, day, models.AttendanceStatusAbsent, now)
		if err != nil {
			return 0, fmt.Errorf("mark %s absent: %w", table, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			marked += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit absent sweep: %w", err)
	}
	commit = true
	return marked, nil
}
