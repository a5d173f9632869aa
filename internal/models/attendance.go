package models

import "time"

// AttendanceStatus represents the status stamped on an attendance record.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "PRESENT"
	AttendanceStatusLate    AttendanceStatus = "LATE"
	AttendanceStatusAbsent  AttendanceStatus = "ABSENT"
	AttendanceStatusSick    AttendanceStatus = "SICK"
	AttendanceStatusExcused AttendanceStatus = "EXCUSED"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusLate, AttendanceStatusAbsent,
		AttendanceStatusSick, AttendanceStatusExcused:
		return true
	default:
		return false
	}
}

// IsLeave reports whether the status originates from a leave interval rather
// than a device scan.
func (s AttendanceStatus) IsLeave() bool {
	return s == AttendanceStatusSick || s == AttendanceStatusExcused
}

// AttendanceRecord is the single row per (attendee, calendar date).
type AttendanceRecord struct {
	ID         string           `db:"id" json:"id"`
	AttendeeID string           `db:"attendee_id" json:"attendee_id"`
	Date       time.Time        `db:"date" json:"date"`
	Status     AttendanceStatus `db:"status" json:"status"`
	CheckInAt  *time.Time       `db:"check_in_at" json:"check_in_at,omitempty"`
	CheckOutAt *time.Time       `db:"check_out_at" json:"check_out_at,omitempty"`
	DeviceID   *string          `db:"device_id" json:"device_id,omitempty"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

// Completed reports whether the day reached the terminal checked-out state.
func (r *AttendanceRecord) Completed() bool {
	return r.CheckOutAt != nil
}

// AttendanceFilter scopes ledger listing queries.
type AttendanceFilter struct {
	Date       *time.Time
	DateFrom   *time.Time
	DateTo     *time.Time
	ClassID    string
	AttendeeID string
	Status     *AttendanceStatus
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// AttendanceListRow extends a record with attendee metadata for read surfaces.
type AttendanceListRow struct {
	AttendanceRecord
	AttendeeName string  `db:"attendee_name" json:"attendee_name"`
	ClassID      *string `db:"class_id" json:"class_id,omitempty"`
}

// DateOf truncates a timestamp to its calendar date in UTC. Attendance and
// leave rows are keyed on this normalised value.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
