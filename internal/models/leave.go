package models

import (
	"strings"
	"time"
)

// LeaveType distinguishes the two approved-absence categories.
type LeaveType string

const (
	LeaveTypeSick    LeaveType = "SICK"
	LeaveTypeExcused LeaveType = "EXCUSED"
)

// ParseLeaveType normalises user input into a LeaveType.
func ParseLeaveType(raw string) (LeaveType, bool) {
	switch LeaveType(strings.ToUpper(raw)) {
	case LeaveTypeSick:
		return LeaveTypeSick, true
	case LeaveTypeExcused:
		return LeaveTypeExcused, true
	default:
		return "", false
	}
}

// Status maps the leave type onto the attendance status it stamps.
func (t LeaveType) Status() AttendanceStatus {
	if t == LeaveTypeSick {
		return AttendanceStatusSick
	}
	return AttendanceStatusExcused
}

// LeaveInterval is an inclusive span of sick or excused days for one attendee.
// After reconciliation no two intervals for the same attendee overlap.
type LeaveInterval struct {
	ID         string    `db:"id" json:"id"`
	AttendeeID string    `db:"attendee_id" json:"attendee_id"`
	Type       LeaveType `db:"leave_type" json:"type"`
	StartDate  time.Time `db:"start_date" json:"start_date"`
	EndDate    time.Time `db:"end_date" json:"end_date"`
	Reason     string    `db:"reason" json:"reason"`
	Channel    string    `db:"channel" json:"channel"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Contains reports whether the interval covers the given day.
func (l *LeaveInterval) Contains(day time.Time) bool {
	d := DateOf(day)
	return !d.Before(DateOf(l.StartDate)) && !d.After(DateOf(l.EndDate))
}
