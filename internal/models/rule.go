package models

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WeekdaySet is the set of weekdays a rule applies to, stored as a CSV of
// time.Weekday ints (0 = Sunday).
type WeekdaySet []time.Weekday

// Contains reports whether the weekday belongs to the set.
func (w WeekdaySet) Contains(day time.Weekday) bool {
	for _, d := range w {
		if d == day {
			return true
		}
	}
	return false
}

// Scan implements sql.Scanner.
func (w *WeekdaySet) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*w = nil
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into WeekdaySet", src)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*w = nil
		return nil
	}
	parts := strings.Split(raw, ",")
	set := make(WeekdaySet, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			return fmt.Errorf("invalid weekday %q in set", part)
		}
		set = append(set, time.Weekday(n))
	}
	*w = set
	return nil
}

// Value implements driver.Valuer.
func (w WeekdaySet) Value() (driver.Value, error) {
	if len(w) == 0 {
		return nil, nil
	}
	parts := make([]string, len(w))
	for i, d := range w {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ","), nil
}

// AttendanceRule is a time-window policy for a group. A rule either targets a
// specific calendar date (DateOverride) or a set of weekdays; a date override
// always wins when both could match. GroupID is nil for group-less defaults.
type AttendanceRule struct {
	ID            string     `db:"id" json:"id"`
	GroupID       *string    `db:"group_id" json:"group_id,omitempty"`
	DateOverride  *time.Time `db:"date_override" json:"date_override,omitempty"`
	Weekdays      WeekdaySet `db:"weekdays" json:"weekdays,omitempty"`
	CheckInStart  TimeOfDay  `db:"check_in_start" json:"check_in_start"`
	CheckInEnd    TimeOfDay  `db:"check_in_end" json:"check_in_end"`
	CheckOutStart TimeOfDay  `db:"check_out_start" json:"check_out_start"`
	CheckOutEnd   TimeOfDay  `db:"check_out_end" json:"check_out_end"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// MatchesDate reports whether the rule's date override equals the given day.
func (r *AttendanceRule) MatchesDate(day time.Time) bool {
	return r.DateOverride != nil && DateOf(*r.DateOverride).Equal(DateOf(day))
}

// MatchesWeekday reports whether the rule's weekday set covers the given day.
// Rules carrying a date override never match by weekday.
func (r *AttendanceRule) MatchesWeekday(day time.Time) bool {
	return r.DateOverride == nil && r.Weekdays.Contains(day.Weekday())
}
