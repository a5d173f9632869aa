package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time stored as minutes since midnight. It maps to
// a PostgreSQL TIME column and deliberately carries no date component: every
// window comparison in the attendance core works on time-of-day only.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS" (seconds are discarded).
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	var h, m, s int
	if _, err := fmt.Sscanf(raw, "%d:%d:%d", &h, &m, &s); err != nil {
		if _, err := fmt.Sscanf(raw, "%d:%d", &h, &m); err != nil {
			return 0, fmt.Errorf("parse time of day %q: %w", raw, err)
		}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("parse time of day %q: out of range", raw)
	}
	return TimeOfDay(h*60 + m), nil
}

// TimeOfDayOf extracts the time-of-day component of a timestamp.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

// Hour returns the hour component.
func (t TimeOfDay) Hour() int { return int(t) / 60 }

// Minute returns the minute component.
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// On anchors the time-of-day onto the calendar date of the given timestamp.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, day.Location())
}

// String renders "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Scan implements sql.Scanner for TIME columns.
func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = 0
		return nil
	case time.Time:
		*t = TimeOfDayOf(v)
		return nil
	case []byte:
		parsed, err := ParseTimeOfDay(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case string:
		parsed, err := ParseTimeOfDay(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
}

// Value implements driver.Valuer.
func (t TimeOfDay) Value() (driver.Value, error) {
	return fmt.Sprintf("%02d:%02d:00", t.Hour(), t.Minute()), nil
}
