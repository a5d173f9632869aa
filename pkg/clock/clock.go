package clock

import "time"

// Clock supplies the current time so time-dependent logic stays testable.
type Clock interface {
	Now() time.Time
}

// System is the wall-clock implementation used in production wiring.
type System struct{}

// Now returns the current local time.
func (System) Now() time.Time { return time.Now() }

// Fixed always reports the same instant. Intended for tests.
type Fixed struct {
	T time.Time
}

// Now returns the configured instant.
func (f Fixed) Now() time.Time { return f.T }
