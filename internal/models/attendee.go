package models

import "time"

// Attendee is any person tracked for attendance. The scan state machine and
// the leave reconciler depend only on this interface so students and staff
// flow through the same code paths.
type Attendee interface {
	// AttendeeID returns the stable directory identifier.
	AttendeeID() string
	// DisplayName returns the human-readable name.
	DisplayName() string
	// Group returns the group (class) reference, nil for group-less staff.
	Group() *string
}

// Student is the directory adapter for pupils. Students belong to a class,
// which drives rule resolution.
type Student struct {
	ID        string    `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	ClassID   *string   `db:"class_id" json:"class_id,omitempty"`
	BadgeID   *string   `db:"badge_id" json:"badge_id,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (s *Student) AttendeeID() string  { return s.ID }
func (s *Student) DisplayName() string { return s.FullName }
func (s *Student) Group() *string      { return s.ClassID }

// Teacher is the directory adapter for staff. Teachers have no class concept,
// so rule resolution falls through to group-less defaults.
type Teacher struct {
	ID        string    `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	BadgeID   *string   `db:"badge_id" json:"badge_id,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (t *Teacher) AttendeeID() string  { return t.ID }
func (t *Teacher) DisplayName() string { return t.FullName }
func (t *Teacher) Group() *string      { return nil }
