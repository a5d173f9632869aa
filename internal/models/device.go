package models

import "time"

// Device is a fingerprint scanner referenced by attendance records for audit.
type Device struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Location  *string   `db:"location" json:"location,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
