package dto

import (
	"time"

	"github.com/sekolahdev/presensi-api/internal/models"
)

// Scan event types reported by devices.
const (
	ScanEventIn  = "in"
	ScanEventOut = "out"
)

// ScanRequest is the payload pushed by a fingerprint device.
type ScanRequest struct {
	BadgeID   string `json:"badgeId" validate:"required"`
	DeviceID  string `json:"deviceId" validate:"required"`
	EventType string `json:"eventType" validate:"required,scan_event"`
	Timestamp string `json:"timestamp" validate:"omitempty"`
}

// Scan transitions reported back to the device.
const (
	TransitionCheckedIn  = "checked_in"
	TransitionCheckedOut = "checked_out"
)

// ScanAccepted is the domain event emitted when a check-in transition creates
// the day's record. The caller forwards it to the notification dispatcher.
type ScanAccepted struct {
	AttendeeID   string                  `json:"attendeeId"`
	AttendeeName string                  `json:"attendeeName"`
	GroupID      *string                 `json:"groupId,omitempty"`
	DeviceID     string                  `json:"deviceId"`
	Status       models.AttendanceStatus `json:"status"`
	ScannedAt    time.Time               `json:"scannedAt"`
}

// ScanResult is the definitive outcome of a processed scan.
type ScanResult struct {
	AttendeeID   string                  `json:"attendeeId"`
	AttendeeName string                  `json:"attendeeName"`
	Date         string                  `json:"date"`
	Transition   string                  `json:"transition"`
	Status       models.AttendanceStatus `json:"status"`
	CheckInAt    *time.Time              `json:"checkInAt,omitempty"`
	CheckOutAt   *time.Time              `json:"checkOutAt,omitempty"`

	// Event is set on fresh check-ins only; it is never persisted.
	Event *ScanAccepted `json:"-"`
}
