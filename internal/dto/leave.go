package dto

import (
	"time"

	"github.com/sekolahdev/presensi-api/internal/models"
)

// LeaveSubmissionRequest is the leave submission boundary payload.
type LeaveSubmissionRequest struct {
	AttendeeID string `json:"attendeeId" validate:"required"`
	Type       string `json:"type" validate:"required,leave_type"`
	StartDate  string `json:"startDate" validate:"required"`
	EndDate    string `json:"endDate" validate:"required"`
	Reason     string `json:"reason" validate:"required"`
	Channel    string `json:"channel" validate:"omitempty"`
}

// LeaveItem is the API shape of a stored leave interval.
type LeaveItem struct {
	ID         string           `json:"id"`
	AttendeeID string           `json:"attendeeId"`
	Type       models.LeaveType `json:"type"`
	StartDate  string           `json:"startDate"`
	EndDate    string           `json:"endDate"`
	Reason     string           `json:"reason"`
	Channel    string           `json:"channel"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// NewLeaveItem converts a model into its API shape.
func NewLeaveItem(l *models.LeaveInterval) LeaveItem {
	return LeaveItem{
		ID:         l.ID,
		AttendeeID: l.AttendeeID,
		Type:       l.Type,
		StartDate:  l.StartDate.Format("2006-01-02"),
		EndDate:    l.EndDate.Format("2006-01-02"),
		Reason:     l.Reason,
		Channel:    l.Channel,
		CreatedAt:  l.CreatedAt,
	}
}
