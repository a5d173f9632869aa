package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sekolahdev/presensi-api/internal/dto"
)

// NotifierService publishes accepted-scan events for live dashboards over
// Redis pub/sub. Delivery is fire-and-forget: failures are logged and never
// propagated to the scan transition.
type NotifierService struct {
	client  *redis.Client
	channel string
	enabled bool
	logger  *zap.Logger
}

// NewNotifierService constructs the dispatcher. A nil client disables it.
func NewNotifierService(client *redis.Client, channel string, enabled bool, logger *zap.Logger) *NotifierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotifierService{
		client:  client,
		channel: channel,
		enabled: enabled && client != nil,
		logger:  logger,
	}
}

// Dispatch forwards a ScanAccepted event to the configured channel.
func (s *NotifierService) Dispatch(ctx context.Context, event *dto.ScanAccepted) {
	if !s.enabled || event == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("scan event marshal failed", zap.Error(err))
		return
	}

	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		s.logger.Warn("scan event publish failed",
			zap.String("channel", s.channel),
			zap.String("attendee_id", event.AttendeeID),
			zap.Error(err))
	}
}
