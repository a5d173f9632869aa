package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sekolahdev/presensi-api/internal/models"
	"github.com/sekolahdev/presensi-api/pkg/config"
	appErrors "github.com/sekolahdev/presensi-api/pkg/errors"
)

type ruleLister interface {
	ListByGroup(ctx context.Context, groupID *string) ([]models.AttendanceRule, error)
}

type ruleCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// RuleService resolves the single applicable attendance-window rule for a
// group on a date. It never returns a nil rule: when nothing is configured it
// synthesizes one from the system-wide default windows.
type RuleService struct {
	repo     ruleLister
	cache    ruleCache
	cacheTTL time.Duration
	defaults models.AttendanceRule
	logger   *zap.Logger
	metrics  *MetricsService
}

// NewRuleService constructs the resolver. Unparseable default windows are a
// startup configuration error, not a per-scan error.
func NewRuleService(repo ruleLister, cache ruleCache, cfg config.AttendanceConfig, cacheTTL time.Duration, logger *zap.Logger, metrics *MetricsService) (*RuleService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := models.AttendanceRule{ID: "default"}
	var err error
	if defaults.CheckInStart, err = models.ParseTimeOfDay(cfg.DefaultCheckInStart); err != nil {
		return nil, fmt.Errorf("default check-in start: %w", err)
	}
	if defaults.CheckInEnd, err = models.ParseTimeOfDay(cfg.DefaultCheckInEnd); err != nil {
		return nil, fmt.Errorf("default check-in end: %w", err)
	}
	if defaults.CheckOutStart, err = models.ParseTimeOfDay(cfg.DefaultCheckOutStart); err != nil {
		return nil, fmt.Errorf("default check-out start: %w", err)
	}
	if defaults.CheckOutEnd, err = models.ParseTimeOfDay(cfg.DefaultCheckOutEnd); err != nil {
		return nil, fmt.Errorf("default check-out end: %w", err)
	}
	return &RuleService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		defaults: defaults,
		logger:   logger,
		metrics:  metrics,
	}, nil
}

// Resolve finds the applicable rule for the group at the given moment.
// Precedence: date override, then weekday set, then any rule for the group
// (degraded), then the synthesized default.
func (s *RuleService) Resolve(ctx context.Context, groupID *string, when time.Time) (*models.AttendanceRule, error) {
	rules, err := s.cachedRules(ctx, groupID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance rules")
	}

	for i := range rules {
		if rules[i].MatchesDate(when) {
			return &rules[i], nil
		}
	}
	for i := range rules {
		if rules[i].MatchesWeekday(when) {
			return &rules[i], nil
		}
	}
	if len(rules) > 0 {
		s.logger.Warn("no rule matched date or weekday, falling back to first group rule",
			zap.Stringp("group_id", groupID),
			zap.Time("when", when),
			zap.String("rule_id", rules[0].ID))
		return &rules[0], nil
	}

	synthesized := s.defaults
	synthesized.GroupID = groupID
	return &synthesized, nil
}

func (s *RuleService) cachedRules(ctx context.Context, groupID *string) ([]models.AttendanceRule, error) {
	key := "rules:group:default"
	if groupID != nil {
		key = "rules:group:" + *groupID
	}

	if s.cache != nil {
		var cached []models.AttendanceRule
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.metrics.RecordRuleCache(true)
			return cached, nil
		} else if !appErrors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("rule cache read failed", zap.String("key", key), zap.Error(err))
		}
		s.metrics.RecordRuleCache(false)
	}

	rules, err := s.repo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, rules, s.cacheTTL); err != nil {
			s.logger.Warn("rule cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return rules, nil
}
