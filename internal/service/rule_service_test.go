package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahdev/presensi-api/internal/models"
	"github.com/sekolahdev/presensi-api/pkg/config"
	appErrors "github.com/sekolahdev/presensi-api/pkg/errors"
)

type ruleListerStub struct {
	rules []models.AttendanceRule
	err   error
	calls int
}

func (s *ruleListerStub) ListByGroup(_ context.Context, _ *string) ([]models.AttendanceRule, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.rules, nil
}

type ruleCacheStub struct {
	rules []models.AttendanceRule
	hit   bool

	getKey string
	setKey string
}

func (c *ruleCacheStub) Get(_ context.Context, key string, dest interface{}) error {
	c.getKey = key
	if !c.hit {
		return appErrors.Clone(appErrors.ErrCacheMiss, "")
	}
	*(dest.(*[]models.AttendanceRule)) = c.rules
	return nil
}

func (c *ruleCacheStub) Set(_ context.Context, key string, _ interface{}, _ time.Duration) error {
	c.setKey = key
	return nil
}

func defaultWindows() config.AttendanceConfig {
	return config.AttendanceConfig{
		DefaultCheckInStart:  "06:30",
		DefaultCheckInEnd:    "07:15",
		DefaultCheckOutStart: "14:00",
		DefaultCheckOutEnd:   "17:00",
	}
}

func newRuleFixture(t *testing.T, repo *ruleListerStub, cache *ruleCacheStub) *RuleService {
	t.Helper()
	var c ruleCache
	if cache != nil {
		c = cache
	}
	svc, err := NewRuleService(repo, c, defaultWindows(), 5*time.Minute, nil, nil)
	require.NoError(t, err)
	return svc
}

func TestNewRuleServiceRejectsBadDefaults(t *testing.T) {
	cfg := defaultWindows()
	cfg.DefaultCheckInStart = "half past six"
	_, err := NewRuleService(&ruleListerStub{}, nil, cfg, 0, nil, nil)
	require.Error(t, err)
}

func TestResolveDateOverrideWins(t *testing.T) {
	when := time.Date(2026, 8, 17, 7, 0, 0, 0, time.UTC)
	override := models.DateOf(when)
	repo := &ruleListerStub{rules: []models.AttendanceRule{
		{ID: "weekday-rule", Weekdays: models.WeekdaySet{when.Weekday()}},
		{ID: "override-rule", DateOverride: &override},
	}}
	svc := newRuleFixture(t, repo, nil)

	rule, err := svc.Resolve(context.Background(), nil, when)
	require.NoError(t, err)
	assert.Equal(t, "override-rule", rule.ID)
}

func TestResolveWeekdayMatch(t *testing.T) {
	when := time.Date(2026, 8, 17, 7, 0, 0, 0, time.UTC)
	otherDay := models.DateOf(when.AddDate(0, 0, 3))
	repo := &ruleListerStub{rules: []models.AttendanceRule{
		{ID: "other-override", DateOverride: &otherDay},
		{ID: "weekday-rule", Weekdays: models.WeekdaySet{when.Weekday()}},
	}}
	svc := newRuleFixture(t, repo, nil)

	rule, err := svc.Resolve(context.Background(), nil, when)
	require.NoError(t, err)
	assert.Equal(t, "weekday-rule", rule.ID)
}

func TestResolveOverrideRuleNeverMatchesByWeekday(t *testing.T) {
	when := time.Date(2026, 8, 17, 7, 0, 0, 0, time.UTC)
	otherDay := models.DateOf(when.AddDate(0, 0, 3))
	repo := &ruleListerStub{rules: []models.AttendanceRule{
		// Carries the right weekday but targets another date, so the lookup
		// must fall through to the degraded first-rule path.
		{ID: "stale-override", DateOverride: &otherDay, Weekdays: models.WeekdaySet{when.Weekday()}},
	}}
	svc := newRuleFixture(t, repo, nil)

	rule, err := svc.Resolve(context.Background(), nil, when)
	require.NoError(t, err)
	assert.Equal(t, "stale-override", rule.ID)
}

func TestResolveDegradedFallsBackToFirstRule(t *testing.T) {
	when := time.Date(2026, 8, 17, 7, 0, 0, 0, time.UTC)
	repo := &ruleListerStub{rules: []models.AttendanceRule{
		{ID: "first", Weekdays: models.WeekdaySet{when.AddDate(0, 0, 1).Weekday()}},
		{ID: "second", Weekdays: models.WeekdaySet{when.AddDate(0, 0, 2).Weekday()}},
	}}
	svc := newRuleFixture(t, repo, nil)

	rule, err := svc.Resolve(context.Background(), nil, when)
	require.NoError(t, err)
	assert.Equal(t, "first", rule.ID)
}

func TestResolveSynthesizesDefault(t *testing.T) {
	repo := &ruleListerStub{}
	svc := newRuleFixture(t, repo, nil)

	group := "class-7a"
	rule, err := svc.Resolve(context.Background(), &group, time.Date(2026, 8, 17, 7, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "default", rule.ID)
	require.NotNil(t, rule.GroupID)
	assert.Equal(t, "class-7a", *rule.GroupID)
	assert.Equal(t, mustTimeOfDay(t, "06:30"), rule.CheckInStart)
	assert.Equal(t, mustTimeOfDay(t, "14:00"), rule.CheckOutStart)
}

func TestResolveUsesCache(t *testing.T) {
	when := time.Date(2026, 8, 17, 7, 0, 0, 0, time.UTC)
	cached := []models.AttendanceRule{{ID: "cached-rule", Weekdays: models.WeekdaySet{when.Weekday()}}}
	repo := &ruleListerStub{}
	cache := &ruleCacheStub{rules: cached, hit: true}
	svc := newRuleFixture(t, repo, cache)

	group := "class-7a"
	rule, err := svc.Resolve(context.Background(), &group, when)
	require.NoError(t, err)

	assert.Equal(t, "cached-rule", rule.ID)
	assert.Equal(t, "rules:group:class-7a", cache.getKey)
	assert.Zero(t, repo.calls)
}

func TestResolveCacheMissFillsCache(t *testing.T) {
	when := time.Date(2026, 8, 17, 7, 0, 0, 0, time.UTC)
	repo := &ruleListerStub{rules: []models.AttendanceRule{
		{ID: "db-rule", Weekdays: models.WeekdaySet{when.Weekday()}},
	}}
	cache := &ruleCacheStub{}
	svc := newRuleFixture(t, repo, cache)

	rule, err := svc.Resolve(context.Background(), nil, when)
	require.NoError(t, err)

	assert.Equal(t, "db-rule", rule.ID)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, "rules:group:default", cache.setKey)
}
