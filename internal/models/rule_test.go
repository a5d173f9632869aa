package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdaySetScan(t *testing.T) {
	var set WeekdaySet
	require.NoError(t, set.Scan("1,2,3,4,5"))
	assert.True(t, set.Contains(time.Monday))
	assert.True(t, set.Contains(time.Friday))
	assert.False(t, set.Contains(time.Saturday))

	require.NoError(t, set.Scan(nil))
	assert.Empty(t, set)

	require.NoError(t, set.Scan([]byte("0,6")))
	assert.True(t, set.Contains(time.Sunday))

	assert.Error(t, set.Scan("1,7"))
	assert.Error(t, set.Scan("mon"))
}

func TestWeekdaySetValue(t *testing.T) {
	v, err := WeekdaySet{time.Monday, time.Wednesday}.Value()
	require.NoError(t, err)
	assert.Equal(t, "1,3", v)

	v, err = WeekdaySet{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestRuleMatching(t *testing.T) {
	monday := time.Date(2026, 8, 17, 7, 0, 0, 0, time.UTC)
	require.Equal(t, time.Monday, monday.Weekday())

	override := DateOf(monday)
	withOverride := AttendanceRule{DateOverride: &override, Weekdays: WeekdaySet{time.Monday}}
	assert.True(t, withOverride.MatchesDate(monday))
	assert.False(t, withOverride.MatchesDate(monday.AddDate(0, 0, 1)))
	// An override rule is pinned to its date and never matches by weekday.
	assert.False(t, withOverride.MatchesWeekday(monday))

	weekdayRule := AttendanceRule{Weekdays: WeekdaySet{time.Monday}}
	assert.False(t, weekdayRule.MatchesDate(monday))
	assert.True(t, weekdayRule.MatchesWeekday(monday))
	assert.False(t, weekdayRule.MatchesWeekday(monday.AddDate(0, 0, 1)))
}

func TestDateOf(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	local := time.Date(2026, 8, 17, 23, 45, 0, 0, jakarta)
	assert.Equal(t, time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), DateOf(local))
}
