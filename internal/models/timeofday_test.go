package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("06:30")
	require.NoError(t, err)
	assert.Equal(t, 6, tod.Hour())
	assert.Equal(t, 30, tod.Minute())

	tod, err = ParseTimeOfDay("14:00:59")
	require.NoError(t, err)
	assert.Equal(t, "14:00", tod.String())

	for _, raw := range []string{"", "25:00", "07:61", "noon"} {
		_, err := ParseTimeOfDay(raw)
		assert.Error(t, err, raw)
	}
}

func TestTimeOfDayOrdering(t *testing.T) {
	early := TimeOfDayOf(time.Date(2026, 8, 17, 6, 29, 59, 0, time.UTC))
	start, err := ParseTimeOfDay("06:30")
	require.NoError(t, err)
	assert.True(t, early < start)

	// Seconds are discarded, so 06:30:59 still sits on the boundary.
	boundary := TimeOfDayOf(time.Date(2026, 8, 17, 6, 30, 59, 0, time.UTC))
	assert.Equal(t, start, boundary)
}

func TestTimeOfDayOn(t *testing.T) {
	tod, err := ParseTimeOfDay("09:00")
	require.NoError(t, err)
	anchored := tod.On(time.Date(2026, 8, 17, 23, 45, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 8, 17, 9, 0, 0, 0, time.UTC), anchored)
}

func TestTimeOfDayScan(t *testing.T) {
	var tod TimeOfDay
	require.NoError(t, tod.Scan("07:15:00"))
	assert.Equal(t, "07:15", tod.String())

	require.NoError(t, tod.Scan([]byte("14:00:00")))
	assert.Equal(t, "14:00", tod.String())

	require.NoError(t, tod.Scan(time.Date(2026, 8, 17, 17, 30, 0, 0, time.UTC)))
	assert.Equal(t, "17:30", tod.String())

	assert.Error(t, tod.Scan(42))
}

func TestTimeOfDayValue(t *testing.T) {
	tod, err := ParseTimeOfDay("06:30")
	require.NoError(t, err)
	v, err := tod.Value()
	require.NoError(t, err)
	assert.Equal(t, "06:30:00", v)
}
