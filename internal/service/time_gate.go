package service

import (
	"time"

	"github.com/sekolahdev/presensi-api/internal/models"
)

// ShouldRun decides whether "now" falls inside the allowed execution window
// around a configured time of day. The nearest occurrence of the target is
// checked on yesterday, today and tomorrow so a job scheduled just after
// midnight still matches a tick just before it. Forced invocations bypass the
// gate entirely.
func ShouldRun(now time.Time, target models.TimeOfDay, forced bool, tolerance time.Duration) bool {
	if forced {
		return true
	}

	nearest := time.Duration(1<<63 - 1)
	for _, dayOffset := range []int{-1, 0, 1} {
		occurrence := target.On(now.AddDate(0, 0, dayOffset))
		diff := now.Sub(occurrence)
		if diff < 0 {
			diff = -diff
		}
		if diff < nearest {
			nearest = diff
		}
	}
	return nearest <= tolerance
}
