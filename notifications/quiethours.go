package notifications

import (
	"time"

	"github.com/fynans/fynans-api/models"
)

// IsQuietTime reports whether the preference's quiet-hours window covers now.
// The window is [start, end) on the time-of-day component; start > end means
// it wraps past midnight, start == end means the whole day is quiet.
func IsQuietTime(pref models.NotificationPreference, now time.Time) bool {
	if !pref.QuietHoursEnabled {
		return false
	}

	start, okStart := parseClock(pref.QuietHoursStart)
	end, okEnd := parseClock(pref.QuietHoursEnd)
	if !okStart || !okEnd {
		return false
	}

	minute := now.Hour()*60 + now.Minute()

	switch {
	case start == end:
		return true
	case start < end:
		return minute >= start && minute < end
	default:
		return minute >= start || minute < end
	}
}

// parseClock converts "HH:MM" to minutes since midnight
func parseClock(v string) (int, bool) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
