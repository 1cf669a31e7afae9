package notifications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fynans/fynans-api/models"
)

func clock(hour, minute int) time.Time {
	return time.Date(2025, 6, 15, hour, minute, 0, 0, time.UTC)
}

func TestIsQuietTime(t *testing.T) {
	tests := []struct {
		name     string
		enabled  bool
		start    string
		end      string
		now      time.Time
		expected bool
	}{
		{name: "disabled", enabled: false, start: "22:00", end: "07:00", now: clock(23, 0), expected: false},
		{name: "same day window inside", enabled: true, start: "13:00", end: "15:00", now: clock(14, 0), expected: true},
		{name: "same day window before", enabled: true, start: "13:00", end: "15:00", now: clock(12, 59), expected: false},
		{name: "same day window at start", enabled: true, start: "13:00", end: "15:00", now: clock(13, 0), expected: true},
		{name: "same day window at end", enabled: true, start: "13:00", end: "15:00", now: clock(15, 0), expected: false},
		{name: "wraps midnight late evening", enabled: true, start: "22:00", end: "07:00", now: clock(23, 30), expected: true},
		{name: "wraps midnight early morning", enabled: true, start: "22:00", end: "07:00", now: clock(6, 59), expected: true},
		{name: "wraps midnight at end", enabled: true, start: "22:00", end: "07:00", now: clock(7, 0), expected: false},
		{name: "wraps midnight midday", enabled: true, start: "22:00", end: "07:00", now: clock(12, 0), expected: false},
		{name: "start equals end is all day", enabled: true, start: "09:00", end: "09:00", now: clock(15, 0), expected: true},
		{name: "unparseable start disables window", enabled: true, start: "25:99", end: "07:00", now: clock(23, 0), expected: false},
		{name: "empty times disable window", enabled: true, start: "", end: "", now: clock(23, 0), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pref := models.NotificationPreference{
				QuietHoursEnabled: tt.enabled,
				QuietHoursStart:   tt.start,
				QuietHoursEnd:     tt.end,
			}
			assert.Equal(t, tt.expected, IsQuietTime(pref, tt.now))
		})
	}
}
