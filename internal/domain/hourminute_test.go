package domain

import (
	"testing"
	"time"
)

func TestHourMinuteRendering(t *testing.T) {
	cases := []struct {
		name        string
		value       HourMinute
		wantString  string
		wantCompact string
	}{
		{"zero", HourMinute{}, "00:00", "0000"},
		{"minutes only", HourMinuteFromClock(0, 45), "00:45", "0045"},
		{"hours and minutes", HourMinuteFromClock(9, 5), "09:05", "0905"},
		{"long day", HourMinuteFromDuration(10*time.Hour + 30*time.Minute), "10:30", "1030"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.value.String(); got != tc.wantString {
				t.Errorf("String() = %q, want %q", got, tc.wantString)
			}
			if got := tc.value.Compact(); got != tc.wantCompact {
				t.Errorf("Compact() = %q, want %q", got, tc.wantCompact)
			}
		})
	}
}

func TestHourMinuteFromDurationTruncates(t *testing.T) {
	got := HourMinuteFromDuration(7*time.Hour + 59*time.Minute + 59*time.Second)
	if got.Minutes != 7*60+59 {
		t.Errorf("Minutes = %d, want %d", got.Minutes, 7*60+59)
	}
}

func TestHourMinuteAdd(t *testing.T) {
	sum := HourMinuteFromClock(1, 50).Add(HourMinuteFromClock(0, 20))
	if sum.String() != "02:10" {
		t.Errorf("sum = %s, want 02:10", sum)
	}
}
