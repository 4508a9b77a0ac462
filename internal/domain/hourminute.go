package domain

import (
	"fmt"
	"time"
)

// HourMinute is a wall-clock HH:MM amount of time, the unit work and break
// durations are reported and rendered in. It is stored as whole minutes and
// may be negative for a span whose end precedes its start; the store rejects
// such spans at write time.
type HourMinute struct {
	Minutes int
}

// HourMinuteFromDuration truncates d to whole minutes.
func HourMinuteFromDuration(d time.Duration) HourMinute {
	return HourMinute{Minutes: int(d / time.Minute)}
}

// HourMinuteFromClock builds a value from an hour/minute pair.
func HourMinuteFromClock(hour, minute int) HourMinute {
	return HourMinute{Minutes: hour*60 + minute}
}

// Hours returns the whole-hour part.
func (hm HourMinute) Hours() int {
	return hm.Minutes / 60
}

// Minute returns the minute part within the hour.
func (hm HourMinute) Minute() int {
	return hm.Minutes % 60
}

// Duration converts to a time.Duration.
func (hm HourMinute) Duration() time.Duration {
	return time.Duration(hm.Minutes) * time.Minute
}

// Add returns the sum of two values.
func (hm HourMinute) Add(other HourMinute) HourMinute {
	return HourMinute{Minutes: hm.Minutes + other.Minutes}
}

// IsZero reports whether the value is exactly 00:00.
func (hm HourMinute) IsZero() bool {
	return hm.Minutes == 0
}

// String renders the value as zero-padded HH:MM.
func (hm HourMinute) String() string {
	return fmt.Sprintf("%02d:%02d", hm.Hours(), hm.Minute())
}

// Compact renders the value as HHMM, the form the per-user CSV export uses.
func (hm HourMinute) Compact() string {
	return fmt.Sprintf("%02d%02d", hm.Hours(), hm.Minute())
}
