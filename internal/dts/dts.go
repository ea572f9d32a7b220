// Package dts converts between absolute datetimes and the signed
// integer seconds-from-now the constraint model works in. The run's
// "now" is captured once by the caller and threaded through every
// conversion so every interval in one run is relative to the same
// instant.
package dts

import "time"

// Convert turns an absolute time into seconds relative to now. It is
// total: on a zero or otherwise unusable input it returns ok=false
// rather than panicking, so a bad upstream datetime degrades to a
// logged, dropped row instead of aborting the run.
func Convert(t, now time.Time) (seconds int64, ok bool) {
	if t.IsZero() {
		return 0, false
	}
	return int64(t.Sub(now).Seconds()), true
}

// FromSeconds turns a seconds-from-now value back into an absolute time,
// the inverse of Convert.
func FromSeconds(seconds int64, now time.Time) time.Time {
	return now.Add(time.Duration(seconds) * time.Second)
}

// StartOfDay returns midnight of t's calendar day, in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// AtClock returns day's calendar date at the given hour:minute, in day's
// location — used to build the 06:00/13:00 swap-window boundaries and
// the 13:00-to-06:00 hard-blocker band.
func AtClock(day time.Time, hour, minute int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, day.Location())
}
