// Package civiltime converts between stored UTC instants and the business
// calendar, which is pinned to a fixed UTC+5:30 offset regardless of where
// the service or its database happen to run.
package civiltime

import "time"

// Zone is the fixed business-time offset (UTC+5:30). Host-local time is
// never consulted.
var Zone = time.FixedZone("UTC+05:30", 5*3600+30*60)

// Now returns the current instant expressed in business time.
func Now() time.Time {
	return time.Now().In(Zone)
}

// In re-expresses an instant in business time without changing it.
func In(t time.Time) time.Time {
	return t.In(Zone)
}

// DayStart returns the instant of 00:00:00 business time on the business
// date containing t.
func DayStart(t time.Time) time.Time {
	local := t.In(Zone)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Zone)
}

// DayEnd returns the last representable millisecond of the business date
// containing t.
func DayEnd(t time.Time) time.Time {
	return DayStart(t).Add(24*time.Hour - time.Millisecond)
}

// Date returns the business-calendar date of t.
func Date(t time.Time) (year int, month time.Month, day int) {
	local := t.In(Zone)
	return local.Year(), local.Month(), local.Day()
}

// Clock returns the business wall-clock hour and minute of t.
func Clock(t time.Time) (hour, minute int) {
	local := t.In(Zone)
	return local.Hour(), local.Minute()
}

// FromCivil builds the instant corresponding to the given business-calendar
// wall-clock reading.
func FromCivil(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, Zone)
}

// SameDate reports whether two instants fall on the same business date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := Date(a)
	by, bm, bd := Date(b)
	return ay == by && am == bm && ad == bd
}
