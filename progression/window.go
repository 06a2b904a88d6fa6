// Package progression holds the pure XP, level and streak rules. Nothing in
// this package touches a store or the wall clock; callers pass "now".
package progression

import "time"

// DayBounds returns the first and the last instant of the calendar day
// containing t, in t's location. Both ends are inclusive.
func DayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := dayStart(y, m, d, t.Location())
	end := dayStart(y, m, d+1, t.Location()).Add(-time.Nanosecond)
	return start, end
}

// dayStart returns the first instant of the calendar day y-m-d in loc. d is
// normalized the way time.Date normalizes it. When a zone transition skips
// midnight the day begins at the transition.
func dayStart(y int, m time.Month, d int, loc *time.Location) time.Time {
	noon := time.Date(y, m, d, 12, 0, 0, 0, loc)
	y, m, d = noon.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if sy, sm, sd := start.Date(); sy != y || sm != m || sd != d {
		start, _ = noon.ZoneBounds()
	}
	return start
}

// IsWithin reports whether ts lies in [start, end].
func IsWithin(ts, start, end time.Time) bool {
	return !ts.Before(start) && !ts.After(end)
}

// PreviousDay returns the start of the calendar day before t.
func PreviousDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return dayStart(y, m, d-1, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day of a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
