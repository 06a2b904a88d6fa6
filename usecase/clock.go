package usecase

import "time"

// Clock returns the current instant in the service timezone.
type Clock func() time.Time

// SystemClock reads the wall clock in loc.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time { return time.Now().In(loc) }
}

// FixedClock always returns t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
