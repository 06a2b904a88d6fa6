package progression

import "time"

// Completable is anything that may carry a completion stamp. The second
// result is false for records that are not completed or have no stamp.
type Completable interface {
	Completion() (time.Time, bool)
}

// ComputeStreak counts consecutive calendar days, ending on asOf's day, with
// at least one completed record. asOf's own day is graced once: if nothing
// was completed today the walk moves on to yesterday without breaking.
// The walk stops at the first earlier day with no completion.
func ComputeStreak[R Completable](records []R, asOf time.Time) int {
	y, m, d := asOf.Date()
	loc := asOf.Location()
	streak := 0

	// walk calendar dates, not instants, so days without a midnight are visited
	for i := 0; ; i++ {
		if completedOn(records, dayStart(y, m, d-i, loc)) {
			streak++
			continue
		}
		if i > 0 {
			return streak
		}
	}
}

// CompletedOn counts the records completed within the calendar day of day.
func CompletedOn[R Completable](records []R, day time.Time) int {
	start, end := DayBounds(day)
	n := 0
	for _, r := range records {
		if at, ok := r.Completion(); ok && IsWithin(at, start, end) {
			n++
		}
	}
	return n
}

func completedOn[R Completable](records []R, day time.Time) bool {
	start, end := DayBounds(day)
	for _, r := range records {
		if at, ok := r.Completion(); ok && IsWithin(at, start, end) {
			return true
		}
	}
	return false
}
