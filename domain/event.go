package domain

import "time"

// Ledger event kinds.
const (
	EventTaskCompleted = "task.completed"
	EventTaskReopened  = "task.reopened"
	EventWorkoutLogged = "workout.logged"
)

// ProgressEvent records one XP change applied to a profile. Events are
// written in the same commit as the profile update they describe.
type ProgressEvent struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Kind        string    `json:"kind"`
	SourceID    string    `json:"source_id"`
	XPDelta     int       `json:"xp_delta"`
	TotalBefore int       `json:"total_before"`
	TotalAfter  int       `json:"total_after"`
	LevelBefore int       `json:"level_before"`
	LevelAfter  int       `json:"level_after"`
	StreakAfter int       `json:"streak_after"`
	CreatedAt   time.Time `json:"created_at"`
}

// LevelUp reports whether the change moved the profile to a higher level.
func (e ProgressEvent) LevelUp() bool {
	return e.LevelAfter > e.LevelBefore
}
