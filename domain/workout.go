package domain

import "time"

// Workout is an immutable completed-activity record. Workouts are only ever
// appended.
type Workout struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Duration    int       `json:"duration"`
	XPEarned    int       `json:"xp_earned"`
	CompletedAt time.Time `json:"completed_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// WorkoutSpec carries the user supplied fields of a logged workout.
// Duration is in minutes.
type WorkoutSpec struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Duration int    `json:"duration"`
}
