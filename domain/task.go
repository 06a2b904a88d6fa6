package domain

import "time"

// Task types offered by the quest dialog.
const (
	TaskTypeDaily  = "daily"
	TaskTypeWeekly = "weekly"
	TaskTypeCustom = "custom"
)

// Task represents a user-owned quest that can be toggled done and undone.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	Difficulty  string     `json:"difficulty"`
	XPReward    int        `json:"xp_reward"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	Streak      int        `json:"streak"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Completed
}

// Completion returns the completion timestamp when the task is completed.
func (t Task) Completion() (time.Time, bool) {
	if !t.Completed || t.CompletedAt == nil {
		return time.Time{}, false
	}
	return *t.CompletedAt, true
}

// TaskSpec carries the user supplied fields of a new task.
type TaskSpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Difficulty  string `json:"difficulty"`
}
