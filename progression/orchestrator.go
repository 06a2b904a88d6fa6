package progression

import (
	"strings"
	"time"

	"github.com/fastygo/hunter/domain"
)

// Change summarizes how one operation moved a profile.
type Change struct {
	XPDelta int  `json:"xp_delta"`
	Before  XP   `json:"before"`
	After   XP   `json:"after"`
	LevelUp bool `json:"level_up"`
}

func newChange(before, after XP) Change {
	return Change{
		XPDelta: after.TotalXP - before.TotalXP,
		Before:  before,
		After:   after,
		LevelUp: after.Level > before.Level,
	}
}

// Event builds the ledger record of the change.
func (c Change) Event(id, userID, kind, sourceID string, streak int, at time.Time) domain.ProgressEvent {
	return domain.ProgressEvent{
		ID:          id,
		UserID:      userID,
		Kind:        kind,
		SourceID:    sourceID,
		XPDelta:     c.XPDelta,
		TotalBefore: c.Before.TotalXP,
		TotalAfter:  c.After.TotalXP,
		LevelBefore: c.Before.Level,
		LevelAfter:  c.After.Level,
		StreakAfter: streak,
		CreatedAt:   at,
	}
}

// ToggleResult is the consistent task/profile pair a toggle produces. Both
// must be persisted together.
type ToggleResult struct {
	Task    domain.Task    `json:"task"`
	Profile domain.Profile `json:"profile"`
	Change  Change         `json:"change"`
}

// EventKind returns the ledger kind of the toggle.
func (r ToggleResult) EventKind() string {
	if r.Task.Completed {
		return domain.EventTaskCompleted
	}
	return domain.EventTaskReopened
}

// ToggleTaskCompletion flips task, moves XP by its reward and recomputes the
// profile streak over records with the updated task in place of the old one.
func ToggleTaskCompletion(task domain.Task, profile domain.Profile, records []domain.Task, now time.Time) ToggleResult {
	before := XPOf(profile)
	var after XP

	task.Completed = !task.Completed
	if task.Completed {
		at := now
		task.CompletedAt = &at
		task.Streak++
		after = Award(before, task.XPReward)
	} else {
		task.CompletedAt = nil
		task.Streak = max(0, task.Streak-1)
		after = Revoke(before, task.XPReward)
	}
	task.UpdatedAt = now

	profile = WithXP(profile, after)
	profile.Streak = ComputeStreak(replaceTask(records, task), now)

	return ToggleResult{
		Task:    task,
		Profile: profile,
		Change:  newChange(before, after),
	}
}

func replaceTask(records []domain.Task, task domain.Task) []domain.Task {
	out := make([]domain.Task, 0, len(records)+1)
	found := false
	for _, r := range records {
		if r.ID == task.ID {
			out = append(out, task)
			found = true
			continue
		}
		out = append(out, r)
	}
	if !found {
		out = append(out, task)
	}
	return out
}

// WorkoutResult pairs a new workout with the profile it rewards.
type WorkoutResult struct {
	Workout domain.Workout `json:"workout"`
	Profile domain.Profile `json:"profile"`
	Change  Change         `json:"change"`
}

// CompleteWorkout builds the workout record for spec and awards its XP. The
// profile streak is left untouched: only tasks feed the streak.
func CompleteWorkout(userID string, spec domain.WorkoutSpec, profile domain.Profile, now time.Time) (WorkoutResult, error) {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return WorkoutResult{}, domain.Invalid("workout name is required")
	}
	if spec.Duration <= 0 {
		return WorkoutResult{}, domain.Invalid("workout duration must be positive")
	}
	workoutType := normalize(spec.Type)
	if workoutType == "" {
		workoutType = WorkoutStrength
	}

	workout := domain.Workout{
		UserID:      userID,
		Name:        name,
		Type:        workoutType,
		Duration:    spec.Duration,
		XPEarned:    WorkoutXP(workoutType, spec.Duration),
		CompletedAt: now,
		CreatedAt:   now,
	}

	before := XPOf(profile)
	after := before
	if workout.XPEarned > 0 {
		after = Award(before, workout.XPEarned)
	}

	return WorkoutResult{
		Workout: workout,
		Profile: WithXP(profile, after),
		Change:  newChange(before, after),
	}, nil
}

// NewTask builds a fresh, uncompleted task for spec priced by table.
func NewTask(userID string, spec domain.TaskSpec, table RewardTable, now time.Time) (domain.Task, error) {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return domain.Task{}, domain.Invalid("task name is required")
	}
	difficulty := normalize(spec.Difficulty)
	if difficulty == "" {
		difficulty = DifficultyEasy
	}
	reward, err := table.Reward(difficulty)
	if err != nil {
		return domain.Task{}, err
	}
	taskType := normalize(spec.Type)
	if taskType == "" {
		taskType = domain.TaskTypeDaily
	}

	return domain.Task{
		UserID:      userID,
		Name:        name,
		Description: strings.TrimSpace(spec.Description),
		Type:        taskType,
		Difficulty:  difficulty,
		XPReward:    reward,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
