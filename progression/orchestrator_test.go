package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/hunter/domain"
)

func TestToggleTaskCompletion_CompleteThenReopen(t *testing.T) {
	profile := domain.Profile{ID: "u1", Level: 1, TotalXP: 2990, CurrentXP: 2990}
	task := domain.Task{ID: "t1", UserID: "u1", XPReward: 35, Streak: 2}
	records := []domain.Task{task, completedAt("t2", daysAgo(1))}

	done := ToggleTaskCompletion(task, profile, records, asOf)

	assert.True(t, done.Task.Completed)
	require.NotNil(t, done.Task.CompletedAt)
	assert.Equal(t, asOf, *done.Task.CompletedAt)
	assert.Equal(t, 3, done.Task.Streak)
	assert.Equal(t, 3025, done.Profile.TotalXP)
	assert.Equal(t, 25, done.Profile.CurrentXP)
	assert.Equal(t, 2, done.Profile.Level)
	assert.Equal(t, 2, done.Profile.Streak)
	assert.True(t, done.Change.LevelUp)
	assert.Equal(t, 35, done.Change.XPDelta)
	assert.Equal(t, domain.EventTaskCompleted, done.EventKind())

	records = replaceTask(records, done.Task)
	undone := ToggleTaskCompletion(done.Task, done.Profile, records, asOf)

	assert.False(t, undone.Task.Completed)
	assert.Nil(t, undone.Task.CompletedAt)
	assert.Equal(t, task.Streak, undone.Task.Streak)
	assert.Equal(t, profile.TotalXP, undone.Profile.TotalXP)
	assert.Equal(t, 2990, undone.Profile.CurrentXP)
	assert.Equal(t, 1, undone.Profile.Level)
	assert.Equal(t, 1, undone.Profile.Streak)
	assert.Equal(t, -35, undone.Change.XPDelta)
	assert.False(t, undone.Change.LevelUp)
	assert.Equal(t, domain.EventTaskReopened, undone.EventKind())
}

func TestToggleTaskCompletion_TaskStreakFloorsAtZero(t *testing.T) {
	at := daysAgo(3)
	task := domain.Task{ID: "t1", XPReward: 10, Completed: true, CompletedAt: &at}
	profile := domain.Profile{Level: 1, TotalXP: 5, CurrentXP: 5}

	res := ToggleTaskCompletion(task, profile, []domain.Task{task}, asOf)

	assert.Equal(t, 0, res.Task.Streak)
	assert.Equal(t, 0, res.Profile.TotalXP)
	assert.Equal(t, 1, res.Profile.Level)
	assert.Equal(t, 0, res.Profile.Streak)
}

func TestToggleTaskCompletion_TaskMissingFromRecords(t *testing.T) {
	task := domain.Task{ID: "t9", XPReward: 10}
	res := ToggleTaskCompletion(task, domain.Profile{Level: 1}, nil, asOf)
	assert.Equal(t, 1, res.Profile.Streak)
}

func TestToggleTaskCompletion_DoesNotMutateInputs(t *testing.T) {
	task := domain.Task{ID: "t1", XPReward: 10}
	records := []domain.Task{task}
	ToggleTaskCompletion(task, domain.Profile{Level: 1}, records, asOf)

	assert.False(t, task.Completed)
	assert.False(t, records[0].Completed)
}

func TestCompleteWorkout(t *testing.T) {
	profile := domain.Profile{ID: "u1", Level: 1, TotalXP: 100, CurrentXP: 100, Streak: 4}

	res, err := CompleteWorkout("u1", domain.WorkoutSpec{Name: " Run ", Type: "Cardio", Duration: 45}, profile, asOf)
	require.NoError(t, err)

	assert.Equal(t, "Run", res.Workout.Name)
	assert.Equal(t, WorkoutCardio, res.Workout.Type)
	assert.Equal(t, 67, res.Workout.XPEarned)
	assert.Equal(t, asOf, res.Workout.CompletedAt)
	assert.Equal(t, 167, res.Profile.TotalXP)
	assert.Equal(t, 4, res.Profile.Streak)
	assert.Equal(t, 67, res.Change.XPDelta)
}

func TestCompleteWorkout_Validation(t *testing.T) {
	_, err := CompleteWorkout("u1", domain.WorkoutSpec{Name: "", Duration: 10}, domain.Profile{Level: 1}, asOf)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = CompleteWorkout("u1", domain.WorkoutSpec{Name: "Lift", Duration: 0}, domain.Profile{Level: 1}, asOf)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestWorkoutXP(t *testing.T) {
	assert.Equal(t, 60, WorkoutXP(WorkoutStrength, 30))
	assert.Equal(t, 15, WorkoutXP(WorkoutCardio, 10))
	assert.Equal(t, 22, WorkoutXP(WorkoutCardio, 15))
	assert.Equal(t, 20, WorkoutXP(WorkoutFlexibility, 20))
	assert.Equal(t, 27, WorkoutXP(WorkoutEndurance, 11))
	assert.Equal(t, 12, WorkoutXP("yoga", 12))
}

func TestNewTask(t *testing.T) {
	task, err := NewTask("u1", domain.TaskSpec{Name: "Read", Difficulty: "Hard"}, QuestModalRewards, asOf)
	require.NoError(t, err)

	assert.Equal(t, "u1", task.UserID)
	assert.Equal(t, 35, task.XPReward)
	assert.Equal(t, DifficultyHard, task.Difficulty)
	assert.Equal(t, domain.TaskTypeDaily, task.Type)
	assert.False(t, task.Completed)
	assert.Nil(t, task.CompletedAt)
	assert.Zero(t, task.Streak)
	assert.Equal(t, asOf, task.CreatedAt)

	_, err = NewTask("u1", domain.TaskSpec{Name: "  "}, QuestModalRewards, asOf)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestRewardTables(t *testing.T) {
	modal := map[string]int{"easy": 10, "medium": 20, "hard": 35, "extreme": 50, "legendary": 10}
	for difficulty, want := range modal {
		got, err := QuestModalRewards.Reward(difficulty)
		require.NoError(t, err)
		assert.Equal(t, want, got, difficulty)
	}

	board := map[string]int{"easy": 25, "medium": 50, "hard": 100}
	for difficulty, want := range board {
		got, err := QuestBoardRewards.Reward(difficulty)
		require.NoError(t, err)
		assert.Equal(t, want, got, difficulty)
	}

	_, err := QuestBoardRewards.Reward("extreme")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	assert.Len(t, RewardTables, 2)
}
