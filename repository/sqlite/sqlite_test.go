package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/hunter/domain"
	"github.com/fastygo/hunter/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "hunter.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedProfile(t *testing.T, db *sql.DB, id string, total int) *domain.Profile {
	t.Helper()
	p := domain.NewProfile(id, id+"@example.com", id)
	p.TotalXP = total
	require.NoError(t, NewProfileRepository(db).Create(context.Background(), p))
	return p
}

func TestProfileRepository(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewProfileRepository(db)

	seedProfile(t, db, "alice", 0)
	err := repo.Create(ctx, domain.NewProfile("alice", "", ""))
	assert.ErrorIs(t, err, domain.ErrProfileExists)

	_, err = repo.GetByID(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	name := "Alice"
	updated, err := repo.Update(ctx, "alice", domain.ProfilePatch{
		Name:  &name,
		Stats: &domain.Stats{Strength: 4, Luck: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.Name)
	assert.Equal(t, 4, updated.Strength)
	assert.Equal(t, 2, updated.Luck)
	assert.Equal(t, 1, updated.Level, "fields absent from the patch are kept")

	_, err = repo.Update(ctx, "nobody", domain.ProfilePatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestProfileRepositoryRankedKeepsInsertionOrderForTies(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	seedProfile(t, db, "first", 100)
	seedProfile(t, db, "second", 500)
	seedProfile(t, db, "third", 100)

	ranked, err := NewProfileRepository(db).Ranked(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, "second", ranked[0].ID)
	assert.Equal(t, "first", ranked[1].ID)
	assert.Equal(t, "third", ranked[2].ID)

	top, err := NewProfileRepository(db).Ranked(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "first", top[0].ID)
}

func TestTaskRepository(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	seedProfile(t, db, "alice", 0)
	repo := NewTaskRepository(db)

	base := time.Date(2026, 2, 7, 9, 0, 0, 0, time.UTC)
	older, err := repo.Create(ctx, &domain.Task{UserID: "alice", Name: "Read", Type: domain.TaskTypeDaily, Difficulty: "easy", XPReward: 10, CreatedAt: base})
	require.NoError(t, err)
	newer, err := repo.Create(ctx, &domain.Task{UserID: "alice", Name: "Run", Type: domain.TaskTypeDaily, Difficulty: "hard", XPReward: 35, CreatedAt: base.Add(time.Hour)})
	require.NoError(t, err)
	assert.NotEmpty(t, older.ID)

	tasks, err := repo.List(ctx, repository.TaskFilter{UserID: "alice"})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, newer.ID, tasks[0].ID)
	assert.True(t, tasks[1].CreatedAt.Equal(base))

	again, err := repo.Create(ctx, &domain.Task{ID: older.ID, UserID: "alice", Name: "Other", Type: domain.TaskTypeDaily, Difficulty: "easy", XPReward: 10})
	require.NoError(t, err)
	assert.Equal(t, "Read", again.Name, "existing task is returned unchanged")

	done := base.Add(2 * time.Hour)
	older.Completed = true
	older.CompletedAt = &done
	older.Streak = 1
	require.NoError(t, repo.Update(ctx, older))

	stored, err := repo.GetByID(ctx, older.ID)
	require.NoError(t, err)
	assert.True(t, stored.Completed)
	require.NotNil(t, stored.CompletedAt)
	assert.True(t, stored.CompletedAt.Equal(done))
	assert.Equal(t, 1, stored.Streak)

	require.NoError(t, repo.Delete(ctx, older.ID))
	assert.ErrorIs(t, repo.Delete(ctx, older.ID), domain.ErrTaskNotFound)
	assert.ErrorIs(t, repo.Update(ctx, older), domain.ErrTaskNotFound)
	_, err = repo.GetByID(ctx, older.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestProgressStoreCommit(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	profile := seedProfile(t, db, "alice", 0)
	task, err := NewTaskRepository(db).Create(ctx, &domain.Task{UserID: "alice", Name: "Read", Type: domain.TaskTypeDaily, Difficulty: "easy", XPReward: 10})
	require.NoError(t, err)

	now := time.Date(2026, 2, 7, 10, 0, 0, 0, time.UTC)
	task.Completed = true
	task.CompletedAt = &now
	task.Streak = 1
	profile.TotalXP, profile.CurrentXP, profile.Streak = 10, 10, 1

	commit := repository.ProgressCommit{
		Profile: *profile,
		Task:    task,
		Event: domain.ProgressEvent{
			ID: "evt-1", UserID: "alice", Kind: domain.EventTaskCompleted, SourceID: task.ID,
			XPDelta: 10, TotalAfter: 10, LevelBefore: 1, LevelAfter: 1, StreakAfter: 1, CreatedAt: now,
		},
	}
	store := NewProgressStore(db)
	require.NoError(t, store.Commit(ctx, commit))
	require.NoError(t, store.Commit(ctx, commit), "replaying a commit is harmless")

	stored, err := NewProfileRepository(db).GetByID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 10, stored.TotalXP)
	assert.Equal(t, 10, stored.CurrentXP)
	assert.Equal(t, 1, stored.Streak)

	events, err := NewEventRepository(db).ListByUser(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventTaskCompleted, events[0].Kind)

	storedTask, err := NewTaskRepository(db).GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, storedTask.Completed)
}

func TestProgressStoreCommitIsAtomic(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	profile := seedProfile(t, db, "alice", 0)

	profile.TotalXP = 50
	err := NewProgressStore(db).Commit(ctx, repository.ProgressCommit{
		Profile: *profile,
		Task:    &domain.Task{ID: "missing", UserID: "alice"},
		Event:   domain.ProgressEvent{ID: "evt-1", UserID: "alice", Kind: domain.EventTaskCompleted},
	})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	stored, err := NewProfileRepository(db).GetByID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.TotalXP)

	events, err := NewEventRepository(db).ListByUser(ctx, "alice", 10)
	require.NoError(t, err)
	assert.Empty(t, events)

	ghost := domain.NewProfile("ghost", "", "")
	err = NewProgressStore(db).Commit(ctx, repository.ProgressCommit{
		Profile: *ghost,
		Workout: &domain.Workout{ID: "w-1", UserID: "alice", Name: "Lift", Type: "strength", Duration: 10, XPEarned: 20},
	})
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	workouts, err := NewWorkoutRepository(db).List(ctx, repository.WorkoutFilter{UserID: "alice"})
	require.NoError(t, err)
	assert.Empty(t, workouts, "workout insert is rolled back with the failed profile update")
}

func TestWorkoutRepository(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	seedProfile(t, db, "alice", 0)
	repo := NewWorkoutRepository(db)

	base := time.Date(2026, 2, 7, 7, 0, 0, 0, time.UTC)
	first, err := repo.Create(ctx, &domain.Workout{UserID: "alice", Name: "Lift", Type: "strength", Duration: 30, XPEarned: 60, CompletedAt: base})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Workout{UserID: "alice", Name: "Jog", Type: "cardio", Duration: 20, XPEarned: 30, CompletedAt: base.Add(time.Hour)})
	require.NoError(t, err)
	_, err = repo.Create(ctx, first)
	require.NoError(t, err)

	workouts, err := repo.List(ctx, repository.WorkoutFilter{UserID: "alice"})
	require.NoError(t, err)
	require.Len(t, workouts, 2)
	assert.Equal(t, "Jog", workouts[0].Name)
	assert.Equal(t, 60, workouts[1].XPEarned)
}
