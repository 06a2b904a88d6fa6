// Package progression runs the engine's toggle and workout operations against
// the stores and commits each result in one write.
package progression

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/hunter/domain"
	engine "github.com/fastygo/hunter/progression"
	"github.com/fastygo/hunter/repository"
	"github.com/fastygo/hunter/usecase"
)

// Stores groups the collaborators the use case reads and writes.
type Stores struct {
	Profiles repository.ProfileRepository
	Tasks    repository.TaskRepository
	Progress repository.ProgressStore
	// Leaderboard is optional.
	Leaderboard repository.LeaderboardCache
}

type UseCase struct {
	stores Stores
	buffer usecase.OperationBuffer
	clock  usecase.Clock
	logger *zap.Logger
}

func New(stores Stores, buffer usecase.OperationBuffer, clock usecase.Clock, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		stores: stores,
		buffer: buffer,
		clock:  clock,
		logger: logger,
	}
}

// ToggleTask flips the completion of one of userID's tasks. When the commit
// fails the computed result is returned together with an UNAVAILABLE error.
func (uc *UseCase) ToggleTask(ctx context.Context, userID, taskID string) (*engine.ToggleResult, error) {
	task, err := uc.stores.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, usecase.Unavailable("load task", err)
	}
	if task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	profile, err := usecase.EnsureProfile(ctx, uc.stores.Profiles, userID)
	if err != nil {
		return nil, err
	}
	records, err := uc.stores.Tasks.List(ctx, repository.TaskFilter{UserID: userID})
	if err != nil {
		return nil, usecase.Unavailable("load tasks", err)
	}

	now := uc.clock.Now()
	result := engine.ToggleTaskCompletion(*task, *profile, records, now)
	commit := repository.ProgressCommit{
		Profile: result.Profile,
		Task:    &result.Task,
		Event:   result.Change.Event(uuid.NewString(), userID, result.EventKind(), task.ID, result.Profile.Streak, now),
	}

	log := uc.logger.With(zap.String("user_id", userID), zap.String("task_id", task.ID))
	if err := uc.commit(ctx, commit, log); err != nil {
		return &result, err
	}
	if result.Change.LevelUp {
		log.Info("level up", zap.Int("level", result.Profile.Level), zap.Int("total_xp", result.Profile.TotalXP))
	}
	return &result, nil
}

// LogWorkout records a finished workout and awards its XP.
func (uc *UseCase) LogWorkout(ctx context.Context, userID string, spec domain.WorkoutSpec) (*engine.WorkoutResult, error) {
	profile, err := usecase.EnsureProfile(ctx, uc.stores.Profiles, userID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	result, err := engine.CompleteWorkout(userID, spec, *profile, now)
	if err != nil {
		return nil, err
	}
	result.Workout.ID = uuid.NewString()
	commit := repository.ProgressCommit{
		Profile: result.Profile,
		Workout: &result.Workout,
		Event:   result.Change.Event(uuid.NewString(), userID, domain.EventWorkoutLogged, result.Workout.ID, result.Profile.Streak, now),
	}

	log := uc.logger.With(zap.String("user_id", userID), zap.String("workout_id", result.Workout.ID))
	if err := uc.commit(ctx, commit, log); err != nil {
		return &result, err
	}
	if result.Change.LevelUp {
		log.Info("level up", zap.Int("level", result.Profile.Level), zap.Int("total_xp", result.Profile.TotalXP))
	}
	return &result, nil
}

func (uc *UseCase) commit(ctx context.Context, commit repository.ProgressCommit, log *zap.Logger) error {
	err := uc.stores.Progress.Commit(ctx, commit)
	if err == nil {
		uc.invalidateLeaderboard(ctx, log)
		return nil
	}
	if !domain.IsStoreError(err) {
		return err
	}

	log.Error("progress commit failed", zap.Error(err))
	if uc.buffer == nil {
		return domain.WrapError(domain.ErrCodeUnavailable, "progress not saved", err)
	}
	bufErr := uc.buffer.BufferCommit(ctx, commit)
	if bufErr == nil {
		log.Warn("progress commit buffered", zap.String("event_id", commit.Event.ID))
		return domain.WrapError(domain.ErrCodeUnavailable, "progress saved for retry", err)
	}
	log.Error("failed to buffer progress commit", zap.Error(bufErr))
	err = errors.Join(err, bufErr)
	return domain.WrapError(domain.ErrCodeUnavailable, "progress not saved", err)
}

func (uc *UseCase) invalidateLeaderboard(ctx context.Context, log *zap.Logger) {
	if uc.stores.Leaderboard == nil {
		return
	}
	if err := uc.stores.Leaderboard.Invalidate(ctx); err != nil {
		log.Warn("leaderboard cache invalidation failed", zap.Error(err))
	}
}
