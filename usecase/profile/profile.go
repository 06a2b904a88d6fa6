package profile

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/hunter/domain"
	engine "github.com/fastygo/hunter/progression"
	"github.com/fastygo/hunter/repository"
	"github.com/fastygo/hunter/usecase"
)

// Stores groups the repositories the profile screens read.
type Stores struct {
	Profiles repository.ProfileRepository
	Tasks    repository.TaskRepository
	Workouts repository.WorkoutRepository
	Events   repository.EventRepository
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

func (uc *UseCase) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	return usecase.EnsureProfile(ctx, uc.stores.Profiles, userID)
}

// UpdateProfile changes the name and stats of a profile. Progression fields
// in patch are ignored.
func (uc *UseCase) UpdateProfile(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.Profile, error) {
	patch = domain.ProfilePatch{Name: patch.Name, Stats: patch.Stats}
	if patch.Empty() {
		return nil, domain.Invalid("nothing to update")
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, domain.Invalid("name must not be empty")
		}
		patch.Name = &name
	}

	current, err := usecase.EnsureProfile(ctx, uc.stores.Profiles, userID)
	if err != nil {
		return nil, err
	}

	updated, err := uc.stores.Profiles.Update(ctx, userID, patch)
	if err != nil {
		if domain.IsStoreError(err) && uc.buffer != nil {
			if bufErr := uc.buffer.BufferProfile(ctx, userID, patch); bufErr != nil {
				uc.logger.Error("failed to buffer profile update", zap.Error(bufErr))
				return nil, usecase.Unavailable("update profile", err)
			}
			uc.logger.Warn("profile update buffered due to repository error", zap.String("user_id", userID), zap.Error(err))
			patch.Apply(current)
			return current, nil
		}
		return nil, usecase.Unavailable("update profile", err)
	}
	return updated, nil
}

// Summary is the dashboard view of a profile.
type Summary struct {
	Profile         domain.Profile       `json:"profile"`
	Rank            string               `json:"rank"`
	ProgressPercent float64              `json:"progress_percent"`
	XPToNextLevel   int                  `json:"xp_to_next_level"`
	CompletedTasks  int                  `json:"completed_tasks"`
	TotalTasks      int                  `json:"total_tasks"`
	Workouts        int                  `json:"workouts"`
	Achievements    []engine.Achievement `json:"achievements"`
	Weekly          []engine.DayProgress `json:"weekly"`
}

func (uc *UseCase) Summary(ctx context.Context, userID string) (*Summary, error) {
	profile, err := usecase.EnsureProfile(ctx, uc.stores.Profiles, userID)
	if err != nil {
		return nil, err
	}
	tasks, err := uc.stores.Tasks.List(ctx, repository.TaskFilter{UserID: userID})
	if err != nil {
		return nil, usecase.Unavailable("list tasks", err)
	}
	workouts, err := uc.stores.Workouts.List(ctx, repository.WorkoutFilter{UserID: userID})
	if err != nil {
		return nil, usecase.Unavailable("list workouts", err)
	}

	xp := engine.XPOf(*profile)
	completed := engine.CountCompleted(tasks)
	return &Summary{
		Profile:         *profile,
		Rank:            engine.RankTitle(profile.Level),
		ProgressPercent: engine.ProgressPercent(xp),
		XPToNextLevel:   engine.XPPerLevel - xp.CurrentXP,
		CompletedTasks:  completed,
		TotalTasks:      len(tasks),
		Workouts:        len(workouts),
		Achievements: engine.Achievements(engine.AchievementInput{
			CompletedTasks: completed,
			Workouts:       len(workouts),
			Streak:         profile.Streak,
			Level:          profile.Level,
		}),
		Weekly: engine.WeeklyProgress(tasks, uc.clock.Now()),
	}, nil
}

// History returns the user's most recent XP changes, newest first.
func (uc *UseCase) History(ctx context.Context, userID string, limit int) ([]domain.ProgressEvent, error) {
	events, err := uc.stores.Events.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, usecase.Unavailable("load history", err)
	}
	if events == nil {
		events = []domain.ProgressEvent{}
	}
	return events, nil
}
