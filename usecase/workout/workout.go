package workout

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/hunter/domain"
	"github.com/fastygo/hunter/repository"
	"github.com/fastygo/hunter/usecase"
)

type UseCase struct {
	workouts repository.WorkoutRepository
	logger   *zap.Logger
}

func New(workouts repository.WorkoutRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		workouts: workouts,
		logger:   logger,
	}
}

// ListWorkouts returns the user's workout log, most recent first.
func (uc *UseCase) ListWorkouts(ctx context.Context, userID string, limit, offset int) ([]domain.Workout, error) {
	workouts, err := uc.workouts.List(ctx, repository.WorkoutFilter{UserID: userID, Limit: limit, Offset: offset})
	if err != nil {
		return nil, usecase.Unavailable("list workouts", err)
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}
	return workouts, nil
}
