package repository

import (
	"context"

	"github.com/fastygo/hunter/domain"
)

type WorkoutFilter struct {
	UserID string
	Limit  int
	Offset int
}

type WorkoutRepository interface {
	// List returns workouts, most recently completed first.
	List(ctx context.Context, filter WorkoutFilter) ([]domain.Workout, error)
	Create(ctx context.Context, workout *domain.Workout) (*domain.Workout, error)
}
