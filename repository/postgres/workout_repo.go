package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/hunter/domain"
	"github.com/fastygo/hunter/repository"
)

type workoutRepository struct {
	pool *pgxpool.Pool
}

// NewWorkoutRepository returns a Postgres-backed workout log.
func NewWorkoutRepository(pool *pgxpool.Pool) repository.WorkoutRepository {
	return &workoutRepository{pool: pool}
}

func (r *workoutRepository) List(ctx context.Context, filter repository.WorkoutFilter) ([]domain.Workout, error) {
	const query = `
	SELECT id, user_id, name, type, duration, xp_earned, completed_at, created_at
	FROM workouts
	WHERE ($1 = '' OR user_id = $1)
	ORDER BY completed_at DESC
	LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, filter.UserID, nullLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workouts []domain.Workout
	for rows.Next() {
		var w domain.Workout
		if err := rows.Scan(&w.ID, &w.UserID, &w.Name, &w.Type, &w.Duration, &w.XPEarned, &w.CompletedAt, &w.CreatedAt); err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

func (r *workoutRepository) Create(ctx context.Context, workout *domain.Workout) (*domain.Workout, error) {
	if workout == nil {
		return nil, domain.ErrInvalidPayload
	}
	if workout.ID == "" {
		workout.ID = uuid.NewString()
	}
	if err := insertWorkout(ctx, r.pool, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

// insertWorkout is a no-op for an id that already exists, so replays are safe.
func insertWorkout(ctx context.Context, q queryRower, workout *domain.Workout) error {
	const query = `
	INSERT INTO workouts (id, user_id, name, type, duration, xp_earned, completed_at, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()), COALESCE($8, NOW()))
	ON CONFLICT (id) DO NOTHING
	RETURNING completed_at, created_at
	`
	err := q.QueryRow(ctx, query,
		workout.ID,
		workout.UserID,
		workout.Name,
		workout.Type,
		workout.Duration,
		workout.XPEarned,
		nullTime(workout.CompletedAt),
		nullTime(workout.CreatedAt),
	).Scan(&workout.CompletedAt, &workout.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}
