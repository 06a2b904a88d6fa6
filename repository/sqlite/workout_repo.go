package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/hunter/domain"
	"github.com/fastygo/hunter/repository"
)

type workoutRepository struct {
	db *sql.DB
}

func NewWorkoutRepository(db *sql.DB) repository.WorkoutRepository {
	return &workoutRepository{db: db}
}

func (r *workoutRepository) List(ctx context.Context, filter repository.WorkoutFilter) ([]domain.Workout, error) {
	limit := -1
	if filter.Limit > 0 {
		limit = repository.ClampLimit(filter.Limit)
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, type, duration, xp_earned, completed_at, created_at
		FROM workouts
		WHERE (? = '' OR user_id = ?)
		ORDER BY completed_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`, filter.UserID, filter.UserID, limit, max(filter.Offset, 0))
	if err != nil {
		return nil, fmt.Errorf("workout list: %w", err)
	}
	defer rows.Close()

	var workouts []domain.Workout
	for rows.Next() {
		var (
			w                  domain.Workout
			completed, created int64
		)
		if err := rows.Scan(&w.ID, &w.UserID, &w.Name, &w.Type, &w.Duration, &w.XPEarned, &completed, &created); err != nil {
			return nil, fmt.Errorf("workout scan: %w", err)
		}
		w.CompletedAt = fromNanos(completed)
		w.CreatedAt = fromNanos(created)
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
	if err := insertWorkout(ctx, r.db, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

func insertWorkout(ctx context.Context, q querier, workout *domain.Workout) error {
	now := time.Now()
	if workout.CreatedAt.IsZero() {
		workout.CreatedAt = now
	}
	if workout.CompletedAt.IsZero() {
		workout.CompletedAt = now
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO workouts (id, user_id, name, type, duration, xp_earned, completed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`,
		workout.ID,
		workout.UserID,
		workout.Name,
		workout.Type,
		workout.Duration,
		workout.XPEarned,
		toNanos(workout.CompletedAt),
		toNanos(workout.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("workout insert: %w", err)
	}
	return nil
}
