package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/hunter/domain"
	"github.com/fastygo/hunter/repository"
)

type progressStore struct {
	pool *pgxpool.Pool
}

// NewProgressStore writes progression commits in a single transaction.
func NewProgressStore(pool *pgxpool.Pool) repository.ProgressStore {
	return &progressStore{pool: pool}
}

func (s *progressStore) Commit(ctx context.Context, c repository.ProgressCommit) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if c.Task != nil {
			task := *c.Task
			if err := updateTask(ctx, tx, &task); err != nil {
				return err
			}
		}
		if c.Workout != nil {
			workout := *c.Workout
			if err := insertWorkout(ctx, tx, &workout); err != nil {
				return err
			}
		}
		if _, err := updateProfile(ctx, tx, c.Profile.ID, domain.ProgressPatch(&c.Profile)); err != nil {
			return err
		}
		if c.Event.ID == "" {
			return nil
		}
		return insertEvent(ctx, tx, c.Event)
	})
}
