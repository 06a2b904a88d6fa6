package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fastygo/hunter/domain"
	"github.com/fastygo/hunter/repository"
)

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.ProgressEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, kind, source_id, xp_delta, total_before, total_after, level_before, level_after, streak_after, created_at
		FROM progress_events
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, userID, repository.ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("event list: %w", err)
	}
	defer rows.Close()

	var events []domain.ProgressEvent
	for rows.Next() {
		var (
			e       domain.ProgressEvent
			created int64
		)
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Kind,
			&e.SourceID,
			&e.XPDelta,
			&e.TotalBefore,
			&e.TotalAfter,
			&e.LevelBefore,
			&e.LevelAfter,
			&e.StreakAfter,
			&created,
		); err != nil {
			return nil, fmt.Errorf("event scan: %w", err)
		}
		e.CreatedAt = fromNanos(created)
		events = append(events, e)
	}
	return events, rows.Err()
}

type progressStore struct {
	db *sql.DB
}

// NewProgressStore writes progression commits in a single transaction.
func NewProgressStore(db *sql.DB) repository.ProgressStore {
	return &progressStore{db: db}
}

func (s *progressStore) Commit(ctx context.Context, c repository.ProgressCommit) error {
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
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

func insertEvent(ctx context.Context, q querier, e domain.ProgressEvent) error {
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO progress_events (id, user_id, kind, source_id, xp_delta, total_before, total_after, level_before, level_after, streak_after, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`,
		e.ID,
		e.UserID,
		e.Kind,
		e.SourceID,
		e.XPDelta,
		e.TotalBefore,
		e.TotalAfter,
		e.LevelBefore,
		e.LevelAfter,
		e.StreakAfter,
		toNanos(created),
	)
	if err != nil {
		return fmt.Errorf("event insert: %w", err)
	}
	return nil
}
