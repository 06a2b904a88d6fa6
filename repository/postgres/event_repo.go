package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/hunter/domain"
	"github.com/fastygo/hunter/repository"
)

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository reads the progress ledger.
func NewEventRepository(pool *pgxpool.Pool) repository.EventRepository {
	return &eventRepository{pool: pool}
}

func (r *eventRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.ProgressEvent, error) {
	const query = `
	SELECT id, user_id, kind, source_id, xp_delta, total_before, total_after, level_before, level_after, streak_after, created_at
	FROM progress_events
	WHERE user_id = $1
	ORDER BY created_at DESC
	LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, repository.ClampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.ProgressEvent
	for rows.Next() {
		var e domain.ProgressEvent
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
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func insertEvent(ctx context.Context, q queryRower, event domain.ProgressEvent) error {
	const query = `
	INSERT INTO progress_events (id, user_id, kind, source_id, xp_delta, total_before, total_after, level_before, level_after, streak_after, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, COALESCE($11, NOW()))
	ON CONFLICT (id) DO NOTHING
	RETURNING id
	`
	var id string
	err := q.QueryRow(ctx, query,
		event.ID,
		event.UserID,
		event.Kind,
		event.SourceID,
		event.XPDelta,
		event.TotalBefore,
		event.TotalAfter,
		event.LevelBefore,
		event.LevelAfter,
		event.StreakAfter,
		nullTime(event.CreatedAt),
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}
