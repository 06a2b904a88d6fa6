package repository

import (
	"context"

	"github.com/fastygo/hunter/domain"
)

// ProgressCommit is everything one progression operation writes. Task is set
// for toggles, Workout for logged workouts. Profile carries absolute values,
// so applying the same commit twice leaves the same state.
type ProgressCommit struct {
	Profile domain.Profile       `json:"profile"`
	Task    *domain.Task         `json:"task,omitempty"`
	Workout *domain.Workout      `json:"workout,omitempty"`
	Event   domain.ProgressEvent `json:"event"`
}

// ProgressStore applies a commit atomically: all of it or none of it.
type ProgressStore interface {
	Commit(ctx context.Context, commit ProgressCommit) error
}

type EventRepository interface {
	// ListByUser returns ledger events, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.ProgressEvent, error)
}

// LeaderboardCache stores computed leaderboards keyed by their size.
type LeaderboardCache interface {
	Get(ctx context.Context, limit int) ([]domain.LeaderboardEntry, bool, error)
	Set(ctx context.Context, limit int, entries []domain.LeaderboardEntry) error
	Invalidate(ctx context.Context) error
}

// ClampLimit bounds list sizes to (0, 100].
func ClampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
