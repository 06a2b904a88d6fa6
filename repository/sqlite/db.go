// Package sqlite stores progression data in an embedded SQLite file. It backs
// the "sqlite" store driver for single node installs.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Open opens (and creates if missing) the database at path and applies the
// schema.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer at a time keeps transactions from racing on the file lock
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the tables if they do not exist yet. Timestamps are stored
// as unix nanoseconds.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL DEFAULT '',
			level INTEGER NOT NULL DEFAULT 1,
			total_xp INTEGER NOT NULL DEFAULT 0,
			current_xp INTEGER NOT NULL DEFAULT 0,
			strength INTEGER NOT NULL DEFAULT 0,
			endurance INTEGER NOT NULL DEFAULT 0,
			discipline INTEGER NOT NULL DEFAULT 0,
			agility INTEGER NOT NULL DEFAULT 0,
			intelligence INTEGER NOT NULL DEFAULT 0,
			luck INTEGER NOT NULL DEFAULT 0,
			streak INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			xp_reward INTEGER NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			completed_at INTEGER,
			streak INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS workouts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			duration INTEGER NOT NULL,
			xp_earned INTEGER NOT NULL,
			completed_at INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS progress_events (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			source_id TEXT NOT NULL,
			xp_delta INTEGER NOT NULL,
			total_before INTEGER NOT NULL,
			total_after INTEGER NOT NULL,
			level_before INTEGER NOT NULL,
			level_after INTEGER NOT NULL,
			streak_after INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_profiles_total_xp ON profiles(total_xp DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user_created ON tasks(user_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_workouts_user_completed ON workouts(user_id, completed_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_events_user_created ON progress_events(user_id, created_at DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// WithTx runs fn inside a SQL transaction.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func toNanos(t time.Time) int64 {
	return t.UnixNano()
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n)
}

func nullNanos(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
