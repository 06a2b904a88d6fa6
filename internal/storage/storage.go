// Package storage opens the primary store selected by STORE_DRIVER.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/fastygo/hunter/internal/config"
	pgInfra "github.com/fastygo/hunter/internal/infrastructure/postgres"
	"github.com/fastygo/hunter/repository"
	"github.com/fastygo/hunter/repository/memory"
	"github.com/fastygo/hunter/repository/postgres"
	"github.com/fastygo/hunter/repository/sqlite"
)

// Stores is one driver's set of repositories.
type Stores struct {
	Driver   string
	Profiles repository.ProfileRepository
	Tasks    repository.TaskRepository
	Workouts repository.WorkoutRepository
	Events   repository.EventRepository
	Progress repository.ProgressStore

	ping  func(ctx context.Context) error
	close func() error
}

// Ping reports whether the store is reachable.
func (s *Stores) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open connects the configured driver. Postgres migrations run first when
// enabled; the sqlite schema is always applied.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		if err := pgInfra.RunMigrations(cfg, logger); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Driver:   cfg.Store.Driver,
			Profiles: postgres.NewProfileRepository(pool),
			Tasks:    postgres.NewTaskRepository(pool),
			Workouts: postgres.NewWorkoutRepository(pool),
			Events:   postgres.NewEventRepository(pool),
			Progress: postgres.NewProgressStore(pool),
			ping:     pool.Ping,
			close: func() error {
				pgInfra.Close(pool, logger)
				return nil
			},
		}, nil

	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Store.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		db, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.Store.SQLitePath, err)
		}
		logger.Info("opened sqlite store", zap.String("path", cfg.Store.SQLitePath))
		return &Stores{
			Driver:   cfg.Store.Driver,
			Profiles: sqlite.NewProfileRepository(db),
			Tasks:    sqlite.NewTaskRepository(db),
			Workouts: sqlite.NewWorkoutRepository(db),
			Events:   sqlite.NewEventRepository(db),
			Progress: sqlite.NewProgressStore(db),
			ping:     db.PingContext,
			close:    db.Close,
		}, nil

	case config.DriverMemory:
		logger.Warn("using in-memory store, data is lost on exit")
		db := memory.New()
		return &Stores{
			Driver:   cfg.Store.Driver,
			Profiles: db.Profiles(),
			Tasks:    db.Tasks(),
			Workouts: db.Workouts(),
			Events:   db.Events(),
			Progress: db,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
