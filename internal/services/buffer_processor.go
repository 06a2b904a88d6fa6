package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/hunter/domain"
	"github.com/fastygo/hunter/internal/infrastructure/buffer"
	"github.com/fastygo/hunter/repository"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// ProcessorConfig controls how frequently the buffer is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	// Retention drops items older than this on every drain. Zero keeps them.
	Retention time.Duration
}

// ReplayStores are the primary stores buffered items are replayed into.
type ReplayStores struct {
	Profiles repository.ProfileRepository
	Tasks    repository.TaskRepository
	Progress repository.ProgressStore
}

// DrainReport counts what one drain did with the items it looked at.
type DrainReport struct {
	Replayed int `json:"replayed"`
	Retried  int `json:"retried"`
	Dropped  int `json:"dropped"`
}

// errStale marks a progress commit whose starting point no longer matches the
// stored profile.
var errStale = errors.New("stale progress commit")

// BufferProcessor synchronizes buffered operations with primary datastores.
type BufferProcessor struct {
	store   *buffer.Store
	monitor ConnectionHealth
	stores  ReplayStores
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     ProcessorConfig
}

func NewBufferProcessor(
	store *buffer.Store,
	monitor ConnectionHealth,
	stores ReplayStores,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *BufferProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bp := &BufferProcessor{
		store:   store,
		monitor: monitor,
		stores:  stores,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", max(1, int(cfg.Interval.Seconds())))
	_, _ = bp.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		report, err := bp.Drain(ctx)
		if err != nil {
			bp.logger.Error("buffer drain failed", zap.Error(err))
			return
		}
		if report != (DrainReport{}) {
			bp.logger.Info("buffer drained",
				zap.Int("replayed", report.Replayed),
				zap.Int("retried", report.Retried),
				zap.Int("dropped", report.Dropped))
		}
	})

	return bp
}

// Start launches the cron scheduler.
func (bp *BufferProcessor) Start() {
	if bp == nil || bp.cron == nil {
		return
	}
	bp.cron.Start()
	bp.logger.Info("buffer processor started", zap.Duration("interval", bp.cfg.Interval))
}

// Stop gracefully stops the scheduler.
func (bp *BufferProcessor) Stop(ctx context.Context) {
	if bp == nil || bp.cron == nil {
		return
	}
	stopCtx := bp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	bp.logger.Info("buffer processor stopped")
}

// Drain replays one batch of buffered items in order. Replay stops at the
// first item that has to be retried, so later writes never overtake it.
func (bp *BufferProcessor) Drain(ctx context.Context) (DrainReport, error) {
	var report DrainReport
	if bp == nil || bp.store == nil {
		return report, nil
	}
	if bp.monitor != nil && !bp.monitor.IsOnline() {
		bp.logger.Debug("skipping buffer drain (offline)")
		return report, nil
	}

	if bp.cfg.Retention > 0 {
		removed, err := bp.store.Cleanup(time.Now().Add(-bp.cfg.Retention))
		if err != nil {
			return report, err
		}
		if removed > 0 {
			bp.logger.Warn("expired buffer items dropped", zap.Int("count", removed))
		}
		report.Dropped += removed
	}

	items, err := bp.store.GetBatch(bp.cfg.BatchSize)
	if err != nil {
		return report, err
	}

	for _, item := range items {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		log := bp.logger.With(
			zap.String("item_id", item.ID),
			zap.String("entity", item.Entity),
			zap.String("user_id", item.UserID))

		err := bp.processItem(ctx, item)
		switch {
		case err == nil:
			report.Replayed++
		case !retryable(err):
			log.Warn("dropping buffer item", zap.Error(err))
			report.Dropped++
		case item.Retries+1 >= bp.cfg.MaxRetries:
			log.Warn("dropping buffer item (max retries reached)", zap.Error(err))
			report.Dropped++
		default:
			log.Error("failed to process buffer item", zap.Error(err))
			if _, err := bp.store.Retry(item); err != nil {
				log.Error("failed to update buffer item", zap.Error(err))
			}
			report.Retried++
			return report, nil
		}

		if err := bp.store.Remove(item); err != nil {
			log.Warn("failed to purge processed buffer item", zap.Error(err))
		}
	}
	return report, nil
}

// BufferOperation attempts to run the operation immediately and falls back to persisting it.
func (bp *BufferProcessor) BufferOperation(ctx context.Context, item buffer.Item) error {
	if bp == nil || bp.store == nil {
		return fmt.Errorf("buffer processor not configured")
	}

	if bp.Size() == 0 && (bp.monitor == nil || bp.monitor.IsOnline()) {
		err := bp.processItem(ctx, item)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		bp.logger.Warn("immediate processing failed, buffering", zap.Error(err))
	}
	return bp.store.Enqueue(item)
}

// Size returns the number of buffered items.
func (bp *BufferProcessor) Size() int {
	if bp == nil || bp.store == nil {
		return 0
	}
	size, err := bp.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (bp *BufferProcessor) processItem(ctx context.Context, item buffer.Item) error {
	if ctx == nil {
		ctx = context.Background()
	}

	switch item.Entity {
	case buffer.EntityProgress:
		var commit repository.ProgressCommit
		if err := item.Decode(&commit); err != nil {
			return decodeError(err)
		}
		return bp.replayCommit(ctx, commit)

	case buffer.EntityProfile:
		var update ProfileUpdate
		if err := item.Decode(&update); err != nil {
			return decodeError(err)
		}
		_, err := bp.stores.Profiles.Update(ctx, update.UserID, update.Patch)
		return err

	case buffer.EntityTask:
		var task domain.Task
		if err := item.Decode(&task); err != nil {
			return decodeError(err)
		}
		switch item.Operation {
		case buffer.OperationCreate:
			_, err := bp.stores.Tasks.Create(ctx, &task)
			return err
		case buffer.OperationUpdate:
			return bp.stores.Tasks.Update(ctx, &task)
		case buffer.OperationDelete:
			err := bp.stores.Tasks.Delete(ctx, task.ID)
			if errors.Is(err, domain.ErrTaskNotFound) {
				return nil
			}
			return err
		default:
			return domain.Invalid("unsupported operation %s", item.Operation)
		}
	default:
		return domain.Invalid("unsupported entity %s", item.Entity)
	}
}

// replayCommit applies commit when the stored profile still sits where the
// commit started, or already sits where it ends.
func (bp *BufferProcessor) replayCommit(ctx context.Context, commit repository.ProgressCommit) error {
	current, err := bp.stores.Profiles.GetByID(ctx, commit.Profile.ID)
	if err != nil {
		return err
	}
	if current.TotalXP != commit.Event.TotalBefore && current.TotalXP != commit.Event.TotalAfter {
		return fmt.Errorf("%w: profile %s has %d xp, commit expects %d",
			errStale, current.ID, current.TotalXP, commit.Event.TotalBefore)
	}
	return bp.stores.Progress.Commit(ctx, commit)
}

// retryable reports whether err may go away once the store is reachable.
func retryable(err error) bool {
	if errors.Is(err, errStale) {
		return false
	}
	return domain.IsStoreError(err)
}

func decodeError(err error) error {
	return domain.WrapError(domain.ErrCodeInvalid, "decode buffer item", err)
}
