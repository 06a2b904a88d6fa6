package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/hunter/domain"
	"github.com/fastygo/hunter/internal/infrastructure/buffer"
	"github.com/fastygo/hunter/repository"
	"github.com/fastygo/hunter/repository/memory"
)

type flakyStore struct {
	next repository.ProgressStore
	err  error
}

func (s *flakyStore) Commit(ctx context.Context, c repository.ProgressCommit) error {
	if s.err != nil {
		return s.err
	}
	return s.next.Commit(ctx, c)
}

type switchHealth struct{ online bool }

func (h *switchHealth) IsOnline() bool { return h.online }

type harness struct {
	db        *memory.DB
	store     *buffer.Store
	progress  *flakyStore
	health    *switchHealth
	processor *BufferProcessor
	bridge    *BufferBridge
}

func newHarness(t *testing.T, cfg ProcessorConfig) harness {
	t.Helper()
	store, err := buffer.Open(filepath.Join(t.TempDir(), "buffer.db"), buffer.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	db := memory.New()
	require.NoError(t, db.Profiles().Create(context.Background(), domain.NewProfile("hunter", "", "Jin")))

	progress := &flakyStore{next: db}
	health := &switchHealth{online: true}
	processor := NewBufferProcessor(store, health, ReplayStores{
		Profiles: db.Profiles(),
		Tasks:    db.Tasks(),
		Progress: progress,
	}, nil, cfg)
	return harness{db: db, store: store, progress: progress, health: health, processor: processor, bridge: NewBufferBridge(processor)}
}

func workoutCommit(id string, before, after int) repository.ProgressCommit {
	profile := domain.NewProfile("hunter", "", "Jin")
	profile.TotalXP, profile.CurrentXP = after, after
	return repository.ProgressCommit{
		Profile: *profile,
		Workout: &domain.Workout{ID: "w-" + id, UserID: "hunter", Name: "Lift", Type: "strength", Duration: 10, XPEarned: after - before},
		Event: domain.ProgressEvent{
			ID: id, UserID: "hunter", Kind: domain.EventWorkoutLogged, SourceID: "w-" + id,
			XPDelta: after - before, TotalBefore: before, TotalAfter: after, LevelBefore: 1, LevelAfter: 1,
		},
	}
}

func TestBufferedCommitReplaysOnce(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, ProcessorConfig{})
	h.progress.err = errors.New("connection refused")

	commit := workoutCommit("evt-1", 0, 20)
	require.NoError(t, h.bridge.BufferCommit(ctx, commit))
	assert.Equal(t, 1, h.processor.Size())

	h.progress.err = nil
	report, err := h.processor.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, DrainReport{Replayed: 1}, report)
	assert.Equal(t, 0, h.processor.Size())

	require.NoError(t, h.bridge.BufferCommit(ctx, commit), "replaying an applied commit is accepted")

	profile, err := h.db.Profiles().GetByID(ctx, "hunter")
	require.NoError(t, err)
	assert.Equal(t, 20, profile.TotalXP)

	events, err := h.db.Events().ListByUser(ctx, "hunter", 10)
	require.NoError(t, err)
	assert.Len(t, events, 1)
	workouts, err := h.db.Workouts().List(ctx, repository.WorkoutFilter{UserID: "hunter"})
	require.NoError(t, err)
	assert.Len(t, workouts, 1)
}

func TestStaleCommitIsDropped(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, ProcessorConfig{})
	require.NoError(t, h.store.Enqueue(mustItem(t, workoutCommit("evt-stale", 500, 520))))

	report, err := h.processor.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, DrainReport{Dropped: 1}, report)
	assert.Equal(t, 0, h.processor.Size())

	profile, err := h.db.Profiles().GetByID(ctx, "hunter")
	require.NoError(t, err)
	assert.Equal(t, 0, profile.TotalXP)
}

func TestDrainRetriesThenDrops(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, ProcessorConfig{MaxRetries: 2})
	h.progress.err = errors.New("connection refused")
	require.NoError(t, h.store.Enqueue(mustItem(t, workoutCommit("evt-1", 0, 10))))
	require.NoError(t, h.store.Enqueue(mustItem(t, workoutCommit("evt-2", 10, 30))))

	report, err := h.processor.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, DrainReport{Retried: 1}, report, "the second item waits behind the first")
	assert.Equal(t, 2, h.processor.Size())

	report, err = h.processor.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, DrainReport{Dropped: 2}, report, "the second commit is stale once the first is dropped")
	assert.Equal(t, 0, h.processor.Size())
}

func TestOfflineSkipsDrainAndImmediateReplay(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, ProcessorConfig{})
	h.health.online = false

	require.NoError(t, h.bridge.BufferCommit(ctx, workoutCommit("evt-1", 0, 20)))
	assert.Equal(t, 1, h.processor.Size(), "offline writes go straight to the buffer")

	report, err := h.processor.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, DrainReport{}, report)
	assert.Equal(t, 1, h.processor.Size())

	h.health.online = true
	report, err = h.processor.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Replayed)
}

func TestTaskAndProfileReplay(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, ProcessorConfig{})

	task := &domain.Task{ID: "t-1", UserID: "hunter", Name: "Read", XPReward: 10}
	require.NoError(t, h.bridge.BufferTask(ctx, buffer.OperationCreate, task))
	stored, err := h.db.Tasks().GetByID(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "Read", stored.Name)

	require.NoError(t, h.bridge.BufferTask(ctx, buffer.OperationDelete, task))
	require.NoError(t, h.bridge.BufferTask(ctx, buffer.OperationDelete, task), "deleting twice is harmless")

	name := "Sung"
	require.NoError(t, h.bridge.BufferProfile(ctx, "hunter", domain.ProfilePatch{Name: &name}))
	profile, err := h.db.Profiles().GetByID(ctx, "hunter")
	require.NoError(t, err)
	assert.Equal(t, "Sung", profile.Name)

	err = h.bridge.BufferTask(ctx, "archive", task)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	assert.Equal(t, 0, h.processor.Size())
}

func mustItem(t *testing.T, commit repository.ProgressCommit) buffer.Item {
	t.Helper()
	item, err := buffer.NewItem(commit.Profile.ID, buffer.EntityProgress, buffer.OperationCommit, buffer.PriorityProgress, commit)
	require.NoError(t, err)
	item.ID = commit.Event.ID
	return item
}
