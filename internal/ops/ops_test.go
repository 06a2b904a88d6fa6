package ops

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/hunter/domain"
	"github.com/fastygo/hunter/internal/services"
	"github.com/fastygo/hunter/repository"
	"github.com/fastygo/hunter/repository/memory"
)

var now = time.Date(2026, 5, 10, 18, 0, 0, 0, time.UTC)

const fixtures = `
profiles:
  - id: u1
    name: Jinwoo
    total_xp: 7250
    stats:
      strength: 12
  - id: u2
tasks:
  - user_id: u1
    name: Morning run
    difficulty: hard
    completed_at: 2026-05-10T07:00:00Z
  - user_id: u1
    name: Stretch
    difficulty: Medium
    table: quest_board
`

func TestSeed(t *testing.T) {
	db := memory.New()
	ctx := context.Background()

	f, err := ParseFixtures(strings.NewReader(fixtures))
	require.NoError(t, err)

	report, err := Seed(ctx, db.Profiles(), db.Tasks(), f, now, nil)
	require.NoError(t, err)
	assert.Equal(t, SeedReport{Profiles: 2, Tasks: 2}, report)

	p, err := db.Profiles().GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Level)
	assert.Equal(t, 1250, p.CurrentXP)
	assert.Equal(t, 12, p.Strength)

	anon, err := db.Profiles().GetByID(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "Hunter", anon.Name)
	assert.Equal(t, 1, anon.Level)

	tasks, err := db.Tasks().List(ctx, repository.TaskFilter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	rewards := map[string]int{}
	for _, task := range tasks {
		rewards[task.Name] = task.XPReward
	}
	assert.Equal(t, map[string]int{"Morning run": 35, "Stretch": 50}, rewards)

	again, err := Seed(ctx, db.Profiles(), db.Tasks(), f, now, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, again.ProfilesSkipped)
	tasks, err = db.Tasks().List(ctx, repository.TaskFilter{UserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestSeedRejectsBadFixtures(t *testing.T) {
	_, err := ParseFixtures(strings.NewReader("profiles:\n  - id: u1\n    level: 9\n"))
	assert.Error(t, err)

	db := memory.New()
	_, err = Seed(context.Background(), db.Profiles(), db.Tasks(), Fixtures{
		Tasks: []TaskFixture{{UserID: "u1", Name: "x", Table: "unknown"}},
	}, now, nil)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestReconcile(t *testing.T) {
	db := memory.New()
	ctx := context.Background()

	broken := domain.NewProfile("broken", "", "Broken")
	broken.TotalXP, broken.CurrentXP, broken.Level = 6100, 0, 1
	require.NoError(t, db.Profiles().Create(ctx, broken))

	healthy := domain.NewProfile("healthy", "", "Healthy")
	healthy.TotalXP, healthy.CurrentXP, healthy.Level = 100, 100, 1
	require.NoError(t, db.Profiles().Create(ctx, healthy))

	done := now.Add(-time.Hour)
	_, err := db.Tasks().Create(ctx, &domain.Task{ID: "t1", UserID: "broken", Name: "Read", Completed: true, CompletedAt: &done})
	require.NoError(t, err)

	report, err := Reconcile(ctx, db.Profiles(), db.Tasks(), now, nil)
	require.NoError(t, err)
	assert.Equal(t, ReconcileReport{Checked: 2, Fixed: 1}, report)

	p, err := db.Profiles().GetByID(ctx, "broken")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Level)
	assert.Equal(t, 100, p.CurrentXP)
	assert.Equal(t, 1, p.Streak)

	again, err := Reconcile(ctx, db.Profiles(), db.Tasks(), now, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Fixed)
}

type scriptedDrainer struct {
	reports []services.DrainReport
	err     error
	calls   int
}

func (d *scriptedDrainer) Drain(context.Context) (services.DrainReport, error) {
	d.calls++
	if d.calls > len(d.reports) {
		return services.DrainReport{}, d.err
	}
	return d.reports[d.calls-1], nil
}

func TestDrainAll(t *testing.T) {
	d := &scriptedDrainer{reports: []services.DrainReport{{Replayed: 50}, {Replayed: 3, Dropped: 1}}}
	total, err := DrainAll(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, services.DrainReport{Replayed: 53, Dropped: 1}, total)
	assert.Equal(t, 3, d.calls)

	d = &scriptedDrainer{reports: []services.DrainReport{{Replayed: 2, Retried: 1}, {Replayed: 9}}}
	total, err = DrainAll(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, services.DrainReport{Replayed: 2, Retried: 1}, total)
	assert.Equal(t, 1, d.calls)

	d = &scriptedDrainer{err: errors.New("bolt closed")}
	_, err = DrainAll(context.Background(), d)
	assert.Error(t, err)
}
