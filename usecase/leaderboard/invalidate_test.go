package leaderboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fastygo/hunter/domain"
	"github.com/fastygo/hunter/repository"
	"github.com/fastygo/hunter/repository/memory"
	"github.com/fastygo/hunter/usecase"
	profileUC "github.com/fastygo/hunter/usecase/profile"
)

type failingInvalidate struct{ *mapCache }

func (failingInvalidate) Invalidate(context.Context) error { return errors.New("redis down") }

type stubProgress struct{ err error }

func (s stubProgress) Commit(context.Context, repository.ProgressCommit) error { return s.err }

func TestRenameAndNewProfileShowOnCachedBoard(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	cache := newMapCache()
	profiles := InvalidatingProfiles(db.Profiles(), cache, nil)

	profileUseCase := profileUC.New(profileUC.Stores{
		Profiles: profiles,
		Tasks:    db.Tasks(),
		Workouts: db.Workouts(),
		Events:   db.Events(),
	}, nil, usecase.FixedClock(time.Date(2026, 2, 7, 10, 0, 0, 0, time.UTC)), nil)
	board := New(profiles, cache, 10, nil)

	_, err := profileUseCase.GetProfile(ctx, "u1")
	require.NoError(t, err)
	entries, err := board.Top(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	name := "Jinwoo"
	_, err = profileUseCase.UpdateProfile(ctx, "u1", domain.ProfilePatch{Name: &name})
	require.NoError(t, err)
	_, err = profileUseCase.GetProfile(ctx, "u2")
	require.NoError(t, err)

	entries, err = board.Top(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []domain.LeaderboardEntry{
		{ID: "u1", Name: "Jinwoo", Level: 1, Rank: 1},
		{ID: "u2", Name: usecase.DefaultProfileName, Level: 1, Rank: 2},
	}, entries)
}

func TestInvalidatingProgress(t *testing.T) {
	ctx := context.Background()
	cache := newMapCache()
	cache.boards[10] = []domain.LeaderboardEntry{{ID: "u1", Rank: 1}}

	err := InvalidatingProgress(stubProgress{err: errors.New("conflict")}, cache, nil).Commit(ctx, repository.ProgressCommit{})
	require.Error(t, err)
	assert.Contains(t, cache.boards, 10, "failed commits keep the board")

	require.NoError(t, InvalidatingProgress(stubProgress{}, cache, nil).Commit(ctx, repository.ProgressCommit{}))
	assert.Empty(t, cache.boards)
}

func TestInvalidationFailureKeepsTheWrite(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	core, logs := observer.New(zap.WarnLevel)
	profiles := InvalidatingProfiles(db.Profiles(), failingInvalidate{newMapCache()}, zap.New(core))

	require.NoError(t, profiles.Create(ctx, domain.NewProfile("u1", "", "Hunter")))
	stored, err := db.Profiles().GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Hunter", stored.Name)

	entries := logs.FilterMessage("leaderboard cache invalidation failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "profile_create", entries[0].ContextMap()["cause"])
}

func TestInvalidatingWithoutCache(t *testing.T) {
	db := memory.New()
	assert.Equal(t, db.Profiles(), InvalidatingProfiles(db.Profiles(), nil, nil))
	var progress repository.ProgressStore = db
	assert.Equal(t, progress, InvalidatingProgress(db, nil, nil))
}
