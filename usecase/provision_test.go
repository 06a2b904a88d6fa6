package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/hunter/domain"
	"github.com/fastygo/hunter/repository/memory"
)

func TestEnsureProfile(t *testing.T) {
	ctx := context.Background()
	db := memory.New()

	created, err := EnsureProfile(ctx, db.Profiles(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, created.Level)
	assert.Equal(t, DefaultProfileName, created.Name)

	again, err := EnsureProfile(ctx, db.Profiles(), "u1")
	require.NoError(t, err)
	assert.Equal(t, created.CreatedAt, again.CreatedAt)

	_, err = EnsureProfile(ctx, db.Profiles(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUnavailable(t *testing.T) {
	storeErr := errors.New("connection refused")

	err := Unavailable("commit", storeErr)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnavailable))
	assert.ErrorIs(t, err, storeErr)

	assert.Same(t, domain.ErrTaskNotFound, Unavailable("load", domain.ErrTaskNotFound))
	assert.Nil(t, Unavailable("noop", nil))
}

func TestClock(t *testing.T) {
	at := time.Date(2026, 2, 7, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, at, FixedClock(at).Now())

	loc := time.FixedZone("UTC+5", 5*3600)
	assert.Equal(t, loc, SystemClock(loc).Now().Location())

	var zero Clock
	assert.WithinDuration(t, time.Now(), zero.Now(), time.Second)
}
