package leaderboard

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/hunter/domain"
	"github.com/fastygo/hunter/repository"
	"github.com/fastygo/hunter/usecase"
)

type UseCase struct {
	profiles     repository.ProfileRepository
	cache        repository.LeaderboardCache
	defaultLimit int
	logger       *zap.Logger
}

// New builds the leaderboard use case. cache may be nil.
func New(profiles repository.ProfileRepository, cache repository.LeaderboardCache, defaultLimit int, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		profiles:     profiles,
		cache:        cache,
		defaultLimit: repository.ClampLimit(defaultLimit),
		logger:       logger,
	}
}

// Top returns the highest ranked profiles by total XP. Ranks are 1-based and
// ties keep the store's order.
func (uc *UseCase) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = uc.defaultLimit
	}
	limit = repository.ClampLimit(limit)

	if uc.cache != nil {
		entries, ok, err := uc.cache.Get(ctx, limit)
		if err != nil {
			uc.logger.Warn("leaderboard cache read failed", zap.Error(err))
		} else if ok {
			return entries, nil
		}
	}

	profiles, err := uc.profiles.Ranked(ctx, limit, 0)
	if err != nil {
		return nil, usecase.Unavailable("load leaderboard", err)
	}
	entries := Rank(profiles)

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, limit, entries); err != nil {
			uc.logger.Warn("leaderboard cache write failed", zap.Error(err))
		}
	}
	return entries, nil
}

// Standing returns userID's entry on the board, or NOT_FOUND when the user is
// not ranked within it.
func (uc *UseCase) Standing(ctx context.Context, userID string) (*domain.LeaderboardEntry, error) {
	entries, err := uc.Top(ctx, repository.ClampLimit(0))
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.ID == userID {
			return &entry, nil
		}
	}
	return nil, domain.NewError(domain.ErrCodeNotFound, "not ranked on the leaderboard")
}

// Rank numbers profiles in order, starting at 1.
func Rank(profiles []domain.Profile) []domain.LeaderboardEntry {
	entries := make([]domain.LeaderboardEntry, 0, len(profiles))
	for i, p := range profiles {
		entries = append(entries, domain.LeaderboardEntry{
			ID:      p.ID,
			Name:    p.Name,
			Level:   p.Level,
			TotalXP: p.TotalXP,
			Rank:    i + 1,
		})
	}
	return entries
}
