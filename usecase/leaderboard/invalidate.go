package leaderboard

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/hunter/domain"
	"github.com/fastygo/hunter/repository"
)

// InvalidatingProfiles drops the cached boards after every successful
// profile write. It returns profiles unchanged when cache is nil.
func InvalidatingProfiles(profiles repository.ProfileRepository, cache repository.LeaderboardCache, logger *zap.Logger) repository.ProfileRepository {
	if cache == nil {
		return profiles
	}
	return &invalidatingProfiles{
		ProfileRepository: profiles,
		dropper:           dropper{cache: cache, logger: orNop(logger)},
	}
}

// InvalidatingProgress does the same for committed progress.
func InvalidatingProgress(progress repository.ProgressStore, cache repository.LeaderboardCache, logger *zap.Logger) repository.ProgressStore {
	if cache == nil {
		return progress
	}
	return &invalidatingProgress{
		next:    progress,
		dropper: dropper{cache: cache, logger: orNop(logger)},
	}
}

type dropper struct {
	cache  repository.LeaderboardCache
	logger *zap.Logger
}

// drop never fails the write; a failed invalidation leaves the board stale
// until its TTL runs out.
func (d dropper) drop(ctx context.Context, cause string) {
	if err := d.cache.Invalidate(ctx); err != nil {
		d.logger.Warn("leaderboard cache invalidation failed",
			zap.String("cause", cause), zap.Error(err))
	}
}

type invalidatingProfiles struct {
	repository.ProfileRepository
	dropper
}

func (r *invalidatingProfiles) Create(ctx context.Context, profile *domain.Profile) error {
	if err := r.ProfileRepository.Create(ctx, profile); err != nil {
		return err
	}
	r.drop(ctx, "profile_create")
	return nil
}

func (r *invalidatingProfiles) Update(ctx context.Context, id string, patch domain.ProfilePatch) (*domain.Profile, error) {
	profile, err := r.ProfileRepository.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	r.drop(ctx, "profile_update")
	return profile, nil
}

type invalidatingProgress struct {
	next repository.ProgressStore
	dropper
}

func (s *invalidatingProgress) Commit(ctx context.Context, commit repository.ProgressCommit) error {
	if err := s.next.Commit(ctx, commit); err != nil {
		return err
	}
	s.drop(ctx, "progress_commit")
	return nil
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
