package ops

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/hunter/domain"
	engine "github.com/fastygo/hunter/progression"
	"github.com/fastygo/hunter/repository"
)

const reconcilePage = 100

// ReconcileReport counts the profiles looked at and rewritten.
type ReconcileReport struct {
	Checked int
	Fixed   int
}

// Reconcile rewrites every profile's current XP and level from its total XP
// and its streak from its tasks as of now. Profiles that already agree are
// not written.
func Reconcile(ctx context.Context, profiles repository.ProfileRepository, tasks repository.TaskRepository, now time.Time, logger *zap.Logger) (ReconcileReport, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var report ReconcileReport

	// only a negative total is ever rewritten, so the ranked order holds while paging
	for offset := 0; ; offset += reconcilePage {
		page, err := profiles.Ranked(ctx, reconcilePage, offset)
		if err != nil {
			return report, fmt.Errorf("list profiles: %w", err)
		}
		for _, profile := range page {
			fixed, err := reconcileProfile(ctx, profiles, tasks, profile, now, logger)
			if err != nil {
				return report, err
			}
			report.Checked++
			if fixed {
				report.Fixed++
			}
		}
		if len(page) < reconcilePage {
			return report, nil
		}
	}
}

func reconcileProfile(ctx context.Context, profiles repository.ProfileRepository, tasks repository.TaskRepository, profile domain.Profile, now time.Time, logger *zap.Logger) (bool, error) {
	records, err := tasks.List(ctx, repository.TaskFilter{UserID: profile.ID})
	if err != nil {
		return false, fmt.Errorf("list tasks of %s: %w", profile.ID, err)
	}

	current := engine.XPOf(profile)
	want := engine.Reconcile(current)
	streak := engine.ComputeStreak(records, now)
	if want == current && streak == profile.Streak {
		return false, nil
	}

	patch := domain.ProfilePatch{
		Level:     &want.Level,
		TotalXP:   &want.TotalXP,
		CurrentXP: &want.CurrentXP,
		Streak:    &streak,
	}
	if _, err := profiles.Update(ctx, profile.ID, patch); err != nil {
		return false, fmt.Errorf("update profile %s: %w", profile.ID, err)
	}
	logger.Info("profile reconciled",
		zap.String("user_id", profile.ID),
		zap.Int("level", want.Level),
		zap.Int("current_xp", want.CurrentXP),
		zap.Int("streak", streak))
	return true, nil
}
