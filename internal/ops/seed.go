// Package ops holds the maintenance jobs run by the ops CLI.
package ops

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/fastygo/hunter/domain"
	engine "github.com/fastygo/hunter/progression"
	"github.com/fastygo/hunter/repository"
	"github.com/fastygo/hunter/usecase"
)

// Fixtures is the seed file layout.
type Fixtures struct {
	Profiles []ProfileFixture `yaml:"profiles"`
	Tasks    []TaskFixture    `yaml:"tasks"`
}

type ProfileFixture struct {
	ID      string        `yaml:"id"`
	Email   string        `yaml:"email"`
	Name    string        `yaml:"name"`
	TotalXP int           `yaml:"total_xp"`
	Stats   *domain.Stats `yaml:"stats"`
}

type TaskFixture struct {
	ID          string     `yaml:"id"`
	UserID      string     `yaml:"user_id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Type        string     `yaml:"type"`
	Difficulty  string     `yaml:"difficulty"`
	Table       string     `yaml:"table"`
	CompletedAt *time.Time `yaml:"completed_at"`
}

// SeedReport counts the rows written and skipped.
type SeedReport struct {
	Profiles        int
	ProfilesSkipped int
	Tasks           int
}

// ParseFixtures decodes a YAML seed file.
func ParseFixtures(r io.Reader) (Fixtures, error) {
	var f Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Fixtures{}, fmt.Errorf("decode fixtures: %w", err)
	}
	return f, nil
}

// Seed writes fixtures into the stores. Existing profiles are left alone and
// tasks without an ID get one derived from owner and name, so seeding twice
// writes nothing new.
func Seed(ctx context.Context, profiles repository.ProfileRepository, tasks repository.TaskRepository, f Fixtures, now time.Time, logger *zap.Logger) (SeedReport, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var report SeedReport

	for _, fx := range f.Profiles {
		if fx.ID == "" {
			return report, domain.Invalid("profile fixture without id")
		}
		profile := domain.NewProfile(fx.ID, fx.Email, fx.Name)
		if profile.Name == "" {
			profile.Name = usecase.DefaultProfileName
		}
		*profile = engine.WithXP(*profile, engine.Reconcile(engine.XP{TotalXP: fx.TotalXP}))
		if fx.Stats != nil {
			profile.Stats = *fx.Stats
		}
		profile.CreatedAt = now

		if err := profiles.Create(ctx, profile); err != nil {
			if errors.Is(err, domain.ErrProfileExists) {
				logger.Info("profile exists, skipping", zap.String("user_id", fx.ID))
				report.ProfilesSkipped++
				continue
			}
			return report, fmt.Errorf("seed profile %s: %w", fx.ID, err)
		}
		report.Profiles++
	}

	for _, fx := range f.Tasks {
		table := engine.QuestModalRewards
		if fx.Table != "" {
			t, ok := engine.RewardTables[fx.Table]
			if !ok {
				return report, domain.Invalid("task %q: unknown reward table %q", fx.Name, fx.Table)
			}
			table = t
		}
		task, err := engine.NewTask(fx.UserID, domain.TaskSpec{
			Name:        fx.Name,
			Description: fx.Description,
			Type:        fx.Type,
			Difficulty:  fx.Difficulty,
		}, table, now)
		if err != nil {
			return report, fmt.Errorf("seed task %q: %w", fx.Name, err)
		}
		task.ID = fx.ID
		if task.ID == "" {
			task.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(fx.UserID+"/"+task.Name)).String()
		}
		if fx.CompletedAt != nil {
			task.Completed = true
			task.CompletedAt = fx.CompletedAt
		}

		if _, err := tasks.Create(ctx, &task); err != nil {
			return report, fmt.Errorf("seed task %q: %w", fx.Name, err)
		}
		report.Tasks++
	}
	return report, nil
}
