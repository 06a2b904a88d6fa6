package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fastygo/hunter/domain"
	"github.com/fastygo/hunter/repository"
)

const profileColumns = `id, email, name, level, total_xp, current_xp, strength, endurance, discipline, agility, intelligence, luck, streak, created_at, updated_at`

type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	return getProfile(ctx, r.db, id)
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	if profile == nil || profile.ID == "" {
		return domain.ErrInvalidPayload
	}
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		profile.ID,
		profile.Email,
		profile.Name,
		profile.Level,
		profile.TotalXP,
		profile.CurrentXP,
		profile.Strength,
		profile.Endurance,
		profile.Discipline,
		profile.Agility,
		profile.Intelligence,
		profile.Luck,
		profile.Streak,
		toNanos(profile.CreatedAt),
		toNanos(profile.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domain.ErrProfileExists
		}
		return fmt.Errorf("profile insert: %w", err)
	}
	return nil
}

func (r *profileRepository) Update(ctx context.Context, id string, patch domain.ProfilePatch) (*domain.Profile, error) {
	var profile *domain.Profile
	err := WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		profile, err = updateProfile(ctx, tx, id, patch)
		return err
	})
	return profile, err
}

// Ranked orders ties by rowid, which follows insertion order.
func (r *profileRepository) Ranked(ctx context.Context, limit, offset int) ([]domain.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		ORDER BY total_xp DESC, rowid ASC
		LIMIT ? OFFSET ?
	`, repository.ClampLimit(limit), max(offset, 0))
	if err != nil {
		return nil, fmt.Errorf("profile ranked: %w", err)
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func getProfile(ctx context.Context, q querier, id string) (*domain.Profile, error) {
	row := q.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	return scanProfile(row)
}

func updateProfile(ctx context.Context, q querier, id string, patch domain.ProfilePatch) (*domain.Profile, error) {
	var strength, endurance, discipline, agility, intelligence, luck *int
	if s := patch.Stats; s != nil {
		strength, endurance, discipline = &s.Strength, &s.Endurance, &s.Discipline
		agility, intelligence, luck = &s.Agility, &s.Intelligence, &s.Luck
	}
	var name sql.NullString
	if patch.Name != nil {
		name = sql.NullString{String: *patch.Name, Valid: true}
	}

	res, err := q.ExecContext(ctx, `
		UPDATE profiles
		SET name = COALESCE(?, name),
			level = COALESCE(?, level),
			total_xp = COALESCE(?, total_xp),
			current_xp = COALESCE(?, current_xp),
			streak = COALESCE(?, streak),
			strength = COALESCE(?, strength),
			endurance = COALESCE(?, endurance),
			discipline = COALESCE(?, discipline),
			agility = COALESCE(?, agility),
			intelligence = COALESCE(?, intelligence),
			luck = COALESCE(?, luck),
			updated_at = ?
		WHERE id = ?
	`,
		name,
		nullInt(patch.Level),
		nullInt(patch.TotalXP),
		nullInt(patch.CurrentXP),
		nullInt(patch.Streak),
		nullInt(strength),
		nullInt(endurance),
		nullInt(discipline),
		nullInt(agility),
		nullInt(intelligence),
		nullInt(luck),
		toNanos(time.Now()),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("profile update: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, domain.ErrProfileNotFound
	}
	return getProfile(ctx, q, id)
}

func scanProfile(row scanner) (*domain.Profile, error) {
	var (
		p                domain.Profile
		created, updated int64
	)
	if err := row.Scan(
		&p.ID,
		&p.Email,
		&p.Name,
		&p.Level,
		&p.TotalXP,
		&p.CurrentXP,
		&p.Strength,
		&p.Endurance,
		&p.Discipline,
		&p.Agility,
		&p.Intelligence,
		&p.Luck,
		&p.Streak,
		&created,
		&updated,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("profile scan: %w", err)
	}
	p.CreatedAt = fromNanos(created)
	p.UpdatedAt = fromNanos(updated)
	return &p, nil
}
