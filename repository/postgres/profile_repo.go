package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/hunter/domain"
	"github.com/fastygo/hunter/repository"
)

const profileColumns = `id, email, name, level, total_xp, current_xp, strength, endurance, discipline, agility, intelligence, luck, streak, created_at, updated_at`

const uniqueViolation = "23505"

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository instantiates a Postgres-backed profile repository.
func NewProfileRepository(pool *pgxpool.Pool) repository.ProfileRepository {
	return &profileRepository{pool: pool}
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfile(r.pool.QueryRow(ctx, query, id))
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	if profile == nil || profile.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO profiles (id, email, name, level, total_xp, current_xp, strength, endurance, discipline, agility, intelligence, luck, streak, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, COALESCE($14, NOW()))
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
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
		nullTime(profile.CreatedAt),
	).Scan(&profile.CreatedAt, &profile.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrProfileExists
		}
		return err
	}
	return nil
}

// Update applies the non-nil fields of patch. COALESCE keeps the stored value
// for every NULL parameter.
func (r *profileRepository) Update(ctx context.Context, id string, patch domain.ProfilePatch) (*domain.Profile, error) {
	return updateProfile(ctx, r.pool, id, patch)
}

func (r *profileRepository) Ranked(ctx context.Context, limit, offset int) ([]domain.Profile, error) {
	query := `
	SELECT ` + profileColumns + `
	FROM profiles
	ORDER BY total_xp DESC, seq ASC
	LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, repository.ClampLimit(limit), offset)
	if err != nil {
		return nil, err
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

func updateProfile(ctx context.Context, q queryRower, id string, patch domain.ProfilePatch) (*domain.Profile, error) {
	query := `
	UPDATE profiles
	SET name = COALESCE($2, name),
		level = COALESCE($3, level),
		total_xp = COALESCE($4, total_xp),
		current_xp = COALESCE($5, current_xp),
		streak = COALESCE($6, streak),
		strength = COALESCE($7, strength),
		endurance = COALESCE($8, endurance),
		discipline = COALESCE($9, discipline),
		agility = COALESCE($10, agility),
		intelligence = COALESCE($11, intelligence),
		luck = COALESCE($12, luck),
		updated_at = NOW()
	WHERE id = $1
	RETURNING ` + profileColumns

	var strength, endurance, discipline, agility, intelligence, luck *int
	if s := patch.Stats; s != nil {
		strength, endurance, discipline = &s.Strength, &s.Endurance, &s.Discipline
		agility, intelligence, luck = &s.Agility, &s.Intelligence, &s.Luck
	}

	return scanProfile(q.QueryRow(ctx, query,
		id,
		patch.Name,
		patch.Level,
		patch.TotalXP,
		patch.CurrentXP,
		patch.Streak,
		strength,
		endurance,
		discipline,
		agility,
		intelligence,
		luck,
	))
}

func scanProfile(row scanner) (*domain.Profile, error) {
	var p domain.Profile
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
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}
