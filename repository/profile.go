package repository

import (
	"context"

	"github.com/fastygo/hunter/domain"
)

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	Create(ctx context.Context, profile *domain.Profile) error
	Update(ctx context.Context, id string, patch domain.ProfilePatch) (*domain.Profile, error)
	// Ranked returns profiles ordered by total XP, highest first. Ties keep
	// the store's natural order.
	Ranked(ctx context.Context, limit, offset int) ([]domain.Profile, error)
}
