package usecase

import (
	"context"
	"errors"

	"github.com/fastygo/hunter/domain"
	"github.com/fastygo/hunter/repository"
)

// DefaultProfileName is given to profiles created on first contact.
const DefaultProfileName = "Hunter"

// EnsureProfile returns the profile of userID, creating a level 1 profile the
// first time an authenticated user is seen.
func EnsureProfile(ctx context.Context, profiles repository.ProfileRepository, userID string) (*domain.Profile, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	profile, err := profiles.GetByID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, unavailable("load profile", err)
	}

	profile = domain.NewProfile(userID, "", DefaultProfileName)
	if err := profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, domain.ErrProfileExists) {
			return profiles.GetByID(ctx, userID)
		}
		return nil, unavailable("create profile", err)
	}
	return profile, nil
}

// Unavailable wraps a store failure as an UNAVAILABLE domain error. Domain
// errors other than store errors pass through unchanged.
func Unavailable(action string, err error) error {
	return unavailable(action, err)
}

func unavailable(action string, err error) error {
	if err == nil || !domain.IsStoreError(err) {
		return err
	}
	if domain.IsDomainError(err, domain.ErrCodeUnavailable) {
		return err
	}
	return domain.WrapError(domain.ErrCodeUnavailable, action+" failed", err)
}
