package repository

import (
	"context"

	"pickup/internal/domain"
)

// ProfileRepository defines the persistence operations for profiles.
type ProfileRepository interface {
	// Create persists a new profile.
	Create(ctx context.Context, profile *domain.Profile) error

	// GetByID retrieves a profile by internal id.
	GetByID(ctx context.Context, id string) (*domain.Profile, error)

	// GetByExternalID retrieves a profile by its external identity
	// reference.
	GetByExternalID(ctx context.Context, externalID string) (*domain.Profile, error)

	// Count returns the total number of profiles.
	Count(ctx context.Context) (int, error)

	// CountBySchool returns profile counts grouped by school name.
	CountBySchool(ctx context.Context) (map[string]int, error)
}
