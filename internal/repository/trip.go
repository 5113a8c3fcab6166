package repository

import (
	"context"
	"time"

	"pickup/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by id.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// ListByProvider retrieves a provider's trips, newest schedule first.
	// An empty status means all statuses; includeTest controls whether
	// test trips appear.
	ListByProvider(ctx context.Context, providerID string, status domain.TripStatus, includeTest bool) ([]*domain.Trip, error)

	// ListExpireCandidates retrieves OPEN and LOCKED trips whose
	// scheduled time is at or before now.
	ListExpireCandidates(ctx context.Context, now time.Time) ([]*domain.Trip, error)

	// ListLockCandidates retrieves OPEN trips scheduled at or before the
	// given cutoff (now plus the lock window).
	ListLockCandidates(ctx context.Context, cutoff time.Time) ([]*domain.Trip, error)

	// ListScheduledBetween retrieves trips scheduled in [from, to). An
	// empty providerID means all providers.
	ListScheduledBetween(ctx context.Context, from, to time.Time, providerID string) ([]*domain.Trip, error)

	// Update updates an existing trip.
	Update(ctx context.Context, trip *domain.Trip) error

	// Count returns the total number of trips.
	Count(ctx context.Context) (int, error)
}
