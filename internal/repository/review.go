package repository

import (
	"context"

	"pickup/internal/domain"
)

// ReviewRepository defines the persistence operations for trip reviews.
type ReviewRepository interface {
	// Create persists a new review. A second review for the same pickup
	// request surfaces as ErrDuplicate.
	Create(ctx context.Context, review *domain.TripReview) error

	// ListByProvider retrieves the reviews of a provider's trips, newest
	// first.
	ListByProvider(ctx context.Context, providerID string) ([]*domain.TripReview, error)
}
