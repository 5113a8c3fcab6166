package repository

import (
	"context"

	"pickup/internal/domain"
)

// ParticipantRepository defines the persistence operations for trip
// participants.
type ParticipantRepository interface {
	// Create persists a new trip participant.
	Create(ctx context.Context, p *domain.TripParticipant) error

	// GetByTripAndRequest retrieves the participant row linking a trip
	// and a pickup request.
	GetByTripAndRequest(ctx context.Context, tripID, requestID string) (*domain.TripParticipant, error)

	// ListByTrip retrieves a trip's participants in sequence order.
	ListByTrip(ctx context.Context, tripID string) ([]*domain.TripParticipant, error)

	// Update updates an existing participant row.
	Update(ctx context.Context, p *domain.TripParticipant) error

	// DeleteByRequest removes the participant row for a pickup request,
	// freeing the trip seat. Deleting a non-existent row is not an error.
	DeleteByRequest(ctx context.Context, requestID string) error
}
