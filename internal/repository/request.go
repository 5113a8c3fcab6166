package repository

import (
	"context"
	"time"

	"pickup/internal/domain"
)

// RequestRepository defines the persistence operations for pickup requests.
type RequestRepository interface {
	// Create persists a new pickup request.
	Create(ctx context.Context, req *domain.PickupRequest) error

	// GetByID retrieves a pickup request by id.
	GetByID(ctx context.Context, id string) (*domain.PickupRequest, error)

	// ListByProfile retrieves a requester's pickup requests, newest first.
	// An empty status means all statuses.
	ListByProfile(ctx context.Context, profileID string, status domain.RequestStatus) ([]*domain.PickupRequest, error)

	// ListByStatus retrieves all pickup requests in the given status,
	// soonest pickup first.
	ListByStatus(ctx context.Context, status domain.RequestStatus) ([]*domain.PickupRequest, error)

	// ListDueActive retrieves REQUESTED and MATCHED requests whose pickup
	// time is at or before now.
	ListDueActive(ctx context.Context, now time.Time) ([]*domain.PickupRequest, error)

	// ListPickupBetween retrieves requests with pickup times in
	// [from, to). An empty profileID means all requesters.
	ListPickupBetween(ctx context.Context, from, to time.Time, profileID string) ([]*domain.PickupRequest, error)

	// Update updates an existing pickup request.
	Update(ctx context.Context, req *domain.PickupRequest) error

	// UpdateStatusFrom flips the status only if the stored status still
	// equals from, reporting whether a row changed.
	UpdateStatusFrom(ctx context.Context, id string, from, to domain.RequestStatus) (bool, error)

	// Count returns the total number of pickup requests.
	Count(ctx context.Context) (int, error)
}
