package repository

import (
	"context"
	"time"

	"pickup/internal/domain"
)

// InvitationRepository defines the persistence operations for invitations.
type InvitationRepository interface {
	// Create persists a new invitation. A PENDING invitation for the same
	// (pickup request, provider) pair surfaces as ErrDuplicate.
	Create(ctx context.Context, inv *domain.Invitation) error

	// GetByID retrieves an invitation by id.
	GetByID(ctx context.Context, id string) (*domain.Invitation, error)

	// ListByTrip retrieves all invitations for a trip, newest first.
	ListByTrip(ctx context.Context, tripID string) ([]*domain.Invitation, error)

	// ListByRequest retrieves all invitations for a pickup request,
	// newest first.
	ListByRequest(ctx context.Context, requestID string) ([]*domain.Invitation, error)

	// ListByProvider retrieves a provider's invitations, newest first.
	ListByProvider(ctx context.Context, providerID string) ([]*domain.Invitation, error)

	// ListPendingByTrip retrieves a trip's PENDING invitations.
	ListPendingByTrip(ctx context.Context, tripID string) ([]*domain.Invitation, error)

	// ListPendingByRequest retrieves a pickup request's PENDING
	// invitations.
	ListPendingByRequest(ctx context.Context, requestID string) ([]*domain.Invitation, error)

	// ListDuePending retrieves PENDING invitations whose expiry time is
	// at or before now.
	ListDuePending(ctx context.Context, now time.Time) ([]*domain.Invitation, error)

	// HasPendingForPair reports whether a PENDING invitation already
	// links the pickup request and provider.
	HasPendingForPair(ctx context.Context, requestID, providerID string) (bool, error)

	// PendingRequestIDs filters requestIDs down to those holding at
	// least one PENDING invitation.
	PendingRequestIDs(ctx context.Context, requestIDs []string) (map[string]bool, error)

	// CountPendingByProvider counts a provider's PENDING invitations.
	CountPendingByProvider(ctx context.Context, providerID string) (int, error)

	// CountActiveByTrip counts a trip's PENDING plus ACCEPTED
	// invitations.
	CountActiveByTrip(ctx context.Context, tripID string) (int, error)

	// CountAcceptedByTrip counts a trip's ACCEPTED invitations.
	CountAcceptedByTrip(ctx context.Context, tripID string) (int, error)

	// CountAcceptedInSlot counts a provider's ACCEPTED invitations whose
	// pickup times fall in [slotStart, slotEnd).
	CountAcceptedInSlot(ctx context.Context, providerID string, slotStart, slotEnd time.Time) (int, error)

	// Update updates an existing invitation.
	Update(ctx context.Context, inv *domain.Invitation) error
}
