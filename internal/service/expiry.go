package service

import (
	"context"
	"time"

	"pickup/internal/domain"
	"pickup/internal/observability"
	"pickup/internal/repository"
)

// Expiry applies all time-based transitions: invitation expiry at 24h,
// trip lock at 30 minutes before departure, trip and request expiry at
// their scheduled times. The sweeper runs it on a timer; read paths call
// the same functions as an idempotent safety net, so a row that was
// already transitioned is left untouched.
type Expiry struct {
	requests    repository.RequestRepository
	trips       repository.TripRepository
	invitations repository.InvitationRepository
}

// NewExpiry creates the shared expiry engine.
func NewExpiry(
	requests repository.RequestRepository,
	trips repository.TripRepository,
	invitations repository.InvitationRepository,
) *Expiry {
	return &Expiry{
		requests:    requests,
		trips:       trips,
		invitations: invitations,
	}
}

// ExpireInvitationIfDue flips a PENDING invitation past its expiry to
// EXPIRED, mutating inv in place. Reports whether a transition happened.
func (e *Expiry) ExpireInvitationIfDue(ctx context.Context, inv *domain.Invitation) (bool, error) {
	if !InvitationDue(time.Now(), inv) {
		return false, nil
	}

	inv.Status = domain.InvitationStatusExpired
	if err := e.invitations.Update(ctx, inv); err != nil {
		return false, err
	}
	observability.RecordTransition("invitation", string(domain.InvitationStatusExpired))
	return true, nil
}

// ExpireRequestIfDue flips a REQUESTED or MATCHED request past its pickup
// time to EXPIRED, mutating req in place.
func (e *Expiry) ExpireRequestIfDue(ctx context.Context, req *domain.PickupRequest) (bool, error) {
	if !RequestDue(time.Now(), req) {
		return false, nil
	}

	req.Status = domain.RequestStatusExpired
	if err := e.requests.Update(ctx, req); err != nil {
		return false, err
	}
	observability.RecordTransition("request", string(domain.RequestStatusExpired))
	return true, nil
}

// SweepTrip applies whichever time transition a trip is due for: expiry
// once the scheduled time passes, otherwise the pre-departure lock. Both
// expire the trip's outstanding PENDING invitations.
func (e *Expiry) SweepTrip(ctx context.Context, trip *domain.Trip) (bool, error) {
	now := time.Now()

	switch {
	case TripExpireDue(now, trip):
		trip.Status = domain.TripStatusExpired
	case TripLockDue(now, trip):
		trip.Status = domain.TripStatusLocked
		trip.IsLocked = true
	default:
		return false, nil
	}

	if err := e.trips.Update(ctx, trip); err != nil {
		return false, err
	}
	observability.RecordTransition("trip", string(trip.Status))

	if err := e.expirePendingOnTrip(ctx, trip.ID); err != nil {
		return true, err
	}
	return true, nil
}

// expirePendingOnTrip expires every PENDING invitation on a trip.
func (e *Expiry) expirePendingOnTrip(ctx context.Context, tripID string) error {
	pending, err := e.invitations.ListPendingByTrip(ctx, tripID)
	if err != nil {
		return err
	}
	for _, inv := range pending {
		inv.Status = domain.InvitationStatusExpired
		if err := e.invitations.Update(ctx, inv); err != nil {
			return err
		}
		observability.RecordTransition("invitation", string(domain.InvitationStatusExpired))
	}
	return nil
}
