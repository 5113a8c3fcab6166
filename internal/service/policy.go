package service

import (
	"time"

	"pickup/internal/domain"
)

// This file is the single authority for lifecycle transition rules. Every
// entry point (handlers, sweeper, read-time safety nets) calls these pure
// functions over current-state snapshots; no other code re-derives a
// capacity, expiry, or state check.

// InvitationDue reports whether a PENDING invitation's expiry has passed.
func InvitationDue(now time.Time, inv *domain.Invitation) bool {
	return inv.Status == domain.InvitationStatusPending && !inv.ExpiresAt.After(now)
}

// RequestDue reports whether an active request's pickup time has passed.
func RequestDue(now time.Time, req *domain.PickupRequest) bool {
	if req.Status != domain.RequestStatusRequested && req.Status != domain.RequestStatusMatched {
		return false
	}
	return !req.PickupAt.After(now)
}

// TripExpireDue reports whether an OPEN or LOCKED trip's scheduled time
// has passed.
func TripExpireDue(now time.Time, trip *domain.Trip) bool {
	return trip.Status.Active() && !trip.ScheduledAt.After(now)
}

// TripLockDue reports whether an OPEN trip is inside the pre-departure
// lock window but not yet due to expire.
func TripLockDue(now time.Time, trip *domain.Trip) bool {
	if trip.Status != domain.TripStatusOpen {
		return false
	}
	return trip.ScheduledAt.After(now) && !trip.ScheduledAt.Add(-domain.TripLockWindow).After(now)
}

// tripDeparted reports whether the trip has left the invitation phase.
func tripDeparted(trip *domain.Trip) bool {
	switch trip.Status {
	case domain.TripStatusInProgress, domain.TripStatusArrived,
		domain.TripStatusCompleted, domain.TripStatusCancelled:
		return true
	}
	return false
}

// CanSendInvitation decides whether a provider may offer a trip seat to a
// pickup request. Checks run in a fixed order so each failure surfaces a
// stable, distinct message.
func CanSendInvitation(
	now time.Time,
	trip *domain.Trip,
	req *domain.PickupRequest,
	pendingByProvider int,
	activeOnTrip int,
	hasPendingPair bool,
) error {
	if trip.Status == domain.TripStatusExpired || TripExpireDue(now, trip) {
		return ErrTripExpired
	}
	if trip.IsLocked || trip.Status != domain.TripStatusOpen {
		return ErrTripLocked
	}
	if !trip.ScheduledAt.Add(-domain.TripLockWindow).After(now) {
		return ErrTooCloseToDeparture
	}
	if req.Status == domain.RequestStatusExpired || RequestDue(now, req) {
		return ErrRequestExpired
	}
	if req.Status != domain.RequestStatusRequested {
		return ErrRequestNotAvailable
	}
	if !domain.SameKSTDate(req.PickupAt, trip.ScheduledAt) {
		return ErrDateMismatch
	}
	if hasPendingPair {
		return ErrDuplicateInvitation
	}
	if pendingByProvider >= domain.MaxPendingPerProvider {
		return ErrPendingLimit
	}
	if activeOnTrip >= trip.Capacity {
		return ErrTripFull
	}
	return nil
}

// CanAcceptInvitation decides whether a requester may accept an
// invitation. Seats are counted as ACCEPTED invitations: a trip at
// capacity in PENDING offers can still have one of them accepted.
func CanAcceptInvitation(
	now time.Time,
	inv *domain.Invitation,
	trip *domain.Trip,
	req *domain.PickupRequest,
	acceptedOnTrip int,
	acceptedInSlot int,
) error {
	if req.Status == domain.RequestStatusExpired || RequestDue(now, req) {
		return ErrRequestExpired
	}
	if req.Status == domain.RequestStatusMatched {
		return ErrRequestAlreadyMatched
	}
	if req.Status != domain.RequestStatusRequested {
		return ErrRequestNotAvailable
	}
	if trip.Status == domain.TripStatusExpired || TripExpireDue(now, trip) {
		return ErrTripExpired
	}
	if inv.Status == domain.InvitationStatusExpired || InvitationDue(now, inv) {
		return ErrInvitationExpired
	}
	if inv.Status != domain.InvitationStatusPending {
		return ErrInvitationNotPending
	}
	if trip.IsLocked || trip.Status != domain.TripStatusOpen {
		return ErrTripLocked
	}
	if acceptedOnTrip >= trip.Capacity {
		return ErrTripFull
	}
	if acceptedInSlot >= domain.MaxAcceptedPerSlot {
		return ErrSlotLimit
	}
	return nil
}

// CanRejectInvitation decides whether an invitation may be rejected. An
// already-expired invitation may still be explicitly rejected.
func CanRejectInvitation(inv *domain.Invitation) error {
	if inv.Status != domain.InvitationStatusPending && inv.Status != domain.InvitationStatusExpired {
		return ErrInvitationNotPending
	}
	return nil
}

// CanCancelRequest decides whether a pickup request may be cancelled.
func CanCancelRequest(req *domain.PickupRequest) error {
	if !req.Status.Cancellable() {
		return ErrRequestNotCancellable
	}
	return nil
}

// CanStartTrip decides whether a provider may depart. The pre-departure
// LOCKED state does not block departure; only a trip that already left or
// finished does.
func CanStartTrip(trip *domain.Trip, metCount int) error {
	if trip.Status == domain.TripStatusExpired {
		return ErrTripExpired
	}
	if tripDeparted(trip) {
		return ErrTripAlreadyStarted
	}
	if metCount == 0 {
		return ErrNoConfirmedStudents
	}
	return nil
}

// CanMarkMet decides whether a participant may be confirmed present at
// the pickup location. Only meaningful before departure.
func CanMarkMet(trip *domain.Trip) error {
	if trip.Status == domain.TripStatusExpired {
		return ErrTripExpired
	}
	if tripDeparted(trip) {
		return ErrTripAlreadyStarted
	}
	return nil
}

// CanMarkPickedUp decides whether a participant's pickup may be confirmed
// complete.
func CanMarkPickedUp(trip *domain.Trip, req *domain.PickupRequest) error {
	if trip.Status != domain.TripStatusInProgress {
		return ErrTripNotInProgress
	}
	if req.Progress != domain.ProgressStarted {
		return ErrParticipantNotStarted
	}
	return nil
}

// CanArriveTrip decides whether a trip may be marked arrived.
func CanArriveTrip(trip *domain.Trip) error {
	if trip.Status != domain.TripStatusInProgress {
		return ErrTripNotInProgress
	}
	return nil
}

// CanCompleteTrip decides whether a trip may be marked completed.
func CanCompleteTrip(trip *domain.Trip) error {
	if trip.Status != domain.TripStatusArrived {
		return ErrTripNotArrived
	}
	return nil
}

// CanCancelUnmet decides whether the provider may batch-cancel unmet
// riders. Only possible before departure.
func CanCancelUnmet(trip *domain.Trip) error {
	if trip.Status == domain.TripStatusExpired {
		return ErrTripExpired
	}
	if tripDeparted(trip) {
		return ErrTripAlreadyStarted
	}
	return nil
}

// CanReview decides whether a requester may review a trip they rode on.
func CanReview(trip *domain.Trip, rating int) error {
	if trip.Status != domain.TripStatusArrived && trip.Status != domain.TripStatusCompleted {
		return ErrTripNotFinished
	}
	if !domain.ValidRating(rating) {
		return ErrInvalidRating
	}
	return nil
}
