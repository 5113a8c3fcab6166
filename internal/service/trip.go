package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pickup/internal/broadcast"
	"pickup/internal/domain"
	"pickup/internal/observability"
	redisx "pickup/internal/redis"
	"pickup/internal/repository"
)

// TripService handles the provider-side trip lifecycle.
type TripService struct {
	resolver     *ProfileResolver
	trips        repository.TripRepository
	requests     repository.RequestRepository
	invitations  repository.InvitationRepository
	participants repository.ParticipantRepository
	tx           repository.TxStarter
	expiry       *Expiry
	views        redisx.ViewCacheInterface
	events       *broadcast.Broadcaster
}

// NewTripService creates a new TripService.
func NewTripService(
	resolver *ProfileResolver,
	trips repository.TripRepository,
	requests repository.RequestRepository,
	invitations repository.InvitationRepository,
	participants repository.ParticipantRepository,
	tx repository.TxStarter,
	expiry *Expiry,
	views redisx.ViewCacheInterface,
	events *broadcast.Broadcaster,
) *TripService {
	return &TripService{
		resolver:     resolver,
		trips:        trips,
		requests:     requests,
		invitations:  invitations,
		participants: participants,
		tx:           tx,
		expiry:       expiry,
		views:        views,
		events:       events,
	}
}

func (s *TripService) invalidate(ctx context.Context, views ...string) {
	if s.views != nil {
		_ = s.views.Invalidate(ctx, views...)
	}
}

// CreateTripInput contains the parameters for creating a trip.
type CreateTripInput struct {
	ExternalID  string
	Title       string
	ScheduledAt time.Time
	IsTest      bool
}

// Create opens a new trip group with the fixed seat capacity.
func (s *TripService) Create(ctx context.Context, in CreateTripInput) (*domain.Trip, error) {
	caller, err := s.resolver.Resolve(ctx, in.ExternalID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrMissingTitle
	}
	if in.ScheduledAt.IsZero() || !in.ScheduledAt.After(time.Now()) {
		return nil, ErrInvalidScheduledTime
	}

	trip := &domain.Trip{
		ID:          uuid.New().String(),
		ProviderID:  caller.ID,
		Title:       in.Title,
		ScheduledAt: in.ScheduledAt,
		Status:      domain.TripStatusOpen,
		Capacity:    domain.TripCapacity,
		IsTest:      in.IsTest,
		CreatedAt:   time.Now(),
	}

	if err := s.trips.Create(ctx, trip); err != nil {
		return nil, err
	}

	observability.RecordTransition("trip", string(trip.Status))
	s.invalidate(ctx, redisx.TripsView(caller.ID))
	s.events.Publish(broadcast.EventTripCreated, "trip", trip.ID, string(trip.Status), caller.ID)

	return trip, nil
}

// ListMine returns the caller's trips, sweeping each one through the
// time-based transitions first.
func (s *TripService) ListMine(ctx context.Context, externalID string, status domain.TripStatus, includeTest bool) ([]*domain.Trip, error) {
	caller, err := s.resolver.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}

	trips, err := s.trips.ListByProvider(ctx, caller.ID, status, includeTest)
	if err != nil {
		return nil, err
	}

	for _, trip := range trips {
		if _, err := s.expiry.SweepTrip(ctx, trip); err != nil {
			return nil, err
		}
	}
	return trips, nil
}

// Get returns one of the caller's trips.
func (s *TripService) Get(ctx context.Context, externalID, tripID string) (*domain.Trip, error) {
	caller, err := s.resolver.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}

	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := providerOn(trip, caller); err != nil {
		return nil, err
	}

	if _, err := s.expiry.SweepTrip(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// Start departs a trip. The trip flip, expiry of its remaining PENDING
// invitations, and advancing every live participant's request commit in
// one transaction.
func (s *TripService) Start(ctx context.Context, externalID, tripID string) (*domain.Trip, error) {
	caller, err := s.resolver.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}

	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := providerOn(trip, caller); err != nil {
		return nil, err
	}

	if _, err := s.expiry.SweepTrip(ctx, trip); err != nil {
		return nil, err
	}

	parts, err := s.participants.ListByTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	met := 0
	for _, p := range parts {
		if p.IsMetAtPickup {
			met++
		}
	}
	if err := CanStartTrip(trip, met); err != nil {
		return nil, err
	}

	tx, err := s.tx.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Re-read inside the transaction so two concurrent starts cannot
	// both depart.
	var current *domain.Trip
	current, err = tx.Trips().GetByID(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	if err = CanStartTrip(current, met); err != nil {
		return nil, err
	}

	trip.Status = domain.TripStatusInProgress
	trip.IsLocked = true
	trip.StartedAt = time.Now()
	if err = tx.Trips().Update(ctx, trip); err != nil {
		return nil, err
	}

	var pending []*domain.Invitation
	pending, err = tx.Invitations().ListPendingByTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	for _, inv := range pending {
		inv.Status = domain.InvitationStatusExpired
		if err = tx.Invitations().Update(ctx, inv); err != nil {
			return nil, err
		}
	}

	riders := make([]string, 0, len(parts))
	for _, p := range parts {
		var req *domain.PickupRequest
		req, err = tx.Requests().GetByID(ctx, p.PickupRequestID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				err = nil
				continue
			}
			return nil, err
		}
		if req.Status.Terminal() {
			continue
		}
		req.Status = domain.RequestStatusInProgress
		req.Progress = domain.ProgressStarted
		if err = tx.Requests().Update(ctx, req); err != nil {
			return nil, err
		}
		riders = append(riders, req.ProfileID)
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	observability.RecordTransition("trip", string(trip.Status))

	staled := []string{redisx.TripsView(caller.ID), redisx.TripInvitationsView(trip.ID)}
	for _, rider := range riders {
		staled = append(staled, redisx.RequestsView(rider))
	}
	s.invalidate(ctx, staled...)
	s.events.Publish(broadcast.EventTripUpdated, "trip", trip.ID, string(trip.Status), append(riders, caller.ID)...)

	return trip, nil
}

// MarkMet confirms a participant is present at the pickup location. The
// underlying request is untouched.
func (s *TripService) MarkMet(ctx context.Context, externalID, tripID, requestID string) (*domain.TripParticipant, error) {
	caller, err := s.resolver.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}

	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := providerOn(trip, caller); err != nil {
		return nil, err
	}
	if _, err := s.expiry.SweepTrip(ctx, trip); err != nil {
		return nil, err
	}
	if err := CanMarkMet(trip); err != nil {
		return nil, err
	}

	p, err := s.participants.GetByTripAndRequest(ctx, trip.ID, requestID)
	if err != nil {
		return nil, err
	}
	if p.IsMetAtPickup {
		return p, nil
	}

	p.IsMetAtPickup = true
	if err := s.participants.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// MarkPickedUp confirms a rider is in the vehicle, advancing the request's
// progress stage.
func (s *TripService) MarkPickedUp(ctx context.Context, externalID, tripID, requestID string) (*domain.PickupRequest, error) {
	caller, err := s.resolver.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}

	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := providerOn(trip, caller); err != nil {
		return nil, err
	}

	if _, err := s.participants.GetByTripAndRequest(ctx, trip.ID, requestID); err != nil {
		return nil, err
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := CanMarkPickedUp(trip, req); err != nil {
		return nil, err
	}

	req.Progress = domain.ProgressPickedUp
	req.PickedUpAt = time.Now()
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, err
	}

	s.invalidate(ctx, redisx.RequestsView(req.ProfileID))
	s.events.Publish(broadcast.EventRequestUpdated, "request", req.ID, string(req.Status), req.ProfileID, caller.ID)

	return req, nil
}

// Arrive marks the trip arrived at its destination, advancing every live
// participant's request in the same transaction.
func (s *TripService) Arrive(ctx context.Context, externalID, tripID string) (*domain.Trip, error) {
	return s.advance(ctx, externalID, tripID, domain.TripStatusArrived)
}

// Complete closes out an arrived trip, advancing every live participant's
// request in the same transaction.
func (s *TripService) Complete(ctx context.Context, externalID, tripID string) (*domain.Trip, error) {
	return s.advance(ctx, externalID, tripID, domain.TripStatusCompleted)
}

func (s *TripService) advance(ctx context.Context, externalID, tripID string, to domain.TripStatus) (*domain.Trip, error) {
	caller, err := s.resolver.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}

	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := providerOn(trip, caller); err != nil {
		return nil, err
	}

	switch to {
	case domain.TripStatusArrived:
		err = CanArriveTrip(trip)
	case domain.TripStatusCompleted:
		err = CanCompleteTrip(trip)
	default:
		err = ErrInvalidStatus
	}
	if err != nil {
		return nil, err
	}

	parts, err := s.participants.ListByTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}

	tx, err := s.tx.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now()
	trip.Status = to
	if to == domain.TripStatusArrived {
		trip.ArrivedAt = now
	} else {
		trip.CompletedAt = now
	}
	if err = tx.Trips().Update(ctx, trip); err != nil {
		return nil, err
	}

	reqStatus := domain.RequestStatusArrived
	if to == domain.TripStatusCompleted {
		reqStatus = domain.RequestStatusCompleted
	}

	riders := make([]string, 0, len(parts))
	for _, p := range parts {
		var req *domain.PickupRequest
		req, err = tx.Requests().GetByID(ctx, p.PickupRequestID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				err = nil
				continue
			}
			return nil, err
		}
		if req.Status.Terminal() {
			continue
		}
		req.Status = reqStatus
		if err = tx.Requests().Update(ctx, req); err != nil {
			return nil, err
		}
		riders = append(riders, req.ProfileID)
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	observability.RecordTransition("trip", string(trip.Status))

	staled := []string{redisx.TripsView(caller.ID)}
	for _, rider := range riders {
		staled = append(staled, redisx.RequestsView(rider))
	}
	s.invalidate(ctx, staled...)
	s.events.Publish(broadcast.EventTripUpdated, "trip", trip.ID, string(trip.Status), append(riders, caller.ID)...)

	return trip, nil
}

// CancelUnmetInput contains the parameters for batch-cancelling riders
// who did not show up at the pickup location.
type CancelUnmetInput struct {
	ExternalID string
	TripID     string
	RequestIDs []string
	Code       domain.CancelCode
	Reason     string
}

// CancelUnmet cancels the listed pickup requests on a trip before
// departure, freeing their seats. All flips commit in one transaction.
func (s *TripService) CancelUnmet(ctx context.Context, in CancelUnmetInput) ([]*domain.PickupRequest, error) {
	caller, err := s.resolver.Resolve(ctx, in.ExternalID)
	if err != nil {
		return nil, err
	}

	if !domain.ValidCancelCode(in.Code) {
		return nil, ErrInvalidCancelCode
	}

	trip, err := s.trips.GetByID(ctx, in.TripID)
	if err != nil {
		return nil, err
	}
	if err := providerOn(trip, caller); err != nil {
		return nil, err
	}
	if _, err := s.expiry.SweepTrip(ctx, trip); err != nil {
		return nil, err
	}
	if err := CanCancelUnmet(trip); err != nil {
		return nil, err
	}

	tx, err := s.tx.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	cancelled := make([]*domain.PickupRequest, 0, len(in.RequestIDs))
	for _, requestID := range in.RequestIDs {
		if _, err = tx.Participants().GetByTripAndRequest(ctx, trip.ID, requestID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				err = ErrNotParticipant
			}
			return nil, err
		}

		var req *domain.PickupRequest
		req, err = tx.Requests().GetByID(ctx, requestID)
		if err != nil {
			return nil, err
		}
		if !req.Status.Cancellable() {
			continue
		}

		req.Status = domain.RequestStatusCancelled
		req.CancelCode = in.Code
		req.CancelReason = in.Reason
		if err = tx.Requests().Update(ctx, req); err != nil {
			return nil, err
		}

		var invs []*domain.Invitation
		invs, err = tx.Invitations().ListByRequest(ctx, requestID)
		if err != nil {
			return nil, err
		}
		for _, inv := range invs {
			if !inv.Status.Active() {
				continue
			}
			inv.Status = domain.InvitationStatusExpired
			if err = tx.Invitations().Update(ctx, inv); err != nil {
				return nil, err
			}
		}

		if err = tx.Participants().DeleteByRequest(ctx, requestID); err != nil {
			return nil, err
		}
		cancelled = append(cancelled, req)
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	staled := []string{redisx.TripsView(caller.ID), redisx.TripInvitationsView(trip.ID), redisx.AvailableRequestsView}
	notify := []string{caller.ID}
	for _, req := range cancelled {
		observability.RecordTransition("request", string(req.Status))
		staled = append(staled, redisx.RequestsView(req.ProfileID), redisx.RequestInvitationsView(req.ID))
		notify = append(notify, req.ProfileID)
	}
	s.invalidate(ctx, staled...)
	s.events.Publish(broadcast.EventTripUpdated, "trip", trip.ID, string(trip.Status), notify...)

	return cancelled, nil
}
