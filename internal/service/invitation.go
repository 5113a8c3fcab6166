package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"pickup/internal/broadcast"
	"pickup/internal/domain"
	"pickup/internal/identity"
	"pickup/internal/observability"
	redisx "pickup/internal/redis"
	"pickup/internal/repository"
)

// tripLockTTL bounds how long a send or accept may hold a trip's Redis
// lock before it self-releases.
const tripLockTTL = 5 * time.Second

// InvitationService brokers trip seats between providers and requesters.
type InvitationService struct {
	resolver     *ProfileResolver
	profiles     repository.ProfileRepository
	invitations  repository.InvitationRepository
	trips        repository.TripRepository
	requests     repository.RequestRepository
	participants repository.ParticipantRepository
	tx           repository.TxStarter
	locks        redisx.TripLockInterface
	expiry       *Expiry
	directory    identity.Directory
	views        redisx.ViewCacheInterface
	events       *broadcast.Broadcaster
}

// NewInvitationService creates a new InvitationService.
func NewInvitationService(
	resolver *ProfileResolver,
	profiles repository.ProfileRepository,
	invitations repository.InvitationRepository,
	trips repository.TripRepository,
	requests repository.RequestRepository,
	participants repository.ParticipantRepository,
	tx repository.TxStarter,
	locks redisx.TripLockInterface,
	expiry *Expiry,
	directory identity.Directory,
	views redisx.ViewCacheInterface,
	events *broadcast.Broadcaster,
) *InvitationService {
	return &InvitationService{
		resolver:     resolver,
		profiles:     profiles,
		invitations:  invitations,
		trips:        trips,
		requests:     requests,
		participants: participants,
		tx:           tx,
		locks:        locks,
		expiry:       expiry,
		directory:    directory,
		views:        views,
		events:       events,
	}
}

func (s *InvitationService) invalidate(ctx context.Context, views ...string) {
	if s.views != nil {
		_ = s.views.Invalidate(ctx, views...)
	}
}

// lockTrip serializes capacity-sensitive mutations on one trip.
func (s *InvitationService) lockTrip(ctx context.Context, tripID string) (func(), error) {
	if s.locks == nil {
		return func() {}, nil
	}
	ok, err := s.locks.AcquireTripLock(ctx, tripID, tripLockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTripBusy
	}
	return func() { _ = s.locks.ReleaseTripLock(ctx, tripID) }, nil
}

// SendInvitationInput contains the parameters for offering a trip seat.
type SendInvitationInput struct {
	ExternalID string
	TripID     string
	RequestID  string
}

// Send offers one of the caller's trip seats to a pickup request. The
// precondition chain runs under the trip's Redis lock so two concurrent
// sends cannot both pass the capacity check.
func (s *InvitationService) Send(ctx context.Context, in SendInvitationInput) (*domain.Invitation, error) {
	caller, err := s.resolver.Resolve(ctx, in.ExternalID)
	if err != nil {
		return nil, err
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

	req, err := s.requests.GetByID(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	if _, err := s.expiry.ExpireRequestIfDue(ctx, req); err != nil {
		return nil, err
	}

	release, err := s.lockTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	pendingByProvider, err := s.invitations.CountPendingByProvider(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	activeOnTrip, err := s.invitations.CountActiveByTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	hasPair, err := s.invitations.HasPendingForPair(ctx, req.ID, caller.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := CanSendInvitation(now, trip, req, pendingByProvider, activeOnTrip, hasPair); err != nil {
		return nil, err
	}

	inv := &domain.Invitation{
		ID:              uuid.New().String(),
		TripID:          trip.ID,
		PickupRequestID: req.ID,
		ProviderID:      caller.ID,
		RequesterID:     req.ProfileID,
		Status:          domain.InvitationStatusPending,
		ExpiresAt:       now.Add(domain.InvitationTTL),
		CreatedAt:       now,
	}
	if err := s.invitations.Create(ctx, inv); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateInvitation
		}
		return nil, err
	}

	observability.RecordTransition("invitation", string(inv.Status))
	s.invalidate(ctx,
		redisx.TripInvitationsView(trip.ID),
		redisx.RequestInvitationsView(req.ID),
		redisx.AvailableRequestsView,
	)
	s.events.Publish(broadcast.EventInvitationCreated, "invitation", inv.ID, string(inv.Status), req.ProfileID, caller.ID)

	return inv, nil
}

// ListForTrip returns a trip's invitations for its provider, PENDING
// first, then ACCEPTED, REJECTED, EXPIRED, newest first within a status.
func (s *InvitationService) ListForTrip(ctx context.Context, externalID, tripID string) ([]*domain.Invitation, error) {
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

	invs, err := s.invitations.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	for _, inv := range invs {
		if _, err := s.expiry.ExpireInvitationIfDue(ctx, inv); err != nil {
			return nil, err
		}
	}

	// The repository returns newest first; a stable sort by rank keeps
	// that recency order inside each status.
	sort.SliceStable(invs, func(i, j int) bool {
		return domain.InvitationStatusRank(invs[i].Status) < domain.InvitationStatusRank(invs[j].Status)
	})
	return invs, nil
}

// InvitationWithProvider pairs an invitation with the provider's public
// display fields for the requester-facing list.
type InvitationWithProvider struct {
	Invitation       *domain.Invitation
	ProviderName     string
	ProviderPhotoURL string
	ProviderBio      string
}

// ListForRequest returns a pickup request's invitations for its
// requester, each enriched with the provider's public profile. A failed
// directory lookup leaves the display fields empty rather than failing
// the list.
func (s *InvitationService) ListForRequest(ctx context.Context, externalID, requestID string) ([]InvitationWithProvider, error) {
	caller, err := s.resolver.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := requesterOn(req, caller); err != nil {
		return nil, err
	}

	invs, err := s.invitations.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	enriched := make([]InvitationWithProvider, 0, len(invs))
	byProvider := make(map[string]*identity.PublicProfile)
	for _, inv := range invs {
		if _, err := s.expiry.ExpireInvitationIfDue(ctx, inv); err != nil {
			return nil, err
		}

		row := InvitationWithProvider{Invitation: inv}
		pub, seen := byProvider[inv.ProviderID]
		if !seen {
			pub = s.lookupProvider(ctx, inv.ProviderID)
			byProvider[inv.ProviderID] = pub
		}
		if pub != nil {
			row.ProviderName = pub.Name
			row.ProviderPhotoURL = pub.PhotoURL
			row.ProviderBio = pub.Bio
		}
		enriched = append(enriched, row)
	}
	return enriched, nil
}

// lookupProvider resolves a provider's public display profile, falling
// back to the locally stored name when the directory is unreachable.
func (s *InvitationService) lookupProvider(ctx context.Context, providerID string) *identity.PublicProfile {
	profile, err := s.profiles.GetByID(ctx, providerID)
	if err != nil {
		return nil
	}
	if s.directory != nil {
		if pub, err := s.directory.PublicProfile(ctx, profile.ExternalID); err == nil {
			return pub
		}
	}
	return &identity.PublicProfile{Name: profile.Name}
}

// InvitationDetail is the full view of one invitation for either party.
// The request inside it is redacted until the invitation is ACCEPTED.
type InvitationDetail struct {
	Invitation *domain.Invitation
	Trip       *domain.Trip
	Request    *domain.PickupRequest
}

// redactedRequest strips the precise addresses and coordinates, leaving
// the coarse area and destination-kind labels.
func redactedRequest(req *domain.PickupRequest) *domain.PickupRequest {
	r := *req
	r.OriginText = ""
	r.OriginLat = 0
	r.OriginLng = 0
	r.DestinationText = ""
	r.DestinationLat = 0
	r.DestinationLng = 0
	return &r
}

// Get returns one invitation with its trip and request. Exact pickup
// location is included only once the invitation is ACCEPTED.
func (s *InvitationService) Get(ctx context.Context, externalID, invitationID string) (*InvitationDetail, error) {
	caller, err := s.resolver.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}

	inv, err := s.invitations.GetByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if err := invitationParty(inv, caller); err != nil {
		return nil, err
	}
	if _, err := s.expiry.ExpireInvitationIfDue(ctx, inv); err != nil {
		return nil, err
	}

	trip, err := s.trips.GetByID(ctx, inv.TripID)
	if err != nil {
		return nil, err
	}
	req, err := s.requests.GetByID(ctx, inv.PickupRequestID)
	if err != nil {
		return nil, err
	}
	if inv.Status != domain.InvitationStatusAccepted {
		req = redactedRequest(req)
	}

	return &InvitationDetail{Invitation: inv, Trip: trip, Request: req}, nil
}

// Accept confirms a seat. The invitation flip, participant insert, request
// match, and sibling-invitation expiry commit in one transaction; the trip
// Redis lock plus an in-transaction seat recount close the race of two
// requesters accepting the last seat.
func (s *InvitationService) Accept(ctx context.Context, externalID, invitationID string) (*domain.Invitation, error) {
	caller, err := s.resolver.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}

	inv, err := s.invitations.GetByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if err := invitationRequester(inv, caller); err != nil {
		return nil, err
	}
	if _, err := s.expiry.ExpireInvitationIfDue(ctx, inv); err != nil {
		return nil, err
	}

	trip, err := s.trips.GetByID(ctx, inv.TripID)
	if err != nil {
		return nil, err
	}
	if _, err := s.expiry.SweepTrip(ctx, trip); err != nil {
		return nil, err
	}

	req, err := s.requests.GetByID(ctx, inv.PickupRequestID)
	if err != nil {
		return nil, err
	}
	if _, err := s.expiry.ExpireRequestIfDue(ctx, req); err != nil {
		return nil, err
	}

	release, err := s.lockTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	acceptedOnTrip, err := s.invitations.CountAcceptedByTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	slotStart, slotEnd := domain.SlotBounds(req.PickupAt)
	acceptedInSlot, err := s.invitations.CountAcceptedInSlot(ctx, inv.ProviderID, slotStart, slotEnd)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := CanAcceptInvitation(now, inv, trip, req, acceptedOnTrip, acceptedInSlot); err != nil {
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

	// Recount inside the transaction so a commit that raced past the
	// Redis lock cannot oversubscribe the trip.
	var accepted int
	accepted, err = tx.Invitations().CountAcceptedByTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	if accepted >= trip.Capacity {
		err = ErrTripFull
		return nil, err
	}

	inv.Status = domain.InvitationStatusAccepted
	inv.RespondedAt = now
	if err = tx.Invitations().Update(ctx, inv); err != nil {
		return nil, err
	}

	participant := &domain.TripParticipant{
		ID:              uuid.New().String(),
		TripID:          trip.ID,
		PickupRequestID: req.ID,
		RequesterID:     caller.ID,
		SequenceOrder:   accepted + 1,
		CreatedAt:       now,
	}
	if err = tx.Participants().Create(ctx, participant); err != nil {
		return nil, err
	}

	var changed bool
	changed, err = tx.Requests().UpdateStatusFrom(ctx, req.ID, domain.RequestStatusRequested, domain.RequestStatusMatched)
	if err != nil {
		return nil, err
	}
	if !changed {
		err = ErrRequestAlreadyMatched
		return nil, err
	}

	var siblings []*domain.Invitation
	siblings, err = tx.Invitations().ListPendingByRequest(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	for _, sib := range siblings {
		if sib.ID == inv.ID {
			continue
		}
		sib.Status = domain.InvitationStatusExpired
		if err = tx.Invitations().Update(ctx, sib); err != nil {
			return nil, err
		}
	}

	notify := []string{caller.ID, inv.ProviderID}
	if accepted+1 >= trip.Capacity {
		trip.Status = domain.TripStatusLocked
		trip.IsLocked = true
		if err = tx.Trips().Update(ctx, trip); err != nil {
			return nil, err
		}

		var remaining []*domain.Invitation
		remaining, err = tx.Invitations().ListPendingByTrip(ctx, trip.ID)
		if err != nil {
			return nil, err
		}
		for _, rem := range remaining {
			rem.Status = domain.InvitationStatusExpired
			if err = tx.Invitations().Update(ctx, rem); err != nil {
				return nil, err
			}
			notify = append(notify, rem.RequesterID)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	observability.RecordTransition("invitation", string(inv.Status))
	observability.RecordTransition("request", string(domain.RequestStatusMatched))

	s.invalidate(ctx,
		redisx.TripInvitationsView(trip.ID),
		redisx.RequestInvitationsView(req.ID),
		redisx.RequestsView(caller.ID),
		redisx.TripsView(inv.ProviderID),
		redisx.AvailableRequestsView,
	)
	s.events.Publish(broadcast.EventInvitationUpdated, "invitation", inv.ID, string(inv.Status), notify...)

	return inv, nil
}

// Reject declines an invitation. Rejecting an invitation that already
// expired is allowed so the requester can clear it from their list.
func (s *InvitationService) Reject(ctx context.Context, externalID, invitationID string) (*domain.Invitation, error) {
	caller, err := s.resolver.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}

	inv, err := s.invitations.GetByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if err := invitationRequester(inv, caller); err != nil {
		return nil, err
	}
	if _, err := s.expiry.ExpireInvitationIfDue(ctx, inv); err != nil {
		return nil, err
	}
	if err := CanRejectInvitation(inv); err != nil {
		return nil, err
	}

	inv.Status = domain.InvitationStatusRejected
	inv.RespondedAt = time.Now()
	if err := s.invitations.Update(ctx, inv); err != nil {
		return nil, err
	}

	observability.RecordTransition("invitation", string(inv.Status))
	s.invalidate(ctx,
		redisx.TripInvitationsView(inv.TripID),
		redisx.RequestInvitationsView(inv.PickupRequestID),
	)
	s.events.Publish(broadcast.EventInvitationUpdated, "invitation", inv.ID, string(inv.Status), caller.ID, inv.ProviderID)

	return inv, nil
}

// InvitationWithContext pairs a provider's invitation with its trip and
// (redacted until accepted) request.
type InvitationWithContext struct {
	Invitation *domain.Invitation
	Trip       *domain.Trip
	Request    *domain.PickupRequest
}

// ListMine returns the caller's sent invitations that still matter:
// PENDING, ACCEPTED and EXPIRED, each with its trip and request context.
func (s *InvitationService) ListMine(ctx context.Context, externalID string) ([]InvitationWithContext, error) {
	caller, err := s.resolver.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}

	invs, err := s.invitations.ListByProvider(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	tripsByID := make(map[string]*domain.Trip)
	result := make([]InvitationWithContext, 0, len(invs))
	for _, inv := range invs {
		if _, err := s.expiry.ExpireInvitationIfDue(ctx, inv); err != nil {
			return nil, err
		}
		if inv.Status == domain.InvitationStatusRejected {
			continue
		}

		trip, seen := tripsByID[inv.TripID]
		if !seen {
			trip, err = s.trips.GetByID(ctx, inv.TripID)
			if err != nil {
				return nil, err
			}
			tripsByID[inv.TripID] = trip
		}

		req, err := s.requests.GetByID(ctx, inv.PickupRequestID)
		if err != nil {
			return nil, err
		}
		if inv.Status != domain.InvitationStatusAccepted {
			req = redactedRequest(req)
		}

		result = append(result, InvitationWithContext{Invitation: inv, Trip: trip, Request: req})
	}
	return result, nil
}
