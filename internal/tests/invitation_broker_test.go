package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"pickup/internal/domain"
	"pickup/internal/identity"
	"pickup/internal/service"
)

func TestSendInvitationCreatesPending(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	provider := e.seedProfile(t, "Kim Driver", domain.RoleMember)
	requester := e.seedProfile(t, "Lee Parent", domain.RoleMember)

	departure := time.Now().Add(3 * time.Hour)
	trip := e.seedTrip(t, provider, departure)
	req := e.seedRequest(t, requester, departure)

	inv := e.sendInvitation(t, provider, trip.ID, req.ID)

	if inv.Status != domain.InvitationStatusPending {
		t.Fatalf("status = %s, want PENDING", inv.Status)
	}
	if inv.RequesterID != requester.ID {
		t.Fatalf("requester = %s, want %s", inv.RequesterID, requester.ID)
	}
	ttl := time.Until(inv.ExpiresAt)
	if ttl < 23*time.Hour || ttl > 25*time.Hour {
		t.Fatalf("expires in %v, want about 24h", ttl)
	}

	_, err := e.invitationSvc.Send(ctx, service.SendInvitationInput{
		ExternalID: provider.ExternalID,
		TripID:     trip.ID,
		RequestID:  req.ID,
	})
	if !errors.Is(err, service.ErrDuplicateInvitation) {
		t.Fatalf("second send err = %v, want ErrDuplicateInvitation", err)
	}

	mine, err := e.invitationSvc.ListMine(ctx, provider.ExternalID)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(mine) != 1 || mine[0].Trip.ID != trip.ID {
		t.Fatalf("mine = %+v, want one row with trip context", mine)
	}
	if mine[0].Request.OriginText != "" {
		t.Fatal("exact origin leaked in provider list before accept")
	}
}

func TestSendInvitationPendingLimit(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	provider := e.seedProfile(t, "Kim Driver", domain.RoleMember)
	departure := time.Now().Add(3 * time.Hour)
	trip := e.seedTrip(t, provider, departure)

	var invs []*domain.Invitation
	var reqs []*domain.PickupRequest
	for i := 0; i < domain.MaxPendingPerProvider; i++ {
		requester := e.seedProfile(t, "Parent", domain.RoleMember)
		req := e.seedRequest(t, requester, departure)
		reqs = append(reqs, req)
		invs = append(invs, e.sendInvitation(t, provider, trip.ID, req.ID))
	}

	extra := e.seedRequest(t, e.seedProfile(t, "Parent", domain.RoleMember), departure)
	_, err := e.invitationSvc.Send(ctx, service.SendInvitationInput{
		ExternalID: provider.ExternalID,
		TripID:     trip.ID,
		RequestID:  extra.ID,
	})
	if !errors.Is(err, service.ErrPendingLimit) {
		t.Fatalf("fourth send err = %v, want ErrPendingLimit", err)
	}

	// A rejection frees a pending slot but also a trip seat, so the
	// retry must pass both checks.
	owner0, err := e.profiles.GetByID(ctx, reqs[0].ProfileID)
	if err != nil {
		t.Fatalf("get requester: %v", err)
	}
	if _, err := e.invitationSvc.Reject(ctx, owner0.ExternalID, invs[0].ID); err != nil {
		t.Fatalf("reject: %v", err)
	}

	if _, err := e.invitationSvc.Send(ctx, service.SendInvitationInput{
		ExternalID: provider.ExternalID,
		TripID:     trip.ID,
		RequestID:  extra.ID,
	}); err != nil {
		t.Fatalf("send after reject: %v", err)
	}
}

func TestSendInvitationTripFull(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	provider := e.seedProfile(t, "Kim Driver", domain.RoleMember)
	departure := time.Now().Add(3 * time.Hour)
	trip := e.seedTrip(t, provider, departure)

	// Fill two seats and leave one offer pending: three active
	// invitations, but only one of them counts against the sender's
	// pending cap.
	for i := 0; i < 2; i++ {
		requester := e.seedProfile(t, "Parent", domain.RoleMember)
		req := e.seedRequest(t, requester, departure)
		inv := e.sendInvitation(t, provider, trip.ID, req.ID)
		if _, err := e.invitationSvc.Accept(ctx, requester.ExternalID, inv.ID); err != nil {
			t.Fatalf("accept: %v", err)
		}
	}
	pendingReq := e.seedRequest(t, e.seedProfile(t, "Parent", domain.RoleMember), departure)
	e.sendInvitation(t, provider, trip.ID, pendingReq.ID)

	extra := e.seedRequest(t, e.seedProfile(t, "Parent", domain.RoleMember), departure)
	_, err := e.invitationSvc.Send(ctx, service.SendInvitationInput{
		ExternalID: provider.ExternalID,
		TripID:     trip.ID,
		RequestID:  extra.ID,
	})
	if !errors.Is(err, service.ErrTripFull) {
		t.Fatalf("send on full trip err = %v, want ErrTripFull", err)
	}
}

func TestSendInvitationPreconditionOrder(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	provider := e.seedProfile(t, "Kim Driver", domain.RoleMember)
	requester := e.seedProfile(t, "Lee Parent", domain.RoleMember)

	t.Run("inside lock window", func(t *testing.T) {
		trip := e.seedTrip(t, provider, time.Now().Add(3*time.Hour))
		soonTrip, err := e.trips.GetByID(ctx, trip.ID)
		if err != nil {
			t.Fatalf("get trip: %v", err)
		}
		soonTrip.ScheduledAt = time.Now().Add(20 * time.Minute)
		if err := e.trips.Update(ctx, soonTrip); err != nil {
			t.Fatalf("update trip: %v", err)
		}

		// The send path sweeps the trip first, so inside the window
		// the trip is already LOCKED by the time the gate runs.
		req := e.seedRequest(t, requester, time.Now().Add(20*time.Minute))
		_, err = e.invitationSvc.Send(ctx, service.SendInvitationInput{
			ExternalID: provider.ExternalID,
			TripID:     trip.ID,
			RequestID:  req.ID,
		})
		if !errors.Is(err, service.ErrTripLocked) {
			t.Fatalf("err = %v, want ErrTripLocked", err)
		}
	})

	t.Run("date mismatch", func(t *testing.T) {
		trip := e.seedTrip(t, provider, time.Now().Add(3*time.Hour))
		req := e.seedRequest(t, requester, time.Now().Add(3*time.Hour+24*time.Hour))
		_, err := e.invitationSvc.Send(ctx, service.SendInvitationInput{
			ExternalID: provider.ExternalID,
			TripID:     trip.ID,
			RequestID:  req.ID,
		})
		if !errors.Is(err, service.ErrDateMismatch) {
			t.Fatalf("err = %v, want ErrDateMismatch", err)
		}
	})
}

func TestAcceptInvitation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	providerA := e.seedProfile(t, "Kim Driver", domain.RoleMember)
	providerB := e.seedProfile(t, "Choi Driver", domain.RoleMember)
	requester := e.seedProfile(t, "Lee Parent", domain.RoleMember)

	departure := time.Now().Add(3 * time.Hour)
	tripA := e.seedTrip(t, providerA, departure)
	tripB := e.seedTrip(t, providerB, departure)
	req := e.seedRequest(t, requester, departure)

	invA := e.sendInvitation(t, providerA, tripA.ID, req.ID)
	invB := e.sendInvitation(t, providerB, tripB.ID, req.ID)

	accepted, err := e.invitationSvc.Accept(ctx, requester.ExternalID, invA.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != domain.InvitationStatusAccepted {
		t.Fatalf("status = %s, want ACCEPTED", accepted.Status)
	}
	if accepted.RespondedAt.IsZero() {
		t.Fatal("responded_at not set")
	}

	got, err := e.requests.GetByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if got.Status != domain.RequestStatusMatched {
		t.Fatalf("request status = %s, want MATCHED", got.Status)
	}

	p, err := e.participants.GetByTripAndRequest(ctx, tripA.ID, req.ID)
	if err != nil {
		t.Fatalf("participant: %v", err)
	}
	if p.SequenceOrder != 1 {
		t.Fatalf("sequence = %d, want 1", p.SequenceOrder)
	}

	// The competing offer from the other provider is retired.
	sibling, err := e.invitations.GetByID(ctx, invB.ID)
	if err != nil {
		t.Fatalf("get sibling: %v", err)
	}
	if sibling.Status != domain.InvitationStatusExpired {
		t.Fatalf("sibling status = %s, want EXPIRED", sibling.Status)
	}

	// A second accept is no longer possible in either direction.
	if _, err := e.invitationSvc.Accept(ctx, requester.ExternalID, invA.ID); err == nil {
		t.Fatal("second accept succeeded, want error")
	}
	if _, err := e.invitationSvc.Accept(ctx, requester.ExternalID, invB.ID); err == nil {
		t.Fatal("accept of expired sibling succeeded, want error")
	}

	if e.tx.Commits == 0 {
		t.Fatal("accept committed no transaction")
	}
}

func TestAcceptExpiredInvitation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	provider := e.seedProfile(t, "Kim Driver", domain.RoleMember)
	requester := e.seedProfile(t, "Lee Parent", domain.RoleMember)

	departure := time.Now().Add(3 * time.Hour)
	trip := e.seedTrip(t, provider, departure)
	req := e.seedRequest(t, requester, departure)
	inv := e.sendInvitation(t, provider, trip.ID, req.ID)

	stored, err := e.invitations.GetByID(ctx, inv.ID)
	if err != nil {
		t.Fatalf("get invitation: %v", err)
	}
	stored.ExpiresAt = time.Now().Add(-time.Minute)
	if err := e.invitations.Update(ctx, stored); err != nil {
		t.Fatalf("update invitation: %v", err)
	}

	_, err = e.invitationSvc.Accept(ctx, requester.ExternalID, inv.ID)
	if !errors.Is(err, service.ErrInvitationExpired) {
		t.Fatalf("err = %v, want ErrInvitationExpired", err)
	}

	// The read-time safety net persisted the transition.
	after, err := e.invitations.GetByID(ctx, inv.ID)
	if err != nil {
		t.Fatalf("get invitation: %v", err)
	}
	if after.Status != domain.InvitationStatusExpired {
		t.Fatalf("status = %s, want EXPIRED", after.Status)
	}
}

func TestAcceptAtCapacityLocksTrip(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	provider := e.seedProfile(t, "Kim Driver", domain.RoleMember)
	departure := time.Now().Add(3 * time.Hour)
	trip := e.seedTrip(t, provider, departure)

	// Two seats already taken, one pending offer about to take the
	// last seat, and one stray pending offer past capacity.
	for i := 0; i < 2; i++ {
		requester := e.seedProfile(t, "Parent", domain.RoleMember)
		req := e.seedRequest(t, requester, departure)
		seeded := &domain.Invitation{
			ID:              uuid.New().String(),
			TripID:          trip.ID,
			PickupRequestID: req.ID,
			ProviderID:      provider.ID,
			RequesterID:     requester.ID,
			Status:          domain.InvitationStatusAccepted,
			ExpiresAt:       departure,
			CreatedAt:       time.Now(),
		}
		if err := e.invitations.Create(ctx, seeded); err != nil {
			t.Fatalf("seed accepted invitation: %v", err)
		}
	}

	last := e.seedProfile(t, "Last Parent", domain.RoleMember)
	lastReq := e.seedRequest(t, last, departure)
	lastInv := &domain.Invitation{
		ID:              uuid.New().String(),
		TripID:          trip.ID,
		PickupRequestID: lastReq.ID,
		ProviderID:      provider.ID,
		RequesterID:     last.ID,
		Status:          domain.InvitationStatusPending,
		ExpiresAt:       time.Now().Add(domain.InvitationTTL),
		CreatedAt:       time.Now(),
	}
	if err := e.invitations.Create(ctx, lastInv); err != nil {
		t.Fatalf("seed pending invitation: %v", err)
	}

	stray := e.seedProfile(t, "Stray Parent", domain.RoleMember)
	strayReq := e.seedRequest(t, stray, departure)
	strayInv := &domain.Invitation{
		ID:              uuid.New().String(),
		TripID:          trip.ID,
		PickupRequestID: strayReq.ID,
		ProviderID:      provider.ID,
		RequesterID:     stray.ID,
		Status:          domain.InvitationStatusPending,
		ExpiresAt:       time.Now().Add(domain.InvitationTTL),
		CreatedAt:       time.Now(),
	}
	if err := e.invitations.Create(ctx, strayInv); err != nil {
		t.Fatalf("seed pending invitation: %v", err)
	}

	if _, err := e.invitationSvc.Accept(ctx, last.ExternalID, lastInv.ID); err != nil {
		t.Fatalf("accept last seat: %v", err)
	}

	lockedTrip, err := e.trips.GetByID(ctx, trip.ID)
	if err != nil {
		t.Fatalf("get trip: %v", err)
	}
	if lockedTrip.Status != domain.TripStatusLocked || !lockedTrip.IsLocked {
		t.Fatalf("trip = %s locked=%v, want LOCKED", lockedTrip.Status, lockedTrip.IsLocked)
	}

	after, err := e.invitations.GetByID(ctx, strayInv.ID)
	if err != nil {
		t.Fatalf("get stray: %v", err)
	}
	if after.Status != domain.InvitationStatusExpired {
		t.Fatalf("stray status = %s, want EXPIRED", after.Status)
	}

	// The stray requester cannot take a fourth seat.
	if _, err := e.invitationSvc.Accept(ctx, stray.ExternalID, strayInv.ID); err == nil {
		t.Fatal("accept past capacity succeeded, want error")
	}

	count, err := e.invitations.CountAcceptedByTrip(ctx, trip.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != domain.TripCapacity {
		t.Fatalf("accepted = %d, want %d", count, domain.TripCapacity)
	}
}

func TestListForRequestEnrichesProvider(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	provider := e.seedProfile(t, "Kim Driver", domain.RoleMember)
	requester := e.seedProfile(t, "Lee Parent", domain.RoleMember)
	e.directory.profiles[provider.ExternalID] = identity.PublicProfile{
		Name:     "Kim D.",
		PhotoURL: "https://cdn.example.com/kim.jpg",
	}

	departure := time.Now().Add(3 * time.Hour)
	trip := e.seedTrip(t, provider, departure)
	req := e.seedRequest(t, requester, departure)
	e.sendInvitation(t, provider, trip.ID, req.ID)

	rows, err := e.invitationSvc.ListForRequest(ctx, requester.ExternalID, req.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].ProviderName != "Kim D." {
		t.Fatalf("provider name = %q, want directory name", rows[0].ProviderName)
	}

	// A failing directory degrades to the stored name, not an error.
	e.directory.fail = true
	rows, err = e.invitationSvc.ListForRequest(ctx, requester.ExternalID, req.ID)
	if err != nil {
		t.Fatalf("list with failing directory: %v", err)
	}
	if rows[0].ProviderName != provider.Name {
		t.Fatalf("fallback name = %q, want %q", rows[0].ProviderName, provider.Name)
	}
}

func TestInvitationAddressGate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	provider := e.seedProfile(t, "Kim Driver", domain.RoleMember)
	requester := e.seedProfile(t, "Lee Parent", domain.RoleMember)

	departure := time.Now().Add(3 * time.Hour)
	trip := e.seedTrip(t, provider, departure)
	req := e.seedRequest(t, requester, departure)
	inv := e.sendInvitation(t, provider, trip.ID, req.ID)

	detail, err := e.invitationSvc.Get(ctx, provider.ExternalID, inv.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.Request.OriginText != "" || detail.Request.OriginLat != 0 {
		t.Fatal("exact origin leaked before accept")
	}
	if detail.Request.AreaLabel == "" {
		t.Fatal("coarse area missing")
	}

	if _, err := e.invitationSvc.Accept(ctx, requester.ExternalID, inv.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	detail, err = e.invitationSvc.Get(ctx, provider.ExternalID, inv.ID)
	if err != nil {
		t.Fatalf("get after accept: %v", err)
	}
	if detail.Request.OriginText == "" {
		t.Fatal("exact origin missing after accept")
	}

	// Only the invitation parties may look at all.
	outsider := e.seedProfile(t, "Outsider", domain.RoleMember)
	if _, err := e.invitationSvc.Get(ctx, outsider.ExternalID, inv.ID); !errors.Is(err, service.ErrNotAuthorized) {
		t.Fatalf("outsider err = %v, want ErrNotAuthorized", err)
	}
}
