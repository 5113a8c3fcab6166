package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"pickup/internal/domain"
	"pickup/internal/service"
)

// acceptRider puts a requester on the trip through the normal
// send-then-accept flow and returns the matched request.
func (e *env) acceptRider(t *testing.T, provider *domain.Profile, trip *domain.Trip, pickupAt time.Time) (*domain.Profile, *domain.PickupRequest) {
	t.Helper()
	requester := e.seedProfile(t, "Parent", domain.RoleMember)
	req := e.seedRequest(t, requester, pickupAt)
	inv := e.sendInvitation(t, provider, trip.ID, req.ID)
	if _, err := e.invitationSvc.Accept(context.Background(), requester.ExternalID, inv.ID); err != nil {
		t.Fatalf("accept invitation: %v", err)
	}
	return requester, req
}

func TestStartTrip(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	provider := e.seedProfile(t, "Kim Driver", domain.RoleMember)
	departure := time.Now().Add(3 * time.Hour)
	trip := e.seedTrip(t, provider, departure)
	_, req := e.acceptRider(t, provider, trip, departure)

	// A leftover offer to someone else should die when the trip departs.
	other := e.seedRequest(t, e.seedProfile(t, "Parent", domain.RoleMember), departure)
	leftover := e.sendInvitation(t, provider, trip.ID, other.ID)

	_, err := e.tripSvc.Start(ctx, provider.ExternalID, trip.ID)
	if !errors.Is(err, service.ErrNoConfirmedStudents) {
		t.Fatalf("start with nobody met err = %v, want ErrNoConfirmedStudents", err)
	}

	p, err := e.tripSvc.MarkMet(ctx, provider.ExternalID, trip.ID, req.ID)
	if err != nil {
		t.Fatalf("mark met: %v", err)
	}
	if !p.IsMetAtPickup {
		t.Fatal("participant not marked met")
	}

	started, err := e.tripSvc.Start(ctx, provider.ExternalID, trip.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Status != domain.TripStatusInProgress || !started.IsLocked {
		t.Fatalf("trip = %s locked=%v, want IN_PROGRESS locked", started.Status, started.IsLocked)
	}
	if started.StartedAt.IsZero() {
		t.Fatal("started_at not set")
	}

	got, err := e.requests.GetByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if got.Status != domain.RequestStatusInProgress || got.Progress != domain.ProgressStarted {
		t.Fatalf("request = %s/%s, want IN_PROGRESS/STARTED", got.Status, got.Progress)
	}

	inv, err := e.invitations.GetByID(ctx, leftover.ID)
	if err != nil {
		t.Fatalf("get leftover: %v", err)
	}
	if inv.Status != domain.InvitationStatusExpired {
		t.Fatalf("leftover invitation = %s, want EXPIRED", inv.Status)
	}

	// Starting twice is rejected.
	if _, err := e.tripSvc.Start(ctx, provider.ExternalID, trip.ID); !errors.Is(err, service.ErrTripAlreadyStarted) {
		t.Fatalf("second start err = %v, want ErrTripAlreadyStarted", err)
	}
}

func TestStartTripOwnerOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	provider := e.seedProfile(t, "Kim Driver", domain.RoleMember)
	stranger := e.seedProfile(t, "Other Driver", domain.RoleMember)
	trip := e.seedTrip(t, provider, time.Now().Add(3*time.Hour))

	if _, err := e.tripSvc.Start(ctx, stranger.ExternalID, trip.ID); !errors.Is(err, service.ErrNotAuthorized) {
		t.Fatalf("err = %v, want ErrNotAuthorized", err)
	}
}

func TestPickupThroughCompletion(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	provider := e.seedProfile(t, "Kim Driver", domain.RoleMember)
	departure := time.Now().Add(3 * time.Hour)
	trip := e.seedTrip(t, provider, departure)
	_, req := e.acceptRider(t, provider, trip, departure)

	if _, err := e.tripSvc.MarkMet(ctx, provider.ExternalID, trip.ID, req.ID); err != nil {
		t.Fatalf("mark met: %v", err)
	}
	if _, err := e.tripSvc.Start(ctx, provider.ExternalID, trip.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	picked, err := e.tripSvc.MarkPickedUp(ctx, provider.ExternalID, trip.ID, req.ID)
	if err != nil {
		t.Fatalf("mark picked up: %v", err)
	}
	if picked.Progress != domain.ProgressPickedUp || picked.PickedUpAt.IsZero() {
		t.Fatalf("progress = %s picked_up_at zero=%v", picked.Progress, picked.PickedUpAt.IsZero())
	}

	arrived, err := e.tripSvc.Arrive(ctx, provider.ExternalID, trip.ID)
	if err != nil {
		t.Fatalf("arrive: %v", err)
	}
	if arrived.Status != domain.TripStatusArrived || arrived.ArrivedAt.IsZero() {
		t.Fatalf("trip = %s, want ARRIVED with timestamp", arrived.Status)
	}
	got, err := e.requests.GetByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if got.Status != domain.RequestStatusArrived {
		t.Fatalf("request = %s, want ARRIVED", got.Status)
	}

	completed, err := e.tripSvc.Complete(ctx, provider.ExternalID, trip.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != domain.TripStatusCompleted || completed.CompletedAt.IsZero() {
		t.Fatalf("trip = %s, want COMPLETED with timestamp", completed.Status)
	}
	got, err = e.requests.GetByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if got.Status != domain.RequestStatusCompleted {
		t.Fatalf("request = %s, want COMPLETED", got.Status)
	}

	// Completion is final.
	if _, err := e.tripSvc.Complete(ctx, provider.ExternalID, trip.ID); err == nil {
		t.Fatal("second complete succeeded, want error")
	}
}

func TestCancelUnmetFreesSeat(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	provider := e.seedProfile(t, "Kim Driver", domain.RoleMember)
	departure := time.Now().Add(3 * time.Hour)
	trip := e.seedTrip(t, provider, departure)
	_, req := e.acceptRider(t, provider, trip, departure)

	cancelled, err := e.tripSvc.CancelUnmet(ctx, service.CancelUnmetInput{
		ExternalID: provider.ExternalID,
		TripID:     trip.ID,
		RequestIDs: []string{req.ID},
		Code:       domain.CancelCodeNoShow,
		Reason:     "not at the meeting point",
	})
	if err != nil {
		t.Fatalf("cancel unmet: %v", err)
	}
	if len(cancelled) != 1 {
		t.Fatalf("cancelled = %d, want 1", len(cancelled))
	}
	if cancelled[0].Status != domain.RequestStatusCancelled || cancelled[0].CancelCode != domain.CancelCodeNoShow {
		t.Fatalf("request = %s/%s, want CANCELLED/NO_SHOW", cancelled[0].Status, cancelled[0].CancelCode)
	}

	if _, err := e.participants.GetByTripAndRequest(ctx, trip.ID, req.ID); err == nil {
		t.Fatal("participant row survived cancel")
	}

	active, err := e.invitations.CountActiveByTrip(ctx, trip.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if active != 0 {
		t.Fatalf("active invitations = %d, want 0", active)
	}

	// The freed seat can go to someone else.
	replacement := e.seedRequest(t, e.seedProfile(t, "Parent", domain.RoleMember), departure)
	e.sendInvitation(t, provider, trip.ID, replacement.ID)
}

func TestCancelUnmetValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	provider := e.seedProfile(t, "Kim Driver", domain.RoleMember)
	departure := time.Now().Add(3 * time.Hour)
	trip := e.seedTrip(t, provider, departure)
	_, req := e.acceptRider(t, provider, trip, departure)

	_, err := e.tripSvc.CancelUnmet(ctx, service.CancelUnmetInput{
		ExternalID: provider.ExternalID,
		TripID:     trip.ID,
		RequestIDs: []string{req.ID},
		Code:       domain.CancelCode("LOST"),
	})
	if !errors.Is(err, service.ErrInvalidCancelCode) {
		t.Fatalf("err = %v, want ErrInvalidCancelCode", err)
	}

	outsideReq := e.seedRequest(t, e.seedProfile(t, "Parent", domain.RoleMember), departure)
	_, err = e.tripSvc.CancelUnmet(ctx, service.CancelUnmetInput{
		ExternalID: provider.ExternalID,
		TripID:     trip.ID,
		RequestIDs: []string{outsideReq.ID},
		Code:       domain.CancelCodeNoShow,
	})
	if !errors.Is(err, service.ErrNotParticipant) {
		t.Fatalf("err = %v, want ErrNotParticipant", err)
	}
	if e.tx.Rollbacks == 0 {
		t.Fatal("failed batch did not roll back")
	}
}

func TestSweepOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	provider := e.seedProfile(t, "Kim Driver", domain.RoleMember)
	requester := e.seedProfile(t, "Lee Parent", domain.RoleMember)

	overdue := &domain.Trip{
		ID:          uuid.New().String(),
		ProviderID:  provider.ID,
		Title:       "Missed run",
		ScheduledAt: time.Now().Add(-time.Hour),
		Status:      domain.TripStatusOpen,
		Capacity:    domain.TripCapacity,
		CreatedAt:   time.Now().Add(-2 * time.Hour),
	}
	if err := e.trips.Create(ctx, overdue); err != nil {
		t.Fatalf("seed trip: %v", err)
	}

	imminent := &domain.Trip{
		ID:          uuid.New().String(),
		ProviderID:  provider.ID,
		Title:       "About to leave",
		ScheduledAt: time.Now().Add(10 * time.Minute),
		Status:      domain.TripStatusOpen,
		Capacity:    domain.TripCapacity,
		CreatedAt:   time.Now(),
	}
	if err := e.trips.Create(ctx, imminent); err != nil {
		t.Fatalf("seed trip: %v", err)
	}

	staleReq := &domain.PickupRequest{
		ID:        uuid.New().String(),
		ProfileID: requester.ID,
		PickupAt:  time.Now().Add(-time.Hour),
		Status:    domain.RequestStatusRequested,
		AreaLabel: "Gangdong-gu",
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
	if err := e.requests.Create(ctx, staleReq); err != nil {
		t.Fatalf("seed request: %v", err)
	}

	staleInv := &domain.Invitation{
		ID:              uuid.New().String(),
		TripID:          imminent.ID,
		PickupRequestID: staleReq.ID,
		ProviderID:      provider.ID,
		RequesterID:     requester.ID,
		Status:          domain.InvitationStatusPending,
		ExpiresAt:       time.Now().Add(-time.Minute),
		CreatedAt:       time.Now().Add(-25 * time.Hour),
	}
	if err := e.invitations.Create(ctx, staleInv); err != nil {
		t.Fatalf("seed invitation: %v", err)
	}

	e.sweeper.SweepOnce(ctx)

	trip, err := e.trips.GetByID(ctx, overdue.ID)
	if err != nil {
		t.Fatalf("get trip: %v", err)
	}
	if trip.Status != domain.TripStatusExpired {
		t.Fatalf("overdue trip = %s, want EXPIRED", trip.Status)
	}

	trip, err = e.trips.GetByID(ctx, imminent.ID)
	if err != nil {
		t.Fatalf("get trip: %v", err)
	}
	if trip.Status != domain.TripStatusLocked || !trip.IsLocked {
		t.Fatalf("imminent trip = %s locked=%v, want LOCKED", trip.Status, trip.IsLocked)
	}

	req, err := e.requests.GetByID(ctx, staleReq.ID)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if req.Status != domain.RequestStatusExpired {
		t.Fatalf("stale request = %s, want EXPIRED", req.Status)
	}

	inv, err := e.invitations.GetByID(ctx, staleInv.ID)
	if err != nil {
		t.Fatalf("get invitation: %v", err)
	}
	if inv.Status != domain.InvitationStatusExpired {
		t.Fatalf("stale invitation = %s, want EXPIRED", inv.Status)
	}

	// A second pass finds nothing left to do.
	e.sweeper.SweepOnce(ctx)
}
