package tests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"pickup/internal/domain"
	"pickup/internal/identity"
	"pickup/internal/service"
)

// env wires every service over the in-memory fakes, the way the server
// wires them over postgres and redis.
type env struct {
	profiles     *MockProfileRepository
	requests     *MockRequestRepository
	trips        *MockTripRepository
	invitations  *MockInvitationRepository
	participants *MockParticipantRepository
	reviews      *MockReviewRepository
	documents    *MockDocumentRepository
	adminLogs    *MockAdminLogRepository
	tx           *MockTxStarter
	locks        *MockTripLock
	directory    *stubDirectory

	expiry        *service.Expiry
	sweeper       *service.Sweeper
	profileSvc    *service.ProfileService
	requestSvc    *service.RequestService
	tripSvc       *service.TripService
	invitationSvc *service.InvitationService
	reviewSvc     *service.ReviewService
	reportSvc     *service.ReportService
	adminSvc      *service.AdminService
}

// stubDirectory answers public-profile lookups from a fixed map.
type stubDirectory struct {
	profiles map[string]identity.PublicProfile
	fail     bool
}

func (d *stubDirectory) PublicProfile(_ context.Context, externalID string) (*identity.PublicProfile, error) {
	if d.fail {
		return nil, context.DeadlineExceeded
	}
	if p, ok := d.profiles[externalID]; ok {
		out := p
		return &out, nil
	}
	return nil, context.DeadlineExceeded
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		profiles:     NewMockProfileRepository(),
		requests:     NewMockRequestRepository(),
		trips:        NewMockTripRepository(),
		invitations:  NewMockInvitationRepository(),
		participants: NewMockParticipantRepository(),
		reviews:      NewMockReviewRepository(),
		documents:    NewMockDocumentRepository(),
		adminLogs:    NewMockAdminLogRepository(),
		locks:        NewMockTripLock(),
		directory:    &stubDirectory{profiles: make(map[string]identity.PublicProfile)},
	}
	e.invitations.BindRequests(e.requests)
	e.tx = &MockTxStarter{
		RequestRepo:     e.requests,
		TripRepo:        e.trips,
		InvitationRepo:  e.invitations,
		ParticipantRepo: e.participants,
	}

	resolver := service.NewProfileResolver(e.profiles)
	e.expiry = service.NewExpiry(e.requests, e.trips, e.invitations)
	e.sweeper = service.NewSweeper(e.expiry, e.requests, e.trips, e.invitations, time.Minute)

	e.profileSvc = service.NewProfileService(resolver, e.profiles, e.documents)
	e.requestSvc = service.NewRequestService(resolver, e.requests, e.invitations, e.participants, e.tx, e.expiry, nil, nil)
	e.tripSvc = service.NewTripService(resolver, e.trips, e.requests, e.invitations, e.participants, e.tx, e.expiry, nil, nil)
	e.invitationSvc = service.NewInvitationService(resolver, e.profiles, e.invitations, e.trips, e.requests, e.participants, e.tx, e.locks, e.expiry, e.directory, nil, nil)
	e.reviewSvc = service.NewReviewService(resolver, e.reviews, e.trips, e.participants)
	e.reportSvc = service.NewReportService(resolver, e.requests, e.trips)
	e.adminSvc = service.NewAdminService(resolver, e.profiles, e.requests, e.trips, e.documents, e.adminLogs, nil)

	return e
}

func (e *env) seedProfile(t *testing.T, name string, role domain.Role) *domain.Profile {
	t.Helper()
	p := &domain.Profile{
		ID:         uuid.New().String(),
		ExternalID: "ext-" + uuid.New().String(),
		Role:       role,
		Name:       name,
		SchoolName: "Hanbit Elementary",
		CreatedAt:  time.Now(),
	}
	if err := e.profiles.Create(context.Background(), p); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return p
}

func (e *env) seedRequest(t *testing.T, owner *domain.Profile, pickupAt time.Time) *domain.PickupRequest {
	t.Helper()
	req, err := e.requestSvc.Create(context.Background(), service.CreateRequestInput{
		ExternalID:      owner.ExternalID,
		PickupAt:        pickupAt,
		OriginText:      "101 Dong, Haetbit Apartments, Gangdong-gu",
		OriginLat:       37.53,
		OriginLng:       127.12,
		AreaLabel:       "Gangdong-gu",
		DestinationText: "Hanbit Elementary School",
		DestinationLat:  37.54,
		DestinationLng:  127.14,
		DestinationKind: "school",
	})
	if err != nil {
		t.Fatalf("seed request: %v", err)
	}
	return req
}

func (e *env) seedTrip(t *testing.T, owner *domain.Profile, scheduledAt time.Time) *domain.Trip {
	t.Helper()
	trip, err := e.tripSvc.Create(context.Background(), service.CreateTripInput{
		ExternalID:  owner.ExternalID,
		Title:       "Morning school run",
		ScheduledAt: scheduledAt,
	})
	if err != nil {
		t.Fatalf("seed trip: %v", err)
	}
	return trip
}

func (e *env) sendInvitation(t *testing.T, provider *domain.Profile, tripID, requestID string) *domain.Invitation {
	t.Helper()
	inv, err := e.invitationSvc.Send(context.Background(), service.SendInvitationInput{
		ExternalID: provider.ExternalID,
		TripID:     tripID,
		RequestID:  requestID,
	})
	if err != nil {
		t.Fatalf("send invitation: %v", err)
	}
	return inv
}
