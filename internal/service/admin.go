package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"pickup/internal/broadcast"
	"pickup/internal/domain"
	"pickup/internal/observability"
	"pickup/internal/repository"
)

// AdminService exposes operator overrides. Every mutation appends an
// audit row; audit failures are logged, never surfaced.
type AdminService struct {
	resolver  *ProfileResolver
	profiles  repository.ProfileRepository
	requests  repository.RequestRepository
	trips     repository.TripRepository
	documents repository.DocumentRepository
	logs      repository.AdminLogRepository
	events    *broadcast.Broadcaster
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	resolver *ProfileResolver,
	profiles repository.ProfileRepository,
	requests repository.RequestRepository,
	trips repository.TripRepository,
	documents repository.DocumentRepository,
	logs repository.AdminLogRepository,
	events *broadcast.Broadcaster,
) *AdminService {
	return &AdminService{
		resolver:  resolver,
		profiles:  profiles,
		requests:  requests,
		trips:     trips,
		documents: documents,
		logs:      logs,
		events:    events,
	}
}

func (s *AdminService) audit(ctx context.Context, adminID, action, targetID, details string) {
	entry := &domain.AdminLog{
		ID:        uuid.New().String(),
		AdminID:   adminID,
		Action:    action,
		TargetID:  targetID,
		Details:   details,
		CreatedAt: time.Now(),
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		log.Printf("admin audit append failed: %v", err)
	}
}

// Stats is the admin dashboard's headline numbers.
type Stats struct {
	Profiles int            `json:"profiles"`
	Requests int            `json:"requests"`
	Trips    int            `json:"trips"`
	BySchool map[string]int `json:"by_school"`
}

// Stats returns platform totals and per-school profile counts.
func (s *AdminService) Stats(ctx context.Context, externalID string) (*Stats, error) {
	caller, err := s.resolver.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if err := adminOnly(caller); err != nil {
		return nil, err
	}

	profiles, err := s.profiles.Count(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := s.requests.Count(ctx)
	if err != nil {
		return nil, err
	}
	trips, err := s.trips.Count(ctx)
	if err != nil {
		return nil, err
	}
	bySchool, err := s.profiles.CountBySchool(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		Profiles: profiles,
		Requests: requests,
		Trips:    trips,
		BySchool: bySchool,
	}, nil
}

// ForceTripStatus sets a trip's status directly, bypassing lifecycle
// rules. Intended for operator cleanup of wedged trips.
func (s *AdminService) ForceTripStatus(ctx context.Context, externalID, tripID string, to domain.TripStatus) (*domain.Trip, error) {
	caller, err := s.resolver.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if err := adminOnly(caller); err != nil {
		return nil, err
	}
	if !domain.ValidTripStatus(to) {
		return nil, ErrInvalidStatus
	}

	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	from := trip.Status
	trip.Status = to
	trip.IsLocked = to != domain.TripStatusOpen
	if err := s.trips.Update(ctx, trip); err != nil {
		return nil, err
	}

	observability.RecordTransition("trip", string(to))
	s.audit(ctx, caller.ID, domain.AdminActionForceTripStatus, trip.ID, string(from)+" -> "+string(to))
	s.events.Publish(broadcast.EventTripUpdated, "trip", trip.ID, string(trip.Status), trip.ProviderID)

	return trip, nil
}

// ReviewDocument approves or rejects a provider credential.
func (s *AdminService) ReviewDocument(ctx context.Context, externalID, documentID string, approve bool) (*domain.ProviderDocument, error) {
	caller, err := s.resolver.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if err := adminOnly(caller); err != nil {
		return nil, err
	}

	doc, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	doc.Status = domain.DocumentStatusRejected
	if approve {
		doc.Status = domain.DocumentStatusApproved
	}
	doc.ReviewedBy = caller.ID
	doc.ReviewedAt = time.Now()
	if err := s.documents.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.audit(ctx, caller.ID, domain.AdminActionReviewDocument, doc.ID, string(doc.Status))
	return doc, nil
}
