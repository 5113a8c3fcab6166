package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"pickup/internal/domain"
	"pickup/internal/repository"
)

// ReviewService handles post-trip ratings.
type ReviewService struct {
	resolver     *ProfileResolver
	reviews      repository.ReviewRepository
	trips        repository.TripRepository
	participants repository.ParticipantRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	resolver *ProfileResolver,
	reviews repository.ReviewRepository,
	trips repository.TripRepository,
	participants repository.ParticipantRepository,
) *ReviewService {
	return &ReviewService{
		resolver:     resolver,
		reviews:      reviews,
		trips:        trips,
		participants: participants,
	}
}

// CreateReviewInput contains the parameters for reviewing a trip.
type CreateReviewInput struct {
	ExternalID string
	TripID     string
	Rating     int
	Comment    string
}

// Create records a requester's one-time rating of a trip they rode on.
func (s *ReviewService) Create(ctx context.Context, in CreateReviewInput) (*domain.TripReview, error) {
	caller, err := s.resolver.Resolve(ctx, in.ExternalID)
	if err != nil {
		return nil, err
	}

	trip, err := s.trips.GetByID(ctx, in.TripID)
	if err != nil {
		return nil, err
	}
	if err := CanReview(trip, in.Rating); err != nil {
		return nil, err
	}

	parts, err := s.participants.ListByTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	var mine *domain.TripParticipant
	for _, p := range parts {
		if p.RequesterID == caller.ID {
			mine = p
			break
		}
	}
	if mine == nil {
		return nil, ErrNotParticipant
	}

	review := &domain.TripReview{
		ID:              uuid.New().String(),
		TripID:          trip.ID,
		PickupRequestID: mine.PickupRequestID,
		ReviewerID:      caller.ID,
		ProviderID:      trip.ProviderID,
		Rating:          in.Rating,
		Comment:         in.Comment,
		CreatedAt:       time.Now(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}
	return review, nil
}

// ListForProvider returns a provider's received reviews. The list is
// public, so no ownership check applies.
func (s *ReviewService) ListForProvider(ctx context.Context, providerID string) ([]*domain.TripReview, error) {
	return s.reviews.ListByProvider(ctx, providerID)
}
