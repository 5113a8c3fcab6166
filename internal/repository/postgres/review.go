package postgres

import (
	"context"
	"database/sql"

	"pickup/internal/domain"
)

// ReviewRepository is a PostgreSQL implementation of
// repository.ReviewRepository.
type ReviewRepository struct {
	q Querier
}

// NewReviewRepository creates a new PostgreSQL review repository.
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{q: db}
}

// Create persists a new review. A unique index on pickup_request_id backs
// the one-review-per-request rule.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.TripReview) error {
	query := `
		INSERT INTO trip_reviews (id, trip_id, pickup_request_id, reviewer_id, provider_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		review.ID,
		review.TripID,
		review.PickupRequestID,
		review.ReviewerID,
		review.ProviderID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	)

	return translateError(err)
}

// ListByProvider retrieves the reviews of a provider's trips, newest first.
func (r *ReviewRepository) ListByProvider(ctx context.Context, providerID string) ([]*domain.TripReview, error) {
	query := `
		SELECT id, trip_id, pickup_request_id, reviewer_id, provider_id, rating, comment, created_at
		FROM trip_reviews WHERE provider_id = $1 ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*domain.TripReview
	for rows.Next() {
		var review domain.TripReview
		if err := rows.Scan(
			&review.ID,
			&review.TripID,
			&review.PickupRequestID,
			&review.ReviewerID,
			&review.ProviderID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, &review)
	}
	return reviews, rows.Err()
}
