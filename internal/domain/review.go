package domain

import "time"

// TripReview is a requester's one-time rating of a completed trip.
type TripReview struct {
	ID              string
	TripID          string
	PickupRequestID string
	ReviewerID      string
	ProviderID      string
	Rating          int
	Comment         string
	CreatedAt       time.Time
}

// ValidRating reports whether rating is within the accepted 1..5 range.
func ValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}
