package domain

import "time"

// TripStatus represents the current status of a trip group.
type TripStatus string

const (
	TripStatusOpen       TripStatus = "OPEN"
	TripStatusLocked     TripStatus = "LOCKED"
	TripStatusInProgress TripStatus = "IN_PROGRESS"
	TripStatusArrived    TripStatus = "ARRIVED"
	TripStatusCompleted  TripStatus = "COMPLETED"
	TripStatusCancelled  TripStatus = "CANCELLED"
	TripStatusExpired    TripStatus = "EXPIRED"
)

const (
	// TripCapacity is the fixed seat count of a trip group.
	TripCapacity = 3

	// TripLockWindow is how long before the scheduled start a trip stops
	// taking new invitations.
	TripLockWindow = 30 * time.Minute
)

// Trip is a provider's offered ride group with a fixed seat capacity.
type Trip struct {
	ID          string
	ProviderID  string
	Title       string
	ScheduledAt time.Time
	Status      TripStatus
	IsLocked    bool
	Capacity    int
	StartedAt   time.Time
	ArrivedAt   time.Time
	CompletedAt time.Time
	IsTest      bool
	CreatedAt   time.Time
}

// Active reports whether the trip may still take or hold invitations.
func (s TripStatus) Active() bool {
	return s == TripStatusOpen || s == TripStatusLocked
}

// Terminal reports whether the trip can no longer change status.
func (s TripStatus) Terminal() bool {
	switch s {
	case TripStatusCompleted, TripStatusCancelled, TripStatusExpired:
		return true
	}
	return false
}

// ValidTripStatus reports whether s is a known trip status value.
func ValidTripStatus(s TripStatus) bool {
	switch s {
	case TripStatusOpen, TripStatusLocked, TripStatusInProgress,
		TripStatusArrived, TripStatusCompleted, TripStatusCancelled,
		TripStatusExpired:
		return true
	}
	return false
}

// TripParticipant materializes an accepted invitation as trip membership.
type TripParticipant struct {
	ID              string
	TripID          string
	PickupRequestID string
	RequesterID     string
	SequenceOrder   int
	IsMetAtPickup   bool
	CreatedAt       time.Time
}
