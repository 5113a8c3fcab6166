package domain

import "time"

// InvitationStatus represents the current status of an invitation.
type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "PENDING"
	InvitationStatusAccepted InvitationStatus = "ACCEPTED"
	InvitationStatusRejected InvitationStatus = "REJECTED"
	InvitationStatusExpired  InvitationStatus = "EXPIRED"
)

const (
	// InvitationTTL is how long an invitation stays answerable.
	InvitationTTL = 24 * time.Hour

	// MaxPendingPerProvider caps a provider's simultaneous PENDING
	// invitations across all trips.
	MaxPendingPerProvider = 3

	// MaxAcceptedPerSlot caps a provider's ACCEPTED invitations whose
	// pickup times fall into the same time slot.
	MaxAcceptedPerSlot = 3
)

// Invitation is a provider's offer of one trip seat to one pickup request.
type Invitation struct {
	ID              string
	TripID          string
	PickupRequestID string
	ProviderID      string
	RequesterID     string
	Status          InvitationStatus
	ExpiresAt       time.Time
	RespondedAt     time.Time
	CreatedAt       time.Time
}

// Active reports whether the invitation counts against trip capacity.
func (s InvitationStatus) Active() bool {
	return s == InvitationStatusPending || s == InvitationStatusAccepted
}

// InvitationStatusRank fixes the display ordering of invitation lists:
// PENDING first, then ACCEPTED, REJECTED, EXPIRED.
func InvitationStatusRank(s InvitationStatus) int {
	switch s {
	case InvitationStatusPending:
		return 0
	case InvitationStatusAccepted:
		return 1
	case InvitationStatusRejected:
		return 2
	case InvitationStatusExpired:
		return 3
	}
	return 4
}
