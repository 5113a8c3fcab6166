package repository

import "context"

// Tx bundles transaction-scoped repositories for the multi-row mutations
// (accept invitation, start trip, cancel request). All writes performed
// through it commit or roll back together.
type Tx interface {
	Requests() RequestRepository
	Trips() TripRepository
	Invitations() InvitationRepository
	Participants() ParticipantRepository

	Commit() error
	Rollback() error
}

// TxStarter opens transactions over the backing store.
type TxStarter interface {
	Begin(ctx context.Context) (Tx, error)
}
