package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"pickup/internal/repository"
)

// Querier is the subset of *sql.DB and *sql.Tx used by repositories,
// letting the same implementation run standalone or inside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// translateError converts driver-level errors to repository sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return repository.ErrDuplicate
	}
	return err
}

// Tx implements repository.Tx over a *sql.Tx.
type Tx struct {
	tx *sql.Tx
}

// TxStarter implements repository.TxStarter over a *sql.DB.
type TxStarter struct {
	db *sql.DB
}

// NewTxStarter creates a transaction starter for the database.
func NewTxStarter(db *sql.DB) *TxStarter {
	return &TxStarter{db: db}
}

// Begin opens a new transaction.
func (s *TxStarter) Begin(ctx context.Context) (repository.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

func (t *Tx) Requests() repository.RequestRepository {
	return NewRequestRepositoryWithTx(t.tx)
}

func (t *Tx) Trips() repository.TripRepository {
	return NewTripRepositoryWithTx(t.tx)
}

func (t *Tx) Invitations() repository.InvitationRepository {
	return NewInvitationRepositoryWithTx(t.tx)
}

func (t *Tx) Participants() repository.ParticipantRepository {
	return NewParticipantRepositoryWithTx(t.tx)
}

func (t *Tx) Commit() error {
	return t.tx.Commit()
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

var _ repository.TxStarter = (*TxStarter)(nil)
