package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pickup/internal/domain"
	"pickup/internal/repository"
)

const participantColumns = `id, trip_id, pickup_request_id, requester_id, sequence_order, is_met_at_pickup, created_at`

// ParticipantRepository is a PostgreSQL implementation of
// repository.ParticipantRepository.
type ParticipantRepository struct {
	q Querier
}

// NewParticipantRepository creates a new PostgreSQL participant repository.
func NewParticipantRepository(db *sql.DB) *ParticipantRepository {
	return &ParticipantRepository{q: db}
}

// NewParticipantRepositoryWithTx creates a participant repository using a
// transaction.
func NewParticipantRepositoryWithTx(tx *sql.Tx) *ParticipantRepository {
	return &ParticipantRepository{q: tx}
}

// Create persists a new trip participant.
func (r *ParticipantRepository) Create(ctx context.Context, p *domain.TripParticipant) error {
	query := `
		INSERT INTO trip_participants (` + participantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		p.ID,
		p.TripID,
		p.PickupRequestID,
		p.RequesterID,
		p.SequenceOrder,
		p.IsMetAtPickup,
		p.CreatedAt,
	)

	return translateError(err)
}

func scanParticipant(scan func(...any) error) (*domain.TripParticipant, error) {
	var p domain.TripParticipant
	err := scan(
		&p.ID,
		&p.TripID,
		&p.PickupRequestID,
		&p.RequesterID,
		&p.SequenceOrder,
		&p.IsMetAtPickup,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByTripAndRequest retrieves the participant row for a trip and request.
func (r *ParticipantRepository) GetByTripAndRequest(ctx context.Context, tripID, requestID string) (*domain.TripParticipant, error) {
	query := `SELECT ` + participantColumns + ` FROM trip_participants WHERE trip_id = $1 AND pickup_request_id = $2`

	row := r.q.QueryRowContext(ctx, query, tripID, requestID)
	p, err := scanParticipant(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListByTrip retrieves a trip's participants in sequence order.
func (r *ParticipantRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.TripParticipant, error) {
	query := `SELECT ` + participantColumns + ` FROM trip_participants WHERE trip_id = $1 ORDER BY sequence_order ASC`

	rows, err := r.q.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []*domain.TripParticipant
	for rows.Next() {
		p, err := scanParticipant(rows.Scan)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// Update updates an existing participant row.
func (r *ParticipantRepository) Update(ctx context.Context, p *domain.TripParticipant) error {
	query := `
		UPDATE trip_participants
		SET sequence_order = $1, is_met_at_pickup = $2
		WHERE id = $3
	`

	result, err := r.q.ExecContext(ctx, query, p.SequenceOrder, p.IsMetAtPickup, p.ID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteByRequest removes the participant row for a pickup request.
func (r *ParticipantRepository) DeleteByRequest(ctx context.Context, requestID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM trip_participants WHERE pickup_request_id = $1`, requestID)
	return err
}
