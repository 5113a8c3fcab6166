package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"pickup/internal/domain"
	"pickup/internal/repository"
)

const invitationColumns = `id, trip_id, pickup_request_id, provider_id, requester_id, status, expires_at, responded_at, created_at`

// InvitationRepository is a PostgreSQL implementation of
// repository.InvitationRepository.
type InvitationRepository struct {
	q Querier
}

// NewInvitationRepository creates a new PostgreSQL invitation repository.
func NewInvitationRepository(db *sql.DB) *InvitationRepository {
	return &InvitationRepository{q: db}
}

// NewInvitationRepositoryWithTx creates an invitation repository using a
// transaction.
func NewInvitationRepositoryWithTx(tx *sql.Tx) *InvitationRepository {
	return &InvitationRepository{q: tx}
}

// Create persists a new invitation. A partial unique index on
// (pickup_request_id, provider_id) WHERE status = 'PENDING' backs the
// duplicate-pair rule.
func (r *InvitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO invitations (` + invitationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(ctx, query,
		inv.ID,
		inv.TripID,
		inv.PickupRequestID,
		inv.ProviderID,
		inv.RequesterID,
		inv.Status,
		inv.ExpiresAt,
		nullTime(inv.RespondedAt),
		inv.CreatedAt,
	)

	return translateError(err)
}

func scanInvitation(scan func(...any) error) (*domain.Invitation, error) {
	var inv domain.Invitation
	var respondedAt sql.NullTime

	err := scan(
		&inv.ID,
		&inv.TripID,
		&inv.PickupRequestID,
		&inv.ProviderID,
		&inv.RequesterID,
		&inv.Status,
		&inv.ExpiresAt,
		&respondedAt,
		&inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if respondedAt.Valid {
		inv.RespondedAt = respondedAt.Time
	}

	return &inv, nil
}

// GetByID retrieves an invitation by id.
func (r *InvitationRepository) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1`

	row := r.q.QueryRowContext(ctx, query, id)
	inv, err := scanInvitation(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *InvitationRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Invitation, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invs []*domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows.Scan)
		if err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}

// ListByTrip retrieves all invitations for a trip, newest first.
func (r *InvitationRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE trip_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, tripID)
}

// ListByRequest retrieves all invitations for a pickup request, newest
// first.
func (r *InvitationRepository) ListByRequest(ctx context.Context, requestID string) ([]*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE pickup_request_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, requestID)
}

// ListByProvider retrieves a provider's invitations, newest first.
func (r *InvitationRepository) ListByProvider(ctx context.Context, providerID string) ([]*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE provider_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, providerID)
}

// ListPendingByTrip retrieves a trip's PENDING invitations.
func (r *InvitationRepository) ListPendingByTrip(ctx context.Context, tripID string) ([]*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE trip_id = $1 AND status = $2`
	return r.list(ctx, query, tripID, domain.InvitationStatusPending)
}

// ListPendingByRequest retrieves a request's PENDING invitations.
func (r *InvitationRepository) ListPendingByRequest(ctx context.Context, requestID string) ([]*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE pickup_request_id = $1 AND status = $2`
	return r.list(ctx, query, requestID, domain.InvitationStatusPending)
}

// ListDuePending retrieves PENDING invitations past their expiry.
func (r *InvitationRepository) ListDuePending(ctx context.Context, now time.Time) ([]*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE status = $1 AND expires_at <= $2`
	return r.list(ctx, query, domain.InvitationStatusPending, now)
}

// HasPendingForPair reports whether a PENDING invitation already links the
// request and provider.
func (r *InvitationRepository) HasPendingForPair(ctx context.Context, requestID, providerID string) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM invitations WHERE pickup_request_id = $1 AND provider_id = $2 AND status = $3)`,
		requestID, providerID, domain.InvitationStatusPending,
	).Scan(&exists)
	return exists, err
}

// PendingRequestIDs filters requestIDs down to those holding a PENDING
// invitation.
func (r *InvitationRepository) PendingRequestIDs(ctx context.Context, requestIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(requestIDs) == 0 {
		return result, nil
	}

	rows, err := r.q.QueryContext(ctx,
		`SELECT DISTINCT pickup_request_id FROM invitations WHERE pickup_request_id = ANY($1) AND status = $2`,
		pq.Array(requestIDs), domain.InvitationStatusPending,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result[id] = true
	}
	return result, rows.Err()
}

func (r *InvitationRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// CountPendingByProvider counts a provider's PENDING invitations.
func (r *InvitationRepository) CountPendingByProvider(ctx context.Context, providerID string) (int, error) {
	return r.count(ctx,
		`SELECT COUNT(*) FROM invitations WHERE provider_id = $1 AND status = $2`,
		providerID, domain.InvitationStatusPending,
	)
}

// CountActiveByTrip counts a trip's PENDING plus ACCEPTED invitations.
func (r *InvitationRepository) CountActiveByTrip(ctx context.Context, tripID string) (int, error) {
	return r.count(ctx,
		`SELECT COUNT(*) FROM invitations WHERE trip_id = $1 AND status IN ($2, $3)`,
		tripID, domain.InvitationStatusPending, domain.InvitationStatusAccepted,
	)
}

// CountAcceptedByTrip counts a trip's ACCEPTED invitations.
func (r *InvitationRepository) CountAcceptedByTrip(ctx context.Context, tripID string) (int, error) {
	return r.count(ctx,
		`SELECT COUNT(*) FROM invitations WHERE trip_id = $1 AND status = $2`,
		tripID, domain.InvitationStatusAccepted,
	)
}

// CountAcceptedInSlot counts a provider's ACCEPTED invitations whose pickup
// times fall in [slotStart, slotEnd).
func (r *InvitationRepository) CountAcceptedInSlot(ctx context.Context, providerID string, slotStart, slotEnd time.Time) (int, error) {
	return r.count(ctx,
		`SELECT COUNT(*)
		 FROM invitations i
		 JOIN pickup_requests p ON p.id = i.pickup_request_id
		 WHERE i.provider_id = $1 AND i.status = $2 AND p.pickup_at >= $3 AND p.pickup_at < $4`,
		providerID, domain.InvitationStatusAccepted, slotStart, slotEnd,
	)
}

// Update updates an existing invitation.
func (r *InvitationRepository) Update(ctx context.Context, inv *domain.Invitation) error {
	query := `
		UPDATE invitations
		SET status = $1, expires_at = $2, responded_at = $3
		WHERE id = $4
	`

	result, err := r.q.ExecContext(ctx, query,
		inv.Status,
		inv.ExpiresAt,
		nullTime(inv.RespondedAt),
		inv.ID,
	)
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
