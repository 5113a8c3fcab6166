package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pickup/internal/domain"
	"pickup/internal/repository"
)

const requestColumns = `id, profile_id, pickup_at, origin_text, origin_lat, origin_lng, area_label,
		destination_text, destination_lat, destination_lng, destination_kind,
		status, progress, cancel_code, cancel_reason, picked_up_at, created_at`

// RequestRepository is a PostgreSQL implementation of
// repository.RequestRepository.
type RequestRepository struct {
	q Querier
}

// NewRequestRepository creates a new PostgreSQL pickup request repository.
func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{q: db}
}

// NewRequestRepositoryWithTx creates a request repository using a transaction.
func NewRequestRepositoryWithTx(tx *sql.Tx) *RequestRepository {
	return &RequestRepository{q: tx}
}

// Create persists a new pickup request.
func (r *RequestRepository) Create(ctx context.Context, req *domain.PickupRequest) error {
	query := `
		INSERT INTO pickup_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	var cancelCode sql.NullString
	if req.CancelCode != "" {
		cancelCode = sql.NullString{String: string(req.CancelCode), Valid: true}
	}

	var cancelReason sql.NullString
	if req.CancelReason != "" {
		cancelReason = sql.NullString{String: req.CancelReason, Valid: true}
	}

	var pickedUpAt sql.NullTime
	if !req.PickedUpAt.IsZero() {
		pickedUpAt = sql.NullTime{Time: req.PickedUpAt, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		req.ID,
		req.ProfileID,
		req.PickupAt,
		req.OriginText,
		req.OriginLat,
		req.OriginLng,
		req.AreaLabel,
		req.DestinationText,
		req.DestinationLat,
		req.DestinationLng,
		req.DestinationKind,
		req.Status,
		req.Progress,
		cancelCode,
		cancelReason,
		pickedUpAt,
		req.CreatedAt,
	)

	return translateError(err)
}

func scanRequest(scan func(...any) error) (*domain.PickupRequest, error) {
	var req domain.PickupRequest
	var cancelCode sql.NullString
	var cancelReason sql.NullString
	var pickedUpAt sql.NullTime

	err := scan(
		&req.ID,
		&req.ProfileID,
		&req.PickupAt,
		&req.OriginText,
		&req.OriginLat,
		&req.OriginLng,
		&req.AreaLabel,
		&req.DestinationText,
		&req.DestinationLat,
		&req.DestinationLng,
		&req.DestinationKind,
		&req.Status,
		&req.Progress,
		&cancelCode,
		&cancelReason,
		&pickedUpAt,
		&req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cancelCode.Valid {
		req.CancelCode = domain.CancelCode(cancelCode.String)
	}
	if cancelReason.Valid {
		req.CancelReason = cancelReason.String
	}
	if pickedUpAt.Valid {
		req.PickedUpAt = pickedUpAt.Time
	}

	return &req, nil
}

// GetByID retrieves a pickup request by id.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*domain.PickupRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM pickup_requests WHERE id = $1`

	row := r.q.QueryRowContext(ctx, query, id)
	req, err := scanRequest(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *RequestRepository) list(ctx context.Context, query string, args ...any) ([]*domain.PickupRequest, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []*domain.PickupRequest
	for rows.Next() {
		req, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// ListByProfile retrieves a requester's pickup requests, newest first.
func (r *RequestRepository) ListByProfile(ctx context.Context, profileID string, status domain.RequestStatus) ([]*domain.PickupRequest, error) {
	if status != "" {
		query := `SELECT ` + requestColumns + ` FROM pickup_requests WHERE profile_id = $1 AND status = $2 ORDER BY created_at DESC`
		return r.list(ctx, query, profileID, status)
	}
	query := `SELECT ` + requestColumns + ` FROM pickup_requests WHERE profile_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, profileID)
}

// ListByStatus retrieves all requests in the given status, soonest pickup
// first.
func (r *RequestRepository) ListByStatus(ctx context.Context, status domain.RequestStatus) ([]*domain.PickupRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM pickup_requests WHERE status = $1 ORDER BY pickup_at ASC`
	return r.list(ctx, query, status)
}

// ListDueActive retrieves REQUESTED and MATCHED requests past their pickup
// time.
func (r *RequestRepository) ListDueActive(ctx context.Context, now time.Time) ([]*domain.PickupRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM pickup_requests WHERE status IN ($1, $2) AND pickup_at <= $3`
	return r.list(ctx, query, domain.RequestStatusRequested, domain.RequestStatusMatched, now)
}

// ListPickupBetween retrieves requests with pickup times in [from, to).
func (r *RequestRepository) ListPickupBetween(ctx context.Context, from, to time.Time, profileID string) ([]*domain.PickupRequest, error) {
	if profileID != "" {
		query := `SELECT ` + requestColumns + ` FROM pickup_requests WHERE pickup_at >= $1 AND pickup_at < $2 AND profile_id = $3 ORDER BY pickup_at ASC`
		return r.list(ctx, query, from, to, profileID)
	}
	query := `SELECT ` + requestColumns + ` FROM pickup_requests WHERE pickup_at >= $1 AND pickup_at < $2 ORDER BY pickup_at ASC`
	return r.list(ctx, query, from, to)
}

// Update updates an existing pickup request.
func (r *RequestRepository) Update(ctx context.Context, req *domain.PickupRequest) error {
	query := `
		UPDATE pickup_requests
		SET pickup_at = $1, origin_text = $2, origin_lat = $3, origin_lng = $4, area_label = $5,
		    destination_text = $6, destination_lat = $7, destination_lng = $8, destination_kind = $9,
		    status = $10, progress = $11, cancel_code = $12, cancel_reason = $13, picked_up_at = $14
		WHERE id = $15
	`

	var cancelCode sql.NullString
	if req.CancelCode != "" {
		cancelCode = sql.NullString{String: string(req.CancelCode), Valid: true}
	}

	var cancelReason sql.NullString
	if req.CancelReason != "" {
		cancelReason = sql.NullString{String: req.CancelReason, Valid: true}
	}

	var pickedUpAt sql.NullTime
	if !req.PickedUpAt.IsZero() {
		pickedUpAt = sql.NullTime{Time: req.PickedUpAt, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query,
		req.PickupAt,
		req.OriginText,
		req.OriginLat,
		req.OriginLng,
		req.AreaLabel,
		req.DestinationText,
		req.DestinationLat,
		req.DestinationLng,
		req.DestinationKind,
		req.Status,
		req.Progress,
		cancelCode,
		cancelReason,
		pickedUpAt,
		req.ID,
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

// UpdateStatusFrom flips the status only if it still equals from.
func (r *RequestRepository) UpdateStatusFrom(ctx context.Context, id string, from, to domain.RequestStatus) (bool, error) {
	result, err := r.q.ExecContext(ctx,
		`UPDATE pickup_requests SET status = $1 WHERE id = $2 AND status = $3`,
		to, id, from,
	)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

// Count returns the total number of pickup requests.
func (r *RequestRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM pickup_requests`).Scan(&count)
	return count, err
}
