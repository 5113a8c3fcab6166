package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pickup/internal/domain"
	"pickup/internal/repository"
)

const tripColumns = `id, provider_id, title, scheduled_at, status, is_locked, capacity,
		started_at, arrived_at, completed_at, is_test, created_at`

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (` + tripColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.ProviderID,
		trip.Title,
		trip.ScheduledAt,
		trip.Status,
		trip.IsLocked,
		trip.Capacity,
		nullTime(trip.StartedAt),
		nullTime(trip.ArrivedAt),
		nullTime(trip.CompletedAt),
		trip.IsTest,
		trip.CreatedAt,
	)

	return translateError(err)
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func scanTrip(scan func(...any) error) (*domain.Trip, error) {
	var trip domain.Trip
	var startedAt, arrivedAt, completedAt sql.NullTime

	err := scan(
		&trip.ID,
		&trip.ProviderID,
		&trip.Title,
		&trip.ScheduledAt,
		&trip.Status,
		&trip.IsLocked,
		&trip.Capacity,
		&startedAt,
		&arrivedAt,
		&completedAt,
		&trip.IsTest,
		&trip.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if startedAt.Valid {
		trip.StartedAt = startedAt.Time
	}
	if arrivedAt.Valid {
		trip.ArrivedAt = arrivedAt.Time
	}
	if completedAt.Valid {
		trip.CompletedAt = completedAt.Time
	}

	return &trip, nil
}

// GetByID retrieves a trip by id.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	row := r.q.QueryRowContext(ctx, query, id)
	trip, err := scanTrip(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return trip, nil
}

func (r *TripRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Trip, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows.Scan)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, rows.Err()
}

// ListByProvider retrieves a provider's trips, newest schedule first.
func (r *TripRepository) ListByProvider(ctx context.Context, providerID string, status domain.TripStatus, includeTest bool) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE provider_id = $1`
	args := []any{providerID}

	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	if !includeTest {
		query += ` AND is_test = FALSE`
	}
	query += ` ORDER BY scheduled_at DESC`

	return r.list(ctx, query, args...)
}

// ListExpireCandidates retrieves OPEN and LOCKED trips past their schedule.
func (r *TripRepository) ListExpireCandidates(ctx context.Context, now time.Time) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE status IN ($1, $2) AND scheduled_at <= $3`
	return r.list(ctx, query, domain.TripStatusOpen, domain.TripStatusLocked, now)
}

// ListLockCandidates retrieves OPEN trips scheduled at or before cutoff.
func (r *TripRepository) ListLockCandidates(ctx context.Context, cutoff time.Time) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE status = $1 AND scheduled_at <= $2`
	return r.list(ctx, query, domain.TripStatusOpen, cutoff)
}

// ListScheduledBetween retrieves trips scheduled in [from, to).
func (r *TripRepository) ListScheduledBetween(ctx context.Context, from, to time.Time, providerID string) ([]*domain.Trip, error) {
	if providerID != "" {
		query := `SELECT ` + tripColumns + ` FROM trips WHERE scheduled_at >= $1 AND scheduled_at < $2 AND provider_id = $3 ORDER BY scheduled_at ASC`
		return r.list(ctx, query, from, to, providerID)
	}
	query := `SELECT ` + tripColumns + ` FROM trips WHERE scheduled_at >= $1 AND scheduled_at < $2 ORDER BY scheduled_at ASC`
	return r.list(ctx, query, from, to)
}

// Update updates an existing trip.
func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	query := `
		UPDATE trips
		SET title = $1, scheduled_at = $2, status = $3, is_locked = $4, capacity = $5,
		    started_at = $6, arrived_at = $7, completed_at = $8, is_test = $9
		WHERE id = $10
	`

	result, err := r.q.ExecContext(ctx, query,
		trip.Title,
		trip.ScheduledAt,
		trip.Status,
		trip.IsLocked,
		trip.Capacity,
		nullTime(trip.StartedAt),
		nullTime(trip.ArrivedAt),
		nullTime(trip.CompletedAt),
		trip.IsTest,
		trip.ID,
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

// Count returns the total number of trips.
func (r *TripRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM trips`).Scan(&count)
	return count, err
}
