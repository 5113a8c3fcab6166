package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pickup/internal/domain"
	"pickup/internal/repository"
)

// ProfileRepository is a PostgreSQL implementation of
// repository.ProfileRepository.
type ProfileRepository struct {
	q Querier
}

// NewProfileRepository creates a new PostgreSQL profile repository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{q: db}
}

// Create persists a new profile.
func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (id, external_id, role, name, school_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		profile.ID,
		profile.ExternalID,
		profile.Role,
		profile.Name,
		profile.SchoolName,
		profile.CreatedAt,
	)

	return translateError(err)
}

// GetByID retrieves a profile by internal id.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	return r.get(ctx, `SELECT id, external_id, role, name, school_name, created_at FROM profiles WHERE id = $1`, id)
}

// GetByExternalID retrieves a profile by its external identity reference.
func (r *ProfileRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.Profile, error) {
	return r.get(ctx, `SELECT id, external_id, role, name, school_name, created_at FROM profiles WHERE external_id = $1`, externalID)
}

func (r *ProfileRepository) get(ctx context.Context, query, arg string) (*domain.Profile, error) {
	var profile domain.Profile

	err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&profile.ID,
		&profile.ExternalID,
		&profile.Role,
		&profile.Name,
		&profile.SchoolName,
		&profile.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &profile, nil
}

// Count returns the total number of profiles.
func (r *ProfileRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	return count, err
}

// CountBySchool returns profile counts grouped by school name.
func (r *ProfileRepository) CountBySchool(ctx context.Context) (map[string]int, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT school_name, COUNT(*) FROM profiles GROUP BY school_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var school string
		var count int
		if err := rows.Scan(&school, &count); err != nil {
			return nil, err
		}
		counts[school] = count
	}
	return counts, rows.Err()
}
