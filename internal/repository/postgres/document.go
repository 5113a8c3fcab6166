package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pickup/internal/domain"
	"pickup/internal/repository"
)

const documentColumns = `id, profile_id, kind, url, status, reviewed_by, reviewed_at, created_at`

// DocumentRepository is a PostgreSQL implementation of
// repository.DocumentRepository.
type DocumentRepository struct {
	q Querier
}

// NewDocumentRepository creates a new PostgreSQL document repository.
func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{q: db}
}

// Create persists a new provider document.
func (r *DocumentRepository) Create(ctx context.Context, doc *domain.ProviderDocument) error {
	query := `
		INSERT INTO provider_documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var reviewedBy sql.NullString
	if doc.ReviewedBy != "" {
		reviewedBy = sql.NullString{String: doc.ReviewedBy, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		doc.ID,
		doc.ProfileID,
		doc.Kind,
		doc.URL,
		doc.Status,
		reviewedBy,
		nullTime(doc.ReviewedAt),
		doc.CreatedAt,
	)

	return translateError(err)
}

func scanDocument(scan func(...any) error) (*domain.ProviderDocument, error) {
	var doc domain.ProviderDocument
	var reviewedBy sql.NullString
	var reviewedAt sql.NullTime

	err := scan(
		&doc.ID,
		&doc.ProfileID,
		&doc.Kind,
		&doc.URL,
		&doc.Status,
		&reviewedBy,
		&reviewedAt,
		&doc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if reviewedBy.Valid {
		doc.ReviewedBy = reviewedBy.String
	}
	if reviewedAt.Valid {
		doc.ReviewedAt = reviewedAt.Time
	}

	return &doc, nil
}

// GetByID retrieves a document by id.
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.ProviderDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM provider_documents WHERE id = $1`

	row := r.q.QueryRowContext(ctx, query, id)
	doc, err := scanDocument(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// ListByProfile retrieves a profile's documents, newest first.
func (r *DocumentRepository) ListByProfile(ctx context.Context, profileID string) ([]*domain.ProviderDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM provider_documents WHERE profile_id = $1 ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.ProviderDocument
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Update updates an existing document.
func (r *DocumentRepository) Update(ctx context.Context, doc *domain.ProviderDocument) error {
	query := `
		UPDATE provider_documents
		SET status = $1, reviewed_by = $2, reviewed_at = $3
		WHERE id = $4
	`

	var reviewedBy sql.NullString
	if doc.ReviewedBy != "" {
		reviewedBy = sql.NullString{String: doc.ReviewedBy, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query,
		doc.Status,
		reviewedBy,
		nullTime(doc.ReviewedAt),
		doc.ID,
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

// AdminLogRepository is a PostgreSQL implementation of
// repository.AdminLogRepository.
type AdminLogRepository struct {
	q Querier
}

// NewAdminLogRepository creates a new PostgreSQL admin log repository.
func NewAdminLogRepository(db *sql.DB) *AdminLogRepository {
	return &AdminLogRepository{q: db}
}

// Create appends an audit row.
func (r *AdminLogRepository) Create(ctx context.Context, entry *domain.AdminLog) error {
	query := `
		INSERT INTO admin_logs (id, admin_id, action, target_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		entry.ID,
		entry.AdminID,
		entry.Action,
		entry.TargetID,
		entry.Details,
		entry.CreatedAt,
	)

	return err
}
