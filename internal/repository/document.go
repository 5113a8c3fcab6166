package repository

import (
	"context"

	"pickup/internal/domain"
)

// DocumentRepository defines the persistence operations for provider
// documents.
type DocumentRepository interface {
	// Create persists a new provider document.
	Create(ctx context.Context, doc *domain.ProviderDocument) error

	// GetByID retrieves a document by id.
	GetByID(ctx context.Context, id string) (*domain.ProviderDocument, error)

	// ListByProfile retrieves a profile's documents, newest first.
	ListByProfile(ctx context.Context, profileID string) ([]*domain.ProviderDocument, error)

	// Update updates an existing document.
	Update(ctx context.Context, doc *domain.ProviderDocument) error
}

// AdminLogRepository appends audit rows for admin actions.
type AdminLogRepository interface {
	// Create appends an audit row.
	Create(ctx context.Context, entry *domain.AdminLog) error
}
