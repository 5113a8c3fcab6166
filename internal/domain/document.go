package domain

import "time"

// DocumentStatus represents the review state of a provider document.
type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "PENDING"
	DocumentStatusApproved DocumentStatus = "APPROVED"
	DocumentStatusRejected DocumentStatus = "REJECTED"
)

// ProviderDocument is an uploaded credential referenced by URL only; the
// file contents live in external storage and are never interpreted here.
type ProviderDocument struct {
	ID         string
	ProfileID  string
	Kind       string
	URL        string
	Status     DocumentStatus
	ReviewedBy string
	ReviewedAt time.Time
	CreatedAt  time.Time
}
