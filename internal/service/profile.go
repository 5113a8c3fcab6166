package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pickup/internal/domain"
	"pickup/internal/repository"
)

// ProfileResolver maps an authenticated caller's external identity to the
// internal profile row. Every operation resolves the caller first and
// aborts if no profile exists; resolution is never retried.
type ProfileResolver struct {
	profiles repository.ProfileRepository
}

// NewProfileResolver creates a resolver over the profile repository.
func NewProfileResolver(profiles repository.ProfileRepository) *ProfileResolver {
	return &ProfileResolver{profiles: profiles}
}

// Resolve returns the caller's profile row.
func (r *ProfileResolver) Resolve(ctx context.Context, externalID string) (*domain.Profile, error) {
	if externalID == "" {
		return nil, ErrAuthRequired
	}

	profile, err := r.profiles.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// ProfileService handles registration and profile reads.
type ProfileService struct {
	resolver  *ProfileResolver
	profiles  repository.ProfileRepository
	documents repository.DocumentRepository
}

// NewProfileService creates a new ProfileService.
func NewProfileService(
	resolver *ProfileResolver,
	profiles repository.ProfileRepository,
	documents repository.DocumentRepository,
) *ProfileService {
	return &ProfileService{
		resolver:  resolver,
		profiles:  profiles,
		documents: documents,
	}
}

// RegisterRequest contains the parameters for first-sign-in registration.
type RegisterRequest struct {
	ExternalID string
	Name       string
	SchoolName string
}

// Register creates the caller's profile on first sign-in. Registering an
// already-known identity returns the existing profile.
func (s *ProfileService) Register(ctx context.Context, req RegisterRequest) (*domain.Profile, error) {
	if req.ExternalID == "" {
		return nil, ErrAuthRequired
	}

	existing, err := s.profiles.GetByExternalID(ctx, req.ExternalID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	profile := &domain.Profile{
		ID:         uuid.New().String(),
		ExternalID: req.ExternalID,
		Role:       domain.RoleMember,
		Name:       strings.TrimSpace(req.Name),
		SchoolName: strings.TrimSpace(req.SchoolName),
		CreatedAt:  time.Now(),
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Concurrent first sign-in; the row exists now.
			return s.profiles.GetByExternalID(ctx, req.ExternalID)
		}
		return nil, err
	}

	return profile, nil
}

// Me returns the caller's own profile.
func (s *ProfileService) Me(ctx context.Context, externalID string) (*domain.Profile, error) {
	return s.resolver.Resolve(ctx, externalID)
}

// SubmitDocumentRequest contains the parameters for a document submission.
type SubmitDocumentRequest struct {
	ExternalID string
	Kind       string
	URL        string
}

// SubmitDocument records a provider credential by opaque URL; the file
// itself lives in external storage.
func (s *ProfileService) SubmitDocument(ctx context.Context, req SubmitDocumentRequest) (*domain.ProviderDocument, error) {
	caller, err := s.resolver.Resolve(ctx, req.ExternalID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.URL) == "" {
		return nil, ErrMissingDocumentURL
	}

	doc := &domain.ProviderDocument{
		ID:        uuid.New().String(),
		ProfileID: caller.ID,
		Kind:      req.Kind,
		URL:       req.URL,
		Status:    domain.DocumentStatusPending,
		CreatedAt: time.Now(),
	}

	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// MyDocuments returns the caller's submitted documents.
func (s *ProfileService) MyDocuments(ctx context.Context, externalID string) ([]*domain.ProviderDocument, error) {
	caller, err := s.resolver.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}
	return s.documents.ListByProfile(ctx, caller.ID)
}
