// Package tests holds in-memory repository fakes and end-to-end service
// scenarios over them.
package tests

import (
	"context"
	"sort"
	"sync"
	"time"

	"pickup/internal/domain"
	"pickup/internal/repository"
)

// MockProfileRepository is an in-memory ProfileRepository.
type MockProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]domain.Profile
	Err      error
}

func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{profiles: make(map[string]domain.Profile)}
}

func (m *MockProfileRepository) Create(_ context.Context, profile *domain.Profile) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.ExternalID == profile.ExternalID {
			return repository.ErrDuplicate
		}
	}
	m.profiles[profile.ID] = *profile
	return nil
}

func (m *MockProfileRepository) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *MockProfileRepository) GetByExternalID(_ context.Context, externalID string) (*domain.Profile, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.profiles {
		if p.ExternalID == externalID {
			out := p
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockProfileRepository) Count(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.profiles), nil
}

func (m *MockProfileRepository) CountBySchool(context.Context) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]int)
	for _, p := range m.profiles {
		if p.SchoolName != "" {
			out[p.SchoolName]++
		}
	}
	return out, nil
}

// MockRequestRepository is an in-memory RequestRepository.
type MockRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]domain.PickupRequest
	Err      error
}

func NewMockRequestRepository() *MockRequestRepository {
	return &MockRequestRepository{requests: make(map[string]domain.PickupRequest)}
}

func (m *MockRequestRepository) Create(_ context.Context, req *domain.PickupRequest) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[req.ID]; ok {
		return repository.ErrDuplicate
	}
	m.requests[req.ID] = *req
	return nil
}

func (m *MockRequestRepository) GetByID(_ context.Context, id string) (*domain.PickupRequest, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (m *MockRequestRepository) ListByProfile(_ context.Context, profileID string, status domain.RequestStatus) ([]*domain.PickupRequest, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.PickupRequest
	for _, r := range m.requests {
		if r.ProfileID != profileID {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		row := r
		out = append(out, &row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockRequestRepository) ListByStatus(_ context.Context, status domain.RequestStatus) ([]*domain.PickupRequest, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.PickupRequest
	for _, r := range m.requests {
		if r.Status == status {
			row := r
			out = append(out, &row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PickupAt.Before(out[j].PickupAt) })
	return out, nil
}

func (m *MockRequestRepository) ListDueActive(_ context.Context, now time.Time) ([]*domain.PickupRequest, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.PickupRequest
	for _, r := range m.requests {
		if (r.Status == domain.RequestStatusRequested || r.Status == domain.RequestStatusMatched) && !r.PickupAt.After(now) {
			row := r
			out = append(out, &row)
		}
	}
	return out, nil
}

func (m *MockRequestRepository) ListPickupBetween(_ context.Context, from, to time.Time, profileID string) ([]*domain.PickupRequest, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.PickupRequest
	for _, r := range m.requests {
		if profileID != "" && r.ProfileID != profileID {
			continue
		}
		if r.PickupAt.Before(from) || !r.PickupAt.Before(to) {
			continue
		}
		row := r
		out = append(out, &row)
	}
	return out, nil
}

func (m *MockRequestRepository) Update(_ context.Context, req *domain.PickupRequest) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[req.ID]; !ok {
		return repository.ErrNotFound
	}
	m.requests[req.ID] = *req
	return nil
}

func (m *MockRequestRepository) UpdateStatusFrom(_ context.Context, id string, from, to domain.RequestStatus) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if r.Status != from {
		return false, nil
	}
	r.Status = to
	m.requests[id] = r
	return true, nil
}

func (m *MockRequestRepository) Count(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests), nil
}

// MockTripRepository is an in-memory TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]domain.Trip
	Err   error
}

func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{trips: make(map[string]domain.Trip)}
}

func (m *MockTripRepository) Create(_ context.Context, trip *domain.Trip) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[trip.ID]; ok {
		return repository.ErrDuplicate
	}
	m.trips[trip.ID] = *trip
	return nil
}

func (m *MockTripRepository) GetByID(_ context.Context, id string) (*domain.Trip, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (m *MockTripRepository) ListByProvider(_ context.Context, providerID string, status domain.TripStatus, includeTest bool) ([]*domain.Trip, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Trip
	for _, t := range m.trips {
		if t.ProviderID != providerID {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		if t.IsTest && !includeTest {
			continue
		}
		row := t
		out = append(out, &row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.After(out[j].ScheduledAt) })
	return out, nil
}

func (m *MockTripRepository) ListExpireCandidates(_ context.Context, now time.Time) ([]*domain.Trip, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Trip
	for _, t := range m.trips {
		if t.Status.Active() && !t.ScheduledAt.After(now) {
			row := t
			out = append(out, &row)
		}
	}
	return out, nil
}

func (m *MockTripRepository) ListLockCandidates(_ context.Context, cutoff time.Time) ([]*domain.Trip, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Trip
	for _, t := range m.trips {
		if t.Status == domain.TripStatusOpen && !t.ScheduledAt.After(cutoff) {
			row := t
			out = append(out, &row)
		}
	}
	return out, nil
}

func (m *MockTripRepository) ListScheduledBetween(_ context.Context, from, to time.Time, providerID string) ([]*domain.Trip, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Trip
	for _, t := range m.trips {
		if providerID != "" && t.ProviderID != providerID {
			continue
		}
		if t.ScheduledAt.Before(from) || !t.ScheduledAt.Before(to) {
			continue
		}
		row := t
		out = append(out, &row)
	}
	return out, nil
}

func (m *MockTripRepository) Update(_ context.Context, trip *domain.Trip) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[trip.ID]; !ok {
		return repository.ErrNotFound
	}
	m.trips[trip.ID] = *trip
	return nil
}

func (m *MockTripRepository) Count(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trips), nil
}

// MockInvitationRepository is an in-memory InvitationRepository.
type MockInvitationRepository struct {
	mu          sync.RWMutex
	invitations map[string]domain.Invitation
	pickupAt    func(requestID string) (time.Time, bool)
	Err         error
}

func NewMockInvitationRepository() *MockInvitationRepository {
	return &MockInvitationRepository{invitations: make(map[string]domain.Invitation)}
}

// BindRequests wires slot counting to the request store, which holds the
// pickup times.
func (m *MockInvitationRepository) BindRequests(requests *MockRequestRepository) {
	m.pickupAt = func(requestID string) (time.Time, bool) {
		req, err := requests.GetByID(context.Background(), requestID)
		if err != nil {
			return time.Time{}, false
		}
		return req.PickupAt, true
	}
}

func (m *MockInvitationRepository) Create(_ context.Context, inv *domain.Invitation) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.invitations {
		if existing.PickupRequestID == inv.PickupRequestID &&
			existing.ProviderID == inv.ProviderID &&
			existing.Status == domain.InvitationStatusPending {
			return repository.ErrDuplicate
		}
	}
	m.invitations[inv.ID] = *inv
	return nil
}

func (m *MockInvitationRepository) GetByID(_ context.Context, id string) (*domain.Invitation, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	inv, ok := m.invitations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &inv, nil
}

func (m *MockInvitationRepository) list(filter func(domain.Invitation) bool) []*domain.Invitation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Invitation
	for _, inv := range m.invitations {
		if filter(inv) {
			row := inv
			out = append(out, &row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *MockInvitationRepository) ListByTrip(_ context.Context, tripID string) ([]*domain.Invitation, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.list(func(inv domain.Invitation) bool { return inv.TripID == tripID }), nil
}

func (m *MockInvitationRepository) ListByRequest(_ context.Context, requestID string) ([]*domain.Invitation, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.list(func(inv domain.Invitation) bool { return inv.PickupRequestID == requestID }), nil
}

func (m *MockInvitationRepository) ListByProvider(_ context.Context, providerID string) ([]*domain.Invitation, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.list(func(inv domain.Invitation) bool { return inv.ProviderID == providerID }), nil
}

func (m *MockInvitationRepository) ListPendingByTrip(_ context.Context, tripID string) ([]*domain.Invitation, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.list(func(inv domain.Invitation) bool {
		return inv.TripID == tripID && inv.Status == domain.InvitationStatusPending
	}), nil
}

func (m *MockInvitationRepository) ListPendingByRequest(_ context.Context, requestID string) ([]*domain.Invitation, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.list(func(inv domain.Invitation) bool {
		return inv.PickupRequestID == requestID && inv.Status == domain.InvitationStatusPending
	}), nil
}

func (m *MockInvitationRepository) ListDuePending(_ context.Context, now time.Time) ([]*domain.Invitation, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.list(func(inv domain.Invitation) bool {
		return inv.Status == domain.InvitationStatusPending && !inv.ExpiresAt.After(now)
	}), nil
}

func (m *MockInvitationRepository) HasPendingForPair(_ context.Context, requestID, providerID string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, inv := range m.invitations {
		if inv.PickupRequestID == requestID && inv.ProviderID == providerID && inv.Status == domain.InvitationStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockInvitationRepository) PendingRequestIDs(_ context.Context, requestIDs []string) (map[string]bool, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	wanted := make(map[string]bool, len(requestIDs))
	for _, id := range requestIDs {
		wanted[id] = true
	}
	out := make(map[string]bool)
	for _, inv := range m.invitations {
		if inv.Status == domain.InvitationStatusPending && wanted[inv.PickupRequestID] {
			out[inv.PickupRequestID] = true
		}
	}
	return out, nil
}

func (m *MockInvitationRepository) CountPendingByProvider(_ context.Context, providerID string) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, inv := range m.invitations {
		if inv.ProviderID == providerID && inv.Status == domain.InvitationStatusPending {
			count++
		}
	}
	return count, nil
}

func (m *MockInvitationRepository) CountActiveByTrip(_ context.Context, tripID string) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, inv := range m.invitations {
		if inv.TripID == tripID && inv.Status.Active() {
			count++
		}
	}
	return count, nil
}

func (m *MockInvitationRepository) CountAcceptedByTrip(_ context.Context, tripID string) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, inv := range m.invitations {
		if inv.TripID == tripID && inv.Status == domain.InvitationStatusAccepted {
			count++
		}
	}
	return count, nil
}

// CountAcceptedInSlot needs the pickup times, which live on the request
// rows, so the mock is wired to a request repository.
func (m *MockInvitationRepository) CountAcceptedInSlot(_ context.Context, providerID string, slotStart, slotEnd time.Time) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, inv := range m.invitations {
		if inv.ProviderID != providerID || inv.Status != domain.InvitationStatusAccepted {
			continue
		}
		if m.pickupAt == nil {
			continue
		}
		at, ok := m.pickupAt(inv.PickupRequestID)
		if !ok || at.Before(slotStart) || !at.Before(slotEnd) {
			continue
		}
		count++
	}
	return count, nil
}

func (m *MockInvitationRepository) Update(_ context.Context, inv *domain.Invitation) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.invitations[inv.ID]; !ok {
		return repository.ErrNotFound
	}
	m.invitations[inv.ID] = *inv
	return nil
}

// MockParticipantRepository is an in-memory ParticipantRepository.
type MockParticipantRepository struct {
	mu           sync.RWMutex
	participants map[string]domain.TripParticipant
	Err          error
}

func NewMockParticipantRepository() *MockParticipantRepository {
	return &MockParticipantRepository{participants: make(map[string]domain.TripParticipant)}
}

func (m *MockParticipantRepository) Create(_ context.Context, p *domain.TripParticipant) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.participants {
		if existing.PickupRequestID == p.PickupRequestID {
			return repository.ErrDuplicate
		}
	}
	m.participants[p.ID] = *p
	return nil
}

func (m *MockParticipantRepository) GetByTripAndRequest(_ context.Context, tripID, requestID string) (*domain.TripParticipant, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.participants {
		if p.TripID == tripID && p.PickupRequestID == requestID {
			row := p
			return &row, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockParticipantRepository) ListByTrip(_ context.Context, tripID string) ([]*domain.TripParticipant, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.TripParticipant
	for _, p := range m.participants {
		if p.TripID == tripID {
			row := p
			out = append(out, &row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SequenceOrder < out[j].SequenceOrder })
	return out, nil
}

func (m *MockParticipantRepository) Update(_ context.Context, p *domain.TripParticipant) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.participants[p.ID]; !ok {
		return repository.ErrNotFound
	}
	m.participants[p.ID] = *p
	return nil
}

func (m *MockParticipantRepository) DeleteByRequest(_ context.Context, requestID string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.participants {
		if p.PickupRequestID == requestID {
			delete(m.participants, id)
		}
	}
	return nil
}

// MockReviewRepository is an in-memory ReviewRepository.
type MockReviewRepository struct {
	mu      sync.RWMutex
	reviews map[string]domain.TripReview
	Err     error
}

func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{reviews: make(map[string]domain.TripReview)}
}

func (m *MockReviewRepository) Create(_ context.Context, review *domain.TripReview) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.reviews {
		if existing.PickupRequestID == review.PickupRequestID {
			return repository.ErrDuplicate
		}
	}
	m.reviews[review.ID] = *review
	return nil
}

func (m *MockReviewRepository) ListByProvider(_ context.Context, providerID string) ([]*domain.TripReview, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.TripReview
	for _, r := range m.reviews {
		if r.ProviderID == providerID {
			row := r
			out = append(out, &row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// MockDocumentRepository is an in-memory DocumentRepository.
type MockDocumentRepository struct {
	mu        sync.RWMutex
	documents map[string]domain.ProviderDocument
	Err       error
}

func NewMockDocumentRepository() *MockDocumentRepository {
	return &MockDocumentRepository{documents: make(map[string]domain.ProviderDocument)}
}

func (m *MockDocumentRepository) Create(_ context.Context, doc *domain.ProviderDocument) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[doc.ID] = *doc
	return nil
}

func (m *MockDocumentRepository) GetByID(_ context.Context, id string) (*domain.ProviderDocument, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.documents[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &doc, nil
}

func (m *MockDocumentRepository) ListByProfile(_ context.Context, profileID string) ([]*domain.ProviderDocument, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.ProviderDocument
	for _, doc := range m.documents {
		if doc.ProfileID == profileID {
			row := doc
			out = append(out, &row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockDocumentRepository) Update(_ context.Context, doc *domain.ProviderDocument) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.documents[doc.ID]; !ok {
		return repository.ErrNotFound
	}
	m.documents[doc.ID] = *doc
	return nil
}

// MockAdminLogRepository records audit rows in memory.
type MockAdminLogRepository struct {
	mu      sync.Mutex
	Entries []domain.AdminLog
	Err     error
}

func NewMockAdminLogRepository() *MockAdminLogRepository {
	return &MockAdminLogRepository{}
}

func (m *MockAdminLogRepository) Create(_ context.Context, entry *domain.AdminLog) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, *entry)
	return nil
}

// MockTx satisfies repository.Tx over the same in-memory stores, so a
// "transaction" shares state with direct reads. Commit and rollback only
// count calls; atomicity itself is the database's job.
type MockTx struct {
	starter *MockTxStarter
}

func (t *MockTx) Requests() repository.RequestRepository         { return t.starter.RequestRepo }
func (t *MockTx) Trips() repository.TripRepository               { return t.starter.TripRepo }
func (t *MockTx) Invitations() repository.InvitationRepository   { return t.starter.InvitationRepo }
func (t *MockTx) Participants() repository.ParticipantRepository { return t.starter.ParticipantRepo }

func (t *MockTx) Commit() error {
	t.starter.mu.Lock()
	defer t.starter.mu.Unlock()
	t.starter.Commits++
	return t.starter.CommitErr
}

func (t *MockTx) Rollback() error {
	t.starter.mu.Lock()
	defer t.starter.mu.Unlock()
	t.starter.Rollbacks++
	return nil
}

// MockTxStarter hands out MockTx instances over the given repositories.
type MockTxStarter struct {
	RequestRepo     *MockRequestRepository
	TripRepo        *MockTripRepository
	InvitationRepo  *MockInvitationRepository
	ParticipantRepo *MockParticipantRepository

	mu        sync.Mutex
	BeginErr  error
	CommitErr error
	Commits   int
	Rollbacks int
}

func (s *MockTxStarter) Begin(context.Context) (repository.Tx, error) {
	if s.BeginErr != nil {
		return nil, s.BeginErr
	}
	return &MockTx{starter: s}, nil
}

// MockTripLock is an in-process TripLockInterface.
type MockTripLock struct {
	mu   sync.Mutex
	held map[string]bool
	Err  error
}

func NewMockTripLock() *MockTripLock {
	return &MockTripLock{held: make(map[string]bool)}
}

func (m *MockTripLock) AcquireTripLock(_ context.Context, tripID string, _ time.Duration) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[tripID] {
		return false, nil
	}
	m.held[tripID] = true
	return true, nil
}

func (m *MockTripLock) ReleaseTripLock(_ context.Context, tripID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, tripID)
	return nil
}
