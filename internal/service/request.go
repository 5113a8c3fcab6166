package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"pickup/internal/broadcast"
	"pickup/internal/domain"
	"pickup/internal/observability"
	redisx "pickup/internal/redis"
	"pickup/internal/repository"
)

// RequestService handles the pickup-request lifecycle.
type RequestService struct {
	resolver     *ProfileResolver
	requests     repository.RequestRepository
	invitations  repository.InvitationRepository
	participants repository.ParticipantRepository
	tx           repository.TxStarter
	expiry       *Expiry
	views        redisx.ViewCacheInterface
	events       *broadcast.Broadcaster
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	resolver *ProfileResolver,
	requests repository.RequestRepository,
	invitations repository.InvitationRepository,
	participants repository.ParticipantRepository,
	tx repository.TxStarter,
	expiry *Expiry,
	views redisx.ViewCacheInterface,
	events *broadcast.Broadcaster,
) *RequestService {
	return &RequestService{
		resolver:     resolver,
		requests:     requests,
		invitations:  invitations,
		participants: participants,
		tx:           tx,
		expiry:       expiry,
		views:        views,
		events:       events,
	}
}

func (s *RequestService) invalidate(ctx context.Context, views ...string) {
	if s.views != nil {
		_ = s.views.Invalidate(ctx, views...)
	}
}

// CreateRequestInput contains the parameters for creating a pickup
// request.
type CreateRequestInput struct {
	ExternalID      string
	PickupAt        time.Time
	OriginText      string
	OriginLat       float64
	OriginLng       float64
	AreaLabel       string
	DestinationText string
	DestinationLat  float64
	DestinationLng  float64
	DestinationKind string
}

func isValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func isValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}

// coarseArea derives a rough area label from an exact address when the
// client did not supply one. Only the leading segment is kept so the
// provider feed never carries the precise address.
func coarseArea(originText string) string {
	if i := strings.IndexByte(originText, ','); i > 0 {
		return strings.TrimSpace(originText[:i])
	}
	return originText
}

// Create inserts a new pickup request in REQUESTED status.
func (s *RequestService) Create(ctx context.Context, in CreateRequestInput) (*domain.PickupRequest, error) {
	caller, err := s.resolver.Resolve(ctx, in.ExternalID)
	if err != nil {
		return nil, err
	}

	if in.PickupAt.IsZero() || !in.PickupAt.After(time.Now()) {
		return nil, ErrInvalidPickupTime
	}
	if strings.TrimSpace(in.OriginText) == "" {
		return nil, ErrMissingOrigin
	}
	if strings.TrimSpace(in.DestinationText) == "" {
		return nil, ErrMissingDestination
	}
	if !isValidLatitude(in.OriginLat) || !isValidLongitude(in.OriginLng) ||
		!isValidLatitude(in.DestinationLat) || !isValidLongitude(in.DestinationLng) {
		return nil, ErrInvalidLocation
	}

	area := strings.TrimSpace(in.AreaLabel)
	if area == "" {
		area = coarseArea(in.OriginText)
	}

	req := &domain.PickupRequest{
		ID:              uuid.New().String(),
		ProfileID:       caller.ID,
		PickupAt:        in.PickupAt,
		OriginText:      in.OriginText,
		OriginLat:       in.OriginLat,
		OriginLng:       in.OriginLng,
		AreaLabel:       area,
		DestinationText: in.DestinationText,
		DestinationLat:  in.DestinationLat,
		DestinationLng:  in.DestinationLng,
		DestinationKind: in.DestinationKind,
		Status:          domain.RequestStatusRequested,
		Progress:        domain.ProgressNone,
		CreatedAt:       time.Now(),
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	observability.RecordTransition("request", string(req.Status))
	s.invalidate(ctx, redisx.RequestsView(caller.ID), redisx.AvailableRequestsView)
	s.events.Publish(broadcast.EventRequestCreated, "request", req.ID, string(req.Status), caller.ID)

	return req, nil
}

// ListMine returns the caller's pickup requests, applying the expiry
// safety net to any row whose pickup time has passed.
func (s *RequestService) ListMine(ctx context.Context, externalID string, status domain.RequestStatus) ([]*domain.PickupRequest, error) {
	caller, err := s.resolver.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}

	reqs, err := s.requests.ListByProfile(ctx, caller.ID, status)
	if err != nil {
		return nil, err
	}

	for _, req := range reqs {
		if _, err := s.expiry.ExpireRequestIfDue(ctx, req); err != nil {
			return nil, err
		}
	}
	return reqs, nil
}

// Get returns one of the caller's pickup requests.
func (s *RequestService) Get(ctx context.Context, externalID, requestID string) (*domain.PickupRequest, error) {
	caller, err := s.resolver.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := requesterOn(req, caller); err != nil {
		return nil, err
	}

	if _, err := s.expiry.ExpireRequestIfDue(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// CancelRequestInput contains the parameters for cancelling a request.
type CancelRequestInput struct {
	ExternalID string
	RequestID  string
	Code       domain.CancelCode
	Reason     string
}

// Cancel cancels a pickup request. The status flip, retirement of its
// outstanding invitations, and removal of its participant row (freeing
// the trip seat) commit in one transaction.
func (s *RequestService) Cancel(ctx context.Context, in CancelRequestInput) (*domain.PickupRequest, error) {
	caller, err := s.resolver.Resolve(ctx, in.ExternalID)
	if err != nil {
		return nil, err
	}

	if !domain.ValidCancelCode(in.Code) {
		return nil, ErrInvalidCancelCode
	}

	req, err := s.requests.GetByID(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	if err := requesterOn(req, caller); err != nil {
		return nil, err
	}

	if _, err := s.expiry.ExpireRequestIfDue(ctx, req); err != nil {
		return nil, err
	}
	if err := CanCancelRequest(req); err != nil {
		return nil, err
	}

	tx, err := s.tx.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Conditional flip guards against a concurrent transition since the
	// read above.
	var changed bool
	changed, err = tx.Requests().UpdateStatusFrom(ctx, req.ID, req.Status, domain.RequestStatusCancelled)
	if err != nil {
		return nil, err
	}
	if !changed {
		err = ErrRequestNotCancellable
		return nil, err
	}

	req.Status = domain.RequestStatusCancelled
	req.CancelCode = in.Code
	req.CancelReason = in.Reason
	if err = tx.Requests().Update(ctx, req); err != nil {
		return nil, err
	}

	// Retiring the ACCEPTED invitation too is what actually frees the
	// trip seat, since capacity is counted from invitations.
	var invs []*domain.Invitation
	invs, err = tx.Invitations().ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	retired := invs[:0]
	for _, inv := range invs {
		if !inv.Status.Active() {
			continue
		}
		inv.Status = domain.InvitationStatusExpired
		if err = tx.Invitations().Update(ctx, inv); err != nil {
			return nil, err
		}
		retired = append(retired, inv)
	}

	if err = tx.Participants().DeleteByRequest(ctx, req.ID); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	observability.RecordTransition("request", string(req.Status))

	staled := []string{redisx.RequestsView(caller.ID), redisx.AvailableRequestsView, redisx.RequestInvitationsView(req.ID)}
	notify := []string{caller.ID}
	for _, inv := range retired {
		staled = append(staled, redisx.TripInvitationsView(inv.TripID))
		notify = append(notify, inv.ProviderID)
	}
	s.invalidate(ctx, staled...)
	s.events.Publish(broadcast.EventRequestUpdated, "request", req.ID, string(req.Status), notify...)

	return req, nil
}

// AvailableRequest is the provider-facing view of an open pickup request.
// Exact addresses and coordinates are withheld until an invitation is
// accepted.
type AvailableRequest struct {
	ID                   string    `json:"id"`
	PickupAt             time.Time `json:"pickup_at"`
	AreaLabel            string    `json:"area_label"`
	DestinationKind      string    `json:"destination_kind"`
	HasPendingInvitation bool      `json:"has_pending_invitation"`
}

// ListAvailable returns REQUESTED pickup requests for providers to browse,
// expiring stale rows first. Results are cached briefly under the shared
// available-requests view.
func (s *RequestService) ListAvailable(ctx context.Context, externalID string) ([]AvailableRequest, error) {
	if _, err := s.resolver.Resolve(ctx, externalID); err != nil {
		return nil, err
	}

	if s.views != nil {
		var cached []AvailableRequest
		if hit, err := s.views.GetJSON(ctx, redisx.AvailableRequestsView, &cached); err == nil && hit {
			return cached, nil
		}
	}

	reqs, err := s.requests.ListByStatus(ctx, domain.RequestStatusRequested)
	if err != nil {
		return nil, err
	}

	open := reqs[:0]
	ids := make([]string, 0, len(reqs))
	for _, req := range reqs {
		expired, err := s.expiry.ExpireRequestIfDue(ctx, req)
		if err != nil {
			return nil, err
		}
		if expired {
			continue
		}
		open = append(open, req)
		ids = append(ids, req.ID)
	}

	pendingIDs, err := s.invitations.PendingRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]AvailableRequest, 0, len(open))
	for _, req := range open {
		result = append(result, AvailableRequest{
			ID:                   req.ID,
			PickupAt:             req.PickupAt,
			AreaLabel:            req.AreaLabel,
			DestinationKind:      req.DestinationKind,
			HasPendingInvitation: pendingIDs[req.ID],
		})
	}

	if s.views != nil {
		_ = s.views.SetJSON(ctx, redisx.AvailableRequestsView, result, redisx.AvailableRequestsTTL)
	}

	return result, nil
}
