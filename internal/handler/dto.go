package handler

import (
	"time"

	"pickup/internal/domain"
	"pickup/internal/service"
)

// JSON shapes returned by the API. Optional timestamps are pointers so an
// unset time is omitted instead of serialized as the zero instant.

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

type profileJSON struct {
	ID         string    `json:"id"`
	Role       string    `json:"role"`
	Name       string    `json:"name"`
	SchoolName string    `json:"school_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toProfileJSON(p *domain.Profile) profileJSON {
	return profileJSON{
		ID:         p.ID,
		Role:       string(p.Role),
		Name:       p.Name,
		SchoolName: p.SchoolName,
		CreatedAt:  p.CreatedAt,
	}
}

type requestJSON struct {
	ID              string     `json:"id"`
	ProfileID       string     `json:"profile_id"`
	PickupAt        time.Time  `json:"pickup_at"`
	OriginText      string     `json:"origin_text,omitempty"`
	OriginLat       float64    `json:"origin_lat,omitempty"`
	OriginLng       float64    `json:"origin_lng,omitempty"`
	AreaLabel       string     `json:"area_label"`
	DestinationText string     `json:"destination_text,omitempty"`
	DestinationLat  float64    `json:"destination_lat,omitempty"`
	DestinationLng  float64    `json:"destination_lng,omitempty"`
	DestinationKind string     `json:"destination_kind,omitempty"`
	Status          string     `json:"status"`
	Progress        string     `json:"progress"`
	CancelCode      string     `json:"cancel_code,omitempty"`
	CancelReason    string     `json:"cancel_reason,omitempty"`
	PickedUpAt      *time.Time `json:"picked_up_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toRequestJSON(r *domain.PickupRequest) requestJSON {
	return requestJSON{
		ID:              r.ID,
		ProfileID:       r.ProfileID,
		PickupAt:        r.PickupAt,
		OriginText:      r.OriginText,
		OriginLat:       r.OriginLat,
		OriginLng:       r.OriginLng,
		AreaLabel:       r.AreaLabel,
		DestinationText: r.DestinationText,
		DestinationLat:  r.DestinationLat,
		DestinationLng:  r.DestinationLng,
		DestinationKind: r.DestinationKind,
		Status:          string(r.Status),
		Progress:        string(r.Progress),
		CancelCode:      string(r.CancelCode),
		CancelReason:    r.CancelReason,
		PickedUpAt:      timePtr(r.PickedUpAt),
		CreatedAt:       r.CreatedAt,
	}
}

func toRequestListJSON(rs []*domain.PickupRequest) []requestJSON {
	out := make([]requestJSON, len(rs))
	for i, r := range rs {
		out[i] = toRequestJSON(r)
	}
	return out
}

type tripJSON struct {
	ID          string     `json:"id"`
	ProviderID  string     `json:"provider_id"`
	Title       string     `json:"title"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	Status      string     `json:"status"`
	IsLocked    bool       `json:"is_locked"`
	Capacity    int        `json:"capacity"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	ArrivedAt   *time.Time `json:"arrived_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	IsTest      bool       `json:"is_test"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toTripJSON(t *domain.Trip) tripJSON {
	return tripJSON{
		ID:          t.ID,
		ProviderID:  t.ProviderID,
		Title:       t.Title,
		ScheduledAt: t.ScheduledAt,
		Status:      string(t.Status),
		IsLocked:    t.IsLocked,
		Capacity:    t.Capacity,
		StartedAt:   timePtr(t.StartedAt),
		ArrivedAt:   timePtr(t.ArrivedAt),
		CompletedAt: timePtr(t.CompletedAt),
		IsTest:      t.IsTest,
		CreatedAt:   t.CreatedAt,
	}
}

func toTripListJSON(ts []*domain.Trip) []tripJSON {
	out := make([]tripJSON, len(ts))
	for i, t := range ts {
		out[i] = toTripJSON(t)
	}
	return out
}

type invitationJSON struct {
	ID              string     `json:"id"`
	TripID          string     `json:"trip_id"`
	PickupRequestID string     `json:"pickup_request_id"`
	ProviderID      string     `json:"provider_id"`
	RequesterID     string     `json:"requester_id"`
	Status          string     `json:"status"`
	ExpiresAt       time.Time  `json:"expires_at"`
	RespondedAt     *time.Time `json:"responded_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toInvitationJSON(inv *domain.Invitation) invitationJSON {
	return invitationJSON{
		ID:              inv.ID,
		TripID:          inv.TripID,
		PickupRequestID: inv.PickupRequestID,
		ProviderID:      inv.ProviderID,
		RequesterID:     inv.RequesterID,
		Status:          string(inv.Status),
		ExpiresAt:       inv.ExpiresAt,
		RespondedAt:     timePtr(inv.RespondedAt),
		CreatedAt:       inv.CreatedAt,
	}
}

func toInvitationListJSON(invs []*domain.Invitation) []invitationJSON {
	out := make([]invitationJSON, len(invs))
	for i, inv := range invs {
		out[i] = toInvitationJSON(inv)
	}
	return out
}

type participantJSON struct {
	ID              string    `json:"id"`
	TripID          string    `json:"trip_id"`
	PickupRequestID string    `json:"pickup_request_id"`
	RequesterID     string    `json:"requester_id"`
	SequenceOrder   int       `json:"sequence_order"`
	IsMetAtPickup   bool      `json:"is_met_at_pickup"`
	CreatedAt       time.Time `json:"created_at"`
}

func toParticipantJSON(p *domain.TripParticipant) participantJSON {
	return participantJSON{
		ID:              p.ID,
		TripID:          p.TripID,
		PickupRequestID: p.PickupRequestID,
		RequesterID:     p.RequesterID,
		SequenceOrder:   p.SequenceOrder,
		IsMetAtPickup:   p.IsMetAtPickup,
		CreatedAt:       p.CreatedAt,
	}
}

type reviewJSON struct {
	ID              string    `json:"id"`
	TripID          string    `json:"trip_id"`
	PickupRequestID string    `json:"pickup_request_id"`
	ReviewerID      string    `json:"reviewer_id"`
	ProviderID      string    `json:"provider_id"`
	Rating          int       `json:"rating"`
	Comment         string    `json:"comment,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func toReviewJSON(r *domain.TripReview) reviewJSON {
	return reviewJSON{
		ID:              r.ID,
		TripID:          r.TripID,
		PickupRequestID: r.PickupRequestID,
		ReviewerID:      r.ReviewerID,
		ProviderID:      r.ProviderID,
		Rating:          r.Rating,
		Comment:         r.Comment,
		CreatedAt:       r.CreatedAt,
	}
}

type documentJSON struct {
	ID         string     `json:"id"`
	ProfileID  string     `json:"profile_id"`
	Kind       string     `json:"kind"`
	URL        string     `json:"url"`
	Status     string     `json:"status"`
	ReviewedBy string     `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func toDocumentJSON(d *domain.ProviderDocument) documentJSON {
	return documentJSON{
		ID:         d.ID,
		ProfileID:  d.ProfileID,
		Kind:       d.Kind,
		URL:        d.URL,
		Status:     string(d.Status),
		ReviewedBy: d.ReviewedBy,
		ReviewedAt: timePtr(d.ReviewedAt),
		CreatedAt:  d.CreatedAt,
	}
}

type invitationWithProviderJSON struct {
	invitationJSON
	ProviderName     string `json:"provider_name,omitempty"`
	ProviderPhotoURL string `json:"provider_photo_url,omitempty"`
	ProviderBio      string `json:"provider_bio,omitempty"`
}

func toInvitationWithProviderJSON(row service.InvitationWithProvider) invitationWithProviderJSON {
	return invitationWithProviderJSON{
		invitationJSON:   toInvitationJSON(row.Invitation),
		ProviderName:     row.ProviderName,
		ProviderPhotoURL: row.ProviderPhotoURL,
		ProviderBio:      row.ProviderBio,
	}
}

type invitationDetailJSON struct {
	Invitation invitationJSON `json:"invitation"`
	Trip       tripJSON       `json:"trip"`
	Request    requestJSON    `json:"request"`
}

func toInvitationDetailJSON(d *service.InvitationDetail) invitationDetailJSON {
	return invitationDetailJSON{
		Invitation: toInvitationJSON(d.Invitation),
		Trip:       toTripJSON(d.Trip),
		Request:    toRequestJSON(d.Request),
	}
}
