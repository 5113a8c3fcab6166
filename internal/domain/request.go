package domain

import "time"

// RequestStatus represents the current status of a pickup request.
type RequestStatus string

const (
	RequestStatusRequested       RequestStatus = "REQUESTED"
	RequestStatusMatched         RequestStatus = "MATCHED"
	RequestStatusInProgress      RequestStatus = "IN_PROGRESS"
	RequestStatusArrived         RequestStatus = "ARRIVED"
	RequestStatusCompleted       RequestStatus = "COMPLETED"
	RequestStatusCancelled       RequestStatus = "CANCELLED"
	RequestStatusExpired         RequestStatus = "EXPIRED"
	RequestStatusCancelRequested RequestStatus = "CANCEL_REQUESTED"
)

// ProgressStage is the in-trip sub-stage of a matched pickup request.
type ProgressStage string

const (
	ProgressNone     ProgressStage = "NONE"
	ProgressStarted  ProgressStage = "STARTED"
	ProgressPickedUp ProgressStage = "PICKED_UP"
)

// CancelCode is the reason category attached to a cancellation.
type CancelCode string

const (
	CancelCodeCancel CancelCode = "CANCEL"
	CancelCodeNoShow CancelCode = "NO_SHOW"
)

// PickupRequest is a requester's ask for a ride at a given time and place.
type PickupRequest struct {
	ID              string
	ProfileID       string
	PickupAt        time.Time
	OriginText      string
	OriginLat       float64
	OriginLng       float64
	AreaLabel       string
	DestinationText string
	DestinationLat  float64
	DestinationLng  float64
	DestinationKind string
	Status          RequestStatus
	Progress        ProgressStage
	CancelCode      CancelCode
	CancelReason    string
	PickedUpAt      time.Time
	CreatedAt       time.Time
}

// Terminal reports whether the request can no longer change status.
func (s RequestStatus) Terminal() bool {
	switch s {
	case RequestStatusCompleted, RequestStatusCancelled, RequestStatusExpired:
		return true
	}
	return false
}

// Cancellable reports whether a cancel may be applied from this status.
func (s RequestStatus) Cancellable() bool {
	return s == RequestStatusRequested || s == RequestStatusMatched
}

// ValidCancelCode reports whether code is a known cancel reason category.
func ValidCancelCode(code CancelCode) bool {
	return code == CancelCodeCancel || code == CancelCodeNoShow
}
