package broadcast

import "time"

// Event is a row-change notification pushed to connected clients and the
// event stream. Delivery is best effort; consumers must not rely on it.
type Event struct {
	Type   string    `json:"type"`
	Entity string    `json:"entity"`
	ID     string    `json:"id"`
	Status string    `json:"status,omitempty"`
	At     time.Time `json:"at"`
}

// Event types.
const (
	EventRequestCreated    = "request.created"
	EventRequestUpdated    = "request.updated"
	EventTripCreated       = "trip.created"
	EventTripUpdated       = "trip.updated"
	EventInvitationCreated = "invitation.created"
	EventInvitationUpdated = "invitation.updated"
)
