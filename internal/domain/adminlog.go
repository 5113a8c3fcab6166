package domain

import "time"

// AdminLog is an append-only audit row recorded for every admin mutation.
type AdminLog struct {
	ID        string
	AdminID   string
	Action    string
	TargetID  string
	Details   string
	CreatedAt time.Time
}

// Admin action names recorded in the audit log.
const (
	AdminActionForceTripStatus = "FORCE_TRIP_STATUS"
	AdminActionReviewDocument  = "REVIEW_DOCUMENT"
)
