package service

import "errors"

var (
	// ErrAuthRequired is returned when no caller identity is present.
	ErrAuthRequired = errors.New("authentication required")

	// ErrProfileNotFound is returned when the caller's identity has no
	// profile row.
	ErrProfileNotFound = errors.New("profile not found, please sign in again")

	// ErrNotAuthorized is returned when the caller is not the owning
	// party of the entity.
	ErrNotAuthorized = errors.New("not authorized for this resource")

	// ErrAdminOnly is returned when a non-admin calls an admin operation.
	ErrAdminOnly = errors.New("admin role required")

	// ErrInvalidPickupTime is returned when the pickup time is missing or
	// in the past.
	ErrInvalidPickupTime = errors.New("pickup time must be in the future")

	// ErrMissingOrigin is returned when origin text is empty.
	ErrMissingOrigin = errors.New("origin is required")

	// ErrMissingDestination is returned when destination text is empty.
	ErrMissingDestination = errors.New("destination is required")

	// ErrInvalidLocation is returned when coordinates are out of range.
	ErrInvalidLocation = errors.New("invalid location coordinates")

	// ErrMissingTitle is returned when a trip title is empty.
	ErrMissingTitle = errors.New("title is required")

	// ErrInvalidScheduledTime is returned when a trip's scheduled time is
	// missing or in the past.
	ErrInvalidScheduledTime = errors.New("scheduled time must be in the future")

	// ErrInvalidCancelCode is returned when the cancel reason category is
	// unknown.
	ErrInvalidCancelCode = errors.New("invalid cancel reason code")

	// ErrRequestNotCancellable is returned when a cancel is attempted
	// outside REQUESTED or MATCHED.
	ErrRequestNotCancellable = errors.New("request can no longer be cancelled")

	// ErrRequestExpired is returned when the pickup request's time has
	// passed.
	ErrRequestExpired = errors.New("pickup request has expired")

	// ErrRequestNotAvailable is returned when the request is not in
	// REQUESTED status.
	ErrRequestNotAvailable = errors.New("pickup request is not available")

	// ErrTripExpired is returned when the trip's scheduled time has
	// passed.
	ErrTripExpired = errors.New("trip has expired")

	// ErrTripLocked is returned when the trip no longer takes
	// invitations.
	ErrTripLocked = errors.New("trip is locked")

	// ErrTooCloseToDeparture is returned when fewer than 30 minutes
	// remain before the trip's scheduled start.
	ErrTooCloseToDeparture = errors.New("too close to departure to invite")

	// ErrDateMismatch is returned when the request's pickup date differs
	// from the trip's scheduled date.
	ErrDateMismatch = errors.New("request date does not match trip date")

	// ErrDuplicateInvitation is returned when a PENDING invitation
	// already links this request and provider.
	ErrDuplicateInvitation = errors.New("already have a pending invitation for this request")

	// ErrPendingLimit is returned when the provider already holds the
	// maximum number of PENDING invitations.
	ErrPendingLimit = errors.New("maximum 3 pending invitations")

	// ErrTripFull is returned when the trip's active invitation count has
	// reached capacity.
	ErrTripFull = errors.New("trip is full")

	// ErrSlotLimit is returned when the provider's accepted riders in the
	// pickup time slot have reached the cap.
	ErrSlotLimit = errors.New("maximum riders accepted for this time slot")

	// ErrInvitationExpired is returned when the invitation's expiry has
	// passed.
	ErrInvitationExpired = errors.New("invitation expired")

	// ErrInvitationNotPending is returned when answering an invitation
	// that is no longer PENDING.
	ErrInvitationNotPending = errors.New("invitation is not pending")

	// ErrRequestAlreadyMatched is returned when accepting an invitation
	// for a request that already joined a trip.
	ErrRequestAlreadyMatched = errors.New("request is already matched to a trip")

	// ErrTripAlreadyStarted is returned when starting a trip twice.
	ErrTripAlreadyStarted = errors.New("trip already started")

	// ErrNoConfirmedStudents is returned when starting a trip with no
	// participant confirmed at the pickup location.
	ErrNoConfirmedStudents = errors.New("no confirmed students")

	// ErrTripNotInProgress is returned when an in-trip operation is
	// attempted outside IN_PROGRESS.
	ErrTripNotInProgress = errors.New("trip is not in progress")

	// ErrTripNotArrived is returned when completing a trip that has not
	// arrived.
	ErrTripNotArrived = errors.New("trip has not arrived yet")

	// ErrParticipantNotStarted is returned when confirming a pickup for a
	// request not yet in the STARTED stage.
	ErrParticipantNotStarted = errors.New("pickup is not in the started stage")

	// ErrTripBusy is returned when the per-trip lock could not be
	// acquired.
	ErrTripBusy = errors.New("trip is being updated, try again")

	// ErrInvalidRating is returned when a review rating is out of range.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrNotParticipant is returned when reviewing a trip the caller did
	// not ride on.
	ErrNotParticipant = errors.New("not a participant of this trip")

	// ErrTripNotFinished is returned when reviewing a trip before it
	// arrived or completed.
	ErrTripNotFinished = errors.New("trip is not finished yet")

	// ErrAlreadyReviewed is returned on a second review for the same
	// pickup request.
	ErrAlreadyReviewed = errors.New("already reviewed this trip")

	// ErrInvalidStatus is returned when an admin force-set names an
	// unknown status.
	ErrInvalidStatus = errors.New("invalid status value")

	// ErrInvalidPeriod is returned when a report period is malformed.
	ErrInvalidPeriod = errors.New("invalid report period")

	// ErrMissingDocumentURL is returned when a document submission has no
	// file reference.
	ErrMissingDocumentURL = errors.New("document url is required")
)
