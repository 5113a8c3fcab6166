package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"pickup/internal/repository"
	"pickup/internal/service"
)

type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func respondSuccess(c *gin.Context, status int, data any) {
	c.JSON(status, successResponse{Success: true, Data: data})
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		message = "internal server error"
	}
	c.JSON(status, errorResponse{Success: false, Error: message})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorResponse{Success: false, Error: message})
}

// statusFor maps service and repository errors onto HTTP statuses:
// identity problems to 401, authorization to 403, missing rows to 404,
// bad input to 400, state and constraint conflicts to 409.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrAuthRequired),
		errors.Is(err, service.ErrProfileNotFound):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrNotAuthorized),
		errors.Is(err, service.ErrAdminOnly),
		errors.Is(err, service.ErrNotParticipant):
		return http.StatusForbidden

	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrInvalidPickupTime),
		errors.Is(err, service.ErrMissingOrigin),
		errors.Is(err, service.ErrMissingDestination),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrMissingTitle),
		errors.Is(err, service.ErrInvalidScheduledTime),
		errors.Is(err, service.ErrInvalidCancelCode),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidPeriod),
		errors.Is(err, service.ErrMissingDocumentURL):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrRequestNotCancellable),
		errors.Is(err, service.ErrRequestExpired),
		errors.Is(err, service.ErrRequestNotAvailable),
		errors.Is(err, service.ErrRequestAlreadyMatched),
		errors.Is(err, service.ErrTripExpired),
		errors.Is(err, service.ErrTripLocked),
		errors.Is(err, service.ErrTooCloseToDeparture),
		errors.Is(err, service.ErrDateMismatch),
		errors.Is(err, service.ErrDuplicateInvitation),
		errors.Is(err, service.ErrPendingLimit),
		errors.Is(err, service.ErrTripFull),
		errors.Is(err, service.ErrSlotLimit),
		errors.Is(err, service.ErrInvitationExpired),
		errors.Is(err, service.ErrInvitationNotPending),
		errors.Is(err, service.ErrTripAlreadyStarted),
		errors.Is(err, service.ErrNoConfirmedStudents),
		errors.Is(err, service.ErrTripNotInProgress),
		errors.Is(err, service.ErrTripNotArrived),
		errors.Is(err, service.ErrParticipantNotStarted),
		errors.Is(err, service.ErrTripBusy),
		errors.Is(err, service.ErrTripNotFinished),
		errors.Is(err, service.ErrAlreadyReviewed),
		errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
