package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pickup/internal/domain"
	"pickup/internal/middleware"
	"pickup/internal/service"
)

// TripHandler exposes the provider trip endpoints.
type TripHandler struct {
	trips *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(trips *service.TripService) *TripHandler {
	return &TripHandler{trips: trips}
}

type createTripBody struct {
	Title       string    `json:"title"`
	ScheduledAt time.Time `json:"scheduled_at"`
	IsTest      bool      `json:"is_test"`
}

// Create handles POST /v1/trips.
func (h *TripHandler) Create(c *gin.Context) {
	var body createTripBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	trip, err := h.trips.Create(c.Request.Context(), service.CreateTripInput{
		ExternalID:  middleware.ExternalID(c),
		Title:       body.Title,
		ScheduledAt: body.ScheduledAt,
		IsTest:      body.IsTest,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, toTripJSON(trip))
}

// ListMine handles GET /v1/trips.
func (h *TripHandler) ListMine(c *gin.Context) {
	status := domain.TripStatus(c.Query("status"))
	includeTest := c.Query("include_test") == "true"

	trips, err := h.trips.ListMine(c.Request.Context(), middleware.ExternalID(c), status, includeTest)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, toTripListJSON(trips))
}

// Get handles GET /v1/trips/:id.
func (h *TripHandler) Get(c *gin.Context) {
	trip, err := h.trips.Get(c.Request.Context(), middleware.ExternalID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, toTripJSON(trip))
}

// Start handles POST /v1/trips/:id/start.
func (h *TripHandler) Start(c *gin.Context) {
	trip, err := h.trips.Start(c.Request.Context(), middleware.ExternalID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, toTripJSON(trip))
}

// Arrive handles POST /v1/trips/:id/arrive.
func (h *TripHandler) Arrive(c *gin.Context) {
	trip, err := h.trips.Arrive(c.Request.Context(), middleware.ExternalID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, toTripJSON(trip))
}

// Complete handles POST /v1/trips/:id/complete.
func (h *TripHandler) Complete(c *gin.Context) {
	trip, err := h.trips.Complete(c.Request.Context(), middleware.ExternalID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, toTripJSON(trip))
}

// MarkMet handles POST /v1/trips/:id/participants/:requestID/met.
func (h *TripHandler) MarkMet(c *gin.Context) {
	p, err := h.trips.MarkMet(c.Request.Context(), middleware.ExternalID(c), c.Param("id"), c.Param("requestID"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, toParticipantJSON(p))
}

// MarkPickedUp handles POST /v1/trips/:id/participants/:requestID/pickup.
func (h *TripHandler) MarkPickedUp(c *gin.Context) {
	req, err := h.trips.MarkPickedUp(c.Request.Context(), middleware.ExternalID(c), c.Param("id"), c.Param("requestID"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, toRequestJSON(req))
}

type cancelUnmetBody struct {
	RequestIDs []string `json:"request_ids"`
	Code       string   `json:"code"`
	Reason     string   `json:"reason"`
}

// CancelUnmet handles POST /v1/trips/:id/cancel-unmet.
func (h *TripHandler) CancelUnmet(c *gin.Context) {
	var body cancelUnmetBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	cancelled, err := h.trips.CancelUnmet(c.Request.Context(), service.CancelUnmetInput{
		ExternalID: middleware.ExternalID(c),
		TripID:     c.Param("id"),
		RequestIDs: body.RequestIDs,
		Code:       domain.CancelCode(body.Code),
		Reason:     body.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, toRequestListJSON(cancelled))
}
