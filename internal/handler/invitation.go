package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pickup/internal/middleware"
	"pickup/internal/service"
)

// InvitationHandler exposes the invitation broker endpoints.
type InvitationHandler struct {
	invitations *service.InvitationService
}

// NewInvitationHandler creates a new InvitationHandler.
func NewInvitationHandler(invitations *service.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitations: invitations}
}

type sendInvitationBody struct {
	TripID    string `json:"trip_id"`
	RequestID string `json:"request_id"`
}

// Send handles POST /v1/invitations.
func (h *InvitationHandler) Send(c *gin.Context) {
	var body sendInvitationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if body.TripID == "" || body.RequestID == "" {
		respondBadRequest(c, "trip_id and request_id are required")
		return
	}

	inv, err := h.invitations.Send(c.Request.Context(), service.SendInvitationInput{
		ExternalID: middleware.ExternalID(c),
		TripID:     body.TripID,
		RequestID:  body.RequestID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, toInvitationJSON(inv))
}

// ListMine handles GET /v1/invitations.
func (h *InvitationHandler) ListMine(c *gin.Context) {
	rows, err := h.invitations.ListMine(c.Request.Context(), middleware.ExternalID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]gin.H, len(rows))
	for i, row := range rows {
		out[i] = gin.H{
			"invitation": toInvitationJSON(row.Invitation),
			"trip":       toTripJSON(row.Trip),
			"request":    toRequestJSON(row.Request),
		}
	}
	respondSuccess(c, http.StatusOK, out)
}

// ListForTrip handles GET /v1/invitations/trip/:tripID.
func (h *InvitationHandler) ListForTrip(c *gin.Context) {
	invs, err := h.invitations.ListForTrip(c.Request.Context(), middleware.ExternalID(c), c.Param("tripID"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, toInvitationListJSON(invs))
}

// ListForRequest handles GET /v1/invitations/request/:requestID.
func (h *InvitationHandler) ListForRequest(c *gin.Context) {
	rows, err := h.invitations.ListForRequest(c.Request.Context(), middleware.ExternalID(c), c.Param("requestID"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]invitationWithProviderJSON, len(rows))
	for i, row := range rows {
		out[i] = toInvitationWithProviderJSON(row)
	}
	respondSuccess(c, http.StatusOK, out)
}

// Get handles GET /v1/invitations/:id.
func (h *InvitationHandler) Get(c *gin.Context) {
	detail, err := h.invitations.Get(c.Request.Context(), middleware.ExternalID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, toInvitationDetailJSON(detail))
}

// Accept handles POST /v1/invitations/:id/accept.
func (h *InvitationHandler) Accept(c *gin.Context) {
	inv, err := h.invitations.Accept(c.Request.Context(), middleware.ExternalID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, toInvitationJSON(inv))
}

// Reject handles POST /v1/invitations/:id/reject.
func (h *InvitationHandler) Reject(c *gin.Context) {
	inv, err := h.invitations.Reject(c.Request.Context(), middleware.ExternalID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, toInvitationJSON(inv))
}
