package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pickup/internal/domain"
	"pickup/internal/middleware"
	"pickup/internal/service"
)

// RequestHandler exposes the pickup-request endpoints.
type RequestHandler struct {
	requests *service.RequestService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(requests *service.RequestService) *RequestHandler {
	return &RequestHandler{requests: requests}
}

type createRequestBody struct {
	PickupAt        time.Time `json:"pickup_at"`
	OriginText      string    `json:"origin_text"`
	OriginLat       float64   `json:"origin_lat"`
	OriginLng       float64   `json:"origin_lng"`
	AreaLabel       string    `json:"area_label"`
	DestinationText string    `json:"destination_text"`
	DestinationLat  float64   `json:"destination_lat"`
	DestinationLng  float64   `json:"destination_lng"`
	DestinationKind string    `json:"destination_kind"`
}

// Create handles POST /v1/requests.
func (h *RequestHandler) Create(c *gin.Context) {
	var body createRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	req, err := h.requests.Create(c.Request.Context(), service.CreateRequestInput{
		ExternalID:      middleware.ExternalID(c),
		PickupAt:        body.PickupAt,
		OriginText:      body.OriginText,
		OriginLat:       body.OriginLat,
		OriginLng:       body.OriginLng,
		AreaLabel:       body.AreaLabel,
		DestinationText: body.DestinationText,
		DestinationLat:  body.DestinationLat,
		DestinationLng:  body.DestinationLng,
		DestinationKind: body.DestinationKind,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, toRequestJSON(req))
}

// ListMine handles GET /v1/requests.
func (h *RequestHandler) ListMine(c *gin.Context) {
	status := domain.RequestStatus(c.Query("status"))

	reqs, err := h.requests.ListMine(c.Request.Context(), middleware.ExternalID(c), status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, toRequestListJSON(reqs))
}

// Get handles GET /v1/requests/:id.
func (h *RequestHandler) Get(c *gin.Context) {
	req, err := h.requests.Get(c.Request.Context(), middleware.ExternalID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, toRequestJSON(req))
}

type cancelRequestBody struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// Cancel handles POST /v1/requests/:id/cancel.
func (h *RequestHandler) Cancel(c *gin.Context) {
	var body cancelRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	req, err := h.requests.Cancel(c.Request.Context(), service.CancelRequestInput{
		ExternalID: middleware.ExternalID(c),
		RequestID:  c.Param("id"),
		Code:       domain.CancelCode(body.Code),
		Reason:     body.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, toRequestJSON(req))
}

// ListAvailable handles GET /v1/requests/available.
func (h *RequestHandler) ListAvailable(c *gin.Context) {
	rows, err := h.requests.ListAvailable(c.Request.Context(), middleware.ExternalID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, rows)
}
