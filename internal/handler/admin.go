package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pickup/internal/domain"
	"pickup/internal/middleware"
	"pickup/internal/service"
)

// AdminHandler exposes the operator endpoints.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// Stats handles GET /v1/admin/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context(), middleware.ExternalID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, stats)
}

type forceTripStatusBody struct {
	Status string `json:"status"`
}

// ForceTripStatus handles POST /v1/admin/trips/:id/status.
func (h *AdminHandler) ForceTripStatus(c *gin.Context) {
	var body forceTripStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	trip, err := h.admin.ForceTripStatus(c.Request.Context(), middleware.ExternalID(c), c.Param("id"), domain.TripStatus(body.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, toTripJSON(trip))
}

type reviewDocumentBody struct {
	Approve bool `json:"approve"`
}

// ReviewDocument handles POST /v1/admin/documents/:id/review.
func (h *AdminHandler) ReviewDocument(c *gin.Context) {
	var body reviewDocumentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	doc, err := h.admin.ReviewDocument(c.Request.Context(), middleware.ExternalID(c), c.Param("id"), body.Approve)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, toDocumentJSON(doc))
}
