package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pickup/internal/middleware"
	"pickup/internal/service"
)

// ReportHandler exposes the calendar report endpoint.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Calendar handles GET /v1/reports/calendar.
func (h *ReportHandler) Calendar(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		respondBadRequest(c, "year must be a number")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		respondBadRequest(c, "month must be a number")
		return
	}

	days, err := h.reports.Calendar(c.Request.Context(), service.CalendarInput{
		ExternalID: middleware.ExternalID(c),
		Year:       year,
		Month:      month,
		Kind:       c.DefaultQuery("kind", service.ReportKindRequests),
		Scope:      c.DefaultQuery("scope", service.ReportScopeMine),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, days)
}
