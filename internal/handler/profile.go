package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pickup/internal/middleware"
	"pickup/internal/service"
)

// ProfileHandler exposes registration, profile and document endpoints.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type registerBody struct {
	Name       string `json:"name"`
	SchoolName string `json:"school_name"`
}

// Register handles POST /v1/profiles.
func (h *ProfileHandler) Register(c *gin.Context) {
	var body registerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	name := body.Name
	if name == "" {
		name = middleware.DisplayName(c)
	}

	profile, err := h.profiles.Register(c.Request.Context(), service.RegisterRequest{
		ExternalID: middleware.ExternalID(c),
		Name:       name,
		SchoolName: body.SchoolName,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, toProfileJSON(profile))
}

// Me handles GET /v1/profiles/me.
func (h *ProfileHandler) Me(c *gin.Context) {
	profile, err := h.profiles.Me(c.Request.Context(), middleware.ExternalID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, toProfileJSON(profile))
}

type submitDocumentBody struct {
	Kind string `json:"kind"`
	URL  string `json:"url"`
}

// SubmitDocument handles POST /v1/profiles/me/documents.
func (h *ProfileHandler) SubmitDocument(c *gin.Context) {
	var body submitDocumentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	doc, err := h.profiles.SubmitDocument(c.Request.Context(), service.SubmitDocumentRequest{
		ExternalID: middleware.ExternalID(c),
		Kind:       body.Kind,
		URL:        body.URL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, toDocumentJSON(doc))
}

// MyDocuments handles GET /v1/profiles/me/documents.
func (h *ProfileHandler) MyDocuments(c *gin.Context) {
	docs, err := h.profiles.MyDocuments(c.Request.Context(), middleware.ExternalID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]documentJSON, len(docs))
	for i, doc := range docs {
		out[i] = toDocumentJSON(doc)
	}
	respondSuccess(c, http.StatusOK, out)
}
