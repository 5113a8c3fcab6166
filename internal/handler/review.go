package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pickup/internal/middleware"
	"pickup/internal/service"
)

// ReviewHandler exposes the trip review endpoints.
type ReviewHandler struct {
	reviews *service.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

type createReviewBody struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Create handles POST /v1/trips/:id/reviews.
func (h *ReviewHandler) Create(c *gin.Context) {
	var body createReviewBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), service.CreateReviewInput{
		ExternalID: middleware.ExternalID(c),
		TripID:     c.Param("id"),
		Rating:     body.Rating,
		Comment:    body.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, toReviewJSON(review))
}

// ListForProvider handles GET /v1/reviews/provider/:profileID.
func (h *ReviewHandler) ListForProvider(c *gin.Context) {
	reviews, err := h.reviews.ListForProvider(c.Request.Context(), c.Param("profileID"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]reviewJSON, len(reviews))
	for i, review := range reviews {
		out[i] = toReviewJSON(review)
	}
	respondSuccess(c, http.StatusOK, out)
}
