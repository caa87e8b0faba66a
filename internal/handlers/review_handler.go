package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xnftlabs/backend/internal/services"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// Create posts a review for an installed asset
func (h *ReviewHandler) Create(c *gin.Context) {
	id, ok := assetIDFrom(c)
	if !ok {
		return
	}

	var req struct {
		Uri     string `json:"uri"`
		Rating  uint8  `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), id, walletFrom(c), req.Uri, req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// List returns all reviews of an asset
func (h *ReviewHandler) List(c *gin.Context) {
	id, ok := assetIDFrom(c)
	if !ok {
		return
	}

	reviews, err := h.reviewService.GetAssetReviews(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// Delete removes the author's review, refunding the deposit
func (h *ReviewHandler) Delete(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	receiver := c.Query("receiver")
	if err := h.reviewService.DeleteReview(c.Request.Context(), reviewID, walletFrom(c), receiver); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}
