package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xnftlabs/backend/internal/services"
)

type ListingHandler struct {
	listingService *services.ListingService
}

func NewListingHandler(listingService *services.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// Create escrows the asset's ownership token under a listing
func (h *ListingHandler) Create(c *gin.Context) {
	id, ok := assetIDFrom(c)
	if !ok {
		return
	}

	var req struct {
		Price uint64 `json:"price" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.listingService.CreateListing(id, walletFrom(c), req.Price)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"listing": listing})
}

// Delete withdraws the listing and returns the token to the seller
func (h *ListingHandler) Delete(c *gin.Context) {
	id, ok := assetIDFrom(c)
	if !ok {
		return
	}

	if err := h.listingService.DeleteListing(id, walletFrom(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Listing withdrawn"})
}
