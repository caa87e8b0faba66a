package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xnftlabs/backend/internal/services"
)

type AccessHandler struct {
	accessService *services.AccessService
}

func NewAccessHandler(accessService *services.AccessService) *AccessHandler {
	return &AccessHandler{accessService: accessService}
}

// Grant gives a wallet permission to install a gated asset
func (h *AccessHandler) Grant(c *gin.Context) {
	id, ok := assetIDFrom(c)
	if !ok {
		return
	}

	var req struct {
		Wallet string `json:"wallet" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	access, err := h.accessService.GrantAccess(id, walletFrom(c), req.Wallet)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"access": access})
}

// Revoke removes a wallet's install permission
func (h *AccessHandler) Revoke(c *gin.Context) {
	id, ok := assetIDFrom(c)
	if !ok {
		return
	}

	var req struct {
		Wallet string `json:"wallet" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accessService.RevokeAccess(id, walletFrom(c), req.Wallet); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Access revoked"})
}
