package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xnftlabs/backend/internal/services"
)

type WalletHandler struct {
	walletService  *services.WalletService
	installService *services.InstallService
}

func NewWalletHandler(walletService *services.WalletService, installService *services.InstallService) *WalletHandler {
	return &WalletHandler{walletService: walletService, installService: installService}
}

// GetWallet returns the authenticated wallet
func (h *WalletHandler) GetWallet(c *gin.Context) {
	wallet, err := h.walletService.GetByAddress(walletFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      wallet.ID,
		"address": wallet.Address,
		"balance": wallet.Balance,
	})
}

// GetInstalls lists the authenticated wallet's installations
func (h *WalletHandler) GetInstalls(c *gin.Context) {
	installs, err := h.installService.GetWalletInstalls(walletFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"installs": installs})
}

// Fund creates a Stripe checkout session to top up the wallet balance
func (h *WalletHandler) Fund(c *gin.Context) {
	var req struct {
		Amount uint64 `json:"amount" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	checkoutURL, err := h.walletService.CreateFundingSession(walletFrom(c), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"checkout_url": checkoutURL})
}
