package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"github.com/xnftlabs/backend/internal/config"
	"github.com/xnftlabs/backend/internal/services"
)

type StripeHandler struct {
	walletService *services.WalletService
	cfg           *config.Config
}

func NewStripeHandler(walletService *services.WalletService, cfg *config.Config) *StripeHandler {
	return &StripeHandler{walletService: walletService, cfg: cfg}
}

// HandleWebhook handles Stripe webhook events
func (h *StripeHandler) HandleWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Printf("ERROR: Failed to read Stripe webhook request body: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	signatureHeader := c.GetHeader("Stripe-Signature")

	event, err := webhook.ConstructEvent(payload, signatureHeader, h.cfg.StripeWebhookSecret)
	if err != nil {
		log.Printf("ERROR: Webhook signature verification failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			log.Printf("ERROR: Failed to parse webhook JSON for checkout.session.completed: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing webhook JSON"})
			return
		}

		address, ok := session.Metadata["wallet_address"]
		if !ok {
			log.Printf("ERROR: wallet_address not found in metadata for session %s", session.ID)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Wallet address not found in metadata"})
			return
		}

		amount, err := strconv.ParseUint(session.Metadata["amount"], 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid amount in metadata for session %s", session.ID)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
			return
		}

		if err := h.walletService.ConfirmFunding(c.Request.Context(), session.ID, address, amount); err != nil {
			log.Printf("ERROR: Failed to credit wallet %s for session %s: %v", address, session.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm funding"})
			return
		}

		log.Printf("INFO: Funding confirmed for wallet %s, session %s", address, session.ID)
		c.JSON(http.StatusOK, gin.H{"status": "success"})

	default:
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Unhandled event type"})
	}
}
