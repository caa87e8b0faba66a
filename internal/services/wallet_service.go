package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/xnftlabs/backend/internal/config"
	"github.com/xnftlabs/backend/internal/models"
	"gorm.io/gorm"
)

// WalletService exposes balances and the fiat on-ramp. Funding goes through
// a Stripe checkout session; the webhook confirmation credits the balance.
type WalletService struct {
	db    *gorm.DB
	redis *redis.Client
	cfg   *config.Config
	audit *AuditService
}

func NewWalletService(db *gorm.DB, redis *redis.Client, cfg *config.Config, audit *AuditService) *WalletService {
	stripe.Key = cfg.StripeSecretKey
	return &WalletService{db: db, redis: redis, cfg: cfg, audit: audit}
}

// GetByAddress retrieves a wallet by its address
func (s *WalletService) GetByAddress(address string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := s.db.Where("address = ?", address).First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

// CreateFundingSession creates a Stripe checkout session that buys base
// units for the wallet. Returns the hosted checkout URL.
func (s *WalletService) CreateFundingSession(address string, amount uint64) (string, error) {
	if amount == 0 {
		return "", errors.New("funding amount must be greater than zero")
	}

	wallet, err := s.GetByAddress(address)
	if err != nil {
		return "", err
	}
	if !wallet.IsActive {
		return "", errors.New("account is deactivated")
	}

	successURL := fmt.Sprintf("%s?wallet=%s&session_id={CHECKOUT_SESSION_ID}", s.cfg.StripeSuccessURL, wallet.Address)
	cancelURL := fmt.Sprintf("%s?wallet=%s", s.cfg.StripeCancelURL, wallet.Address)

	params := &stripe.CheckoutSessionParams{
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("eur"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String("Wallet funding"),
						Description: stripe.String(fmt.Sprintf("Credit for wallet %s", wallet.Address)),
					},
					// 1 cent per base unit
					UnitAmount: stripe.Int64(1),
				},
				Quantity: stripe.Int64(int64(amount)),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		Metadata: map[string]string{
			"wallet_address": wallet.Address,
			"amount":         fmt.Sprintf("%d", amount),
		},
	}

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create Stripe session: %w", err)
	}
	return sess.URL, nil
}

// ConfirmFunding credits a wallet after a completed checkout session. The
// session ID is marked in Redis first so webhook retries credit only once.
func (s *WalletService) ConfirmFunding(ctx context.Context, sessionID, address string, amount uint64) error {
	if s.redis != nil {
		key := fmt.Sprintf("funding:session:%s", sessionID)
		ok, err := s.redis.SetNX(ctx, key, "1", 30*24*time.Hour).Result()
		if err == nil && !ok {
			// Already processed.
			return nil
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		wallet, err := fetchWalletLocked(tx, address)
		if err != nil {
			return err
		}
		if err := wallet.Credit(amount); err != nil {
			return err
		}
		if err := tx.Save(wallet).Error; err != nil {
			return err
		}
		return s.audit.Record(tx, address, models.ActionWalletFunded, "wallet", wallet.ID.String(), map[string]interface{}{
			"amount":     amount,
			"session_id": sessionID,
		})
	})
}
