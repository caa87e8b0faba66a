package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/xnftlabs/backend/internal/config"
	"github.com/xnftlabs/backend/internal/models"
	"gorm.io/gorm"
)

// ListingService escrows an asset's ownership token pending a sale. The
// settlement leg lives off-protocol; a listing can only be created and
// withdrawn here.
type ListingService struct {
	db     *gorm.DB
	cfg    *config.Config
	tokens *TokenService
	audit  *AuditService
}

func NewListingService(db *gorm.DB, cfg *config.Config, tokens *TokenService, audit *AuditService) *ListingService {
	return &ListingService{db: db, cfg: cfg, tokens: tokens, audit: audit}
}

// CreateListing parks the token under a listing-controlled custodian.
func (s *ListingService) CreateListing(assetID uuid.UUID, signer string, price uint64) (*models.Listing, error) {
	var listing *models.Listing
	err := s.db.Transaction(func(tx *gorm.DB) error {
		asset, err := fetchAssetLocked(tx, assetID)
		if err != nil {
			return err
		}

		var existing models.Listing
		if err := tx.First(&existing, "asset_id = ?", asset.ID).Error; err == nil {
			return models.Conflict("asset is already listed")
		}

		holding, err := s.tokens.Holding(tx, asset.MasterMint, signer)
		if err != nil {
			return err
		}
		if holding.Amount != 1 {
			return models.ErrUpdateAuthorityMismatch
		}

		if err := chargeDeposit(tx, signer, s.cfg.StorageDeposit); err != nil {
			return err
		}

		listing = &models.Listing{
			Authority: signer,
			AssetID:   asset.ID,
			Price:     price,
			Deposit:   s.cfg.StorageDeposit,
		}
		if err := tx.Create(listing).Error; err != nil {
			return err
		}

		// Swap the holding under the listing custodian. The freeze state
		// travels with the account.
		holding.Owner = listing.CustodianAddress()
		if err := tx.Save(holding).Error; err != nil {
			return err
		}

		return s.audit.Record(tx, signer, models.ActionListingCreated, "listing", listing.ID.String(), map[string]interface{}{
			"asset_id": asset.ID.String(),
			"price":    price,
		})
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// DeleteListing returns the escrowed token to the seller and refunds the
// listing deposit.
func (s *ListingService) DeleteListing(assetID uuid.UUID, signer string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		asset, err := fetchAssetLocked(tx, assetID)
		if err != nil {
			return err
		}

		var listing models.Listing
		if err := tx.First(&listing, "asset_id = ?", asset.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("listing not found")
			}
			return err
		}
		if listing.Authority != signer {
			return errors.New("only the listing authority can withdraw it")
		}

		holding, err := s.tokens.Holding(tx, asset.MasterMint, listing.CustodianAddress())
		if err != nil {
			return err
		}
		holding.Owner = signer
		if err := tx.Save(holding).Error; err != nil {
			return err
		}

		if err := tx.Delete(&listing).Error; err != nil {
			return err
		}
		if err := refundDeposit(tx, signer, listing.Deposit); err != nil {
			return err
		}

		return s.audit.Record(tx, signer, models.ActionListingDeleted, "listing", listing.ID.String(), nil)
	})
}
