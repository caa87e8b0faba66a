package services

import (
	"github.com/google/uuid"
	"github.com/xnftlabs/backend/internal/models"
	"gorm.io/gorm"
)

// TransferService moves exclusive ownership of an asset between wallets.
type TransferService struct {
	db     *gorm.DB
	tokens *TokenService
	audit  *AuditService
}

func NewTransferService(db *gorm.DB, tokens *TokenService, audit *AuditService) *TransferService {
	return &TransferService{db: db, tokens: tokens, audit: audit}
}

// Transfer runs the four-step ownership handover in one transaction: thaw
// the sender's frozen holding, move the unit, freeze the recipient's
// holding, close the emptied sender account. Failure at any step rolls the
// whole thing back.
func (s *TransferService) Transfer(assetID uuid.UUID, signer, recipient string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		asset, err := fetchAssetLocked(tx, assetID)
		if err != nil {
			return err
		}

		source, err := s.tokens.Holding(tx, asset.MasterMint, signer)
		if err != nil {
			return err
		}
		if source.Amount != 1 {
			return models.ErrUpdateAuthorityMismatch
		}

		wasFrozen := source.Frozen
		if wasFrozen {
			if err := s.tokens.Thaw(tx, asset.MasterMint, signer); err != nil {
				return err
			}
		}

		if err := s.tokens.Move(tx, asset.MasterMint, signer, recipient); err != nil {
			return err
		}

		if wasFrozen {
			if err := s.tokens.Freeze(tx, asset.MasterMint, recipient); err != nil {
				return err
			}
		}

		if err := s.tokens.CloseHolding(tx, asset.MasterMint, signer); err != nil {
			return err
		}

		return s.audit.Record(tx, signer, models.ActionTransferred, "asset", asset.ID.String(), map[string]interface{}{
			"recipient": recipient,
		})
	})
}
