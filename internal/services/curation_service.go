package services

import (
	"github.com/google/uuid"
	"github.com/xnftlabs/backend/internal/models"
	"gorm.io/gorm"
)

// CurationService manages the curator relationship on an asset: the token
// holder assigns a curator, and only the curator itself can flip the
// verified flag.
type CurationService struct {
	db     *gorm.DB
	tokens *TokenService
	audit  *AuditService
}

func NewCurationService(db *gorm.DB, tokens *TokenService, audit *AuditService) *CurationService {
	return &CurationService{db: db, tokens: tokens, audit: audit}
}

// SetCurator assigns a curator, unverified. Reassignment is rejected while a
// verified curator is in place; the curator must first clear its own
// verification.
func (s *CurationService) SetCurator(assetID uuid.UUID, signer, curator string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		asset, err := fetchAssetLocked(tx, assetID)
		if err != nil {
			return err
		}

		owner, err := s.tokens.OwnerOf(tx, asset.MasterMint)
		if err != nil {
			return err
		}
		if owner != signer {
			return models.ErrUpdateAuthorityMismatch
		}

		if asset.CuratorAddress != nil && asset.CuratorVerified {
			return models.ErrCuratorAlreadySet
		}

		asset.CuratorAddress = &curator
		asset.CuratorVerified = false
		if err := tx.Save(asset).Error; err != nil {
			return err
		}

		return s.audit.Record(tx, signer, models.ActionCuratorSet, "asset", asset.ID.String(), map[string]interface{}{
			"curator": curator,
		})
	})
}

// SetCuratorVerification flips the verified flag. Only the assigned curator
// may call it; value=false lets a verified curator step down so the
// publisher can reassign.
func (s *CurationService) SetCuratorVerification(assetID uuid.UUID, signer string, value bool) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		asset, err := fetchAssetLocked(tx, assetID)
		if err != nil {
			return err
		}

		if asset.CuratorAddress == nil || *asset.CuratorAddress != signer {
			return models.ErrCuratorMismatch
		}

		asset.CuratorVerified = value
		if err := tx.Save(asset).Error; err != nil {
			return err
		}

		return s.audit.Record(tx, signer, models.ActionCuratorVerified, "asset", asset.ID.String(), map[string]interface{}{
			"verified": value,
		})
	})
}
