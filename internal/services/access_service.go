package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/xnftlabs/backend/internal/config"
	"github.com/xnftlabs/backend/internal/models"
	"gorm.io/gorm"
)

// AccessService manages the allow-list of a gated asset. Only the install
// authority may grant or revoke entries.
type AccessService struct {
	db    *gorm.DB
	cfg   *config.Config
	audit *AuditService
}

func NewAccessService(db *gorm.DB, cfg *config.Config, audit *AuditService) *AccessService {
	return &AccessService{db: db, cfg: cfg, audit: audit}
}

// GrantAccess creates an access record for (wallet, asset). Granting twice
// is a conflict, not an idempotent success.
func (s *AccessService) GrantAccess(assetID uuid.UUID, signer, wallet string) (*models.Access, error) {
	var access *models.Access
	err := s.db.Transaction(func(tx *gorm.DB) error {
		asset, err := fetchAssetLocked(tx, assetID)
		if err != nil {
			return err
		}

		if asset.InstallAuthority == nil || *asset.InstallAuthority != signer {
			return models.ErrInstallAuthorityMismatch
		}

		var existing models.Access
		if err := tx.First(&existing, "asset_id = ? AND wallet = ?", asset.ID, wallet).Error; err == nil {
			return models.Conflict("access already granted for this wallet")
		}

		if err := chargeDeposit(tx, signer, s.cfg.StorageDeposit); err != nil {
			return err
		}

		access = &models.Access{
			Wallet:  wallet,
			AssetID: asset.ID,
			Deposit: s.cfg.StorageDeposit,
		}
		if err := tx.Create(access).Error; err != nil {
			return err
		}

		return s.audit.Record(tx, signer, models.ActionAccessGranted, "access", access.ID.String(), map[string]interface{}{
			"asset_id": asset.ID.String(),
			"wallet":   wallet,
		})
	})
	if err != nil {
		return nil, err
	}
	return access, nil
}

// RevokeAccess closes the access record, refunding its deposit to the
// install authority.
func (s *AccessService) RevokeAccess(assetID uuid.UUID, signer, wallet string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		asset, err := fetchAssetLocked(tx, assetID)
		if err != nil {
			return err
		}

		if asset.InstallAuthority == nil || *asset.InstallAuthority != signer {
			return models.ErrInstallAuthorityMismatch
		}

		var access models.Access
		if err := tx.First(&access, "asset_id = ? AND wallet = ?", asset.ID, wallet).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("access grant not found")
			}
			return err
		}

		if err := tx.Delete(&access).Error; err != nil {
			return err
		}
		if err := refundDeposit(tx, signer, access.Deposit); err != nil {
			return err
		}

		return s.audit.Record(tx, signer, models.ActionAccessRevoked, "access", access.ID.String(), map[string]interface{}{
			"asset_id": asset.ID.String(),
			"wallet":   wallet,
		})
	})
}
