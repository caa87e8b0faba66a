package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/xnftlabs/backend/internal/config"
	"github.com/xnftlabs/backend/internal/models"
	"gorm.io/gorm"
)

type InstallService struct {
	db    *gorm.DB
	cfg   *config.Config
	audit *AuditService
}

func NewInstallService(db *gorm.DB, cfg *config.Config, audit *AuditService) *InstallService {
	return &InstallService{db: db, cfg: cfg, audit: audit}
}

// CreateInstall issues an installation of an asset. For gated assets the
// signer must be the install authority and may install on behalf of a
// target wallet. The supply check and the counter increment happen under
// the same asset row lock, so two racing installs for the last slot cannot
// both succeed.
func (s *InstallService) CreateInstall(assetID uuid.UUID, signer, target string) (*models.Install, error) {
	var install *models.Install
	err := s.db.Transaction(func(tx *gorm.DB) error {
		asset, err := fetchAssetLocked(tx, assetID)
		if err != nil {
			return err
		}

		if asset.Suspended {
			return models.ErrSuspendedInstallation
		}
		if err := asset.CheckSupply(); err != nil {
			return err
		}

		installer := signer
		if asset.InstallAuthority != nil {
			if err := asset.VerifyInstallAuthority(signer); err != nil {
				return err
			}
			if target != "" {
				installer = target
			}
		}

		return s.allocateInstall(tx, asset, installer, signer, &install)
	})
	if err != nil {
		return nil, err
	}
	return install, nil
}

// CreatePermissionedInstall installs a gated asset on the strength of a
// pre-existing access grant; the state of the install authority is not
// consulted.
func (s *InstallService) CreatePermissionedInstall(assetID uuid.UUID, signer string) (*models.Install, error) {
	var install *models.Install
	err := s.db.Transaction(func(tx *gorm.DB) error {
		asset, err := fetchAssetLocked(tx, assetID)
		if err != nil {
			return err
		}

		if asset.Suspended {
			return models.ErrSuspendedInstallation
		}
		if err := asset.CheckSupply(); err != nil {
			return err
		}

		var access models.Access
		if err := tx.First(&access, "asset_id = ? AND wallet = ?", asset.ID, signer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrUnauthorizedInstall
			}
			return err
		}

		return s.allocateInstall(tx, asset, signer, signer, &install)
	})
	if err != nil {
		return nil, err
	}
	return install, nil
}

// allocateInstall pays the install price and deposit, assigns the edition
// from the pre-increment counter and writes the install record.
func (s *InstallService) allocateInstall(tx *gorm.DB, asset *models.Asset, installer, payer string, out **models.Install) error {
	var existing models.Install
	if err := tx.First(&existing, "asset_id = ? AND authority = ?", asset.ID, installer).Error; err == nil {
		return models.Conflict("wallet already has an installation of this asset")
	}

	if asset.InstallPrice > 0 {
		if err := sendPayment(tx, payer, asset.InstallVault, asset.InstallPrice); err != nil {
			return err
		}
	}
	if err := chargeDeposit(tx, payer, s.cfg.StorageDeposit); err != nil {
		return err
	}

	edition, err := asset.NextEdition()
	if err != nil {
		return err
	}
	if err := tx.Save(asset).Error; err != nil {
		return err
	}

	install := &models.Install{
		Authority: installer,
		AssetID:   asset.ID,
		Edition:   edition,
		Deposit:   s.cfg.StorageDeposit,
	}
	if err := tx.Create(install).Error; err != nil {
		return err
	}
	*out = install

	return s.audit.Record(tx, payer, models.ActionInstallationCreated, "install", install.ID.String(), map[string]interface{}{
		"asset_id":  asset.ID.String(),
		"installer": installer,
		"edition":   edition,
	})
}

// DeleteInstall closes an installation and refunds its storage deposit to
// the receiver. The asset's install counter is deliberately left alone:
// editions are never reissued.
func (s *InstallService) DeleteInstall(installID uuid.UUID, signer, receiver string) error {
	if receiver == "" {
		receiver = signer
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		// The row lock keeps a racing delete of the same install from
		// reading the record before the winner's commit removes it.
		var install models.Install
		if err := lockForUpdate(tx).First(&install, "id = ?", installID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("install not found")
			}
			return err
		}
		if install.Authority != signer {
			return models.ErrInstallOwnerMismatch
		}

		res := tx.Delete(&install)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("install not found")
		}
		if err := refundDeposit(tx, receiver, install.Deposit); err != nil {
			return err
		}

		return s.audit.Record(tx, signer, models.ActionInstallationDeleted, "install", install.ID.String(), nil)
	})
}

// GetWalletInstalls lists a wallet's installations.
func (s *InstallService) GetWalletInstalls(address string) ([]*models.Install, error) {
	var installs []*models.Install
	err := s.db.Preload("Asset").Where("authority = ?", address).Order("created_at DESC").Find(&installs).Error
	return installs, err
}
