package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/xnftlabs/backend/internal/config"
	"github.com/xnftlabs/backend/internal/models"
	"github.com/xnftlabs/backend/pkg/validation"
	"gorm.io/gorm"
)

type AssetService struct {
	db       *gorm.DB
	cfg      *config.Config
	tokens   *TokenService
	metadata *MetadataService
	audit    *AuditService
}

func NewAssetService(db *gorm.DB, cfg *config.Config, tokens *TokenService, metadata *MetadataService, audit *AuditService) *AssetService {
	return &AssetService{db: db, cfg: cfg, tokens: tokens, metadata: metadata, audit: audit}
}

// CreateAssetParams carries the optional fields of asset creation.
type CreateAssetParams struct {
	Uri                  string           `json:"uri"`
	Symbol               string           `json:"symbol"`
	Tag                  string           `json:"tag"`
	L1                   string           `json:"l1"`
	InstallPrice         uint64           `json:"install_price"`
	InstallVault         string           `json:"install_vault"`
	InstallAuthority     *string          `json:"install_authority,omitempty"`
	Supply               *uint64          `json:"supply,omitempty"`
	Curator              *string          `json:"curator,omitempty"`
	SellerFeeBasisPoints uint16           `json:"seller_fee_basis_points"`
	Creators             []models.Creator `json:"creators"`
}

// CreateAppAsset creates a fresh app asset: a single ownership token is
// minted to the publisher and immediately frozen, the metadata record is
// written, and the asset starts with zeroed counters.
func (s *AssetService) CreateAppAsset(publisher, name string, params CreateAssetParams) (*models.Asset, error) {
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	if err := validation.ValidateUri(params.Uri); err != nil {
		return nil, err
	}
	if params.Supply != nil && *params.Supply == 0 {
		return nil, errors.New("supply must be greater than zero when set")
	}
	if err := validation.ValidateCreators(publisher, params.Creators); err != nil {
		return nil, err
	}

	var existing models.Asset
	if err := s.db.Where("publisher = ? AND name = ?", publisher, name).First(&existing).Error; err == nil {
		return nil, models.Conflict("an asset with this name already exists for the publisher")
	}

	vault := params.InstallVault
	if vault == "" {
		vault = publisher
	}
	tag := params.Tag
	if tag == "" {
		tag = models.TagNone
	}
	l1 := params.L1
	if l1 == "" {
		l1 = models.L1Solana
	}

	asset := &models.Asset{
		Publisher:        publisher,
		Name:             name,
		Kind:             models.KindApp,
		Tag:              tag,
		L1:               l1,
		InstallVault:     vault,
		InstallAuthority: params.InstallAuthority,
		InstallPrice:     params.InstallPrice,
		Supply:           params.Supply,
		CuratorAddress:   params.Curator,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Mint the master token to the publisher and freeze it right
		// away: ownership is inert until an explicit transfer.
		mint, err := s.tokens.Mint(tx, publisher)
		if err != nil {
			return err
		}
		if err := s.tokens.Freeze(tx, mint, publisher); err != nil {
			return err
		}
		asset.MasterMint = mint

		md := &models.Metadata{
			Mint:                 mint,
			Name:                 name,
			Symbol:               params.Symbol,
			Uri:                  params.Uri,
			SellerFeeBasisPoints: params.SellerFeeBasisPoints,
			Creators:             params.Creators,
			IsMutable:            true,
			UpdateAuthority:      publisher,
			PrimarySaleHappened:  true,
		}
		if err := s.metadata.Create(tx, md); err != nil {
			return err
		}

		if err := tx.Create(asset).Error; err != nil {
			return err
		}

		return s.audit.Record(tx, publisher, models.ActionAssetCreated, "asset", asset.ID.String(), map[string]interface{}{
			"name": name,
			"kind": asset.Kind,
			"tag":  asset.Tag,
		})
	})
	if err != nil {
		return nil, err
	}

	return asset, nil
}

// CreateAssociatedAsset registers an asset backed by a pre-existing
// single-unit collectible token. The publisher must be the metadata update
// authority and hold the token.
func (s *AssetService) CreateAssociatedAsset(publisher, kind, mint string, params CreateAssetParams) (*models.Asset, error) {
	if kind != models.KindCollectible && kind != models.KindCollection {
		return nil, errors.New("associated assets must be of the collectible or collection kind")
	}
	if params.Uri != "" {
		if err := validation.ValidateUri(params.Uri); err != nil {
			return nil, err
		}
	}

	var asset *models.Asset
	err := s.db.Transaction(func(tx *gorm.DB) error {
		md, err := s.metadata.Get(tx, mint)
		if err != nil {
			return err
		}
		if !md.IsMutable {
			return models.ErrMetadataIsImmutable
		}
		if md.UpdateAuthority != publisher {
			return models.ErrUpdateAuthorityMismatch
		}

		holding, err := s.tokens.Holding(tx, mint, publisher)
		if err != nil {
			return err
		}
		if holding.Amount != 1 {
			return errors.New("publisher does not hold the associated token")
		}

		tag := params.Tag
		if tag == "" {
			tag = models.TagNone
		}
		l1 := params.L1
		if l1 == "" {
			l1 = models.L1Solana
		}
		vault := params.InstallVault
		if vault == "" {
			vault = publisher
		}

		asset = &models.Asset{
			Publisher:        publisher,
			Name:             md.Name,
			Kind:             kind,
			Tag:              tag,
			L1:               l1,
			MasterMint:       mint,
			InstallVault:     vault,
			InstallAuthority: params.InstallAuthority,
			InstallPrice:     params.InstallPrice,
			Supply:           params.Supply,
			CuratorAddress:   params.Curator,
		}
		if err := tx.Create(asset).Error; err != nil {
			return err
		}

		return s.audit.Record(tx, publisher, models.ActionAssetCreated, "asset", asset.ID.String(), map[string]interface{}{
			"name": asset.Name,
			"kind": kind,
			"mint": mint,
		})
	})
	if err != nil {
		return nil, err
	}

	return asset, nil
}

// UpdateAssetParams applies only the fields that are present.
type UpdateAssetParams struct {
	InstallVault          *string `json:"install_vault,omitempty"`
	InstallPrice          *uint64 `json:"install_price,omitempty"`
	InstallAuthority      *string `json:"install_authority,omitempty"`
	ClearInstallAuthority bool    `json:"clear_install_authority,omitempty"`
	Tag                   *string `json:"tag,omitempty"`
	Supply                *uint64 `json:"supply,omitempty"`
	Uri                   *string `json:"uri,omitempty"`
}

// UpdateAsset mutates an asset's mutable fields. Apps are updated by the
// current token holder, collectibles by the metadata update authority. A
// verified curator must co-sign via the curator field of the request.
func (s *AssetService) UpdateAsset(assetID uuid.UUID, signer string, curatorSigner *string, params UpdateAssetParams) (*models.Asset, error) {
	if params.Uri != nil {
		if err := validation.ValidateUri(*params.Uri); err != nil {
			return nil, err
		}
	}

	var updated *models.Asset
	err := s.db.Transaction(func(tx *gorm.DB) error {
		asset, err := fetchAssetLocked(tx, assetID)
		if err != nil {
			return err
		}

		if err := s.verifyUpdateAuthority(tx, asset, signer); err != nil {
			return err
		}

		// A verified curator gates all further updates until cleared.
		if asset.CuratorAddress != nil && asset.CuratorVerified {
			if curatorSigner == nil || *curatorSigner != *asset.CuratorAddress {
				return models.ErrCuratorAuthorityMismatch
			}
		}

		if params.Supply != nil {
			if err := checkSupplyUpdate(asset, *params.Supply); err != nil {
				return err
			}
			asset.Supply = params.Supply
		}

		if params.InstallVault != nil {
			asset.InstallVault = *params.InstallVault
		}
		if params.InstallPrice != nil {
			asset.InstallPrice = *params.InstallPrice
		}
		if params.ClearInstallAuthority {
			asset.InstallAuthority = nil
		} else if params.InstallAuthority != nil {
			asset.InstallAuthority = params.InstallAuthority
		}
		if params.Tag != nil {
			asset.Tag = *params.Tag
		}

		if params.Uri != nil {
			md, err := s.metadata.Get(tx, asset.MasterMint)
			if err != nil {
				return err
			}
			md.Uri = *params.Uri
			if err := s.metadata.Save(tx, md); err != nil {
				return err
			}
		}

		if err := tx.Save(asset).Error; err != nil {
			return err
		}
		updated = asset

		return s.audit.Record(tx, signer, models.ActionAssetUpdated, "asset", asset.ID.String(), nil)
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// checkSupplyUpdate enforces the monotonic supply invariant: supply may only
// grow, never below the number of installs already issued. An uncapped asset
// cannot be given a finite cap afterwards.
func checkSupplyUpdate(asset *models.Asset, newSupply uint64) error {
	if asset.Supply == nil {
		if newSupply != 0 {
			return models.ErrSupplyReduction
		}
		return nil
	}
	if newSupply != 0 && newSupply < *asset.Supply {
		return models.ErrSupplyReduction
	}
	if newSupply != 0 && newSupply < asset.TotalInstalls {
		return models.ErrSupplyReduction
	}
	return nil
}

// verifyUpdateAuthority applies the kind-dependent authority rule.
func (s *AssetService) verifyUpdateAuthority(tx *gorm.DB, asset *models.Asset, signer string) error {
	if asset.Kind == models.KindApp {
		owner, err := s.tokens.OwnerOf(tx, asset.MasterMint)
		if err != nil {
			return err
		}
		if owner != signer {
			return models.ErrUpdateAuthorityMismatch
		}
		return nil
	}

	md, err := s.metadata.Get(tx, asset.MasterMint)
	if err != nil {
		return err
	}
	if md.UpdateAuthority != signer {
		return models.ErrUpdateAuthorityMismatch
	}
	return nil
}

// DeleteAsset destroys an asset. Apps must have no live installs or reviews;
// collectible-backed assets are always deletable since they cannot have
// either. The ownership token is optionally burned.
func (s *AssetService) DeleteAsset(assetID uuid.UUID, signer string, withBurn bool) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		asset, err := fetchAssetLocked(tx, assetID)
		if err != nil {
			return err
		}

		md, err := s.metadata.Get(tx, asset.MasterMint)
		if err != nil {
			return err
		}
		if !md.IsMutable {
			return models.ErrMetadataIsImmutable
		}
		if md.UpdateAuthority != signer {
			return models.ErrUpdateAuthorityMismatch
		}

		owner, err := s.tokens.OwnerOf(tx, asset.MasterMint)
		if err != nil {
			return err
		}
		if owner != signer {
			return models.ErrUpdateAuthorityMismatch
		}

		if asset.Kind == models.KindApp {
			if asset.TotalInstalls != 0 || asset.NumRatings != 0 {
				return models.ErrXnftNotDeletable
			}
		}

		if withBurn {
			if err := s.tokens.Burn(tx, asset.MasterMint, signer); err != nil {
				return err
			}
		}

		if err := tx.Delete(asset).Error; err != nil {
			return err
		}

		return s.audit.Record(tx, signer, models.ActionAssetDeleted, "asset", asset.ID.String(), map[string]interface{}{
			"with_burn": withBurn,
		})
	})
}

// SetSuspended toggles the installation halt flag. Only the current token
// holder may flip it; existing installs and reviews are unaffected.
func (s *AssetService) SetSuspended(assetID uuid.UUID, signer string, flag bool) error {
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

		asset.Suspended = flag
		if err := tx.Save(asset).Error; err != nil {
			return err
		}

		return s.audit.Record(tx, signer, models.ActionSuspendedSet, "asset", asset.ID.String(), map[string]interface{}{
			"suspended": flag,
		})
	})
}

// GetAsset retrieves an asset by ID.
func (s *AssetService) GetAsset(assetID uuid.UUID) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.First(&asset, "id = ?", assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("asset not found")
		}
		return nil, err
	}
	return &asset, nil
}

// GetAssets lists assets with pagination, optionally filtered by tag or
// publisher.
func (s *AssetService) GetAssets(offset, limit int, tag, publisher string) ([]*models.Asset, int64, error) {
	var assets []*models.Asset
	var total int64

	query := s.db.Model(&models.Asset{})
	if tag != "" {
		query = query.Where("tag = ?", tag)
	}
	if publisher != "" {
		query = query.Where("publisher = ?", publisher)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&assets).Error
	return assets, total, err
}
