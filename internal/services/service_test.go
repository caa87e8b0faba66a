package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/xnftlabs/backend/internal/config"
	"github.com/xnftlabs/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testDeposit = 10

// testEnv wires the full service stack against an in-memory database.
type testEnv struct {
	db       *gorm.DB
	cfg      *config.Config
	tokens   *TokenService
	metadata *MetadataService
	audit    *AuditService
	assets   *AssetService
	installs *InstallService
	reviews  *ReviewService
	access   *AccessService
	curation *CurationService
	transfer *TransferService
	donation *DonationService
	listings *ListingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	cfg := &config.Config{StorageDeposit: testDeposit}

	tokens := NewTokenService(db)
	metadata := NewMetadataService(db)
	audit := NewAuditService(db)

	return &testEnv{
		db:       db,
		cfg:      cfg,
		tokens:   tokens,
		metadata: metadata,
		audit:    audit,
		assets:   NewAssetService(db, cfg, tokens, metadata, audit),
		installs: NewInstallService(db, cfg, audit),
		reviews:  NewReviewService(db, cfg, tokens, nil, audit),
		access:   NewAccessService(db, cfg, audit),
		curation: NewCurationService(db, tokens, audit),
		transfer: NewTransferService(db, tokens, audit),
		donation: NewDonationService(db, metadata, audit),
		listings: NewListingService(db, cfg, tokens, audit),
	}
}

func (e *testEnv) fundedWallet(t *testing.T, address string, balance uint64) *models.Wallet {
	t.Helper()
	w := &models.Wallet{Address: address, PasswordHash: "irrelevant", Balance: balance, IsActive: true}
	require.NoError(t, e.db.Create(w).Error)
	return w
}

func (e *testEnv) balance(t *testing.T, address string) uint64 {
	t.Helper()
	var w models.Wallet
	require.NoError(t, e.db.First(&w, "address = ?", address).Error)
	return w.Balance
}

func (e *testEnv) reloadAsset(t *testing.T, asset *models.Asset) *models.Asset {
	t.Helper()
	var a models.Asset
	require.NoError(t, e.db.First(&a, "id = ?", asset.ID).Error)
	return &a
}

// publishApp creates a funded publisher wallet and a published app asset.
func (e *testEnv) publishApp(t *testing.T, publisher, name string, params CreateAssetParams) *models.Asset {
	t.Helper()
	if params.Uri == "" {
		params.Uri = "https://example.com/" + name + ".json"
	}
	if params.Creators == nil {
		params.Creators = []models.Creator{{Address: publisher, Share: 100}}
	}
	asset, err := e.assets.CreateAppAsset(publisher, name, params)
	require.NoError(t, err)
	return asset
}
