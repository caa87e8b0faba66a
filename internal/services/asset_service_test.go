package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xnftlabs/backend/internal/models"
)

func TestCreateAppAsset(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)

	asset := env.publishApp(t, "alice", "Chess", CreateAssetParams{})

	require.Equal(t, models.KindApp, asset.Kind)
	require.Equal(t, models.TagNone, asset.Tag)
	require.Equal(t, models.L1Solana, asset.L1)
	require.Equal(t, "alice", asset.InstallVault)
	require.Zero(t, asset.TotalInstalls)
	require.Zero(t, asset.NumRatings)
	require.False(t, asset.Suspended)
	require.NotEmpty(t, asset.MasterMint)

	// The ownership token sits frozen with the publisher.
	holding, err := env.tokens.Holding(env.db, asset.MasterMint, "alice")
	require.NoError(t, err)
	require.EqualValues(t, 1, holding.Amount)
	require.True(t, holding.Frozen)

	md, err := env.metadata.GetByAsset(asset)
	require.NoError(t, err)
	require.True(t, md.IsMutable)
	require.Equal(t, "alice", md.UpdateAuthority)
}

func TestCreateAppAssetValidation(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)

	creators := []models.Creator{{Address: "alice", Share: 100}}

	_, err := env.assets.CreateAppAsset("alice", strings.Repeat("x", 31), CreateAssetParams{
		Uri: "https://x.com/m.json", Creators: creators,
	})
	require.ErrorIs(t, err, models.ErrNameTooLong)

	_, err = env.assets.CreateAppAsset("alice", "ok", CreateAssetParams{
		Uri: "https://x.com/" + strings.Repeat("y", 200), Creators: creators,
	})
	require.ErrorIs(t, err, models.ErrUriExceedsMaxLength)

	zero := uint64(0)
	_, err = env.assets.CreateAppAsset("alice", "ok", CreateAssetParams{
		Uri: "https://x.com/m.json", Creators: creators, Supply: &zero,
	})
	require.Error(t, err)

	_, err = env.assets.CreateAppAsset("alice", "ok", CreateAssetParams{
		Uri: "https://x.com/m.json", Creators: []models.Creator{{Address: "alice", Share: 50}},
	})
	require.Error(t, err, "shares must sum to 100")
}

func TestCreateAppAssetDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)
	env.fundedWallet(t, "bob", 100)

	env.publishApp(t, "alice", "Chess", CreateAssetParams{})

	_, err := env.assets.CreateAppAsset("alice", "Chess", CreateAssetParams{
		Uri: "https://x.com/m.json", Creators: []models.Creator{{Address: "alice", Share: 100}},
	})
	require.Error(t, err)

	// Same name under a different publisher is fine.
	asset, err := env.assets.CreateAppAsset("bob", "Chess", CreateAssetParams{
		Uri: "https://x.com/m.json", Creators: []models.Creator{{Address: "bob", Share: 100}},
	})
	require.NoError(t, err)
	require.Equal(t, "bob", asset.Publisher)
}

func TestCreateAssociatedAsset(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)

	mint, err := env.tokens.Mint(env.db, "alice")
	require.NoError(t, err)
	require.NoError(t, env.metadata.Create(env.db, &models.Metadata{
		Mint: mint, Name: "Crystal", Uri: "https://x.com/c.json",
		IsMutable: true, UpdateAuthority: "alice",
	}))

	asset, err := env.assets.CreateAssociatedAsset("alice", models.KindCollectible, mint, CreateAssetParams{})
	require.NoError(t, err)
	require.Equal(t, models.KindCollectible, asset.Kind)
	require.Equal(t, "Crystal", asset.Name, "name comes from the metadata record")
	require.Equal(t, mint, asset.MasterMint)

	_, err = env.assets.CreateAssociatedAsset("alice", models.KindApp, mint, CreateAssetParams{})
	require.Error(t, err)
}

func TestCreateAssociatedAssetAuthority(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)
	env.fundedWallet(t, "mallory", 100)

	mint, err := env.tokens.Mint(env.db, "alice")
	require.NoError(t, err)
	require.NoError(t, env.metadata.Create(env.db, &models.Metadata{
		Mint: mint, Name: "Crystal", Uri: "https://x.com/c.json",
		IsMutable: true, UpdateAuthority: "alice",
	}))

	_, err = env.assets.CreateAssociatedAsset("mallory", models.KindCollectible, mint, CreateAssetParams{})
	require.ErrorIs(t, err, models.ErrUpdateAuthorityMismatch)

	frozen, err := env.tokens.Mint(env.db, "alice")
	require.NoError(t, err)
	require.NoError(t, env.metadata.Create(env.db, &models.Metadata{
		Mint: frozen, Name: "Locked", Uri: "https://x.com/l.json",
		IsMutable: false, UpdateAuthority: "alice",
	}))

	_, err = env.assets.CreateAssociatedAsset("alice", models.KindCollectible, frozen, CreateAssetParams{})
	require.ErrorIs(t, err, models.ErrMetadataIsImmutable)
}

func TestUpdateAssetAuthority(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)
	env.fundedWallet(t, "mallory", 100)

	asset := env.publishApp(t, "alice", "Chess", CreateAssetParams{})

	price := uint64(42)
	_, err := env.assets.UpdateAsset(asset.ID, "mallory", nil, UpdateAssetParams{InstallPrice: &price})
	require.ErrorIs(t, err, models.ErrUpdateAuthorityMismatch)

	updated, err := env.assets.UpdateAsset(asset.ID, "alice", nil, UpdateAssetParams{InstallPrice: &price})
	require.NoError(t, err)
	require.EqualValues(t, 42, updated.InstallPrice)
}

func TestUpdateAssetVerifiedCuratorGate(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)
	env.fundedWallet(t, "carol", 100)

	asset := env.publishApp(t, "alice", "Chess", CreateAssetParams{})

	require.NoError(t, env.curation.SetCurator(asset.ID, "alice", "carol"))
	require.NoError(t, env.curation.SetCuratorVerification(asset.ID, "carol", true))

	price := uint64(7)
	_, err := env.assets.UpdateAsset(asset.ID, "alice", nil, UpdateAssetParams{InstallPrice: &price})
	require.ErrorIs(t, err, models.ErrCuratorAuthorityMismatch)

	carol := "carol"
	updated, err := env.assets.UpdateAsset(asset.ID, "alice", &carol, UpdateAssetParams{InstallPrice: &price})
	require.NoError(t, err)
	require.EqualValues(t, 7, updated.InstallPrice)
}

func TestUpdateAssetSupplyRules(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)

	five := uint64(5)
	asset := env.publishApp(t, "alice", "Capped", CreateAssetParams{Supply: &five})

	// Shrinking is rejected.
	three := uint64(3)
	_, err := env.assets.UpdateAsset(asset.ID, "alice", nil, UpdateAssetParams{Supply: &three})
	require.ErrorIs(t, err, models.ErrSupplyReduction)

	// Growing is allowed.
	ten := uint64(10)
	updated, err := env.assets.UpdateAsset(asset.ID, "alice", nil, UpdateAssetParams{Supply: &ten})
	require.NoError(t, err)
	require.EqualValues(t, 10, *updated.Supply)

	// Lifting the cap entirely is allowed.
	zero := uint64(0)
	updated, err = env.assets.UpdateAsset(asset.ID, "alice", nil, UpdateAssetParams{Supply: &zero})
	require.NoError(t, err)
	require.EqualValues(t, 0, *updated.Supply)
}

func TestUpdateAssetCannotCapUncapped(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)

	asset := env.publishApp(t, "alice", "Open", CreateAssetParams{})

	five := uint64(5)
	_, err := env.assets.UpdateAsset(asset.ID, "alice", nil, UpdateAssetParams{Supply: &five})
	require.ErrorIs(t, err, models.ErrSupplyReduction)
}

func TestDeleteAssetGating(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)
	env.fundedWallet(t, "bob", 100)

	asset := env.publishApp(t, "alice", "Chess", CreateAssetParams{})

	_, err := env.installs.CreateInstall(asset.ID, "bob", "")
	require.NoError(t, err)

	err = env.assets.DeleteAsset(asset.ID, "alice", false)
	require.ErrorIs(t, err, models.ErrXnftNotDeletable)

	// Closing the install does not reset the counter, so the asset stays
	// undeletable for good.
	var install models.Install
	require.NoError(t, env.db.First(&install, "asset_id = ?", asset.ID).Error)
	require.NoError(t, env.installs.DeleteInstall(install.ID, "bob", ""))

	err = env.assets.DeleteAsset(asset.ID, "alice", false)
	require.ErrorIs(t, err, models.ErrXnftNotDeletable)

	fresh := env.publishApp(t, "alice", "Fresh", CreateAssetParams{})
	require.NoError(t, env.assets.DeleteAsset(fresh.ID, "alice", true))

	_, err = env.assets.GetAsset(fresh.ID)
	require.Error(t, err)
	_, err = env.tokens.Holding(env.db, fresh.MasterMint, "alice")
	require.Error(t, err, "burned token account is gone")
}

func TestSetSuspended(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)
	env.fundedWallet(t, "bob", 100)

	asset := env.publishApp(t, "alice", "Chess", CreateAssetParams{})

	require.NoError(t, env.assets.SetSuspended(asset.ID, "alice", true))

	_, err := env.installs.CreateInstall(asset.ID, "bob", "")
	require.ErrorIs(t, err, models.ErrSuspendedInstallation)

	require.NoError(t, env.assets.SetSuspended(asset.ID, "alice", false))
	_, err = env.installs.CreateInstall(asset.ID, "bob", "")
	require.NoError(t, err)

	err = env.assets.SetSuspended(asset.ID, "bob", true)
	require.ErrorIs(t, err, models.ErrUpdateAuthorityMismatch)
}
