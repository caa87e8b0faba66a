package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xnftlabs/backend/internal/models"
)

func TestCreateAndDeleteListing(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)

	asset := env.publishApp(t, "alice", "Chess", CreateAssetParams{})

	listing, err := env.listings.CreateListing(asset.ID, "alice", 500)
	require.NoError(t, err)
	require.EqualValues(t, 500, listing.Price)
	require.EqualValues(t, 100-testDeposit, env.balance(t, "alice"))

	// The token is escrowed: alice no longer holds it, so ownership-gated
	// operations are off the table while the listing is live.
	_, err = env.tokens.Holding(env.db, asset.MasterMint, "alice")
	require.Error(t, err)
	err = env.assets.SetSuspended(asset.ID, "alice", true)
	require.ErrorIs(t, err, models.ErrUpdateAuthorityMismatch)

	_, err = env.listings.CreateListing(asset.ID, "alice", 600)
	require.Error(t, err, "one listing per asset")

	require.NoError(t, env.listings.DeleteListing(asset.ID, "alice"))
	require.EqualValues(t, 100, env.balance(t, "alice"))

	holding, err := env.tokens.Holding(env.db, asset.MasterMint, "alice")
	require.NoError(t, err)
	require.EqualValues(t, 1, holding.Amount)
	require.True(t, holding.Frozen, "freeze state travels through escrow")
}

func TestListingRequiresHolder(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)
	env.fundedWallet(t, "mallory", 100)

	asset := env.publishApp(t, "alice", "Chess", CreateAssetParams{})

	_, err := env.listings.CreateListing(asset.ID, "mallory", 500)
	require.Error(t, err)

	_, err = env.listings.CreateListing(asset.ID, "alice", 500)
	require.NoError(t, err)

	err = env.listings.DeleteListing(asset.ID, "mallory")
	require.Error(t, err)
}
