package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xnftlabs/backend/internal/models"
)

func TestTransfer(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)
	env.fundedWallet(t, "bob", 100)

	asset := env.publishApp(t, "alice", "Chess", CreateAssetParams{})

	require.NoError(t, env.transfer.Transfer(asset.ID, "alice", "bob"))

	// The unit landed with bob, frozen again, and alice's account is gone.
	holding, err := env.tokens.Holding(env.db, asset.MasterMint, "bob")
	require.NoError(t, err)
	require.EqualValues(t, 1, holding.Amount)
	require.True(t, holding.Frozen)

	_, err = env.tokens.Holding(env.db, asset.MasterMint, "alice")
	require.Error(t, err)

	// Ownership-gated operations now answer to bob.
	require.NoError(t, env.assets.SetSuspended(asset.ID, "bob", true))
	err = env.assets.SetSuspended(asset.ID, "alice", false)
	require.ErrorIs(t, err, models.ErrUpdateAuthorityMismatch)
}

func TestTransferRequiresHolder(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)
	env.fundedWallet(t, "mallory", 100)

	asset := env.publishApp(t, "alice", "Chess", CreateAssetParams{})

	err := env.transfer.Transfer(asset.ID, "mallory", "mallory")
	require.Error(t, err)

	// Alice still holds the token.
	holding, err := env.tokens.Holding(env.db, asset.MasterMint, "alice")
	require.NoError(t, err)
	require.EqualValues(t, 1, holding.Amount)
}

func TestTransferChain(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)
	env.fundedWallet(t, "bob", 100)
	env.fundedWallet(t, "carol", 100)

	asset := env.publishApp(t, "alice", "Chess", CreateAssetParams{})

	require.NoError(t, env.transfer.Transfer(asset.ID, "alice", "bob"))
	require.NoError(t, env.transfer.Transfer(asset.ID, "bob", "carol"))

	owner, err := env.tokens.OwnerOf(env.db, asset.MasterMint)
	require.NoError(t, err)
	require.Equal(t, "carol", owner)

	// Exactly one token account remains for the mint.
	var count int64
	require.NoError(t, env.db.Model(&models.TokenAccount{}).Where("mint = ?", asset.MasterMint).Count(&count).Error)
	require.EqualValues(t, 1, count)
}
