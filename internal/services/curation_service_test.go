package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xnftlabs/backend/internal/models"
)

func TestSetCurator(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)

	asset := env.publishApp(t, "alice", "Chess", CreateAssetParams{})

	err := env.curation.SetCurator(asset.ID, "mallory", "carol")
	require.ErrorIs(t, err, models.ErrUpdateAuthorityMismatch)

	require.NoError(t, env.curation.SetCurator(asset.ID, "alice", "carol"))

	updated := env.reloadAsset(t, asset)
	require.Equal(t, "carol", *updated.CuratorAddress)
	require.False(t, updated.CuratorVerified, "a fresh curator starts unverified")
}

func TestSetCuratorVerification(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)

	asset := env.publishApp(t, "alice", "Chess", CreateAssetParams{})
	require.NoError(t, env.curation.SetCurator(asset.ID, "alice", "carol"))

	// Only the assigned curator can verify, not even the publisher.
	err := env.curation.SetCuratorVerification(asset.ID, "alice", true)
	require.ErrorIs(t, err, models.ErrCuratorMismatch)

	require.NoError(t, env.curation.SetCuratorVerification(asset.ID, "carol", true))
	require.True(t, env.reloadAsset(t, asset).CuratorVerified)
}

func TestSetCuratorWhileVerified(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)

	asset := env.publishApp(t, "alice", "Chess", CreateAssetParams{})
	require.NoError(t, env.curation.SetCurator(asset.ID, "alice", "carol"))

	// Unverified curators can be swapped freely.
	require.NoError(t, env.curation.SetCurator(asset.ID, "alice", "dave"))

	require.NoError(t, env.curation.SetCuratorVerification(asset.ID, "dave", true))
	err := env.curation.SetCurator(asset.ID, "alice", "carol")
	require.ErrorIs(t, err, models.ErrCuratorAlreadySet)

	// After the curator steps down the publisher can reassign.
	require.NoError(t, env.curation.SetCuratorVerification(asset.ID, "dave", false))
	require.NoError(t, env.curation.SetCurator(asset.ID, "alice", "carol"))

	updated := env.reloadAsset(t, asset)
	require.Equal(t, "carol", *updated.CuratorAddress)
	require.False(t, updated.CuratorVerified)
}
