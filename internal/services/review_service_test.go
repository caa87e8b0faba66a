package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xnftlabs/backend/internal/models"
)

const reviewUri = "https://example.com/review.json"

func TestCreateReview(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)
	env.fundedWallet(t, "bob", 100)

	asset := env.publishApp(t, "alice", "Chess", CreateAssetParams{})
	_, err := env.installs.CreateInstall(asset.ID, "bob", "")
	require.NoError(t, err)

	review, err := env.reviews.CreateReview(context.Background(), asset.ID, "bob", reviewUri, 4, "")
	require.NoError(t, err)
	require.EqualValues(t, 4, review.Rating)

	updated := env.reloadAsset(t, asset)
	require.EqualValues(t, 4, updated.TotalRating)
	require.EqualValues(t, 1, updated.NumRatings)
	require.InDelta(t, 4.0, updated.AverageRating(), 0.001)
}

func TestReviewRatingBounds(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)
	env.fundedWallet(t, "bob", 100)

	asset := env.publishApp(t, "alice", "Chess", CreateAssetParams{})
	_, err := env.installs.CreateInstall(asset.ID, "bob", "")
	require.NoError(t, err)

	_, err = env.reviews.CreateReview(context.Background(), asset.ID, "bob", reviewUri, 6, "")
	require.ErrorIs(t, err, models.ErrRatingOutOfBounds)

	// Zero is a legal rating.
	_, err = env.reviews.CreateReview(context.Background(), asset.ID, "bob", reviewUri, 0, "")
	require.NoError(t, err)
}

func TestReviewRequiresInstall(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)
	env.fundedWallet(t, "bob", 100)

	asset := env.publishApp(t, "alice", "Chess", CreateAssetParams{})

	_, err := env.reviews.CreateReview(context.Background(), asset.ID, "bob", reviewUri, 3, "")
	require.ErrorIs(t, err, models.ErrReviewInstallMismatch)
}

func TestReviewCannotReviewOwned(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)
	env.fundedWallet(t, "bob", 100)

	asset := env.publishApp(t, "alice", "Chess", CreateAssetParams{})

	// The publisher cannot review its own asset even with an install.
	_, err := env.installs.CreateInstall(asset.ID, "alice", "")
	require.NoError(t, err)
	_, err = env.reviews.CreateReview(context.Background(), asset.ID, "alice", reviewUri, 5, "")
	require.ErrorIs(t, err, models.ErrCannotReviewOwned)

	// Neither can the current token holder after a transfer.
	require.NoError(t, env.transfer.Transfer(asset.ID, "alice", "bob"))
	_, err = env.installs.CreateInstall(asset.ID, "bob", "")
	require.NoError(t, err)
	_, err = env.reviews.CreateReview(context.Background(), asset.ID, "bob", reviewUri, 5, "")
	require.ErrorIs(t, err, models.ErrCannotReviewOwned)
}

func TestReviewMustBeApp(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)
	env.fundedWallet(t, "bob", 100)

	mint, err := env.tokens.Mint(env.db, "alice")
	require.NoError(t, err)
	require.NoError(t, env.metadata.Create(env.db, &models.Metadata{
		Mint: mint, Name: "Crystal", Uri: "https://x.com/c.json",
		IsMutable: true, UpdateAuthority: "alice",
	}))
	asset, err := env.assets.CreateAssociatedAsset("alice", models.KindCollectible, mint, CreateAssetParams{})
	require.NoError(t, err)

	_, err = env.reviews.CreateReview(context.Background(), asset.ID, "bob", reviewUri, 3, "")
	require.ErrorIs(t, err, models.ErrMustBeApp)
}

func TestReviewDuplicateRejected(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)
	env.fundedWallet(t, "bob", 100)

	asset := env.publishApp(t, "alice", "Chess", CreateAssetParams{})
	_, err := env.installs.CreateInstall(asset.ID, "bob", "")
	require.NoError(t, err)

	_, err = env.reviews.CreateReview(context.Background(), asset.ID, "bob", reviewUri, 4, "")
	require.NoError(t, err)
	_, err = env.reviews.CreateReview(context.Background(), asset.ID, "bob", reviewUri, 2, "")
	require.Error(t, err)

	updated := env.reloadAsset(t, asset)
	require.EqualValues(t, 4, updated.TotalRating)
	require.EqualValues(t, 1, updated.NumRatings)
}

func TestDeleteReviewBacksOutRating(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)
	env.fundedWallet(t, "bob", 100)
	env.fundedWallet(t, "carol", 100)

	asset := env.publishApp(t, "alice", "Chess", CreateAssetParams{})
	for _, who := range []string{"bob", "carol"} {
		_, err := env.installs.CreateInstall(asset.ID, who, "")
		require.NoError(t, err)
	}

	bobReview, err := env.reviews.CreateReview(context.Background(), asset.ID, "bob", reviewUri, 5, "")
	require.NoError(t, err)
	_, err = env.reviews.CreateReview(context.Background(), asset.ID, "carol", reviewUri, 3, "")
	require.NoError(t, err)

	require.EqualValues(t, 8, env.reloadAsset(t, asset).TotalRating)

	err = env.reviews.DeleteReview(context.Background(), bobReview.ID, "mallory", "")
	require.Error(t, err)

	balanceBefore := env.balance(t, "bob")
	require.NoError(t, env.reviews.DeleteReview(context.Background(), bobReview.ID, "bob", ""))

	updated := env.reloadAsset(t, asset)
	require.EqualValues(t, 3, updated.TotalRating)
	require.EqualValues(t, 1, updated.NumRatings)
	require.EqualValues(t, balanceBefore+testDeposit, env.balance(t, "bob"))
}

func TestDeleteReviewConcurrentSingleDecrement(t *testing.T) {
	env := newTestEnv(t)
	env.fundedWallet(t, "alice", 100)
	env.fundedWallet(t, "bob", 100)
	env.fundedWallet(t, "carol", 100)

	asset := env.publishApp(t, "alice", "Chess", CreateAssetParams{})
	for _, who := range []string{"bob", "carol"} {
		_, err := env.installs.CreateInstall(asset.ID, who, "")
		require.NoError(t, err)
	}

	bobReview, err := env.reviews.CreateReview(context.Background(), asset.ID, "bob", reviewUri, 4, "")
	require.NoError(t, err)
	_, err = env.reviews.CreateReview(context.Background(), asset.ID, "carol", reviewUri, 5, "")
	require.NoError(t, err)

	balanceBefore := env.balance(t, "bob")

	// Two racing deletes of the same review: the loser must not back the
	// rating out of the aggregate a second time or double-refund.
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- env.reviews.DeleteReview(context.Background(), bobReview.ID, "bob", "")
		}()
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		if err == nil {
			won++
		} else {
			lost++
		}
	}
	require.Equal(t, 1, won)
	require.Equal(t, 1, lost)

	// Carol's review is the only survivor and the aggregate matches it.
	updated := env.reloadAsset(t, asset)
	require.EqualValues(t, 5, updated.TotalRating)
	require.EqualValues(t, 1, updated.NumRatings)
	require.EqualValues(t, balanceBefore+testDeposit, env.balance(t, "bob"), "deposit refunded exactly once")
}
