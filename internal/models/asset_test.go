package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckSupply(t *testing.T) {
	asset := &Asset{}
	require.NoError(t, asset.CheckSupply(), "absent supply means uncapped")

	zero := uint64(0)
	asset.Supply = &zero
	require.NoError(t, asset.CheckSupply(), "zero supply means uncapped")

	two := uint64(2)
	asset.Supply = &two
	asset.TotalInstalls = 1
	require.NoError(t, asset.CheckSupply())

	asset.TotalInstalls = 2
	require.ErrorIs(t, asset.CheckSupply(), ErrInstallExceedsSupply)
}

func TestNextEdition(t *testing.T) {
	asset := &Asset{}

	for want := uint64(0); want < 3; want++ {
		edition, err := asset.NextEdition()
		require.NoError(t, err)
		require.Equal(t, want, edition)
	}
	require.EqualValues(t, 3, asset.TotalInstalls)

	asset.TotalInstalls = math.MaxUint64
	_, err := asset.NextEdition()
	require.ErrorIs(t, err, ErrArithmeticOverflow)
	require.EqualValues(t, uint64(math.MaxUint64), asset.TotalInstalls)
}

func TestRatingAggregate(t *testing.T) {
	asset := &Asset{}

	require.NoError(t, asset.AddRating(5))
	require.NoError(t, asset.AddRating(3))
	require.EqualValues(t, 8, asset.TotalRating)
	require.EqualValues(t, 2, asset.NumRatings)
	require.InDelta(t, 4.0, asset.AverageRating(), 0.001)

	require.NoError(t, asset.RemoveRating(5))
	require.EqualValues(t, 3, asset.TotalRating)
	require.EqualValues(t, 1, asset.NumRatings)

	// Underflow is a hard failure, not a wrap.
	require.ErrorIs(t, asset.RemoveRating(4), ErrArithmeticUnderflow)
	require.NoError(t, asset.RemoveRating(3))
	require.ErrorIs(t, asset.RemoveRating(0), ErrArithmeticUnderflow)
	require.Zero(t, asset.AverageRating())
}

func TestVerifyInstallAuthority(t *testing.T) {
	asset := &Asset{}
	require.NoError(t, asset.VerifyInstallAuthority("anyone"), "ungated assets accept any signer")

	gate := "gate"
	asset.InstallAuthority = &gate
	require.NoError(t, asset.VerifyInstallAuthority("gate"))
	require.ErrorIs(t, asset.VerifyInstallAuthority("other"), ErrInstallAuthorityMismatch)
}

func TestWalletArithmetic(t *testing.T) {
	w := &Wallet{Balance: 100}

	require.NoError(t, w.Debit(60))
	require.EqualValues(t, 40, w.Balance)
	require.ErrorIs(t, w.Debit(41), ErrInsufficientFunds)
	require.EqualValues(t, 40, w.Balance)

	require.NoError(t, w.Credit(10))
	w.Balance = math.MaxUint64
	require.ErrorIs(t, w.Credit(1), ErrArithmeticOverflow)
}
