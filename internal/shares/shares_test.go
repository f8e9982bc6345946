package shares

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroInZeroOut(t *testing.T) {
	totals := [][2]uint64{{0, 0}, {1, 1}, {1_000_000, 1_500_000}, {math.MaxUint64 / 2, 7}}
	for _, tt := range totals {
		s, err := AssetsToShares(0, tt[0], tt[1])
		require.NoError(t, err)
		assert.Zero(t, s)

		a, err := SharesToAssets(0, tt[0], tt[1])
		require.NoError(t, err)
		assert.Zero(t, a)
	}
}

func TestBootstrapDeposit(t *testing.T) {
	for _, totalAssets := range []uint64{0, 1, 250_000, math.MaxUint64} {
		s, err := AssetsToShares(1_000_000, 0, totalAssets)
		require.NoError(t, err)
		assert.Equal(t, uint64(1_000_000)*VirtualShares/VirtualAssets, s)
	}

	a, err := SharesToAssets(10, 0, 500)
	require.NoError(t, err)
	assert.Zero(t, a, "an empty share supply redeems nothing")

	rate, err := ExchangeRate(0, 12345)
	require.NoError(t, err)
	assert.Equal(t, RateScale, rate)
}

func TestConversionsAfterReward(t *testing.T) {
	// 1_000_000 shares backed by 1_000_000 assets plus a 500_000 reward.
	rate, err := ExchangeRate(1_000_000, 1_500_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_250_000_000), rate)

	assets, err := SharesToAssets(1_000_000, 1_000_000, 1_500_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_250_000), assets)

	s, err := AssetsToShares(1_250_000, 1_000_000, 1_500_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), s)
}

func TestFloorRounding(t *testing.T) {
	// 10_000 * 3_000_000 / 2_000_001 = 14999.99...
	s, err := AssetsToShares(10_000, 2_000_000, 1_000_001)
	require.NoError(t, err)
	assert.Equal(t, uint64(14_999), s)

	// 7 * 2_000_003 / 2_000_000 = 7.00001...
	a, err := SharesToAssets(7, 1_000_000, 1_000_003)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), a)
}

func TestRoundTripNeverCreatesValue(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5_000; i++ {
		totalShares := uint64(rng.Int63n(1<<40)) + 1
		totalAssets := uint64(rng.Int63n(1 << 40))
		s := uint64(rng.Int63n(int64(totalShares))) + 1

		assets, err := SharesToAssets(s, totalShares, totalAssets)
		require.NoError(t, err)
		back, err := AssetsToShares(assets, totalShares, totalAssets)
		require.NoError(t, err)
		require.LessOrEqual(t, back, s, "shares=%d totalShares=%d totalAssets=%d", s, totalShares, totalAssets)
	}
}

func TestInflationResistance(t *testing.T) {
	const (
		deposit  = uint64(10_000)
		donation = uint64(10_000)
	)
	totalShares := 1_000_000 + VirtualShares
	totalAssets := 1 + VirtualAssets

	shift := func(c Converter) (before, after uint64) {
		var err error
		before, err = c.AssetsToShares(deposit, totalShares, totalAssets)
		require.NoError(t, err)
		after, err = c.AssetsToShares(deposit, totalShares, totalAssets+donation)
		require.NoError(t, err)
		require.GreaterOrEqual(t, before, after)
		return before, after
	}

	before, after := shift(Default)
	assert.Equal(t, uint64(14_999), before)
	assert.Equal(t, uint64(14_925), after)
	assert.Less(t, (before-after)*100, before, "donation moved the share price by 1%% or more")

	rawBefore, rawAfter := shift(Converter{})
	// Compare relative moves without floating point: d1/b1 < d2/b2.
	assert.Less(t, (before-after)*rawBefore, (rawBefore-rawAfter)*before)
}

func TestExchangeRateMonotonicWithoutRewards(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var totalShares, totalAssets uint64
	prev, err := ExchangeRate(totalShares, totalAssets)
	require.NoError(t, err)

	for i := 0; i < 2_000; i++ {
		if totalShares < 2 || rng.Intn(2) == 0 {
			amount := uint64(rng.Int63n(1_000_000_000)) + 1
			minted, err := AssetsToShares(amount, totalShares, totalAssets)
			require.NoError(t, err)
			totalShares += minted
			totalAssets += amount
		} else {
			// Never drain the supply; an empty supply resets the rate.
			burn := uint64(rng.Int63n(int64(totalShares-1))) + 1
			out, err := SharesToAssets(burn, totalShares, totalAssets)
			require.NoError(t, err)
			require.LessOrEqual(t, out, totalAssets)
			totalShares -= burn
			totalAssets -= out
		}
		rate, err := ExchangeRate(totalShares, totalAssets)
		require.NoError(t, err)
		require.GreaterOrEqual(t, rate, prev, "step %d", i)
		prev = rate
	}
}

func TestOverflow(t *testing.T) {
	_, err := SharesToAssets(math.MaxUint64, 1, math.MaxUint64)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = AssetsToShares(math.MaxUint64, math.MaxUint64, 0)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = ExchangeRate(1, math.MaxUint64)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestZeroOffsetsBootstrapDividesByZero(t *testing.T) {
	_, err := Converter{}.AssetsToShares(10, 0, 0)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}
