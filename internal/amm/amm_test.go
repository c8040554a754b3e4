package amm

import (
	"math"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteDeposit(t *testing.T) {
	pool := PoolReserves{BalanceA: 1_000_000, BalanceB: 2_000_000}

	tests := []struct {
		name     string
		reserves PoolReserves
		supply   uint64
		intent   DepositIntent
		want     DepositQuote
		wantErr  error
	}{
		{
			name:     "initial deposit uses requested amounts",
			reserves: PoolReserves{},
			intent:   DepositIntent{MaxA: 1000, MaxB: 2000},
			want:     DepositQuote{MinLPOut: 1, AmountA: 1000, AmountB: 2000},
		},
		{
			name:     "initial deposit with one side",
			reserves: PoolReserves{},
			intent:   DepositIntent{MaxA: 0, MaxB: 2000},
			wantErr:  ErrInvalidIntent,
		},
		{
			name:     "one empty reserve is treated as empty pool",
			reserves: PoolReserves{BalanceA: 500},
			intent:   DepositIntent{MaxA: 10, MaxB: 20},
			want:     DepositQuote{MinLPOut: 1, AmountA: 10, AmountB: 20},
		},
		{
			name:     "both amounts zero",
			reserves: pool,
			supply:   1_000_000,
			intent:   DepositIntent{},
			wantErr:  ErrInvalidIntent,
		},
		{
			name:     "derive a from b rounds down by one",
			reserves: pool,
			supply:   1_000_000,
			intent:   DepositIntent{MaxB: 2000},
			want:     DepositQuote{MinLPOut: 999, AmountA: 999, AmountB: 2001},
		},
		{
			name:     "derive b from a adds one",
			reserves: pool,
			supply:   1_000_000,
			intent:   DepositIntent{MaxA: 1000},
			want:     DepositQuote{MinLPOut: 1000, AmountA: 1000, AmountB: 2001},
		},
		{
			name:     "derived a below two becomes zero",
			reserves: PoolReserves{BalanceA: 1, BalanceB: 1_000_000},
			supply:   1000,
			intent:   DepositIntent{MaxB: 1000},
			want:     DepositQuote{MinLPOut: 1, AmountA: 0, AmountB: 1001},
		},
		{
			name:     "two sided takes the binding side",
			reserves: pool,
			supply:   1_000_000,
			intent:   DepositIntent{MaxA: 500, MaxB: 3000},
			want:     DepositQuote{MinLPOut: 500, AmountA: 500, AmountB: 3001},
		},
		{
			name:     "tiny deposit still guards for one lp token",
			reserves: pool,
			supply:   1,
			intent:   DepositIntent{MaxA: 1, MaxB: 1},
			want:     DepositQuote{MinLPOut: 1, AmountA: 1, AmountB: 2},
		},
		{
			name:     "final b increment overflows",
			reserves: PoolReserves{BalanceA: 1, BalanceB: 1},
			supply:   1,
			intent:   DepositIntent{MaxA: 1, MaxB: math.MaxUint64},
			wantErr:  ErrArithmeticOverflow,
		},
		{
			name:     "derived a overflows",
			reserves: PoolReserves{BalanceA: math.MaxUint64, BalanceB: 1},
			supply:   1,
			intent:   DepositIntent{MaxB: 2},
			wantErr:  ErrArithmeticOverflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QuoteDeposit(tt.reserves, tt.supply, tt.intent)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteDeposit_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		reserves := PoolReserves{
			BalanceA: uint64(rng.Int63n(1<<32)) + 1,
			BalanceB: uint64(rng.Int63n(1<<32)) + 1,
		}
		supply := uint64(rng.Int63n(1<<32)) + 1
		intent := DepositIntent{
			MaxA: uint64(rng.Int63n(1 << 30)),
			MaxB: uint64(rng.Int63n(1 << 30)),
		}
		if intent.MaxA == 0 && intent.MaxB == 0 {
			continue
		}

		q, err := QuoteDeposit(reserves, supply, intent)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, q.MinLPOut, uint64(1))

		switch {
		case intent.MaxA == 0:
			est := reserves.BalanceA * intent.MaxB / reserves.BalanceB
			assert.LessOrEqual(t, q.AmountA, est)
			assert.Equal(t, intent.MaxB+1, q.AmountB)
		case intent.MaxB == 0:
			assert.Equal(t, intent.MaxA, q.AmountA)
		default:
			assert.LessOrEqual(t, q.AmountA, intent.MaxA)
			assert.LessOrEqual(t, q.AmountB, intent.MaxB+1)
		}
	}
}

func TestQuoteWithdrawal(t *testing.T) {
	tests := []struct {
		name     string
		reserves PoolReserves
		supply   uint64
		lp       uint64
		want     WithdrawalQuote
		wantErr  error
	}{
		{
			name:     "exact half",
			reserves: PoolReserves{BalanceA: 1_000_000, BalanceB: 2_000_000},
			supply:   1_000_000,
			lp:       500_000,
			want:     WithdrawalQuote{MinA: 500_000, MinB: 1_000_000},
		},
		{
			name:     "zero lp amount",
			reserves: PoolReserves{BalanceA: 10, BalanceB: 10},
			supply:   10,
			wantErr:  ErrInvalidIntent,
		},
		{
			name:     "empty pool is a no-op",
			reserves: PoolReserves{},
			lp:       42,
		},
		{
			name:     "no supply is a no-op",
			reserves: PoolReserves{BalanceA: 10, BalanceB: 10},
			lp:       42,
		},
		{
			name:     "shares are floored",
			reserves: PoolReserves{BalanceA: 10, BalanceB: 7},
			supply:   3,
			lp:       1,
			want:     WithdrawalQuote{MinA: 3, MinB: 2},
		},
		{
			name:     "near max reserves with full stake",
			reserves: PoolReserves{BalanceA: math.MaxUint64, BalanceB: math.MaxUint64},
			supply:   math.MaxUint64,
			lp:       math.MaxUint64,
			want:     WithdrawalQuote{MinA: math.MaxUint64, MinB: math.MaxUint64},
		},
		{
			name:     "near max reserves with stake just below one",
			reserves: PoolReserves{BalanceA: math.MaxUint64, BalanceB: math.MaxUint64 - 1},
			supply:   math.MaxUint64,
			lp:       math.MaxUint64 - 1,
			want:     WithdrawalQuote{MinA: math.MaxUint64 - 1, MinB: math.MaxUint64 - 2},
		},
		{
			name:     "stake above one overflows instead of wrapping",
			reserves: PoolReserves{BalanceA: math.MaxUint64, BalanceB: 1},
			supply:   10,
			lp:       11,
			wantErr:  ErrArithmeticOverflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QuoteWithdrawal(tt.reserves, tt.supply, tt.lp)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteSwap(t *testing.T) {
	reserves := PoolReserves{BalanceA: 1_000_000, BalanceB: 1_000_000}

	q, err := QuoteSwap(reserves, SwapIntent{AIn: 1000})
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), q.AmountIn)
	assert.True(t, q.AToB)
	assert.Equal(t, uint64(996), q.MinAmountOut)

	// x*y=k without the fee
	noFee := reserves.BalanceB - reserves.BalanceA*reserves.BalanceB/(reserves.BalanceA+1000)
	assert.Less(t, q.MinAmountOut, noFee)
	assert.Greater(t, q.MinAmountOut, uint64(0))

	again, err := QuoteSwap(reserves, SwapIntent{AIn: 1000})
	require.NoError(t, err)
	assert.Equal(t, q, again)
}

func TestQuoteSwap_BToA(t *testing.T) {
	q, err := QuoteSwap(PoolReserves{BalanceA: 1_000_000, BalanceB: 2_000_000}, SwapIntent{BIn: 2000})
	require.NoError(t, err)
	assert.False(t, q.AToB)
	assert.Equal(t, uint64(2000), q.AmountIn)
	assert.Equal(t, uint64(996), q.MinAmountOut)
}

func TestQuoteSwap_Errors(t *testing.T) {
	_, err := QuoteSwap(PoolReserves{BalanceA: 10, BalanceB: 10}, SwapIntent{})
	assert.ErrorIs(t, err, ErrInvalidIntent)

	_, err = QuoteSwap(PoolReserves{BalanceA: 10, BalanceB: 10}, SwapIntent{AIn: 1, BIn: 1})
	assert.ErrorIs(t, err, ErrInvalidIntent)

	_, err = QuoteSwap(PoolReserves{BalanceA: 0, BalanceB: 500}, SwapIntent{AIn: 100})
	assert.ErrorIs(t, err, ErrEmptyPool)
	assert.Contains(t, err.Error(), "412")
}

func TestQuoteSwap_Extremes(t *testing.T) {
	// dust is eaten by the fee
	q, err := QuoteSwap(PoolReserves{BalanceA: 100, BalanceB: 100}, SwapIntent{AIn: 1})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), q.MinAmountOut)

	q, err = QuoteSwap(PoolReserves{BalanceA: math.MaxUint64, BalanceB: math.MaxUint64}, SwapIntent{AIn: math.MaxUint64})
	require.NoError(t, err)
	assert.Less(t, q.MinAmountOut, uint64(math.MaxUint64))
	assert.Greater(t, q.MinAmountOut, uint64(math.MaxUint64/3))
}

func TestSwapQuote_WithSlippageFloor(t *testing.T) {
	q := SwapQuote{AmountIn: 1000, MinAmountOut: 996}
	assert.Equal(t, uint64(1000), q.WithSlippageFloor(1000).MinAmountOut)
	assert.Equal(t, uint64(996), q.WithSlippageFloor(10).MinAmountOut)
}

func TestCheckedCast(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{in: "0", want: 0},
		{in: "1.999", want: 1},
		{in: "18446744073709551615.9", want: math.MaxUint64},
		{in: "18446744073709551616", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "-0.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := CheckedCast(decimal.RequireFromString(tt.in))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrArithmeticOverflow)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount("1.5", 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_500_000_000), got)

	got, err = ParseAmount(" 0.0000001 ", 6)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got)

	_, err = ParseAmount("abc", 6)
	assert.ErrorIs(t, err, ErrInvalidIntent)

	_, err = ParseAmount("20000000000", 9)
	assert.ErrorIs(t, err, ErrArithmeticOverflow)

	assert.Equal(t, "1.5", FormatAmount(1_500_000_000, 9))
}
