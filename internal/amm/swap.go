package amm

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Trade fee charged on the offered amount: 30 bps
const (
	FeeNumerator   = 3
	FeeDenominator = 1000
)

// QuoteSwap computes the amount to forward and the minimum acceptable output
// for a constant-product swap. The fee is taken from the offered amount
// before the x*y=k step; the offered amount itself is what gets forwarded.
func QuoteSwap(reserves PoolReserves, intent SwapIntent) (SwapQuote, error) {
	if (intent.AIn == 0) == (intent.BIn == 0) {
		return SwapQuote{}, fmt.Errorf("%w: one and only one of token amounts must be non-zero", ErrInvalidIntent)
	}
	if reserves.HasEmptySide() {
		return SwapQuote{}, fmt.Errorf("%w (code %d)", ErrEmptyPool, EmptyPoolCode)
	}

	offered, reserveIn, reserveOut := intent.BIn, reserves.BalanceB, reserves.BalanceA
	if intent.AToB() {
		offered, reserveIn, reserveOut = intent.AIn, reserves.BalanceA, reserves.BalanceB
	}

	out, err := SwapOutput(offered, reserveIn, reserveOut)
	if err != nil {
		return SwapQuote{}, err
	}

	return SwapQuote{AmountIn: offered, MinAmountOut: out, AToB: intent.AToB()}, nil
}

// SwapOutput returns reserveOut - reserveIn*reserveOut/(reserveIn+effectiveIn)
// for effectiveIn = floor(amountIn * (1 - fee)). The subtraction is folded
// into reserveOut*effectiveIn/(reserveIn+effectiveIn) so that the single
// division rounds the output down.
func SwapOutput(amountIn, reserveIn, reserveOut uint64) (uint64, error) {
	if reserveIn == 0 || reserveOut == 0 {
		return 0, fmt.Errorf("%w (code %d)", ErrEmptyPool, EmptyPoolCode)
	}

	effectiveIn, err := mulDiv(amountIn, FeeDenominator-FeeNumerator, FeeDenominator)
	if err != nil {
		return 0, err
	}

	num := new(uint256.Int).Mul(uint256.NewInt(reserveOut), uint256.NewInt(effectiveIn))
	den := new(uint256.Int).Add(uint256.NewInt(reserveIn), uint256.NewInt(effectiveIn))
	return toUint64(num.Div(num, den))
}
