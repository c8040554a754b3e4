package amm

import "fmt"

// QuoteDeposit computes the amounts to pass to DepositAllTokenTypes.
//
// On an empty pool the requested maxima are used verbatim and set the opening
// ratio. Otherwise a missing side is derived from the reserve ratio: a derived
// A is rounded down by one, and the returned B always carries one extra unit
// so the pool receives at least its proportional share.
func QuoteDeposit(reserves PoolReserves, lpSupply uint64, intent DepositIntent) (DepositQuote, error) {
	if intent.MaxA == 0 && intent.MaxB == 0 {
		return DepositQuote{}, fmt.Errorf("%w: at least one of token amounts must be non-zero", ErrInvalidIntent)
	}

	if reserves.HasEmptySide() {
		if intent.MaxA == 0 || intent.MaxB == 0 {
			return DepositQuote{}, fmt.Errorf("%w: both amounts required for initial deposit", ErrInvalidIntent)
		}
		return DepositQuote{MinLPOut: 1, AmountA: intent.MaxA, AmountB: intent.MaxB}, nil
	}

	amountA, amountB := intent.MaxA, intent.MaxB

	switch {
	case intent.MaxA == 0:
		est, err := mulDiv(reserves.BalanceA, intent.MaxB, reserves.BalanceB)
		if err != nil {
			return DepositQuote{}, err
		}
		amountA = 0
		if est > 1 {
			amountA = est - 1
		}
	case intent.MaxB == 0:
		est, err := mulDiv(reserves.BalanceB, intent.MaxA, reserves.BalanceA)
		if err != nil {
			return DepositQuote{}, err
		}
		amountB = est
	}

	minLP, err := estimateLPOut(reserves, lpSupply, amountA, amountB)
	if err != nil {
		return DepositQuote{}, err
	}

	finalB, err := checkedAdd(amountB, 1)
	if err != nil {
		return DepositQuote{}, err
	}

	return DepositQuote{MinLPOut: minLP, AmountA: amountA, AmountB: finalB}, nil
}

// estimateLPOut is min(a/balanceA, b/balanceB) * supply, each share floored.
// Any successful deposit mints at least one LP token, so the result is never
// below 1.
func estimateLPOut(reserves PoolReserves, lpSupply, amountA, amountB uint64) (uint64, error) {
	byA, err := mulDiv(amountA, lpSupply, reserves.BalanceA)
	if err != nil {
		return 0, err
	}
	byB, err := mulDiv(amountB, lpSupply, reserves.BalanceB)
	if err != nil {
		return 0, err
	}

	out := min(byA, byB)
	if out < 1 {
		out = 1
	}
	return out, nil
}
