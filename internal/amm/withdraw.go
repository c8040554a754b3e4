package amm

import "fmt"

// QuoteWithdrawal computes the minimum A and B amounts returned for burning
// lpAmount liquidity tokens. The caller resolves "withdraw everything" into a
// concrete amount before calling.
func QuoteWithdrawal(reserves PoolReserves, lpSupply, lpAmount uint64) (WithdrawalQuote, error) {
	if lpAmount == 0 {
		return WithdrawalQuote{}, fmt.Errorf("%w: LP token amount must be non-zero", ErrInvalidIntent)
	}

	// nothing to withdraw from an empty or supply-less pool
	if (reserves.BalanceA == 0 && reserves.BalanceB == 0) || lpSupply == 0 {
		return WithdrawalQuote{}, nil
	}

	minA, err := mulDiv(reserves.BalanceA, lpAmount, lpSupply)
	if err != nil {
		return WithdrawalQuote{}, fmt.Errorf("token a share: %w", err)
	}
	minB, err := mulDiv(reserves.BalanceB, lpAmount, lpSupply)
	if err != nil {
		return WithdrawalQuote{}, fmt.Errorf("token b share: %w", err)
	}

	return WithdrawalQuote{MinA: minA, MinB: minB}, nil
}
