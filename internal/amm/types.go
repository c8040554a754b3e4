package amm

// PoolReserves holds the balances of the pool's two reserve token accounts
// as read at quote time. Values are never reused across calls.
type PoolReserves struct {
	BalanceA uint64 `json:"balance_a"`
	BalanceB uint64 `json:"balance_b"`
}

// HasEmptySide reports whether either reserve is zero
func (r PoolReserves) HasEmptySide() bool {
	return r.BalanceA == 0 || r.BalanceB == 0
}

// DepositIntent is the caller's upper bound on tokens to contribute
type DepositIntent struct {
	MaxA uint64 `json:"max_a"`
	MaxB uint64 `json:"max_b"`
}

// SwapIntent carries the offered amount on exactly one side
type SwapIntent struct {
	AIn uint64 `json:"a_in"`
	BIn uint64 `json:"b_in"`
}

// AToB reports whether token A is being sold
func (i SwapIntent) AToB() bool {
	return i.AIn > 0
}

// DepositQuote is forwarded as DepositAllTokenTypes parameters
type DepositQuote struct {
	MinLPOut uint64 `json:"min_lp_out"` // pool_token_amount
	AmountA  uint64 `json:"amount_a"`   // maximum_token_a_amount
	AmountB  uint64 `json:"amount_b"`   // maximum_token_b_amount
}

// WithdrawalQuote is forwarded as WithdrawAllTokenTypes minimums
type WithdrawalQuote struct {
	MinA uint64 `json:"min_a"`
	MinB uint64 `json:"min_b"`
}

// SwapQuote is forwarded as Swap parameters
type SwapQuote struct {
	AmountIn     uint64 `json:"amount_in"`
	MinAmountOut uint64 `json:"min_amount_out"`
	AToB         bool   `json:"a_to_b"`
}

// WithSlippageFloor returns the quote with the caller's minimum output
// applied when it is stricter than the computed one
func (q SwapQuote) WithSlippageFloor(minOut uint64) SwapQuote {
	if minOut > q.MinAmountOut {
		q.MinAmountOut = minOut
	}
	return q
}
