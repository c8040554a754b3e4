package server

import (
	"github.com/aman-zulfiqar/solana-lp-router/internal/amm"
	"github.com/aman-zulfiqar/solana-lp-router/internal/reserves"
)

// ErrorResponse represents a standardized error response format
type ErrorResponse struct {
	Error   string `json:"error"`             // Human-readable error message
	Code    int    `json:"code"`              // HTTP status code
	Details any    `json:"details,omitempty"` // Additional error details (dev mode only)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	OK    bool `json:"ok"`
	Pools int  `json:"pools"`
}

// PoolSource selects the pool state a quote runs against: a configured pool
// read live, or caller-supplied reserves and supply
type PoolSource struct {
	Pool     string            `json:"pool,omitempty"`
	Reserves *amm.PoolReserves `json:"reserves,omitempty"`
	LPSupply uint64            `json:"lp_supply,omitempty"`
}

// DepositQuoteRequest asks for a deposit quote
type DepositQuoteRequest struct {
	PoolSource
	MaxA uint64 `json:"max_a"`
	MaxB uint64 `json:"max_b"`
}

// WithdrawQuoteRequest asks for a withdrawal quote
type WithdrawQuoteRequest struct {
	PoolSource
	LPAmount uint64 `json:"lp_amount"`
}

// SwapQuoteRequest asks for a swap quote
type SwapQuoteRequest struct {
	PoolSource
	AIn    uint64 `json:"a_in"`
	BIn    uint64 `json:"b_in"`
	MinOut uint64 `json:"min_out"`
}

// QuoteResponse carries a quote and the pool state it was computed from
type QuoteResponse struct {
	Pool     string            `json:"pool,omitempty"`
	Snapshot reserves.Snapshot `json:"snapshot"`
	Quote    any               `json:"quote"`
}

// PoolResponse describes one configured pool
type PoolResponse struct {
	Name       string `json:"name"`
	ProgramID  string `json:"program_id"`
	Swap       string `json:"swap_account"`
	TokenMintA string `json:"token_mint_a"`
	TokenMintB string `json:"token_mint_b"`
	DecimalsA  uint8  `json:"decimals_a"`
	DecimalsB  uint8  `json:"decimals_b"`
	PoolMint   string `json:"pool_mint"`
}

// FlagUpsertRequest represents a request to create or update a switch
type FlagUpsertRequest struct {
	Key    string `json:"key"`
	Value  bool   `json:"value"`
	Reason string `json:"reason"`
}

// FlagUpdateRequest represents a request to update an existing switch
type FlagUpdateRequest struct {
	Value  bool   `json:"value"`
	Reason string `json:"reason"`
}
