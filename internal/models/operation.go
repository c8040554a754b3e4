package models

import "time"

// OperationKind names a router operation
type OperationKind string

const (
	OperationDeposit  OperationKind = "deposit"
	OperationWithdraw OperationKind = "withdraw"
	OperationSwap     OperationKind = "swap"
)

// OperationEvent is one submitted router operation.
// Amounts are raw token units; for a swap AmountA/AmountB are the A and B
// legs of the trade in whichever direction AToB says.
type OperationEvent struct {
	Signature string        `json:"signature"`
	Timestamp time.Time     `json:"timestamp"`
	Kind      OperationKind `json:"kind"`
	Pool      string        `json:"pool"` // swap account
	User      string        `json:"user"`
	AmountA   uint64        `json:"amount_a"`
	AmountB   uint64        `json:"amount_b"`
	LPAmount  uint64        `json:"lp_amount"`
	AToB      bool          `json:"a_to_b,omitempty"`

	// Pool state the quote was computed from
	ReserveA uint64 `json:"reserve_a"`
	ReserveB uint64 `json:"reserve_b"`
	LPSupply uint64 `json:"lp_supply"`
}
