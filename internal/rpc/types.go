package rpc

import (
	"encoding/base64"
	"fmt"
)

// RPCError represents a JSON-RPC error response
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// ResponseContext is the slot context attached to most account queries
type ResponseContext struct {
	Slot uint64 `json:"slot"`
}

// AccountInfo is a single account as returned with base64 encoding
type AccountInfo struct {
	Lamports   uint64    `json:"lamports"`
	Owner      string    `json:"owner"`
	Data       [2]string `json:"data"` // [payload, encoding]
	Executable bool      `json:"executable"`
}

// DecodeData returns the raw account bytes
func (a *AccountInfo) DecodeData() ([]byte, error) {
	if a.Data[1] != "base64" {
		return nil, fmt.Errorf("unsupported account encoding %q", a.Data[1])
	}
	return base64.StdEncoding.DecodeString(a.Data[0])
}

// MultipleAccountsResponse is the response from getMultipleAccounts.
// Missing accounts are returned as nil entries.
type MultipleAccountsResponse struct {
	Result *struct {
		Context ResponseContext `json:"context"`
		Value   []*AccountInfo  `json:"value"`
	} `json:"result"`
	Error *RPCError `json:"error"`
}

// LatestBlockhashResponse is the response from getLatestBlockhash
type LatestBlockhashResponse struct {
	Result *struct {
		Context ResponseContext `json:"context"`
		Value   struct {
			Blockhash            string `json:"blockhash"`
			LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
		} `json:"value"`
	} `json:"result"`
	Error *RPCError `json:"error"`
}

// SendTransactionResponse is the response from sendTransaction
type SendTransactionResponse struct {
	Result string    `json:"result"`
	Error  *RPCError `json:"error"`
}

// SimulationValue holds the outcome of simulateTransaction
type SimulationValue struct {
	Err           interface{} `json:"err"`
	Logs          []string    `json:"logs"`
	UnitsConsumed uint64      `json:"unitsConsumed,omitempty"`
}

// SimulateTransactionResponse is the response from simulateTransaction
type SimulateTransactionResponse struct {
	Result *struct {
		Context ResponseContext `json:"context"`
		Value   SimulationValue `json:"value"`
	} `json:"result"`
	Error *RPCError `json:"error"`
}

// SignatureStatus is one entry of getSignatureStatuses
type SignatureStatus struct {
	Slot               uint64      `json:"slot"`
	Confirmations      *int        `json:"confirmations"`
	Err                interface{} `json:"err"`
	ConfirmationStatus string      `json:"confirmationStatus"`
}

// SignatureStatusesResponse is the response from getSignatureStatuses
type SignatureStatusesResponse struct {
	Result *struct {
		Context ResponseContext    `json:"context"`
		Value   []*SignatureStatus `json:"value"`
	} `json:"result"`
	Error *RPCError `json:"error"`
}
