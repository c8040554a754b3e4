package reserves

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/aman-zulfiqar/solana-lp-router/internal/rpc"
)

// RPCFetcher loads accounts with getMultipleAccounts
type RPCFetcher struct {
	client     *rpc.Client
	commitment string
}

// NewRPCFetcher creates a fetcher using the project's RPC client
func NewRPCFetcher(client *rpc.Client, commitment string) *RPCFetcher {
	if commitment == "" {
		commitment = "confirmed"
	}
	return &RPCFetcher{client: client, commitment: commitment}
}

// FetchAccounts implements AccountFetcher
func (f *RPCFetcher) FetchAccounts(ctx context.Context, keys ...solana.PublicKey) ([]*Account, error) {
	addrs := make([]string, len(keys))
	for i, k := range keys {
		addrs[i] = k.String()
	}

	resp, err := f.client.GetMultipleAccounts(ctx, f.commitment, addrs...)
	if err != nil {
		return nil, err
	}

	out := make([]*Account, len(keys))
	for i, info := range resp.Result.Value {
		if info == nil {
			continue
		}

		owner, err := solana.PublicKeyFromBase58(info.Owner)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: invalid owner: %v", ErrAccountRead, keys[i], err)
		}
		data, err := info.DecodeData()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrAccountRead, keys[i], err)
		}

		out[i] = &Account{Key: keys[i], Owner: owner, Data: data}
	}

	return out, nil
}
