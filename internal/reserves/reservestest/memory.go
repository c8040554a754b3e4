// Package reservestest provides an in-memory AccountFetcher holding SPL
// token accounts and mints laid out exactly as on chain.
package reservestest

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/aman-zulfiqar/solana-lp-router/internal/reserves"
)

// Fetcher is a concurrency-safe in-memory AccountFetcher
type Fetcher struct {
	mu       sync.Mutex
	accounts map[solana.PublicKey]*reserves.Account
	calls    int
}

func NewFetcher() *Fetcher {
	return &Fetcher{accounts: make(map[solana.PublicKey]*reserves.Account)}
}

// FetchAccounts implements reserves.AccountFetcher
func (f *Fetcher) FetchAccounts(_ context.Context, keys ...solana.PublicKey) ([]*reserves.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	out := make([]*reserves.Account, len(keys))
	for i, k := range keys {
		if acc, ok := f.accounts[k]; ok {
			cp := *acc
			cp.Data = append([]byte(nil), acc.Data...)
			out[i] = &cp
		}
	}
	return out, nil
}

// Calls returns how many fetches were served
func (f *Fetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Put stores a raw account
func (f *Fetcher) Put(acc *reserves.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[acc.Key] = acc
}

// PutTokenAccount stores an initialized token account with the given balance
func (f *Fetcher) PutTokenAccount(key, mint, owner solana.PublicKey, amount uint64) {
	f.Put(&reserves.Account{Key: key, Owner: solana.TokenProgramID, Data: TokenAccountData(mint, owner, amount)})
}

// PutMint stores an initialized mint with the given supply
func (f *Fetcher) PutMint(key solana.PublicKey, supply uint64, decimals uint8) {
	f.Put(&reserves.Account{Key: key, Owner: solana.TokenProgramID, Data: MintData(supply, decimals)})
}

// SetAmount overwrites the balance of a stored token account
func (f *Fetcher) SetAmount(key solana.PublicKey, amount uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if acc, ok := f.accounts[key]; ok {
		binary.LittleEndian.PutUint64(acc.Data[64:72], amount)
	}
}

// AddAmount adjusts the balance of a stored token account by delta
func (f *Fetcher) AddAmount(key solana.PublicKey, delta int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if acc, ok := f.accounts[key]; ok {
		cur := binary.LittleEndian.Uint64(acc.Data[64:72])
		binary.LittleEndian.PutUint64(acc.Data[64:72], uint64(int64(cur)+delta))
	}
}

// AddSupply adjusts the supply of a stored mint by delta
func (f *Fetcher) AddSupply(key solana.PublicKey, delta int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if acc, ok := f.accounts[key]; ok {
		cur := binary.LittleEndian.Uint64(acc.Data[36:44])
		binary.LittleEndian.PutUint64(acc.Data[36:44], uint64(int64(cur)+delta))
	}
}

// TokenAccountData lays out a 165-byte SPL token account
func TokenAccountData(mint, owner solana.PublicKey, amount uint64) []byte {
	data := make([]byte, reserves.TokenAccountSize)
	copy(data[0:32], mint.Bytes())
	copy(data[32:64], owner.Bytes())
	binary.LittleEndian.PutUint64(data[64:72], amount)
	data[108] = 1 // initialized
	return data
}

// MintData lays out an 82-byte SPL mint
func MintData(supply uint64, decimals uint8) []byte {
	data := make([]byte, reserves.MintSize)
	binary.LittleEndian.PutUint64(data[36:44], supply)
	data[44] = decimals
	data[45] = 1 // is_initialized
	return data
}
