package reserves

import (
	"context"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"

	"github.com/aman-zulfiqar/solana-lp-router/internal/amm"
)

// SPL Token state sizes
const (
	TokenAccountSize = 165
	MintSize         = 82
)

// ErrAccountRead is returned when an account is missing or is not a valid
// token account / mint
var ErrAccountRead = errors.New("account read error")

// Account is a fetched on-chain account
type Account struct {
	Key   solana.PublicKey
	Owner solana.PublicKey
	Data  []byte
}

// AccountFetcher loads accounts in one round trip. The result has the same
// length and order as keys; accounts that do not exist are nil.
type AccountFetcher interface {
	FetchAccounts(ctx context.Context, keys ...solana.PublicKey) ([]*Account, error)
}

// Snapshot is the pool state used for a single quote
type Snapshot struct {
	Reserves amm.PoolReserves `json:"reserves"`
	LPSupply uint64           `json:"lp_supply"`
}

// TokenBalance decodes the amount held by an SPL token account
func TokenBalance(acc *Account) (uint64, error) {
	if err := checkOwner(acc, TokenAccountSize); err != nil {
		return 0, err
	}

	var ta token.Account
	if err := bin.NewBinDecoder(acc.Data).Decode(&ta); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrAccountRead, acc.Key, err)
	}
	if ta.State == token.Uninitialized {
		return 0, fmt.Errorf("%w: %s: token account not initialized", ErrAccountRead, acc.Key)
	}
	return ta.Amount, nil
}

// MintSupply decodes the total supply of an SPL mint
func MintSupply(acc *Account) (uint64, error) {
	if err := checkOwner(acc, MintSize); err != nil {
		return 0, err
	}

	var mint token.Mint
	if err := bin.NewBinDecoder(acc.Data).Decode(&mint); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrAccountRead, acc.Key, err)
	}
	if !mint.IsInitialized {
		return 0, fmt.Errorf("%w: %s: mint not initialized", ErrAccountRead, acc.Key)
	}
	return mint.Supply, nil
}

func checkOwner(acc *Account, size int) error {
	if acc == nil {
		return fmt.Errorf("%w: account not found", ErrAccountRead)
	}
	if !acc.Owner.Equals(solana.TokenProgramID) {
		return fmt.Errorf("%w: %s: owner %s is not the token program", ErrAccountRead, acc.Key, acc.Owner)
	}
	if len(acc.Data) != size {
		return fmt.Errorf("%w: %s: unexpected data length %d", ErrAccountRead, acc.Key, len(acc.Data))
	}
	return nil
}

// Reader reads balances and supplies through an AccountFetcher.
// It holds no state between calls.
type Reader struct {
	fetcher AccountFetcher
}

// NewReader creates a reader backed by the given fetcher
func NewReader(fetcher AccountFetcher) *Reader {
	return &Reader{fetcher: fetcher}
}

// Balances returns token balances for each account, in order
func (r *Reader) Balances(ctx context.Context, keys ...solana.PublicKey) ([]uint64, error) {
	accs, err := r.fetch(ctx, keys...)
	if err != nil {
		return nil, err
	}

	out := make([]uint64, len(accs))
	for i, acc := range accs {
		if out[i], err = TokenBalance(acc); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Balance returns the balance of a single token account
func (r *Reader) Balance(ctx context.Context, key solana.PublicKey) (uint64, error) {
	out, err := r.Balances(ctx, key)
	if err != nil {
		return 0, err
	}
	return out[0], nil
}

// Reserves reads the two pool vaults
func (r *Reader) Reserves(ctx context.Context, vaultA, vaultB solana.PublicKey) (amm.PoolReserves, error) {
	bals, err := r.Balances(ctx, vaultA, vaultB)
	if err != nil {
		return amm.PoolReserves{}, err
	}
	return amm.PoolReserves{BalanceA: bals[0], BalanceB: bals[1]}, nil
}

// PoolSnapshot reads both vaults and the LP mint together
func (r *Reader) PoolSnapshot(ctx context.Context, vaultA, vaultB, lpMint solana.PublicKey) (Snapshot, error) {
	accs, err := r.fetch(ctx, vaultA, vaultB, lpMint)
	if err != nil {
		return Snapshot{}, err
	}

	balA, err := TokenBalance(accs[0])
	if err != nil {
		return Snapshot{}, err
	}
	balB, err := TokenBalance(accs[1])
	if err != nil {
		return Snapshot{}, err
	}
	supply, err := MintSupply(accs[2])
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Reserves: amm.PoolReserves{BalanceA: balA, BalanceB: balB},
		LPSupply: supply,
	}, nil
}

func (r *Reader) fetch(ctx context.Context, keys ...solana.PublicKey) ([]*Account, error) {
	accs, err := r.fetcher.FetchAccounts(ctx, keys...)
	if err != nil {
		return nil, fmt.Errorf("fetch accounts: %w", err)
	}
	if len(accs) != len(keys) {
		return nil, fmt.Errorf("%w: expected %d accounts, got %d", ErrAccountRead, len(keys), len(accs))
	}
	for i, acc := range accs {
		if acc == nil {
			return nil, fmt.Errorf("%w: %s: account not found", ErrAccountRead, keys[i])
		}
	}
	return accs, nil
}
