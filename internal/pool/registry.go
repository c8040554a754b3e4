// Package pool loads the configured SPL Token Swap pools and builds the
// account lists the router expects for them.
package pool

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"

	"github.com/aman-zulfiqar/solana-lp-router/internal/constants"
)

// ErrPoolNotFound is returned when no configured pool matches a lookup
var ErrPoolNotFound = errors.New("pool not found")

// Config is a pool entry in the JSON config
type Config struct {
	Name         string `json:"name"`
	ProgramID    string `json:"program_id"`
	SwapAccount  string `json:"swap_account"`
	Authority    string `json:"authority"`
	TokenMintA   string `json:"token_mint_a"`
	TokenMintB   string `json:"token_mint_b"`
	DecimalsA    uint8  `json:"decimals_a"`
	DecimalsB    uint8  `json:"decimals_b"`
	VaultA       string `json:"vault_a"`
	VaultB       string `json:"vault_b"`
	PoolMint     string `json:"pool_mint"`
	PoolDecimals uint8  `json:"pool_decimals"`
	FeeAccount   string `json:"fee_account"`
}

// Pool is a parsed pool configuration
type Pool struct {
	Name         string           `json:"name"`
	ProgramID    solana.PublicKey `json:"program_id"`
	SwapAccount  solana.PublicKey `json:"swap_account"`
	Authority    solana.PublicKey `json:"authority"`
	TokenMintA   solana.PublicKey `json:"token_mint_a"`
	TokenMintB   solana.PublicKey `json:"token_mint_b"`
	DecimalsA    uint8            `json:"decimals_a"`
	DecimalsB    uint8            `json:"decimals_b"`
	VaultA       solana.PublicKey `json:"vault_a"`
	VaultB       solana.PublicKey `json:"vault_b"`
	PoolMint     solana.PublicKey `json:"pool_mint"`
	PoolDecimals uint8            `json:"pool_decimals"`
	FeeAccount   solana.PublicKey `json:"fee_account"`
}

// Registry holds all configured pools
type Registry struct {
	pools []Pool
}

// NewRegistry loads pools from a JSON file
func NewRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pool config: %w", err)
	}
	return ParseRegistry(data)
}

// ParseRegistry parses a JSON array of pool configs
func ParseRegistry(data []byte) (*Registry, error) {
	var configs []Config
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}

	pools := make([]Pool, 0, len(configs))
	seen := make(map[string]bool, len(configs))
	for i, cfg := range configs {
		p, err := parseConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("pool %d (%s): %w", i, cfg.Name, err)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("pool %d: duplicate name %q", i, p.Name)
		}
		seen[p.Name] = true
		pools = append(pools, p)
	}

	return &Registry{pools: pools}, nil
}

func parseConfig(cfg Config) (Pool, error) {
	if cfg.Name == "" {
		return Pool{}, errors.New("name is required")
	}

	var err error
	key := func(field, value string) solana.PublicKey {
		if err != nil {
			return solana.PublicKey{}
		}
		var pk solana.PublicKey
		if pk, err = solana.PublicKeyFromBase58(value); err != nil {
			err = fmt.Errorf("%s: %w", field, err)
		}
		return pk
	}

	// program_id may name a well-known deployment instead of an address
	programID := cfg.ProgramID
	if addr, ok := constants.ProgramAddresses[programID]; ok {
		programID = addr
	}

	p := Pool{
		Name:         cfg.Name,
		ProgramID:    key("program_id", programID),
		SwapAccount:  key("swap_account", cfg.SwapAccount),
		Authority:    key("authority", cfg.Authority),
		TokenMintA:   key("token_mint_a", cfg.TokenMintA),
		TokenMintB:   key("token_mint_b", cfg.TokenMintB),
		DecimalsA:    cfg.DecimalsA,
		DecimalsB:    cfg.DecimalsB,
		VaultA:       key("vault_a", cfg.VaultA),
		VaultB:       key("vault_b", cfg.VaultB),
		PoolMint:     key("pool_mint", cfg.PoolMint),
		PoolDecimals: cfg.PoolDecimals,
		FeeAccount:   key("fee_account", cfg.FeeAccount),
	}
	if err != nil {
		return Pool{}, err
	}
	if p.TokenMintA.Equals(p.TokenMintB) {
		return Pool{}, errors.New("token mints must differ")
	}
	return p, nil
}

// FindByName returns the pool with the given name
func (r *Registry) FindByName(name string) (*Pool, error) {
	for i := range r.pools {
		if r.pools[i].Name == name {
			return &r.pools[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPoolNotFound, name)
}

// FindByMints returns the pool trading the pair in either order
func (r *Registry) FindByMints(mintA, mintB solana.PublicKey) (*Pool, error) {
	for i := range r.pools {
		p := &r.pools[i]
		if (p.TokenMintA.Equals(mintA) && p.TokenMintB.Equals(mintB)) ||
			(p.TokenMintA.Equals(mintB) && p.TokenMintB.Equals(mintA)) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: mints %s / %s", ErrPoolNotFound, mintA, mintB)
}

// All returns every registered pool
func (r *Registry) All() []Pool {
	return r.pools
}

// Count returns the number of registered pools
func (r *Registry) Count() int {
	return len(r.pools)
}
