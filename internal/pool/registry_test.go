package pool

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-zulfiqar/solana-lp-router/internal/accounts"
	"github.com/aman-zulfiqar/solana-lp-router/internal/constants"
)

func newKey() solana.PublicKey {
	return solana.NewWallet().PublicKey()
}

func sampleConfig(name string) Config {
	return Config{
		Name:         name,
		ProgramID:    newKey().String(),
		SwapAccount:  newKey().String(),
		Authority:    newKey().String(),
		TokenMintA:   newKey().String(),
		TokenMintB:   newKey().String(),
		DecimalsA:    9,
		DecimalsB:    6,
		VaultA:       newKey().String(),
		VaultB:       newKey().String(),
		PoolMint:     newKey().String(),
		PoolDecimals: 6,
		FeeAccount:   newKey().String(),
	}
}

func writeConfig(t *testing.T, cfgs ...Config) string {
	t.Helper()
	data, err := json.Marshal(cfgs)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "pools.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestNewRegistry(t *testing.T) {
	sol := sampleConfig("SOL/USDC")
	ray := sampleConfig("RAY/USDC")

	reg, err := NewRegistry(writeConfig(t, sol, ray))
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Count())

	p, err := reg.FindByName("RAY/USDC")
	require.NoError(t, err)
	assert.Equal(t, ray.VaultA, p.VaultA.String())
	assert.Equal(t, uint8(9), p.DecimalsA)

	mintA := solana.MustPublicKeyFromBase58(sol.TokenMintA)
	mintB := solana.MustPublicKeyFromBase58(sol.TokenMintB)
	p, err = reg.FindByMints(mintB, mintA)
	require.NoError(t, err)
	assert.Equal(t, "SOL/USDC", p.Name)

	_, err = reg.FindByName("nope")
	assert.ErrorIs(t, err, ErrPoolNotFound)
	_, err = reg.FindByMints(mintA, newKey())
	assert.ErrorIs(t, err, ErrPoolNotFound)
}

func TestParseRegistry_ProgramAlias(t *testing.T) {
	cfg := sampleConfig("orca")
	cfg.ProgramID = "OrcaV2"
	data, err := json.Marshal([]Config{cfg})
	require.NoError(t, err)

	reg, err := ParseRegistry(data)
	require.NoError(t, err)
	p, err := reg.FindByName("orca")
	require.NoError(t, err)
	assert.Equal(t, constants.ProgramAddresses["OrcaV2"], p.ProgramID.String())
}

func TestParseRegistry_Invalid(t *testing.T) {
	badKey := sampleConfig("bad")
	badKey.VaultB = "not-a-key"

	sameMints := sampleConfig("same")
	sameMints.TokenMintB = sameMints.TokenMintA

	tests := []struct {
		name string
		cfgs []Config
	}{
		{name: "bad key", cfgs: []Config{badKey}},
		{name: "same mints", cfgs: []Config{sameMints}},
		{name: "missing name", cfgs: []Config{sampleConfig("")}},
		{name: "duplicate", cfgs: []Config{sampleConfig("x"), sampleConfig("x")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.cfgs)
			require.NoError(t, err)
			_, err = ParseRegistry(data)
			assert.Error(t, err)
		})
	}

	_, err := ParseRegistry([]byte("{"))
	assert.Error(t, err)

	_, err = NewRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestUserAccountsAndLists(t *testing.T) {
	reg, err := NewRegistry(writeConfig(t, sampleConfig("SOL/USDC")))
	require.NoError(t, err)
	p, err := reg.FindByName("SOL/USDC")
	require.NoError(t, err)

	owner := newKey()
	u, err := p.UserAccounts(owner)
	require.NoError(t, err)

	ata, _, err := FindAssociatedTokenAddress(owner, p.TokenMintA)
	require.NoError(t, err)
	assert.Equal(t, ata, u.TokenA)
	assert.NotEqual(t, u.TokenA, u.TokenB)
	assert.NotEqual(t, u.TokenB, u.LP)

	d, err := accounts.ParseDeposit(p.DepositAccounts(u))
	require.NoError(t, err)
	assert.Equal(t, p.VaultA, d.PoolTokenA)
	assert.Equal(t, p.SwapAccount, d.SwapAccount)
	assert.Equal(t, u.LP, d.UserLPToken)

	w, err := accounts.ParseWithdraw(p.WithdrawAccounts(u))
	require.NoError(t, err)
	assert.Equal(t, p.FeeAccount, w.FeesAccount)

	s, err := accounts.ParseSwap(p.SwapAccounts(u))
	require.NoError(t, err)
	assert.Equal(t, p.Authority, s.AmmAuthority)

	setup := p.SetupInstructions(u)
	require.Len(t, setup, 3)
	assert.Equal(t, AssociatedTokenProgramID, setup[2].ProgramID())
	assert.Equal(t, u.LP, setup[2].Accounts()[1].PublicKey)
}
