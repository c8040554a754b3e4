package pool

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/aman-zulfiqar/solana-lp-router/internal/accounts"
)

// UserAccounts are the token accounts a user trades from
type UserAccounts struct {
	Owner  solana.PublicKey `json:"owner"`
	TokenA solana.PublicKey `json:"token_a"`
	TokenB solana.PublicKey `json:"token_b"`
	LP     solana.PublicKey `json:"lp"`
}

// UserAccounts derives the owner's associated token accounts for the pool
func (p *Pool) UserAccounts(owner solana.PublicKey) (UserAccounts, error) {
	u := UserAccounts{Owner: owner}

	var err error
	if u.TokenA, _, err = FindAssociatedTokenAddress(owner, p.TokenMintA); err != nil {
		return UserAccounts{}, fmt.Errorf("derive token a account: %w", err)
	}
	if u.TokenB, _, err = FindAssociatedTokenAddress(owner, p.TokenMintB); err != nil {
		return UserAccounts{}, fmt.Errorf("derive token b account: %w", err)
	}
	if u.LP, _, err = FindAssociatedTokenAddress(owner, p.PoolMint); err != nil {
		return UserAccounts{}, fmt.Errorf("derive lp account: %w", err)
	}
	return u, nil
}

// SetupInstructions creates any of the user's token accounts for this pool
// that may be missing
func (p *Pool) SetupInstructions(u UserAccounts) []solana.Instruction {
	return []solana.Instruction{
		NewCreateATAIdempotentIx(u.Owner, u.TokenA, u.Owner, p.TokenMintA),
		NewCreateATAIdempotentIx(u.Owner, u.TokenB, u.Owner, p.TokenMintB),
		NewCreateATAIdempotentIx(u.Owner, u.LP, u.Owner, p.PoolMint),
	}
}

// DepositAccounts returns the deposit account list for the user
func (p *Pool) DepositAccounts(u UserAccounts) solana.AccountMetaSlice {
	d := accounts.Deposit{
		User:          u.Owner,
		UserTokenA:    u.TokenA,
		UserTokenB:    u.TokenB,
		UserLPToken:   u.LP,
		PoolProgramID: p.ProgramID,
		PoolTokenA:    p.VaultA,
		PoolTokenB:    p.VaultB,
		LPTokenMint:   p.PoolMint,
		SwapAccount:   p.SwapAccount,
		SwapAuthority: p.Authority,
	}
	return d.Metas()
}

// WithdrawAccounts returns the withdrawal account list for the user
func (p *Pool) WithdrawAccounts(u UserAccounts) solana.AccountMetaSlice {
	w := accounts.Withdraw{
		User:          u.Owner,
		UserTokenA:    u.TokenA,
		UserTokenB:    u.TokenB,
		UserLPToken:   u.LP,
		PoolProgramID: p.ProgramID,
		PoolTokenA:    p.VaultA,
		PoolTokenB:    p.VaultB,
		LPTokenMint:   p.PoolMint,
		AmmID:         p.SwapAccount,
		AmmAuthority:  p.Authority,
		FeesAccount:   p.FeeAccount,
	}
	return w.Metas()
}

// SwapAccounts returns the swap account list for the user
func (p *Pool) SwapAccounts(u UserAccounts) solana.AccountMetaSlice {
	s := accounts.Swap{
		User:          u.Owner,
		UserTokenA:    u.TokenA,
		UserTokenB:    u.TokenB,
		PoolProgramID: p.ProgramID,
		PoolTokenA:    p.VaultA,
		PoolTokenB:    p.VaultB,
		LPTokenMint:   p.PoolMint,
		AmmID:         p.SwapAccount,
		AmmAuthority:  p.Authority,
		FeesAccount:   p.FeeAccount,
	}
	return s.Metas()
}
