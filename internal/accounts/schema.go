// Package accounts validates the ordered account lists passed to the
// router and names each position by its role.
package accounts

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ErrMissingAccounts is returned when an account list has the wrong length
// or an account does not fit its role
var ErrMissingAccounts = errors.New("not enough account keys")

// Role describes one position of an account list
type Role struct {
	Name     string
	Signer   bool
	Writable bool

	// Address pins the role to a well-known account when non-zero
	Address solana.PublicKey
}

// Schema is an ordered list of roles
type Schema []Role

// Role names shared by the schemas
const (
	RoleUserAccount   = "user_account"
	RoleUserTokenA    = "user_token_a"
	RoleUserTokenB    = "user_token_b"
	RoleUserLPToken   = "user_lp_token"
	RolePoolProgramID = "pool_program_id"
	RolePoolTokenA    = "pool_token_a"
	RolePoolTokenB    = "pool_token_b"
	RoleLPTokenMint   = "lp_token_mint"
	RoleSPLTokenID    = "spl_token_id"
	RoleClockID       = "clock_id"
	RoleSwapAccount   = "swap_account"
	RoleSwapAuthority = "swap_authority"
	RoleAmmID         = "amm_id"
	RoleAmmAuthority  = "amm_authority"
	RoleFeesAccount   = "fees_account"
)

var (
	user      = Role{Name: RoleUserAccount, Signer: true}
	userA     = Role{Name: RoleUserTokenA, Writable: true}
	userB     = Role{Name: RoleUserTokenB, Writable: true}
	userLP    = Role{Name: RoleUserLPToken, Writable: true}
	program   = Role{Name: RolePoolProgramID}
	vaultA    = Role{Name: RolePoolTokenA, Writable: true}
	vaultB    = Role{Name: RolePoolTokenB, Writable: true}
	lpMint    = Role{Name: RoleLPTokenMint, Writable: true}
	tokenProg = Role{Name: RoleSPLTokenID, Address: solana.TokenProgramID}
	fees      = Role{Name: RoleFeesAccount, Writable: true}
)

// DepositSchema is the 12-account layout of a deposit
var DepositSchema = Schema{
	user, userA, userB, userLP,
	program, vaultA, vaultB, lpMint,
	tokenProg,
	{Name: RoleClockID, Address: solana.SysVarClockPubkey},
	{Name: RoleSwapAccount},
	{Name: RoleSwapAuthority},
}

// WithdrawSchema is the 12-account layout of a withdrawal
var WithdrawSchema = Schema{
	user, userA, userB, userLP,
	program, vaultA, vaultB, lpMint,
	tokenProg,
	{Name: RoleAmmID},
	{Name: RoleAmmAuthority},
	fees,
}

// SwapSchema is the 11-account layout of a swap
var SwapSchema = Schema{
	user, userA, userB,
	program, vaultA, vaultB, lpMint,
	tokenProg,
	{Name: RoleAmmID},
	{Name: RoleAmmAuthority},
	fees,
}

// Validate checks length and role kinds and returns the keys in order
func (s Schema) Validate(metas solana.AccountMetaSlice) ([]solana.PublicKey, error) {
	if len(metas) != len(s) {
		return nil, fmt.Errorf("%w: expected %d accounts, got %d", ErrMissingAccounts, len(s), len(metas))
	}

	keys := make([]solana.PublicKey, len(s))
	for i, role := range s {
		meta := metas[i]
		if meta == nil {
			return nil, fmt.Errorf("%w: %s (#%d) is nil", ErrMissingAccounts, role.Name, i)
		}
		if role.Signer && !meta.IsSigner {
			return nil, fmt.Errorf("%w: %s (#%d) must sign", ErrMissingAccounts, role.Name, i)
		}
		if role.Writable && !meta.IsWritable {
			return nil, fmt.Errorf("%w: %s (#%d) must be writable", ErrMissingAccounts, role.Name, i)
		}
		if !role.Address.IsZero() && !meta.PublicKey.Equals(role.Address) {
			return nil, fmt.Errorf("%w: %s (#%d) must be %s, got %s",
				ErrMissingAccounts, role.Name, i, role.Address, meta.PublicKey)
		}
		keys[i] = meta.PublicKey
	}
	return keys, nil
}

// Metas builds an account list for the schema from keys in order
func (s Schema) Metas(keys ...solana.PublicKey) solana.AccountMetaSlice {
	metas := make(solana.AccountMetaSlice, len(keys))
	for i, k := range keys {
		var role Role
		if i < len(s) {
			role = s[i]
		}
		metas[i] = solana.NewAccountMeta(k, role.Writable, role.Signer)
	}
	return metas
}
