// Package tokenswap builds SPL Token Swap instructions.
package tokenswap

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Instruction discriminators
const (
	InstructionSwap                  uint8 = 1
	InstructionDepositAllTokenTypes  uint8 = 2
	InstructionWithdrawAllTokenTypes uint8 = 3
)

// DepositAccounts are the accounts of DepositAllTokenTypes
type DepositAccounts struct {
	Swap          solana.PublicKey
	Authority     solana.PublicKey
	UserAuthority solana.PublicKey
	SourceA       solana.PublicKey
	SourceB       solana.PublicKey
	VaultA        solana.PublicKey
	VaultB        solana.PublicKey
	PoolMint      solana.PublicKey
	DestinationLP solana.PublicKey
}

// WithdrawAccounts are the accounts of WithdrawAllTokenTypes
type WithdrawAccounts struct {
	Swap          solana.PublicKey
	Authority     solana.PublicKey
	UserAuthority solana.PublicKey
	PoolMint      solana.PublicKey
	SourceLP      solana.PublicKey
	VaultA        solana.PublicKey
	VaultB        solana.PublicKey
	DestinationA  solana.PublicKey
	DestinationB  solana.PublicKey
	FeeAccount    solana.PublicKey
}

// SwapAccounts are the accounts of Swap. Source/destination are already
// ordered for the trade direction.
type SwapAccounts struct {
	Swap            solana.PublicKey
	Authority       solana.PublicKey
	UserAuthority   solana.PublicKey
	Source          solana.PublicKey
	PoolSource      solana.PublicKey
	PoolDestination solana.PublicKey
	Destination     solana.PublicKey
	PoolMint        solana.PublicKey
	FeeAccount      solana.PublicKey
	HostFeeAccount  *solana.PublicKey
}

// NewDepositAllTokenTypes builds a two-sided deposit
func NewDepositAllTokenTypes(
	programID solana.PublicKey,
	accts DepositAccounts,
	poolTokenAmount, maxTokenA, maxTokenB uint64,
) (solana.Instruction, error) {
	data, err := encode(InstructionDepositAllTokenTypes, poolTokenAmount, maxTokenA, maxTokenB)
	if err != nil {
		return nil, err
	}

	// 0. swap
	// 1. swap authority
	// 2. user transfer authority (signer)
	// 3-4. user token a/b
	// 5-6. pool vaults a/b
	// 7. pool mint
	// 8. user lp destination
	// 9. token program
	accounts := solana.AccountMetaSlice{
		solana.Meta(accts.Swap),
		solana.Meta(accts.Authority),
		solana.Meta(accts.UserAuthority).SIGNER(),
		solana.Meta(accts.SourceA).WRITE(),
		solana.Meta(accts.SourceB).WRITE(),
		solana.Meta(accts.VaultA).WRITE(),
		solana.Meta(accts.VaultB).WRITE(),
		solana.Meta(accts.PoolMint).WRITE(),
		solana.Meta(accts.DestinationLP).WRITE(),
		solana.Meta(solana.TokenProgramID),
	}

	return solana.NewInstruction(programID, accounts, data), nil
}

// NewWithdrawAllTokenTypes builds a two-sided withdrawal
func NewWithdrawAllTokenTypes(
	programID solana.PublicKey,
	accts WithdrawAccounts,
	poolTokenAmount, minTokenA, minTokenB uint64,
) (solana.Instruction, error) {
	data, err := encode(InstructionWithdrawAllTokenTypes, poolTokenAmount, minTokenA, minTokenB)
	if err != nil {
		return nil, err
	}

	accounts := solana.AccountMetaSlice{
		solana.Meta(accts.Swap),
		solana.Meta(accts.Authority),
		solana.Meta(accts.UserAuthority).SIGNER(),
		solana.Meta(accts.PoolMint).WRITE(),
		solana.Meta(accts.SourceLP).WRITE(),
		solana.Meta(accts.VaultA).WRITE(),
		solana.Meta(accts.VaultB).WRITE(),
		solana.Meta(accts.DestinationA).WRITE(),
		solana.Meta(accts.DestinationB).WRITE(),
		solana.Meta(accts.FeeAccount).WRITE(),
		solana.Meta(solana.TokenProgramID),
	}

	return solana.NewInstruction(programID, accounts, data), nil
}

// NewSwap builds a swap
func NewSwap(
	programID solana.PublicKey,
	accts SwapAccounts,
	amountIn, minAmountOut uint64,
) (solana.Instruction, error) {
	if amountIn == 0 {
		return nil, fmt.Errorf("amount in must be > 0")
	}

	data, err := encode(InstructionSwap, amountIn, minAmountOut)
	if err != nil {
		return nil, err
	}

	accounts := solana.AccountMetaSlice{
		solana.Meta(accts.Swap),
		solana.Meta(accts.Authority),
		solana.Meta(accts.UserAuthority).SIGNER(),
		solana.Meta(accts.Source).WRITE(),
		solana.Meta(accts.PoolSource).WRITE(),
		solana.Meta(accts.PoolDestination).WRITE(),
		solana.Meta(accts.Destination).WRITE(),
		solana.Meta(accts.PoolMint).WRITE(),
		solana.Meta(accts.FeeAccount).WRITE(),
		solana.Meta(solana.TokenProgramID),
	}
	if accts.HostFeeAccount != nil {
		accounts = append(accounts, solana.Meta(*accts.HostFeeAccount).WRITE())
	}

	return solana.NewInstruction(programID, accounts, data), nil
}

// encode writes the discriminator followed by little-endian u64 arguments
func encode(tag uint8, args ...uint64) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)

	if err := enc.WriteUint8(tag); err != nil {
		return nil, fmt.Errorf("encode discriminator: %w", err)
	}
	for _, v := range args {
		if err := enc.WriteUint64(v, binary.LittleEndian); err != nil {
			return nil, fmt.Errorf("encode argument: %w", err)
		}
	}
	return buf.Bytes(), nil
}
