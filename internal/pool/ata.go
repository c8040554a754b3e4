package pool

import "github.com/gagliardetto/solana-go"

// AssociatedTokenProgramID is the SPL Associated Token Account program
var AssociatedTokenProgramID = solana.MustPublicKeyFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")

// FindAssociatedTokenAddress derives the ATA PDA for (owner, mint)
func FindAssociatedTokenAddress(owner, mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	// Seeds: [owner, token_program, mint]
	return solana.FindProgramAddress(
		[][]byte{
			owner.Bytes(),
			solana.TokenProgramID.Bytes(),
			mint.Bytes(),
		},
		AssociatedTokenProgramID,
	)
}

// NewCreateATAIdempotentIx creates the ATA for (owner, mint) unless it
// already exists.
// Account order (ATA program):
// 0. payer (signer, writable)
// 1. ata (writable)
// 2. owner
// 3. mint
// 4. system_program
// 5. token_program
func NewCreateATAIdempotentIx(payer, ata, owner, mint solana.PublicKey) solana.Instruction {
	accounts := solana.AccountMetaSlice{
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(ata).WRITE(),
		solana.Meta(owner),
		solana.Meta(mint),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.TokenProgramID),
	}

	// 1 = CreateIdempotent
	return solana.NewInstruction(AssociatedTokenProgramID, accounts, []byte{1})
}
