package accounts

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey() solana.PublicKey {
	return solana.NewWallet().PublicKey()
}

func sampleDeposit() *Deposit {
	return &Deposit{
		User:          newKey(),
		UserTokenA:    newKey(),
		UserTokenB:    newKey(),
		UserLPToken:   newKey(),
		PoolProgramID: newKey(),
		PoolTokenA:    newKey(),
		PoolTokenB:    newKey(),
		LPTokenMint:   newKey(),
		SwapAccount:   newKey(),
		SwapAuthority: newKey(),
	}
}

func TestSchemaArity(t *testing.T) {
	assert.Len(t, DepositSchema, 12)
	assert.Len(t, WithdrawSchema, 12)
	assert.Len(t, SwapSchema, 11)
}

func TestDepositRoundTrip(t *testing.T) {
	d := sampleDeposit()
	metas := d.Metas()
	require.Len(t, metas, 12)

	assert.True(t, metas[0].IsSigner)
	assert.True(t, metas[1].IsWritable)
	assert.Equal(t, solana.TokenProgramID, metas[8].PublicKey)
	assert.Equal(t, solana.SysVarClockPubkey, metas[9].PublicKey)

	got, err := ParseDeposit(metas)
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestWithdrawAndSwapRoundTrip(t *testing.T) {
	w := &Withdraw{
		User: newKey(), UserTokenA: newKey(), UserTokenB: newKey(), UserLPToken: newKey(),
		PoolProgramID: newKey(), PoolTokenA: newKey(), PoolTokenB: newKey(), LPTokenMint: newKey(),
		AmmID: newKey(), AmmAuthority: newKey(), FeesAccount: newKey(),
	}
	gotW, err := ParseWithdraw(w.Metas())
	require.NoError(t, err)
	assert.Equal(t, w, gotW)

	s := &Swap{
		User: newKey(), UserTokenA: newKey(), UserTokenB: newKey(),
		PoolProgramID: newKey(), PoolTokenA: newKey(), PoolTokenB: newKey(), LPTokenMint: newKey(),
		AmmID: newKey(), AmmAuthority: newKey(), FeesAccount: newKey(),
	}
	gotS, err := ParseSwap(s.Metas())
	require.NoError(t, err)
	assert.Equal(t, s, gotS)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(solana.AccountMetaSlice) solana.AccountMetaSlice
	}{
		{
			name:   "too few",
			mutate: func(m solana.AccountMetaSlice) solana.AccountMetaSlice { return m[:11] },
		},
		{
			name: "too many",
			mutate: func(m solana.AccountMetaSlice) solana.AccountMetaSlice {
				return append(m, solana.NewAccountMeta(newKey(), false, false))
			},
		},
		{
			name: "user not signer",
			mutate: func(m solana.AccountMetaSlice) solana.AccountMetaSlice {
				m[0].IsSigner = false
				return m
			},
		},
		{
			name: "vault read-only",
			mutate: func(m solana.AccountMetaSlice) solana.AccountMetaSlice {
				m[5].IsWritable = false
				return m
			},
		},
		{
			name: "wrong token program",
			mutate: func(m solana.AccountMetaSlice) solana.AccountMetaSlice {
				m[8].PublicKey = newKey()
				return m
			},
		},
		{
			name: "wrong clock",
			mutate: func(m solana.AccountMetaSlice) solana.AccountMetaSlice {
				m[9].PublicKey = newKey()
				return m
			},
		},
		{
			name: "nil entry",
			mutate: func(m solana.AccountMetaSlice) solana.AccountMetaSlice {
				m[3] = nil
				return m
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metas := tt.mutate(sampleDeposit().Metas())
			_, err := ParseDeposit(metas)
			assert.ErrorIs(t, err, ErrMissingAccounts)
		})
	}
}

func TestSwapSchemaRejectsDepositList(t *testing.T) {
	_, err := ParseSwap(sampleDeposit().Metas())
	assert.ErrorIs(t, err, ErrMissingAccounts)
}
