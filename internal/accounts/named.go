package accounts

import "github.com/gagliardetto/solana-go"

// Deposit is a validated deposit account list
type Deposit struct {
	User          solana.PublicKey
	UserTokenA    solana.PublicKey
	UserTokenB    solana.PublicKey
	UserLPToken   solana.PublicKey
	PoolProgramID solana.PublicKey
	PoolTokenA    solana.PublicKey
	PoolTokenB    solana.PublicKey
	LPTokenMint   solana.PublicKey
	SwapAccount   solana.PublicKey
	SwapAuthority solana.PublicKey
}

// ParseDeposit validates metas against DepositSchema
func ParseDeposit(metas solana.AccountMetaSlice) (*Deposit, error) {
	k, err := DepositSchema.Validate(metas)
	if err != nil {
		return nil, err
	}
	return &Deposit{
		User:          k[0],
		UserTokenA:    k[1],
		UserTokenB:    k[2],
		UserLPToken:   k[3],
		PoolProgramID: k[4],
		PoolTokenA:    k[5],
		PoolTokenB:    k[6],
		LPTokenMint:   k[7],
		SwapAccount:   k[10],
		SwapAuthority: k[11],
	}, nil
}

// Metas returns the list in DepositSchema order
func (d *Deposit) Metas() solana.AccountMetaSlice {
	return DepositSchema.Metas(
		d.User, d.UserTokenA, d.UserTokenB, d.UserLPToken,
		d.PoolProgramID, d.PoolTokenA, d.PoolTokenB, d.LPTokenMint,
		solana.TokenProgramID, solana.SysVarClockPubkey,
		d.SwapAccount, d.SwapAuthority,
	)
}

// Withdraw is a validated withdrawal account list
type Withdraw struct {
	User          solana.PublicKey
	UserTokenA    solana.PublicKey
	UserTokenB    solana.PublicKey
	UserLPToken   solana.PublicKey
	PoolProgramID solana.PublicKey
	PoolTokenA    solana.PublicKey
	PoolTokenB    solana.PublicKey
	LPTokenMint   solana.PublicKey
	AmmID         solana.PublicKey
	AmmAuthority  solana.PublicKey
	FeesAccount   solana.PublicKey
}

// ParseWithdraw validates metas against WithdrawSchema
func ParseWithdraw(metas solana.AccountMetaSlice) (*Withdraw, error) {
	k, err := WithdrawSchema.Validate(metas)
	if err != nil {
		return nil, err
	}
	return &Withdraw{
		User:          k[0],
		UserTokenA:    k[1],
		UserTokenB:    k[2],
		UserLPToken:   k[3],
		PoolProgramID: k[4],
		PoolTokenA:    k[5],
		PoolTokenB:    k[6],
		LPTokenMint:   k[7],
		AmmID:         k[9],
		AmmAuthority:  k[10],
		FeesAccount:   k[11],
	}, nil
}

// Metas returns the list in WithdrawSchema order
func (w *Withdraw) Metas() solana.AccountMetaSlice {
	return WithdrawSchema.Metas(
		w.User, w.UserTokenA, w.UserTokenB, w.UserLPToken,
		w.PoolProgramID, w.PoolTokenA, w.PoolTokenB, w.LPTokenMint,
		solana.TokenProgramID,
		w.AmmID, w.AmmAuthority, w.FeesAccount,
	)
}

// Swap is a validated swap account list
type Swap struct {
	User          solana.PublicKey
	UserTokenA    solana.PublicKey
	UserTokenB    solana.PublicKey
	PoolProgramID solana.PublicKey
	PoolTokenA    solana.PublicKey
	PoolTokenB    solana.PublicKey
	LPTokenMint   solana.PublicKey
	AmmID         solana.PublicKey
	AmmAuthority  solana.PublicKey
	FeesAccount   solana.PublicKey
}

// ParseSwap validates metas against SwapSchema
func ParseSwap(metas solana.AccountMetaSlice) (*Swap, error) {
	k, err := SwapSchema.Validate(metas)
	if err != nil {
		return nil, err
	}
	return &Swap{
		User:          k[0],
		UserTokenA:    k[1],
		UserTokenB:    k[2],
		PoolProgramID: k[3],
		PoolTokenA:    k[4],
		PoolTokenB:    k[5],
		LPTokenMint:   k[6],
		AmmID:         k[8],
		AmmAuthority:  k[9],
		FeesAccount:   k[10],
	}, nil
}

// Metas returns the list in SwapSchema order
func (s *Swap) Metas() solana.AccountMetaSlice {
	return SwapSchema.Metas(
		s.User, s.UserTokenA, s.UserTokenB,
		s.PoolProgramID, s.PoolTokenA, s.PoolTokenB, s.LPTokenMint,
		solana.TokenProgramID,
		s.AmmID, s.AmmAuthority, s.FeesAccount,
	)
}
