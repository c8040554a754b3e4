package router

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-lp-router/internal/accounts"
	"github.com/aman-zulfiqar/solana-lp-router/internal/amm"
	"github.com/aman-zulfiqar/solana-lp-router/internal/models"
	"github.com/aman-zulfiqar/solana-lp-router/internal/reserves"
	"github.com/aman-zulfiqar/solana-lp-router/internal/tokenswap"
)

// DepositPlan is a quoted deposit ready to submit
type DepositPlan struct {
	Accounts    *accounts.Deposit  `json:"-"`
	Snapshot    reserves.Snapshot  `json:"snapshot"`
	Intent      amm.DepositIntent  `json:"intent"`
	Quote       amm.DepositQuote   `json:"quote"`
	Instruction solana.Instruction `json:"-"`
}

// DepositResult is a submitted and verified deposit
type DepositResult struct {
	Plan       *DepositPlan `json:"plan"`
	Signature  string       `json:"signature"`
	SpentA     uint64       `json:"spent_a"`
	SpentB     uint64       `json:"spent_b"`
	LPReceived uint64       `json:"lp_received"`
}

// QuoteDeposit validates the deposit accounts, reads the pool and builds the
// DepositAllTokenTypes instruction without submitting it
func (r *Router) QuoteDeposit(ctx context.Context, metas solana.AccountMetaSlice, maxA, maxB uint64) (*DepositPlan, error) {
	accts, err := accounts.ParseDeposit(metas)
	if err != nil {
		return nil, err
	}

	snap, err := r.reader.PoolSnapshot(ctx, accts.PoolTokenA, accts.PoolTokenB, accts.LPTokenMint)
	if err != nil {
		return nil, err
	}

	intent := amm.DepositIntent{MaxA: maxA, MaxB: maxB}
	quote, err := amm.QuoteDeposit(snap.Reserves, snap.LPSupply, intent)
	if err != nil {
		return nil, err
	}

	ix, err := tokenswap.NewDepositAllTokenTypes(accts.PoolProgramID, tokenswap.DepositAccounts{
		Swap:          accts.SwapAccount,
		Authority:     accts.SwapAuthority,
		UserAuthority: accts.User,
		SourceA:       accts.UserTokenA,
		SourceB:       accts.UserTokenB,
		VaultA:        accts.PoolTokenA,
		VaultB:        accts.PoolTokenB,
		PoolMint:      accts.LPTokenMint,
		DestinationLP: accts.UserLPToken,
	}, quote.MinLPOut, quote.AmountA, quote.AmountB)
	if err != nil {
		return nil, fmt.Errorf("build deposit instruction: %w", err)
	}

	return &DepositPlan{
		Accounts:    accts,
		Snapshot:    snap,
		Intent:      intent,
		Quote:       quote,
		Instruction: ix,
	}, nil
}

// AddLiquidity quotes and submits a deposit, then checks the user's balances
// moved within the quoted bounds
func (r *Router) AddLiquidity(ctx context.Context, metas solana.AccountMetaSlice, maxA, maxB uint64) (*DepositResult, error) {
	if err := r.checkInvoker(); err != nil {
		return nil, err
	}

	log := r.logger.WithFields(logrus.Fields{
		"op":                 models.OperationDeposit,
		"max_token_a_amount": maxA,
		"max_token_b_amount": maxB,
	})
	log.Info("processing add liquidity")

	plan, err := r.QuoteDeposit(ctx, metas, maxA, maxB)
	if err != nil {
		return nil, err
	}
	if err := r.checkGate(ctx, models.OperationDeposit, plan.Accounts.SwapAccount); err != nil {
		return nil, err
	}
	a := plan.Accounts

	before, err := r.reader.Balances(ctx, a.UserTokenA, a.UserTokenB, a.UserLPToken)
	if err != nil {
		return nil, fmt.Errorf("read balances before deposit: %w", err)
	}

	sig, err := r.invoke(ctx, plan.Instruction)
	if err != nil {
		return nil, err
	}

	r.record(ctx, &models.OperationEvent{
		Signature: sig,
		Kind:      models.OperationDeposit,
		Pool:      a.SwapAccount.String(),
		User:      a.User.String(),
		AmountA:   plan.Quote.AmountA,
		AmountB:   plan.Quote.AmountB,
		LPAmount:  plan.Quote.MinLPOut,
		ReserveA:  plan.Snapshot.Reserves.BalanceA,
		ReserveB:  plan.Snapshot.Reserves.BalanceB,
		LPSupply:  plan.Snapshot.LPSupply,
	})

	after, err := r.reader.Balances(ctx, a.UserTokenA, a.UserTokenB, a.UserLPToken)
	if err != nil {
		return nil, fmt.Errorf("read balances after deposit: %w", err)
	}

	res := &DepositResult{
		Plan:       plan,
		Signature:  sig,
		SpentA:     decrease(before[0], after[0]),
		SpentB:     decrease(before[1], after[1]),
		LPReceived: increase(before[2], after[2]),
	}

	if err := checkTokensSpent("a", res.SpentA, plan.Quote.AmountA); err != nil {
		return res, err
	}
	if err := checkTokensSpent("b", res.SpentB, plan.Quote.AmountB); err != nil {
		return res, err
	}
	if res.LPReceived < 1 {
		return res, fmt.Errorf("%w: received %d", ErrUnderfundedMint, res.LPReceived)
	}

	log.WithFields(logrus.Fields{
		"signature":   sig,
		"spent_a":     res.SpentA,
		"spent_b":     res.SpentB,
		"lp_received": res.LPReceived,
	}).Info("add liquidity complete")

	return res, nil
}

func checkTokensSpent(side string, spent, max uint64) error {
	if spent > max {
		return fmt.Errorf("%w: token %s spent %d, max %d", ErrOverspendDetected, side, spent, max)
	}
	return nil
}

func decrease(before, after uint64) uint64 {
	if after >= before {
		return 0
	}
	return before - after
}

func increase(before, after uint64) uint64 {
	if after <= before {
		return 0
	}
	return after - before
}
