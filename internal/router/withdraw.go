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

// WithdrawPlan is a quoted withdrawal ready to submit
type WithdrawPlan struct {
	Accounts    *accounts.Withdraw  `json:"-"`
	Snapshot    reserves.Snapshot   `json:"snapshot"`
	LPAmount    uint64              `json:"lp_amount"`
	Quote       amm.WithdrawalQuote `json:"quote"`
	Instruction solana.Instruction  `json:"-"`
}

// WithdrawResult is a submitted withdrawal
type WithdrawResult struct {
	Plan      *WithdrawPlan `json:"plan"`
	Signature string        `json:"signature"`
}

// QuoteWithdraw validates the withdrawal accounts and quotes burning
// lpAmount LP tokens. Zero withdraws the user's whole LP balance.
func (r *Router) QuoteWithdraw(ctx context.Context, metas solana.AccountMetaSlice, lpAmount uint64) (*WithdrawPlan, error) {
	accts, err := accounts.ParseWithdraw(metas)
	if err != nil {
		return nil, err
	}

	if lpAmount == 0 {
		if lpAmount, err = r.reader.Balance(ctx, accts.UserLPToken); err != nil {
			return nil, fmt.Errorf("read lp balance: %w", err)
		}
	}

	snap, err := r.reader.PoolSnapshot(ctx, accts.PoolTokenA, accts.PoolTokenB, accts.LPTokenMint)
	if err != nil {
		return nil, err
	}

	quote, err := amm.QuoteWithdrawal(snap.Reserves, snap.LPSupply, lpAmount)
	if err != nil {
		return nil, err
	}

	ix, err := tokenswap.NewWithdrawAllTokenTypes(accts.PoolProgramID, tokenswap.WithdrawAccounts{
		Swap:          accts.AmmID,
		Authority:     accts.AmmAuthority,
		UserAuthority: accts.User,
		PoolMint:      accts.LPTokenMint,
		SourceLP:      accts.UserLPToken,
		VaultA:        accts.PoolTokenA,
		VaultB:        accts.PoolTokenB,
		DestinationA:  accts.UserTokenA,
		DestinationB:  accts.UserTokenB,
		FeeAccount:    accts.FeesAccount,
	}, lpAmount, quote.MinA, quote.MinB)
	if err != nil {
		return nil, fmt.Errorf("build withdraw instruction: %w", err)
	}

	return &WithdrawPlan{
		Accounts:    accts,
		Snapshot:    snap,
		LPAmount:    lpAmount,
		Quote:       quote,
		Instruction: ix,
	}, nil
}

// RemoveLiquidity quotes and submits a withdrawal
func (r *Router) RemoveLiquidity(ctx context.Context, metas solana.AccountMetaSlice, lpAmount uint64) (*WithdrawResult, error) {
	if err := r.checkInvoker(); err != nil {
		return nil, err
	}

	log := r.logger.WithFields(logrus.Fields{
		"op":                models.OperationWithdraw,
		"pool_token_amount": lpAmount,
	})
	log.Info("processing remove liquidity")

	plan, err := r.QuoteWithdraw(ctx, metas, lpAmount)
	if err != nil {
		return nil, err
	}
	if err := r.checkGate(ctx, models.OperationWithdraw, plan.Accounts.AmmID); err != nil {
		return nil, err
	}

	sig, err := r.invoke(ctx, plan.Instruction)
	if err != nil {
		return nil, err
	}

	a := plan.Accounts
	r.record(ctx, &models.OperationEvent{
		Signature: sig,
		Kind:      models.OperationWithdraw,
		Pool:      a.AmmID.String(),
		User:      a.User.String(),
		AmountA:   plan.Quote.MinA,
		AmountB:   plan.Quote.MinB,
		LPAmount:  plan.LPAmount,
		ReserveA:  plan.Snapshot.Reserves.BalanceA,
		ReserveB:  plan.Snapshot.Reserves.BalanceB,
		LPSupply:  plan.Snapshot.LPSupply,
	})

	log.WithFields(logrus.Fields{
		"signature": sig,
		"lp_amount": plan.LPAmount,
		"min_a":     plan.Quote.MinA,
		"min_b":     plan.Quote.MinB,
	}).Info("remove liquidity complete")

	return &WithdrawResult{Plan: plan, Signature: sig}, nil
}
