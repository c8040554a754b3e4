package router

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-lp-router/internal/accounts"
	"github.com/aman-zulfiqar/solana-lp-router/internal/amm"
	"github.com/aman-zulfiqar/solana-lp-router/internal/models"
	"github.com/aman-zulfiqar/solana-lp-router/internal/tokenswap"
)

// SwapPlan is a quoted swap ready to submit
type SwapPlan struct {
	Accounts    *accounts.Swap     `json:"-"`
	Reserves    amm.PoolReserves   `json:"reserves"`
	Intent      amm.SwapIntent     `json:"intent"`
	Quote       amm.SwapQuote      `json:"quote"`
	Instruction solana.Instruction `json:"-"`
}

// SwapResult is a submitted swap
type SwapResult struct {
	Plan      *SwapPlan `json:"plan"`
	Signature string    `json:"signature"`
}

// QuoteSwap validates the swap accounts and quotes trading whichever of
// aIn/bIn is nonzero. The caller's minOut raises the guard but never
// lowers it.
func (r *Router) QuoteSwap(ctx context.Context, metas solana.AccountMetaSlice, aIn, bIn, minOut uint64) (*SwapPlan, error) {
	accts, err := accounts.ParseSwap(metas)
	if err != nil {
		return nil, err
	}

	res, err := r.reader.Reserves(ctx, accts.PoolTokenA, accts.PoolTokenB)
	if err != nil {
		return nil, err
	}

	intent := amm.SwapIntent{AIn: aIn, BIn: bIn}
	quote, err := amm.QuoteSwap(res, intent)
	if err != nil {
		return nil, err
	}
	quote = quote.WithSlippageFloor(minOut)

	sa := tokenswap.SwapAccounts{
		Swap:            accts.AmmID,
		Authority:       accts.AmmAuthority,
		UserAuthority:   accts.User,
		Source:          accts.UserTokenA,
		PoolSource:      accts.PoolTokenA,
		PoolDestination: accts.PoolTokenB,
		Destination:     accts.UserTokenB,
		PoolMint:        accts.LPTokenMint,
		FeeAccount:      accts.FeesAccount,
	}
	if !quote.AToB {
		sa.Source, sa.Destination = accts.UserTokenB, accts.UserTokenA
		sa.PoolSource, sa.PoolDestination = accts.PoolTokenB, accts.PoolTokenA
	}

	ix, err := tokenswap.NewSwap(accts.PoolProgramID, sa, quote.AmountIn, quote.MinAmountOut)
	if err != nil {
		return nil, fmt.Errorf("build swap instruction: %w", err)
	}

	return &SwapPlan{
		Accounts:    accts,
		Reserves:    res,
		Intent:      intent,
		Quote:       quote,
		Instruction: ix,
	}, nil
}

// Swap quotes and submits a swap
func (r *Router) Swap(ctx context.Context, metas solana.AccountMetaSlice, aIn, bIn, minOut uint64) (*SwapResult, error) {
	if err := r.checkInvoker(); err != nil {
		return nil, err
	}

	log := r.logger.WithFields(logrus.Fields{
		"op":                   models.OperationSwap,
		"token_a_in":           aIn,
		"token_b_in":           bIn,
		"min_token_amount_out": minOut,
	})
	log.Info("processing swap")

	plan, err := r.QuoteSwap(ctx, metas, aIn, bIn, minOut)
	if err != nil {
		return nil, err
	}
	if err := r.checkGate(ctx, models.OperationSwap, plan.Accounts.AmmID); err != nil {
		return nil, err
	}

	sig, err := r.invoke(ctx, plan.Instruction)
	if err != nil {
		return nil, err
	}

	a := plan.Accounts
	op := &models.OperationEvent{
		Signature: sig,
		Kind:      models.OperationSwap,
		Pool:      a.AmmID.String(),
		User:      a.User.String(),
		AmountA:   plan.Quote.AmountIn,
		AmountB:   plan.Quote.MinAmountOut,
		AToB:      plan.Quote.AToB,
		ReserveA:  plan.Reserves.BalanceA,
		ReserveB:  plan.Reserves.BalanceB,
	}
	if !plan.Quote.AToB {
		op.AmountA, op.AmountB = plan.Quote.MinAmountOut, plan.Quote.AmountIn
	}
	r.record(ctx, op)

	log.WithFields(logrus.Fields{
		"signature":          sig,
		"amount_in":          plan.Quote.AmountIn,
		"minimum_amount_out": plan.Quote.MinAmountOut,
		"a_to_b":             plan.Quote.AToB,
	}).Info("swap complete")

	return &SwapResult{Plan: plan, Signature: sig}, nil
}
