package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aman-zulfiqar/solana-lp-router/internal/amm"
	"github.com/aman-zulfiqar/solana-lp-router/internal/constants"
	"github.com/aman-zulfiqar/solana-lp-router/internal/reserves"
)

func (h *Handlers) quoteErr(c echo.Context, err error) error {
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.Logger.WithError(err).Warn("quote failed")
	}
	return h.err(c, code, msg, map[string]any{"err": err.Error()})
}

// snapshot resolves the pool state a quote runs against
func (h *Handlers) snapshot(ctx context.Context, src PoolSource) (reserves.Snapshot, error) {
	if src.Pool == "" {
		if src.Reserves == nil {
			return reserves.Snapshot{}, errNoSource
		}
		return reserves.Snapshot{Reserves: *src.Reserves, LPSupply: src.LPSupply}, nil
	}

	p, err := h.Pools.FindByName(src.Pool)
	if err != nil {
		return reserves.Snapshot{}, err
	}
	return h.Reader.PoolSnapshot(ctx, p.VaultA, p.VaultB, p.PoolMint)
}

// QuoteDeposit returns the amounts and LP minimum for a deposit
func (h *Handlers) QuoteDeposit(c echo.Context) error {
	var req DepositQuoteRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), constants.QuoteTimeout)
	defer cancel()

	snap, err := h.snapshot(ctx, req.PoolSource)
	if err != nil {
		return h.quoteErr(c, err)
	}

	q, err := amm.QuoteDeposit(snap.Reserves, snap.LPSupply, amm.DepositIntent{MaxA: req.MaxA, MaxB: req.MaxB})
	if err != nil {
		return h.quoteErr(c, err)
	}
	return c.JSON(http.StatusOK, QuoteResponse{Pool: req.Pool, Snapshot: snap, Quote: q})
}

// QuoteWithdraw returns the minimum token amounts for burning LP tokens
func (h *Handlers) QuoteWithdraw(c echo.Context) error {
	var req WithdrawQuoteRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), constants.QuoteTimeout)
	defer cancel()

	snap, err := h.snapshot(ctx, req.PoolSource)
	if err != nil {
		return h.quoteErr(c, err)
	}

	q, err := amm.QuoteWithdrawal(snap.Reserves, snap.LPSupply, req.LPAmount)
	if err != nil {
		return h.quoteErr(c, err)
	}
	return c.JSON(http.StatusOK, QuoteResponse{Pool: req.Pool, Snapshot: snap, Quote: q})
}

// QuoteSwap returns the forwarded amount and minimum output for a swap
func (h *Handlers) QuoteSwap(c echo.Context) error {
	var req SwapQuoteRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), constants.QuoteTimeout)
	defer cancel()

	snap, err := h.snapshot(ctx, req.PoolSource)
	if err != nil {
		return h.quoteErr(c, err)
	}

	q, err := amm.QuoteSwap(snap.Reserves, amm.SwapIntent{AIn: req.AIn, BIn: req.BIn})
	if err != nil {
		return h.quoteErr(c, err)
	}
	return c.JSON(http.StatusOK, QuoteResponse{Pool: req.Pool, Snapshot: snap, Quote: q.WithSlippageFloor(req.MinOut)})
}
