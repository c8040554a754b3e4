// Package router runs deposit, withdrawal and swap operations against an
// SPL Token Swap pool: it validates the caller's accounts, reads the pool,
// quotes, submits the pool instruction and records the result.
package router

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-lp-router/internal/constants"
	"github.com/aman-zulfiqar/solana-lp-router/internal/models"
	"github.com/aman-zulfiqar/solana-lp-router/internal/reserves"
	"github.com/aman-zulfiqar/solana-lp-router/internal/storage"
)

var (
	// ErrOverspendDetected is returned when a deposit debited more than quoted
	ErrOverspendDetected = errors.New("tokens spent exceed requested maximum")

	// ErrUnderfundedMint is returned when a deposit credited no LP tokens
	ErrUnderfundedMint = errors.New("lp tokens received below minimum")

	// ErrOperationPaused is returned when an operation kind is switched off
	ErrOperationPaused = errors.New("operation paused")

	// ErrNoInvoker is returned by executing operations on a quote-only router
	ErrNoInvoker = errors.New("router has no invoker")
)

// Invoker submits instructions and returns the transaction signature once
// the transaction has landed
type Invoker interface {
	Invoke(ctx context.Context, instructions ...solana.Instruction) (string, error)
}

// Gate reports whether an operation kind is paused, globally or for the
// pool identified by its swap account
type Gate interface {
	Paused(ctx context.Context, kind, pool string) (bool, error)
}

type Config struct {
	Fetcher reserves.AccountFetcher
	Invoker Invoker // nil for a quote-only router
	Gate    Gate    // optional

	// Recorders receive every submitted operation; failures are logged only
	Recorders []storage.OperationRecorder

	Logger *logrus.Logger
}

type Router struct {
	reader    *reserves.Reader
	invoker   Invoker
	gate      Gate
	recorders []storage.OperationRecorder
	logger    *logrus.Logger
	now       func() time.Time
}

func New(cfg Config) (*Router, error) {
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("router: fetcher is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	return &Router{
		reader:    reserves.NewReader(cfg.Fetcher),
		invoker:   cfg.Invoker,
		gate:      cfg.Gate,
		recorders: cfg.Recorders,
		logger:    cfg.Logger,
		now:       time.Now,
	}, nil
}

func (r *Router) checkInvoker() error {
	if r.invoker == nil {
		return ErrNoInvoker
	}
	return nil
}

func (r *Router) checkGate(ctx context.Context, kind models.OperationKind, pool solana.PublicKey) error {
	if r.gate == nil {
		return nil
	}

	paused, err := r.gate.Paused(ctx, string(kind), pool.String())
	if err != nil {
		return fmt.Errorf("check %s switch: %w", kind, err)
	}
	if paused {
		return fmt.Errorf("%w: %s on %s", ErrOperationPaused, kind, pool)
	}
	return nil
}

func (r *Router) invoke(ctx context.Context, ix solana.Instruction) (string, error) {
	sig, err := r.invoker.Invoke(ctx, ix)
	if err != nil {
		return sig, fmt.Errorf("invoke pool program: %w", err)
	}
	return sig, nil
}

// record hands the operation to every recorder. The operation has already
// landed, so recorder errors never fail the call.
func (r *Router) record(ctx context.Context, op *models.OperationEvent) {
	op.Timestamp = r.now().UTC()

	for _, rec := range r.recorders {
		rctx, cancel := context.WithTimeout(ctx, constants.RecordTimeout)
		err := rec.RecordOperation(rctx, op)
		cancel()
		if err != nil {
			r.logger.WithError(err).WithFields(logrus.Fields{
				"kind":      op.Kind,
				"signature": op.Signature,
			}).Warn("failed to record operation")
		}
	}
}
