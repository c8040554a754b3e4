package wallet

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
)

// ErrSimulationFailed is returned when preflight simulation rejects a transaction
var ErrSimulationFailed = errors.New("simulation failed")

// ErrTransactionFailed is returned when a sent transaction lands with an error
var ErrTransactionFailed = errors.New("transaction failed")

// Invoke builds, signs, sends and confirms a transaction carrying the given
// instructions and returns its signature
func (w *Wallet) Invoke(ctx context.Context, instructions ...solana.Instruction) (string, error) {
	tx, err := w.BuildTransaction(ctx, instructions)
	if err != nil {
		return "", err
	}
	if err := w.SignTx(tx); err != nil {
		return "", err
	}

	if w.cfg.RequireSimulation {
		if err := w.Simulate(ctx, tx); err != nil {
			return "", err
		}
	}

	sig, err := w.SendTx(ctx, tx)
	if err != nil {
		return "", err
	}

	if err := w.ConfirmTransaction(ctx, sig); err != nil {
		return sig, err
	}

	w.logger.WithFields(logrus.Fields{
		"signature":    sig,
		"instructions": len(instructions),
	}).Info("transaction confirmed")

	return sig, nil
}

// BuildTransaction creates a new transaction with recent blockhash
func (w *Wallet) BuildTransaction(ctx context.Context, instructions []solana.Instruction) (*solana.Transaction, error) {
	if len(instructions) == 0 {
		return nil, fmt.Errorf("no instructions to send")
	}

	blockhash, err := w.rpc.GetLatestBlockhash(ctx, w.cfg.PreflightCommitment)
	if err != nil {
		return nil, fmt.Errorf("failed to get blockhash: %w", err)
	}
	hash, err := solana.HashFromBase58(blockhash)
	if err != nil {
		return nil, fmt.Errorf("invalid blockhash format: %w", err)
	}

	tx, err := solana.NewTransaction(instructions, hash, solana.TransactionPayer(w.pub))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return tx, nil
}

// SignTx signs a transaction with the wallet's private key
func (w *Wallet) SignTx(tx *solana.Transaction) error {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.pub) {
			return &w.priv
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}
	return nil
}

// Simulate runs the transaction without committing it
func (w *Wallet) Simulate(ctx context.Context, tx *solana.Transaction) error {
	encoded, err := encodeTx(tx)
	if err != nil {
		return err
	}

	value, err := w.rpc.SimulateTransaction(ctx, encoded, w.cfg.PreflightCommitment)
	if err != nil {
		return fmt.Errorf("simulateTransaction failed: %w", err)
	}
	if value.Err != nil {
		w.logger.WithField("logs", value.Logs).Warn("simulation rejected transaction")
		return fmt.Errorf("%w: %v", ErrSimulationFailed, value.Err)
	}

	w.logger.WithField("units", value.UnitsConsumed).Debug("simulation ok")
	return nil
}

// SendTx submits a signed transaction
func (w *Wallet) SendTx(ctx context.Context, tx *solana.Transaction) (string, error) {
	encoded, err := encodeTx(tx)
	if err != nil {
		return "", err
	}

	sig, err := w.rpc.SendTransaction(ctx, encoded, map[string]interface{}{
		"skipPreflight":       w.cfg.SkipPreflight,
		"preflightCommitment": w.cfg.PreflightCommitment,
		"maxRetries":          3,
	})
	if err != nil {
		return "", fmt.Errorf("sendTransaction failed: %w", err)
	}
	return sig, nil
}

// ConfirmTransaction polls until the signature reaches the configured
// commitment, fails, or the confirm timeout elapses
func (w *Wallet) ConfirmTransaction(ctx context.Context, signature string) error {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.ConfirmTimeout)
	defer cancel()

	backoff := 500 * time.Millisecond
	maxBackoff := 4 * time.Second

	for {
		status, err := w.rpc.GetSignatureStatus(ctx, signature)
		if err != nil {
			return fmt.Errorf("failed to check signature: %w", err)
		}
		if status != nil {
			if status.Err != nil {
				return fmt.Errorf("%w: %v", ErrTransactionFailed, status.Err)
			}
			if commitmentReached(status.ConfirmationStatus, w.cfg.Commitment) {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("transaction confirmation timeout: %w", ctx.Err())
		case <-time.After(backoff):
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}
	}
}

func commitmentReached(status, want string) bool {
	switch want {
	case "confirmed":
		return status == "confirmed" || status == "finalized"
	case "finalized":
		return status == "finalized"
	default:
		return status != ""
	}
}

func encodeTx(tx *solana.Transaction) (string, error) {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
