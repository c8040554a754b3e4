package wallet

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-lp-router/internal/rpc"
)

type WalletConfig struct {
	PrivateKey string // base58-encoded 64-byte key OR solana-keygen JSON array

	Commitment          string // confirmation level, e.g. "confirmed"
	SkipPreflight       bool
	PreflightCommitment string // e.g. "processed"
	RequireSimulation   bool
	ConfirmTimeout      time.Duration

	Logger *logrus.Logger
}

type Wallet struct {
	cfg    WalletConfig
	rpc    *rpc.Client
	priv   solana.PrivateKey
	pub    solana.PublicKey
	logger *logrus.Logger
}

func NewWallet(cfg WalletConfig, client *rpc.Client) (*Wallet, error) {
	if client == nil {
		return nil, fmt.Errorf("wallet: rpc client is required")
	}
	if cfg.Commitment == "" {
		cfg.Commitment = "confirmed"
	}
	if cfg.PreflightCommitment == "" {
		cfg.PreflightCommitment = "processed"
	}
	if cfg.ConfirmTimeout == 0 {
		cfg.ConfirmTimeout = 60 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if strings.TrimSpace(cfg.PrivateKey) == "" {
		return nil, fmt.Errorf("wallet: PrivateKey is required")
	}

	priv, err := ParsePrivateKey(cfg.PrivateKey)
	if err != nil {
		return nil, err
	}

	return &Wallet{
		cfg:    cfg,
		rpc:    client,
		priv:   priv,
		pub:    priv.PublicKey(),
		logger: cfg.Logger,
	}, nil
}

func (w *Wallet) Address() string             { return w.pub.String() }
func (w *Wallet) PublicKey() solana.PublicKey { return w.pub }

// ParsePrivateKey accepts a base58 string or a solana-keygen JSON byte array
func ParsePrivateKey(s string) (solana.PrivateKey, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		var ints []int
		if err := json.Unmarshal([]byte(s), &ints); err != nil {
			return nil, fmt.Errorf("wallet: invalid JSON private key: %w", err)
		}
		b := make([]byte, len(ints))
		for i, v := range ints {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("wallet: invalid byte at %d: %d", i, v)
			}
			b[i] = byte(v)
		}
		return checkKeyLength(b)
	}

	raw, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("wallet: invalid base58 private key: %w", err)
	}
	return checkKeyLength(raw)
}

func checkKeyLength(b []byte) (solana.PrivateKey, error) {
	if len(b) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("wallet: expected %d bytes, got %d", ed25519.PrivateKeySize, len(b))
	}
	return solana.PrivateKey(ed25519.PrivateKey(b)), nil
}
