package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-lp-router/internal/amm"
	"github.com/aman-zulfiqar/solana-lp-router/internal/cache"
	"github.com/aman-zulfiqar/solana-lp-router/internal/config"
	"github.com/aman-zulfiqar/solana-lp-router/internal/flags"
	"github.com/aman-zulfiqar/solana-lp-router/internal/pool"
	"github.com/aman-zulfiqar/solana-lp-router/internal/reserves"
	"github.com/aman-zulfiqar/solana-lp-router/internal/router"
	"github.com/aman-zulfiqar/solana-lp-router/internal/rpc"
	"github.com/aman-zulfiqar/solana-lp-router/internal/storage"
	"github.com/aman-zulfiqar/solana-lp-router/internal/wallet"
)

func loadEnv() {
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	_ = godotenv.Load(filepath.Join(projectRoot, ".env"))
}

type options struct {
	op     string
	mode   string
	pool   string
	owner  string
	a      string
	b      string
	lp     string
	minOut string
	setup  bool
}

func main() {
	loadEnv()

	var o options
	flag.StringVar(&o.op, "op", "swap", "deposit | withdraw | swap")
	flag.StringVar(&o.mode, "mode", "quote", "quote | execute")
	flag.StringVar(&o.pool, "pool", "", "pool name from the pool config")
	flag.StringVar(&o.owner, "owner", "", "wallet to quote for (defaults to the configured wallet)")
	flag.StringVar(&o.a, "a", "", "token A amount in human units")
	flag.StringVar(&o.b, "b", "", "token B amount in human units")
	flag.StringVar(&o.lp, "lp", "", "LP amount to withdraw in human units (empty withdraws everything)")
	flag.StringVar(&o.minOut, "min-out", "", "swap: minimum output in human units")
	flag.BoolVar(&o.setup, "setup", false, "execute: create missing token accounts first")
	flag.Parse()

	logger := logrus.New()
	cfg := config.Load()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := run(ctx, cfg, o, logger); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, o options, logger *logrus.Logger) error {
	execute := false
	switch o.mode {
	case "quote":
		if err := cfg.Validate(); err != nil {
			return err
		}
	case "execute":
		if err := cfg.ValidateExecution(); err != nil {
			return err
		}
		execute = true
	default:
		return fmt.Errorf("invalid -mode %q (use quote|execute)", o.mode)
	}

	registry, err := pool.NewRegistry(cfg.PoolConfigPath)
	if err != nil {
		return err
	}
	p, err := registry.FindByName(o.pool)
	if err != nil {
		return err
	}

	rpcClient := rpc.NewClient(rpc.ClientConfig{
		BaseURL:      cfg.RPCUrl,
		Timeout:      cfg.HTTPTimeout,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		Logger:       logger,
	})

	rcfg := router.Config{
		Fetcher: reserves.NewRPCFetcher(rpcClient, cfg.Commitment),
		Logger:  logger,
	}

	var w *wallet.Wallet
	if cfg.WalletPrivateKey != "" {
		w, err = wallet.NewWallet(wallet.WalletConfig{
			PrivateKey:        cfg.WalletPrivateKey,
			Commitment:        cfg.Commitment,
			SkipPreflight:     cfg.SkipPreflight,
			RequireSimulation: cfg.RequireSimulation,
			ConfirmTimeout:    cfg.ConfirmTimeout,
			Logger:            logger,
		}, rpcClient)
		if err != nil {
			return err
		}
	}

	owner, err := resolveOwner(o.owner, w)
	if err != nil {
		return err
	}
	user, err := p.UserAccounts(owner)
	if err != nil {
		return err
	}

	if execute {
		rcfg.Invoker = w
		recorders, gate, closeFn := openRecorders(ctx, cfg, logger)
		defer closeFn()
		rcfg.Recorders = recorders
		rcfg.Gate = gate

		if o.setup {
			sig, err := w.Invoke(ctx, p.SetupInstructions(user)...)
			if err != nil {
				return fmt.Errorf("create token accounts: %w", err)
			}
			logger.WithField("signature", sig).Info("token accounts ready")
		}
	}

	r, err := router.New(rcfg)
	if err != nil {
		return err
	}

	out, err := dispatch(ctx, r, p, user, o, execute)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func dispatch(ctx context.Context, r *router.Router, p *pool.Pool, user pool.UserAccounts, o options, execute bool) (any, error) {
	switch o.op {
	case "deposit":
		maxA, err := parseAmount("a", o.a, p.DecimalsA)
		if err != nil {
			return nil, err
		}
		maxB, err := parseAmount("b", o.b, p.DecimalsB)
		if err != nil {
			return nil, err
		}
		if execute {
			return r.AddLiquidity(ctx, p.DepositAccounts(user), maxA, maxB)
		}
		return r.QuoteDeposit(ctx, p.DepositAccounts(user), maxA, maxB)

	case "withdraw":
		lp, err := parseAmount("lp", o.lp, p.PoolDecimals)
		if err != nil {
			return nil, err
		}
		if execute {
			return r.RemoveLiquidity(ctx, p.WithdrawAccounts(user), lp)
		}
		return r.QuoteWithdraw(ctx, p.WithdrawAccounts(user), lp)

	case "swap":
		aIn, err := parseAmount("a", o.a, p.DecimalsA)
		if err != nil {
			return nil, err
		}
		bIn, err := parseAmount("b", o.b, p.DecimalsB)
		if err != nil {
			return nil, err
		}
		outDecimals := p.DecimalsB
		if aIn == 0 {
			outDecimals = p.DecimalsA
		}
		minOut, err := parseAmount("min-out", o.minOut, outDecimals)
		if err != nil {
			return nil, err
		}
		if execute {
			return r.Swap(ctx, p.SwapAccounts(user), aIn, bIn, minOut)
		}
		return r.QuoteSwap(ctx, p.SwapAccounts(user), aIn, bIn, minOut)

	default:
		return nil, fmt.Errorf("invalid -op %q (use deposit|withdraw|swap)", o.op)
	}
}

// parseAmount converts a human amount to raw units; empty means zero
func parseAmount(name, s string, decimals uint8) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := amm.ParseAmount(s, decimals)
	if err != nil {
		return 0, fmt.Errorf("-%s: %w", name, err)
	}
	return v, nil
}

func resolveOwner(flagValue string, w *wallet.Wallet) (solana.PublicKey, error) {
	if flagValue != "" {
		pk, err := solana.PublicKeyFromBase58(flagValue)
		if err != nil {
			return solana.PublicKey{}, fmt.Errorf("-owner: %w", err)
		}
		return pk, nil
	}
	if w == nil {
		return solana.PublicKey{}, fmt.Errorf("-owner or WALLET_PRIVATE_KEY is required")
	}
	return w.PublicKey(), nil
}

// openRecorders connects the optional Redis and ClickHouse sinks. Sinks that
// cannot be reached are skipped.
func openRecorders(ctx context.Context, cfg *config.Config, logger *logrus.Logger) ([]storage.OperationRecorder, router.Gate, func()) {
	var (
		recorders []storage.OperationRecorder
		gate      router.Gate
		closers   []func() error
	)

	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr, logger)
		if err != nil {
			logger.WithError(err).Warn("redis unavailable, skipping operations feed")
		} else {
			recorders = append(recorders, rc)
			closers = append(closers, rc.Close)
			if store, err := flags.NewStore(rc.Client()); err == nil {
				gate = store
			}
		}
	}

	if cfg.ClickHouseAddr != "" {
		ch, err := cache.NewClickHouseStore(ctx, cache.ClickHouseConfig{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
			Logger:   logger,
		})
		if err != nil {
			logger.WithError(err).Warn("clickhouse unavailable, skipping operation history")
		} else if err := ch.EnsureSchema(ctx); err != nil {
			logger.WithError(err).Warn("clickhouse schema setup failed")
			_ = ch.Close()
		} else {
			recorders = append(recorders, ch)
			closers = append(closers, ch.Close)
		}
	}

	return recorders, gate, func() {
		for _, c := range closers {
			_ = c()
		}
	}
}
