package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-lp-router/internal/cache"
	"github.com/aman-zulfiqar/solana-lp-router/internal/config"
	"github.com/aman-zulfiqar/solana-lp-router/internal/flags"
	"github.com/aman-zulfiqar/solana-lp-router/internal/pool"
	"github.com/aman-zulfiqar/solana-lp-router/internal/reserves"
	"github.com/aman-zulfiqar/solana-lp-router/internal/rpc"
	"github.com/aman-zulfiqar/solana-lp-router/internal/server"
)

// loadEnv reads .env from the project root when present
func loadEnv(logger *logrus.Logger) {
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Warnf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	loadEnv(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	registry, err := pool.NewRegistry(cfg.PoolConfigPath)
	if err != nil {
		logger.WithError(err).Fatal("failed to load pools")
	}
	logger.WithField("pools", registry.Count()).Info("pool registry loaded")

	rpcClient := rpc.NewClient(rpc.ClientConfig{
		BaseURL:      cfg.RPCUrl,
		Timeout:      cfg.HTTPTimeout,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		Logger:       logger,
	})

	h := &server.Handlers{
		Pools:  registry,
		Reader: reserves.NewReader(reserves.NewRPCFetcher(rpcClient, cfg.Commitment)),
		Logger: logger,
	}

	// Redis backs the recent operations feed and the operation switches
	if cfg.RedisAddr != "" {
		rclient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: 0})
		if err := rclient.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Fatal("failed to connect to Redis")
		}
		defer rclient.Close()

		h.Cache = cache.NewRedisCacheFromClient(rclient, logger)
		if h.Flags, err = flags.NewStore(rclient); err != nil {
			logger.WithError(err).Fatal("failed to create flags store")
		}
	} else {
		logger.Warn("REDIS_ADDR not set, operations feed and switches disabled")
	}

	srv, err := server.NewServer(server.ServerDeps{
		Handlers: h,
		Config: server.ServerConfig{
			Addr:    cfg.APIAddr,
			DevMode: cfg.DevMode,
			APIKey:  cfg.APIKey,
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create http server")
	}

	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
		_ = srv.Shutdown(context.Background())
	}()

	logger.WithField("addr", cfg.APIAddr).Info("api server starting")
	if err := srv.Start(); err != nil {
		logger.WithError(err).Fatal("api server failed")
	}

	if err := srv.WaitClosed(context.Background()); err != nil {
		logger.WithError(err).Warn("server did not close cleanly")
	}
}
