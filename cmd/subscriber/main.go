// cmd/subscriber/main.go - tails executed LP operations from Redis
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-lp-router/internal/cache"
	"github.com/aman-zulfiqar/solana-lp-router/internal/config"
	"github.com/aman-zulfiqar/solana-lp-router/internal/models"
)

func main() {
	_ = godotenv.Load()

	kind := flag.String("kind", "", "only show deposit | withdraw | swap")
	backlog := flag.Int("backlog", 0, "print this many recent operations before following")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()
	if cfg.RedisAddr == "" {
		logger.Fatal("REDIS_ADDR is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutting down subscriber")
		cancel()
	}()

	rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to Redis")
	}
	defer rc.Close()

	show := func(op *models.OperationEvent) {
		if *kind != "" && string(op.Kind) != *kind {
			return
		}
		logger.WithFields(logrus.Fields{
			"signature": op.Signature,
			"pool":      op.Pool,
			"user":      op.User,
			"amount_a":  op.AmountA,
			"amount_b":  op.AmountB,
			"lp":        op.LPAmount,
			"a_to_b":    op.AToB,
			"reserve_a": op.ReserveA,
			"reserve_b": op.ReserveB,
		}).Info(string(op.Kind))
	}

	if *backlog > 0 {
		recent, err := rc.GetRecentOperations(ctx, int64(*backlog))
		if err != nil {
			logger.WithError(err).Warn("could not read recent operations")
		}
		// newest first in Redis, print oldest first
		for i := len(recent) - 1; i >= 0; i-- {
			show(recent[i])
		}
	}

	ops, err := rc.SubscribeOperations(ctx)
	if err != nil {
		logger.WithError(err).Fatal("subscribe failed")
	}
	logger.Info("subscriber running, press Ctrl+C to stop")

	for op := range ops {
		show(op)
	}
}
