package cache

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-lp-router/internal/constants"
	"github.com/aman-zulfiqar/solana-lp-router/internal/models"
)

type ClickHouseConfig struct {
	Addr     string
	Database string
	Username string
	Password string
	Logger   *logrus.Logger
}

type ClickHouseStore struct {
	conn   driver.Conn
	logger *logrus.Logger
}

func NewClickHouseStore(ctx context.Context, cfg ClickHouseConfig) (*ClickHouseStore, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	cfg.Logger.WithField("addr", cfg.Addr).Info("connected to ClickHouse")

	return &ClickHouseStore{conn: conn, logger: cfg.Logger}, nil
}

// EnsureSchema creates the operations table if it does not exist
func (c *ClickHouseStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			signature String,
			timestamp DateTime64(3),
			kind LowCardinality(String),
			pool String,
			user String,
			amount_a UInt64,
			amount_b UInt64,
			lp_amount UInt64,
			a_to_b Bool,
			reserve_a UInt64,
			reserve_b UInt64,
			lp_supply UInt64
		) ENGINE = MergeTree
		ORDER BY (pool, timestamp)
	`, constants.OperationsTable)

	if err := c.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create %s: %w", constants.OperationsTable, err)
	}
	return nil
}

func (c *ClickHouseStore) RecordOperation(ctx context.Context, op *models.OperationEvent) error {
	return c.InsertOperation(ctx, op)
}

func (c *ClickHouseStore) InsertOperation(ctx context.Context, op *models.OperationEvent) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			signature, timestamp, kind, pool, user,
			amount_a, amount_b, lp_amount, a_to_b,
			reserve_a, reserve_b, lp_supply
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, constants.OperationsTable)

	err := c.conn.Exec(ctx, query,
		op.Signature,
		op.Timestamp,
		string(op.Kind),
		op.Pool,
		op.User,
		op.AmountA,
		op.AmountB,
		op.LPAmount,
		op.AToB,
		op.ReserveA,
		op.ReserveB,
		op.LPSupply,
	)
	if err != nil {
		return fmt.Errorf("failed to insert operation: %w", err)
	}
	return nil
}

func (c *ClickHouseStore) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *ClickHouseStore) Close() error {
	return c.conn.Close()
}
