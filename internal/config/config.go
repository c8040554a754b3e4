package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// RPC settings
	RPCUrl     string
	Commitment string

	// HTTP client settings
	HTTPTimeout  time.Duration
	MaxRetries   int
	RetryBackoff time.Duration

	// Pools
	PoolConfigPath string

	// Wallet
	WalletPrivateKey  string
	RequireSimulation bool
	SkipPreflight     bool
	ConfirmTimeout    time.Duration

	// Redis settings
	RedisAddr string

	// ClickHouse settings
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string

	// API server
	APIAddr string
	APIKey  string
	DevMode bool

	LogLevel string
}

func Load() *Config {
	return &Config{
		// RPC
		RPCUrl:     getEnv("SOLANA_RPC_URL", "https://api.mainnet-beta.solana.com"),
		Commitment: getEnv("SOLANA_COMMITMENT", "confirmed"),

		// HTTP
		HTTPTimeout:  getDurationEnv("HTTP_TIMEOUT", 30*time.Second),
		MaxRetries:   getIntEnv("MAX_RETRIES", 5),
		RetryBackoff: getDurationEnv("RETRY_BACKOFF", 2*time.Second),

		// Pools
		PoolConfigPath: getEnv("POOL_CONFIG_PATH", "pools.json"),

		// Wallet
		WalletPrivateKey:  getEnv("WALLET_PRIVATE_KEY", ""),
		RequireSimulation: getBoolEnv("REQUIRE_SIMULATION", true),
		SkipPreflight:     getBoolEnv("SKIP_PREFLIGHT", false),
		ConfirmTimeout:    getDurationEnv("CONFIRM_TIMEOUT", 60*time.Second),

		// Redis
		RedisAddr: getEnv("REDIS_ADDR", ""),

		// ClickHouse
		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", ""),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "solana"),
		ClickHouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),

		// API
		APIAddr: getEnv("API_ADDR", ":8090"),
		APIKey:  getEnv("API_KEY", ""),
		DevMode: getBoolEnv("DEV_MODE", false),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks settings shared by every binary
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RPCUrl) == "" {
		return fmt.Errorf("SOLANA_RPC_URL is required")
	}
	switch c.Commitment {
	case "processed", "confirmed", "finalized":
	default:
		return fmt.Errorf("SOLANA_COMMITMENT must be processed, confirmed or finalized, got %q", c.Commitment)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("MAX_RETRIES must be >= 0")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be > 0")
	}
	if c.ConfirmTimeout <= 0 {
		return fmt.Errorf("CONFIRM_TIMEOUT must be > 0")
	}
	if strings.TrimSpace(c.PoolConfigPath) == "" {
		return fmt.Errorf("POOL_CONFIG_PATH is required")
	}
	return nil
}

// ValidateExecution checks the settings needed to sign and send
func (c *Config) ValidateExecution() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.WalletPrivateKey) == "" {
		return fmt.Errorf("WALLET_PRIVATE_KEY is required to execute operations")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
