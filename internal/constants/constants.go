package constants

import "time"

// Redis keys
const (
	RedisKeyRecentOperations = "lprouter:operations:recent"
)

// Redis Pub/Sub channels
const (
	PubSubChannelOperations      = "lprouter:operations"
	PubSubChannelOperationPrefix = "lprouter:operations:"
)

// Limits
const (
	MaxRecentOperations     = 200
	DefaultRecentOperations = 50
)

// Timeouts
const (
	RecordTimeout = 3 * time.Second
	QuoteTimeout  = 10 * time.Second
)

// ClickHouse
const (
	OperationsTable = "lp_operations"
)

// Well-known SPL Token Swap deployments
var ProgramAddresses = map[string]string{
	"SPLTokenSwap": "SwaPpA9LAaLfeLi3a68M4DjnLqgtticKg6CnyNwgAC8",
	"OrcaV1":       "DjVE6JNiYqPL2QXyCUUh8rNjHrbz9hXHNYt99MQ59qw1",
	"OrcaV2":       "9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP",
}
