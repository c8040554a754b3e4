package storage

import (
	"context"
	"io"

	"github.com/aman-zulfiqar/solana-lp-router/internal/models"
)

// OperationRecorder receives every operation the router submits
type OperationRecorder interface {
	RecordOperation(ctx context.Context, op *models.OperationEvent) error
}

// OperationCache keeps recent operations and fans them out to subscribers
type OperationCache interface {
	OperationRecorder

	// GetRecentOperations returns the newest operations first
	GetRecentOperations(ctx context.Context, limit int64) ([]*models.OperationEvent, error)

	// SubscribeOperations streams operations as they are recorded
	SubscribeOperations(ctx context.Context) (<-chan *models.OperationEvent, error)

	Ping(ctx context.Context) error
	io.Closer
}

// OperationStore is the persistent operation history
type OperationStore interface {
	OperationRecorder

	// InsertOperation inserts an operation into the store
	InsertOperation(ctx context.Context, op *models.OperationEvent) error

	Ping(ctx context.Context) error
	io.Closer
}
