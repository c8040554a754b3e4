package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-lp-router/internal/constants"
	"github.com/aman-zulfiqar/solana-lp-router/internal/models"
)

// RedisCache keeps the recent operations list and publishes each operation
type RedisCache struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewRedisCache connects to Redis at addr
func NewRedisCache(ctx context.Context, addr string, logger *logrus.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 0})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisCacheFromClient(client, logger), nil
}

// NewRedisCacheFromClient wraps an existing client
func NewRedisCacheFromClient(client *redis.Client, logger *logrus.Logger) *RedisCache {
	if logger == nil {
		logger = logrus.New()
	}
	return &RedisCache{client: client, logger: logger}
}

// RecordOperation pushes the operation to the recent list and publishes it
func (r *RedisCache) RecordOperation(ctx context.Context, op *models.OperationEvent) error {
	if err := r.AddRecentOperation(ctx, op); err != nil {
		return err
	}
	return r.PublishOperation(ctx, op)
}

// AddRecentOperation prepends to the capped recent list
func (r *RedisCache) AddRecentOperation(ctx context.Context, op *models.OperationEvent) error {
	data, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("marshal operation: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, constants.RedisKeyRecentOperations, data)
	pipe.LTrim(ctx, constants.RedisKeyRecentOperations, 0, constants.MaxRecentOperations-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("add recent operation: %w", err)
	}
	return nil
}

// PublishOperation publishes to the shared channel and the per-kind channel
func (r *RedisCache) PublishOperation(ctx context.Context, op *models.OperationEvent) error {
	data, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("marshal operation: %w", err)
	}

	channels := []string{
		constants.PubSubChannelOperations,
		constants.PubSubChannelOperationPrefix + string(op.Kind),
	}

	pipe := r.client.Pipeline()
	for _, channel := range channels {
		pipe.Publish(ctx, channel, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish operation: %w", err)
	}
	return nil
}

// GetRecentOperations returns up to limit operations, newest first
func (r *RedisCache) GetRecentOperations(ctx context.Context, limit int64) ([]*models.OperationEvent, error) {
	if limit <= 0 {
		return []*models.OperationEvent{}, nil
	}

	vals, err := r.client.LRange(ctx, constants.RedisKeyRecentOperations, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("get recent operations: %w", err)
	}

	out := make([]*models.OperationEvent, 0, len(vals))
	for _, v := range vals {
		var op models.OperationEvent
		if err := json.Unmarshal([]byte(v), &op); err != nil {
			r.logger.WithError(err).Warn("skipping malformed operation")
			continue
		}
		out = append(out, &op)
	}
	return out, nil
}

// SubscribeOperations streams operations from the shared channel until ctx
// is done
func (r *RedisCache) SubscribeOperations(ctx context.Context) (<-chan *models.OperationEvent, error) {
	pubsub := r.client.Subscribe(ctx, constants.PubSubChannelOperations)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	out := make(chan *models.OperationEvent)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var op models.OperationEvent
				if err := json.Unmarshal([]byte(msg.Payload), &op); err != nil {
					r.logger.WithError(err).Warn("error unmarshaling operation")
					continue
				}
				select {
				case out <- &op:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

// Client returns the underlying Redis client
func (r *RedisCache) Client() *redis.Client {
	return r.client
}
