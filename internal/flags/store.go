package flags

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	indexKey    = "lprouter:flags:index"
	valuePrefix = "lprouter:flags:"

	maxReasonLen = 256
)

var keyRe = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,128}$`)

// Store keeps switches as JSON values with a set index for listing
type Store struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewStore(client redis.Cmdable) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	return &Store{client: client, now: time.Now}, nil
}

func ValidateKey(key string) error {
	if !keyRe.MatchString(key) {
		return ErrInvalidKey
	}
	return nil
}

// Upsert sets a switch. The reason is trimmed and cut to a bounded length.
func (s *Store) Upsert(ctx context.Context, key string, value bool, reason string) (*Flag, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	if len(reason) > maxReasonLen {
		reason = reason[:maxReasonLen]
	}

	f := &Flag{Key: key, Value: value, Reason: reason, UpdatedAt: s.now().UTC()}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshal flag: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, redisKey(key), b, 0)
	pipe.SAdd(ctx, indexKey, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("upsert flag: %w", err)
	}
	return f, nil
}

func (s *Store) Get(ctx context.Context, key string) (*Flag, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	raw, err := s.client.Get(ctx, redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get flag: %w", err)
	}
	return decode(raw)
}

// List returns every indexed switch ordered by key
func (s *Store) List(ctx context.Context) ([]*Flag, error) {
	keys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list flags index: %w", err)
	}

	redisKeys := make([]string, 0, len(keys))
	for _, k := range keys {
		if ValidateKey(k) == nil {
			redisKeys = append(redisKeys, redisKey(k))
		}
	}

	out, err := s.load(ctx, redisKeys...)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Delete removes a switch; deleting a missing switch is not an error
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, redisKey(key))
	pipe.SRem(ctx, indexKey, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete flag: %w", err)
	}
	return nil
}

// ActivePause returns the first set pause switch covering kind on pool, or
// nil. Missing switches count as not paused.
func (s *Store) ActivePause(ctx context.Context, kind, pool string) (*Flag, error) {
	keys := []string{redisKey(PauseAll)}
	if kind != "" {
		keys = append(keys, redisKey(PauseKey(kind)))
	}
	if pool != "" {
		keys = append(keys, redisKey(PausePoolKey(pool)))
	}

	set, err := s.load(ctx, keys...)
	if err != nil {
		return nil, fmt.Errorf("read pause flags: %w", err)
	}
	for _, f := range set {
		if f.Value {
			return f, nil
		}
	}
	return nil, nil
}

// Paused reports whether any pause switch covers kind on pool
func (s *Store) Paused(ctx context.Context, kind, pool string) (bool, error) {
	f, err := s.ActivePause(ctx, kind, pool)
	if err != nil {
		return false, err
	}
	return f != nil, nil
}

// load fetches switches in key order, skipping absent or corrupt entries
func (s *Store) load(ctx context.Context, redisKeys ...string) ([]*Flag, error) {
	if len(redisKeys) == 0 {
		return []*Flag{}, nil
	}

	vals, err := s.client.MGet(ctx, redisKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget flags: %w", err)
	}

	out := make([]*Flag, 0, len(vals))
	for _, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		f, err := decode(raw)
		if err != nil {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func decode(raw string) (*Flag, error) {
	var f Flag
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return nil, fmt.Errorf("unmarshal flag: %w", err)
	}
	return &f, nil
}

func redisKey(key string) string {
	return valuePrefix + key
}
