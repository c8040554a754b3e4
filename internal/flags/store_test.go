package flags

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	require.NoError(t, client.FlushDB(ctx).Err())

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.FlushDB(ctx).Err()
		_ = client.Close()
	})
	return client
}

func newTestStore(t *testing.T) *Store {
	store, err := NewStore(setupTestRedis(t))
	require.NoError(t, err)
	return store
}

func TestNewStore_NilClient(t *testing.T) {
	_, err := NewStore(nil)
	assert.Error(t, err)
}

func TestValidateKey(t *testing.T) {
	for _, key := range []string{"pause.all", "pause.swap", "pause.pool.EGZ7tiLeH62TPV1gL8WwbXGzEPa9zmcpVnnkPKKnrE2U", "a", "x-1_y"} {
		assert.NoError(t, ValidateKey(key), key)
	}
	for _, key := range []string{"", " ", "with space", "with:colon", "tab\tkey", "new\nline", strings.Repeat("k", 129)} {
		assert.ErrorIs(t, ValidateKey(key), ErrInvalidKey, "%q", key)
	}
}

func TestPauseKeys(t *testing.T) {
	assert.Equal(t, "pause.deposit", PauseKey("deposit"))
	assert.Equal(t, "pause.pool.abc", PausePoolKey("abc"))
	assert.NoError(t, ValidateKey(PausePoolKey("9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP")))
}

func TestStore_UpsertGetDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, PauseKey("swap"))
	assert.ErrorIs(t, err, ErrNotFound)

	first, err := store.Upsert(ctx, PauseKey("swap"), true, "  vault migration  ")
	require.NoError(t, err)
	assert.Equal(t, "vault migration", first.Reason)
	assert.NotZero(t, first.UpdatedAt)

	got, err := store.Get(ctx, PauseKey("swap"))
	require.NoError(t, err)
	assert.Equal(t, first.Key, got.Key)
	assert.True(t, got.Value)
	assert.Equal(t, first.UpdatedAt, got.UpdatedAt)

	time.Sleep(time.Millisecond)
	second, err := store.Upsert(ctx, PauseKey("swap"), false, "")
	require.NoError(t, err)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Empty(t, second.Reason)

	require.NoError(t, store.Delete(ctx, PauseKey("swap")))
	_, err = store.Get(ctx, PauseKey("swap"))
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, PauseKey("swap")))

	_, err = store.Upsert(ctx, "bad key", true, "")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestStore_ReasonIsBounded(t *testing.T) {
	store := newTestStore(t)

	f, err := store.Upsert(context.Background(), PauseAll, true, strings.Repeat("r", 1000))
	require.NoError(t, err)
	assert.Len(t, f.Reason, maxReasonLen)
}

func TestStore_ListSorted(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	flags, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, flags)

	for _, key := range []string{"pause.withdraw", "pause.all", "pause.deposit"} {
		_, err := store.Upsert(ctx, key, key == "pause.deposit", "")
		require.NoError(t, err)
	}

	flags, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, flags, 3)
	assert.Equal(t, "pause.all", flags[0].Key)
	assert.Equal(t, "pause.deposit", flags[1].Key)
	assert.True(t, flags[1].Value)
	assert.Equal(t, "pause.withdraw", flags[2].Key)
}

func TestStore_ListSkipsCorruptValues(t *testing.T) {
	client := setupTestRedis(t)
	store, err := NewStore(client)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Upsert(ctx, PauseAll, true, "")
	require.NoError(t, err)
	require.NoError(t, client.Set(ctx, redisKey("pause.swap"), "{not json", 0).Err())
	require.NoError(t, client.SAdd(ctx, indexKey, "pause.swap").Err())

	flags, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, flags, 1)
	assert.Equal(t, PauseAll, flags[0].Key)
}

func TestStore_Paused(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	const pool = "EGZ7tiLeH62TPV1gL8WwbXGzEPa9zmcpVnnkPKKnrE2U"

	check := func(kind, p string, want bool) {
		t.Helper()
		paused, err := store.Paused(ctx, kind, p)
		require.NoError(t, err)
		assert.Equal(t, want, paused, "%s on %s", kind, p)
	}

	check("swap", pool, false)

	_, err := store.Upsert(ctx, PauseKey("swap"), true, "")
	require.NoError(t, err)
	check("swap", pool, true)
	check("deposit", pool, false)

	_, err = store.Upsert(ctx, PausePoolKey(pool), true, "halted by operator")
	require.NoError(t, err)
	check("deposit", pool, true)
	check("deposit", "other", false)

	active, err := store.ActivePause(ctx, "deposit", pool)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "halted by operator", active.Reason)

	_, err = store.Upsert(ctx, PauseAll, true, "")
	require.NoError(t, err)
	check("withdraw", "other", true)

	for _, key := range []string{PauseAll, PauseKey("swap"), PausePoolKey(pool)} {
		_, err = store.Upsert(ctx, key, false, "")
		require.NoError(t, err)
	}
	check("swap", pool, false)

	active, err = store.ActivePause(ctx, "swap", pool)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestStore_ConcurrentUpserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	const workers = 8
	const perWorker = 25

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				key := PausePoolKey(fmt.Sprintf("pool%d-%d", id, j))
				value := (id+j)%2 == 0
				_, err := store.Upsert(ctx, key, value, "")
				assert.NoError(t, err)

				got, err := store.Get(ctx, key)
				if assert.NoError(t, err) {
					assert.Equal(t, value, got.Value)
				}
			}
		}(w)
	}
	wg.Wait()

	flags, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, flags, workers*perWorker)
}
