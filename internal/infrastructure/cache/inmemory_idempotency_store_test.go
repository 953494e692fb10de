package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/grasdvirus/prime-panier/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInMemoryIdempotencyStore_Claim(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("first claim wins", func(t *testing.T) {
		ok, err := store.Claim(ctx, "key-1", "ord-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.Claim(ctx, "key-1", "ord-2", time.Hour)
		require.NoError(t, err)
		assert.False(t, ok, "second claim should lose")

		value, found, err := store.Lookup(ctx, "key-1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "ord-1", value, "value of the first claim is kept")
	})

	t.Run("expired key can be claimed again", func(t *testing.T) {
		ok, err := store.Claim(ctx, "key-2", "ord-1", 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, ok)

		time.Sleep(20 * time.Millisecond)

		_, found, err := store.Lookup(ctx, "key-2")
		require.NoError(t, err)
		assert.False(t, found)

		ok, err = store.Claim(ctx, "key-2", "ord-3", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("release frees the key", func(t *testing.T) {
		ok, err := store.Claim(ctx, "key-3", "ord-1", time.Hour)
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, store.Release(ctx, "key-3"))

		ok, err = store.Claim(ctx, "key-3", "ord-9", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestInMemoryIdempotencyStore_ConcurrentClaims(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()
	const goroutines = 50

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.Claim(ctx, "same-key", "ord", time.Hour)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners, "exactly one claim should succeed")
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	current := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	ctx := context.Background()
	_, _ = store.Claim(ctx, "short", "a", time.Minute)
	_, _ = store.Claim(ctx, "long", "b", time.Hour)
	assert.Equal(t, 2, store.Size())

	current = current.Add(10 * time.Minute)
	store.cleanup()
	assert.Equal(t, 1, store.Size())
}

func TestInMemoryIdempotencyStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestIdempotencyStoreFactory(t *testing.T) {
	t.Run("disabled redis yields in-memory store", func(t *testing.T) {
		factory := NewIdempotencyStoreFactory(config.RedisConfig{Enabled: false}, WithLogger(zap.NewNop()))
		store, err := factory.CreateStore()
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("unreachable redis falls back when allowed", func(t *testing.T) {
		factory := NewIdempotencyStoreFactory(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1})
		store, err := factory.CreateStore()
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("unreachable redis fails without fallback", func(t *testing.T) {
		factory := NewIdempotencyStoreFactory(
			config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1},
			WithInMemoryFallback(false),
		)
		_, err := factory.CreateStore()
		assert.Error(t, err)
	})
}
