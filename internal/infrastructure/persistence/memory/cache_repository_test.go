package memory

import (
	"context"
	"testing"
	"time"

	"github.com/meadcraft/meadery/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("SetThenGet", func(t *testing.T) {
		cache := NewCacheRepository()
		require.NoError(t, cache.Set(ctx, "draft:1", []byte("body"), time.Minute))

		got, err := cache.Get(ctx, "draft:1")
		require.NoError(t, err)
		assert.Equal(t, []byte("body"), got)
	})

	t.Run("MissingKey", func(t *testing.T) {
		cache := NewCacheRepository()
		_, err := cache.Get(ctx, "nope")
		assert.ErrorIs(t, err, outbound.ErrCacheMiss)
	})

	t.Run("ExpiredKeyIsEvictedOnRead", func(t *testing.T) {
		now := time.Now()
		cache := NewCacheRepository()
		cache.now = func() time.Time { return now }

		require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Second))
		now = now.Add(2 * time.Second)

		_, err := cache.Get(ctx, "k")
		assert.ErrorIs(t, err, outbound.ErrCacheMiss)
		assert.Empty(t, cache.data)
	})

	t.Run("StoredValueIsCopied", func(t *testing.T) {
		cache := NewCacheRepository()
		value := []byte("abc")
		require.NoError(t, cache.Set(ctx, "k", value, time.Minute))
		value[0] = 'z'

		got, err := cache.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(got))
	})

	t.Run("DeleteAndExists", func(t *testing.T) {
		cache := NewCacheRepository()
		require.NoError(t, cache.Set(ctx, "k", []byte("v"), 0))

		ok, err := cache.Exists(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, cache.Delete(ctx, "k"))
		ok, err = cache.Exists(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("CleanupDropsExpired", func(t *testing.T) {
		now := time.Now()
		cache := NewCacheRepository()
		cache.now = func() time.Time { return now }

		require.NoError(t, cache.Set(ctx, "short", []byte("v"), time.Second))
		require.NoError(t, cache.Set(ctx, "long", []byte("v"), time.Hour))
		now = now.Add(time.Minute)

		assert.Equal(t, 1, cache.Cleanup())
		ok, err := cache.Exists(ctx, "long")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
