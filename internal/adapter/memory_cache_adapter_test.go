package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-drill/internal/domain"
)

func TestMemoryCacheAdapter_SetGetDelete(t *testing.T) {
	cache, err := NewMemoryCacheAdapter(4)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = cache.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "k", "v1", 0))
	require.NoError(t, cache.Set(ctx, "k", "v2", 0))
	val, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", val)

	require.NoError(t, cache.Delete(ctx, "k"))
	require.NoError(t, cache.Delete(ctx, "k"))
	_, err = cache.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.NoError(t, cache.Ping(ctx))
}

func TestMemoryCacheAdapter_Expiry(t *testing.T) {
	cache, err := NewMemoryCacheAdapter(4)
	require.NoError(t, err)
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Set(ctx, "k", "v", time.Minute))
	now = now.Add(59 * time.Second)
	_, err = cache.Get(ctx, "k")
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = cache.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.Equal(t, 0, cache.Len())
}

func TestMemoryCacheAdapter_EvictsLeastRecentlyUsed(t *testing.T) {
	cache, err := NewMemoryCacheAdapter(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", "1", 0))
	require.NoError(t, cache.Set(ctx, "b", "2", 0))
	_, err = cache.Get(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, "c", "3", 0))

	_, err = cache.Get(ctx, "b")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	_, err = cache.Get(ctx, "a")
	assert.NoError(t, err)
	_, err = cache.Get(ctx, "c")
	assert.NoError(t, err)
}

func TestNewMemoryCacheAdapter_InvalidCapacity(t *testing.T) {
	_, err := NewMemoryCacheAdapter(0)
	assert.Error(t, err)
}
