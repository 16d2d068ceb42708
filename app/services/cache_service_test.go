package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheService_GetSet(t *testing.T) {
	ctx := context.Background()
	cs := NewMemoryCacheService(0)

	_, found, err := cs.Get(ctx, "v1:a")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cs.Set(ctx, "v1:a", &models.AddressResult{Raw: "a", DictionaryVersion: "v1"}))
	got, found, err := cs.Get(ctx, "v1:a")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "a", got.Raw)

	exists, _ := cs.Exists(ctx, "v1:a")
	assert.True(t, exists)

	stats, err := cs.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "memory", stats.Backend)
	assert.Equal(t, int64(1), stats.TotalHits)
	assert.Equal(t, int64(1), stats.TotalMiss)
	assert.Equal(t, int64(1), stats.TotalItems)
	assert.InDelta(t, 0.5, stats.HitRate, 1e-9)

	require.NoError(t, cs.Delete(ctx, "v1:a"))
	assert.Zero(t, cs.Size())
}

func TestMemoryCacheService_TTL(t *testing.T) {
	ctx := context.Background()
	cs := NewMemoryCacheService(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cs.now = func() time.Time { return now }

	require.NoError(t, cs.Set(ctx, "k", &models.AddressResult{}))
	ttl, _ := cs.GetTTL(ctx, "k")
	assert.Equal(t, time.Minute, ttl)

	now = now.Add(30 * time.Second)
	ttl, _ = cs.GetTTL(ctx, "k")
	assert.Equal(t, 30*time.Second, ttl)

	now = now.Add(time.Minute)
	_, found, _ := cs.Get(ctx, "k")
	assert.False(t, found)
	assert.Equal(t, 1, cs.CleanupExpired())
	assert.Zero(t, cs.Size())
}

func TestMemoryCacheService_InvalidateByVersion(t *testing.T) {
	ctx := context.Background()
	cs := NewMemoryCacheService(0)

	require.NoError(t, cs.Set(ctx, CacheKey("old", "a"), &models.AddressResult{DictionaryVersion: "old"}))
	require.NoError(t, cs.Set(ctx, CacheKey("old", "b"), &models.AddressResult{DictionaryVersion: "old"}))
	require.NoError(t, cs.Set(ctx, CacheKey("new", "a"), &models.AddressResult{DictionaryVersion: "new"}))

	deleted, err := cs.InvalidateByVersion(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Equal(t, 1, cs.Size())

	require.NoError(t, cs.Clear(ctx))
	assert.Zero(t, cs.Size())
}

func TestHybridCacheService(t *testing.T) {
	ctx := context.Background()
	l1, l2 := NewMemoryCacheService(0), NewMemoryCacheService(0)
	hcs := NewHybridCacheService(l1, l2, nil)

	require.NoError(t, l2.Set(ctx, "k", &models.AddressResult{Raw: "x", DictionaryVersion: "v1"}))

	got, found, err := hcs.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "x", got.Raw)
	// L2 hit được đồng bộ lên L1
	assert.Equal(t, 1, l1.Size())

	_, found, _ = hcs.Get(ctx, "k")
	assert.True(t, found)

	stats, err := hcs.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hybrid", stats.Backend)
	assert.Equal(t, int64(2), stats.TotalHits)
	assert.Equal(t, int64(0), stats.TotalMiss)

	deleted, err := hcs.InvalidateByVersion(ctx, "v2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	require.NoError(t, hcs.Set(ctx, "k2", &models.AddressResult{}))
	assert.Equal(t, 1, l1.Size())
	assert.Equal(t, 1, l2.Size())
	require.NoError(t, hcs.Clear(ctx))
	assert.Zero(t, l2.Size())
	assert.NoError(t, hcs.Close())
}

func TestParallel(t *testing.T) {
	errA, errB := errors.New("a"), errors.New("b")

	assert.NoError(t, parallel(func() error { return nil }, func() error { return nil }))

	err := parallel(func() error { return errA }, func() error { return nil }, func() error { return errB })
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "v1:abc", CacheKey("v1", "abc"))
	assert.Zero(t, hitRate(0, 0))
	assert.InDelta(t, 0.75, hitRate(3, 1), 1e-9)
}
