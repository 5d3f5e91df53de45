package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedViews struct {
	Views int64 `json:"views"`
}

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestViewCacheRoundTrip(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	cache := NewViewCache[cachedViews](rdb, "views:event:", time.Minute)
	ctx := context.Background()

	_, ok := cache.Get(ctx, "1")
	assert.False(t, ok)

	cache.Set(ctx, "1", &cachedViews{Views: 42})
	got, ok := cache.Get(ctx, "1")
	require.True(t, ok)
	assert.Equal(t, int64(42), got.Views)
	assert.True(t, mr.Exists("views:event:1"))
	assert.Equal(t, time.Minute, mr.TTL("views:event:1"))

	cache.Delete(ctx, "1")
	_, ok = cache.Get(ctx, "1")
	assert.False(t, ok)
}

func TestViewCacheGetMany(t *testing.T) {
	_, rdb := newMiniRedis(t)
	cache := NewViewCache[cachedViews](rdb, "v:", 0)
	ctx := context.Background()

	cache.Set(ctx, "1", &cachedViews{Views: 1})
	cache.Set(ctx, "3", &cachedViews{Views: 3})

	got := cache.GetMany(ctx, []string{"1", "2", "3"})
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got["1"].Views)
	assert.Equal(t, int64(3), got["3"].Views)
}

func TestViewCacheIgnoresCorruptEntries(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	cache := NewViewCache[cachedViews](rdb, "v:", 0)
	require.NoError(t, mr.Set("v:9", "not-json"))

	_, ok := cache.Get(context.Background(), "9")
	assert.False(t, ok)
	assert.Empty(t, cache.GetMany(context.Background(), []string{"9"}))
}

func TestViewCacheDisabled(t *testing.T) {
	cache := NewViewCache[cachedViews](nil, "v:", 0)
	ctx := context.Background()

	assert.False(t, cache.Enabled())
	cache.Set(ctx, "1", &cachedViews{Views: 1})
	_, ok := cache.Get(ctx, "1")
	assert.False(t, ok)
	assert.Empty(t, cache.GetMany(ctx, []string{"1"}))
	cache.Delete(ctx, "1")
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(Config{})
	require.NoError(t, err)
	assert.Nil(t, client)
	assert.Nil(t, client.Raw())
	assert.NoError(t, client.Close())

	mr := miniredis.RunT(t)
	client, err = NewClient(Config{Addr: mr.Addr()})
	require.NoError(t, err)
	assert.NotNil(t, client.Raw())
	assert.NoError(t, client.Close())
}
