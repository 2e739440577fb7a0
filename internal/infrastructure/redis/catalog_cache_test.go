package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/grocery-api/pkg/config"
)

func newTestCache(t *testing.T) (*CatalogCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCatalogCache(client), mr
}

func TestCatalogCache_SetGetDelete(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "sections_with_products")
	require.NoError(t, err)
	assert.False(t, ok)

	payload := []byte(`[{"id":1,"name":"Dairy","products":[]}]`)
	require.NoError(t, cache.Set(ctx, "sections_with_products", payload, 10*time.Second))

	got, ok, err := cache.Get(ctx, "sections_with_products")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload, got)

	require.NoError(t, cache.Delete(ctx, "sections_with_products"))
	_, ok, err = cache.Get(ctx, "sections_with_products")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCatalogCache_ExpiraConElTTL(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), 10*time.Second))
	mr.FastForward(11 * time.Second)

	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCatalogCache_ServidorCaidoDevuelveError(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.Close()

	_, ok, err := cache.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	_ = client.Close()

	mr.Close()
	_, err = NewClient(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	assert.Error(t, err)
}
