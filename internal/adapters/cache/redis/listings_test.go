package redis

import (
	"context"
	"testing"
	"time"

	"petvet/internal/domain/directory"
	"petvet/internal/platform/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (*miniredis.Miniredis, *ListingCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewListingCache(client)
}

func TestListingCache_MissThenHit(t *testing.T) {
	mr, c := setupCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "22192")
	require.NoError(t, err)
	assert.False(t, ok)

	want := []directory.Listing{{Name: "Acme Vet", Address: "1 A St", DetailLink: "https://x/1"}}
	require.NoError(t, c.Set(ctx, "22192", want, time.Minute))
	assert.True(t, mr.Exists(keyPrefix+"22192"))

	got, ok, err := c.Get(ctx, "22192")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestListingCache_Expires(t *testing.T) {
	mr, c := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "22192", nil, time.Minute))
	got, ok, err := c.Get(ctx, "22192")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, "22192")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListingCache_CorruptEntryIsMiss(t *testing.T) {
	mr, c := setupCache(t)
	require.NoError(t, mr.Set(keyPrefix+"22192", "{not json"))

	_, ok, err := c.Get(context.Background(), "22192")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	c, err := NewClient(context.Background(), config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	_ = c.Close()

	// Con el server caído el ping falla; Addr ya no es válido después de Close.
	mr.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = NewClient(ctx, config.RedisConfig{Addr: addr})
	assert.Error(t, err)
}
