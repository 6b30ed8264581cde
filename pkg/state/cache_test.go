package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewMemoryCache()
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, cache.Set(ctx, "b", []byte("2"), 0))

	got, err := cache.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	now = now.Add(2 * time.Minute)
	got, err = cache.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got, "expired entry should read as missing")

	got, err = cache.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got)
	assert.Equal(t, []string{"b"}, cache.Keys())
}

func TestMemoryCache_ScanAndDelete(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()
	require.NoError(t, cache.Set(ctx, "p:1", []byte("x"), 0))
	require.NoError(t, cache.Set(ctx, "p:2", []byte("y"), 0))
	require.NoError(t, cache.Set(ctx, "q:1", []byte("z"), 0))

	entries, err := cache.Scan(ctx, "p:")
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"p:1": []byte("x"), "p:2": []byte("y")}, entries)

	require.NoError(t, cache.Delete(ctx, "p:1"))
	got, err := cache.Get(ctx, "p:1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryCache_CopiesValues(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()
	value := []byte("abc")
	require.NoError(t, cache.Set(ctx, "k", value, 0))
	value[0] = 'z'

	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}

func TestMemoryCache_ClosedAndCanceled(t *testing.T) {
	cache := NewMemoryCache()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, cache.Set(ctx, "k", nil, 0), context.Canceled)

	require.NoError(t, cache.Close())
	_, err := cache.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrClosed)
}
