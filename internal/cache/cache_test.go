package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryClient_SetGet(t *testing.T) {
	c := NewMemoryClient(10)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key1", []byte("value1"), time.Minute))

	val, err := c.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, []byte("value1"), val)
}

func TestMemoryClient_Miss(t *testing.T) {
	c := NewMemoryClient(10)

	_, err := c.Get(context.Background(), "absent")
	assert.True(t, errors.Is(err, ErrCacheMiss))
}

func TestMemoryClient_Expiry(t *testing.T) {
	c := NewMemoryClient(10)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", []byte("v"), -time.Second))

	_, err := c.Get(ctx, "short")
	assert.True(t, errors.Is(err, ErrCacheMiss))
}

func TestMemoryClient_Delete(t *testing.T) {
	c := NewMemoryClient(10)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key1", []byte("v"), time.Minute))
	require.NoError(t, c.Delete(ctx, "key1"))

	_, err := c.Get(ctx, "key1")
	assert.True(t, errors.Is(err, ErrCacheMiss))
}

func TestMemoryClient_DeleteByPrefix(t *testing.T) {
	c := NewMemoryClient(10)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "turn:goa:1", []byte("a"), time.Minute))
	require.NoError(t, c.Set(ctx, "turn:goa:2", []byte("b"), time.Minute))
	require.NoError(t, c.Set(ctx, "other:1", []byte("c"), time.Minute))

	require.NoError(t, c.DeleteByPrefix(ctx, "turn:goa:"))

	_, err := c.Get(ctx, "turn:goa:1")
	assert.True(t, errors.Is(err, ErrCacheMiss))
	_, err = c.Get(ctx, "other:1")
	assert.NoError(t, err)
}

func TestMemoryClient_EvictsAtCapacity(t *testing.T) {
	c := NewMemoryClient(2)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 2*time.Minute))
	require.NoError(t, c.Set(ctx, "c", []byte("3"), 3*time.Minute))

	// The earliest-expiring entry goes first.
	_, err := c.Get(ctx, "a")
	assert.True(t, errors.Is(err, ErrCacheMiss))
	_, err = c.Get(ctx, "c")
	assert.NoError(t, err)
}

func TestMemoryClient_CloseIsIdempotent(t *testing.T) {
	c := NewMemoryClient(10)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key1", []byte("v"), time.Minute))
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	// Stored data stays readable after the cleanup goroutine stops.
	val, err := c.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "turn:goa:5:crop insurance", CacheKey("turn", "goa", "5", "crop insurance"))
	assert.Equal(t, "solo", CacheKey("solo"))
	assert.Equal(t, "", CacheKey())
}

func TestQueryCacheKey(t *testing.T) {
	key := QueryCacheKey("Goa", "state_only", "Crop insurance", "rice")
	assert.Equal(t, "q:Goa:state_only:Crop insurance:rice", key)
}
