package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) *Cache {
	c, err := Open("", true)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

type cachedResult struct {
	Query string   `json:"query"`
	IDs   []string `json:"ids"`
}

func TestCacheRoundTrip(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	stored := cachedResult{Query: "meeting location", IDs: []string{"a", "b"}}
	require.NoError(t, c.Set(ctx, "search:1", stored, time.Hour))

	var loaded cachedResult
	found, err := c.Get(ctx, "search:1", &loaded)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, stored, loaded)
}

func TestCacheMissIsNotAnError(t *testing.T) {
	c := setupCache(t)

	var dest cachedResult
	found, err := c.Get(context.Background(), "absent", &dest)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestCacheZeroTTLPersists(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 0))

	var v string
	found, err := c.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", v)
}

func TestCacheClear(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", 42, time.Hour))
	require.NoError(t, c.Clear())

	var v int
	found, err := c.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheOnDisk(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir, false)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", "persisted", time.Hour))
	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.Close())
	assert.NoError(t, c.Close(), "double close is safe")
}

func TestCachePing(t *testing.T) {
	c := setupCache(t)
	assert.NoError(t, c.Ping(context.Background()))
}
