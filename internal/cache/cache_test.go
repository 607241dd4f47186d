package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/quiet-radar/internal/cache"
)

func TestCacheHit(t *testing.T) {
	c := cache.New[string](10, time.Minute)
	_, ok := c.Get("alpha")
	require.False(t, ok)

	c.Set("alpha", "report")
	got, ok := c.Get("alpha")
	require.True(t, ok)
	require.Equal(t, "report", got)
}

func TestCacheTTLExpiry(t *testing.T) {
	c := cache.New[int](10, 20*time.Millisecond)
	c.Set("beta", 1)
	time.Sleep(25 * time.Millisecond)
	_, ok := c.Get("beta")
	require.False(t, ok)
}

func TestCacheCapacityEvictsOldest(t *testing.T) {
	c := cache.New[int](1, time.Minute)
	c.Set("first", 1)
	c.Set("second", 2)

	_, ok := c.Get("first")
	require.False(t, ok)
	got, ok := c.Get("second")
	require.True(t, ok)
	require.Equal(t, 2, got)
}
