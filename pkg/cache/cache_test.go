package cache

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLRU_InvalidSize(t *testing.T) {
	_, err := NewLRU[string](0)
	assert.Error(t, err)
}

func TestLRU_GetSet(t *testing.T) {
	c, err := NewLRU[string](10)
	require.NoError(t, err)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	assert.True(t, c.Set("a", "1"))
	assert.False(t, c.Set("a", "2")) // update, not insert

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c, err := NewLRU[int](3)
	require.NoError(t, err)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("d", 4)

	_, ok = c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, uint64(1), c.Stats().Evictions)
}

func TestLRU_Delete(t *testing.T) {
	c, err := NewLRU[int](3)
	require.NoError(t, err)

	c.Set("a", 1)
	assert.True(t, c.Delete("a"))
	assert.False(t, c.Delete("a"))
	assert.Equal(t, 0, c.Len())
}

func TestLRU_WithMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewLRU[string](2, WithMetrics(reg, "jsonld", "context"))
	require.NoError(t, err)

	c.Set("a", "1")
	c.Get("a")
	c.Get("missing")

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 3)
}

func TestLRU_ConcurrentAccess(t *testing.T) {
	c, err := NewLRU[int](100)
	require.NoError(t, err)

	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 1000; j++ {
				key := fmt.Sprintf("key%d", j%50)
				c.Set(key, j)
				c.Get(key)
			}
		}(i)
	}
	for i := 0; i < 4; i++ {
		<-done
	}
}
