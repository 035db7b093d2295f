package tmx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bareMap builds a map with no layers or objects; estimateMapMemory
// charges it the 1KB base overhead only.
func bareMap() *Map {
	return &Map{width: 1, height: 1, tileWidth: 16, tileHeight: 16}
}

func TestCacheGetLoadsOnce(t *testing.T) {
	cache := NewMapCache(0)

	calls := 0
	loader := func() (*Map, error) {
		calls++
		return bareMap(), nil
	}

	first, err := cache.Get("town", loader)
	require.NoError(t, err)
	second, err := cache.Get("town", loader)
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "loader runs only on cache miss")
	assert.Same(t, first, second)
}

func TestCacheGetLoaderError(t *testing.T) {
	cache := NewMapCache(0)

	boom := errors.New("corrupt file")
	_, err := cache.Get("bad", func() (*Map, error) { return nil, boom })
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	stats := cache.Stats()
	assert.Equal(t, 0, stats.MapCount, "failed loads are not cached")
}

func TestCacheEviction(t *testing.T) {
	// Room for two bare maps (1KB estimate each).
	cache := NewMapCache(2048)

	require.NoError(t, cache.Add("a", bareMap()))
	require.NoError(t, cache.Add("b", bareMap()))

	// Touch "a" so "b" becomes least recently used.
	_, err := cache.Get("a", func() (*Map, error) {
		t.Fatal("expected a cache hit")
		return nil, nil
	})
	require.NoError(t, err)

	require.NoError(t, cache.Add("c", bareMap()))

	stats := cache.Stats()
	assert.Equal(t, 2, stats.MapCount)

	loaded := false
	_, err = cache.Get("b", func() (*Map, error) {
		loaded = true
		return bareMap(), nil
	})
	require.NoError(t, err)
	assert.True(t, loaded, "evicted map must be reloaded")
}

func TestCacheTooLarge(t *testing.T) {
	cache := NewMapCache(512) // Below the 1KB base estimate

	m := bareMap()
	err := cache.Add("huge", m)
	assert.Error(t, err)

	// Get still hands the map through even though caching failed.
	got, err := cache.Get("huge", func() (*Map, error) { return m, nil })
	require.NoError(t, err)
	assert.Same(t, m, got)
	assert.Equal(t, 0, cache.Stats().MapCount)
}

func TestCacheRemoveAndClear(t *testing.T) {
	cache := NewMapCache(0)
	require.NoError(t, cache.Add("a", bareMap()))
	require.NoError(t, cache.Add("b", bareMap()))

	cache.Remove("a")
	assert.Equal(t, 1, cache.Stats().MapCount)

	// Removing an absent entry is a no-op.
	cache.Remove("a")
	assert.Equal(t, 1, cache.Stats().MapCount)

	cache.Clear()
	stats := cache.Stats()
	assert.Equal(t, 0, stats.MapCount)
	assert.Equal(t, int64(0), stats.UsedMemory)
}

func TestCacheStats(t *testing.T) {
	cache := NewMapCache(1 << 20)
	require.NoError(t, cache.Add("a", bareMap()))

	for i := 0; i < 3; i++ {
		_, err := cache.Get("a", func() (*Map, error) { return nil, errors.New("unexpected") })
		require.NoError(t, err)
	}

	stats := cache.Stats()
	assert.Equal(t, 1, stats.MapCount)
	assert.Equal(t, int64(1<<20), stats.MaxMemory)
	assert.Equal(t, int64(1024), stats.UsedMemory)
	assert.Equal(t, 4, stats.TotalAccess, "one add plus three gets")
}

func TestEstimateMapMemory(t *testing.T) {
	assert.Equal(t, int64(0), estimateMapMemory(nil))
	assert.Equal(t, int64(1024), estimateMapMemory(bareMap()))

	m := bareMap()
	m.tileLayers = []*TileLayer{{width: 10, height: 10}}
	m.objects = make([]Object, 3)
	assert.Equal(t, int64(1024+400+3*512), estimateMapMemory(m))
}
