package tmx

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

// MapCache manages loaded maps with LRU eviction policy.
//
// The cache stores fully-parsed maps in memory and evicts least-recently-used
// maps when memory limits are exceeded. This enables lazy loading of maps
// on demand while keeping frequently accessed maps readily available.
//
// Memory estimation is approximate, based on grid size and object count.
//
// Example:
//
//	cache := tmx.NewMapCache(256 * 1024 * 1024) // 256MB limit
//
//	// Get map (loads from disk if not cached)
//	m, err := cache.Get("overworld", func() (*Map, error) {
//	    return parser.Parse("maps/overworld.tmx")
//	})
type MapCache struct {
	maxMemory  int64 // Maximum memory in bytes
	usedMemory int64 // Current memory usage estimate
	maps       map[string]*cacheEntry
	lru        *list.List // LRU list (most recent at front)
	mu         sync.RWMutex
}

// cacheEntry tracks a cached map and its metadata
type cacheEntry struct {
	name         string
	m            *Map
	memorySize   int64
	element      *list.Element // Position in LRU list
	lastAccessed time.Time
	accessCount  int
}

// NewMapCache creates a new cache with the specified memory limit in bytes.
//
// The memory limit is enforced approximately - actual memory usage may
// temporarily exceed the limit during map loading. Set to 0 for unlimited
// cache size.
//
// Example:
//
//	cache := tmx.NewMapCache(512 * 1024 * 1024) // 512MB
func NewMapCache(maxMemoryBytes int64) *MapCache {
	return &MapCache{
		maxMemory: maxMemoryBytes,
		maps:      make(map[string]*cacheEntry),
		lru:       list.New(),
	}
}

// Get retrieves a map from cache or loads it using the provided loader function.
//
// If the map is cached, it's returned immediately and moved to the front of
// the LRU list. If not cached, the loader function is called to load the map,
// which is then cached for future access.
//
// The loader function should parse the map from disk. It's only called on
// cache miss.
//
// If adding the map would exceed memory limits, least-recently-used maps are
// evicted until sufficient space is available.
//
// Example:
//
//	m, err := cache.Get("overworld", func() (*Map, error) {
//	    return parser.Parse("maps/overworld.tmx")
//	})
func (c *MapCache) Get(name string, loader func() (*Map, error)) (*Map, error) {
	// Fast path: check cache with read lock
	c.mu.RLock()
	if entry, ok := c.maps[name]; ok {
		c.mu.RUnlock()

		// Update access metadata with write lock
		c.mu.Lock()
		entry.lastAccessed = time.Now()
		entry.accessCount++
		c.lru.MoveToFront(entry.element)
		c.mu.Unlock()

		return entry.m, nil
	}
	c.mu.RUnlock()

	// Cache miss - load map
	m, err := loader()
	if err != nil {
		return nil, fmt.Errorf("load map: %w", err)
	}

	// Add to cache
	if err := c.Add(name, m); err != nil {
		// Cache add failed, but we still have the map
		// Return it without caching
		return m, nil
	}

	return m, nil
}

// Add adds a map to the cache.
//
// If the cache is at capacity, least-recently-used maps are evicted to make
// room. Returns error if the map cannot be cached (e.g., map is larger than
// max memory).
func (c *MapCache) Add(name string, m *Map) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Check if already cached
	if entry, ok := c.maps[name]; ok {
		// Update and move to front
		entry.m = m
		entry.lastAccessed = time.Now()
		entry.accessCount++
		c.lru.MoveToFront(entry.element)
		return nil
	}

	// Estimate memory usage
	memSize := estimateMapMemory(m)

	// If map is larger than max memory, don't cache it
	if c.maxMemory > 0 && memSize > c.maxMemory {
		return fmt.Errorf("map too large for cache (%d bytes > %d bytes max)",
			memSize, c.maxMemory)
	}

	// Evict until we have space
	if c.maxMemory > 0 {
		for c.usedMemory+memSize > c.maxMemory && c.lru.Len() > 0 {
			c.evictLRU()
		}
	}

	// Add to cache
	entry := &cacheEntry{
		name:         name,
		m:            m,
		memorySize:   memSize,
		lastAccessed: time.Now(),
		accessCount:  1,
	}
	entry.element = c.lru.PushFront(entry)
	c.maps[name] = entry
	c.usedMemory += memSize

	return nil
}

// evictLRU removes the least recently used map from cache.
// Must be called with c.mu locked.
func (c *MapCache) evictLRU() {
	if c.lru.Len() == 0 {
		return
	}

	// Remove from back of LRU list
	elem := c.lru.Back()
	if elem == nil {
		return
	}

	entry := elem.Value.(*cacheEntry)
	c.lru.Remove(elem)
	delete(c.maps, entry.name)
	c.usedMemory -= entry.memorySize
}

// Remove explicitly removes a map from the cache.
func (c *MapCache) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.maps[name]; ok {
		c.lru.Remove(entry.element)
		delete(c.maps, name)
		c.usedMemory -= entry.memorySize
	}
}

// Clear removes all maps from the cache.
func (c *MapCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.maps = make(map[string]*cacheEntry)
	c.lru.Init()
	c.usedMemory = 0
}

// Stats returns cache statistics.
func (c *MapCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	totalAccess := 0
	for _, entry := range c.maps {
		totalAccess += entry.accessCount
	}

	return CacheStats{
		MapCount:    len(c.maps),
		UsedMemory:  c.usedMemory,
		MaxMemory:   c.maxMemory,
		TotalAccess: totalAccess,
	}
}

// CacheStats holds cache performance metrics.
type CacheStats struct {
	MapCount    int   // Number of maps currently cached
	UsedMemory  int64 // Estimated memory usage in bytes
	MaxMemory   int64 // Maximum memory limit in bytes
	TotalAccess int   // Total number of accesses across all cached maps
}

// estimateMapMemory estimates memory usage for a map.
//
// This is approximate and based on:
//   - Base overhead: ~1KB per map
//   - Tile grid: 4 bytes per cell per layer
//   - Objects: ~512 bytes per object (average)
//
// Actual memory usage varies with property counts, shape point counts,
// and string data.
func estimateMapMemory(m *Map) int64 {
	if m == nil {
		return 0
	}

	// Base overhead
	size := int64(1024)

	// Grid overhead
	for _, layer := range m.TileLayers() {
		w, h := layer.Size()
		size += int64(w) * int64(h) * 4
	}

	// Object overhead
	size += int64(m.ObjectCount()) * 512

	return size
}
