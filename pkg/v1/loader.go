package tmx

import (
	"fmt"
	"sync"
)

// MapLoader provides lazy loading of maps with caching.
//
// The loader combines a spatial index (for fast map discovery across a
// world of many maps) with an LRU cache (for keeping frequently-accessed
// maps in memory).
//
// Maps are loaded on-demand when viewport queries request them, and
// automatically evicted from cache when memory limits are exceeded.
//
// Example:
//
//	loader, errs := tmx.NewMapLoader("assets/maps", tmx.DefaultLoaderOptions())
//	for _, err := range errs {
//	    log.Println(err)
//	}
//
//	// Load only the maps visible around the player
//	maps, err := loader.MapsInBounds(tmx.Bounds{
//	    MinX: playerX - 1024, MaxX: playerX + 1024,
//	    MinY: playerY - 1024, MaxY: playerY + 1024,
//	})
type MapLoader struct {
	index  *MapIndex
	cache  *MapCache
	parser Parser
	opts   ParseOptions

	mu     sync.Mutex
	hits   int // Cache hits
	misses int // Cache misses
}

// LoaderOptions configures map loader behavior.
type LoaderOptions struct {
	// CacheSize sets maximum cache memory in bytes.
	// Default: 256MB
	CacheSize int64

	// ParseOptions is applied to every map the loader parses.
	ParseOptions ParseOptions
}

// DefaultLoaderOptions returns loader options with defaults.
func DefaultLoaderOptions() LoaderOptions {
	return LoaderOptions{
		CacheSize:    256 * 1024 * 1024, // 256MB default
		ParseOptions: DefaultParseOptions(),
	}
}

// NewMapLoader creates a lazy-loading map loader over a directory tree.
//
// The directory is scanned once for .tmx files and a spatial index is
// built from their headers; no map content is parsed until a query
// requests it. Files whose headers fail to read are reported in the
// error slice and left out of the index.
//
// Example:
//
//	loader, errs := tmx.NewMapLoader("assets/maps", tmx.LoaderOptions{
//	    CacheSize: 1024 * 1024 * 1024, // 1GB in-memory cache
//	})
func NewMapLoader(root string, opts LoaderOptions) (*MapLoader, []error) {
	index, errs := BuildIndexFromDir(root)
	return NewMapLoaderFromIndex(index, opts), errs
}

// NewMapLoaderFromIndex creates a loader over an existing index.
//
// This is useful when the index comes from somewhere other than a
// directory walk, or is shared between loaders.
func NewMapLoaderFromIndex(index *MapIndex, opts LoaderOptions) *MapLoader {
	if opts.CacheSize == 0 {
		opts.CacheSize = DefaultLoaderOptions().CacheSize
	}
	return &MapLoader{
		index:  index,
		cache:  NewMapCache(opts.CacheSize),
		parser: NewParser(),
		opts:   opts.ParseOptions,
	}
}

// MapsInBounds returns the maps whose world bounds intersect the given
// box, fully parsed.
//
// This is the primary lazy-loading API. Maps are:
//  1. Queried from the spatial index based on the bounds
//  2. Loaded from cache if available, or parsed from disk
//  3. Cached for future queries
//
// Maps that fail to parse are skipped.
//
// Example:
//
//	maps, err := loader.MapsInBounds(viewport)
//	for _, m := range maps {
//	    render(m)
//	}
func (l *MapLoader) MapsInBounds(bounds Bounds) ([]*Map, error) {
	entries := l.index.Query(bounds, QueryOptions{})

	maps := make([]*Map, 0, len(entries))
	for _, entry := range entries {
		m, err := l.loadMap(entry)
		if err != nil {
			// Skip maps that fail to load
			continue
		}
		maps = append(maps, m)
	}

	return maps, nil
}

// GetMap loads a specific map by name.
//
// The map is loaded from cache if available, otherwise parsed from disk
// and added to cache.
//
// Example:
//
//	m, err := loader.GetMap("overworld")
func (l *MapLoader) GetMap(name string) (*Map, error) {
	entry, ok := l.index.ByName(name)
	if !ok {
		return nil, fmt.Errorf("map not found in index: %s", name)
	}
	return l.loadMap(entry)
}

// loadMap loads an indexed map, using cache if available.
func (l *MapLoader) loadMap(entry MapEntry) (*Map, error) {
	missed := false
	m, err := l.cache.Get(entry.Name, func() (*Map, error) {
		missed = true
		return l.parser.ParseWithOptions(entry.Path, l.opts)
	})

	l.mu.Lock()
	if missed {
		l.misses++
	} else if err == nil {
		l.hits++
	}
	l.mu.Unlock()

	return m, err
}

// Index returns the underlying spatial index.
//
// This allows direct access to the index for advanced queries.
func (l *MapLoader) Index() *MapIndex {
	return l.index
}

// Cache returns the underlying map cache.
//
// This allows inspecting cache statistics and manually managing cached maps.
func (l *MapLoader) Cache() *MapCache {
	return l.cache
}

// CacheHitRate returns the cache hit rate (0.0 to 1.0).
//
// This indicates what percentage of map requests were served from cache
// vs loaded from disk.
func (l *MapLoader) CacheHitRate() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := l.hits + l.misses
	if total == 0 {
		return 0
	}
	return float64(l.hits) / float64(total)
}

// Stats returns loader statistics.
func (l *MapLoader) Stats() LoaderStats {
	cacheStats := l.cache.Stats()

	l.mu.Lock()
	defer l.mu.Unlock()

	return LoaderStats{
		IndexedMaps: l.index.Count(),
		CachedMaps:  cacheStats.MapCount,
		CacheHits:   l.hits,
		CacheMisses: l.misses,
		CacheMemory: cacheStats.UsedMemory,
		MaxMemory:   cacheStats.MaxMemory,
	}
}

// LoaderStats holds loader performance metrics.
type LoaderStats struct {
	IndexedMaps int   // Total maps in index
	CachedMaps  int   // Maps currently in cache
	CacheHits   int   // Number of cache hits
	CacheMisses int   // Number of cache misses
	CacheMemory int64 // Current cache memory usage
	MaxMemory   int64 // Maximum cache memory limit
}
