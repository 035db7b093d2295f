package tmx

import (
	"fmt"
	"sort"

	"github.com/dhconnelly/rtreego"
)

// MapIndex provides fast spatial queries over a collection of maps.
//
// The index stores lightweight metadata for each map (world bounds,
// orientation, grid size) and supports efficient spatial filtering using
// an R-tree. This allows loading only the maps that intersect a region of
// a larger world, without parsing every map up front.
//
// World placement comes from the optional "worldx"/"worldy" map
// properties; maps without them sit at the origin.
//
// Spatial queries are O(log N) with the R-tree, compared to O(N) with
// linear scan.
//
// Example:
//
//	// Build index from a directory
//	idx, errs := tmx.BuildIndexFromDir("assets/maps")
//	for _, err := range errs {
//	    log.Println(err)
//	}
//
//	// Query for maps near the player
//	nearby := idx.Query(tmx.Bounds{
//	    MinX: playerX - 1024, MaxX: playerX + 1024,
//	    MinY: playerY - 1024, MaxY: playerY + 1024,
//	}, tmx.QueryOptions{})
type MapIndex struct {
	entries []MapEntry
	rtree   *rtreego.Rtree // Spatial index for fast queries
}

// MapEntry contains indexed metadata for a single map.
type MapEntry struct {
	Path        string      // Path to the .tmx file
	Name        string      // Map name (filename without extension)
	Class       string      // Custom map class
	WorldBounds Bounds      // Pixel bounds at the map's world placement
	Orientation Orientation // Map orientation
	Width       int         // Map width in tiles
	Height      int         // Map height in tiles
	TileWidth   int         // Tile width in pixels
	TileHeight  int         // Tile height in pixels
	Infinite    bool        // Whether the map was saved as infinite
}

// indexEntry wraps a MapEntry for R-tree storage, keeping the Spatial
// interface off the public type.
type indexEntry struct {
	entry MapEntry
}

// Bounds implements rtreego.Spatial interface.
func (e indexEntry) Bounds() rtreego.Rect {
	b := e.entry.WorldBounds
	point := rtreego.Point{b.MinX, b.MinY}

	const epsilon = 0.001
	w := b.MaxX - b.MinX
	h := b.MaxY - b.MinY
	if w < epsilon {
		w = epsilon
	}
	if h < epsilon {
		h = epsilon
	}

	rect, _ := rtreego.NewRect(point, []float64{w, h})
	return rect
}

// QueryOptions controls spatial query behavior.
type QueryOptions struct {
	// Orientations filters by map orientation.
	// If non-empty, only maps with these orientations are returned.
	Orientations []Orientation

	// Classes filters by the map's custom class.
	// If non-empty, only maps with these classes are returned.
	Classes []string
}

// BuildIndexFromDir builds a map index by scanning a directory tree.
//
// The function recursively searches for .tmx files and extracts header
// metadata from each. Files that fail to read are skipped and reported in
// the error slice; the index is still built from the rest.
//
// Example:
//
//	idx, errs := tmx.BuildIndexFromDir("assets/maps")
//	fmt.Printf("Indexed %d maps, %d errors\n", idx.Count(), len(errs))
func BuildIndexFromDir(root string) (*MapIndex, []error) {
	metas, errs := ExtractMetadataFromDir(root)
	if len(metas) == 0 {
		errs = append(errs, fmt.Errorf("no maps found in %s", root))
		return BuildIndex(nil), errs
	}
	return BuildIndex(metas), errs
}

// BuildIndex creates an index from extracted metadata.
//
// This is useful when metadata comes from somewhere other than a
// directory walk, e.g. a manifest file.
func BuildIndex(metas []*MapMetadata) *MapIndex {
	entries := make([]MapEntry, len(metas))

	// Create R-tree (2D, min=25 children, max=50 children)
	rtree := rtreego.NewTree(2, 25, 50)

	for i, meta := range metas {
		entries[i] = MapEntry{
			Path:        meta.Path,
			Name:        meta.Name,
			Class:       meta.Class,
			WorldBounds: meta.Bounds(),
			Orientation: meta.Orientation,
			Width:       meta.Width,
			Height:      meta.Height,
			TileWidth:   meta.TileWidth,
			TileHeight:  meta.TileHeight,
			Infinite:    meta.Infinite,
		}

		// Insert into R-tree for spatial indexing
		rtree.Insert(indexEntry{entry: entries[i]})
	}

	return &MapIndex{
		entries: entries,
		rtree:   rtree,
	}
}

// Query returns maps whose world bounds intersect the given box, sorted
// by name for deterministic iteration.
//
// Uses the R-tree spatial index for efficient O(log N) queries instead of
// O(N) linear scan. QueryOptions can filter by orientation and class.
//
// Example:
//
//	dungeons := idx.Query(region, tmx.QueryOptions{
//	    Classes: []string{"dungeon"},
//	})
func (idx *MapIndex) Query(bounds Bounds, opts QueryOptions) []MapEntry {
	var result []MapEntry

	if idx.rtree != nil && idx.rtree.Size() > 0 {
		point := rtreego.Point{bounds.MinX, bounds.MinY}
		lengths := []float64{
			bounds.MaxX - bounds.MinX,
			bounds.MaxY - bounds.MinY,
		}
		queryRect, err := rtreego.NewRect(point, lengths)
		if err == nil {
			spatials := idx.rtree.SearchIntersect(queryRect)
			for _, spatial := range spatials {
				entry := spatial.(indexEntry).entry
				if !opts.matches(entry) {
					continue
				}
				result = append(result, entry)
			}
			sortEntries(result)
			return result
		}
	}

	// Fallback to linear scan
	for _, entry := range idx.entries {
		if !bounds.Intersects(entry.WorldBounds) {
			continue
		}
		if !opts.matches(entry) {
			continue
		}
		result = append(result, entry)
	}
	sortEntries(result)
	return result
}

func (opts QueryOptions) matches(entry MapEntry) bool {
	if len(opts.Orientations) > 0 {
		match := false
		for _, o := range opts.Orientations {
			if entry.Orientation == o {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}

	if len(opts.Classes) > 0 {
		match := false
		for _, c := range opts.Classes {
			if entry.Class == c {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}
	return true
}

func sortEntries(entries []MapEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
}

// Count returns the total number of maps in the index.
func (idx *MapIndex) Count() int {
	return len(idx.entries)
}

// Bounds returns the union of all map bounds in the index.
func (idx *MapIndex) Bounds() Bounds {
	if len(idx.entries) == 0 {
		return Bounds{}
	}

	bounds := idx.entries[0].WorldBounds
	for i := 1; i < len(idx.entries); i++ {
		bounds = bounds.Union(idx.entries[i].WorldBounds)
	}

	return bounds
}

// All returns all map entries in the index.
func (idx *MapIndex) All() []MapEntry {
	return idx.entries
}

// ByName returns the entry with the given name.
func (idx *MapIndex) ByName(name string) (MapEntry, bool) {
	for _, entry := range idx.entries {
		if entry.Name == name {
			return entry, true
		}
	}
	return MapEntry{}, false
}
