package parser

import (
	"encoding/xml"
	"fmt"
	"path"
	"sort"
)

// Image references a tileset or layer image on disk. Pixel data is never
// loaded here; resolving the source path is the consumer's concern.
type Image struct {
	Source string
	Trans  string
	Width  int
	Height int
}

// AnimationFrame is one step of a tile animation. The GID is already
// normalized and registered with the map.
type AnimationFrame struct {
	GID      GID
	Duration int
}

// TilesetTile carries the per-tile extras a tileset can declare: its own
// image (collection-of-images tilesets), custom properties, animation
// frames, and collision shapes.
type TilesetTile struct {
	ID         int
	Class      string
	Image      *Image
	Properties Properties
	Frames     []AnimationFrame
	Colliders  []*Object
}

// Tileset is an embedded or external tileset. External tilesets are
// loaded relative to the map file and keep their source path in Source.
type Tileset struct {
	FirstGID   GID
	Source     string
	Name       string
	Class      string
	TileWidth  int
	TileHeight int
	Spacing    int
	Margin     int
	TileCount  int
	Columns    int
	OffsetX    int
	OffsetY    int
	Image      *Image
	Properties Properties
	Tiles      map[int]*TilesetTile
}

// Contains reports whether the base GID falls inside this tileset's range.
func (t *Tileset) Contains(base GID) bool {
	if base < t.FirstGID {
		return false
	}
	if t.TileCount > 0 && base >= t.FirstGID+GID(t.TileCount) {
		return false
	}
	return true
}

// LocalID converts a base GID to the tileset's local tile id.
func (t *Tileset) LocalID(base GID) int {
	return int(base - t.FirstGID)
}

// buildTileset parses a tileset node, chasing the external .tsx source
// when the node is only a reference. Only .tsx external tilesets are
// supported.
func (m *Map) buildTileset(node *tilesetNode) (*Tileset, error) {
	source := ""
	if node.Source != "" {
		if path.Ext(node.Source) != ".tsx" {
			return nil, fmt.Errorf("external tileset %q: only .tsx sources are supported", node.Source)
		}
		source = node.Source
		firstGID := node.FirstGID

		data, err := m.readRelative(node.Source)
		if err != nil {
			return nil, fmt.Errorf("load external tileset %q: %w", node.Source, err)
		}
		var external tilesetNode
		if err := xml.Unmarshal(data, &external); err != nil {
			return nil, fmt.Errorf("parse external tileset %q: %w", node.Source, err)
		}
		external.FirstGID = firstGID
		node = &external
	}

	props, err := parseProperties(node.Properties)
	if err != nil {
		return nil, err
	}

	ts := &Tileset{
		FirstGID:   GID(node.FirstGID),
		Source:     source,
		Name:       node.Name,
		Class:      node.Class,
		TileWidth:  node.TileWidth,
		TileHeight: node.TileHeight,
		Spacing:    node.Spacing,
		Margin:     node.Margin,
		TileCount:  node.TileCount,
		Columns:    node.Columns,
		Properties: props,
	}
	if node.TileOffset != nil {
		ts.OffsetX = node.TileOffset.X
		ts.OffsetY = node.TileOffset.Y
	}
	if node.Image != nil {
		ts.Image = &Image{
			Source: node.Image.Source,
			Trans:  node.Image.Trans,
			Width:  node.Image.Width,
			Height: node.Image.Height,
		}
	}

	for i := range node.Tiles {
		tile, err := m.buildTilesetTile(ts, &node.Tiles[i])
		if err != nil {
			return nil, err
		}
		if ts.Tiles == nil {
			ts.Tiles = make(map[int]*TilesetTile)
		}
		ts.Tiles[tile.ID] = tile
	}
	return ts, nil
}

func (m *Map) buildTilesetTile(ts *Tileset, node *tileNode) (*TilesetTile, error) {
	props, err := parseProperties(node.Properties)
	if err != nil {
		return nil, err
	}

	tile := &TilesetTile{
		ID:         node.ID,
		Class:      tileClass(node),
		Properties: props,
	}
	if node.Image != nil {
		tile.Image = &Image{
			Source: node.Image.Source,
			Trans:  node.Image.Trans,
			Width:  node.Image.Width,
			Height: node.Image.Height,
		}
	}

	if node.Animation != nil {
		tile.Frames = make([]AnimationFrame, 0, len(node.Animation.Frames))
		for _, frame := range node.Animation.Frames {
			gid := m.RegisterGID(ts.FirstGID + GID(frame.TileID))
			tile.Frames = append(tile.Frames, AnimationFrame{GID: gid, Duration: frame.Duration})
		}
	}

	for i := range node.ObjectGroups {
		group, err := m.buildObjectGroup(&node.ObjectGroups[i])
		if err != nil {
			return nil, err
		}
		tile.Colliders = append(tile.Colliders, group.Objects...)
	}
	return tile, nil
}

func tileClass(node *tileNode) string {
	if node.Class != "" {
		return node.Class
	}
	return node.Type
}

// sortTilesets orders tilesets by first GID so lookup can binary search.
func sortTilesets(tilesets []*Tileset) {
	sort.Slice(tilesets, func(i, j int) bool {
		return tilesets[i].FirstGID < tilesets[j].FirstGID
	})
}

// TilesetForGID returns the tileset owning the base GID, which is the one
// with the greatest first GID not above it that still covers the id.
func (m *Map) TilesetForGID(base GID) (*Tileset, bool) {
	if base == 0 {
		return nil, false
	}
	i := sort.Search(len(m.Tilesets), func(i int) bool {
		return m.Tilesets[i].FirstGID > base
	})
	if i == 0 {
		return nil, false
	}
	ts := m.Tilesets[i-1]
	if !ts.Contains(base) {
		return nil, false
	}
	return ts, true
}

// TileProperties returns the custom properties of the tile behind the
// base GID, or nil when the tile declares none.
func (m *Map) TileProperties(base GID) Properties {
	ts, ok := m.TilesetForGID(base)
	if !ok || ts.Tiles == nil {
		return nil
	}
	tile, ok := ts.Tiles[ts.LocalID(base)]
	if !ok {
		return nil
	}
	return tile.Properties
}

// TileColliders returns the collision objects of the tile behind the base
// GID, or nil when the tile declares none.
func (m *Map) TileColliders(base GID) []*Object {
	ts, ok := m.TilesetForGID(base)
	if !ok || ts.Tiles == nil {
		return nil
	}
	tile, ok := ts.Tiles[ts.LocalID(base)]
	if !ok {
		return nil
	}
	return tile.Colliders
}

// TileAnimation returns the animation frames of the tile behind the base
// GID, or nil when the tile is not animated.
func (m *Map) TileAnimation(base GID) []AnimationFrame {
	ts, ok := m.TilesetForGID(base)
	if !ok || ts.Tiles == nil {
		return nil
	}
	tile, ok := ts.Tiles[ts.LocalID(base)]
	if !ok {
		return nil
	}
	return tile.Frames
}
