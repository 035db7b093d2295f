// Package tmx provides a clean public API for loading Tiled TMX tile maps.
package tmx

import (
	"github.com/dhconnelly/rtreego"
	"github.com/mapwright/tmx/internal/parser"
)

// GID is a global tile identifier. Zero means an empty cell. GIDs exposed
// by this package are already normalized: the flip flag bits the editor
// packs into the high bits have been stripped during parsing.
type GID uint32

// Orientation is the map's projection scheme.
type Orientation string

const (
	OrientationOrthogonal Orientation = "orthogonal"
	OrientationIsometric  Orientation = "isometric"
	OrientationStaggered  Orientation = "staggered"
	OrientationHexagonal  Orientation = "hexagonal"
	OrientationUnknown    Orientation = "unknown"
)

// Properties is a bag of custom properties with values already cast to
// their declared types: string, int, float64, bool, or a nested Properties
// for class properties. Color and file properties stay strings.
type Properties map[string]any

// GetString returns a string property.
func (p Properties) GetString(name string) (string, bool) {
	v, ok := p[name].(string)
	return v, ok
}

// GetInt returns an int property.
func (p Properties) GetInt(name string) (int, bool) {
	v, ok := p[name].(int)
	return v, ok
}

// GetFloat returns a float property.
func (p Properties) GetFloat(name string) (float64, bool) {
	v, ok := p[name].(float64)
	return v, ok
}

// GetBool returns a bool property.
func (p Properties) GetBool(name string) (bool, bool) {
	v, ok := p[name].(bool)
	return v, ok
}

// GetClass returns a nested class property.
func (p Properties) GetClass(name string) (Properties, bool) {
	v, ok := p[name].(Properties)
	return v, ok
}

// convertProperties rewraps a parsed property bag, recursing into nested
// class properties so consumers only ever see the public type.
func convertProperties(p parser.Properties) Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for k, v := range p {
		if nested, ok := v.(parser.Properties); ok {
			out[k] = convertProperties(nested)
		} else {
			out[k] = v
		}
	}
	return out
}

// Parser parses TMX map files.
//
// Create a parser with NewParser and use Parse or ParseWithOptions to
// load maps.
type Parser interface {
	// Parse reads a TMX file and returns the loaded map.
	//
	// The filename should point to a .tmx map file. External tilesets
	// (.tsx) and object templates (.tx) referenced by the map are loaded
	// relative to it.
	Parse(filename string) (*Map, error)

	// ParseWithOptions parses a TMX file with custom options.
	//
	// Use ParseOptions to control ellipse approximation, error handling,
	// and the filesystem maps are read from.
	ParseWithOptions(filename string, opts ParseOptions) (*Map, error)
}

// NewParser creates a new TMX parser with default settings.
//
// Example:
//
//	parser := tmx.NewParser()
//	m, err := parser.Parse("overworld.tmx")
func NewParser() Parser {
	return &parserWrapper{
		internal: parser.NewParser(),
	}
}

// parserWrapper wraps the internal parser and converts types
type parserWrapper struct {
	internal parser.Parser
}

func (p *parserWrapper) Parse(filename string) (*Map, error) {
	internalMap, err := p.internal.Parse(filename)
	if err != nil {
		return nil, err
	}
	return convertMap(internalMap), nil
}

func (p *parserWrapper) ParseWithOptions(filename string, opts ParseOptions) (*Map, error) {
	internalMap, err := p.internal.ParseWithOptions(filename, internalOptions(opts))
	if err != nil {
		return nil, err
	}
	return convertMap(internalMap), nil
}

func internalOptions(opts ParseOptions) parser.ParseOptions {
	return parser.ParseOptions{
		EllipseSegments:    opts.EllipseSegments,
		SkipInvalidObjects: opts.SkipInvalidObjects,
		StrictChunks:       opts.StrictChunks,
		Logger:             opts.Logger,
		FS:                 opts.FS,
	}
}

// Map represents a loaded TMX map.
//
// A map contains configuration (orientation, grid and tile sizes), tile
// layers, and placed objects. Objects from every object layer are also
// flattened into a single collection backed by a spatial index, so
// viewport queries do not need to walk the layer tree.
//
// All fields are private to maintain encapsulation.
type Map struct {
	tileLayers   []*TileLayer
	objectGroups []*ObjectGroup
	objects      []Object
	spatialIndex *spatialIndex
	bounds       Bounds

	filename        string
	version         string
	tiledVersion    string
	class           string
	orientation     Orientation
	renderOrder     string
	width           int
	height          int
	tileWidth       int
	tileHeight      int
	infinite        bool
	backgroundColor string
	properties      Properties

	internal *parser.Map
}

// spatialIndex provides O(log n) object queries using an R-tree.
type spatialIndex struct {
	rtree *rtreego.Rtree
}

// indexedObject wraps an object for R-tree storage.
type indexedObject struct {
	object Object
	bounds Bounds
}

// Bounds implements rtreego.Spatial interface.
func (o *indexedObject) Bounds() rtreego.Rect {
	point := rtreego.Point{o.bounds.MinX, o.bounds.MinY}

	// R-tree rectangles need positive extents; point objects get a tiny
	// one so they are still findable.
	const epsilon = 0.001
	w := o.bounds.MaxX - o.bounds.MinX
	h := o.bounds.MaxY - o.bounds.MinY
	if w < epsilon {
		w = epsilon
	}
	if h < epsilon {
		h = epsilon
	}

	rect, _ := rtreego.NewRect(point, []float64{w, h})
	return rect
}

// Filename returns the path the map was loaded from.
func (m *Map) Filename() string { return m.filename }

// Version returns the TMX format version, e.g. "1.10".
func (m *Map) Version() string { return m.version }

// TiledVersion returns the editor version that saved the map.
func (m *Map) TiledVersion() string { return m.tiledVersion }

// Class returns the map's custom class, or "".
func (m *Map) Class() string { return m.class }

// Orientation returns the map orientation.
func (m *Map) Orientation() Orientation { return m.orientation }

// RenderOrder returns the tile render order, e.g. "right-down".
func (m *Map) RenderOrder() string { return m.renderOrder }

// Width returns the map width in tiles.
func (m *Map) Width() int { return m.width }

// Height returns the map height in tiles.
func (m *Map) Height() int { return m.height }

// TileWidth returns the width of a tile in pixels.
func (m *Map) TileWidth() int { return m.tileWidth }

// TileHeight returns the height of a tile in pixels.
func (m *Map) TileHeight() int { return m.tileHeight }

// Infinite reports whether the map was saved as an infinite map. The
// chunked layer data has already been stitched into regular grids.
func (m *Map) Infinite() bool { return m.infinite }

// BackgroundColor returns the map background color, or "".
func (m *Map) BackgroundColor() string { return m.backgroundColor }

// Properties returns the map's custom properties.
func (m *Map) Properties() Properties { return m.properties }

// Bounds returns the map's pixel bounds: the tile grid extent for the
// map's own size, expanded to cover any objects placed outside it.
func (m *Map) Bounds() Bounds { return m.bounds }

// TileLayers returns the map's tile layers in render order, including
// layers nested inside groups.
func (m *Map) TileLayers() []*TileLayer {
	return m.tileLayers
}

// ObjectGroups returns the map's object layers in render order, including
// layers nested inside groups.
func (m *Map) ObjectGroups() []*ObjectGroup {
	return m.objectGroups
}

// TileLayer returns the first tile layer with the given name, or nil.
func (m *Map) TileLayer(name string) *TileLayer {
	for _, l := range m.tileLayers {
		if l.name == name {
			return l
		}
	}
	return nil
}

// ObjectGroup returns the first object layer with the given name, or nil.
func (m *Map) ObjectGroup(name string) *ObjectGroup {
	for _, g := range m.objectGroups {
		if g.name == name {
			return g
		}
	}
	return nil
}

// Objects returns every object in the map across all object layers.
func (m *Map) Objects() []Object {
	return m.objects
}

// ObjectCount returns the number of objects in the map.
func (m *Map) ObjectCount() int {
	return len(m.objects)
}

// ObjectsInBounds returns all objects whose bounding box intersects the
// given box.
//
// This is the primary method for viewport-based queries. The match is at
// bounding box level; use Object.ContainsPoint or the collider helpers
// for exact shape tests on the result.
//
// Example:
//
//	viewport := tmx.Bounds{MinX: 0, MinY: 0, MaxX: 800, MaxY: 600}
//	for _, obj := range m.ObjectsInBounds(viewport) {
//	    spawn(obj)
//	}
func (m *Map) ObjectsInBounds(bounds Bounds) []Object {
	if m.spatialIndex == nil || m.spatialIndex.rtree == nil {
		return m.objectsInBoundsLinear(bounds)
	}

	// Degenerate query boxes (ObjectsAt uses a point) still need positive
	// extents for the R-tree.
	const epsilon = 0.001
	point := rtreego.Point{bounds.MinX, bounds.MinY}
	lengths := []float64{
		max(bounds.MaxX-bounds.MinX, epsilon),
		max(bounds.MaxY-bounds.MinY, epsilon),
	}
	queryRect, err := rtreego.NewRect(point, lengths)
	if err != nil {
		return m.objectsInBoundsLinear(bounds)
	}

	spatials := m.spatialIndex.rtree.SearchIntersect(queryRect)

	result := make([]Object, 0, len(spatials))
	for _, spatial := range spatials {
		indexed := spatial.(*indexedObject)
		result = append(result, indexed.object)
	}
	return result
}

// objectsInBoundsLinear performs linear search when no spatial index exists.
func (m *Map) objectsInBoundsLinear(bounds Bounds) []Object {
	result := make([]Object, 0, len(m.objects)/4)
	for _, obj := range m.objects {
		if bounds.Intersects(obj.Bounds()) {
			result = append(result, obj)
		}
	}
	return result
}

// ObjectsAt returns the objects whose shape contains the pixel position.
//
// Unlike ObjectsInBounds this is an exact test: rectangles and polygons
// are tested with their rotation applied, ellipses against their true
// outline. Point and text objects never match.
func (m *Map) ObjectsAt(x, y float64) []Object {
	candidates := m.ObjectsInBounds(Bounds{MinX: x, MinY: y, MaxX: x, MaxY: y})
	result := make([]Object, 0, len(candidates))
	for _, obj := range candidates {
		if obj.ContainsPoint(x, y) {
			result = append(result, obj)
		}
	}
	return result
}

// PixelToTile converts a pixel position to the tile coordinate containing
// it, using the map's orientation and stagger configuration.
func (m *Map) PixelToTile(x, y float64) (int, int) {
	p := m.internal.PixelToTile(parser.Point{X: x, Y: y})
	return int(p.X), int(p.Y)
}

// TileProperties returns the custom properties of the tileset tile behind
// the GID, or nil when the tile declares none.
func (m *Map) TileProperties(gid GID) Properties {
	return convertProperties(m.internal.TileProperties(parser.GID(gid)))
}

// UsedGIDs returns every GID referenced by at least one layer or object.
func (m *Map) UsedGIDs() []GID {
	internal := m.internal.UsedGIDs()
	gids := make([]GID, len(internal))
	for i, gid := range internal {
		gids[i] = GID(gid)
	}
	return gids
}

// TileLayer is a grid of tile references.
//
// The grid is fully decoded and normalized: compression, chunked infinite
// layers, and flip flags have all been resolved during parsing.
type TileLayer struct {
	name       string
	class      string
	opacity    float64
	visible    bool
	offsetX    float64
	offsetY    float64
	width      int
	height     int
	properties Properties

	internal *parser.TileLayer
}

// Name returns the layer name.
func (l *TileLayer) Name() string { return l.name }

// Class returns the layer's custom class, or "".
func (l *TileLayer) Class() string { return l.class }

// Opacity returns the layer opacity from 0 to 1.
func (l *TileLayer) Opacity() float64 { return l.opacity }

// Visible reports whether the layer is shown.
func (l *TileLayer) Visible() bool { return l.visible }

// Offset returns the layer's pixel offset.
func (l *TileLayer) Offset() (x, y float64) { return l.offsetX, l.offsetY }

// Size returns the layer dimensions in tiles.
func (l *TileLayer) Size() (width, height int) { return l.width, l.height }

// Properties returns the layer's custom properties.
func (l *TileLayer) Properties() Properties { return l.properties }

// TileAt returns the GID at the given tile coordinate, or zero for empty
// cells and coordinates outside the layer.
func (l *TileLayer) TileAt(x, y int) GID {
	return GID(l.internal.TileAt(x, y))
}

// Tiles calls fn for every non-empty cell in row major order.
//
// Example:
//
//	ground.Tiles(func(x, y int, gid tmx.GID) {
//	    drawTile(x, y, gid)
//	})
func (l *TileLayer) Tiles(fn func(x, y int, gid GID)) {
	for y, row := range l.internal.Grid {
		for x, gid := range row {
			if gid != 0 {
				fn(x, y, GID(gid))
			}
		}
	}
}

// ObjectGroup is a layer of placed objects.
type ObjectGroup struct {
	name       string
	class      string
	color      string
	drawOrder  string
	opacity    float64
	visible    bool
	offsetX    float64
	offsetY    float64
	properties Properties
	objects    []Object
}

// Name returns the layer name.
func (g *ObjectGroup) Name() string { return g.name }

// Class returns the layer's custom class, or "".
func (g *ObjectGroup) Class() string { return g.class }

// Color returns the editor display color for the layer's objects, or "".
func (g *ObjectGroup) Color() string { return g.color }

// DrawOrder returns the object draw order, "topdown" or "index".
func (g *ObjectGroup) DrawOrder() string { return g.drawOrder }

// Opacity returns the layer opacity from 0 to 1.
func (g *ObjectGroup) Opacity() float64 { return g.opacity }

// Visible reports whether the layer is shown.
func (g *ObjectGroup) Visible() bool { return g.visible }

// Offset returns the layer's pixel offset.
func (g *ObjectGroup) Offset() (x, y float64) { return g.offsetX, g.offsetY }

// Properties returns the layer's custom properties.
func (g *ObjectGroup) Properties() Properties { return g.properties }

// Objects returns the layer's objects in document order.
func (g *ObjectGroup) Objects() []Object {
	return g.objects
}

// ObjectByName returns the first object with the given name.
//
// Returns the object and true, or a zero Object and false when no object
// has that name.
func (g *ObjectGroup) ObjectByName(name string) (Object, bool) {
	for _, obj := range g.objects {
		if obj.Name() == name {
			return obj, true
		}
	}
	return Object{}, false
}

// convertMap converts the internal map model to the public API map.
func convertMap(internal *parser.Map) *Map {
	m := &Map{
		filename:        internal.Filename,
		version:         internal.Version,
		tiledVersion:    internal.TiledVersion,
		class:           internal.Class,
		orientation:     Orientation(internal.Orientation.String()),
		renderOrder:     internal.RenderOrder,
		width:           internal.Width,
		height:          internal.Height,
		tileWidth:       internal.TileWidth,
		tileHeight:      internal.TileHeight,
		infinite:        internal.Infinite,
		backgroundColor: internal.BackgroundColor,
		properties:      convertProperties(internal.Properties),
		internal:        internal,
	}

	for _, l := range internal.TileLayers() {
		info := l.Info()
		m.tileLayers = append(m.tileLayers, &TileLayer{
			name:       info.Name,
			class:      info.Class,
			opacity:    info.Opacity,
			visible:    info.Visible,
			offsetX:    info.OffsetX,
			offsetY:    info.OffsetY,
			width:      l.Width,
			height:     l.Height,
			properties: convertProperties(info.Properties),
			internal:   l,
		})
	}

	for _, g := range internal.ObjectGroups() {
		info := g.Info()
		group := &ObjectGroup{
			name:       info.Name,
			class:      info.Class,
			color:      g.Color,
			drawOrder:  g.DrawOrder,
			opacity:    info.Opacity,
			visible:    info.Visible,
			offsetX:    info.OffsetX,
			offsetY:    info.OffsetY,
			properties: convertProperties(info.Properties),
		}
		for _, obj := range g.Objects {
			group.objects = append(group.objects, Object{
				layer:    info.Name,
				internal: obj,
			})
		}
		m.objectGroups = append(m.objectGroups, group)
		m.objects = append(m.objects, group.objects...)
	}

	m.buildSpatialIndex()
	return m
}

// buildSpatialIndex creates an R-tree over the map's objects for O(log n)
// bounding box queries, and computes the map's pixel bounds.
func (m *Map) buildSpatialIndex() {
	m.bounds = Bounds{
		MaxX: float64(m.width * m.tileWidth),
		MaxY: float64(m.height * m.tileHeight),
	}

	if len(m.objects) == 0 {
		return
	}

	// 2D R-tree, min 25 / max 50 children per node.
	rtree := rtreego.NewTree(2, 25, 50)

	for _, obj := range m.objects {
		ob := obj.Bounds()
		rtree.Insert(&indexedObject{object: obj, bounds: ob})
		m.bounds = m.bounds.Union(ob)
	}

	m.spatialIndex = &spatialIndex{rtree: rtree}
}
