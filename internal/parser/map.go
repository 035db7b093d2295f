package parser

import (
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
)

// Map is the in-memory model of a parsed TMX map: its configuration,
// tilesets, and layers in document order. It also acts as the GID
// registrar for its layers, folding flip flags out of raw GIDs and
// recording which tiles and flag combinations the map actually uses.
type Map struct {
	Filename        string
	Version         string
	TiledVersion    string
	Class           string
	Orientation     Orientation
	RenderOrder     string
	Width           int
	Height          int
	TileWidth       int
	TileHeight      int
	HexSideLength   int
	StaggerAxis     StaggerAxis
	StaggerIndex    StaggerIndex
	Infinite        bool
	BackgroundColor string
	Properties      Properties
	Tilesets        []*Tileset
	Layers          []Layer

	codec     GIDCodec
	usedFlags map[GID][]TileFlags
	templates map[string]*templateDocument
	opts      ParseOptions
	logger    *slog.Logger
}

// RegisterGID strips the flip flags from a raw GID, records the tile as
// in use, and returns the base id. Zero passes through untouched.
func (m *Map) RegisterGID(raw GID) GID {
	base, _ := m.RegisterGIDWithFlags(raw)
	return base
}

// RegisterGIDWithFlags is RegisterGID returning the decoded flags too.
func (m *Map) RegisterGIDWithFlags(raw GID) (GID, TileFlags) {
	if raw == 0 {
		return 0, TileFlags{}
	}
	base, flags := m.codec.Decode(raw)
	variants := m.usedFlags[base]
	seen := false
	for _, v := range variants {
		if v == flags {
			seen = true
			break
		}
	}
	if !seen {
		m.usedFlags[base] = append(variants, flags)
	}
	return base, flags
}

// UsedGIDs returns every base GID at least one layer or object references.
func (m *Map) UsedGIDs() []GID {
	gids := make([]GID, 0, len(m.usedFlags))
	for gid := range m.usedFlags {
		gids = append(gids, gid)
	}
	return gids
}

// FlagVariants returns the flip flag combinations under which the base
// GID appears in the map. Tiles never referenced report nil.
func (m *Map) FlagVariants(base GID) []TileFlags {
	return m.usedFlags[base]
}

// TileLayers returns the map's tile layers in order, including those
// nested inside groups.
func (m *Map) TileLayers() []*TileLayer {
	var out []*TileLayer
	walkLayers(m.Layers, func(l Layer) {
		if tl, ok := l.(*TileLayer); ok {
			out = append(out, tl)
		}
	})
	return out
}

// ObjectGroups returns the map's object layers in order, including those
// nested inside groups.
func (m *Map) ObjectGroups() []*ObjectGroup {
	var out []*ObjectGroup
	walkLayers(m.Layers, func(l Layer) {
		if g, ok := l.(*ObjectGroup); ok {
			out = append(out, g)
		}
	})
	return out
}

// LayerByName returns the first layer of any kind with the given name.
func (m *Map) LayerByName(name string) (Layer, bool) {
	var found Layer
	walkLayers(m.Layers, func(l Layer) {
		if found == nil && l.Info().Name == name {
			found = l
		}
	})
	return found, found != nil
}

func walkLayers(layers []Layer, visit func(Layer)) {
	for _, l := range layers {
		visit(l)
		if g, ok := l.(*GroupLayer); ok {
			walkLayers(g.Layers, visit)
		}
	}
}

// PixelToTile maps a pixel position to a tile coordinate using the map's
// orientation and stagger configuration.
func (m *Map) PixelToTile(p Point) Point {
	return PixelToTile(p, m.Orientation, float64(m.TileWidth), float64(m.TileHeight), m.StaggerAxis, m.StaggerIndex)
}

// AdjustObjectPosition returns the tile object's anchor corrected for the
// map orientation and the rotation encoded in the object's flip flags.
func (m *Map) AdjustObjectPosition(o *Object, invertY bool) (float64, float64) {
	return AdjustGIDObjectPosition(
		o.X, o.Y, o.Width, o.Height,
		m.Orientation, o.Flags.Rotation(),
		float64(m.TileWidth), float64(m.TileHeight),
		invertY,
	)
}

// readRelative reads a file referenced from the map document, resolved
// against the map file's directory. With no FS configured, the host
// filesystem is used.
func (m *Map) readRelative(name string) ([]byte, error) {
	if m.opts.FS != nil {
		dir := path.Dir(filepath.ToSlash(m.Filename))
		return fs.ReadFile(m.opts.FS, path.Join(dir, name))
	}
	return os.ReadFile(filepath.Join(filepath.Dir(m.Filename), filepath.FromSlash(name)))
}
