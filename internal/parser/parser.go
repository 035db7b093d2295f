package parser

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
)

// Parser parses TMX map files into the in-memory Map model.
//
// Parsing runs in two phases: the document is decoded into wire structs
// with encoding/xml, then the model is built from them, decoding layer
// payloads and resolving object geometry along the way. External tilesets
// and templates referenced by the map are loaded during the build phase.
type Parser interface {
	// Parse reads a TMX map file and returns the built map.
	Parse(filename string) (*Map, error)

	// ParseWithOptions parses with custom options.
	ParseWithOptions(filename string, opts ParseOptions) (*Map, error)
}

// ParseOptions configures parsing behavior.
type ParseOptions struct {
	// EllipseSegments is the sample count for ellipse approximations.
	// Default: 16.
	EllipseSegments int

	// SkipInvalidObjects: if true, objects whose shape or properties fail
	// to parse are logged and dropped instead of failing the map.
	// Default: false.
	SkipInvalidObjects bool

	// StrictChunks: if true, a chunk whose decoded GID count disagrees
	// with its declared size is an error instead of a warning.
	// Default: false.
	StrictChunks bool

	// Logger receives structural warnings (chunk anomalies, skipped
	// objects). Nil discards them.
	Logger *slog.Logger

	// FS, when set, is used for the map file and everything it
	// references (external tilesets, templates), so maps can be loaded
	// from an embed.FS or any other fs.FS. Nil uses the host filesystem.
	FS fs.FS
}

// DefaultParseOptions returns parse options with defaults.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		EllipseSegments:    16,
		SkipInvalidObjects: false,
		StrictChunks:       false,
	}
}

type defaultParser struct{}

// NewParser creates a new TMX parser.
func NewParser() Parser {
	return &defaultParser{}
}

func (p *defaultParser) Parse(filename string) (*Map, error) {
	return p.ParseWithOptions(filename, DefaultParseOptions())
}

func (p *defaultParser) ParseWithOptions(filename string, opts ParseOptions) (*Map, error) {
	var (
		data []byte
		err  error
	)
	if opts.FS != nil {
		data, err = fs.ReadFile(opts.FS, filename)
	} else {
		data, err = os.ReadFile(filename)
	}
	if err != nil {
		return nil, fmt.Errorf("read map file: %w", err)
	}
	return parseMap(bytes.NewReader(data), filename, opts)
}

// ParseReader parses a TMX document from a reader. The filename is used
// only to resolve relative references; pass "" for self-contained maps.
func ParseReader(r io.Reader, filename string, opts ParseOptions) (*Map, error) {
	return parseMap(r, filename, opts)
}

func parseMap(r io.Reader, filename string, opts ParseOptions) (*Map, error) {
	if opts.EllipseSegments == 0 {
		opts.EllipseSegments = DefaultParseOptions().EllipseSegments
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}

	var doc mapDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode map document: %w", err)
	}

	return buildMap(&doc, filename, opts, logger)
}

// buildMap constructs the model from the decoded document. Tilesets are
// built before layers so layer GIDs resolve against a complete tileset
// list.
func buildMap(doc *mapDocument, filename string, opts ParseOptions, logger *slog.Logger) (*Map, error) {
	if err := ValidateMapHeader(doc); err != nil {
		return nil, err
	}

	props, err := parseProperties(doc.Properties)
	if err != nil {
		return nil, err
	}

	m := &Map{
		Filename:        filename,
		Version:         doc.Version,
		TiledVersion:    doc.TiledVersion,
		Class:           doc.Class,
		Orientation:     ParseOrientation(doc.Orientation),
		RenderOrder:     renderOrder(doc.RenderOrder),
		Width:           doc.Width,
		Height:          doc.Height,
		TileWidth:       doc.TileWidth,
		TileHeight:      doc.TileHeight,
		HexSideLength:   doc.HexSideLength,
		StaggerAxis:     ParseStaggerAxis(doc.StaggerAxis),
		StaggerIndex:    ParseStaggerIndex(doc.StaggerIndex),
		Infinite:        doc.Infinite == 1,
		BackgroundColor: doc.BackgroundColor,
		Properties:      props,
		usedFlags:       make(map[GID][]TileFlags),
		opts:            opts,
		logger:          logger,
	}

	for i := range doc.Tilesets {
		ts, err := m.buildTileset(&doc.Tilesets[i])
		if err != nil {
			return nil, err
		}
		m.Tilesets = append(m.Tilesets, ts)
	}
	sortTilesets(m.Tilesets)

	layers, err := m.buildLayers(doc.Layers)
	if err != nil {
		return nil, err
	}
	m.Layers = layers

	logger.Debug("map built",
		"file", filename,
		"size", fmt.Sprintf("%dx%d", m.Width, m.Height),
		"layers", len(m.Layers),
		"tilesets", len(m.Tilesets))
	return m, nil
}

func renderOrder(s string) string {
	if s == "" {
		return "right-down"
	}
	return s
}
