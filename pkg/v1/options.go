package tmx

import (
	"io/fs"
	"log/slog"
)

// ParseOptions configures parsing behavior.
type ParseOptions struct {
	// EllipseSegments is the number of samples used to approximate
	// ellipse objects as polygons. Default is 16.
	EllipseSegments int

	// SkipInvalidObjects causes objects whose shape or properties fail to
	// parse to be logged and dropped instead of failing the whole map.
	// Default is false - a malformed object is an error.
	SkipInvalidObjects bool

	// StrictChunks makes a chunk whose decoded tile count disagrees with
	// its declared size an error. By default such chunks are stitched as
	// far as their data reaches and a warning is logged.
	StrictChunks bool

	// Logger receives structural warnings during parsing. Nil discards them.
	Logger *slog.Logger

	// FS, when set, is used to read the map file and everything it
	// references (external tilesets, object templates). This allows maps
	// to be loaded from an embed.FS or any other fs.FS.
	// Nil uses the host filesystem.
	FS fs.FS
}

// DefaultParseOptions returns default options.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		EllipseSegments:    16,
		SkipInvalidObjects: false,
		StrictChunks:       false,
	}
}
