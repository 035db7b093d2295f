package parser

import "fmt"

// ErrUnsupportedEncoding indicates a layer data encoding this parser
// cannot decode. Tiled writes "base64" or "csv"; anything else, including
// a missing encoding attribute, is rejected.
type ErrUnsupportedEncoding struct {
	Encoding string
}

func (e *ErrUnsupportedEncoding) Error() string {
	if e.Encoding == "" {
		return "unsupported layer encoding: (none)"
	}
	return fmt.Sprintf("unsupported layer encoding: %q", e.Encoding)
}

// ErrUnsupportedCompression indicates a compression attribute other than
// zlib, gzip, or zstd on base64 layer data.
type ErrUnsupportedCompression struct {
	Compression string
}

func (e *ErrUnsupportedCompression) Error() string {
	return fmt.Sprintf("unsupported layer compression: %q", e.Compression)
}

// ErrUnsupportedTileFormat indicates a layer stored in a format this
// parser deliberately rejects, such as the legacy inline <tile> elements
// Tiled stopped writing after 0.9.
type ErrUnsupportedTileFormat struct {
	Reason string
}

func (e *ErrUnsupportedTileFormat) Error() string {
	return fmt.Sprintf("unsupported tile format: %s", e.Reason)
}

// ErrMalformedTileData indicates layer or chunk payload that could not be
// decoded: bad base64, a corrupt compression stream, or a CSV field that
// is not an unsigned integer.
type ErrMalformedTileData struct {
	Encoding string
	Err      error
}

func (e *ErrMalformedTileData) Error() string {
	return fmt.Sprintf("malformed %s tile data: %v", e.Encoding, e.Err)
}

func (e *ErrMalformedTileData) Unwrap() error {
	return e.Err
}

// ErrInvalidChunkAttribute indicates a chunk position or size attribute
// that is present but not numeric.
type ErrInvalidChunkAttribute struct {
	Attr  string
	Value string
	Err   error
}

func (e *ErrInvalidChunkAttribute) Error() string {
	return fmt.Sprintf("invalid chunk attribute %s=%q: %v", e.Attr, e.Value, e.Err)
}

func (e *ErrInvalidChunkAttribute) Unwrap() error {
	return e.Err
}

// ErrChunkSizeMismatch indicates a chunk whose decoded GID count does not
// match its declared width times height. Only reported as an error when
// strict chunk checking is enabled; the default is to log and keep going.
type ErrChunkSizeMismatch struct {
	Index int
	Want  int
	Got   int
}

func (e *ErrChunkSizeMismatch) Error() string {
	return fmt.Sprintf("chunk %d gid count mismatch: expected %d, got %d", e.Index, e.Want, e.Got)
}

// ErrMalformedShapeData indicates a polygon or polyline points attribute
// that does not parse as whitespace separated "x,y" float pairs.
type ErrMalformedShapeData struct {
	Shape string
	Pair  string
	Err   error
}

func (e *ErrMalformedShapeData) Error() string {
	return fmt.Sprintf("malformed %s point %q: %v", e.Shape, e.Pair, e.Err)
}

func (e *ErrMalformedShapeData) Unwrap() error {
	return e.Err
}

// ErrNoShapePoints indicates a geometric operation on a shape that has no
// points, such as the bounding box of an object whose shape never parsed.
type ErrNoShapePoints struct {
	Op string
}

func (e *ErrNoShapePoints) Error() string {
	return fmt.Sprintf("%s: shape has no points", e.Op)
}

// ErrNonConvexPolygon indicates a polygon passed to the separating axis
// intersection test that is not convex. The test is only defined for
// convex input.
type ErrNonConvexPolygon struct {
	Vertices int
}

func (e *ErrNonConvexPolygon) Error() string {
	return fmt.Sprintf("polygon with %d vertices is not convex", e.Vertices)
}

// ErrInvalidProperty indicates a custom property value that does not
// parse under its declared type.
type ErrInvalidProperty struct {
	Name  string
	Type  string
	Value string
	Err   error
}

func (e *ErrInvalidProperty) Error() string {
	return fmt.Sprintf("invalid %s property %q=%q: %v", e.Type, e.Name, e.Value, e.Err)
}

func (e *ErrInvalidProperty) Unwrap() error {
	return e.Err
}

// ErrUnknownCustomType indicates a class property referencing a custom
// type that was never registered with the parser.
type ErrUnknownCustomType struct {
	Name string
}

func (e *ErrUnknownCustomType) Error() string {
	return fmt.Sprintf("custom type %q not found", e.Name)
}
