package parser

import "sync"

// GID is a global tile identifier. Zero means no tile. The top three bits
// carry flip state and are not part of the tile identity; see the tile
// flipping section of the TMX map format reference
// (doc.mapeditor.org/en/stable/reference/tmx-map-format/#tile-flipping).
type GID uint32

// Flip flags stored in the high bits of a raw GID.
const (
	FlippedHorizontallyFlag GID = 0x80000000
	FlippedVerticallyFlag   GID = 0x40000000
	FlippedDiagonallyFlag   GID = 0x20000000

	gidFlagMask = FlippedHorizontallyFlag | FlippedVerticallyFlag | FlippedDiagonallyFlag
)

// TileFlags holds the flip state decoded from a raw GID.
type TileFlags struct {
	FlippedHorizontally bool
	FlippedVertically   bool
	FlippedDiagonally   bool
}

// Rotation maps the flip state onto the clockwise rotation Tiled's editor
// produces with its rotate tool. Combinations the editor does not emit,
// including a diagonal flip alone, report 0.
func (f TileFlags) Rotation() int {
	if f.FlippedDiagonally {
		switch {
		case f.FlippedHorizontally && !f.FlippedVertically:
			return 90
		case f.FlippedHorizontally && f.FlippedVertically:
			return 180
		case !f.FlippedHorizontally && f.FlippedVertically:
			return 270
		}
	}
	return 0
}

// GIDCodec decodes raw GIDs into their base identifier and flip flags.
// Decoded flags are memoized per raw value, so repeated occurrences of the
// same flipped tile across a layer pay the bit tests once. The zero value
// is ready to use and safe for concurrent decoders.
type GIDCodec struct {
	flags sync.Map // raw GID -> TileFlags
}

// Decode splits a raw GID into the base GID and its flip flags. Raw values
// below the lowest flag bit cannot carry flags and bypass the cache.
func (c *GIDCodec) Decode(raw GID) (GID, TileFlags) {
	if raw < FlippedDiagonallyFlag {
		return raw, TileFlags{}
	}
	if cached, ok := c.flags.Load(raw); ok {
		return raw &^ gidFlagMask, cached.(TileFlags)
	}
	flags := TileFlags{
		FlippedHorizontally: raw&FlippedHorizontallyFlag == FlippedHorizontallyFlag,
		FlippedVertically:   raw&FlippedVerticallyFlag == FlippedVerticallyFlag,
		FlippedDiagonally:   raw&FlippedDiagonallyFlag == FlippedDiagonallyFlag,
	}
	c.flags.Store(raw, flags)
	return raw &^ gidFlagMask, flags
}
