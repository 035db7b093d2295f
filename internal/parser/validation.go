package parser

import (
	"fmt"
	"math"
)

// ValidateMapHeader checks the map attributes a build cannot proceed
// without. Sizes may legitimately be zero for object-only maps; negatives
// mean a corrupt file.
func ValidateMapHeader(doc *mapDocument) error {
	if doc.Width < 0 || doc.Height < 0 {
		return fmt.Errorf("invalid map size %dx%d", doc.Width, doc.Height)
	}
	if doc.TileWidth < 0 || doc.TileHeight < 0 {
		return fmt.Errorf("invalid tile size %dx%d", doc.TileWidth, doc.TileHeight)
	}
	return nil
}

// ValidateCoordinate rejects non-finite pixel coordinates.
func ValidateCoordinate(p Point) error {
	if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
		return fmt.Errorf("coordinate (%v, %v) is not finite", p.X, p.Y)
	}
	return nil
}

// ValidateShape checks that every point of a shape is finite. Degenerate
// shapes (no points, single points) are valid; they simply match nothing
// in the geometry queries.
func ValidateShape(s Shape) error {
	for i, p := range s.Points {
		if err := ValidateCoordinate(p); err != nil {
			return fmt.Errorf("%s point %d: %w", s.Kind, i, err)
		}
	}
	return nil
}

// ValidateGrid checks a stitched or reshaped grid against its declared
// dimensions. Short rows indicate a payload/size mismatch upstream.
func ValidateGrid(grid [][]GID, width, height int) error {
	if len(grid) != height {
		return fmt.Errorf("grid has %d rows, expected %d", len(grid), height)
	}
	for y, row := range grid {
		if len(row) != width {
			return fmt.Errorf("grid row %d has %d cells, expected %d", y, len(row), width)
		}
	}
	return nil
}
