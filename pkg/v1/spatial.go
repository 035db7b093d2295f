package tmx

// Point is a position in map pixel space.
type Point struct {
	X float64
	Y float64
}

// Bounds represents an axis aligned bounding box in map pixel space.
//
// Coordinates are in pixels, with the origin at the map's top-left corner
// and y growing downward, matching the editor's coordinate system.
type Bounds struct {
	MinX float64 // Left edge
	MinY float64 // Top edge
	MaxX float64 // Right edge
	MaxY float64 // Bottom edge
}

// Contains returns true if the point (x, y) is within the bounds.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX &&
		y >= b.MinY && y <= b.MaxY
}

// Intersects returns true if the given bounds intersects with this bounds.
func (b Bounds) Intersects(other Bounds) bool {
	return !(other.MaxX < b.MinX ||
		other.MinX > b.MaxX ||
		other.MaxY < b.MinY ||
		other.MinY > b.MaxY)
}

// Expand returns a new Bounds expanded by the given margin in all directions.
//
// Margin is in pixels.
func (b Bounds) Expand(margin float64) Bounds {
	return Bounds{
		MinX: b.MinX - margin,
		MaxX: b.MaxX + margin,
		MinY: b.MinY - margin,
		MaxY: b.MaxY + margin,
	}
}

// Union returns the smallest bounds containing both boxes.
func (b Bounds) Union(other Bounds) Bounds {
	out := b
	if other.MinX < out.MinX {
		out.MinX = other.MinX
	}
	if other.MinY < out.MinY {
		out.MinY = other.MinY
	}
	if other.MaxX > out.MaxX {
		out.MaxX = other.MaxX
	}
	if other.MaxY > out.MaxY {
		out.MaxY = other.MaxY
	}
	return out
}

// Width returns the horizontal extent of the bounds in pixels.
func (b Bounds) Width() float64 {
	return b.MaxX - b.MinX
}

// Height returns the vertical extent of the bounds in pixels.
func (b Bounds) Height() float64 {
	return b.MaxY - b.MinY
}

// Offset returns the bounds translated by (dx, dy).
func (b Bounds) Offset(dx, dy float64) Bounds {
	return Bounds{
		MinX: b.MinX + dx,
		MinY: b.MinY + dy,
		MaxX: b.MaxX + dx,
		MaxY: b.MaxY + dy,
	}
}
