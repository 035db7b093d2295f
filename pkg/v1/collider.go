package tmx

import "github.com/mapwright/tmx/internal/parser"

// AnimationFrame is one step of a tile animation.
type AnimationFrame struct {
	// GID of the tile shown during this frame.
	GID GID
	// DurationMS is how long the frame is shown, in milliseconds.
	DurationMS int
}

// Center returns the center of the object's bounding box.
func (o Object) Center() Point {
	b := o.Bounds()
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// IsRectangle reports whether the object is a plain rectangle.
func (o Object) IsRectangle() bool { return o.internal.Shape.Kind == parser.ShapeRectangle }

// IsPolygon reports whether the object is a closed polygon.
func (o Object) IsPolygon() bool { return o.internal.Shape.Kind == parser.ShapePolygon }

// IsPolyline reports whether the object is an open polyline.
func (o Object) IsPolyline() bool { return o.internal.Shape.Kind == parser.ShapePolyline }

// IsEllipse reports whether the object is an ellipse.
func (o Object) IsEllipse() bool { return o.internal.Shape.Kind == parser.ShapeEllipse }

// IsPoint reports whether the object is a point marker.
func (o Object) IsPoint() bool { return o.internal.Shape.Kind == parser.ShapePoint }

// IsText reports whether the object is a text box.
func (o Object) IsText() bool { return o.internal.Shape.Kind == parser.ShapeText }

// Intersects reports whether the two objects' bounding boxes overlap with
// positive area. Shapes that only touch along an edge do not count.
func (o Object) Intersects(other Object) bool {
	return o.internal.IntersectsObject(other.internal)
}

// IntersectsExact performs the separating axis test between the two
// objects' rotated outlines. Both outlines must be convex; concave
// polygons return an error.
func (o Object) IntersectsExact(other Object) (bool, error) {
	return o.internal.IntersectsPolygon(other.internal)
}

// TileColliders returns the collision shapes the tileset declares for the
// tile behind the GID, or nil. Collider coordinates are relative to the
// tile's top-left corner; offset them by the placed tile's position.
//
// Example:
//
//	ground.Tiles(func(x, y int, gid tmx.GID) {
//	    for _, c := range m.TileColliders(gid) {
//	        world := c.Bounds().Offset(float64(x*m.TileWidth()), float64(y*m.TileHeight()))
//	        addCollider(world)
//	    }
//	})
func (m *Map) TileColliders(gid GID) []Object {
	internal := m.internal.TileColliders(parser.GID(gid))
	if len(internal) == 0 {
		return nil
	}
	colliders := make([]Object, len(internal))
	for i, obj := range internal {
		colliders[i] = Object{internal: obj}
	}
	return colliders
}

// TileAnimation returns the animation frames of the tile behind the GID,
// or nil when the tile is not animated.
func (m *Map) TileAnimation(gid GID) []AnimationFrame {
	internal := m.internal.TileAnimation(parser.GID(gid))
	if len(internal) == 0 {
		return nil
	}
	frames := make([]AnimationFrame, len(internal))
	for i, f := range internal {
		frames[i] = AnimationFrame{GID: GID(f.GID), DurationMS: f.Duration}
	}
	return frames
}
