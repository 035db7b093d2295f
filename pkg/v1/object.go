package tmx

import (
	"github.com/mapwright/tmx/internal/parser"
)

// Object represents a placed map object: a shape, a tile stamp, a point
// marker, or a text box.
//
// Objects are cheap value wrappers around shared parsed data; copy them
// freely.
type Object struct {
	layer    string
	internal *parser.Object
}

// ID returns the object's unique id within the map.
func (o Object) ID() int { return o.internal.ID }

// Name returns the object name, or "".
func (o Object) Name() string { return o.internal.Name }

// Class returns the object's custom class, or "". Maps saved by older
// editor versions carry it in the "type" attribute; both spellings land
// here.
func (o Object) Class() string { return o.internal.Class }

// Layer returns the name of the object layer the object belongs to.
func (o Object) Layer() string { return o.layer }

// Position returns the object's anchor position in pixels.
func (o Object) Position() (x, y float64) { return o.internal.X, o.internal.Y }

// Size returns the object's unrotated size in pixels. For polygons and
// polylines this is the extent of the point list.
func (o Object) Size() (width, height float64) {
	return o.internal.Width, o.internal.Height
}

// Rotation returns the object's rotation in degrees, clockwise.
func (o Object) Rotation() float64 { return o.internal.Rotation }

// Visible reports whether the object is shown.
func (o Object) Visible() bool { return o.internal.Visible }

// GID returns the tile GID for tile objects, or zero.
func (o Object) GID() GID { return GID(o.internal.GID) }

// IsTile reports whether the object is a tile stamp.
func (o Object) IsTile() bool { return o.internal.IsTileObject() }

// Properties returns the object's custom properties. Objects created from
// a template see the template's properties with their own overrides
// applied.
func (o Object) Properties() Properties {
	return convertProperties(o.internal.Properties)
}

// Property returns a single custom property by name.
func (o Object) Property(name string) (any, bool) {
	v, ok := o.internal.Properties[name]
	if nested, isClass := v.(parser.Properties); isClass {
		return convertProperties(nested), ok
	}
	return v, ok
}

// Points returns the object's outline in map pixel space with the
// object's rotation applied. Rectangles yield their four corners,
// ellipses their polygonal approximation. Point and text objects have no
// outline.
func (o Object) Points() []Point {
	if o.internal.Shape.Kind == parser.ShapePoint || o.internal.Shape.Kind == parser.ShapeText {
		return nil
	}
	transformed := o.internal.TransformedPoints()
	points := make([]Point, len(transformed))
	for i, p := range transformed {
		points[i] = Point{X: p.X, Y: p.Y}
	}
	return points
}

// Bounds returns the axis aligned box around the rotated object. Point
// objects report a zero-size box at their position.
func (o Object) Bounds() Bounds {
	points := o.internal.TransformedPoints()
	if len(points) == 0 {
		return Bounds{
			MinX: o.internal.X, MinY: o.internal.Y,
			MaxX: o.internal.X, MaxY: o.internal.Y,
		}
	}
	b := Bounds{MinX: points[0].X, MinY: points[0].Y, MaxX: points[0].X, MaxY: points[0].Y}
	for _, p := range points[1:] {
		b = b.Union(Bounds{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y})
	}
	return b
}

// ContainsPoint reports whether the pixel position falls inside the
// object's shape. Ellipses are tested against their true outline,
// everything else against the rotated polygon. Point and text objects
// contain nothing.
func (o Object) ContainsPoint(x, y float64) bool {
	return o.internal.ContainsPoint(parser.Point{X: x, Y: y})
}

// Text returns the text of a text object.
func (o Object) Text() (string, bool) {
	if o.internal.Shape.Kind != parser.ShapeText || o.internal.Shape.Text == nil {
		return "", false
	}
	return o.internal.Shape.Text.Value, true
}
