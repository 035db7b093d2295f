package parser

// Object is one placed object from an object layer: a shape, a tile
// stamp, a point marker, or a text box. Geometry is resolved at
// construction; the query methods below operate on the resolved points
// with the object's rotation applied.
type Object struct {
	ID         int
	Name       string
	Class      string
	X          float64
	Y          float64
	Width      float64
	Height     float64
	Rotation   float64
	GID        GID
	Flags      TileFlags
	Visible    bool
	Template   string
	Shape      Shape
	Properties Properties
}

// parseObject builds an Object from its node, resolving any template
// reference first and recomputing the declared size from the shape's
// bounding box when the shape carries points.
func (m *Map) parseObject(node *objectNode) (*Object, error) {
	if node.Template != "" {
		tmpl, err := m.loadTemplate(node.Template)
		if err != nil {
			return nil, err
		}
		node = mergeTemplateObject(node, tmpl)
	}

	props, err := parseProperties(node.Properties)
	if err != nil {
		return nil, err
	}

	obj := &Object{
		ID:         node.ID,
		Name:       node.Name,
		Class:      objectClass(node),
		X:          node.X,
		Y:          node.Y,
		Width:      node.Width,
		Height:     node.Height,
		Rotation:   node.Rotation,
		Visible:    boolAttr(node.Visible, true),
		Template:   node.Template,
		Properties: props,
	}

	if node.GID != 0 {
		obj.GID, obj.Flags = m.RegisterGIDWithFlags(GID(node.GID))
	}

	shape, err := resolveShape(node, m.opts.EllipseSegments)
	if err != nil {
		return nil, err
	}
	obj.Shape = shape

	if len(shape.Points) > 0 && shape.Kind != ShapeRectangle {
		minX, minY := shape.Points[0].X, shape.Points[0].Y
		maxX, maxY := minX, minY
		for _, p := range shape.Points[1:] {
			minX, maxX = min(minX, p.X), max(maxX, p.X)
			minY, maxY = min(minY, p.Y), max(maxY, p.Y)
		}
		obj.Width = maxX - minX
		obj.Height = maxY - minY
	}
	return obj, nil
}

// objectClass reads the object's class, accepting the pre-1.9 "type"
// attribute spelling.
func objectClass(node *objectNode) string {
	if node.Class != "" {
		return node.Class
	}
	return node.Type
}

// IsTileObject reports whether the object is a tile stamp.
func (o *Object) IsTileObject() bool {
	return o.GID != 0
}

// TransformedPoints returns the shape's points with the object's rotation
// applied about its anchor.
func (o *Object) TransformedPoints() []Point {
	points := o.Shape.Points
	if len(points) == 0 {
		points = GenerateRectanglePoints(o.X, o.Y, o.Width, o.Height)
	}
	return Rotate(points, Point{X: o.X, Y: o.Y}, o.Rotation)
}

// BoundingBox returns the axis aligned box around the rotated shape.
func (o *Object) BoundingBox() (Bounds, error) {
	return BoundingBox(o.TransformedPoints())
}

// Ellipse returns the center and semi axes when the object is an ellipse.
func (o *Object) Ellipse() (center Point, rx, ry float64, ok bool) {
	if o.Shape.Kind != ShapeEllipse {
		return Point{}, 0, 0, false
	}
	return Point{X: o.X + o.Width/2, Y: o.Y + o.Height/2}, o.Width / 2, o.Height / 2, true
}

// ContainsPoint reports whether the point falls inside the object.
// Ellipses are tested analytically against their true outline; every
// other shape with points is tested against its rotated polygon. Point
// and text objects contain nothing.
func (o *Object) ContainsPoint(p Point) bool {
	switch o.Shape.Kind {
	case ShapeEllipse:
		center, rx, ry, _ := o.Ellipse()
		return PointInEllipse(p, center.X, center.Y, rx, ry)
	case ShapePoint, ShapeText:
		return false
	default:
		return PointInPolygon(p, o.TransformedPoints())
	}
}

// IntersectsBounds reports whether the object's bounding box overlaps the
// given box with positive area.
func (o *Object) IntersectsBounds(other Bounds) bool {
	box, err := o.BoundingBox()
	if err != nil {
		return false
	}
	return RectsOverlap(
		Rect{MinX: float64(box.MinX), MinY: float64(box.MinY), MaxX: float64(box.MaxX), MaxY: float64(box.MaxY)},
		Rect{MinX: float64(other.MinX), MinY: float64(other.MinY), MaxX: float64(other.MaxX), MaxY: float64(other.MaxY)},
	)
}

// IntersectsObject reports whether the two objects' bounding boxes
// overlap. Use IntersectsPolygon for an exact test on convex shapes.
func (o *Object) IntersectsObject(other *Object) bool {
	box, err := other.BoundingBox()
	if err != nil {
		return false
	}
	return o.IntersectsBounds(box)
}

// IntersectsPolygon performs the separating axis test between the two
// objects' rotated outlines. Both must be convex.
func (o *Object) IntersectsPolygon(other *Object) (bool, error) {
	return ConvexPolygonsIntersect(o.TransformedPoints(), other.TransformedPoints())
}
