package parser

import "math"

// Point is a position in pixel space.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis aligned box in pixel space.
type Rect struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Bounds is an axis aligned box with whole number corners, the form object
// bounding boxes are reported in.
type Bounds struct {
	MinX int
	MinY int
	MaxX int
	MaxY int
}

// Rotate returns the points turned by the given angle in degrees around
// the origin. Positive angles rotate toward positive y, which reads as
// clockwise in Tiled's screen coordinates. The input is not modified.
func Rotate(points []Point, origin Point, degrees float64) []Point {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	rotated := make([]Point, len(points))
	for i, p := range points {
		rotated[i] = Point{
			X: origin.X + cos*(p.X-origin.X) - sin*(p.Y-origin.Y),
			Y: origin.Y + sin*(p.X-origin.X) + cos*(p.Y-origin.Y),
		}
	}
	return rotated
}

// BoundingBox returns the smallest box around the points, each corner
// truncated toward zero.
func BoundingBox(points []Point) (Bounds, error) {
	if len(points) == 0 {
		return Bounds{}, &ErrNoShapePoints{Op: "bounding box"}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Bounds{MinX: int(minX), MinY: int(minY), MaxX: int(maxX), MaxY: int(maxY)}, nil
}

// PointInPolygon reports whether the point lies inside the polygon, by
// casting a ray toward positive x and counting edge crossings. Points
// exactly on an edge may land on either side.
func PointInPolygon(p Point, polygon []Point) bool {
	inside := false
	n := len(polygon)
	for i := 0; i < n; i++ {
		j := (i - 1 + n) % n
		pi, pj := polygon[i], polygon[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y+1e-10)+pi.X {
			inside = !inside
		}
	}
	return inside
}

// PointInEllipse reports whether the point lies inside or on the ellipse
// centered at (cx, cy) with semi axes rx and ry.
func PointInEllipse(p Point, cx, cy, rx, ry float64) bool {
	nx := (p.X - cx) / rx
	ny := (p.Y - cy) / ry
	return nx*nx+ny*ny <= 1
}

// IsConvex reports whether the polygon is convex, by checking that the
// cross products of consecutive edges never change sign. A zero cross
// counts as non positive, so polygons with collinear vertices are only
// accepted when wound so all their turns come out non positive.
// Degenerate polygons with fewer than three points report true.
func IsConvex(points []Point) bool {
	n := len(points)
	allPositive := true
	anyPositive := false
	for i := 0; i < n; i++ {
		p1 := points[i]
		p2 := points[(i+1)%n]
		p3 := points[(i+2)%n]
		positive := cross(p1, p2, p3) > 0
		allPositive = allPositive && positive
		anyPositive = anyPositive || positive
	}
	return allPositive || !anyPositive
}

func cross(p1, p2, p3 Point) float64 {
	return (p2.X-p1.X)*(p3.Y-p1.Y) - (p2.Y-p1.Y)*(p3.X-p1.X)
}

// RectsOverlap reports whether two boxes overlap with positive area.
// Boxes that only touch along an edge or corner do not overlap.
func RectsOverlap(a, b Rect) bool {
	return a.MinX < b.MaxX && a.MaxX > b.MinX && a.MinY < b.MaxY && a.MaxY > b.MinY
}

// ConvexPolygonsIntersect reports whether two convex polygons overlap,
// using the separating axis theorem. The edge normals of both polygons
// are the candidate axes; the polygons intersect exactly when their
// projections overlap on every axis. Non convex input is an error.
func ConvexPolygonsIntersect(a, b []Point) (bool, error) {
	if !IsConvex(a) {
		return false, &ErrNonConvexPolygon{Vertices: len(a)}
	}
	if !IsConvex(b) {
		return false, &ErrNonConvexPolygon{Vertices: len(b)}
	}
	axes := append(edgeNormals(a), edgeNormals(b)...)
	for _, axis := range axes {
		minA, maxA := project(a, axis)
		minB, maxB := project(b, axis)
		if maxA < minB || maxB < minA {
			return false, nil
		}
	}
	return true, nil
}

// edgeNormals returns the unit normals of the polygon's edges.
func edgeNormals(points []Point) []Point {
	n := len(points)
	axes := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		p1 := points[i]
		p2 := points[(i+1)%n]
		nx, ny := -(p2.Y - p1.Y), p2.X-p1.X
		length := math.Hypot(nx, ny)
		axes = append(axes, Point{X: nx / length, Y: ny / length})
	}
	return axes
}

// project returns the minimum and maximum of the points projected onto
// the axis.
func project(points []Point, axis Point) (float64, float64) {
	min := math.Inf(1)
	max := math.Inf(-1)
	for _, p := range points {
		dot := p.X*axis.X + p.Y*axis.Y
		min = math.Min(min, dot)
		max = math.Max(max, dot)
	}
	return min, max
}
