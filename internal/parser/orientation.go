package parser

import "math"

// Orientation is the map's projection scheme. It selects the pixel to tile
// coordinate formulas and the anchor correction applied to tile objects.
type Orientation int

const (
	OrientationOrthogonal Orientation = iota
	OrientationIsometric
	OrientationStaggered
	OrientationHexagonal
	OrientationUnknown
)

// ParseOrientation reads the map orientation attribute. A missing attribute
// is orthogonal, the format's default. Unrecognized values are preserved as
// unknown so the coordinate math can apply its documented fallbacks.
func ParseOrientation(s string) Orientation {
	switch s {
	case "orthogonal", "":
		return OrientationOrthogonal
	case "isometric":
		return OrientationIsometric
	case "staggered":
		return OrientationStaggered
	case "hexagonal":
		return OrientationHexagonal
	default:
		return OrientationUnknown
	}
}

func (o Orientation) String() string {
	switch o {
	case OrientationOrthogonal:
		return "orthogonal"
	case OrientationIsometric:
		return "isometric"
	case OrientationStaggered:
		return "staggered"
	case OrientationHexagonal:
		return "hexagonal"
	default:
		return "unknown"
	}
}

// StaggerAxis names the axis along which staggered and hexagonal maps
// shift alternating rows or columns.
type StaggerAxis int

const (
	StaggerAxisY StaggerAxis = iota
	StaggerAxisX
)

// ParseStaggerAxis reads the staggeraxis attribute, defaulting to y.
func ParseStaggerAxis(s string) StaggerAxis {
	if s == "x" {
		return StaggerAxisX
	}
	return StaggerAxisY
}

func (a StaggerAxis) String() string {
	if a == StaggerAxisX {
		return "x"
	}
	return "y"
}

// StaggerIndex selects whether odd or even rows or columns carry the
// half-tile shift.
type StaggerIndex int

const (
	StaggerIndexOdd StaggerIndex = iota
	StaggerIndexEven
)

// ParseStaggerIndex reads the staggerindex attribute, defaulting to odd.
func ParseStaggerIndex(s string) StaggerIndex {
	if s == "even" {
		return StaggerIndexEven
	}
	return StaggerIndexOdd
}

func (i StaggerIndex) String() string {
	if i == StaggerIndexEven {
		return "even"
	}
	return "odd"
}

// matches reports whether row or column n carries the stagger shift.
func (i StaggerIndex) matches(n int) bool {
	parity := ((n % 2) + 2) % 2
	if i == StaggerIndexEven {
		return parity == 0
	}
	return parity == 1
}

// PixelToTile maps a pixel position to the tile coordinate containing it.
// Staggered maps pack rows (or columns) at half-tile strides, hexagonal
// maps at three-quarter strides, both with a half-tile shift on the rows
// or columns the stagger index selects. An unknown orientation falls back
// to the orthogonal formula rather than failing.
func PixelToTile(p Point, o Orientation, tileW, tileH float64, axis StaggerAxis, index StaggerIndex) Point {
	switch o {
	case OrientationIsometric:
		return Point{
			X: math.Floor((p.X/tileW + p.Y/tileH) / 2),
			Y: math.Floor((p.Y/tileH - p.X/tileW) / 2),
		}
	case OrientationStaggered:
		return staggeredPixelToTile(p, tileW, tileH, tileW/2, tileH/2, axis, index)
	case OrientationHexagonal:
		return staggeredPixelToTile(p, tileW, tileH, tileW*0.75, tileH*0.75, axis, index)
	default:
		return Point{X: math.Floor(p.X / tileW), Y: math.Floor(p.Y / tileH)}
	}
}

func staggeredPixelToTile(p Point, tileW, tileH, strideX, strideY float64, axis StaggerAxis, index StaggerIndex) Point {
	if axis == StaggerAxisX {
		col := math.Floor(p.X / strideX)
		offset := 0.0
		if index.matches(int(col)) {
			offset = tileH / 2
		}
		return Point{X: col, Y: math.Floor((p.Y - offset) / tileH)}
	}
	row := math.Floor(p.Y / strideY)
	offset := 0.0
	if index.matches(int(row)) {
		offset = tileW / 2
	}
	return Point{X: math.Floor((p.X - offset) / tileW), Y: row}
}

// AdjustGIDObjectPosition corrects the anchor of a tile object so its
// visual rotation pivots where the editor shows it. Rotation must be one
// of the quadrant angles the flip flags can express. Isometric maps
// additionally recenter by half a tile and bias diagonal rotations by half
// the object height; invertY flips the anchor to top-left coordinates.
// Unknown orientations leave the position untouched.
func AdjustGIDObjectPosition(x, y, w, h float64, o Orientation, rotation int, tileW, tileH float64, invertY bool) (float64, float64) {
	switch o {
	case OrientationOrthogonal, OrientationIsometric, OrientationStaggered, OrientationHexagonal:
	default:
		return x, y
	}

	switch rotation {
	case 90:
		x += h
	case 180:
		x += w
		y += h
	case 270:
		y += w
	}

	if o == OrientationIsometric {
		x -= tileW / 2
		y -= tileH / 2
		if rotation == 90 || rotation == 270 {
			x -= h / 2
			y += h / 2
		}
	}

	if invertY {
		y -= h
	}
	return x, y
}
