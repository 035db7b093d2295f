package parser

import (
	"math"
	"strings"
)

// ShapeKind names the geometry an object declares.
type ShapeKind int

const (
	ShapeRectangle ShapeKind = iota
	ShapePolygon
	ShapePolyline
	ShapeEllipse
	ShapePoint
	ShapeText
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeRectangle:
		return "rectangle"
	case ShapePolygon:
		return "polygon"
	case ShapePolyline:
		return "polyline"
	case ShapeEllipse:
		return "ellipse"
	case ShapePoint:
		return "point"
	case ShapeText:
		return "text"
	default:
		return "unknown"
	}
}

// TextData carries the rich text attributes of a text object, with the
// editor's defaults already applied.
type TextData struct {
	Value      string
	FontFamily string
	PixelSize  int
	Wrap       bool
	Bold       bool
	Italic     bool
	Underline  bool
	Strikeout  bool
	Kerning    bool
	HAlign     string
	VAlign     string
	Color      string
}

// Shape is an object's resolved geometry in map pixel space. It is built
// once during object construction and not mutated afterwards. Ellipses
// carry a polygonal approximation; every query except the analytic ellipse
// test works on those points.
type Shape struct {
	Kind   ShapeKind
	Points []Point
	Closed bool
	Text   *TextData
}

// GenerateRectanglePoints returns the rectangle's corners in clockwise
// order starting at the anchor.
func GenerateRectanglePoints(x, y, w, h float64) []Point {
	return []Point{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
	}
}

// GenerateEllipsePoints approximates the ellipse inscribed in the given
// box with evenly spaced samples, optionally rotated about the center by
// the given angle in degrees. Zero segments yields no points; one segment
// yields the single sample at angle zero.
func GenerateEllipsePoints(x, y, w, h float64, segments int, rotation float64) []Point {
	cx, cy := x+w/2, y+h/2
	rx, ry := w/2, h/2
	sin, cos := math.Sincos(rotation * math.Pi / 180)

	points := make([]Point, 0, segments)
	for i := 0; i < segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		dx := rx * math.Cos(theta)
		dy := ry * math.Sin(theta)
		points = append(points, Point{
			X: cx + dx*cos - dy*sin,
			Y: cy + dx*sin + dy*cos,
		})
	}
	return points
}

// parsePointList reads a whitespace separated list of "x,y" float pairs
// and translates each by the anchor. Any pair that does not split into two
// numbers is an error; shape data is never partially recovered.
func parsePointList(text string, anchorX, anchorY float64, kind ShapeKind) ([]Point, error) {
	fields := strings.Fields(text)
	points := make([]Point, 0, len(fields))
	for _, pair := range fields {
		xs, ys, ok := strings.Cut(pair, ",")
		if !ok {
			return nil, &ErrMalformedShapeData{Shape: kind.String(), Pair: pair}
		}
		x, err := parseFloat(xs)
		if err != nil {
			return nil, &ErrMalformedShapeData{Shape: kind.String(), Pair: pair, Err: err}
		}
		y, err := parseFloat(ys)
		if err != nil {
			return nil, &ErrMalformedShapeData{Shape: kind.String(), Pair: pair, Err: err}
		}
		points = append(points, Point{X: anchorX + x, Y: anchorY + y})
	}
	return points, nil
}

// resolveShape turns an object node's declared sub-element into its Shape.
// An object with no shape element is the default rectangle.
func resolveShape(node *objectNode, ellipseSegments int) (Shape, error) {
	switch {
	case node.Polygon != nil:
		points, err := parsePointList(node.Polygon.Points, node.X, node.Y, ShapePolygon)
		if err != nil {
			return Shape{}, err
		}
		return Shape{Kind: ShapePolygon, Points: points, Closed: true}, nil

	case node.Polyline != nil:
		points, err := parsePointList(node.Polyline.Points, node.X, node.Y, ShapePolyline)
		if err != nil {
			return Shape{}, err
		}
		return Shape{Kind: ShapePolyline, Points: points}, nil

	case node.Ellipse != nil:
		points := GenerateEllipsePoints(node.X, node.Y, node.Width, node.Height, ellipseSegments, 0)
		return Shape{Kind: ShapeEllipse, Points: points, Closed: true}, nil

	case node.Point != nil:
		return Shape{Kind: ShapePoint}, nil

	case node.Text != nil:
		return Shape{Kind: ShapeText, Text: parseTextData(node.Text)}, nil

	default:
		points := GenerateRectanglePoints(node.X, node.Y, node.Width, node.Height)
		return Shape{Kind: ShapeRectangle, Points: points, Closed: true}, nil
	}
}

// parseTextData applies the editor's documented text defaults.
func parseTextData(node *textNode) *TextData {
	text := &TextData{
		Value:      node.Value,
		FontFamily: "Sans Serif",
		PixelSize:  16,
		Kerning:    true,
		HAlign:     "left",
		VAlign:     "top",
		Color:      "#000000FF",
	}
	if node.FontFamily != "" {
		text.FontFamily = node.FontFamily
	}
	if node.PixelSize != "" {
		if size, err := parseFloat(node.PixelSize); err == nil {
			text.PixelSize = int(size)
		}
	}
	text.Wrap = boolAttr(node.Wrap, false)
	text.Bold = boolAttr(node.Bold, false)
	text.Italic = boolAttr(node.Italic, false)
	text.Underline = boolAttr(node.Underline, false)
	text.Strikeout = boolAttr(node.Strikeout, false)
	text.Kerning = boolAttr(node.Kerning, true)
	if node.HAlign != "" {
		text.HAlign = node.HAlign
	}
	if node.VAlign != "" {
		text.VAlign = node.VAlign
	}
	if node.Color != "" {
		text.Color = node.Color
	}
	return text
}
