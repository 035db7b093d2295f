package parser

import "encoding/xml"

// Wire structs for the TMX family of documents (.tmx maps, .tsx tilesets,
// .tx templates). Attributes stay close to their text form here; the model
// builders apply defaults and numeric casts. Element order of the layer
// kinds is significant for render stacking, so layers decode through the
// catch-all layerElement below rather than per-kind fields.
//
// Reference: doc.mapeditor.org/en/stable/reference/tmx-map-format/

type mapDocument struct {
	XMLName         xml.Name       `xml:"map"`
	Version         string         `xml:"version,attr"`
	TiledVersion    string         `xml:"tiledversion,attr"`
	Class           string         `xml:"class,attr"`
	Orientation     string         `xml:"orientation,attr"`
	RenderOrder     string         `xml:"renderorder,attr"`
	Width           int            `xml:"width,attr"`
	Height          int            `xml:"height,attr"`
	TileWidth       int            `xml:"tilewidth,attr"`
	TileHeight      int            `xml:"tileheight,attr"`
	HexSideLength   int            `xml:"hexsidelength,attr"`
	StaggerAxis     string         `xml:"staggeraxis,attr"`
	StaggerIndex    string         `xml:"staggerindex,attr"`
	Infinite        int            `xml:"infinite,attr"`
	BackgroundColor string         `xml:"backgroundcolor,attr"`
	NextLayerID     int            `xml:"nextlayerid,attr"`
	NextObjectID    int            `xml:"nextobjectid,attr"`
	Properties      []propertyNode `xml:"properties>property"`
	Tilesets        []tilesetNode  `xml:"tileset"`
	Layers          []layerElement `xml:",any"`
}

// layerElement captures one of the four layer kinds while preserving the
// document order xml cannot express with per-kind slice fields. Elements
// other than the layer kinds are skipped.
type layerElement struct {
	Tile   *tileLayerNode
	Object *objectGroupNode
	Image  *imageLayerNode
	Group  *groupNode
}

func (e *layerElement) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	switch start.Name.Local {
	case "layer":
		var n tileLayerNode
		if err := d.DecodeElement(&n, &start); err != nil {
			return err
		}
		e.Tile = &n
	case "objectgroup":
		var n objectGroupNode
		if err := d.DecodeElement(&n, &start); err != nil {
			return err
		}
		e.Object = &n
	case "imagelayer":
		var n imageLayerNode
		if err := d.DecodeElement(&n, &start); err != nil {
			return err
		}
		e.Image = &n
	case "group":
		var n groupNode
		if err := d.DecodeElement(&n, &start); err != nil {
			return err
		}
		e.Group = &n
	default:
		return d.Skip()
	}
	return nil
}

type tileLayerNode struct {
	ID         int            `xml:"id,attr"`
	Name       string         `xml:"name,attr"`
	Class      string         `xml:"class,attr"`
	Width      int            `xml:"width,attr"`
	Height     int            `xml:"height,attr"`
	Opacity    string         `xml:"opacity,attr"`
	Visible    string         `xml:"visible,attr"`
	OffsetX    float64        `xml:"offsetx,attr"`
	OffsetY    float64        `xml:"offsety,attr"`
	Properties []propertyNode `xml:"properties>property"`
	Data       *dataNode      `xml:"data"`
}

type dataNode struct {
	Encoding    string           `xml:"encoding,attr"`
	Compression string           `xml:"compression,attr"`
	Chunks      []ChunkNode      `xml:"chunk"`
	Tiles       []inlineTileNode `xml:"tile"`
	Text        string           `xml:",chardata"`
}

// inlineTileNode is the pre-0.9 per-tile element form. It is recognized
// only so the parser can reject it explicitly.
type inlineTileNode struct {
	GID uint32 `xml:"gid,attr"`
}

type objectGroupNode struct {
	ID         int            `xml:"id,attr"`
	Name       string         `xml:"name,attr"`
	Class      string         `xml:"class,attr"`
	Color      string         `xml:"color,attr"`
	Opacity    string         `xml:"opacity,attr"`
	Visible    string         `xml:"visible,attr"`
	OffsetX    float64        `xml:"offsetx,attr"`
	OffsetY    float64        `xml:"offsety,attr"`
	DrawOrder  string         `xml:"draworder,attr"`
	Properties []propertyNode `xml:"properties>property"`
	Objects    []objectNode   `xml:"object"`
}

type objectNode struct {
	ID         int            `xml:"id,attr"`
	Name       string         `xml:"name,attr"`
	Type       string         `xml:"type,attr"`
	Class      string         `xml:"class,attr"`
	X          float64        `xml:"x,attr"`
	Y          float64        `xml:"y,attr"`
	Width      float64        `xml:"width,attr"`
	Height     float64        `xml:"height,attr"`
	Rotation   float64        `xml:"rotation,attr"`
	GID        uint32         `xml:"gid,attr"`
	Visible    string         `xml:"visible,attr"`
	Template   string         `xml:"template,attr"`
	Properties []propertyNode `xml:"properties>property"`
	Polygon    *pointsNode    `xml:"polygon"`
	Polyline   *pointsNode    `xml:"polyline"`
	Ellipse    *presenceNode  `xml:"ellipse"`
	Point      *presenceNode  `xml:"point"`
	Text       *textNode      `xml:"text"`
}

type pointsNode struct {
	Points string `xml:"points,attr"`
}

// presenceNode marks a child element whose presence alone carries meaning.
type presenceNode struct{}

type textNode struct {
	FontFamily string `xml:"fontfamily,attr"`
	PixelSize  string `xml:"pixelsize,attr"`
	Wrap       string `xml:"wrap,attr"`
	Bold       string `xml:"bold,attr"`
	Italic     string `xml:"italic,attr"`
	Underline  string `xml:"underline,attr"`
	Strikeout  string `xml:"strikeout,attr"`
	Kerning    string `xml:"kerning,attr"`
	HAlign     string `xml:"halign,attr"`
	VAlign     string `xml:"valign,attr"`
	Color      string `xml:"color,attr"`
	Value      string `xml:",chardata"`
}

type imageLayerNode struct {
	ID         int            `xml:"id,attr"`
	Name       string         `xml:"name,attr"`
	Class      string         `xml:"class,attr"`
	Opacity    string         `xml:"opacity,attr"`
	Visible    string         `xml:"visible,attr"`
	OffsetX    float64        `xml:"offsetx,attr"`
	OffsetY    float64        `xml:"offsety,attr"`
	RepeatX    string         `xml:"repeatx,attr"`
	RepeatY    string         `xml:"repeaty,attr"`
	Properties []propertyNode `xml:"properties>property"`
	Image      *imageNode     `xml:"image"`
}

type groupNode struct {
	ID         int            `xml:"id,attr"`
	Name       string         `xml:"name,attr"`
	Class      string         `xml:"class,attr"`
	Opacity    string         `xml:"opacity,attr"`
	Visible    string         `xml:"visible,attr"`
	OffsetX    float64        `xml:"offsetx,attr"`
	OffsetY    float64        `xml:"offsety,attr"`
	Properties []propertyNode `xml:"properties>property"`
	Layers     []layerElement `xml:",any"`
}

type propertyNode struct {
	Name         string         `xml:"name,attr"`
	Type         string         `xml:"type,attr"`
	PropertyType string         `xml:"propertytype,attr"`
	Value        string         `xml:"value,attr"`
	Text         string         `xml:",chardata"`
	Properties   []propertyNode `xml:"properties>property"`
}

type tilesetNode struct {
	XMLName    xml.Name       `xml:"tileset"`
	FirstGID   uint32         `xml:"firstgid,attr"`
	Source     string         `xml:"source,attr"`
	Name       string         `xml:"name,attr"`
	Class      string         `xml:"class,attr"`
	TileWidth  int            `xml:"tilewidth,attr"`
	TileHeight int            `xml:"tileheight,attr"`
	Spacing    int            `xml:"spacing,attr"`
	Margin     int            `xml:"margin,attr"`
	TileCount  int            `xml:"tilecount,attr"`
	Columns    int            `xml:"columns,attr"`
	TileOffset *offsetNode    `xml:"tileoffset"`
	Image      *imageNode     `xml:"image"`
	Properties []propertyNode `xml:"properties>property"`
	Tiles      []tileNode     `xml:"tile"`
}

type offsetNode struct {
	X int `xml:"x,attr"`
	Y int `xml:"y,attr"`
}

type imageNode struct {
	Source string `xml:"source,attr"`
	Trans  string `xml:"trans,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

type tileNode struct {
	ID           int               `xml:"id,attr"`
	Type         string            `xml:"type,attr"`
	Class        string            `xml:"class,attr"`
	Probability  float64           `xml:"probability,attr"`
	Image        *imageNode        `xml:"image"`
	Properties   []propertyNode    `xml:"properties>property"`
	Animation    *animationNode    `xml:"animation"`
	ObjectGroups []objectGroupNode `xml:"objectgroup"`
}

type animationNode struct {
	Frames []frameNode `xml:"frame"`
}

type frameNode struct {
	TileID   int `xml:"tileid,attr"`
	Duration int `xml:"duration,attr"`
}

// templateDocument is the root of a .tx object template file. The embedded
// tileset, when present, scopes the template object's gid.
type templateDocument struct {
	XMLName xml.Name     `xml:"template"`
	Tileset *tilesetNode `xml:"tileset"`
	Object  *objectNode  `xml:"object"`
}

// boolAttr reads a "0"/"1" attribute with the given default for absence.
func boolAttr(value string, def bool) bool {
	if value == "" {
		return def
	}
	return value == "1" || value == "true"
}

// opacityAttr reads an opacity attribute, defaulting to fully opaque.
func opacityAttr(value string) float64 {
	if value == "" {
		return 1
	}
	f, err := parseFloat(value)
	if err != nil {
		return 1
	}
	return f
}
