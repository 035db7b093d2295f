package tmx

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// MapMetadata contains lightweight metadata extracted from map files.
//
// This is much faster than parsing the entire map as it only reads the
// opening <map> element and the map-level properties, without decoding
// layer data or objects.
//
// Use ExtractMetadata for fast spatial indexing and map discovery.
type MapMetadata struct {
	Path        string      // Path to the .tmx file
	Name        string      // Map name (filename without extension)
	Class       string      // Custom map class
	Orientation Orientation // Map orientation
	Width       int         // Map width in tiles
	Height      int         // Map height in tiles
	TileWidth   int         // Tile width in pixels
	TileHeight  int         // Tile height in pixels
	Infinite    bool        // Whether the map was saved as infinite
	WorldX      float64     // World placement from the "worldx" map property
	WorldY      float64     // World placement from the "worldy" map property
	FileSize    int64       // File size in bytes
	ModTime     time.Time   // File modification time
}

// Bounds returns the map's pixel bounds at its world placement.
//
// Maps that carry "worldx"/"worldy" custom properties are placed at that
// position; maps without them sit at the origin. Infinite maps report
// their saved extent.
func (m *MapMetadata) Bounds() Bounds {
	return Bounds{
		MinX: m.WorldX,
		MinY: m.WorldY,
		MaxX: m.WorldX + float64(m.Width*m.TileWidth),
		MaxY: m.WorldY + float64(m.Height*m.TileHeight),
	}
}

// ExtractMetadata reads only the map header from a TMX file.
//
// This is significantly faster than Parse as it stops before any layer
// data, tilesets, or objects. The function reads:
//   - The <map> element attributes (size, orientation, class)
//   - Map-level custom properties, for "worldx"/"worldy" world placement
//   - File metadata: size, modification time
//
// Example:
//
//	meta, err := tmx.ExtractMetadata("maps/overworld.tmx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s: %dx%d tiles\n", meta.Name, meta.Width, meta.Height)
func ExtractMetadata(path string) (*MapMetadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map file: %w", err)
	}
	defer f.Close()

	meta, err := scanMapHeader(f)
	if err != nil {
		return nil, fmt.Errorf("read map header %q: %w", path, err)
	}

	meta.Path = path
	meta.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	meta.FileSize = info.Size()
	meta.ModTime = info.ModTime()
	return meta, nil
}

// scanMapHeader token-scans the document up to the first layer or tileset
// element, collecting the <map> attributes and map-level properties.
func scanMapHeader(r io.Reader) (*MapMetadata, error) {
	meta := &MapMetadata{Orientation: OrientationOrthogonal}
	decoder := xml.NewDecoder(r)

	sawMap := false
	inProperties := false
	depth := 0

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "map":
				if depth != 1 {
					return nil, fmt.Errorf("unexpected nested <map> element")
				}
				sawMap = true
				readMapAttrs(t, meta)

			case "properties":
				// Only map-level properties carry world placement.
				if depth == 2 {
					inProperties = true
				}

			case "property":
				if inProperties {
					readWorldProperty(t, meta)
				}

			case "layer", "objectgroup", "imagelayer", "group", "tileset":
				if depth == 2 {
					// Header is over; everything that follows is content.
					if !sawMap {
						return nil, fmt.Errorf("no <map> element found")
					}
					return meta, nil
				}
			}

		case xml.EndElement:
			depth--
			if t.Name.Local == "properties" {
				inProperties = false
			}
		}
	}

	if !sawMap {
		return nil, fmt.Errorf("no <map> element found")
	}
	return meta, nil
}

func readMapAttrs(elem xml.StartElement, meta *MapMetadata) {
	for _, attr := range elem.Attr {
		switch attr.Name.Local {
		case "orientation":
			meta.Orientation = parseOrientationAttr(attr.Value)
		case "class":
			meta.Class = attr.Value
		case "width":
			meta.Width, _ = strconv.Atoi(attr.Value)
		case "height":
			meta.Height, _ = strconv.Atoi(attr.Value)
		case "tilewidth":
			meta.TileWidth, _ = strconv.Atoi(attr.Value)
		case "tileheight":
			meta.TileHeight, _ = strconv.Atoi(attr.Value)
		case "infinite":
			meta.Infinite = attr.Value == "1" || attr.Value == "true"
		}
	}
}

func parseOrientationAttr(s string) Orientation {
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

func readWorldProperty(elem xml.StartElement, meta *MapMetadata) {
	var name, value string
	for _, attr := range elem.Attr {
		switch attr.Name.Local {
		case "name":
			name = attr.Value
		case "value":
			value = attr.Value
		}
	}

	switch name {
	case "worldx":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			meta.WorldX = v
		}
	case "worldy":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			meta.WorldY = v
		}
	}
}

// ExtractMetadataFromDir scans a directory for map files and extracts metadata.
//
// Searches recursively for .tmx files and extracts metadata from each.
// Files that fail to parse are skipped and reported in the error slice.
//
// Example:
//
//	maps, errs := tmx.ExtractMetadataFromDir("assets/maps")
//	fmt.Printf("Found %d maps, %d errors\n", len(maps), len(errs))
func ExtractMetadataFromDir(root string) ([]*MapMetadata, []error) {
	var maps []*MapMetadata
	var errors []error

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip directories
		if info.IsDir() {
			return nil
		}

		// Only process .tmx files
		if filepath.Ext(path) != ".tmx" {
			return nil
		}

		meta, err := ExtractMetadata(path)
		if err != nil {
			errors = append(errors, fmt.Errorf("%s: %w", path, err))
			return nil // Continue walking
		}

		maps = append(maps, meta)
		return nil
	})

	if err != nil {
		errors = append(errors, fmt.Errorf("walk directory: %w", err))
	}

	return maps, errors
}
