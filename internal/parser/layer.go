package parser

// LayerInfo holds the attributes every layer kind shares.
type LayerInfo struct {
	ID         int
	Name       string
	Class      string
	Opacity    float64
	Visible    bool
	OffsetX    float64
	OffsetY    float64
	Properties Properties
}

// Layer is implemented by the four layer kinds. Layers appear in Map.Layers
// in document order, which is the render stacking order.
type Layer interface {
	Info() LayerInfo
}

// TileLayer is a finite or stitched-infinite grid of normalized GIDs in
// row major order. Zero cells are empty.
type TileLayer struct {
	LayerInfo
	Width  int
	Height int
	Grid   [][]GID
}

func (l *TileLayer) Info() LayerInfo { return l.LayerInfo }

// TileAt returns the GID at the given tile coordinate, or zero when the
// coordinate falls outside the layer.
func (l *TileLayer) TileAt(x, y int) GID {
	if y < 0 || y >= len(l.Grid) || x < 0 || x >= len(l.Grid[y]) {
		return 0
	}
	return l.Grid[y][x]
}

// ObjectGroup is a layer of placed objects.
type ObjectGroup struct {
	LayerInfo
	Color     string
	DrawOrder string
	Objects   []*Object
}

func (g *ObjectGroup) Info() LayerInfo { return g.LayerInfo }

// ObjectByName returns the first object with the given name, or nil.
func (g *ObjectGroup) ObjectByName(name string) *Object {
	for _, obj := range g.Objects {
		if obj.Name == name {
			return obj
		}
	}
	return nil
}

// ImageLayer is a layer showing a single image. The image itself is not
// loaded; only its reference is carried.
type ImageLayer struct {
	LayerInfo
	RepeatX bool
	RepeatY bool
	Image   *Image
}

func (l *ImageLayer) Info() LayerInfo { return l.LayerInfo }

// GroupLayer nests other layers under shared offset and visibility.
type GroupLayer struct {
	LayerInfo
	Layers []Layer
}

func (g *GroupLayer) Info() LayerInfo { return g.LayerInfo }

func layerInfo(id int, name, class, opacity, visible string, offsetX, offsetY float64, props Properties) LayerInfo {
	return LayerInfo{
		ID:         id,
		Name:       name,
		Class:      class,
		Opacity:    opacityAttr(opacity),
		Visible:    boolAttr(visible, true),
		OffsetX:    offsetX,
		OffsetY:    offsetY,
		Properties: props,
	}
}

// buildTileLayer decodes a tile layer's payload into its normalized grid.
// Finite layers decode the single data payload; infinite layers extract
// and stitch chunks. The legacy inline <tile> element form is rejected.
func (m *Map) buildTileLayer(node *tileLayerNode) (*TileLayer, error) {
	props, err := parseProperties(node.Properties)
	if err != nil {
		return nil, err
	}

	layer := &TileLayer{
		LayerInfo: layerInfo(node.ID, node.Name, node.Class, node.Opacity, node.Visible, node.OffsetX, node.OffsetY, props),
		Width:     node.Width,
		Height:    node.Height,
	}

	data := node.Data
	if data == nil {
		layer.Grid = emptyGrid(node.Width, node.Height)
		return layer, nil
	}
	if len(data.Tiles) > 0 {
		return nil, &ErrUnsupportedTileFormat{Reason: "inline <tile> elements; re-export the map with base64 or csv layer data"}
	}

	if len(data.Chunks) > 0 {
		chunks, err := ExtractChunks(data.Chunks, data.Encoding, data.Compression, m.opts.StrictChunks, m.logger)
		if err != nil {
			return nil, err
		}
		layer.Grid = StitchChunks(chunks, node.Width, node.Height, m, m.logger)
		return layer, nil
	}

	gids, err := DecodeTileData(data.Text, data.Encoding, data.Compression)
	if err != nil {
		return nil, err
	}
	for i, gid := range gids {
		gids[i] = m.RegisterGID(gid)
	}
	layer.Grid = Reshape(gids, node.Width)
	return layer, nil
}

func emptyGrid(width, height int) [][]GID {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	grid := make([][]GID, height)
	for y := range grid {
		grid[y] = make([]GID, width)
	}
	return grid
}

// buildObjectGroup parses an object layer. Objects that fail to parse are
// an error unless the parser was configured to skip them.
func (m *Map) buildObjectGroup(node *objectGroupNode) (*ObjectGroup, error) {
	props, err := parseProperties(node.Properties)
	if err != nil {
		return nil, err
	}

	group := &ObjectGroup{
		LayerInfo: layerInfo(node.ID, node.Name, node.Class, node.Opacity, node.Visible, node.OffsetX, node.OffsetY, props),
		Color:     node.Color,
		DrawOrder: node.DrawOrder,
	}
	if group.DrawOrder == "" {
		group.DrawOrder = "topdown"
	}

	for i := range node.Objects {
		obj, err := m.parseObject(&node.Objects[i])
		if err != nil {
			if m.opts.SkipInvalidObjects {
				m.logger.Warn("skipping invalid object", "layer", node.Name, "id", node.Objects[i].ID, "error", err)
				continue
			}
			return nil, err
		}
		group.Objects = append(group.Objects, obj)
	}
	return group, nil
}

func (m *Map) buildImageLayer(node *imageLayerNode) (*ImageLayer, error) {
	props, err := parseProperties(node.Properties)
	if err != nil {
		return nil, err
	}

	layer := &ImageLayer{
		LayerInfo: layerInfo(node.ID, node.Name, node.Class, node.Opacity, node.Visible, node.OffsetX, node.OffsetY, props),
		RepeatX:   boolAttr(node.RepeatX, false),
		RepeatY:   boolAttr(node.RepeatY, false),
	}
	if node.Image != nil {
		layer.Image = &Image{
			Source: node.Image.Source,
			Trans:  node.Image.Trans,
			Width:  node.Image.Width,
			Height: node.Image.Height,
		}
	}
	return layer, nil
}

func (m *Map) buildGroupLayer(node *groupNode) (*GroupLayer, error) {
	props, err := parseProperties(node.Properties)
	if err != nil {
		return nil, err
	}

	group := &GroupLayer{
		LayerInfo: layerInfo(node.ID, node.Name, node.Class, node.Opacity, node.Visible, node.OffsetX, node.OffsetY, props),
	}
	layers, err := m.buildLayers(node.Layers)
	if err != nil {
		return nil, err
	}
	group.Layers = layers
	return group, nil
}

// buildLayers walks the ordered layer elements of a map or group.
func (m *Map) buildLayers(elements []layerElement) ([]Layer, error) {
	layers := make([]Layer, 0, len(elements))
	for i := range elements {
		var (
			layer Layer
			err   error
		)
		switch e := &elements[i]; {
		case e.Tile != nil:
			layer, err = m.buildTileLayer(e.Tile)
		case e.Object != nil:
			layer, err = m.buildObjectGroup(e.Object)
		case e.Image != nil:
			layer, err = m.buildImageLayer(e.Image)
		case e.Group != nil:
			layer, err = m.buildGroupLayer(e.Group)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}
	return layers, nil
}
