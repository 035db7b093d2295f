// Package tmx provides a parser for Tiled TMX tile maps.
//
// This package is designed for game and tooling use. It provides fully
// decoded tile layers, resolved objects, fast spatial queries, and a
// clean API optimized for viewport-based rendering.
//
// # Basic Usage
//
//	parser := tmx.NewParser()
//	m, err := parser.Parse("overworld.tmx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Map: %dx%d tiles of %dx%d px\n",
//	    m.Width(), m.Height(), m.TileWidth(), m.TileHeight())
//
// # Rendering Workflow
//
// Tile layers come back as plain GID grids with compression, chunked
// infinite layers, and flip flags already resolved:
//
//	for _, layer := range m.TileLayers() {
//	    if !layer.Visible() {
//	        continue
//	    }
//	    layer.Tiles(func(x, y int, gid tmx.GID) {
//	        drawTile(x, y, gid)
//	    })
//	}
//
// # Spatial Queries
//
// The map automatically builds a spatial index over its objects for fast
// viewport queries:
//
//	viewport := tmx.Bounds{MinX: 0, MinY: 0, MaxX: 800, MaxY: 600}
//	for _, obj := range m.ObjectsInBounds(viewport) {
//	    spawn(obj)
//	}
//
//	// Exact point tests respect rotation and true ellipse outlines
//	hits := m.ObjectsAt(cursorX, cursorY)
//
// # Object Access
//
// Objects carry their resolved shape, template values, and typed custom
// properties:
//
//	spawnLayer := m.ObjectGroup("spawns")
//	for _, obj := range spawnLayer.Objects() {
//	    x, y := obj.Position()
//	    if hp, ok := obj.Properties().GetInt("hp"); ok {
//	        spawnEnemy(obj.Class(), x, y, hp)
//	    }
//	}
//
// # Worlds of Many Maps
//
// For projects split across many map files, MapIndex and MapLoader scan
// headers only and parse maps lazily:
//
//	loader, errs := tmx.NewMapLoader("assets/maps", tmx.DefaultLoaderOptions())
//	for _, err := range errs {
//	    log.Println(err)
//	}
//	maps, _ := loader.MapsInBounds(viewport)
//
// Maps opt into world placement with "worldx"/"worldy" custom properties;
// maps without them sit at the origin.
//
// # Performance
//
// - Spatial index built automatically during parsing
// - Viewport queries are O(log n) via an R-tree
// - Header-only metadata extraction for indexing large map sets
// - LRU cache with approximate memory accounting for lazy loading
package tmx
