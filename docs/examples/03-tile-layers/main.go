package main

import (
	"fmt"
	"log"

	tmx "github.com/mapwright/tmx/pkg/v1"
)

func main() {
	parser := tmx.NewParser()
	m, err := parser.Parse("overworld.tmx")
	if err != nil {
		log.Fatal(err)
	}

	// Walk every tile layer. Compression, infinite-map chunks, and flip
	// flags are already resolved; the grid is plain GIDs.
	for _, layer := range m.TileLayers() {
		if !layer.Visible() {
			continue
		}

		w, h := layer.Size()
		fmt.Printf("Layer %q: %dx%d\n", layer.Name(), w, h)

		filled := 0
		layer.Tiles(func(x, y int, gid tmx.GID) {
			filled++
		})
		fmt.Printf("  %d of %d cells filled\n", filled, w*h)
	}

	// Per-tile data from the tileset: properties, collision shapes, and
	// animations, all addressed by GID.
	ground := m.TileLayer("ground")
	if ground == nil {
		log.Fatal("no ground layer")
	}

	gid := ground.TileAt(0, 0)
	if props := m.TileProperties(gid); props != nil {
		if solid, ok := props.GetBool("solid"); ok && solid {
			fmt.Printf("Tile %d is solid\n", gid)
		}
	}

	for _, collider := range m.TileColliders(gid) {
		fmt.Printf("Tile %d collider: %+v\n", gid, collider.Bounds())
	}

	for _, frame := range m.TileAnimation(gid) {
		fmt.Printf("Tile %d frame: gid=%d for %dms\n", gid, frame.GID, frame.DurationMS)
	}
}
