package main

import (
	"fmt"
	"log"

	tmx "github.com/mapwright/tmx/pkg/v1"
)

func main() {
	// Create parser
	parser := tmx.NewParser()

	// Parse map file
	m, err := parser.Parse("overworld.tmx")
	if err != nil {
		log.Fatal(err)
	}

	// Print map info
	fmt.Printf("Map: %s\n", m.Filename())
	fmt.Printf("Size: %dx%d tiles of %dx%d px\n",
		m.Width(), m.Height(), m.TileWidth(), m.TileHeight())
	fmt.Printf("Orientation: %s\n", m.Orientation())
	fmt.Printf("Layers: %d tile, %d object\n",
		len(m.TileLayers()), len(m.ObjectGroups()))
	fmt.Printf("Objects: %d\n", m.ObjectCount())

	// Get map bounds
	bounds := m.Bounds()
	fmt.Printf("Bounds: [%.0f,%.0f] to [%.0f,%.0f]\n",
		bounds.MinX, bounds.MinY,
		bounds.MaxX, bounds.MaxY)
}
