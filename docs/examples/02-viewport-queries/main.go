package main

import (
	"fmt"
	"log"

	tmx "github.com/mapwright/tmx/pkg/v1"
)

func main() {
	// Parse map
	parser := tmx.NewParser()
	m, err := parser.Parse("overworld.tmx")
	if err != nil {
		log.Fatal(err)
	}

	// Define viewport (one screen at 800x600)
	viewport := tmx.Bounds{
		MinX: 0, MaxX: 800,
		MinY: 0, MaxY: 600,
	}

	// Query R-tree index for visible objects (O(log n))
	objects := m.ObjectsInBounds(viewport)

	fmt.Printf("Visible objects: %d\n", len(objects))

	for _, obj := range objects {
		x, y := obj.Position()
		fmt.Printf("  #%d %s (%s) at %.0f,%.0f on layer %q\n",
			obj.ID(), obj.Name(), obj.Class(), x, y, obj.Layer())
	}

	// Exact hit test at a cursor position: rotation and true ellipse
	// outlines are respected, unlike the box-level query above.
	hits := m.ObjectsAt(120, 96)
	fmt.Printf("Objects under cursor: %d\n", len(hits))
}
