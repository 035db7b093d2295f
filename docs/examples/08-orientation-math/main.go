package main

import (
	"fmt"
	"log"

	tmx "github.com/mapwright/tmx/pkg/v1"
)

func main() {
	parser := tmx.NewParser()

	// PixelToTile picks the right formula for the map's orientation:
	// orthogonal division, the isometric shear, or half/three-quarter
	// strides with the stagger shift for staggered and hexagonal maps.
	for _, file := range []string{
		"orthogonal.tmx",
		"isometric.tmx",
		"staggered.tmx",
		"hexagonal.tmx",
	} {
		m, err := parser.Parse(file)
		if err != nil {
			log.Fatal(err)
		}

		cursorX, cursorY := 200.0, 120.0
		tx, ty := m.PixelToTile(cursorX, cursorY)
		fmt.Printf("%-12s cursor (%.0f,%.0f) -> tile (%d,%d)\n",
			m.Orientation(), cursorX, cursorY, tx, ty)
	}
}
