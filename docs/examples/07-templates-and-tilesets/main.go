package main

import (
	"fmt"
	"log"
	"os"

	tmx "github.com/mapwright/tmx/pkg/v1"
)

func main() {
	// External tilesets (.tsx) and object templates (.tx) are resolved
	// relative to the map file and loaded automatically. The FS option
	// redirects all of those reads, so maps can ship inside an embed.FS.
	opts := tmx.DefaultParseOptions()
	opts.FS = os.DirFS("assets")

	parser := tmx.NewParser()
	m, err := parser.ParseWithOptions("maps/village.tmx", opts)
	if err != nil {
		log.Fatal(err)
	}

	// Objects stamped from a template carry the template's shape, class,
	// and properties, with the instance's own overrides already applied.
	props := m.ObjectGroup("props")
	if props == nil {
		log.Fatal("no props layer")
	}
	for _, obj := range props.Objects() {
		locked, _ := obj.Properties().GetBool("locked")
		fmt.Printf("%s (%s): locked=%v\n", obj.Name(), obj.Class(), locked)
	}

	// Tileset tile classes and properties are addressed by GID, whichever
	// tileset the GID lands in.
	for _, gid := range m.UsedGIDs() {
		if p := m.TileProperties(gid); p != nil {
			fmt.Printf("gid %d: %d properties\n", gid, len(p))
		}
	}
}
