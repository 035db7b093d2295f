package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	tmx "github.com/mapwright/tmx/pkg/v1"
)

func main() {
	parser := tmx.NewParser()

	// Strict by default: a malformed object fails the whole map.
	_, err := parser.Parse("handmade.tmx")
	if err != nil {
		fmt.Printf("strict parse failed: %v\n", err)
	}

	// Lenient mode drops broken objects and logs what it skipped.
	opts := tmx.DefaultParseOptions()
	opts.SkipInvalidObjects = true
	opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

	m, err := parser.ParseWithOptions("handmade.tmx", opts)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("parsed with %d objects\n", m.ObjectCount())

	// StrictChunks promotes short infinite-map chunks from a warning to
	// an error, for validating editor exports in CI.
	opts.StrictChunks = true
	if _, err := parser.ParseWithOptions("infinite.tmx", opts); err != nil {
		fmt.Printf("chunk validation: %v\n", err)
	}

	// Header-only metadata extraction never touches layer data, so it
	// works even on maps whose content is broken.
	meta, err := tmx.ExtractMetadata("handmade.tmx")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s: %dx%d %s\n", meta.Name, meta.Width, meta.Height, meta.Orientation)
}
