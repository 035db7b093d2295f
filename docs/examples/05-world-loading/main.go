package main

import (
	"fmt"
	"log"
	"os"

	tmx "github.com/mapwright/tmx/pkg/v1"
)

func main() {
	// Index a directory of maps by header only - no layer data is parsed.
	// Maps carry "worldx"/"worldy" custom properties for world placement.
	idx, errs := tmx.BuildIndexFromDir("assets/maps")
	for _, err := range errs {
		log.Println(err)
	}
	fmt.Printf("Indexed %d maps covering %+v\n", idx.Count(), idx.Bounds())

	// Lazy loader: maps parse on first access and stay in an LRU cache.
	loader := tmx.NewMapLoaderFromIndex(idx, tmx.LoaderOptions{
		CacheSize: 256 * 1024 * 1024, // 256MB
	})

	// Load only the maps visible around the player
	playerX, playerY := 1500.0, 900.0
	maps, err := loader.MapsInBounds(tmx.Bounds{
		MinX: playerX - 1024, MaxX: playerX + 1024,
		MinY: playerY - 1024, MaxY: playerY + 1024,
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Loaded %d maps for the viewport\n", len(maps))

	stats := loader.Stats()
	fmt.Printf("Cache: %d/%d maps, %.0f%% hit rate\n",
		stats.CachedMaps, stats.IndexedMaps, loader.CacheHitRate()*100)

	// Batch loading with a worker pool, for load screens
	var paths []string
	for _, entry := range idx.All() {
		paths = append(paths, entry.Path)
	}

	mapSet, loadErrs := tmx.LoadMapsParallel(paths, tmx.NewParser(), tmx.LoadOptions{
		Parallel:   true,
		SkipErrors: true,
		Progress: func(loaded, total int) {
			fmt.Printf("\rLoading: %d/%d", loaded, total)
		},
		ErrorLog: os.Stderr,
	})
	fmt.Printf("\nLoaded %d maps, %d errors\n", len(mapSet.Maps), len(loadErrs))
}
