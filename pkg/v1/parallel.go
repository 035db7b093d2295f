package tmx

import (
	"fmt"
	"io"
	"runtime"
	"sync"
)

// LoadOptions controls parallel loading behavior and error handling.
type LoadOptions struct {
	// Parallel enables concurrent map loading.
	// When true, maps are loaded using multiple worker goroutines.
	Parallel bool

	// Workers specifies the number of parallel loader goroutines.
	// If 0, defaults to runtime.NumCPU().
	// Only used when Parallel is true.
	Workers int

	// SkipErrors causes loading to continue even when individual maps fail.
	// Failed maps are skipped and errors are collected.
	// When false, the first error stops loading and is returned immediately.
	SkipErrors bool

	// Progress is an optional callback for tracking loading progress.
	// Called after each map is loaded (successfully or with error).
	// Parameters: (loaded, total) where loaded is count of maps processed so far.
	Progress func(loaded, total int)

	// ErrorLog is an optional writer for detailed error reporting.
	// Each loading error is written here with the map path and error details.
	ErrorLog io.Writer
}

// DefaultLoadOptions returns load options with sensible defaults.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Parallel:   true,
		Workers:    runtime.NumCPU(),
		SkipErrors: true,
		Progress:   nil,
		ErrorLog:   nil,
	}
}

// LoadedMap pairs a parsed map with the path it was loaded from.
type LoadedMap struct {
	Path string
	Map  *Map
}

// MapSet holds a batch of loaded maps in input order.
type MapSet struct {
	Maps []*LoadedMap
}

// LoadMap loads a single map file.
//
// Example:
//
//	parser := tmx.NewParser()
//	loaded, err := tmx.LoadMap("maps/overworld.tmx", parser)
func LoadMap(path string, parser Parser) (*LoadedMap, error) {
	m, err := parser.Parse(path)
	if err != nil {
		return nil, err
	}
	return &LoadedMap{Path: path, Map: m}, nil
}

// LoadMapsParallel loads multiple maps in parallel with progress reporting.
//
// This function uses a worker pool pattern to load maps concurrently,
// significantly reducing total load time for large map sets such as a
// tiled world of many regions.
//
// The function respects LoadOptions:
//   - Parallel: Enable/disable parallel loading
//   - Workers: Number of concurrent loaders (defaults to NumCPU)
//   - SkipErrors: Continue loading despite individual map failures
//   - Progress: Optional callback for progress updates
//   - ErrorLog: Optional writer for error details
//
// Example:
//
//	parser := tmx.NewParser()
//	paths := []string{"region_0_0.tmx", "region_0_1.tmx", "region_1_0.tmx"}
//
//	mapSet, errs := tmx.LoadMapsParallel(paths, parser, tmx.LoadOptions{
//	    Parallel:   true,
//	    Workers:    8,
//	    SkipErrors: true,
//	    Progress: func(loaded, total int) {
//	        fmt.Printf("\rLoading: %d/%d (%.0f%%)",
//	            loaded, total, float64(loaded)/float64(total)*100)
//	    },
//	    ErrorLog: os.Stderr,
//	})
//
//	if len(errs) > 0 {
//	    fmt.Printf("\nSkipped %d maps due to errors\n", len(errs))
//	}
//	fmt.Printf("\nSuccessfully loaded %d maps\n", len(mapSet.Maps))
func LoadMapsParallel(paths []string, parser Parser, opts LoadOptions) (*MapSet, []error) {
	// Handle empty input
	if len(paths) == 0 {
		return &MapSet{Maps: []*LoadedMap{}}, nil
	}

	// If parallel loading disabled, fall back to serial
	if !opts.Parallel {
		return loadMapsSerial(paths, parser, opts)
	}

	// Determine worker count
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// Don't create more workers than maps
	if workers > len(paths) {
		workers = len(paths)
	}

	// Create result channels
	type loadResult struct {
		index int
		m     *LoadedMap
		err   error
	}

	jobs := make(chan int, len(paths))
	results := make(chan loadResult, len(paths))

	// Start worker pool
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				path := paths[index]
				m, err := LoadMap(path, parser)
				results <- loadResult{
					index: index,
					m:     m,
					err:   err,
				}
			}
		}()
	}

	// Send jobs to workers
	for i := range paths {
		jobs <- i
	}
	close(jobs)

	// Wait for workers to finish in a separate goroutine
	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect results
	mapByIndex := make(map[int]*LoadedMap)
	var errors []error
	loaded := 0

	for result := range results {
		loaded++

		// Call progress callback
		if opts.Progress != nil {
			opts.Progress(loaded, len(paths))
		}

		// Handle errors
		if result.err != nil {
			err := fmt.Errorf("%s: %w", paths[result.index], result.err)

			// Log error if writer provided
			if opts.ErrorLog != nil {
				fmt.Fprintf(opts.ErrorLog, "Error loading map: %v\n", err)
			}

			if opts.SkipErrors {
				errors = append(errors, err)
				continue
			} else {
				// Stop on first error
				return nil, []error{err}
			}
		}

		// Store successfully loaded map
		mapByIndex[result.index] = result.m
	}

	// Build ordered map list
	maps := make([]*LoadedMap, 0, len(mapByIndex))
	for i := 0; i < len(paths); i++ {
		if m, ok := mapByIndex[i]; ok {
			maps = append(maps, m)
		}
	}

	return &MapSet{Maps: maps}, errors
}

// loadMapsSerial loads maps one at a time (fallback when Parallel=false).
func loadMapsSerial(paths []string, parser Parser, opts LoadOptions) (*MapSet, []error) {
	maps := make([]*LoadedMap, 0, len(paths))
	var errors []error

	for i, path := range paths {
		// Call progress callback
		if opts.Progress != nil {
			opts.Progress(i, len(paths))
		}

		m, err := LoadMap(path, parser)
		if err != nil {
			err := fmt.Errorf("%s: %w", path, err)

			// Log error if writer provided
			if opts.ErrorLog != nil {
				fmt.Fprintf(opts.ErrorLog, "Error loading map: %v\n", err)
			}

			if opts.SkipErrors {
				errors = append(errors, err)
				continue
			} else {
				return nil, []error{err}
			}
		}

		maps = append(maps, m)
	}

	// Final progress callback
	if opts.Progress != nil {
		opts.Progress(len(paths), len(paths))
	}

	return &MapSet{Maps: maps}, errors
}
