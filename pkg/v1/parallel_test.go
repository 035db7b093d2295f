package tmx

import (
	"bytes"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWorldMaps(t *testing.T, dir string, count int) []string {
	t.Helper()
	paths := make([]string, count)
	for i := range paths {
		name := filepath.Join(dir, "region_"+string(rune('a'+i))+".tmx")
		paths[i] = writeMap(t, dir, filepath.Base(name), placedWorldMap(i*64, 0))
	}
	return paths
}

func TestLoadMap(t *testing.T) {
	path := writeMap(t, t.TempDir(), "solo.tmx", placedWorldMap(0, 0))

	loaded, err := LoadMap(path, NewParser())
	require.NoError(t, err)
	assert.Equal(t, path, loaded.Path)
	assert.Equal(t, 4, loaded.Map.Width())
}

func TestLoadMapsParallel(t *testing.T) {
	dir := t.TempDir()
	paths := writeWorldMaps(t, dir, 5)

	var mu sync.Mutex
	var progress []int
	mapSet, errs := LoadMapsParallel(paths, NewParser(), LoadOptions{
		Parallel: true,
		Workers:  3,
		Progress: func(loaded, total int) {
			mu.Lock()
			progress = append(progress, loaded)
			mu.Unlock()
			assert.Equal(t, 5, total)
		},
	})

	assert.Empty(t, errs)
	require.Len(t, mapSet.Maps, 5)

	// Results come back in input order regardless of which worker finished
	// first.
	for i, loaded := range mapSet.Maps {
		assert.Equal(t, paths[i], loaded.Path)
	}

	assert.Len(t, progress, 5)
	assert.Equal(t, 5, progress[len(progress)-1])
}

func TestLoadMapsParallelSkipErrors(t *testing.T) {
	dir := t.TempDir()
	paths := writeWorldMaps(t, dir, 2)
	bad := writeMap(t, dir, "bad.tmx", "not a map")
	paths = append(paths, bad)

	var errLog bytes.Buffer
	mapSet, errs := LoadMapsParallel(paths, NewParser(), LoadOptions{
		Parallel:   true,
		SkipErrors: true,
		ErrorLog:   &errLog,
	})

	assert.Len(t, mapSet.Maps, 2)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "bad.tmx")
	assert.Contains(t, errLog.String(), "bad.tmx")
}

func TestLoadMapsParallelStopOnError(t *testing.T) {
	dir := t.TempDir()
	bad := writeMap(t, dir, "bad.tmx", "not a map")

	mapSet, errs := LoadMapsParallel([]string{bad}, NewParser(), LoadOptions{
		Parallel:   true,
		SkipErrors: false,
	})

	assert.Nil(t, mapSet)
	require.Len(t, errs, 1)
}

func TestLoadMapsSerial(t *testing.T) {
	dir := t.TempDir()
	paths := writeWorldMaps(t, dir, 3)

	mapSet, errs := LoadMapsParallel(paths, NewParser(), LoadOptions{
		Parallel: false,
	})

	assert.Empty(t, errs)
	require.Len(t, mapSet.Maps, 3)
	for i, loaded := range mapSet.Maps {
		assert.Equal(t, paths[i], loaded.Path)
	}
}

func TestLoadMapsSerialSkipErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeMap(t, dir, "bad.tmx", "not a map")
	good := writeMap(t, dir, "good.tmx", placedWorldMap(0, 0))

	mapSet, errs := LoadMapsParallel([]string{bad, good}, NewParser(), LoadOptions{
		Parallel:   false,
		SkipErrors: true,
	})
	assert.Len(t, mapSet.Maps, 1)
	assert.Len(t, errs, 1)

	// Without SkipErrors the first failure stops the batch.
	mapSet, errs = LoadMapsParallel([]string{bad, good}, NewParser(), LoadOptions{
		Parallel: false,
	})
	assert.Nil(t, mapSet)
	assert.Len(t, errs, 1)
}

func TestLoadMapsParallelEmpty(t *testing.T) {
	mapSet, errs := LoadMapsParallel(nil, NewParser(), DefaultLoadOptions())
	require.NotNil(t, mapSet)
	assert.Empty(t, mapSet.Maps)
	assert.Empty(t, errs)
}
