package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// stripRegistrar mimics the map registrar: it strips flag bits and counts
// registrations.
type stripRegistrar struct {
	codec GIDCodec
	calls int
}

func (r *stripRegistrar) RegisterGID(raw GID) GID {
	r.calls++
	base, _ := r.codec.Decode(raw)
	return base
}

func csvChunk(x, y, w, h string, gids string) ChunkNode {
	return ChunkNode{X: x, Y: y, Width: w, Height: h, Text: gids}
}

func TestExtractChunks(t *testing.T) {
	chunks, err := ExtractChunks([]ChunkNode{
		csvChunk("0", "0", "2", "2", "1,2,3,4"),
		csvChunk("2", "0", "2", "2", "5,6,7,8"),
	}, "csv", "", false, nil)
	if err != nil {
		t.Fatalf("ExtractChunks: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(chunks))
	}

	want := Chunk{X: 0, Y: 0, Width: 2, Height: 2, Grid: [][]GID{{1, 2}, {3, 4}}}
	if diff := cmp.Diff(want, chunks[0]); diff != "" {
		t.Errorf("chunk 0 mismatch (-want+got):\n%s", diff)
	}
	if chunks[1].X != 2 || chunks[1].Grid[1][1] != 8 {
		t.Errorf("chunk 1 misplaced or misdecoded: %+v", chunks[1])
	}
}

func TestExtractChunksMissingAttributesAreZero(t *testing.T) {
	chunks, err := ExtractChunks([]ChunkNode{
		{Width: "2", Height: "1", Text: "1,2"},
	}, "csv", "", false, nil)
	if err != nil {
		t.Fatalf("ExtractChunks: %v", err)
	}
	if chunks[0].X != 0 || chunks[0].Y != 0 {
		t.Errorf("Expected position (0, 0), got (%d, %d)", chunks[0].X, chunks[0].Y)
	}
}

func TestExtractChunksInvalidAttribute(t *testing.T) {
	_, err := ExtractChunks([]ChunkNode{
		csvChunk("zero", "0", "2", "2", "1,2,3,4"),
	}, "csv", "", false, nil)

	var attrErr *ErrInvalidChunkAttribute
	if !errors.As(err, &attrErr) {
		t.Fatalf("Expected ErrInvalidChunkAttribute, got %v", err)
	}
	if attrErr.Attr != "x" {
		t.Errorf("Expected attribute x, got %s", attrErr.Attr)
	}
}

// Undecodable or missing payloads drop the chunk without failing the layer.
func TestExtractChunksSkipsBrokenPayloads(t *testing.T) {
	chunks, err := ExtractChunks([]ChunkNode{
		csvChunk("0", "0", "2", "2", ""),
		csvChunk("0", "0", "2", "2", "1,not a number,3,4"),
		csvChunk("2", "0", "2", "2", "5,6,7,8"),
	}, "csv", "", false, nil)
	if err != nil {
		t.Fatalf("ExtractChunks: %v", err)
	}
	if len(chunks) != 1 || chunks[0].X != 2 {
		t.Fatalf("Expected only the valid chunk, got %+v", chunks)
	}
}

func TestExtractChunksCountMismatch(t *testing.T) {
	nodes := []ChunkNode{csvChunk("0", "0", "2", "2", "1,2,3")}

	// Default: kept as-is with a short row.
	chunks, err := ExtractChunks(nodes, "csv", "", false, nil)
	if err != nil {
		t.Fatalf("ExtractChunks: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if got := len(chunks[0].Grid[1]); got != 1 {
		t.Errorf("Expected short second row of 1 cell, got %d", got)
	}

	// Strict: the mismatch is fatal.
	_, err = ExtractChunks(nodes, "csv", "", true, nil)
	var mismatch *ErrChunkSizeMismatch
	if !errors.As(err, &mismatch) {
		t.Fatalf("Expected ErrChunkSizeMismatch, got %v", err)
	}
	if mismatch.Want != 4 || mismatch.Got != 3 {
		t.Errorf("Expected mismatch 4/3, got %d/%d", mismatch.Want, mismatch.Got)
	}
}

func TestStitchChunksEmpty(t *testing.T) {
	reg := &stripRegistrar{}
	grid := StitchChunks(nil, 3, 2, reg, nil)

	want := [][]GID{{0, 0, 0}, {0, 0, 0}}
	if diff := cmp.Diff(want, grid); diff != "" {
		t.Errorf("grid mismatch (-want+got):\n%s", diff)
	}
	if reg.calls != 0 {
		t.Errorf("Expected no registrations, got %d", reg.calls)
	}
}

func TestStitchChunksSideBySide(t *testing.T) {
	chunks := []Chunk{
		{X: 0, Y: 0, Width: 2, Height: 2, Grid: [][]GID{{1, 2}, {3, 4}}},
		{X: 2, Y: 0, Width: 2, Height: 2, Grid: [][]GID{{5, 6}, {7, 8}}},
	}
	grid := StitchChunks(chunks, 4, 2, &stripRegistrar{}, nil)

	want := [][]GID{{1, 2, 5, 6}, {3, 4, 7, 8}}
	if diff := cmp.Diff(want, grid); diff != "" {
		t.Errorf("grid mismatch (-want+got):\n%s", diff)
	}
}

func TestStitchChunksNormalizesGIDs(t *testing.T) {
	flagged := GID(9) | FlippedHorizontallyFlag | FlippedDiagonallyFlag
	chunks := []Chunk{
		{X: 0, Y: 0, Width: 1, Height: 1, Grid: [][]GID{{flagged}}},
	}
	reg := &stripRegistrar{}
	grid := StitchChunks(chunks, 1, 1, reg, nil)

	if grid[0][0] != 9 {
		t.Errorf("Expected normalized gid 9, got %d", grid[0][0])
	}
	if reg.calls != 1 {
		t.Errorf("Expected 1 registration, got %d", reg.calls)
	}
}

func TestStitchChunksNegativePositionSkipped(t *testing.T) {
	chunks := []Chunk{
		{X: -2, Y: 0, Width: 2, Height: 2, Grid: [][]GID{{1, 2}, {3, 4}}},
	}
	grid := StitchChunks(chunks, 4, 2, &stripRegistrar{}, nil)

	for y, row := range grid {
		for x, gid := range row {
			if gid != 0 {
				t.Errorf("Expected empty cell at (%d, %d), got %d", x, y, gid)
			}
		}
	}
}

func TestStitchChunksOutOfBounds(t *testing.T) {
	chunks := []Chunk{
		{X: 1, Y: 0, Width: 2, Height: 1, Grid: [][]GID{{1, 2}}},
	}
	grid := StitchChunks(chunks, 2, 1, &stripRegistrar{}, nil)

	want := [][]GID{{0, 1}}
	if diff := cmp.Diff(want, grid); diff != "" {
		t.Errorf("grid mismatch (-want+got):\n%s", diff)
	}
}

func TestStitchChunksOverlapLastWins(t *testing.T) {
	chunks := []Chunk{
		{X: 0, Y: 0, Width: 2, Height: 1, Grid: [][]GID{{1, 2}}},
		{X: 1, Y: 0, Width: 2, Height: 1, Grid: [][]GID{{7, 8}}},
	}
	grid := StitchChunks(chunks, 3, 1, &stripRegistrar{}, nil)

	want := [][]GID{{1, 7, 8}}
	if diff := cmp.Diff(want, grid); diff != "" {
		t.Errorf("grid mismatch (-want+got):\n%s", diff)
	}
}

// Chunk grids shorter than the declared size stitch what they have.
func TestStitchChunksShortRows(t *testing.T) {
	chunks := []Chunk{
		{X: 0, Y: 0, Width: 2, Height: 2, Grid: [][]GID{{1, 2}, {3}}},
	}
	grid := StitchChunks(chunks, 2, 2, &stripRegistrar{}, nil)

	want := [][]GID{{1, 2}, {3, 0}}
	if diff := cmp.Diff(want, grid); diff != "" {
		t.Errorf("grid mismatch (-want+got):\n%s", diff)
	}
}

func TestExtractAndStitchBase64(t *testing.T) {
	text := encodePayload(t, []GID{1, 2, 3, 4}, "gzip")
	chunks, err := ExtractChunks([]ChunkNode{
		{X: "0", Y: "0", Width: "2", Height: "2", Text: strings.TrimSpace(text)},
	}, "base64", "gzip", false, nil)
	if err != nil {
		t.Fatalf("ExtractChunks: %v", err)
	}
	grid := StitchChunks(chunks, 2, 2, &stripRegistrar{}, nil)

	want := [][]GID{{1, 2}, {3, 4}}
	if diff := cmp.Diff(want, grid); diff != "" {
		t.Errorf("grid mismatch (-want+got):\n%s", diff)
	}
}
