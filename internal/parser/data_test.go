package parser

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/zstd"
)

func packGIDs(gids []GID) []byte {
	buf := make([]byte, 4*len(gids))
	for i, gid := range gids {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(gid))
	}
	return buf
}

func encodePayload(t *testing.T, gids []GID, compression string) string {
	t.Helper()
	raw := packGIDs(gids)

	var buf bytes.Buffer
	var w io.WriteCloser
	switch compression {
	case "":
		buf.Write(raw)
	case "zlib":
		w = zlib.NewWriter(&buf)
	case "gzip":
		w = gzip.NewWriter(&buf)
	case "zstd":
		zw, err := zstd.NewWriter(&buf)
		if err != nil {
			t.Fatalf("zstd writer: %v", err)
		}
		w = zw
	default:
		t.Fatalf("unknown compression %q", compression)
	}
	if w != nil {
		if _, err := w.Write(raw); err != nil {
			t.Fatalf("compress payload: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("close compressor: %v", err)
		}
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeTileDataBase64(t *testing.T) {
	want := []GID{1, 2, 3, 0, 0xFFFFFFFF}

	for _, compression := range []string{"", "zlib", "gzip", "zstd"} {
		name := compression
		if name == "" {
			name = "uncompressed"
		}
		t.Run(name, func(t *testing.T) {
			text := encodePayload(t, want, compression)
			got, err := DecodeTileData(text, "base64", compression)
			if err != nil {
				t.Fatalf("DecodeTileData: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("gids mismatch (-want+got):\n%s", diff)
			}
		})
	}
}

func TestDecodeTileDataBase64Whitespace(t *testing.T) {
	text := "\n    " + encodePayload(t, []GID{7, 8}, "zlib") + "\n  "
	got, err := DecodeTileData(text, "base64", "zlib")
	if err != nil {
		t.Fatalf("DecodeTileData: %v", err)
	}
	if diff := cmp.Diff([]GID{7, 8}, got); diff != "" {
		t.Errorf("gids mismatch (-want+got):\n%s", diff)
	}
}

// A payload whose byte count is not a multiple of four loses the trailing
// partial word.
func TestDecodeTileDataTruncatesPartialWord(t *testing.T) {
	raw := append(packGIDs([]GID{10, 20}), 0xAB, 0xCD)
	text := base64.StdEncoding.EncodeToString(raw)

	got, err := DecodeTileData(text, "base64", "")
	if err != nil {
		t.Fatalf("DecodeTileData: %v", err)
	}
	if diff := cmp.Diff([]GID{10, 20}, got); diff != "" {
		t.Errorf("gids mismatch (-want+got):\n%s", diff)
	}
}

func TestDecodeTileDataCSV(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []GID
	}{
		{"simple", "1,2,3,4", []GID{1, 2, 3, 4}},
		{"whitespace", "\n1, 2,\n3 , 4\n", []GID{1, 2, 3, 4}},
		{"blank", "   \n  ", []GID{}},
		{"flagged", "2147483649", []GID{1 | FlippedHorizontallyFlag}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeTileData(tt.text, "csv", "")
			if err != nil {
				t.Fatalf("DecodeTileData: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("gids mismatch (-want+got):\n%s", diff)
			}
		})
	}
}

func TestDecodeTileDataErrors(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		encoding    string
		compression string
		want        any
	}{
		{"unknown encoding", "1,2", "hex", "", &ErrUnsupportedEncoding{}},
		{"missing encoding", "", "", "", &ErrUnsupportedEncoding{}},
		{"unknown compression", "AAAA", "base64", "lzma", &ErrUnsupportedCompression{}},
		{"bad base64", "!!!not base64!!!", "base64", "", &ErrMalformedTileData{}},
		{"bad zlib stream", "AAAAAAAA", "base64", "zlib", &ErrMalformedTileData{}},
		{"bad csv field", "1,two,3", "csv", "", &ErrMalformedTileData{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTileData(tt.text, tt.encoding, tt.compression)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			switch tt.want.(type) {
			case *ErrUnsupportedEncoding:
				var e *ErrUnsupportedEncoding
				if !errors.As(err, &e) {
					t.Errorf("Expected ErrUnsupportedEncoding, got %T: %v", err, err)
				}
			case *ErrUnsupportedCompression:
				var e *ErrUnsupportedCompression
				if !errors.As(err, &e) {
					t.Errorf("Expected ErrUnsupportedCompression, got %T: %v", err, err)
				}
			case *ErrMalformedTileData:
				var e *ErrMalformedTileData
				if !errors.As(err, &e) {
					t.Errorf("Expected ErrMalformedTileData, got %T: %v", err, err)
				}
			}
		})
	}
}

func TestReshape(t *testing.T) {
	tests := []struct {
		name  string
		gids  []GID
		width int
		want  [][]GID
	}{
		{"exact rows", []GID{1, 2, 3, 4, 5, 6}, 3, [][]GID{{1, 2, 3}, {4, 5, 6}}},
		{"short final row", []GID{1, 2, 3, 4, 5}, 2, [][]GID{{1, 2}, {3, 4}, {5}}},
		{"single row", []GID{1, 2}, 5, [][]GID{{1, 2}}},
		{"empty", []GID{}, 4, [][]GID{}},
		{"zero width", []GID{1, 2}, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Reshape(tt.gids, tt.width)); diff != "" {
				t.Errorf("grid mismatch (-want+got):\n%s", diff)
			}
		})
	}
}

// Reshaping a flattened rectangular grid reproduces it.
func TestReshapeRoundTrip(t *testing.T) {
	grid := [][]GID{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}, {10, 11, 12}}

	var flat []GID
	for _, row := range grid {
		flat = append(flat, row...)
	}
	if diff := cmp.Diff(grid, Reshape(flat, 3)); diff != "" {
		t.Errorf("round trip mismatch (-want+got):\n%s", diff)
	}
}
