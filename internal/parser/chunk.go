package parser

import (
	"io"
	"log/slog"
	"strconv"
)

// GIDRegistrar is the capability a chunk stitcher needs from its host map:
// folding a raw GID's flip flags into the map's tile registry and handing
// back the identifier to store in the grid. *Map implements it.
type GIDRegistrar interface {
	RegisterGID(raw GID) GID
}

// ChunkNode is a <chunk> element as read from the document, attributes
// still in text form. Missing attributes stay empty and count as zero.
type ChunkNode struct {
	X      string `xml:"x,attr"`
	Y      string `xml:"y,attr"`
	Width  string `xml:"width,attr"`
	Height string `xml:"height,attr"`
	Text   string `xml:",chardata"`
}

// Chunk is one decoded region of an infinite map layer. The grid holds raw
// GIDs in row major order with exactly Height rows; rows may run short when
// the payload carried fewer GIDs than declared.
type Chunk struct {
	X      int
	Y      int
	Width  int
	Height int
	Grid   [][]GID
}

// ExtractChunks decodes every <chunk> element of an infinite map layer.
// A chunk with an empty payload, or one whose payload fails to decode, is
// logged and dropped rather than failing the layer; a non numeric position
// or size attribute is an error. A decoded GID count that disagrees with
// the declared size is a warning, or an error when strict is set.
func ExtractChunks(nodes []ChunkNode, encoding, compression string, strict bool, log *slog.Logger) ([]Chunk, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}
	chunks := make([]Chunk, 0, len(nodes))

	for i, node := range nodes {
		x, err := chunkAttr("x", node.X)
		if err != nil {
			return nil, err
		}
		y, err := chunkAttr("y", node.Y)
		if err != nil {
			return nil, err
		}
		width, err := chunkAttr("width", node.Width)
		if err != nil {
			return nil, err
		}
		height, err := chunkAttr("height", node.Height)
		if err != nil {
			return nil, err
		}

		log.Debug("extracting chunk", "index", i, "x", x, "y", y, "width", width, "height", height)

		if node.Text == "" {
			log.Error("chunk has no payload", "index", i)
			continue
		}

		gids, err := DecodeTileData(node.Text, encoding, compression)
		if err != nil {
			log.Error("failed to decode chunk", "index", i, "error", err)
			continue
		}

		if len(gids) != width*height {
			if strict {
				return nil, &ErrChunkSizeMismatch{Index: i, Want: width * height, Got: len(gids)}
			}
			log.Warn("chunk gid count mismatch", "index", i, "expected", width*height, "got", len(gids))
		}

		chunks = append(chunks, Chunk{
			X:      x,
			Y:      y,
			Width:  width,
			Height: height,
			Grid:   chunkGrid(gids, width, height),
		})
	}

	log.Debug("chunks extracted", "count", len(chunks))
	return chunks, nil
}

// chunkAttr parses a chunk attribute, treating a missing value as zero.
func chunkAttr(name, value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &ErrInvalidChunkAttribute{Attr: name, Value: value, Err: err}
	}
	return n, nil
}

// chunkGrid cuts a flat chunk payload into the declared number of rows.
// Rows past the end of the payload come out short or empty instead of
// failing, so a size mismatch stays visible to the stitcher.
func chunkGrid(gids []GID, width, height int) [][]GID {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	grid := make([][]GID, height)
	for row := range grid {
		start := row * width
		end := start + width
		if start > len(gids) {
			start = len(gids)
		}
		if end > len(gids) {
			end = len(gids)
		}
		grid[row] = gids[start:end:end]
	}
	return grid
}

// StitchChunks merges decoded chunks into one width by height grid in row
// major order, registering every chunk cell through the registrar as it
// goes. Cells no chunk covers stay zero. Chunks at negative positions are
// skipped with a warning. Cells that land outside the grid are registered
// but not placed, and each offending chunk is warned about once. When
// chunks overlap, the later chunk wins.
func StitchChunks(chunks []Chunk, width, height int, reg GIDRegistrar, log *slog.Logger) [][]GID {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	full := make([][]GID, height)
	for y := range full {
		full[y] = make([]GID, width)
	}

	for i, chunk := range chunks {
		if chunk.X < 0 || chunk.Y < 0 {
			log.Warn("skipping chunk at negative position", "index", i, "x", chunk.X, "y", chunk.Y)
			continue
		}

		outOfBoundsLogged := false
		missingCellsLogged := false

		for y := 0; y < chunk.Height; y++ {
			for x := 0; x < chunk.Width; x++ {
				if y >= len(chunk.Grid) || x >= len(chunk.Grid[y]) {
					if !missingCellsLogged {
						log.Warn("chunk grid is missing cells", "index", i, "x", x, "y", y)
						missingCellsLogged = true
					}
					continue
				}
				normalized := reg.RegisterGID(chunk.Grid[y][x])

				gx, gy := chunk.X+x, chunk.Y+y
				if gx >= 0 && gx < width && gy >= 0 && gy < height {
					full[gy][gx] = normalized
				} else if !outOfBoundsLogged {
					log.Warn("chunk contains out of bounds tiles", "index", i, "x", gx, "y", gy)
					outOfBoundsLogged = true
				}
			}
		}
	}

	log.Debug("chunks stitched", "count", len(chunks), "width", width, "height", height)
	return full
}
