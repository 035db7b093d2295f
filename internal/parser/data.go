package parser

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// DecodeTileData turns the text payload of a <data> or <chunk> element
// into the flat GID sequence it encodes. Base64 payloads may additionally
// be compressed with zlib, gzip, or zstd; the decompressed bytes are read
// as little endian 32 bit words and a trailing partial word is ignored.
// CSV payloads are comma separated unsigned integers with whitespace
// allowed around each field. An encoding this parser does not know,
// including a missing encoding attribute, is an error.
func DecodeTileData(text, encoding, compression string) ([]GID, error) {
	switch encoding {
	case "base64":
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text))
		if err != nil {
			return nil, &ErrMalformedTileData{Encoding: "base64", Err: err}
		}
		data, err = decompress(data, compression)
		if err != nil {
			return nil, err
		}
		gids := make([]GID, len(data)/4)
		for i := range gids {
			gids[i] = GID(binary.LittleEndian.Uint32(data[i*4:]))
		}
		return gids, nil

	case "csv":
		text = strings.TrimSpace(text)
		if text == "" {
			return []GID{}, nil
		}
		fields := strings.Split(text, ",")
		gids := make([]GID, len(fields))
		for i, field := range fields {
			v, err := strconv.ParseUint(strings.TrimSpace(field), 10, 32)
			if err != nil {
				return nil, &ErrMalformedTileData{Encoding: "csv", Err: err}
			}
			gids[i] = GID(v)
		}
		return gids, nil

	default:
		return nil, &ErrUnsupportedEncoding{Encoding: encoding}
	}
}

func decompress(data []byte, compression string) ([]byte, error) {
	switch compression {
	case "":
		return data, nil
	case "zlib":
		r, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, &ErrMalformedTileData{Encoding: "zlib", Err: err}
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, &ErrMalformedTileData{Encoding: "zlib", Err: err}
		}
		return out, nil
	case "gzip":
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, &ErrMalformedTileData{Encoding: "gzip", Err: err}
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, &ErrMalformedTileData{Encoding: "gzip", Err: err}
		}
		return out, nil
	case "zstd":
		r, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, &ErrMalformedTileData{Encoding: "zstd", Err: err}
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, &ErrMalformedTileData{Encoding: "zstd", Err: err}
		}
		return out, nil
	default:
		return nil, &ErrUnsupportedCompression{Compression: compression}
	}
}

// Reshape cuts a flat GID sequence into rows of the given width. The last
// row is shorter when the sequence length is not a multiple of the width.
// A width below one yields no rows.
func Reshape(gids []GID, width int) [][]GID {
	if width <= 0 {
		return nil
	}
	rows := make([][]GID, 0, (len(gids)+width-1)/width)
	for i := 0; i < len(gids); i += width {
		end := i + width
		if end > len(gids) {
			end = len(gids)
		}
		rows = append(rows, gids[i:end:end])
	}
	return rows
}
