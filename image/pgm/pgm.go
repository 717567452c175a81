// Package pgm reads and writes the canonical subset of portable graymap
// this module needs: binary (P5), 8-bit maxval 255, no comment lines.
// ASCII (P2) and 16-bit-maxval variants are out of scope.
//
// Uses the "P5 <width> <height> <maxval>\n" binary-pixel-dump convention.
package pgm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	agolomb "github.com/go-golomb/agolomb"
)

// File holds a decoded binary PGM image.
type File struct {
	Width  int
	Height int
	Pixels [][]uint8 // Pixels[row][col]
}

// Read parses a canonical binary (P5, maxval 255) PGM stream from r.
func Read(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)

	magic, err := readToken(br)

	if err != nil {
		return nil, agolomb.WrapError(agolomb.IoFailure, err, "pgm: reading magic")
	}

	if magic != "P5" {
		return nil, agolomb.NewError(agolomb.InvalidFormat, "pgm: not a binary PGM file (magic %q)", magic)
	}

	width, err := readInt(br)

	if err != nil {
		return nil, agolomb.WrapError(agolomb.InvalidFormat, err, "pgm: reading width")
	}

	height, err := readInt(br)

	if err != nil {
		return nil, agolomb.WrapError(agolomb.InvalidFormat, err, "pgm: reading height")
	}

	maxval, err := readInt(br)

	if err != nil {
		return nil, agolomb.WrapError(agolomb.InvalidFormat, err, "pgm: reading maxval")
	}

	if maxval != 255 {
		return nil, agolomb.NewError(agolomb.InvalidFormat, "pgm: only maxval 255 is supported, got %d", maxval)
	}

	if width <= 0 || height <= 0 {
		return nil, agolomb.NewError(agolomb.InvalidFormat, "pgm: invalid dimensions %dx%d", width, height)
	}

	// Exactly one whitespace byte separates the header from the binary
	// pixel data; readInt's trailing-whitespace consumption already ate it.
	pixels := make([][]uint8, height)

	for row := 0; row < height; row++ {
		pixels[row] = make([]uint8, width)

		if _, err := io.ReadFull(br, pixels[row]); err != nil {
			return nil, agolomb.WrapError(agolomb.IoFailure, err, "pgm: reading pixel data")
		}
	}

	return &File{Width: width, Height: height, Pixels: pixels}, nil
}

// Write serializes f as a canonical binary (P5, maxval 255) PGM stream to w.
func Write(w io.Writer, f *File) error {
	if _, err := fmt.Fprintf(w, "P5\n%d %d\n255\n", f.Width, f.Height); err != nil {
		return err
	}

	for row := 0; row < f.Height; row++ {
		if _, err := w.Write(f.Pixels[row]); err != nil {
			return err
		}
	}

	return nil
}

// readToken reads whitespace-delimited ASCII text up to the next
// whitespace byte, skipping any leading whitespace.
func readToken(br *bufio.Reader) (string, error) {
	if err := skipWhitespace(br); err != nil {
		return "", err
	}

	var buf []byte

	for {
		b, err := br.ReadByte()

		if err != nil {
			if len(buf) > 0 {
				return string(buf), nil
			}

			return "", err
		}

		if isSpace(b) {
			return string(buf), nil
		}

		buf = append(buf, b)
	}
}

func readInt(br *bufio.Reader) (int, error) {
	tok, err := readToken(br)

	if err != nil {
		return 0, err
	}

	return strconv.Atoi(tok)
}

func skipWhitespace(br *bufio.Reader) error {
	for {
		b, err := br.ReadByte()

		if err != nil {
			return err
		}

		if !isSpace(b) {
			return br.UnreadByte()
		}
	}
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}
