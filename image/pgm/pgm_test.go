package pgm

import (
	"bytes"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	f := &File{Width: 4, Height: 3, Pixels: [][]uint8{
		{0, 10, 20, 30},
		{40, 50, 60, 70},
		{80, 90, 100, 255},
	}}

	var buf bytes.Buffer

	if err := Write(&buf, f); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(bytes.NewReader(buf.Bytes()))

	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if got.Width != f.Width || got.Height != f.Height {
		t.Fatalf("dims mismatch: got %dx%d, want %dx%d", got.Width, got.Height, f.Width, f.Height)
	}

	for r := range f.Pixels {
		for c := range f.Pixels[r] {
			if got.Pixels[r][c] != f.Pixels[r][c] {
				t.Fatalf("pixel (%d,%d) = %d, want %d", r, c, got.Pixels[r][c], f.Pixels[r][c])
			}
		}
	}
}

func TestRejectsBadMagic(t *testing.T) {
	if _, err := Read(bytes.NewReader([]byte("P2\n1 1\n255\n\x00"))); err == nil {
		t.Fatalf("expected error for ASCII PGM magic")
	}
}

func TestRejectsNonStandardMaxval(t *testing.T) {
	if _, err := Read(bytes.NewReader([]byte("P5\n1 1\n65535\n\x00\x00"))); err == nil {
		t.Fatalf("expected error for maxval != 255")
	}
}
