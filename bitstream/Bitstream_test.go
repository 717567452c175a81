package bitstream

import (
	"bytes"
	"testing"

	"github.com/go-golomb/agolomb/internal"
)

func TestWriteBitReadBitRoundTrip(t *testing.T) {
	bits := []int{1, 0, 1, 1, 0, 0, 0, 1, 1, 1, 0, 1, 0, 0, 1, 0, 1}

	var buf bytes.Buffer
	sink := NewSink(&buf)

	for _, b := range bits {
		sink.WriteBit(b)
	}

	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	source := NewSource(bytes.NewReader(buf.Bytes()))

	for i, want := range bits {
		if got := source.ReadBit(); got != want {
			t.Fatalf("bit %d: got %d, want %d", i, got, want)
		}
	}
}

func TestWriteBitsReadBitsTransparency(t *testing.T) {
	type write struct {
		value uint64
		width uint
	}

	writes := []write{
		{0, 1},
		{1, 1},
		{0x3, 2},
		{0xA5, 8},
		{0x1FF, 9},
		{0xFFFF, 16},
		{0, 16},
		{0xDEADBEEF, 32},
		{1, 32},
		{0x7FFFFFFF, 31},
	}

	var buf bytes.Buffer
	sink := NewSink(&buf)

	for _, w := range writes {
		sink.WriteBits(w.value, w.width)
	}

	wantWritten := uint64(0)
	for _, w := range writes {
		wantWritten += uint64(w.width)
	}

	if sink.BitsWritten() != wantWritten {
		t.Fatalf("BitsWritten = %d, want %d", sink.BitsWritten(), wantWritten)
	}

	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	source := NewSource(bytes.NewReader(buf.Bytes()))

	for i, w := range writes {
		got := source.ReadBits(w.width)
		want := w.value & mask(w.width)

		if got != want {
			t.Fatalf("write %d: ReadBits(%d) = %#x, want %#x", i, w.width, got, want)
		}
	}
}

func TestWriteBits64(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)
	sink.WriteBits(^uint64(0), 64)

	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	source := NewSource(bytes.NewReader(buf.Bytes()))

	if got := source.ReadBits(64); got != ^uint64(0) {
		t.Fatalf("ReadBits(64) = %#x, want all-ones", got)
	}
}

func TestEndOfStreamMarker(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)
	sink.WriteBits(0b101, 3)

	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// 3 payload bits padded to one byte, plus the marker byte.
	if buf.Len() != 2 {
		t.Fatalf("encoded length = %d, want 2", buf.Len())
	}

	if buf.Bytes()[1] != endOfStreamMarker {
		t.Fatalf("marker byte = %#x, want %#x", buf.Bytes()[1], endOfStreamMarker)
	}

	if buf.Bytes()[0] != 0b10100000 {
		t.Fatalf("payload byte = %#b, want 10100000", buf.Bytes()[0])
	}
}

func TestSinkOverBufferStream(t *testing.T) {
	bs := internal.NewBufferStream()
	sink := NewSink(bs)
	sink.WriteBits(0xCAFE, 16)

	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := bs.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	source := NewSource(internal.NewBufferStream(bs.Bytes()))

	if got := source.ReadBits(16); got != 0xCAFE {
		t.Fatalf("ReadBits(16) = %#x, want 0xCAFE", got)
	}
}

func TestReadPastEndPanics(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)
	sink.WriteBits(0xFF, 8)

	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Drop the marker byte to simulate truncation.
	truncated := buf.Bytes()[:1]
	source := NewSource(bytes.NewReader(truncated))
	source.ReadBits(8)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic reading past end of truncated stream")
		}
	}()

	source.ReadBit()
}
