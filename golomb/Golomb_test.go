package golomb

import (
	"bytes"
	"testing"

	"github.com/go-golomb/agolomb/bitstream"
)

func TestRoundTripAllModes(t *testing.T) {
	ms := []uint32{1, 2, 3, 5, 7, 16, 100, 1024}
	modes := []NegativeMode{Interleaved, SignMagnitude}

	for _, mode := range modes {
		for _, m := range ms {
			p, err := NewParams(m, mode)

			if err != nil {
				t.Fatalf("NewParams(%d, %v): %v", m, mode, err)
			}

			var values []int32

			for n := int32(-1 << 20); n <= (1 << 20); n += 997 {
				values = append(values, n)
			}

			var buf bytes.Buffer
			sink := bitstream.NewSink(&buf)

			for _, n := range values {
				p.Encode(sink, n)
			}

			if err := sink.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}

			source := bitstream.NewSource(bytes.NewReader(buf.Bytes()))

			for i, want := range values {
				if got := p.Decode(source); got != want {
					t.Fatalf("m=%d mode=%v value %d: got %d, want %d", m, mode, i, got, want)
				}
			}
		}
	}
}

func TestCodewordLengthMonotonicity(t *testing.T) {
	p, err := NewParams(16, Interleaved)

	if err != nil {
		t.Fatalf("NewParams: %v", err)
	}

	prev := uint(0)

	for n := int32(0); n <= 4096; n++ {
		length := p.EncodedLength(n)

		if length < prev {
			t.Fatalf("EncodedLength not monotonic at n=%d: %d < %d", n, length, prev)
		}

		prev = length
	}
}

func TestEncodedLengthMatchesActualWrite(t *testing.T) {
	p, err := NewParams(5, SignMagnitude)

	if err != nil {
		t.Fatalf("NewParams: %v", err)
	}

	for _, n := range []int32{0, 1, -1, 4, -4, 5, -5, 123, -123} {
		var buf bytes.Buffer
		sink := bitstream.NewSink(&buf)
		p.Encode(sink, n)
		got := sink.BitsWritten()
		want := p.EncodedLength(n)

		if got != uint64(want) {
			t.Fatalf("n=%d: wrote %d bits, EncodedLength said %d", n, got, want)
		}
	}
}

func TestM1DegeneratesToUnary(t *testing.T) {
	p, err := NewParams(1, Interleaved)

	if err != nil {
		t.Fatalf("NewParams: %v", err)
	}

	var buf bytes.Buffer
	sink := bitstream.NewSink(&buf)

	for _, n := range []int32{0, 0, 0, 0, 0} {
		p.Encode(sink, n)
	}

	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	source := bitstream.NewSource(bytes.NewReader(buf.Bytes()))

	for i := 0; i < 5; i++ {
		if got := p.Decode(source); got != 0 {
			t.Fatalf("value %d: got %d, want 0", i, got)
		}
	}
}

func TestNewParamsRejectsOutOfRange(t *testing.T) {
	if _, err := NewParams(0, Interleaved); err == nil {
		t.Fatalf("expected error for m=0")
	}

	if _, err := NewParams(65536, Interleaved); err == nil {
		t.Fatalf("expected error for m=65536")
	}
}

func TestInterleaveDeinterleaveBijection(t *testing.T) {
	for n := int32(-5000); n <= 5000; n++ {
		if got := deinterleave(interleave(n)); got != n {
			t.Fatalf("deinterleave(interleave(%d)) = %d", n, got)
		}
	}
}
