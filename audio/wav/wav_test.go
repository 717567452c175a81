package wav

import (
	"bytes"
	"testing"
)

func TestRoundTripMono(t *testing.T) {
	f := &File{Channels: 1, SampleRate: 44100, Samples: []int16{0, 100, -100, 32767, -32768, 1, -1}}

	var buf bytes.Buffer

	if err := Write(&buf, f); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(bytes.NewReader(buf.Bytes()))

	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if got.Channels != f.Channels || got.SampleRate != f.SampleRate {
		t.Fatalf("header mismatch: got %+v", got)
	}

	if !equal(got.Samples, f.Samples) {
		t.Fatalf("samples mismatch: got %v, want %v", got.Samples, f.Samples)
	}
}

func TestRoundTripStereo(t *testing.T) {
	f := &File{Channels: 2, SampleRate: 48000, Samples: []int16{1, 2, 3, 4, 5, 6}}

	var buf bytes.Buffer

	if err := Write(&buf, f); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(bytes.NewReader(buf.Bytes()))

	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if !equal(got.Samples, f.Samples) {
		t.Fatalf("samples mismatch: got %v, want %v", got.Samples, f.Samples)
	}
}

func TestRejectsBadMagic(t *testing.T) {
	if _, err := Read(bytes.NewReader([]byte("not a wav file at all"))); err == nil {
		t.Fatalf("expected error for non-RIFF input")
	}
}

func equal(a, b []int16) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
