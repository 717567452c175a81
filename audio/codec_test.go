package audio

import (
	"bytes"
	"testing"

	agolomb "github.com/go-golomb/agolomb"
	"github.com/go-golomb/agolomb/golomb"
)

func TestEncodeDecodeMonoRoundTrip(t *testing.T) {
	samples := make([]int16, 3000)

	for i := range samples {
		samples[i] = int16((i*37)%1000 - 500)
	}

	opts := Options{
		Channels: 1, SampleRate: 44100, Predictor: Order2,
		Adaptive: true, Mode: golomb.Interleaved,
	}

	var buf bytes.Buffer

	if err := Encode(&buf, samples, opts); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, channels, rate, err := Decode(bytes.NewReader(buf.Bytes()), nil)

	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if channels != 1 || rate != 44100 {
		t.Fatalf("header mismatch: channels=%d rate=%d", channels, rate)
	}

	if !equalSamples(got, samples) {
		t.Fatalf("round trip mismatch")
	}
}

func TestEncodeDecodeStereoMidSideRoundTrip(t *testing.T) {
	n := 4096
	samples := make([]int16, 2*n)

	for i := 0; i < n; i++ {
		samples[2*i] = int16((i * 13) % 2000 - 1000)
		samples[2*i+1] = int16((i * 29) % 1500 - 750)
	}

	opts := Options{
		Channels: 2, SampleRate: 48000, Predictor: Order3, Stereo: MidSide,
		Adaptive: true, Mode: golomb.SignMagnitude,
	}

	var buf bytes.Buffer

	if err := Encode(&buf, samples, opts); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, channels, _, err := Decode(bytes.NewReader(buf.Bytes()), nil)

	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if channels != 2 {
		t.Fatalf("channels = %d, want 2", channels)
	}

	if !equalSamples(got, samples) {
		t.Fatalf("round trip mismatch")
	}
}

func TestEncodeDecodeStereoIndependentFixedM(t *testing.T) {
	n := 2500
	samples := make([]int16, 2*n)

	for i := 0; i < n; i++ {
		samples[2*i] = int16(i % 300)
		samples[2*i+1] = int16(-(i % 300))
	}

	opts := Options{
		Channels: 2, SampleRate: 22050, Predictor: Order1, Stereo: Independent,
		Adaptive: false, FixedM: 16, Mode: golomb.Interleaved,
	}

	var buf bytes.Buffer

	if err := Encode(&buf, samples, opts); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, _, _, err := Decode(bytes.NewReader(buf.Bytes()), nil)

	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if !equalSamples(got, samples) {
		t.Fatalf("round trip mismatch")
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, _, _, err := Decode(bytes.NewReader([]byte("not agol")), nil)

	if err == nil {
		t.Fatalf("expected error for bad magic")
	}
}

type countingListener struct {
	encoded, decoded, done int
}

func (l *countingListener) ProcessEvent(evt *agolomb.BlockEvent) {
	switch evt.Type() {
	case agolomb.EvtEncodeBlock:
		l.encoded++
	case agolomb.EvtDecodeBlock:
		l.decoded++
	case agolomb.EvtStreamDone:
		l.done++
	}
}

func TestListenerReceivesBlockEvents(t *testing.T) {
	samples := make([]int16, 3000)

	for i := range samples {
		samples[i] = int16(i % 500)
	}

	enc := &countingListener{}
	opts := Options{
		Channels: 1, SampleRate: 8000, Predictor: Order1,
		Adaptive: true, Mode: golomb.Interleaved, Listener: enc,
	}

	var buf bytes.Buffer

	if err := Encode(&buf, samples, opts); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	wantBlocks := (len(samples) + blockSize - 1) / blockSize

	if enc.encoded != wantBlocks {
		t.Fatalf("encoded events = %d, want %d", enc.encoded, wantBlocks)
	}

	if enc.done != 1 {
		t.Fatalf("done events = %d, want 1", enc.done)
	}

	dec := &countingListener{}

	if _, _, _, err := Decode(bytes.NewReader(buf.Bytes()), dec); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if dec.decoded != wantBlocks {
		t.Fatalf("decoded events = %d, want %d", dec.decoded, wantBlocks)
	}
}

func equalSamples(a, b []int16) bool {
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
