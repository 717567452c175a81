package audio

import (
	"encoding/binary"
	"io"

	agolomb "github.com/go-golomb/agolomb"
	"github.com/go-golomb/agolomb/bitstream"
	"github.com/go-golomb/agolomb/golomb"
)

// magic is the 4-byte ASCII tag that opens every AGOL file.
var magic = [4]byte{'A', 'G', 'O', 'L'}

// Options configures Encode. SampleRate and Channels describe the source
// material; Adaptive selects per-block m estimation over a caller-supplied
// FixedM.
type Options struct {
	Channels   int
	SampleRate int32
	Predictor  Predictor
	Stereo     StereoMode
	Adaptive   bool
	FixedM     uint32
	Mode       golomb.NegativeMode
	Listener   agolomb.Listener
}

// Encode writes samples (interleaved if stereo) as a complete AGOL file to w.
// Recovers internal panics (bit stream truncation/closure, I/O failure) and
// converts them to a *agolomb.CodecError so callers never see a raw panic
// out of the block-processing loop.
func Encode(w io.Writer, samples []int16, opts Options) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = toCodecError(r)
		}
	}()

	if opts.Channels != 1 && opts.Channels != 2 {
		return agolomb.NewError(agolomb.Unsupported, "audio: channels must be 1 or 2, got %d", opts.Channels)
	}

	if opts.Channels == 2 && len(samples)%2 != 0 {
		return agolomb.NewError(agolomb.InvalidParameter, "audio: stereo sample count must be even, got %d", len(samples))
	}

	frames := int64(len(samples)) / int64(opts.Channels)

	if err := writeHeader(w, opts, frames); err != nil {
		return agolomb.WrapError(agolomb.IoFailure, err, "audio: writing header")
	}

	sink := bitstream.NewSink(w)

	if opts.Channels == 1 {
		encodeChannel(sink, widen(samples), channelOptions{
			predictor: opts.Predictor, mode: opts.Mode, adaptive: opts.Adaptive,
			fixedM: opts.FixedM, channel: 0, listener: opts.Listener, rng: pcmRange,
		})
	} else {
		left := make([]int16, frames)
		right := make([]int16, frames)

		for i := int64(0); i < frames; i++ {
			left[i] = samples[2*i]
			right[i] = samples[2*i+1]
		}

		ch1, ch2 := widen(left), widen(right)
		rng1, rng2 := pcmRange, pcmRange

		if opts.Stereo == MidSide {
			ch1, ch2 = toMidSide(left, right)
			rng2 = sideRange
		}

		encodeChannel(sink, ch1, channelOptions{
			predictor: opts.Predictor, mode: opts.Mode, adaptive: opts.Adaptive,
			fixedM: opts.FixedM, channel: 0, listener: opts.Listener, rng: rng1,
		})
		encodeChannel(sink, ch2, channelOptions{
			predictor: opts.Predictor, mode: opts.Mode, adaptive: opts.Adaptive,
			fixedM: opts.FixedM, channel: 1, listener: opts.Listener, rng: rng2,
		})
	}

	if err := sink.Close(); err != nil {
		return agolomb.WrapError(agolomb.IoFailure, err, "audio: closing bit stream")
	}

	return nil
}

// Decode reads a complete AGOL file from r and returns the interleaved
// samples alongside the header metadata needed to reconstruct a WAV file.
func Decode(r io.Reader, listener agolomb.Listener) (samples []int16, channels int, sampleRate int32, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = toCodecError(rec)
		}
	}()

	hdr, herr := readHeader(r)

	if herr != nil {
		return nil, 0, 0, herr
	}

	source := bitstream.NewSource(r)
	defer source.Close()

	opts := channelOptions{predictor: hdr.predictor, mode: hdr.mode, listener: listener, rng: pcmRange}

	if hdr.channels == 1 {
		opts.channel = 0
		samples = narrow(decodeChannel(source, int(hdr.frames), opts))
		return samples, 1, hdr.sampleRate, nil
	}

	opts0 := opts
	opts0.channel = 0

	opts1 := opts
	opts1.channel = 1

	if hdr.stereo == MidSide {
		opts1.rng = sideRange
	}

	ch1 := decodeChannel(source, int(hdr.frames), opts0)
	ch2 := decodeChannel(source, int(hdr.frames), opts1)

	var left, right []int16

	if hdr.stereo == MidSide {
		left, right = fromMidSide(ch1, ch2)
	} else {
		left, right = narrow(ch1), narrow(ch2)
	}

	samples = make([]int16, 0, 2*len(left))

	for i := range left {
		samples = append(samples, left[i], right[i])
	}

	return samples, 2, hdr.sampleRate, nil
}

// widen converts native 16-bit samples to the int32 domain encodeChannel
// and decodeChannel operate in.
func widen(samples []int16) []int32 {
	out := make([]int32, len(samples))

	for i, s := range samples {
		out[i] = int32(s)
	}

	return out
}

// narrow converts a decoded int32 channel back to native 16-bit samples.
// Only valid for a channel coded with pcmRange, where every value is
// guaranteed to fit.
func narrow(samples []int32) []int16 {
	out := make([]int16, len(samples))

	for i, s := range samples {
		out[i] = int16(s)
	}

	return out
}

type header struct {
	channels   int
	sampleRate int32
	frames     int64
	predictor  Predictor
	stereo     StereoMode
	adaptive   bool
	fixedM     uint32
	mode       golomb.NegativeMode
}

// writeHeader writes the fixed AGOL header, in field order, little-endian.
func writeHeader(w io.Writer, opts Options, frames int64) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}

	fields := []any{
		int32(opts.Channels),
		opts.SampleRate,
		frames,
		int32(opts.Predictor),
		int32(opts.Stereo),
		boolToInt32(opts.Adaptive),
		opts.FixedM,
		int32(opts.Mode),
	}

	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}

	return nil
}

// readHeader reads and validates the fixed AGOL header.
func readHeader(r io.Reader) (*header, error) {
	var got [4]byte

	if _, err := io.ReadFull(r, got[:]); err != nil {
		return nil, agolomb.WrapError(agolomb.IoFailure, err, "audio: reading magic")
	}

	if got != magic {
		return nil, agolomb.NewError(agolomb.InvalidFormat, "audio: not an AGOL file (bad magic)")
	}

	var channels, predType, stereoType, adaptive, negMode int32
	var sampleRate int32
	var frames int64
	var fixedM uint32

	for _, f := range []any{&channels, &sampleRate, &frames, &predType, &stereoType, &adaptive, &fixedM, &negMode} {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return nil, agolomb.WrapError(agolomb.IoFailure, err, "audio: reading header")
		}
	}

	if channels != 1 && channels != 2 {
		return nil, agolomb.NewError(agolomb.Unsupported, "audio: invalid channel count %d", channels)
	}

	predictor, err := predictorFromCode(predType)

	if err != nil {
		return nil, err
	}

	stereo, err := stereoModeFromCode(stereoType)

	if err != nil {
		return nil, err
	}

	mode, err := negativeModeFromCode(negMode)

	if err != nil {
		return nil, err
	}

	return &header{
		channels: int(channels), sampleRate: sampleRate, frames: frames,
		predictor: predictor, stereo: stereo, adaptive: adaptive != 0,
		fixedM: fixedM, mode: mode,
	}, nil
}

func negativeModeFromCode(code int32) (golomb.NegativeMode, error) {
	switch code {
	case int32(golomb.Interleaved), int32(golomb.SignMagnitude):
		return golomb.NegativeMode(code), nil
	default:
		return 0, agolomb.NewError(agolomb.InvalidParameter, "audio: invalid negative mode code %d", code)
	}
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}

	return 0
}

// toCodecError normalizes a recovered panic value into a *agolomb.CodecError.
func toCodecError(r any) error {
	if ce, ok := r.(*agolomb.CodecError); ok {
		return ce
	}

	if e, ok := r.(error); ok {
		return agolomb.WrapError(agolomb.TruncatedCode, e, "audio: codec failure")
	}

	return agolomb.NewError(agolomb.IoFailure, "audio: codec failure: %v", r)
}
