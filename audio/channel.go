package audio

import (
	agolomb "github.com/go-golomb/agolomb"
	"github.com/go-golomb/agolomb/estimate"
	"github.com/go-golomb/agolomb/golomb"
)

// blockSize is the fixed number of samples per channel sharing one Golomb
// parameter. Part of the wire format: changing it breaks compatibility with
// previously encoded files.
const blockSize = 1024

// channelOptions configures how a single channel of samples is encoded.
type channelOptions struct {
	predictor Predictor
	mode      golomb.NegativeMode
	adaptive  bool
	fixedM    uint32
	channel   int // 0 or 1, for BlockEvent.Channel and Listener notification
	listener  agolomb.Listener
	rng       sampleRange // pcmRange, or sideRange for a mid-side side channel
}

// encodeChannel writes samples to sink as a sequence of 1024-sample blocks,
// each prefixed by its 16-bit Golomb parameter. Residuals are computed
// against already-committed samples, matching the decoder's reconstruction
// order exactly. samples holds the channel's values as int32 so a mid-side
// side channel (one bit wider than a native sample) can be coded through
// the same pipeline as a native 16-bit channel.
func encodeChannel(sink agolomb.OutputBitStream, samples []int32, opts channelOptions) {
	n := len(samples)

	for pos, blockIndex := 0, 0; pos < n; blockIndex++ {
		end := pos + blockSize

		if end > n {
			end = n
		}

		residuals := make([]int32, 0, end-pos)

		for i := pos; i < end; i++ {
			prediction := predict(samples, i, opts.predictor, opts.rng)
			residuals = append(residuals, samples[i]-prediction)
		}

		m := opts.fixedM

		if opts.adaptive {
			m = estimate.M(residuals)
		}

		sink.WriteBits(uint64(m), 16)

		params, err := golomb.NewParams(m, opts.mode)

		if err != nil {
			panic(err)
		}

		for _, r := range residuals {
			params.Encode(sink, r)
		}

		if opts.listener != nil {
			bits := uint64(16)

			for _, r := range residuals {
				bits += uint64(params.EncodedLength(r))
			}

			opts.listener.ProcessEvent(agolomb.NewBlockEvent(agolomb.EvtEncodeBlock, opts.channel,
				blockIndex, end-pos, m, bits))
		}

		pos = end
	}

	if opts.listener != nil {
		opts.listener.ProcessEvent(agolomb.NewBlockEvent(agolomb.EvtStreamDone, opts.channel, 0, 0, 0, 0))
	}
}

// decodeChannel reads numSamples samples from source, reversing
// encodeChannel. Each reconstructed sample is committed to the output slice
// before the next prediction is computed, so predictor context matches the
// encoder's exactly.
func decodeChannel(source agolomb.InputBitStream, numSamples int, opts channelOptions) []int32 {
	samples := make([]int32, 0, numSamples)

	for pos, blockIndex := 0, 0; pos < numSamples; blockIndex++ {
		end := pos + blockSize

		if end > numSamples {
			end = numSamples
		}

		start := source.BitsRead()
		m := uint32(source.ReadBits(16))

		params, err := golomb.NewParams(m, opts.mode)

		if err != nil {
			panic(err)
		}

		for i := pos; i < end; i++ {
			residual := params.Decode(source)
			prediction := predict(samples, len(samples), opts.predictor, opts.rng)
			sample := prediction + residual
			samples = append(samples, sample)
		}

		if opts.listener != nil {
			opts.listener.ProcessEvent(agolomb.NewBlockEvent(agolomb.EvtDecodeBlock, opts.channel,
				blockIndex, end-pos, m, source.BitsRead()-start))
		}

		pos = end
	}

	if opts.listener != nil {
		opts.listener.ProcessEvent(agolomb.NewBlockEvent(agolomb.EvtStreamDone, opts.channel, 0, 0, 0, 0))
	}

	return samples
}
