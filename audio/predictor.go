// Package audio implements the lossless audio codec: linear predictors over
// 16-bit PCM samples, an optional mid-side stereo transform, and a
// block-wise Golomb residual pipeline bound into the AGOL container.
package audio

import agolomb "github.com/go-golomb/agolomb"

// Predictor selects the linear prediction order used when computing
// residuals. Encoder and decoder must agree on the same Predictor for a
// given channel stream; it travels in the AGOL header.
type Predictor int

const (
	// Order1 predicts the previous sample unchanged.
	Order1 Predictor = iota
	// Order2 predicts a linear extrapolation from the previous two samples.
	Order2
	// Order3 predicts a linear extrapolation from the previous three samples.
	Order3
)

// String renders the predictor name, used in CLI output.
func (p Predictor) String() string {
	switch p {
	case Order1:
		return "order-1"
	case Order2:
		return "order-2"
	case Order3:
		return "order-3"
	default:
		return "unknown"
	}
}

// predictorFromCode validates a header predictor code.
func predictorFromCode(code int32) (Predictor, error) {
	switch code {
	case int32(Order1), int32(Order2), int32(Order3):
		return Predictor(code), nil
	default:
		return 0, agolomb.NewError(agolomb.InvalidParameter, "audio: invalid predictor code %d", code)
	}
}

// sampleRange bounds the values a channel's predictor is allowed to return.
// Mono, independent-stereo, and mid channels all reconstruct to a native
// 16-bit PCM sample; a mid-side side channel (L-R for L,R in pcmRange) spans
// one bit wider and needs its own range.
type sampleRange struct {
	min int32
	max int32
}

// pcmRange is the native 16-bit PCM sample range.
var pcmRange = sampleRange{min: -32768, max: 32767}

// sideRange bounds a mid-side side channel: L-R ranges over [-65535, 65535].
var sideRange = sampleRange{min: -65535, max: 65535}

// clamp narrows a wider arithmetic result into r, mirroring the source's
// clamp lambda. Predictor sums need headroom beyond r: Order-3's
// 3*max - 3*min + max overflows r before clamping.
func (r sampleRange) clamp(val int64) int32 {
	if val < int64(r.min) {
		return r.min
	}

	if val > int64(r.max) {
		return r.max
	}

	return int32(val)
}

// predict returns the prediction for samples[index] given already-committed
// samples[:index]. index == 0 always predicts silence (zero), since there is
// no context yet. rng bounds the returned value to the channel's actual
// range (pcmRange for mono/independent/mid, sideRange for a mid-side side
// channel); encoder and decoder must call predict with the same rng for a
// channel so both sides derive an identical prediction.
func predict(samples []int32, index int, predictor Predictor, rng sampleRange) int32 {
	if index == 0 {
		return 0
	}

	switch predictor {
	case Order1:
		return samples[index-1]

	case Order2:
		if index < 2 {
			return samples[index-1]
		}

		return rng.clamp(2*int64(samples[index-1]) - int64(samples[index-2]))

	case Order3:
		if index < 2 {
			return samples[index-1]
		}

		if index < 3 {
			return rng.clamp(2*int64(samples[index-1]) - int64(samples[index-2]))
		}

		return rng.clamp(3*int64(samples[index-1]) - 3*int64(samples[index-2]) + int64(samples[index-3]))

	default:
		return 0
	}
}
