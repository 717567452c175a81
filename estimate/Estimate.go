// Package estimate computes the adaptive Golomb parameter m from a block's
// residuals, factored out as a shared helper used by both the audio and
// image codecs.
package estimate

import "math"

// MinM and MaxM bound the Golomb divisor this module ever emits or accepts.
const (
	MinM = uint32(1)
	MaxM = uint32(65535)
)

// M estimates the Golomb parameter for a block from its residuals, following
// the closed-form minimizer for a geometric distribution: mean absolute
// residual determines the success probability p, and m = ceil(-1/log2(p)).
//
// Returns MinM for an empty block or a mean below 0.5 (residuals mostly
// zero); for such a mean p is below 1/3 and the closed form gives at most 1.
func M(residuals []int32) uint32 {
	if len(residuals) == 0 {
		return MinM
	}

	var sum uint64

	for _, r := range residuals {
		if r < 0 {
			sum += uint64(-r)
		} else {
			sum += uint64(r)
		}
	}

	mean := float64(sum) / float64(len(residuals))

	if mean < 0.5 {
		return MinM
	}

	p := mean / (mean + 1)
	m := math.Ceil(-1 / math.Log2(p))

	return clamp(m)
}

func clamp(m float64) uint32 {
	if m < float64(MinM) {
		return MinM
	}

	if m > float64(MaxM) {
		return MaxM
	}

	return uint32(m)
}
