// Package image implements the lossless grayscale image codec: seven causal
// predictors over the left/top/top-left neighborhood, a raster-order block
// pipeline, and the GIMG container format.
package image

import agolomb "github.com/go-golomb/agolomb"

// Predictor selects how a pixel is predicted from its already-decoded
// causal neighbors. Encoder and decoder must agree on the same Predictor
// for a given image; it travels in the GIMG header.
type Predictor int

const (
	// Left predicts the pixel immediately to the left.
	Left Predictor = iota
	// Top predicts the pixel immediately above.
	Top
	// TopLeft predicts the diagonal neighbor above and to the left.
	TopLeft
	// Average predicts (left+top)/2.
	Average
	// Paeth picks whichever of left/top/top-left is closest to left+top-topLeft.
	Paeth
	// APlusHalfBMinusC predicts left + (top-topLeft)/2.
	APlusHalfBMinusC
	// BPlusHalfAMinusC predicts top + (left-topLeft)/2.
	BPlusHalfAMinusC
)

// String renders the predictor name, used in CLI output.
func (p Predictor) String() string {
	switch p {
	case Left:
		return "left"
	case Top:
		return "top"
	case TopLeft:
		return "top-left"
	case Average:
		return "average"
	case Paeth:
		return "paeth"
	case APlusHalfBMinusC:
		return "a+(b-c)/2"
	case BPlusHalfAMinusC:
		return "b+(a-c)/2"
	default:
		return "unknown"
	}
}

func predictorFromCode(code int32) (Predictor, error) {
	if code < int32(Left) || code > int32(BPlusHalfAMinusC) {
		return 0, agolomb.NewError(agolomb.InvalidParameter, "image: invalid predictor code %d", code)
	}

	return Predictor(code), nil
}

// neighborDefault is the value used for a neighbor that falls outside the
// image (first row or first column), matching mid-gray.
const neighborDefault = 128

// predict returns the prediction for pixels[row][col] using only already
// committed pixels (rows above, and columns to the left on the same row).
func predict(pixels [][]uint8, row, col int, predictor Predictor) int {
	left, top, topLeft := neighborDefault, neighborDefault, neighborDefault

	if col > 0 {
		left = int(pixels[row][col-1])
	}

	if row > 0 {
		top = int(pixels[row-1][col])

		if col > 0 {
			topLeft = int(pixels[row-1][col-1])
		}
	}

	switch predictor {
	case Left:
		return left

	case Top:
		return top

	case TopLeft:
		return topLeft

	case Average:
		return (left + top) / 2

	case Paeth:
		p := left + top - topLeft
		pa := abs(p - left)
		pb := abs(p - top)
		pc := abs(p - topLeft)

		if pa <= pb && pa <= pc {
			return left
		}

		if pb <= pc {
			return top
		}

		return topLeft

	case APlusHalfBMinusC:
		return left + (top-topLeft)/2

	case BPlusHalfAMinusC:
		return top + (left-topLeft)/2

	default:
		return neighborDefault
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}

// clampPixel narrows a reconstructed value to the valid 8-bit grayscale
// range; a residual plus prediction can land outside [0,255] only if the
// stream is corrupt, since encode always derives residuals from in-range
// pixels.
func clampPixel(val int) uint8 {
	if val < 0 {
		return 0
	}

	if val > 255 {
		return 255
	}

	return uint8(val)
}
