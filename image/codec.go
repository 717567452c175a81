package image

import (
	"encoding/binary"
	"io"

	agolomb "github.com/go-golomb/agolomb"
	"github.com/go-golomb/agolomb/bitstream"
	"github.com/go-golomb/agolomb/estimate"
	"github.com/go-golomb/agolomb/golomb"
)

// blockSize is the fixed number of pixels, in raster order, sharing one
// Golomb parameter. Part of the wire format: changing it breaks
// compatibility with previously encoded files. Block boundaries do not
// align to row boundaries; the pixel stream is flattened before blocking,
// matching the source's single nested row/col loop.
const blockSize = 256

var magic = [4]byte{'G', 'I', 'M', 'G'}

// Options configures Encode.
type Options struct {
	Predictor Predictor
	Adaptive  bool
	FixedM    uint32
	Mode      golomb.NegativeMode
	Listener  agolomb.Listener
}

// Image holds a decoded grayscale image: Width*Height pixels, row-major.
type Image struct {
	Width  int
	Height int
	Pixels [][]uint8 // Pixels[row][col]
}

// Encode writes img as a complete GIMG file to w.
func Encode(w io.Writer, img *Image, opts Options) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = toCodecError(r)
		}
	}()

	if img.Width <= 0 || img.Height <= 0 {
		return agolomb.NewError(agolomb.InvalidParameter, "image: dimensions must be positive, got %dx%d", img.Width, img.Height)
	}

	if err := writeHeader(w, img, opts); err != nil {
		return agolomb.WrapError(agolomb.IoFailure, err, "image: writing header")
	}

	sink := bitstream.NewSink(w)
	total := img.Width * img.Height
	residuals := make([]int32, 0, blockSize)
	blockIndex := 0

	flush := func() {
		m := opts.FixedM

		if opts.Adaptive {
			m = estimate.M(residuals)
		}

		sink.WriteBits(uint64(m), 16)

		params, perr := golomb.NewParams(m, opts.Mode)

		if perr != nil {
			panic(perr)
		}

		var bits uint64 = 16

		for _, r := range residuals {
			params.Encode(sink, r)
			bits += uint64(params.EncodedLength(r))
		}

		if opts.Listener != nil {
			opts.Listener.ProcessEvent(agolomb.NewBlockEvent(agolomb.EvtEncodeBlock, 0, blockIndex, len(residuals), m, bits))
		}

		blockIndex++
		residuals = residuals[:0]
	}

	pixelCount := 0

	for row := 0; row < img.Height; row++ {
		for col := 0; col < img.Width; col++ {
			pixel := int(img.Pixels[row][col])
			prediction := predict(img.Pixels, row, col, opts.Predictor)
			residuals = append(residuals, int32(pixel-prediction))
			pixelCount++

			if len(residuals) >= blockSize || pixelCount >= total {
				flush()
			}
		}
	}

	if opts.Listener != nil {
		opts.Listener.ProcessEvent(agolomb.NewBlockEvent(agolomb.EvtStreamDone, 0, 0, 0, 0, 0))
	}

	if err := sink.Close(); err != nil {
		return agolomb.WrapError(agolomb.IoFailure, err, "image: closing bit stream")
	}

	return nil
}

// Decode reads a complete GIMG file from r.
func Decode(r io.Reader, listener agolomb.Listener) (img *Image, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = toCodecError(rec)
		}
	}()

	hdr, herr := readHeader(r)

	if herr != nil {
		return nil, herr
	}

	source := bitstream.NewSource(r)
	defer source.Close()

	pixels := make([][]uint8, hdr.height)

	for i := range pixels {
		pixels[i] = make([]uint8, hdr.width)
	}

	total := hdr.width * hdr.height
	decoded := 0
	blockIndex := 0

	for decoded < total {
		remaining := total - decoded
		n := blockSize

		if n > remaining {
			n = remaining
		}

		start := source.BitsRead()
		m := uint32(source.ReadBits(16))

		params, perr := golomb.NewParams(m, hdr.mode)

		if perr != nil {
			panic(perr)
		}

		for i := 0; i < n; i++ {
			row := decoded / hdr.width
			col := decoded % hdr.width
			residual := params.Decode(source)
			prediction := predict(pixels, row, col, hdr.predictor)
			pixels[row][col] = clampPixel(prediction + int(residual))
			decoded++
		}

		if listener != nil {
			listener.ProcessEvent(agolomb.NewBlockEvent(agolomb.EvtDecodeBlock, 0, blockIndex, n, m, source.BitsRead()-start))
		}

		blockIndex++
	}

	if listener != nil {
		listener.ProcessEvent(agolomb.NewBlockEvent(agolomb.EvtStreamDone, 0, 0, 0, 0, 0))
	}

	return &Image{Width: hdr.width, Height: hdr.height, Pixels: pixels}, nil
}

type header struct {
	width     int
	height    int
	predictor Predictor
	adaptive  bool
	fixedM    uint32
	mode      golomb.NegativeMode
}

func writeHeader(w io.Writer, img *Image, opts Options) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}

	fields := []any{
		int32(img.Width), int32(img.Height), int32(opts.Predictor),
		boolToInt32(opts.Adaptive), opts.FixedM, int32(opts.Mode),
	}

	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}

	return nil
}

func readHeader(r io.Reader) (*header, error) {
	var got [4]byte

	if _, err := io.ReadFull(r, got[:]); err != nil {
		return nil, agolomb.WrapError(agolomb.IoFailure, err, "image: reading magic")
	}

	if got != magic {
		return nil, agolomb.NewError(agolomb.InvalidFormat, "image: not a GIMG file (bad magic)")
	}

	var width, height, predType, adaptive, negMode int32
	var fixedM uint32

	for _, f := range []any{&width, &height, &predType, &adaptive, &fixedM, &negMode} {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return nil, agolomb.WrapError(agolomb.IoFailure, err, "image: reading header")
		}
	}

	if width <= 0 || height <= 0 {
		return nil, agolomb.NewError(agolomb.InvalidFormat, "image: invalid dimensions %dx%d", width, height)
	}

	predictor, err := predictorFromCode(predType)

	if err != nil {
		return nil, err
	}

	mode, err := negativeModeFromCode(negMode)

	if err != nil {
		return nil, err
	}

	return &header{
		width: int(width), height: int(height), predictor: predictor,
		adaptive: adaptive != 0, fixedM: fixedM, mode: mode,
	}, nil
}

func negativeModeFromCode(code int32) (golomb.NegativeMode, error) {
	switch code {
	case int32(golomb.Interleaved), int32(golomb.SignMagnitude):
		return golomb.NegativeMode(code), nil
	default:
		return 0, agolomb.NewError(agolomb.InvalidParameter, "image: invalid negative mode code %d", code)
	}
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}

	return 0
}

func toCodecError(r any) error {
	if ce, ok := r.(*agolomb.CodecError); ok {
		return ce
	}

	if e, ok := r.(error); ok {
		return agolomb.WrapError(agolomb.TruncatedCode, e, "image: codec failure")
	}

	return agolomb.NewError(agolomb.IoFailure, "image: codec failure: %v", r)
}
