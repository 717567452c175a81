// Package agolomb defines the top level types shared across the audio (AGOL)
// and image (GIMG) lossless codecs: the bit stream interfaces, the structured
// error type, and the block-level progress event.
//
// Implementations live in sub-packages: golomb (entropy coding), bitstream
// (bit-level I/O), audio and image (predictors and container formats).
package agolomb

import "fmt"

// InputBitStream is a bitstream reader. Implementations panic on a closed
// stream or an out-of-range bit count; callers at the package boundary
// recover and convert the panic to a *CodecError.
type InputBitStream interface {
	// ReadBit returns the next bit in the bitstream.
	ReadBit() int

	// ReadBits reads 'length' (in [1..64]) bits from the bitstream, MSB first,
	// and returns them right-justified in a uint64.
	ReadBits(length uint) uint64

	// Close makes the bitstream unavailable for further reads.
	Close() error

	// BitsRead returns the number of bits consumed so far.
	BitsRead() uint64
}

// OutputBitStream is a bitstream writer. Implementations panic on a closed
// stream or an out-of-range bit count; callers at the package boundary
// recover and convert the panic to a *CodecError.
type OutputBitStream interface {
	// WriteBit writes the least significant bit of the input integer.
	WriteBit(bit int)

	// WriteBits writes the 'length' least significant bits of 'bits' to the
	// bitstream, MSB first. Length must be in [1..64].
	WriteBits(bits uint64, length uint)

	// Close flushes any pending bits (zero-padded to a byte boundary) and
	// appends the end-of-stream marker. Makes the bitstream unavailable for
	// further writes.
	Close() error

	// BitsWritten returns the number of bits written so far (marker excluded).
	BitsWritten() uint64
}

// Kind classifies a CodecError so that callers can branch on failure mode
// instead of parsing message strings.
type Kind int

const (
	// InvalidParameter covers m == 0, unknown predictor/mode codes, and
	// negative image dimensions.
	InvalidParameter Kind = iota + 1

	// InvalidFormat covers bad file magic, truncated headers, and media
	// files outside the canonical WAV/PGM subset this module reads.
	InvalidFormat

	// TruncatedCode means the bit stream ended before a codeword finished.
	TruncatedCode

	// IoFailure wraps an underlying file or byte-source error.
	IoFailure

	// Unsupported covers audio channel counts outside {1, 2}.
	Unsupported
)

// String returns a short, stable name for the kind; used in error messages.
func (k Kind) String() string {
	switch k {
	case InvalidParameter:
		return "InvalidParameter"
	case InvalidFormat:
		return "InvalidFormat"
	case TruncatedCode:
		return "TruncatedCode"
	case IoFailure:
		return "IoFailure"
	case Unsupported:
		return "Unsupported"
	default:
		return "Unknown"
	}
}

// CodecError is the single exported error type for this module. It carries a
// Kind so callers can branch with errors.As and Kind() instead of matching
// message text.
type CodecError struct {
	kind Kind
	msg  string
	err  error // optional wrapped cause
}

// NewError creates a CodecError of the given kind with a formatted message.
func NewError(kind Kind, format string, args ...any) *CodecError {
	return &CodecError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// WrapError creates a CodecError of the given kind that wraps an underlying
// cause, typically an I/O error surfaced through a panic/recover boundary.
func WrapError(kind Kind, cause error, format string, args ...any) *CodecError {
	return &CodecError{kind: kind, msg: fmt.Sprintf(format, args...), err: cause}
}

// Error implements the error interface.
func (e *CodecError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v (%s)", e.msg, e.err, e.kind)
	}

	return fmt.Sprintf("%s (%s)", e.msg, e.kind)
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/errors.As.
func (e *CodecError) Unwrap() error {
	return e.err
}

// Kind returns the classification of this error.
func (e *CodecError) Kind() Kind {
	return e.kind
}
