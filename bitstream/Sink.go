package bitstream

import (
	"fmt"
	"io"

	agolomb "github.com/go-golomb/agolomb"
)

// endOfStreamMarker is the single byte appended by Close after zero-padding
// to a byte boundary: binary 1000 0000.
const endOfStreamMarker = byte(0x80)

// Sink writes individual bits and fixed-width unsigned integers, MSB first,
// to an underlying io.Writer. Bits accumulate in a 64-bit register and are
// flushed to the writer a full 8 bytes at a time; Close pads the final
// partial register out to a byte boundary with zeros and appends the
// end-of-stream marker described in the container format.
type Sink struct {
	closed    bool
	written   uint64
	availBits uint // free low-order bit slots remaining in 'current'
	current   uint64
	out       io.Writer
}

// NewSink creates a Sink writing to w.
func NewSink(w io.Writer) *Sink {
	return &Sink{out: w, availBits: 64}
}

// WriteBit writes the least significant bit of 'bit' to the stream.
func (this *Sink) WriteBit(bit int) {
	this.checkOpen()
	this.availBits--
	this.current |= uint64(bit&1) << this.availBits
	this.written++

	if this.availBits == 0 {
		this.flushFull()
	}
}

// WriteBits writes the 'length' (in [1..64]) least significant bits of
// 'bits', MSB first.
func (this *Sink) WriteBits(bits uint64, length uint) {
	if length == 0 || length > 64 {
		panic(fmt.Errorf("invalid bit count: %d (must be in [1..64])", length))
	}

	this.checkOpen()
	bits &= mask(length)

	for length > 0 {
		n := length

		if n > this.availBits {
			n = this.availBits
		}

		shift := this.availBits - n
		chunk := (bits >> (length - n)) & mask(n)
		this.current |= chunk << shift
		this.availBits -= n
		this.written += uint64(n)
		length -= n

		if this.availBits == 0 {
			this.flushFull()
		}
	}
}

// flushFull writes the 8 fully-accumulated bytes held in 'current' and
// resets the register. Only called when availBits == 0. Panics with a
// *agolomb.CodecError of kind IoFailure on an underlying write error;
// callers recover this at the package boundary and return it.
func (this *Sink) flushFull() {
	var buf [8]byte

	for i := 0; i < 8; i++ {
		buf[i] = byte(this.current >> (56 - 8*i))
	}

	if _, err := this.out.Write(buf[:]); err != nil {
		panic(agolomb.WrapError(agolomb.IoFailure, err, "bitstream: writing"))
	}

	this.current = 0
	this.availBits = 64
}

// Close flushes any pending bits, zero-padded to a byte boundary, then
// appends the end-of-stream marker byte.
func (this *Sink) Close() error {
	if this.closed {
		return nil
	}

	this.closed = true

	if pending := 64 - this.availBits; pending > 0 {
		nBytes := (pending + 7) / 8
		var buf [8]byte

		for i := uint(0); i < nBytes; i++ {
			buf[i] = byte(this.current >> (56 - 8*i))
		}

		if _, err := this.out.Write(buf[:nBytes]); err != nil {
			return err
		}

		this.current = 0
		this.availBits = 64
	}

	_, err := this.out.Write([]byte{endOfStreamMarker})
	return err
}

// BitsWritten returns the number of payload bits written so far (zero
// padding and the end-of-stream marker are not counted).
func (this *Sink) BitsWritten() uint64 {
	return this.written
}

func (this *Sink) checkOpen() {
	if this.closed {
		panic(fmt.Errorf("bitstream: write to closed stream"))
	}
}
