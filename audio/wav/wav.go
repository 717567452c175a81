// Package wav reads and writes the canonical subset of RIFF/WAVE this module
// needs: 16-bit PCM, mono or stereo, one fmt chunk and one data chunk.
// Non-PCM (float/ADPCM) and non-16-bit samples are rejected with a
// *agolomb.CodecError of kind InvalidFormat, and channel counts other than
// 1 or 2 with kind Unsupported. Extra bytes of an extended fmt chunk and
// chunks other than fmt and data are skipped.
//
// Grounded on the chunk-walking RIFF parser pattern (read a 4-byte tag,
// little-endian size, seek past whatever wasn't consumed) rather than
// assuming fmt/data arrive in a fixed order.
package wav

import (
	"encoding/binary"
	"io"

	agolomb "github.com/go-golomb/agolomb"
)

const (
	riffTag = 0x52494646 // "RIFF", big-endian read
	waveTag = 0x57415645 // "WAVE"
	fmtTag  = 0x666d7420 // "fmt "
	dataTag = 0x64617461 // "data"

	formatPCM = 1
)

// File holds a decoded canonical WAV file's channel count, sample rate, and
// interleaved 16-bit samples.
type File struct {
	Channels   int
	SampleRate int32
	Samples    []int16
}

// Read parses a canonical 16-bit PCM WAV stream from r.
func Read(r io.Reader) (*File, error) {
	var tag int32

	if err := binary.Read(r, binary.BigEndian, &tag); err != nil {
		return nil, agolomb.WrapError(agolomb.IoFailure, err, "wav: reading RIFF tag")
	}

	if tag != riffTag {
		return nil, agolomb.NewError(agolomb.InvalidFormat, "wav: not a RIFF file")
	}

	var riffSize int32

	if err := binary.Read(r, binary.LittleEndian, &riffSize); err != nil {
		return nil, agolomb.WrapError(agolomb.IoFailure, err, "wav: reading RIFF size")
	}

	if err := binary.Read(r, binary.BigEndian, &tag); err != nil {
		return nil, agolomb.WrapError(agolomb.IoFailure, err, "wav: reading WAVE tag")
	}

	if tag != waveTag {
		return nil, agolomb.NewError(agolomb.InvalidFormat, "wav: not a WAVE file")
	}

	var channels, bitsPerSample uint16
	var sampleRate int32
	var samples []int16
	haveFmt, haveData := false, false

	for !haveFmt || !haveData {
		if err := binary.Read(r, binary.BigEndian, &tag); err != nil {
			return nil, agolomb.WrapError(agolomb.IoFailure, err, "wav: reading chunk tag")
		}

		var chunkSize int32

		if err := binary.Read(r, binary.LittleEndian, &chunkSize); err != nil {
			return nil, agolomb.WrapError(agolomb.IoFailure, err, "wav: reading chunk size")
		}

		switch tag {
		case fmtTag:
			var format uint16
			var byteRate int32
			var blockAlign uint16

			fields := []any{&format, &channels, &sampleRate, &byteRate, &blockAlign, &bitsPerSample}

			for _, f := range fields {
				if err := binary.Read(r, binary.LittleEndian, f); err != nil {
					return nil, agolomb.WrapError(agolomb.IoFailure, err, "wav: reading fmt chunk")
				}
			}

			if format != formatPCM {
				return nil, agolomb.NewError(agolomb.InvalidFormat, "wav: only PCM format is supported, got %d", format)
			}

			if bitsPerSample != 16 {
				return nil, agolomb.NewError(agolomb.InvalidFormat, "wav: only 16-bit samples are supported, got %d", bitsPerSample)
			}

			if channels != 1 && channels != 2 {
				return nil, agolomb.NewError(agolomb.Unsupported, "wav: only mono or stereo is supported, got %d channels", channels)
			}

			// fmt chunks may carry extra bytes (cbSize and beyond) past the
			// 16 just read; skip them so the next chunk tag lines up.
			if remaining := chunkSize - 16; remaining > 0 {
				if err := discard(r, remaining); err != nil {
					return nil, agolomb.WrapError(agolomb.IoFailure, err, "wav: skipping extended fmt chunk")
				}
			}

			haveFmt = true

		case dataTag:
			if !haveFmt {
				return nil, agolomb.NewError(agolomb.InvalidFormat, "wav: data chunk before fmt chunk")
			}

			n := int(chunkSize) / 2
			samples = make([]int16, n)

			if err := binary.Read(r, binary.LittleEndian, samples); err != nil {
				return nil, agolomb.WrapError(agolomb.IoFailure, err, "wav: reading data chunk")
			}

			if chunkSize%2 != 0 {
				if err := discard(r, 1); err != nil {
					return nil, agolomb.WrapError(agolomb.IoFailure, err, "wav: skipping data pad byte")
				}
			}

			haveData = true

		default:
			if err := discard(r, chunkSize); err != nil {
				return nil, agolomb.WrapError(agolomb.IoFailure, err, "wav: skipping unknown chunk")
			}
		}
	}

	return &File{Channels: int(channels), SampleRate: sampleRate, Samples: samples}, nil
}

// Write serializes f as a canonical 16-bit PCM WAV stream to w.
func Write(w io.Writer, f *File) error {
	channels := uint16(f.Channels)
	blockAlign := channels * 2
	byteRate := f.SampleRate * int32(blockAlign)
	dataSize := int32(len(f.Samples)) * 2
	riffSize := int32(4 + 8 + 16 + 8) + dataSize

	if err := binary.Write(w, binary.BigEndian, int32(riffTag)); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, riffSize); err != nil {
		return err
	}

	if err := binary.Write(w, binary.BigEndian, int32(waveTag)); err != nil {
		return err
	}

	if err := binary.Write(w, binary.BigEndian, int32(fmtTag)); err != nil {
		return err
	}

	fmtFields := []any{
		int32(16), uint16(formatPCM), channels, f.SampleRate, byteRate, blockAlign, uint16(16),
	}

	for _, field := range fmtFields {
		if err := binary.Write(w, binary.LittleEndian, field); err != nil {
			return err
		}
	}

	if err := binary.Write(w, binary.BigEndian, int32(dataTag)); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, dataSize); err != nil {
		return err
	}

	return binary.Write(w, binary.LittleEndian, f.Samples)
}

func discard(r io.Reader, n int32) error {
	_, err := io.CopyN(io.Discard, r, int64(n))
	return err
}
