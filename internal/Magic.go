package internal

import "encoding/binary"

const (
	// NoMagic is returned when the first bytes of a file match none of the
	// known magic values below.
	NoMagic = 0

	// RiffMagic identifies a RIFF container (WAV, AVI, WEBP); this module
	// only ever decodes the WAV subtype.
	RiffMagic = 0x52494646

	// PgmMagic identifies a binary (P5) portable graymap, the only image
	// input format this module reads.
	PgmMagic = 0x5035

	// AgolMagic identifies this module's own audio container.
	AgolMagic = 0x41474F4C

	// GimgMagic identifies this module's own image container.
	GimgMagic = 0x47494D47
)

// SniffMagic inspects the first bytes of src and returns one of the magic
// constants above, or NoMagic. It is used by the CLI front-ends to reject an
// input file early, before handing it to the WAV or PGM reader, with a
// clearer message than a mid-parse failure would give.
//
// Trimmed to the handful of formats this module's CLIs actually need to
// recognize.
func SniffMagic(src []byte) uint {
	if len(src) < 4 {
		return NoMagic
	}

	key32 := uint(binary.BigEndian.Uint32(src))

	if key32 == RiffMagic {
		return RiffMagic
	}

	if key32 == AgolMagic {
		return AgolMagic
	}

	if key32 == GimgMagic {
		return GimgMagic
	}

	if key16 := key32 >> 16; key16 == PgmMagic {
		// Valid P5 headers are followed by whitespace before the dimensions.
		if len(src) >= 3 {
			switch src[2] {
			case ' ', '\t', '\n', '\r':
				return PgmMagic
			}
		}
	}

	return NoMagic
}
