package audio

import agolomb "github.com/go-golomb/agolomb"

func errInvalidStereoMode(code int32) error {
	return agolomb.NewError(agolomb.InvalidParameter, "audio: invalid stereo mode code %d", code)
}
