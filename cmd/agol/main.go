// Command agol is the audio codec's command-line front-end: encodes a
// canonical 16-bit PCM WAV file to the AGOL container, or decodes an AGOL
// file back to WAV.
//
// Flag parsing is hand-rolled (explicit arg-index loop, no flag package),
// exposing the same small option set directly on the argv loop.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	agolomb "github.com/go-golomb/agolomb"
	"github.com/go-golomb/agolomb/audio"
	"github.com/go-golomb/agolomb/audio/wav"
	"github.com/go-golomb/agolomb/cmd/cliinfo"
	"github.com/go-golomb/agolomb/golomb"
	"github.com/go-golomb/agolomb/internal"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  Encoding: agol -e [options] <input.wav> <output.agol>")
	fmt.Fprintln(os.Stderr, "  Decoding: agol -d <input.agol> <output.wav>")
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "  -p <0-2>  Predictor: 0=Order-1, 1=Order-2 [default], 2=Order-3")
	fmt.Fprintln(os.Stderr, "  -s <0-1>  Stereo: 0=Independent, 1=Mid-Side [default]")
	fmt.Fprintln(os.Stderr, "  -m <int>  Fixed Golomb m (default: adaptive)")
	fmt.Fprintln(os.Stderr, "  -n <0-1>  Negative mode: 0=Interleaved [default], 1=Sign-Magnitude")
	fmt.Fprintln(os.Stderr, "  -v        Verbose: print per-block events")
}

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	if len(args) < 2 {
		usage()
		return 1
	}

	switch args[1] {
	case "-e":
		return runEncode(args[2:])
	case "-d":
		return runDecode(args[2:])
	default:
		fmt.Fprintln(os.Stderr, "Error: first argument must be -e or -d")
		usage()
		return 1
	}
}

func runEncode(args []string) int {
	predictor := audio.Order2
	stereo := audio.MidSide
	mode := golomb.Interleaved
	adaptive := true
	var fixedM uint32
	verbose := false

	var files []string

	i := 0

	for i < len(args) {
		switch args[i] {
		case "-p":
			v, err := requireInt(args, &i)

			if err != nil {
				return fail(err)
			}

			switch v {
			case 0:
				predictor = audio.Order1
			case 1:
				predictor = audio.Order2
			case 2:
				predictor = audio.Order3
			default:
				return fail(fmt.Errorf("invalid predictor type (must be 0-2)"))
			}

		case "-s":
			v, err := requireInt(args, &i)

			if err != nil {
				return fail(err)
			}

			switch v {
			case 0:
				stereo = audio.Independent
			case 1:
				stereo = audio.MidSide
			default:
				return fail(fmt.Errorf("invalid stereo mode (must be 0 or 1)"))
			}

		case "-m":
			v, err := requireInt(args, &i)

			if err != nil {
				return fail(err)
			}

			if v < 1 {
				return fail(fmt.Errorf("m must be at least 1"))
			}

			fixedM = uint32(v)
			adaptive = false

		case "-n":
			v, err := requireInt(args, &i)

			if err != nil {
				return fail(err)
			}

			switch v {
			case 0:
				mode = golomb.Interleaved
			case 1:
				mode = golomb.SignMagnitude
			default:
				return fail(fmt.Errorf("invalid negative mode (must be 0 or 1)"))
			}

		case "-v":
			verbose = true
			i++

		default:
			files = append(files, args[i])
			i++
		}
	}

	if len(files) != 2 {
		fmt.Fprintln(os.Stderr, "Error: both input and output files must be specified")
		usage()
		return 1
	}

	in, err := os.Open(files[0])

	if err != nil {
		return fail(err)
	}

	defer in.Close()

	br := bufio.NewReader(in)

	if peek, perr := br.Peek(4); perr == nil {
		if internal.SniffMagic(peek) != internal.RiffMagic {
			return fail(agolomb.NewError(agolomb.InvalidFormat, "agol: input is not a RIFF/WAV file"))
		}
	}

	wavFile, err := wav.Read(br)

	if err != nil {
		return fail(err)
	}

	out, err := os.Create(files[1])

	if err != nil {
		return fail(err)
	}

	defer out.Close()

	var listener agolomb.Listener

	if verbose {
		printer, perr := cliinfo.NewInfoPrinter(1, os.Stdout)

		if perr != nil {
			return fail(perr)
		}

		listener = printer
	}

	opts := audio.Options{
		Channels: wavFile.Channels, SampleRate: wavFile.SampleRate,
		Predictor: predictor, Stereo: stereo, Adaptive: adaptive,
		FixedM: fixedM, Mode: mode, Listener: listener,
	}

	if err := audio.Encode(out, wavFile.Samples, opts); err != nil {
		return fail(err)
	}

	return 0
}

func runDecode(args []string) int {
	verbose := false
	var files []string

	for i := 0; i < len(args); i++ {
		if args[i] == "-v" {
			verbose = true
			continue
		}

		files = append(files, args[i])
	}

	if len(files) != 2 {
		fmt.Fprintln(os.Stderr, "Error: decoding requires input and output files")
		usage()
		return 1
	}

	in, err := os.Open(files[0])

	if err != nil {
		return fail(err)
	}

	defer in.Close()

	var listener agolomb.Listener

	if verbose {
		printer, perr := cliinfo.NewInfoPrinter(1, os.Stdout)

		if perr != nil {
			return fail(perr)
		}

		listener = printer
	}

	samples, channels, sampleRate, err := audio.Decode(in, listener)

	if err != nil {
		return fail(err)
	}

	out, err := os.Create(files[1])

	if err != nil {
		return fail(err)
	}

	defer out.Close()

	wavFile := &wav.File{Channels: channels, SampleRate: sampleRate, Samples: samples}

	if err := wav.Write(out, wavFile); err != nil {
		return fail(err)
	}

	return 0
}

func requireInt(args []string, i *int) (int, error) {
	if *i+1 >= len(args) {
		return 0, fmt.Errorf("%s requires a value", args[*i])
	}

	v, err := strconv.Atoi(args[*i+1])
	*i += 2
	return v, err
}

func fail(err error) int {
	if ce, ok := err.(*agolomb.CodecError); ok {
		fmt.Fprintf(os.Stderr, "Error: %v\n", ce)
		return 1
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}
