// Command gimg is the image codec's command-line front-end: encodes a
// canonical binary (P5, maxval 255) PGM file to the GIMG container, or
// decodes a GIMG file back to PGM.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	agolomb "github.com/go-golomb/agolomb"
	"github.com/go-golomb/agolomb/cmd/cliinfo"
	"github.com/go-golomb/agolomb/golomb"
	"github.com/go-golomb/agolomb/image"
	"github.com/go-golomb/agolomb/image/pgm"
	"github.com/go-golomb/agolomb/internal"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  Encoding: gimg -e [options] <input.pgm> <output.gimg>")
	fmt.Fprintln(os.Stderr, "  Decoding: gimg -d <input.gimg> <output.pgm>")
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "  -p <0-6>  Predictor: 0=Left, 1=Top, 2=Top-Left, 3=Average,")
	fmt.Fprintln(os.Stderr, "            4=Paeth [default], 5=a+(b-c)/2, 6=b+(a-c)/2")
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
	predictor := image.Paeth
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

			if v < 0 || v > 6 {
				return fail(fmt.Errorf("invalid predictor type (must be 0-6)"))
			}

			predictor = image.Predictor(v)

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
		if internal.SniffMagic(peek) != internal.PgmMagic {
			return fail(agolomb.NewError(agolomb.InvalidFormat, "gimg: input is not a binary PGM file"))
		}
	}

	pgmFile, err := pgm.Read(br)

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

	opts := image.Options{Predictor: predictor, Adaptive: adaptive, FixedM: fixedM, Mode: mode, Listener: listener}
	img := &image.Image{Width: pgmFile.Width, Height: pgmFile.Height, Pixels: pgmFile.Pixels}

	if err := image.Encode(out, img, opts); err != nil {
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

	img, err := image.Decode(in, listener)

	if err != nil {
		return fail(err)
	}

	out, err := os.Create(files[1])

	if err != nil {
		return fail(err)
	}

	defer out.Close()

	pgmFile := &pgm.File{Width: img.Width, Height: img.Height, Pixels: img.Pixels}

	if err := pgm.Write(out, pgmFile); err != nil {
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
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}
