// Command agolverify compares two WAV files sample-for-sample, reporting
// the first few differing samples found. Intended to confirm a round trip
// through agol -e / agol -d is lossless, supplementing the compression
// tools themselves with an independent correctness check.
package main

import (
	"fmt"
	"os"

	"github.com/go-golomb/agolomb/audio/wav"
)

const maxReportedDiffs = 5

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	if len(args) != 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s file1.wav file2.wav\n", args[0])
		return 1
	}

	f1, err := openWav(args[1])

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", args[1], err)
		return 1
	}

	f2, err := openWav(args[2])

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", args[2], err)
		return 1
	}

	if len(f1.Samples) != len(f2.Samples) || f1.Channels != f2.Channels {
		fmt.Println("Files have different dimensions")
		fmt.Printf("File 1: %d samples, %d channels\n", len(f1.Samples), f1.Channels)
		fmt.Printf("File 2: %d samples, %d channels\n", len(f2.Samples), f2.Channels)
		return 1
	}

	differences := 0

	for i := range f1.Samples {
		if f1.Samples[i] != f2.Samples[i] {
			differences++

			if differences <= maxReportedDiffs {
				fmt.Printf("Diff at sample %d: %d vs %d\n", i, f1.Samples[i], f2.Samples[i])
			}
		}
	}

	if differences == 0 {
		fmt.Println("Audio samples are IDENTICAL - lossless compression verified!")
		return 0
	}

	fmt.Printf("Found %d different samples out of %d\n", differences, len(f1.Samples))
	return 1
}

func openWav(path string) (*wav.File, error) {
	f, err := os.Open(path)

	if err != nil {
		return nil, err
	}

	defer f.Close()

	return wav.Read(f)
}
