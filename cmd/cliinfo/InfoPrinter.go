// Package cliinfo provides a shared agolomb.Listener implementation for the
// agol and gimg command-line front-ends.
package cliinfo

import (
	"errors"
	"fmt"
	"io"
	"sync"

	agolomb "github.com/go-golomb/agolomb"
)

// InfoPrinter implements agolomb.Listener, printing one line per block event
// to an io.Writer when verbose output is requested. Blocks are processed
// strictly in order on a single goroutine, so ProcessEvent writes
// synchronously with no need to buffer or reorder events.
type InfoPrinter struct {
	writer io.Writer
	level  uint
	lock   sync.Mutex
}

// NewInfoPrinter creates an InfoPrinter. level 0 suppresses all output,
// level 1 prints one line per block, level 2 additionally prints the
// stream-done summary.
func NewInfoPrinter(level uint, writer io.Writer) (*InfoPrinter, error) {
	if writer == nil {
		return nil, errors.New("invalid null writer parameter")
	}

	return &InfoPrinter{writer: writer, level: level}, nil
}

// ProcessEvent writes a one-line record for evt, gated by the printer's level.
func (this *InfoPrinter) ProcessEvent(evt *agolomb.BlockEvent) {
	if this.level == 0 {
		return
	}

	if evt.Type() == agolomb.EvtStreamDone && this.level < 2 {
		return
	}

	this.lock.Lock()
	defer this.lock.Unlock()

	fmt.Fprintln(this.writer, evt.String())
}
