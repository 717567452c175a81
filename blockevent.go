package agolomb

import (
	"fmt"
	"time"
)

const (
	// EvtEncodeBlock fires after a block has been fully Golomb-encoded.
	EvtEncodeBlock = 0
	// EvtDecodeBlock fires after a block has been fully reconstructed.
	EvtDecodeBlock = 1
	// EvtStreamDone fires once, after the last block of a channel is processed.
	EvtStreamDone = 2
)

// BlockEvent is a per-block progress notification delivered to an optional
// Listener during encode or decode. It carries the fields a Golomb block
// processor actually has on hand: the block's position within its channel,
// the Golomb parameter chosen for it, and how many bits it cost.
type BlockEvent struct {
	eventType int
	channel   int
	index     int
	elements  int
	m         uint32
	bits      uint64
	eventTime time.Time
}

// NewBlockEvent creates a BlockEvent. channel distinguishes stereo channels
// (0=mono/left/mid, 1=right/side); index is the 0-based block index within
// that channel.
func NewBlockEvent(eventType, channel, index, elements int, m uint32, bits uint64) *BlockEvent {
	return &BlockEvent{eventType: eventType, channel: channel, index: index,
		elements: elements, m: m, bits: bits, eventTime: time.Now()}
}

// Type returns one of EvtEncodeBlock, EvtDecodeBlock, EvtStreamDone.
func (this *BlockEvent) Type() int {
	return this.eventType
}

// Channel returns the channel index this event belongs to.
func (this *BlockEvent) Channel() int {
	return this.channel
}

// Index returns the 0-based block index within the channel.
func (this *BlockEvent) Index() int {
	return this.index
}

// Elements returns the number of samples/pixels in the block.
func (this *BlockEvent) Elements() int {
	return this.elements
}

// M returns the Golomb parameter used for this block.
func (this *BlockEvent) M() uint32 {
	return this.m
}

// Bits returns the number of payload bits the block occupies on the wire.
func (this *BlockEvent) Bits() uint64 {
	return this.bits
}

// Time returns when the event was created.
func (this *BlockEvent) Time() time.Time {
	return this.eventTime
}

// String returns a one-line human-readable rendering, used by the CLI's
// verbose printer.
func (this *BlockEvent) String() string {
	switch this.eventType {
	case EvtEncodeBlock:
		return fmt.Sprintf("channel %d: block %d encoded (%d elements, m=%d, %d bits)",
			this.channel, this.index, this.elements, this.m, this.bits)

	case EvtDecodeBlock:
		return fmt.Sprintf("channel %d: block %d decoded (%d elements, m=%d, %d bits)",
			this.channel, this.index, this.elements, this.m, this.bits)

	case EvtStreamDone:
		return fmt.Sprintf("channel %d: stream done", this.channel)

	default:
		return fmt.Sprintf("channel %d: block %d", this.channel, this.index)
	}
}

// Listener is implemented by event processors that want per-block progress
// notifications from an encode or decode call.
type Listener interface {
	// ProcessEvent is called whenever a Listener receives a BlockEvent.
	ProcessEvent(evt *BlockEvent)
}
