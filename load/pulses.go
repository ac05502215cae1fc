package load

import (
	"spector/tape"
)

// tStatesPerMs converts block pause fields (milliseconds) to T-states at
// the 48K clock rate of 3.5 MHz.
const tStatesPerMs = 3500

// pulseStream turns the tape's block sequence into a single run of edge
// intervals, consumed as the simulated loader polls the EAR port. Blocks
// are expanded one at a time; informational blocks contribute only their
// pause.
type pulseStream struct {
	blocks []tape.Block
	next   int

	queue []int
	qpos  int
	gap   int64 // accumulated pause before the next edge
}

func newPulseStream(blocks []tape.Block) *pulseStream {
	return &pulseStream{blocks: blocks}
}

// nextEdge returns the interval in T-states until the next edge, or
// ok=false once the tape has run out.
func (s *pulseStream) nextEdge() (int64, bool) {
	for s.qpos >= len(s.queue) {
		if s.next >= len(s.blocks) {
			return 0, false
		}
		blk := &s.blocks[s.next]
		s.next++
		s.queue = blockPulses(blk)
		s.qpos = 0
		if len(s.queue) == 0 {
			s.gap += int64(blk.Pause) * tStatesPerMs
		}
	}
	d := int64(s.queue[s.qpos]) + s.gap
	s.gap = 0
	s.qpos++
	if s.qpos == len(s.queue) {
		// block finished: its pause precedes the next block's first edge
		s.gap += int64(s.blocks[s.next-1].Pause) * tStatesPerMs
	}
	return d, true
}

// takeBlock abandons whatever remains of the current block's pulses and
// hands over the next block whole, as the native loader and the LD-BYTES
// trap consume blocks. nil at end of tape.
func (s *pulseStream) takeBlock() *tape.Block {
	s.queue = nil
	s.qpos = 0
	if s.next >= len(s.blocks) {
		return nil
	}
	blk := &s.blocks[s.next]
	s.next++
	return blk
}

// finished reports whether every block and pulse has been consumed.
func (s *pulseStream) finished() bool {
	return s.next >= len(s.blocks) && s.qpos >= len(s.queue)
}

// blockPulses expands one block into its pulse widths: pilot tone, sync
// pair, then two pulses per data bit, most significant bit first.
func blockPulses(b *tape.Block) []int {
	if len(b.Pulses) > 0 {
		return b.Pulses
	}
	if len(b.Data) == 0 {
		return nil
	}

	bits := (len(b.Data) - 1) * 8
	used := b.UsedBits
	if used == 0 || used > 8 {
		used = 8
	}
	bits += used

	pulses := make([]int, 0, b.PilotCount+2+2*bits)
	for i := 0; i < b.PilotCount; i++ {
		pulses = append(pulses, b.PilotPulse)
	}
	if b.Sync1 > 0 {
		pulses = append(pulses, b.Sync1)
	}
	if b.Sync2 > 0 {
		pulses = append(pulses, b.Sync2)
	}
	for i, v := range b.Data {
		n := 8
		if i == len(b.Data)-1 {
			n = used
		}
		for bit := 0; bit < n; bit++ {
			w := b.ZeroPulse
			if v&0x80 != 0 {
				w = b.OnePulse
			}
			pulses = append(pulses, w, w)
			v <<= 1
		}
	}
	return pulses
}
