// Package tape decodes the TAP and TZX cassette container formats into a
// flat sequence of logical blocks. Parsing is eager and the result is
// immutable; loaders consume the blocks in file order.
package tape

// Standard-speed pulse widths in T-states, as produced by the 48K ROM
// SAVE routine.
const (
	PilotPulse = 2168
	Sync1Pulse = 667
	Sync2Pulse = 735
	ZeroPulse  = 855
	OnePulse   = 1710

	// Pilot pulse counts differ between header and data blocks; the flag
	// byte decides which kind a block is.
	HeaderPilotCount = 8063
	DataPilotCount   = 3223
)

// Block is one logical tape block. Data blocks carry their raw bytes (flag
// and checksum included) plus the pulse timings needed to replay them;
// tone and pulse-sequence blocks carry pulses only; informational blocks
// carry neither and exist just to keep file order intact.
type Block struct {
	ID uint8 // TZX block ID; TAP blocks are presented as 0x10

	// Data is the block payload including the leading flag byte and the
	// trailing checksum. nil for non-data blocks.
	Data []byte

	PilotPulse int // pilot pulse width, T-states
	PilotCount int
	Sync1      int
	Sync2      int
	ZeroPulse  int
	OnePulse   int
	UsedBits   int // bits used in the final data byte, 1-8
	Pause      int // trailing pause, ms

	// Pulses holds the widths for pure-tone and pulse-sequence blocks.
	Pulses []int
}

// HasData reports whether the block carries loadable bytes.
func (b *Block) HasData() bool {
	return len(b.Data) > 0
}

// Flag returns the leading flag byte (0x00 header, 0xFF data, or whatever
// a custom loader wrote).
func (b *Block) Flag() uint8 {
	if len(b.Data) == 0 {
		return 0
	}
	return b.Data[0]
}

// standardBlock builds a Block with ROM timings for the given payload.
func standardBlock(data []byte, pause int) Block {
	count := DataPilotCount
	if len(data) > 0 && data[0] < 128 {
		count = HeaderPilotCount
	}
	return Block{
		ID:         0x10,
		Data:       data,
		PilotPulse: PilotPulse,
		PilotCount: count,
		Sync1:      Sync1Pulse,
		Sync2:      Sync2Pulse,
		ZeroPulse:  ZeroPulse,
		OnePulse:   OnePulse,
		UsedBits:   8,
		Pause:      pause,
	}
}
