// Package snap reads and writes 48K machine snapshots in the SNA and Z80
// formats. Layouts are fixed-offset and bit-exact; nothing is inferred.
package snap

import (
	"fmt"
	"strings"

	"spector/hw"
)

// RAMSize is the 48K machine's RAM, everything above the ROM area.
const (
	RAMStart = 0x4000
	RAMSize  = 0xC000
	PageSize = 0x4000
)

// Snapshot is a complete machine state: registers, border colour and the
// full 64 KiB memory image (the ROM area is carried but not serialized by
// formats that exclude it).
type Snapshot struct {
	Reg    hw.Registers
	Border uint8
	Mem    [0x10000]byte
}

// Read decodes a snapshot, picking the format from the filename extension.
func Read(name string, data []byte) (*Snapshot, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(name), ".sna"):
		return ReadSNA(data)
	case strings.HasSuffix(strings.ToLower(name), ".z80"):
		return ReadZ80(data)
	}
	return nil, fmt.Errorf("unknown snapshot format: %s", name)
}

// Write encodes a snapshot, picking the format from the filename
// extension.
func Write(name string, s *Snapshot) ([]byte, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(name), ".sna"):
		return WriteSNA(s)
	case strings.HasSuffix(strings.ToLower(name), ".z80"):
		return WriteZ80(s), nil
	}
	return nil, fmt.Errorf("unknown snapshot format: %s", name)
}
