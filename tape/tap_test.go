package tape

import (
	"strings"
	"testing"
)

// tapBlock frames a payload the way the TAP container does.
func tapBlock(payload []byte) []byte {
	out := []byte{uint8(len(payload)), uint8(len(payload) >> 8)}
	return append(out, payload...)
}

// romChecksum is the XOR of every payload byte, flag included.
func romChecksum(data []byte) uint8 {
	var sum uint8
	for _, b := range data {
		sum ^= b
	}
	return sum
}

// headerPayload builds a 19-byte header block payload.
func headerPayload(typ uint8, name string, length, p1, p2 int) []byte {
	out := make([]byte, 18)
	out[0] = 0
	out[1] = typ
	copy(out[2:12], "          ")
	copy(out[2:12], name)
	out[12], out[13] = uint8(length), uint8(length>>8)
	out[14], out[15] = uint8(p1), uint8(p1>>8)
	out[16], out[17] = uint8(p2), uint8(p2>>8)
	return append(out, romChecksum(out))
}

// dataPayload wraps bytes in flag and checksum.
func dataPayload(flag uint8, data []byte) []byte {
	out := append([]byte{flag}, data...)
	return append(out, romChecksum(out))
}

func TestParseTAP(t *testing.T) {
	var file []byte
	file = append(file, tapBlock(headerPayload(3, "bytes", 2, 32768, 0))...)
	file = append(file, tapBlock(dataPayload(0xFF, []byte{4, 5}))...)

	blocks, err := ParseTAP(file)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}

	h := &blocks[0]
	if h.Flag() != 0 {
		t.Errorf("header flag = %02X, want 00", h.Flag())
	}
	if h.PilotCount != HeaderPilotCount {
		t.Errorf("header pilot count = %d, want %d", h.PilotCount, HeaderPilotCount)
	}
	if h.PilotPulse != PilotPulse || h.Sync1 != Sync1Pulse || h.Sync2 != Sync2Pulse {
		t.Errorf("header timings = %d/%d/%d", h.PilotPulse, h.Sync1, h.Sync2)
	}

	d := &blocks[1]
	if d.Flag() != 0xFF {
		t.Errorf("data flag = %02X, want FF", d.Flag())
	}
	if d.PilotCount != DataPilotCount {
		t.Errorf("data pilot count = %d, want %d", d.PilotCount, DataPilotCount)
	}
	if len(d.Data) != 4 { // flag + 2 bytes + checksum
		t.Errorf("data length = %d, want 4", len(d.Data))
	}
}

func TestParseTAPTruncated(t *testing.T) {
	_, err := ParseTAP([]byte{0x05})
	if err == nil || !strings.Contains(err.Error(), "truncated block length") {
		t.Errorf("got %v", err)
	}

	_, err = ParseTAP([]byte{0x05, 0x00, 0xFF, 0x01})
	if err == nil || !strings.Contains(err.Error(), "truncated block") {
		t.Errorf("got %v", err)
	}
}

func TestParsePicksFormat(t *testing.T) {
	tap := tapBlock(dataPayload(0xFF, []byte{1}))
	if _, err := Parse("game.tap", tap); err != nil {
		t.Errorf("tap: %v", err)
	}
	if _, err := Parse("game.tzx", tap); err == nil {
		t.Error("tzx parse of a TAP file should fail on the signature")
	}
}
