package tape

import (
	"fmt"
	"strings"
)

// ParseTAP decodes a TAP container: a bare sequence of length-prefixed
// blocks, each carrying flag byte, payload and checksum.
func ParseTAP(data []byte) ([]Block, error) {
	var blocks []Block
	pos := 0
	for pos < len(data) {
		if pos+2 > len(data) {
			return nil, fmt.Errorf("truncated block length at offset %d", pos)
		}
		n := int(data[pos]) | int(data[pos+1])<<8
		pos += 2
		if pos+n > len(data) {
			return nil, fmt.Errorf("truncated block at offset %d: %d bytes declared, %d available", pos-2, n, len(data)-pos)
		}
		blocks = append(blocks, standardBlock(data[pos:pos+n], 1000))
		pos += n
	}
	return blocks, nil
}

// Parse decodes a tape container, picking the format from the filename
// extension.
func Parse(name string, data []byte) ([]Block, error) {
	if strings.HasSuffix(strings.ToLower(name), ".tzx") {
		return ParseTZX(data)
	}
	return ParseTAP(data)
}
