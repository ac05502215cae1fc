package snap

import (
	"fmt"
)

// The Z80 snapshot format, versions 1 to 3. Version 1 is a 30-byte header
// plus an optionally RLE-compressed 48K image; versions 2 and 3 add an
// extension header and store RAM as individually compressed 16K pages.

// 48K page numbers and the addresses they map to.
var z80Pages = map[uint8]uint16{
	4: 0x8000,
	5: 0xC000,
	8: 0x4000,
}

// ReadZ80 decodes a Z80 snapshot of any of the three versions.
func ReadZ80(data []byte) (*Snapshot, error) {
	if len(data) < 30 {
		return nil, fmt.Errorf("truncated Z80 header: %d bytes", len(data))
	}
	s := &Snapshot{}
	r := &s.Reg

	r.A = data[0]
	r.F = data[1]
	r.SetBC(word(data, 2))
	r.SetHL(word(data, 4))
	r.PC = word(data, 6)
	r.SP = word(data, 8)
	r.I = data[10]

	flags1 := data[12]
	if flags1 == 255 { // historical quirk of very old files
		flags1 = 1
	}
	r.R = data[11]&0x7F | flags1<<7
	s.Border = (flags1 >> 1) & 7

	r.SetDE(word(data, 13))
	r.SetBC2(word(data, 15))
	r.SetDE2(word(data, 17))
	r.SetHL2(word(data, 19))
	r.A2 = data[21]
	r.F2 = data[22]
	r.IY = word(data, 23)
	r.IX = word(data, 25)
	r.IFF1 = data[27] != 0
	r.IFF2 = data[28] != 0
	r.IM = data[29] & 3

	if r.PC != 0 { // version 1
		ram := data[30:]
		if flags1&0x20 != 0 {
			var err error
			ram, err = decompressV1(ram)
			if err != nil {
				return nil, err
			}
		}
		if len(ram) < RAMSize {
			return nil, fmt.Errorf("truncated Z80 RAM image: %d bytes", len(ram))
		}
		copy(s.Mem[RAMStart:], ram[:RAMSize])
		return s, nil
	}

	// versions 2 and 3
	if len(data) < 32 {
		return nil, fmt.Errorf("truncated Z80 extension header")
	}
	extLen := int(word(data, 30))
	pos := 32 + extLen
	if pos > len(data) || (extLen != 23 && extLen != 54 && extLen != 55) {
		return nil, fmt.Errorf("invalid Z80 extension header length: %d", extLen)
	}
	r.PC = word(data, 32)

	for pos < len(data) {
		if pos+3 > len(data) {
			return nil, fmt.Errorf("truncated Z80 page header at offset %d", pos)
		}
		n := int(word(data, pos))
		page := data[pos+2]
		pos += 3
		addr, ok := z80Pages[page]
		if !ok {
			return nil, fmt.Errorf("unexpected Z80 page number: %d", page)
		}
		if n == 0xFFFF { // stored uncompressed
			if pos+PageSize > len(data) {
				return nil, fmt.Errorf("truncated Z80 page %d", page)
			}
			copy(s.Mem[addr:], data[pos:pos+PageSize])
			pos += PageSize
			continue
		}
		if pos+n > len(data) {
			return nil, fmt.Errorf("truncated Z80 page %d", page)
		}
		out, err := decompress(data[pos:pos+n], PageSize)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		copy(s.Mem[addr:], out)
		pos += n
	}
	return s, nil
}

// WriteZ80 encodes a version 3 Z80 snapshot with compressed pages.
func WriteZ80(s *Snapshot) []byte {
	r := &s.Reg
	out := make([]byte, 32+54)

	out[0] = r.A
	out[1] = r.F
	putWord(out, 2, r.BC())
	putWord(out, 4, r.HL())
	// PC stays 0 at offset 6: the marker for versions 2+
	putWord(out, 8, r.SP)
	out[10] = r.I
	out[11] = r.R & 0x7F
	out[12] = r.R>>7 | s.Border<<1
	putWord(out, 13, r.DE())
	putWord(out, 15, r.BC2())
	putWord(out, 17, r.DE2())
	putWord(out, 19, r.HL2())
	out[21] = r.A2
	out[22] = r.F2
	putWord(out, 23, r.IY)
	putWord(out, 25, r.IX)
	if r.IFF1 {
		out[27] = 1
	}
	if r.IFF2 {
		out[28] = 1
	}
	out[29] = r.IM
	putWord(out, 30, 54) // version 3 extension header
	putWord(out, 32, r.PC)
	// out[34], hardware mode: 0 = 48K

	for _, page := range []uint8{4, 5, 8} {
		addr := z80Pages[page]
		data := compress(s.Mem[addr : int(addr)+PageSize])
		hdr := make([]byte, 3)
		putWord(hdr, 0, uint16(len(data)))
		hdr[2] = page
		out = append(out, hdr...)
		out = append(out, data...)
	}
	return out
}

// compress applies the Z80 RLE scheme: runs of five or more identical
// bytes become ED ED count value; runs of two or more ED bytes are always
// encoded; a lone ED swallows the next byte verbatim so it can never be
// misread as an escape.
func compress(data []byte) []byte {
	out := make([]byte, 0, len(data))
	i := 0
	for i < len(data) {
		v := data[i]
		run := 1
		for i+run < len(data) && data[i+run] == v && run < 255 {
			run++
		}
		switch {
		case v == 0xED && run >= 2:
			out = append(out, 0xED, 0xED, uint8(run), v)
			i += run
		case v == 0xED:
			out = append(out, v)
			i++
			if i < len(data) {
				out = append(out, data[i])
				i++
			}
		case run >= 5:
			out = append(out, 0xED, 0xED, uint8(run), v)
			i += run
		default:
			for j := 0; j < run; j++ {
				out = append(out, v)
			}
			i += run
		}
	}
	return out
}

// decompress expands a compressed page to exactly size bytes.
func decompress(data []byte, size int) ([]byte, error) {
	out := make([]byte, 0, size)
	i := 0
	for i < len(data) {
		if data[i] == 0xED && i+3 < len(data) && data[i+1] == 0xED {
			n := int(data[i+2])
			v := data[i+3]
			for j := 0; j < n; j++ {
				out = append(out, v)
			}
			i += 4
			continue
		}
		out = append(out, data[i])
		i++
	}
	if len(out) != size {
		return nil, fmt.Errorf("decompressed to %d bytes, want %d", len(out), size)
	}
	return out, nil
}

// decompressV1 expands a version 1 image, which ends with the marker
// 00 ED ED 00 instead of carrying a length.
func decompressV1(data []byte) ([]byte, error) {
	for i := 0; i+3 < len(data); i++ {
		if data[i] == 0 && data[i+1] == 0xED && data[i+2] == 0xED && data[i+3] == 0 {
			return decompress(data[:i], RAMSize)
		}
	}
	return decompress(data, RAMSize)
}
