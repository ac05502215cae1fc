package snap

import (
	"fmt"
)

// The 48K SNA layout: a 27-byte register header followed by the RAM image.
// PC is not in the header; it sits on the stack and is recovered with the
// equivalent of a RETN.
const snaHeaderLen = 27

// ReadSNA decodes a 48K SNA snapshot.
func ReadSNA(data []byte) (*Snapshot, error) {
	if len(data) != snaHeaderLen+RAMSize {
		return nil, fmt.Errorf("invalid SNA file size: %d", len(data))
	}
	s := &Snapshot{}
	r := &s.Reg

	r.I = data[0]
	r.SetHL2(word(data, 1))
	r.SetDE2(word(data, 3))
	r.SetBC2(word(data, 5))
	r.F2 = data[7]
	r.A2 = data[8]
	r.SetHL(word(data, 9))
	r.SetDE(word(data, 11))
	r.SetBC(word(data, 13))
	r.IY = word(data, 15)
	r.IX = word(data, 17)
	r.IFF2 = data[19]&0x04 != 0
	r.IFF1 = r.IFF2
	r.R = data[20]
	r.F = data[21]
	r.A = data[22]
	r.SP = word(data, 23)
	r.IM = data[25] & 3
	s.Border = data[26] & 7

	copy(s.Mem[RAMStart:], data[snaHeaderLen:])

	// PC is on the stack
	r.PC = uint16(s.Mem[r.SP]) | uint16(s.Mem[r.SP+1])<<8
	r.SP += 2
	return s, nil
}

// WriteSNA encodes a 48K SNA snapshot. PC is pushed onto the stack first,
// which mutates the two bytes below SP in the output image (not in s).
func WriteSNA(s *Snapshot) ([]byte, error) {
	r := &s.Reg
	sp := r.SP - 2
	if sp < RAMStart {
		return nil, fmt.Errorf("SP=%d: no stack room to store PC", r.SP)
	}

	out := make([]byte, snaHeaderLen+RAMSize)
	out[0] = r.I
	putWord(out, 1, r.HL2())
	putWord(out, 3, r.DE2())
	putWord(out, 5, r.BC2())
	out[7] = r.F2
	out[8] = r.A2
	putWord(out, 9, r.HL())
	putWord(out, 11, r.DE())
	putWord(out, 13, r.BC())
	putWord(out, 15, r.IY)
	putWord(out, 17, r.IX)
	if r.IFF2 {
		out[19] = 0x04
	}
	out[20] = r.R
	out[21] = r.F
	out[22] = r.A
	putWord(out, 23, sp)
	out[25] = r.IM
	out[26] = s.Border

	copy(out[snaHeaderLen:], s.Mem[RAMStart:])
	out[snaHeaderLen+int(sp)-RAMStart] = uint8(r.PC)
	out[snaHeaderLen+int(sp)-RAMStart+1] = uint8(r.PC >> 8)
	return out, nil
}

func word(data []byte, i int) uint16 {
	return uint16(data[i]) | uint16(data[i+1])<<8
}

func putWord(data []byte, i int, v uint16) {
	data[i] = uint8(v)
	data[i+1] = uint8(v >> 8)
}
