package hw

import (
	"fmt"
	"sort"
	"strings"
)

// Flag bits within F. F5 and F3 are the undocumented copies of result bits
// 5 and 3; loader timing code in the wild depends on them, so they are
// modelled exactly.
const (
	FC uint8 = 1 << iota // carry
	FN                   // add/subtract
	FP                   // parity/overflow
	F3                   // copy of result bit 3
	FH                   // half carry
	F5                   // copy of result bit 5
	FZ                   // zero
	FS                   // sign
)

// Registers is the full Z80 register file, shadow set included. The 16-bit
// pairs are stored as their 8-bit halves; the pair accessors below compose
// them on demand.
type Registers struct {
	A, F, B, C, D, E, H, L uint8

	// shadow set, reached through EX AF,AF' and EXX
	A2, F2, B2, C2, D2, E2, H2, L2 uint8

	IX, IY, SP, PC uint16

	I uint8 // interrupt vector base
	R uint8 // memory refresh counter

	IFF1, IFF2 bool
	IM         uint8
}

func (r *Registers) AF() uint16 { return uint16(r.A)<<8 | uint16(r.F) }
func (r *Registers) BC() uint16 { return uint16(r.B)<<8 | uint16(r.C) }
func (r *Registers) DE() uint16 { return uint16(r.D)<<8 | uint16(r.E) }
func (r *Registers) HL() uint16 { return uint16(r.H)<<8 | uint16(r.L) }

func (r *Registers) SetAF(v uint16) { r.A, r.F = uint8(v>>8), uint8(v) }
func (r *Registers) SetBC(v uint16) { r.B, r.C = uint8(v>>8), uint8(v) }
func (r *Registers) SetDE(v uint16) { r.D, r.E = uint8(v>>8), uint8(v) }
func (r *Registers) SetHL(v uint16) { r.H, r.L = uint8(v>>8), uint8(v) }

func (r *Registers) AF2() uint16 { return uint16(r.A2)<<8 | uint16(r.F2) }
func (r *Registers) BC2() uint16 { return uint16(r.B2)<<8 | uint16(r.C2) }
func (r *Registers) DE2() uint16 { return uint16(r.D2)<<8 | uint16(r.E2) }
func (r *Registers) HL2() uint16 { return uint16(r.H2)<<8 | uint16(r.L2) }

func (r *Registers) SetAF2(v uint16) { r.A2, r.F2 = uint8(v>>8), uint8(v) }
func (r *Registers) SetBC2(v uint16) { r.B2, r.C2 = uint8(v>>8), uint8(v) }
func (r *Registers) SetDE2(v uint16) { r.D2, r.E2 = uint8(v>>8), uint8(v) }
func (r *Registers) SetHL2(v uint16) { r.H2, r.L2 = uint8(v>>8), uint8(v) }

func (r *Registers) IXH() uint8 { return uint8(r.IX >> 8) }
func (r *Registers) IXL() uint8 { return uint8(r.IX) }
func (r *Registers) IYH() uint8 { return uint8(r.IY >> 8) }
func (r *Registers) IYL() uint8 { return uint8(r.IY) }

func (r *Registers) SetIXH(v uint8) { r.IX = r.IX&0x00FF | uint16(v)<<8 }
func (r *Registers) SetIXL(v uint8) { r.IX = r.IX&0xFF00 | uint16(v) }
func (r *Registers) SetIYH(v uint8) { r.IY = r.IY&0x00FF | uint16(v)<<8 }
func (r *Registers) SetIYL(v uint8) { r.IY = r.IY&0xFF00 | uint16(v) }

// IncR advances the refresh counter by n M1 cycles. Only the low seven
// bits count; bit 7 is preserved, as LD R,A left it.
func (r *Registers) IncR(n uint8) {
	r.R = r.R&0x80 | (r.R+n)&0x7F
}

func (r *Registers) exAF() {
	r.A, r.A2 = r.A2, r.A
	r.F, r.F2 = r.F2, r.F
}

func (r *Registers) exx() {
	r.B, r.B2 = r.B2, r.B
	r.C, r.C2 = r.C2, r.C
	r.D, r.D2 = r.D2, r.D
	r.E, r.E2 = r.E2, r.E
	r.H, r.H2 = r.H2, r.H
	r.L, r.L2 = r.L2, r.L
}

// regSlot describes one register as addressable by name. Shadow registers
// use a ^ prefix (^a, ^hl).
type regSlot struct {
	size int // 8 or 16
	get  func(r *Registers) uint16
	set  func(r *Registers, v uint16)
}

func slot8(get func(r *Registers) *uint8) regSlot {
	return regSlot{
		size: 8,
		get:  func(r *Registers) uint16 { return uint16(*get(r)) },
		set:  func(r *Registers, v uint16) { *get(r) = uint8(v) },
	}
}

func slot16(get func(r *Registers) uint16, set func(r *Registers, v uint16)) regSlot {
	return regSlot{size: 16, get: get, set: set}
}

var regSlots = map[string]regSlot{
	"a": slot8(func(r *Registers) *uint8 { return &r.A }),
	"f": slot8(func(r *Registers) *uint8 { return &r.F }),
	"b": slot8(func(r *Registers) *uint8 { return &r.B }),
	"c": slot8(func(r *Registers) *uint8 { return &r.C }),
	"d": slot8(func(r *Registers) *uint8 { return &r.D }),
	"e": slot8(func(r *Registers) *uint8 { return &r.E }),
	"h": slot8(func(r *Registers) *uint8 { return &r.H }),
	"l": slot8(func(r *Registers) *uint8 { return &r.L }),

	"^a": slot8(func(r *Registers) *uint8 { return &r.A2 }),
	"^f": slot8(func(r *Registers) *uint8 { return &r.F2 }),
	"^b": slot8(func(r *Registers) *uint8 { return &r.B2 }),
	"^c": slot8(func(r *Registers) *uint8 { return &r.C2 }),
	"^d": slot8(func(r *Registers) *uint8 { return &r.D2 }),
	"^e": slot8(func(r *Registers) *uint8 { return &r.E2 }),
	"^h": slot8(func(r *Registers) *uint8 { return &r.H2 }),
	"^l": slot8(func(r *Registers) *uint8 { return &r.L2 }),

	"i": slot8(func(r *Registers) *uint8 { return &r.I }),
	"r": slot8(func(r *Registers) *uint8 { return &r.R }),

	"af": slot16((*Registers).AF, (*Registers).SetAF),
	"bc": slot16((*Registers).BC, (*Registers).SetBC),
	"de": slot16((*Registers).DE, (*Registers).SetDE),
	"hl": slot16((*Registers).HL, (*Registers).SetHL),

	"^af": slot16((*Registers).AF2, (*Registers).SetAF2),
	"^bc": slot16((*Registers).BC2, (*Registers).SetBC2),
	"^de": slot16((*Registers).DE2, (*Registers).SetDE2),
	"^hl": slot16((*Registers).HL2, (*Registers).SetHL2),

	"ix": slot16(
		func(r *Registers) uint16 { return r.IX },
		func(r *Registers, v uint16) { r.IX = v },
	),
	"iy": slot16(
		func(r *Registers) uint16 { return r.IY },
		func(r *Registers, v uint16) { r.IY = v },
	),
	"sp": slot16(
		func(r *Registers) uint16 { return r.SP },
		func(r *Registers, v uint16) { r.SP = v },
	),
	"pc": slot16(
		func(r *Registers) uint16 { return r.PC },
		func(r *Registers, v uint16) { r.PC = v },
	),

	"ixh": slot16(
		func(r *Registers) uint16 { return uint16(r.IXH()) },
		func(r *Registers, v uint16) { r.SetIXH(uint8(v)) },
	),
	"ixl": slot16(
		func(r *Registers) uint16 { return uint16(r.IXL()) },
		func(r *Registers, v uint16) { r.SetIXL(uint8(v)) },
	),
	"iyh": slot16(
		func(r *Registers) uint16 { return uint16(r.IYH()) },
		func(r *Registers, v uint16) { r.SetIYH(uint8(v)) },
	),
	"iyl": slot16(
		func(r *Registers) uint16 { return uint16(r.IYL()) },
		func(r *Registers, v uint16) { r.SetIYL(uint8(v)) },
	),
}

func init() {
	// ixh and friends hold 8-bit values even though they are stored through
	// 16-bit slots.
	for _, name := range []string{"ixh", "ixl", "iyh", "iyl"} {
		s := regSlots[name]
		s.size = 8
		regSlots[name] = s
	}
}

// SetByName assigns a register by its lowercase name ("a", "^hl", "ixl").
// Values out of range for the register's width are rejected.
func (r *Registers) SetByName(name string, val int) error {
	s, ok := regSlots[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("invalid register: %s", name)
	}
	max := 0xFF
	if s.size == 16 {
		max = 0xFFFF
	}
	if val < 0 || val > max {
		return fmt.Errorf("register %s: value %d out of range", name, val)
	}
	s.set(r, uint16(val))
	return nil
}

// GetByName reads a register by name; ok is false for unknown names.
func (r *Registers) GetByName(name string) (uint16, bool) {
	s, ok := regSlots[strings.ToLower(name)]
	if !ok {
		return 0, false
	}
	return s.get(r), true
}

// RegisterNames lists every name SetByName accepts, sorted.
func RegisterNames() []string {
	names := make([]string, 0, len(regSlots))
	for n := range regSlots {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (r *Registers) String() string {
	return fmt.Sprintf(
		"AF=%04X BC=%04X DE=%04X HL=%04X IX=%04X IY=%04X SP=%04X PC=%04X I=%02X R=%02X IM%d IFF=%t",
		r.AF(), r.BC(), r.DE(), r.HL(), r.IX, r.IY, r.SP, r.PC, r.I, r.R, r.IM, r.IFF1,
	)
}
