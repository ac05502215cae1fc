package hw

import (
	"fmt"
)

var regNames = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}
var rpNames = [4]string{"BC", "DE", "HL", "SP"}
var rp2Names = [4]string{"BC", "DE", "HL", "AF"}
var condNames = [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}
var aluNames = [8]string{"ADD A,", "ADC A,", "SUB ", "SBC A,", "AND ", "XOR ", "OR ", "CP "}
var rotNames = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SLL", "SRL"}

// disasm renders the instruction encoded in data (prefixes included) as a
// mnemonic. It only ever sees encodings the executor just accepted, so a
// defensive "?" covers the truncation cases without further ceremony.
func disasm(data []byte, addr uint16) string {
	d := dis{data: data, addr: addr}
	return d.decode()
}

type dis struct {
	data []byte
	addr uint16
	pos  int
}

func (d *dis) next() uint8 {
	if d.pos >= len(d.data) {
		return 0
	}
	b := d.data[d.pos]
	d.pos++
	return b
}

func (d *dis) imm8() string {
	return fmt.Sprintf("$%02X", d.next())
}

func (d *dis) imm16() string {
	lo := d.next()
	hi := d.next()
	return fmt.Sprintf("$%04X", uint16(hi)<<8|uint16(lo))
}

// rel resolves a relative jump target. The displacement is taken from the
// end of the full instruction.
func (d *dis) rel() string {
	disp := int8(d.next())
	return fmt.Sprintf("$%04X", d.addr+uint16(len(d.data))+uint16(int16(disp)))
}

func (d *dis) decode() string {
	op := d.next()
	switch op {
	case 0xCB:
		return d.decodeCB("", 0)
	case 0xED:
		return d.decodeED()
	case 0xDD:
		return d.decodeIndexed("IX")
	case 0xFD:
		return d.decodeIndexed("IY")
	}
	return d.decodeBase(op, "")
}

// idx formats "(IX+$05)" / "(IX-$05)" from the displacement byte.
func idx(name string, disp uint8) string {
	v := int8(disp)
	if v < 0 {
		return fmt.Sprintf("(%s-$%02X)", name, -int16(v))
	}
	return fmt.Sprintf("(%s+$%02X)", name, v)
}

func (d *dis) decodeIndexed(name string) string {
	if d.pos >= len(d.data) {
		// a prefix with nothing behind it executes as a 4T no-op
		return "NOP*"
	}
	op := d.next()
	if op == 0xCB {
		disp := d.next()
		return d.decodeCB(name, disp)
	}
	return d.decodeBase(op, name)
}

// reg names register operand i with the index substitutions applied: H and
// L become the index halves, (HL) becomes (IX+d) with d consumed here.
func (d *dis) reg(i int, ixn string) string {
	if ixn == "" {
		return regNames[i]
	}
	switch i {
	case 4:
		return ixn + "h"
	case 5:
		return ixn + "l"
	case 6:
		return idx(ixn, d.next())
	}
	return regNames[i]
}

func (d *dis) rp(i int, ixn string) string {
	if i == 2 && ixn != "" {
		return ixn
	}
	return rpNames[i]
}

func (d *dis) decodeBase(op uint8, ixn string) string {
	if op >= 0x40 && op < 0x80 {
		if op == 0x76 {
			return "HALT"
		}
		dst := int(op>>3) & 7
		src := int(op) & 7
		// The plain register keeps its name next to an indexed memory
		// operand.
		if src == 6 {
			return "LD " + regNames[dst] + "," + d.reg(6, ixn)
		}
		if dst == 6 {
			return "LD " + d.reg(6, ixn) + "," + regNames[src]
		}
		return "LD " + d.reg(dst, ixn) + "," + d.reg(src, ixn)
	}
	if op >= 0x80 && op < 0xC0 {
		return aluNames[(op>>3)&7] + d.reg(int(op)&7, ixn)
	}

	switch op {
	case 0x00:
		return "NOP"
	case 0x01, 0x11, 0x21, 0x31:
		return "LD " + d.rp(int(op>>4), ixn) + "," + d.imm16()
	case 0x02:
		return "LD (BC),A"
	case 0x12:
		return "LD (DE),A"
	case 0x0A:
		return "LD A,(BC)"
	case 0x1A:
		return "LD A,(DE)"
	case 0x03, 0x13, 0x23, 0x33:
		return "INC " + d.rp(int(op>>4), ixn)
	case 0x0B, 0x1B, 0x2B, 0x3B:
		return "DEC " + d.rp(int(op>>4), ixn)
	case 0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x34, 0x3C:
		return "INC " + d.reg(int(op>>3), ixn)
	case 0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x35, 0x3D:
		return "DEC " + d.reg(int(op>>3), ixn)
	case 0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x36, 0x3E:
		target := d.reg(int(op>>3), ixn)
		return "LD " + target + "," + d.imm8()
	case 0x07:
		return "RLCA"
	case 0x0F:
		return "RRCA"
	case 0x17:
		return "RLA"
	case 0x1F:
		return "RRA"
	case 0x27:
		return "DAA"
	case 0x2F:
		return "CPL"
	case 0x37:
		return "SCF"
	case 0x3F:
		return "CCF"
	case 0x08:
		return "EX AF,AF'"
	case 0xD9:
		return "EXX"
	case 0x09, 0x19, 0x29, 0x39:
		return "ADD " + d.rp(2, ixn) + "," + d.rp(int(op>>4), ixn)
	case 0x10:
		return "DJNZ " + d.rel()
	case 0x18:
		return "JR " + d.rel()
	case 0x20, 0x28, 0x30, 0x38:
		return "JR " + condNames[int(op>>3)-4] + "," + d.rel()
	case 0x22:
		return "LD (" + d.imm16() + ")," + d.rp(2, ixn)
	case 0x2A:
		return "LD " + d.rp(2, ixn) + ",(" + d.imm16() + ")"
	case 0x32:
		return "LD (" + d.imm16() + "),A"
	case 0x3A:
		return "LD A,(" + d.imm16() + ")"
	case 0xC0, 0xC8, 0xD0, 0xD8, 0xE0, 0xE8, 0xF0, 0xF8:
		return "RET " + condNames[(op>>3)&7]
	case 0xC9:
		return "RET"
	case 0xC1, 0xD1, 0xE1, 0xF1:
		return "POP " + d.rp2(int(op>>4)&3, ixn)
	case 0xC5, 0xD5, 0xE5, 0xF5:
		return "PUSH " + d.rp2(int(op>>4)&3, ixn)
	case 0xC3:
		return "JP " + d.imm16()
	case 0xC2, 0xCA, 0xD2, 0xDA, 0xE2, 0xEA, 0xF2, 0xFA:
		return "JP " + condNames[(op>>3)&7] + "," + d.imm16()
	case 0xE9:
		return "JP (" + d.rp(2, ixn) + ")"
	case 0xCD:
		return "CALL " + d.imm16()
	case 0xC4, 0xCC, 0xD4, 0xDC, 0xE4, 0xEC, 0xF4, 0xFC:
		return "CALL " + condNames[(op>>3)&7] + "," + d.imm16()
	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF:
		return fmt.Sprintf("RST $%02X", op&0x38)
	case 0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE:
		return aluNames[(op>>3)&7] + d.imm8()
	case 0xD3:
		return "OUT (" + d.imm8() + "),A"
	case 0xDB:
		return "IN A,(" + d.imm8() + ")"
	case 0xE3:
		return "EX (SP)," + d.rp(2, ixn)
	case 0xEB:
		return "EX DE,HL"
	case 0xF9:
		return "LD SP," + d.rp(2, ixn)
	case 0xF3:
		return "DI"
	case 0xFB:
		return "EI"
	case 0xDD, 0xFD, 0xED:
		// Dangling prefix executed as a NOP.
		return "NOP*"
	}
	return "?"
}

func (d *dis) rp2(i int, ixn string) string {
	if i == 2 && ixn != "" {
		return ixn
	}
	return rp2Names[i]
}

func (d *dis) decodeCB(ixn string, disp uint8) string {
	op := d.next()
	i := int(op) & 7
	b := (op >> 3) & 7

	var operand string
	if ixn != "" {
		operand = idx(ixn, disp)
		if i != 6 && op>>6 != 1 {
			operand += "," + regNames[i]
		}
	} else {
		operand = regNames[i]
	}

	switch op >> 6 {
	case 0:
		return rotNames[b] + " " + operand
	case 1:
		return fmt.Sprintf("BIT %d,%s", b, operand)
	case 2:
		return fmt.Sprintf("RES %d,%s", b, operand)
	}
	return fmt.Sprintf("SET %d,%s", b, operand)
}

func (d *dis) decodeED() string {
	op := d.next()
	switch op {
	case 0x40, 0x48, 0x50, 0x58, 0x60, 0x68, 0x78:
		return "IN " + regNames[(op>>3)&7] + ",(C)"
	case 0x70:
		return "IN (C)"
	case 0x41, 0x49, 0x51, 0x59, 0x61, 0x69, 0x79:
		return "OUT (C)," + regNames[(op>>3)&7]
	case 0x71:
		return "OUT (C),0"
	case 0x42, 0x52, 0x62, 0x72:
		return "SBC HL," + rpNames[(op>>4)&3]
	case 0x4A, 0x5A, 0x6A, 0x7A:
		return "ADC HL," + rpNames[(op>>4)&3]
	case 0x43, 0x53, 0x63, 0x73:
		return "LD (" + d.imm16() + ")," + rpNames[(op>>4)&3]
	case 0x4B, 0x5B, 0x6B, 0x7B:
		return "LD " + rpNames[(op>>4)&3] + ",(" + d.imm16() + ")"
	case 0x44, 0x4C, 0x54, 0x5C, 0x64, 0x6C, 0x74, 0x7C:
		return "NEG"
	case 0x45, 0x55, 0x5D, 0x65, 0x6D, 0x75, 0x7D:
		return "RETN"
	case 0x4D:
		return "RETI"
	case 0x46, 0x4E, 0x66, 0x6E:
		return "IM 0"
	case 0x56, 0x76:
		return "IM 1"
	case 0x5E, 0x7E:
		return "IM 2"
	case 0x47:
		return "LD I,A"
	case 0x4F:
		return "LD R,A"
	case 0x57:
		return "LD A,I"
	case 0x5F:
		return "LD A,R"
	case 0x67:
		return "RRD"
	case 0x6F:
		return "RLD"
	case 0xA0:
		return "LDI"
	case 0xA1:
		return "CPI"
	case 0xA2:
		return "INI"
	case 0xA3:
		return "OUTI"
	case 0xA8:
		return "LDD"
	case 0xA9:
		return "CPD"
	case 0xAA:
		return "IND"
	case 0xAB:
		return "OUTD"
	case 0xB0:
		return "LDIR"
	case 0xB1:
		return "CPIR"
	case 0xB2:
		return "INIR"
	case 0xB3:
		return "OTIR"
	case 0xB8:
		return "LDDR"
	case 0xB9:
		return "CPDR"
	case 0xBA:
		return "INDR"
	case 0xBB:
		return "OTDR"
	}
	return "?"
}
