package hw

// Precomputed S/Z/F5/F3 (and parity) lookups, indexed by an 8-bit result.
// Almost every instruction that writes a register funnels through these.
var sz53 [256]uint8
var sz53p [256]uint8

func init() {
	for i := 0; i < 256; i++ {
		f := uint8(i) & (FS | F5 | F3)
		if i == 0 {
			f |= FZ
		}
		sz53[i] = f

		p := uint8(i)
		p ^= p >> 4
		p ^= p >> 2
		p ^= p >> 1
		if p&1 == 0 {
			f |= FP
		}
		sz53p[i] = f
	}
}

/* 8-bit arithmetic */

func (c *CPU) add8(v, carry uint8) {
	a := c.Reg.A
	res := uint16(a) + uint16(v) + uint16(carry)
	f := sz53[uint8(res)]
	if res > 0xFF {
		f |= FC
	}
	if (a^v^uint8(res))&0x10 != 0 {
		f |= FH
	}
	if (a^v)&0x80 == 0 && (a^uint8(res))&0x80 != 0 {
		f |= FP
	}
	c.Reg.A = uint8(res)
	c.Reg.F = f
}

func (c *CPU) sub8(v, carry uint8) {
	a := c.Reg.A
	res := uint16(a) - uint16(v) - uint16(carry)
	f := sz53[uint8(res)] | FN
	if res > 0xFF {
		f |= FC
	}
	if (a^v^uint8(res))&0x10 != 0 {
		f |= FH
	}
	if (a^v)&0x80 != 0 && (a^uint8(res))&0x80 != 0 {
		f |= FP
	}
	c.Reg.A = uint8(res)
	c.Reg.F = f
}

// cp8 is SUB without the store; F5 and F3 come from the operand, not the
// difference.
func (c *CPU) cp8(v uint8) {
	a := c.Reg.A
	res := uint16(a) - uint16(v)
	f := sz53[uint8(res)]&^(F5|F3) | v&(F5|F3) | FN
	if res > 0xFF {
		f |= FC
	}
	if (a^v^uint8(res))&0x10 != 0 {
		f |= FH
	}
	if (a^v)&0x80 != 0 && (a^uint8(res))&0x80 != 0 {
		f |= FP
	}
	c.Reg.F = f
}

func (c *CPU) and8(v uint8) {
	c.Reg.A &= v
	c.Reg.F = sz53p[c.Reg.A] | FH
}

func (c *CPU) xor8(v uint8) {
	c.Reg.A ^= v
	c.Reg.F = sz53p[c.Reg.A]
}

func (c *CPU) or8(v uint8) {
	c.Reg.A |= v
	c.Reg.F = sz53p[c.Reg.A]
}

// inc8 and dec8 preserve carry.
func (c *CPU) inc8(v uint8) uint8 {
	res := v + 1
	f := c.Reg.F&FC | sz53[res]
	if res&0x0F == 0 {
		f |= FH
	}
	if res == 0x80 {
		f |= FP
	}
	c.Reg.F = f
	return res
}

func (c *CPU) dec8(v uint8) uint8 {
	res := v - 1
	f := c.Reg.F&FC | sz53[res] | FN
	if res&0x0F == 0x0F {
		f |= FH
	}
	if res == 0x7F {
		f |= FP
	}
	c.Reg.F = f
	return res
}

func (c *CPU) daa() {
	a := c.Reg.A
	f := c.Reg.F
	var adjust uint8
	carry := f & FC
	if f&FH != 0 || a&0x0F > 9 {
		adjust = 0x06
	}
	if carry != 0 || a > 0x99 {
		adjust |= 0x60
		carry = FC
	}
	var res uint8
	if f&FN != 0 {
		res = a - adjust
	} else {
		res = a + adjust
	}
	nf := sz53p[res] | carry | f&FN
	if (a^res)&0x10 != 0 {
		nf |= FH
	}
	c.Reg.A = res
	c.Reg.F = nf
}

func (c *CPU) neg() {
	v := c.Reg.A
	c.Reg.A = 0
	c.sub8(v, 0)
}

func (c *CPU) cpl() {
	c.Reg.A = ^c.Reg.A
	c.Reg.F = c.Reg.F&(FS|FZ|FP|FC) | FH | FN | c.Reg.A&(F5|F3)
}

func (c *CPU) scf() {
	c.Reg.F = c.Reg.F&(FS|FZ|FP) | FC | c.Reg.A&(F5|F3)
}

func (c *CPU) ccf() {
	f := c.Reg.F
	nf := f&(FS|FZ|FP) | c.Reg.A&(F5|F3)
	if f&FC != 0 {
		nf |= FH
	} else {
		nf |= FC
	}
	c.Reg.F = nf
}

/* 16-bit arithmetic */

// add16 implements ADD HL,rp (and the IX/IY forms): only C, H, N, F5, F3
// are affected, H from the carry out of bit 11.
func (c *CPU) add16(dst, v uint16) uint16 {
	res := uint32(dst) + uint32(v)
	f := c.Reg.F & (FS | FZ | FP)
	if res > 0xFFFF {
		f |= FC
	}
	if (dst^v^uint16(res))&0x1000 != 0 {
		f |= FH
	}
	f |= uint8(res>>8) & (F5 | F3)
	c.Reg.F = f
	return uint16(res)
}

func (c *CPU) adc16(v uint16) {
	hl := c.Reg.HL()
	carry := uint32(c.Reg.F & FC)
	res := uint32(hl) + uint32(v) + carry
	var f uint8
	if res > 0xFFFF {
		f |= FC
	}
	if uint16(res) == 0 {
		f |= FZ
	}
	if (hl^v^uint16(res))&0x1000 != 0 {
		f |= FH
	}
	if (hl^v)&0x8000 == 0 && (hl^uint16(res))&0x8000 != 0 {
		f |= FP
	}
	f |= uint8(res>>8) & (FS | F5 | F3)
	c.Reg.SetHL(uint16(res))
	c.Reg.F = f
}

func (c *CPU) sbc16(v uint16) {
	hl := c.Reg.HL()
	carry := uint32(c.Reg.F & FC)
	res := uint32(hl) - uint32(v) - carry
	f := uint8(FN)
	if res > 0xFFFF {
		f |= FC
	}
	if uint16(res) == 0 {
		f |= FZ
	}
	if (hl^v^uint16(res))&0x1000 != 0 {
		f |= FH
	}
	if (hl^v)&0x8000 != 0 && (hl^uint16(res))&0x8000 != 0 {
		f |= FP
	}
	f |= uint8(res>>8) & (FS | F5 | F3)
	c.Reg.SetHL(uint16(res))
	c.Reg.F = f
}

/* rotates and shifts */

// The four accumulator rotates keep S, Z and P from the previous result.
func (c *CPU) rlca() {
	a := c.Reg.A
	a = a<<1 | a>>7
	c.Reg.A = a
	c.Reg.F = c.Reg.F&(FS|FZ|FP) | a&(F5|F3|FC)
}

func (c *CPU) rrca() {
	a := c.Reg.A
	carry := a & 1
	a = a>>1 | a<<7
	c.Reg.A = a
	c.Reg.F = c.Reg.F&(FS|FZ|FP) | a&(F5|F3) | carry
}

func (c *CPU) rla() {
	a := c.Reg.A
	res := a<<1 | c.Reg.F&FC
	c.Reg.A = res
	c.Reg.F = c.Reg.F&(FS|FZ|FP) | res&(F5|F3) | a>>7
}

func (c *CPU) rra() {
	a := c.Reg.A
	res := a>>1 | c.Reg.F&FC<<7
	c.Reg.A = res
	c.Reg.F = c.Reg.F&(FS|FZ|FP) | res&(F5|F3) | a&1
}

// The CB-prefixed forms set all flags from the result.
func (c *CPU) rlc(v uint8) uint8 {
	res := v<<1 | v>>7
	c.Reg.F = sz53p[res] | v>>7
	return res
}

func (c *CPU) rrc(v uint8) uint8 {
	res := v>>1 | v<<7
	c.Reg.F = sz53p[res] | v&1
	return res
}

func (c *CPU) rl(v uint8) uint8 {
	res := v<<1 | c.Reg.F&FC
	c.Reg.F = sz53p[res] | v>>7
	return res
}

func (c *CPU) rr(v uint8) uint8 {
	res := v>>1 | c.Reg.F&FC<<7
	c.Reg.F = sz53p[res] | v&1
	return res
}

func (c *CPU) sla(v uint8) uint8 {
	res := v << 1
	c.Reg.F = sz53p[res] | v>>7
	return res
}

func (c *CPU) sra(v uint8) uint8 {
	res := v>>1 | v&0x80
	c.Reg.F = sz53p[res] | v&1
	return res
}

// sll shifts left and sets bit 0 (the undocumented CB 30-37 group).
func (c *CPU) sll(v uint8) uint8 {
	res := v<<1 | 1
	c.Reg.F = sz53p[res] | v>>7
	return res
}

func (c *CPU) srl(v uint8) uint8 {
	res := v >> 1
	c.Reg.F = sz53p[res] | v&1
	return res
}

// bit tests bit b of v. F5 and F3 do not come from v on the memory forms:
// the caller passes the byte they are visible from (the value itself for
// register operands, the high byte of the effective address for (IX+d)).
func (c *CPU) bit(b int, v, f53src uint8) {
	f := c.Reg.F&FC | FH | f53src&(F5|F3)
	if v&(1<<b) == 0 {
		f |= FZ | FP
	} else if b == 7 {
		f |= FS
	}
	c.Reg.F = f
}

func (c *CPU) rld() {
	addr := c.Reg.HL()
	m := c.Mem.Read8(addr)
	a := c.Reg.A
	c.Mem.Write8(addr, m<<4|a&0x0F)
	c.Reg.A = a&0xF0 | m>>4
	c.Reg.F = c.Reg.F&FC | sz53p[c.Reg.A]
}

func (c *CPU) rrd() {
	addr := c.Reg.HL()
	m := c.Mem.Read8(addr)
	a := c.Reg.A
	c.Mem.Write8(addr, a<<4|m>>4)
	c.Reg.A = a&0xF0 | m&0x0F
	c.Reg.F = c.Reg.F&FC | sz53p[c.Reg.A]
}

/* block transfer and search flags */

// ldFlags is shared by LDI/LDD/LDIR/LDDR. n is the byte just copied.
func (c *CPU) ldFlags(n uint8) {
	t := c.Reg.A + n
	f := c.Reg.F & (FS | FZ | FC)
	if t&0x02 != 0 {
		f |= F5
	}
	if t&0x08 != 0 {
		f |= F3
	}
	if c.Reg.BC() != 0 {
		f |= FP
	}
	c.Reg.F = f
}

// cpFlags is shared by CPI/CPD/CPIR/CPDR. n is the byte just compared.
func (c *CPU) cpFlags(n uint8) {
	a := c.Reg.A
	res := a - n
	f := c.Reg.F&FC | FN | sz53[res]&(FS|FZ)
	if (a^n^res)&0x10 != 0 {
		f |= FH
		res--
	}
	if res&0x02 != 0 {
		f |= F5
	}
	if res&0x08 != 0 {
		f |= F3
	}
	if c.Reg.BC() != 0 {
		f |= FP
	}
	c.Reg.F = f
}

// inoutFlags is shared by the block I/O instructions. data is the byte
// moved, k the intermediate sum that feeds H and C.
func (c *CPU) inoutFlags(data uint8, k uint16) {
	b := c.Reg.B
	f := sz53[b] &^ FP
	if data&0x80 != 0 {
		f |= FN
	}
	if k > 0xFF {
		f |= FH | FC
	}
	f |= sz53p[uint8(k)&0x07^b] & FP
	c.Reg.F = f
}

// inFlags is for IN r,(C).
func (c *CPU) inFlags(v uint8) {
	c.Reg.F = c.Reg.F&FC | sz53p[v]
}
