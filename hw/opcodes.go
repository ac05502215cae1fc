package hw

// execute runs a single unprefixed (or DD/FD-prefixed) opcode. The ix mode
// redirects HL, H, L and (HL) to the index register per Z80 prefix rules;
// the prefix cost itself is accounted for by the caller.
func (c *CPU) execute(op uint8, ix ixMode) {
	r := &c.Reg

	switch {
	case op >= 0x40 && op < 0x80:
		c.executeLD(op, ix)
		return
	case op >= 0x80 && op < 0xC0:
		c.executeALU(op, ix)
		return
	}

	switch op {
	case 0x00: // NOP
		c.t += 4

	case 0x01, 0x11, 0x21, 0x31: // LD rp,nn
		c.setRP(int(op>>4), ix, c.fetch16())
		c.t += 10

	case 0x02: // LD (BC),A
		c.Mem.Write8(r.BC(), r.A)
		c.t += 7
	case 0x12: // LD (DE),A
		c.Mem.Write8(r.DE(), r.A)
		c.t += 7
	case 0x0A: // LD A,(BC)
		r.A = c.Mem.Read8(r.BC())
		c.t += 7
	case 0x1A: // LD A,(DE)
		r.A = c.Mem.Read8(r.DE())
		c.t += 7

	case 0x03, 0x13, 0x23, 0x33: // INC rp
		i := int(op >> 4)
		c.setRP(i, ix, c.rp(i, ix)+1)
		c.t += 6
	case 0x0B, 0x1B, 0x2B, 0x3B: // DEC rp
		i := int(op >> 4)
		c.setRP(i, ix, c.rp(i, ix)-1)
		c.t += 6

	case 0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x3C: // INC r
		i := int(op >> 3)
		c.setR8(i, ix, c.inc8(c.r8(i, ix)))
		c.t += 4
	case 0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x3D: // DEC r
		i := int(op >> 3)
		c.setR8(i, ix, c.dec8(c.r8(i, ix)))
		c.t += 4
	case 0x34: // INC (HL)
		addr := c.memAddr(ix, 8)
		c.Mem.Write8(addr, c.inc8(c.Mem.Read8(addr)))
		c.t += 11
	case 0x35: // DEC (HL)
		addr := c.memAddr(ix, 8)
		c.Mem.Write8(addr, c.dec8(c.Mem.Read8(addr)))
		c.t += 11

	case 0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x3E: // LD r,n
		c.setR8(int(op>>3), ix, c.fetch())
		c.t += 7
	case 0x36: // LD (HL),n
		addr := c.memAddr(ix, 5)
		c.Mem.Write8(addr, c.fetch())
		c.t += 10

	case 0x07:
		c.rlca()
		c.t += 4
	case 0x0F:
		c.rrca()
		c.t += 4
	case 0x17:
		c.rla()
		c.t += 4
	case 0x1F:
		c.rra()
		c.t += 4
	case 0x27:
		c.daa()
		c.t += 4
	case 0x2F:
		c.cpl()
		c.t += 4
	case 0x37:
		c.scf()
		c.t += 4
	case 0x3F:
		c.ccf()
		c.t += 4

	case 0x08: // EX AF,AF'
		r.exAF()
		c.t += 4
	case 0xD9: // EXX
		r.exx()
		c.t += 4

	case 0x09, 0x19, 0x29, 0x39: // ADD HL,rp
		c.setHL(ix, c.add16(c.hl(ix), c.rp(int(op>>4), ix)))
		c.t += 11

	case 0x10: // DJNZ d
		d := int8(c.fetch())
		r.B--
		if r.B != 0 {
			r.PC += uint16(int16(d))
			c.t += 13
		} else {
			c.t += 8
		}
	case 0x18: // JR d
		d := int8(c.fetch())
		r.PC += uint16(int16(d))
		c.t += 12
	case 0x20, 0x28, 0x30, 0x38: // JR cc,d
		d := int8(c.fetch())
		if c.cond(int(op>>3) - 4) {
			r.PC += uint16(int16(d))
			c.t += 12
		} else {
			c.t += 7
		}

	case 0x22: // LD (nn),HL
		c.Mem.Write16(c.fetch16(), c.hl(ix))
		c.t += 16
	case 0x2A: // LD HL,(nn)
		c.setHL(ix, c.Mem.Read16(c.fetch16()))
		c.t += 16
	case 0x32: // LD (nn),A
		c.Mem.Write8(c.fetch16(), r.A)
		c.t += 13
	case 0x3A: // LD A,(nn)
		r.A = c.Mem.Read8(c.fetch16())
		c.t += 13

	case 0xC0, 0xC8, 0xD0, 0xD8, 0xE0, 0xE8, 0xF0, 0xF8: // RET cc
		if c.cond(int(op>>3) & 7) {
			r.PC = c.pop16()
			c.t += 11
		} else {
			c.t += 5
		}
	case 0xC9: // RET
		r.PC = c.pop16()
		c.t += 10

	case 0xC1, 0xD1, 0xE1: // POP rp2
		c.setRP(int(op>>4)&3, ix, c.pop16())
		c.t += 10
	case 0xF1: // POP AF
		r.SetAF(c.pop16())
		c.t += 10
	case 0xC5, 0xD5, 0xE5: // PUSH rp2
		c.push16(c.rp(int(op>>4)&3, ix))
		c.t += 11
	case 0xF5: // PUSH AF
		c.push16(r.AF())
		c.t += 11

	case 0xC3: // JP nn
		r.PC = c.fetch16()
		c.t += 10
	case 0xC2, 0xCA, 0xD2, 0xDA, 0xE2, 0xEA, 0xF2, 0xFA: // JP cc,nn
		nn := c.fetch16()
		if c.cond(int(op>>3) & 7) {
			r.PC = nn
		}
		c.t += 10
	case 0xE9: // JP (HL)
		r.PC = c.hl(ix)
		c.t += 4

	case 0xCD: // CALL nn
		nn := c.fetch16()
		c.push16(r.PC)
		r.PC = nn
		c.t += 17
	case 0xC4, 0xCC, 0xD4, 0xDC, 0xE4, 0xEC, 0xF4, 0xFC: // CALL cc,nn
		nn := c.fetch16()
		if c.cond(int(op>>3) & 7) {
			c.push16(r.PC)
			r.PC = nn
			c.t += 17
		} else {
			c.t += 10
		}

	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF: // RST n
		c.push16(r.PC)
		r.PC = uint16(op & 0x38)
		c.t += 11

	case 0xC6: // ADD A,n
		c.add8(c.fetch(), 0)
		c.t += 7
	case 0xCE: // ADC A,n
		c.add8(c.fetch(), r.F&FC)
		c.t += 7
	case 0xD6: // SUB n
		c.sub8(c.fetch(), 0)
		c.t += 7
	case 0xDE: // SBC A,n
		c.sub8(c.fetch(), r.F&FC)
		c.t += 7
	case 0xE6: // AND n
		c.and8(c.fetch())
		c.t += 7
	case 0xEE: // XOR n
		c.xor8(c.fetch())
		c.t += 7
	case 0xF6: // OR n
		c.or8(c.fetch())
		c.t += 7
	case 0xFE: // CP n
		c.cp8(c.fetch())
		c.t += 7

	case 0xD3: // OUT (n),A
		n := c.fetch()
		c.tracer.OnPortWrite(c, uint16(r.A)<<8|uint16(n), r.A)
		c.t += 11
	case 0xDB: // IN A,(n)
		n := c.fetch()
		r.A = c.tracer.OnPortRead(c, uint16(r.A)<<8|uint16(n))
		c.t += 11

	case 0xE3: // EX (SP),HL
		v := c.Mem.Read16(r.SP)
		c.Mem.Write16(r.SP, c.hl(ix))
		c.setHL(ix, v)
		c.t += 19
	case 0xEB: // EX DE,HL: never redirected by a prefix
		de := r.DE()
		r.SetDE(r.HL())
		r.SetHL(de)
		c.t += 4
	case 0xF9: // LD SP,HL
		r.SP = c.hl(ix)
		c.t += 6

	case 0xF3: // DI
		r.IFF1 = false
		r.IFF2 = false
		c.t += 4
	case 0xFB: // EI
		r.IFF1 = true
		r.IFF2 = true
		c.afterEI = true
		c.t += 4

	default:
		c.fault("invalid opcode %02X at %04X", op, c.start)
	}
}

// executeLD handles the 0x40-0x7F quadrant: LD r,r' plus HALT.
func (c *CPU) executeLD(op uint8, ix ixMode) {
	if op == 0x76 {
		c.Halted = true
		c.t += 4
		return
	}
	dst := int(op>>3) & 7
	src := int(op) & 7
	switch {
	case src == 6: // LD r,(HL)
		// When the source is indexed memory, H and L keep their plain
		// meaning as destinations.
		v := c.Mem.Read8(c.memAddr(ix, 8))
		c.setR8(dst, ixNone, v)
		c.t += 7
	case dst == 6: // LD (HL),r
		c.Mem.Write8(c.memAddr(ix, 8), c.r8(src, ixNone))
		c.t += 7
	default:
		c.setR8(dst, ix, c.r8(src, ix))
		c.t += 4
	}
}

// executeALU handles the 0x80-0xBF quadrant: arithmetic on A.
func (c *CPU) executeALU(op uint8, ix ixMode) {
	var v uint8
	if op&7 == 6 {
		v = c.Mem.Read8(c.memAddr(ix, 8))
		c.t += 7
	} else {
		v = c.r8(int(op)&7, ix)
		c.t += 4
	}
	switch (op >> 3) & 7 {
	case 0:
		c.add8(v, 0)
	case 1:
		c.add8(v, c.Reg.F&FC)
	case 2:
		c.sub8(v, 0)
	case 3:
		c.sub8(v, c.Reg.F&FC)
	case 4:
		c.and8(v)
	case 5:
		c.xor8(v)
	case 6:
		c.or8(v)
	case 7:
		c.cp8(v)
	}
}
