package hw

// executeED runs an ED-prefixed opcode. The index prefixes have no effect
// on this page, so there is no ix parameter. Opcodes outside the defined
// set are decode faults rather than the hardware's silent two-byte NOP:
// reaching one means the simulated code has gone off the rails, and
// stopping there beats executing garbage.
func (c *CPU) executeED() {
	r := &c.Reg
	op := c.fetch()

	switch op {
	case 0x40, 0x48, 0x50, 0x58, 0x60, 0x68, 0x70, 0x78: // IN r,(C)
		v := c.tracer.OnPortRead(c, r.BC())
		c.inFlags(v)
		if op != 0x70 { // ED 70 sets flags only
			c.setR8(int(op>>3)&7, ixNone, v)
		}
		c.t += 12

	case 0x41, 0x49, 0x51, 0x59, 0x61, 0x69, 0x71, 0x79: // OUT (C),r
		var v uint8
		if op != 0x71 { // ED 71 outputs zero
			v = c.r8(int(op>>3)&7, ixNone)
		}
		c.tracer.OnPortWrite(c, r.BC(), v)
		c.t += 12

	case 0x42, 0x52, 0x62, 0x72: // SBC HL,rp
		c.sbc16(c.rp(int(op>>4)&3, ixNone))
		c.t += 15
	case 0x4A, 0x5A, 0x6A, 0x7A: // ADC HL,rp
		c.adc16(c.rp(int(op>>4)&3, ixNone))
		c.t += 15

	case 0x43, 0x53, 0x63, 0x73: // LD (nn),rp
		c.Mem.Write16(c.fetch16(), c.rp(int(op>>4)&3, ixNone))
		c.t += 20
	case 0x4B, 0x5B, 0x6B, 0x7B: // LD rp,(nn)
		c.setRP(int(op>>4)&3, ixNone, c.Mem.Read16(c.fetch16()))
		c.t += 20

	case 0x44, 0x4C, 0x54, 0x5C, 0x64, 0x6C, 0x74, 0x7C: // NEG
		c.neg()
		c.t += 8

	case 0x45, 0x55, 0x5D, 0x65, 0x6D, 0x75, 0x7D: // RETN
		r.IFF1 = r.IFF2
		r.PC = c.pop16()
		c.t += 14
	case 0x4D: // RETI
		r.IFF1 = r.IFF2
		r.PC = c.pop16()
		c.t += 14

	case 0x46, 0x4E, 0x66, 0x6E: // IM 0
		r.IM = 0
		c.t += 8
	case 0x56, 0x76: // IM 1
		r.IM = 1
		c.t += 8
	case 0x5E, 0x7E: // IM 2
		r.IM = 2
		c.t += 8

	case 0x47: // LD I,A
		r.I = r.A
		c.t += 9
	case 0x4F: // LD R,A
		r.R = r.A
		c.t += 9
	case 0x57: // LD A,I
		r.A = r.I
		c.ldAIRFlags()
		c.t += 9
	case 0x5F: // LD A,R
		r.A = r.R
		c.ldAIRFlags()
		c.t += 9

	case 0x67: // RRD
		c.rrd()
		c.t += 18
	case 0x6F: // RLD
		c.rld()
		c.t += 18

	case 0xA0: // LDI
		c.ldi(1)
		c.t += 16
	case 0xA8: // LDD
		c.ldi(-1)
		c.t += 16
	case 0xB0: // LDIR
		c.ldi(1)
		if r.BC() != 0 {
			r.PC -= 2
			c.t += 21
		} else {
			c.t += 16
		}
	case 0xB8: // LDDR
		c.ldi(-1)
		if r.BC() != 0 {
			r.PC -= 2
			c.t += 21
		} else {
			c.t += 16
		}

	case 0xA1: // CPI
		c.cpi(1)
		c.t += 16
	case 0xA9: // CPD
		c.cpi(-1)
		c.t += 16
	case 0xB1: // CPIR
		c.cpi(1)
		if r.BC() != 0 && r.F&FZ == 0 {
			r.PC -= 2
			c.t += 21
		} else {
			c.t += 16
		}
	case 0xB9: // CPDR
		c.cpi(-1)
		if r.BC() != 0 && r.F&FZ == 0 {
			r.PC -= 2
			c.t += 21
		} else {
			c.t += 16
		}

	case 0xA2: // INI
		c.ini(1)
		c.t += 16
	case 0xAA: // IND
		c.ini(-1)
		c.t += 16
	case 0xB2: // INIR
		c.ini(1)
		if r.B != 0 {
			r.PC -= 2
			c.t += 21
		} else {
			c.t += 16
		}
	case 0xBA: // INDR
		c.ini(-1)
		if r.B != 0 {
			r.PC -= 2
			c.t += 21
		} else {
			c.t += 16
		}

	case 0xA3: // OUTI
		c.outi(1)
		c.t += 16
	case 0xAB: // OUTD
		c.outi(-1)
		c.t += 16
	case 0xB3: // OTIR
		c.outi(1)
		if r.B != 0 {
			r.PC -= 2
			c.t += 21
		} else {
			c.t += 16
		}
	case 0xBB: // OTDR
		c.outi(-1)
		if r.B != 0 {
			r.PC -= 2
			c.t += 21
		} else {
			c.t += 16
		}

	default:
		c.fault("invalid opcode ED %02X at %04X", op, c.start)
	}
}

// ldAIRFlags sets the flags for LD A,I and LD A,R. P/V reflects IFF2, which
// lets software sample the interrupt enable state.
func (c *CPU) ldAIRFlags() {
	f := c.Reg.F&FC | sz53[c.Reg.A]
	if c.Reg.IFF2 {
		f |= FP
	}
	c.Reg.F = f
}

func (c *CPU) ldi(dir int16) {
	r := &c.Reg
	n := c.Mem.Read8(r.HL())
	c.Mem.Write8(r.DE(), n)
	r.SetHL(r.HL() + uint16(dir))
	r.SetDE(r.DE() + uint16(dir))
	r.SetBC(r.BC() - 1)
	c.ldFlags(n)
}

func (c *CPU) cpi(dir int16) {
	r := &c.Reg
	n := c.Mem.Read8(r.HL())
	r.SetHL(r.HL() + uint16(dir))
	r.SetBC(r.BC() - 1)
	c.cpFlags(n)
}

func (c *CPU) ini(dir int16) {
	r := &c.Reg
	data := c.tracer.OnPortRead(c, r.BC())
	c.Mem.Write8(r.HL(), data)
	r.B--
	r.SetHL(r.HL() + uint16(dir))
	c.inoutFlags(data, uint16(data)+uint16(r.C+uint8(dir)))
}

func (c *CPU) outi(dir int16) {
	r := &c.Reg
	data := c.Mem.Read8(r.HL())
	r.B--
	c.tracer.OnPortWrite(c, r.BC(), data)
	r.SetHL(r.HL() + uint16(dir))
	c.inoutFlags(data, uint16(data)+uint16(r.L))
}
