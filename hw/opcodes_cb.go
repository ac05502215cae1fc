package hw

// rotshift dispatches the eight CB rotate/shift kinds.
func (c *CPU) rotshift(kind int, v uint8) uint8 {
	switch kind {
	case 0:
		return c.rlc(v)
	case 1:
		return c.rrc(v)
	case 2:
		return c.rl(v)
	case 3:
		return c.rr(v)
	case 4:
		return c.sla(v)
	case 5:
		return c.sra(v)
	case 6:
		return c.sll(v)
	}
	return c.srl(v)
}

// executeCB runs a CB-prefixed opcode. The ix argument is always ixNone
// here; the indexed forms go through executeIndexCB because their encoding
// puts the displacement before the final opcode byte.
func (c *CPU) executeCB(ix ixMode) {
	op := c.fetch()
	i := int(op) & 7
	b := int(op>>3) & 7

	switch op >> 6 {
	case 0: // rotates and shifts
		if i == 6 {
			addr := c.memAddr(ix, 0)
			c.Mem.Write8(addr, c.rotshift(b, c.Mem.Read8(addr)))
			c.t += 15
		} else {
			c.setR8(i, ix, c.rotshift(b, c.r8(i, ix)))
			c.t += 8
		}
	case 1: // BIT b,r
		if i == 6 {
			addr := c.memAddr(ix, 0)
			v := c.Mem.Read8(addr)
			c.bit(b, v, uint8(addr>>8))
			c.t += 12
		} else {
			v := c.r8(i, ix)
			c.bit(b, v, v)
			c.t += 8
		}
	case 2: // RES b,r
		if i == 6 {
			addr := c.memAddr(ix, 0)
			c.Mem.Write8(addr, c.Mem.Read8(addr)&^(1<<b))
			c.t += 15
		} else {
			c.setR8(i, ix, c.r8(i, ix)&^(1<<b))
			c.t += 8
		}
	case 3: // SET b,r
		if i == 6 {
			addr := c.memAddr(ix, 0)
			c.Mem.Write8(addr, c.Mem.Read8(addr)|1<<b)
			c.t += 15
		} else {
			c.setR8(i, ix, c.r8(i, ix)|1<<b)
			c.t += 8
		}
	}
}

// executeIndexCB runs the DD CB d op and FD CB d op forms. Every one of
// them operates on (IX+d); the register field, when not 6, additionally
// receives a copy of the result (except for BIT, which writes nothing).
func (c *CPU) executeIndexCB(ix ixMode) {
	d := int8(c.fetch())
	op := c.fetch()

	var addr uint16
	if ix == ixIX {
		addr = c.Reg.IX + uint16(int16(d))
	} else {
		addr = c.Reg.IY + uint16(int16(d))
	}

	i := int(op) & 7
	b := int(op>>3) & 7
	v := c.Mem.Read8(addr)

	switch op >> 6 {
	case 0:
		v = c.rotshift(b, v)
	case 1:
		c.bit(b, v, uint8(addr>>8))
		c.t += 20
		return
	case 2:
		v &^= 1 << b
	case 3:
		v |= 1 << b
	}
	c.Mem.Write8(addr, v)
	if i != 6 {
		c.setR8(i, ixNone, v)
	}
	c.t += 23
}
