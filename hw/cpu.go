package hw

import (
	"fmt"
)

// ixMode selects which register pair plays the role of HL while decoding.
// The DD and FD prefixes switch it to IX or IY for one instruction.
type ixMode int

const (
	ixNone ixMode = iota
	ixIX
	ixIY
)

// CPU is the Z80 interpreter. It owns nothing but the register file; memory
// is supplied by the caller and I/O is delegated to the tracer. A CPU must
// not be shared between goroutines while running.
type CPU struct {
	Mem *Memory
	Reg Registers

	// TStates is the running clock, in T-states since creation.
	TStates int64

	// Halted is set by HALT and cleared when an interrupt is accepted.
	Halted bool

	tracer Tracer

	// per-instruction scratch
	start uint16
	buf   [8]byte
	nbuf  int
	t     int  // cost of current instruction
	err   error

	afterEI bool
}

func NewCPU(mem *Memory) *CPU {
	return &CPU{Mem: mem, tracer: NopTracer{}}
}

// Run executes instructions starting at start until the tracer requests a
// stop or the decoder hits an opcode it cannot interpret. The register and
// memory state at return reflects every instruction that completed.
func (c *CPU) Run(start uint16, tracer Tracer) error {
	c.Reg.PC = start
	if tracer == nil {
		tracer = NopTracer{}
	}
	c.tracer = tracer
	for {
		in, err := c.Step()
		if err != nil {
			return err
		}
		if c.tracer.OnInstruction(c, in) {
			return nil
		}
	}
}

// Step fetches, decodes and executes a single instruction at PC and returns
// its description. The tracer is not consulted for the stop decision (that
// is Run's job) but port accesses made by the instruction do go through it.
func (c *CPU) Step() (Instruction, error) {
	c.start = c.Reg.PC
	c.nbuf = 0
	c.t = 0
	c.err = nil

	if c.Halted {
		// Refresh continues while halted; each idle M1 costs 4 T-states.
		c.Reg.IncR(1)
		c.t = 4
		c.TStates += int64(c.t)
		return Instruction{
			Addr:    c.start,
			Data:    []byte{0x76},
			Op:      "HALT",
			TStates: int64(c.t),
			Time:    c.TStates,
		}, nil
	}

	c.afterEI = false
	op := c.fetch()
	c.Reg.IncR(1)
	switch op {
	case 0xCB:
		c.Reg.IncR(1)
		c.executeCB(ixNone)
	case 0xED:
		c.Reg.IncR(1)
		c.executeED()
	case 0xDD:
		c.executePrefixed(ixIX)
	case 0xFD:
		c.executePrefixed(ixIY)
	default:
		c.execute(op, ixNone)
	}

	if c.err != nil {
		return Instruction{}, c.err
	}

	c.TStates += int64(c.t)
	data := c.buf[:c.nbuf]
	return Instruction{
		Addr:    c.start,
		Data:    data,
		Op:      disasm(data, c.start),
		TStates: int64(c.t),
		Time:    c.TStates,
	}, nil
}

func (c *CPU) executePrefixed(ix ixMode) {
	op := c.fetch()
	switch op {
	case 0xDD, 0xFD, 0xED:
		// A prefix in front of another prefix has no effect; the second one
		// starts a fresh instruction on the next M1 cycle.
		c.Reg.PC--
		c.nbuf--
		c.t += 4
	case 0xCB:
		c.Reg.IncR(1)
		c.executeIndexCB(ix)
	default:
		c.Reg.IncR(1)
		c.t += 4
		c.execute(op, ix)
	}
}

func (c *CPU) fault(format string, args ...any) {
	if c.err == nil {
		c.err = fmt.Errorf(format, args...)
	}
}

/* fetch and addressing helpers */

// fetch reads the next instruction byte. Opcode and operand fetches are
// recorded so the tracer sees the raw encoding.
func (c *CPU) fetch() uint8 {
	b := c.Mem.Data[c.Reg.PC]
	c.Reg.PC++
	if c.nbuf < len(c.buf) {
		c.buf[c.nbuf] = b
		c.nbuf++
	}
	return b
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch()
	hi := c.fetch()
	return uint16(hi)<<8 | uint16(lo)
}

// memAddr resolves the (HL), (IX+d) or (IY+d) operand address. extraT is
// the additional cost of the displacement fetch for the indexed forms.
func (c *CPU) memAddr(ix ixMode, extraT int) uint16 {
	switch ix {
	case ixIX:
		d := int8(c.fetch())
		c.t += extraT
		return c.Reg.IX + uint16(int16(d))
	case ixIY:
		d := int8(c.fetch())
		c.t += extraT
		return c.Reg.IY + uint16(int16(d))
	}
	return c.Reg.HL()
}

/* register selection by operand index */

// r8 reads register operand i (0..7, 6 excluded: that is the memory form).
// In indexed mode H and L map to the index register halves.
func (c *CPU) r8(i int, ix ixMode) uint8 {
	r := &c.Reg
	switch i {
	case 0:
		return r.B
	case 1:
		return r.C
	case 2:
		return r.D
	case 3:
		return r.E
	case 4:
		switch ix {
		case ixIX:
			return r.IXH()
		case ixIY:
			return r.IYH()
		}
		return r.H
	case 5:
		switch ix {
		case ixIX:
			return r.IXL()
		case ixIY:
			return r.IYL()
		}
		return r.L
	case 7:
		return r.A
	}
	panic("r8: bad register index")
}

func (c *CPU) setR8(i int, ix ixMode, v uint8) {
	r := &c.Reg
	switch i {
	case 0:
		r.B = v
	case 1:
		r.C = v
	case 2:
		r.D = v
	case 3:
		r.E = v
	case 4:
		switch ix {
		case ixIX:
			r.SetIXH(v)
		case ixIY:
			r.SetIYH(v)
		default:
			r.H = v
		}
	case 5:
		switch ix {
		case ixIX:
			r.SetIXL(v)
		case ixIY:
			r.SetIYL(v)
		default:
			r.L = v
		}
	case 7:
		r.A = v
	default:
		panic("setR8: bad register index")
	}
}

// hl returns the value of HL, or IX/IY in indexed mode.
func (c *CPU) hl(ix ixMode) uint16 {
	switch ix {
	case ixIX:
		return c.Reg.IX
	case ixIY:
		return c.Reg.IY
	}
	return c.Reg.HL()
}

func (c *CPU) setHL(ix ixMode, v uint16) {
	switch ix {
	case ixIX:
		c.Reg.IX = v
	case ixIY:
		c.Reg.IY = v
	default:
		c.Reg.SetHL(v)
	}
}

// rp reads register pair i of the BC/DE/HL/SP bank.
func (c *CPU) rp(i int, ix ixMode) uint16 {
	switch i {
	case 0:
		return c.Reg.BC()
	case 1:
		return c.Reg.DE()
	case 2:
		return c.hl(ix)
	}
	return c.Reg.SP
}

func (c *CPU) setRP(i int, ix ixMode, v uint16) {
	switch i {
	case 0:
		c.Reg.SetBC(v)
	case 1:
		c.Reg.SetDE(v)
	case 2:
		c.setHL(ix, v)
	default:
		c.Reg.SP = v
	}
}

// cond evaluates condition code i: NZ, Z, NC, C, PO, PE, P, M.
func (c *CPU) cond(i int) bool {
	f := c.Reg.F
	switch i {
	case 0:
		return f&FZ == 0
	case 1:
		return f&FZ != 0
	case 2:
		return f&FC == 0
	case 3:
		return f&FC != 0
	case 4:
		return f&FP == 0
	case 5:
		return f&FP != 0
	case 6:
		return f&FS == 0
	}
	return f&FS != 0
}

/* stack */

func (c *CPU) push16(v uint16) {
	c.Reg.SP -= 2
	c.Mem.Write16(c.Reg.SP, v)
}

func (c *CPU) pop16() uint16 {
	v := c.Mem.Read16(c.Reg.SP)
	c.Reg.SP += 2
	return v
}

/* interrupts */

// Interrupt presents a maskable interrupt with the given data bus value.
// It returns true if the interrupt was accepted. In mode 0 the bus value is
// executed as an instruction (in practice always a RST); in mode 2 it forms
// the low byte of the vector table entry selected through I.
func (c *CPU) Interrupt(bus uint8) bool {
	if !c.Reg.IFF1 || c.afterEI {
		return false
	}
	if c.Halted {
		c.Halted = false
	}
	c.Reg.IFF1 = false
	c.Reg.IFF2 = false
	c.Reg.IncR(1)

	switch c.Reg.IM {
	case 2:
		c.push16(c.Reg.PC)
		vector := uint16(c.Reg.I)<<8 | uint16(bus)
		c.Reg.PC = c.Mem.Read16(vector)
		c.TStates += 19
	case 1:
		c.push16(c.Reg.PC)
		c.Reg.PC = 0x0038
		c.TStates += 13
	default:
		// Mode 0: execute the bus byte. RST n is the only thing interrupt
		// hardware of the era ever put there.
		if bus&0xC7 == 0xC7 {
			c.push16(c.Reg.PC)
			c.Reg.PC = uint16(bus & 0x38)
			c.TStates += 13
		} else {
			c.push16(c.Reg.PC)
			c.Reg.PC = 0x0038
			c.TStates += 13
		}
	}
	return true
}

// NonMaskableInterrupt forces a jump to 0x0066, preserving IFF2 so RETN can
// restore the pre-interrupt enable state.
func (c *CPU) NonMaskableInterrupt() {
	if c.Halted {
		c.Halted = false
	}
	c.Reg.IFF1 = false
	c.Reg.IncR(1)
	c.push16(c.Reg.PC)
	c.Reg.PC = 0x0066
	c.TStates += 11
}
