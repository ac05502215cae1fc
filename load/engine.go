package load

import (
	"fmt"
	"io"

	"spector/emu/log"
	"spector/hw"
	"spector/tape"
)

// 48K machine constants the loader stage relies on.
const (
	progAddr   = 23755 // PROG: start of the BASIC program area
	sysIY      = 23610 // IY's resting value (ERR_NR address)
	sysSP      = 65344
	screenAddr = 16384
	ldBytes    = 0x0556 // ROM LD-BYTES entry, trapped during simulation
	clockHz    = 3_500_000
)

// Options configures a fast-load run.
type Options struct {
	// Accelerators restricts loop matching to the named entries; empty
	// means the whole catalogue. Aliases are accepted.
	Accelerators []string

	// NoAcceleration disables loop matching entirely; custom loaders then
	// run against the pulse stream instruction by instruction.
	NoAcceleration bool

	// Start overrides the machine-code start address; -1 takes it from
	// the BASIC program's RANDOMIZE USR statement.
	Start int

	// MaxTime bounds the simulation, in T-states. 0 means 15 virtual
	// minutes.
	MaxTime int64
}

// Engine drives the CPU against a decoded tape, loading standard blocks
// natively and falling back to simulation (with the LD-BYTES trap and
// accelerator edge-skipping) for custom loader code.
type Engine struct {
	cpu    *hw.CPU
	stream *pulseStream
	reg    *Registry
	opts   Options
	out    io.Writer

	start       int // resolved start address, -1 until known
	border      uint8
	varsAddr    uint16 // where LOAD "" DATA arrays land
	lastLoadEnd uint16

	// pulse playback state
	edgeAt  int64
	level   bool
	tapeEnd bool

	// cached accelerator match for the current polling loop
	accel   *Accelerator
	accelPC uint16

	finishedMsg bool
	stopMsg     string
	err         error
}

// NewEngine validates the options (named accelerators in particular) and
// prepares an engine. Progress messages go to out; nil silences them.
func NewEngine(cpu *hw.CPU, blocks []tape.Block, opts Options, out io.Writer) (*Engine, error) {
	e := &Engine{
		cpu:    cpu,
		stream: newPulseStream(blocks),
		opts:   opts,
		out:    out,
		start:  opts.Start,
	}
	if !opts.NoAcceleration {
		reg, err := NewRegistry(opts.Accelerators...)
		if err != nil {
			return nil, err
		}
		e.reg = reg
	}
	if e.opts.MaxTime == 0 {
		e.opts.MaxTime = 15 * 60 * clockHz
	}
	return e, nil
}

// Border returns the border colour left by the load.
func (e *Engine) Border() uint8 { return e.border }

func (e *Engine) printf(format string, args ...any) {
	if e.out != nil {
		fmt.Fprintf(e.out, format, args...)
	}
}

// Run performs the whole load: the BASIC loader stage first, then CPU
// simulation for whatever the BASIC program starts. On success the final
// machine state is in the CPU's registers and memory.
func (e *Engine) Run() error {
	r := &e.cpu.Reg
	if r.SP == 0 {
		r.SP = sysSP
	}
	if r.IY == 0 {
		r.IY = sysIY
	}
	// a 48K machine enters the loader with interrupts enabled in mode 1;
	// whatever the simulated program does to this state afterwards sticks
	r.IFF1 = true
	r.IFF2 = true
	r.IM = 1

	prog, ok := e.loadProgram()
	if e.err != nil {
		return e.err
	}
	if ok {
		e.runBasic(parseBasic(prog))
		if e.err != nil {
			return e.err
		}
	}

	r.IX = e.lastLoadEnd
	r.SetDE(0)

	if !e.stream.finished() && e.start >= 0 {
		e.simulate()
		if e.err != nil {
			return e.err
		}
	} else {
		if e.stream.finished() {
			e.tapeFinished()
		}
		if e.start >= 0 {
			r.PC = uint16(e.start)
			e.stopMsg = fmt.Sprintf("Simulation stopped (PC in RAM): PC=%d", r.PC)
		}
	}
	if e.stopMsg != "" {
		e.printf("%s\n", e.stopMsg)
	}
	return nil
}

func (e *Engine) tapeFinished() {
	if !e.finishedMsg {
		e.printf("Tape finished\n")
		e.finishedMsg = true
	}
}

/* stage 1: native loading driven by the BASIC program */

type header struct {
	typ    uint8
	name   string
	length int
	p1, p2 int
}

var headerTypes = [4]string{"Program", "Number array", "Character array", "Bytes"}

func parseHeader(data []byte) (header, bool) {
	if len(data) != 19 || data[0] != 0 || data[1] > 3 {
		return header{}, false
	}
	return header{
		typ:    data[1],
		name:   string(data[2:12]),
		length: int(data[12]) | int(data[13])<<8,
		p1:     int(data[14]) | int(data[15])<<8,
		p2:     int(data[16]) | int(data[17])<<8,
	}, true
}

// nextHeader scans forward to the next header block, skipping marker
// blocks and warning about data blocks that arrive with no header wanted.
func (e *Engine) nextHeader() (header, bool) {
	for {
		blk := e.stream.takeBlock()
		if blk == nil {
			return header{}, false
		}
		if !blk.HasData() {
			continue
		}
		if h, ok := parseHeader(blk.Data); ok {
			e.printf("%s: %s\n", headerTypes[h.typ], h.name)
			return h, true
		}
		log.ModLoad.WarnZ("unexpected block while looking for a header").
			Int("bytes", int64(len(blk.Data)-2)).
			End()
		e.printf("Data block (%d bytes) [skipped]\n", len(blk.Data)-2)
	}
}

// nextData finds the payload block for a header, skipping blocks whose
// flag byte is wrong for this position.
func (e *Engine) nextData() (*tape.Block, bool) {
	for {
		blk := e.stream.takeBlock()
		if blk == nil {
			return nil, false
		}
		if !blk.HasData() {
			continue
		}
		if blk.Flag() == 0xFF {
			return blk, true
		}
		if h, ok := parseHeader(blk.Data); ok {
			e.printf("%s: %s [skipped]\n", headerTypes[h.typ], h.name)
		} else {
			e.printf("Data block (%d bytes) [skipped]\n", len(blk.Data)-2)
		}
	}
}

// loadPayload copies a block's payload to dest, honouring the declared
// length: overlong blocks are truncated, short ones are padded with the
// last byte actually read.
func (e *Engine) loadPayload(blk *tape.Block, dest uint16, length int) {
	e.printf("Fast loading data block: %d,%d\n", dest, length)
	payload := blk.Data[1:]
	if n := len(payload); n > 0 {
		payload = payload[:n-1] // drop checksum
	}
	last := uint8(0)
	for i := 0; i < length; i++ {
		if i < len(payload) {
			last = payload[i]
		}
		e.cpu.Mem.Data[dest+uint16(i)] = last
	}
	e.lastLoadEnd = dest + uint16(length)
}

// loadProgram loads the leading BASIC program block and returns its bytes.
func (e *Engine) loadProgram() ([]byte, bool) {
	h, ok := e.nextHeader()
	if !ok {
		return nil, false
	}
	if h.typ != 0 {
		log.ModLoad.WarnZ("tape does not start with a BASIC program").
			String("type", headerTypes[h.typ]).
			End()
		return nil, false
	}
	blk, ok := e.nextData()
	if !ok {
		return nil, false
	}
	e.loadPayload(blk, progAddr, h.length)
	e.varsAddr = progAddr + uint16(h.length)
	return e.cpu.Mem.Window(progAddr, h.length), true
}

// runBasic executes the loader statements extracted from the program.
func (e *Engine) runBasic(ops []basicOp) {
	for _, op := range ops {
		switch op.kind {
		case opBorder:
			e.border = uint8(op.arg) & 7
		case opClear:
			e.cpu.Reg.SP = uint16(op.arg) + 1
		case opUsr:
			if e.start < 0 {
				e.start = op.arg
			}
		case opLoadCode, opLoadScreen, opLoadData, opLoadPlain:
			h, ok := e.nextHeader()
			if !ok {
				return
			}
			blk, ok := e.nextData()
			if !ok {
				return
			}
			var dest uint16
			switch {
			case op.kind == opLoadScreen:
				dest = screenAddr
			case op.kind == opLoadPlain && h.typ == 0:
				dest = progAddr
			case h.typ == 1 || h.typ == 2:
				dest = e.varsAddr
				e.varsAddr += uint16(h.length)
			default:
				dest = uint16(h.p1)
			}
			e.loadPayload(blk, dest, h.length)
		}
	}
}

/* stage 2: CPU simulation with traps */

func (e *Engine) simulate() {
	err := e.cpu.Run(uint16(e.start), e)
	if err != nil && e.err == nil {
		e.err = err
	}
}

// OnInstruction implements hw.Tracer: it fields the LD-BYTES trap and
// decides when the run is over.
func (e *Engine) OnInstruction(cpu *hw.CPU, in hw.Instruction) bool {
	if e.err != nil {
		return true
	}
	pc := cpu.Reg.PC
	if pc == ldBytes {
		e.trapLoad(cpu)
		if e.err != nil {
			return true
		}
		pc = cpu.Reg.PC
	}
	if e.opts.Start >= 0 && pc == uint16(e.opts.Start) {
		e.stopMsg = fmt.Sprintf("Simulation stopped (PC at start address): PC=%d", pc)
		return true
	}
	if e.stream.finished() {
		e.tapeFinished()
		e.stopMsg = fmt.Sprintf("Simulation stopped (PC in RAM): PC=%d", pc)
		return true
	}
	if cpu.TStates > e.opts.MaxTime {
		e.stopMsg = fmt.Sprintf("Simulation stopped (timed out): PC=%d", pc)
		return true
	}
	return false
}

// trapLoad stands in for the ROM LD-BYTES routine: IX is the destination,
// DE the byte count, A the expected flag byte (the routine's own first
// instruction would stash it in the shadow pair, but the trap replaces the
// whole routine). Success leaves the carry flag set, a flag mismatch
// leaves it reset so the loader retries with the next block.
func (e *Engine) trapLoad(cpu *hw.CPU) {
	r := &cpu.Reg

	var blk *tape.Block
	for {
		blk = e.stream.takeBlock()
		if blk == nil {
			e.err = fmt.Errorf("Failed to fast load block: unexpected end of tape")
			return
		}
		if blk.HasData() {
			break
		}
	}

	// Advance the clock by the block's real playing time so timing-aware
	// code sees tape-speed loading.
	for _, w := range blockPulses(blk) {
		cpu.TStates += int64(w)
	}
	cpu.TStates += int64(blk.Pause) * tStatesPerMs

	length := int(r.DE())
	if blk.Flag() != r.A {
		if h, ok := parseHeader(blk.Data); ok {
			e.printf("%s: %s [skipped]\n", headerTypes[h.typ], h.name)
		} else {
			e.printf("Data block (%d bytes) [skipped]\n", len(blk.Data)-2)
		}
		r.F &^= hw.FC
	} else {
		avail := len(blk.Data) - 2 // flag and checksum are not payload
		short := avail < length
		e.loadPayload(blk, r.IX, length)
		r.IX += uint16(length)
		r.SetDE(0)
		r.A = 0
		if short {
			r.F = 0
		} else {
			r.F = hw.FC
		}
	}

	// RET out of the trapped routine
	r.PC = cpu.Mem.Peek16(r.SP)
	r.SP += 2
}

// OnPortRead implements hw.Tracer. Reads of port 0xFE deliver the EAR bit
// from the pulse stream; when the polling code matches a catalogued
// accelerator, whole loop iterations are skipped in one step.
func (e *Engine) OnPortRead(cpu *hw.CPU, port uint16) uint8 {
	if port&0xFF != 0xFE {
		return 0xFF
	}
	e.accelerate(cpu)
	for !e.tapeEnd && cpu.TStates >= e.edgeAt {
		d, ok := e.stream.nextEdge()
		if !ok {
			e.tapeEnd = true
			break
		}
		e.level = !e.level
		e.edgeAt += d
	}
	// EAR is bit 6; unused keyboard rows read high
	if e.level {
		return 0xFF
	}
	return 0xBF
}

// OnPortWrite implements hw.Tracer. Writes to port 0xFE set the border.
func (e *Engine) OnPortWrite(cpu *hw.CPU, port uint16, val uint8) {
	if port&1 == 0 {
		e.border = val & 7
	}
}

// accelerate matches the polling loop around the current IN instruction
// and, on a match, burns whole loop iterations at once: the clock, the R
// register and the loop's edge counter in B all advance exactly as the
// real iterations would have left them.
func (e *Engine) accelerate(cpu *hw.CPU) {
	if e.reg == nil {
		return
	}
	pc := cpu.Reg.PC // just past the IN A,($FE) operand
	if pc != e.accelPC {
		e.accelPC = pc
		e.accel = nil
		for _, a := range e.reg.candidates {
			entry := pc - 2 - uint16(a.inOffset)
			window := cpu.Mem.Window(entry, len(a.Sig)+1)
			if window[0] == a.Opcode && a.MatchCode(window[1:]) {
				e.accel = a
				log.ModLoad.InfoZ("accelerator matched").
					String("name", a.Name).
					Hex16("entry", entry).
					End()
				break
			}
		}
	}
	a := e.accel
	if a == nil || e.tapeEnd {
		return
	}

	// Reserve the entry-to-IN stretch of the final iteration so its sample
	// still lands before the edge.
	dt := e.edgeAt - cpu.TStates - int64(a.InTime)
	if dt <= int64(a.LoopTime) {
		return
	}
	n := dt / int64(a.LoopTime)

	// Leave the loop's timeout path reachable: never let B wrap here.
	var room int64
	if a.Opcode == 0x04 { // INC B
		room = int64(255 - cpu.Reg.B)
	} else { // DEC B
		room = int64(cpu.Reg.B) - 1
	}
	if room <= 0 {
		return
	}
	if n > room {
		n = room
	}

	cpu.TStates += n * int64(a.LoopTime)
	cpu.Reg.IncR(uint8(n * int64(a.LoopRInc)))
	if a.Opcode == 0x04 {
		cpu.Reg.B += uint8(n)
	} else {
		cpu.Reg.B -= uint8(n)
	}
}
