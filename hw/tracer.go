package hw

// Instruction describes one completed instruction. It is built fresh for
// every step and handed to the tracer; the Data slice aliases an internal
// buffer and must be copied if retained.
type Instruction struct {
	Addr    uint16 // address the opcode was fetched from
	Data    []byte // raw opcode bytes, prefixes included
	Op      string // decoded mnemonic and operands
	TStates int64  // cost of this instruction
	Time    int64  // total T-states after execution
}

// Tracer observes a running CPU. OnInstruction is called after every
// completed instruction; returning stop=true unwinds Run without further
// side effects. Port accesses are routed through the tracer as well: the
// simulator has no I/O devices of its own.
type Tracer interface {
	OnInstruction(cpu *CPU, in Instruction) (stop bool)
	OnPortRead(cpu *CPU, port uint16) uint8
	OnPortWrite(cpu *CPU, port uint16, val uint8)
}

// NopTracer runs the CPU unobserved: never stops, reads 0xFF from every
// port, discards writes.
type NopTracer struct{}

func (NopTracer) OnInstruction(*CPU, Instruction) bool    { return false }
func (NopTracer) OnPortRead(*CPU, uint16) uint8           { return 0xFF }
func (NopTracer) OnPortWrite(cpu *CPU, p uint16, v uint8) {}
