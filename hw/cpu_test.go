package hw

import (
	"strings"
	"testing"
)

const testOrg = 0x8000

func testCPU(code []byte) *CPU {
	mem := &Memory{}
	mem.Poke(testOrg, code)
	c := NewCPU(mem)
	c.Reg.PC = testOrg
	c.Reg.SP = 0xFF00
	return c
}

func mustStep(t *testing.T, c *CPU) Instruction {
	t.Helper()
	in, err := c.Step()
	if err != nil {
		t.Fatal(err)
	}
	return in
}

func TestStepTiming(t *testing.T) {
	tests := []struct {
		code  []byte
		op    string
		cost  int64
	}{
		{[]byte{0x00}, "NOP", 4},
		{[]byte{0x3E, 0x42}, "LD A,$42", 7},
		{[]byte{0x01, 0x34, 0x12}, "LD BC,$1234", 10},
		{[]byte{0x36, 0x42}, "LD (HL),$42", 10},
		{[]byte{0x34}, "INC (HL)", 11},
		{[]byte{0x86}, "ADD A,(HL)", 7},
		{[]byte{0xC5}, "PUSH BC", 11},
		{[]byte{0xC1}, "POP BC", 10},
		{[]byte{0xDD, 0x21, 0x34, 0x12}, "LD IX,$1234", 14},
		{[]byte{0xDD, 0x36, 0x05, 0x42}, "LD (IX+$05),$42", 19},
		{[]byte{0xDD, 0x46, 0x05}, "LD B,(IX+$05)", 19},
		{[]byte{0xDD, 0x34, 0x05}, "INC (IX+$05)", 23},
		{[]byte{0xDD, 0x86, 0x05}, "ADD A,(IX+$05)", 19},
		{[]byte{0xCB, 0x00}, "RLC B", 8},
		{[]byte{0xCB, 0x06}, "RLC (HL)", 15},
		{[]byte{0xCB, 0x46}, "BIT 0,(HL)", 12},
		{[]byte{0xCB, 0xC6}, "SET 0,(HL)", 15},
		{[]byte{0xDD, 0xCB, 0x05, 0x46}, "BIT 0,(IX+$05)", 20},
		{[]byte{0xDD, 0xCB, 0x05, 0xC6}, "SET 0,(IX+$05)", 23},
		{[]byte{0xED, 0x44}, "NEG", 8},
		{[]byte{0xED, 0x67}, "RRD", 18},
		{[]byte{0xED, 0x52}, "SBC HL,DE", 15},
		{[]byte{0xED, 0x78}, "IN A,(C)", 12},
		{[]byte{0xDB, 0xFE}, "IN A,($FE)", 11},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			c := testCPU(tt.code)
			in := mustStep(t, c)
			if in.Op != tt.op {
				t.Errorf("got op %q, want %q", in.Op, tt.op)
			}
			if in.TStates != tt.cost {
				t.Errorf("got %d T-states, want %d", in.TStates, tt.cost)
			}
			if want := testOrg + uint16(len(tt.code)); c.Reg.PC != want {
				t.Errorf("got PC = %04X, want %04X", c.Reg.PC, want)
			}
		})
	}
}

func TestDoublePrefix(t *testing.T) {
	c := testCPU([]byte{0xDD, 0xDD, 0x21, 0x34, 0x12})

	in := mustStep(t, c)
	if in.Op != "NOP*" || in.TStates != 4 {
		t.Errorf("got %q (%d T), want NOP* (4 T)", in.Op, in.TStates)
	}
	if c.Reg.PC != testOrg+1 {
		t.Errorf("got PC = %04X, want %04X", c.Reg.PC, testOrg+1)
	}

	in = mustStep(t, c)
	if in.Op != "LD IX,$1234" || in.TStates != 14 {
		t.Errorf("got %q (%d T), want LD IX,$1234 (14 T)", in.Op, in.TStates)
	}
	if c.Reg.IX != 0x1234 {
		t.Errorf("got IX = %04X, want 1234", c.Reg.IX)
	}
}

func TestRefreshCounter(t *testing.T) {
	c := testCPU([]byte{0x00, 0xDD, 0x21, 0x34, 0x12, 0xCB, 0x00, 0xED, 0x44})
	c.Reg.R = 0x80

	mustStep(t, c) // NOP: one M1
	if c.Reg.R != 0x81 {
		t.Errorf("after NOP: R = %02X, want 81", c.Reg.R)
	}
	mustStep(t, c) // prefixed: two M1 cycles
	if c.Reg.R != 0x83 {
		t.Errorf("after LD IX,nn: R = %02X, want 83", c.Reg.R)
	}
	mustStep(t, c) // CB
	if c.Reg.R != 0x85 {
		t.Errorf("after RLC B: R = %02X, want 85", c.Reg.R)
	}
	mustStep(t, c) // ED
	if c.Reg.R != 0x87 {
		t.Errorf("after NEG: R = %02X, want 87", c.Reg.R)
	}
}

func TestRefreshCounterBit7(t *testing.T) {
	r := Registers{R: 0xFF}
	r.IncR(1)
	if r.R != 0x80 {
		t.Errorf("got R = %02X, want 80", r.R)
	}
}

func TestHaltAndInterrupt(t *testing.T) {
	c := testCPU([]byte{0x76})
	c.Reg.IFF1 = true
	c.Reg.IM = 1

	mustStep(t, c)
	if !c.Halted {
		t.Fatal("CPU not halted after HALT")
	}

	// Halted steps idle at 4 T each without advancing PC.
	in := mustStep(t, c)
	if in.Op != "HALT" || in.TStates != 4 {
		t.Errorf("got %q (%d T), want HALT (4 T)", in.Op, in.TStates)
	}
	if c.Reg.PC != testOrg+1 {
		t.Errorf("got PC = %04X, want %04X", c.Reg.PC, testOrg+1)
	}

	if !c.Interrupt(0xFF) {
		t.Fatal("interrupt not accepted")
	}
	if c.Halted {
		t.Error("interrupt must clear the halt state")
	}
	if c.Reg.PC != 0x0038 {
		t.Errorf("got PC = %04X, want 0038", c.Reg.PC)
	}
	if got := c.Mem.Peek16(c.Reg.SP); got != testOrg+1 {
		t.Errorf("got return address %04X, want %04X", got, testOrg+1)
	}
	if c.Reg.IFF1 || c.Reg.IFF2 {
		t.Error("interrupt must clear IFF1 and IFF2")
	}
}

func TestEIDelaysInterrupt(t *testing.T) {
	c := testCPU([]byte{0xFB, 0x00}) // EI; NOP
	c.Reg.IM = 1

	mustStep(t, c)
	if !c.Reg.IFF1 {
		t.Fatal("EI did not set IFF1")
	}
	if c.Interrupt(0xFF) {
		t.Error("interrupt accepted in the instruction after EI")
	}

	mustStep(t, c)
	if !c.Interrupt(0xFF) {
		t.Error("interrupt refused after the EI shadow passed")
	}
	if c.Reg.PC != 0x0038 {
		t.Errorf("got PC = %04X, want 0038", c.Reg.PC)
	}
}

func TestInterruptMode2(t *testing.T) {
	c := testCPU([]byte{0x00})
	c.Reg.IFF1 = true
	c.Reg.IM = 2
	c.Reg.I = 0x3F
	c.Mem.Poke(0x3FFE, []byte{0x34, 0x12})

	if !c.Interrupt(0xFE) {
		t.Fatal("interrupt not accepted")
	}
	if c.Reg.PC != 0x1234 {
		t.Errorf("got PC = %04X, want 1234", c.Reg.PC)
	}
	if c.TStates != 19 {
		t.Errorf("got %d T-states, want 19", c.TStates)
	}
}

func TestNMIPreservesIFF2(t *testing.T) {
	c := testCPU([]byte{0x00})
	c.Reg.IFF1 = true
	c.Reg.IFF2 = true

	c.NonMaskableInterrupt()
	if c.Reg.PC != 0x0066 {
		t.Errorf("got PC = %04X, want 0066", c.Reg.PC)
	}
	if c.Reg.IFF1 {
		t.Error("NMI must clear IFF1")
	}
	if !c.Reg.IFF2 {
		t.Error("NMI must preserve IFF2")
	}
}

func TestLDIR(t *testing.T) {
	c := testCPU([]byte{0xED, 0xB0})
	c.Reg.SetHL(0x9000)
	c.Reg.SetDE(0xA000)
	c.Reg.SetBC(3)
	c.Mem.Poke(0x9000, []byte{1, 2, 3})

	var total int64
	steps := 0
	for c.Reg.PC != testOrg+2 {
		in := mustStep(t, c)
		total += in.TStates
		steps++
	}
	if steps != 3 {
		t.Errorf("got %d steps, want 3", steps)
	}
	if total != 21+21+16 {
		t.Errorf("got %d T-states, want 58", total)
	}
	if got := c.Mem.Window(0xA000, 3); got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("destination not copied: % X", got)
	}
	if c.Reg.BC() != 0 || c.Reg.HL() != 0x9003 || c.Reg.DE() != 0xA003 {
		t.Errorf("got BC=%04X HL=%04X DE=%04X", c.Reg.BC(), c.Reg.HL(), c.Reg.DE())
	}
	if c.Reg.F&FP != 0 {
		t.Error("P must be reset once BC reaches 0")
	}
}

func TestInvalidEDOpcode(t *testing.T) {
	c := testCPU([]byte{0xED, 0x00})
	_, err := c.Step()
	if err == nil {
		t.Fatal("expected a decode error")
	}
	if !strings.Contains(err.Error(), "invalid opcode") {
		t.Errorf("got error %q", err)
	}
}

type stopAtTracer struct {
	NopTracer
	addr uint16
}

func (t stopAtTracer) OnInstruction(c *CPU, in Instruction) bool {
	return c.Reg.PC == t.addr
}

func TestRunStopsOnTracer(t *testing.T) {
	// small counting loop: LD B,3; DJNZ -2; RET
	c := testCPU([]byte{0x06, 0x03, 0x10, 0xFE, 0xC9})
	if err := c.Run(testOrg, stopAtTracer{addr: testOrg + 4}); err != nil {
		t.Fatal(err)
	}
	if c.Reg.B != 0 {
		t.Errorf("got B = %d, want 0", c.Reg.B)
	}
	if c.Reg.PC != testOrg+4 {
		t.Errorf("got PC = %04X, want %04X", c.Reg.PC, testOrg+4)
	}
}

func TestExchangeOps(t *testing.T) {
	c := testCPU([]byte{0x08, 0xD9, 0xEB})
	c.Reg.SetAF(0x1122)
	c.Reg.SetAF2(0x3344)
	c.Reg.SetBC(0x5566)
	c.Reg.SetBC2(0x7788)
	c.Reg.SetDE(0x99AA)
	c.Reg.SetDE2(0xDDEE)
	c.Reg.SetHL(0xBBCC)
	c.Reg.SetHL2(0xFF00)

	mustStep(t, c) // EX AF,AF'
	if c.Reg.AF() != 0x3344 || c.Reg.AF2() != 0x1122 {
		t.Errorf("EX AF,AF': AF=%04X AF'=%04X", c.Reg.AF(), c.Reg.AF2())
	}
	mustStep(t, c) // EXX
	if c.Reg.BC() != 0x7788 || c.Reg.BC2() != 0x5566 {
		t.Errorf("EXX: BC=%04X BC'=%04X", c.Reg.BC(), c.Reg.BC2())
	}
	if c.Reg.DE() != 0xDDEE || c.Reg.HL() != 0xFF00 {
		t.Errorf("EXX: DE=%04X HL=%04X", c.Reg.DE(), c.Reg.HL())
	}
	mustStep(t, c) // EX DE,HL
	if c.Reg.DE() != 0xFF00 || c.Reg.HL() != 0xDDEE {
		t.Errorf("EX DE,HL: DE=%04X HL=%04X", c.Reg.DE(), c.Reg.HL())
	}
}

func TestIndexedHalves(t *testing.T) {
	// LD IXh,$12 ; LD IXl,$34
	c := testCPU([]byte{0xDD, 0x26, 0x12, 0xDD, 0x2E, 0x34})
	mustStep(t, c)
	mustStep(t, c)
	if c.Reg.IX != 0x1234 {
		t.Errorf("got IX = %04X, want 1234", c.Reg.IX)
	}
}

func TestIndexedCBRegisterCopy(t *testing.T) {
	// SET 7,(IX+$02),B: the result lands in memory and in B
	c := testCPU([]byte{0xDD, 0xCB, 0x02, 0xF8})
	c.Reg.IX = 0x9000
	c.Mem.Data[0x9002] = 0x01
	in := mustStep(t, c)
	if in.TStates != 23 {
		t.Errorf("got %d T-states, want 23", in.TStates)
	}
	if c.Mem.Data[0x9002] != 0x81 {
		t.Errorf("got (IX+2) = %02X, want 81", c.Mem.Data[0x9002])
	}
	if c.Reg.B != 0x81 {
		t.Errorf("got B = %02X, want 81", c.Reg.B)
	}
}

func TestSetByName(t *testing.T) {
	var r Registers
	for _, spec := range []struct {
		name string
		val  int
	}{
		{"a", 0x12}, {"^hl", 0x1234}, {"ixl", 0x56}, {"sp", 0xFF00},
	} {
		if err := r.SetByName(spec.name, spec.val); err != nil {
			t.Fatalf("SetByName(%s): %v", spec.name, err)
		}
		got, ok := r.GetByName(spec.name)
		if !ok || int(got) != spec.val {
			t.Errorf("GetByName(%s) = %04X, want %04X", spec.name, got, spec.val)
		}
	}

	if err := r.SetByName("a", 256); err == nil {
		t.Error("expected range error for a=256")
	}
	if err := r.SetByName("xy", 0); err == nil {
		t.Error("expected error for unknown register")
	}
}

func TestMemoryWrap(t *testing.T) {
	mem := &Memory{}
	mem.Write16(0xFFFF, 0x1234)
	if mem.Data[0xFFFF] != 0x34 || mem.Data[0x0000] != 0x12 {
		t.Errorf("got %02X %02X, want 34 12", mem.Data[0xFFFF], mem.Data[0x0000])
	}
	w := mem.Window(0xFFFF, 2)
	if w[0] != 0x34 || w[1] != 0x12 {
		t.Errorf("Window did not wrap: % X", w)
	}
}

func TestDisasm(t *testing.T) {
	tests := []struct {
		data []byte
		want string
	}{
		{[]byte{0x00}, "NOP"},
		{[]byte{0x3E, 0x42}, "LD A,$42"},
		{[]byte{0x21, 0x34, 0x12}, "LD HL,$1234"},
		{[]byte{0x10, 0xFE}, "DJNZ $8000"},
		{[]byte{0x18, 0x00}, "JR $8002"},
		{[]byte{0x20, 0x02}, "JR NZ,$8004"},
		{[]byte{0xC7}, "RST $00"},
		{[]byte{0xFF}, "RST $38"},
		{[]byte{0xDB, 0xFE}, "IN A,($FE)"},
		{[]byte{0xCB, 0x47}, "BIT 0,A"},
		{[]byte{0xDD, 0x7E, 0xFB}, "LD A,(IX-$05)"},
		{[]byte{0xDD, 0xCB, 0x05, 0x46}, "BIT 0,(IX+$05)"},
		{[]byte{0xDD, 0xCB, 0x05, 0xC0}, "SET 0,(IX+$05),B"},
		{[]byte{0xFD, 0xE9}, "JP (IY)"},
		{[]byte{0xED, 0xB0}, "LDIR"},
		{[]byte{0xED, 0x78}, "IN A,(C)"},
		{[]byte{0xED, 0x43, 0x00, 0x40}, "LD ($4000),BC"},
		{[]byte{0xDD}, "NOP*"},
	}
	for _, tt := range tests {
		if got := disasm(tt.data, testOrg); got != tt.want {
			t.Errorf("disasm(% X) = %q, want %q", tt.data, got, tt.want)
		}
	}
}
