package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-faster/jx"

	"spector/emu/log"
	"spector/hw"
	"spector/snap"
)

// progTracer implements hw.Tracer for the trace command. All stop
// conditions are policy here, not simulator semantics: instruction and
// T-state budgets, a stop address, and the PUSH/POP balance heuristic
// that detects a program returning past its entry point.
type progTracer struct {
	cmd     *Trace
	ops     int64
	ppcount int64
	enc     jx.Encoder
	reason  string
}

func (t *progTracer) OnInstruction(cpu *hw.CPU, in hw.Instruction) bool {
	t.ops++

	if t.cmd.Verbose {
		fmt.Printf("$%04X %s\n", in.Addr, in.Op)
	}
	if t.cmd.TraceJSON != nil {
		t.writeJSON(in)
	}

	if strings.HasPrefix(in.Op, "PUSH") {
		t.ppcount++
	} else if strings.HasPrefix(in.Op, "POP") {
		t.ppcount--
	}

	switch {
	case t.cmd.Stop >= 0 && cpu.Reg.PC == uint16(t.cmd.Stop):
		t.reason = fmt.Sprintf("PC at stop address $%04X", t.cmd.Stop)
	case t.cmd.MaxOps > 0 && t.ops >= t.cmd.MaxOps:
		t.reason = fmt.Sprintf("%d operations", t.ops)
	case t.cmd.MaxTime > 0 && cpu.TStates >= t.cmd.MaxTime:
		t.reason = fmt.Sprintf("%d T-states", cpu.TStates)
	case t.cmd.PopsStop && t.ppcount < 0:
		t.reason = "POP count went negative"
	default:
		return false
	}
	return true
}

func (t *progTracer) OnPortRead(cpu *hw.CPU, port uint16) uint8 {
	return 0xFF
}

func (t *progTracer) OnPortWrite(cpu *hw.CPU, port uint16, val uint8) {}

func (t *progTracer) writeJSON(in hw.Instruction) {
	e := &t.enc
	e.Reset()
	e.ObjStart()
	e.FieldStart("pc")
	e.Int(int(in.Addr))
	e.FieldStart("bytes")
	e.Str(fmt.Sprintf("%X", in.Data))
	e.FieldStart("op")
	e.Str(in.Op)
	e.FieldStart("tstates")
	e.Int64(in.TStates)
	e.FieldStart("time")
	e.Int64(in.Time)
	e.ObjEnd()
	t.cmd.TraceJSON.Write(append(e.Bytes(), '\n'))
}

func runTrace(cmd *Trace) {
	data, err := os.ReadFile(cmd.SnapPath)
	checkf(err, "failed to read %s", cmd.SnapPath)

	var s *snap.Snapshot
	lower := strings.ToLower(cmd.SnapPath)
	if strings.HasSuffix(lower, ".sna") || strings.HasSuffix(lower, ".z80") {
		s, err = snap.Read(cmd.SnapPath, data)
		checkf(err, "failed to decode %s", cmd.SnapPath)
	} else {
		// raw binary, loaded at --org
		s = &snap.Snapshot{}
		s.Reg.SP = 65344
		copy(s.Mem[cmd.Org:], data)
		s.Reg.PC = uint16(cmd.Org)
	}
	checkf(applyRegSpecs(&s.Reg, cmd.Reg), "bad --reg option")

	start := s.Reg.PC
	if cmd.Start >= 0 {
		start = uint16(cmd.Start)
	}

	mem := &hw.Memory{}
	copy(mem.Data[:], s.Mem[:])
	cpu := hw.NewCPU(mem)
	cpu.Reg = s.Reg

	log.ModCPU.Debugf("tracing from $%04X", start)
	tracer := &progTracer{cmd: cmd}
	checkf(cpu.Run(start, tracer), "simulation error")
	if cmd.TraceJSON != nil {
		cmd.TraceJSON.Close()
	}

	fmt.Printf("Stopped at $%04X (%s)\n", cpu.Reg.PC, tracer.reason)
	fmt.Printf("%s\n", cpu.Reg.String())
	fmt.Printf("%d operations, %d T-states\n", tracer.ops, cpu.TStates)

	if cmd.Dump != "" {
		checkf(os.WriteFile(cmd.Dump, mem.Data[:], 0644), "cannot write %s", cmd.Dump)
	}
}
