package main

import (
	"strings"
	"testing"

	"spector/hw"
)

func traceStep(tr *progTracer, cpu *hw.CPU, op string) bool {
	return tr.OnInstruction(cpu, hw.Instruction{Addr: cpu.Reg.PC, Op: op})
}

func TestProgTracerMaxOps(t *testing.T) {
	cpu := hw.NewCPU(&hw.Memory{})
	tr := &progTracer{cmd: &Trace{Start: -1, Stop: -1, MaxOps: 3}}

	for i := 0; i < 2; i++ {
		if traceStep(tr, cpu, "NOP") {
			t.Fatalf("stopped after %d instructions", i+1)
		}
	}
	if !traceStep(tr, cpu, "NOP") {
		t.Fatal("did not stop at the instruction budget")
	}
	if !strings.Contains(tr.reason, "operations") {
		t.Errorf("reason = %q", tr.reason)
	}
}

func TestProgTracerStopAddress(t *testing.T) {
	cpu := hw.NewCPU(&hw.Memory{})
	tr := &progTracer{cmd: &Trace{Start: -1, Stop: 0x9000}}

	cpu.Reg.PC = 0x8000
	if traceStep(tr, cpu, "NOP") {
		t.Fatal("stopped before the stop address")
	}
	cpu.Reg.PC = 0x9000
	if !traceStep(tr, cpu, "NOP") {
		t.Fatal("did not stop at the stop address")
	}
}

func TestProgTracerMaxTStates(t *testing.T) {
	cpu := hw.NewCPU(&hw.Memory{})
	tr := &progTracer{cmd: &Trace{Start: -1, Stop: -1, MaxTime: 100}}

	cpu.TStates = 99
	if traceStep(tr, cpu, "NOP") {
		t.Fatal("stopped below the T-state budget")
	}
	cpu.TStates = 100
	if !traceStep(tr, cpu, "NOP") {
		t.Fatal("did not stop at the T-state budget")
	}
}

func TestProgTracerPopsStop(t *testing.T) {
	cpu := hw.NewCPU(&hw.Memory{})
	tr := &progTracer{cmd: &Trace{Start: -1, Stop: -1, PopsStop: true}}

	if traceStep(tr, cpu, "PUSH BC") {
		t.Fatal("stopped on PUSH")
	}
	if traceStep(tr, cpu, "POP BC") {
		t.Fatal("stopped while the stack was balanced")
	}
	if !traceStep(tr, cpu, "POP HL") {
		t.Fatal("did not stop when POPs outnumbered PUSHes")
	}
	if !strings.Contains(tr.reason, "POP") {
		t.Errorf("reason = %q", tr.reason)
	}
}
