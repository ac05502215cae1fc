// Package load implements tape fast-loading: an accelerator registry
// describing the polling loops of known cassette loaders, and the engine
// that drives the CPU against a decoded tape.
package load

import (
	"fmt"
	"sort"
)

// SigByte is one position of an accelerator signature: either a literal
// opcode byte or a wildcard covering operands that vary between releases
// (relative jump targets, immediate values).
type SigByte struct {
	val      uint8
	wildcard bool
}

func (s SigByte) Matches(b uint8) bool {
	return s.wildcard || s.val == b
}

// b is a literal signature byte; xx matches anything.
func b(v uint8) SigByte { return SigByte{val: v} }

var xx = SigByte{wildcard: true}

// Accelerator describes the sampling loop of one loader family. Opcode is
// the loop's first byte (INC B or DEC B, the edge counter update); Sig
// covers the rest of the loop body. The timing constants say how much
// simulated time and refresh count one loop iteration burns, and where in
// the iteration the IN instruction samples the EAR bit.
type Accelerator struct {
	Name     string
	Opcode   uint8
	Sig      []SigByte
	InTime   int   // T-states from loop entry to the IN A,($FE) sample
	LoopTime int   // T-states per full loop iteration
	LoopRInc uint8 // R increments per loop iteration
	EarMask  uint8 // which bit of the shifted port value is the EAR bit

	inOffset int // byte offset of the IN opcode from the loop entry
}

// earBit is where the EAR level sits in a port 0xFE read.
const earBit = 0x40

// verify locates the IN A,($FE) within the signature and checks that
// EarMask names the bit the loop actually tests: each RRA (or RR A)
// between the IN and its XOR C moves the EAR bit right one place.
func (a *Accelerator) verify() error {
	a.inOffset = -1
	for i := 0; i+1 < len(a.Sig); i++ {
		if !a.Sig[i].wildcard && a.Sig[i].val == 0xDB &&
			!a.Sig[i+1].wildcard && a.Sig[i+1].val == 0xFE {
			a.inOffset = i + 1 // Sig starts one byte past the entry
			break
		}
	}
	if a.inOffset < 0 {
		return fmt.Errorf("%s has no IN A,($FE)", a.Name)
	}
	mask := uint8(earBit)
	for i := a.inOffset + 1; i < len(a.Sig); i++ {
		s := a.Sig[i]
		if s.wildcard {
			continue
		}
		switch {
		case s.val == 0xA9: // XOR C: the shifted value is tested here
			i = len(a.Sig)
		case s.val == 0x1F: // RRA
			mask >>= 1
		case s.val == 0xCB && i+1 < len(a.Sig) && a.Sig[i+1].val == 0x1F: // RR A
			mask >>= 1
			i++
		}
	}
	if a.EarMask != mask {
		return fmt.Errorf("%s: EarMask %#02x does not match the signature's shifts (want %#02x)",
			a.Name, a.EarMask, mask)
	}
	return nil
}

func init() {
	for _, a := range accelerators {
		if err := a.verify(); err != nil {
			panic("accelerator " + err.Error())
		}
	}
}

// MatchCode reports whether the loop body at code matches this
// accelerator. code starts at the byte after the loop opcode.
func (a *Accelerator) MatchCode(code []byte) bool {
	if len(code) < len(a.Sig) {
		return false
	}
	for i, s := range a.Sig {
		if !s.Matches(code[i]) {
			return false
		}
	}
	return true
}

// Registry resolves accelerator names (aliases included) and matches code
// windows against a fixed set of candidates.
type Registry struct {
	candidates []*Accelerator
}

// NewRegistry builds a registry over the named accelerators, or over the
// whole catalogue when no names are given. Unknown names are rejected.
func NewRegistry(names ...string) (*Registry, error) {
	if len(names) == 0 {
		r := &Registry{}
		for _, n := range catalogueNames() {
			r.candidates = append(r.candidates, accelerators[n])
		}
		return r, nil
	}
	r := &Registry{}
	for _, name := range names {
		a, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		r.candidates = append(r.candidates, a)
	}
	return r, nil
}

// Match finds the first accelerator whose signature matches the code
// window. code[0] is the byte at the loop entry address.
func (r *Registry) Match(code []byte) *Accelerator {
	if len(code) == 0 {
		return nil
	}
	for _, a := range r.candidates {
		if a.Opcode == code[0] && a.MatchCode(code[1:]) {
			return a
		}
	}
	return nil
}

// Lookup resolves a name or alias to its accelerator.
func Lookup(name string) (*Accelerator, error) {
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	if a, ok := accelerators[name]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("Unrecognised accelerator: %s", name)
}

// Names lists every recognised accelerator name, aliases included, sorted.
func Names() []string {
	names := make([]string, 0, len(accelerators)+len(aliases))
	for n := range accelerators {
		names = append(names, n)
	}
	for n := range aliases {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func catalogueNames() []string {
	names := make([]string, 0, len(accelerators))
	for n := range accelerators {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
