package snap

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleSnapshot() *Snapshot {
	s := &Snapshot{Border: 3}
	r := &s.Reg
	r.SetAF(0x1122)
	r.SetBC(0x3344)
	r.SetDE(0x5566)
	r.SetHL(0x7788)
	r.SetAF2(0x99AA)
	r.SetBC2(0xBBCC)
	r.SetDE2(0xDDEE)
	r.SetHL2(0xFF00)
	r.IX = 0x1357
	r.IY = 0x2468
	r.SP = 0xFF00
	r.PC = 0x8000
	r.I = 0x3F
	r.R = 0xA5
	r.IFF1 = true
	r.IFF2 = true
	r.IM = 1
	for i := RAMStart; i < 0x10000; i++ {
		s.Mem[i] = uint8(i * 7)
	}
	return s
}

func TestSNARoundTrip(t *testing.T) {
	want := sampleSnapshot()
	img, err := WriteSNA(want)
	if err != nil {
		t.Fatal(err)
	}
	if len(img) != 27+RAMSize {
		t.Fatalf("image size = %d", len(img))
	}

	got, err := ReadSNA(img)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want.Reg, got.Reg); diff != "" {
		t.Errorf("registers mismatch (-want +got):\n%s", diff)
	}
	if got.Border != want.Border {
		t.Errorf("border = %d, want %d", got.Border, want.Border)
	}
	// PC storage scribbles on the two bytes below SP; everything else
	// must survive.
	for i := RAMStart; i < 0x10000; i++ {
		if uint16(i) == want.Reg.SP-2 || uint16(i) == want.Reg.SP-1 {
			continue
		}
		if got.Mem[i] != want.Mem[i] {
			t.Fatalf("mem[%04X] = %02X, want %02X", i, got.Mem[i], want.Mem[i])
		}
	}
}

func TestReadSNABadSize(t *testing.T) {
	_, err := ReadSNA(make([]byte, 100))
	if err == nil || !strings.Contains(err.Error(), "invalid SNA file size") {
		t.Errorf("got %v", err)
	}
}

func TestWriteSNANoStackRoom(t *testing.T) {
	s := sampleSnapshot()
	s.Reg.SP = RAMStart + 1
	_, err := WriteSNA(s)
	if err == nil {
		t.Error("expected an error for SP below RAM")
	}
}

func TestReadSNAInterruptState(t *testing.T) {
	s := sampleSnapshot()
	s.Reg.IFF1 = false
	s.Reg.IFF2 = false
	img, err := WriteSNA(s)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ReadSNA(img)
	if err != nil {
		t.Fatal(err)
	}
	if got.Reg.IFF1 || got.Reg.IFF2 {
		t.Error("interrupts must stay disabled through the round trip")
	}
}

func TestReadByExtension(t *testing.T) {
	s := sampleSnapshot()
	img, err := WriteSNA(s)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Read("game.SNA", img); err != nil {
		t.Errorf("uppercase extension: %v", err)
	}
	if _, err := Read("game.bin", img); err == nil {
		t.Error("unknown extension must be rejected")
	}

	if _, err := Write("game.bin", s); err == nil {
		t.Error("unknown extension must be rejected")
	}
}
