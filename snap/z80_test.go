package snap

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestZ80RoundTrip(t *testing.T) {
	want := sampleSnapshot()
	img := WriteZ80(want)

	got, err := ReadZ80(img)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want.Reg, got.Reg); diff != "" {
		t.Errorf("registers mismatch (-want +got):\n%s", diff)
	}
	if got.Border != want.Border {
		t.Errorf("border = %d, want %d", got.Border, want.Border)
	}
	if !bytes.Equal(got.Mem[RAMStart:], want.Mem[RAMStart:]) {
		t.Error("memory image mismatch")
	}
}

func TestWriteZ80Header(t *testing.T) {
	s := sampleSnapshot()
	img := WriteZ80(s)

	if word(img, 6) != 0 {
		t.Error("PC at offset 6 must be 0 to mark version 2+")
	}
	if word(img, 30) != 54 {
		t.Errorf("extension header length = %d, want 54", word(img, 30))
	}
	if word(img, 32) != s.Reg.PC {
		t.Errorf("PC = %04X, want %04X", word(img, 32), s.Reg.PC)
	}
	// R splits across byte 11 and bit 0 of the flags
	if img[11] != s.Reg.R&0x7F || img[12]&1 != s.Reg.R>>7 {
		t.Errorf("R encoding: %02X / %02X", img[11], img[12])
	}
	if (img[12]>>1)&7 != s.Border {
		t.Errorf("border bits = %d, want %d", (img[12]>>1)&7, s.Border)
	}
}

func TestReadZ80V1(t *testing.T) {
	s := sampleSnapshot()
	hdr := make([]byte, 30)
	hdr[0] = s.Reg.A
	hdr[1] = s.Reg.F
	putWord(hdr, 2, s.Reg.BC())
	putWord(hdr, 4, s.Reg.HL())
	putWord(hdr, 6, s.Reg.PC) // non-zero: version 1
	putWord(hdr, 8, s.Reg.SP)
	hdr[10] = s.Reg.I
	hdr[11] = s.Reg.R & 0x7F
	hdr[12] = s.Reg.R>>7 | s.Border<<1 // uncompressed
	putWord(hdr, 13, s.Reg.DE())
	putWord(hdr, 15, s.Reg.BC2())
	putWord(hdr, 17, s.Reg.DE2())
	putWord(hdr, 19, s.Reg.HL2())
	hdr[21] = s.Reg.A2
	hdr[22] = s.Reg.F2
	putWord(hdr, 23, s.Reg.IY)
	putWord(hdr, 25, s.Reg.IX)
	hdr[27] = 1
	hdr[28] = 1
	hdr[29] = s.Reg.IM
	img := append(hdr, s.Mem[RAMStart:]...)

	got, err := ReadZ80(img)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s.Reg, got.Reg); diff != "" {
		t.Errorf("registers mismatch (-want +got):\n%s", diff)
	}
	if !bytes.Equal(got.Mem[RAMStart:], s.Mem[RAMStart:]) {
		t.Error("memory image mismatch")
	}
}

func TestReadZ80V1Compressed(t *testing.T) {
	s := sampleSnapshot()
	for i := range s.Mem[RAMStart:] {
		s.Mem[RAMStart+i] = 0x42
	}
	hdr := make([]byte, 30)
	putWord(hdr, 6, 0x8000)  // version 1 marker
	putWord(hdr, 8, 0xFF00)  // SP
	hdr[12] = 0x20           // compressed
	img := append(hdr, compress(s.Mem[RAMStart:])...)
	img = append(img, 0x00, 0xED, 0xED, 0x00) // end marker

	got, err := ReadZ80(img)
	if err != nil {
		t.Fatal(err)
	}
	if got.Reg.PC != 0x8000 {
		t.Errorf("PC = %04X, want 8000", got.Reg.PC)
	}
	for i := RAMStart; i < 0x10000; i++ {
		if got.Mem[i] != 0x42 {
			t.Fatalf("mem[%04X] = %02X, want 42", i, got.Mem[i])
		}
	}
}

func TestReadZ80Flags255Quirk(t *testing.T) {
	hdr := make([]byte, 30+RAMSize)
	putWord(hdr, 6, 0x8000)
	hdr[12] = 255 // treated as 1 by every tool since the format changed

	got, err := ReadZ80(hdr)
	if err != nil {
		t.Fatal(err)
	}
	if got.Reg.R&0x80 == 0 {
		t.Error("flags=255 must read as flags=1 (R bit 7 set)")
	}
	if got.Border != 0 {
		t.Errorf("border = %d, want 0", got.Border)
	}
}

func TestReadZ80Truncated(t *testing.T) {
	if _, err := ReadZ80(make([]byte, 10)); err == nil {
		t.Error("short header must fail")
	}

	// version 2 marker but no extension header
	hdr := make([]byte, 31)
	if _, err := ReadZ80(hdr); err == nil {
		t.Error("missing extension header must fail")
	}
}

func TestCompressRoundTrip(t *testing.T) {
	tests := [][]byte{
		{1, 2, 3, 4, 5},
		{7, 7, 7, 7, 7, 7, 7},                // long run
		{7, 7, 7, 7},                         // below the run threshold
		{0xED, 0x01},                         // lone ED swallows the next byte
		{0xED, 0xED},                         // ED pair is always run-encoded
		{0xED},                               // trailing lone ED
		{0, 0, 0, 0, 0, 0xED, 0xED, 0xED, 9}, // mixed
	}
	for _, want := range tests {
		enc := compress(want)
		got, err := decompress(enc, len(want))
		if err != nil {
			t.Errorf("% X: %v", want, err)
			continue
		}
		if !bytes.Equal(got, want) {
			t.Errorf("% X: round-tripped to % X", want, got)
		}
	}
}

func TestCompressEncodesRuns(t *testing.T) {
	data := bytes.Repeat([]byte{9}, 200)
	enc := compress(data)
	if len(enc) != 4 {
		t.Errorf("200-byte run compressed to %d bytes, want 4", len(enc))
	}
	if enc[0] != 0xED || enc[1] != 0xED || enc[2] != 200 || enc[3] != 9 {
		t.Errorf("encoding = % X", enc)
	}
}

func TestDecompressSizeMismatch(t *testing.T) {
	if _, err := decompress([]byte{1, 2}, 5); err == nil {
		t.Error("short expansion must fail")
	}
}
