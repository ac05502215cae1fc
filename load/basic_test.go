package load

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// basicLine frames tokenized statement bytes as one program line.
func basicLine(num int, body []byte) []byte {
	body = append(body, 0x0D)
	out := []byte{uint8(num >> 8), uint8(num), uint8(len(body)), uint8(len(body) >> 8)}
	return append(out, body...)
}

// num renders n as ASCII digits followed by the inline binary marker the
// BASIC editor inserts.
func num(n int) []byte {
	digits := []byte(itoa(n))
	return append(digits, tokValNum, 0, 0, uint8(n), uint8(n>>8), 0)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = '0' + uint8(n%10)
		n /= 10
	}
	return string(buf[i:])
}

func TestParseBasicLoader(t *testing.T) {
	var prog []byte
	prog = append(prog, basicLine(10, append([]byte{tokBorder}, num(1)...))...)
	prog = append(prog, basicLine(20, append([]byte{tokClear}, num(24575)...))...)
	prog = append(prog, basicLine(30, []byte{tokLoad, '"', '"', tokCode})...)
	prog = append(prog, basicLine(40, []byte{tokLoad, '"', '"', tokScreenS})...)
	prog = append(prog, basicLine(50, append([]byte{tokRand, tokUsr}, num(32768)...))...)

	got := parseBasic(prog)
	want := []basicOp{
		{kind: opBorder, arg: 1},
		{kind: opClear, arg: 24575},
		{kind: opLoadCode},
		{kind: opLoadScreen},
		{kind: opUsr, arg: 32768},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(basicOp{})); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBasicVal(t *testing.T) {
	line := append([]byte{tokRand, tokUsr, tokVal, '"'}, []byte("32768")...)
	line = append(line, '"')
	prog := basicLine(10, line)

	got := parseBasic(prog)
	if len(got) != 1 || got[0].kind != opUsr || got[0].arg != 32768 {
		t.Errorf("got %+v", got)
	}
}

func TestParseBasicNamedLoad(t *testing.T) {
	// LOAD "game" DATA still consumes a block pair
	line := []byte{tokLoad, '"', 'g', 'a', 'm', 'e', '"', tokData}
	got := parseBasic(basicLine(10, line))
	if len(got) != 1 || got[0].kind != opLoadData {
		t.Errorf("got %+v", got)
	}
}

func TestParseBasicPlainLoad(t *testing.T) {
	got := parseBasic(basicLine(10, []byte{tokLoad, '"', '"'}))
	if len(got) != 1 || got[0].kind != opLoadPlain {
		t.Errorf("got %+v", got)
	}
}

func TestParseBasicIgnoresGarbage(t *testing.T) {
	// statements the loader stage does not interpret
	line := []byte{0xF5, ' ', '1', '0', 0xF1, 'a', '=', '5'} // PRINT 10 : LET a=5
	got := parseBasic(basicLine(10, line))
	if len(got) != 0 {
		t.Errorf("got %+v, want none", got)
	}
}

func TestParseBasicTruncatedLine(t *testing.T) {
	prog := basicLine(10, []byte{tokLoad, '"', '"'})
	prog = append(prog, 0x00, 0x14, 0xFF, 0xFF) // declared length past the end
	got := parseBasic(prog)
	if len(got) != 1 {
		t.Errorf("got %d ops, want 1", len(got))
	}
}
