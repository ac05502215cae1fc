package load

// The native loader stage interprets the freshly loaded BASIC program
// instead of simulating the ROM's BASIC interpreter: it scans the token
// stream for the statements a loader program uses to pull in the rest of
// the tape and to start the game.

// ZX BASIC token bytes.
const (
	tokValNum  = 0x0E // inline 5-byte number marker
	tokScreenS = 0xAA
	tokCode    = 0xAF
	tokVal     = 0xB0
	tokUsr     = 0xC0
	tokData    = 0xE4
	tokBorder  = 0xE7
	tokLoad    = 0xEF
	tokRand    = 0xF9
	tokClear   = 0xFD
)

type basicOpKind int

const (
	opLoadPlain basicOpKind = iota // LOAD ""
	opLoadCode                     // LOAD ""CODE
	opLoadData                     // LOAD "" DATA x()
	opLoadScreen                   // LOAD ""SCREEN$
	opBorder                       // BORDER n
	opClear                        // CLEAR n
	opUsr                          // RANDOMIZE USR n
)

type basicOp struct {
	kind basicOpKind
	arg  int
}

// parseBasic walks a tokenized BASIC program and extracts the loader
// statements in execution order (top to bottom; control flow is not
// interpreted).
func parseBasic(prog []byte) []basicOp {
	var ops []basicOp
	pos := 0
	for pos+4 <= len(prog) {
		// line number is big-endian, line length little-endian
		lineLen := int(prog[pos+2]) | int(prog[pos+3])<<8
		pos += 4
		if pos+lineLen > len(prog) {
			break
		}
		ops = append(ops, parseLine(prog[pos:pos+lineLen])...)
		pos += lineLen
	}
	return ops
}

func parseLine(line []byte) []basicOp {
	var ops []basicOp
	i := 0
	for i < len(line) {
		switch line[i] {
		case tokValNum:
			i += 6 // marker plus the 5-byte binary form
		case tokLoad:
			op, next, ok := parseLoad(line, i+1)
			if ok {
				ops = append(ops, op)
				i = next
			} else {
				i++
			}
		case tokBorder:
			if v, next, ok := parseNumber(line, i+1); ok {
				ops = append(ops, basicOp{kind: opBorder, arg: v})
				i = next
			} else {
				i++
			}
		case tokClear:
			if v, next, ok := parseNumber(line, i+1); ok {
				ops = append(ops, basicOp{kind: opClear, arg: v})
				i = next
			} else {
				i++
			}
		case tokRand:
			j := skipSpaces(line, i+1)
			if j < len(line) && line[j] == tokUsr {
				if v, next, ok := parseNumber(line, j+1); ok {
					ops = append(ops, basicOp{kind: opUsr, arg: v})
					i = next
					continue
				}
			}
			i++
		default:
			i++
		}
	}
	return ops
}

// parseLoad recognises LOAD "" with an optional CODE/DATA/SCREEN$ suffix.
// A LOAD with a non-empty name still consumes the next tape block pair,
// so the name is skipped without interpretation.
func parseLoad(line []byte, i int) (basicOp, int, bool) {
	i = skipSpaces(line, i)
	if i >= len(line) || line[i] != '"' {
		return basicOp{}, 0, false
	}
	i++
	for i < len(line) && line[i] != '"' {
		i++
	}
	if i >= len(line) {
		return basicOp{}, 0, false
	}
	i = skipSpaces(line, i+1)
	if i < len(line) {
		switch line[i] {
		case tokCode:
			return basicOp{kind: opLoadCode}, i + 1, true
		case tokScreenS:
			return basicOp{kind: opLoadScreen}, i + 1, true
		case tokData:
			return basicOp{kind: opLoadData}, i + 1, true
		}
	}
	return basicOp{kind: opLoadPlain}, i, true
}

// parseNumber reads a numeric argument: either ASCII digits (with their
// trailing inline binary form) or VAL "digits".
func parseNumber(line []byte, i int) (int, int, bool) {
	i = skipSpaces(line, i)
	if i < len(line) && line[i] == tokVal {
		i = skipSpaces(line, i+1)
		if i >= len(line) || line[i] != '"' {
			return 0, 0, false
		}
		i++
		v, n := 0, 0
		for i < len(line) && line[i] != '"' {
			if line[i] >= '0' && line[i] <= '9' {
				v = v*10 + int(line[i]-'0')
				n++
			}
			i++
		}
		if i >= len(line) || n == 0 {
			return 0, 0, false
		}
		return v, i + 1, true
	}

	v, n := 0, 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		v = v*10 + int(line[i]-'0')
		n++
		i++
	}
	if n == 0 {
		return 0, 0, false
	}
	if i < len(line) && line[i] == tokValNum {
		i += 6
	}
	return v, i, true
}

func skipSpaces(line []byte, i int) int {
	for i < len(line) && line[i] == ' ' {
		i++
	}
	return i
}
