package load

// The accelerator catalogue. Each entry describes the EAR sampling loop of
// one loader family as shipped on real tapes: the loop opcode (the edge
// counter INC B / DEC B), the loop body with wildcards where releases
// differ, and the loop's timing. Signatures are matched anchored at the
// loop entry address.

func acc(name string, opcode uint8, sig []SigByte, inTime, loopTime int, rInc, ear uint8) *Accelerator {
	return &Accelerator{
		Name:     name,
		Opcode:   opcode,
		Sig:      sig,
		InTime:   inTime,
		LoopTime: loopTime,
		LoopRInc: rInc,
		EarMask:  ear,
	}
}

var accelerators = map[string]*Accelerator{
	"alkatraz": acc("alkatraz", 0x04, []SigByte{ // INC B
		b(0x20), b(0x03), // JR NZ,LD_SAMPLE2
		xx, xx, xx,
		b(0xDB), b(0xFE), // LD_SAMPLE2 IN A,($FE)
		b(0x1F),          // RRA
		b(0xC8),          // RET Z
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xF1), // JR Z,LD_SAMPLE
	}, 16, 59, 8, 0x20),

	"alkatraz-05": acc("alkatraz-05", 0x04, []SigByte{ // INC B
		b(0x20), b(0x05), // JR NZ,LD_SAMPLE2
		xx, xx, xx, xx, xx,
		b(0xDB), b(0xFE), // LD_SAMPLE2 IN A,($FE)
		b(0x1F),          // RRA
		b(0xC8),          // RET Z
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xEF), // JR Z,LD_SAMPLE
	}, 16, 59, 8, 0x20),

	"alkatraz-09": acc("alkatraz-09", 0x04, []SigByte{ // INC B
		b(0x20), b(0x09), // JR NZ,LD_SAMPLE2
		xx, xx, xx, xx, xx,
		xx, xx, xx, xx,
		b(0xDB), b(0xFE), // LD_SAMPLE2 IN A,($FE)
		b(0x1F),          // RRA
		b(0xC8),          // RET Z
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xEB), // JR Z,LD_SAMPLE
	}, 16, 59, 8, 0x20),

	"alkatraz-0a": acc("alkatraz-0a", 0x04, []SigByte{ // INC B
		b(0x20), b(0x0A), // JR NZ,LD_SAMPLE2
		xx, xx, xx, xx, xx,
		xx, xx, xx, xx, xx,
		b(0xDB), b(0xFE), // LD_SAMPLE2 IN A,($FE)
		b(0x1F),          // RRA
		b(0xC8),          // RET Z
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xEA), // JR Z,LD_SAMPLE
	}, 16, 59, 8, 0x20),

	"alkatraz-0b": acc("alkatraz-0b", 0x04, []SigByte{ // INC B
		b(0x20), b(0x0B), // JR NZ,LD_SAMPLE2
		xx, xx, xx, xx, xx,
		xx, xx, xx, xx, xx,
		xx,
		b(0xDB), b(0xFE), // LD_SAMPLE2 IN A,($FE)
		b(0x1F),          // RRA
		b(0xC8),          // RET Z
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xE9), // JR Z,LD_SAMPLE
	}, 16, 59, 8, 0x20),

	"alkatraz2": acc("alkatraz2", 0x04, []SigByte{ // INC B
		b(0x20), b(0x01), // JR NZ,LD_SAMPLE2
		b(0xC9),          // RET
		b(0xDB), b(0xFE), // LD_SAMPLE2 IN A,($FE)
		b(0x1F),          // RRA
		b(0xC8),          // RET Z
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xF3), // JR Z,LD_SAMPLE
	}, 16, 59, 8, 0x20),

	"alternative": acc("alternative", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0x3E), b(0x7F), // LD A,$7F
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0xCB), b(0x1F), // RR A
		b(0x00),          // NOP
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xF2), // JR Z,LD_SAMPLE
	}, 16, 62, 10, 0x20),

	"alternative2": acc("alternative2", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0x3E), b(0x7F), // LD A,$7F
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0xCB), b(0x1F), // RR A
		b(0xD0),          // RET NC
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xF2), // JR Z,LD_SAMPLE
	}, 16, 63, 10, 0x20),

	"bleepload": acc("bleepload", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0x3E), b(0x7F), // LD A,$7F
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0x1F),          // RRA
		b(0x00),          // NOP
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xF3), // JR Z,LD_SAMPLE
	}, 16, 58, 9, 0x20),

	"boguslaw-juza": acc("boguslaw-juza", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0x3E), b(0x7F), // LD A,$7F
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0x1F),          // RRA
		b(0xD6), b(0x00), // SUB $00
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xF2), // JR Z,LD_SAMPLE
	}, 16, 61, 9, 0x20),

	"crl": acc("crl", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0x3E), b(0x7F), // LD A,$7F
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0xB7),          // OR A
		b(0xD8),          // RET C
		b(0xA9),          // XOR C
		b(0xE6), b(0x40), // AND $40
		b(0x28), b(0xF3), // JR Z,LD_SAMPLE
	}, 16, 59, 9, 0x40),

	"crl2": acc("crl2", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0xC8),          // RET Z
		b(0x3E), b(0x7F), // LD A,$7F
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0x1F),          // RRA
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xF3), // JR Z,LD_SAMPLE
	}, 21, 59, 9, 0x20),

	"crl3": acc("crl3", 0x04, []SigByte{ // INC B
		b(0x28), xx, // JR Z,nn
		b(0x3E), b(0x7F), // LD A,$7F
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0x1F),     // RRA
		b(0x30), xx, // JR NC,nn
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xF1), // JR Z,LD_SAMPLE
	}, 18, 63, 9, 0x20),

	"crl4": acc("crl4", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0x3E), b(0x7F), // LD A,$7F
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0x1F),          // RRA
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xF2), // JR Z,LD_SAMPLE
	}, 16, 61, 9, 0x20),

	"cybexlab": acc("cybexlab", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0xAF),          // XOR A
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0x1F),          // RRA
		b(0xD0),          // RET NC
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xF4), // JR Z,LD_SAMPLE
	}, 13, 56, 9, 0x20),

	"d-and-h": acc("d-and-h", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0x3E), b(0x7F), // LD A,$7F
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0xED), b(0x4F), // LD R,A
		b(0xA9),          // XOR C
		b(0xE6), b(0x40), // AND $40
		b(0x28), b(0xF3), // JR Z,LD_SAMPLE
	}, 16, 59, 0, 0x40), // loop forges R, so its increment is irrelevant

	"delphine": acc("delphine", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0x3E), b(0x7F), // LD A,$7F
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0xA7),          // AND A
		b(0xD8),          // RET C
		b(0xA9),          // XOR C
		b(0xE6), b(0x40), // AND $40
		b(0x28), b(0xF3), // JR Z,LD_SAMPLE
	}, 16, 59, 9, 0x40),

	"design-design": acc("design-design", 0x04, []SigByte{ // INC B
		b(0xCA), xx, xx, // JP Z,nn
		b(0x3E), b(0x7F), // LD A,$7F
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0x1F),          // RRA
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xF2), // JR Z,LD_SAMPLE
	}, 21, 59, 8, 0x20),

	"digital-integration": acc("digital-integration", 0x05, []SigByte{ // DEC B
		b(0xC8),          // RET Z
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0xA9),          // XOR C
		b(0xE6), b(0x40), // AND $40
		b(0xCA), // JP Z,LD_SAMPLE
	}, 9, 41, 6, 0x40),

	"dinaload": acc("dinaload", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0x3E), b(0xFF), // LD A,$FF
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0x1F),          // RRA
		b(0xD0),          // RET NC
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xF3), // JR Z,LD_SAMPLE
	}, 16, 59, 9, 0x20),

	"gremlin": acc("gremlin", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0x3E), b(0x7F), // LD A,$7F
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0xA9),          // XOR C
		b(0xE6), b(0x40), // AND $40
		b(0x28), b(0xF5), // JR Z,LD_SAMPLE
	}, 16, 50, 7, 0x40),

	"gremlin2": acc("gremlin2", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0x3E), b(0xFF), // LD A,$FF
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0xA9),          // XOR C
		b(0xE6), b(0x40), // AND $40
		b(0xD8),          // RET C
		b(0x00),          // NOP
		b(0x28), b(0xF3), // JR Z,LD_SAMPLE
	}, 16, 59, 9, 0x40),

	"microprose": acc("microprose", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0x1F),          // RRA
		b(0xC8),          // RET Z
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xF5), // JR Z,LD_SAMPLE
	}, 9, 52, 8, 0x20),

	"microsphere": acc("microsphere", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0x3E), b(0x7F), // LD A,$7F
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0x1F),          // RRA
		b(0xA7),          // AND A
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xF3), // JR Z,LD_SAMPLE
	}, 16, 58, 9, 0x20),

	"micro-style": acc("micro-style", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0x3E), b(0x7F), // LD A,$7F
		b(0x3E), b(0x7F), // LD A,$7F
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0x1F),          // RRA
		b(0x00),          // NOP
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xF1), // JR Z,LD_SAMPLE
	}, 23, 65, 10, 0x20),

	"palas": acc("palas", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0xAF),          // XOR A
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0x1F),          // RRA
		b(0xB7),          // OR A
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xF4), // JR Z,LD_SAMPLE
	}, 13, 55, 9, 0x20),

	"paul-owens": acc("paul-owens", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0x3E), b(0x7F), // LD A,$7F
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0x1F),          // RRA
		b(0xC8),          // RET Z
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xF3), // JR Z,LD_SAMPLE
	}, 16, 59, 9, 0x20),

	"raxoft": acc("raxoft", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0xAF),          // XOR A
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0x1F),          // RRA
		b(0x00),          // NOP
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xF4), // JR Z,LD_SAMPLE
	}, 13, 55, 9, 0x20),

	"realtime": acc("realtime", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0x00),          // NOP
		b(0x00),          // NOP
		b(0x00),          // NOP
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0x1F),          // RRA
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xF3), // JR Z,LD_SAMPLE
	}, 21, 59, 10, 0x20),

	"rom": acc("rom", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0x3E), b(0x7F), // LD A,$7F
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0x1F),          // RRA
		b(0xD0),          // RET NC
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xF3), // JR Z,LD_SAMPLE
	}, 16, 59, 9, 0x20),

	"search-loader": acc("search-loader", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0x3E), b(0x00), // LD A,$00
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0xA9),          // XOR C
		b(0xE6), b(0x40), // AND $40
		b(0xD8),          // RET C
		b(0x00),          // NOP
		b(0x28), b(0xF3), // JR Z,LD_SAMPLE
	}, 16, 59, 9, 0x40),

	"silverbird": acc("silverbird", 0x04, []SigByte{ // INC B
		b(0x28), xx, // JR Z,nn
		b(0x3A), b(0x00), b(0x00), // LD A,(0)
		b(0x7F),          // LD A,A
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0xA9),          // XOR C
		b(0xE6), b(0x40), // AND $40
		b(0x28), b(0xF2), // JR Z,LD_SAMPLE
	}, 28, 62, 8, 0x40),

	"sparklers": acc("sparklers", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0xAF),          // XOR A
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0x1F),          // RRA
		b(0x00),          // NOP
		b(0x00),          // NOP
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xF3), // JR Z,LD_SAMPLE
	}, 13, 59, 10, 0x20),

	"speedlock": acc("speedlock", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0x3E), b(0x7F), // LD A,$7F
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0x1F),          // RRA
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xF4), // JR Z,LD_SAMPLE
	}, 16, 54, 8, 0x20),

	"suzy-soft": acc("suzy-soft", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0x3E), b(0xFB), // LD A,$FB
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0x1F),          // RRA
		b(0xD0),          // RET NC
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xF3), // JR Z,LD_SAMPLE
	}, 16, 59, 9, 0x20),

	"suzy-soft2": acc("suzy-soft2", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0x3E), b(0xF7), // LD A,$F7
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0x1F),          // RRA
		b(0xA9),          // XOR C
		b(0xE6), b(0x20), // AND $20
		b(0x28), b(0xF4), // JR Z,LD_SAMPLE
	}, 16, 54, 8, 0x20),

	"tiny": acc("tiny", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0xA9),          // XOR C
		b(0xE6), b(0x40), // AND $40
		b(0x28), b(0xF7), // JR Z,LD_SAMPLE
	}, 9, 43, 6, 0x40),

	"weird-science": acc("weird-science", 0x04, []SigByte{ // INC B
		b(0xC8),          // RET Z
		b(0x3E), b(0x7F), // LD A,$7F
		b(0xDB), b(0xFE), // IN A,($FE)
		b(0x37),          // SCF
		b(0xD0),          // RET NC
		b(0xA9),          // XOR C
		b(0xE6), b(0x40), // AND $40
		b(0x28), b(0xF3), // JR Z,LD_SAMPLE
	}, 16, 59, 9, 0x40),
}

// Distribution labels that shipped another family's loader unchanged.
var aliases = map[string]string{
	"cyberlode":        "bleepload",
	"edge":             "rom",
	"elite-uni-loader": "speedlock",
	"excelerator":      "bleepload",
	"flash-loader":     "rom",
	"ftl":              "speedlock",
	"gargoyle":         "speedlock",
	"hewson-slowload":  "rom",
	"injectaload":      "bleepload",
	"poliload":         "dinaload",
	"power-load":       "bleepload",
	"softlock":         "rom",
	"zydroload":        "speedlock",
}
