package tape

import (
	"bytes"
	"fmt"
)

var tzxSignature = []byte("ZXTape!\x1a")

// ParseTZX decodes a TZX container. Data-bearing blocks come out with
// their pulse timings; group/jump/loop/text blocks are recorded as empty
// markers so file order survives; the pulse-level recording formats (0x15,
// 0x18, 0x19) cannot be fast-loaded and fail the whole parse.
func ParseTZX(data []byte) ([]Block, error) {
	if len(data) < 10 || !bytes.Equal(data[:8], tzxSignature) {
		return nil, fmt.Errorf("Not a TZX file")
	}

	p := &tzxParser{data: data, pos: 10} // skip signature and version pair
	var blocks []Block
	for p.pos < len(p.data) {
		b, err := p.block()
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

type tzxParser struct {
	data []byte
	pos  int
}

func (p *tzxParser) need(n int) error {
	if p.pos+n > len(p.data) {
		return fmt.Errorf("truncated TZX block at offset %d", p.pos)
	}
	return nil
}

func (p *tzxParser) byte1() int {
	v := int(p.data[p.pos])
	p.pos++
	return v
}

func (p *tzxParser) word() int {
	v := int(p.data[p.pos]) | int(p.data[p.pos+1])<<8
	p.pos += 2
	return v
}

func (p *tzxParser) len3() int {
	v := int(p.data[p.pos]) | int(p.data[p.pos+1])<<8 | int(p.data[p.pos+2])<<16
	p.pos += 3
	return v
}

func (p *tzxParser) bytes(n int) []byte {
	b := p.data[p.pos : p.pos+n]
	p.pos += n
	return b
}

// skip consumes a fixed-size informational body and returns a marker block.
func (p *tzxParser) skip(id uint8, n int) (Block, error) {
	if err := p.need(n); err != nil {
		return Block{}, err
	}
	p.pos += n
	return Block{ID: id}, nil
}

func (p *tzxParser) block() (Block, error) {
	id := uint8(p.byte1())

	switch id {
	case 0x10: // standard speed data
		if err := p.need(4); err != nil {
			return Block{}, err
		}
		pause := p.word()
		n := p.word()
		if err := p.need(n); err != nil {
			return Block{}, err
		}
		b := standardBlock(p.bytes(n), pause)
		return b, nil

	case 0x11: // turbo speed data
		if err := p.need(18); err != nil {
			return Block{}, err
		}
		b := Block{ID: id}
		b.PilotPulse = p.word()
		b.Sync1 = p.word()
		b.Sync2 = p.word()
		b.ZeroPulse = p.word()
		b.OnePulse = p.word()
		b.PilotCount = p.word()
		b.UsedBits = p.byte1()
		b.Pause = p.word()
		n := p.len3()
		if err := p.need(n); err != nil {
			return Block{}, err
		}
		b.Data = p.bytes(n)
		return b, nil

	case 0x12: // pure tone
		if err := p.need(4); err != nil {
			return Block{}, err
		}
		width := p.word()
		count := p.word()
		b := Block{ID: id, Pulses: make([]int, count)}
		for i := range b.Pulses {
			b.Pulses[i] = width
		}
		return b, nil

	case 0x13: // pulse sequence
		if err := p.need(1); err != nil {
			return Block{}, err
		}
		count := p.byte1()
		if err := p.need(2 * count); err != nil {
			return Block{}, err
		}
		b := Block{ID: id, Pulses: make([]int, count)}
		for i := range b.Pulses {
			b.Pulses[i] = p.word()
		}
		return b, nil

	case 0x14: // pure data: no pilot, no sync
		if err := p.need(10); err != nil {
			return Block{}, err
		}
		b := Block{ID: id}
		b.ZeroPulse = p.word()
		b.OnePulse = p.word()
		b.UsedBits = p.byte1()
		b.Pause = p.word()
		n := p.len3()
		if err := p.need(n); err != nil {
			return Block{}, err
		}
		b.Data = p.bytes(n)
		return b, nil

	case 0x15:
		return Block{}, fmt.Errorf("TZX Direct Recording (0x15) not supported")
	case 0x18:
		return Block{}, fmt.Errorf("TZX CSW Recording (0x18) not supported")
	case 0x19:
		return Block{}, fmt.Errorf("TZX Generalized Data Block (0x19) not supported")

	case 0x20: // pause / stop the tape
		if err := p.need(2); err != nil {
			return Block{}, err
		}
		return Block{ID: id, Pause: p.word()}, nil

	case 0x21: // group start
		if err := p.need(1); err != nil {
			return Block{}, err
		}
		return p.skip(id, p.byte1())
	case 0x22: // group end
		return Block{ID: id}, nil
	case 0x23: // jump
		return p.skip(id, 2)
	case 0x24: // loop start
		return p.skip(id, 2)
	case 0x25: // loop end
		return Block{ID: id}, nil
	case 0x26: // call sequence
		if err := p.need(2); err != nil {
			return Block{}, err
		}
		return p.skip(id, 2*p.word())
	case 0x27: // return from sequence
		return Block{ID: id}, nil
	case 0x28: // select
		if err := p.need(2); err != nil {
			return Block{}, err
		}
		return p.skip(id, p.word())
	case 0x2A: // stop the tape if in 48K mode
		return p.skip(id, 4)
	case 0x2B: // set signal level
		return p.skip(id, 5)

	case 0x30: // text description
		if err := p.need(1); err != nil {
			return Block{}, err
		}
		return p.skip(id, p.byte1())
	case 0x31: // message
		if err := p.need(2); err != nil {
			return Block{}, err
		}
		p.byte1() // display time
		return p.skip(id, p.byte1())
	case 0x32: // archive info
		if err := p.need(2); err != nil {
			return Block{}, err
		}
		return p.skip(id, p.word())
	case 0x33: // hardware type
		if err := p.need(1); err != nil {
			return Block{}, err
		}
		return p.skip(id, 3*p.byte1())
	case 0x35: // custom info
		if err := p.need(20); err != nil {
			return Block{}, err
		}
		p.pos += 16
		n := p.word()
		n |= p.word() << 16
		return p.skip(id, n)
	case 0x5A: // glue
		return p.skip(id, 9)
	}

	return Block{}, fmt.Errorf("Unknown TZX block ID: 0x%X", id)
}
