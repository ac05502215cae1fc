package hw

// Memory is the flat 64 KiB address space. Reads and writes made by
// executing instructions go through Read8/Write8 so the hooks can observe
// them; tooling that just wants to inspect or seed memory uses Peek/Poke
// and bypasses the hooks.
type Memory struct {
	Data [0x10000]byte

	// ReadHook, when set, observes every data read the CPU performs
	// (instruction fetches excluded). n is the access width in bytes.
	ReadHook func(addr uint16, n int)

	// WriteHook observes every byte the CPU stores.
	WriteHook func(addr uint16, val uint8)
}

func (m *Memory) Read8(addr uint16) uint8 {
	if m.ReadHook != nil {
		m.ReadHook(addr, 1)
	}
	return m.Data[addr]
}

func (m *Memory) Read16(addr uint16) uint16 {
	if m.ReadHook != nil {
		m.ReadHook(addr, 2)
	}
	return uint16(m.Data[addr+1])<<8 | uint16(m.Data[addr])
}

func (m *Memory) Write8(addr uint16, v uint8) {
	m.Data[addr] = v
	if m.WriteHook != nil {
		m.WriteHook(addr, v)
	}
}

func (m *Memory) Write16(addr uint16, v uint16) {
	m.Write8(addr, uint8(v))
	m.Write8(addr+1, uint8(v>>8))
}

// Peek8 reads without triggering the hooks.
func (m *Memory) Peek8(addr uint16) uint8 {
	return m.Data[addr]
}

func (m *Memory) Peek16(addr uint16) uint16 {
	return uint16(m.Data[addr+1])<<8 | uint16(m.Data[addr])
}

// Poke copies data into memory starting at addr, wrapping at the top of
// the address space. The hooks are not consulted.
func (m *Memory) Poke(addr uint16, data []byte) {
	for i, b := range data {
		m.Data[addr+uint16(i)] = b
	}
}

// Window returns a copy of n bytes starting at addr, wrapping at the top
// of the address space.
func (m *Memory) Window(addr uint16, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = m.Data[addr+uint16(i)]
	}
	return out
}
