package conformance

// flatSize is the whole 24-bit address space.
const flatSize = 1 << 24

// FlatMemory is 16MiB of plain RAM with no devices, reads have no side effects.
// It remembers the addresses written so Clear doesn't have to wipe everything.
type FlatMemory struct {
	data    []byte
	touched []uint32
}

func NewFlatMemory() *FlatMemory {
	return &FlatMemory{data: make([]byte, flatSize)}
}

func (m *FlatMemory) Read(address uint32) byte {
	return m.data[address&(flatSize-1)]
}

func (m *FlatMemory) ReadExternal(address uint32) byte {
	return m.Read(address)
}

func (m *FlatMemory) Write(address uint32, data byte) {
	a := address & (flatSize - 1)
	m.data[a] = data
	m.touched = append(m.touched, a)
}

// Clear zeroes every byte written since the last Clear.
func (m *FlatMemory) Clear() {
	for _, a := range m.touched {
		m.data[a] = 0
	}
	m.touched = m.touched[:0]
}
