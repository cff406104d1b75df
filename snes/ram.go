package snes

// wramSize is the console's work RAM, banks 0x7E and 0x7F.
const wramSize = 0x20000

type RAM struct {
	data [wramSize]byte
}

// NewRAM creates the work RAM.
func NewRAM() *RAM {
	return &RAM{}
}

// read reads data, the offset wraps at 128KiB.
func (r *RAM) read(offset uint32) byte {
	return r.data[offset%wramSize]
}

// write writes data
func (r *RAM) write(offset uint32, x byte) {
	r.data[offset%wramSize] = x
}
