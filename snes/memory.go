package snes

// Memory is the 24-bit address space seen by the processor.
// Bus implements it for the console, the conformance harness uses a flat memory.
type Memory interface {
	// Read reads a byte, reading I/O registers may change their state.
	Read(address uint32) byte
	Write(address uint32, data byte)
	// ReadExternal reads a byte without any side effect, for debuggers and disassembly.
	ReadExternal(address uint32) byte
}
