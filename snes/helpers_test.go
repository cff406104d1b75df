package snes

// testMemory is a flat 24-bit memory with no devices.
type testMemory struct {
	data map[uint32]byte
}

func newTestMemory() *testMemory {
	return &testMemory{data: map[uint32]byte{}}
}

func (m *testMemory) Read(address uint32) byte {
	return m.data[address&0xFFFFFF]
}

func (m *testMemory) ReadExternal(address uint32) byte {
	return m.Read(address)
}

func (m *testMemory) Write(address uint32, data byte) {
	m.data[address&0xFFFFFF] = data
}

// load writes bytes from address on.
func (m *testMemory) load(address uint32, data ...byte) {
	for i, b := range data {
		m.Write(address+uint32(i), b)
	}
}

// createTestCPU resets a CPU with program at 0x008000, in emulation mode.
func createTestCPU(program ...byte) (*CPU, *testMemory) {
	mem := newTestMemory()
	mem.load(vectorReset, 0x00, 0x80)
	mem.load(0x008000, program...)
	return NewCPU(mem), mem
}

// native switches a CPU to native mode with the given P.
func native(c *CPU, p byte) {
	c.reg.SetEmulation(false)
	c.reg.SetStatus(p)
}

// createROM returns a 32KiB LinearROM image with program at 0x008000,
// which is also the reset vector.
func createROM(program ...byte) []byte {
	rom := make([]byte, loROMChunkSize)
	copy(rom, program)
	rom[0x7FFC] = 0x00
	rom[0x7FFD] = 0x80
	return rom
}

// setVector points a vector of a LinearROM image at address.
func setVector(rom []byte, vector uint16, address uint16) {
	rom[vector-0x8000] = byte(address)
	rom[vector-0x8000+1] = byte(address >> 8)
}

func newTestBus() *Bus {
	return NewBus(NewRAM(), NewPPU(), NewCPUIO(), NewLinearROM(createROM()), NewController(), NewController())
}
