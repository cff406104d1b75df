package snes

import "github.com/golang/glog"

// Console wires the processor, the bus, DMA and the PPU counters together.
// Each Tick does one unit of work: a DMA byte while DMA is running,
// otherwise one CPU step.
type Console struct {
	CPU       *CPU
	PPU       *PPU
	DMA       *DMA
	Bus       *Bus
	Cartridge Cartridge
	Joypads   [2]*Controller

	cycles uint64
}

// NewConsole creates a console running the cartridge and resets it.
func NewConsole(cartridge Cartridge) *Console {
	ppu := NewPPU()
	joypads := [2]*Controller{NewController(), NewController()}
	bus := NewBus(NewRAM(), ppu, NewCPUIO(), cartridge, joypads[0], joypads[1])
	return &Console{
		CPU:       NewCPU(bus),
		PPU:       ppu,
		DMA:       NewDMA(),
		Bus:       bus,
		Cartridge: cartridge,
		Joypads:   joypads,
	}
}

// Reset resets the processor and the counters, memories are kept.
func (c *Console) Reset() {
	c.DMA = NewDMA()
	c.Bus.io = NewCPUIO()
	c.PPU.Reset()
	c.CPU.Reset()
	c.cycles = 0
}

// Cycles returns the cycles run since the last reset.
func (c *Console) Cycles() uint64 {
	return c.cycles
}

// SetButtons sets the pressed buttons of a pad, player is 0 or 1.
func (c *Console) SetButtons(player int, buttons [12]bool) {
	c.Joypads[player].Set(buttons)
}

// Tick runs one unit of work and returns the cycles it took.
// DMA pauses the processor until every channel is done.
func (c *Console) Tick() int {
	var cycles int
	if c.DMA.Active() {
		cycles = c.DMA.Tick(c.Bus)
		if !c.DMA.Active() {
			c.Bus.io.mdmaen = 0
		}
	} else {
		cycles = c.CPU.Step()
		if mask := c.Bus.io.takeDMARequest(); mask != 0 {
			c.DMA.Start(c.Bus, mask)
		}
	}
	c.cycles += uint64(cycles)
	c.tickPPU(cycles)
	return cycles
}

// tickPPU advances the beam and raises the interrupts it causes.
func (c *Console) tickPPU(cycles int) {
	io := c.Bus.io
	line := c.PPU.Scanline()
	if c.PPU.Tick(cycles) {
		io.nmiFlag = true
		if io.nmitimen&autoJoypadRead != 0 {
			io.joy[0] = c.Joypads[0].state()
			io.joy[1] = c.Joypads[1].state()
		}
		if io.nmiEnabled() {
			c.CPU.NMI()
		}
	}
	if now := c.PPU.Scanline(); now != line {
		if now == 0 {
			io.nmiFlag = false
		}
		if c.timerHit(now) {
			io.timeUp = true
		}
	}
	c.CPU.SetIRQ(io.timeUp)
}

// timerHit reports whether the H/V timer fires on a new scanline. The
// horizontal position is not tracked, an H-only timer fires on every line.
func (c *Console) timerHit(line int) bool {
	io := c.Bus.io
	switch io.nmitimen & (hIRQEnable | vIRQEnable) {
	case vIRQEnable, hIRQEnable | vIRQEnable:
		return uint16(line) == io.vtime
	case hIRQEnable:
		return true
	}
	return false
}

// Run ticks the console n times and returns the cycles it took.
func (c *Console) Run(n int) uint64 {
	var total uint64
	for i := 0; i < n; i++ {
		total += uint64(c.Tick())
		if c.CPU.Halted() {
			glog.Infof("CPU stopped at 0x%06x\n", c.CPU.Registers().PCAddress())
			break
		}
	}
	return total
}
