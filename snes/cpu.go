package snes

import "github.com/golang/glog"

// CPU emulates the 65C816, made by WDC and clocked around 3.58MHz in the console.
// References:
//   https://wiki.superfamicom.org/65816-reference
//   http://www.6502.org/tutorials/65c816opcodes.html
//   https://www.westerndesigncenter.com/wdc/documentation/w65c816s.pdf

const (
	vectorCOPNative    = 0xFFE4
	vectorBRKNative    = 0xFFE6
	vectorNMINative    = 0xFFEA
	vectorIRQNative    = 0xFFEE
	vectorCOPEmulation = 0xFFF4
	vectorNMIEmulation = 0xFFFA
	vectorReset        = 0xFFFC
	vectorIRQEmulation = 0xFFFE // shared with BRK
)

type CPU struct {
	reg *Registers
	bus Memory

	halted     bool // STP, only a reset resumes
	waiting    bool // WAI, an interrupt resumes
	blockMove  bool // MVN or MVP has bytes left
	nmiPending bool
	irq        bool // level of the IRQ line
}

// NewCPU creates a CPU attached to mem and resets it.
func NewCPU(mem Memory) *CPU {
	c := &CPU{
		reg: NewRegisters(),
		bus: mem,
	}
	c.Reset()
	return c
}

// Reset puts the processor in emulation mode and jumps through the reset vector.
func (c *CPU) Reset() {
	c.reg.Reset()
	c.reg.PC = c.read16(vectorReset)
	c.halted = false
	c.waiting = false
	c.blockMove = false
	c.nmiPending = false
	glog.V(1).Infof("CPU reset: PC=0x%04x\n", c.reg.PC)
}

// Registers exposes the register file, the debugger and the test harness read and set it.
func (c *CPU) Registers() *Registers {
	return c.reg
}

// InBlockMove reports whether the instruction at PC is an unfinished MVN or MVP.
func (c *CPU) InBlockMove() bool {
	return c.blockMove
}

// Halted reports whether STP stopped the clock.
func (c *CPU) Halted() bool {
	return c.halted
}

// Waiting reports whether WAI is waiting for an interrupt.
func (c *CPU) Waiting() bool {
	return c.waiting
}

// NMI latches a non-maskable interrupt, it is serviced before the next instruction.
func (c *CPU) NMI() {
	c.nmiPending = true
}

// SetIRQ drives the IRQ line.
func (c *CPU) SetIRQ(level bool) {
	c.irq = level
}

// read16 reads a little endian word in bank 0, used for vectors.
func (c *CPU) read16(address uint16) uint16 {
	return read16Bank0(c.bus, address)
}

// load reads the operand, the second byte follows the operand's wrap rule.
func (c *CPU) load(op operand, wide bool) uint16 {
	lo := c.bus.Read(op.address)
	if !wide {
		return uint16(lo)
	}
	hi := c.bus.Read(op.next(op.address))
	return uint16(hi)<<8 | uint16(lo)
}

// store writes the operand, only the low byte when wide is false.
func (c *CPU) store(op operand, data uint16, wide bool) {
	c.bus.Write(op.address, byte(data))
	if wide {
		c.bus.Write(op.next(op.address), byte(data>>8))
	}
}

// push pushes a byte, in emulation mode the stack stays in page 1.
func (c *CPU) push(x byte) {
	c.bus.Write(uint32(c.reg.SP), x)
	c.reg.DecrementSP()
}

// pull pulls a byte, in emulation mode the stack stays in page 1.
func (c *CPU) pull() byte {
	c.reg.IncrementSP()
	return c.bus.Read(uint32(c.reg.SP))
}

func (c *CPU) push16(x uint16) {
	c.push(byte(x >> 8))
	c.push(byte(x))
}

func (c *CPU) pull16() uint16 {
	lo := c.pull()
	hi := c.pull()
	return uint16(hi)<<8 | uint16(lo)
}

// pushLong and pullLong are the stack accesses of the instructions the 6502
// doesn't have: SP moves as 16 bits even in emulation mode, and restoreStack
// brings it back to page 1 when the instruction is done.
func (c *CPU) pushLong(x byte) {
	c.bus.Write(uint32(c.reg.SP), x)
	c.reg.SP--
}

func (c *CPU) pullLong() byte {
	c.reg.SP++
	return c.bus.Read(uint32(c.reg.SP))
}

func (c *CPU) pushLong16(x uint16) {
	c.pushLong(byte(x >> 8))
	c.pushLong(byte(x))
}

func (c *CPU) pullLong16() uint16 {
	lo := c.pullLong()
	hi := c.pullLong()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) restoreStack() {
	if c.reg.Emulation() {
		c.reg.SP = 0x0100 | c.reg.SP&0x00FF
	}
}

// interrupt pushes the return state and jumps through a vector.
// BRK and COP push the B flag set in emulation mode, IRQ and NMI push it cleared.
func (c *CPU) interrupt(vector uint16, software bool) {
	if !c.reg.Emulation() {
		c.push(c.reg.PBR)
	}
	c.push16(c.reg.PC)
	p := c.reg.Status()
	if c.reg.Emulation() && !software {
		p &^= byte(FlagIndexWidth)
	}
	c.push(p)
	c.reg.SetFlag(FlagIRQDisable, true)
	c.reg.SetFlag(FlagDecimal, false)
	c.reg.PBR = 0
	c.reg.PC = c.read16(vector)
}

// hardwareInterrupt services NMI or IRQ and returns the cycles it took.
func (c *CPU) hardwareInterrupt(native, emulation uint16) int {
	c.waiting = false
	c.blockMove = false
	if c.reg.Emulation() {
		c.interrupt(emulation, false)
		return 7
	}
	c.interrupt(native, false)
	return 8
}

// Step services pending interrupts or executes one instruction, and returns the cycles it took.
// A block move instruction executes one byte per step.
func (c *CPU) Step() int {
	if c.halted {
		return 1
	}
	if c.nmiPending {
		c.nmiPending = false
		glog.V(1).Infof("NMI: PC=0x%06x\n", c.reg.PCAddress())
		return c.hardwareInterrupt(vectorNMINative, vectorNMIEmulation)
	}
	if c.irq {
		if !c.reg.Flag(FlagIRQDisable) {
			glog.V(1).Infof("IRQ: PC=0x%06x\n", c.reg.PCAddress())
			return c.hardwareInterrupt(vectorIRQNative, vectorIRQEmulation)
		}
		// with I set WAI resumes without servicing the interrupt.
		c.waiting = false
	}
	if c.waiting {
		return 1
	}
	ins := Dispatch(c.bus.Read(c.reg.PCAddress()))
	if glog.V(3) {
		glog.Infof("%06X %-14s %s\n", c.reg.PCAddress(), ins.Mnemonic(c.reg, c.bus), c.reg)
	}
	return ins.Execute(c)
}
