package snes

import "fmt"

// Flag is a bit of the processor status register.
// bit    7 6 5 4 3 2 1 0
// flag   N V M X D I Z C
// Bit 0 is shared by Carry and Emulation, see Registers.
type Flag byte

const (
	FlagCarry Flag = 1 << iota
	FlagZero
	FlagIRQDisable
	FlagDecimal
	FlagIndexWidth  // X, also the break flag in emulation mode
	FlagMemoryWidth // M
	FlagOverflow
	FlagNegative
)

// FlagValue is a flag with the value it should be set to.
type FlagValue struct {
	Flag  Flag
	Value bool
}

// sharedBit tells which logical flag status bit 0 currently holds.
type sharedBit int

const (
	exposeCarry sharedBit = iota
	exposeEmulation
)

// Registers is the 65C816 register file.
// References:
//   https://wiki.superfamicom.org/65816-reference
//   https://undisbeliever.net/snesdev/65816-opcodes.html
type Registers struct {
	SP  uint16 // Stack pointer
	X   uint16 // Index register
	Y   uint16 // Index register
	A   uint16 // Accumulator, the low byte is addressable on its own
	D   uint16 // Direct page
	PBR byte   // Program bank
	DBR byte   // Data bank
	PC  uint16 // Program counter

	// p holds N V M X D I Z and the physical bit 0.
	p byte
	// exposed selects the logical flag bit 0 stands for, shadow keeps the other one.
	exposed sharedBit
	shadow  bool
}

// NewRegisters returns the register file as it is after a reset.
func NewRegisters() *Registers {
	r := &Registers{}
	r.Reset()
	return r
}

// Reset puts the processor into emulation mode, this does not touch A, X, Y and the banks' contents.
func (r *Registers) Reset() {
	r.D = 0
	r.DBR = 0
	r.PBR = 0
	r.SP = 0x0100 | r.SP&0x00FF
	r.p = byte(FlagMemoryWidth | FlagIndexWidth | FlagIRQDisable)
	r.exposed = exposeCarry
	r.shadow = true
	r.enforceWidths()
}

// Flag reports whether a status flag is set. Bit 0 is routed through the Carry accessor.
func (r *Registers) Flag(f Flag) bool {
	if f == FlagCarry {
		return r.Carry()
	}
	return r.p&byte(f) != 0
}

// SetFlag sets a single flag.
func (r *Registers) SetFlag(f Flag, v bool) {
	if f == FlagCarry {
		r.SetCarry(v)
		return
	}
	if v {
		r.p |= byte(f)
	} else {
		r.p &^= byte(f)
	}
	if f == FlagIndexWidth || f == FlagMemoryWidth {
		r.enforceWidths()
	}
}

// SetFlags applies a batch of flags.
func (r *Registers) SetFlags(flags ...FlagValue) {
	for _, f := range flags {
		r.SetFlag(f.Flag, f.Value)
	}
}

func (r *Registers) bit0() bool {
	return r.p&1 != 0
}

func (r *Registers) setBit0(v bool) {
	if v {
		r.p |= 1
	} else {
		r.p &^= 1
	}
}

// Carry returns the carry flag.
func (r *Registers) Carry() bool {
	if r.exposed == exposeCarry {
		return r.bit0()
	}
	return r.shadow
}

// SetCarry sets the carry flag.
func (r *Registers) SetCarry(v bool) {
	if r.exposed == exposeCarry {
		r.setBit0(v)
	} else {
		r.shadow = v
	}
}

// Emulation returns whether the processor runs in 6502 emulation mode.
func (r *Registers) Emulation() bool {
	if r.exposed == exposeEmulation {
		return r.bit0()
	}
	return r.shadow
}

// SetEmulation switches the mode directly, the conformance harness and Reset use this.
func (r *Registers) SetEmulation(v bool) {
	if r.exposed == exposeEmulation {
		r.setBit0(v)
	} else {
		r.shadow = v
	}
	r.enforceWidths()
}

// ExchangeCarryAndEmulation implements XCE.
// Bit 0 changes which flag it stands for, so the old carry becomes the
// emulation flag and the old emulation flag becomes the carry.
func (r *Registers) ExchangeCarryAndEmulation() {
	before := r.Emulation()
	if r.exposed == exposeCarry {
		r.exposed = exposeEmulation
	} else {
		r.exposed = exposeCarry
	}
	if before != r.Emulation() {
		r.p |= byte(FlagMemoryWidth | FlagIndexWidth)
	}
	r.enforceWidths()
}

// Status returns the architectural P register, bit 0 is always the carry.
func (r *Registers) Status() byte {
	s := r.p &^ 1
	if r.Carry() {
		s |= 1
	}
	return s
}

// SetStatus loads P (PLP, RTI).
func (r *Registers) SetStatus(data byte) {
	r.p = data&^1 | r.p&1
	r.SetCarry(data&1 != 0)
	r.enforceWidths()
}

// ResetREPByte clears every flag set in mask (REP).
func (r *Registers) ResetREPByte(mask byte) {
	if mask&1 != 0 {
		r.SetCarry(false)
	}
	r.p &^= mask &^ 1
	r.enforceWidths()
}

// SetSEPByte sets every flag set in mask (SEP).
func (r *Registers) SetSEPByte(mask byte) {
	if mask&1 != 0 {
		r.SetCarry(true)
	}
	r.p |= mask &^ 1
	r.enforceWidths()
}

// enforceWidths keeps the width invariants:
// M and X are 1 in emulation mode, X=1 clears the index high bytes and
// the stack lives in page 1 in emulation mode.
func (r *Registers) enforceWidths() {
	if r.Emulation() {
		r.p |= byte(FlagMemoryWidth | FlagIndexWidth)
		r.SP = 0x0100 | r.SP&0x00FF
	}
	if r.p&byte(FlagIndexWidth) != 0 {
		r.X &= 0x00FF
		r.Y &= 0x00FF
	}
}

// Is16BitMode reports whether the accumulator and memory operands are 16 bits wide.
func (r *Registers) Is16BitMode() bool {
	return !r.Emulation() && r.p&byte(FlagMemoryWidth) == 0
}

// Is16BitIndex reports whether X and Y are 16 bits wide.
func (r *Registers) Is16BitIndex() bool {
	return !r.Emulation() && r.p&byte(FlagIndexWidth) == 0
}

// SetALow sets the low byte of A and keeps B (the high byte).
func (r *Registers) SetALow(v byte) {
	r.A = r.A&0xFF00 | uint16(v)
}

// SetXLow sets the low byte of X.
func (r *Registers) SetXLow(v byte) {
	r.X = r.X&0xFF00 | uint16(v)
}

// SetYLow sets the low byte of Y.
func (r *Registers) SetYLow(v byte) {
	r.Y = r.Y&0xFF00 | uint16(v)
}

// SetSPLow sets the low byte of SP.
func (r *Registers) SetSPLow(v byte) {
	r.SP = r.SP&0xFF00 | uint16(v)
}

// setX writes X honoring the index width.
func (r *Registers) setX(v uint16) {
	if r.Is16BitIndex() {
		r.X = v
	} else {
		r.X = v & 0x00FF
	}
}

// setY writes Y honoring the index width.
func (r *Registers) setY(v uint16) {
	if r.Is16BitIndex() {
		r.Y = v
	} else {
		r.Y = v & 0x00FF
	}
}

// setSP writes SP, in emulation mode only the low byte moves.
func (r *Registers) setSP(v uint16) {
	if r.Emulation() {
		r.SP = 0x0100 | v&0x00FF
	} else {
		r.SP = v
	}
}

// PCAddress returns the 24-bit address of the program counter.
func (r *Registers) PCAddress() uint32 {
	return uint32(r.PBR)<<16 | uint32(r.PC)
}

// IncrementPC moves PC forward, wrapping inside the program bank.
func (r *Registers) IncrementPC(n uint16) {
	r.PC += n
}

// DecrementPC moves PC backward, wrapping inside the program bank.
func (r *Registers) DecrementPC(n uint16) {
	r.PC -= n
}

// IncrementSP pops one byte worth of stack.
func (r *Registers) IncrementSP() {
	r.setSP(r.SP + 1)
}

// DecrementSP pushes one byte worth of stack.
func (r *Registers) DecrementSP() {
	r.setSP(r.SP - 1)
}

// String renders the registers like a trace line.
func (r *Registers) String() string {
	e := 0
	if r.Emulation() {
		e = 1
	}
	return fmt.Sprintf("PC=%02X:%04X A=%04X X=%04X Y=%04X SP=%04X D=%04X DB=%02X P=%s E=%d",
		r.PBR, r.PC, r.A, r.X, r.Y, r.SP, r.D, r.DBR, r.StatusBits(), e)
}

// StatusBits returns P as a labelled bit pattern, upper case means set.
func (r *Registers) StatusBits() string {
	const labels = "czidxmvn"
	s := r.Status()
	out := make([]byte, 8)
	for i := 0; i < 8; i++ {
		c := labels[i]
		if s&(1<<i) != 0 {
			c -= 'a' - 'A'
		}
		out[7-i] = c
	}
	return string(out)
}
