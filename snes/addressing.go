package snes

import "fmt"

// Kind is the shape of an addressing mode.
type Kind int

const (
	Implied Kind = iota
	Accumulator
	Immediate
	Absolute
	AbsoluteIndexed
	AbsoluteLong
	AbsoluteLongIndexed
	AbsoluteIndirect
	AbsoluteIndirectLong
	AbsoluteIndexedIndirect
	DirectPage
	DirectPageIndexed
	DirectPageIndirect
	DirectPagePointer
	DirectPageIndirectLong
	DirectPageIndexedIndirect
	DirectPageIndirectIndexed
	DirectPageIndirectLongIndexed
	StackRelative
	StackRelativeIndirectIndexed
	Relative
	RelativeLong
	BlockMove
)

// Index selects the index register an addressing mode adds.
type Index int

const (
	NoIndex Index = iota
	IndexX
	IndexY
)

// AddressingMode is a Kind with its index register.
type AddressingMode struct {
	Kind  Kind
	Index Index
}

var (
	implied                       = AddressingMode{Implied, NoIndex}
	accumulator                   = AddressingMode{Accumulator, NoIndex}
	immediate                     = AddressingMode{Immediate, NoIndex}
	absolute                      = AddressingMode{Absolute, NoIndex}
	absoluteX                     = AddressingMode{AbsoluteIndexed, IndexX}
	absoluteY                     = AddressingMode{AbsoluteIndexed, IndexY}
	absoluteLong                  = AddressingMode{AbsoluteLong, NoIndex}
	absoluteLongX                 = AddressingMode{AbsoluteLongIndexed, IndexX}
	absoluteIndirect              = AddressingMode{AbsoluteIndirect, NoIndex}
	absoluteIndirectLong          = AddressingMode{AbsoluteIndirectLong, NoIndex}
	absoluteIndexedIndirect       = AddressingMode{AbsoluteIndexedIndirect, IndexX}
	directPage                    = AddressingMode{DirectPage, NoIndex}
	directPageX                   = AddressingMode{DirectPageIndexed, IndexX}
	directPageY                   = AddressingMode{DirectPageIndexed, IndexY}
	directPageIndirect            = AddressingMode{DirectPageIndirect, NoIndex}
	directPagePointer             = AddressingMode{DirectPagePointer, NoIndex}
	directPageIndirectLong        = AddressingMode{DirectPageIndirectLong, NoIndex}
	directPageIndexedIndirect     = AddressingMode{DirectPageIndexedIndirect, IndexX}
	directPageIndirectIndexed     = AddressingMode{DirectPageIndirectIndexed, IndexY}
	directPageIndirectLongIndexed = AddressingMode{DirectPageIndirectLongIndexed, IndexY}
	stackRelative                 = AddressingMode{StackRelative, NoIndex}
	stackRelativeIndirectIndexed  = AddressingMode{StackRelativeIndirectIndexed, IndexY}
	relative                      = AddressingMode{Relative, NoIndex}
	relativeLong                  = AddressingMode{RelativeLong, NoIndex}
	blockMove                     = AddressingMode{BlockMove, NoIndex}
)

// operandBytes is the number of bytes following the opcode, before width adjustments.
func (m AddressingMode) operandBytes() uint16 {
	switch m.Kind {
	case Implied, Accumulator:
		return 0
	case Immediate, DirectPage, DirectPageIndexed, DirectPageIndirect, DirectPagePointer, DirectPageIndirectLong,
		DirectPageIndexedIndirect, DirectPageIndirectIndexed, DirectPageIndirectLongIndexed,
		StackRelative, StackRelativeIndirectIndexed, Relative:
		return 1
	case Absolute, AbsoluteIndexed, AbsoluteIndirect, AbsoluteIndirectLong, AbsoluteIndexedIndirect,
		RelativeLong, BlockMove:
		return 2
	case AbsoluteLong, AbsoluteLongIndexed:
		return 3
	}
	panic(fmt.Sprintf("unknown addressing mode kind %d", m.Kind))
}

// usesDirectPage reports whether the effective address is relative to D.
func (m AddressingMode) usesDirectPage() bool {
	switch m.Kind {
	case DirectPage, DirectPageIndexed, DirectPageIndirect, DirectPagePointer, DirectPageIndirectLong,
		DirectPageIndexedIndirect, DirectPageIndirectIndexed, DirectPageIndirectLongIndexed:
		return true
	}
	return false
}

// wrap describes how the address of the next operand byte is computed.
type wrap int

const (
	wrapLinear wrap = iota // 24-bit increment, crosses banks
	wrapBank               // stays in the bank of the address
)

// operand is a resolved addressing mode.
type operand struct {
	mode    AddressingMode
	address uint32
	wrap    wrap
	crossed bool // an index moved the address into another page
}

// next returns the address of the byte after a, as the operand wraps.
func (o operand) next(a uint32) uint32 {
	if o.wrap == wrapBank {
		return a&0xFF0000 | (a+1)&0xFFFF
	}
	return (a + 1) & 0xFFFFFF
}

// bankAddress builds a 24-bit address.
func bankAddress(bank byte, address uint16) uint32 {
	return uint32(bank)<<16 | uint32(address)
}

// fetch reads the n-th byte after the opcode.
func fetch(r *Registers, mem Memory, n uint16) byte {
	return mem.Read(bankAddress(r.PBR, r.PC+n))
}

func fetch16(r *Registers, mem Memory, n uint16) uint16 {
	return uint16(fetch(r, mem, n+1))<<8 | uint16(fetch(r, mem, n))
}

func fetch24(r *Registers, mem Memory, n uint16) uint32 {
	return uint32(fetch(r, mem, n+2))<<16 | uint32(fetch16(r, mem, n))
}

// read16Bank0 reads a pointer in bank 0, the high byte wraps at 0xFFFF.
func read16Bank0(mem Memory, address uint16) uint16 {
	return uint16(mem.Read(uint32(address+1)))<<8 | uint16(mem.Read(uint32(address)))
}

// index returns the index register selected by the mode.
func (m AddressingMode) index(r *Registers) uint32 {
	switch m.Index {
	case IndexX:
		return uint32(r.X)
	case IndexY:
		return uint32(r.Y)
	}
	return 0
}

// pageWrap reports whether direct page accesses wrap inside the page,
// which happens in emulation mode when the low byte of D is zero.
func pageWrap(r *Registers) bool {
	return r.Emulation() && r.D&0xFF == 0
}

// directAddress returns D + offset in bank 0.
func directAddress(r *Registers, offset uint16) uint16 {
	if pageWrap(r) {
		return r.D&0xFF00 | (r.D+offset)&0x00FF
	}
	return r.D + offset
}

// directPointer reads a 16-bit pointer from the direct page.
func directPointer(r *Registers, mem Memory, offset uint16) uint16 {
	lo := mem.Read(uint32(directAddress(r, offset)))
	hi := mem.Read(uint32(directAddress(r, offset+1)))
	return uint16(hi)<<8 | uint16(lo)
}

func pageCrossed(base, effective uint32) bool {
	return base&0xFFFF00 != effective&0xFFFF00
}

// Resolve computes the effective address of the mode for the instruction at PC.
// Indirect modes read their pointers from mem, nothing is written.
func (m AddressingMode) Resolve(r *Registers, mem Memory) operand {
	o := operand{mode: m}
	switch m.Kind {
	case Implied, Accumulator:
	case Immediate:
		o.address = bankAddress(r.PBR, r.PC+1)
		o.wrap = wrapBank
	case Absolute:
		o.address = bankAddress(r.DBR, fetch16(r, mem, 1))
	case AbsoluteIndexed:
		base := bankAddress(r.DBR, fetch16(r, mem, 1))
		o.address = (base + m.index(r)) & 0xFFFFFF
		o.crossed = pageCrossed(base, o.address)
	case AbsoluteLong:
		o.address = fetch24(r, mem, 1)
	case AbsoluteLongIndexed:
		o.address = (fetch24(r, mem, 1) + m.index(r)) & 0xFFFFFF
	case AbsoluteIndirect:
		o.address = bankAddress(r.PBR, read16Bank0(mem, fetch16(r, mem, 1)))
	case AbsoluteIndirectLong:
		p := fetch16(r, mem, 1)
		o.address = uint32(mem.Read(uint32(p+2)))<<16 | uint32(read16Bank0(mem, p))
	case AbsoluteIndexedIndirect:
		p := fetch16(r, mem, 1) + r.X
		lo := mem.Read(bankAddress(r.PBR, p))
		hi := mem.Read(bankAddress(r.PBR, p+1))
		o.address = bankAddress(r.PBR, uint16(hi)<<8|uint16(lo))
	case DirectPage:
		o.address = uint32(r.D + uint16(fetch(r, mem, 1)))
		o.wrap = wrapBank
	case DirectPageIndexed:
		o.address = uint32(directAddress(r, uint16(fetch(r, mem, 1))+uint16(m.index(r))))
		o.wrap = wrapBank
	case DirectPageIndirect:
		o.address = bankAddress(r.DBR, directPointer(r, mem, uint16(fetch(r, mem, 1))))
	case DirectPagePointer:
		// PEI pushes the pointer itself, read from D+offset without the page wrap.
		o.address = uint32(read16Bank0(mem, r.D+uint16(fetch(r, mem, 1))))
	case DirectPageIndirectLong:
		p := r.D + uint16(fetch(r, mem, 1))
		o.address = uint32(mem.Read(uint32(p+2)))<<16 | uint32(read16Bank0(mem, p))
	case DirectPageIndexedIndirect:
		o.address = bankAddress(r.DBR, directPointer(r, mem, uint16(fetch(r, mem, 1))+r.X))
	case DirectPageIndirectIndexed:
		base := bankAddress(r.DBR, directPointer(r, mem, uint16(fetch(r, mem, 1))))
		o.address = (base + uint32(r.Y)) & 0xFFFFFF
		o.crossed = pageCrossed(base, o.address)
	case DirectPageIndirectLongIndexed:
		p := r.D + uint16(fetch(r, mem, 1))
		base := uint32(mem.Read(uint32(p+2)))<<16 | uint32(read16Bank0(mem, p))
		o.address = (base + uint32(r.Y)) & 0xFFFFFF
	case StackRelative:
		o.address = uint32(r.SP + uint16(fetch(r, mem, 1)))
		o.wrap = wrapBank
	case StackRelativeIndirectIndexed:
		p := read16Bank0(mem, r.SP+uint16(fetch(r, mem, 1)))
		o.address = (bankAddress(r.DBR, p) + uint32(r.Y)) & 0xFFFFFF
	case Relative:
		offset := int8(fetch(r, mem, 1))
		o.address = bankAddress(r.PBR, r.PC+2+uint16(offset))
	case RelativeLong:
		o.address = bankAddress(r.PBR, r.PC+3+fetch16(r, mem, 1))
	case BlockMove:
		// destination bank, source bank
		o.address = uint32(fetch(r, mem, 1))<<8 | uint32(fetch(r, mem, 2))
	default:
		panic(fmt.Sprintf("unknown addressing mode kind %d", m.Kind))
	}
	return o
}

// format renders the operand for disassembly. raw holds the little endian
// bytes after the opcode and size their count.
func (m AddressingMode) format(raw uint32, size uint16, pc uint32) string {
	index := ""
	switch m.Index {
	case IndexX:
		index = ",X"
	case IndexY:
		index = ",Y"
	}
	switch m.Kind {
	case Implied:
		return ""
	case Accumulator:
		return "A"
	case Immediate:
		if size == 2 {
			return fmt.Sprintf("#$%04X", raw)
		}
		return fmt.Sprintf("#$%02X", raw)
	case Absolute, AbsoluteIndexed:
		return fmt.Sprintf("$%04X%s", raw, index)
	case AbsoluteLong, AbsoluteLongIndexed:
		return fmt.Sprintf("$%06X%s", raw, index)
	case AbsoluteIndirect:
		return fmt.Sprintf("($%04X)", raw)
	case AbsoluteIndirectLong:
		return fmt.Sprintf("[$%04X]", raw)
	case AbsoluteIndexedIndirect:
		return fmt.Sprintf("($%04X,X)", raw)
	case DirectPage, DirectPageIndexed:
		return fmt.Sprintf("$%02X%s", raw, index)
	case DirectPageIndirect, DirectPagePointer:
		return fmt.Sprintf("($%02X)", raw)
	case DirectPageIndirectLong:
		return fmt.Sprintf("[$%02X]", raw)
	case DirectPageIndexedIndirect:
		return fmt.Sprintf("($%02X,X)", raw)
	case DirectPageIndirectIndexed:
		return fmt.Sprintf("($%02X),Y", raw)
	case DirectPageIndirectLongIndexed:
		return fmt.Sprintf("[$%02X],Y", raw)
	case StackRelative:
		return fmt.Sprintf("$%02X,S", raw)
	case StackRelativeIndirectIndexed:
		return fmt.Sprintf("($%02X,S),Y", raw)
	case Relative:
		target := uint16(pc) + 2 + uint16(int8(raw))
		return fmt.Sprintf("$%04X", target)
	case RelativeLong:
		target := uint16(pc) + 3 + uint16(raw)
		return fmt.Sprintf("$%04X", target)
	case BlockMove:
		// the source bank is written first in assembly
		return fmt.Sprintf("$%02X,$%02X", raw>>8, raw&0xFF)
	}
	return "?"
}
