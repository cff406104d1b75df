package snes

import (
	"fmt"
	"strings"
)

// variant is the execution path an instruction takes for the current register widths.
type variant int

const (
	variant8 variant = iota
	variant16
	variant8Decimal
	variant16Decimal
)

func (v variant) wide() bool {
	return v == variant16 || v == variant16Decimal
}

// handler executes an instruction once its operand is resolved and PC has moved
// past it, it returns the cycles it adds to the accounted ones.
type handler func(c *CPU, v variant, op operand) int

// Instruction describes an opcode.
type Instruction struct {
	Opcode  byte
	Name    string
	Mode    AddressingMode
	class   class
	cycles  int // base cycles, 8-bit operands and D aligned to a page
	execute handler
}

var instructions [256]Instruction

func init() {
	instructions = createInstructions()
}

// Dispatch returns the instruction for an opcode.
// Every opcode of the 65C816 is defined, an empty slot is a programming error.
func Dispatch(opcode byte) Instruction {
	ins := instructions[opcode]
	if ins.execute == nil {
		panic(fmt.Sprintf("unimplemented instruction: opcode=0x%02x", opcode))
	}
	return ins
}

// specialize picks the variant from the current widths and, for ADC and SBC, the decimal flag.
func (i Instruction) specialize(r *Registers) variant {
	wide := i.class.wide(r)
	if i.class.decimal && r.Flag(FlagDecimal) {
		if wide {
			return variant16Decimal
		}
		return variant8Decimal
	}
	if wide {
		return variant16
	}
	return variant8
}

// Execute runs the instruction at PC and returns the cycles it took.
func (i Instruction) Execute(c *CPU) int {
	op := i.Mode.Resolve(c.reg, c.bus)
	size, cycles := timing(&i, c.reg, op.crossed)
	v := i.specialize(c.reg)
	c.reg.IncrementPC(size)
	return cycles + i.execute(c, v, op)
}

// Mnemonic disassembles the instruction at the current PC, nothing is modified.
func (i Instruction) Mnemonic(r *Registers, mem Memory) string {
	size, _ := timing(&i, r, false)
	n := size - 1
	var raw uint32
	for k := uint16(0); k < n; k++ {
		raw |= uint32(mem.ReadExternal(bankAddress(r.PBR, r.PC+1+k))) << (8 * k)
	}
	operand := i.Mode.format(raw, n, r.PCAddress())
	if operand == "" {
		return i.Name
	}
	return strings.Join([]string{i.Name, operand}, " ")
}

func createInstructions() [256]Instruction {
	table := []Instruction{
		{0x00, "BRK", immediate, interrupt, 7, (*CPU).brk},
		{0x01, "ORA", directPageIndexedIndirect, bitwise, 6, (*CPU).ora},
		{0x02, "COP", immediate, interrupt, 7, (*CPU).cop},
		{0x03, "ORA", stackRelative, bitwise, 4, (*CPU).ora},
		{0x04, "TSB", directPage, modify, 5, (*CPU).tsb},
		{0x05, "ORA", directPage, bitwise, 3, (*CPU).ora},
		{0x06, "ASL", directPage, modify, 5, (*CPU).asl},
		{0x07, "ORA", directPageIndirectLong, bitwise, 6, (*CPU).ora},
		{0x08, "PHP", implied, stack, 3, (*CPU).php},
		{0x09, "ORA", immediate, bitwise, 2, (*CPU).ora},
		{0x0A, "ASL", accumulator, modify, 2, (*CPU).asl},
		{0x0B, "PHD", implied, stack, 4, (*CPU).phd},
		{0x0C, "TSB", absolute, modify, 6, (*CPU).tsb},
		{0x0D, "ORA", absolute, bitwise, 4, (*CPU).ora},
		{0x0E, "ASL", absolute, modify, 6, (*CPU).asl},
		{0x0F, "ORA", absoluteLong, bitwise, 5, (*CPU).ora},
		{0x10, "BPL", relative, branch, 2, (*CPU).bpl},
		{0x11, "ORA", directPageIndirectIndexed, bitwise, 5, (*CPU).ora},
		{0x12, "ORA", directPageIndirect, bitwise, 5, (*CPU).ora},
		{0x13, "ORA", stackRelativeIndirectIndexed, bitwise, 7, (*CPU).ora},
		{0x14, "TRB", directPage, modify, 5, (*CPU).trb},
		{0x15, "ORA", directPageX, bitwise, 4, (*CPU).ora},
		{0x16, "ASL", directPageX, modify, 6, (*CPU).asl},
		{0x17, "ORA", directPageIndirectLongIndexed, bitwise, 6, (*CPU).ora},
		{0x18, "CLC", implied, control, 2, (*CPU).clc},
		{0x19, "ORA", absoluteY, bitwise, 4, (*CPU).ora},
		{0x1A, "INC", accumulator, modify, 2, (*CPU).inc},
		{0x1B, "TCS", implied, transfer, 2, (*CPU).tcs},
		{0x1C, "TRB", absolute, modify, 6, (*CPU).trb},
		{0x1D, "ORA", absoluteX, bitwise, 4, (*CPU).ora},
		{0x1E, "ASL", absoluteX, modify, 7, (*CPU).asl},
		{0x1F, "ORA", absoluteLongX, bitwise, 5, (*CPU).ora},
		{0x20, "JSR", absolute, control, 6, (*CPU).jsr},
		{0x21, "AND", directPageIndexedIndirect, bitwise, 6, (*CPU).and},
		{0x22, "JSL", absoluteLong, control, 8, (*CPU).jsl},
		{0x23, "AND", stackRelative, bitwise, 4, (*CPU).and},
		{0x24, "BIT", directPage, bitwise, 3, (*CPU).bit},
		{0x25, "AND", directPage, bitwise, 3, (*CPU).and},
		{0x26, "ROL", directPage, modify, 5, (*CPU).rol},
		{0x27, "AND", directPageIndirectLong, bitwise, 6, (*CPU).and},
		{0x28, "PLP", implied, stack, 4, (*CPU).plp},
		{0x29, "AND", immediate, bitwise, 2, (*CPU).and},
		{0x2A, "ROL", accumulator, modify, 2, (*CPU).rol},
		{0x2B, "PLD", implied, stack, 5, (*CPU).pld},
		{0x2C, "BIT", absolute, bitwise, 4, (*CPU).bit},
		{0x2D, "AND", absolute, bitwise, 4, (*CPU).and},
		{0x2E, "ROL", absolute, modify, 6, (*CPU).rol},
		{0x2F, "AND", absoluteLong, bitwise, 5, (*CPU).and},
		{0x30, "BMI", relative, branch, 2, (*CPU).bmi},
		{0x31, "AND", directPageIndirectIndexed, bitwise, 5, (*CPU).and},
		{0x32, "AND", directPageIndirect, bitwise, 5, (*CPU).and},
		{0x33, "AND", stackRelativeIndirectIndexed, bitwise, 7, (*CPU).and},
		{0x34, "BIT", directPageX, bitwise, 4, (*CPU).bit},
		{0x35, "AND", directPageX, bitwise, 4, (*CPU).and},
		{0x36, "ROL", directPageX, modify, 6, (*CPU).rol},
		{0x37, "AND", directPageIndirectLongIndexed, bitwise, 6, (*CPU).and},
		{0x38, "SEC", implied, control, 2, (*CPU).sec},
		{0x39, "AND", absoluteY, bitwise, 4, (*CPU).and},
		{0x3A, "DEC", accumulator, modify, 2, (*CPU).dec},
		{0x3B, "TSC", implied, transfer, 2, (*CPU).tsc},
		{0x3C, "BIT", absoluteX, bitwise, 4, (*CPU).bit},
		{0x3D, "AND", absoluteX, bitwise, 4, (*CPU).and},
		{0x3E, "ROL", absoluteX, modify, 7, (*CPU).rol},
		{0x3F, "AND", absoluteLongX, bitwise, 5, (*CPU).and},
		{0x40, "RTI", implied, interrupt, 6, (*CPU).rti},
		{0x41, "EOR", directPageIndexedIndirect, bitwise, 6, (*CPU).eor},
		{0x42, "WDM", immediate, control, 2, (*CPU).nop},
		{0x43, "EOR", stackRelative, bitwise, 4, (*CPU).eor},
		{0x44, "MVP", blockMove, move, 7, (*CPU).mvp},
		{0x45, "EOR", directPage, bitwise, 3, (*CPU).eor},
		{0x46, "LSR", directPage, modify, 5, (*CPU).lsr},
		{0x47, "EOR", directPageIndirectLong, bitwise, 6, (*CPU).eor},
		{0x48, "PHA", implied, pushA, 3, (*CPU).pha},
		{0x49, "EOR", immediate, bitwise, 2, (*CPU).eor},
		{0x4A, "LSR", accumulator, modify, 2, (*CPU).lsr},
		{0x4B, "PHK", implied, stack, 3, (*CPU).phk},
		{0x4C, "JMP", absolute, control, 3, (*CPU).jmp},
		{0x4D, "EOR", absolute, bitwise, 4, (*CPU).eor},
		{0x4E, "LSR", absolute, modify, 6, (*CPU).lsr},
		{0x4F, "EOR", absoluteLong, bitwise, 5, (*CPU).eor},
		{0x50, "BVC", relative, branch, 2, (*CPU).bvc},
		{0x51, "EOR", directPageIndirectIndexed, bitwise, 5, (*CPU).eor},
		{0x52, "EOR", directPageIndirect, bitwise, 5, (*CPU).eor},
		{0x53, "EOR", stackRelativeIndirectIndexed, bitwise, 7, (*CPU).eor},
		{0x54, "MVN", blockMove, move, 7, (*CPU).mvn},
		{0x55, "EOR", directPageX, bitwise, 4, (*CPU).eor},
		{0x56, "LSR", directPageX, modify, 6, (*CPU).lsr},
		{0x57, "EOR", directPageIndirectLongIndexed, bitwise, 6, (*CPU).eor},
		{0x58, "CLI", implied, control, 2, (*CPU).cli},
		{0x59, "EOR", absoluteY, bitwise, 4, (*CPU).eor},
		{0x5A, "PHY", implied, pushIndex, 3, (*CPU).phy},
		{0x5B, "TCD", implied, transfer, 2, (*CPU).tcd},
		{0x5C, "JML", absoluteLong, control, 4, (*CPU).jml},
		{0x5D, "EOR", absoluteX, bitwise, 4, (*CPU).eor},
		{0x5E, "LSR", absoluteX, modify, 7, (*CPU).lsr},
		{0x5F, "EOR", absoluteLongX, bitwise, 5, (*CPU).eor},
		{0x60, "RTS", implied, control, 6, (*CPU).rts},
		{0x61, "ADC", directPageIndexedIndirect, arithmetic, 6, (*CPU).adc},
		{0x62, "PER", relativeLong, stack, 6, (*CPU).per},
		{0x63, "ADC", stackRelative, arithmetic, 4, (*CPU).adc},
		{0x64, "STZ", directPage, store, 3, (*CPU).stz},
		{0x65, "ADC", directPage, arithmetic, 3, (*CPU).adc},
		{0x66, "ROR", directPage, modify, 5, (*CPU).ror},
		{0x67, "ADC", directPageIndirectLong, arithmetic, 6, (*CPU).adc},
		{0x68, "PLA", implied, pushA, 4, (*CPU).pla},
		{0x69, "ADC", immediate, arithmetic, 2, (*CPU).adc},
		{0x6A, "ROR", accumulator, modify, 2, (*CPU).ror},
		{0x6B, "RTL", implied, control, 6, (*CPU).rtl},
		{0x6C, "JMP", absoluteIndirect, control, 5, (*CPU).jmp},
		{0x6D, "ADC", absolute, arithmetic, 4, (*CPU).adc},
		{0x6E, "ROR", absolute, modify, 6, (*CPU).ror},
		{0x6F, "ADC", absoluteLong, arithmetic, 5, (*CPU).adc},
		{0x70, "BVS", relative, branch, 2, (*CPU).bvs},
		{0x71, "ADC", directPageIndirectIndexed, arithmetic, 5, (*CPU).adc},
		{0x72, "ADC", directPageIndirect, arithmetic, 5, (*CPU).adc},
		{0x73, "ADC", stackRelativeIndirectIndexed, arithmetic, 7, (*CPU).adc},
		{0x74, "STZ", directPageX, store, 4, (*CPU).stz},
		{0x75, "ADC", directPageX, arithmetic, 4, (*CPU).adc},
		{0x76, "ROR", directPageX, modify, 6, (*CPU).ror},
		{0x77, "ADC", directPageIndirectLongIndexed, arithmetic, 6, (*CPU).adc},
		{0x78, "SEI", implied, control, 2, (*CPU).sei},
		{0x79, "ADC", absoluteY, arithmetic, 4, (*CPU).adc},
		{0x7A, "PLY", implied, pushIndex, 4, (*CPU).ply},
		{0x7B, "TDC", implied, transfer, 2, (*CPU).tdc},
		{0x7C, "JMP", absoluteIndexedIndirect, control, 6, (*CPU).jmp},
		{0x7D, "ADC", absoluteX, arithmetic, 4, (*CPU).adc},
		{0x7E, "ROR", absoluteX, modify, 7, (*CPU).ror},
		{0x7F, "ADC", absoluteLongX, arithmetic, 5, (*CPU).adc},
		{0x80, "BRA", relative, branch, 2, (*CPU).bra},
		{0x81, "STA", directPageIndexedIndirect, store, 6, (*CPU).sta},
		{0x82, "BRL", relativeLong, branch, 4, (*CPU).brl},
		{0x83, "STA", stackRelative, store, 4, (*CPU).sta},
		{0x84, "STY", directPage, storeIndex, 3, (*CPU).sty},
		{0x85, "STA", directPage, store, 3, (*CPU).sta},
		{0x86, "STX", directPage, storeIndex, 3, (*CPU).stx},
		{0x87, "STA", directPageIndirectLong, store, 6, (*CPU).sta},
		{0x88, "DEY", implied, modifyIndex, 2, (*CPU).dey},
		{0x89, "BIT", immediate, bitwise, 2, (*CPU).bit},
		{0x8A, "TXA", implied, transferA, 2, (*CPU).txa},
		{0x8B, "PHB", implied, stack, 3, (*CPU).phb},
		{0x8C, "STY", absolute, storeIndex, 4, (*CPU).sty},
		{0x8D, "STA", absolute, store, 4, (*CPU).sta},
		{0x8E, "STX", absolute, storeIndex, 4, (*CPU).stx},
		{0x8F, "STA", absoluteLong, store, 5, (*CPU).sta},
		{0x90, "BCC", relative, branch, 2, (*CPU).bcc},
		{0x91, "STA", directPageIndirectIndexed, store, 6, (*CPU).sta},
		{0x92, "STA", directPageIndirect, store, 5, (*CPU).sta},
		{0x93, "STA", stackRelativeIndirectIndexed, store, 7, (*CPU).sta},
		{0x94, "STY", directPageX, storeIndex, 4, (*CPU).sty},
		{0x95, "STA", directPageX, store, 4, (*CPU).sta},
		{0x96, "STX", directPageY, storeIndex, 4, (*CPU).stx},
		{0x97, "STA", directPageIndirectLongIndexed, store, 6, (*CPU).sta},
		{0x98, "TYA", implied, transferA, 2, (*CPU).tya},
		{0x99, "STA", absoluteY, store, 5, (*CPU).sta},
		{0x9A, "TXS", implied, transfer, 2, (*CPU).txs},
		{0x9B, "TXY", implied, transferIdx, 2, (*CPU).txy},
		{0x9C, "STZ", absolute, store, 4, (*CPU).stz},
		{0x9D, "STA", absoluteX, store, 5, (*CPU).sta},
		{0x9E, "STZ", absoluteX, store, 5, (*CPU).stz},
		{0x9F, "STA", absoluteLongX, store, 5, (*CPU).sta},
		{0xA0, "LDY", immediate, loadIndex, 2, (*CPU).ldy},
		{0xA1, "LDA", directPageIndexedIndirect, load, 6, (*CPU).lda},
		{0xA2, "LDX", immediate, loadIndex, 2, (*CPU).ldx},
		{0xA3, "LDA", stackRelative, load, 4, (*CPU).lda},
		{0xA4, "LDY", directPage, loadIndex, 3, (*CPU).ldy},
		{0xA5, "LDA", directPage, load, 3, (*CPU).lda},
		{0xA6, "LDX", directPage, loadIndex, 3, (*CPU).ldx},
		{0xA7, "LDA", directPageIndirectLong, load, 6, (*CPU).lda},
		{0xA8, "TAY", implied, transferIdx, 2, (*CPU).tay},
		{0xA9, "LDA", immediate, load, 2, (*CPU).lda},
		{0xAA, "TAX", implied, transferIdx, 2, (*CPU).tax},
		{0xAB, "PLB", implied, stack, 4, (*CPU).plb},
		{0xAC, "LDY", absolute, loadIndex, 4, (*CPU).ldy},
		{0xAD, "LDA", absolute, load, 4, (*CPU).lda},
		{0xAE, "LDX", absolute, loadIndex, 4, (*CPU).ldx},
		{0xAF, "LDA", absoluteLong, load, 5, (*CPU).lda},
		{0xB0, "BCS", relative, branch, 2, (*CPU).bcs},
		{0xB1, "LDA", directPageIndirectIndexed, load, 5, (*CPU).lda},
		{0xB2, "LDA", directPageIndirect, load, 5, (*CPU).lda},
		{0xB3, "LDA", stackRelativeIndirectIndexed, load, 7, (*CPU).lda},
		{0xB4, "LDY", directPageX, loadIndex, 4, (*CPU).ldy},
		{0xB5, "LDA", directPageX, load, 4, (*CPU).lda},
		{0xB6, "LDX", directPageY, loadIndex, 4, (*CPU).ldx},
		{0xB7, "LDA", directPageIndirectLongIndexed, load, 6, (*CPU).lda},
		{0xB8, "CLV", implied, control, 2, (*CPU).clv},
		{0xB9, "LDA", absoluteY, load, 4, (*CPU).lda},
		{0xBA, "TSX", implied, transferIdx, 2, (*CPU).tsx},
		{0xBB, "TYX", implied, transferIdx, 2, (*CPU).tyx},
		{0xBC, "LDY", absoluteX, loadIndex, 4, (*CPU).ldy},
		{0xBD, "LDA", absoluteX, load, 4, (*CPU).lda},
		{0xBE, "LDX", absoluteY, loadIndex, 4, (*CPU).ldx},
		{0xBF, "LDA", absoluteLongX, load, 5, (*CPU).lda},
		{0xC0, "CPY", immediate, compareIdx, 2, (*CPU).cpy},
		{0xC1, "CMP", directPageIndexedIndirect, compareA, 6, (*CPU).cmp},
		{0xC2, "REP", immediate, control, 3, (*CPU).rep},
		{0xC3, "CMP", stackRelative, compareA, 4, (*CPU).cmp},
		{0xC4, "CPY", directPage, compareIdx, 3, (*CPU).cpy},
		{0xC5, "CMP", directPage, compareA, 3, (*CPU).cmp},
		{0xC6, "DEC", directPage, modify, 5, (*CPU).dec},
		{0xC7, "CMP", directPageIndirectLong, compareA, 6, (*CPU).cmp},
		{0xC8, "INY", implied, modifyIndex, 2, (*CPU).iny},
		{0xC9, "CMP", immediate, compareA, 2, (*CPU).cmp},
		{0xCA, "DEX", implied, modifyIndex, 2, (*CPU).dex},
		{0xCB, "WAI", implied, control, 3, (*CPU).wai},
		{0xCC, "CPY", absolute, compareIdx, 4, (*CPU).cpy},
		{0xCD, "CMP", absolute, compareA, 4, (*CPU).cmp},
		{0xCE, "DEC", absolute, modify, 6, (*CPU).dec},
		{0xCF, "CMP", absoluteLong, compareA, 5, (*CPU).cmp},
		{0xD0, "BNE", relative, branch, 2, (*CPU).bne},
		{0xD1, "CMP", directPageIndirectIndexed, compareA, 5, (*CPU).cmp},
		{0xD2, "CMP", directPageIndirect, compareA, 5, (*CPU).cmp},
		{0xD3, "CMP", stackRelativeIndirectIndexed, compareA, 7, (*CPU).cmp},
		{0xD4, "PEI", directPagePointer, stack, 6, (*CPU).pei},
		{0xD5, "CMP", directPageX, compareA, 4, (*CPU).cmp},
		{0xD6, "DEC", directPageX, modify, 6, (*CPU).dec},
		{0xD7, "CMP", directPageIndirectLongIndexed, compareA, 6, (*CPU).cmp},
		{0xD8, "CLD", implied, control, 2, (*CPU).cld},
		{0xD9, "CMP", absoluteY, compareA, 4, (*CPU).cmp},
		{0xDA, "PHX", implied, pushIndex, 3, (*CPU).phx},
		{0xDB, "STP", implied, control, 3, (*CPU).stp},
		{0xDC, "JML", absoluteIndirectLong, control, 6, (*CPU).jml},
		{0xDD, "CMP", absoluteX, compareA, 4, (*CPU).cmp},
		{0xDE, "DEC", absoluteX, modify, 7, (*CPU).dec},
		{0xDF, "CMP", absoluteLongX, compareA, 5, (*CPU).cmp},
		{0xE0, "CPX", immediate, compareIdx, 2, (*CPU).cpx},
		{0xE1, "SBC", directPageIndexedIndirect, arithmetic, 6, (*CPU).sbc},
		{0xE2, "SEP", immediate, control, 3, (*CPU).sep},
		{0xE3, "SBC", stackRelative, arithmetic, 4, (*CPU).sbc},
		{0xE4, "CPX", directPage, compareIdx, 3, (*CPU).cpx},
		{0xE5, "SBC", directPage, arithmetic, 3, (*CPU).sbc},
		{0xE6, "INC", directPage, modify, 5, (*CPU).inc},
		{0xE7, "SBC", directPageIndirectLong, arithmetic, 6, (*CPU).sbc},
		{0xE8, "INX", implied, modifyIndex, 2, (*CPU).inx},
		{0xE9, "SBC", immediate, arithmetic, 2, (*CPU).sbc},
		{0xEA, "NOP", implied, control, 2, (*CPU).nop},
		{0xEB, "XBA", implied, transfer, 3, (*CPU).xba},
		{0xEC, "CPX", absolute, compareIdx, 4, (*CPU).cpx},
		{0xED, "SBC", absolute, arithmetic, 4, (*CPU).sbc},
		{0xEE, "INC", absolute, modify, 6, (*CPU).inc},
		{0xEF, "SBC", absoluteLong, arithmetic, 5, (*CPU).sbc},
		{0xF0, "BEQ", relative, branch, 2, (*CPU).beq},
		{0xF1, "SBC", directPageIndirectIndexed, arithmetic, 5, (*CPU).sbc},
		{0xF2, "SBC", directPageIndirect, arithmetic, 5, (*CPU).sbc},
		{0xF3, "SBC", stackRelativeIndirectIndexed, arithmetic, 7, (*CPU).sbc},
		{0xF4, "PEA", absolute, stack, 5, (*CPU).pea},
		{0xF5, "SBC", directPageX, arithmetic, 4, (*CPU).sbc},
		{0xF6, "INC", directPageX, modify, 6, (*CPU).inc},
		{0xF7, "SBC", directPageIndirectLongIndexed, arithmetic, 6, (*CPU).sbc},
		{0xF8, "SED", implied, control, 2, (*CPU).sed},
		{0xF9, "SBC", absoluteY, arithmetic, 4, (*CPU).sbc},
		{0xFA, "PLX", implied, pushIndex, 4, (*CPU).plx},
		{0xFB, "XCE", implied, control, 2, (*CPU).xce},
		{0xFC, "JSR", absoluteIndexedIndirect, control, 8, (*CPU).jsr},
		{0xFD, "SBC", absoluteX, arithmetic, 4, (*CPU).sbc},
		{0xFE, "INC", absoluteX, modify, 7, (*CPU).inc},
		{0xFF, "SBC", absoluteLongX, arithmetic, 5, (*CPU).sbc},
	}
	var out [256]Instruction
	for _, ins := range table {
		out[ins.Opcode] = ins
	}
	return out
}
