package snes

// Handlers run after the operand is resolved and PC points at the next
// instruction. They return the cycles they add to the accounted ones,
// which is only non-zero for branches.

// binary8 and binary16 are ALU functions of A and an operand.
type (
	binary8  func(a, v byte) (byte, []FlagValue)
	binary16 func(a, v uint16) (uint16, []FlagValue)
	unary8   func(v byte) (byte, []FlagValue)
	unary16  func(v uint16) (uint16, []FlagValue)
)

// accumulate applies f to A and the operand at the accumulator width.
func (c *CPU) accumulate(wide bool, data uint16, f8 binary8, f16 binary16) {
	if wide {
		res, flags := f16(c.reg.A, data)
		c.reg.A = res
		c.reg.SetFlags(flags...)
		return
	}
	res, flags := f8(byte(c.reg.A), byte(data))
	c.reg.SetALow(res)
	c.reg.SetFlags(flags...)
}

// modify is a read-modify-write on the operand, or on A in accumulator mode.
func (c *CPU) modify(wide bool, op operand, f8 unary8, f16 unary16) {
	if op.mode.Kind == Accumulator {
		if wide {
			res, flags := f16(c.reg.A)
			c.reg.A = res
			c.reg.SetFlags(flags...)
		} else {
			res, flags := f8(byte(c.reg.A))
			c.reg.SetALow(res)
			c.reg.SetFlags(flags...)
		}
		return
	}
	data := c.load(op, wide)
	if wide {
		res, flags := f16(data)
		c.store(op, res, true)
		c.reg.SetFlags(flags...)
		return
	}
	res, flags := f8(byte(data))
	c.store(op, uint16(res), false)
	c.reg.SetFlags(flags...)
}

// step applies f to an index register value at the index width.
func (c *CPU) step(wide bool, x uint16, f8 unary8, f16 unary16) uint16 {
	if wide {
		res, flags := f16(x)
		c.reg.SetFlags(flags...)
		return res
	}
	res, flags := f8(byte(x))
	c.reg.SetFlags(flags...)
	return uint16(res)
}

// setNZ sets N and Z from a value of the given width.
func (c *CPU) setNZ(wide bool, x uint16) {
	if wide {
		c.reg.SetFlags(nz(x)...)
	} else {
		c.reg.SetFlags(nz(byte(x))...)
	}
}

// ADC - Add with Carry.
func (c *CPU) adc(v variant, op operand) int {
	data := c.load(op, v.wide())
	carry := c.reg.Carry()
	switch v {
	case variant8:
		c.accumulate(false, data,
			func(a, b byte) (byte, []FlagValue) { return adcBinary(a, b, carry) }, nil)
	case variant16:
		c.accumulate(true, data, nil,
			func(a, b uint16) (uint16, []FlagValue) { return adcBinary(a, b, carry) })
	case variant8Decimal:
		c.accumulate(false, data,
			func(a, b byte) (byte, []FlagValue) { return adcDecimal(a, b, carry) }, nil)
	case variant16Decimal:
		c.accumulate(true, data, nil,
			func(a, b uint16) (uint16, []FlagValue) { return adcDecimal(a, b, carry) })
	}
	return 0
}

// SBC - Subtract with Borrow.
func (c *CPU) sbc(v variant, op operand) int {
	data := c.load(op, v.wide())
	carry := c.reg.Carry()
	switch v {
	case variant8:
		c.accumulate(false, data,
			func(a, b byte) (byte, []FlagValue) { return sbcBinary(a, b, carry) }, nil)
	case variant16:
		c.accumulate(true, data, nil,
			func(a, b uint16) (uint16, []FlagValue) { return sbcBinary(a, b, carry) })
	case variant8Decimal:
		c.accumulate(false, data,
			func(a, b byte) (byte, []FlagValue) { return sbcDecimal(a, b, carry) }, nil)
	case variant16Decimal:
		c.accumulate(true, data, nil,
			func(a, b uint16) (uint16, []FlagValue) { return sbcDecimal(a, b, carry) })
	}
	return 0
}

// AND - Logical AND.
func (c *CPU) and(v variant, op operand) int {
	c.accumulate(v.wide(), c.load(op, v.wide()), and[byte], and[uint16])
	return 0
}

// ORA - Logical Inclusive OR.
func (c *CPU) ora(v variant, op operand) int {
	c.accumulate(v.wide(), c.load(op, v.wide()), ora[byte], ora[uint16])
	return 0
}

// EOR - Exclusive OR.
func (c *CPU) eor(v variant, op operand) int {
	c.accumulate(v.wide(), c.load(op, v.wide()), eor[byte], eor[uint16])
	return 0
}

// BIT - Bit Test.
func (c *CPU) bit(v variant, op operand) int {
	data := c.load(op, v.wide())
	immediate := op.mode.Kind == Immediate
	if v.wide() {
		c.reg.SetFlags(bitTest(c.reg.A, data, immediate)...)
	} else {
		c.reg.SetFlags(bitTest(byte(c.reg.A), byte(data), immediate)...)
	}
	return 0
}

// compareWith implements CMP, CPX and CPY.
func (c *CPU) compareWith(wide bool, r uint16, op operand) {
	data := c.load(op, wide)
	if wide {
		c.reg.SetFlags(compare(r, data)...)
	} else {
		c.reg.SetFlags(compare(byte(r), byte(data))...)
	}
}

// CMP - Compare Accumulator.
func (c *CPU) cmp(v variant, op operand) int {
	c.compareWith(v.wide(), c.reg.A, op)
	return 0
}

// CPX - Compare X Register.
func (c *CPU) cpx(v variant, op operand) int {
	c.compareWith(v.wide(), c.reg.X, op)
	return 0
}

// CPY - Compare Y Register.
func (c *CPU) cpy(v variant, op operand) int {
	c.compareWith(v.wide(), c.reg.Y, op)
	return 0
}

// ASL - Arithmetic Shift Left.
func (c *CPU) asl(v variant, op operand) int {
	c.modify(v.wide(), op, asl[byte], asl[uint16])
	return 0
}

// LSR - Logical Shift Right.
func (c *CPU) lsr(v variant, op operand) int {
	c.modify(v.wide(), op, lsr[byte], lsr[uint16])
	return 0
}

// ROL - Rotate Left.
func (c *CPU) rol(v variant, op operand) int {
	carry := c.reg.Carry()
	c.modify(v.wide(), op,
		func(x byte) (byte, []FlagValue) { return rol(x, carry) },
		func(x uint16) (uint16, []FlagValue) { return rol(x, carry) })
	return 0
}

// ROR - Rotate Right.
func (c *CPU) ror(v variant, op operand) int {
	carry := c.reg.Carry()
	c.modify(v.wide(), op,
		func(x byte) (byte, []FlagValue) { return ror(x, carry) },
		func(x uint16) (uint16, []FlagValue) { return ror(x, carry) })
	return 0
}

// INC - Increment Memory or Accumulator.
func (c *CPU) inc(v variant, op operand) int {
	c.modify(v.wide(), op, increment[byte], increment[uint16])
	return 0
}

// DEC - Decrement Memory or Accumulator.
func (c *CPU) dec(v variant, op operand) int {
	c.modify(v.wide(), op, decrement[byte], decrement[uint16])
	return 0
}

// TSB - Test and Set Bits.
func (c *CPU) tsb(v variant, op operand) int {
	a := c.reg.A
	c.modify(v.wide(), op,
		func(x byte) (byte, []FlagValue) { return testAndSet(byte(a), x) },
		func(x uint16) (uint16, []FlagValue) { return testAndSet(a, x) })
	return 0
}

// TRB - Test and Reset Bits.
func (c *CPU) trb(v variant, op operand) int {
	a := c.reg.A
	c.modify(v.wide(), op,
		func(x byte) (byte, []FlagValue) { return testAndReset(byte(a), x) },
		func(x uint16) (uint16, []FlagValue) { return testAndReset(a, x) })
	return 0
}

// INX - Increment X Register.
func (c *CPU) inx(v variant, _ operand) int {
	c.reg.X = c.step(v.wide(), c.reg.X, increment[byte], increment[uint16])
	return 0
}

// INY - Increment Y Register.
func (c *CPU) iny(v variant, _ operand) int {
	c.reg.Y = c.step(v.wide(), c.reg.Y, increment[byte], increment[uint16])
	return 0
}

// DEX - Decrement X Register.
func (c *CPU) dex(v variant, _ operand) int {
	c.reg.X = c.step(v.wide(), c.reg.X, decrement[byte], decrement[uint16])
	return 0
}

// DEY - Decrement Y Register.
func (c *CPU) dey(v variant, _ operand) int {
	c.reg.Y = c.step(v.wide(), c.reg.Y, decrement[byte], decrement[uint16])
	return 0
}

// LDA - Load Accumulator.
func (c *CPU) lda(v variant, op operand) int {
	data := c.load(op, v.wide())
	if v.wide() {
		c.reg.A = data
	} else {
		c.reg.SetALow(byte(data))
	}
	c.setNZ(v.wide(), data)
	return 0
}

// LDX - Load X Register.
func (c *CPU) ldx(v variant, op operand) int {
	data := c.load(op, v.wide())
	c.reg.setX(data)
	c.setNZ(v.wide(), data)
	return 0
}

// LDY - Load Y Register.
func (c *CPU) ldy(v variant, op operand) int {
	data := c.load(op, v.wide())
	c.reg.setY(data)
	c.setNZ(v.wide(), data)
	return 0
}

// STA - Store Accumulator.
func (c *CPU) sta(v variant, op operand) int {
	c.store(op, c.reg.A, v.wide())
	return 0
}

// STX - Store X Register.
func (c *CPU) stx(v variant, op operand) int {
	c.store(op, c.reg.X, v.wide())
	return 0
}

// STY - Store Y Register.
func (c *CPU) sty(v variant, op operand) int {
	c.store(op, c.reg.Y, v.wide())
	return 0
}

// STZ - Store Zero.
func (c *CPU) stz(v variant, op operand) int {
	c.store(op, 0, v.wide())
	return 0
}

// branch jumps to the target when taken, PC already points after the branch.
func (c *CPU) branch(taken bool, op operand) int {
	if !taken {
		return 0
	}
	from := c.reg.PC
	c.reg.PC = uint16(op.address)
	return branchPenalty(c.reg, true, from, c.reg.PC)
}

// BCC - Branch on Carry Clear.
func (c *CPU) bcc(_ variant, op operand) int {
	return c.branch(!c.reg.Carry(), op)
}

// BCS - Branch on Carry Set.
func (c *CPU) bcs(_ variant, op operand) int {
	return c.branch(c.reg.Carry(), op)
}

// BEQ - Branch on Equal.
func (c *CPU) beq(_ variant, op operand) int {
	return c.branch(c.reg.Flag(FlagZero), op)
}

// BNE - Branch on Not Equal.
func (c *CPU) bne(_ variant, op operand) int {
	return c.branch(!c.reg.Flag(FlagZero), op)
}

// BMI - Branch on Minus.
func (c *CPU) bmi(_ variant, op operand) int {
	return c.branch(c.reg.Flag(FlagNegative), op)
}

// BPL - Branch on Plus.
func (c *CPU) bpl(_ variant, op operand) int {
	return c.branch(!c.reg.Flag(FlagNegative), op)
}

// BVC - Branch on Overflow Clear.
func (c *CPU) bvc(_ variant, op operand) int {
	return c.branch(!c.reg.Flag(FlagOverflow), op)
}

// BVS - Branch on Overflow Set.
func (c *CPU) bvs(_ variant, op operand) int {
	return c.branch(c.reg.Flag(FlagOverflow), op)
}

// BRA - Branch Always.
func (c *CPU) bra(_ variant, op operand) int {
	return c.branch(true, op)
}

// BRL - Branch Always Long, the cost is fixed.
func (c *CPU) brl(_ variant, op operand) int {
	c.reg.PC = uint16(op.address)
	return 0
}

// JMP - Jump, inside the program bank.
func (c *CPU) jmp(_ variant, op operand) int {
	c.reg.PC = uint16(op.address)
	return 0
}

// JML - Jump Long.
func (c *CPU) jml(_ variant, op operand) int {
	c.reg.PBR = byte(op.address >> 16)
	c.reg.PC = uint16(op.address)
	return 0
}

// JSR - Jump to Subroutine, the pushed address is the last byte of the instruction.
func (c *CPU) jsr(_ variant, op operand) int {
	ret := c.reg.PC - 1
	if op.mode.Kind == AbsoluteIndexedIndirect {
		c.pushLong16(ret)
		c.restoreStack()
	} else {
		c.push16(ret)
	}
	c.reg.PC = uint16(op.address)
	return 0
}

// JSL - Jump to Subroutine Long.
func (c *CPU) jsl(_ variant, op operand) int {
	c.pushLong(c.reg.PBR)
	c.pushLong16(c.reg.PC - 1)
	c.restoreStack()
	c.reg.PBR = byte(op.address >> 16)
	c.reg.PC = uint16(op.address)
	return 0
}

// RTS - Return from Subroutine.
func (c *CPU) rts(_ variant, _ operand) int {
	c.reg.PC = c.pull16() + 1
	return 0
}

// RTL - Return from Subroutine Long.
func (c *CPU) rtl(_ variant, _ operand) int {
	pc := c.pullLong16()
	c.reg.PBR = c.pullLong()
	c.restoreStack()
	c.reg.PC = pc + 1
	return 0
}

// BRK - Software Break.
func (c *CPU) brk(_ variant, _ operand) int {
	if c.reg.Emulation() {
		c.interrupt(vectorIRQEmulation, true)
	} else {
		c.interrupt(vectorBRKNative, true)
	}
	return 0
}

// COP - Coprocessor Enable.
func (c *CPU) cop(_ variant, _ operand) int {
	if c.reg.Emulation() {
		c.interrupt(vectorCOPEmulation, true)
	} else {
		c.interrupt(vectorCOPNative, true)
	}
	return 0
}

// RTI - Return from Interrupt.
func (c *CPU) rti(_ variant, _ operand) int {
	c.reg.SetStatus(c.pull())
	c.reg.PC = c.pull16()
	if !c.reg.Emulation() {
		c.reg.PBR = c.pull()
	}
	return 0
}

// PHA - Push Accumulator.
func (c *CPU) pha(v variant, _ operand) int {
	if v.wide() {
		c.push16(c.reg.A)
	} else {
		c.push(byte(c.reg.A))
	}
	return 0
}

// PHX - Push X Register.
func (c *CPU) phx(v variant, _ operand) int {
	if v.wide() {
		c.push16(c.reg.X)
	} else {
		c.push(byte(c.reg.X))
	}
	return 0
}

// PHY - Push Y Register.
func (c *CPU) phy(v variant, _ operand) int {
	if v.wide() {
		c.push16(c.reg.Y)
	} else {
		c.push(byte(c.reg.Y))
	}
	return 0
}

// pullWidth pulls one or two bytes and sets N and Z.
func (c *CPU) pullWidth(wide bool) uint16 {
	var data uint16
	if wide {
		data = c.pull16()
	} else {
		data = uint16(c.pull())
	}
	c.setNZ(wide, data)
	return data
}

// PLA - Pull Accumulator.
func (c *CPU) pla(v variant, _ operand) int {
	data := c.pullWidth(v.wide())
	if v.wide() {
		c.reg.A = data
	} else {
		c.reg.SetALow(byte(data))
	}
	return 0
}

// PLX - Pull X Register.
func (c *CPU) plx(v variant, _ operand) int {
	c.reg.setX(c.pullWidth(v.wide()))
	return 0
}

// PLY - Pull Y Register.
func (c *CPU) ply(v variant, _ operand) int {
	c.reg.setY(c.pullWidth(v.wide()))
	return 0
}

// PHP - Push Processor Status.
func (c *CPU) php(_ variant, _ operand) int {
	c.push(c.reg.Status())
	return 0
}

// PLP - Pull Processor Status.
func (c *CPU) plp(_ variant, _ operand) int {
	c.reg.SetStatus(c.pull())
	return 0
}

// PHB - Push Data Bank.
func (c *CPU) phb(_ variant, _ operand) int {
	c.push(c.reg.DBR)
	return 0
}

// PHK - Push Program Bank.
func (c *CPU) phk(_ variant, _ operand) int {
	c.push(c.reg.PBR)
	return 0
}

// PLB - Pull Data Bank.
func (c *CPU) plb(_ variant, _ operand) int {
	c.reg.DBR = c.pullLong()
	c.restoreStack()
	c.setNZ(false, uint16(c.reg.DBR))
	return 0
}

// PHD - Push Direct Page.
func (c *CPU) phd(_ variant, _ operand) int {
	c.pushLong16(c.reg.D)
	c.restoreStack()
	return 0
}

// PLD - Pull Direct Page.
func (c *CPU) pld(_ variant, _ operand) int {
	c.reg.D = c.pullLong16()
	c.restoreStack()
	c.setNZ(true, c.reg.D)
	return 0
}

// PEA - Push Effective Absolute Address.
func (c *CPU) pea(_ variant, op operand) int {
	c.pushLong16(uint16(op.address))
	c.restoreStack()
	return 0
}

// PEI - Push Effective Indirect Address.
func (c *CPU) pei(_ variant, op operand) int {
	c.pushLong16(uint16(op.address))
	c.restoreStack()
	return 0
}

// PER - Push Effective PC Relative Address.
func (c *CPU) per(_ variant, op operand) int {
	c.pushLong16(uint16(op.address))
	c.restoreStack()
	return 0
}

// TAX - Transfer Accumulator to X.
func (c *CPU) tax(v variant, _ operand) int {
	c.reg.setX(c.reg.A)
	c.setNZ(v.wide(), c.reg.X)
	return 0
}

// TAY - Transfer Accumulator to Y.
func (c *CPU) tay(v variant, _ operand) int {
	c.reg.setY(c.reg.A)
	c.setNZ(v.wide(), c.reg.Y)
	return 0
}

// TXY - Transfer X to Y.
func (c *CPU) txy(v variant, _ operand) int {
	c.reg.setY(c.reg.X)
	c.setNZ(v.wide(), c.reg.Y)
	return 0
}

// TYX - Transfer Y to X.
func (c *CPU) tyx(v variant, _ operand) int {
	c.reg.setX(c.reg.Y)
	c.setNZ(v.wide(), c.reg.X)
	return 0
}

// TSX - Transfer Stack Pointer to X.
func (c *CPU) tsx(v variant, _ operand) int {
	c.reg.setX(c.reg.SP)
	c.setNZ(v.wide(), c.reg.X)
	return 0
}

// TXA - Transfer X to Accumulator, B is kept when A is 8 bits wide.
func (c *CPU) txa(v variant, _ operand) int {
	if v.wide() {
		c.reg.A = c.reg.X
	} else {
		c.reg.SetALow(byte(c.reg.X))
	}
	c.setNZ(v.wide(), c.reg.A)
	return 0
}

// TYA - Transfer Y to Accumulator.
func (c *CPU) tya(v variant, _ operand) int {
	if v.wide() {
		c.reg.A = c.reg.Y
	} else {
		c.reg.SetALow(byte(c.reg.Y))
	}
	c.setNZ(v.wide(), c.reg.A)
	return 0
}

// TXS - Transfer X to Stack Pointer.
func (c *CPU) txs(_ variant, _ operand) int {
	c.reg.setSP(c.reg.X)
	return 0
}

// TCS - Transfer 16-bit Accumulator to Stack Pointer.
func (c *CPU) tcs(_ variant, _ operand) int {
	c.reg.setSP(c.reg.A)
	return 0
}

// TSC - Transfer Stack Pointer to 16-bit Accumulator.
func (c *CPU) tsc(_ variant, _ operand) int {
	c.reg.A = c.reg.SP
	c.setNZ(true, c.reg.A)
	return 0
}

// TCD - Transfer 16-bit Accumulator to Direct Page.
func (c *CPU) tcd(_ variant, _ operand) int {
	c.reg.D = c.reg.A
	c.setNZ(true, c.reg.D)
	return 0
}

// TDC - Transfer Direct Page to 16-bit Accumulator.
func (c *CPU) tdc(_ variant, _ operand) int {
	c.reg.A = c.reg.D
	c.setNZ(true, c.reg.A)
	return 0
}

// XBA - Exchange B and A, the flags come from the new low byte.
func (c *CPU) xba(_ variant, _ operand) int {
	c.reg.A = c.reg.A<<8 | c.reg.A>>8
	c.setNZ(false, c.reg.A)
	return 0
}

// XCE - Exchange Carry and Emulation.
func (c *CPU) xce(_ variant, _ operand) int {
	c.reg.ExchangeCarryAndEmulation()
	return 0
}

// REP - Reset Status Bits.
func (c *CPU) rep(_ variant, op operand) int {
	c.reg.ResetREPByte(c.bus.Read(op.address))
	return 0
}

// SEP - Set Status Bits.
func (c *CPU) sep(_ variant, op operand) int {
	c.reg.SetSEPByte(c.bus.Read(op.address))
	return 0
}

// CLC - Clear Carry.
func (c *CPU) clc(_ variant, _ operand) int {
	c.reg.SetCarry(false)
	return 0
}

// SEC - Set Carry.
func (c *CPU) sec(_ variant, _ operand) int {
	c.reg.SetCarry(true)
	return 0
}

// CLI - Clear Interrupt Disable.
func (c *CPU) cli(_ variant, _ operand) int {
	c.reg.SetFlag(FlagIRQDisable, false)
	return 0
}

// SEI - Set Interrupt Disable.
func (c *CPU) sei(_ variant, _ operand) int {
	c.reg.SetFlag(FlagIRQDisable, true)
	return 0
}

// CLD - Clear Decimal.
func (c *CPU) cld(_ variant, _ operand) int {
	c.reg.SetFlag(FlagDecimal, false)
	return 0
}

// SED - Set Decimal.
func (c *CPU) sed(_ variant, _ operand) int {
	c.reg.SetFlag(FlagDecimal, true)
	return 0
}

// CLV - Clear Overflow.
func (c *CPU) clv(_ variant, _ operand) int {
	c.reg.SetFlag(FlagOverflow, false)
	return 0
}

// NOP - No Operation, WDM is the same with a signature byte.
func (c *CPU) nop(_ variant, _ operand) int {
	return 0
}

// WAI - Wait for Interrupt.
func (c *CPU) wai(_ variant, _ operand) int {
	c.waiting = true
	return 0
}

// STP - Stop the Clock.
func (c *CPU) stp(_ variant, _ operand) int {
	c.halted = true
	return 0
}

// moveByte copies one byte of a block move. The operand holds the
// destination bank in its high byte and the source bank in its low byte.
// PC is moved back to the instruction until A underflows.
func (c *CPU) moveByte(op operand, step uint16) {
	dst := byte(op.address >> 8)
	src := byte(op.address)
	c.reg.DBR = dst
	c.bus.Write(bankAddress(dst, c.reg.Y), c.bus.Read(bankAddress(src, c.reg.X)))
	c.reg.setX(c.reg.X + step)
	c.reg.setY(c.reg.Y + step)
	c.reg.A--
	c.blockMove = c.reg.A != 0xFFFF
	if c.blockMove {
		c.reg.DecrementPC(3)
	}
}

// MVN - Block Move Next, addresses increment.
func (c *CPU) mvn(_ variant, op operand) int {
	c.moveByte(op, 1)
	return 0
}

// MVP - Block Move Previous, addresses decrement.
func (c *CPU) mvp(_ variant, op operand) int {
	c.moveByte(op, 0xFFFF)
	return 0
}
