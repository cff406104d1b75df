package snes

// timingRule is an adjustment the cycle accountant may apply to an instruction.
type timingRule uint8

const (
	// +1 byte and +1 cycle for an immediate operand in 16-bit width.
	ruleWideImmediate timingRule = 1 << iota
	// +1 cycle for a 16-bit memory or stack operand.
	ruleWideMemory
	// +2 cycles for a 16-bit read-modify-write on memory.
	ruleWideModify
	// +1 cycle when the low byte of D is not zero.
	ruleDirectPage
	// +1 cycle when the index crosses a page, or when the index is 16 bits wide.
	rulePageCross
	// +1 cycle in decimal mode, a 65C02 trait no 65C816 class enables.
	ruleDecimal
	// +1 cycle in native mode.
	ruleNative
)

// widthSource is the status flag deciding an instruction's operand width.
type widthSource int

const (
	widthNone widthSource = iota
	widthAccumulator
	widthIndex
)

// class groups instructions sharing a width source and timing rules.
type class struct {
	name    string
	width   widthSource
	decimal bool // ADC, SBC pick a decimal variant
	rules   timingRule
}

var (
	arithmetic  = class{"arithmetic", widthAccumulator, true, ruleWideImmediate | ruleWideMemory | ruleDirectPage | rulePageCross}
	bitwise     = class{"bitwise", widthAccumulator, false, ruleWideImmediate | ruleWideMemory | ruleDirectPage | rulePageCross}
	load        = class{"load", widthAccumulator, false, ruleWideImmediate | ruleWideMemory | ruleDirectPage | rulePageCross}
	loadIndex   = class{"load index", widthIndex, false, ruleWideImmediate | ruleWideMemory | ruleDirectPage | rulePageCross}
	compareA    = class{"compare", widthAccumulator, false, ruleWideImmediate | ruleWideMemory | ruleDirectPage | rulePageCross}
	compareIdx  = class{"compare index", widthIndex, false, ruleWideImmediate | ruleWideMemory | ruleDirectPage}
	store       = class{"store", widthAccumulator, false, ruleWideMemory | ruleDirectPage}
	storeIndex  = class{"store index", widthIndex, false, ruleWideMemory | ruleDirectPage}
	modify      = class{"shift/rotate", widthAccumulator, false, ruleWideModify | ruleDirectPage}
	modifyIndex = class{"index step", widthIndex, false, 0}
	branch      = class{"branch", widthNone, false, 0}
	pushA       = class{"stack", widthAccumulator, false, ruleWideMemory}
	pushIndex   = class{"stack index", widthIndex, false, ruleWideMemory}
	stack       = class{"stack", widthNone, false, ruleDirectPage}
	transfer    = class{"transfer", widthNone, false, 0}
	transferA   = class{"transfer", widthAccumulator, false, 0}
	transferIdx = class{"transfer", widthIndex, false, 0}
	control     = class{"control", widthNone, false, 0}
	interrupt   = class{"interrupt", widthNone, false, ruleNative}
	move        = class{"block move", widthIndex, false, 0}
)

// wide reports whether the class operates on 16-bit values with the current flags.
func (c class) wide(r *Registers) bool {
	switch c.width {
	case widthAccumulator:
		return r.Is16BitMode()
	case widthIndex:
		return r.Is16BitIndex()
	}
	return false
}

// timing returns the byte length and the cycle count of an instruction.
// crossed tells whether the indexed effective address crossed a page.
func timing(ins *Instruction, r *Registers, crossed bool) (uint16, int) {
	size := 1 + ins.Mode.operandBytes()
	cycles := ins.cycles
	rules := ins.class.rules
	wide := ins.class.wide(r)
	kind := ins.Mode.Kind
	if rules&ruleWideImmediate != 0 && wide && kind == Immediate {
		size++
		cycles++
	}
	if rules&ruleWideMemory != 0 && wide && kind != Immediate && kind != Accumulator {
		cycles++
	}
	if rules&ruleWideModify != 0 && wide && kind != Accumulator {
		cycles += 2
	}
	if rules&ruleDirectPage != 0 && ins.Mode.usesDirectPage() && r.D&0xFF != 0 {
		cycles++
	}
	if rules&rulePageCross != 0 && (kind == AbsoluteIndexed || kind == DirectPageIndirectIndexed) &&
		(crossed || r.Is16BitIndex()) {
		cycles++
	}
	if rules&ruleDecimal != 0 && r.Flag(FlagDecimal) {
		cycles++
	}
	if rules&ruleNative != 0 && !r.Emulation() {
		cycles++
	}
	return size, cycles
}

// branchPenalty returns the cycles a short branch adds to its base of 2.
// Taken branches cost one more, and one more again in emulation mode
// when the target is in another page.
func branchPenalty(r *Registers, taken bool, from, to uint16) int {
	if !taken {
		return 0
	}
	if r.Emulation() && from&0xFF00 != to&0xFF00 {
		return 2
	}
	return 1
}
