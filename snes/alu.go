package snes

// word is an operand width, 8 or 16 bits.
type word interface {
	~uint8 | ~uint16
}

// signBit returns the most significant bit of T.
func signBit[T word]() T {
	return ^T(0) ^ (^T(0) >> 1)
}

// widthOf returns the number of bits in T.
func widthOf[T word]() int {
	if uint32(^T(0)) == 0xFF {
		return 8
	}
	return 16
}

// nz returns the negative and zero flags of v.
func nz[T word](v T) []FlagValue {
	return []FlagValue{
		{FlagNegative, v&signBit[T]() != 0},
		{FlagZero, v == 0},
	}
}

func carryOf(c bool) uint32 {
	if c {
		return 1
	}
	return 0
}

// adcBinary adds v and the carry to a.
func adcBinary[T word](a, v T, carry bool) (T, []FlagValue) {
	sum := uint32(a) + uint32(v) + carryOf(carry)
	res := T(sum)
	overflow := ^(a^v)&(a^res)&signBit[T]() != 0
	return res, append(nz(res),
		FlagValue{FlagCarry, sum > uint32(^T(0))},
		FlagValue{FlagOverflow, overflow})
}

// sbcBinary subtracts v and the borrow (an inverted carry) from a.
func sbcBinary[T word](a, v T, carry bool) (T, []FlagValue) {
	return adcBinary(a, ^v, carry)
}

// adcDecimal adds in BCD, one nibble at a time.
// The overflow flag is only derived for 8-bit operands, 16-bit decimal
// addition leaves it clear.
func adcDecimal[T word](a, v T, carry bool) (T, []FlagValue) {
	nibbles := widthOf[T]() / 4
	ua, uv := int32(a), int32(v)
	sign := int32(signBit[T]())
	res := int32(0)
	c := int32(carryOf(carry))
	overflow := false
	for i := 0; i < nibbles; i++ {
		s := uint(4 * i)
		res = ua&(0xF<<s) + uv&(0xF<<s) + c<<s + res&(1<<s-1)
		if i == nibbles-1 && nibbles == 2 {
			overflow = ^(ua^uv)&(ua^res)&sign != 0
		}
		if res > 0xA<<s-1 {
			res += 0x6 << s
		}
		c = 0
		if res > 1<<(s+4)-1 {
			c = 1
		}
	}
	out := T(res)
	return out, append(nz(out),
		FlagValue{FlagCarry, c == 1},
		FlagValue{FlagOverflow, overflow})
}

// sbcDecimal subtracts in BCD, one nibble at a time.
// As with adcDecimal the overflow flag is not tracked for 16-bit operands.
func sbcDecimal[T word](a, v T, carry bool) (T, []FlagValue) {
	nibbles := widthOf[T]() / 4
	ua, uv := int32(a), int32(^v)
	sign := int32(signBit[T]())
	res := int32(0)
	c := int32(carryOf(carry))
	overflow := false
	for i := 0; i < nibbles; i++ {
		s := uint(4 * i)
		res = ua&(0xF<<s) + uv&(0xF<<s) + c<<s + res&(1<<s-1)
		if i == nibbles-1 && nibbles == 2 {
			overflow = ^(ua^uv)&(ua^res)&sign != 0
		}
		if res <= 1<<(s+4)-1 {
			res -= 0x6 << s
		}
		c = 0
		if res > 1<<(s+4)-1 {
			c = 1
		}
	}
	out := T(res)
	return out, append(nz(out),
		FlagValue{FlagCarry, c == 1},
		FlagValue{FlagOverflow, overflow})
}

// compare computes r - v for CMP, CPX and CPY.
func compare[T word](r, v T) []FlagValue {
	return append(nz(r-v), FlagValue{FlagCarry, r >= v})
}

func and[T word](a, v T) (T, []FlagValue) {
	res := a & v
	return res, nz(res)
}

func ora[T word](a, v T) (T, []FlagValue) {
	res := a | v
	return res, nz(res)
}

func eor[T word](a, v T) (T, []FlagValue) {
	res := a ^ v
	return res, nz(res)
}

// asl shifts left, the top bit goes to carry.
func asl[T word](v T) (T, []FlagValue) {
	res := v << 1
	return res, append(nz(res), FlagValue{FlagCarry, v&signBit[T]() != 0})
}

// lsr shifts right, bit 0 goes to carry.
func lsr[T word](v T) (T, []FlagValue) {
	res := v >> 1
	return res, append(nz(res), FlagValue{FlagCarry, v&1 != 0})
}

// rol rotates left through carry.
func rol[T word](v T, carry bool) (T, []FlagValue) {
	res := v<<1 | T(carryOf(carry))
	return res, append(nz(res), FlagValue{FlagCarry, v&signBit[T]() != 0})
}

// ror rotates right through carry.
func ror[T word](v T, carry bool) (T, []FlagValue) {
	res := v >> 1
	if carry {
		res |= signBit[T]()
	}
	return res, append(nz(res), FlagValue{FlagCarry, v&1 != 0})
}

func increment[T word](v T) (T, []FlagValue) {
	res := v + 1
	return res, nz(res)
}

func decrement[T word](v T) (T, []FlagValue) {
	res := v - 1
	return res, nz(res)
}

// bitTest implements BIT, the immediate form only touches Z.
func bitTest[T word](a, v T, immediate bool) []FlagValue {
	z := FlagValue{FlagZero, a&v == 0}
	if immediate {
		return []FlagValue{z}
	}
	return []FlagValue{
		z,
		{FlagNegative, v&signBit[T]() != 0},
		{FlagOverflow, v&(signBit[T]()>>1) != 0},
	}
}

// testAndSet implements TSB, Z comes from a AND v before the update.
func testAndSet[T word](a, v T) (T, []FlagValue) {
	return v | a, []FlagValue{{FlagZero, a&v == 0}}
}

// testAndReset implements TRB.
func testAndReset[T word](a, v T) (T, []FlagValue) {
	return v &^ a, []FlagValue{{FlagZero, a&v == 0}}
}
