package snes

import "testing"

func TestInstructionTableIsComplete(t *testing.T) {
	for op := 0; op < 0x100; op++ {
		ins := instructions[op]
		if ins.execute == nil || ins.Name == "" {
			t.Errorf("opcode 0x%02x: not implemented", op)
			continue
		}
		if int(ins.Opcode) != op {
			t.Errorf("opcode 0x%02x: table entry says 0x%02x", op, ins.Opcode)
		}
		if ins.cycles < 2 {
			t.Errorf("%s (0x%02x): base cycles got=%d", ins.Name, op, ins.cycles)
		}
	}
}

func TestDispatchPanicsOnEmptySlot(t *testing.T) {
	saved := instructions[0xEA]
	defer func() {
		instructions[0xEA] = saved
		if recover() == nil {
			t.Errorf("Dispatch of an empty slot: got no panic")
		}
	}()
	instructions[0xEA] = Instruction{}
	Dispatch(0xEA)
}

func TestSpecialize(t *testing.T) {
	r := NewRegisters()
	adc := Dispatch(0x69)
	lda := Dispatch(0xA9)
	if got := adc.specialize(r); got != variant8 {
		t.Errorf("ADC emulation: got=%d, want=%d", got, variant8)
	}
	r.SetFlag(FlagDecimal, true)
	if got := adc.specialize(r); got != variant8Decimal {
		t.Errorf("ADC decimal: got=%d, want=%d", got, variant8Decimal)
	}
	if got := lda.specialize(r); got != variant8 {
		t.Errorf("LDA ignores D: got=%d, want=%d", got, variant8)
	}
	r.SetEmulation(false)
	r.SetFlag(FlagMemoryWidth, false)
	if got := adc.specialize(r); got != variant16Decimal {
		t.Errorf("ADC 16-bit decimal: got=%d, want=%d", got, variant16Decimal)
	}
	r.SetFlag(FlagDecimal, false)
	if got := adc.specialize(r); got != variant16 {
		t.Errorf("ADC 16-bit: got=%d, want=%d", got, variant16)
	}
}

func TestMnemonic(t *testing.T) {
	for _, test := range []struct {
		name    string
		program []byte
		m       bool // 16-bit accumulator
		want    string
	}{
		{"LDA #", []byte{0xA9, 0x34, 0x12}, false, "LDA #$34"},
		{"LDA # 16-bit", []byte{0xA9, 0x34, 0x12}, true, "LDA #$1234"},
		{"STA long,X", []byte{0x9F, 0x00, 0x20, 0x7E}, false, "STA $7E2000,X"},
		{"LDA (dp),Y", []byte{0xB1, 0x10}, false, "LDA ($10),Y"},
		{"LDA (sr,S),Y", []byte{0xB3, 0x03}, false, "LDA ($03,S),Y"},
		{"JML [abs]", []byte{0xDC, 0x00, 0x10}, false, "JML [$1000]"},
		{"PEI", []byte{0xD4, 0x21}, false, "PEI ($21)"},
		{"MVN", []byte{0x54, 0x7E, 0x01}, false, "MVN $01,$7E"},
		{"BRA back", []byte{0x80, 0xFE}, false, "BRA $8000"},
		{"BRL", []byte{0x82, 0x00, 0x10}, false, "BRL $9003"},
		{"ASL A", []byte{0x0A}, false, "ASL A"},
		{"NOP", []byte{0xEA}, false, "NOP"},
	} {
		c, mem := createTestCPU(test.program...)
		if test.m {
			native(c, 0x10)
		}
		ins := Dispatch(mem.ReadExternal(c.reg.PCAddress()))
		if got := ins.Mnemonic(c.reg, mem); got != test.want {
			t.Errorf("%s: got=%q, want=%q", test.name, got, test.want)
		}
	}
}
