package snes

import "testing"

func TestMapAddress(t *testing.T) {
	for _, test := range []struct {
		address uint32
		region  Region
		offset  uint32
	}{
		{0x000000, RegionWRAM, 0x0000},
		{0x3F1FFF, RegionWRAM, 0x1FFF},
		{0x801234, RegionWRAM, 0x1234},
		{0x7E0000, RegionWRAM, 0x00000},
		{0x7F8000, RegionWRAM, 0x18000},
		{0x7FFFFF, RegionWRAM, 0x1FFFF},
		{0x002000, RegionCartridge, 0x002000},
		{0x002100, RegionPPU, 0x00},
		{0x80213F, RegionPPU, 0x3F},
		{0x002141, RegionAPU, 0x01},
		{0x00217F, RegionAPU, 0x03},
		{0x002180, RegionWRAMPort, 0x00},
		{0x002183, RegionWRAMPort, 0x03},
		{0x0021FF, RegionOpenBus, 0x21FF},
		{0x004016, RegionJoypad, 0x00},
		{0x004017, RegionJoypad, 0x01},
		{0x004200, RegionInternal, 0x4200},
		{0x8043FF, RegionInternal, 0x43FF},
		{0x004400, RegionCartridge, 0x004400},
		{0x008000, RegionCartridge, 0x008000},
		{0x400000, RegionCartridge, 0x400000},
		{0xC02100, RegionCartridge, 0xC02100},
		{0xFFFFFF, RegionCartridge, 0xFFFFFF},
	} {
		region, offset := MapAddress(test.address)
		if region != test.region || offset != test.offset {
			t.Errorf("MapAddress(0x%06x): got=(%s, 0x%x), want=(%s, 0x%x)",
				test.address, region, offset, test.region, test.offset)
		}
	}
}

// systemBankLayout is the offset layout of banks 0x00-0x3F and 0x80-0xBF.
var systemBankLayout = []struct {
	first, last uint32
	region      Region
}{
	{0x0000, 0x1FFF, RegionWRAM},
	{0x2000, 0x20FF, RegionCartridge},
	{0x2100, 0x213F, RegionPPU},
	{0x2140, 0x217F, RegionAPU},
	{0x2180, 0x2183, RegionWRAMPort},
	{0x2184, 0x21FF, RegionOpenBus},
	{0x2200, 0x4015, RegionCartridge},
	{0x4016, 0x4017, RegionJoypad},
	{0x4018, 0x41FF, RegionCartridge},
	{0x4200, 0x43FF, RegionInternal},
	{0x4400, 0xFFFF, RegionCartridge},
}

// expectedMapping applies the bank and offset rules of the memory map.
func expectedMapping(address uint32) (Region, uint32) {
	bank, a := address>>16, address&0xFFFF
	switch {
	case bank == 0x7E || bank == 0x7F:
		return RegionWRAM, address - 0x7E0000
	case bank&0x7F >= 0x40:
		return RegionCartridge, address
	}
	for _, r := range systemBankLayout {
		if a < r.first || a > r.last {
			continue
		}
		switch r.region {
		case RegionWRAM:
			return RegionWRAM, a
		case RegionPPU:
			return RegionPPU, a - 0x2100
		case RegionAPU:
			return RegionAPU, a & 0x03
		case RegionWRAMPort:
			return RegionWRAMPort, a - 0x2180
		case RegionJoypad:
			return RegionJoypad, a - 0x4016
		case RegionCartridge:
			return RegionCartridge, address
		}
		return r.region, a
	}
	panic("offset outside the system bank layout")
}

func TestSystemBankLayoutIsContiguous(t *testing.T) {
	next := uint32(0)
	for _, r := range systemBankLayout {
		if r.first != next || r.last < r.first {
			t.Fatalf("range 0x%04x-0x%04x: want it to start at 0x%04x", r.first, r.last, next)
		}
		next = r.last + 1
	}
	if next != 0x10000 {
		t.Errorf("layout ends at 0x%04x, want=0x10000", next)
	}
}

func TestMapAddressEveryBank(t *testing.T) {
	for bank := uint32(0); bank < 0x100; bank++ {
		for a := uint32(0); a < 0x10000; {
			address := bank<<16 | a
			wantRegion, wantOffset := expectedMapping(address)
			region, offset := MapAddress(address)
			if region != wantRegion || offset != wantOffset {
				t.Fatalf("MapAddress(0x%06x): got=(%s, 0x%x), want=(%s, 0x%x)",
					address, region, offset, wantRegion, wantOffset)
			}
			// every address of the register area, a coarse step elsewhere
			if a >= 0x2000 && a < 0x4400 {
				a++
			} else {
				a += 0x40
			}
		}
	}
}

func TestMapAddressWRAMBanks(t *testing.T) {
	for bank := uint32(0x7E); bank <= 0x7F; bank++ {
		for a := uint32(0); a < 0x10000; a += 0x80 {
			address := bank<<16 | a
			region, offset := MapAddress(address)
			if region != RegionWRAM || offset != address-0x7E0000 {
				t.Fatalf("MapAddress(0x%06x): got=(%s, 0x%x)", address, region, offset)
			}
		}
	}
}

func TestWRAMMirrors(t *testing.T) {
	b := newTestBus()
	b.Write(0x000000, 0x1F)
	for _, a := range []uint32{0x7E0000, 0x800000, 0x3F0000} {
		if got := b.Read(a); got != 0x1F {
			t.Errorf("Read(0x%06x): got=0x%02x, want=0x1f", a, got)
		}
	}
	b.Write(0x7E1FFF, 0x2A)
	if got := b.Read(0xBF1FFF); got != 0x2A {
		t.Errorf("Read(0xbf1fff): got=0x%02x, want=0x2a", got)
	}
	b.Write(0x7E2000, 0x3B)
	if got := b.Read(0x002000); got == 0x3B {
		t.Errorf("Read(0x002000): the first 8KiB mirror reached 0x7e2000")
	}
}

func TestWRAMPort(t *testing.T) {
	b := newTestBus()
	b.Write(0x002181, 0xFE)
	b.Write(0x002182, 0xFF)
	b.Write(0x002183, 0x01)
	b.Write(0x002180, 0xAB)
	b.Write(0x002180, 0xCD)
	b.Write(0x002180, 0xEF) // wraps to 0x7E0000
	for _, want := range []struct {
		address uint32
		data    byte
	}{{0x7FFFFE, 0xAB}, {0x7FFFFF, 0xCD}, {0x7E0000, 0xEF}} {
		if got := b.Read(want.address); got != want.data {
			t.Errorf("Read(0x%06x): got=0x%02x, want=0x%02x", want.address, got, want.data)
		}
	}
	b.Write(0x002181, 0xFF)
	b.Write(0x002182, 0xFF)
	b.Write(0x002183, 0x01)
	if got := b.ReadExternal(0x002180); got != 0xCD {
		t.Errorf("ReadExternal(WMDATA): got=0x%02x, want=0xcd", got)
	}
	if got := b.Read(0x002180); got != 0xCD {
		t.Errorf("Read(WMDATA): got=0x%02x, want=0xcd", got)
	}
	if got := b.Read(0x002180); got != 0xEF {
		t.Errorf("Read(WMDATA) after the increment: got=0x%02x, want=0xef", got)
	}
}

func TestMultiplyAndDivide(t *testing.T) {
	b := newTestBus()
	b.Write(0x004202, 0x12)
	b.Write(0x004203, 0x34)
	if got := uint16(b.Read(0x004217))<<8 | uint16(b.Read(0x004216)); got != 0x12*0x34 {
		t.Errorf("RDMPY: got=0x%04x, want=0x%04x", got, 0x12*0x34)
	}
	for _, test := range []struct {
		divisor   byte
		quotient  uint16
		remainder uint16
	}{
		{0x10, 0x0123, 0x0004},
		{0x00, 0xFFFF, 0x1234},
	} {
		b.Write(0x004204, 0x34)
		b.Write(0x004205, 0x12)
		b.Write(0x004206, test.divisor)
		q := uint16(b.Read(0x004215))<<8 | uint16(b.Read(0x004214))
		r := uint16(b.Read(0x004217))<<8 | uint16(b.Read(0x004216))
		if q != test.quotient || r != test.remainder {
			t.Errorf("0x1234/%d: got=0x%04x r 0x%04x, want=0x%04x r 0x%04x",
				test.divisor, q, r, test.quotient, test.remainder)
		}
	}
}

func TestRDNMIClearsOnRead(t *testing.T) {
	b := newTestBus()
	b.io.nmiFlag = true
	if got := b.ReadExternal(0x004210); got != 0x80|cpuVersion {
		t.Errorf("ReadExternal(RDNMI): got=0x%02x, want=0x%02x", got, 0x80|cpuVersion)
	}
	if got := b.Read(0x004210); got != 0x80|cpuVersion {
		t.Errorf("Read(RDNMI): got=0x%02x, want=0x%02x", got, 0x80|cpuVersion)
	}
	if got := b.Read(0x004210); got != cpuVersion {
		t.Errorf("Read(RDNMI) again: got=0x%02x, want=0x%02x", got, cpuVersion)
	}
}

func TestJoypadSerialRead(t *testing.T) {
	b := newTestBus()
	var buttons [12]bool
	buttons[ButtonB] = true
	buttons[ButtonRight] = true
	buttons[ButtonR] = true
	b.joypads[0].Set(buttons)
	b.Write(0x004016, 1)
	b.Write(0x004016, 0)
	for i := 0; i < 18; i++ {
		var want byte
		switch {
		case i < 12:
			if buttons[i] {
				want = 1
			}
		case i >= 16:
			want = 1
		}
		if got := b.Read(0x004016) & 1; got != want {
			t.Errorf("bit %d: got=%d, want=%d", i, got, want)
		}
	}
	// the second pad has nothing pressed.
	if got := b.Read(0x004017) & 1; got != 0 {
		t.Errorf("pad 2 bit 0: got=%d, want=0", got)
	}
}

func TestVRAMPort(t *testing.T) {
	b := newTestBus()
	b.Write(0x002115, 0x80) // increment after the high byte
	b.Write(0x002116, 0x00)
	b.Write(0x002117, 0x10)
	b.Write(0x002118, 0x34)
	b.Write(0x002119, 0x12)
	b.Write(0x002118, 0x78)
	b.Write(0x002119, 0x56)
	if got := b.ppu.vram[0x1000]; got != 0x1234 {
		t.Errorf("vram[0x1000]: got=0x%04x, want=0x1234", got)
	}
	if got := b.ppu.vram[0x1001]; got != 0x5678 {
		t.Errorf("vram[0x1001]: got=0x%04x, want=0x5678", got)
	}
	b.Write(0x002116, 0x01)
	b.Write(0x002117, 0x10)
	if got := b.Read(0x002139); got != 0x78 {
		t.Errorf("RDVRAML: got=0x%02x, want=0x78", got)
	}
	if got := b.Read(0x00213A); got != 0x56 {
		t.Errorf("RDVRAMH: got=0x%02x, want=0x56", got)
	}
}

func TestCGRAMPort(t *testing.T) {
	b := newTestBus()
	b.Write(0x002121, 0x02)
	b.Write(0x002122, 0xFF)
	b.Write(0x002122, 0xFF)
	if b.ppu.cgram[4] != 0xFF || b.ppu.cgram[5] != 0x7F {
		t.Errorf("cgram[4:6]: got=% x, want=ff 7f", b.ppu.cgram[4:6])
	}
	b.Write(0x002121, 0x02)
	if got := b.Read(0x00213B); got != 0xFF {
		t.Errorf("RDCGRAM low: got=0x%02x, want=0xff", got)
	}
	if got := b.Read(0x00213B); got != 0x7F {
		t.Errorf("RDCGRAM high: got=0x%02x, want=0x7f", got)
	}
}

func TestMode7Multiply(t *testing.T) {
	b := newTestBus()
	b.Write(0x00211B, 0x00)
	b.Write(0x00211B, 0x01) // M7A = 0x0100
	b.Write(0x00211C, 0xFE) // -2
	want := []byte{0x00, 0xFE, 0xFF}
	for i, w := range want {
		if got := b.Read(0x002134 + uint32(i)); got != w {
			t.Errorf("MPY byte %d: got=0x%02x, want=0x%02x", i, got, w)
		}
	}
}

func TestCounterLatch(t *testing.T) {
	b := newTestBus()
	b.ppu.Tick(100) // 600 master clocks, dot 150
	b.Read(0x002137)
	if got := b.Read(0x00213C); got != 150 {
		t.Errorf("OPHCT low: got=%d, want=150", got)
	}
	if got := b.Read(0x00213C); got != 0 {
		t.Errorf("OPHCT high: got=%d, want=0", got)
	}
	if got := b.Read(0x00213F); got&0x40 == 0 {
		t.Errorf("STAT78: got=0x%02x, want the latch bit", got)
	}
	if got := b.ReadExternal(0x00213F); got&0x40 != 0 {
		t.Errorf("STAT78 after a read: got=0x%02x, want the latch bit cleared", got)
	}
}

func TestOpenBus(t *testing.T) {
	b := newTestBus()
	b.Write(0x000010, 0x5A)
	b.Read(0x000010)
	// INIDISP is write only, 0x21FF is unmapped and 0x430C is an unused DMA register.
	for _, a := range []uint32{0x002100, 0x0021FF, 0x00430C} {
		if got := b.Read(a); got != 0x5A {
			t.Errorf("Read(0x%06x): got=0x%02x, want=0x5a", a, got)
		}
	}
}

func TestAPUPorts(t *testing.T) {
	b := newTestBus()
	if got := b.Read(0x002140); got != 0xAA {
		t.Errorf("APUIO0: got=0x%02x, want=0xaa", got)
	}
	if got := b.Read(0x002145); got != 0xBB {
		t.Errorf("APUIO1 mirror: got=0x%02x, want=0xbb", got)
	}
	b.Write(0x002140, 0xCC)
	if got := b.Read(0x002144); got != 0xCC {
		t.Errorf("APUIO0 after a write: got=0x%02x, want=0xcc", got)
	}
}

func TestDMARegisterMirror(t *testing.T) {
	b := newTestBus()
	b.Write(0x00431B, 0x77)
	if got := b.Read(0x00431F); got != 0x77 {
		t.Errorf("0x431f: got=0x%02x, want=0x77", got)
	}
	b.Write(0x00437F, 0x66)
	if got := b.Read(0x00437B); got != 0x66 {
		t.Errorf("0x437b: got=0x%02x, want=0x66", got)
	}
}
