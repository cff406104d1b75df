package snes

import "github.com/golang/glog"

// Screen geometry in dots and scanlines, 1 dot is 4 master clocks and
// 1 CPU cycle is counted as 6 master clocks.
const (
	dotsPerScanline     = 341
	scanlinesPerFrame   = 262
	vblankScanline      = 225
	hblankDot           = 274
	masterClocksPerDot  = 4
	masterClocksPerStep = 6
)

const (
	vramWords  = 0x8000 // 64KiB
	oamSize    = 544
	cgramSize  = 512
	ppuVersion = 0x01
)

// PPU holds the picture processor's registers, memories and the dot counter.
// Nothing is rendered, programs only see the ports and the timing.
//
// References:
//   https://wiki.superfamicom.org/registers
//   https://snes.nesdev.org/wiki/PPU_registers
type PPU struct {
	// Write only registers are stored as written, 0x2100-0x213F.
	regs [0x40]byte

	vram  [vramWords]uint16
	oam   [oamSize]byte
	cgram [cgramSize]byte

	// VMAIN $2115, VMADD $2116/$2117 and the read prefetch for $2139/$213A.
	vmain     byte
	vramAddr  uint16
	vramLatch uint16

	// OAMADD $2102/$2103, byte address, and the low table write buffer.
	oamAddr  uint16
	oamLatch byte

	// CGADD $2121, byte address, and the write buffer for $2122.
	cgAddr  uint16
	cgLatch byte

	// M7A $211B written twice, M7B $211C, product read at $2134-$2136.
	m7Prev  byte
	m7A     int16
	product int32

	// Counters latched by $2137 and the flip-flops of $213C/$213D.
	latchedH, latchedV uint16
	latched            bool
	hFlip, vFlip       bool

	// master clocks not yet converted to a dot.
	clock    int
	dot      int
	scanline int
	frame    uint64
}

// NewPPU creates a PPU.
func NewPPU() *PPU {
	p := &PPU{}
	p.Reset()
	return p
}

func (p *PPU) Reset() {
	p.clock = 0
	p.dot = 0
	p.scanline = 0
}

// Tick advances the counters by cycles CPU cycles and reports whether
// vertical blanking started.
func (p *PPU) Tick(cycles int) bool {
	vblank := false
	p.clock += cycles * masterClocksPerStep
	for p.clock >= masterClocksPerDot {
		p.clock -= masterClocksPerDot
		p.dot++
		if p.dot < dotsPerScanline {
			continue
		}
		p.dot = 0
		p.scanline++
		switch p.scanline {
		case vblankScanline:
			vblank = true
		case scanlinesPerFrame:
			p.scanline = 0
			p.frame++
			glog.V(2).Infof("PPU frame %d\n", p.frame)
		}
	}
	return vblank
}

// Scanline returns the current scanline.
func (p *PPU) Scanline() int {
	return p.scanline
}

// Dot returns the current horizontal position.
func (p *PPU) Dot() int {
	return p.dot
}

// Frame returns the number of frames completed.
func (p *PPU) Frame() uint64 {
	return p.frame
}

// InVBlank reports whether the beam is in vertical blanking.
func (p *PPU) InVBlank() bool {
	return p.scanline >= vblankScanline
}

// InHBlank reports whether the beam is in horizontal blanking.
func (p *PPU) InHBlank() bool {
	return p.dot < 1 || p.dot >= hblankDot
}

func (p *PPU) vramStep() uint16 {
	switch p.vmain & 3 {
	case 0:
		return 1
	case 1:
		return 32
	}
	return 128
}

// incrementOnHigh reports whether VRAM access increments after the high byte.
func (p *PPU) incrementOnHigh() bool {
	return p.vmain&0x80 != 0
}

func (p *PPU) prefetch() {
	p.vramLatch = p.vram[p.vramAddr&(vramWords-1)]
}

// write writes a register at 0x2100+reg.
func (p *PPU) write(reg byte, data byte) {
	p.regs[reg&0x3F] = data
	switch reg {
	case 0x02: // OAMADDL
		p.oamAddr = p.oamAddr&0x200 | uint16(data)<<1
	case 0x03: // OAMADDH
		p.oamAddr = uint16(data&1)<<9 | p.oamAddr&0x1FE
	case 0x04: // OAMDATA
		p.writeOAM(data)
	case 0x15: // VMAIN
		p.vmain = data
	case 0x16: // VMADDL
		p.vramAddr = p.vramAddr&0xFF00 | uint16(data)
		p.prefetch()
	case 0x17: // VMADDH
		p.vramAddr = uint16(data)<<8 | p.vramAddr&0x00FF
		p.prefetch()
	case 0x18: // VMDATAL
		a := p.vramAddr & (vramWords - 1)
		p.vram[a] = p.vram[a]&0xFF00 | uint16(data)
		if !p.incrementOnHigh() {
			p.vramAddr += p.vramStep()
		}
	case 0x19: // VMDATAH
		a := p.vramAddr & (vramWords - 1)
		p.vram[a] = uint16(data)<<8 | p.vram[a]&0x00FF
		if p.incrementOnHigh() {
			p.vramAddr += p.vramStep()
		}
	case 0x1B: // M7A
		p.m7A = int16(uint16(data)<<8 | uint16(p.m7Prev))
		p.m7Prev = data
	case 0x1C: // M7B
		p.product = int32(p.m7A) * int32(int8(data))
		p.m7Prev = data
	case 0x21: // CGADD
		p.cgAddr = uint16(data) << 1
	case 0x22: // CGDATA
		p.writeCGRAM(data)
	default:
		glog.V(2).Infof("PPU register write: address=0x21%02x, data=0x%02x\n", reg, data)
	}
}

// writeOAM writes $2104. The low table is written a word at a time,
// the even byte waits in a latch for the odd one.
func (p *PPU) writeOAM(data byte) {
	a := p.oamAddr
	if a < 0x200 {
		if a&1 == 0 {
			p.oamLatch = data
		} else {
			p.oam[a-1] = p.oamLatch
			p.oam[a] = data
		}
	} else {
		p.oam[0x200|a&0x1F] = data
	}
	p.oamAddr = (a + 1) & 0x3FF
}

// writeCGRAM writes $2122, colors are 15 bits so the high byte drops bit 7.
func (p *PPU) writeCGRAM(data byte) {
	a := p.cgAddr
	if a&1 == 0 {
		p.cgLatch = data
	} else {
		p.cgram[a-1] = p.cgLatch
		p.cgram[a] = data & 0x7F
	}
	p.cgAddr = (a + 1) & (cgramSize - 1)
}

func (p *PPU) oamIndex() int {
	if p.oamAddr < 0x200 {
		return int(p.oamAddr)
	}
	return 0x200 | int(p.oamAddr&0x1F)
}

// read reads a register at 0x2100+reg, ok is false for a write only register.
func (p *PPU) read(reg byte) (byte, bool) {
	if reg == 0x37 { // SLHV, latches the counters and reads open bus
		p.latchedH = uint16(p.dot)
		p.latchedV = uint16(p.scanline)
		p.latched = true
		return 0, false
	}
	data, ok := p.peek(reg)
	if !ok {
		return 0, false
	}
	switch reg {
	case 0x38: // RDOAM
		p.oamAddr = (p.oamAddr + 1) & 0x3FF
	case 0x39: // RDVRAML
		if !p.incrementOnHigh() {
			p.prefetch()
			p.vramAddr += p.vramStep()
		}
	case 0x3A: // RDVRAMH
		if p.incrementOnHigh() {
			p.prefetch()
			p.vramAddr += p.vramStep()
		}
	case 0x3B: // RDCGRAM
		p.cgAddr = (p.cgAddr + 1) & (cgramSize - 1)
	case 0x3C: // OPHCT
		p.hFlip = !p.hFlip
	case 0x3D: // OPVCT
		p.vFlip = !p.vFlip
	case 0x3F: // STAT78
		p.hFlip = false
		p.vFlip = false
		p.latched = false
	}
	return data, true
}

// peek is read without side effects.
func (p *PPU) peek(reg byte) (byte, bool) {
	switch reg {
	case 0x34: // MPYL
		return byte(p.product), true
	case 0x35: // MPYM
		return byte(p.product >> 8), true
	case 0x36: // MPYH
		return byte(p.product >> 16), true
	case 0x37: // SLHV, reads open bus
		return 0, false
	case 0x38: // RDOAM
		return p.oam[p.oamIndex()], true
	case 0x39: // RDVRAML
		return byte(p.vramLatch), true
	case 0x3A: // RDVRAMH
		return byte(p.vramLatch >> 8), true
	case 0x3B: // RDCGRAM
		return p.cgram[p.cgAddr], true
	case 0x3C: // OPHCT
		return counterByte(p.latchedH, p.hFlip), true
	case 0x3D: // OPVCT
		return counterByte(p.latchedV, p.vFlip), true
	case 0x3E: // STAT77
		return ppuVersion, true
	case 0x3F: // STAT78
		var s byte = 0x03
		if p.latched {
			s |= 0x40
		}
		if p.frame&1 == 1 {
			s |= 0x80
		}
		return s, true
	}
	return 0, false
}

// counterByte returns the low byte of a 9-bit counter, or bit 8 on the second read.
func counterByte(v uint16, high bool) byte {
	if high {
		return byte(v>>8) & 1
	}
	return byte(v)
}
