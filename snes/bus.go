package snes

import "github.com/golang/glog"

// Region is a device on the CPU bus.
type Region int

const (
	RegionWRAM Region = iota
	RegionPPU
	RegionAPU
	RegionWRAMPort
	RegionJoypad
	RegionInternal
	RegionCartridge
	RegionOpenBus
)

func (r Region) String() string {
	switch r {
	case RegionWRAM:
		return "WRAM"
	case RegionPPU:
		return "PPU"
	case RegionAPU:
		return "APU"
	case RegionWRAMPort:
		return "WRAM port"
	case RegionJoypad:
		return "joypad"
	case RegionInternal:
		return "internal"
	case RegionCartridge:
		return "cartridge"
	}
	return "open bus"
}

// MapAddress decodes a 24-bit address to the device serving it and the
// offset inside that device. Every address maps to exactly one region.
// Bus memory map, banks 0x00-0x3F and 0x80-0xBF
// 0x0000 - 0x1FFF	WRAM, first 8KiB
// 0x2100 - 0x213F	PPU registers
// 0x2140 - 0x217F	APU ports, 4 ports mirrored
// 0x2180 - 0x2183	WRAM data port
// 0x2184 - 0x21FF	Nothing, open bus
// 0x4016 - 0x4017	Joypad serial ports
// 0x4200 - 0x43FF	Internal registers and DMA
// Others			Cartridge
// Banks 0x7E-0x7F are WRAM, the other banks belong to the cartridge.
func MapAddress(address uint32) (Region, uint32) {
	address &= 0xFFFFFF
	bank := address >> 16
	a := address & 0xFFFF
	if bank == 0x7E || bank == 0x7F {
		return RegionWRAM, address - 0x7E0000
	}
	if bank&0x7F >= 0x40 {
		return RegionCartridge, address
	}
	switch {
	case a < 0x2000:
		return RegionWRAM, a
	case a < 0x2100:
		return RegionCartridge, address
	case a < 0x2140:
		return RegionPPU, a - 0x2100
	case a < 0x2180:
		return RegionAPU, a & 0x03
	case a < 0x2184:
		return RegionWRAMPort, a - 0x2180
	case a < 0x2200:
		return RegionOpenBus, a
	case a == 0x4016 || a == 0x4017:
		return RegionJoypad, a - 0x4016
	case a >= 0x4200 && a < 0x4400:
		return RegionInternal, a
	}
	return RegionCartridge, address
}

// Bus connects the CPU and DMA to the memories and the register blocks.
// Reads of write only or unmapped registers return the last value on the data bus.
type Bus struct {
	wram      *RAM
	ppu       *PPU
	io        *CPUIO
	cartridge Cartridge
	joypads   [2]*Controller

	// apuPorts stand in for the sound CPU, which isn't emulated: reads
	// return the IPL ready signature until the program writes the port.
	apuPorts [4]byte
	// wramAddr is WMADD, 17 bits, advanced by each access to WMDATA.
	wramAddr uint32
	// mdr is the last value seen on the data bus.
	mdr byte
}

// NewBus creates a Bus.
func NewBus(wram *RAM, ppu *PPU, io *CPUIO, cartridge Cartridge, joypad1, joypad2 *Controller) *Bus {
	return &Bus{
		wram:      wram,
		ppu:       ppu,
		io:        io,
		cartridge: cartridge,
		joypads:   [2]*Controller{joypad1, joypad2},
		apuPorts:  [4]byte{0xAA, 0xBB, 0x00, 0x00},
	}
}

// hvbjoy builds HVBJOY ($4212) from the beam position.
func (b *Bus) hvbjoy() byte {
	var s byte
	if b.ppu.InVBlank() {
		s |= 0x80
	}
	if b.ppu.InHBlank() {
		s |= 0x40
	}
	return s
}

// Read reads a byte with the side effects of the access.
func (b *Bus) Read(address uint32) byte {
	region, offset := MapAddress(address)
	data, ok := b.read(region, offset, address, false)
	if ok {
		b.mdr = data
		return data
	}
	glog.V(2).Infof("Open bus read: address=0x%06x, region=%s\n", address, region)
	return b.mdr
}

// ReadExternal reads a byte like the debugger does, nothing changes.
func (b *Bus) ReadExternal(address uint32) byte {
	region, offset := MapAddress(address)
	if data, ok := b.read(region, offset, address, true); ok {
		return data
	}
	return b.mdr
}

func (b *Bus) read(region Region, offset, address uint32, peek bool) (byte, bool) {
	switch region {
	case RegionWRAM:
		return b.wram.read(offset), true
	case RegionCartridge:
		return b.cartridge.Read(address), true
	case RegionPPU:
		if peek {
			return b.ppu.peek(byte(offset))
		}
		return b.ppu.read(byte(offset))
	case RegionAPU:
		return b.apuPorts[offset], true
	case RegionWRAMPort:
		if offset != 0 {
			return 0, false
		}
		data := b.wram.read(b.wramAddr)
		if !peek {
			b.wramAddr = (b.wramAddr + 1) % wramSize
		}
		return data, true
	case RegionJoypad:
		var bit byte
		if peek {
			bit = b.joypads[offset].peek()
		} else {
			bit = b.joypads[offset].read()
		}
		return b.mdr&0xFC | bit, true
	case RegionInternal:
		if peek {
			return b.io.peek(uint16(offset), b.hvbjoy())
		}
		return b.io.read(uint16(offset), b.hvbjoy())
	}
	return 0, false
}

// Write writes a byte.
func (b *Bus) Write(address uint32, data byte) {
	b.mdr = data
	region, offset := MapAddress(address)
	switch region {
	case RegionWRAM:
		b.wram.write(offset, data)
	case RegionCartridge:
		b.cartridge.Write(address, data)
	case RegionPPU:
		b.ppu.write(byte(offset), data)
	case RegionAPU:
		b.apuPorts[offset] = data
	case RegionWRAMPort:
		b.writeWRAMPort(offset, data)
	case RegionJoypad:
		// 0x4016 strobes both pads, 0x4017 isn't writable.
		if offset == 0 {
			b.joypads[0].write(data)
			b.joypads[1].write(data)
		}
	case RegionInternal:
		b.io.write(uint16(offset), data)
	default:
		glog.V(2).Infof("Unmapped bus write: address=0x%06x, data=0x%02x\n", address, data)
	}
}

// writeWRAMPort writes WMDATA ($2180) and WMADDL/M/H ($2181-$2183).
func (b *Bus) writeWRAMPort(offset uint32, data byte) {
	switch offset {
	case 0:
		b.wram.write(b.wramAddr, data)
		b.wramAddr = (b.wramAddr + 1) % wramSize
	case 1:
		b.wramAddr = b.wramAddr&0x1FF00 | uint32(data)
	case 2:
		b.wramAddr = b.wramAddr&0x100FF | uint32(data)<<8
	case 3:
		b.wramAddr = uint32(data&1)<<16 | b.wramAddr&0xFFFF
	}
}
