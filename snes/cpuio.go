package snes

import "github.com/golang/glog"

// cpuVersion is reported in the low bits of RDNMI.
const cpuVersion = 0x02

// NMITIMEN bits.
const (
	autoJoypadRead = 0x01
	hIRQEnable     = 0x10
	vIRQEnable     = 0x20
	nmiEnable      = 0x80
)

// CPUIO is the block of internal registers at 0x4200-0x43FF: interrupt
// control, the multiplier and divider, joypad auto read results and the
// DMA channel registers.
// Reference: https://wiki.superfamicom.org/registers
type CPUIO struct {
	nmitimen byte
	wrio     byte
	wrmpya   byte
	wrdiv    uint16
	rddiv    uint16
	rdmpy    uint16
	htime    uint16
	vtime    uint16
	mdmaen   byte
	hdmaen   byte
	memsel   byte

	nmiFlag bool // RDNMI bit 7, set at vblank, cleared by reading
	timeUp  bool // TIMEUP bit 7, set by the H/V timer, cleared by reading

	joy [4]uint16

	// dma holds 0x43x0-0x43xB of each channel, 0x43xF mirrors 0x43xB.
	dma [8][12]byte

	// dmaRequest is the MDMAEN value waiting for the core to start it.
	dmaRequest byte
}

func NewCPUIO() *CPUIO {
	return &CPUIO{}
}

// dmaRegister maps 0x43xN to a channel and its register, 0xC-0xE are unused.
func dmaRegister(address uint16) (int, int, bool) {
	ch := int(address>>4) & 0x07
	reg := int(address & 0x0F)
	if address >= 0x4380 {
		return 0, 0, false
	}
	switch {
	case reg == 0x0F:
		return ch, 0x0B, true
	case reg < 0x0C:
		return ch, reg, true
	}
	return 0, 0, false
}

// write writes an internal register.
func (io *CPUIO) write(address uint16, data byte) {
	if address >= 0x4300 {
		if ch, reg, ok := dmaRegister(address); ok {
			io.dma[ch][reg] = data
			return
		}
		glog.V(2).Infof("Unmapped internal register write: address=0x%04x, data=0x%02x\n", address, data)
		return
	}
	switch address {
	case 0x4200: // NMITIMEN
		io.nmitimen = data
	case 0x4201: // WRIO
		io.wrio = data
	case 0x4202: // WRMPYA
		io.wrmpya = data
	case 0x4203: // WRMPYB
		io.rdmpy = uint16(io.wrmpya) * uint16(data)
	case 0x4204: // WRDIVL
		io.wrdiv = io.wrdiv&0xFF00 | uint16(data)
	case 0x4205: // WRDIVH
		io.wrdiv = uint16(data)<<8 | io.wrdiv&0x00FF
	case 0x4206: // WRDIVB
		if data == 0 {
			io.rddiv = 0xFFFF
			io.rdmpy = io.wrdiv
		} else {
			io.rddiv = io.wrdiv / uint16(data)
			io.rdmpy = io.wrdiv % uint16(data)
		}
	case 0x4207: // HTIMEL
		io.htime = io.htime&0x100 | uint16(data)
	case 0x4208: // HTIMEH
		io.htime = uint16(data&1)<<8 | io.htime&0xFF
	case 0x4209: // VTIMEL
		io.vtime = io.vtime&0x100 | uint16(data)
	case 0x420A: // VTIMEH
		io.vtime = uint16(data&1)<<8 | io.vtime&0xFF
	case 0x420B: // MDMAEN
		io.mdmaen = data
		io.dmaRequest = data
	case 0x420C: // HDMAEN
		io.hdmaen = data
	case 0x420D: // MEMSEL
		io.memsel = data
	default:
		glog.V(2).Infof("Unmapped internal register write: address=0x%04x, data=0x%02x\n", address, data)
	}
}

// read reads an internal register. ok is false for write only and unmapped
// registers, the bus returns open bus for them. status carries the HVBJOY bits.
func (io *CPUIO) read(address uint16, status byte) (byte, bool) {
	data, ok := io.peek(address, status)
	switch address {
	case 0x4210:
		io.nmiFlag = false
	case 0x4211:
		io.timeUp = false
	}
	return data, ok
}

// peek is read without side effects.
func (io *CPUIO) peek(address uint16, status byte) (byte, bool) {
	if address >= 0x4300 {
		if ch, reg, ok := dmaRegister(address); ok {
			return io.dma[ch][reg], true
		}
		return 0, false
	}
	switch address {
	case 0x4210: // RDNMI
		var d byte = cpuVersion
		if io.nmiFlag {
			d |= 0x80
		}
		return d, true
	case 0x4211: // TIMEUP
		if io.timeUp {
			return 0x80, true
		}
		return 0, true
	case 0x4212: // HVBJOY
		return status, true
	case 0x4213: // RDIO
		return io.wrio, true
	case 0x4214: // RDDIVL
		return byte(io.rddiv), true
	case 0x4215: // RDDIVH
		return byte(io.rddiv >> 8), true
	case 0x4216: // RDMPYL
		return byte(io.rdmpy), true
	case 0x4217: // RDMPYH
		return byte(io.rdmpy >> 8), true
	}
	if address >= 0x4218 && address <= 0x421F { // JOY1L-JOY4H
		i := (address - 0x4218) / 2
		if address&1 == 0 {
			return byte(io.joy[i]), true
		}
		return byte(io.joy[i] >> 8), true
	}
	return 0, false
}

// takeDMARequest returns the channels MDMAEN asked for since the last call.
func (io *CPUIO) takeDMARequest() byte {
	r := io.dmaRequest
	io.dmaRequest = 0
	return r
}

func (io *CPUIO) nmiEnabled() bool {
	return io.nmitimen&nmiEnable != 0
}
