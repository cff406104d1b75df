package snes

import "github.com/golang/glog"

const dmaChannels = 8

// Register offsets inside a channel, 0x43x0-0x43xB.
const (
	dmaControl   = 0x0 // DMAPx
	dmaBAddress  = 0x1 // BBADx
	dmaAAddressL = 0x2 // A1TxL
	dmaAAddressH = 0x3 // A1TxH
	dmaABank     = 0x4 // A1Bx
	dmaCountL    = 0x5 // DASxL
	dmaCountH    = 0x6 // DASxH
)

// dmaStep is how the A-bus address moves after each byte.
type dmaStep int

const (
	stepIncrement dmaStep = iota
	stepFixed
	stepDecrement
)

// transferFormats lists the B-bus register offsets of each transfer mode,
// the pattern repeats until the count runs out. Modes 6 and 7 are 2 and 3 again.
var transferFormats = [8][]byte{
	{0},
	{0, 1},
	{0, 0},
	{0, 0, 1, 1},
	{0, 1, 2, 3},
	{0, 1, 0, 1},
	{0, 0},
	{0, 0, 1, 1},
}

// dmaChannel is one general purpose DMA channel as loaded from its registers.
type dmaChannel struct {
	bToA     bool // direction, B-bus to A-bus when set
	indirect bool // HDMA only, kept to be written back untouched
	step     dmaStep
	mode     byte
	bAddress byte
	aBank    byte
	aAddress uint16 // wraps inside aBank
	count    int    // bytes left, a register value of 0 means 65536
	index    int    // bytes moved so far, selects the format offset
	active   bool
}

// load builds the channel from the values of 0x43x0-0x43x6.
func (ch *dmaChannel) load(regs *[12]byte) {
	control := regs[dmaControl]
	ch.bToA = control&0x80 != 0
	ch.indirect = control&0x40 != 0
	switch {
	case control&0x08 != 0:
		ch.step = stepFixed
	case control&0x10 != 0:
		ch.step = stepDecrement
	default:
		ch.step = stepIncrement
	}
	ch.mode = control & 0x07
	ch.bAddress = regs[dmaBAddress]
	ch.aAddress = uint16(regs[dmaAAddressH])<<8 | uint16(regs[dmaAAddressL])
	ch.aBank = regs[dmaABank]
	ch.count = int(uint16(regs[dmaCountH])<<8 | uint16(regs[dmaCountL]))
	if ch.count == 0 {
		ch.count = 0x10000
	}
	ch.index = 0
	ch.active = true
}

// store writes the moving A-bus address and the count back to the registers.
func (ch *dmaChannel) store(regs *[12]byte) {
	regs[dmaAAddressL] = byte(ch.aAddress)
	regs[dmaAAddressH] = byte(ch.aAddress >> 8)
	count := uint16(ch.count)
	regs[dmaCountL] = byte(count)
	regs[dmaCountH] = byte(count >> 8)
}

func (ch *dmaChannel) aBusAddress() uint32 {
	return bankAddress(ch.aBank, ch.aAddress)
}

func (ch *dmaChannel) bBusAddress() uint32 {
	format := transferFormats[ch.mode]
	return 0x2100 | uint32(ch.bAddress+format[ch.index%len(format)])
}

// DMA is the general purpose DMA controller. While a channel is active the
// CPU is paused and the core moves one byte per tick.
// Reference: https://wiki.superfamicom.org/dma-and-hdma
type DMA struct {
	channels [dmaChannels]dmaChannel
}

func NewDMA() *DMA {
	return &DMA{}
}

// Start loads the channels selected by mask from the bus registers.
func (d *DMA) Start(bus *Bus, mask byte) {
	for i := 0; i < dmaChannels; i++ {
		if mask&(1<<i) == 0 {
			continue
		}
		ch := &d.channels[i]
		ch.load(&bus.io.dma[i])
		glog.Infof("DMA start: channel=%d, mode=%d, A=0x%06x, B=0x21%02x, count=%d, B to A=%v\n",
			i, ch.mode, ch.aBusAddress(), ch.bAddress, ch.count, ch.bToA)
	}
}

// Active reports whether a channel still has bytes to move.
func (d *DMA) Active() bool {
	for i := range d.channels {
		if d.channels[i].active {
			return true
		}
	}
	return false
}

// Tick moves one byte on the lowest numbered active channel and returns the cycles it took.
func (d *DMA) Tick(bus *Bus) int {
	for i := range d.channels {
		ch := &d.channels[i]
		if !ch.active {
			continue
		}
		a, b := ch.aBusAddress(), ch.bBusAddress()
		if ch.bToA {
			bus.Write(a, bus.Read(b))
		} else {
			bus.Write(b, bus.Read(a))
		}
		switch ch.step {
		case stepIncrement:
			ch.aAddress++
		case stepDecrement:
			ch.aAddress--
		}
		ch.index++
		ch.count--
		ch.store(&bus.io.dma[i])
		if ch.count == 0 {
			ch.active = false
			glog.Infof("DMA done: channel=%d\n", i)
		}
		return 1
	}
	return 0
}
