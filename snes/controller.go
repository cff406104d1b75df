package snes

// Reference:
//   https://wiki.superfamicom.org/controllers
//   https://snes.nesdev.org/wiki/Standard_controller

type button int

// Controller bit assignments as they are shifted out, 1 means pressed otherwise 0.
// read   0 1 2      3     4  5    6    7     8 9 10 11
// button B Y Select Start Up Down Left Right A X L  R
const (
	ButtonB button = iota
	ButtonY
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonA
	ButtonX
	ButtonL
	ButtonR
)

type Controller struct {
	buttons [12]bool
	index   byte
	strobe  byte
}

func NewController() *Controller {
	return &Controller{}
}

func (c *Controller) Set(buttons [12]bool) {
	c.buttons = buttons
}

// bit returns the serial bit at index i, after the 16 bits the pad reports 1.
func (c *Controller) bit(i byte) byte {
	switch {
	case i < 12:
		if c.buttons[i] {
			return 1
		}
		return 0
	case i < 16:
		return 0
	}
	return 1
}

func (c *Controller) read() byte {
	ret := c.bit(c.index)
	if c.strobe&1 == 1 {
		c.index = 0
	} else if c.index < 16 {
		c.index++
	}
	return ret
}

// peek is read without shifting.
func (c *Controller) peek() byte {
	return c.bit(c.index)
}

// write writes strobe.
// - strobe bit on - the pad reloads and reports only B on every read
// - strobe bit off - the pad shifts through all buttons
func (c *Controller) write(data byte) {
	c.strobe = data
	if c.strobe&1 == 1 {
		c.index = 0
	}
}

// state returns the pad as the automatic read latches it, B in bit 15.
func (c *Controller) state() uint16 {
	var s uint16
	for i, pressed := range c.buttons {
		if pressed {
			s |= 0x8000 >> i
		}
	}
	return s
}
