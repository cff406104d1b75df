package snes

import (
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"
)

const (
	loROMChunkSize   = 0x8000 // 32KiB per bank
	copierHeaderSize = 0x200
	loROMHeader      = 0x7FC0
	titleSize        = 21
)

// Cartridge is the game pak as the bus sees it.
type Cartridge interface {
	Load(path string) error
	Read(address uint32) byte
	Write(address uint32, data byte)
}

// LinearROM is the simplest mapper: the ROM is cut in 32KiB chunks placed at
// 0x8000-0xFFFF of consecutive banks, bank bit 7 is ignored.
// Any other address reads 0xFF. The internal header is not validated.
type LinearROM struct {
	rom []byte
}

// NewLinearROM creates a cartridge from a ROM image.
func NewLinearROM(data []byte) *LinearROM {
	c := &LinearROM{}
	c.setROM(data)
	return c
}

// setROM drops the 512 bytes header some copiers put in front of the image.
func (c *LinearROM) setROM(data []byte) {
	if len(data)%loROMChunkSize == copierHeaderSize {
		data = data[copierHeaderSize:]
	}
	c.rom = data
}

// Load reads a ROM image from a file.
func (c *LinearROM) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load ROM: %w", err)
	}
	c.setROM(data)
	glog.Infof("ROM loaded: path=%s, size=0x%x, title=%q\n", path, len(c.rom), c.Title())
	return nil
}

func (c *LinearROM) offset(address uint32) (int, bool) {
	bank := int(address>>16) & 0x7F
	a := int(address & 0xFFFF)
	if a < 0x8000 {
		return 0, false
	}
	i := bank*loROMChunkSize + a - 0x8000
	if i >= len(c.rom) {
		return 0, false
	}
	return i, true
}

func (c *LinearROM) Read(address uint32) byte {
	if i, ok := c.offset(address); ok {
		return c.rom[i]
	}
	return 0xFF
}

// Write is ignored, there's no RAM on this cartridge.
func (c *LinearROM) Write(address uint32, data byte) {
	glog.V(2).Infof("Ignored cartridge write: address=0x%06x, data=0x%02x\n", address, data)
}

// Title returns the game name of the internal header, or "" for a ROM too small to have one.
func (c *LinearROM) Title() string {
	if len(c.rom) < loROMHeader+titleSize {
		return ""
	}
	return strings.TrimRight(string(c.rom[loROMHeader:loROMHeader+titleSize]), " \x00")
}
