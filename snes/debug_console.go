package snes

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"github.com/fatih/color"
)

// DebugConsole is a console for debugging, you can execute some commands through stdio.
// Inspection never changes the machine, it reads with ReadExternal.
// commands:
//   s [n]:
//     execute n ticks, 1 by default. "nd" prints the registers after each tick.
//   p [c|ppu|dma|stack|wram ADDR]:
//     print.
//   d [n]:
//     disassemble n instructions from PC.
//   br ADDR:
//     set a break point, ADDR is 24 bits like 0x008000.
//   memviz FILE:
//     write the registers and the DMA channels as a Graphviz graph.
//   r:
//     reset.
//   q:
//     quit.
type DebugConsole struct {
	*Console
	out         io.Writer
	breakpoints []uint32
}

var stepRe = regexp.MustCompile("^([0-9]+)(d?)$")

func NewDebugConsole(console *Console, out io.Writer) *DebugConsole {
	return &DebugConsole{Console: console, out: out}
}

func (c *DebugConsole) header(format string, a ...interface{}) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintln(c.out, yellow(fmt.Sprintf(format, a...)))
}

func (c *DebugConsole) basePrint() {
	r := c.CPU.Registers()
	fmt.Fprintln(c.out, "--------------------------------------------------")
	fmt.Fprintf(c.out, "Executed cycles: %d\n", c.Cycles())
	fmt.Fprintf(c.out, "Next: %s\n", Dispatch(c.Bus.ReadExternal(r.PCAddress())).Mnemonic(r, c.Bus))
	fmt.Fprintf(c.out, "CPU: %s\n", r)
	fmt.Fprintf(c.out, "PPU: frame=%d, scanline=%d, dot=%d\n", c.PPU.Frame(), c.PPU.Scanline(), c.PPU.Dot())
}

func (c *DebugConsole) printStack() {
	sp := uint32(c.CPU.Registers().SP)
	for i := uint32(1); i <= 16; i++ {
		a := (sp + i) & 0xFFFF
		fmt.Fprintf(c.out, "0x%04x: 0x%02x\n", a, c.Bus.ReadExternal(a))
	}
}

func (c *DebugConsole) printMemory(address uint32) {
	for row := uint32(0); row < 4; row++ {
		base := (address + row*16) & 0xFFFFFF
		fmt.Fprintf(c.out, "%06X:", base)
		for i := uint32(0); i < 16; i++ {
			fmt.Fprintf(c.out, " %02X", c.Bus.ReadExternal((base+i)&0xFFFFFF))
		}
		fmt.Fprintln(c.out)
	}
}

func (c *DebugConsole) printDMA() {
	for i, ch := range c.DMA.channels {
		regs := c.Bus.io.dma[i]
		fmt.Fprintf(c.out, "channel %d: active=%v, regs=% X\n", i, ch.active, regs[:])
	}
}

func (c *DebugConsole) printCommand(args []string) {
	if len(args) < 2 {
		c.basePrint()
		return
	}
	switch args[1] {
	case "c", "cpu":
		fmt.Fprintf(c.out, "%s\n", c.CPU.Registers())
	case "p", "ppu":
		fmt.Fprintf(c.out, "frame=%d, scanline=%d, dot=%d, vblank=%v\n",
			c.PPU.Frame(), c.PPU.Scanline(), c.PPU.Dot(), c.PPU.InVBlank())
	case "dma":
		c.printDMA()
	case "s", "stack":
		c.printStack()
	case "m", "wram":
		var address uint32 = 0x7E0000
		if len(args) > 2 {
			fmt.Sscanf(args[2], "0x%x", &address)
		}
		c.printMemory(address)
	}
}

// disassemble lists n instructions from PC, assuming the current widths hold.
func (c *DebugConsole) disassemble(n int) {
	r := *c.CPU.Registers()
	for i := 0; i < n; i++ {
		ins := Dispatch(c.Bus.ReadExternal(r.PCAddress()))
		size, _ := timing(&ins, &r, false)
		fmt.Fprintf(c.out, "%06X  %s\n", r.PCAddress(), ins.Mnemonic(&r, c.Bus))
		r.IncrementPC(size)
	}
}

func (c *DebugConsole) checkBreak() bool {
	pc := c.CPU.Registers().PCAddress()
	for _, b := range c.breakpoints {
		if b == pc {
			c.header("Break at: 0x%06x", b)
			return true
		}
	}
	return false
}

func (c *DebugConsole) stepCommand(args []string) int {
	num, verbose := 1, false
	if len(args) > 1 {
		m := stepRe.FindStringSubmatch(args[1])
		if m == nil {
			fmt.Fprintf(c.out, "Unknown step count %q\n", args[1])
			return 0
		}
		num, _ = strconv.Atoi(m[1])
		verbose = m[2] == "d"
	}
	cycles := 0
	for i := 0; i < num; i++ {
		cycles += c.Tick()
		if verbose {
			c.basePrint()
		}
		if c.checkBreak() {
			break
		}
	}
	return cycles
}

func (c *DebugConsole) breakPointCommand(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("br needs an address")
	}
	var a uint32
	if _, err := fmt.Sscanf(args[1], "0x%x", &a); err != nil {
		return fmt.Errorf("bad break point %q: %w", args[1], err)
	}
	c.breakpoints = append(c.breakpoints, a&0xFFFFFF)
	c.header("Break point set: 0x%06x", a&0xFFFFFF)
	return nil
}

func (c *DebugConsole) memvizCommand(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("memviz needs a file name")
	}
	f, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", args[1], err)
	}
	defer f.Close()
	memviz.Map(f, c.CPU.Registers(), c.DMA)
	c.header("Wrote %s", args[1])
	return nil
}

// Execute runs one command line, it returns true when the command is quit.
func (c *DebugConsole) Execute(line string) (bool, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false, nil
	}
	switch args[0] {
	case "p", "print":
		c.printCommand(args)
	case "s", "step":
		cycles := c.stepCommand(args)
		c.basePrint()
		fmt.Fprintf(c.out, "Executed %d CPU cycles.\n", cycles)
	case "d", "disassemble":
		n := 8
		if len(args) > 1 {
			if v, err := strconv.Atoi(args[1]); err == nil {
				n = v
			}
		}
		c.disassemble(n)
	case "br", "breakpoint":
		return false, c.breakPointCommand(args)
	case "memviz":
		return false, c.memvizCommand(args)
	case "r", "reset":
		c.Reset()
		c.header("Reset.")
	case "q", "quit":
		c.header("Quitting.")
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q", line)
	}
	return false, nil
}

// Run reads commands from in until quit or the end of the input.
func (c *DebugConsole) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(c.out, "Debugger mode, 'q' to quit \n>> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		quit, err := c.Execute(scanner.Text())
		if err != nil {
			red := color.New(color.FgRed).SprintFunc()
			fmt.Fprintln(c.out, red(err.Error()))
		}
		if quit {
			return nil
		}
	}
}
