// Package conformance runs single instruction test cases against the
// processor. A case gives the registers and the memory before one
// instruction and what they must be after it, in the JSON layout of the
// public 65816 processor test suites.
package conformance

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/jyane/jsnes/snes"
)

// RAMEntry is an [address, value] pair.
type RAMEntry struct {
	Address uint32
	Value   byte
}

func (r *RAMEntry) UnmarshalJSON(data []byte) error {
	var raw [2]uint64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Address = uint32(raw[0]) & 0xFFFFFF
	r.Value = byte(raw[1])
	return nil
}

func (r RAMEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]uint32{r.Address, uint32(r.Value)})
}

// State is the processor and the memory it touches.
type State struct {
	PC  uint16     `json:"pc"`
	S   uint16     `json:"s"`
	P   byte       `json:"p"`
	A   uint16     `json:"a"`
	X   uint16     `json:"x"`
	Y   uint16     `json:"y"`
	DBR byte       `json:"dbr"`
	D   uint16     `json:"d"`
	PBR byte       `json:"pbr"`
	E   byte       `json:"e"`
	RAM []RAMEntry `json:"ram"`
}

// Case is one test case. Cycles lists the bus cycles of the instruction,
// only its length is used.
type Case struct {
	Name    string            `json:"name"`
	Initial State             `json:"initial"`
	Final   State             `json:"final"`
	Cycles  []json.RawMessage `json:"cycles,omitempty"`
}

func (c *Case) UnmarshalJSON(data []byte) error {
	type norecurse Case
	var tmp norecurse
	if err := json.Unmarshal(data, &tmp); err != nil {
		return fmt.Errorf("error unmarshalling case %q: %w", tmp.Name, err)
	}
	*c = Case(tmp)
	return nil
}

// Decode reads a JSON array of cases, gzip compressed or not.
func Decode(r io.Reader) ([]Case, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("failed to read cases: %w", err)
	}
	var in io.Reader = &buf
	if b := buf.Bytes(); len(b) >= 2 && b[0] == 0x1F && b[1] == 0x8B {
		zr, err := gzip.NewReader(&buf)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer zr.Close()
		in = zr
	}
	var cases []Case
	if err := json.NewDecoder(in).Decode(&cases); err != nil {
		return nil, fmt.Errorf("failed to decode cases: %w", err)
	}
	return cases, nil
}

// Load reads the cases of a file.
func Load(path string) ([]Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	cases, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cases, nil
}

// Result is the outcome of a case.
type Result struct {
	Name   string
	Passed bool
	// Diffs names each field that differs, with the value it got and the one wanted.
	Diffs  []string
	Cycles int
	Before string
	After  string
}

// Runner runs cases on one processor and one flat memory.
type Runner struct {
	mem *FlatMemory
	cpu *snes.CPU
}

func NewRunner() *Runner {
	mem := NewFlatMemory()
	return &Runner{mem: mem, cpu: snes.NewCPU(mem)}
}

func (r *Runner) setup(s State) {
	r.mem.Clear()
	for _, e := range s.RAM {
		r.mem.Write(e.Address, e.Value)
	}
	r.cpu.Reset()
	reg := r.cpu.Registers()
	reg.SetEmulation(s.E != 0)
	reg.SetStatus(s.P)
	reg.A = s.A
	reg.X = s.X
	reg.Y = s.Y
	reg.SP = s.S
	reg.D = s.D
	reg.DBR = s.DBR
	reg.PBR = s.PBR
	reg.PC = s.PC
}

// Run executes the instruction of a case, and the rest of a block move, and
// compares every register, the flags and every listed memory byte.
func (r *Runner) Run(c Case) Result {
	r.setup(c.Initial)
	res := Result{Name: c.Name, Before: r.dump(c.Final.RAM)}
	res.Cycles = r.cpu.Step()
	blockMove := r.cpu.InBlockMove()
	for r.cpu.InBlockMove() {
		res.Cycles += r.cpu.Step()
	}
	res.After = r.dump(c.Final.RAM)
	res.Diffs = r.compare(c.Final)
	if len(c.Cycles) > 0 && !blockMove && res.Cycles != len(c.Cycles) {
		res.Diffs = append(res.Diffs, fmt.Sprintf("cycles: got=%d, want=%d", res.Cycles, len(c.Cycles)))
	}
	res.Passed = len(res.Diffs) == 0
	return res
}

func (r *Runner) compare(want State) []string {
	reg := r.cpu.Registers()
	var diffs []string
	check := func(name string, got, want uint32, width int) {
		if got != want {
			diffs = append(diffs, fmt.Sprintf("%s: got=0x%0*x, want=0x%0*x", name, width, got, width, want))
		}
	}
	e := byte(0)
	if reg.Emulation() {
		e = 1
	}
	check("pc", uint32(reg.PC), uint32(want.PC), 4)
	check("s", uint32(reg.SP), uint32(want.S), 4)
	check("p", uint32(reg.Status()), uint32(want.P), 2)
	check("a", uint32(reg.A), uint32(want.A), 4)
	check("x", uint32(reg.X), uint32(want.X), 4)
	check("y", uint32(reg.Y), uint32(want.Y), 4)
	check("dbr", uint32(reg.DBR), uint32(want.DBR), 2)
	check("d", uint32(reg.D), uint32(want.D), 4)
	check("pbr", uint32(reg.PBR), uint32(want.PBR), 2)
	check("e", uint32(e), uint32(want.E), 1)
	for _, m := range want.RAM {
		check(fmt.Sprintf("ram[0x%06x]", m.Address), uint32(r.mem.ReadExternal(m.Address)), uint32(m.Value), 2)
	}
	return diffs
}

// dump renders the registers and the bytes at the addresses of ram.
func (r *Runner) dump(ram []RAMEntry) string {
	var b strings.Builder
	b.WriteString(r.cpu.Registers().String())
	addresses := make([]uint32, 0, len(ram))
	for _, m := range ram {
		addresses = append(addresses, m.Address)
	}
	sort.Slice(addresses, func(i, j int) bool { return addresses[i] < addresses[j] })
	for _, a := range addresses {
		fmt.Fprintf(&b, "\n  %06X: %02X", a, r.mem.ReadExternal(a))
	}
	return b.String()
}

// RunAll runs every case.
func RunAll(cases []Case) []Result {
	r := NewRunner()
	results := make([]Result, 0, len(cases))
	for _, c := range cases {
		results = append(results, r.Run(c))
	}
	return results
}
