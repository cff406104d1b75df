package conformance

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoadAndRun(t *testing.T) {
	for _, path := range []string{"testdata/cases.json", "testdata/xba.json.gz"} {
		cases, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", path, err)
		}
		if len(cases) == 0 {
			t.Fatalf("Load(%s): no cases", path)
		}
		for _, r := range RunAll(cases) {
			if !r.Passed {
				t.Errorf("%s: %s\nbefore: %s\nafter:  %s", r.Name, strings.Join(r.Diffs, ", "), r.Before, r.After)
			}
		}
	}
}

func TestRunReportsDiffs(t *testing.T) {
	cases, err := Load("testdata/cases.json")
	if err != nil {
		t.Fatal(err)
	}
	c := cases[0]
	c.Final.A = 0x41
	c.Final.RAM = append(c.Final.RAM, RAMEntry{Address: 0x7E0000, Value: 0x12})
	r := NewRunner().Run(c)
	if r.Passed {
		t.Fatalf("%s: passed with a wrong expectation", c.Name)
	}
	want := []string{
		"a: got=0x0040, want=0x0041",
		"ram[0x7e0000]: got=0x00, want=0x12",
	}
	if len(r.Diffs) != len(want) {
		t.Fatalf("diffs: got=%v, want=%v", r.Diffs, want)
	}
	for i := range want {
		if r.Diffs[i] != want[i] {
			t.Errorf("diffs[%d]: got=%q, want=%q", i, r.Diffs[i], want[i])
		}
	}
}

func TestRunnerClearsMemoryBetweenCases(t *testing.T) {
	cases, err := Load("testdata/cases.json")
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner()
	// the JSL case pushes to the stack, the next case must not see those bytes.
	r.Run(cases[1])
	if got := r.mem.Read(0x0001FB); got != 0x12 {
		t.Fatalf("stack after JSL: got=0x%02x, want=0x12", got)
	}
	r.Run(cases[0])
	if got := r.mem.Read(0x0001FB); got != 0x00 {
		t.Errorf("stack after the next case: got=0x%02x, want=0x00", got)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode(strings.NewReader("{not json")); err == nil {
		t.Errorf("Decode: got no error for broken input")
	}
}

func TestReport(t *testing.T) {
	results := []Result{
		{Name: "ok", Passed: true},
		{Name: "bad", Diffs: []string{"pc: got=0x0001, want=0x0002"}},
	}
	var b bytes.Buffer
	passed, failed := Report(&b, results, true)
	if passed != 1 || failed != 1 {
		t.Errorf("Report: got=%d/%d, want=1/1", passed, failed)
	}
	out := b.String()
	for _, s := range []string{"ok", "bad", "pc: got=0x0001, want=0x0002", "1 passed, 1 failed"} {
		if !strings.Contains(out, s) {
			t.Errorf("Report output misses %q:\n%s", s, out)
		}
	}
}
