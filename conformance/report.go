package conformance

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Report prints a line per result, and the diffs and dumps of the failures.
// It returns the number of passed and failed cases.
func Report(w io.Writer, results []Result, verbose bool) (int, int) {
	red := color.New(color.FgRed).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	passed, failed := 0, 0
	for _, r := range results {
		if r.Passed {
			passed++
			if verbose {
				fmt.Fprintf(w, "%s %s\n", green("PASS"), r.Name)
			}
			continue
		}
		failed++
		fmt.Fprintf(w, "%s %s\n", red("FAIL"), r.Name)
		for _, d := range r.Diffs {
			fmt.Fprintf(w, "    %s\n", d)
		}
		fmt.Fprintf(w, "  before: %s\n  after:  %s\n", r.Before, r.After)
	}
	summary := fmt.Sprintf("%d passed, %d failed", passed, failed)
	if failed > 0 {
		fmt.Fprintln(w, red(summary))
	} else {
		fmt.Fprintln(w, green(summary))
	}
	return passed, failed
}
