package main

import (
	"flag"
	"os"
	"runtime/pprof"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/golang/glog"

	"github.com/jyane/jsnes/conformance"
	"github.com/jyane/jsnes/snes"
)

var (
	path             = flag.String("path", "./rom/sample.sfc", "path to SNES ROM file")
	steps            = flag.Int("steps", 1000000, "number of ticks to run without the debugger")
	debug            = flag.Bool("debug", false, "run as debug mode")
	conformanceTests = flag.String("conformance", "", "run the processor test cases of a JSON file instead of a ROM")
	cpuprofile       = flag.String("cpuprofile", "", "write cpu profile to file")
	statsviewAddr    = flag.String("statsview", "", "serve runtime stats charts on this address, e.g. localhost:12600")
)

// launchStatsview serves the charts at http://addr/debug/statsview while the emulator runs.
func launchStatsview(addr string) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(addr))
		mgr := statsview.New()
		mgr.Start()
	}()
	glog.Infof("Stats server available at http://%s/debug/statsview\n", addr)
}

func runConformance(path string) {
	cases, err := conformance.Load(path)
	if err != nil {
		glog.Fatalln("Failed to load test cases: ", err)
	}
	results := conformance.RunAll(cases)
	_, failed := conformance.Report(os.Stdout, results, bool(glog.V(1)))
	if failed > 0 {
		glog.Flush()
		os.Exit(1)
	}
}

func main() {
	flag.Parse()
	defer glog.Flush()
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			glog.Fatal("Failed to create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			glog.Fatal("Failed to start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}
	if *statsviewAddr != "" {
		launchStatsview(*statsviewAddr)
	}
	if *conformanceTests != "" {
		runConformance(*conformanceTests)
		return
	}
	cartridge := &snes.LinearROM{}
	if err := cartridge.Load(*path); err != nil {
		glog.Fatalln("Failed to read: "+*path, err)
	}
	console := snes.NewConsole(cartridge)
	if *debug {
		if err := snes.NewDebugConsole(console, os.Stdout).Run(os.Stdin); err != nil {
			glog.Fatalln("Debug console failed: ", err)
		}
		return
	}
	cycles := console.Run(*steps)
	glog.Infof("Ran %d cycles: %s\n", cycles, console.CPU.Registers())
}
