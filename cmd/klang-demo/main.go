// Command klang-demo is a minimal smoke-test entry point wiring together
// KLang's config, heap, stack, allocator, shift, and softfloat packages.
// Adapted from the teacher's main.go flag-parsing prologue, trimmed to
// the handful of flags a numeric-kernel demo needs; the debugger/
// API-server/TUI modes main.go also offers are out of scope and not
// reimplemented here.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/klang-rt/klang/config"
	"github.com/klang-rt/klang/globaldata"
	"github.com/klang-rt/klang/heap"
	"github.com/klang-rt/klang/kstack"
	"github.com/klang-rt/klang/malloc"
	"github.com/klang-rt/klang/shift"
	"github.com/klang-rt/klang/softfloat"
	"github.com/klang-rt/klang/trace"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		configPath  = flag.String("config", "", "Config file path (default: platform config dir)")
		verbose     = flag.Bool("verbose", false, "Verbose output")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("klang-demo %s (%s)\n", Version, Commit)
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "klang-demo: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "klang-demo: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func run(cfg *config.Config, verbose bool) error {
	shiftCfg, err := cfg.NewShiftConfig()
	if err != nil {
		return fmt.Errorf("resolving shift mode: %w", err)
	}
	if err := demoShift(shiftCfg, verbose); err != nil {
		return fmt.Errorf("shift demo: %w", err)
	}
	if err := demoFloat(verbose); err != nil {
		return fmt.Errorf("float demo: %w", err)
	}
	if err := demoMalloc(cfg, verbose); err != nil {
		return fmt.Errorf("malloc demo: %w", err)
	}
	if err := demoStackAndGlobals(cfg, verbose); err != nil {
		return fmt.Errorf("stack/globals demo: %w", err)
	}
	return nil
}

// demoShift validates the configured default mode by shifting a known
// 32-bit pattern and checking the result against its well-known value.
func demoShift(cfg *shift.Config, verbose bool) error {
	eng, err := shift.NewEngine(shift.Width32, cfg.DefaultMode(), cfg)
	if err != nil {
		return err
	}
	result := eng.LeftShift(0x00000001, 4)
	if result.Value != 0x10 {
		return fmt.Errorf("1<<4 = 0x%X, want 0x10", result.Value)
	}
	if verbose {
		fmt.Printf("shift: mode=%v 1<<4 = 0x%X carry=%d overflow=%v\n",
			cfg.DefaultMode(), result.Value, result.Carry, result.Overflow)
	}
	return nil
}

// demoFloat adds two binary32 bit patterns through the software kernel.
// math.Float32bits/Float32frombits only construct and inspect the test
// values here — the addition itself goes through softfloat.AddBits32, not
// the host FPU.
func demoFloat(verbose bool) error {
	a := math.Float32bits(1.5)
	b := math.Float32bits(2.25)
	sum := softfloat.AddBits32(a, b)
	got := math.Float32frombits(sum)
	if got != 3.75 {
		return fmt.Errorf("1.5+2.25 = %v, want 3.75", got)
	}
	if verbose {
		fmt.Printf("float32: 1.5+2.25 = %v (bits 0x%08X)\n", got, sum)
	}
	return nil
}

// demoMalloc runs a malloc/free/coalesce cycle against a fresh heap,
// with an AllocTrace attached so its events can be inspected.
func demoMalloc(cfg *config.Config, verbose bool) error {
	h := heap.New(cfg.Heap.InitialSize)
	a := malloc.New(h)
	at := trace.NewAllocTrace(os.Stdout)
	at.Enabled = verbose
	a.SetTrace(at)

	p1, err := a.Malloc(32)
	if err != nil {
		return err
	}
	p2, err := a.Malloc(32)
	if err != nil {
		return err
	}
	if err := a.Free(p1); err != nil {
		return err
	}
	if err := a.Free(p2); err != nil {
		return err
	}
	// p1 and p2 are adjacent and now both free, so this reuses the
	// coalesced chunk rather than growing the heap.
	p3, err := a.Malloc(48)
	if err != nil {
		return err
	}
	if p3 != p1 {
		return fmt.Errorf("malloc after coalescing = %d, want reused %d", p3, p1)
	}
	if verbose {
		fmt.Printf("malloc: coalesced reuse at addr %d\n", p3)
	}
	return nil
}

// demoStackAndGlobals exercises KStack and GlobalData against the same
// allocator, the way a generated program's prologue would.
func demoStackAndGlobals(cfg *config.Config, verbose bool) error {
	h := heap.New(cfg.Heap.InitialSize)
	a := malloc.New(h)

	st, err := kstack.New(a, cfg.Stack.Size)
	if err != nil {
		return err
	}
	defer st.Dispose()

	var spAfter int
	err = st.WithFrame(cfg.Stack.DefaultAlign, func(s *kstack.Stack) error {
		addr, err := s.Alloca(64, cfg.Stack.DefaultAlign)
		if err != nil {
			return err
		}
		spAfter = addr
		return nil
	})
	if err != nil {
		return err
	}
	if verbose {
		fmt.Printf("kstack: alloca'd frame at offset %d\n", spAfter)
	}

	gd, err := globaldata.New(a, 256)
	if err != nil {
		return err
	}
	defer gd.Dispose()

	if _, err := gd.DefineData("greeting", []byte("hi\x00"), 1); err != nil {
		return err
	}
	addr, ok := gd.Lookup("greeting")
	if !ok {
		return fmt.Errorf("globaldata: lookup of greeting failed after define")
	}
	if verbose {
		fmt.Printf("globaldata: greeting at addr %d\n", addr)
	}
	return nil
}
