// Command dataflow-cli reads a textual IR fixture, runs the full
// reaching-definitions + peephole pipeline over every function in it, and
// prints a colorized pass/fail summary: positional-argument CLI,
// time.Since timing with a tiered duration formatter, color.Green/color.Red
// summary line.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"dataflow/internal/asmfmt"
	"dataflow/internal/diag"
	"dataflow/internal/ir"
	"dataflow/internal/opt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: dataflow-cli <file.df>")
		os.Exit(1)
	}
	path := os.Args[1]

	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read %s: %s", path, err)
		os.Exit(1)
	}

	start := time.Now()

	funcs, breached := runPipeline(path, string(source))
	elapsed := time.Since(start)

	if breached {
		color.Red("dataflow failed after %s", formatDuration(elapsed))
		os.Exit(1)
	}

	for _, f := range funcs {
		fmt.Println(asmfmt.Print(f))
	}
	color.Green("dataflow completed %d function(s) in %s", len(funcs), formatDuration(elapsed))
}

// runPipeline parses source, runs every pass over every function in program
// order, and recovers a *diag.Breach if one of the passes aborts, printing
// its diagnostic and reporting breached=true.
func runPipeline(path, source string) (funcs []*ir.Function, breached bool) {
	// breached stays true unless the final return below is reached.
	breached = true
	defer diag.Recover()

	fs, err := asmfmt.ParseAndBuild(path, source)
	if err != nil {
		os.Exit(1)
	}

	for _, f := range fs {
		runFunctionPipeline(f)
	}
	return fs, false
}

func runFunctionPipeline(f *ir.Function) {
	opt.ComputeReachingDefs(f)
	opt.PropagateConsts(f)
	opt.ConstantFold(f, false)

	opt.ComputeReachingDefs(f)
	opt.LoadStoreSimplify(f)
	opt.PropagateRegs(f)
	opt.MergeMoveWithSrcDef(f)
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%.1fus", float64(d.Nanoseconds())/1000)
	case d < time.Second:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1e6)
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	default:
		return fmt.Sprintf("%.1fmin", d.Minutes())
	}
}
