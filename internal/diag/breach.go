// Package diag renders the dataflow core's only failure mode: a fatal
// invariant breach (spec §7). There is no recoverable-error taxonomy here —
// a breach means the IR handed to a pass violated a precondition the pass
// is entitled to assume, and the only sane response is to abort with a
// diagnostic identifying where and what.
//
// Diagnostics are color-coded and framed Rust-style, identifying where an
// invariant broke instead of a source location. Passes never call os.Exit
// themselves — only the CLI's top frame does, via Recover — so this
// package stays usable from library callers that want to recover a breach
// instead of dying.
package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Breach describes one violated invariant: which function/block/instruction
// it was found in, which invariant was broken, and a human-readable detail.
type Breach struct {
	Function    string
	Block       string
	Instruction string
	Invariant   string // e.g. "I3: def slot must be REG"
	Detail      string
}

func (b *Breach) Error() string {
	return fmt.Sprintf("invariant breach in %s: %s: %s", b.Function, b.Invariant, b.Detail)
}

// Format renders b as a bold colored header, then a location line naming
// the function/block/instruction instead of a file:line:column (there is
// no source text to point at post-lowering), then the detail.
func (b *Breach) Format() string {
	var out strings.Builder

	levelColor := color.New(color.FgRed, color.Bold).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(&out, "%s: %s\n", levelColor("fatal"), bold(b.Invariant))
	fmt.Fprintf(&out, "   %s %s", dim("-->"), b.Function)
	if b.Block != "" {
		fmt.Fprintf(&out, "/%s", b.Block)
	}
	if b.Instruction != "" {
		fmt.Fprintf(&out, "/%s", b.Instruction)
	}
	out.WriteByte('\n')
	fmt.Fprintf(&out, "   %s\n", dim("│"))
	fmt.Fprintf(&out, "   %s %s\n", dim("│"), b.Detail)
	return out.String()
}

// Raise panics carrying b. Every internal/opt pass calls this instead of
// returning an error: the passes' contract is total-on-valid-input, and a
// breach means the input was not valid.
func Raise(b *Breach) {
	panic(b)
}

// Raisef is a convenience wrapper building a Breach from format arguments.
func Raisef(function, block, instruction, invariant, format string, args ...interface{}) {
	Raise(&Breach{
		Function:    function,
		Block:       block,
		Instruction: instruction,
		Invariant:   invariant,
		Detail:      fmt.Sprintf(format, args...),
	})
}

// Recover is the CLI's top-frame recovery point: if the recovered value is
// a *Breach, its formatted diagnostic is printed and ok is true; any other
// panic is re-thrown, since only invariant breaches are this package's
// concern. With no panic in flight it returns (nil, false). Recover must be
// deferred directly (defer diag.Recover()): called from inside another
// deferred function, its recover() call returns nil and stops nothing.
func Recover() (b *Breach, ok bool) {
	r := recover()
	if r == nil {
		return nil, false
	}
	breach, isBreach := r.(*Breach)
	if !isBreach {
		panic(r)
	}
	fmt.Print(breach.Format())
	return breach, true
}
