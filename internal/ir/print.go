package ir

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"dataflow/internal/handle"
)

// sprintOperand renders a single operand handle in the textual surface
// syntax internal/asmfmt's parser reads back (rNN for registers, #NNN for
// constants, bare names for blocks, @name for mem/stack symbols).
func sprintOperand(f *Function, op handle.Handle) string {
	switch op.Kind {
	case handle.Reg:
		return fmt.Sprintf("r%d", op.Index)
	case handle.Const:
		c := f.Const(op)
		if c.Unsigned {
			return fmt.Sprintf("#%d", uint64(c.Value))
		}
		return fmt.Sprintf("#%d", c.Value)
	case handle.Mem:
		return "@" + f.Mem(op).Name
	case handle.Stk:
		return "@" + f.Stk(op).Name
	case handle.Bbl:
		if op.Index == 0 {
			return "<bottom>"
		}
		return f.Block(op).Name
	case handle.CpuReg:
		return fmt.Sprintf("cpu%d", op.Index)
	case handle.Ins:
		if op.Index == 0 {
			return "<top>"
		}
		return fmt.Sprintf("ins%d", op.Index)
	default:
		return "<invalid>"
	}
}

// sprintInstruction renders one instruction, ignoring its Function context
// (operands print by handle kind/index only; use PrintFunction for names).
func sprintInstruction(ins *Instruction) string {
	var b strings.Builder
	b.WriteString(ins.Opc.String())
	for _, op := range ins.Operands {
		b.WriteByte(' ')
		switch op.Kind {
		case handle.Reg:
			fmt.Fprintf(&b, "r%d", op.Index)
		case handle.Const:
			fmt.Fprintf(&b, "#const%d", op.Index)
		case handle.Mem:
			fmt.Fprintf(&b, "@mem%d", op.Index)
		case handle.Stk:
			fmt.Fprintf(&b, "@stk%d", op.Index)
		case handle.Bbl:
			fmt.Fprintf(&b, "bbl%d", op.Index)
		default:
			b.WriteString("<invalid>")
		}
	}
	return b.String()
}

// DumpDebug renders f's full handle graph (every block, instruction,
// operand, and def-tag slice) for test-failure output, where PrintFunction's
// human-readable assembly rendering would hide exactly the handle plumbing
// a failing test needs to see.
func DumpDebug(f *Function) string {
	return spew.Sdump(f)
}

// PrintFunction renders f's blocks and instructions in program order, using
// f's constant/symbol tables to render operands fully (unlike
// Instruction.String, which has no Function to resolve them against).
func PrintFunction(f *Function) string {
	var b strings.Builder
	fmt.Fprintf(&b, "func %s(%d regs):\n", f.Name, f.NumRegs)
	for _, blk := range f.Blocks {
		fmt.Fprintf(&b, "%s:\n", blk.Name)
		for _, ins := range blk.Instrs {
			b.WriteString("    ")
			b.WriteString(ins.Opc.String())
			for _, op := range ins.Operands {
				b.WriteByte(' ')
				b.WriteString(sprintOperand(f, op))
			}
			b.WriteByte('\n')
		}
		if len(blk.Succs) > 0 {
			b.WriteString("    -> ")
			names := make([]string, len(blk.Succs))
			for i, e := range blk.Succs {
				names[i] = e.Succ.Name
			}
			b.WriteString(strings.Join(names, ", "))
			b.WriteByte('\n')
		}
	}
	return b.String()
}
