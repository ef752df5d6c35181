package asmfmt

import (
	"fmt"
	"strings"

	"dataflow/internal/handle"
	"dataflow/internal/ir"
)

// Print renders fun in the same syntax Parse/Build consume, so a
// Print(Build(Parse(x))) round-trip reproduces x up to operand-table
// ordering.
func Print(fun *ir.Function) string {
	var b strings.Builder
	fmt.Fprintf(&b, "func %s(%d regs):\n", fun.Name, fun.NumRegs)
	for _, blk := range fun.Blocks {
		fmt.Fprintf(&b, "block %s:\n", blk.Name)
		for _, ins := range blk.Instrs {
			b.WriteString("    ")
			b.WriteString(ins.Opc.String())
			operands := make([]string, len(ins.Operands))
			for i, op := range ins.Operands {
				operands[i] = printOperand(fun, op)
			}
			if len(operands) > 0 {
				b.WriteByte(' ')
				b.WriteString(strings.Join(operands, ", "))
			}
			b.WriteByte('\n')
		}
		if len(blk.Succs) > 0 {
			names := make([]string, len(blk.Succs))
			for i, e := range blk.Succs {
				names[i] = e.Succ.Name
			}
			b.WriteString("    -> ")
			b.WriteString(strings.Join(names, ", "))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func printOperand(fun *ir.Function, op ir.Operand) string {
	switch op.Kind {
	case handle.Reg:
		return fmt.Sprintf("r%d", op.Index)
	case handle.Const:
		c := fun.Const(op)
		if c.Unsigned {
			return fmt.Sprintf("#%du", uint64(c.Value))
		}
		return fmt.Sprintf("#%d", c.Value)
	case handle.Mem:
		return "@" + fun.Mem(op).Name
	case handle.Stk:
		return "@" + fun.Stk(op).Name
	case handle.Bbl:
		return fun.Block(op).Name
	default:
		return "<invalid>"
	}
}
