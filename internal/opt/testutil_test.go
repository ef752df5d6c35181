package opt

import (
	"dataflow/internal/handle"
	"dataflow/internal/ir"
)

func reg(n uint32) ir.Operand { return handle.New(handle.Reg, n) }

func cst(f *ir.Function, v int64) ir.Operand {
	return f.NewConst(ir.ConstValue{Value: v})
}
