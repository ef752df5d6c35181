package opt

import (
	"dataflow/internal/handle"
	"dataflow/internal/ir"
)

// PropagateConsts rewrites every register operand whose unique reaching
// definition is a MOV from a constant into that constant directly, per
// §4.4. Must run after ComputeReachingDefs has tagged fun's operands.
// Rewritten operands have their Def tag reset to Top: the operand is no
// longer a register read, so it has no reaching definition to speak of, and
// leaving the old tag in place would let a later pass mistake the constant
// for still being register-valued.
func PropagateConsts(fun *ir.Function) {
	for _, b := range fun.Blocks {
		for _, ins := range b.Instrs {
			propagateInsConsts(fun, ins)
		}
	}
}

func propagateInsConsts(fun *ir.Function, ins *ir.Instruction) {
	for i, op := range ins.Operands {
		if i < ins.Opc.NumDefs() || op.Kind != handle.Reg {
			continue
		}
		def := ins.Def(i)
		if def.IsTop() || def.IsBottom() || def.Kind != handle.Ins {
			continue
		}
		defIns := fun.Ins(def)
		if defIns.Opc != ir.OpMov {
			continue
		}
		src := defIns.Operand(1)
		if src.Kind != handle.Const {
			continue
		}
		ins.SetOperand(i, src)
		ins.SetDef(i, handle.Top)
	}
}
