package opt

import (
	"dataflow/internal/handle"
	"dataflow/internal/handlevec"
	"dataflow/internal/ir"
)

// PropagateRegs forwards register-to-register copies: an operand whose
// unique reaching definition is `MOV dst, src` is rewritten to read src
// directly, as long as src's own reaching definition still holds at this
// program point (§4.7). No check is made for a physical register assigned to
// src: the IR records no register-to-CPU-register assignment.
// Must run after ComputeReachingDefs.
func PropagateRegs(fun *ir.Function) {
	for _, b := range fun.Blocks {
		propagateBlockRegs(fun, b)
	}
}

func propagateBlockRegs(fun *ir.Function, b *ir.BasicBlock) {
	data := handlevec.New(fun.NumRegs)
	data.CopyFrom(b.In)
	defer data.Del()

	for _, ins := range b.Instrs {
		for i, op := range ins.Operands {
			if i < ins.Opc.NumDefs() {
				continue
			}
			tryPropagateReg(fun, data, ins, i, op)
		}
		for i := 0; i < ins.Opc.NumDefs(); i++ {
			reg := ins.Operand(i)
			if reg.Kind == handle.Reg {
				data.Set(ir.RegNo(reg), ins.Handle)
			}
		}
	}
}

func tryPropagateReg(fun *ir.Function, data handlevec.HandleVec, ins *ir.Instruction, i int, op ir.Operand) {
	if op.Kind != handle.Reg {
		return
	}
	def := ins.Def(i)
	if def.IsTop() || def.IsBottom() || def.Kind != handle.Ins {
		return
	}
	mov := fun.Ins(def)
	if mov.Opc != ir.OpMov {
		return
	}
	src := mov.Operand(1)
	if src.Kind != handle.Reg {
		return
	}
	srcDef := mov.Def(1)
	if data.Get(ir.RegNo(src)) != srcDef {
		return
	}
	ins.SetOperand(i, src)
	ins.SetDef(i, srcDef)
}
