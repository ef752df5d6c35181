package opt

import (
	"github.com/oleiade/lane"

	"dataflow/internal/handle"
	"dataflow/internal/handlevec"
	"dataflow/internal/ir"
)

// initBlockDefs scans b's instructions in program order and builds its Def
// vector: the last instruction in the block that writes register r (if any)
// becomes Def[r]; registers never written in b keep the Bottom sentinel.
// This is BblInitReachingDefs.
func initBlockDefs(f *ir.Function, b *ir.BasicBlock) handlevec.HandleVec {
	def := handlevec.New(f.NumRegs)
	for _, ins := range b.Instrs {
		for i := 0; i < ins.Opc.NumDefs(); i++ {
			reg := ins.Operand(i)
			if reg.Kind != handle.Reg {
				continue
			}
			def.Set(ir.RegNo(reg), ins.Handle)
		}
	}
	return def
}

// ComputeReachingDefs runs reaching-definitions analysis over fun and tags
// every operand of every instruction with the handle of the definition that
// reaches it, per spec §4.2/§4.3. Any reaching-def state left over from a
// previous run is discarded and rebuilt from scratch.
//
// TODO: when have machine regs we also need to account for clobbered regs
// after calls.
func ComputeReachingDefs(fun *ir.Function) {
	for _, b := range fun.Blocks {
		b.In.Del()
		b.Out.Del()
		b.Def.Del()
		b.In = handlevec.New(fun.NumRegs)
		b.Out = handlevec.New(fun.NumRegs)
		b.Def = initBlockDefs(fun, b)
	}

	active := lane.NewStack()
	inWorklist := make(map[*ir.BasicBlock]bool, len(fun.Blocks))
	for i := len(fun.Blocks) - 1; i >= 0; i-- {
		b := fun.Blocks[i]
		active.Push(b)
		inWorklist[b] = true
	}

	for !active.Empty() {
		v := active.Pop()
		b := v.(*ir.BasicBlock)
		inWorklist[b] = false

		if transfer(b.Def, b.In, b.Out) {
			for _, e := range b.Succs {
				succ := e.Succ
				if meetInto(succ.In, b.Out, succ.Handle) {
					if !inWorklist[succ] {
						active.Push(succ)
						inWorklist[succ] = true
					}
				}
			}
		}
	}

	for _, b := range fun.Blocks {
		for r := 1; r < b.In.Len(); r++ {
			if b.In.Get(r).IsBottom() {
				b.In.Set(r, handle.BlockTop(b.Handle))
			}
		}
	}

	for _, b := range fun.Blocks {
		hv := handlevec.New(fun.NumRegs)
		hv.CopyFrom(b.In)
		for _, ins := range b.Instrs {
			for i, op := range ins.Operands {
				if i < ins.Opc.NumDefs() || op.Kind != handle.Reg {
					ins.SetDef(i, handle.Top)
					continue
				}
				ins.SetDef(i, hv.Get(ir.RegNo(op)))
			}
			for i := 0; i < ins.Opc.NumDefs(); i++ {
				reg := ins.Operand(i)
				if reg.Kind != handle.Reg {
					continue
				}
				hv.Set(ir.RegNo(reg), ins.Handle)
			}
		}
		hv.Del()
	}
}
