package opt

import (
	"dataflow/internal/diag"
	"dataflow/internal/handle"
	"dataflow/internal/handlevec"
	"dataflow/internal/ir"
)

// baseOffsetSlots returns the (basePos, offsetPos) operand indices for the
// three generic opcodes this pass rewrites: ST's value operand comes last,
// so its base/offset pair sits in slots 0/1; LD/LEA's destination occupies
// slot 0, pushing base/offset to slots 1/2.
func baseOffsetSlots(opc ir.OPC) (basePos, offsetPos int) {
	if opc == ir.OpST {
		return 0, 1
	}
	return 1, 2
}

// newOPC maps a generic LD/ST/LEA opcode to its specialization once the
// base-defining instruction's own opcode is known. Specialization to a
// _MEM/_STK form happens only when the base was itself already defined by
// an already-specialized LEA_MEM/LEA_STK; a base defined by a plain MOV or
// LEA keeps the generic opcode, since the combined base operand is then
// just another register, not a symbol. ok is false for any other
// base-defining opcode — there is nothing this table knows how to combine.
func newOPC(opc, baseOpc ir.OPC) (ir.OPC, bool) {
	switch opc {
	case ir.OpLD:
		switch baseOpc {
		case ir.OpLEAMem:
			return ir.OpLDMem, true
		case ir.OpLEAStk:
			return ir.OpLDStk, true
		case ir.OpMov, ir.OpLEA:
			return ir.OpLD, true
		}
	case ir.OpST:
		switch baseOpc {
		case ir.OpLEAMem:
			return ir.OpSTMem, true
		case ir.OpLEAStk:
			return ir.OpSTStk, true
		case ir.OpMov, ir.OpLEA:
			return ir.OpST, true
		}
	case ir.OpLEA:
		switch baseOpc {
		case ir.OpLEAMem:
			return ir.OpLEAMem, true
		case ir.OpLEAStk:
			return ir.OpLEAStk, true
		case ir.OpMov, ir.OpLEA:
			return ir.OpLEA, true
		}
	}
	return ir.OpInvalid, false
}

// available implements the §4.6 availability check: CONST/MEM/STK operands
// are always available; a REG operand is available only if its current
// reaching-def tag still matches the local scratch vector's record of that
// register's most recent definition. Any other operand kind reaching here
// is a fatal invariant breach (§7): the availability check's domain is
// exactly {REG, CONST, MEM, STK}.
func available(data handlevec.HandleVec, op ir.Operand, def handle.Handle) bool {
	switch op.Kind {
	case handle.Const, handle.Mem, handle.Stk:
		return true
	case handle.Reg:
		return !def.IsTop() && !def.IsBottom() && def == data.Get(ir.RegNo(op))
	default:
		diag.Raisef("", "", "", "I-AVAIL: availability check operand kind must be REG/CONST/MEM/STK",
			"got operand kind %s", op.Kind)
		return false
	}
}

// LoadStoreSimplify rewrites LD/ST/LEA instructions whose base register is
// itself defined by a MOV or LEA-kind instruction, folding the base+offset
// chain into a single instruction with a combined offset and, when the
// base-defining LEA was already specialized, a specialized opcode (§4.6).
// Must run after ComputeReachingDefs.
func LoadStoreSimplify(fun *ir.Function) {
	for _, b := range fun.Blocks {
		simplifyBlock(fun, b)
	}
}

func simplifyBlock(fun *ir.Function, b *ir.BasicBlock) {
	data := handlevec.New(fun.NumRegs)
	data.CopyFrom(b.In)
	defer data.Del()

	for _, ins := range b.Instrs {
		if ins.Opc == ir.OpLD || ins.Opc == ir.OpST || ins.Opc == ir.OpLEA {
			tryLoadStoreSimplify(fun, data, ins)
		}
		for i := 0; i < ins.Opc.NumDefs(); i++ {
			reg := ins.Operand(i)
			if reg.Kind == handle.Reg {
				data.Set(ir.RegNo(reg), ins.Handle)
			}
		}
	}
}

func tryLoadStoreSimplify(fun *ir.Function, data handlevec.HandleVec, ins *ir.Instruction) {
	basePos, offsetPos := baseOffsetSlots(ins.Opc)
	base := ins.Operand(basePos)
	if base.Kind != handle.Reg {
		return
	}
	baseDef := ins.Def(basePos)
	if !available(data, base, baseDef) {
		return
	}
	if baseDef.Kind != handle.Ins {
		return
	}
	baseDefIns := fun.Ins(baseDef)

	newOpc, ok := newOPC(ins.Opc, baseDefIns.Opc)
	if !ok {
		return
	}

	combinedOff, combinedOffDef, ok := combineOffset(fun, ins, baseDefIns, offsetPos)
	if !ok {
		return
	}

	newBase := baseDefIns.Operand(1)
	newBaseDef := baseDefIns.Def(1)

	if !available(data, newBase, newBaseDef) || !available(data, combinedOff, combinedOffDef) {
		return
	}

	ins.SetOperand(basePos, newBase)
	ins.SetDef(basePos, newBaseDef)
	ins.SetOperand(offsetPos, combinedOff)
	ins.SetDef(offsetPos, combinedOffDef)
	ins.Opc = newOpc
}

// combineOffset implements §4.6 step 4. off_pos's caller-supplied value is
// already the right slot for ins's own opcode kind.
func combineOffset(fun *ir.Function, ins, baseDefIns *ir.Instruction, offPos int) (ir.Operand, handle.Handle, bool) {
	off1 := ins.Operand(offPos)
	off1Def := ins.Def(offPos)

	if baseDefIns.Opc == ir.OpMov {
		return off1, off1Def, true
	}

	off2 := baseDefIns.Operand(2)
	off2Def := baseDefIns.Def(2)

	if off2.Kind == handle.Const && fun.Const(off2).IsZero() {
		return off1, off1Def, true
	}
	if off1.Kind == handle.Const && fun.Const(off1).IsZero() {
		return off2, off2Def, true
	}
	if off1.Kind == handle.Const && off2.Kind == handle.Const {
		sum := ir.ConstSumOffsets(fun.Const(off1), fun.Const(off2))
		return fun.NewConst(sum), handle.Top, true
	}
	return ir.Operand{}, handle.Handle{}, false
}
