package opt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dataflow/internal/handle"
	"dataflow/internal/ir"
)

func TestLoadStoreSimplifyCombinesMovOfSymbol(t *testing.T) {
	f := ir.NewFunction("f", 3)
	b := f.NewBlock("entry")
	sym := f.NewMem("buf")
	f.NewIns(b, ir.OpMov, reg(1), sym)
	ld := f.NewIns(b, ir.OpLD, reg(2), reg(1), cst(f, 4))

	ComputeReachingDefs(f)
	LoadStoreSimplify(f)

	require.Equal(t, ir.OpLD, ld.Opc, "a MOV-defined base keeps the generic opcode, it is not itself a specialized LEA")
	require.Equal(t, handle.Mem, ld.Operand(1).Kind)
	require.Equal(t, int64(4), f.Const(ld.Operand(2)).Value)
}

func TestLoadStoreSimplifyCombinesChainedLea(t *testing.T) {
	f := ir.NewFunction("f", 3)
	b := f.NewBlock("entry")
	sym := f.NewMem("buf")
	lea := f.NewIns(b, ir.OpLEAMem, reg(1), sym, cst(f, 8))
	st := f.NewIns(b, ir.OpST, reg(1), cst(f, 4), reg(2))
	_ = lea

	ComputeReachingDefs(f)
	LoadStoreSimplify(f)

	require.Equal(t, ir.OpSTMem, st.Opc)
	require.Equal(t, int64(12), f.Const(st.Operand(1)).Value, "offsets should sum: lea's 8 plus st's own 4")
}

func TestLoadStoreSimplifyLeavesUnrelatedBaseAlone(t *testing.T) {
	f := ir.NewFunction("f", 3)
	b := f.NewBlock("entry")
	f.NewIns(b, ir.OpAdd, reg(1), reg(2), cst(f, 1))
	ld := f.NewIns(b, ir.OpLD, reg(0), reg(1), cst(f, 0))

	ComputeReachingDefs(f)
	LoadStoreSimplify(f)

	require.Equal(t, ir.OpLD, ld.Opc, "base defined by a non-MOV/LEA instruction must not be combined")
}
