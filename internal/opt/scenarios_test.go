package opt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dataflow/internal/handle"
	"dataflow/internal/ir"
)

// TestScenarioConstantFoldALU covers: r1<-MOV 3; r2<-MOV 4; r3<-ADD r1,r2.
// After compute_reaching_defs + propagate_consts + constant_fold, r3<-MOV 7
// and the first two moves are untouched.
func TestScenarioConstantFoldALU(t *testing.T) {
	f := ir.NewFunction("f", 4)
	b := f.NewBlock("entry")
	mov1 := f.NewIns(b, ir.OpMov, reg(1), cst(f, 3))
	mov2 := f.NewIns(b, ir.OpMov, reg(2), cst(f, 4))
	add := f.NewIns(b, ir.OpAdd, reg(3), reg(1), reg(2))

	ComputeReachingDefs(f)
	PropagateConsts(f)
	n := ConstantFold(f, false)

	require.Equal(t, ir.OpMov, mov1.Opc)
	require.Equal(t, int64(3), f.Const(mov1.Operand(1)).Value)
	require.Equal(t, ir.OpMov, mov2.Opc)
	require.Equal(t, int64(4), f.Const(mov2.Operand(1)).Value)
	require.Equal(t, ir.OpMov, add.Opc)
	require.Equal(t, int64(7), f.Const(add.Operand(1)).Value)
	require.Zero(t, n)
}

// TestScenarioBranchPruning covers a block ending BEQ 5,5,Ltrue with
// successors Ltrue/Lfalse. Folding unlinks and deletes the edge to Lfalse
// and queues the branch itself for deletion, leaving the fall-through to
// Ltrue implicit.
func TestScenarioBranchPruning(t *testing.T) {
	f := ir.NewFunction("f", 1)
	entry := f.NewBlock("entry")
	ltrue := f.NewBlock("Ltrue")
	lfalse := f.NewBlock("Lfalse")

	edgeTrue := f.AddEdge(entry, ltrue)
	f.AddEdge(entry, lfalse)
	bra := f.NewIns(entry, ir.OpBeq, cst(f, 5), cst(f, 5), ltrue.Handle)

	ComputeReachingDefs(f)
	n := ConstantFold(f, false)

	require.Equal(t, 1, n)
	require.Len(t, entry.SuccEdges(), 1)
	require.Same(t, edgeTrue, entry.SuccEdges()[0])
	require.NotContains(t, entry.Instrs, bra)
}

// TestScenarioLeaLdFold covers: r1<-LEA_MEM sym,8; r2<-LD r1,4. After
// reaching-defs + simplify, r2<-LD_MEM sym,12.
func TestScenarioLeaLdFold(t *testing.T) {
	f := ir.NewFunction("f", 3)
	b := f.NewBlock("entry")
	sym := f.NewMem("buf")
	f.NewIns(b, ir.OpLEAMem, reg(1), sym, cst(f, 8))
	ld := f.NewIns(b, ir.OpLD, reg(2), reg(1), cst(f, 4))

	ComputeReachingDefs(f)
	LoadStoreSimplify(f)

	require.Equal(t, ir.OpLDMem, ld.Opc)
	require.Equal(t, handle.Mem, ld.Operand(1).Kind)
	require.Equal(t, int64(12), f.Const(ld.Operand(2)).Value)
}

// TestScenarioCopyForwarding covers: r1<-MOV r0; r2<-ADD r1,r1. After
// analysis + propagate_regs, r2<-ADD r0,r0.
func TestScenarioCopyForwarding(t *testing.T) {
	f := ir.NewFunction("f", 3)
	b := f.NewBlock("entry")
	f.NewIns(b, ir.OpMov, reg(1), reg(0))
	add := f.NewIns(b, ir.OpAdd, reg(2), reg(1), reg(1))

	ComputeReachingDefs(f)
	PropagateRegs(f)

	require.Equal(t, reg(0), add.Operand(1))
	require.Equal(t, reg(0), add.Operand(2))
}

// TestScenarioMoveMerge covers: r1<-ADD r2,r3; r4<-MOV r1 (r4 dead, r1
// unused elsewhere). After merge_move_with_src_def: r4<-ADD r2,r3; r1<-MOV
// r4.
func TestScenarioMoveMerge(t *testing.T) {
	f := ir.NewFunction("f", 5)
	b := f.NewBlock("entry")
	add := f.NewIns(b, ir.OpAdd, reg(1), reg(2), reg(3))
	mov := f.NewIns(b, ir.OpMov, reg(4), reg(1))

	MergeMoveWithSrcDef(f)

	require.Equal(t, reg(4), add.Operand(0))
	require.Equal(t, reg(2), add.Operand(1))
	require.Equal(t, reg(3), add.Operand(2))
	require.Equal(t, ir.OpMov, mov.Opc)
	require.Equal(t, reg(1), mov.Operand(0))
	require.Equal(t, reg(4), mov.Operand(1))
}

// TestScenarioEntryLiveInSentinel covers: for a register never defined on
// any path into block b, In[b][r] equals the handle of b itself after
// finalization, not Bottom and not Top.
func TestScenarioEntryLiveInSentinel(t *testing.T) {
	f := ir.NewFunction("f", 3)
	entry := f.NewBlock("entry")
	f.NewIns(entry, ir.OpRet)

	ComputeReachingDefs(f)

	got := entry.In.Get(1)
	require.Equal(t, entry.Handle, got)
	require.False(t, got.IsBottom())
	require.False(t, got.IsTop())
}
