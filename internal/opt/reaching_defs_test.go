package opt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dataflow/internal/handle"
	"dataflow/internal/ir"
)

// straight-line: r1 := #1; r2 := r1 op no confluence.
func TestComputeReachingDefsStraightLine(t *testing.T) {
	f := ir.NewFunction("f", 3)
	b := f.NewBlock("entry")
	def1 := f.NewIns(b, ir.OpMov, reg(1), cst(f, 1))
	use := f.NewIns(b, ir.OpMov, reg(2), reg(1))
	f.NewIns(b, ir.OpRet)

	ComputeReachingDefs(f)

	require.Equal(t, def1.Handle, use.Def(1), "r1's use should reach back to its single def")
}

// diamond CFG: entry splits into left/right, both define r1, join sees top.
func TestComputeReachingDefsDiamondJoinIsTop(t *testing.T) {
	f := ir.NewFunction("f", 3)
	entry := f.NewBlock("entry")
	left := f.NewBlock("left")
	right := f.NewBlock("right")
	join := f.NewBlock("join")

	f.AddEdge(entry, left)
	f.AddEdge(entry, right)
	f.AddEdge(left, join)
	f.AddEdge(right, join)

	f.NewIns(left, ir.OpMov, reg(1), cst(f, 1))
	f.NewIns(right, ir.OpMov, reg(1), cst(f, 2))
	use := f.NewIns(join, ir.OpMov, reg(2), reg(1))

	ComputeReachingDefs(f)

	require.Equal(t, join.Handle, use.Def(1), "join block's use of r1 should see conflicting defs as join's own top sentinel")
}

// a use with no reaching def anywhere resolves to the entry block's handle,
// not the global top, at finalization time.
func TestComputeReachingDefsUnresolvedUseIsBlockHandle(t *testing.T) {
	f := ir.NewFunction("f", 3)
	entry := f.NewBlock("entry")
	use := f.NewIns(entry, ir.OpMov, reg(2), reg(1))

	ComputeReachingDefs(f)

	require.Equal(t, entry.Handle, use.Def(1), "unresolved reaching def should finalize to the block handle")
	require.NotEqual(t, handle.Top, use.Def(1))
}

func TestComputeReachingDefsLoopBackEdgeReconverges(t *testing.T) {
	f := ir.NewFunction("f", 3)
	entry := f.NewBlock("entry")
	loop := f.NewBlock("loop")
	exit := f.NewBlock("exit")

	f.AddEdge(entry, loop)
	f.AddEdge(loop, loop)
	f.AddEdge(loop, exit)

	f.NewIns(entry, ir.OpMov, reg(1), cst(f, 0))
	def := f.NewIns(loop, ir.OpMov, reg(1), reg(1))
	use := f.NewIns(exit, ir.OpMov, reg(2), reg(1))

	ComputeReachingDefs(f)

	require.Equal(t, def.Handle, use.Def(1), "exit is reached only from loop, which always redefines r1, so only loop's def reaches exit")
	require.Equal(t, loop.Handle, def.Def(1), "loop body's own use of r1 sees entry's def merged with its own prior iteration, joining to loop's own top sentinel")
}
