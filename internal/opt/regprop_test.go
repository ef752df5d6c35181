package opt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dataflow/internal/ir"
)

func TestPropagateRegsForwardsCopySource(t *testing.T) {
	f := ir.NewFunction("f", 4)
	b := f.NewBlock("entry")
	f.NewIns(b, ir.OpMov, reg(2), reg(1))
	use := f.NewIns(b, ir.OpAdd, reg(3), reg(2), reg(2))

	ComputeReachingDefs(f)
	PropagateRegs(f)

	require.Equal(t, reg(1), use.Operand(1))
	require.Equal(t, reg(1), use.Operand(2))
}

func TestPropagateRegsStopsIfSourceRedefined(t *testing.T) {
	f := ir.NewFunction("f", 4)
	b := f.NewBlock("entry")
	f.NewIns(b, ir.OpMov, reg(2), reg(1))
	f.NewIns(b, ir.OpMov, reg(1), cst(f, 9))
	use := f.NewIns(b, ir.OpAdd, reg(3), reg(2), reg(2))

	ComputeReachingDefs(f)
	PropagateRegs(f)

	require.Equal(t, reg(2), use.Operand(1), "r1 was redefined after the mov, forwarding must not happen")
}
