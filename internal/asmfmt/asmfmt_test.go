package asmfmt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dataflow/internal/ir"
)

const sample = `func add_one(3 regs):
block entry:
    MOV r1, #5
    ADD r2, r1, r1
    -> exit
block exit:
    RET
`

func TestParseAndBuildProducesExpectedShape(t *testing.T) {
	funcs, err := ParseAndBuild("sample.df", sample)
	require.NoError(t, err)
	require.Len(t, funcs, 1)

	f := funcs[0]
	require.Equal(t, "add_one", f.Name)
	require.Equal(t, 3, f.NumRegs)
	require.Len(t, f.Blocks, 2)

	entry := f.Blocks[0]
	require.Equal(t, "entry", entry.Name)
	require.Len(t, entry.Instrs, 2)
	require.Equal(t, ir.OpMov, entry.Instrs[0].Opc)
	require.Equal(t, ir.OpAdd, entry.Instrs[1].Opc)
	require.Len(t, entry.Succs, 1)
	require.Equal(t, "exit", entry.Succs[0].Succ.Name)
}

func TestPrintRoundTrip(t *testing.T) {
	funcs, err := ParseAndBuild("sample.df", sample)
	require.NoError(t, err)

	printed := Print(funcs[0])
	reparsed, err := ParseAndBuild("reprint.df", printed)
	require.NoError(t, err)
	require.Len(t, reparsed, 1)
	require.Equal(t, funcs[0].Name, reparsed[0].Name)
	require.Equal(t, funcs[0].NumRegs, reparsed[0].NumRegs)
	require.Len(t, reparsed[0].Blocks, len(funcs[0].Blocks))
}

func TestParseRejectsUnknownOpcode(t *testing.T) {
	_, err := ParseAndBuild("bad.df", "func f(1 regs):\nblock entry:\n    NOPE r0\n")
	require.Error(t, err)
}

func TestParseRejectsBadSuccessor(t *testing.T) {
	_, err := ParseAndBuild("bad.df", "func f(1 regs):\nblock entry:\n    RET\n    -> nowhere\n")
	require.Error(t, err)
}
