package ir

import (
	"golang.org/x/arch/x86/x86asm"

	"dataflow/internal/handle"
)

// cpuRegTable is the catalogue a CPU_REG handle's Index resolves against:
// the physical x86-64 general-purpose registers, in the same order the
// original cwerg backend's CodeGenX64 and the pack's x86_64 codegen both
// allocate from. Index 0 is reserved (handle indices never alias the
// sentinels), so the table is 1-based like every other arena here.
var cpuRegTable = []x86asm.Reg{
	x86asm.RAX, x86asm.RCX, x86asm.RDX, x86asm.RBX,
	x86asm.RSI, x86asm.RDI, x86asm.RBP, x86asm.RSP,
	x86asm.R8, x86asm.R9, x86asm.R10, x86asm.R11,
	x86asm.R12, x86asm.R13, x86asm.R14, x86asm.R15,
}

// CpuRegName renders a CPU_REG handle's physical register name, e.g. "RAX".
// Panics with a plain string (not a diag.Breach) if h is not a CPU_REG
// handle or indexes past the catalogue.
func CpuRegName(h handle.Handle) string {
	if h.Kind != handle.CpuReg || h.Index == 0 || int(h.Index) > len(cpuRegTable) {
		panic("ir: CpuRegName called on invalid CPU_REG handle")
	}
	return cpuRegTable[h.Index-1].String()
}

// NumCpuRegs is the size of the physical-register catalogue.
func NumCpuRegs() int { return len(cpuRegTable) }
