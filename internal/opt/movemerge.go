package opt

import (
	"dataflow/internal/handle"
	"dataflow/internal/ir"
)

// MergeMoveWithSrcDef coalesces a register-to-register MOV into the
// instruction that defines its source, when doing so is safe: the
// instruction that defined the MOV's source register is rewritten to write
// directly into the MOV's destination, and the MOV itself is kept but
// reversed (source and destination swapped) and reinserted immediately
// after the rewritten definer, so any later use of the original source
// register still observes the value the definer produced (§4.8).
func MergeMoveWithSrcDef(fun *ir.Function) {
	for _, b := range fun.Blocks {
		mergeBlockMoves(fun, b)
	}
}

func mergeBlockMoves(fun *ir.Function, b *ir.BasicBlock) {
	numRegs := fun.NumRegs
	lastDefPos := make([]int, numRegs)
	lastUsePos := make([]int, numRegs)
	for r := range lastDefPos {
		lastDefPos[r] = -1
		lastUsePos[r] = -1
	}

	out := make([]*ir.Instruction, 0, len(b.Instrs))
	merged := false

	for _, ins := range b.Instrs {
		if ins.Opc == ir.OpMov {
			if defPos, ok := suitableMovDefiner(ins, out, lastDefPos, lastUsePos); ok {
				dst := ins.Operand(0)
				src := ins.Operand(1)
				definer := out[defPos]

				for i := 0; i < definer.Opc.NumDefs(); i++ {
					if definer.Operand(i) == src {
						definer.SetOperand(i, dst)
					}
				}

				ins.SwapOperands(0, 1)

				out = append(out, nil)
				copy(out[defPos+2:], out[defPos+1:])
				out[defPos+1] = ins

				for r := range lastDefPos {
					if lastDefPos[r] > defPos {
						lastDefPos[r]++
					}
				}
				for r := range lastUsePos {
					if lastUsePos[r] > defPos {
						lastUsePos[r]++
					}
				}
				lastDefPos[ir.RegNo(dst)] = defPos
				lastDefPos[ir.RegNo(src)] = defPos + 1
				lastUsePos[ir.RegNo(dst)] = defPos + 1

				merged = true
				continue
			}
		}

		out = append(out, ins)
		pos := len(out) - 1
		for i, op := range ins.Operands {
			if op.Kind != handle.Reg {
				continue
			}
			if i < ins.Opc.NumDefs() {
				lastDefPos[ir.RegNo(op)] = pos
			} else {
				lastUsePos[ir.RegNo(op)] = pos
			}
		}
	}

	if merged {
		b.ReplaceInstrs(out)
	}
}

// suitableMovDefiner reports whether mov is hoistable and, if so, the
// output-list position of the instruction that defines its source. Mirrors
// the original's is_suitable_mov: the source register must have a known
// local definer, the destination register must not have been touched since
// that definer ran, and the definer must not be immediately followed by a
// POPARG (POPARG sequences are order-sensitive and must stay adjacent).
func suitableMovDefiner(mov *ir.Instruction, out []*ir.Instruction, lastDefPos, lastUsePos []int) (int, bool) {
	dst := mov.Operand(0)
	src := mov.Operand(1)
	if src.Kind != handle.Reg || src == dst {
		return 0, false
	}
	srcDefPos := lastDefPos[ir.RegNo(src)]
	if srcDefPos < 0 {
		return 0, false
	}
	if lastDefPos[ir.RegNo(dst)] > srcDefPos {
		return 0, false
	}
	if lastUsePos[ir.RegNo(dst)] > srcDefPos {
		return 0, false
	}
	if srcDefPos+1 < len(out) && out[srcDefPos+1].Opc == ir.OpPopArg {
		return 0, false
	}
	return srcDefPos, true
}
