package asmfmt

import (
	"fmt"
	"strconv"
	"strings"

	"dataflow/internal/handle"
	"dataflow/internal/ir"
)

// Build lowers a parsed Program into one *ir.Function per Func, resolving
// block-label operands and successor edges by name within each function.
func Build(prog *Program) ([]*ir.Function, error) {
	funcs := make([]*ir.Function, 0, len(prog.Funcs))
	for _, fn := range prog.Funcs {
		f, err := buildFunc(fn)
		if err != nil {
			return nil, err
		}
		funcs = append(funcs, f)
	}
	return funcs, nil
}

// ParseAndBuild is the one-call convenience path the CLI uses: parse source
// text and lower it straight to IR functions.
func ParseAndBuild(path, source string) ([]*ir.Function, error) {
	prog, err := Parse(path, source)
	if err != nil {
		return nil, err
	}
	return Build(prog)
}

func buildFunc(fn *Func) (*ir.Function, error) {
	numRegs, err := strconv.Atoi(fn.NumRegs)
	if err != nil {
		return nil, fmt.Errorf("asmfmt: func %s: bad register count %q", fn.Name, fn.NumRegs)
	}
	f := ir.NewFunction(fn.Name, numRegs)

	blockByName := make(map[string]*ir.BasicBlock, len(fn.Blocks))
	for _, blk := range fn.Blocks {
		if _, dup := blockByName[blk.Label]; dup {
			return nil, fmt.Errorf("asmfmt: func %s: duplicate block %q", fn.Name, blk.Label)
		}
		blockByName[blk.Label] = f.NewBlock(blk.Label)
	}

	for _, blk := range fn.Blocks {
		b := blockByName[blk.Label]
		for _, instr := range blk.Instrs {
			if err := buildInstr(f, b, instr, blockByName); err != nil {
				return nil, err
			}
		}
		for _, succName := range blk.Succs {
			succ, ok := blockByName[succName]
			if !ok {
				return nil, fmt.Errorf("asmfmt: func %s: block %q has unknown successor %q", fn.Name, blk.Label, succName)
			}
			f.AddEdge(b, succ)
		}
	}
	return f, nil
}

func buildInstr(f *ir.Function, b *ir.BasicBlock, instr *Instr, blockByName map[string]*ir.BasicBlock) error {
	opc, ok := ir.OPCFromName(instr.Opcode)
	if !ok {
		return fmt.Errorf("asmfmt: unknown opcode %q", instr.Opcode)
	}
	operands := make([]ir.Operand, len(instr.Operands))
	for i, o := range instr.Operands {
		if o.Label != "" {
			blk, ok := blockByName[o.Label]
			if !ok {
				return fmt.Errorf("asmfmt: %s references unknown block %q", instr.Opcode, o.Label)
			}
			operands[i] = blk.Handle
			continue
		}
		op, err := buildOperand(f, opc, o)
		if err != nil {
			return err
		}
		operands[i] = op
	}
	f.NewIns(b, opc, operands...)
	return nil
}

func buildOperand(f *ir.Function, opc ir.OPC, o *Operand) (ir.Operand, error) {
	switch {
	case o.Reg != "":
		n, err := strconv.Atoi(strings.TrimPrefix(o.Reg, "r"))
		if err != nil {
			return ir.Operand{}, fmt.Errorf("asmfmt: bad register %q", o.Reg)
		}
		return handle.New(handle.Reg, uint32(n)), nil

	case o.Const != "":
		return buildConst(f, o.Const)

	case o.Sym != "":
		name := strings.TrimPrefix(o.Sym, "@")
		if strings.HasSuffix(opc.String(), "_STK") {
			return f.NewStk(name), nil
		}
		return f.NewMem(name), nil

	default:
		return ir.Operand{}, fmt.Errorf("asmfmt: empty operand")
	}
}

func buildConst(f *ir.Function, text string) (ir.Operand, error) {
	body := strings.TrimPrefix(text, "#")
	unsigned := strings.HasSuffix(body, "u")
	if unsigned {
		body = strings.TrimSuffix(body, "u")
	}
	v, err := strconv.ParseInt(body, 10, 64)
	if err != nil {
		return ir.Operand{}, fmt.Errorf("asmfmt: bad constant %q", text)
	}
	return f.NewConst(ir.ConstValue{Value: v, Unsigned: unsigned}), nil
}
