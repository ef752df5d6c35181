// Package ir is the linear, three-address IR the dataflow core operates on:
// functions built of basic blocks built of instructions, addressed by
// handle.Handle rather than pointer, mirroring an arena-backed compiler IR
// (spec §9's "cyclic IR graph ... use an arena with stable 32-bit indices").
//
// This package plays the role spec.md §1 calls an "external collaborator":
// IR construction, CFG building and serialization are not the dataflow
// core's concern, but the core needs something concrete to walk, so this
// package supplies a minimal, already-three-address IR rather than the
// AST-to-SSA lowering machinery a front end would need.
package ir

import (
	"dataflow/internal/diag"
	"dataflow/internal/handle"
	"dataflow/internal/handlevec"
)

// ConstValue is the payload behind a CONST handle: a fixed-width integer and
// its signedness, needed by the ALU/ALU1/COND_BRA evaluators and by the
// load/store simplifier's signed/unsigned-aware offset arithmetic (§4.6).
type ConstValue struct {
	Value    int64
	Unsigned bool
}

func (c ConstValue) IsZero() bool { return c.Value == 0 }

// MemSymbol names a memory location a LEA_MEM/LD_MEM/ST_MEM addresses.
type MemSymbol struct {
	Name string
}

// StkSlot names a stack location a LEA_STK/LD_STK/ST_STK addresses.
type StkSlot struct {
	Name string
}

// Operand is a value carried in an instruction's operand slot. Its meaning
// depends on Handle.Kind: REG operands name a virtual register (RegNo
// indexes into Function.NumRegs); CONST/MEM/STK operands index into the
// function's constant/symbol/slot tables; BBL operands name a branch
// target block.
type Operand = handle.Handle

// RegNo extracts the register number from a REG operand. Panics if op is
// not a REG handle — the same invariant-breach contract as spec §7.
func RegNo(op Operand) int {
	if op.Kind != handle.Reg {
		diag.Raisef("", "", "", "I3: operand must be REG", "RegNo called on %v", op)
	}
	return int(op.Index)
}

// Instruction is one three-address IR instruction living in exactly one
// BasicBlock's Instrs list.
type Instruction struct {
	Handle   handle.Handle // this instruction's own INS handle
	Opc      OPC
	Operands []Operand // length == Opc.NumOperands(); slots [0, NumDefs) are defs
	Defs     []handle.Handle // parallel to Operands: the reaching-def tag per §3

	block *BasicBlock
}

// Block returns the basic block that currently owns ins, or nil if ins has
// been unlinked.
func (ins *Instruction) Block() *BasicBlock { return ins.block }

// Operand returns the handle in slot i.
func (ins *Instruction) Operand(i int) Operand { return ins.Operands[i] }

// SetOperand overwrites slot i.
func (ins *Instruction) SetOperand(i int, op Operand) { ins.Operands[i] = op }

// Def returns the reaching-def tag for slot i.
func (ins *Instruction) Def(i int) handle.Handle { return ins.Defs[i] }

// SetDef overwrites the reaching-def tag for slot i.
func (ins *Instruction) SetDef(i int, h handle.Handle) { ins.Defs[i] = h }

// SwapOperands exchanges slots i and j, together with their def tags, used
// by the move-merger to turn `mov dst, src` into `mov src, dst` in place
// (spec §4.8).
func (ins *Instruction) SwapOperands(i, j int) {
	ins.Operands[i], ins.Operands[j] = ins.Operands[j], ins.Operands[i]
	ins.Defs[i], ins.Defs[j] = ins.Defs[j], ins.Defs[i]
}

func (ins *Instruction) String() string {
	return sprintInstruction(ins)
}

// Edge is one directed CFG successor edge. Deleting an edge (§4.5's live-edge
// pruning) removes it from both endpoints' Succs/Preds lists.
type Edge struct {
	Pred, Succ *BasicBlock
}

// BasicBlock is a maximal straight-line instruction sequence with a single
// entry and a set of successor edges.
type BasicBlock struct {
	Handle handle.Handle // this block's own BBL handle
	Name   string
	Instrs []*Instruction
	Succs  []*Edge
	Preds  []*Edge

	// Per-block reaching-definition storage (spec §3's per-block state).
	// Reallocated at the start of every ComputeReachingDefs call; any
	// pre-existing vectors are released first (§3 Lifecycle).
	In, Out, Def handlevec.HandleVec
}

// EdgSuccBbl returns the block an edge points at.
func EdgSuccBbl(e *Edge) *BasicBlock { return e.Succ }

// SuccEdges returns b's outgoing edges, structurally first-to-last, which
// is the order the constant folder's tie-break rule (§4.5) relies on.
func (b *BasicBlock) SuccEdges() []*Edge { return b.Succs }

// EdgUnlink removes e from both its predecessor's Succs and its
// successor's Preds. Per spec I4, every edge unlinked must also be deleted;
// EdgDel is the accompanying (here trivial, GC-backed) step.
func EdgUnlink(e *Edge) {
	pred, succ := e.Pred, e.Succ
	newSuccs := pred.Succs[:0]
	for _, s := range pred.Succs {
		if s != e {
			newSuccs = append(newSuccs, s)
		}
	}
	pred.Succs = newSuccs

	newPreds := succ.Preds[:0]
	for _, p := range succ.Preds {
		if p != e {
			newPreds = append(newPreds, p)
		}
	}
	succ.Preds = newPreds
}

// EdgDel releases e. In a GC'd language unlinking already drops the last
// reference; this exists so callers can spell the two-step
// unlink-then-delete lifecycle explicitly.
func EdgDel(e *Edge) { _ = e }

// AddEdge links pred -> succ and returns the new edge.
func (f *Function) AddEdge(pred, succ *BasicBlock) *Edge {
	e := &Edge{Pred: pred, Succ: succ}
	pred.Succs = append(pred.Succs, e)
	succ.Preds = append(succ.Preds, e)
	return e
}

// unlinkIns removes ins from its owning block's instruction list. Required
// before InsDel per I4.
func (b *BasicBlock) unlinkIns(ins *Instruction) {
	for i, cur := range b.Instrs {
		if cur == ins {
			b.Instrs = append(b.Instrs[:i], b.Instrs[i+1:]...)
			ins.block = nil
			return
		}
	}
}

// Function is one compiled function: its virtual-register space, its basic
// blocks in program order (Blocks[0] is the entry block), and the constant/
// symbol tables its CONST/MEM/STK operands index into.
type Function struct {
	Name    string
	NumRegs int // register 0 is reserved; loops over registers start at 1
	Blocks  []*BasicBlock

	consts  []ConstValue
	mems    []MemSymbol
	stks    []StkSlot
	insArena []*Instruction

	nextInsIndex uint32
}

// NewFunction creates an empty function with numRegs virtual registers
// (register 0 reserved).
func NewFunction(name string, numRegs int) *Function {
	return &Function{Name: name, NumRegs: numRegs, nextInsIndex: 1}
}

// NewBlock appends a fresh, empty block and returns it. Block handle indices
// start at 1 so index 0 is free for the Bottom sentinel.
func (f *Function) NewBlock(name string) *BasicBlock {
	idx := uint32(len(f.Blocks)) + 1
	b := &BasicBlock{Handle: handle.New(handle.Bbl, idx), Name: name}
	f.Blocks = append(f.Blocks, b)
	return b
}

// NewConst interns a constant value and returns its CONST handle.
func (f *Function) NewConst(v ConstValue) Operand {
	f.consts = append(f.consts, v)
	return handle.New(handle.Const, uint32(len(f.consts)))
}

// Const resolves a CONST handle back to its value.
func (f *Function) Const(op Operand) ConstValue {
	if op.Kind != handle.Const {
		diag.Raisef(f.Name, "", "", "I3: operand must be CONST", "Const called on %v", op)
	}
	return f.consts[op.Index-1]
}

// NewMem interns a memory symbol and returns its MEM handle.
func (f *Function) NewMem(name string) Operand {
	f.mems = append(f.mems, MemSymbol{Name: name})
	return handle.New(handle.Mem, uint32(len(f.mems)))
}

func (f *Function) Mem(op Operand) MemSymbol { return f.mems[op.Index-1] }

// NewStk interns a stack slot and returns its STK handle.
func (f *Function) NewStk(name string) Operand {
	f.stks = append(f.stks, StkSlot{Name: name})
	return handle.New(handle.Stk, uint32(len(f.stks)))
}

func (f *Function) Stk(op Operand) StkSlot { return f.stks[op.Index-1] }

// Block resolves a BBL handle back to the block object. Handle index 0 (the
// Bottom sentinel) has no corresponding block and must never reach here.
func (f *Function) Block(h handle.Handle) *BasicBlock {
	if h.Kind != handle.Bbl || h.Index == 0 || int(h.Index) > len(f.Blocks) {
		diag.Raisef(f.Name, "", "", "I1: handle must resolve to a live BBL", "Block called on %v", h)
	}
	return f.Blocks[h.Index-1]
}

// Ins resolves an INS handle back to the instruction object. Handle index 0
// (the Top sentinel) has no corresponding instruction and must never reach
// here.
func (f *Function) Ins(h handle.Handle) *Instruction {
	if h.Kind != handle.Ins || h.Index == 0 || int(h.Index) > len(f.insArena) {
		diag.Raisef(f.Name, "", "", "I1: handle must resolve to a live INS", "Ins called on %v", h)
	}
	return f.insArena[h.Index-1]
}

// NewIns appends a new instruction with the given opcode and operands to
// block b and returns it. Def-slot operands (the leading NumDefs() slots)
// must be REG handles.
func (f *Function) NewIns(b *BasicBlock, opc OPC, operands ...Operand) *Instruction {
	info := opc.Info()
	if len(operands) != info.NumOperands {
		diag.Raisef(f.Name, b.Name, "", "I2: operand count must match opcode arity",
			"%s expects %d operands, got %d", info.Name, info.NumOperands, len(operands))
	}
	for i := 0; i < info.NumDefs; i++ {
		if operands[i].Kind != handle.Reg {
			diag.Raisef(f.Name, b.Name, "", "I3: def slot must be REG",
				"%s def slot %d got %v", info.Name, i, operands[i])
		}
	}
	ins := &Instruction{
		Handle:   handle.New(handle.Ins, f.nextInsIndex),
		Opc:      opc,
		Operands: append([]Operand(nil), operands...),
		Defs:     make([]handle.Handle, len(operands)),
		block:    b,
	}
	f.nextInsIndex++
	f.insArena = append(f.insArena, ins)
	b.Instrs = append(b.Instrs, ins)
	return ins
}

// InsDel unlinks ins from its block. Must be called after the instruction
// has already been removed from any successor-edge bookkeeping that
// referenced it (spec I4: unlink before delete).
func (f *Function) InsDel(ins *Instruction) {
	if ins.block != nil {
		ins.block.unlinkIns(ins)
	}
}

// ReplaceInstrs swaps b's instruction list wholesale, used by the
// move-merger after it has reordered a block (spec §4.8's BblReplaceInss).
func (b *BasicBlock) ReplaceInstrs(inss []*Instruction) {
	b.Instrs = inss
}
