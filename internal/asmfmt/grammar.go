package asmfmt

// Program is the root grammar node: a sequence of function definitions.
type Program struct {
	Funcs []*Func `@@*`
}

// Func is `func name(N regs): block*`.
type Func struct {
	Name    string   `"func" @Ident`
	NumRegs string   `"(" @Integer "regs" ")" ":"`
	Blocks  []*Block `@@*`
}

// Block is a label, its straight-line instructions, and an optional
// explicit successor list. Successor edges are written separately from
// instructions on purpose — the CFG in internal/ir is edge-based and does
// not derive edges from branch operands. The leading "block" keyword (rather
// than a bare `name:`) keeps a label line lexically distinct from a
// zero-operand instruction line, so the parser never has to backtrack out
// of an instruction list to find the next block.
type Block struct {
	Label  string   `"block" @Ident ":"`
	Instrs []*Instr `@@*`
	Succs  []string `( "->" @Ident ( "," @Ident )* )?`
}

// Instr is a mnemonic followed by a comma-separated operand list.
type Instr struct {
	Opcode   string     `@Mnemonic`
	Operands []*Operand `( @@ ( "," @@ )* )?`
}

// Operand is one of a register, constant, symbol, or bare label reference
// (used by conditional branches to name their target block).
type Operand struct {
	Reg   string `(  @Reg`
	Const string ` | @Const`
	Sym   string ` | @Sym`
	Label string ` | @Ident )`
}
