package ir

// OpKind is the closed tagged enumeration the dataflow core dispatches on.
// Modeled as a sum type with a small table (opcodeTable) rather than virtual
// methods, per spec §9's polymorphism note.
type OpKind uint8

const (
	KindInvalid OpKind = iota
	KindMov
	KindALU
	KindALU1
	KindCondBra
	KindLD
	KindST
	KindLEA
	KindRet
	KindPopArg
	KindCall
)

// OPC is a concrete opcode. Each has a fixed OpKind, operand count, def
// count and commutativity, held in the opcodeTable below.
type OPC uint8

const (
	OpInvalid OPC = iota
	OpMov
	OpAdd
	OpSub
	OpMul
	OpAnd
	OpOr
	OpXor
	OpNeg
	OpNot
	OpBeq
	OpBne
	OpBlt
	OpBle
	OpBgt
	OpBge
	OpLD
	OpLDMem
	OpLDStk
	OpST
	OpSTMem
	OpSTStk
	OpLEA
	OpLEAMem
	OpLEAStk
	OpRet
	OpPopArg
	OpCall
)

// OpcodeInfo is the metadata the core reads about an opcode: its kind, its
// total operand count (defs included), how many of the leading operand
// slots are defs, and whether it is commutative. This is the "opcode
// metadata" interface spec §6 describes as an external collaborator.
type OpcodeInfo struct {
	Name         string
	Kind         OpKind
	NumOperands  int
	NumDefs      int
	Commutative  bool
}

var opcodeTable = map[OPC]OpcodeInfo{
	OpInvalid: {"INVALID", KindInvalid, 0, 0, false},

	OpMov: {"MOV", KindMov, 2, 1, false},

	OpAdd: {"ADD", KindALU, 3, 1, true},
	OpSub: {"SUB", KindALU, 3, 1, false},
	OpMul: {"MUL", KindALU, 3, 1, true},
	OpAnd: {"AND", KindALU, 3, 1, true},
	OpOr:  {"OR", KindALU, 3, 1, true},
	OpXor: {"XOR", KindALU, 3, 1, true},

	OpNeg: {"NEG", KindALU1, 2, 1, false},
	OpNot: {"NOT", KindALU1, 2, 1, false},

	OpBeq: {"BEQ", KindCondBra, 3, 0, false},
	OpBne: {"BNE", KindCondBra, 3, 0, false},
	OpBlt: {"BLT", KindCondBra, 3, 0, false},
	OpBle: {"BLE", KindCondBra, 3, 0, false},
	OpBgt: {"BGT", KindCondBra, 3, 0, false},
	OpBge: {"BGE", KindCondBra, 3, 0, false},

	// Operand layout [dst, base, offset].
	OpLD:    {"LD", KindLD, 3, 1, false},
	OpLDMem: {"LD_MEM", KindLD, 3, 1, false},
	OpLDStk: {"LD_STK", KindLD, 3, 1, false},

	// Operand layout [base, offset, value].
	OpST:    {"ST", KindST, 3, 0, false},
	OpSTMem: {"ST_MEM", KindST, 3, 0, false},
	OpSTStk: {"ST_STK", KindST, 3, 0, false},

	// Operand layout [dst, base, offset].
	OpLEA:    {"LEA", KindLEA, 3, 1, false},
	OpLEAMem: {"LEA_MEM", KindLEA, 3, 1, false},
	OpLEAStk: {"LEA_STK", KindLEA, 3, 1, false},

	OpRet:    {"RET", KindRet, 0, 0, false},
	OpPopArg: {"POPARG", KindPopArg, 1, 1, false},
	OpCall:   {"CALL", KindCall, 1, 1, false},
}

// Info returns opc's metadata. Panics on an unknown opcode: the opcode
// table is closed and every producer of an OPC value must draw from it.
func (opc OPC) Info() OpcodeInfo {
	info, ok := opcodeTable[opc]
	if !ok {
		panic("ir: unknown opcode")
	}
	return info
}

func (opc OPC) Kind() OpKind   { return opc.Info().Kind }
func (opc OPC) NumOperands() int { return opc.Info().NumOperands }
func (opc OPC) NumDefs() int     { return opc.Info().NumDefs }
func (opc OPC) Commutative() bool { return opc.Info().Commutative }
func (opc OPC) String() string    { return opc.Info().Name }

// opcByName is used by internal/asmfmt to resolve a textual mnemonic.
var opcByName = func() map[string]OPC {
	m := make(map[string]OPC, len(opcodeTable))
	for opc, info := range opcodeTable {
		m[info.Name] = opc
	}
	return m
}()

// OPCFromName resolves a mnemonic to an OPC. ok is false for unknown names.
func OPCFromName(name string) (OPC, bool) {
	opc, ok := opcByName[name]
	return opc, ok
}
