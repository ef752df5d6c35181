// Package asmfmt is a small textual assembly-like surface syntax for the
// IR in internal/ir, used to write test fixtures and CLI input without
// constructing a *ir.Function by hand. It is not a front end: it has no
// notion of variables, types, or control structures above a CFG edge list,
// since internal/ir's Function is already fully three-address.
//
// Lexing uses participle.MustStateful lexer rules plus a struct-tag
// grammar, reshaped for this flatter token set.
package asmfmt

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `;[^\n]*`, nil},
		{"Reg", `r[0-9]+`, nil},
		{"Const", `#-?[0-9]+u?`, nil},
		{"Sym", `@[A-Za-z_][A-Za-z0-9_]*`, nil},
		{"Arrow", `->`, nil},
		{"Integer", `[0-9]+`, nil},
		// Mnemonic (opcode names, e.g. MOV, ADD, LD_MEM) are all-uppercase by
		// convention, kept lexically distinct from the lowercase keywords and
		// block/function names matched by Ident, so the parser never has to
		// backtrack to tell an instruction line apart from a block header.
		{"Mnemonic", `[A-Z][A-Z0-9_]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Punct", `[():,]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
