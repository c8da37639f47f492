// Package frontend turns FlowScript source text into the tagged-variant syntax tree defined by
// package ir, which the code generator in ir/llvm consumes. Lexing and grammar recognition are
// delegated to a declarative, struct-tag-driven parser combinator rather than a hand-rolled
// scanner and goyacc grammar, the way the kanso compiler in this project's reference pool drives
// its own front end.
package frontend

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// flowLexer tokenizes FlowScript source. Keywords (func, return, if, else, for, each, range,
// print, and, or, not) are not given their own token kinds; like the reference grammar this
// lexer is modeled on, they ride the Ident rule and are recognized positionally by literal string
// matches in the grammar in grammar.go.
var flowLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`, Action: nil},
		{Name: "Integer", Pattern: `[0-9]+`, Action: nil},
		{Name: "Operator", Pattern: `(\|>|<=|>=|!=|[=<>+\-*/(){},;])`, Action: nil},
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`, Action: nil},
	},
})
