package frontend

import (
	"github.com/alecthomas/participle/v2"

	ast "flowscriptc/src/ir"
)

// parser is the package-level participle parser for Program, built once at package init time the
// same way kanso's own grammar package builds its parser once as a package var rather than
// re-building it per call.
var parser = buildParser()

// buildParser constructs the participle parser bound to flowLexer (lexer.go), eliding whitespace
// so grammar rules never need to mention it explicitly.
func buildParser() *participle.Parser[Program] {
	p, err := participle.Build[Program](
		participle.Lexer(flowLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse lexes and parses FlowScript source text and builds it into the §3 tagged-variant AST
// rooted at a StatementList, the shape ir/llvm.GenLLVM consumes. A lex or parse error is returned
// as-is (a participle.Error, line/column-annotated) for the driver to report (§7).
func Parse(src string) (*ast.Node, error) {
	prog, err := parser.ParseString("", src)
	if err != nil {
		return nil, err
	}
	return build(prog), nil
}
