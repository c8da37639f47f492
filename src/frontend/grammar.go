package frontend

import "github.com/alecthomas/participle/v2/lexer"

// Program is the grammar root: a source file is a sequence of top-level statements. Function
// definitions and ordinary statements may be freely interleaved, mirroring the reference
// generator's own tolerance for global DECLARATIONs and FUNCTIONs in any order.
type Program struct {
	Stmts []*Stmt `@@*`
}

// Stmt is a discriminated union of every statement-level production, tried in order. AssignStmt
// is tried before ExprStmt so that "x = expr" commits to an assignment rather than being
// misparsed as a bare expression followed by a dangling "= expr".
type Stmt struct {
	FuncDef *FuncDef    `  @@`
	If      *IfStmt     `| @@`
	For     *ForStmt    `| @@`
	Return  *ReturnStmt `| @@`
	Assign  *AssignStmt `| @@`
	ExprStmt *ExprStmt  `| @@`
}

// FuncDef is "func name(params) { body }". Parameters and the return value are both the single
// scalar integer type described in the spec; there is no type annotation in the surface syntax.
type FuncDef struct {
	Pos    lexer.Position
	Name   string   `"func" @Ident "("`
	Params []string `[ @Ident { "," @Ident } ] ")" "{"`
	Body   []*Stmt  `@@* "}"`
}

// IfStmt is "if cond { then } [else { else }]". IfStmt also doubles as a pipeline right-hand
// operator shape (§4.4), so it is referenced both from Stmt and from PipeTarget.
type IfStmt struct {
	Pos  lexer.Position
	Cond *Expr   `"if" @@ "{"`
	Then []*Stmt `@@* "}"`
	Else []*Stmt `[ "else" "{" @@* "}" ]`
}

// ForStmt is "for each { body }". The loop variable name is not part of the surface grammar; the
// AST builder binds it to the fixed name "item", matching every worked example in the spec.
type ForStmt struct {
	Pos  lexer.Position
	Body []*Stmt `"for" "each" "{" @@* "}"`
}

// ReturnStmt is "return [value] [;]".
type ReturnStmt struct {
	Pos   lexer.Position
	Value *Expr `"return" [ @@ ] [ ";" ]`
}

// AssignStmt is "target = value [;]". Declaration is implicit: the generator decides whether
// "target" needs a fresh storage slot the first time it sees this name in scope.
type AssignStmt struct {
	Pos    lexer.Position
	Target string `@Ident "="`
	Value  *Expr  `@@ [ ";" ]`
}

// ExprStmt is a bare expression used as a statement — typically a pipeline or a call, whose value
// (if any) is discarded.
type ExprStmt struct {
	Pos  lexer.Position
	Expr *Expr `@@ [ ";" ]`
}

// Expr is the pipeline level: a chain of "|>" stages applied left-associatively to an OrExpr.
type Expr struct {
	Pos   lexer.Position
	Left  *OrExpr      `@@`
	Pipes []*PipeStage `{ @@ }`
}

// PipeStage is one "|> target" link in a pipeline chain.
type PipeStage struct {
	Target *PipeTarget `"|>" @@`
}

// PipeTarget enumerates the right-hand operator shapes a pipeline may dispatch to (§4.4): an
// ordinary call, a conditional, a bounded for-each loop, or the print bridge. Any other expression
// shape on the right of "|>" is a grammar error, which is itself a faithful rendition of "invalid
// pipeline RHS" (§7) one layer earlier than the generator would catch it.
type PipeTarget struct {
	Print   *PrintExpr `  @@`
	If      *IfStmt    `| @@`
	ForEach *ForStmt   `| @@`
	Call    *CallExpr  `| @@`
}

// PrintExpr is "print(arg?)". Absent arg means "use the piped value" (§4.6).
type PrintExpr struct {
	Pos lexer.Position
	Arg *Expr `"print" "(" [ @@ ] ")"`
}

// CallExpr is "name(args...)", used both as an ordinary expression and as a pipeline target.
type CallExpr struct {
	Pos  lexer.Position
	Name string  `@Ident "("`
	Args []*Expr `[ @@ { "," @@ } ] ")"`
}

// RangeExpr is "range(start, end)" (§3 Range). It carries no scalar value of its own; it is
// structural, consumed only by a for-each loop reached via a pipeline.
type RangeExpr struct {
	Pos   lexer.Position
	Start *Expr `"range" "(" @@ ","`
	End   *Expr `@@ ")"`
}

// OrExpr, AndExpr, EqExpr, RelExpr, AddExpr and MulExpr form the standard precedence-climbing
// tier used throughout this project's retrieval pool's hand-written recursive-descent parsers,
// expressed declaratively with participle instead of imperative precedence-loop code.
type OrExpr struct {
	Left *AndExpr `@@`
	Rest []*AndExpr `{ "or" @@ }`
}

type AndExpr struct {
	Left *EqExpr   `@@`
	Rest []*EqExpr `{ "and" @@ }`
}

type EqExpr struct {
	Left *RelExpr `@@`
	Ops  []*EqOp  `{ @@ }`
}

type EqOp struct {
	Pos      lexer.Position
	Operator string   `@( "=" | "!=" )`
	Right    *RelExpr `@@`
}

type RelExpr struct {
	Left *AddExpr `@@`
	Ops  []*RelOp `{ @@ }`
}

type RelOp struct {
	Pos      lexer.Position
	Operator string   `@( "<=" | ">=" | "<" | ">" )`
	Right    *AddExpr `@@`
}

type AddExpr struct {
	Left *MulExpr `@@`
	Ops  []*AddOp `{ @@ }`
}

type AddOp struct {
	Pos      lexer.Position
	Operator string   `@( "+" | "-" )`
	Right    *MulExpr `@@`
}

type MulExpr struct {
	Left *UnaryExpr `@@`
	Ops  []*MulOp   `{ @@ }`
}

type MulOp struct {
	Pos      lexer.Position
	Operator string     `@( "*" | "/" )`
	Right    *UnaryExpr `@@`
}

// UnaryExpr is an optional unary "-" or "not" applied to a Primary.
type UnaryExpr struct {
	Pos   lexer.Position
	Op    *string  `[ @( "-" | "not" ) ]`
	Value *Primary `@@`
}

// Primary is the leaf level of expression grammar: a range, a call, a literal, an identifier, or
// a parenthesized sub-expression.
type Primary struct {
	Pos    lexer.Position
	Range  *RangeExpr `  @@`
	Call   *CallExpr  `| @@`
	Number *string    `| @Integer`
	Ident  *string    `| @Ident`
	Sub    *Expr      `| "(" @@ ")"`
}
