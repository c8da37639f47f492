package frontend

import (
	"testing"

	"github.com/alecthomas/participle/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ast "flowscriptc/src/ir"
)

// Testable property: parsing a well-formed program round-trips into the shape the code generator
// expects — the right node types, in the right Children order, carrying the right Data payload.
func TestParseSimplePipelinePrint(t *testing.T) {
	root, err := Parse(`5 |> print();`)
	require.NoError(t, err)
	require.Equal(t, ast.StatementList, root.Typ)
	require.Len(t, root.Children, 1)

	pipe := root.Children[0]
	assert.Equal(t, ast.Pipeline, pipe.Typ)
	require.Len(t, pipe.Children, 2)
	assert.Equal(t, ast.Number, pipe.Children[0].Typ)
	assert.Equal(t, 5, pipe.Children[0].Data)
	assert.Equal(t, ast.PrintCall, pipe.Children[1].Typ)
	assert.Nil(t, pipe.Children[1].Children[0])
}

// Testable property: "|>" chains fold left-associatively: "a |> b |> c" builds as
// Pipeline(Pipeline(a, b), c), never Pipeline(a, Pipeline(b, c)).
func TestPipelineChainIsLeftAssociative(t *testing.T) {
	root, err := Parse(`1 |> square() |> print();`)
	require.NoError(t, err)

	outer := root.Children[0]
	require.Equal(t, ast.Pipeline, outer.Typ)
	inner := outer.Children[0]
	require.Equal(t, ast.Pipeline, inner.Typ, "left side of the outer pipeline must be the inner pipeline")
	assert.Equal(t, ast.Number, inner.Children[0].Typ)
	assert.Equal(t, ast.FunctionCall, inner.Children[1].Typ)
	assert.Equal(t, ast.PrintCall, outer.Children[1].Typ)
}

// Testable property: a function definition builds with its parameter list and body in the
// Children order the generator expects, and a call to it builds a FunctionCall carrying its
// arguments.
func TestParseFunctionDefinitionAndCall(t *testing.T) {
	root, err := Parse(`
func add(a, b) {
	return a + b;
}

add(1, 2) |> print();
`)
	require.NoError(t, err)
	require.Len(t, root.Children, 2)

	def := root.Children[0]
	require.Equal(t, ast.FunctionDef, def.Typ)
	assert.Equal(t, "add", def.Data)
	params := def.Children[0]
	require.Len(t, params.Children, 2)
	assert.Equal(t, "a", params.Children[0].Data)
	assert.Equal(t, "b", params.Children[1].Data)

	body := def.Children[1]
	require.Equal(t, ast.StatementList, body.Typ)
	require.Len(t, body.Children, 1)
	ret := body.Children[0]
	require.Equal(t, ast.Return, ret.Typ)
	assert.Equal(t, ast.BinaryOp, ret.Children[0].Typ)
	assert.Equal(t, "+", ret.Children[0].Data)

	call := root.Children[1].Children[0]
	require.Equal(t, ast.FunctionCall, call.Typ)
	assert.Equal(t, "add", call.Data)
	assert.Len(t, call.Children[0].Children, 2)
}

// Testable property: a conditional with both arms builds Children[0]=condition, Children[1]=then,
// Children[2]=else; omitting the else arm leaves Children[2] nil rather than an empty list.
func TestParseIfElse(t *testing.T) {
	root, err := Parse(`
if x > 0 {
	print(1);
} else {
	print(0);
}
`)
	require.NoError(t, err)
	ifNode := root.Children[0]
	require.Equal(t, ast.IfElse, ifNode.Typ)
	require.Len(t, ifNode.Children, 3)
	assert.Equal(t, ast.BinaryOp, ifNode.Children[0].Typ)
	assert.NotNil(t, ifNode.Children[1])
	assert.NotNil(t, ifNode.Children[2])

	root2, err := Parse(`
if x > 0 {
	print(1);
}
`)
	require.NoError(t, err)
	assert.Nil(t, root2.Children[0].Children[2])
}

// Testable property: a range piped into a bare for-each loop is spliced in at lowering time, not
// at parse time — the ForLoop node the frontend builds always carries Children[0]=nil, with the
// loop's bound expressed only by the Range node on the left of the pipeline, and the loop
// variable is always named "item".
func TestParseForEachRangeSplice(t *testing.T) {
	root, err := Parse(`
range(0, 10) |> for each {
	item |> print();
}
`)
	require.NoError(t, err)
	pipe := root.Children[0]
	require.Equal(t, ast.Pipeline, pipe.Typ)

	rangeNode := pipe.Children[0]
	require.Equal(t, ast.Range, rangeNode.Typ)
	assert.Equal(t, 0, rangeNode.Children[0].Data)
	assert.Equal(t, 10, rangeNode.Children[1].Data)

	loop := pipe.Children[1]
	require.Equal(t, ast.ForLoop, loop.Typ)
	assert.Equal(t, "item", loop.Data)
	assert.Nil(t, loop.Children[0])
}

// Testable property: every built node carries the source line it was parsed from, so diagnostics
// raised during code generation can point back at the offending line.
func TestNodesCarrySourceLine(t *testing.T) {
	root, err := Parse("x = 1;\ny = 2;\nprint(x);\n")
	require.NoError(t, err)
	require.Len(t, root.Children, 3)
	assert.Equal(t, 1, root.Children[0].Line)
	assert.Equal(t, 2, root.Children[1].Line)
	assert.Equal(t, 3, root.Children[2].Line)
}

// Testable property: a malformed program is a parse error, not a panic. The error's reported
// position is checked by TestParseErrorReportsTheOffendingLine.
func TestMalformedProgramIsAParseError(t *testing.T) {
	_, err := Parse(`func broken( { return 1; }`)
	require.Error(t, err)
}

func TestMalformedPipelineTargetIsAParseError(t *testing.T) {
	_, err := Parse(`5 |> 6;`)
	require.Error(t, err, "a bare number is not a valid pipeline target")
}

// Testable property: a parse error's reported line matches the actual offending line, not just
// "somewhere in the file" — essential for diagnostics to be useful on multi-line programs.
func TestParseErrorReportsTheOffendingLine(t *testing.T) {
	_, err := Parse("x = 1;\ny = 2;\nfunc broken( { return 1; }\n")
	require.Error(t, err)

	pe, ok := err.(participle.Error)
	require.True(t, ok, "expected a participle.Error carrying a source position")
	assert.Equal(t, 3, pe.Position().Line)
}

// Testable property: short-circuit operators and comparisons build into the left-associative
// BinaryOp chain the generator's precedence-folding expects.
func TestParseBooleanAndComparisonPrecedence(t *testing.T) {
	root, err := Parse(`print(1 < 2 and 3 = 3 or not 0);`)
	require.NoError(t, err)
	arg := root.Children[0].Children[0].Children[0]
	require.Equal(t, ast.BinaryOp, arg.Typ)
	assert.Equal(t, "or", arg.Data)
}
