package llvm

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	ast "flowscriptc/src/ir"
)

// lowerPipeline lowers a Pipeline node (§4.4), the central design element of the generator: the
// left expression's value is made available as the current piped value while the right operator
// is dispatched, then the previous piped value is restored. Pipelines chain left-associatively —
// `a |> b |> c` parses as `(a |> b) |> c` — so the left side of one Pipeline node may itself be
// another Pipeline node; lowering it recursively yields that inner pipeline's result. The returned
// bool reports whether the right operator left the builder at a reachable block (false) or already
// terminated it (true, only possible when the right operator is a conditional whose every arm
// returns) — callers must propagate this the same way lowerStmtList propagates a Return.
func (g *Generator) lowerPipeline(n *ast.Node) (llvm.Value, bool, error) {
	defer g.pushFrame("pipeline")()

	left := n.Children[0]
	right := n.Children[1]

	var piped *llvm.Value
	if left.Typ != ast.Range {
		val, err := g.lowerExpr(left)
		if err != nil {
			return llvm.Value{}, false, err
		}
		piped = &val
	}
	restore := g.setPiped(piped)
	defer restore()

	switch right.Typ {
	case ast.FunctionCall:
		val, err := g.lowerCall(right, piped)
		return val, false, err

	case ast.IfElse:
		terminated, err := g.lowerIf(right)
		if err != nil {
			return llvm.Value{}, false, err
		}
		return llvm.Value{}, terminated, nil

	case ast.ForLoop:
		var rangeOverride *ast.Node
		if right.Children[0] == nil {
			if left.Typ != ast.Range {
				return llvm.Value{}, false, fmt.Errorf("line %d: for-each loop has no range", right.Line)
			}
			rangeOverride = left
		}
		if err := g.lowerForLoop(right, rangeOverride); err != nil {
			return llvm.Value{}, false, err
		}
		return llvm.Value{}, false, nil

	case ast.PrintCall:
		if err := g.lowerPrint(right, piped); err != nil {
			return llvm.Value{}, false, err
		}
		return llvm.Value{}, false, nil

	default:
		return llvm.Value{}, false, fmt.Errorf("line %d: %s is not a valid pipeline target", right.Line, right.Type())
	}
}
