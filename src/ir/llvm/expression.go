package llvm

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	ast "flowscriptc/src/ir"
	"flowscriptc/src/util"
)

// boolType is the 1-bit type comparisons and short-circuit operators yield.
var boolType = llvm.Int1Type()

// lowerExpr lowers an expression AST node to a single IR value (§4.2). Every variant either
// returns a value or an error carrying a line-annotated diagnostic; there is no other failure
// signal, mirroring the reference generator's own genExpression/genRelation family.
func (g *Generator) lowerExpr(n *ast.Node) (llvm.Value, error) {
	switch n.Typ {
	case ast.Number:
		return llvm.ConstInt(intType, uint64(n.Data.(int)), true), nil

	case ast.Identifier:
		return g.lowerIdentifier(n)

	case ast.BinaryOp:
		return g.lowerBinaryOp(n)

	case ast.UnaryOp:
		return g.lowerUnaryOp(n)

	case ast.Assignment:
		return g.lowerAssignment(n)

	case ast.FunctionCall:
		return g.lowerCall(n, nil)

	case ast.Pipeline:
		val, _, err := g.lowerPipeline(n)
		return val, err

	default:
		return llvm.Value{}, fmt.Errorf("line %d: node of type %s has no expression value", n.Line, n.Type())
	}
}

// lowerIdentifier looks the name up in the current scope chain. A storage-handle binding (a
// pointer-typed value) is loaded; a function handle is returned as-is, unloaded.
func (g *Generator) lowerIdentifier(n *ast.Node) (llvm.Value, error) {
	name := n.Data.(string)
	binding, ok := g.scope.lookup(name)
	if !ok {
		return llvm.Value{}, fmt.Errorf("line %d: undeclared identifier %q", n.Line, name)
	}
	if binding.IsFunction {
		return binding.Handle, nil
	}
	return g.b.CreateLoad(binding.Handle, ""), nil
}

// lowerBinaryOp dispatches arithmetic, comparison, and short-circuit Boolean binary operators.
func (g *Generator) lowerBinaryOp(n *ast.Node) (llvm.Value, error) {
	op := n.Data.(string)

	switch op {
	case "and", "or":
		return g.lowerShortCircuit(n, op)
	}

	left, err := g.lowerExpr(n.Children[0])
	if err != nil {
		return llvm.Value{}, err
	}
	right, err := g.lowerExpr(n.Children[1])
	if err != nil {
		return llvm.Value{}, err
	}

	switch op {
	case "+":
		return g.b.CreateAdd(left, right, ""), nil
	case "-":
		return g.b.CreateSub(left, right, ""), nil
	case "*":
		return g.b.CreateMul(left, right, ""), nil
	case "/":
		return g.b.CreateSDiv(left, right, ""), nil
	case "=":
		return g.b.CreateICmp(llvm.IntEQ, left, right, ""), nil
	case "!=":
		return g.b.CreateICmp(llvm.IntNE, left, right, ""), nil
	case "<":
		return g.b.CreateICmp(llvm.IntSLT, left, right, ""), nil
	case ">":
		return g.b.CreateICmp(llvm.IntSGT, left, right, ""), nil
	case "<=":
		return g.b.CreateICmp(llvm.IntSLE, left, right, ""), nil
	case ">=":
		return g.b.CreateICmp(llvm.IntSGE, left, right, ""), nil
	default:
		return llvm.Value{}, fmt.Errorf("line %d: unknown binary operator %q", n.Line, op)
	}
}

// lowerShortCircuit lowers `and`/`or` without eagerly evaluating the right operand (§4.2). Two
// new blocks are created: eval-right, reached only when the left operand demands evaluating the
// right one, and merge, where a phi node combines the short-circuited result with the
// right-evaluated one. The phi's incoming block for the right side is whatever block is current
// after lowering right — which may not be eval-right itself, since lowering right can introduce
// further blocks of its own (nested short-circuit operators, for instance).
func (g *Generator) lowerShortCircuit(n *ast.Node, op string) (llvm.Value, error) {
	left, err := g.lowerExpr(n.Children[0])
	if err != nil {
		return llvm.Value{}, err
	}
	left = g.toBool(left)
	leftBlock := g.currentBlock()

	evalRight := llvm.AddBasicBlock(g.fun, "")
	merge := llvm.AddBasicBlock(g.fun, "")

	var shortValue llvm.Value
	if op == "and" {
		shortValue = llvm.ConstInt(boolType, 0, false)
		g.b.CreateCondBr(left, evalRight, merge)
	} else {
		shortValue = llvm.ConstInt(boolType, 1, false)
		g.b.CreateCondBr(left, merge, evalRight)
	}

	g.b.SetInsertPointAtEnd(evalRight)
	right, err := g.lowerExpr(n.Children[1])
	if err != nil {
		return llvm.Value{}, err
	}
	right = g.toBool(right)
	rightEndBlock := g.currentBlock()
	g.b.CreateBr(merge)

	g.b.SetInsertPointAtEnd(merge)
	phi := g.b.CreatePHI(boolType, "")
	phi.AddIncoming(
		[]llvm.Value{shortValue, right},
		[]llvm.BasicBlock{leftBlock, rightEndBlock},
	)
	return phi, nil
}

// lowerUnaryOp lowers `not` (compare to zero) and unary `-` (arithmetic negation).
func (g *Generator) lowerUnaryOp(n *ast.Node) (llvm.Value, error) {
	operand, err := g.lowerExpr(n.Children[0])
	if err != nil {
		return llvm.Value{}, err
	}
	switch n.Data.(string) {
	case "not":
		return g.b.CreateICmp(llvm.IntEQ, operand, llvm.ConstInt(operand.Type(), 0, false), ""), nil
	case "-":
		return g.b.CreateSub(llvm.ConstInt(operand.Type(), 0, true), operand, ""), nil
	default:
		return llvm.Value{}, fmt.Errorf("line %d: unsupported unary operator %q", n.Line, n.Data.(string))
	}
}

// toBool converts an integer value to a 1-bit Boolean by comparing it against zero. Values
// already of 1-bit type (the result of a comparison or another short-circuit operator) pass
// through unchanged.
func (g *Generator) toBool(v llvm.Value) llvm.Value {
	if v.Type() == boolType {
		return v
	}
	return g.b.CreateICmp(llvm.IntNE, v, llvm.ConstInt(v.Type(), 0, false), "")
}

// lowerAssignment lowers an Assignment node (§4.2). The right side is lowered first; then a
// storage slot for the target name is located or, on first assignment, created — in the current
// function's entry block when inside a function (so the allocation dominates every use on every
// path), or as a zero-initialized module-level cell at module top level.
func (g *Generator) lowerAssignment(n *ast.Node) (llvm.Value, error) {
	name := n.Data.(string)
	value, err := g.lowerExpr(n.Children[0])
	if err != nil {
		return llvm.Value{}, err
	}

	binding, ok := g.scope.lookup(name)
	if ok {
		if binding.IsFunction {
			return llvm.Value{}, fmt.Errorf("line %d: %q is not a mutable binding", n.Line, name)
		}
		if binding.Type != value.Type() {
			util.ReportGenWarning(n.Line, "type mismatch assigning to %q", name)
		}
		g.b.CreateStore(value, binding.Handle)
		return value, nil
	}

	var slot llvm.Value
	if !g.fun.IsNil() {
		slot = g.allocaInEntry(value.Type(), name)
	} else {
		slot = llvm.AddGlobal(g.m, value.Type(), name)
		slot.SetInitializer(llvm.ConstNull(value.Type()))
	}
	g.scope.define(name, slot, value.Type(), false)
	g.b.CreateStore(value, slot)
	return value, nil
}

// allocaInEntry inserts a stack allocation at the start of the current function's entry block,
// before any existing instruction, so that every later use of the slot is dominated by its
// definition regardless of which path control took to reach it.
func (g *Generator) allocaInEntry(typ llvm.Type, name string) llvm.Value {
	entry := g.fun.EntryBasicBlock()
	saved := g.currentBlock()

	first := entry.FirstInstruction()
	if first.IsNil() {
		g.b.SetInsertPointAtEnd(entry)
	} else {
		g.b.SetInsertPointBefore(first)
	}
	slot := g.b.CreateAlloca(typ, name)

	g.b.SetInsertPointAtEnd(saved)
	return slot
}
