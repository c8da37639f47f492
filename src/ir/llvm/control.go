package llvm

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	ast "flowscriptc/src/ir"
)

// lowerForLoop lowers a bounded for-each loop (§4.5). rangeOverride is the pipeline coordinator's
// spliced range (§4.4) — an explicit parameter rather than a mutation of the shared AST node, per
// this project's adoption of the distilled spec's own §9 redesign recommendation. The loop
// requires a range from one source or the other; having neither is a compile error.
func (g *Generator) lowerForLoop(n *ast.Node, rangeOverride *ast.Node) error {
	defer g.pushFrame("for-each")()

	rangeNode := n.Children[0]
	if rangeNode == nil {
		rangeNode = rangeOverride
	}
	if rangeNode == nil {
		return fmt.Errorf("line %d: for-each loop has no range", n.Line)
	}

	start, err := g.lowerExpr(rangeNode.Children[0])
	if err != nil {
		return err
	}
	rangeEnd, err := g.lowerExpr(rangeNode.Children[1])
	if err != nil {
		return err
	}

	loopVar := n.Data.(string)
	slot := g.allocaInEntry(intType, loopVar)

	_, restoreScope := g.pushScope(g.scope)
	defer restoreScope()
	g.scope.define(loopVar, slot, intType, false)

	g.b.CreateStore(start, slot)

	cond := llvm.AddBasicBlock(g.fun, "")
	body := llvm.AddBasicBlock(g.fun, "")
	inc := llvm.AddBasicBlock(g.fun, "")
	done := llvm.AddBasicBlock(g.fun, "")

	restoreTargets := g.setLoopTargets(inc, done)
	defer restoreTargets()

	g.b.CreateBr(cond)

	g.b.SetInsertPointAtEnd(cond)
	cur := g.b.CreateLoad(slot, "")
	test := g.b.CreateICmp(llvm.IntSLT, cur, rangeEnd, "")
	g.b.CreateCondBr(test, body, done)

	g.b.SetInsertPointAtEnd(body)
	bodyVal := g.b.CreateLoad(slot, "")
	restorePiped := g.setPiped(&bodyVal)
	terminated, err := g.lowerStmtList(n.Children[1])
	restorePiped()
	if err != nil {
		return err
	}
	if !terminated {
		g.b.CreateBr(inc)
	}

	g.b.SetInsertPointAtEnd(inc)
	incVal := g.b.CreateLoad(slot, "")
	incVal = g.b.CreateAdd(incVal, llvm.ConstInt(intType, 1, false), "")
	g.b.CreateStore(incVal, slot)
	g.b.CreateBr(cond)

	g.b.SetInsertPointAtEnd(done)
	return nil
}
