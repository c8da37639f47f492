package llvm

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	ast "flowscriptc/src/ir"
	"flowscriptc/src/util"
)

// lowerStmtList lowers an ordered sequence of statements into the current basic block (§7's error
// policy lives here): a statement that fails to lower writes a line-annotated diagnostic and is
// skipped rather than aborting the whole list — later statements still get a chance, though any
// of them that used the failed statement's value will themselves now cascade-fail. It returns
// true once a Return statement has terminated the block, at which point lowering stops and any
// remaining statements are silently dropped as unreachable code, mirroring the reference
// generator's own BLOCK handling in gen(), which likewise stops walking a statement list's
// children the moment one of them reports having emitted a RETURN.
func (g *Generator) lowerStmtList(n *ast.Node) (bool, error) {
	for _, stmt := range n.Children {
		terminated, err := g.lowerStmt(stmt)
		if err != nil {
			util.ReportGenError(stmt.Line, err)
			util.Verbosef(g.opt, "  while lowering %s", g.frameTrail())
			g.errs = append(g.errs, err)
			continue
		}
		if terminated {
			return true, nil
		}
	}
	return false, nil
}

// lowerStmt lowers a single statement-level node. It returns true when the statement left the
// current block terminated — a Return, or a conditional (bare or as a pipeline target) whose every
// arm returns — signalling to lowerStmtList that there is no block left to emit into.
func (g *Generator) lowerStmt(n *ast.Node) (bool, error) {
	switch n.Typ {
	case ast.Return:
		return true, g.lowerReturn(n)
	case ast.FunctionDef:
		// A function definition nested inside another statement list (the top-level driver
		// passes these through its own two-phase header/body split instead) is declared and
		// lowered on the spot, in source order.
		if err := g.declareFunctionHeader(n); err != nil {
			return false, err
		}
		return false, g.lowerFunctionBody(n)
	case ast.IfElse:
		return g.lowerIf(n)
	case ast.ForLoop:
		return false, g.lowerForLoop(n, nil)
	case ast.Pipeline:
		_, terminated, err := g.lowerPipeline(n)
		return terminated, err
	case ast.PrintCall:
		return false, g.lowerPrint(n, nil)
	default:
		// Assignment, FunctionCall, or any other bare expression used as a statement; its value,
		// if any, is discarded.
		_, err := g.lowerExpr(n)
		return false, err
	}
}

// lowerReturn lowers a Return node, terminating the current block. An absent value returns the
// scalar zero value, mirroring the implicit `return 0` the top-level driver and function
// definition lowering insert when a block falls off the end without an explicit return.
func (g *Generator) lowerReturn(n *ast.Node) error {
	if n.Children[0] == nil {
		g.b.CreateRet(llvm.ConstInt(intType, 0, true))
		return nil
	}
	val, err := g.lowerExpr(n.Children[0])
	if err != nil {
		return err
	}
	g.b.CreateRet(val)
	return nil
}

// lowerIf lowers an IfElse node (§4.5). The condition is converted to a 1-bit value via
// comparison against zero when it isn't already boolean-shaped, then/else blocks are created in
// that order, and control converges at a merge block positioned as the builder's current block on
// return whenever at least one branch falls through — the same converge-or-don't logic as the
// reference generator's genIf, expressed with the statement list's own terminated flag instead of
// inspecting the block's last instruction. The returned bool reports whether the builder was left
// at a reachable merge block (false) or whether every arm already terminated, leaving no block for
// a caller to keep emitting into (true) — callers must propagate this the same way lowerStmtList
// propagates a Return's termination.
func (g *Generator) lowerIf(n *ast.Node) (bool, error) {
	defer g.pushFrame("if")()

	cond, err := g.lowerExpr(n.Children[0])
	if err != nil {
		return false, fmt.Errorf("line %d: if condition: %w", n.Line, err)
	}
	cond = g.toBool(cond)

	thenList := n.Children[1]
	elseList := n.Children[2]

	thenBB := llvm.AddBasicBlock(g.fun, "")

	if elseList == nil {
		mergeBB := llvm.AddBasicBlock(g.fun, "")
		g.b.CreateCondBr(cond, thenBB, mergeBB)

		g.b.SetInsertPointAtEnd(thenBB)
		terminated, err := g.lowerStmtList(thenList)
		if err != nil {
			return false, err
		}
		if !terminated {
			g.b.CreateBr(mergeBB)
		}
		g.b.SetInsertPointAtEnd(mergeBB)
		return false, nil
	}

	elseBB := llvm.AddBasicBlock(g.fun, "")
	g.b.CreateCondBr(cond, thenBB, elseBB)

	var mergeBB llvm.BasicBlock

	g.b.SetInsertPointAtEnd(thenBB)
	thenTerminated, err := g.lowerStmtList(thenList)
	if err != nil {
		return false, err
	}
	if !thenTerminated {
		mergeBB = llvm.AddBasicBlock(g.fun, "")
		g.b.CreateBr(mergeBB)
	}

	g.b.SetInsertPointAtEnd(elseBB)
	elseTerminated, err := g.lowerStmtList(elseList)
	if err != nil {
		return false, err
	}
	if !elseTerminated {
		if mergeBB.IsNil() {
			mergeBB = llvm.AddBasicBlock(g.fun, "")
		}
		g.b.CreateBr(mergeBB)
	}

	if mergeBB.IsNil() {
		return true, nil
	}
	g.b.SetInsertPointAtEnd(mergeBB)
	return false, nil
}
