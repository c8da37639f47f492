package llvm

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	ast "flowscriptc/src/ir"
	"flowscriptc/src/util"
)

// declareFunctionHeader builds a FunctionDef node's IR signature, adds it to the module, and
// registers its handle in the global scope — regardless of where the definition textually
// appears — without lowering its body. Splitting header declaration from body lowering, as the
// reference generator's genFuncHeader/genFuncBody split does, lets a function call a sibling
// defined later in the same source file.
func (g *Generator) declareFunctionHeader(n *ast.Node) error {
	name := n.Data.(string)
	for _, reserved := range reservedFunctionNames {
		if name == reserved {
			return fmt.Errorf("line %d: %q is a reserved function name", n.Line, name)
		}
	}
	if _, exists := g.global.lookup(name); exists {
		return fmt.Errorf("line %d: duplicate declaration of function %q", n.Line, name)
	}

	paramNames := n.Children[0]
	paramTypes := make([]llvm.Type, len(paramNames.Children))
	for i1 := range paramTypes {
		paramTypes[i1] = intType
	}
	fnType := llvm.FunctionType(intType, paramTypes, false)
	fn := llvm.AddFunction(g.m, name, fnType)
	g.global.defineFunction(name, fn, fnType)
	return nil
}

// lowerFunctionBody lowers a FunctionDef node's body (§4.3) into the function previously declared
// by declareFunctionHeader. It runs in a fresh scope parented at global — never the scope the
// definition was encountered in — so functions never capture their lexically enclosing locals.
func (g *Generator) lowerFunctionBody(n *ast.Node) error {
	name := n.Data.(string)
	popFrame := g.pushFrame("function " + name)
	defer popFrame()

	binding, ok := g.global.lookup(name)
	if !ok || !binding.IsFunction {
		return fmt.Errorf("line %d: function %q has no declared header", n.Line, name)
	}
	fn := binding.Handle
	paramNames := n.Children[0]

	savedBlock := g.currentBlock()
	savedFun := g.fun
	savedScope := g.scope

	g.fun = fn
	bodyScope, restoreScope := g.pushScope(g.global)

	entry := llvm.AddBasicBlock(fn, "")
	g.b.SetInsertPointAtEnd(entry)

	for i1, param := range fn.Params() {
		paramName := paramNames.Children[i1].Data.(string)
		slot := g.b.CreateAlloca(intType, paramName)
		g.b.CreateStore(param, slot)
		bodyScope.define(paramName, slot, intType, true)
	}

	terminated, err := g.lowerStmtList(n.Children[1])
	if err != nil {
		restoreScope()
		g.fun, g.scope = savedFun, savedScope
		if !savedBlock.IsNil() {
			g.b.SetInsertPointAtEnd(savedBlock)
		}
		return err
	}
	if !terminated {
		g.b.CreateRet(llvm.ConstInt(intType, 0, true))
	}

	if err := llvm.VerifyFunction(fn, llvm.PrintMessageAction); err != nil {
		util.ReportGenWarning(n.Line, "function %q failed IR verification: %s", name, err)
	}

	restoreScope()
	g.fun, g.scope = savedFun, savedScope
	if !savedBlock.IsNil() {
		g.b.SetInsertPointAtEnd(savedBlock)
	}
	return nil
}

// lowerCall lowers a FunctionCall node (§4.3). The callee is resolved in the global scope only —
// FlowScript has a single flat function namespace. When leading is non-nil (the pipeline
// coordinator threading a piped value in, §4.4) it becomes the first actual argument; the
// remaining actual argument count must then make up the rest of the callee's formal parameters
// exactly, same as an unpiped call must match exactly.
func (g *Generator) lowerCall(n *ast.Node, leading *llvm.Value) (llvm.Value, error) {
	name := n.Data.(string)
	binding, ok := g.global.lookup(name)
	if !ok || !binding.IsFunction {
		return llvm.Value{}, fmt.Errorf("line %d: call of unknown function %q", n.Line, name)
	}
	fn := binding.Handle

	explicitArgs := n.Children[0].Children
	actual := make([]llvm.Value, 0, len(explicitArgs)+1)
	if leading != nil {
		actual = append(actual, *leading)
	}
	for _, argNode := range explicitArgs {
		val, err := g.lowerExpr(argNode)
		if err != nil {
			return llvm.Value{}, err
		}
		actual = append(actual, val)
	}

	want := len(fn.Params())
	if len(actual) != want {
		return llvm.Value{}, fmt.Errorf("line %d: function %q expects %d parameter(s), got %d",
			n.Line, name, want, len(actual))
	}
	return g.b.CreateCall(fn, actual, ""), nil
}
