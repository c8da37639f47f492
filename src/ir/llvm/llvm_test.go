package llvm

import (
	"testing"

	"tinygo.org/x/go-llvm"

	ast "flowscriptc/src/ir"
	"flowscriptc/src/frontend"
	"flowscriptc/src/util"
)

// genTestModule parses src and runs it through every code generation phase (§4.7), returning the
// Generator that owns the resulting module so a test can inspect its IR before disposal. Verbose
// mode is left off so lowering errors don't also print their construct trail.
func genTestModule(t *testing.T, src string) *Generator {
	t.Helper()
	root, err := frontend.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	g, err := genModule(util.Options{}, root)
	if err != nil {
		t.Fatalf("genModule error: %s", err)
	}
	t.Cleanup(g.dispose)
	return g
}

// allBasicBlocks returns every basic block of fn in layout order.
func allBasicBlocks(fn llvm.Value) []llvm.BasicBlock {
	var blocks []llvm.BasicBlock
	for bb := fn.FirstBasicBlock(); !bb.IsNil(); bb = llvm.NextBasicBlock(bb) {
		blocks = append(blocks, bb)
	}
	return blocks
}

// allInstructions returns every instruction of bb in layout order.
func allInstructions(bb llvm.BasicBlock) []llvm.Value {
	var instrs []llvm.Value
	for in := bb.FirstInstruction(); !in.IsNil(); in = llvm.NextInstruction(in) {
		instrs = append(instrs, in)
	}
	return instrs
}

// isTerminator reports whether instr ends a basic block: a return or a (conditional) branch, the
// only terminator opcodes this generator ever emits.
func isTerminator(instr llvm.Value) bool {
	switch instr.InstructionOpcode() {
	case llvm.Ret, llvm.Br, llvm.Switch, llvm.Unreachable:
		return true
	default:
		return false
	}
}

// mustParse parses src and returns its StatementList root, failing the test on a parse error.
func mustParse(t *testing.T, src string) *ast.Node {
	t.Helper()
	root, err := frontend.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	return root
}

// defaultTestOptions returns a zero-value Options suitable for tests that build a Generator by
// hand rather than through genTestModule.
func defaultTestOptions() util.Options {
	return util.Options{}
}
