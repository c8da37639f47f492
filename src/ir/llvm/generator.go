package llvm

import (
	"strings"

	"tinygo.org/x/go-llvm"

	"flowscriptc/src/util"
)

// intType is the scalar type of every FlowScript value: a 32-bit signed integer, the word size
// the reference generator this package is modeled on uses for its own default, non-RISC-V target.
var intType = llvm.Int32Type()

// reservedFunctionNames mirrors the reference generator's reserved-function-name guard: these
// names cannot be redefined as FlowScript functions because the driver and the print bridge
// declare LLVM functions under exactly these names.
var reservedFunctionNames = []string{
	"main",
	"printf",
	"atoi",
	"atof",
}

// Generator holds all of the mutable, single-threaded state threaded through code generation:
// the LLVM context/builder/module, the function and scope currently being lowered into, the
// piped value introduced by the pipe operator, and the innermost loop's continue/break targets.
// Every routine that changes one of these fields saves the prior value and restores it on every
// exit path, including error paths — a save/restore discipline realized with local variables
// rather than an explicit stack, the same way the reference generator threads its builder and
// scope stack through its own gen/genIf/genWhile family of functions.
type Generator struct {
	opt util.Options

	ctx llvm.Context
	b   llvm.Builder
	m   llvm.Module

	fun   llvm.Value // Function currently being lowered into; zero value at module top level.
	scope *Scope      // Innermost scope.
	global *Scope      // The global scope, always the root of every scope chain.

	piped    *llvm.Value      // Current piped value, nil when absent.
	contBB   *llvm.BasicBlock // Current loop's "continue" target, nil outside a loop.
	breakBB  *llvm.BasicBlock // Current loop's "break" target, nil outside a loop.

	formatStrings map[string]llvm.Value // Print format-string globals, materialized once per kind.

	frames util.Stack[string] // Nesting trail of constructs currently being lowered, for diagnostics.

	errs []error // Per-statement lowering errors collected along the way (§7): reported, not fatal.
}

// newGenerator creates a Generator with a fresh context, builder and module named after the
// source file, mirroring GenLLVM's own module-per-compilation setup in the reference generator.
func newGenerator(opt util.Options, moduleName string) *Generator {
	ctx := llvm.NewContext()
	b := ctx.NewBuilder()
	m := ctx.NewModule(moduleName)
	global := newScope(nil)
	return &Generator{
		opt:           opt,
		ctx:           ctx,
		b:             b,
		m:             m,
		scope:         global,
		global:        global,
		formatStrings: make(map[string]llvm.Value),
	}
}

// dispose releases the Generator's LLVM context and builder. The module is left undisposed; the
// caller owns it after generation finishes (to verify, dump, or emit it).
func (g *Generator) dispose() {
	g.b.Dispose()
	g.ctx.Dispose()
}

// currentBlock returns the basic block the builder is currently inserting into.
func (g *Generator) currentBlock() llvm.BasicBlock {
	return g.b.GetInsertBlock()
}

// setPiped sets the current piped value and returns a function that restores the previous one,
// so callers can `defer g.setPiped(v)()`.
func (g *Generator) setPiped(v *llvm.Value) func() {
	prev := g.piped
	g.piped = v
	return func() { g.piped = prev }
}

// pushScope creates a new scope parented at the given scope, installs it as current, and returns
// a function that restores the previous current scope.
func (g *Generator) pushScope(parent *Scope) (*Scope, func()) {
	prev := g.scope
	s := newScope(parent)
	g.scope = s
	return s, func() { g.scope = prev }
}

// setLoopTargets sets the current loop's continue/break blocks and returns a function that
// restores the previous ones, supporting nested loops.
func (g *Generator) setLoopTargets(cont, brk llvm.BasicBlock) func() {
	prevCont, prevBreak := g.contBB, g.breakBB
	g.contBB, g.breakBB = &cont, &brk
	return func() { g.contBB, g.breakBB = prevCont, prevBreak }
}

// pushFrame records that lowering has entered a named construct (a function body, an if, a
// for-each loop, a pipeline) and returns a function that pops it back off on return, so a
// diagnostic raised deep inside nested constructs can report the trail that led to it. This
// reuses util.Stack, the same nesting-trace stack the reference generator threads loop-label
// targets through across its parallel worker goroutines (§5 drops the concurrency, not the shape).
func (g *Generator) pushFrame(label string) func() {
	g.frames.Push(label)
	return func() { g.frames.Pop() }
}

// frameTrail renders the current construct-nesting trail outermost-first, e.g.
// "function add > if > pipeline", for verbose diagnostics.
func (g *Generator) frameTrail() string {
	n := g.frames.Size()
	if n == 0 {
		return "<top level>"
	}
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		e, _ := g.frames.Get(i)
		parts[n-i] = e
	}
	return strings.Join(parts, " > ")
}
