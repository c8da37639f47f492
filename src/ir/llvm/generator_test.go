package llvm

import (
	"testing"

	"tinygo.org/x/go-llvm"
)

// Testable property: every basic block has exactly one terminator, and it is its last
// instruction — never any earlier one, regardless of how many nested constructs the generator
// walked through to build it.
func TestTerminatorUniqueness(t *testing.T) {
	g := genTestModule(t, `
func classify(n) {
	if n < 0 {
		return 0 - 1;
	} else {
		if n = 0 {
			return 0;
		}
		return 1;
	}
}

range(0, 3) |> for each {
	item |> classify() |> print();
}
`)

	fn := g.m.NamedFunction("classify")
	if fn.IsAFunction().IsNil() {
		t.Fatal("function classify was not declared")
	}

	for _, bb := range allBasicBlocks(fn) {
		instrs := allInstructions(bb)
		if len(instrs) == 0 {
			t.Fatalf("basic block has no instructions at all")
		}
		for i, instr := range instrs {
			term := isTerminator(instr)
			isLast := i == len(instrs)-1
			if term && !isLast {
				t.Errorf("block has a terminator before its last instruction (position %d of %d)", i, len(instrs))
			}
		}
		if !isTerminator(instrs[len(instrs)-1]) {
			t.Errorf("block's last instruction is not a terminator")
		}
	}
}

// Testable property: every alloca lives in its function's entry block, so the allocation
// dominates every later use regardless of which control-flow path reaches it.
func TestAllocationsDominateEntry(t *testing.T) {
	g := genTestModule(t, `
func pick(a, b) {
	result = 0;
	if a > b {
		result = a;
	} else {
		result = b;
	}
	return result;
}
`)

	fn := g.m.NamedFunction("pick")
	if fn.IsAFunction().IsNil() {
		t.Fatal("function pick was not declared")
	}
	entry := fn.EntryBasicBlock()

	for _, bb := range allBasicBlocks(fn) {
		for _, instr := range allInstructions(bb) {
			if instr.IsAAllocaInst().IsNil() {
				continue
			}
			if instr.InstructionParent() != entry {
				t.Errorf("alloca %s found outside entry block", instr.Name())
			}
		}
	}
}

// Testable property: the piped value in effect before lowering a pipeline is restored once
// lowering returns: after a top-level pipeline into a call, no piped value is left set.
func TestPipedValueRestoredAfterPipeline(t *testing.T) {
	g := genTestModule(t, `
func noop(x) {
	return x;
}

5 |> noop();
`)
	if g.piped != nil {
		t.Fatalf("piped value leaked past top level: %v", *g.piped)
	}
}

// Testable property: the scope a for-each loop opens for its loop variable is popped again once
// the loop is lowered, leaving the caller's scope exactly as it was.
func TestForEachScopePoppedAfterLoop(t *testing.T) {
	g := newGenerator(defaultTestOptions(), "test")
	t.Cleanup(g.dispose)
	g.fun = llvm.AddFunction(g.m, "main", llvm.FunctionType(intType, nil, false))
	entry := llvm.AddBasicBlock(g.fun, "")
	g.b.SetInsertPointAtEnd(entry)

	before := g.scope
	root := mustParse(t, `range(0, 2) |> for each { x = item; }`)
	if _, _, err := g.lowerPipeline(root.Children[0]); err != nil {
		t.Fatalf("unexpected error lowering for-each: %s", err)
	}
	if g.scope != before {
		t.Fatal("loop variable scope was not popped after the loop")
	}
}

// Testable property: looking a name up twice in a row yields the same binding both times —
// lookup has no side effect on the scope chain.
func TestIdempotentScopeLookup(t *testing.T) {
	s := newScope(nil)
	s.define("x", llvm.Value{}, intType, false)

	b1, ok1 := s.lookup("x")
	b2, ok2 := s.lookup("x")
	if !ok1 || !ok2 {
		t.Fatal("expected both lookups to succeed")
	}
	if b1 != b2 {
		t.Fatalf("repeated lookups of the same name returned different bindings")
	}
}

// Testable property: defining past a scope's bound capacity is tolerated — the binding is
// dropped rather than the whole compilation failing.
func TestScopeCapacityOverflowIsTolerated(t *testing.T) {
	s := newScope(nil)
	for i := 0; i < scopeCapacity+4; i++ {
		name := string(rune('a' + i))
		s.define(name, llvm.Value{}, intType, false)
	}
	if len(s.bindings) > scopeCapacity {
		t.Fatalf("scope grew past its bound capacity: %d bindings", len(s.bindings))
	}
	if _, ok := s.lookup("a"); !ok {
		t.Fatal("expected the first-defined binding to still be present")
	}
}

// Testable property: a for-each loop's bound check is a half-open interval, start <= i < end —
// the comparison emitted for the loop condition is a strict less-than against the end value, so
// an empty range (start == end) never executes the body.
func TestForEachBoundIsHalfOpen(t *testing.T) {
	g := genTestModule(t, `
range(0, 5) |> for each {
	item |> print();
}
`)
	fn := g.m.NamedFunction("main")
	if fn.IsAFunction().IsNil() {
		t.Fatal("main function missing")
	}

	foundStrictLess := false
	for _, bb := range allBasicBlocks(fn) {
		for _, instr := range allInstructions(bb) {
			if instr.InstructionOpcode() == llvm.ICmp && instr.ICmpPredicate() == llvm.IntSLT {
				foundStrictLess = true
			}
		}
	}
	if !foundStrictLess {
		t.Fatal("expected a strict less-than comparison bounding the for-each loop")
	}
}

// Testable property: an undeclared identifier is a reported line-annotated error, not a panic or
// a silently substituted zero value.
func TestUndeclaredIdentifierIsAnError(t *testing.T) {
	root := mustParse(t, `missing;`)
	g := newGenerator(defaultTestOptions(), "test")
	t.Cleanup(g.dispose)
	g.fun = llvm.AddFunction(g.m, "main", llvm.FunctionType(intType, nil, false))
	entry := llvm.AddBasicBlock(g.fun, "")
	g.b.SetInsertPointAtEnd(entry)

	_, err := g.lowerStmt(root.Children[0])
	if err == nil {
		t.Fatal("expected an error lowering a use of an undeclared identifier")
	}
}

// Testable property: calling a function with the wrong number of arguments is a reported error,
// whether the call is direct or fed by a pipeline's piped value.
func TestCallArityMismatchIsAnError(t *testing.T) {
	g := genTestModule(t, `
func add(a, b) {
	return a + b;
}
`)
	callNode := mustParse(t, `add(1);`)

	_, err := g.lowerCall(callNode.Children[0], nil)
	if err == nil {
		t.Fatal("expected an arity mismatch error calling add with one argument")
	}
}

// Testable property: a short-circuited "and" never evaluates its right operand when the left one
// is already false — a call inside the right operand that would otherwise fail to resolve must
// still be lowered (it sits in a reachable basic block even though it never executes at runtime),
// so the generator still reports the undefined-function error rather than silently skipping it.
func TestShortCircuitRightOperandIsStillLowered(t *testing.T) {
	g := newGenerator(defaultTestOptions(), "test")
	t.Cleanup(g.dispose)
	g.fun = llvm.AddFunction(g.m, "main", llvm.FunctionType(intType, nil, false))
	entry := llvm.AddBasicBlock(g.fun, "")
	g.b.SetInsertPointAtEnd(entry)

	root := mustParse(t, `0 and crash();`)

	_, err := g.lowerStmt(root.Children[0])
	if err == nil {
		t.Fatal("expected an error: crash() is undefined, and short-circuit still lowers the right operand")
	}
}

// Concrete end-to-end scenario (§8): a short-circuited "and" whose right operand calls an
// undefined function still fails to compile, because the right operand is lowered regardless of
// whether it is reachable at runtime — the language does not prune dead code at parse time.
func TestUndefinedCallInShortCircuitFailsCompilation(t *testing.T) {
	g := genTestModule(t, `
func sc(n) {
	return 0 and crash();
}

sc(1) |> print();
`)
	if len(g.errs) == 0 {
		t.Fatal("expected compilation to fail: crash() is never defined")
	}
}
