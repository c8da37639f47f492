package llvm

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	ast "flowscriptc/src/ir"
	"flowscriptc/src/util"
)

const stringPrefix = "L_STR"

// lowerPrint lowers a PrintCall node (§4.6): a variadic bridge to a host-provided printf-style
// function, declared lazily on first use exactly as the reference generator declares printf
// lazily on its own first print statement. piped is the pipeline coordinator's current piped
// value (§4.4); it is used only when the print call carries no explicit argument of its own.
func (g *Generator) lowerPrint(n *ast.Node, piped *llvm.Value) error {
	pf := g.m.NamedFunction("printf")
	if pf.IsAFunction().IsNil() {
		pf = g.declarePrintf()
	}

	var arg llvm.Value
	switch {
	case n.Children[0] != nil:
		val, err := g.lowerExpr(n.Children[0])
		if err != nil {
			return err
		}
		arg = val
	case piped != nil:
		arg = *piped
	default:
		return fmt.Errorf("line %d: print has no explicit or piped argument", n.Line)
	}

	format, extra := g.printFormat(arg)

	args := make([]llvm.Value, 0, 2)
	args = append(args, g.formatString(format))
	if !extra.IsNil() {
		args = append(args, extra)
	}
	g.b.CreateCall(pf, args, "")
	return nil
}

// printFormat selects the printf format string for v's IR type (§4.6) and returns the (possibly
// widened) argument value to pass alongside it. The "anything else" fallback emits a literal line
// with no extra argument, signaled by returning the zero Value.
func (g *Generator) printFormat(v llvm.Value) (string, llvm.Value) {
	t := v.Type()
	switch {
	case t == intType:
		return "%d\n", v
	case t.TypeKind() == llvm.IntegerTypeKind && t.IntTypeWidth() < 32:
		// A 1-bit comparison or short-circuit result is widened so printf's %d reads a full int.
		return "%d\n", g.b.CreateZExt(v, intType, "")
	case t == llvm.FloatType():
		return "%f\n", g.b.CreateFPExt(v, llvm.DoubleType(), "")
	case t == llvm.DoubleType():
		return "%f\n", v
	case t.TypeKind() == llvm.PointerTypeKind && t.ElementType() == llvm.Int8Type():
		return "%s\n", v
	default:
		util.ReportGenWarning(0, "print argument has a type unhandled by print")
		return "Value(type_unhandled_by_print)\n", llvm.Value{}
	}
}

// formatString returns the cached global for the given literal format string, materializing it
// once per distinct kind rather than once per print call.
func (g *Generator) formatString(format string) llvm.Value {
	if s, ok := g.formatStrings[format]; ok {
		return s
	}
	s := g.b.CreateGlobalStringPtr(format, stringPrefix)
	g.formatStrings[format] = s
	return s
}

// declarePrintf declares the variadic host printf(i8*, ...) -> i32 function.
func (g *Generator) declarePrintf() llvm.Value {
	params := []llvm.Type{llvm.PointerType(llvm.Int8Type(), 0)}
	fnType := llvm.FunctionType(llvm.Int32Type(), params, true)
	return llvm.AddFunction(g.m, "printf", fnType)
}
