package util

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"
)

// ReportParseError prints a caret-style diagnostic for a participle parse error against the
// original source text, the same rendition the kanso front end in this project's reference pool
// uses for its own syntax errors. Errors that aren't participle.Error (a build failure in the
// parser itself, for instance) fall back to a plain colored line.
func ReportParseError(filename, src string, err error) {
	pe, ok := err.(participle.Error)
	if !ok {
		color.Red("Error: %s", err)
		return
	}

	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		color.Red("Syntax error at unknown location: %s", err)
		return
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", pos.Column-1) + "^"

	color.Red("Syntax error in %s at line %d, column %d:", filename, pos.Line, pos.Column)
	fmt.Println(line)
	color.HiRed(caret)
	fmt.Printf("-> %s\n", pe.Message())
}

// ReportGenError prints a diagnostic for an error raised while lowering the syntax tree to LLVM
// IR. Unlike parse errors these carry only a source line, not a column, since they are raised
// against already-built AST nodes rather than a live token position.
func ReportGenError(line int, err error) {
	if line > 0 {
		color.Red("Error: line %d: %s", line, err)
	} else {
		color.Red("Error: %s", err)
	}
}

// ReportGenWarning prints a non-fatal diagnostic raised while lowering the syntax tree to LLVM IR,
// the yellow counterpart to ReportGenError for conditions that don't abort generation: a type
// mismatch in an assignment (stored as-is, without a cast), a function or module that fails IR verification, a print
// argument of a type the generator falls back on. A line of 0 means the warning isn't anchored to
// a particular source line (a whole-module verification failure, say).
func ReportGenWarning(line int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if line > 0 {
		color.Yellow("Warning: line %d: %s", line, msg)
	} else {
		color.Yellow("Warning: %s", msg)
	}
}

// Verbosef logs a verbose diagnostic line to stdout in cyan, gated on Options.Verbose so callers
// don't need to guard every call site with an if statement.
func Verbosef(opt Options, format string, args ...interface{}) {
	if !opt.Verbose {
		return
	}
	color.Cyan(format, args...)
}
