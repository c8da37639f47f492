// Command flowscriptc compiles FlowScript source to LLVM IR.
package main

import (
	"fmt"
	"os"

	"flowscriptc/src/frontend"
	"flowscriptc/src/ir/llvm"
	"flowscriptc/src/util"
)

// run reads source code and drives it through the frontend and code generator, the shape of the
// reference compiler's own run function, trimmed to the single LLVM-only back end this repository
// ships (§6 Driver surface): there is no separate assembler path to fall through to.
func run(opt util.Options) error {
	src, err := util.ReadSource(opt)
	if err != nil {
		return fmt.Errorf("could not read source code: %s", err)
	}

	root, err := frontend.Parse(src)
	if err != nil {
		util.ReportParseError(opt.Src, src, err)
		return fmt.Errorf("parse error")
	}

	if opt.Verbose {
		util.Verbosef(opt, "syntax tree:")
		root.Print(0)
	}

	if err := llvm.GenLLVM(opt, root); err != nil {
		return fmt.Errorf("error reported by code generator: %s", err)
	}
	return nil
}

func main() {
	opt, err := util.ParseArgs()
	if err != nil {
		fmt.Printf("Command line argument error: %s\n", err)
		os.Exit(1)
	}

	if err := run(opt); err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
}
