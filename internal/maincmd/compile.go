package maincmd

import (
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/matiria/lang/compiler"
	"github.com/mna/matiria/lang/parser"
	"github.com/mna/matiria/lang/token"
)

func runCompileCmd(stdio mainer.Stdio, filename string) mainer.ExitCode {
	prog, code := compileFile(stdio, filename)
	if prog == nil {
		return code
	}
	for _, fn := range prog.Functions {
		fmt.Fprintf(stdio.Stdout, "-- %s --\n", fn.Name)
		for _, line := range compiler.Disassemble(prog, fn) {
			fmt.Fprintln(stdio.Stdout, line)
		}
	}
	return mainer.Success
}

// compileFile runs the full front end (parse, resolve, compile) on
// filename, returning the compiled program or the exit code of whichever
// phase failed first.
func compileFile(stdio mainer.Stdio, filename string) (*compiler.Program, mainer.ExitCode) {
	fset := token.NewFileSet()
	chunk, reg, err := parser.ParseFile(fset, filename)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return nil, mainer.ExitCode(1)
	}
	if err := resolveChunk(fset, chunk, reg); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return nil, mainer.ExitCode(2)
	}
	return compiler.Compile(chunk), mainer.Success
}
