package maincmd

import (
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/matiria/lang/parser"
	"github.com/mna/matiria/lang/token"
)

func runParse(stdio mainer.Stdio, filename string) mainer.ExitCode {
	fset := token.NewFileSet()
	chunk, _, err := parser.ParseFile(fset, filename)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return mainer.ExitCode(1)
	}
	dumpNode(stdio.Stdout, filename, chunk)
	return mainer.Success
}

func runResolve(stdio mainer.Stdio, filename string) mainer.ExitCode {
	fset := token.NewFileSet()
	chunk, reg, err := parser.ParseFile(fset, filename)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return mainer.ExitCode(1)
	}
	if err := resolveChunk(fset, chunk, reg); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return mainer.ExitCode(2)
	}
	fmt.Fprintln(stdio.Stdout, "ok")
	return mainer.Success
}
