package maincmd

import (
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/matiria/lang/scanner"
	"github.com/mna/matiria/lang/token"
)

func runTokenize(stdio mainer.Stdio, filename string) mainer.ExitCode {
	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return mainer.ExitCode(1)
	}

	fset := token.NewFileSet()
	file := fset.AddFile(filename, -1, len(src))
	toks, err := scanner.ScanAll(file, src)
	for _, tv := range toks {
		pos := file.Position(tv.Value.Pos)
		fmt.Fprintf(stdio.Stdout, "%s: %s", pos, tv.Token)
		if lit := literalText(tv); lit != "" {
			fmt.Fprintf(stdio.Stdout, " %s", lit)
		}
		fmt.Fprintln(stdio.Stdout)
	}
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return mainer.ExitCode(1)
	}
	return mainer.Success
}

// literalText renders the decoded payload of a literal token, empty for
// tokens with no payload beyond their raw source text.
func literalText(tv scanner.TokenAndValue) string {
	switch tv.Token {
	case token.INT:
		return fmt.Sprintf("%d", tv.Value.Int)
	case token.FLOAT:
		return fmt.Sprintf("%g", tv.Value.Float)
	case token.STRING:
		return fmt.Sprintf("%q", tv.Value.String)
	case token.IDENT:
		return tv.Value.Raw
	default:
		return ""
	}
}
