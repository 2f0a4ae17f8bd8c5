package maincmd

import (
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/matiria/lang/machine"
	"github.com/mna/matiria/lang/nativelib"
)

func runRun(stdio mainer.Stdio, filename string) mainer.ExitCode {
	prog, code := compileFile(stdio, filename)
	if prog == nil {
		return code
	}

	pkg := machine.NewPackage(prog)
	nativelib.Register(pkg)

	lim, err := machine.LoadLimits()
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return mainer.ExitCode(3)
	}
	th := machine.NewThread(lim)

	if _, err := machine.Run(th, pkg); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return mainer.ExitCode(3)
	}
	return mainer.Success
}
