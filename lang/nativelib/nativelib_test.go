package nativelib_test

import (
	"testing"

	"github.com/mna/matiria/lang/compiler"
	"github.com/mna/matiria/lang/machine"
	"github.com/mna/matiria/lang/nativelib"
	"github.com/mna/matiria/lang/parser"
	"github.com/mna/matiria/lang/resolver"
	"github.com/mna/matiria/lang/token"
	"github.com/stretchr/testify/require"
)

func compileProgram(t *testing.T, src string) *compiler.Program {
	t.Helper()
	fset := token.NewFileSet()
	chunk, reg, err := parser.ParseChunk(fset, "test.mat", []byte(src))
	require.NoError(t, err)
	require.NoError(t, resolver.Resolve(fset, chunk, reg))
	return compiler.Compile(chunk)
}

func TestRegisterLenOverArray(t *testing.T) {
	prog := compileProgram(t, `
		fn len([Int] a) -> Int ...;
		fn main() -> Int {
			[Int] a := [1, 2, 3, 4];
			return len(a);
		}
	`)
	pkg := machine.NewPackage(prog)
	nativelib.Register(pkg)
	th := machine.NewThread(machine.Limits{MaxStackDepth: 256, MaxCallDepth: 64, MaxSteps: 1000})
	v, err := machine.Run(th, pkg)
	require.NoError(t, err)
	require.Equal(t, int64(4), v.AsInt())
}

func TestRegisterStrOverInt(t *testing.T) {
	prog := compileProgram(t, `
		fn str(Int n) -> String ...;
		fn main() -> String { return str(42); }
	`)
	pkg := machine.NewPackage(prog)
	nativelib.Register(pkg)
	th := machine.NewThread(machine.Limits{MaxStackDepth: 256, MaxCallDepth: 64, MaxSteps: 1000})
	v, err := machine.Run(th, pkg)
	require.NoError(t, err)
	require.Equal(t, "42", string(v.AsString().Bytes))
}
