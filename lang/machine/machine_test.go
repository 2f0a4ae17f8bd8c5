package machine_test

import (
	"testing"

	"github.com/mna/matiria/lang/compiler"
	"github.com/mna/matiria/lang/machine"
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

func runSource(t *testing.T, src string) (machine.Value, error) {
	t.Helper()
	prog := compileProgram(t, src)
	pkg := machine.NewPackage(prog)
	th := machine.NewThread(machine.Limits{MaxStackDepth: 1024, MaxCallDepth: 128, MaxSteps: 1_000_000})
	return machine.Run(th, pkg)
}

func TestRunArithmeticExpression(t *testing.T) {
	v, err := runSource(t, `fn main() -> Int { return 3 + 4 * 2; }`)
	require.NoError(t, err)
	require.Equal(t, int64(11), v.AsInt())
}

func TestRunWhileLoopSum(t *testing.T) {
	v, err := runSource(t, `
		fn main() -> Int {
			Int sum := 0;
			Int i := 1;
			while i < 10: { sum := sum + i; i := i + 1; }
			return sum;
		}
	`)
	require.NoError(t, err)
	require.Equal(t, int64(45), v.AsInt())
}

func TestRunRecursiveFib(t *testing.T) {
	v, err := runSource(t, `
		fn fib(Int n) -> Int {
			if n < 2: { return n; }
			return fib(n - 1) + fib(n - 2);
		}
		fn main() -> Int { return fib(10); }
	`)
	require.NoError(t, err)
	require.Equal(t, int64(55), v.AsInt())
}

func TestRunStructFieldSum(t *testing.T) {
	v, err := runSource(t, `
		type Pair := { Int a, Int b }
		fn main() -> Int {
			Pair p;
			p.a := 2;
			p.b := 40;
			return p.a + p.b;
		}
	`)
	require.NoError(t, err)
	require.Equal(t, int64(42), v.AsInt())
}

func TestRunArrayIndex(t *testing.T) {
	v, err := runSource(t, `
		fn main() -> Int {
			[Int] a := [10, 20, 30];
			return a[1];
		}
	`)
	require.NoError(t, err)
	require.Equal(t, int64(20), v.AsInt())
}

func TestRunClosureAdder(t *testing.T) {
	v, err := runSource(t, `
		fn makeAdder(Int x) -> (Int) -> Int {
			fn adder(Int y) -> Int = x + y;
			return adder;
		}
		fn main() -> Int {
			(Int) -> Int add3 := makeAdder(3);
			return add3(4);
		}
	`)
	require.NoError(t, err)
	require.Equal(t, int64(7), v.AsInt())
}

func TestRunDivisionByZeroIsFatal(t *testing.T) {
	_, err := runSource(t, `fn main() -> Int { Int z := 0; return 1 / z; }`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "division by zero")
}

func TestRunArrayOutOfRangeIsFatal(t *testing.T) {
	_, err := runSource(t, `
		fn main() -> Int {
			[Int] a := [1, 2];
			return a[5];
		}
	`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "index out of range")
}

func TestRunMapKeyNotFoundIsFatal(t *testing.T) {
	_, err := runSource(t, `
		fn main() -> Int {
			[String,Int] m := {'a': 1};
			return m['missing'];
		}
	`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "key not found")
}

func TestRunMissingMainIsStartTimeError(t *testing.T) {
	prog := compileProgram(t, `fn notMain() -> Int { return 0; }`)
	pkg := machine.NewPackage(prog)
	th := machine.NewThread(machine.Limits{MaxStackDepth: 256, MaxCallDepth: 64, MaxSteps: 1000})
	_, err := machine.Run(th, pkg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no main")
}

func TestRunNativeFunctionBinding(t *testing.T) {
	prog := compileProgram(t, `
		fn double(Int n) -> Int ...;
		fn main() -> Int { return double(21); }
	`)
	pkg := machine.NewPackage(prog)
	machine.RegisterNative(pkg, "double", func(th *machine.Thread, args []machine.Value) (machine.Value, error) {
		return machine.Int(args[0].AsInt() * 2), nil
	})
	th := machine.NewThread(machine.Limits{MaxStackDepth: 256, MaxCallDepth: 64, MaxSteps: 1000})
	v, err := machine.Run(th, pkg)
	require.NoError(t, err)
	require.Equal(t, int64(42), v.AsInt())
}

func TestRunUnregisteredNativeIsStartTimeError(t *testing.T) {
	prog := compileProgram(t, `
		fn double(Int n) -> Int ...;
		fn main() -> Int { return double(21); }
	`)
	pkg := machine.NewPackage(prog)
	th := machine.NewThread(machine.Limits{MaxStackDepth: 256, MaxCallDepth: 64, MaxSteps: 1000})
	_, err := machine.Run(th, pkg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no native implementation")
}

func TestRunStringIndexingIsUnsupported(t *testing.T) {
	_, err := runSource(t, `
		fn main() -> Int {
			String s := 'hi';
			return s[0];
		}
	`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "string indexing is unsupported")
}

func TestRunStackOverflowIsFatal(t *testing.T) {
	prog := compileProgram(t, `
		fn loop(Int n) -> Int { return loop(n + 1); }
		fn main() -> Int { return loop(0); }
	`)
	pkg := machine.NewPackage(prog)
	th := machine.NewThread(machine.Limits{MaxStackDepth: 4096, MaxCallDepth: 32, MaxSteps: 10_000_000})
	_, err := machine.Run(th, pkg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "stack overflow")
}
