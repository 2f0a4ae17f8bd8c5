package compiler_test

import (
	"strings"
	"testing"

	"github.com/mna/matiria/lang/compiler"
	"github.com/mna/matiria/lang/parser"
	"github.com/mna/matiria/lang/resolver"
	"github.com/mna/matiria/lang/token"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, src string) *compiler.Program {
	t.Helper()
	fset := token.NewFileSet()
	chunk, reg, err := parser.ParseChunk(fset, "test.mat", []byte(src))
	require.NoError(t, err)
	require.NoError(t, resolver.Resolve(fset, chunk, reg))
	return compiler.Compile(chunk)
}

func funcByName(t *testing.T, prog *compiler.Program, name string) *compiler.Chunk {
	t.Helper()
	for _, fn := range prog.Functions {
		if fn.Name == name {
			return fn
		}
	}
	t.Fatalf("no compiled function named %q", name)
	return nil
}

func TestCompileArithmeticEmitsIntOpcodes(t *testing.T) {
	prog := compile(t, `fn main() -> Int { return 1 + 2 * 3; }`)
	fn := funcByName(t, prog, "main")
	lines := compiler.Disassemble(prog, fn)
	require.Equal(t, []string{
		"0000 int 1",
		"0009 int 2",
		"0018 int 3",
		"0027 mul_i",
		"0028 add_i",
		"0029 return",
		"0030 nil",
		"0031 return",
	}, lines)
}

func TestCompileIfElsePatchesBothJumps(t *testing.T) {
	prog := compile(t, `fn main() -> Int {
		Int x := 0;
		if x = 0: { x := 1; } else { x := 2; }
		return x;
	}`)
	fn := funcByName(t, prog, "main")
	lines := compiler.Disassemble(prog, fn)

	// the else-branch jump (jmp_z) must land exactly on the first
	// instruction of the else body, and the then-branch's unconditional
	// jmp must land exactly past the else body.
	var jmpZLine, jmpLine string
	for _, l := range lines {
		if jmpZLine == "" && len(l) > 10 && l[5:10] == "jmp_z" {
			jmpZLine = l
		}
		if jmpLine == "" && len(l) > 9 && l[5:9] == "jmp " {
			jmpLine = l
		}
	}
	require.NotEmpty(t, jmpZLine)
	require.NotEmpty(t, jmpLine)
	require.Contains(t, jmpZLine, "(-> 40)")
	require.Contains(t, lines, "0040 int 2")
	require.Contains(t, jmpLine, "(-> 52)")
	require.Contains(t, lines, "0052 get 0")
}

func TestCompileWhileLoopCondJumpsShareExitTarget(t *testing.T) {
	prog := compile(t, `fn main() -> Int {
		Int i := 0;
		while i < 3: { i := i + 1; }
		return i;
	}`)
	fn := funcByName(t, prog, "main")
	lines := compiler.Disassemble(prog, fn)

	// both jmp_z instructions emitted for a while loop's two cond
	// evaluations must converge on the same target address: the
	// instruction right after the loop's backward jmp.
	var exits []string
	for _, l := range lines {
		if len(l) > 10 && l[5:10] == "jmp_z" {
			idx := strings.Index(l, "(-> ")
			require.NotEqual(t, -1, idx)
			exits = append(exits, l[idx:])
		}
	}
	require.Len(t, exits, 2)
	require.Equal(t, exits[0], exits[1])
}

func TestCompileShortCircuitAndDoesNotDoublePop(t *testing.T) {
	prog := compile(t, `fn main() -> Bool {
		Bool a := true;
		Bool b := false;
		return a && b;
	}`)
	fn := funcByName(t, prog, "main")
	lines := compiler.Disassemble(prog, fn)

	// no explicit pop should follow the "and" jump: the opcode itself
	// consumes the left operand on the fallthrough path.
	for i, l := range lines {
		if len(l) > 8 && l[5:8] == "and" {
			require.Less(t, i+1, len(lines))
			require.NotContains(t, lines[i+1], "pop")
		}
	}
}

func TestCompileStructDeclGetsDedicatedConstructorChunk(t *testing.T) {
	prog := compile(t, `
		type Pair := { Int a, Int b }
		fn main() -> Int { Pair p; return p.a; }
	`)
	ctor := funcByName(t, prog, "Pair.ctor")
	lines := compiler.Disassemble(prog, ctor)
	require.Equal(t, []string{
		"0000 int 0",
		"0009 int 0",
		"0018 constructor 2",
		"0020 return",
	}, lines)

	main := funcByName(t, prog, "main")
	mainLines := compiler.Disassemble(prog, main)
	require.Contains(t, mainLines[0], "closure")
	require.Contains(t, mainLines[1], "call 0")
}

func TestCompileClosureEmitsUpvalueDescriptors(t *testing.T) {
	prog := compile(t, `
		fn outer() -> () -> Int {
			Int a := 1;
			fn inner() -> Int = a;
			return inner;
		}
	`)
	outer := funcByName(t, prog, "outer")
	lines := compiler.Disassemble(prog, outer)

	var closureLine string
	for _, l := range lines {
		if len(l) >= 12 && l[5:12] == "closure" {
			closureLine = l
		}
	}
	require.Contains(t, closureLine, "local=true")

	inner := funcByName(t, prog, "inner")
	require.Len(t, inner.Upvalues, 1)
	require.True(t, inner.Upvalues[0].IsLocal)
}

func TestCompileNativeFnGetsGlobalSlotWithoutChunk(t *testing.T) {
	prog := compile(t, `
		fn log(String msg) ...;
		fn main() -> Int { return 0; }
	`)
	var slot *compiler.GlobalSlot
	for i, g := range prog.Globals {
		if g.Name == "log" {
			slot = &prog.Globals[i]
		}
	}
	require.NotNil(t, slot)
	require.True(t, slot.IsNative)
}

func TestCompileStringLiteralIsInterned(t *testing.T) {
	prog := compile(t, `fn main() -> String {
		String a := 'hi';
		String b := 'hi';
		return a;
	}`)
	// two occurrences of the same literal must share one slot in the pool.
	require.Equal(t, "hi", string(prog.Strings))
}
