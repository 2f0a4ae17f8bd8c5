package parser_test

import (
	"testing"

	"github.com/mna/matiria/lang/ast"
	"github.com/mna/matiria/lang/parser"
	"github.com/mna/matiria/lang/token"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *ast.Chunk {
	t.Helper()
	fset := token.NewFileSet()
	chunk, _, err := parser.ParseChunk(fset, "test.mat", []byte(src))
	require.NoError(t, err)
	return chunk
}

func globalFn(t *testing.T, chunk *ast.Chunk, name string) *ast.FnDecl {
	t.Helper()
	for _, stmt := range chunk.Block.Stmts {
		if fn, ok := stmt.(*ast.FnDecl); ok && fn.Sym.Name() == name {
			return fn
		}
	}
	t.Fatalf("no global fn named %q", name)
	return nil
}

func TestParseArithmeticPrecedence(t *testing.T) {
	chunk := parse(t, `fn main() -> Int { Int x := 3 + 4 * 2; return x; }`)
	fn := globalFn(t, chunk, "main")
	decl := fn.Body.Stmts[0].(*ast.VarDecl)
	bin := decl.Init.(*ast.Binary)
	require.Equal(t, token.PLUS, bin.Op)
	rhs := bin.Right.(*ast.Binary)
	require.Equal(t, token.STAR, rhs.Op)
}

func TestParseWhileLoopAndAssignment(t *testing.T) {
	chunk := parse(t, `fn main() -> Int {
		Int s := 0;
		Int i := 0;
		while i < 10: { s := s + i; i := i + 1; }
		return s;
	}`)
	fn := globalFn(t, chunk, "main")
	require.Len(t, fn.Body.Stmts, 4)

	loop := fn.Body.Stmts[2].(*ast.While)
	cond := loop.Cond.(*ast.Binary)
	require.Equal(t, token.LT, cond.Op)

	scope := loop.Body.(*ast.Scope)
	require.Len(t, scope.Block.Stmts, 2)
	assign := scope.Block.Stmts[0].(*ast.Assignment)
	_, ok := assign.Lhs.(*ast.Primary)
	require.True(t, ok)
}

func TestParseRecursiveFnWithBlockBody(t *testing.T) {
	chunk := parse(t, `
		fn fib(Int n) -> Int { if n < 2: return n; return fib(n-1) + fib(n-2); }
		fn main() -> Int { return fib(10); }
	`)
	fib := globalFn(t, chunk, "fib")
	require.Len(t, fib.Params, 1)
	require.Equal(t, "n", fib.Params[0].Name())
	ifStmt := fib.Body.Stmts[0].(*ast.If)
	require.Nil(t, ifStmt.Otherwise)
}

func TestParseStructDeclAndAccess(t *testing.T) {
	chunk := parse(t, `
		type Pair := { Int a, Int b }
		fn main() -> Int { Pair p; p.a := 2; p.b := 40; return p.a + p.b; }
	`)
	var structDecl *ast.StructDecl
	for _, stmt := range chunk.Block.Stmts {
		if sd, ok := stmt.(*ast.StructDecl); ok {
			structDecl = sd
		}
	}
	require.NotNil(t, structDecl)
	require.Equal(t, "Pair", structDecl.Sym.Name())
	require.Len(t, structDecl.Members, 2)
	require.Equal(t, "a", structDecl.Members[0].Name)
	require.Equal(t, 0, structDecl.Members[0].Index)

	main := globalFn(t, chunk, "main")
	decl := main.Body.Stmts[0].(*ast.VarDecl)
	require.Nil(t, decl.Init)
	require.Equal(t, "Pair", decl.DeclType.Name)

	assign := main.Body.Stmts[1].(*ast.Assignment)
	access := assign.Lhs.(*ast.Access)
	require.Equal(t, "a", access.Field.Name.Raw)
}

func TestParseArrayLiteralAndSubscript(t *testing.T) {
	chunk := parse(t, `fn main() -> Int { [Int] xs := [10, 20, 30]; return xs[1]; }`)
	main := globalFn(t, chunk, "main")
	decl := main.Body.Stmts[0].(*ast.VarDecl)
	lit := decl.Init.(*ast.ArrayLiteral)
	require.Len(t, lit.Elems, 3)

	ret := main.Body.Stmts[1].(*ast.Return)
	sub := ret.Expr.(*ast.Subscript)
	_, ok := sub.Object.(*ast.Primary)
	require.True(t, ok)
}

func TestParseClosureCreatesClosureDecl(t *testing.T) {
	chunk := parse(t, `
		fn makeAdder(Int x) -> (Int) -> Int { fn add(Int y) -> Int = x + y; return add; }
		fn main() -> Int { (Int) -> Int a := makeAdder(3); return a(4); }
	`)
	makeAdder := globalFn(t, chunk, "makeAdder")
	closure, ok := makeAdder.Body.Stmts[0].(*ast.ClosureDecl)
	require.True(t, ok)
	require.Equal(t, "add", closure.Fn.Sym.Name())
	require.Same(t, closure.Fn, closure.Fn.Body.Stmts[0].(*ast.Return).From)
}

func TestParseNativeFnDeclNoReturnType(t *testing.T) {
	chunk := parse(t, `fn log(String s) ...;`)
	native, ok := chunk.Block.Stmts[0].(*ast.NativeFnDecl)
	require.True(t, ok)
	require.Equal(t, "log", native.Sym.Name())
	require.Len(t, native.Params, 1)
}

func TestParseUnionDecl(t *testing.T) {
	chunk := parse(t, `type IntOrString := [Int|String]`)
	decl, ok := chunk.Block.Stmts[0].(*ast.UnionDecl)
	require.True(t, ok)
	require.Len(t, decl.Alts, 2)
}

func TestExpressionHasNoEffectIsReported(t *testing.T) {
	fset := token.NewFileSet()
	_, _, err := parser.ParseChunk(fset, "test.mat", []byte(`fn main() -> Int { 3 + 4; return 0; }`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "expression has no effect")
}

func TestParseErrorRecoversAtNextStatement(t *testing.T) {
	fset := token.NewFileSet()
	chunk, _, err := parser.ParseChunk(fset, "test.mat", []byte(`fn main() -> Int {
		Int x := ;
		return 0;
	}`))
	require.Error(t, err)
	main := globalFn(t, chunk, "main")
	// the malformed declaration is dropped, but the following return is
	// still recovered and parsed.
	require.Len(t, main.Body.Stmts, 1)
	_, ok := main.Body.Stmts[0].(*ast.Return)
	require.True(t, ok)
}
