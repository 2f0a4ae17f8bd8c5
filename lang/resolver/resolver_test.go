package resolver_test

import (
	"testing"

	"github.com/mna/matiria/lang/ast"
	"github.com/mna/matiria/lang/parser"
	"github.com/mna/matiria/lang/resolver"
	"github.com/mna/matiria/lang/token"
	"github.com/mna/matiria/lang/types"
	"github.com/stretchr/testify/require"
)

func resolve(t *testing.T, src string) (*ast.Chunk, *types.Registry, error) {
	t.Helper()
	fset := token.NewFileSet()
	chunk, reg, err := parser.ParseChunk(fset, "test.mat", []byte(src))
	require.NoError(t, err)
	err = resolver.Resolve(fset, chunk, reg)
	return chunk, reg, err
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

func TestResolveGlobalRedeclarationReportsPreviousLocation(t *testing.T) {
	_, _, err := resolve(t, `
		fn f() -> Int = 1;
		fn f() -> Int = 2;
	`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already declared")
}

func TestResolveArithmeticPromotionInsertsCast(t *testing.T) {
	chunk, _, err := resolve(t, `fn main() -> Float {
		Int i := 1;
		Float f := 2.0;
		return i + f;
	}`)
	require.NoError(t, err)
	fn := globalFn(t, chunk, "main")
	ret := fn.Body.Stmts[2].(*ast.Return)
	bin := ret.Expr.(*ast.Binary)
	require.Equal(t, types.Float, bin.Typ.Kind)
	cast, ok := bin.Left.(*ast.Cast)
	require.True(t, ok, "left operand should be wrapped in an implicit cast")
	require.Equal(t, types.Float, cast.To.Kind)
	_, ok = bin.Right.(*ast.Cast)
	require.False(t, ok, "already-float right operand needs no cast")
}

func TestResolveUndeclaredAssignmentBecomesVarDecl(t *testing.T) {
	chunk, _, err := resolve(t, `fn main() -> Int { x := 5; return x; }`)
	require.NoError(t, err)
	fn := globalFn(t, chunk, "main")
	decl, ok := fn.Body.Stmts[0].(*ast.VarDecl)
	require.True(t, ok, "bare assignment to an undeclared name rewrites to a VarDecl")
	require.Equal(t, "x", decl.Sym.Name())
	require.Equal(t, types.Int, decl.Sym.Type.Kind)
}

func TestResolveReturnTypeMismatchIsReported(t *testing.T) {
	_, _, err := resolve(t, `fn main() -> Int { return 'nope'; }`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "return type mismatch")
}

func TestResolveStructVarDeclWithoutInitLowersToConstructorCall(t *testing.T) {
	chunk, _, err := resolve(t, `
		type Pair := { Int a, Int b }
		fn main() -> Int { Pair p; return p.a; }
	`)
	require.NoError(t, err)
	fn := globalFn(t, chunk, "main")
	decl := fn.Body.Stmts[0].(*ast.VarDecl)
	call, ok := decl.Init.(*ast.Call)
	require.True(t, ok, "a struct-typed var decl with no initialiser lowers to a constructor call")
	require.Len(t, call.Args, 0)
	callee := call.Callee.(*ast.Primary)
	require.Equal(t, "Pair", callee.Name.Raw)
}

func TestResolveUpvalueCaptureChainsThroughIntermediateClosure(t *testing.T) {
	chunk, _, err := resolve(t, `
		fn outer() -> () -> Int {
			Int a := 1;
			fn middle() -> () -> Int {
				fn inner() -> Int = a;
				return inner;
			}
			return middle();
		}
	`)
	require.NoError(t, err)
	outer := globalFn(t, chunk, "outer")
	middleDecl := outer.Body.Stmts[1].(*ast.ClosureDecl)
	innerDecl := middleDecl.Fn.Body.Stmts[0].(*ast.ClosureDecl)

	require.Len(t, middleDecl.Upvalues, 1)
	require.True(t, middleDecl.Upvalues[0].IsLocal, "middle captures a directly enclosing local")

	require.Len(t, innerDecl.Upvalues, 1)
	require.False(t, innerDecl.Upvalues[0].IsLocal, "inner's capture relays through middle's own upvalue slot")
}

func TestResolveUndefinedNameIsReported(t *testing.T) {
	_, _, err := resolve(t, `fn main() -> Int { return y; }`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "undefined: y")
}

func TestResolveModuloOnFloatIsRejected(t *testing.T) {
	_, _, err := resolve(t, `fn main() -> Float { return 1.0 % 2.0; }`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "requires int operands")
}

func TestResolveFloorDivOnIntIsAccepted(t *testing.T) {
	_, _, err := resolve(t, `fn main() -> Int { return 7 // 2; }`)
	require.NoError(t, err)
}

func TestResolveMapWithStructKeyIsRejected(t *testing.T) {
	_, _, err := resolve(t, `
		type Pair := { Int a, Int b }
		fn main() -> Int { [Pair, Int] m; return 0; }
	`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "map key type must be")
}

func TestResolveStringIndexIsAcceptedAtValidationTime(t *testing.T) {
	chunk, _, err := resolve(t, `fn main() -> Int {
		String s := 'hi';
		return s[0];
	}`)
	require.NoError(t, err)
	fn := globalFn(t, chunk, "main")
	ret := fn.Body.Stmts[1].(*ast.Return)
	sub := ret.Expr.(*ast.Subscript)
	require.Equal(t, types.Int, sub.Typ.Kind)
}

func TestResolveLetInferenceRejectsInvalidInitializer(t *testing.T) {
	_, _, err := resolve(t, `fn main() -> Int { x := y; return 0; }`)
	require.Error(t, err)
}
