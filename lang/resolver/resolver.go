// Package resolver implements Matiria's semantic validator: a two-pass walk
// over a parsed Chunk that binds every name to a declaration, assigns
// canonical type pointers to every expression, inserts implicit
// numeric-promotion casts, records closure upvalue captures, and rewrites
// bare assignments to undeclared names into implicit variable declarations.
//
// The scope-chain/upvalue-promotion design (a per-function local-slot
// counter, a lexical block chain capped at each function boundary, and a
// captured name relayed through every intervening closure's own upvalue
// list) uses the same local/cell/free vocabulary as a Starlark-style
// resolver; Matiria's simpler grammar (no labels, classes, defer/catch, or
// module-level variables) lets that machinery shrink to just functions,
// blocks and closures.
package resolver

import (
	"fmt"

	"github.com/mna/matiria/lang/ast"
	"github.com/mna/matiria/lang/scanner"
	"github.com/mna/matiria/lang/token"
	"github.com/mna/matiria/lang/types"
)

// Resolve validates chunk in place, annotating its AST with symbols,
// canonical types and implicit casts. The returned error, if non-nil, is a
// scanner.ErrorList.
func Resolve(fset *token.FileSet, chunk *ast.Chunk, registry *types.Registry) error {
	r := &resolver{
		file:     fset.File(chunk.Name),
		registry: registry,
		globals:  make(map[string]*ast.Symbol),
	}
	r.declareGlobals(chunk)
	r.analyzeGlobals(chunk)
	r.errors.Sort()
	return r.errors.Err()
}

type resolver struct {
	file     *token.File
	registry *types.Registry
	errors   scanner.ErrorList

	globals     map[string]*ast.Symbol
	globalIndex int
}

func (r *resolver) errorf(pos token.Pos, format string, args ...interface{}) {
	r.errors.Add(r.file.Position(pos), fmt.Sprintf(format, args...))
}

// --- pass 1: load globals ---

func (r *resolver) declareGlobals(chunk *ast.Chunk) {
	for _, stmt := range chunk.Block.Stmts {
		switch n := stmt.(type) {
		case *ast.FnDecl:
			r.declareGlobal(n.Sym, "function", true)
		case *ast.NativeFnDecl:
			r.declareGlobal(n.Sym, "native function", true)
		case *ast.StructDecl:
			r.declareGlobal(n.Sym, "struct type", false)
		case *ast.UnionDecl:
			r.declareGlobal(n.Sym, "union type", false)
		}
	}
}

// declareGlobal registers sym under its name in the shared global
// namespace functions, structs and unions all draw from; a duplicate name
// is reported at the redeclaring symbol, with its own kind and the position
// of the first declaration, which also covers native functions being
// overloaded as a case of plain redeclaration. Only
// callables (isRuntimeSlot) occupy a runtime global slot; type names are
// bindings the compiler resolves at compile time.
func (r *resolver) declareGlobal(sym *ast.Symbol, kind string, isRuntimeSlot bool) {
	if prev, ok := r.globals[sym.Name()]; ok {
		r.errorf(sym.Token.Pos, "%s %q already declared (previous declaration at %s)",
			kind, sym.Name(), r.file.Position(prev.Token.Pos))
		return
	}
	if isRuntimeSlot {
		sym.IsGlobal = true
		sym.Index = r.globalIndex
		r.globalIndex++
	}
	r.globals[sym.Name()] = sym
}

// --- pass 2: analyse globals ---

func (r *resolver) analyzeGlobals(chunk *ast.Chunk) {
	for _, stmt := range chunk.Block.Stmts {
		switch n := stmt.(type) {
		case *ast.FnDecl:
			r.analyzeFnDecl(n)
		case *ast.NativeFnDecl:
			r.checkFnTypes(n.Params, n.RetType, n.Start)
		case *ast.StructDecl:
			for _, m := range n.Members {
				r.checkType(n.Start, m.Type)
			}
		case *ast.UnionDecl:
			for _, alt := range n.Alts {
				r.checkType(n.Start, alt)
			}
		}
	}
}

func (r *resolver) analyzeFnDecl(n *ast.FnDecl) {
	fn := newFnCtx(nil, nil)
	r.declareParams(fn, n.Params)
	r.checkFnTypes(n.Params, n.RetType, n.Start)
	if n.Body != nil {
		r.analyzeBlock(fn, n.Body)
	}
}

func (r *resolver) declareParams(fn *fnCtx, params []*ast.Symbol) {
	for _, p := range params {
		p.Assignable = true
		if prev, redeclared := fn.declareLocal(p); redeclared {
			r.errorf(p.Token.Pos, "parameter %q already declared (previous declaration at %s)",
				p.Name(), r.file.Position(prev.Token.Pos))
		}
	}
}

func (r *resolver) checkFnTypes(params []*ast.Symbol, ret *types.Type, retPos token.Pos) {
	for _, p := range params {
		r.checkType(p.Token.Pos, p.Type)
	}
	r.checkType(retPos, ret)
}

// checkType reports an error if t (or one of its component types) is still
// a dangling, never-bound User placeholder, i.e. a type name that was
// referenced but no struct/union declaration in the file ever defined it.
func (r *resolver) checkType(pos token.Pos, t *types.Type) {
	if t == nil {
		return
	}
	u := t.Underlying()
	switch u.Kind {
	case types.User:
		r.errorf(pos, "undefined type: %s", u.Name)
	case types.Array:
		r.checkType(pos, u.Elem)
	case types.Map:
		r.checkType(pos, u.Key)
		r.checkType(pos, u.Val)
		r.checkMapKeyType(pos, u.Key)
	case types.Func:
		for _, p := range u.Params {
			r.checkType(pos, p)
		}
		r.checkType(pos, u.Ret)
	}
}

// checkMapKeyType enforces the restriction that a map key must be bool, int,
// float or string (or any, the key type of an empty map literal): structs
// and arrays have no defined equality/hash and are rejected as a map key at
// validation time rather than at runtime.
func (r *resolver) checkMapKeyType(pos token.Pos, key *types.Type) {
	switch key.Underlying().Kind {
	case types.Bool, types.Int, types.Float, types.String, types.Any:
	default:
		r.errorf(pos, "map key type must be bool, int, float or string, got %s", key)
	}
}

func paramTypes(params []*ast.Symbol) []*types.Type {
	out := make([]*types.Type, len(params))
	for i, p := range params {
		out[i] = p.Type
	}
	return out
}

// --- statements ---

func (r *resolver) analyzeBlock(fn *fnCtx, b *ast.Block) {
	fn.pushScope()
	start := fn.locals
	for i, s := range b.Stmts {
		b.Stmts[i] = r.analyzeStmt(fn, s)
	}
	b.VarCount = fn.locals - start
	fn.locals = start
	fn.popScope()
}

func (r *resolver) analyzeStmt(fn *fnCtx, s ast.Stmt) ast.Stmt {
	switch n := s.(type) {
	case *ast.Scope:
		r.analyzeBlock(fn, n.Block)
		return n

	case *ast.If:
		n.Cond = r.analyzeExpr(fn, n.Cond)
		r.checkCondType(n.Cond)
		n.Then = r.analyzeStmt(fn, n.Then)
		if n.Otherwise != nil {
			n.Otherwise = r.analyzeStmt(fn, n.Otherwise)
		}
		return n

	case *ast.While:
		n.Cond = r.analyzeExpr(fn, n.Cond)
		r.checkCondType(n.Cond)
		n.Body = r.analyzeStmt(fn, n.Body)
		return n

	case *ast.Assignment:
		return r.analyzeAssignment(fn, n)

	case *ast.Return:
		return r.analyzeReturn(fn, n)

	case *ast.CallStmt:
		expr := r.analyzeExpr(fn, n.Call)
		call, ok := expr.(*ast.Call)
		if !ok {
			start, _ := n.Span()
			return &ast.BadStmt{At: start}
		}
		n.Call = call
		return n

	case *ast.VarDecl:
		return r.analyzeVarDecl(fn, n)

	case *ast.ClosureDecl:
		return r.analyzeClosureDecl(fn, n)

	case *ast.NativeFnDecl:
		n.Sym.Type = r.registry.Function(n.RetType, paramTypes(n.Params))
		if prev, redeclared := fn.declareLocal(n.Sym); redeclared {
			r.errorf(n.Sym.Token.Pos, "%q already declared in this block (previous declaration at %s)",
				n.Sym.Name(), r.file.Position(prev.Token.Pos))
		}
		r.checkFnTypes(n.Params, n.RetType, n.Start)
		return n

	case *ast.BadStmt:
		return n

	default:
		panic(fmt.Sprintf("resolver: unexpected stmt %T", s))
	}
}

func (r *resolver) checkCondType(cond ast.Expr) {
	if !r.typeOf(cond).IsNumeric() {
		start, _ := cond.Span()
		r.errorf(start, "condition must be numeric or bool, got %s", r.typeOf(cond))
	}
}

// analyzeAssignment handles plain assignment: an undeclared bare name on
// the left is rewritten into an implicit VarDecl whose type is inferred
// from the right-hand side; otherwise both sides are analysed and the
// right must be assignment-compatible with the left.
func (r *resolver) analyzeAssignment(fn *fnCtx, n *ast.Assignment) ast.Stmt {
	if primary, ok := n.Lhs.(*ast.Primary); ok {
		if _, found := fn.resolve(primary.Name.Raw); !found {
			if _, found = r.globals[primary.Name.Raw]; !found {
				rhs := r.analyzeExpr(fn, n.Rhs)
				rhsType := r.typeOf(rhs)
				if rhsType.IsInvalid() {
					r.errorf(primary.Name.Pos, "cannot infer type: initialiser has no valid type")
				}
				sym := &ast.Symbol{Token: primary.Name, Type: rhsType, Assignable: true}
				fn.declareLocal(sym)
				return &ast.VarDecl{Start: primary.Name.Pos, Sym: sym, Init: rhs}
			}
		}
	}

	n.Lhs = r.analyzeExpr(fn, n.Lhs)
	n.Rhs = r.analyzeExpr(fn, n.Rhs)
	if !r.isAssignableLhs(n.Lhs) {
		start, _ := n.Lhs.Span()
		r.errorf(start, "left side of assignment is not assignable")
		return n
	}

	lt, rt := r.typeOf(n.Lhs), r.typeOf(n.Rhs)
	if ok, needsCast := types.Assignable(lt, rt); ok {
		if needsCast {
			n.Rhs = &ast.Cast{To: lt, Inner: n.Rhs}
		}
	} else {
		start, _ := n.Rhs.Span()
		r.errorf(start, "cannot assign %s to %s", rt, lt)
	}
	return n
}

func (r *resolver) isAssignableLhs(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.Primary:
		return n.Sym != nil && n.Sym.Assignable
	case *ast.Access, *ast.Subscript:
		return true
	default:
		return false
	}
}

// analyzeReturn enforces an exact-identity rule: the returned expression's
// canonical type must equal the enclosing function's declared return type,
// not merely be assignment-compatible with it.
func (r *resolver) analyzeReturn(fn *fnCtx, n *ast.Return) ast.Stmt {
	retType := n.From.RetType
	if n.Expr == nil {
		if retType.Underlying().Kind != types.Void {
			r.errorf(n.Ret, "missing return value, function %q returns %s", n.From.Sym.Name(), retType)
		}
		return n
	}

	n.Expr = r.analyzeExpr(fn, n.Expr)
	et := r.typeOf(n.Expr)
	if et.Underlying() != retType.Underlying() {
		start, _ := n.Expr.Span()
		r.errorf(start, "return type mismatch: function %q returns %s, got %s", n.From.Sym.Name(), retType, et)
	}
	return n
}

// analyzeVarDecl binds a local variable declaration, including the
// struct-typed-without-initialiser lowering to a synthetic constructor
// call.
func (r *resolver) analyzeVarDecl(fn *fnCtx, n *ast.VarDecl) ast.Stmt {
	declType := n.DeclType
	r.checkType(n.Start, declType)

	switch {
	case declType != nil && n.Init == nil && declType.Underlying().Kind == types.Struct:
		structSym := r.globals[declType.Name]
		callee := &ast.Primary{Name: token.Value{Raw: declType.Name, Pos: n.Start}, Typ: declType}
		if structSym != nil {
			callee.Sym = structSym
		}
		n.Init = &ast.Call{Callee: callee, Lparen: n.Start, Rparen: n.Start, Typ: declType}

	case n.Init != nil:
		n.Init = r.analyzeExpr(fn, n.Init)
		if declType == nil {
			initType := r.typeOf(n.Init)
			if initType.IsInvalid() {
				start, _ := n.Init.Span()
				r.errorf(start, "cannot infer type: initialiser has no valid type")
			}
			declType = initType
			n.DeclType = declType
		} else if ok, needsCast := types.Assignable(declType, r.typeOf(n.Init)); ok {
			if needsCast {
				n.Init = &ast.Cast{To: declType, Inner: n.Init}
			}
		} else {
			start, _ := n.Init.Span()
			r.errorf(start, "cannot assign %s to %s", r.typeOf(n.Init), declType)
		}
	}

	n.Sym.Type = declType
	n.Sym.Assignable = true
	if prev, redeclared := fn.declareLocal(n.Sym); redeclared {
		r.errorf(n.Sym.Token.Pos, "%q already declared in this block (previous declaration at %s)",
			n.Sym.Name(), r.file.Position(prev.Token.Pos))
	}
	return n
}

// analyzeClosureDecl binds the closure's name in the surrounding function,
// then analyses its body with a fresh function context whose
// enclosing-closure is this ClosureDecl, so any free-variable reference
// inside registers a capture here.
func (r *resolver) analyzeClosureDecl(fn *fnCtx, n *ast.ClosureDecl) ast.Stmt {
	n.Fn.Sym.Type = r.registry.Function(n.Fn.RetType, paramTypes(n.Fn.Params))
	n.Fn.Sym.Assignable = true
	if prev, redeclared := fn.declareLocal(n.Fn.Sym); redeclared {
		r.errorf(n.Fn.Sym.Token.Pos, "%q already declared in this block (previous declaration at %s)",
			n.Fn.Sym.Name(), r.file.Position(prev.Token.Pos))
	}
	r.checkFnTypes(n.Fn.Params, n.Fn.RetType, n.Fn.Start)

	child := newFnCtx(fn, n)
	r.declareParams(child, n.Fn.Params)
	if n.Fn.Body != nil {
		r.analyzeBlock(child, n.Fn.Body)
	}
	return n
}

// --- expressions ---

func (r *resolver) typeOf(e ast.Expr) *types.Type {
	switch n := e.(type) {
	case *ast.Literal:
		return n.Typ
	case *ast.Primary:
		return n.Typ
	case *ast.Unary:
		return n.Typ
	case *ast.Binary:
		return n.Typ
	case *ast.Grouping:
		return r.typeOf(n.Inner)
	case *ast.Call:
		return n.Typ
	case *ast.Subscript:
		return n.Typ
	case *ast.Access:
		return n.Typ
	case *ast.ArrayLiteral:
		return n.Typ
	case *ast.MapLiteral:
		return n.Typ
	case *ast.Cast:
		return n.To
	default:
		return r.registry.Invalid()
	}
}

func (r *resolver) analyzeExpr(fn *fnCtx, e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case *ast.Literal:
		n.Typ = r.registry.FromToken(n.Kind)
		return n

	case *ast.Primary:
		return r.analyzePrimary(fn, n)

	case *ast.Unary:
		return r.analyzeUnary(fn, n)

	case *ast.Binary:
		return r.analyzeBinary(fn, n)

	case *ast.Grouping:
		n.Inner = r.analyzeExpr(fn, n.Inner)
		return n

	case *ast.Call:
		return r.analyzeCall(fn, n)

	case *ast.Subscript:
		return r.analyzeSubscript(fn, n)

	case *ast.Access:
		return r.analyzeAccess(fn, n)

	case *ast.ArrayLiteral:
		return r.analyzeArrayLiteral(fn, n)

	case *ast.MapLiteral:
		return r.analyzeMapLiteral(fn, n)

	case *ast.Cast, *ast.BadExpr:
		return n

	default:
		panic(fmt.Sprintf("resolver: unexpected expr %T", e))
	}
}

func (r *resolver) analyzePrimary(fn *fnCtx, n *ast.Primary) ast.Expr {
	sym, ok := fn.resolve(n.Name.Raw)
	if !ok {
		sym, ok = r.globals[n.Name.Raw]
	}
	if !ok {
		r.errorf(n.Name.Pos, "undefined: %s", n.Name.Raw)
		return &ast.BadExpr{At: n.Name.Pos}
	}
	n.Sym = sym
	n.Typ = sym.Type
	return n
}

func (r *resolver) analyzeUnary(fn *fnCtx, n *ast.Unary) ast.Expr {
	n.Right = r.analyzeExpr(fn, n.Right)
	rt := r.typeOf(n.Right)
	if n.Op == token.BANG {
		n.Typ = r.registry.Bool()
		return n
	}
	if !rt.IsNumeric() {
		r.errorf(n.OpTok.Pos, "operand of unary - must be numeric, got %s", rt)
		return &ast.BadExpr{At: n.OpTok.Pos}
	}
	n.Typ = rt.Underlying()
	return n
}

func (r *resolver) analyzeBinary(fn *fnCtx, n *ast.Binary) ast.Expr {
	n.Left = r.analyzeExpr(fn, n.Left)
	n.Right = r.analyzeExpr(fn, n.Right)
	lt, rt := r.typeOf(n.Left), r.typeOf(n.Right)

	switch n.Op {
	case token.AMPAMP, token.PIPEPIPE:
		if lt.Underlying().Kind != types.Bool || rt.Underlying().Kind != types.Bool {
			start, _ := n.Span()
			r.errorf(start, "operands of %s must be bool", n.OpTok.Raw)
		}
		n.Typ = r.registry.Bool()
		return n

	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT, token.SLASHSLASH:
		if !lt.IsNumeric() || !rt.IsNumeric() {
			start, _ := n.Span()
			r.errorf(start, "operands of %s must be numeric, got %s and %s", n.OpTok.Raw, lt, rt)
			return &ast.BadExpr{At: start}
		}
		result, castLeft, castRight := types.BinaryNumericResult(lt, rt)
		// % and // are int-only: a float operand still promotes the other
		// operand under the usual rule, but applying % or // to the resulting
		// float type is a semantic error rather than a runtime one.
		if (n.Op == token.PERCENT || n.Op == token.SLASHSLASH) && result.Underlying().Kind != types.Int {
			start, _ := n.Span()
			r.errorf(start, "operator %s requires int operands, got %s and %s", n.OpTok.Raw, lt, rt)
			return &ast.BadExpr{At: start}
		}
		if castLeft {
			n.Left = &ast.Cast{To: result, Inner: n.Left}
		}
		if castRight {
			n.Right = &ast.Cast{To: result, Inner: n.Right}
		}
		n.Typ, n.OperandType = result, result
		return n

	default: // LT, LE, GT, GE, EQ, NEQ
		if !lt.IsNumeric() || !rt.IsNumeric() {
			start, _ := n.Span()
			r.errorf(start, "operands of %s must be numeric, got %s and %s", n.OpTok.Raw, lt, rt)
			return &ast.BadExpr{At: start}
		}
		result, castLeft, castRight := types.BinaryNumericResult(lt, rt)
		if castLeft {
			n.Left = &ast.Cast{To: result, Inner: n.Left}
		}
		if castRight {
			n.Right = &ast.Cast{To: result, Inner: n.Right}
		}
		n.Typ, n.OperandType = r.registry.Bool(), result
		return n
	}
}

func (r *resolver) analyzeCall(fn *fnCtx, n *ast.Call) ast.Expr {
	n.Callee = r.analyzeExpr(fn, n.Callee)
	ct := r.typeOf(n.Callee).Underlying()
	if ct.Kind != types.Func {
		start, _ := n.Span()
		r.errorf(start, "call of non-function (%s)", ct)
		for i := range n.Args {
			n.Args[i] = r.analyzeExpr(fn, n.Args[i])
		}
		return &ast.BadExpr{At: start}
	}

	if len(n.Args) != len(ct.Params) {
		start, _ := n.Span()
		r.errorf(start, "argument count mismatch: want %d, got %d", len(ct.Params), len(n.Args))
	}
	for i := range n.Args {
		n.Args[i] = r.analyzeExpr(fn, n.Args[i])
		if i >= len(ct.Params) {
			continue
		}
		at := r.typeOf(n.Args[i])
		if ok, needsCast := types.Assignable(ct.Params[i], at); ok {
			if needsCast {
				n.Args[i] = &ast.Cast{To: ct.Params[i], Inner: n.Args[i]}
			}
		} else {
			start, _ := n.Args[i].Span()
			r.errorf(start, "argument %d: cannot assign %s to %s", i+1, at, ct.Params[i])
		}
	}
	n.Typ = ct.Ret
	return n
}

func (r *resolver) analyzeSubscript(fn *fnCtx, n *ast.Subscript) ast.Expr {
	n.Object = r.analyzeExpr(fn, n.Object)
	n.Index = r.analyzeExpr(fn, n.Index)
	ot := r.typeOf(n.Object).Underlying()

	switch ot.Kind {
	case types.Array:
		if r.typeOf(n.Index).Underlying().Kind != types.Int {
			start, _ := n.Index.Span()
			r.errorf(start, "array index must be int, got %s", r.typeOf(n.Index))
		}
		n.Typ = ot.Elem
	case types.String:
		// string indexing is validated here (the index must be int) but is a
		// runtime, not semantic, error: the machine rejects every string
		// index operation as unsupported.
		if r.typeOf(n.Index).Underlying().Kind != types.Int {
			start, _ := n.Index.Span()
			r.errorf(start, "string index must be int, got %s", r.typeOf(n.Index))
		}
		n.Typ = r.registry.Int()
	case types.Map:
		if r.typeOf(n.Index).Underlying() != ot.Key.Underlying() {
			start, _ := n.Index.Span()
			r.errorf(start, "map index must be %s, got %s", ot.Key, r.typeOf(n.Index))
		}
		n.Typ = ot.Val
	default:
		start, _ := n.Span()
		r.errorf(start, "subscript of non-array/map (%s)", ot)
		return &ast.BadExpr{At: start}
	}
	return n
}

func (r *resolver) analyzeAccess(fn *fnCtx, n *ast.Access) ast.Expr {
	n.Object = r.analyzeExpr(fn, n.Object)
	ot := r.typeOf(n.Object).Underlying()
	if ot.Kind != types.Struct {
		start, _ := n.Span()
		r.errorf(start, "access of non-struct (%s)", ot)
		return &ast.BadExpr{At: start}
	}

	for _, m := range ot.Members {
		if m.Name == n.Field.Name.Raw {
			n.MemberIndex = m.Index
			n.Typ = m.Type
			return n
		}
	}
	start, _ := n.Span()
	r.errorf(start, "struct %s has no member %q", ot.Name, n.Field.Name.Raw)
	return &ast.BadExpr{At: start}
}

func (r *resolver) analyzeArrayLiteral(fn *fnCtx, n *ast.ArrayLiteral) ast.Expr {
	var elemType *types.Type
	for i, e := range n.Elems {
		n.Elems[i] = r.analyzeExpr(fn, e)
		et := r.typeOf(n.Elems[i])
		if elemType == nil {
			elemType = et
			continue
		}
		if et.Underlying() != elemType.Underlying() {
			start, _ := n.Elems[i].Span()
			r.errorf(start, "array element type mismatch: want %s, got %s", elemType, et)
		}
	}
	if elemType == nil {
		// an empty array literal has no element to infer a type from; treat
		// it as array<any> (spec is silent on this case, see DESIGN.md).
		elemType = r.registry.Any()
	}
	n.Typ = r.registry.Array(elemType)
	return n
}

func (r *resolver) analyzeMapLiteral(fn *fnCtx, n *ast.MapLiteral) ast.Expr {
	var keyType, valType *types.Type
	for i := range n.Keys {
		n.Keys[i] = r.analyzeExpr(fn, n.Keys[i])
		n.Vals[i] = r.analyzeExpr(fn, n.Vals[i])
		kt, vt := r.typeOf(n.Keys[i]), r.typeOf(n.Vals[i])
		if keyType == nil {
			keyType, valType = kt, vt
			continue
		}
		if kt.Underlying() != keyType.Underlying() {
			start, _ := n.Keys[i].Span()
			r.errorf(start, "map key type mismatch: want %s, got %s", keyType, kt)
		}
		if vt.Underlying() != valType.Underlying() {
			start, _ := n.Vals[i].Span()
			r.errorf(start, "map value type mismatch: want %s, got %s", valType, vt)
		}
	}
	if keyType == nil {
		keyType, valType = r.registry.Any(), r.registry.Any()
	} else {
		start, _ := n.Span()
		r.checkMapKeyType(start, keyType)
	}
	n.Typ = r.registry.Map(keyType, valType)
	return n
}
