package resolver

import "github.com/mna/matiria/lang/ast"

// scope is one lexical block within a single function: a name table plus a
// link to the enclosing block. The chain never crosses a function boundary
// directly — see fnCtx.parent for that — so a lookup that exhausts a
// scope chain has definitively failed to find a local.
type scope struct {
	parent *scope
	vars   map[string]*ast.Symbol
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: make(map[string]*ast.Symbol)}
}

func (s *scope) declare(sym *ast.Symbol) (prev *ast.Symbol, redeclared bool) {
	if prev, ok := s.vars[sym.Name()]; ok {
		return prev, true
	}
	s.vars[sym.Name()] = sym
	return nil, false
}

func (s *scope) lookup(name string) (*ast.Symbol, bool) {
	for b := s; b != nil; b = b.parent {
		if sym, ok := b.vars[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// fnCtx tracks one function body being analysed: its local-slot counter,
// reset to zero for each new function body, its current (innermost)
// lexical scope, and — for a function nested inside another (a
// ClosureDecl) — the enclosing fnCtx and the destination upvalue list to
// register captures into.
type fnCtx struct {
	parent  *fnCtx
	closure *ast.ClosureDecl // nil for a top-level (non-capturing) function

	cur    *scope
	locals int

	// upvalues dedupes captured names to their already-assigned slot in
	// closure.Upvalues, so duplicate references reuse the same slot,
	// alongside the synthesized Symbol handed out for every Primary that
	// references the capture.
	upvalues map[string]*ast.Symbol
}

func newFnCtx(parent *fnCtx, closure *ast.ClosureDecl) *fnCtx {
	fn := &fnCtx{parent: parent, closure: closure}
	fn.cur = newScope(nil)
	if closure != nil {
		fn.upvalues = make(map[string]*ast.Symbol)
	}
	return fn
}

func (fn *fnCtx) pushScope() { fn.cur = newScope(fn.cur) }
func (fn *fnCtx) popScope()  { fn.cur = fn.cur.parent }

// declareLocal binds sym in the function's current scope at the next local
// slot, returning the previous declaration if name is already bound
// directly in this scope — a redeclaration is an error that points at the
// previous definition.
func (fn *fnCtx) declareLocal(sym *ast.Symbol) (prev *ast.Symbol, redeclared bool) {
	if prev, ok := fn.cur.declare(sym); ok {
		return prev, true
	}
	sym.Index = fn.locals
	fn.locals++
	return nil, false
}

// resolve looks up name, first among this function's own locals, then —
// recursively — as an upvalue captured from an enclosing function. Each
// function on the chain between the declaring function and fn registers
// its own upvalue slot, so a capture two closures deep relays through the
// intermediate closure's upvalue list rather than reaching past it; each
// slot's is-local flag records whether it comes from the immediately
// enclosing function or is itself an upvalue chained through.
func (fn *fnCtx) resolve(name string) (*ast.Symbol, bool) {
	if sym, ok := fn.cur.lookup(name); ok {
		return sym, true
	}
	if fn.parent == nil {
		return nil, false
	}
	if sym, ok := fn.upvalues[name]; ok {
		return sym, true
	}
	outer, ok := fn.parent.resolve(name)
	if !ok {
		return nil, false
	}
	isLocal := !outer.IsUpvalue
	idx := len(fn.closure.Upvalues)
	fn.closure.Upvalues = append(fn.closure.Upvalues, ast.UpvalueSlot{Index: outer.Index, IsLocal: isLocal})

	sym := &ast.Symbol{Token: outer.Token, Type: outer.Type, Index: idx, IsUpvalue: true, Assignable: outer.Assignable}
	fn.upvalues[name] = sym
	return sym, true
}
