package ast

import (
	"github.com/mna/matiria/lang/token"
	"github.com/mna/matiria/lang/types"
)

// Block is a sequence of statements that introduces a lexical scope.
// VarCount is filled by the resolver: the number of VarDecls created
// directly inside this block, used by the compiler to emit POP_V at scope
// exit.
type Block struct {
	Stmts      []Stmt
	VarCount   int
	Start, End token.Pos
}

func (n *Block) stmtNode() {}
func (n *Block) Span() (token.Pos, token.Pos) { return n.Start, n.End }

// Scope wraps a braced `{ ... }` block appearing as a single statement
// (as opposed to a function body or the chunk's top-level block), so the
// parser and resolver can tell "a nested lexical scope" apart from the
// other places a Block is used.
type Scope struct {
	Block *Block
}

func (n *Scope) stmtNode() {}
func (n *Scope) Span() (token.Pos, token.Pos) { return n.Block.Span() }

// If is `if cond: then [else otherwise]`.
type If struct {
	If        token.Pos
	Cond      Expr
	Then      Stmt
	Otherwise Stmt // nil if there is no else clause
}

func (n *If) stmtNode() {}
func (n *If) Span() (token.Pos, token.Pos) {
	if n.Otherwise != nil {
		_, end := n.Otherwise.Span()
		return n.If, end
	}
	_, end := n.Then.Span()
	return n.If, end
}

// While is `while cond: body`.
type While struct {
	While token.Pos
	Cond  Expr
	Body  Stmt
}

func (n *While) stmtNode() {}
func (n *While) Span() (token.Pos, token.Pos) {
	_, end := n.Body.Span()
	return n.While, end
}

// Assignment is `lhs := rhs`. The resolver rewrites this into a VarDecl in
// place of the statement when lhs is an undeclared Primary, an implicit
// variable declaration.
type Assignment struct {
	Lhs, Rhs Expr
}

func (n *Assignment) stmtNode() {}
func (n *Assignment) Span() (token.Pos, token.Pos) {
	start, _ := n.Lhs.Span()
	_, end := n.Rhs.Span()
	return start, end
}

// Return is `return [expr];`. From is always bound to the enclosing
// FnDecl by the parser.
type Return struct {
	Ret  token.Pos
	Expr Expr // nil for a bare `return;`
	From *FnDecl
}

func (n *Return) stmtNode() {}
func (n *Return) Span() (token.Pos, token.Pos) {
	if n.Expr != nil {
		_, end := n.Expr.Span()
		return n.Ret, end
	}
	return n.Ret, n.Ret
}

// CallStmt is an expression-statement whose expression is a call, whose
// result is discarded.
type CallStmt struct {
	Call *Call
}

func (n *CallStmt) stmtNode() {}
func (n *CallStmt) Span() (token.Pos, token.Pos) { return n.Call.Span() }

// VarDecl declares a new local or global variable. DeclType is nil when the
// type is inferred from Init (only reachable through the implicit
// declaration rewrite of Assignment, since the explicit grammar form always
// names a type).
type VarDecl struct {
	Start    token.Pos
	DeclType *types.Type // declared type, or nil to infer from Init
	Sym      *Symbol
	Init     Expr // nil if no initialiser
}

func (n *VarDecl) stmtNode() {}
func (n *VarDecl) Span() (token.Pos, token.Pos) {
	if n.Init != nil {
		_, end := n.Init.Span()
		return n.Start, end
	}
	return n.Start, n.Sym.Token.Pos
}

// FnDecl is a function declaration with a body. A fn with a `...` body is
// represented as a NativeFnDecl instead.
type FnDecl struct {
	Start   token.Pos
	Sym     *Symbol
	Params  []*Symbol
	RetType *types.Type
	Body    *Block
}

func (n *FnDecl) stmtNode() {}
func (n *FnDecl) Span() (token.Pos, token.Pos) {
	if n.Body != nil {
		_, end := n.Body.Span()
		return n.Start, end
	}
	return n.Start, n.Start
}

// NativeFnDecl is a `fn name(...) -> R ...;` declaration with no body,
// implemented by the host runtime.
type NativeFnDecl struct {
	Start   token.Pos
	End     token.Pos
	Sym     *Symbol
	Params  []*Symbol
	RetType *types.Type
}

func (n *NativeFnDecl) stmtNode() {}
func (n *NativeFnDecl) Span() (token.Pos, token.Pos) { return n.Start, n.End }

// UpvalueSlot describes one captured variable of a closure: the index into
// either the enclosing function's locals (IsLocal true) or its own upvalue
// list (IsLocal false, chaining through an outer closure).
type UpvalueSlot struct {
	Index   int
	IsLocal bool
}

// ClosureDecl wraps a FnDecl declared inside another function body,
// carrying the list of variables it captures from enclosing scopes.
type ClosureDecl struct {
	Fn        *FnDecl
	Upvalues  []UpvalueSlot
}

func (n *ClosureDecl) stmtNode() {}
func (n *ClosureDecl) Span() (token.Pos, token.Pos) { return n.Fn.Span() }

// StructDecl is `type Name := { T1 a, T2 b, ... }`.
type StructDecl struct {
	Start   token.Pos
	End     token.Pos
	Sym     *Symbol
	Members []types.Member
}

func (n *StructDecl) stmtNode() {}
func (n *StructDecl) Span() (token.Pos, token.Pos) { return n.Start, n.End }

// UnionDecl is `type Name := [A | B | ...]`.
type UnionDecl struct {
	Start token.Pos
	End   token.Pos
	Sym   *Symbol
	Alts  []*types.Type
}

func (n *UnionDecl) stmtNode() {}
func (n *UnionDecl) Span() (token.Pos, token.Pos) { return n.Start, n.End }
