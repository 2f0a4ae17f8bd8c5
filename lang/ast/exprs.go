package ast

import (
	"github.com/mna/matiria/lang/token"
	"github.com/mna/matiria/lang/types"
)

// Literal is a constant int, float, string, true or false token.
type Literal struct {
	Tok token.Value
	Kind token.Token // INT, FLOAT, STRING, TRUE or FALSE
	Typ  *types.Type // set by the resolver
}

func (n *Literal) exprNode() {}
func (n *Literal) Span() (token.Pos, token.Pos) { return n.Tok.Pos, n.Tok.Pos }

// Primary is a bare name reference. Sym is nil until the resolver binds it
// to a declaration.
type Primary struct {
	Name token.Value
	Sym  *Symbol
	Typ  *types.Type
}

func (n *Primary) exprNode() {}
func (n *Primary) Span() (token.Pos, token.Pos) { return n.Name.Pos, n.Name.Pos }

// Unary is a prefix `!` or `-` expression.
type Unary struct {
	OpTok token.Value
	Op    token.Token // BANG or MINUS
	Right Expr

	Typ *types.Type // result type: bool for !, Right's type for -
}

func (n *Unary) exprNode() {}
func (n *Unary) Span() (token.Pos, token.Pos) {
	_, end := n.Right.Span()
	return n.OpTok.Pos, end
}

// Binary is an infix arithmetic/relational/logical expression. OperandType
// is the canonical type selecting which opcode variant (int vs float) the
// compiler emits, after implicit promotion has been resolved.
type Binary struct {
	Left, Right Expr
	OpTok       token.Value
	Op          token.Token

	Typ         *types.Type
	OperandType *types.Type
}

func (n *Binary) exprNode() {}
func (n *Binary) Span() (token.Pos, token.Pos) {
	start, _ := n.Left.Span()
	_, end := n.Right.Span()
	return start, end
}

// Grouping is a parenthesized expression, kept distinct so Span() reports
// the parens and so the parser's precedence climbing can treat it as an
// atom.
type Grouping struct {
	Inner          Expr
	Lparen, Rparen token.Pos
}

func (n *Grouping) exprNode() {}
func (n *Grouping) Span() (token.Pos, token.Pos) {
	return n.Lparen, n.Rparen
}

// Call is a function invocation, `callee(args...)`.
type Call struct {
	Callee         Expr
	Args           []Expr
	Lparen, Rparen token.Pos

	Typ *types.Type
}

func (n *Call) exprNode() {}
func (n *Call) Span() (token.Pos, token.Pos) {
	start, _ := n.Callee.Span()
	return start, n.Rparen
}

// Subscript is an `object[index]` expression.
type Subscript struct {
	Object         Expr
	Index          Expr
	Lbrack, Rbrack token.Pos

	Typ *types.Type
}

func (n *Subscript) exprNode() {}
func (n *Subscript) Span() (token.Pos, token.Pos) {
	start, _ := n.Object.Span()
	return start, n.Rbrack
}

// Access is an `object.field` expression on a struct.
type Access struct {
	Object      Expr
	Field       *Primary // bare identifier naming the member
	MemberIndex int

	Typ *types.Type
}

func (n *Access) exprNode() {}
func (n *Access) Span() (token.Pos, token.Pos) {
	start, _ := n.Object.Span()
	_, end := n.Field.Span()
	return start, end
}

// ArrayLiteral is a `[e1, e2, ...]` expression.
type ArrayLiteral struct {
	Elems          []Expr
	Lbrack, Rbrack token.Pos

	Typ *types.Type
}

func (n *ArrayLiteral) exprNode() {}
func (n *ArrayLiteral) Span() (token.Pos, token.Pos) { return n.Lbrack, n.Rbrack }

// MapLiteral is a `{k1: v1, k2: v2, ...}` expression. Keys[i] pairs with
// Vals[i].
type MapLiteral struct {
	Keys, Vals     []Expr
	Lbrace, Rbrace token.Pos

	Typ *types.Type
}

func (n *MapLiteral) exprNode() {}
func (n *MapLiteral) Span() (token.Pos, token.Pos) { return n.Lbrace, n.Rbrace }

// Cast is an implicit numeric promotion inserted by the validator; it is
// not produced directly by the parser.
type Cast struct {
	To    *types.Type
	Inner Expr
}

func (n *Cast) exprNode() {}
func (n *Cast) Span() (token.Pos, token.Pos) { return n.Inner.Span() }
