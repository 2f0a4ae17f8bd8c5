// Package ast defines the abstract syntax tree produced by the parser and
// annotated in place by the resolver. Node variants are tagged structs
// implementing small marker interfaces rather than a single
// discriminated-union type; see DESIGN.md.
package ast

import "github.com/mna/matiria/lang/token"

// Node is implemented by every AST node.
type Node interface {
	// Span reports the start and end source position of the node.
	Span() (start, end token.Pos)
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Chunk is the root of a parsed source file: a top-level Block plus the
// file's name and EOF position (kept so an empty file still has a valid
// span).
type Chunk struct {
	Name  string
	Block *Block
	EOF   token.Pos
}

func (n *Chunk) Span() (token.Pos, token.Pos) {
	if n.Block != nil {
		return n.Block.Span()
	}
	return n.EOF, n.EOF
}
