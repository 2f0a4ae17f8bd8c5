package ast

import "github.com/mna/matiria/lang/token"

// BadExpr stands in for an expression sub-tree that failed validation and
// was pruned, replaced by this null placeholder. It carries no semantic
// value; the compiler must never reach one in a successfully validated
// tree.
type BadExpr struct {
	At token.Pos
}

func (n *BadExpr) exprNode() {}
func (n *BadExpr) Span() (token.Pos, token.Pos) { return n.At, n.At }

// BadStmt is the statement-level counterpart of BadExpr.
type BadStmt struct {
	At token.Pos
}

func (n *BadStmt) stmtNode() {}
func (n *BadStmt) Span() (token.Pos, token.Pos) { return n.At, n.At }
