package parser

import (
	"github.com/mna/matiria/lang/ast"
	"github.com/mna/matiria/lang/token"
)

// parseStmtRecovering parses one statement, recovering from a panic-mode
// error by synchronising to the next safe point and yielding a nil
// statement for the caller to skip: each statement triggers a resync after
// parsing.
func (p *parser) parseStmtRecovering() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if r == errPanicMode {
				p.sync()
				stmt = nil
				return
			}
			panic(r)
		}
	}()
	return p.parseStmt()
}

func (p *parser) parseStmt() ast.Stmt {
	switch {
	case p.tok == token.IF:
		return p.parseIf()
	case p.tok == token.WHILE:
		return p.parseWhile()
	case p.tok == token.RETURN:
		return p.parseReturn()
	case p.tok == token.LBRACE:
		return p.parseScope()
	case p.tok == token.FN:
		return p.parseNestedFn()
	case p.startsType():
		return p.parseVarDecl()
	case p.tok == token.IDENT:
		return p.parseIdentLedStmt()
	default:
		return p.finishExprStmt(p.parseExpr())
	}
}

// parseBraceBlock parses a `{ stmt* }` block, recovering from individual
// statement errors so a single mistake doesn't abort the whole block.
func (p *parser) parseBraceBlock() *ast.Block {
	start := p.expect(token.LBRACE)
	var stmts []ast.Stmt
	for p.tok != token.RBRACE && p.tok != token.EOF {
		if stmt := p.parseStmtRecovering(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	end := p.expect(token.RBRACE)
	return &ast.Block{Stmts: stmts, Start: start, End: end}
}

func (p *parser) parseScope() *ast.Scope {
	return &ast.Scope{Block: p.parseBraceBlock()}
}

// parseStmtOrScope parses the body of an `if`/`while`, which is either a
// single statement or a braced nested scope.
func (p *parser) parseStmtOrScope() ast.Stmt {
	if p.tok == token.LBRACE {
		return p.parseScope()
	}
	return p.parseStmt()
}

func (p *parser) parseIf() *ast.If {
	ifPos := p.expect(token.IF)
	cond := p.parseExpr()
	p.expect(token.COLON)
	then := p.parseStmtOrScope()

	var otherwise ast.Stmt
	if p.tok == token.ELSE {
		p.advance()
		otherwise = p.parseStmtOrScope()
	}
	return &ast.If{If: ifPos, Cond: cond, Then: then, Otherwise: otherwise}
}

func (p *parser) parseWhile() *ast.While {
	whilePos := p.expect(token.WHILE)
	cond := p.parseExpr()
	p.expect(token.COLON)
	body := p.parseStmtOrScope()
	return &ast.While{While: whilePos, Cond: cond, Body: body}
}

func (p *parser) parseReturn() *ast.Return {
	retPos := p.expect(token.RETURN)
	var expr ast.Expr
	if p.tok != token.SEMI {
		expr = p.parseExpr()
	}
	p.expect(token.SEMI)
	return &ast.Return{Ret: retPos, Expr: expr, From: p.enclosingFn}
}

// parseVarDecl parses `TYPE name [:= expr];` when TYPE starts with a
// primitive keyword or a container/function type syntax (`[`/`(`). The
// bare-identifier-type case is handled separately by parseIdentLedStmt,
// since it requires a second token of lookahead to disambiguate from an
// expression-statement.
func (p *parser) parseVarDecl() *ast.VarDecl {
	start := p.val.Pos
	declType := p.parseType()
	nameTok := p.val
	p.expect(token.IDENT)
	sym := &ast.Symbol{Token: nameTok, Type: declType}

	var init ast.Expr
	if p.tok == token.WALRUS {
		p.advance()
		init = p.parseExpr()
	}
	p.expect(token.SEMI)
	return &ast.VarDecl{Start: start, DeclType: declType, Sym: sym, Init: init}
}

// parseIdentLedStmt handles the ambiguity of a statement starting with a
// bare identifier: followed by another identifier it is a
// variable-declaration, otherwise it is an expression-statement. It
// consumes the leading identifier once and decides which continuation to
// use based on the token that follows.
func (p *parser) parseIdentLedStmt() ast.Stmt {
	identTok := p.val
	start := identTok.Pos
	p.advance()

	if p.tok == token.IDENT {
		declType := p.registry.User(identTok.Raw)
		nameTok := p.val
		p.advance()
		sym := &ast.Symbol{Token: nameTok, Type: declType}
		var init ast.Expr
		if p.tok == token.WALRUS {
			p.advance()
			init = p.parseExpr()
		}
		p.expect(token.SEMI)
		return &ast.VarDecl{Start: start, DeclType: declType, Sym: sym, Init: init}
	}

	primary := &ast.Primary{Name: identTok}
	atom := p.parsePostfixFrom(primary)
	expr := p.parseBinaryFrom(atom, minBinopPrio)
	return p.finishExprStmt(expr)
}

// finishExprStmt classifies a fully-parsed expression appearing at
// statement position: an assignment if followed by `:=`, a call-statement
// if it is itself a call, or an error otherwise ("expression has no
// effect").
func (p *parser) finishExprStmt(expr ast.Expr) ast.Stmt {
	if p.tok == token.WALRUS {
		p.advance()
		rhs := p.parseExpr()
		p.expect(token.SEMI)
		return &ast.Assignment{Lhs: expr, Rhs: rhs}
	}
	if call, ok := expr.(*ast.Call); ok {
		p.expect(token.SEMI)
		return &ast.CallStmt{Call: call}
	}
	start, _ := expr.Span()
	p.error(start, "expression has no effect")
	p.expect(token.SEMI)
	return nil
}
