package parser

import (
	"github.com/mna/matiria/lang/ast"
	"github.com/mna/matiria/lang/token"
)

// binopPriority gives each binary operator's precedence level, lowest to
// highest: logical operators bind loosest, factors (`*`/`/`/`%`) tightest.
// All binary operators are left-associative, parsed by recursing into the
// right-hand side at priority+1; unary `!`/`-` are right-associative,
// parsed by recursing at the same (unary) priority. Equality is `=`/`!=`:
// `==` is scanned as recognised punctuation but this grammar never
// produces it, the same way the scanned `for` keyword names no statement
// form here.
var binopPriority = map[token.Token]int{
	token.AMPAMP:   1,
	token.PIPEPIPE: 1,
	token.EQ:       2,
	token.NEQ:      2,
	token.LT:       3,
	token.LE:       3,
	token.GT:       3,
	token.GE:       3,
	token.PLUS:     4,
	token.MINUS:    4,
	token.STAR:     5,
	token.SLASH:    5,
	token.PERCENT:  5,
	token.SLASHSLASH: 5,
}

const maxArgs = 255

// minBinopPrio is the lowest level in binopPriority (LOGIC); starting
// precedence-climbing here means every binary operator is eligible at the
// top of an expression.
const minBinopPrio = 1

func (p *parser) parseExpr() ast.Expr {
	return p.parseBinary(minBinopPrio)
}

func (p *parser) parseBinary(minPrio int) ast.Expr {
	return p.parseBinaryFrom(p.parseUnary(), minPrio)
}

// parseBinaryFrom continues precedence-climbing binary parsing given an
// already-parsed left operand; used both by parseBinary and by a statement
// that had to peek past a leading identifier to resolve the
// variable-declaration/expression-statement ambiguity (see stmt.go). The
// loop consumes an operator whose priority is at least minPrio, then
// recurses on the right-hand side at priority+1 so that same-priority
// operators chain left-associatively while a higher-priority operator
// binds tighter within the right operand.
func (p *parser) parseBinaryFrom(left ast.Expr, minPrio int) ast.Expr {
	for {
		prio, ok := binopPriority[p.tok]
		if !ok || prio < minPrio {
			return left
		}
		opTok, op := p.val, p.tok
		p.advance()
		right := p.parseBinary(prio + 1)
		left = &ast.Binary{Left: left, Right: right, OpTok: opTok, Op: op}
	}
}

func (p *parser) parseUnary() ast.Expr {
	if p.tok == token.BANG || p.tok == token.MINUS {
		opTok, op := p.val, p.tok
		p.advance()
		right := p.parseUnary()
		return &ast.Unary{OpTok: opTok, Op: op, Right: right}
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() ast.Expr {
	return p.parsePostfixFrom(p.parseAtom())
}

// parsePostfixFrom chains `(`/`[`/`.` suffixes onto an already-parsed atom.
// It is split out from parsePostfix so a statement that already consumed a
// leading identifier while disambiguating a variable declaration can
// resume suffix parsing without re-reading that token (see stmt.go).
func (p *parser) parsePostfixFrom(atom ast.Expr) ast.Expr {
	for {
		switch p.tok {
		case token.LPAREN:
			atom = p.parseCall(atom)
		case token.LBRACK:
			atom = p.parseSubscript(atom)
		case token.DOT:
			atom = p.parseAccess(atom)
		default:
			return atom
		}
	}
}

func (p *parser) parseAtom() ast.Expr {
	switch p.tok {
	case token.INT, token.FLOAT, token.STRING, token.TRUE, token.FALSE:
		return p.parseLiteral()
	case token.IDENT:
		name := p.val
		p.advance()
		return &ast.Primary{Name: name}
	case token.LPAREN:
		return p.parseGrouping()
	case token.LBRACK:
		return p.parseArrayLiteral()
	case token.LBRACE:
		return p.parseMapLiteral()
	default:
		p.errorExpected(p.val.Pos, "an expression")
		panic(errPanicMode)
	}
}

func (p *parser) parseLiteral() *ast.Literal {
	tok, val := p.tok, p.val
	p.advance()
	return &ast.Literal{Tok: val, Kind: tok}
}

func (p *parser) parseGrouping() *ast.Grouping {
	lparen := p.expect(token.LPAREN)
	inner := p.parseExpr()
	rparen := p.expect(token.RPAREN)
	return &ast.Grouping{Inner: inner, Lparen: lparen, Rparen: rparen}
}

func (p *parser) parseArrayLiteral() *ast.ArrayLiteral {
	lbrack := p.expect(token.LBRACK)
	var elems []ast.Expr
	if p.tok != token.RBRACK {
		elems = append(elems, p.parseExpr())
		for p.tok == token.COMMA {
			p.advance()
			if p.tok == token.RBRACK {
				break
			}
			elems = append(elems, p.parseExpr())
		}
	}
	rbrack := p.expect(token.RBRACK)
	return &ast.ArrayLiteral{Elems: elems, Lbrack: lbrack, Rbrack: rbrack}
}

func (p *parser) parseMapLiteral() *ast.MapLiteral {
	lbrace := p.expect(token.LBRACE)
	var keys, vals []ast.Expr
	parsePair := func() {
		keys = append(keys, p.parseExpr())
		p.expect(token.COLON)
		vals = append(vals, p.parseExpr())
	}
	if p.tok != token.RBRACE {
		parsePair()
		for p.tok == token.COMMA {
			p.advance()
			if p.tok == token.RBRACE {
				break
			}
			parsePair()
		}
	}
	rbrace := p.expect(token.RBRACE)
	return &ast.MapLiteral{Keys: keys, Vals: vals, Lbrace: lbrace, Rbrace: rbrace}
}

func (p *parser) parseCall(callee ast.Expr) *ast.Call {
	lparen := p.expect(token.LPAREN)
	var args []ast.Expr
	if p.tok != token.RPAREN {
		args = append(args, p.parseExpr())
		for p.tok == token.COMMA {
			p.advance()
			if p.tok == token.RPAREN {
				break
			}
			if len(args) == maxArgs {
				p.error(p.val.Pos, "too many arguments (max 255)")
			}
			arg := p.parseExpr()
			if len(args) < maxArgs {
				args = append(args, arg)
			}
		}
	}
	rparen := p.expect(token.RPAREN)
	return &ast.Call{Callee: callee, Args: args, Lparen: lparen, Rparen: rparen}
}

func (p *parser) parseSubscript(obj ast.Expr) *ast.Subscript {
	lbrack := p.expect(token.LBRACK)
	index := p.parseExpr()
	rbrack := p.expect(token.RBRACK)
	return &ast.Subscript{Object: obj, Index: index, Lbrack: lbrack, Rbrack: rbrack}
}

func (p *parser) parseAccess(obj ast.Expr) *ast.Access {
	p.expect(token.DOT)
	fieldTok := p.val
	p.expect(token.IDENT)
	return &ast.Access{Object: obj, Field: &ast.Primary{Name: fieldTok}}
}
