package parser

import (
	"github.com/mna/matiria/lang/token"
	"github.com/mna/matiria/lang/types"
)

// parseType parses one type expression: a primitive keyword, `[T]` (array),
// `[K,V]` (map), `(T, …) -> R` (function), or a bare identifier naming a
// struct/union, calling straight into the registry so the resulting
// *types.Type is already canonical.
func (p *parser) parseType() *types.Type {
	switch {
	case p.tok.IsPrimitiveType():
		tok := p.tok
		p.advance()
		return p.registry.FromToken(tok)

	case p.tok == token.IDENT:
		name := p.val.Raw
		p.advance()
		return p.registry.User(name)

	case p.tok == token.LBRACK:
		return p.parseArrayOrMapType()

	case p.tok == token.LPAREN:
		return p.parseFuncType()

	default:
		p.errorExpected(p.val.Pos, "a type")
		panic(errPanicMode)
	}
}

func (p *parser) parseArrayOrMapType() *types.Type {
	p.expect(token.LBRACK)
	first := p.parseType()
	if p.tok == token.COMMA {
		p.advance()
		val := p.parseType()
		p.expect(token.RBRACK)
		return p.registry.Map(first, val)
	}
	p.expect(token.RBRACK)
	return p.registry.Array(first)
}

func (p *parser) parseFuncType() *types.Type {
	p.expect(token.LPAREN)
	var params []*types.Type
	if p.tok != token.RPAREN {
		params = append(params, p.parseType())
		for p.tok == token.COMMA {
			p.advance()
			params = append(params, p.parseType())
		}
	}
	p.expect(token.RPAREN)
	p.expect(token.ARROW)
	ret := p.parseType()
	return p.registry.Function(ret, params)
}

// startsType reports whether the current token can begin a type expression,
// used to disambiguate a variable declaration from an expression-statement:
// a bare identifier followed by another identifier triggers
// variable-declaration parsing.
func (p *parser) startsType() bool {
	return p.tok.IsPrimitiveType() || p.tok == token.LBRACK || p.tok == token.LPAREN
}
