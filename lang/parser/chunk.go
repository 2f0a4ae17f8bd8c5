package parser

import (
	"github.com/mna/matiria/lang/ast"
	"github.com/mna/matiria/lang/token"
	"github.com/mna/matiria/lang/types"
)

// parseChunk parses a whole file as a sequence of top-level declarations.
func (p *parser) parseChunk() *ast.Chunk {
	start := p.val.Pos
	var stmts []ast.Stmt
	for p.tok != token.EOF {
		if stmt := p.parseGlobalDeclRecovering(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	eof := p.expect(token.EOF)
	return &ast.Chunk{Block: &ast.Block{Stmts: stmts, Start: start, End: eof}, EOF: eof}
}

func (p *parser) parseGlobalDeclRecovering() (stmt ast.Stmt) {
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
	return p.parseGlobalDecl()
}

func (p *parser) parseGlobalDecl() ast.Stmt {
	switch p.tok {
	case token.FN:
		return p.parseFnDecl()
	case token.TYPE:
		return p.parseTypeDecl()
	default:
		p.errorExpected(p.val.Pos, "a function or type declaration")
		panic(errPanicMode)
	}
}

// parseFnDecl parses `fn name(params) -> R body` where body is a braced
// block, `= expr;` sugar for a single return, or `...;` for a native
// function with no body.
func (p *parser) parseFnDecl() ast.Stmt {
	start := p.expect(token.FN)
	nameTok := p.val
	p.expect(token.IDENT)
	sym := &ast.Symbol{Token: nameTok}
	params := p.parseParams()

	retType := p.registry.Void()
	if p.tok == token.ARROW {
		p.advance()
		retType = p.parseType()
	}

	fn := &ast.FnDecl{Start: start, Sym: sym, Params: params, RetType: retType}
	switch p.tok {
	case token.ELLIPSIS:
		p.advance()
		end := p.expect(token.SEMI)
		return &ast.NativeFnDecl{Start: start, End: end, Sym: sym, Params: params, RetType: retType}

	case token.EQ:
		p.advance()
		expr := p.parseExpr()
		end := p.expect(token.SEMI)
		fn.Body = &ast.Block{
			Stmts: []ast.Stmt{&ast.Return{Ret: start, Expr: expr, From: fn}},
			Start: start,
			End:   end,
		}

	case token.LBRACE:
		prevFn, prevDepth := p.enclosingFn, p.funcDepth
		p.enclosingFn, p.funcDepth = fn, prevDepth+1
		fn.Body = p.parseBraceBlock()
		p.enclosingFn, p.funcDepth = prevFn, prevDepth

	default:
		p.errorExpected(p.val.Pos, "a function body")
		panic(errPanicMode)
	}
	return fn
}

// parseNestedFn parses a `fn` declaration found inside a function body,
// wrapping it as a ClosureDecl; a native function declared at nested scope
// is passed through unwrapped since it captures nothing.
func (p *parser) parseNestedFn() ast.Stmt {
	decl := p.parseFnDecl()
	if fn, ok := decl.(*ast.FnDecl); ok {
		return &ast.ClosureDecl{Fn: fn}
	}
	return decl
}

func (p *parser) parseParams() []*ast.Symbol {
	p.expect(token.LPAREN)
	var params []*ast.Symbol
	if p.tok != token.RPAREN {
		params = append(params, p.parseParam())
		for p.tok == token.COMMA {
			p.advance()
			if p.tok == token.RPAREN {
				break
			}
			if len(params) == maxArgs {
				p.error(p.val.Pos, "too many parameters (max 255)")
			}
			param := p.parseParam()
			if len(params) < maxArgs {
				params = append(params, param)
			}
		}
	}
	p.expect(token.RPAREN)
	return params
}

func (p *parser) parseParam() *ast.Symbol {
	typ := p.parseType()
	nameTok := p.val
	p.expect(token.IDENT)
	return &ast.Symbol{Token: nameTok, Type: typ}
}

// parseTypeDecl parses `type Name := [A|B|…]` (union) or `type Name := {
// T1 a, T2 b, … }` (struct); neither form takes a trailing `;` since the
// closing bracket/brace ends the declaration.
func (p *parser) parseTypeDecl() ast.Stmt {
	start := p.expect(token.TYPE)
	nameTok := p.val
	p.expect(token.IDENT)
	p.expect(token.WALRUS)

	switch p.tok {
	case token.LBRACK:
		return p.parseUnionDecl(start, nameTok)
	case token.LBRACE:
		return p.parseStructDecl(start, nameTok)
	default:
		p.errorExpected(p.val.Pos, "'[' or '{'")
		panic(errPanicMode)
	}
}

func (p *parser) parseUnionDecl(start token.Pos, nameTok token.Value) *ast.UnionDecl {
	p.expect(token.LBRACK)
	var alts []*types.Type
	alts = append(alts, p.parseType())
	for p.tok == token.PIPE {
		p.advance()
		alts = append(alts, p.parseType())
	}
	end := p.expect(token.RBRACK)

	typ := p.registry.Union(nameTok.Raw, alts)
	sym := &ast.Symbol{Token: nameTok, Type: typ}
	return &ast.UnionDecl{Start: start, End: end, Sym: sym, Alts: alts}
}

func (p *parser) parseStructDecl(start token.Pos, nameTok token.Value) *ast.StructDecl {
	p.expect(token.LBRACE)
	var members []types.Member
	parseMember := func() {
		memberType := p.parseType()
		memberName := p.val
		p.expect(token.IDENT)
		members = append(members, types.Member{Name: memberName.Raw, Index: len(members), Type: memberType})
	}
	if p.tok != token.RBRACE {
		parseMember()
		for p.tok == token.COMMA {
			p.advance()
			if p.tok == token.RBRACE {
				break
			}
			parseMember()
		}
	}
	end := p.expect(token.RBRACE)

	typ := p.registry.Struct(nameTok.Raw, members)
	sym := &ast.Symbol{Token: nameTok, Type: typ}
	return &ast.StructDecl{Start: start, End: end, Sym: sym, Members: members}
}
