// Package parser implements the Pratt-style expression and statement parser
// that turns a Matiria token stream into an abstract syntax tree, building
// initial type references through a shared type registry as it goes. A
// single mutable parser struct is advanced one token at a time, with
// panic-mode error recovery via a sentinel value recovered at the statement
// boundary, and scanner.ErrorList for diagnostic accumulation; see
// DESIGN.md.
package parser

import (
	"errors"
	"os"
	"strings"

	"github.com/mna/matiria/lang/ast"
	"github.com/mna/matiria/lang/scanner"
	"github.com/mna/matiria/lang/token"
	"github.com/mna/matiria/lang/types"
)

// ParseFile reads and parses a single Matiria source file, returning its
// Chunk, the shared type registry populated while parsing it, and any
// accumulated errors as a scanner.ErrorList.
func ParseFile(fset *token.FileSet, filename string) (*ast.Chunk, *types.Registry, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, err
	}
	return ParseChunk(fset, filename, src)
}

// ParseChunk parses a single chunk from src, registering it in fset under
// filename for position reporting. The error, if non-nil, is a
// scanner.ErrorList.
func ParseChunk(fset *token.FileSet, filename string, src []byte) (*ast.Chunk, *types.Registry, error) {
	var p parser
	p.registry = types.NewRegistry()
	p.init(fset, filename, src)
	chunk := p.parseChunk()
	chunk.Name = filename
	p.errors.Sort()
	return chunk, p.registry, p.errors.Err()
}

// parser holds all mutable state for one parse of a single file.
type parser struct {
	scanner  scanner.Scanner
	errors   scanner.ErrorList
	file     *token.File
	registry *types.Registry

	tok token.Token
	val token.Value

	// enclosingFn is the FnDecl whose body is currently being parsed, used to
	// bind Return.From; nil at global scope.
	enclosingFn *ast.FnDecl
	// funcDepth counts nested function bodies; a `fn` parsed while funcDepth >
	// 0 is a ClosureDecl rather than a plain FnDecl.
	funcDepth int
}

func (p *parser) init(fset *token.FileSet, filename string, src []byte) {
	p.file = fset.AddFile(filename, -1, len(src))
	p.scanner.Init(p.file, src, p.errors.Add)
	p.advance()
}

// advance reads the next non-comment token into p.tok/p.val.
func (p *parser) advance() {
	p.tok = p.scanner.Scan(&p.val)
	for p.tok == token.COMMENT {
		p.tok = p.scanner.Scan(&p.val)
	}
}

// errPanicMode is recovered at the nearest statement/declaration boundary.
var errPanicMode = errors.New("panic")

// expect consumes and returns the position of the current token if it
// matches one of toks; otherwise it records an error and panics with
// errPanicMode, to be recovered higher up the call stack.
func (p *parser) expect(toks ...token.Token) token.Pos {
	pos := p.val.Pos
	for _, tok := range toks {
		if p.tok == tok {
			p.advance()
			return pos
		}
	}
	p.errorExpected(pos, describeToks(toks))
	panic(errPanicMode)
}

// at reports whether the current token is one of toks, without consuming.
func (p *parser) at(toks ...token.Token) bool {
	for _, tok := range toks {
		if p.tok == tok {
			return true
		}
	}
	return false
}

func describeToks(toks []token.Token) string {
	if len(toks) == 1 {
		return toks[0].GoString()
	}
	var sb strings.Builder
	sb.WriteString("one of ")
	for i, tok := range toks {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(tok.GoString())
	}
	return sb.String()
}

func (p *parser) error(pos token.Pos, msg string) {
	p.errors.Add(p.file.Position(pos), msg)
}

func (p *parser) errorExpected(pos token.Pos, what string) {
	msg := "expected " + what
	if pos == p.val.Pos {
		msg += ", found " + p.tok.GoString()
	}
	p.error(pos, msg)
}

// isSyncTok reports whether the current token is a safe synchronisation
// point after a parse error: the start of a statement or declaration.
func (p *parser) isSyncTok() bool {
	if p.tok.IsPrimitiveType() {
		return true
	}
	switch p.tok {
	case token.EOF, token.TYPE, token.FN, token.IF, token.WHILE, token.LBRACE, token.RBRACE:
		return true
	}
	return false
}

// sync advances past tokens until a synchronisation point is reached,
// consuming a trailing ';' if that's what ends the recovery, but leaving
// any other sync token unconsumed so the caller can resume parsing there.
func (p *parser) sync() {
	for !p.isSyncTok() {
		if p.tok == token.SEMI {
			p.advance()
			return
		}
		p.advance()
	}
}
