// Package scanner implements the lexical scanner that turns Matiria source
// text into a stream of tokens for the parser.
//
// The overall structure (rune-at-a-time advance/peek, an Init/Scan split,
// and an error-accumulation type in the shape of go/scanner's) is adapted
// from a sibling scripting-language scanner; see DESIGN.md.
package scanner

import (
	"fmt"

	"github.com/mna/matiria/lang/token"
)

// TokenAndValue combines a scanned token kind with its value payload.
type TokenAndValue struct {
	Token token.Token
	Value token.Value
}

// ScanAll tokenizes the full contents of a single file and returns every
// token, including the trailing EOF. Lexical errors are accumulated and
// returned as a scanner.ErrorList; the scanner itself never fails, it just
// reports invalid tokens to the caller.
func ScanAll(file *token.File, src []byte) ([]TokenAndValue, error) {
	var (
		s      Scanner
		errs   ErrorList
		tokVal token.Value
	)
	s.Init(file, src, errs.Add)

	var out []TokenAndValue
	for {
		tok := s.Scan(&tokVal)
		out = append(out, TokenAndValue{Token: tok, Value: tokVal})
		if tok == token.EOF {
			break
		}
	}
	errs.Sort()
	return out, errs.Err()
}

// Scanner tokenizes a source file for the parser to consume.
type Scanner struct {
	// immutable after Init
	file *token.File
	src  []byte
	err  func(pos token.Position, msg string)

	// mutable scanning state
	cur  rune // current character; -1 at end of input
	off  int  // byte offset of cur
	roff int  // byte offset following cur
}

// Init prepares the scanner to tokenize src, which must be exactly
// file.Size() bytes long.
func (s *Scanner) Init(file *token.File, src []byte, errHandler func(token.Position, string)) {
	if file.Size() != len(src) {
		panic(fmt.Sprintf("file size (%d) does not match src len (%d)", file.Size(), len(src)))
	}
	s.file = file
	s.src = src
	s.err = errHandler
	s.cur = ' '
	s.off = 0
	s.roff = 0
	s.advance()
}

func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

// advance reads the next byte into s.cur; s.cur < 0 means end of input.
func (s *Scanner) advance() {
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		if s.cur == '\n' {
			s.file.AddLine(s.off)
		}
		s.cur = -1
		return
	}

	s.off = s.roff
	if s.cur == '\n' {
		s.file.AddLine(s.off)
	}

	s.cur = rune(s.src[s.roff])
	s.roff++
}

// advanceIf advances and returns true if the current char equals b.
func (s *Scanner) advanceIf(b byte) bool {
	if s.cur == rune(b) {
		s.advance()
		return true
	}
	return false
}

func (s *Scanner) error(off int, msg string) {
	if s.err != nil {
		s.err(s.file.Position(s.file.Pos(off)), msg)
	}
}

func (s *Scanner) errorf(off int, format string, args ...any) {
	s.error(off, fmt.Sprintf(format, args...))
}

// Scan returns the next token in the source file, populating tokVal with
// its position and, for literal kinds, its decoded value. Scan is
// idempotent at EOF: once the end of input is reached, every subsequent
// call returns token.EOF again.
func (s *Scanner) Scan(tokVal *token.Value) (tok token.Token) {
	s.skipWhitespace()

	pos := s.file.Pos(s.off)
	start := s.off

	switch cur := s.cur; {
	case isLetter(cur):
		lit := s.ident()
		tok = token.LookupKw(lit)
		*tokVal = token.Value{Raw: lit, Pos: pos}

	case isDigit(cur) || (cur == '.' && isDigit(rune(s.peek()))):
		tok, *tokVal = s.number(pos)

	case cur == '#':
		lit := s.comment()
		tok = token.COMMENT
		*tokVal = token.Value{Raw: lit, Pos: pos}

	case cur == '\'':
		lit, val := s.shortString(start)
		tok = token.STRING
		*tokVal = token.Value{Raw: lit, Pos: pos, String: val}

	case cur < 0:
		tok = token.EOF
		*tokVal = token.Value{Raw: "", Pos: pos}

	default:
		s.advance() // always make progress
		switch cur {
		case ',':
			tok = token.COMMA
		case ';':
			tok = token.SEMI
		case '(':
			tok = token.LPAREN
		case ')':
			tok = token.RPAREN
		case '[':
			tok = token.LBRACK
		case ']':
			tok = token.RBRACK
		case '{':
			tok = token.LBRACE
		case '}':
			tok = token.RBRACE
		case '+':
			tok = token.PLUS
		case '%':
			tok = token.PERCENT
		case '*':
			tok = token.STAR

		case ':':
			tok = token.COLON
			if s.advanceIf('=') {
				tok = token.WALRUS
			}

		case '-':
			tok = token.MINUS
			if s.advanceIf('>') {
				tok = token.ARROW
			}

		case '/':
			tok = token.SLASH
			if s.advanceIf('/') {
				tok = token.SLASHSLASH
			}

		case '!':
			tok = token.BANG
			if s.advanceIf('=') {
				tok = token.NEQ
			}

		case '=':
			tok = token.EQ
			if s.advanceIf('=') {
				tok = token.EQEQ
			}

		case '<':
			tok = token.LT
			if s.advanceIf('=') {
				tok = token.LE
			}

		case '>':
			tok = token.GT
			if s.advanceIf('=') {
				tok = token.GE
			}

		case '|':
			tok = token.PIPE
			if s.advanceIf('|') {
				tok = token.PIPEPIPE
			}

		case '&':
			if s.advanceIf('&') {
				tok = token.AMPAMP
			} else {
				s.errorf(start, "illegal character %#U", cur)
				tok = token.ILLEGAL
			}

		case '.':
			tok = token.DOT
			if s.advanceIf('.') {
				if s.advanceIf('.') {
					tok = token.ELLIPSIS
				} else {
					s.error(start, "illegal punctuation '..'")
					tok = token.ILLEGAL
				}
			}

		default:
			s.errorf(start, "illegal character %#U", cur)
			tok = token.ILLEGAL
		}

		raw := tok.String()
		if tok == token.ILLEGAL {
			raw = string(s.src[start:s.off])
		}
		*tokVal = token.Value{Raw: raw, Pos: pos}
	}
	return tok
}

func (s *Scanner) ident() string {
	start := s.off
	for isLetter(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) skipWhitespace() {
	for isWhitespace(s.cur) {
		s.advance()
	}
}

func isWhitespace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }
