package scanner

import (
	"strconv"

	"github.com/mna/matiria/lang/token"
)

// number scans an integer or float literal starting at the scanner's
// current position. A '.' is part of the literal only if followed by a
// digit; otherwise the digits scanned so far form an integer and the '.'
// is left for the next Scan call to tokenize as DOT.
func (s *Scanner) number(pos token.Pos) (token.Token, token.Value) {
	start := s.off

	for isDigit(s.cur) {
		s.advance()
	}

	tok := token.INT
	if s.cur == '.' && isDigit(rune(s.peek())) {
		tok = token.FLOAT
		s.advance() // consume '.'
		for isDigit(s.cur) {
			s.advance()
		}
	}

	lit := string(s.src[start:s.off])
	val := token.Value{Raw: lit, Pos: pos}
	switch tok {
	case token.INT:
		n, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			s.error(start, "integer literal value out of range")
		}
		val.Int = n
	case token.FLOAT:
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			s.error(start, "float literal value out of range")
		}
		val.Float = f
	}
	return tok, val
}
