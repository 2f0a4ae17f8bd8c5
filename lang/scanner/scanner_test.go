package scanner

import (
	"testing"

	"github.com/mna/matiria/lang/token"
	"github.com/stretchr/testify/require"
)

func scanOne(t *testing.T, src string) (token.Token, token.Value) {
	t.Helper()
	fs := token.NewFileSet()
	f := fs.AddFile("test.mat", -1, len(src))
	var s Scanner
	var errs ErrorList
	s.Init(f, []byte(src), errs.Add)
	var val token.Value
	tok := s.Scan(&val)
	require.NoError(t, errs.Err())
	return tok, val
}

func TestScanPunctuation(t *testing.T) {
	cases := map[string]token.Token{
		"+": token.PLUS, "-": token.MINUS, "*": token.STAR, "/": token.SLASH,
		"//": token.SLASHSLASH, "%": token.PERCENT, ",": token.COMMA,
		":": token.COLON, ";": token.SEMI, ".": token.DOT,
		"(": token.LPAREN, ")": token.RPAREN, "[": token.LBRACK, "]": token.RBRACK,
		"{": token.LBRACE, "}": token.RBRACE, "!": token.BANG, "=": token.EQ,
		"<": token.LT, ">": token.GT, "->": token.ARROW, "!=": token.NEQ,
		"==": token.EQEQ, "<=": token.LE, ">=": token.GE, ":=": token.WALRUS,
		"...": token.ELLIPSIS, "|": token.PIPE, "&&": token.AMPAMP, "||": token.PIPEPIPE,
	}
	for src, want := range cases {
		t.Run(src, func(t *testing.T) {
			tok, val := scanOne(t, src)
			require.Equal(t, want, tok)
			require.Equal(t, src, val.Raw)
		})
	}
}

func TestScanKeywordsAndIdents(t *testing.T) {
	cases := map[string]token.Token{
		"if": token.IF, "else": token.ELSE, "while": token.WHILE, "for": token.FOR,
		"fn": token.FN, "return": token.RETURN, "true": token.TRUE, "false": token.FALSE,
		"type": token.TYPE, "Int": token.KW_INT, "Float": token.KW_FLOAT,
		"Bool": token.KW_BOOL, "String": token.KW_STRING, "Any": token.KW_ANY,
		"x": token.IDENT, "_foo": token.IDENT, "foo_Bar2": token.IDENT,
	}
	for src, want := range cases {
		t.Run(src, func(t *testing.T) {
			tok, _ := scanOne(t, src)
			require.Equal(t, want, tok)
		})
	}
}

func TestScanNumbers(t *testing.T) {
	tok, val := scanOne(t, "123")
	require.Equal(t, token.INT, tok)
	require.Equal(t, int64(123), val.Int)

	tok, val = scanOne(t, "12.5")
	require.Equal(t, token.FLOAT, tok)
	require.Equal(t, 12.5, val.Float)
}

func TestScanDotNotFollowedByDigitIsDot(t *testing.T) {
	fs := token.NewFileSet()
	src := "5.foo"
	f := fs.AddFile("test.mat", -1, len(src))
	var s Scanner
	var errs ErrorList
	s.Init(f, []byte(src), errs.Add)

	var val token.Value
	tok := s.Scan(&val)
	require.Equal(t, token.INT, tok)
	require.Equal(t, int64(5), val.Int)

	tok = s.Scan(&val)
	require.Equal(t, token.DOT, tok)

	tok = s.Scan(&val)
	require.Equal(t, token.IDENT, tok)
	require.Equal(t, "foo", val.Raw)
}

func TestScanString(t *testing.T) {
	tok, val := scanOne(t, "'hello world'")
	require.Equal(t, token.STRING, tok)
	require.Equal(t, "hello world", val.String)
}

func TestScanUnterminatedString(t *testing.T) {
	fs := token.NewFileSet()
	src := "'oops"
	f := fs.AddFile("test.mat", -1, len(src))
	var s Scanner
	var errs ErrorList
	s.Init(f, []byte(src), errs.Add)
	var val token.Value
	s.Scan(&val)
	require.Error(t, errs.Err())
}

func TestScanComment(t *testing.T) {
	fs := token.NewFileSet()
	src := "# a comment\n123"
	f := fs.AddFile("test.mat", -1, len(src))
	var s Scanner
	var errs ErrorList
	s.Init(f, []byte(src), errs.Add)

	var val token.Value
	tok := s.Scan(&val)
	require.Equal(t, token.COMMENT, tok)
	require.Equal(t, "# a comment", val.Raw)

	tok = s.Scan(&val)
	require.Equal(t, token.INT, tok)
}

func TestScanIllegalCharacter(t *testing.T) {
	fs := token.NewFileSet()
	src := "@"
	f := fs.AddFile("test.mat", -1, len(src))
	var s Scanner
	var errs ErrorList
	s.Init(f, []byte(src), errs.Add)
	var val token.Value
	tok := s.Scan(&val)
	require.Equal(t, token.ILLEGAL, tok)
	require.Error(t, errs.Err())
}

func TestScanEOFIsIdempotent(t *testing.T) {
	fs := token.NewFileSet()
	f := fs.AddFile("empty.mat", -1, 0)
	var s Scanner
	var errs ErrorList
	s.Init(f, []byte{}, errs.Add)
	var val token.Value
	for i := 0; i < 3; i++ {
		tok := s.Scan(&val)
		require.Equal(t, token.EOF, tok)
	}
}

func TestScanAll(t *testing.T) {
	fs := token.NewFileSet()
	src := "fn main() -> Int { return 1; }"
	f := fs.AddFile("test.mat", -1, len(src))
	toks, err := ScanAll(f, []byte(src))
	require.NoError(t, err)
	require.Equal(t, token.EOF, toks[len(toks)-1].Token)
	require.Equal(t, token.FN, toks[0].Token)
}
