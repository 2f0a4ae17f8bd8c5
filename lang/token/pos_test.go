package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakePosLineCol(t *testing.T) {
	p := MakePos(3, 7)
	line, col := p.LineCol()
	require.Equal(t, 3, line)
	require.Equal(t, 7, col)
	require.False(t, p.Unknown())
}

func TestPosUnknown(t *testing.T) {
	require.True(t, Pos(0).Unknown())
	require.True(t, MakePos(1, 0).Unknown())
	require.True(t, MakePos(0, 1).Unknown())
	require.False(t, MakePos(1, 1).Unknown())
}

func TestFilePosition(t *testing.T) {
	fs := NewFileSet()
	f := fs.AddFile("test.mat", -1, 20)
	// source: "abc\ndef\nghi" -- newlines at byte offsets 3 and 7, so
	// lines 2 and 3 start at offsets 4 and 8
	f.AddLine(4)
	f.AddLine(8)

	cases := []struct {
		offset   int
		wantLine int
		wantCol  int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{4, 2, 1},
		{6, 2, 3},
		{8, 3, 1},
	}
	for _, c := range cases {
		p := f.Pos(c.offset)
		line, col := p.LineCol()
		require.Equal(t, c.wantLine, line, "offset %d line", c.offset)
		require.Equal(t, c.wantCol, col, "offset %d col", c.offset)
	}

	pos := f.Position(f.Pos(4))
	require.Equal(t, Position{Filename: "test.mat", Line: 2, Col: 1}, pos)
}

func TestFileSetLookup(t *testing.T) {
	fs := NewFileSet()
	f := fs.AddFile("a.mat", -1, 0)
	require.Same(t, f, fs.File("a.mat"))
	require.Nil(t, fs.File("missing.mat"))
}
