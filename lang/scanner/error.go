package scanner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mna/matiria/lang/token"
)

// Error is a single lexical error at a resolved source position, in the
// shape of go/scanner.Error adapted to this package's own token.Position
// (go/scanner's Position carries a byte Offset this package's Pos doesn't
// track, so it can't be reused directly).
type Error struct {
	Pos token.Position
	Msg string
}

func (e Error) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// ErrorList accumulates Errors scanned from a single file, following
// go/scanner.ErrorList's Add/Sort/Err accumulation pattern.
type ErrorList []*Error

// Add appends an error at pos to the list.
func (l *ErrorList) Add(pos token.Position, msg string) {
	*l = append(*l, &Error{Pos: pos, Msg: msg})
}

func (l ErrorList) Len() int      { return len(l) }
func (l ErrorList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }

func (l ErrorList) Less(i, j int) bool {
	a, b := l[i].Pos, l[j].Pos
	if a.Filename != b.Filename {
		return a.Filename < b.Filename
	}
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Col < b.Col
}

// Sort orders the list by file position.
func (l ErrorList) Sort() { sort.Sort(l) }

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (and %d more errors)", l[0], len(l)-1)
	return b.String()
}

// Err returns l as an error if it holds any entries, nil otherwise.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
