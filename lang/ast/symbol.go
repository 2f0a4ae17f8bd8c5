package ast

import (
	"github.com/mna/matiria/lang/token"
	"github.com/mna/matiria/lang/types"
)

// Symbol is the resolver's record of a declared name: the token that names
// it, its canonical type, its storage index (a local/argument slot, an
// upvalue slot, or a global slot, depending on the flags below), and the
// flags that tell the compiler how to address it.
type Symbol struct {
	Token token.Value
	Type  *types.Type
	Index int

	IsGlobal   bool // addressed as a package-level global
	IsUpvalue  bool // addressed as a closure upvalue, captured from an enclosing function
	Assignable bool // may appear on the left of an Assignment
}

// Name returns the symbol's source identifier.
func (s *Symbol) Name() string { return s.Token.Raw }
