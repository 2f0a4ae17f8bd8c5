// Package types implements Matiria's canonicalising type registry: a store
// of resolved types shared by the parser and validator, where
// structurally-equal types always resolve to the same *Type identity, so
// downstream phases can compare types by pointer rather than by deep
// structural equality.
package types

import (
	"fmt"
	"strings"
)

// Kind discriminates the variants a Type can take.
type Kind uint8

const (
	Void Kind = iota
	Bool
	Int
	Float
	String
	Any
	Array
	Map
	Func
	User    // forward reference to a struct/union not yet bound
	Struct
	Union
	Invalid
)

func (k Kind) String() string {
	switch k {
	case Void:
		return "void"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Any:
		return "any"
	case Array:
		return "array"
	case Map:
		return "map"
	case Func:
		return "fn"
	case User:
		return "user"
	case Struct:
		return "struct"
	case Union:
		return "union"
	default:
		return "invalid"
	}
}

// Member is one positional field of a struct type.
type Member struct {
	Name  string
	Index int
	Type  *Type
}

// Type is a canonicalised, identity-comparable type value. Every Type
// reachable from a compilation comes from the Registry that created it;
// two calls describing the same array, map or function shape return the
// same *Type (struct and union types are registered by name; see Registry).
type Type struct {
	Kind Kind

	// Array
	Elem *Type

	// Map
	Key, Val *Type

	// Func
	Params []*Type
	Ret    *Type

	// User / Struct / Union: Name is the declared identifier.
	Name string

	// Struct
	Members []Member

	// Union
	Alts []*Type

	// User: once the registry binds a matching struct/union declaration,
	// Resolved points at it; nil while still a forward reference.
	Resolved *Type
}

// Underlying returns t, or t.Resolved if t is a resolved User placeholder,
// recursively. It is the identity type for anything that isn't a User.
func (t *Type) Underlying() *Type {
	for t != nil && t.Kind == User && t.Resolved != nil {
		t = t.Resolved
	}
	return t
}

// IsAny reports whether t is the `any` type.
func (t *Type) IsAny() bool { return t != nil && t.Kind == Any }

// IsInvalid reports whether t is nil or the `invalid` sentinel type.
func (t *Type) IsInvalid() bool { return t == nil || t.Kind == Invalid }

// IsNumeric reports whether t's underlying kind is one of bool, int, float
// (the types that participate in implicit numeric promotion).
func (t *Type) IsNumeric() bool {
	switch t.Underlying().Kind {
	case Bool, Int, Float:
		return true
	default:
		return false
	}
}

// Rank orders the numeric types for promotion purposes: bool < int <
// float. Non-numeric types rank -1.
func (t *Type) Rank() int {
	switch t.Underlying().Kind {
	case Bool:
		return 0
	case Int:
		return 1
	case Float:
		return 2
	default:
		return -1
	}
}

// String renders a human-readable, stable-for-a-given-identity description
// of the type, used in diagnostics.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case Void, Bool, Int, Float, String, Any, Invalid:
		return t.Kind.String()
	case Array:
		return "[" + t.Elem.String() + "]"
	case Map:
		return "[" + t.Key.String() + "," + t.Val.String() + "]"
	case Func:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), t.Ret.String())
	case User:
		if t.Resolved != nil {
			return t.Resolved.String()
		}
		return t.Name
	case Struct:
		return t.Name
	case Union:
		return t.Name
	default:
		return "invalid"
	}
}

// Equal reports whether t and other are the same canonical identity. It is
// provided for readability at call sites; it is always equivalent to `t ==
// other` given the canonicalisation invariant, except it also treats a
// resolved User placeholder as equal to its target.
func (t *Type) Equal(other *Type) bool {
	return t.Underlying() == other.Underlying()
}
