package types

import (
	"fmt"
	"strings"

	"github.com/mna/matiria/lang/token"
)

// Registry is a canonicalising interner for Types. Every Type handed out by
// a given Registry is unique for its structural description: two calls
// describing the same array/map/function shape return the identical *Type
// pointer. Struct and Union are not interned by shape: each call allocates
// a new *Type and registers it under its name, and User returns the type
// most recently registered under that name.
//
// A Registry is not safe for concurrent use; the pipeline is single
// threaded throughout.
type Registry struct {
	voidT, boolT, intT, floatT, stringT, anyT, invalidT *Type

	arrays map[*Type]*Type
	maps   map[mapKey]*Type
	funcs  map[string]*Type
	users  map[string]*Type // both unresolved placeholders and bound struct/union
}

type mapKey struct{ key, val *Type }

// NewRegistry creates an empty, ready-to-use Registry with its primitive
// singletons already allocated.
func NewRegistry() *Registry {
	return &Registry{
		voidT:    &Type{Kind: Void},
		boolT:    &Type{Kind: Bool},
		intT:     &Type{Kind: Int},
		floatT:   &Type{Kind: Float},
		stringT:  &Type{Kind: String},
		anyT:     &Type{Kind: Any},
		invalidT: &Type{Kind: Invalid},
		arrays:   make(map[*Type]*Type),
		maps:     make(map[mapKey]*Type),
		funcs:    make(map[string]*Type),
		users:    make(map[string]*Type),
	}
}

func (r *Registry) Void() *Type    { return r.voidT }
func (r *Registry) Bool() *Type    { return r.boolT }
func (r *Registry) Int() *Type     { return r.intT }
func (r *Registry) Float() *Type   { return r.floatT }
func (r *Registry) String() *Type  { return r.stringT }
func (r *Registry) Any() *Type     { return r.anyT }
func (r *Registry) Invalid() *Type { return r.invalidT }

// FromToken returns the canonical Type denoted by a primitive type keyword
// or a literal token.
func (r *Registry) FromToken(tok token.Token) *Type {
	switch tok {
	case token.KW_INT, token.INT:
		return r.intT
	case token.KW_FLOAT, token.FLOAT:
		return r.floatT
	case token.KW_BOOL, token.TRUE, token.FALSE:
		return r.boolT
	case token.KW_STRING, token.STRING:
		return r.stringT
	case token.KW_ANY:
		return r.anyT
	default:
		return r.invalidT
	}
}

// Array returns the canonical array<elem> type.
func (r *Registry) Array(elem *Type) *Type {
	elem = elem.Underlying()
	if t, ok := r.arrays[elem]; ok {
		return t
	}
	t := &Type{Kind: Array, Elem: elem}
	r.arrays[elem] = t
	return t
}

// Map returns the canonical map<key,val> type.
func (r *Registry) Map(key, val *Type) *Type {
	key, val = key.Underlying(), val.Underlying()
	k := mapKey{key, val}
	if t, ok := r.maps[k]; ok {
		return t
	}
	t := &Type{Kind: Map, Key: key, Val: val}
	r.maps[k] = t
	return t
}

// Function returns the canonical fn(params...) -> ret type.
func (r *Registry) Function(ret *Type, params []*Type) *Type {
	ret = ret.Underlying()
	canon := make([]*Type, len(params))
	for i, p := range params {
		canon[i] = p.Underlying()
	}
	key := funcKey(ret, canon)
	if t, ok := r.funcs[key]; ok {
		return t
	}
	t := &Type{Kind: Func, Ret: ret, Params: canon}
	r.funcs[key] = t
	return t
}

func funcKey(ret *Type, params []*Type) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%p(", ret)
	for i, p := range params {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%p", p)
	}
	sb.WriteByte(')')
	return sb.String()
}

// User returns the existing struct/union registered under name, or a fresh
// unresolved placeholder Type if none is registered yet. The
// placeholder's identity stays stable: a later Struct/Union call with the
// same name binds this same Type's Resolved field rather than allocating a
// new one, so every type an earlier User call returned observes the binding.
func (r *Registry) User(name string) *Type {
	if t, ok := r.users[name]; ok {
		return t
	}
	t := &Type{Kind: User, Name: name}
	r.users[name] = t
	return t
}

// Struct registers (or rebinds) a struct type under name, with the given
// members. It returns the canonical *Type for that struct. If a User
// placeholder was already created for this name, it is bound in place.
func (r *Registry) Struct(name string, members []Member) *Type {
	t := &Type{Kind: Struct, Name: name, Members: members}
	r.bindUser(name, t)
	return t
}

// Union registers (or rebinds) a union type under name, with the given
// alternatives. It returns the canonical *Type for that union.
func (r *Registry) Union(name string, alts []*Type) *Type {
	t := &Type{Kind: Union, Name: name, Alts: alts}
	r.bindUser(name, t)
	return t
}

func (r *Registry) bindUser(name string, target *Type) {
	if placeholder, ok := r.users[name]; ok && placeholder.Kind == User {
		placeholder.Resolved = target
	}
	r.users[name] = target
}

// IsBound reports whether the name refers to an already-registered
// struct/union, as opposed to a still-dangling User placeholder or an
// unknown name entirely.
func (r *Registry) IsBound(name string) bool {
	t, ok := r.users[name]
	if !ok {
		return false
	}
	return t.Kind == Struct || t.Kind == Union || (t.Kind == User && t.Resolved != nil)
}
