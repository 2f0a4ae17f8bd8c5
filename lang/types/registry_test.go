package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrimitivesAreSingletons(t *testing.T) {
	r := NewRegistry()
	require.Same(t, r.Int(), r.Int())
	require.Same(t, r.Float(), r.Float())
	require.NotSame(t, r.Int(), r.Float())
}

func TestArrayCanonicalisation(t *testing.T) {
	r := NewRegistry()
	a1 := r.Array(r.Int())
	a2 := r.Array(r.Int())
	require.Same(t, a1, a2)

	a3 := r.Array(r.Float())
	require.NotSame(t, a1, a3)
}

func TestMapCanonicalisation(t *testing.T) {
	r := NewRegistry()
	m1 := r.Map(r.String(), r.Int())
	m2 := r.Map(r.String(), r.Int())
	require.Same(t, m1, m2)

	m3 := r.Map(r.Int(), r.String())
	require.NotSame(t, m1, m3)
}

func TestFunctionCanonicalisation(t *testing.T) {
	r := NewRegistry()
	f1 := r.Function(r.Int(), []*Type{r.Int(), r.Float()})
	f2 := r.Function(r.Int(), []*Type{r.Int(), r.Float()})
	require.Same(t, f1, f2)

	f3 := r.Function(r.Int(), []*Type{r.Float(), r.Int()})
	require.NotSame(t, f1, f3)
}

func TestUserForwardReferenceBinding(t *testing.T) {
	r := NewRegistry()
	placeholder := r.User("Pair")
	require.Equal(t, User, placeholder.Kind)
	require.False(t, r.IsBound("Pair"))

	st := r.Struct("Pair", []Member{
		{Name: "a", Index: 0, Type: r.Int()},
		{Name: "b", Index: 1, Type: r.Int()},
	})

	require.True(t, r.IsBound("Pair"))
	require.Same(t, st, placeholder.Resolved)
	require.Same(t, st, placeholder.Underlying())

	// a later User() call for an already-bound name returns the struct itself
	require.Same(t, st, r.User("Pair"))
}

func TestAssignable(t *testing.T) {
	r := NewRegistry()

	ok, cast := Assignable(r.Int(), r.Int())
	require.True(t, ok)
	require.False(t, cast)

	ok, cast = Assignable(r.Float(), r.Int())
	require.True(t, ok)
	require.True(t, cast)

	ok, _ = Assignable(r.Int(), r.Float())
	require.False(t, ok)

	ok, _ = Assignable(r.Any(), r.Int())
	require.True(t, ok)

	union := r.Union("U", []*Type{r.Int(), r.String()})
	ok, cast = Assignable(union, r.Int())
	require.True(t, ok)
	require.False(t, cast)

	ok, _ = Assignable(union, r.Float())
	require.False(t, ok)

	ok, _ = Assignable(r.Int(), r.Invalid())
	require.False(t, ok)
}

func TestBinaryNumericResult(t *testing.T) {
	r := NewRegistry()
	res, castL, castR := BinaryNumericResult(r.Int(), r.Float())
	require.Same(t, r.Float(), res)
	require.True(t, castL)
	require.False(t, castR)

	res, castL, castR = BinaryNumericResult(r.Bool(), r.Int())
	require.Same(t, r.Int(), res)
	require.True(t, castL)
	require.False(t, castR)

	res, castL, castR = BinaryNumericResult(r.Int(), r.Int())
	require.Same(t, r.Int(), res)
	require.False(t, castL)
	require.False(t, castR)
}
