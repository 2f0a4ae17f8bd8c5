package machine

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// MapObj is the heap representation of a Matiria map: a hash map keyed by
// value-equality of int/float/bool/string, backed by a Swiss-table map.
// The key is reduced to a plain comparable mapKey so equality and hashing
// do not depend on heapObject identity; the original Value key is kept
// alongside its value for iteration.
type MapObj struct {
	m *swiss.Map[mapKey, mapEntry]
}

func (*MapObj) heapObject() {}

// mapKey is the comparable reduction of a map key, restricted to
// bool/int/float/string; equality for object keys (struct/array) is
// unspecified, so those are rejected before a key ever reaches here.
type mapKey struct {
	kind Kind
	num  uint64
	str  string
}

type mapEntry struct {
	key Value
	val Value
}

// NewMap constructs an empty map Value with initial capacity for size
// entries.
func NewMap(size int) Value {
	return fromObject(KindMap, &MapObj{m: swiss.NewMap[mapKey, mapEntry](uint32(size))})
}

// toMapKey reduces k to its comparable form, failing if k's kind is not a
// valid map key. Struct and array keys are already rejected at validation
// time (lang/resolver); this is a machine-side sanity check, not a
// user-reachable error path.
func toMapKey(k Value) (mapKey, error) {
	switch k.Kind() {
	case KindBool, KindInt, KindFloat:
		return mapKey{kind: k.Kind(), num: k.num}, nil
	case KindString:
		return mapKey{kind: KindString, str: string(k.AsString().Bytes)}, nil
	default:
		return mapKey{}, fmt.Errorf("invalid map key type: %s", k.Kind())
	}
}

// Get returns the value associated with k, or !found if absent.
func (m *MapObj) Get(k Value) (Value, bool, error) {
	mk, err := toMapKey(k)
	if err != nil {
		return Nil, false, err
	}
	e, ok := m.m.Get(mk)
	if !ok {
		return Nil, false, nil
	}
	return e.val, true, nil
}

// Set stores v under key k, overwriting any existing entry.
func (m *MapObj) Set(k, v Value) error {
	mk, err := toMapKey(k)
	if err != nil {
		return err
	}
	m.m.Put(mk, mapEntry{key: k, val: v})
	return nil
}

func (m *MapObj) Len() int { return m.m.Count() }

// Each calls f for every entry; f must not mutate the map.
func (m *MapObj) Each(f func(k, v Value)) {
	m.m.Iter(func(_ mapKey, e mapEntry) bool {
		f(e.key, e.val)
		return false
	})
}
