package machine

// ArrayObj is the heap representation of a Matiria array, growing on
// append. Elements are addressed by a zero-based int index via
// INDEX_GET/INDEX_SET.
type ArrayObj struct {
	Elems []Value
}

func (*ArrayObj) heapObject() {}

// NewArray constructs a Value wrapping elems. Callers must not modify
// elems after the call.
func NewArray(elems []Value) Value {
	return fromObject(KindArray, &ArrayObj{Elems: elems})
}

func (a *ArrayObj) Len() int { return len(a.Elems) }
