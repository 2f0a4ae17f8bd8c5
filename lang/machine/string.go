package machine

// StringObj is the heap representation of a Matiria string. Strings are
// immutable once constructed.
type StringObj struct {
	Bytes []byte
}

func (*StringObj) heapObject() {}

// NewString constructs a Value wrapping a copy of s.
func NewString(s string) Value {
	return fromObject(KindString, &StringObj{Bytes: []byte(s)})
}

// Len returns the string's length in bytes, as reported by the nativelib
// len binding. String indexing does not consult it: it always fails.
func (s *StringObj) Len() int { return len(s.Bytes) }
