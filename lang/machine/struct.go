package machine

// StructObj is the heap representation of a struct instance: a fixed-size
// slab of n member slots addressed positionally by STRUCT_GET/STRUCT_SET
// (the resolver assigns each member's positional index, so there is no
// name lookup at this layer).
type StructObj struct {
	Fields []Value
}

func (*StructObj) heapObject() {}

// NewStruct constructs a Value wrapping n member slots, populated from
// fields (CONSTRUCTOR pops exactly n values off the stack in member order).
func NewStruct(fields []Value) Value {
	return fromObject(KindStruct, &StructObj{Fields: fields})
}
