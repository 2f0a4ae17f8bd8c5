package machine

import "github.com/mna/matiria/lang/compiler"

// FunctionObj is the heap representation of a compiled function value.
// Upvalues are captured by value at CLOSURE-execution time: each closure
// instance owns a private copy of what it captured, readable and writable
// in place across calls to that instance via UPVALUE_GET/SET, but never
// aliased back to the enclosing frame's own local or to a sibling closure
// that captured the same local.
type FunctionObj struct {
	Chunk    *compiler.Chunk
	Upvalues []Value
}

func (*FunctionObj) heapObject() {}

// NewFunction constructs a function Value for chunk, capturing upvalues.
func NewFunction(chunk *compiler.Chunk, upvalues []Value) Value {
	return fromObject(KindFunction, &FunctionObj{Chunk: chunk, Upvalues: upvalues})
}

// NativeFunc is the Go-side implementation of a `...`-bodied source
// function: it receives the already-popped argument values and returns
// exactly one result.
type NativeFunc func(th *Thread, args []Value) (Value, error)

// NativeObj is the heap representation of a native-bound function value.
type NativeObj struct {
	Name string
	Fn   NativeFunc
}

func (*NativeObj) heapObject() {}

// NewNative constructs a native function Value.
func NewNative(name string, fn NativeFunc) Value {
	return fromObject(KindNative, &NativeObj{Name: name, Fn: fn})
}
