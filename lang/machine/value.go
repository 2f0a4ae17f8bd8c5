package machine

import (
	"fmt"
	"math"
)

// Kind tags a Value's runtime representation: a tagged union of
// int/float/bool/object-pointer/nil.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindMap
	KindStruct
	KindFunction
	KindNative
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindStruct:
		return "struct"
	case KindFunction:
		return "function"
	case KindNative:
		return "native"
	default:
		return "invalid"
	}
}

// heapObject is implemented by every reference-typed payload a Value may
// carry; it exists only to keep Value.obj from accepting an arbitrary any.
type heapObject interface {
	heapObject()
}

// Value is the tagged union manipulated by the machine: num carries a
// bool/int/float bit pattern directly, obj carries a heap reference for
// string/array/map/struct/function/native kinds. A Value's meaning is
// entirely determined by kind; num and obj are never aliased across kinds.
type Value struct {
	kind Kind
	num  uint64
	obj  heapObject
}

// Nil is the single nil value.
var Nil = Value{kind: KindNil}

// Bool constructs a Value of kind bool.
func Bool(b bool) Value {
	var n uint64
	if b {
		n = 1
	}
	return Value{kind: KindBool, num: n}
}

// Int constructs a Value of kind int.
func Int(i int64) Value { return Value{kind: KindInt, num: uint64(i)} }

// Float constructs a Value of kind float.
func Float(f float64) Value { return Value{kind: KindFloat, num: math.Float64bits(f)} }

func fromObject(k Kind, o heapObject) Value { return Value{kind: k, obj: o} }

// Kind reports v's runtime kind.
func (v Value) Kind() Kind { return v.kind }

// AsBool returns v's bool payload; the caller must know v.Kind() == KindBool.
func (v Value) AsBool() bool { return v.num != 0 }

// AsInt returns v's int payload; the caller must know v.Kind() == KindInt.
func (v Value) AsInt() int64 { return int64(v.num) }

// AsFloat returns v's float payload; the caller must know v.Kind() == KindFloat.
func (v Value) AsFloat() float64 { return math.Float64frombits(v.num) }

// AsString returns v's string object; the caller must know v.Kind() == KindString.
func (v Value) AsString() *StringObj { return v.obj.(*StringObj) }

// AsArray returns v's array object; the caller must know v.Kind() == KindArray.
func (v Value) AsArray() *ArrayObj { return v.obj.(*ArrayObj) }

// AsMap returns v's map object; the caller must know v.Kind() == KindMap.
func (v Value) AsMap() *MapObj { return v.obj.(*MapObj) }

// AsStruct returns v's struct object; the caller must know v.Kind() == KindStruct.
func (v Value) AsStruct() *StructObj { return v.obj.(*StructObj) }

// AsFunction returns v's function object; the caller must know
// v.Kind() == KindFunction.
func (v Value) AsFunction() *FunctionObj { return v.obj.(*FunctionObj) }

// AsNative returns v's native object; the caller must know v.Kind() == KindNative.
func (v Value) AsNative() *NativeObj { return v.obj.(*NativeObj) }

// Truth reports v's truthiness as a JMP_Z/AND/OR/NOT operand. The
// validator lets a bool, int or float reach a condition position; a
// number is true when it is non-zero. Any other kind is false.
func (v Value) Truth() bool {
	switch v.kind {
	case KindBool, KindInt:
		return v.num != 0
	case KindFloat:
		return v.AsFloat() != 0
	default:
		return false
	}
}

// Equal reports whether v and y are the same value, by identity for
// reference kinds (arrays, maps, structs, functions) and by value for
// everything else. It never fails: Matiria has no user-defined equality.
func (v Value) Equal(y Value) bool {
	if v.kind != y.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool, KindInt:
		return v.num == y.num
	case KindFloat:
		return v.AsFloat() == y.AsFloat()
	case KindString:
		return string(v.AsString().Bytes) == string(y.AsString().Bytes)
	default:
		return v.obj == y.obj
	}
}

// Display renders v for debugging and for the nativelib str/print bindings.
func (v Value) Display() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return fmt.Sprintf("%t", v.AsBool())
	case KindInt:
		return fmt.Sprintf("%d", v.AsInt())
	case KindFloat:
		return fmt.Sprintf("%g", v.AsFloat())
	case KindString:
		return string(v.AsString().Bytes)
	case KindArray:
		a := v.AsArray()
		s := "["
		for i, e := range a.Elems {
			if i > 0 {
				s += ", "
			}
			s += e.Display()
		}
		return s + "]"
	case KindMap:
		return "map"
	case KindStruct:
		return "struct"
	case KindFunction:
		return fmt.Sprintf("function(%s)", v.AsFunction().Chunk.Name)
	case KindNative:
		return fmt.Sprintf("native(%s)", v.AsNative().Name)
	default:
		return "?"
	}
}
