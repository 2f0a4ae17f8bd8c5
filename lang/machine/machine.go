// Package machine implements the virtual machine that executes the
// bytecode-compiled form of Matiria source: a stack-based interpreter over
// the chunks produced by lang/compiler.
package machine

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/mna/matiria/lang/compiler"
)

// run executes fn's chunk starting with its arguments already laid out on
// th.stack at [base, base+NumParams), and returns once RETURN is reached:
// it pops the result, truncates the stack to the frame base, and returns
// that result. run is called both by Run's call to main (via callValue) and
// recursively by the CALL opcode handler below.
func (th *Thread) run(fo *FunctionObj, base int) (Value, error) {
	fr := &Frame{fn: fo, base: base}
	chunk := fr.fn.Chunk
	code := chunk.Code
	th.sp = fr.base + chunk.NumParams

	for {
		if err := th.bumpStep(); err != nil {
			return Nil, err
		}

		op := compiler.Opcode(code[fr.pc])
		fr.pc++

		switch op {
		case compiler.NOP:

		case compiler.INT:
			v := int64(binary.LittleEndian.Uint64(code[fr.pc:]))
			fr.pc += 8
			if err := th.push(Int(v)); err != nil {
				return Nil, err
			}

		case compiler.FLOAT:
			bits := binary.LittleEndian.Uint64(code[fr.pc:])
			fr.pc += 8
			if err := th.push(Float(math.Float64frombits(bits))); err != nil {
				return Nil, err
			}

		case compiler.STRING_LITERAL:
			off := binary.LittleEndian.Uint64(code[fr.pc:])
			length := binary.LittleEndian.Uint32(code[fr.pc+8:])
			fr.pc += 12
			if err := th.push(NewString(string(th.pkgStrings[off : off+uint64(length)]))); err != nil {
				return Nil, err
			}

		case compiler.EMPTY_STRING:
			if err := th.push(NewString("")); err != nil {
				return Nil, err
			}

		case compiler.TRUE:
			if err := th.push(Bool(true)); err != nil {
				return Nil, err
			}

		case compiler.FALSE:
			if err := th.push(Bool(false)); err != nil {
				return Nil, err
			}

		case compiler.NIL:
			if err := th.push(Nil); err != nil {
				return Nil, err
			}

		case compiler.EMPTY_ARRAY:
			if err := th.push(NewArray(nil)); err != nil {
				return Nil, err
			}

		case compiler.EMPTY_MAP:
			if err := th.push(NewMap(0)); err != nil {
				return Nil, err
			}

		case compiler.ARRAY_LITERAL:
			n := int(code[fr.pc])
			fr.pc++
			elems := make([]Value, n)
			copy(elems, th.stack[th.sp-n:th.sp])
			th.sp -= n
			if err := th.push(NewArray(elems)); err != nil {
				return Nil, err
			}

		case compiler.MAP_LITERAL:
			n := int(code[fr.pc])
			fr.pc++
			mv := NewMap(n)
			m := mv.AsMap()
			mapBase := th.sp - 2*n
			for i := 0; i < n; i++ {
				k := th.stack[mapBase+2*i]
				v := th.stack[mapBase+2*i+1]
				if err := m.Set(k, v); err != nil {
					return Nil, &RuntimeError{Message: err.Error()}
				}
			}
			th.sp = mapBase
			if err := th.push(mv); err != nil {
				return Nil, err
			}

		case compiler.NOT:
			top := th.sp - 1
			th.stack[top] = Bool(!th.stack[top].Truth())

		case compiler.NEGATE_I:
			top := th.sp - 1
			th.stack[top] = Int(-th.stack[top].AsInt())

		case compiler.NEGATE_F:
			top := th.sp - 1
			th.stack[top] = Float(-th.stack[top].AsFloat())

		case compiler.ADD_I, compiler.SUB_I, compiler.MUL_I, compiler.DIV_I, compiler.MOD_I:
			y := th.pop()
			x := th.pop()
			v, err := intBinop(op, x.AsInt(), y.AsInt())
			if err != nil {
				return Nil, err
			}
			if err := th.push(v); err != nil {
				return Nil, err
			}

		case compiler.ADD_F, compiler.SUB_F, compiler.MUL_F, compiler.DIV_F:
			y := th.pop()
			x := th.pop()
			if err := th.push(Float(floatBinop(op, x.AsFloat(), y.AsFloat()))); err != nil {
				return Nil, err
			}

		case compiler.LESS_I, compiler.GREATER_I, compiler.EQUAL_I:
			y := th.pop()
			x := th.pop()
			if err := th.push(Bool(intCompare(op, x.AsInt(), y.AsInt()))); err != nil {
				return Nil, err
			}

		case compiler.LESS_F, compiler.GREATER_F, compiler.EQUAL_F:
			y := th.pop()
			x := th.pop()
			if err := th.push(Bool(floatCompare(op, x.AsFloat(), y.AsFloat()))); err != nil {
				return Nil, err
			}

		case compiler.GET:
			idx := binary.LittleEndian.Uint16(code[fr.pc:])
			fr.pc += 2
			if err := th.push(th.stack[fr.base+int(idx)]); err != nil {
				return Nil, err
			}

		case compiler.SET:
			idx := binary.LittleEndian.Uint16(code[fr.pc:])
			fr.pc += 2
			th.stack[fr.base+int(idx)] = th.pop()

		case compiler.UPVALUE_GET:
			idx := binary.LittleEndian.Uint16(code[fr.pc:])
			fr.pc += 2
			if err := th.push(fr.fn.Upvalues[idx]); err != nil {
				return Nil, err
			}

		case compiler.UPVALUE_SET:
			idx := binary.LittleEndian.Uint16(code[fr.pc:])
			fr.pc += 2
			fr.fn.Upvalues[idx] = th.pop()

		case compiler.GLOBAL_GET:
			idx := binary.LittleEndian.Uint16(code[fr.pc:])
			fr.pc += 2
			if err := th.push(th.pkgGlobals[idx]); err != nil {
				return Nil, err
			}

		case compiler.INDEX_GET:
			key := th.pop()
			recv := th.pop()
			v, err := indexGet(recv, key)
			if err != nil {
				return Nil, err
			}
			if err := th.push(v); err != nil {
				return Nil, err
			}

		case compiler.INDEX_SET:
			val := th.pop()
			key := th.pop()
			recv := th.pop()
			if err := indexSet(recv, key, val); err != nil {
				return Nil, err
			}

		case compiler.STRUCT_GET:
			idx := binary.LittleEndian.Uint16(code[fr.pc:])
			fr.pc += 2
			recv := th.pop()
			if recv.Kind() != KindStruct {
				return Nil, &RuntimeError{Message: "invalid object operation: struct field access on " + recv.Kind().String()}
			}
			if err := th.push(recv.AsStruct().Fields[idx]); err != nil {
				return Nil, err
			}

		case compiler.STRUCT_SET:
			idx := binary.LittleEndian.Uint16(code[fr.pc:])
			fr.pc += 2
			val := th.pop()
			recv := th.pop()
			if recv.Kind() != KindStruct {
				return Nil, &RuntimeError{Message: "invalid object operation: struct field access on " + recv.Kind().String()}
			}
			recv.AsStruct().Fields[idx] = val

		case compiler.JMP:
			off := int16(binary.LittleEndian.Uint16(code[fr.pc:]))
			fr.pc += 2
			fr.pc += int(off)

		case compiler.JMP_Z:
			off := int16(binary.LittleEndian.Uint16(code[fr.pc:]))
			fr.pc += 2
			cond := th.pop()
			if !cond.Truth() {
				fr.pc += int(off)
			}

		case compiler.AND:
			off := int16(binary.LittleEndian.Uint16(code[fr.pc:]))
			fr.pc += 2
			if !th.stack[th.sp-1].Truth() {
				fr.pc += int(off)
			} else {
				th.sp--
			}

		case compiler.OR:
			off := int16(binary.LittleEndian.Uint16(code[fr.pc:]))
			fr.pc += 2
			if th.stack[th.sp-1].Truth() {
				fr.pc += int(off)
			} else {
				th.sp--
			}

		case compiler.POP:
			th.sp--

		case compiler.POP_V:
			n := binary.LittleEndian.Uint16(code[fr.pc:])
			fr.pc += 2
			th.sp -= int(n)

		case compiler.CALL:
			argc := int(code[fr.pc])
			fr.pc++
			callee := th.stack[th.sp-1]
			callBase := th.sp - argc - 1
			result, err := th.dispatchCall(callee, callBase, argc)
			if err != nil {
				return Nil, err
			}
			th.sp = callBase
			if err := th.push(result); err != nil {
				return Nil, err
			}

		case compiler.RETURN:
			result := th.pop()
			th.sp = fr.base
			return result, nil

		case compiler.INT_CAST:
			top := th.sp - 1
			if v := th.stack[top]; v.Kind() == KindFloat {
				th.stack[top] = Int(int64(v.AsFloat()))
			} else {
				th.stack[top] = Int(v.AsInt())
			}

		case compiler.FLOAT_CAST:
			top := th.sp - 1
			th.stack[top] = Float(float64(th.stack[top].AsInt()))

		case compiler.CLOSURE:
			ptr := binary.LittleEndian.Uint64(code[fr.pc:])
			fr.pc += 8
			target := th.pkgFunctions[ptr]
			upvalues := make([]Value, len(target.Upvalues))
			for i := range target.Upvalues {
				idx := binary.LittleEndian.Uint16(code[fr.pc:])
				isLocal := code[fr.pc+2] != 0
				fr.pc += 3
				if isLocal {
					upvalues[i] = th.stack[fr.base+int(idx)]
				} else {
					upvalues[i] = fr.fn.Upvalues[idx]
				}
			}
			if err := th.push(NewFunction(target, upvalues)); err != nil {
				return Nil, err
			}

		case compiler.CONSTRUCTOR:
			n := int(code[fr.pc])
			fr.pc++
			fields := make([]Value, n)
			copy(fields, th.stack[th.sp-n:th.sp])
			th.sp -= n
			if err := th.push(NewStruct(fields)); err != nil {
				return Nil, err
			}

		default:
			return Nil, &RuntimeError{Message: fmt.Sprintf("invalid object operation: unknown opcode %d", op)}
		}
	}
}

// dispatchCall runs callee with the argc arguments already sitting on
// th.stack at [callBase, callBase+argc) — callee itself occupies
// callBase+argc, the bytecode CALL opcode always having pushed the
// callable last, so the new frame's base sits at top - argc - 1.
func (th *Thread) dispatchCall(callee Value, callBase, argc int) (Value, error) {
	switch callee.Kind() {
	case KindFunction:
		fo := callee.AsFunction()
		if fo.Chunk.NumParams != argc {
			return Nil, &RuntimeError{Message: fmt.Sprintf("function %s expects %d argument(s), got %d", fo.Chunk.Name, fo.Chunk.NumParams, argc)}
		}
		th.callDepth++
		if th.callDepth > th.Limits.MaxCallDepth {
			th.callDepth--
			return Nil, overflowErr()
		}
		res, err := th.run(fo, callBase)
		th.callDepth--
		return res, err
	case KindNative:
		no := callee.AsNative()
		args := make([]Value, argc)
		copy(args, th.stack[callBase:callBase+argc])
		return no.Fn(th, args)
	default:
		return Nil, &RuntimeError{Message: fmt.Sprintf("call to non-callable value of type %s", callee.Kind())}
	}
}

func intBinop(op compiler.Opcode, x, y int64) (Value, error) {
	switch op {
	case compiler.ADD_I:
		return Int(x + y), nil
	case compiler.SUB_I:
		return Int(x - y), nil
	case compiler.MUL_I:
		return Int(x * y), nil
	case compiler.DIV_I:
		if y == 0 {
			return Nil, &RuntimeError{Message: "division by zero"}
		}
		return Int(x / y), nil
	case compiler.MOD_I:
		if y == 0 {
			return Nil, &RuntimeError{Message: "division by zero"}
		}
		return Int(x % y), nil
	default:
		panic("unreachable")
	}
}

func floatBinop(op compiler.Opcode, x, y float64) float64 {
	switch op {
	case compiler.ADD_F:
		return x + y
	case compiler.SUB_F:
		return x - y
	case compiler.MUL_F:
		return x * y
	case compiler.DIV_F:
		return x / y
	default:
		panic("unreachable")
	}
}

func intCompare(op compiler.Opcode, x, y int64) bool {
	switch op {
	case compiler.LESS_I:
		return x < y
	case compiler.GREATER_I:
		return x > y
	case compiler.EQUAL_I:
		return x == y
	default:
		panic("unreachable")
	}
}

// floatCompare uses Go's native float comparisons: equality of floats uses
// native ==, inheriting Go's IEEE-754 behavior rather than special-casing
// NaN.
func floatCompare(op compiler.Opcode, x, y float64) bool {
	switch op {
	case compiler.LESS_F:
		return x < y
	case compiler.GREATER_F:
		return x > y
	case compiler.EQUAL_F:
		return x == y
	default:
		panic("unreachable")
	}
}

// indexGet implements INDEX_GET for each container kind, dispatching on
// object header kind to return by index (array) or key (map). String
// indexing is left an explicit, unconditional runtime error.
func indexGet(recv, key Value) (Value, error) {
	switch recv.Kind() {
	case KindArray:
		a := recv.AsArray()
		i := key.AsInt()
		if i < 0 || i >= int64(a.Len()) {
			return Nil, &RuntimeError{Message: "index out of range"}
		}
		return a.Elems[i], nil
	case KindMap:
		v, ok, err := recv.AsMap().Get(key)
		if err != nil {
			return Nil, &RuntimeError{Message: err.Error()}
		}
		if !ok {
			return Nil, &RuntimeError{Message: "key not found in map"}
		}
		return v, nil
	case KindString:
		return Nil, &RuntimeError{Message: "string indexing is unsupported"}
	default:
		return Nil, &RuntimeError{Message: "invalid object operation: indexing on " + recv.Kind().String()}
	}
}

func indexSet(recv, key, val Value) error {
	switch recv.Kind() {
	case KindArray:
		a := recv.AsArray()
		i := key.AsInt()
		if i < 0 || i >= int64(a.Len()) {
			return &RuntimeError{Message: "index out of range"}
		}
		a.Elems[i] = val
		return nil
	case KindMap:
		if err := recv.AsMap().Set(key, val); err != nil {
			return &RuntimeError{Message: err.Error()}
		}
		return nil
	case KindString:
		return &RuntimeError{Message: "string indexing is unsupported"}
	default:
		return &RuntimeError{Message: "invalid object operation: indexing on " + recv.Kind().String()}
	}
}
