package machine

import (
	"fmt"

	"github.com/mna/matiria/lang/compiler"
)

func overflowErr() error { return &RuntimeError{Message: "stack overflow"} }

// Thread is one single-threaded, deterministic execution context: one
// shared value stack plus a Go-level call depth counter and an instruction
// step counter, both bounded by Limits. pkgStrings/pkgGlobals/pkgFunctions
// are bound once per Run, giving run's dispatch loop direct access to the
// executing Package's constant pool, global table and function table
// without threading a Package pointer through every recursive call.
type Thread struct {
	Limits Limits

	stack []Value
	sp    int

	callDepth int
	steps     int64

	pkgStrings   []byte
	pkgGlobals   []Value
	pkgFunctions []*compiler.Chunk
}

// NewThread constructs a Thread with a value stack sized by lim.
func NewThread(lim Limits) *Thread {
	return &Thread{Limits: lim, stack: make([]Value, lim.MaxStackDepth)}
}

// bind attaches pkg's compiled program data to th, ahead of executing any
// of its chunks.
func (th *Thread) bind(pkg *Package) {
	th.pkgStrings = pkg.Program.Strings
	th.pkgGlobals = pkg.globals
	th.pkgFunctions = pkg.Program.Functions
}

func (th *Thread) push(v Value) error {
	if th.sp >= len(th.stack) {
		return overflowErr()
	}
	th.stack[th.sp] = v
	th.sp++
	return nil
}

func (th *Thread) pop() Value {
	th.sp--
	return th.stack[th.sp]
}

func (th *Thread) bumpStep() error {
	th.steps++
	if th.steps > th.Limits.MaxSteps {
		return &RuntimeError{Message: fmt.Sprintf("exceeded maximum step count (%d)", th.Limits.MaxSteps)}
	}
	return nil
}

// callValue invokes callee with args. Unlike the bytecode CALL opcode
// (handled directly in run, which reuses argument slots already on the
// stack), callValue is the Go-level entry point used for the program's
// initial call to main and for any native function that calls back into a
// Matiria function value.
func (th *Thread) callValue(callee Value, args []Value) (Value, error) {
	switch callee.Kind() {
	case KindFunction:
		fo := callee.AsFunction()
		if fo.Chunk.NumParams != len(args) {
			return Nil, &RuntimeError{Message: fmt.Sprintf("function %s expects %d argument(s), got %d", fo.Chunk.Name, fo.Chunk.NumParams, len(args))}
		}
		th.callDepth++
		if th.callDepth > th.Limits.MaxCallDepth {
			th.callDepth--
			return Nil, overflowErr()
		}
		base := th.sp
		for _, a := range args {
			if err := th.push(a); err != nil {
				th.callDepth--
				return Nil, err
			}
		}
		res, err := th.run(fo, base)
		th.callDepth--
		return res, err
	case KindNative:
		return callee.AsNative().Fn(th, args)
	default:
		return Nil, &RuntimeError{Message: fmt.Sprintf("call to non-callable value of type %s", callee.Kind())}
	}
}
