// Package nativelib provides the small set of native bindings every
// Matiria program can declare and call by name, the way a predeclared set
// of built-ins is made available to every module.
package nativelib

import (
	"fmt"
	"os"

	"github.com/mna/matiria/lang/machine"
)

// Register binds "print", "len" and "str" on pkg. A source file still has
// to declare each one it wants with a `...`-bodied fn, matching signature
// and all, before it can be called; Register only supplies the
// implementation.
func Register(pkg *machine.Package) {
	machine.RegisterNative(pkg, "print", natPrint)
	machine.RegisterNative(pkg, "len", natLen)
	machine.RegisterNative(pkg, "str", natStr)
}

func natPrint(th *machine.Thread, args []machine.Value) (machine.Value, error) {
	for i, a := range args {
		if i > 0 {
			fmt.Fprint(os.Stdout, " ")
		}
		fmt.Fprint(os.Stdout, a.Display())
	}
	fmt.Fprintln(os.Stdout)
	return machine.Nil, nil
}

func natLen(th *machine.Thread, args []machine.Value) (machine.Value, error) {
	v := args[0]
	switch v.Kind() {
	case machine.KindString:
		return machine.Int(int64(v.AsString().Len())), nil
	case machine.KindArray:
		return machine.Int(int64(v.AsArray().Len())), nil
	case machine.KindMap:
		return machine.Int(int64(v.AsMap().Len())), nil
	default:
		return machine.Nil, fmt.Errorf("len: invalid object operation on %s", v.Kind())
	}
}

func natStr(th *machine.Thread, args []machine.Value) (machine.Value, error) {
	return machine.NewString(args[0].Display()), nil
}
