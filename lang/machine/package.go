package machine

import "github.com/mna/matiria/lang/compiler"

// Package is a compiled program bound to its native implementations:
// Program.Globals lists every top-level name by declaration order, and
// globals mirrors it one-for-one with the resolved runtime Value (a
// Function for an ordinary declaration, a Native for a `...`-bodied one).
type Package struct {
	Program *compiler.Program
	Natives map[string]NativeFunc

	globals []Value
}

// NewPackage wraps prog; natives must be registered with RegisterNative
// before Run.
func NewPackage(prog *compiler.Program) *Package {
	return &Package{Program: prog}
}

// RegisterNative binds name, declared in pkg's source as a `...`-bodied
// function, to fn. Run fails at start time if any native global has no
// registered implementation.
func RegisterNative(pkg *Package, name string, fn NativeFunc) {
	if pkg.Natives == nil {
		pkg.Natives = make(map[string]NativeFunc)
	}
	pkg.Natives[name] = fn
}

// resolveGlobals builds pkg.globals, one Value per Program.Globals entry,
// so every top-level declaration is resolvable by slot.
func (pkg *Package) resolveGlobals() error {
	pkg.globals = make([]Value, len(pkg.Program.Globals))
	for i, g := range pkg.Program.Globals {
		if g.IsNative {
			fn, ok := pkg.Natives[g.Name]
			if !ok {
				return &RuntimeError{Message: "no native implementation registered for " + g.Name}
			}
			pkg.globals[i] = NewNative(g.Name, fn)
			continue
		}
		chunk := pkg.Program.Functions[g.FuncIndex]
		pkg.globals[i] = NewFunction(chunk, nil)
	}
	return nil
}

// Run resolves pkg's globals, locates the package-level main function, and
// invokes it with no arguments. Absence of main is a start-time error.
func Run(th *Thread, pkg *Package) (Value, error) {
	if err := pkg.resolveGlobals(); err != nil {
		return Nil, err
	}
	th.bind(pkg)
	for i, g := range pkg.Program.Globals {
		if g.Name == "main" && !g.IsNative {
			return th.callValue(pkg.globals[i], nil)
		}
	}
	return Nil, &RuntimeError{Message: "package has no main function"}
}
