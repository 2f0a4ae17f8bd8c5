package machine

// Frame is the stack region belonging to a single call (spec's glossary
// "Frame. The stack region belonging to a single call: arguments, then
// locals."): fn names the chunk being executed, base is the value-stack
// index of the first argument/local, and pc is the chunk-relative
// instruction pointer.
type Frame struct {
	fn   *FunctionObj
	base int
	pc   int
}
