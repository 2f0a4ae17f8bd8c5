package compiler

// UpvalueDesc describes one captured variable of a closure, as encoded
// by a CLOSURE instruction's inline descriptor list (u16 index, u8
// local-flag, repeated): Index is either a frame-relative local slot in
// the immediately enclosing function (IsLocal true) or a slot in that
// function's own upvalue list (IsLocal false, chaining through).
type UpvalueDesc struct {
	Index   uint16
	IsLocal bool
}

// Chunk is the compiled bytecode of a single function, one per
// function: a flat byte stream of opcodes and their inline operands,
// plus the static metadata the machine needs to set up a call frame and
// to decode a CLOSURE instruction that targets it.
type Chunk struct {
	Name      string
	Code      []byte
	NumParams int
	Upvalues  []UpvalueDesc // this function's own captures, empty for a non-closure
}

// GlobalSlot is one entry of a Program's global table, pushing every
// function object in the package so globals are resolvable by slot. A
// native function has no Chunk of its own: the embedding host binds a
// machine.NativeFunc to Name (machine.RegisterNative) instead — a native function
// contributes no chunk, only a name the package resolves at run time.
type GlobalSlot struct {
	Name       string
	IsNative   bool
	FuncIndex  int // index into Program.Functions, valid when !IsNative
}

// Program is the compiled output of one source chunk: every function's
// bytecode (top-level functions, nested closures and struct
// constructors alike all live in Functions, referenced by index), the
// global table addressed by GLOBAL_GET, and the string constant pool
// STRING_LITERAL indexes into.
type Program struct {
	Name      string
	Functions []*Chunk
	Globals   []GlobalSlot
	Strings   []byte

	stringOffsets map[string]uint64 // compile-time interning, not part of the serialized form
}

// internString returns the (offset, length) of s within Strings,
// appending it if this is the first occurrence (spec is silent on
// whether string constants dedupe; interning is a reasonable default
// that avoids bloating Strings with repeated literals).
func (p *Program) internString(s string) (offset uint64, length uint32) {
	if p.stringOffsets == nil {
		p.stringOffsets = make(map[string]uint64)
	}
	if off, ok := p.stringOffsets[s]; ok {
		return off, uint32(len(s))
	}
	off := uint64(len(p.Strings))
	p.Strings = append(p.Strings, s...)
	p.stringOffsets[s] = off
	return off, uint32(len(s))
}
